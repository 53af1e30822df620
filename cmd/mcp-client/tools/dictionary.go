package tools

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// TestDictionary tests the dictionary tool
func TestDictionary(ctx context.Context, c client.MCPClient) error {
	// Define test cases covering the full operation round trip
	testCases := []struct {
		name      string
		arguments map[string]interface{}
	}{
		{
			name: "Check a correctly spelled word",
			arguments: map[string]interface{}{
				"operation": "check",
				"word":      "receive",
			},
		},
		{
			name: "Check a misspelled word",
			arguments: map[string]interface{}{
				"operation": "check",
				"word":      "recieve",
			},
		},
		{
			name: "Suggest corrections",
			arguments: map[string]interface{}{
				"operation": "suggest",
				"word":      "recieve",
			},
		},
		{
			name: "Add a project term to the user dictionary",
			arguments: map[string]interface{}{
				"operation": "add",
				"word":      "SpellWright",
			},
		},
		{
			name: "Check the added term",
			arguments: map[string]interface{}{
				"operation": "check",
				"word":      "SpellWright",
			},
		},
		{
			name: "Ignore a word for this session",
			arguments: map[string]interface{}{
				"operation": "ignore",
				"word":      "xyzzy",
			},
		},
		{
			name: "Check against a different language dictionary",
			arguments: map[string]interface{}{
				"operation": "check",
				"word":      "colour",
				"language":  "en-GB",
			},
		},
		{
			name: "Reload the user dictionary from disk",
			arguments: map[string]interface{}{
				"operation": "reload",
			},
		},
	}

	// Run test cases
	for _, tc := range testCases {
		log.Printf("Running dictionary test: %s", tc.name)

		callReq := mcp.CallToolRequest{}
		callReq.Params.Name = "dictionary"
		callReq.Params.Arguments = tc.arguments

		result, err := c.CallTool(ctx, callReq)
		if err != nil {
			log.Printf("Failed to call dictionary: %v", err)
			continue
		}

		if len(result.Content) > 0 {
			if textContent, ok := result.Content[0].(mcp.TextContent); ok {
				log.Printf("Dictionary result:\n%s", textContent.Text)
			}
		}
	}

	return nil
}
