package stats

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	// Global stats manager instance
	globalStatsManager *StatsManager
)

// InitStatsManager initializes the global stats manager
func InitStatsManager(dataDir string) error {
	statsFilePath := filepath.Join(dataDir, "stats.json")
	var err error
	globalStatsManager, err = NewStatsManager(statsFilePath)
	return err
}

// GetStatsManager returns the global stats manager
func GetStatsManager() *StatsManager {
	return globalStatsManager
}

// HandleGetStats handles requests to get tool usage statistics
func HandleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Printf("[Stats] Received request to get stats")

	if globalStatsManager == nil {
		log.Printf("[Stats] Error: stats manager not initialized")
		return nil, fmt.Errorf("stats manager not initialized")
	}

	sessionStats := globalStatsManager.GetSessionStats()
	persistentStats := globalStatsManager.GetPersistentStats()
	statsText := FormatStats(sessionStats, persistentStats)

	log.Printf("[Stats] Returning stats information")

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: statsText,
			},
		},
	}, nil
}

// RecordToolUsage records one tool call against the global manager
func RecordToolUsage(toolName string, startTime time.Time, request mcp.CallToolRequest, result *mcp.CallToolResult) {
	if globalStatsManager == nil {
		log.Printf("[Stats] Warning: stats manager not initialized, cannot record tool usage")
		return
	}

	executionTime := time.Since(startTime)
	inputTokens := estimateInputTokens(request)
	outputTokens := estimateOutputTokens(result)

	log.Printf("[Stats] Recording usage for tool '%s': execution time=%v, input tokens=%d, output tokens=%d",
		toolName, executionTime, inputTokens, outputTokens)

	if err := globalStatsManager.RecordToolUsage(toolName, executionTime, inputTokens, outputTokens); err != nil {
		// Log the error but don't fail the request
		log.Printf("[Stats] Failed to record tool usage: %v", err)
	}
}

// WrapHandler wraps a tool handler with stats tracking
func WrapHandler(toolName string, handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		log.Printf("[Stats] Starting execution of tool '%s'", toolName)

		result, err := handler(ctx, request)
		if err != nil {
			log.Printf("[Stats] Error executing tool '%s': %v", toolName, err)
			return nil, err
		}

		RecordToolUsage(toolName, startTime, request, result)

		return result, nil
	}
}

// HandleClientDisconnect logs a departing client's session statistics and
// resets the session counters
func HandleClientDisconnect(sessionID string) {
	if globalStatsManager == nil {
		log.Printf("[Stats] Warning: stats manager not initialized, cannot handle client disconnect")
		return
	}

	log.Printf("[Stats] Client disconnected: %s", sessionID)

	sessionStats := globalStatsManager.GetSessionStats()
	persistentStats := globalStatsManager.GetPersistentStats()
	statsText := FormatStats(sessionStats, persistentStats)
	log.Printf("[Stats] Session statistics for client %s:\n%s", sessionID, statsText)

	globalStatsManager.ResetSessionStats()
}

// ResetSessionStats resets the session statistics
func (m *StatsManager) ResetSessionStats() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sessionStats = &SessionStats{
		StartTime: time.Now(),
		Tools:     make(map[string]*ToolStats),
	}

	log.Printf("[Stats] Session statistics reset")
}

// charsPerToken approximates tokens from text length. Paths, words and
// result listings are mostly plain English, roughly four characters per
// token.
const charsPerToken = 4

// estimateInputTokens estimates the tokens a caller spent phrasing the
// request: the tool name plus every argument. Spellcheck and dictionary
// requests carry string arguments (path, word, language) and word lists
// (custom_dictionary, dictionaries), counted element by element.
func estimateInputTokens(request mcp.CallToolRequest) int {
	chars := len(request.Params.Name)

	for key, value := range request.Params.Arguments {
		chars += len(key)
		switch v := value.(type) {
		case string:
			chars += len(v)
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					chars += len(s)
				} else {
					chars += charsPerToken
				}
			}
		default:
			// Booleans and numbers (recursive, pool sizes) are one token.
			chars += charsPerToken
		}
	}

	tokens := chars / charsPerToken
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// estimateOutputTokens estimates the tokens in the result text
func estimateOutputTokens(result *mcp.CallToolResult) int {
	chars := 0
	for _, content := range result.Content {
		if c, ok := content.(mcp.TextContent); ok {
			chars += len(c.Text)
		}
	}
	return chars / charsPerToken
}

// RegisterStats registers the stats tool with the MCP server
func RegisterStats(mcpServer *server.MCPServer, dataDir string) error {
	if err := InitStatsManager(dataDir); err != nil {
		return err
	}

	statsTool := mcp.NewTool("stats",
		mcp.WithDescription("Retrieves usage statistics for MCP tools"),
	)

	mcpServer.AddTool(statsTool, WrapHandler("stats", HandleGetStats))

	log.Printf("[Stats] Registered stats tool")

	return nil
}
