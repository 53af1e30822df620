package spellcheck

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Code-Monger/SpellWright/pkg/dictionary"
	"github.com/Code-Monger/SpellWright/pkg/spelling"
	"github.com/Code-Monger/SpellWright/pkg/stats"
	"github.com/Code-Monger/SpellWright/pkg/workspace"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

var (
	serviceMu sync.Mutex
	registry  *dictionary.Registry
)

// InitService wires the process-wide dictionary registry the tools check
// against. Called once at server startup.
func InitService(reg *dictionary.Registry) {
	serviceMu.Lock()
	registry = reg
	serviceMu.Unlock()
}

// aggregateFor builds the aggregator for the requested language tags (or
// the bundled default when none are given).
func aggregateFor(languages []string) (*spelling.Dictionary, error) {
	serviceMu.Lock()
	reg := registry
	serviceMu.Unlock()
	if reg == nil {
		return nil, fmt.Errorf("spellcheck service not initialized")
	}

	if len(languages) == 0 {
		languages = []string{""}
	}
	var dicts []*dictionary.GlobalDictionary
	for _, tag := range languages {
		d, err := reg.Get(tag)
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, d)
	}
	return spelling.New(dicts, '&', nil), nil
}

// HandleSpellCheck is the handler function for the spellcheck tool.
func HandleSpellCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	path, ok := arguments["path"].(string)
	if !ok {
		return nil, fmt.Errorf("path must be a string")
	}

	opts := Options{
		CheckComments:    true,
		CheckStrings:     true,
		CheckIdentifiers: true,
		Split:            wordsplit.Options{Mnemonic: '&'},
	}
	if v, ok := arguments["check_comments"].(bool); ok {
		opts.CheckComments = v
	}
	if v, ok := arguments["check_strings"].(bool); ok {
		opts.CheckStrings = v
	}
	if v, ok := arguments["check_identifiers"].(bool); ok {
		opts.CheckIdentifiers = v
	}

	language, _ := arguments["language"].(string)

	recursive := true
	if v, ok := arguments["recursive"].(bool); ok {
		recursive = v
	}
	useRelativePaths := true
	if v, ok := arguments["use_relative_paths"].(bool); ok {
		useRelativePaths = v
	}

	var languages []string
	if raw, ok := arguments["dictionaries"].([]interface{}); ok {
		for _, item := range raw {
			if tag, ok := item.(string); ok {
				languages = append(languages, tag)
			}
		}
	}
	if raw, ok := arguments["custom_dictionary"].([]interface{}); ok {
		for _, item := range raw {
			if word, ok := item.(string); ok {
				opts.CustomWords = append(opts.CustomWords, word)
			}
		}
	}
	sessionID, _ := arguments["session_id"].(string)

	rootDir := workspace.GetRootDir(sessionID)
	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(rootDir, path)
	}

	dict, err := aggregateFor(languages)
	if err != nil {
		return nil, err
	}
	defer dict.Close()

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %v", err)
	}

	var issues []Issue
	if info.IsDir() {
		issues, err = CheckDirectory(fullPath, language, recursive, dict, opts)
	} else {
		issues, err = CheckFile(fullPath, language, dict, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("error performing spell check: %v", err)
	}

	if useRelativePaths {
		for i := range issues {
			if rel, relErr := filepath.Rel(rootDir, issues[i].FilePath); relErr == nil {
				issues[i].FilePath = rel
			}
		}
	}

	result := &mcp.CallToolResult{}
	if len(issues) == 0 {
		result.Content = append(result.Content, mcp.TextContent{
			Type: "text",
			Text: "No spelling issues found.",
		})
		return result, nil
	}

	var summary strings.Builder
	summary.WriteString(fmt.Sprintf("Found %d spelling issues:\n\n", len(issues)))
	for i, issue := range issues {
		summary.WriteString(fmt.Sprintf("%d. File: %s\n", i+1, issue.FilePath))
		summary.WriteString(fmt.Sprintf("   Line: %d, Columns: %d-%d\n", issue.Line, issue.ColumnStart, issue.ColumnEnd))
		summary.WriteString(fmt.Sprintf("   Type: %s\n", issue.Kind))
		summary.WriteString(fmt.Sprintf("   Word: %s\n", issue.Word))
		summary.WriteString(fmt.Sprintf("   Context: %s\n", issue.Context))
		if len(issue.Suggestions) > 0 {
			summary.WriteString(fmt.Sprintf("   Suggestions: %s\n", strings.Join(issue.Suggestions, ", ")))
		}
		summary.WriteString("\n")
	}
	result.Content = append(result.Content, mcp.TextContent{
		Type: "text",
		Text: summary.String(),
	})
	return result, nil
}

// HandleDictionary is the handler function for the dictionary tool.
func HandleDictionary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	operation, ok := arguments["operation"].(string)
	if !ok {
		return nil, fmt.Errorf("operation must be a string")
	}
	word, _ := arguments["word"].(string)
	language, _ := arguments["language"].(string)

	serviceMu.Lock()
	reg := registry
	serviceMu.Unlock()
	if reg == nil {
		return nil, fmt.Errorf("spellcheck service not initialized")
	}
	d, err := reg.Get(language)
	if err != nil {
		return nil, err
	}

	var text string
	switch operation {
	case "check":
		if word == "" {
			return nil, fmt.Errorf("word is required for 'check'")
		}
		if d.IsSpelledCorrectly(word) {
			text = fmt.Sprintf("%q is spelled correctly (%s)", word, d.Tag())
		} else {
			text = fmt.Sprintf("%q is misspelled (%s)", word, d.Tag())
		}
	case "suggest":
		if word == "" {
			return nil, fmt.Errorf("word is required for 'suggest'")
		}
		suggestions := d.SuggestCorrections(word)
		if len(suggestions) == 0 {
			text = fmt.Sprintf("No suggestions for %q (%s)", word, d.Tag())
		} else {
			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Suggestions for %q (%s):\n", word, d.Tag()))
			for i, s := range suggestions {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s.Text))
			}
			text = sb.String()
		}
	case "add":
		if word == "" {
			return nil, fmt.Errorf("word is required for 'add'")
		}
		if d.AddWordToDictionary(word) {
			text = fmt.Sprintf("Added %q to the %s user dictionary", word, d.Tag())
		} else {
			return nil, fmt.Errorf("could not add %q to the %s user dictionary", word, d.Tag())
		}
	case "ignore":
		if word == "" {
			return nil, fmt.Errorf("word is required for 'ignore'")
		}
		d.IgnoreWord(word)
		text = fmt.Sprintf("Ignoring %q for this session (%s)", word, d.Tag())
	case "reload":
		if err := d.ReloadWords(); err != nil {
			return nil, fmt.Errorf("reloading %s user dictionary: %v", d.Tag(), err)
		}
		text = fmt.Sprintf("Reloaded the %s user dictionary", d.Tag())
	default:
		return nil, fmt.Errorf("unsupported operation: %s", operation)
	}

	if d.Degraded() {
		text += fmt.Sprintf("\nNote: no dictionary files were found for %s; the bundled default language is standing in.", d.Tag())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}, nil
}

// RegisterSpellCheck registers the spellcheck and dictionary tools with the
// MCP server.
func RegisterSpellCheck(mcpServer *server.MCPServer) {
	spellCheckTool := mcp.NewTool("spellcheck",
		mcp.WithDescription("Checks spelling in code comments, string literals, and identifiers. Detects doubled words, splits camelCase and snake_case identifiers, skips URLs, escape sequences and format specifiers, and suggests corrections from one or more language dictionaries."),
		mcp.WithString("path",
			mcp.Description("The path of the file or directory to check (absolute or relative to working directory)"),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("The programming language to check (default: auto-detect from file extension)"),
		),
		mcp.WithBoolean("check_comments",
			mcp.Description("Whether to check spelling in comments (default: true)"),
		),
		mcp.WithBoolean("check_strings",
			mcp.Description("Whether to check spelling in string literals (default: true)"),
		),
		mcp.WithBoolean("check_identifiers",
			mcp.Description("Whether to split and check mixed-case identifiers (default: true)"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Whether to check files recursively in subdirectories (default: true)"),
		),
		mcp.WithBoolean("use_relative_paths",
			mcp.Description("Whether to use relative paths in the results (default: true)"),
		),
		mcp.WithArray("dictionaries",
			mcp.Description("Language tags to check against, e.g. [\"en-US\", \"en-GB\"] (default: en-US)"),
		),
		mcp.WithArray("custom_dictionary",
			mcp.Description("A list of custom words to consider as correctly spelled"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session ID to use for resolving relative paths"),
		),
	)
	mcpServer.AddTool(spellCheckTool, stats.WrapHandler("spellcheck", HandleSpellCheck))

	dictionaryTool := mcp.NewTool("dictionary",
		mcp.WithDescription("Manages the spelling dictionaries: check a word, get suggestions, add a word to the persistent user dictionary, ignore a word for the session, or reload the user dictionary from disk."),
		mcp.WithString("operation",
			mcp.Description("Operation to perform: 'check', 'suggest', 'add', 'ignore', or 'reload'"),
			mcp.Required(),
		),
		mcp.WithString("word",
			mcp.Description("The word to operate on (required for all operations except 'reload')"),
		),
		mcp.WithString("language",
			mcp.Description("Language tag selecting the dictionary (default: en-US)"),
		),
	)
	mcpServer.AddTool(dictionaryTool, stats.WrapHandler("dictionary", HandleDictionary))

	log.Printf("[SpellCheck] Registered spellcheck and dictionary tools")
}
