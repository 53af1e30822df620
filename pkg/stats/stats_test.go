package stats

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestRecordToolUsagePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")

	m, err := NewStatsManager(path)
	if err != nil {
		t.Fatalf("NewStatsManager: %v", err)
	}
	if err := m.RecordToolUsage("spellcheck", 20*time.Millisecond, 50, 200); err != nil {
		t.Fatalf("RecordToolUsage: %v", err)
	}
	if err := m.RecordToolUsage("spellcheck", 40*time.Millisecond, 50, 200); err != nil {
		t.Fatalf("RecordToolUsage: %v", err)
	}

	session := m.GetSessionStats()
	tool, ok := session.Tools["spellcheck"]
	if !ok {
		t.Fatal("spellcheck missing from session stats")
	}
	if tool.CallCount != 2 {
		t.Errorf("call count = %d, want 2", tool.CallCount)
	}
	if tool.AverageExecutionTime != 30*time.Millisecond {
		t.Errorf("average execution time = %v, want 30ms", tool.AverageExecutionTime)
	}

	// A fresh manager over the same file picks up the persisted stats.
	m2, err := NewStatsManager(path)
	if err != nil {
		t.Fatalf("NewStatsManager (reload): %v", err)
	}
	persistent := m2.GetPersistentStats()
	if tool, ok := persistent.Tools["spellcheck"]; !ok || tool.CallCount != 2 {
		t.Errorf("persistent tools = %+v, want spellcheck with 2 calls", persistent.Tools)
	}
	if len(m2.GetSessionStats().Tools) != 0 {
		t.Error("session stats should start empty")
	}
}

func TestResetSessionStats(t *testing.T) {
	m, err := NewStatsManager(filepath.Join(t.TempDir(), "stats.json"))
	if err != nil {
		t.Fatalf("NewStatsManager: %v", err)
	}
	if err := m.RecordToolUsage("dictionary", time.Millisecond, 10, 10); err != nil {
		t.Fatalf("RecordToolUsage: %v", err)
	}

	m.ResetSessionStats()

	if len(m.GetSessionStats().Tools) != 0 {
		t.Error("session stats not cleared")
	}
	if len(m.GetPersistentStats().Tools) != 1 {
		t.Error("persistent stats should survive a session reset")
	}
}

func TestEstimateInputTokensCountsArguments(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Name = "spellcheck"
	req.Params.Arguments = map[string]interface{}{
		"path":              "/src/project",
		"recursive":         true,
		"custom_dictionary": []interface{}{"speling", "coment"},
	}

	got := estimateInputTokens(req)

	bare := mcp.CallToolRequest{}
	bare.Params.Name = "stats"
	if base := estimateInputTokens(bare); got <= base {
		t.Errorf("tokens = %d, want more than the bare request's %d", got, base)
	}
	if estimateInputTokens(bare) < 1 {
		t.Error("estimate must be at least one token")
	}
}

func TestWrapHandlerRecordsUsage(t *testing.T) {
	if err := InitStatsManager(t.TempDir()); err != nil {
		t.Fatalf("InitStatsManager: %v", err)
	}
	defer func() { globalStatsManager = nil }()

	handler := WrapHandler("dictionary", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: `"recieve" is misspelled (en-US)`}},
		}, nil
	})

	req := mcp.CallToolRequest{}
	req.Params.Name = "dictionary"
	req.Params.Arguments = map[string]interface{}{"operation": "check", "word": "recieve"}
	if _, err := handler(context.Background(), req); err != nil {
		t.Fatalf("handler: %v", err)
	}

	tool, ok := globalStatsManager.GetSessionStats().Tools["dictionary"]
	if !ok {
		t.Fatal("dictionary missing from session stats")
	}
	if tool.CallCount != 1 {
		t.Errorf("call count = %d, want 1", tool.CallCount)
	}
	if tool.InputTokens < 1 || tool.OutputTokens < 1 {
		t.Errorf("tokens = %d in / %d out, want both positive", tool.InputTokens, tool.OutputTokens)
	}
}

func TestFormatStatsListsTools(t *testing.T) {
	m, err := NewStatsManager(filepath.Join(t.TempDir(), "stats.json"))
	if err != nil {
		t.Fatalf("NewStatsManager: %v", err)
	}
	if err := m.RecordToolUsage("spellcheck", time.Millisecond, 10, 100); err != nil {
		t.Fatalf("RecordToolUsage: %v", err)
	}

	text := FormatStats(m.GetSessionStats(), m.GetPersistentStats())
	if !strings.Contains(text, "spellcheck") {
		t.Errorf("formatted stats missing tool name:\n%s", text)
	}
	if !strings.Contains(text, "Current Session Statistics") {
		t.Errorf("formatted stats missing session header:\n%s", text)
	}
}
