package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Code-Monger/SpellWright/pkg/dictionary"
	"github.com/Code-Monger/SpellWright/pkg/spellcheck"
	"github.com/Code-Monger/SpellWright/pkg/stats"
	"github.com/Code-Monger/SpellWright/pkg/workspace"
)

var (
	port         = flag.Int("port", 8080, "Port to listen on")
	baseURL      = flag.String("baseurl", "", "Base URL for the server (e.g., http://localhost:8080)")
	serverName   = flag.String("name", "SpellWright MCP Server", "Server name")
	serverVer    = flag.String("version", "1.0.0", "Server version")
	instructions = flag.String("instructions", "This server spell checks source code: comments, string literals and identifiers.", "Server instructions")
	dataDir      = flag.String("data-dir", filepath.Join(".", "data"), "Directory to store data files")
	dictDirs     = flag.String("dict-dirs", "", "Comma-separated directories searched for <tag>.aff/<tag>.dic dictionary files")
	wordDir      = flag.String("word-dir", "", "Directory holding per-language user word lists (default: <data-dir>/words)")
	poolSize     = flag.Int("pool-size", 1, "Number of pooled spelling engine workers per language")
)

func main() {
	flag.Parse()

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	words := *wordDir
	if words == "" {
		words = filepath.Join(*dataDir, "words")
	}
	var folders []string
	for _, dir := range strings.Split(*dictDirs, ",") {
		if dir = strings.TrimSpace(dir); dir != "" {
			folders = append(folders, dir)
		}
	}

	// Create the MCP server
	mcpServer := server.NewMCPServer(
		*serverName,
		*serverVer,
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithInstructions(*instructions),
	)

	// Initialize stats service
	if err := stats.InitStatsManager(*dataDir); err != nil {
		log.Fatalf("Failed to initialize stats manager: %v", err)
	}

	// One dictionary registry for the whole process; every session shares
	// the loaded engines.
	registry := dictionary.NewRegistry(dictionary.Config{
		Folders:  folders,
		WordDir:  words,
		Mnemonic: '&',
		PoolSize: *poolSize,
	})
	defer registry.Close()
	spellcheck.InitService(registry)

	// Register tools and resources
	workspace.RegisterWorkspace(mcpServer)
	spellcheck.RegisterSpellCheck(mcpServer)

	if err := stats.RegisterStats(mcpServer, *dataDir); err != nil {
		log.Fatalf("Failed to register stats tool: %v", err)
	}

	baseURLValue := *baseURL
	if baseURLValue == "" {
		baseURLValue = fmt.Sprintf("http://localhost:%d", *port)
	}

	sseServer := server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(baseURLValue),
		server.WithSSEEndpoint("/"),
		server.WithMessageEndpoint("/messages"),
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: sseServer,
	}

	// Set up signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[Server] Starting MCP server on port %d...", *port)
		log.Printf("[Server] Base URL: %s", baseURLValue)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] Failed to start server: %v", err)
		}
	}()

	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	log.Println("[Server] Shutting down server...")

	// Print final stats before shutdown
	if statsManager := stats.GetStatsManager(); statsManager != nil {
		sessionStats := statsManager.GetSessionStats()
		persistentStats := statsManager.GetPersistentStats()
		statsText := stats.FormatStats(sessionStats, persistentStats)
		log.Printf("[Server] Final server statistics:\n%s", statsText)
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("[Server] Server shutdown failed: %v", err)
	}
	log.Println("[Server] Server stopped")
}
