package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/redraft-ai/redraft/internal/config"
	"github.com/redraft-ai/redraft/internal/version"
	"github.com/redraft-ai/redraft/mcp"
)

const serverName = "redraft"

func main() {
	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := os.Getenv("REDRAFT_CONFIG")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Config load failed (%v), using defaults", err)
		cfg = config.DefaultConfig()
	}

	// Create MCP server with tool capabilities
	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	// Register all redraft tools
	handlers := mcp.NewHandlerSet(mcp.NewDependencies(cfg, configPath))
	mcp.RegisterTools(server, handlers)

	log.Printf("Starting %s MCP server v%s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - render_review: Render an analysis document into a review")
	log.Println("  - issue_summary: Aggregate issue statistics")
	log.Println("  - classify_stations: Rewrite station classification")
	log.Println("  - feedback_stats: Session feedback statistics")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Start server with stdio transport
	// This blocks until the server is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
