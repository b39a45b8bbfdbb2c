package main

import (
	"fmt"
	"os"

	"github.com/mbenaiss/whatsapp-session/apiclient"
	"github.com/mbenaiss/whatsapp-session/config"
	"github.com/mbenaiss/whatsapp-session/mcp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mcpServer := mcp.NewMCPServer("WhatsApp MCP API", "1.0.0", apiclient.New(cfg.BridgeURL, nil))
	if err := mcp.StartMCPServer(mcpServer); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	return nil
}
