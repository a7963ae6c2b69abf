package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resolva-labs/resolva-cli/internal/adapters/driving/mcp"
	"github.com/resolva-labs/resolva-cli/internal/logger"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --http to serve the streamable HTTP transport instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  resolva mcp

  # HTTP mode (for MCP Inspector, remote access)
  resolva mcp --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "resolva": {
        "command": "/path/to/resolva",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if matcherService == nil {
		if err := initMatchingStack(); err != nil {
			return err
		}
	}
	if matcherService == nil {
		return errors.New("matcher service not configured")
	}

	if err := ensureIndexLoaded(cmd.Context()); err != nil {
		return err
	}

	// The server runs until interrupted; pick up prompt edits live so
	// drafting templates can be tuned without restarting the assistant.
	if promptStore != nil {
		if err := promptStore.Watch(cmd.Context()); err != nil {
			logger.Warn("prompt watcher unavailable: %v", err)
		}
	}

	ports := &mcp.Ports{
		Matcher:   matcherService,
		Responder: responderService,
		Tickets:   ticketStore,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}

	return server.Run(cmd.Context())
}
