package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrule-labs/scantext/internal/adapters/driving/mcp"
	"github.com/ferrule-labs/scantext/internal/core/domain"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
the scan index.

By default, the server communicates over stdio using JSON-RPC. Use
--port to start an HTTP server instead, which enables testing with the
MCP Inspector web UI and remote access.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "scantext": {
        "command": "/path/to/scantext",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if err := initRuntime(); err != nil {
		return err
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:  retriever,
		Builder: indexBuilder,
		Index:   vectorIndex,
		SearchDefaults: domain.SearchOptions{
			Limit:      appConfig.Search.Limit,
			Oversample: appConfig.Search.Oversample,
		},
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
