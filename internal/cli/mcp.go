package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/assessment-recommender/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the recommend and
corpus_stats tools.

By default, the server communicates over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  recommender mcp --corpus catalog.json
  recommender mcp --corpus catalog.json --port 8081`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, closeEmbedder, err := buildEngine(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer closeEmbedder() //nolint:errcheck

	server, err := mcpserver.NewServer(eng, version)
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		logger.Info("starting MCP server", "transport", "http", "addr", addr)
		return server.RunHTTP(ctx, addr)
	}
	logger.Info("starting MCP server", "transport", "stdio")
	return server.Run(ctx)
}
