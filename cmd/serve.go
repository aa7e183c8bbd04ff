package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldops/intake/internal/db"
	mcpserver "github.com/fieldops/intake/internal/mcp"
	"github.com/fieldops/intake/internal/records"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing booking search and lookup tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(dbPathFor(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store := records.NewStore(database)

		// Search is optional; the server degrades to store-only tools.
		search := openSearchIndex(cmd.Context(), cfg)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		indexed := 0
		if search != nil {
			indexed = search.Count()
		}
		fmt.Fprintf(os.Stderr, "intake MCP server started on stdio (db=%s, indexed=%d)\n", dbPathFor(cfg), indexed)

		srv := mcpserver.NewServer(store, search)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
