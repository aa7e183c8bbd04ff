package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Conversational HVAC service booking",
	Long: `Intake collects HVAC service bookings through a natural conversation.
It asks for what it still needs, understands free-form answers, and
records confirmed bookings to a journal, a queryable database and a
semantic search index. It integrates with AI agents via MCP for
booking lookups.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".intake.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
