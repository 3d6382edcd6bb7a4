package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "outreach-intel - lead intelligence backend",
	Long: `outreach-intel unified CLI

Lead intelligence backend: company enrichment, buying signal
detection and tiered lead scoring.

Usage:
  go run ./cmd/outreach [command]

Examples:
  go run ./cmd/outreach api
  go run ./cmd/outreach enrich acme.io
  go run ./cmd/outreach detect acme.io
  go run ./cmd/outreach test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
