package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hekax/outreach-intel/internal/store"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/database"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge expired signals once",
	Long: `Delete every signal whose expiry has passed. The scheduler runs
the same purge nightly; this command is the manual trigger.

Example:
  go run ./cmd/outreach cleanup`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Purging expired signals ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := store.NewSignalRepository(db.Pool, log).PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("❌ purge failed: %w", err)
	}

	fmt.Printf("✅ Purged %d expired signal(s)\n", purged)
	return nil
}
