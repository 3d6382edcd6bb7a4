package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hekax/outreach-intel/internal/store"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/database"
	"github.com/hekax/outreach-intel/pkg/logger"
	"github.com/hekax/outreach-intel/pkg/redis"
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich [domain]",
	Short: "Enrich a company across all configured providers",
	Long: `Enrich a company across all configured providers and print the
merged snapshot.

Example:
  go run ./cmd/outreach enrich acme.io
  go run ./cmd/outreach enrich acme.io --contact --save`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

var (
	enrichContact bool
	enrichSave    bool
)

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().BoolVar(&enrichContact, "contact", false, "also look up the best contact")
	enrichCmd.Flags().BoolVar(&enrichSave, "save", false, "persist the snapshot")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	domain := args[0]
	fmt.Printf("=== Enriching %s ===\n", domain)

	// 1. Load config and logger
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// 2. Connect to Redis (optional)
	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		rdb = &redis.Client{}
	}
	defer rdb.Close()

	// 3. Build the aggregator and run enrichment
	aggregator := newAggregator(cfg, log, rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	company, err := aggregator.EnrichCompany(ctx, domain)
	if err != nil {
		return fmt.Errorf("❌ enrichment failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(company); err != nil {
		return err
	}

	if enrichContact {
		contact, err := aggregator.EnrichContact(ctx, domain)
		if err != nil {
			fmt.Printf("⚠️  No contact found: %v\n", err)
		} else {
			fmt.Println("\nBest contact:")
			if err := encoder.Encode(contact); err != nil {
				return err
			}
		}
	}

	if enrichSave {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := store.NewSnapshotRepository(db.Pool).Save(ctx, company); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Println("✅ Snapshot saved")
	}

	return nil
}
