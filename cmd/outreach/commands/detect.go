package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hekax/outreach-intel/internal/enrichment"
	"github.com/hekax/outreach-intel/internal/signals"
	"github.com/hekax/outreach-intel/internal/store"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/database"
	"github.com/hekax/outreach-intel/pkg/logger"
	"github.com/hekax/outreach-intel/pkg/redis"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [domain]",
	Short: "Enrich a company and detect buying signals",
	Long: `Enrich a company, compare the result against the last stored
snapshot and report the buying signals that fire.

The fresh snapshot becomes the new baseline when --save is set.

Example:
  go run ./cmd/outreach detect acme.io
  go run ./cmd/outreach detect acme.io --save`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

var detectSave bool

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().BoolVar(&detectSave, "save", false, "persist detected signals and the new snapshot")
}

func runDetect(cmd *cobra.Command, args []string) error {
	domain := enrichment.NormalizeDomain(args[0])
	fmt.Printf("=== Detecting signals for %s ===\n", domain)

	// 1. Load config and logger
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// 2. Connect to database and Redis
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		rdb = &redis.Client{}
	}
	defer rdb.Close()

	snapshotRepo := store.NewSnapshotRepository(db.Pool)
	signalRepo := store.NewSignalRepository(db.Pool, log)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	// 3. Enrich the company
	aggregator := newAggregator(cfg, log, rdb)
	current, err := aggregator.EnrichCompany(ctx, domain)
	if err != nil {
		return fmt.Errorf("❌ enrichment failed: %w", err)
	}

	// 4. Load the stored baseline
	previous, err := snapshotRepo.GetLatestByDomain(ctx, domain)
	if err != nil {
		log.WithError(err).Warn("Baseline lookup failed, treating as first observation")
		previous = nil
	}
	if previous == nil {
		fmt.Println("No stored baseline, delta rules are silent on first observation")
	}

	// 5. Run detection
	detector := signals.NewDetector(log)
	detected := detector.Detect(current, previous, time.Now().UTC())

	fmt.Printf("\n%d signal(s) detected\n", len(detected))
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	for _, sig := range detected {
		if err := encoder.Encode(sig); err != nil {
			return err
		}
	}

	// 6. Persist
	if detectSave {
		saved, err := signalRepo.SaveBatch(ctx, detected)
		if err != nil {
			return fmt.Errorf("save signals: %w", err)
		}
		if err := snapshotRepo.Save(ctx, current); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Printf("✅ Saved %d signal(s) and the new baseline\n", saved)
	}

	return nil
}
