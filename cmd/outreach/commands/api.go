package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hekax/outreach-intel/internal/api"
	"github.com/hekax/outreach-intel/internal/api/handlers"
	"github.com/hekax/outreach-intel/internal/scoring"
	"github.com/hekax/outreach-intel/internal/signals"
	"github.com/hekax/outreach-intel/internal/store"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/database"
	"github.com/hekax/outreach-intel/pkg/logger"
	"github.com/hekax/outreach-intel/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                      - Health check
  POST /api/v1/leads/score          - Score one lead
  POST /api/v1/leads/score/batch    - Score several leads
  GET  /api/v1/leads                - List leads by tier
  GET  /api/v1/leads/tiers          - Tier distribution
  POST /api/v1/signals/detect       - Detect signals for a company
  GET  /api/v1/signals/active       - Active signals by lead or domain
  POST /api/v1/companies/enrich     - Enrich a company across providers

Example:
  go run ./cmd/outreach api
  go run ./cmd/outreach api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== outreach-intel API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (optional, degrades to uncached)
	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		rdb = &redis.Client{}
	}
	defer rdb.Close()

	// 5. Create repositories
	scoreRepo := store.NewScoreRepository(db.Pool)
	signalRepo := store.NewSignalRepository(db.Pool, log)
	icpRepo := store.NewICPRepository(db.Pool)
	snapshotRepo := store.NewSnapshotRepository(db.Pool)

	// 6. Create the enrichment aggregator
	aggregator := newAggregator(cfg, log, rdb)

	// 7. Create detector and scoring engine
	detector := signals.NewDetector(log)
	engine := scoring.NewEngine(scoreRepo, signalRepo, log)

	// 8. Create handlers
	scoringHandler := handlers.NewScoringHandler(engine, scoreRepo, icpRepo, snapshotRepo, log)
	signalHandler := handlers.NewSignalHandler(detector, signalRepo, snapshotRepo, log)
	enrichHandler := handlers.NewEnrichmentHandler(aggregator, snapshotRepo, log)

	// 9. Create router and server
	router := api.NewRouter(scoringHandler, signalHandler, enrichHandler, log)
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
