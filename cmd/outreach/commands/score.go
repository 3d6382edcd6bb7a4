package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/internal/enrichment"
	"github.com/hekax/outreach-intel/internal/scoring"
	"github.com/hekax/outreach-intel/internal/store"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/database"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [lead_id]",
	Short: "Score a lead and print the tiered result",
	Long: `Score a lead against the stored company snapshot and active
signals, persist the score and print the full breakdown.

Example:
  go run ./cmd/outreach score 7f9c0c1e-... --domain acme.io
  go run ./cmd/outreach score 7f9c0c1e-... --domain acme.io --icp 3b2a...`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreDomain string
	scoreICP    string
	scoreUser   string
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreDomain, "domain", "", "company domain, resolves the latest snapshot")
	scoreCmd.Flags().StringVar(&scoreICP, "icp", "", "ICP profile ID")
	scoreCmd.Flags().StringVar(&scoreUser, "user", "", "user ID, resolves the default ICP when --icp is not set")
}

func runScore(cmd *cobra.Command, args []string) error {
	leadID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}

	fmt.Printf("=== Scoring lead %s ===\n", leadID)

	// 1. Load config and logger
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// 2. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	scoreRepo := store.NewScoreRepository(db.Pool)
	signalRepo := store.NewSignalRepository(db.Pool, log)
	icpRepo := store.NewICPRepository(db.Pool)
	snapshotRepo := store.NewSnapshotRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := scoring.ScoreRequest{LeadID: leadID}

	// 3. Resolve the company snapshot
	if scoreDomain != "" {
		company, err := snapshotRepo.GetLatestByDomain(ctx, enrichment.NormalizeDomain(scoreDomain))
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if company == nil {
			fmt.Println("⚠️  No snapshot for domain, scoring without company data")
		}
		req.Company = company
	}

	// 4. Resolve the ICP profile
	req.ICP, err = resolveICP(ctx, icpRepo)
	if err != nil {
		return err
	}
	if req.ICP == nil {
		fmt.Println("No ICP profile, fit defaults to neutral")
	}

	// 5. Score and persist
	engine := scoring.NewEngine(scoreRepo, signalRepo, log)
	score, err := engine.ScoreLead(ctx, req)
	if err != nil {
		return fmt.Errorf("❌ scoring failed: %w", err)
	}

	fmt.Printf("\n✅ Total %d (%s)  intent=%d fit=%d accessibility=%d\n\n",
		score.TotalScore, score.Tier, score.IntentScore, score.FitScore, score.AccessibilityScore)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(score)
}

// resolveICP loads the profile named by --icp, or the user's default
// when only --user is given
func resolveICP(ctx context.Context, icps contracts.ICPStore) (*contracts.ICPProfile, error) {
	if scoreUser == "" {
		if scoreICP != "" {
			return nil, fmt.Errorf("--icp requires --user")
		}
		return nil, nil
	}

	userID, err := uuid.Parse(scoreUser)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	if scoreICP != "" {
		id, err := uuid.Parse(scoreICP)
		if err != nil {
			return nil, fmt.Errorf("invalid icp id: %w", err)
		}
		icp, err := icps.GetByID(ctx, id, userID)
		if err != nil {
			return nil, fmt.Errorf("load icp: %w", err)
		}
		if icp == nil {
			return nil, fmt.Errorf("icp %s not found", id)
		}
		return icp, nil
	}

	icp, err := icps.GetDefaultForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load default icp: %w", err)
	}
	return icp, nil
}
