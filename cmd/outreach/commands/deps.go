package commands

import (
	"github.com/hekax/outreach-intel/internal/enrichment"
	"github.com/hekax/outreach-intel/internal/enrichment/apollo"
	"github.com/hekax/outreach-intel/internal/enrichment/clearbit"
	"github.com/hekax/outreach-intel/internal/enrichment/crunchbase"
	"github.com/hekax/outreach-intel/internal/enrichment/hunter"
	"github.com/hekax/outreach-intel/internal/enrichment/newsscan"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/logger"
	"github.com/hekax/outreach-intel/pkg/redis"
)

// newAggregator wires the full provider chain. Provider order is merge
// priority: Apollo firmographics first, Clearbit fills the gaps,
// Crunchbase is the funding authority.
func newAggregator(cfg *config.Config, log *logger.Logger, rdb *redis.Client) *enrichment.Aggregator {
	apolloClient := apollo.New(cfg, log, rdb)
	clearbitClient := clearbit.New(cfg, log, rdb)
	crunchbaseClient := crunchbase.New(cfg, log, rdb)
	hunterClient := hunter.New(cfg, log, rdb)

	return enrichment.NewAggregator(log, apolloClient, clearbitClient, crunchbaseClient).
		WithContactProviders(apolloClient, hunterClient).
		WithVerifier(hunterClient).
		WithNewsScanner(newsscan.New(cfg, log, rdb))
}
