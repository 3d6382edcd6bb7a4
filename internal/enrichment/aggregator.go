package enrichment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// NewsScanner supplies scraped news when no provider returns any
type NewsScanner interface {
	Scan(ctx context.Context, domain string) ([]contracts.NewsItem, error)
}

// Aggregator fans enrichment out to all configured providers and merges
// the partial snapshots. Provider order is priority order: the first
// provider to supply a field wins it.
type Aggregator struct {
	companies []CompanyProvider
	contacts  []ContactProvider
	verifier  EmailVerifier
	news      NewsScanner
	logger    *logger.Logger
}

// NewAggregator creates an aggregator over the given company providers
func NewAggregator(log *logger.Logger, companies ...CompanyProvider) *Aggregator {
	return &Aggregator{companies: companies, logger: log}
}

// WithContactProviders sets the contact lookup chain, tried in order
func (a *Aggregator) WithContactProviders(providers ...ContactProvider) *Aggregator {
	a.contacts = providers
	return a
}

// WithVerifier sets the email verifier applied to found contacts
func (a *Aggregator) WithVerifier(v EmailVerifier) *Aggregator {
	a.verifier = v
	return a
}

// WithNewsScanner sets the fallback news source
func (a *Aggregator) WithNewsScanner(n NewsScanner) *Aggregator {
	a.news = n
	return a
}

// EnrichCompany queries all providers concurrently and merges their
// snapshots. Individual provider failures are logged and tolerated; the
// call fails only when every provider fails.
func (a *Aggregator) EnrichCompany(ctx context.Context, domain string) (*contracts.CompanySnapshot, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, errors.New("enrichment: empty domain")
	}

	results := make([]*contracts.CompanySnapshot, len(a.companies))

	var wg sync.WaitGroup
	for i, provider := range a.companies {
		wg.Add(1)
		go func(i int, p CompanyProvider) {
			defer wg.Done()
			snapshot, err := p.EnrichCompany(ctx, domain)
			if err != nil {
				if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDisabled) {
					a.logger.WithError(err).WithFields(map[string]interface{}{
						"provider": p.Name(),
						"domain":   domain,
					}).Warn("Company enrichment failed")
				}
				return
			}
			results[i] = snapshot
		}(i, provider)
	}
	wg.Wait()

	merged := mergeSnapshots(domain, results)
	if merged == nil {
		return nil, ErrNotFound
	}

	// Scrape the company's own press page when no provider had news
	if len(merged.RecentNews) == 0 && a.news != nil {
		if items, err := a.news.Scan(ctx, domain); err == nil && len(items) > 0 {
			merged.RecentNews = items
			merged.Sources = append(merged.Sources, "newsscan")
		}
	}

	merged.EnrichedAt = time.Now().UTC()
	return merged, nil
}

// EnrichContact walks the contact provider chain and verifies the
// resulting email when a verifier is configured
func (a *Aggregator) EnrichContact(ctx context.Context, domain string) (*contracts.ContactSnapshot, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, errors.New("enrichment: empty domain")
	}

	var contact *contracts.ContactSnapshot
	for _, provider := range a.contacts {
		found, err := provider.FindContact(ctx, domain)
		if err != nil {
			if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDisabled) {
				a.logger.WithError(err).WithFields(map[string]interface{}{
					"provider": provider.Name(),
					"domain":   domain,
				}).Warn("Contact lookup failed")
			}
			continue
		}
		contact = found
		break
	}
	if contact == nil {
		return nil, ErrNotFound
	}

	if a.verifier != nil && contact.Email != "" && !contact.EmailVerified {
		verified, confidence, err := a.verifier.VerifyEmail(ctx, contact.Email)
		if err == nil {
			contact.EmailVerified = verified
			if confidence > contact.EmailConfidence {
				contact.EmailConfidence = confidence
			}
		} else if !errors.Is(err, ErrDisabled) {
			a.logger.WithError(err).WithField("domain", domain).Warn("Email verification failed")
		}
	}

	return contact, nil
}

// mergeSnapshots folds partial snapshots together in priority order.
// Scalar fields are first-wins; tech stack and news are unioned.
func mergeSnapshots(domain string, results []*contracts.CompanySnapshot) *contracts.CompanySnapshot {
	merged := &contracts.CompanySnapshot{Domain: domain}
	techSeen := make(map[string]struct{})
	contributed := false

	for _, snapshot := range results {
		if snapshot == nil {
			continue
		}
		contributed = true

		if merged.Name == "" {
			merged.Name = snapshot.Name
		}
		if merged.Industry == "" {
			merged.Industry = snapshot.Industry
		}
		if merged.EmployeeCount == nil {
			merged.EmployeeCount = snapshot.EmployeeCount
		}
		if merged.AnnualRevenue == nil {
			merged.AnnualRevenue = snapshot.AnnualRevenue
		}
		if merged.FundingStage == "" {
			merged.FundingStage = snapshot.FundingStage
		}
		if merged.TotalFunding == nil {
			merged.TotalFunding = snapshot.TotalFunding
		}
		if !merged.LastFundingDate.Valid {
			merged.LastFundingDate = snapshot.LastFundingDate
		}
		if !merged.IsHiring {
			merged.IsHiring = snapshot.IsHiring
		}
		if merged.OpenPositions == 0 {
			merged.OpenPositions = snapshot.OpenPositions
		}
		if merged.Country == "" {
			merged.Country = snapshot.Country
		}
		if merged.CountryCode == "" {
			merged.CountryCode = snapshot.CountryCode
		}
		if len(merged.RecentNews) == 0 {
			merged.RecentNews = snapshot.RecentNews
		}

		for _, item := range snapshot.TechStack {
			key := strings.ToLower(strings.TrimSpace(item.Name))
			if key == "" {
				continue
			}
			if _, dup := techSeen[key]; dup {
				continue
			}
			techSeen[key] = struct{}{}
			merged.TechStack = append(merged.TechStack, item)
		}

		merged.Sources = append(merged.Sources, snapshot.Sources...)
	}

	if !contributed {
		return nil
	}
	return merged
}

// NormalizeDomain strips scheme, path and the www prefix from user
// supplied domains
func NormalizeDomain(raw string) string {
	d := strings.TrimSpace(strings.ToLower(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if idx := strings.IndexAny(d, "/?#"); idx >= 0 {
		d = d[:idx]
	}
	d = strings.TrimPrefix(d, "www.")
	return d
}
