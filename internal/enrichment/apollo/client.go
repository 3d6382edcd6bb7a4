// Package apollo is the Apollo.io enrichment client. Apollo contributes
// firmographics, hiring data and people search.
package apollo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/internal/enrichment"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/httputil"
	"github.com/hekax/outreach-intel/pkg/logger"
	"github.com/hekax/outreach-intel/pkg/redis"
)

const providerName = "apollo"

// Client calls the Apollo.io REST API
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// New creates an Apollo client. The shared Redis rate limiter guards
// the provider quota across processes; the local token bucket smooths
// bursts within this one.
func New(cfg *config.Config, log *logger.Logger, rdb *redis.Client) *Client {
	pc := cfg.Apollo

	httpClient := httputil.New(cfg, log)
	var cache *redis.Cache
	if rdb != nil && rdb.Enabled() {
		limiter := redis.NewRateLimiter(rdb, enrichment.RedisPrefix)
		httpClient = httpClient.WithRateLimiter(limiter, redis.ProviderRateLimit(providerName, pc.RateLimit))
		cache = redis.NewCache(rdb, enrichment.RedisPrefix)
	}

	perSecond := rate.Limit(float64(pc.RateLimit) / 60.0)
	if perSecond <= 0 {
		perSecond = rate.Inf
	}

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     log,
		limiter:    rate.NewLimiter(perSecond, 5),
		apiKey:     pc.APIKey,
		baseURL:    pc.BaseURL,
	}
}

// Name returns the provider identifier
func (c *Client) Name() string { return providerName }

// organizationResponse is the shape of /organizations/enrich
type organizationResponse struct {
	Organization struct {
		Name                   string   `json:"name"`
		Industry               string   `json:"industry"`
		EstimatedNumEmployees  int      `json:"estimated_num_employees"`
		AnnualRevenue          int64    `json:"annual_revenue"`
		LatestFundingStage     string   `json:"latest_funding_stage"`
		TotalFunding           int64    `json:"total_funding"`
		LatestFundingRoundDate string   `json:"latest_funding_round_date"`
		Country                string   `json:"country"`
		Technologies           []string `json:"technology_names"`
	} `json:"organization"`
}

// EnrichCompany looks up firmographics for a domain
func (c *Client) EnrichCompany(ctx context.Context, domain string) (*contracts.CompanySnapshot, error) {
	if c.apiKey == "" {
		return nil, enrichment.ErrDisabled
	}

	var snapshot contracts.CompanySnapshot
	cacheKey := redis.CompanyKey(providerName, domain)
	if c.cache != nil {
		if found, _ := c.cache.Get(ctx, cacheKey, &snapshot); found {
			return &snapshot, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/organizations/enrich?domain=%s", c.baseURL, url.QueryEscape(domain))
	resp, err := c.httpClient.GetWithHeaders(ctx, endpoint, map[string]string{
		"X-Api-Key": c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("apollo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, enrichment.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apollo returned status %d", resp.StatusCode)
	}

	var body organizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("apollo decode failed: %w", err)
	}

	org := body.Organization
	if org.Name == "" {
		return nil, enrichment.ErrNotFound
	}

	snapshot = contracts.CompanySnapshot{
		Domain:          domain,
		Name:            org.Name,
		Industry:        org.Industry,
		FundingStage:    contracts.ParseFundingStage(org.LatestFundingStage),
		LastFundingDate: contracts.ParseDateTime(org.LatestFundingRoundDate),
		Country:         org.Country,
		Sources:         []string{providerName},
	}
	if org.EstimatedNumEmployees > 0 {
		n := org.EstimatedNumEmployees
		snapshot.EmployeeCount = &n
	}
	if org.AnnualRevenue > 0 {
		rev := org.AnnualRevenue
		snapshot.AnnualRevenue = &rev
	}
	if org.TotalFunding > 0 {
		funding := org.TotalFunding
		snapshot.TotalFunding = &funding
	}
	for _, tech := range org.Technologies {
		snapshot.TechStack = append(snapshot.TechStack, contracts.TechStackItem{Name: tech})
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &snapshot, redis.TTLDaily)
	}

	return &snapshot, nil
}

// person is one entry from /mixed_people/search
type person struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Email       string `json:"email"`
	EmailStatus string `json:"email_status"`
	LinkedInURL string `json:"linkedin_url"`
	Seniority   string `json:"seniority"`
}

type peopleResponse struct {
	People     []person `json:"people"`
	Pagination struct {
		TotalEntries int `json:"total_entries"`
	} `json:"pagination"`
}

// FindContact searches for the most senior reachable person at a domain
func (c *Client) FindContact(ctx context.Context, domain string) (*contracts.ContactSnapshot, error) {
	if c.apiKey == "" {
		return nil, enrichment.ErrDisabled
	}

	var contact contracts.ContactSnapshot
	cacheKey := redis.ContactsKey(providerName, domain)
	if c.cache != nil {
		if found, _ := c.cache.Get(ctx, cacheKey, &contact); found {
			return &contact, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/mixed_people/search", c.baseURL)
	resp, err := c.httpClient.PostJSON(ctx, endpoint, map[string]interface{}{
		"api_key":                c.apiKey,
		"q_organization_domains": domain,
		"page":                   1,
		"per_page":               10,
	})
	if err != nil {
		return nil, fmt.Errorf("apollo people search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apollo returned status %d", resp.StatusCode)
	}

	var body peopleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("apollo decode failed: %w", err)
	}
	if len(body.People) == 0 {
		return nil, enrichment.ErrNotFound
	}

	best := pickBestPerson(body.People)
	contact = contracts.ContactSnapshot{
		FullName:      best.Name,
		Title:         best.Title,
		Email:         best.Email,
		EmailVerified: best.EmailStatus == "verified",
		LinkedInURL:   best.LinkedInURL,
		Seniority:     contracts.InferSeniority(best.Title),
		ContactCount:  body.Pagination.TotalEntries,
	}
	if contact.ContactCount == 0 {
		contact.ContactCount = len(body.People)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &contact, redis.TTLMedium)
	}

	return &contact, nil
}

// pickBestPerson prefers decision makers with an email address
func pickBestPerson(people []person) person {
	best := people[0]
	bestRank := -1
	for _, p := range people {
		rank := 0
		if contracts.InferSeniority(p.Title).IsDecisionMaker() {
			rank += 2
		}
		if p.Email != "" {
			rank++
		}
		if rank > bestRank {
			bestRank = rank
			best = p
		}
	}
	return best
}
