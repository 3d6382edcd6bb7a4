// Package clearbit is the Clearbit company enrichment client. Clearbit
// contributes firmographics, location and the detected tech stack.
package clearbit

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

const providerName = "clearbit"

// Client calls the Clearbit Company API
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// New creates a Clearbit client
func New(cfg *config.Config, log *logger.Logger, rdb *redis.Client) *Client {
	pc := cfg.Clearbit

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
		limiter:    rate.NewLimiter(perSecond, 10),
		apiKey:     pc.APIKey,
		baseURL:    pc.BaseURL,
	}
}

// Name returns the provider identifier
func (c *Client) Name() string { return providerName }

// companyResponse is the shape of /companies/find
type companyResponse struct {
	Name     string `json:"name"`
	Category struct {
		Industry    string `json:"industry"`
		SubIndustry string `json:"subIndustry"`
	} `json:"category"`
	Metrics struct {
		Employees     int   `json:"employees"`
		AnnualRevenue int64 `json:"annualRevenue"`
		Raised        int64 `json:"raised"`
	} `json:"metrics"`
	Geo struct {
		Country     string `json:"country"`
		CountryCode string `json:"countryCode"`
	} `json:"geo"`
	Tech []string `json:"tech"`
}

// EnrichCompany looks up a company profile by domain
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

	endpoint := fmt.Sprintf("%s/companies/find?domain=%s", c.baseURL, url.QueryEscape(domain))
	resp, err := c.httpClient.GetWithHeaders(ctx, endpoint, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("clearbit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, enrichment.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clearbit returned status %d", resp.StatusCode)
	}

	var body companyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("clearbit decode failed: %w", err)
	}
	if body.Name == "" {
		return nil, enrichment.ErrNotFound
	}

	industry := body.Category.Industry
	if industry == "" {
		industry = body.Category.SubIndustry
	}

	snapshot = contracts.CompanySnapshot{
		Domain:      domain,
		Name:        body.Name,
		Industry:    industry,
		Country:     body.Geo.Country,
		CountryCode: body.Geo.CountryCode,
		Sources:     []string{providerName},
	}
	if body.Metrics.Employees > 0 {
		n := body.Metrics.Employees
		snapshot.EmployeeCount = &n
	}
	if body.Metrics.AnnualRevenue > 0 {
		rev := body.Metrics.AnnualRevenue
		snapshot.AnnualRevenue = &rev
	}
	if body.Metrics.Raised > 0 {
		raised := body.Metrics.Raised
		snapshot.TotalFunding = &raised
	}
	for _, tech := range body.Tech {
		snapshot.TechStack = append(snapshot.TechStack, contracts.TechStackItem{Name: tech})
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &snapshot, redis.TTLDaily)
	}

	return &snapshot, nil
}
