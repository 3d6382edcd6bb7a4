// Package crunchbase is the Crunchbase client. Crunchbase is the
// authority for funding data: stage, totals and round dates.
package crunchbase

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

const providerName = "crunchbase"

// Client calls the Crunchbase v4 API
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// New creates a Crunchbase client
func New(cfg *config.Config, log *logger.Logger, rdb *redis.Client) *Client {
	pc := cfg.Crunchbase

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

// entityResponse is the shape of /entities/organizations/{id}
type entityResponse struct {
	Properties struct {
		Name            string `json:"name"`
		LastFundingType string `json:"last_funding_type"`
		LastFundingAt   string `json:"last_funding_at"`
		FundingTotal    struct {
			ValueUSD int64 `json:"value_usd"`
		} `json:"funding_total"`
		NumEmployeesEnum string `json:"num_employees_enum"`
		CategoryGroups   []struct {
			Value string `json:"value"`
		} `json:"category_groups"`
	} `json:"properties"`
}

// EnrichCompany looks up funding data by domain
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

	endpoint := fmt.Sprintf(
		"%s/entities/organizations/%s?field_ids=name,last_funding_type,last_funding_at,funding_total,num_employees_enum,category_groups",
		c.baseURL, url.PathEscape(domain))
	resp, err := c.httpClient.GetWithHeaders(ctx, endpoint, map[string]string{
		"X-cb-user-key": c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("crunchbase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, enrichment.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crunchbase returned status %d", resp.StatusCode)
	}

	var body entityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("crunchbase decode failed: %w", err)
	}

	props := body.Properties
	if props.Name == "" {
		return nil, enrichment.ErrNotFound
	}

	snapshot = contracts.CompanySnapshot{
		Domain:          domain,
		Name:            props.Name,
		FundingStage:    contracts.ParseFundingStage(props.LastFundingType),
		LastFundingDate: contracts.ParseDateTime(props.LastFundingAt),
		Sources:         []string{providerName},
	}
	if props.FundingTotal.ValueUSD > 0 {
		total := props.FundingTotal.ValueUSD
		snapshot.TotalFunding = &total
	}
	if count := employeesFromEnum(props.NumEmployeesEnum); count > 0 {
		snapshot.EmployeeCount = &count
	}
	if len(props.CategoryGroups) > 0 {
		snapshot.Industry = props.CategoryGroups[0].Value
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &snapshot, redis.TTLDaily)
	}

	return &snapshot, nil
}

// employeesFromEnum maps Crunchbase employee range enums to a midpoint
// estimate
func employeesFromEnum(enum string) int {
	switch enum {
	case "c_00001_00010":
		return 5
	case "c_00011_00050":
		return 30
	case "c_00051_00100":
		return 75
	case "c_00101_00250":
		return 175
	case "c_00251_00500":
		return 375
	case "c_00501_01000":
		return 750
	case "c_01001_05000":
		return 3000
	case "c_05001_10000":
		return 7500
	case "c_10001_max":
		return 15000
	default:
		return 0
	}
}
