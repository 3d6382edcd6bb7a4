// Package hunter is the Hunter.io client, used for finding and
// verifying contact email addresses.
package hunter

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

const providerName = "hunter"

// Client calls the Hunter.io REST API
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// New creates a Hunter client
func New(cfg *config.Config, log *logger.Logger, rdb *redis.Client) *Client {
	pc := cfg.Hunter

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
		limiter:    rate.NewLimiter(perSecond, 2),
		apiKey:     pc.APIKey,
		baseURL:    pc.BaseURL,
	}
}

// Name returns the provider identifier
func (c *Client) Name() string { return providerName }

// domainSearchResponse is the shape of /domain-search
type domainSearchResponse struct {
	Data struct {
		Emails []struct {
			Value      string `json:"value"`
			FirstName  string `json:"first_name"`
			LastName   string `json:"last_name"`
			Position   string `json:"position"`
			Seniority  string `json:"seniority"`
			LinkedIn   string `json:"linkedin"`
			Phone      string `json:"phone_number"`
			Confidence int    `json:"confidence"` // 0-100
		} `json:"emails"`
	} `json:"data"`
}

// FindContact searches the domain for the most confident email address
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

	endpoint := fmt.Sprintf("%s/domain-search?domain=%s&api_key=%s",
		c.baseURL, url.QueryEscape(domain), url.QueryEscape(c.apiKey))
	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("hunter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, enrichment.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hunter returned status %d", resp.StatusCode)
	}

	var body domainSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("hunter decode failed: %w", err)
	}
	if len(body.Data.Emails) == 0 {
		return nil, enrichment.ErrNotFound
	}

	// Highest confidence entry wins
	best := body.Data.Emails[0]
	for _, e := range body.Data.Emails[1:] {
		if e.Confidence > best.Confidence {
			best = e
		}
	}

	contact = contracts.ContactSnapshot{
		Email:           best.Value,
		EmailConfidence: float64(best.Confidence) / 100.0,
		FullName:        joinName(best.FirstName, best.LastName),
		Title:           best.Position,
		LinkedInURL:     best.LinkedIn,
		Phone:           best.Phone,
		Seniority:       contracts.InferSeniority(best.Position),
		ContactCount:    len(body.Data.Emails),
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &contact, redis.TTLMedium)
	}

	return &contact, nil
}

// verifyResponse is the shape of /email-verifier
type verifyResponse struct {
	Data struct {
		Status string `json:"status"` // valid, invalid, accept_all, unknown
		Score  int    `json:"score"`  // 0-100
	} `json:"data"`
}

// VerifyEmail checks deliverability of one address
func (c *Client) VerifyEmail(ctx context.Context, email string) (bool, float64, error) {
	if c.apiKey == "" {
		return false, 0, enrichment.ErrDisabled
	}

	type cached struct {
		Verified   bool    `json:"verified"`
		Confidence float64 `json:"confidence"`
	}

	var result cached
	cacheKey := redis.EmailVerifyKey(providerName, email)
	if c.cache != nil {
		if found, _ := c.cache.Get(ctx, cacheKey, &result); found {
			return result.Verified, result.Confidence, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return false, 0, err
	}

	endpoint := fmt.Sprintf("%s/email-verifier?email=%s&api_key=%s",
		c.baseURL, url.QueryEscape(email), url.QueryEscape(c.apiKey))
	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return false, 0, fmt.Errorf("hunter verify failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, 0, fmt.Errorf("hunter returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, 0, fmt.Errorf("hunter decode failed: %w", err)
	}

	result = cached{
		Verified:   body.Data.Status == "valid",
		Confidence: float64(body.Data.Score) / 100.0,
	}
	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &result, redis.TTLShort)
	}

	return result.Verified, result.Confidence, nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
