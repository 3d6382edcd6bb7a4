// Package newsscan scrapes a company's own press or news page for
// recent announcements. It is the zero-cost news source used when no
// paid provider returns news for a domain.
package newsscan

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/internal/enrichment"
	"github.com/hekax/outreach-intel/pkg/config"
	"github.com/hekax/outreach-intel/pkg/httputil"
	"github.com/hekax/outreach-intel/pkg/logger"
	"github.com/hekax/outreach-intel/pkg/redis"
)

// pressPaths are tried in order until one returns a page
var pressPaths = []string{"/press", "/news", "/newsroom", "/blog"}

// maxItems caps how many entries one scan returns
const maxItems = 5

// Scanner fetches and parses company press pages
type Scanner struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
}

// New creates a press page scanner
func New(cfg *config.Config, log *logger.Logger, rdb *redis.Client) *Scanner {
	var cache *redis.Cache
	if rdb != nil && rdb.Enabled() {
		cache = redis.NewCache(rdb, enrichment.RedisPrefix)
	}

	return &Scanner{
		httpClient: httputil.New(cfg, log).WithRetry(1, 0),
		cache:      cache,
		logger:     log,
	}
}

// Scan returns recent news entries scraped from the company's site.
// A site without a press page is not an error; it returns no items.
func (s *Scanner) Scan(ctx context.Context, domain string) ([]contracts.NewsItem, error) {
	cacheKey := fmt.Sprintf("newsscan:%s", domain)
	var items []contracts.NewsItem
	if s.cache != nil {
		if found, _ := s.cache.Get(ctx, cacheKey, &items); found {
			return items, nil
		}
	}

	for _, path := range pressPaths {
		pageURL := fmt.Sprintf("https://%s%s", domain, path)
		found, err := s.scanPage(ctx, pageURL)
		if err != nil {
			s.logger.WithError(err).WithField("url", pageURL).Debug("Press page fetch failed")
			continue
		}
		if len(found) > 0 {
			items = found
			break
		}
	}

	if s.cache != nil && len(items) > 0 {
		_ = s.cache.Set(ctx, cacheKey, items, redis.TTLLong)
	}

	return items, nil
}

func (s *Scanner) scanPage(ctx context.Context, pageURL string) ([]contracts.NewsItem, error) {
	resp, err := s.httpClient.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	var items []contracts.NewsItem
	seen := make(map[string]struct{})

	doc.Find("article, li.news-item, div.press-release").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		item, ok := extractItem(sel, pageURL)
		if !ok {
			return true
		}
		if _, dup := seen[item.Title]; dup {
			return true
		}
		seen[item.Title] = struct{}{}
		items = append(items, item)
		return len(items) < maxItems
	})

	// Fall back to headline links when the page has no article markup
	if len(items) == 0 {
		doc.Find("h2 a, h3 a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			title := strings.TrimSpace(sel.Text())
			if len(title) < 10 {
				return true
			}
			if _, dup := seen[title]; dup {
				return true
			}
			seen[title] = struct{}{}
			items = append(items, contracts.NewsItem{
				Title: title,
				URL:   absoluteURL(pageURL, sel.AttrOr("href", "")),
			})
			return len(items) < maxItems
		})
	}

	return items, nil
}

// extractItem pulls a title, link and date out of one article block
func extractItem(sel *goquery.Selection, pageURL string) (contracts.NewsItem, bool) {
	title := strings.TrimSpace(sel.Find("h1, h2, h3, .title").First().Text())
	if title == "" {
		title = strings.TrimSpace(sel.Find("a").First().Text())
	}
	if len(title) < 10 {
		return contracts.NewsItem{}, false
	}

	item := contracts.NewsItem{
		Title: title,
		URL:   absoluteURL(pageURL, sel.Find("a").First().AttrOr("href", "")),
	}

	// Prefer the machine-readable datetime attribute
	if dt := sel.Find("time").First().AttrOr("datetime", ""); dt != "" {
		item.PostedOn = contracts.ParseDateTime(dt)
	} else if txt := strings.TrimSpace(sel.Find("time, .date").First().Text()); txt != "" {
		item.PostedOn = contracts.ParseDateTime(txt)
	}

	return item, true
}

func absoluteURL(pageURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := pageURL[:strings.LastIndex(pageURL, "/")]
	if strings.HasPrefix(href, "/") {
		// Scheme plus host only
		if idx := strings.Index(pageURL, "//"); idx >= 0 {
			if end := strings.Index(pageURL[idx+2:], "/"); end >= 0 {
				base = pageURL[:idx+2+end]
			}
		}
	}
	return base + "/" + strings.TrimPrefix(href, "/")
}
