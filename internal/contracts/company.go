package contracts

import (
	"strings"
	"time"
)

// FundingStage represents a company's most recent funding round stage
type FundingStage string

const (
	StagePreSeed      FundingStage = "Pre-Seed"
	StageSeed         FundingStage = "Seed"
	StageSeriesA      FundingStage = "Series A"
	StageSeriesB      FundingStage = "Series B"
	StageSeriesC      FundingStage = "Series C"
	StageSeriesDPlus  FundingStage = "Series D+"
	StageIPO          FundingStage = "IPO"
	StagePrivate      FundingStage = "Private"
	StageBootstrapped FundingStage = "Bootstrapped"
)

// IsValid reports whether the stage is one of the known enum values
func (s FundingStage) IsValid() bool {
	switch s {
	case StagePreSeed, StageSeed, StageSeriesA, StageSeriesB, StageSeriesC,
		StageSeriesDPlus, StageIPO, StagePrivate, StageBootstrapped:
		return true
	}
	return false
}

// ParseFundingStage maps a provider string onto the stage enum.
// Unknown values yield the empty stage (absent).
func ParseFundingStage(s string) FundingStage {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "pre-seed", "pre_seed", "preseed", "angel":
		return StagePreSeed
	case "seed":
		return StageSeed
	case "series a", "series_a", "a":
		return StageSeriesA
	case "series b", "series_b", "b":
		return StageSeriesB
	case "series c", "series_c", "c":
		return StageSeriesC
	case "series d", "series d+", "series_d", "series e", "series f", "late stage":
		return StageSeriesDPlus
	case "ipo", "public":
		return StageIPO
	case "private", "private equity":
		return StagePrivate
	case "bootstrapped", "unfunded":
		return StageBootstrapped
	default:
		return ""
	}
}

// TechStackItem is a technology detected in a company's stack
type TechStackItem struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"` // frontend, backend, database, devops, analytics, ...
}

// NewsItem is a recent news mention of a company
type NewsItem struct {
	Title     string   `json:"title"`
	URL       string   `json:"url,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	PostedOn  DateTime `json:"posted_on"`
}

// CompanySnapshot is a point-in-time record of a company's enriched
// attributes, merged across providers. The domain is the identity key;
// every other field is optional and absence means "unknown", never an
// error.
type CompanySnapshot struct {
	Domain string `json:"domain"`
	Name   string `json:"name,omitempty"`

	// Firmographics
	Industry      string `json:"industry,omitempty"`
	EmployeeCount *int   `json:"employee_count,omitempty"` // >= 0 when present
	AnnualRevenue *int64 `json:"annual_revenue,omitempty"` // USD

	// Funding
	FundingStage    FundingStage `json:"funding_stage,omitempty"`
	TotalFunding    *int64       `json:"total_funding,omitempty"` // USD
	LastFundingDate DateTime     `json:"last_funding_date"`

	// Hiring activity
	IsHiring      bool `json:"is_hiring"`
	OpenPositions int  `json:"open_positions"`

	// Technology
	TechStack []TechStackItem `json:"tech_stack,omitempty"`

	// Location
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`

	// Activity
	RecentNews []NewsItem `json:"recent_news,omitempty"`

	// Meta
	Sources    []string  `json:"sources,omitempty"` // providers that contributed
	EnrichedAt time.Time `json:"enriched_at,omitempty"`
}

// Source returns the comma-joined provider list that contributed to this
// snapshot, used as the source attribution on emitted signals
func (c *CompanySnapshot) Source() string {
	return strings.Join(c.Sources, ", ")
}

// TechNameSet returns the set of technology names, lower-cased.
// Tech comparisons are case-insensitive everywhere.
func (c *CompanySnapshot) TechNameSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.TechStack))
	for _, item := range c.TechStack {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Location returns the best available location identifier, preferring the
// ISO country code over the free-form country name
func (c *CompanySnapshot) Location() string {
	if c.CountryCode != "" {
		return c.CountryCode
	}
	return c.Country
}
