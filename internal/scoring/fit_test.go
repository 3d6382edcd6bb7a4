package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hekax/outreach-intel/internal/contracts"
)

func icpWith(filters contracts.ICPFilters) *contracts.ICPProfile {
	return &contracts.ICPProfile{
		Name:    "test profile",
		Filters: filters,
		Weights: contracts.DefaultWeights(),
	}
}

func TestScoreFitNoICP(t *testing.T) {
	score, parts := scoreFit(&contracts.CompanySnapshot{Domain: "acme.io"}, nil)
	assert.Equal(t, 50, score)

	c, ok := parts.Get("default")
	assert.True(t, ok)
	assert.Equal(t, 50, c.Points)
}

func TestScoreFitIndustry(t *testing.T) {
	icp := icpWith(contracts.ICPFilters{
		Industries:         []string{"SaaS", "Fintech"},
		ExcludedIndustries: []string{"Gambling"},
	})

	// Substring match either way
	score, _ := scoreFit(&contracts.CompanySnapshot{Domain: "a.io", Industry: "B2B SaaS"}, icp)
	assert.Equal(t, 25, score)

	// Excluded industry is a hard penalty, clamped at zero overall
	score, parts := scoreFit(&contracts.CompanySnapshot{Domain: "a.io", Industry: "Gambling"}, icp)
	assert.Equal(t, 0, score)
	c, _ := parts.Get("industry")
	assert.Equal(t, -30, c.Points)

	// Anything neither targeted nor excluded is a partial match
	score, parts = scoreFit(&contracts.CompanySnapshot{Domain: "a.io", Industry: "Agriculture"}, icp)
	assert.Equal(t, 10, score)
	c, _ = parts.Get("industry")
	assert.Equal(t, 10, c.Points)

	// A target match beats an exclusion when an industry is on both lists
	icp2 := icpWith(contracts.ICPFilters{
		Industries:         []string{"Gambling"},
		ExcludedIndustries: []string{"Gambling"},
	})
	score, _ = scoreFit(&contracts.CompanySnapshot{Domain: "a.io", Industry: "Gambling"}, icp2)
	assert.Equal(t, 25, score)

	// Unknown industry skips the rule
	score, parts = scoreFit(&contracts.CompanySnapshot{Domain: "a.io"}, icp)
	assert.Equal(t, 0, score)
	assert.False(t, parts.Has("industry"))
}

func TestScoreFitCompanySize(t *testing.T) {
	min, max := 50, 500
	icp := icpWith(contracts.ICPFilters{EmployeeMin: &min, EmployeeMax: &max})

	count := func(n int) *contracts.CompanySnapshot {
		return &contracts.CompanySnapshot{Domain: "a.io", EmployeeCount: &n}
	}

	// In range
	score, _ := scoreFit(count(200), icp)
	assert.Equal(t, 25, score)

	// Below minimum scales linearly: round(15 * 20/50) = 6
	score, _ = scoreFit(count(20), icp)
	assert.Equal(t, 6, score)

	// Above maximum gets a token
	score, _ = scoreFit(count(2000), icp)
	assert.Equal(t, 5, score)

	// No employee count skips the rule
	score, parts := scoreFit(&contracts.CompanySnapshot{Domain: "a.io"}, icp)
	assert.Equal(t, 0, score)
	assert.False(t, parts.Has("company_size"))
}

func TestScoreFitTech(t *testing.T) {
	icp := icpWith(contracts.ICPFilters{
		Tech: contracts.TechRequirements{
			MustHave: []string{"Kubernetes", "PostgreSQL", "Kafka"},
			NiceHave: []string{"Terraform", "Datadog"},
			Avoid:    []string{"SharePoint"},
		},
	})

	company := &contracts.CompanySnapshot{
		Domain: "a.io",
		TechStack: []contracts.TechStackItem{
			{Name: "kubernetes"}, // case-insensitive
			{Name: "PostgreSQL"},
			{Name: "Terraform"},
			{Name: "SharePoint"},
		},
	}

	score, parts := scoreFit(company, icp)

	must, _ := parts.Get("tech_must_have")
	assert.Equal(t, 20, must.Points) // min(20, 10 + 2*5)

	nice, _ := parts.Get("tech_nice_to_have")
	assert.Equal(t, 3, nice.Points)

	avoid, _ := parts.Get("tech_avoid")
	assert.Equal(t, -10, avoid.Points)

	assert.Equal(t, 13, score)
}

func TestScoreFitTechGatedOnMustHave(t *testing.T) {
	// Without must-have requirements the whole tech block is skipped
	icp := icpWith(contracts.ICPFilters{
		Tech: contracts.TechRequirements{Avoid: []string{"SharePoint"}},
	})
	company := &contracts.CompanySnapshot{
		Domain:    "a.io",
		TechStack: []contracts.TechStackItem{{Name: "SharePoint"}},
	}

	score, parts := scoreFit(company, icp)
	assert.Equal(t, 0, score)
	assert.False(t, parts.Has("tech_avoid"))
}

func TestScoreFitGeography(t *testing.T) {
	icp := icpWith(contracts.ICPFilters{
		Countries:         []string{"US", "CA"},
		ExcludedCountries: []string{"RU"},
	})

	// Country code match, case-insensitive
	score, _ := scoreFit(&contracts.CompanySnapshot{Domain: "a.io", CountryCode: "us"}, icp)
	assert.Equal(t, 15, score)

	// Outside the target list but not excluded is neutral
	score, parts := scoreFit(&contracts.CompanySnapshot{Domain: "a.io", CountryCode: "DE"}, icp)
	assert.Equal(t, 0, score)
	assert.False(t, parts.Has("geography"))

	// Excluded country is a penalty, clamped at zero overall
	score, parts = scoreFit(&contracts.CompanySnapshot{Domain: "a.io", CountryCode: "RU"}, icp)
	assert.Equal(t, 0, score)
	c, _ := parts.Get("geography")
	assert.Equal(t, -20, c.Points)

	// Exclusions apply without a target list
	icp2 := icpWith(contracts.ICPFilters{ExcludedCountries: []string{"KP"}})
	_, parts = scoreFit(&contracts.CompanySnapshot{Domain: "a.io", CountryCode: "KP"}, icp2)
	c, _ = parts.Get("geography")
	assert.Equal(t, -20, c.Points)

	// Falls back to the country name when no code is present
	score, _ = scoreFit(&contracts.CompanySnapshot{Domain: "a.io", Country: "US"}, icp)
	assert.Equal(t, 15, score)

	// Unknown location skips the rule
	_, parts = scoreFit(&contracts.CompanySnapshot{Domain: "a.io"}, icp)
	assert.False(t, parts.Has("geography"))
}

func TestScoreFitFundingStage(t *testing.T) {
	icp := icpWith(contracts.ICPFilters{
		FundingStages: []contracts.FundingStage{contracts.StageSeriesA, contracts.StageSeriesB},
	})

	score, _ := scoreFit(&contracts.CompanySnapshot{Domain: "a.io", FundingStage: contracts.StageSeriesB}, icp)
	assert.Equal(t, 15, score)

	score, parts := scoreFit(&contracts.CompanySnapshot{Domain: "a.io", FundingStage: contracts.StageSeed}, icp)
	assert.Equal(t, 0, score)
	assert.False(t, parts.Has("funding_stage"))
}

func TestScoreFitCombined(t *testing.T) {
	min := 10
	icp := icpWith(contracts.ICPFilters{
		Industries:  []string{"SaaS"},
		EmployeeMin: &min,
		Countries:   []string{"US"},
	})

	employees := 120
	company := &contracts.CompanySnapshot{
		Domain:        "a.io",
		Industry:      "SaaS",
		EmployeeCount: &employees,
		CountryCode:   "US",
	}

	// 25 + 25 + 15
	score, _ := scoreFit(company, icp)
	assert.Equal(t, 65, score)
}
