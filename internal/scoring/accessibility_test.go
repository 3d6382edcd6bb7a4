package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hekax/outreach-intel/internal/contracts"
)

func TestScoreAccessibilityNoContact(t *testing.T) {
	score, parts := scoreAccessibility(nil, nil)
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, parts.Len())
}

func TestScoreAccessibilityEmailTiers(t *testing.T) {
	tests := []struct {
		name    string
		contact contracts.ContactSnapshot
		want    int
	}{
		{"verified", contracts.ContactSnapshot{Email: "a@b.io", EmailVerified: true}, 30},
		{"high confidence", contracts.ContactSnapshot{Email: "a@b.io", EmailConfidence: 0.85}, 25},
		{"boundary confidence", contracts.ContactSnapshot{Email: "a@b.io", EmailConfidence: 0.8}, 25},
		{"unverified", contracts.ContactSnapshot{Email: "a@b.io", EmailConfidence: 0.5}, 15},
		{"no email", contracts.ContactSnapshot{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := scoreAccessibility(&tt.contact, nil)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScoreAccessibilityChannels(t *testing.T) {
	contact := &contracts.ContactSnapshot{
		LinkedInURL: "https://linkedin.com/in/someone",
		Phone:       "+1 555 0100",
	}

	score, parts := scoreAccessibility(contact, nil)
	assert.Equal(t, 45, score)
	assert.True(t, parts.Has("linkedin"))
	assert.True(t, parts.Has("phone"))
}

func TestScoreAccessibilityTitle(t *testing.T) {
	icp := icpWith(contracts.ICPFilters{TargetTitles: []string{"VP of Engineering", "CTO"}})

	// Target title substring match
	contact := &contracts.ContactSnapshot{Title: "VP of Engineering, Platform"}
	score, parts := scoreAccessibility(contact, icp)
	assert.Equal(t, 15, score)
	assert.True(t, parts.Has("title"))

	// No title match but decision-maker seniority
	contact = &contracts.ContactSnapshot{Title: "Director of Revenue"}
	score, _ = scoreAccessibility(contact, icp)
	assert.Equal(t, 10, score)

	// Seniority bonus also applies without an ICP
	contact = &contracts.ContactSnapshot{Title: "Chief Revenue Officer"}
	score, _ = scoreAccessibility(contact, nil)
	assert.Equal(t, 10, score)

	// Individual contributors get neither
	contact = &contracts.ContactSnapshot{Title: "Software Engineer"}
	score, _ = scoreAccessibility(contact, nil)
	assert.Equal(t, 0, score)
}

func TestScoreAccessibilityMultipleContacts(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0}, // unknown, treated as one
		{1, 0},
		{2, 6},
		{3, 9},
		{4, 10}, // capped
		{10, 10},
	}

	for _, tt := range tests {
		contact := &contracts.ContactSnapshot{ContactCount: tt.count}
		score, _ := scoreAccessibility(contact, nil)
		assert.Equal(t, tt.want, score, "contact count %d", tt.count)
	}
}

func TestScoreAccessibilityFullHouse(t *testing.T) {
	icp := icpWith(contracts.ICPFilters{TargetTitles: []string{"CTO"}})
	contact := &contracts.ContactSnapshot{
		Email:         "cto@acme.io",
		EmailVerified: true,
		LinkedInURL:   "https://linkedin.com/in/cto",
		Phone:         "+1 555 0100",
		Title:         "CTO",
		ContactCount:  4,
	}

	// 30 + 25 + 20 + 15 + 10 = 100, at the cap
	score, _ := scoreAccessibility(contact, icp)
	assert.Equal(t, 100, score)
}
