package contracts

import (
	"time"

	"github.com/google/uuid"
)

// SignalType identifies the kind of buying signal
type SignalType string

const (
	SignalFundingRound    SignalType = "funding_round"
	SignalExecutiveHire   SignalType = "executive_hire"
	SignalJobPosting      SignalType = "job_posting"
	SignalTechAdoption    SignalType = "tech_adoption"
	SignalNewsMention     SignalType = "news_mention"
	SignalGrowthIndicator SignalType = "growth_indicator"
	SignalContractEnding  SignalType = "contract_ending"
	SignalWebsiteChange   SignalType = "website_change"
)

// IsValid reports whether the type is one of the known signal types
func (t SignalType) IsValid() bool {
	_, ok := signalTTLDays[t]
	return ok
}

// SignalCategory names the scoring dimension a signal feeds
type SignalCategory string

const (
	CategoryIntent     SignalCategory = "intent"
	CategoryFit        SignalCategory = "fit"
	CategoryEngagement SignalCategory = "engagement"
)

// Category returns the scoring dimension a signal type feeds. Every
// type the detector emits is a buying-intent signal; fit and engagement
// categories are reserved for signals produced outside this service.
func (t SignalType) Category() SignalCategory {
	return CategoryIntent
}

// signalTTLDays is how long each signal type stays actionable
var signalTTLDays = map[SignalType]int{
	SignalFundingRound:    90,
	SignalExecutiveHire:   60,
	SignalJobPosting:      30,
	SignalTechAdoption:    60,
	SignalNewsMention:     14,
	SignalGrowthIndicator: 90,
	SignalContractEnding:  30,
	SignalWebsiteChange:   7,
}

// signalImpact is the default score impact of each signal type
var signalImpact = map[SignalType]int{
	SignalFundingRound:    30,
	SignalExecutiveHire:   15,
	SignalJobPosting:      20,
	SignalTechAdoption:    20,
	SignalNewsMention:     10,
	SignalGrowthIndicator: 15,
	SignalContractEnding:  25,
	SignalWebsiteChange:   5,
}

// TTLFor returns the lifetime of a signal type. Unknown types get a
// conservative 30 days.
func TTLFor(t SignalType) time.Duration {
	days, ok := signalTTLDays[t]
	if !ok {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// ImpactFor returns the default score impact of a signal type.
// Unknown types get 10.
func ImpactFor(t SignalType) int {
	impact, ok := signalImpact[t]
	if !ok {
		return 10
	}
	return impact
}

// SignalEvent is one detected buying signal for a company
type SignalEvent struct {
	ID            uuid.UUID      `json:"id,omitempty"`
	LeadID        *uuid.UUID     `json:"lead_id,omitempty"`
	CompanyDomain string         `json:"company_domain"`
	Type          SignalType     `json:"signal_type"`
	Category      SignalCategory `json:"category"`

	// Data holds type-specific detail (round size, position count, ...)
	Data map[string]interface{} `json:"data,omitempty"`

	ScoreImpact int     `json:"score_impact"`
	Confidence  float64 `json:"confidence"` // 0.0 - 1.0

	Source    string `json:"source,omitempty"`
	SourceURL string `json:"source_url,omitempty"`

	SignalDate DateTime  `json:"signal_date"`
	DetectedAt time.Time `json:"detected_at"`
	ExpiresAt  DateTime  `json:"expires_at"`
}

// IsActive reports whether the signal has not yet expired at ref.
// Signals without an expiry never expire.
func (s *SignalEvent) IsActive(ref time.Time) bool {
	if !s.ExpiresAt.Valid {
		return true
	}
	return s.ExpiresAt.Time.After(ref)
}

// NewSignalEvent builds a signal of the given type with its default
// impact, category and TTL anchored at detectedAt
func NewSignalEvent(domain string, t SignalType, detectedAt time.Time) *SignalEvent {
	return &SignalEvent{
		CompanyDomain: domain,
		Type:          t,
		Category:      t.Category(),
		ScoreImpact:   ImpactFor(t),
		DetectedAt:    detectedAt,
		ExpiresAt:     NewDateTime(detectedAt.Add(TTLFor(t))),
	}
}
