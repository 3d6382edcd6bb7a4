package contracts

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ScoreTier buckets a total score into an actionable priority band
type ScoreTier string

const (
	TierHot     ScoreTier = "hot"     // 80-100: immediate outreach
	TierWarm    ScoreTier = "warm"    // 60-79: this week
	TierNurture ScoreTier = "nurture" // 40-59: drip campaign
	TierCold    ScoreTier = "cold"    // 0-39: deprioritize
)

// TierForScore maps a total score to its tier
func TierForScore(score int) ScoreTier {
	switch {
	case score >= 80:
		return TierHot
	case score >= 60:
		return TierWarm
	case score >= 40:
		return TierNurture
	default:
		return TierCold
	}
}

// ScoreComponent is a single scoring rule's contribution
type ScoreComponent struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
	Source string `json:"source,omitempty"`
}

// ComponentMap is an insertion-ordered collection of scoring components
// keyed by rule name. The first contribution recorded under a rule name
// wins; later ones with the same name are dropped.
type ComponentMap struct {
	order []string
	items map[string]ScoreComponent
}

// Add records a component under name unless the name is already present.
// Returns true when the component was recorded.
func (m *ComponentMap) Add(name string, c ScoreComponent) bool {
	if m.items == nil {
		m.items = make(map[string]ScoreComponent)
	}
	if _, exists := m.items[name]; exists {
		return false
	}
	m.items[name] = c
	m.order = append(m.order, name)
	return true
}

// Has reports whether a rule name is already recorded
func (m *ComponentMap) Has(name string) bool {
	_, ok := m.items[name]
	return ok
}

// Get returns the component recorded under name
func (m *ComponentMap) Get(name string) (ScoreComponent, bool) {
	c, ok := m.items[name]
	return c, ok
}

// Names returns rule names in insertion order
func (m *ComponentMap) Names() []string {
	return m.order
}

// Len returns the number of recorded components
func (m *ComponentMap) Len() int {
	return len(m.order)
}

// Sum returns the total points across all components
func (m *ComponentMap) Sum() int {
	total := 0
	for _, name := range m.order {
		total += m.items[name].Points
	}
	return total
}

// MarshalJSON encodes the map as a JSON object in insertion order
func (m ComponentMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, name := range m.order {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.items[name])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON decodes a JSON object. Key order within the object is
// not recoverable from encoding/json, so decoded maps sort by name.
func (m *ComponentMap) UnmarshalJSON(data []byte) error {
	var raw map[string]ScoreComponent
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ComponentMap{}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.Add(name, raw[name])
	}
	return nil
}

// ScoreBreakdown explains how each dimension score was built
type ScoreBreakdown struct {
	Intent        ComponentMap `json:"intent"`
	Fit           ComponentMap `json:"fit"`
	Accessibility ComponentMap `json:"accessibility"`
}

// LeadScore is the scoring result for one lead against one ICP
type LeadScore struct {
	ID     uuid.UUID  `json:"id"`
	LeadID uuid.UUID  `json:"lead_id"`
	ICPID  *uuid.UUID `json:"icp_id,omitempty"`

	IntentScore        int `json:"intent_score"`
	FitScore           int `json:"fit_score"`
	AccessibilityScore int `json:"accessibility_score"`
	TotalScore         int `json:"total_score"`

	Tier      ScoreTier      `json:"tier"`
	Breakdown ScoreBreakdown `json:"breakdown"`

	// ActiveSignals lists the signal types that contributed to intent
	ActiveSignals []string `json:"active_signals,omitempty"`

	// PreviousScore and ScoreChange are nil when no earlier score exists
	PreviousScore *int `json:"previous_score,omitempty"`
	ScoreChange   *int `json:"score_change,omitempty"`

	CalculatedAt time.Time `json:"calculated_at"`
}
