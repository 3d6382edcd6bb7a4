package contracts

import (
	"time"

	"github.com/google/uuid"
)

// TechRequirements describes the technology profile an ICP looks for
type TechRequirements struct {
	MustHave []string `json:"must_have,omitempty"`
	NiceHave []string `json:"nice_to_have,omitempty"`
	Avoid    []string `json:"avoid,omitempty"`
}

// ICPFilters holds the firmographic criteria of an ideal customer profile.
// Empty slices and nil bounds mean "no preference" for that dimension.
type ICPFilters struct {
	Industries         []string         `json:"industries,omitempty"`
	ExcludedIndustries []string         `json:"excluded_industries,omitempty"`
	EmployeeMin        *int             `json:"employee_min,omitempty"`
	EmployeeMax        *int             `json:"employee_max,omitempty"`
	RevenueMin         *int64           `json:"revenue_min,omitempty"` // annual revenue in USD
	RevenueMax         *int64           `json:"revenue_max,omitempty"`
	Tech               TechRequirements `json:"tech"`
	Countries          []string         `json:"countries,omitempty"` // ISO codes or names, matched case-insensitively
	ExcludedCountries  []string         `json:"excluded_countries,omitempty"`
	FundingStages      []FundingStage   `json:"funding_stages,omitempty"`
	TargetTitles       []string         `json:"target_titles,omitempty"`
	TargetDepartments  []string         `json:"target_departments,omitempty"`
	SeniorityLevels    []Seniority      `json:"seniority_levels,omitempty"`
}

// Weights is the relative importance of the three scoring dimensions.
// Values are percentages and are normalized to sum to 100 before use.
type Weights struct {
	Intent        int `json:"intent"`
	Fit           int `json:"fit"`
	Accessibility int `json:"accessibility"`
}

// DefaultWeights returns the standard 40/35/25 split
func DefaultWeights() Weights {
	return Weights{Intent: 40, Fit: 35, Accessibility: 25}
}

// Normalized returns weights scaled so they sum to exactly 100.
// Intent and fit are scaled by integer division; accessibility absorbs
// the rounding remainder. A non-positive total falls back to defaults.
func (w Weights) Normalized() Weights {
	total := w.Intent + w.Fit + w.Accessibility
	if total <= 0 {
		return DefaultWeights()
	}
	if total == 100 {
		return w
	}

	intent := w.Intent * 100 / total
	fit := w.Fit * 100 / total
	return Weights{
		Intent:        intent,
		Fit:           fit,
		Accessibility: 100 - intent - fit,
	}
}

// ICPProfile is a named ideal customer profile owned by a user
type ICPProfile struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	IsDefault bool       `json:"is_default"`
	Filters   ICPFilters `json:"filters"`
	Weights   Weights    `json:"weights"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
