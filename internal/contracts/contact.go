package contracts

import "strings"

// Seniority classifies a contact's level within the company
type Seniority string

const (
	SeniorityCLevel     Seniority = "C-Level"
	SeniorityVP         Seniority = "VP"
	SeniorityDirector   Seniority = "Director"
	SeniorityManager    Seniority = "Manager"
	SenioritySenior     Seniority = "Senior"
	SeniorityMid        Seniority = "Mid"
	SeniorityJunior     Seniority = "Junior"
	SeniorityIndividual Seniority = "Individual Contributor"
)

// InferSeniority derives a seniority level from a job title.
// Returns the empty string when the title gives no hint.
func InferSeniority(title string) Seniority {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return ""
	}

	switch {
	case strings.Contains(t, "chief") || strings.HasPrefix(t, "ceo") ||
		strings.HasPrefix(t, "cto") || strings.HasPrefix(t, "cfo") ||
		strings.HasPrefix(t, "coo") || strings.HasPrefix(t, "cmo") ||
		strings.Contains(t, "founder") || strings.Contains(t, "president") ||
		strings.Contains(t, "owner"):
		return SeniorityCLevel
	case strings.Contains(t, "vice president") || strings.Contains(t, "vp "):
		return SeniorityVP
	case strings.HasPrefix(t, "vp") || strings.HasSuffix(t, " vp"):
		return SeniorityVP
	case strings.Contains(t, "director") || strings.Contains(t, "head of"):
		return SeniorityDirector
	case strings.Contains(t, "manager") || strings.Contains(t, "lead"):
		return SeniorityManager
	case strings.Contains(t, "senior") || strings.Contains(t, "principal") ||
		strings.Contains(t, "staff"):
		return SenioritySenior
	case strings.Contains(t, "junior") || strings.Contains(t, "intern") ||
		strings.Contains(t, "associate"):
		return SeniorityJunior
	default:
		return SeniorityIndividual
	}
}

// IsDecisionMaker reports whether the seniority carries buying authority
func (s Seniority) IsDecisionMaker() bool {
	switch s {
	case SeniorityCLevel, SeniorityVP, SeniorityDirector:
		return true
	}
	return false
}

// ContactSnapshot is the reachability view of the primary contact at a
// company. All fields are optional; absence means "unknown".
type ContactSnapshot struct {
	Email           string    `json:"email,omitempty"`
	EmailVerified   bool      `json:"email_verified"`
	EmailConfidence float64   `json:"email_confidence,omitempty"` // 0.0 - 1.0
	LinkedInURL     string    `json:"linkedin_url,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	FullName        string    `json:"full_name,omitempty"`
	Title           string    `json:"title,omitempty"`
	Seniority       Seniority `json:"seniority,omitempty"`

	// ContactCount is the number of known contacts at the company,
	// including this one. Zero means unknown and is treated as one.
	ContactCount int `json:"contact_count,omitempty"`
}

// EffectiveSeniority returns the stored seniority, inferring it from the
// title when the provider did not classify the contact
func (c *ContactSnapshot) EffectiveSeniority() Seniority {
	if c.Seniority != "" {
		return c.Seniority
	}
	return InferSeniority(c.Title)
}
