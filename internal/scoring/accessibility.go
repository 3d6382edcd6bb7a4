package scoring

import (
	"fmt"
	"strings"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// scoreAccessibility measures how reachable the primary contact is.
// No contact data means zero accessibility.
func scoreAccessibility(contact *contracts.ContactSnapshot, icp *contracts.ICPProfile) (int, contracts.ComponentMap) {
	var components contracts.ComponentMap

	if contact == nil {
		return 0, components
	}

	// 1. Email quality
	if contact.Email != "" {
		switch {
		case contact.EmailVerified:
			components.Add("email", contracts.ScoreComponent{
				Points: 30, Reason: "verified email address",
			})
		case contact.EmailConfidence >= 0.8:
			components.Add("email", contracts.ScoreComponent{
				Points: 25,
				Reason: fmt.Sprintf("high confidence email (%.2f)", contact.EmailConfidence),
			})
		default:
			components.Add("email", contracts.ScoreComponent{
				Points: 15, Reason: "unverified email address",
			})
		}
	}

	// 2. Alternate channels
	if contact.LinkedInURL != "" {
		components.Add("linkedin", contracts.ScoreComponent{
			Points: 25, Reason: "LinkedIn profile available",
		})
	}
	if contact.Phone != "" {
		components.Add("phone", contracts.ScoreComponent{
			Points: 20, Reason: "phone number available",
		})
	}

	// 3. Title relevance
	if points, reason := titlePoints(contact, icp); points > 0 {
		components.Add("title", contracts.ScoreComponent{Points: points, Reason: reason})
	}

	// 4. Depth of coverage
	if contact.ContactCount > 1 {
		points := contact.ContactCount * 3
		if points > 10 {
			points = 10
		}
		components.Add("multiple_contacts", contracts.ScoreComponent{
			Points: points,
			Reason: fmt.Sprintf("%d known contacts at the company", contact.ContactCount),
		})
	}

	return clampScore(components.Sum()), components
}

// titlePoints prefers an explicit target title match over a generic
// decision-maker bonus
func titlePoints(contact *contracts.ContactSnapshot, icp *contracts.ICPProfile) (int, string) {
	title := strings.ToLower(strings.TrimSpace(contact.Title))

	if icp != nil && title != "" {
		for _, target := range icp.Filters.TargetTitles {
			t := strings.ToLower(strings.TrimSpace(target))
			if t == "" {
				continue
			}
			if strings.Contains(title, t) || strings.Contains(t, title) {
				return 15, fmt.Sprintf("title %q matches target %q", contact.Title, target)
			}
		}
	}

	if seniority := contact.EffectiveSeniority(); seniority.IsDecisionMaker() {
		return 10, fmt.Sprintf("%s level contact", seniority)
	}

	return 0, ""
}
