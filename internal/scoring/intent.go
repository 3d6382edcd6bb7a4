package scoring

import (
	"fmt"
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// scoreIntent measures buying intent from funding recency, hiring
// activity and active signals. Returns the clamped score, the component
// breakdown and the signal types that contributed.
func scoreIntent(company *contracts.CompanySnapshot, signals []*contracts.SignalEvent, now time.Time) (int, contracts.ComponentMap, []string) {
	var components contracts.ComponentMap
	var activeTypes []string

	if company != nil {
		// Funding recency from the snapshot itself
		if company.LastFundingDate.Valid {
			days := int(now.Sub(company.LastFundingDate.Time).Hours() / 24)
			if points, reason := fundingRecencyPoints(days); points > 0 {
				components.Add("recent_funding", contracts.ScoreComponent{
					Points: points,
					Reason: reason,
					Source: company.Source(),
				})
			}
		}

		// Hiring activity
		if company.IsHiring {
			points, reason := hiringPoints(company.OpenPositions)
			components.Add("hiring_activity", contracts.ScoreComponent{
				Points: points,
				Reason: reason,
				Source: company.Source(),
			})
		}
	}

	// Every supplied signal type is recorded on the score, bonus or not
	seen := make(map[contracts.SignalType]struct{})
	for _, sig := range signals {
		if _, dup := seen[sig.Type]; dup {
			continue
		}
		seen[sig.Type] = struct{}{}
		activeTypes = append(activeTypes, string(sig.Type))
	}

	// Active signal bonuses, first occurrence of each type only
	for _, sig := range signals {
		var points int
		switch sig.Type {
		case contracts.SignalTechAdoption:
			points = 20
		case contracts.SignalExecutiveHire:
			points = 15
		case contracts.SignalNewsMention:
			points = 10
		default:
			continue
		}

		components.Add("signal_"+string(sig.Type), contracts.ScoreComponent{
			Points: points,
			Reason: fmt.Sprintf("active %s signal", sig.Type),
			Source: sig.Source,
		})
	}

	return clampScore(components.Sum()), components, activeTypes
}

func fundingRecencyPoints(daysAgo int) (int, string) {
	switch {
	case daysAgo < 0:
		return 0, ""
	case daysAgo <= 30:
		return 30, fmt.Sprintf("raised funding %d days ago", daysAgo)
	case daysAgo <= 90:
		return 20, fmt.Sprintf("raised funding %d days ago", daysAgo)
	case daysAgo <= 180:
		return 10, fmt.Sprintf("raised funding %d days ago", daysAgo)
	default:
		return 0, ""
	}
}

func hiringPoints(openPositions int) (int, string) {
	switch {
	case openPositions >= 10:
		return 25, fmt.Sprintf("actively hiring, %d open positions", openPositions)
	case openPositions >= 5:
		return 20, fmt.Sprintf("actively hiring, %d open positions", openPositions)
	case openPositions > 0:
		return 15, fmt.Sprintf("actively hiring, %d open positions", openPositions)
	default:
		return 10, "marked as hiring"
	}
}

// clampScore bounds a dimension or total score to 0-100
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
