package signals

import (
	"math"
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// growthThreshold is the minimum headcount growth rate that fires
const growthThreshold = 0.20

// detectGrowth fires when headcount grew at least 20% between snapshots.
// Both snapshots must carry an employee count and the baseline must be
// positive.
func detectGrowth(current, previous *contracts.CompanySnapshot, now time.Time) *contracts.SignalEvent {
	if previous == nil || current.EmployeeCount == nil || previous.EmployeeCount == nil {
		return nil
	}

	prev := *previous.EmployeeCount
	curr := *current.EmployeeCount
	if prev <= 0 {
		return nil
	}

	rate := float64(curr-prev) / float64(prev)
	if rate < growthThreshold {
		return nil
	}

	ev := contracts.NewSignalEvent(current.Domain, contracts.SignalGrowthIndicator, now)
	ev.Confidence = growthConfidence(rate)
	ev.Source = current.Source()
	ev.SignalDate = contracts.NewDateTime(now)
	ev.Data = map[string]interface{}{
		"previous_count": prev,
		"current_count":  curr,
		"growth_rate":    math.Round(rate*100) / 100,
	}

	return ev
}

func growthConfidence(rate float64) float64 {
	c := 0.5 + rate/2.0
	if c > 1.0 {
		return 1.0
	}
	return c
}
