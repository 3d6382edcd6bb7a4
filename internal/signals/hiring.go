package signals

import (
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// detectHiring fires when the company is hiring and its open position
// count grew since the previous snapshot. A missing previous snapshot
// counts as a baseline of zero, so any open position fires.
func detectHiring(current, previous *contracts.CompanySnapshot, now time.Time) *contracts.SignalEvent {
	if !current.IsHiring || current.OpenPositions <= 0 {
		return nil
	}

	previousPositions := 0
	if previous != nil {
		previousPositions = previous.OpenPositions
	}
	if current.OpenPositions <= previousPositions {
		return nil
	}

	ev := contracts.NewSignalEvent(current.Domain, contracts.SignalJobPosting, now)
	ev.Confidence = hiringConfidence(current.OpenPositions)
	ev.Source = current.Source()
	ev.SignalDate = contracts.NewDateTime(now)
	ev.Data = map[string]interface{}{
		"open_positions":     current.OpenPositions,
		"previous_positions": previousPositions,
	}

	return ev
}

func hiringConfidence(openPositions int) float64 {
	c := 0.5 + float64(openPositions)/20.0
	if c > 1.0 {
		return 1.0
	}
	return c
}
