package signals

import (
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// fundingWindowDays is how recent a round must be to count as a signal
const fundingWindowDays = 90

// detectFunding fires when the company raised within the last 90 days
// and the round was not already seen in the previous snapshot.
// Confidence decays linearly with age, floored at 0.5.
func detectFunding(current, previous *contracts.CompanySnapshot, now time.Time) *contracts.SignalEvent {
	if !current.LastFundingDate.Valid {
		return nil
	}

	days := int(now.Sub(current.LastFundingDate.Time).Hours() / 24)
	if days < 0 || days > fundingWindowDays {
		return nil
	}

	// Same round already observed means no new signal
	if previous != nil && previous.LastFundingDate.Equal(current.LastFundingDate) {
		return nil
	}

	ev := contracts.NewSignalEvent(current.Domain, contracts.SignalFundingRound, now)
	ev.Confidence = fundingConfidence(days)
	ev.Source = current.Source()
	ev.SignalDate = current.LastFundingDate
	ev.Data = map[string]interface{}{
		"days_ago": days,
	}
	if current.FundingStage != "" {
		ev.Data["funding_stage"] = string(current.FundingStage)
	}
	if current.TotalFunding != nil {
		ev.Data["total_funding"] = *current.TotalFunding
	}

	return ev
}

func fundingConfidence(daysAgo int) float64 {
	c := 1.0 - float64(daysAgo)/float64(fundingWindowDays)
	if c < 0.5 {
		return 0.5
	}
	return c
}
