package signals

import (
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
)

const (
	newsWindowDays = 14
	maxNewsSignals = 2
)

// detectNews emits an event for each of the first two news entries
// posted within the last 14 days. An entry without a posting date is
// treated as posted now.
func detectNews(current *contracts.CompanySnapshot, now time.Time) []*contracts.SignalEvent {
	items := current.RecentNews
	if len(items) > maxNewsSignals {
		items = items[:maxNewsSignals]
	}

	var events []*contracts.SignalEvent
	for _, item := range items {
		postedOn := item.PostedOn
		if !postedOn.Valid {
			postedOn = contracts.NewDateTime(now)
		}

		age := now.Sub(postedOn.Time)
		if age < 0 || age > newsWindowDays*24*time.Hour {
			continue
		}

		ev := contracts.NewSignalEvent(current.Domain, contracts.SignalNewsMention, now)
		ev.Confidence = 0.6
		ev.Source = current.Source()
		ev.SourceURL = item.URL
		ev.SignalDate = postedOn
		ev.Data = map[string]interface{}{
			"title": item.Title,
		}
		if item.Publisher != "" {
			ev.Data["publisher"] = item.Publisher
		}
		events = append(events, ev)
	}

	return events
}
