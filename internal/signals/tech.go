package signals

import (
	"sort"
	"strings"
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// maxTechSignals caps how many adoption events one comparison can emit
const maxTechSignals = 3

// detectTechAdoption emits one event per technology present in the
// current stack but not the previous one. Comparison is case-insensitive
// and the first observation of a company yields nothing, since an empty
// baseline would flag the whole stack as new.
func detectTechAdoption(current, previous *contracts.CompanySnapshot, now time.Time) []*contracts.SignalEvent {
	if previous == nil {
		return nil
	}

	previousSet := previous.TechNameSet()
	seen := make(map[string]struct{})

	type newTech struct {
		key  string
		item contracts.TechStackItem
	}
	var added []newTech

	for _, item := range current.TechStack {
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if key == "" {
			continue
		}
		if _, ok := previousSet[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		added = append(added, newTech{key: key, item: item})
	}

	// Deterministic output order
	sort.Slice(added, func(i, j int) bool { return added[i].key < added[j].key })
	if len(added) > maxTechSignals {
		added = added[:maxTechSignals]
	}

	events := make([]*contracts.SignalEvent, 0, len(added))
	for _, nt := range added {
		ev := contracts.NewSignalEvent(current.Domain, contracts.SignalTechAdoption, now)
		ev.Confidence = 0.7
		ev.Source = current.Source()
		ev.SignalDate = contracts.NewDateTime(now)
		ev.Data = map[string]interface{}{
			"technology": nt.item.Name,
		}
		if nt.item.Category != "" {
			ev.Data["category"] = nt.item.Category
		}
		events = append(events, ev)
	}

	return events
}
