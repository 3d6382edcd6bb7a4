// Package signals detects buying signals by comparing company snapshots.
// Detection is pure: it reads two snapshots and a reference time and
// emits events. Persistence and enrichment live elsewhere.
package signals

import (
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// Detector runs the signal rules over snapshot pairs
type Detector struct {
	logger *logger.Logger
}

// NewDetector creates a signal detector
func NewDetector(log *logger.Logger) *Detector {
	return &Detector{logger: log}
}

// Detect compares the current snapshot against the previous one and
// returns all signals that fire at the reference time now. A nil
// previous snapshot means this is the first observation of the company;
// delta rules that need a baseline stay silent.
func (d *Detector) Detect(current, previous *contracts.CompanySnapshot, now time.Time) []*contracts.SignalEvent {
	if current == nil {
		return nil
	}

	var events []*contracts.SignalEvent

	// 1. Recent funding round
	if ev := detectFunding(current, previous, now); ev != nil {
		events = append(events, ev)
	}

	// 2. Hiring surge
	if ev := detectHiring(current, previous, now); ev != nil {
		events = append(events, ev)
	}

	// 3. New technology adoption
	events = append(events, detectTechAdoption(current, previous, now)...)

	// 4. Headcount growth
	if ev := detectGrowth(current, previous, now); ev != nil {
		events = append(events, ev)
	}

	// 5. Recent news mentions
	events = append(events, detectNews(current, now)...)

	if d.logger != nil && len(events) > 0 {
		d.logger.WithFields(map[string]interface{}{
			"domain":  current.Domain,
			"signals": len(events),
		}).Debug("Signals detected")
	}

	return events
}
