package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekax/outreach-intel/internal/contracts"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func snapshotWithFunding(daysAgo int) *contracts.CompanySnapshot {
	return &contracts.CompanySnapshot{
		Domain:          "acme.io",
		FundingStage:    contracts.StageSeriesB,
		LastFundingDate: contracts.NewDateTime(testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour)),
		Sources:         []string{"crunchbase"},
	}
}

func findByType(events []*contracts.SignalEvent, t contracts.SignalType) *contracts.SignalEvent {
	for _, ev := range events {
		if ev.Type == t {
			return ev
		}
	}
	return nil
}

func TestDetectFundingWithinWindow(t *testing.T) {
	d := NewDetector(nil)

	events := d.Detect(snapshotWithFunding(30), nil, testNow)
	ev := findByType(events, contracts.SignalFundingRound)
	require.NotNil(t, ev)

	assert.Equal(t, 30, ev.ScoreImpact)
	assert.InDelta(t, 1.0-30.0/90.0, ev.Confidence, 0.001)
	assert.Equal(t, "crunchbase", ev.Source)
	assert.Equal(t, "Series B", ev.Data["funding_stage"])

	// Expiry is 90 days after detection
	require.True(t, ev.ExpiresAt.Valid)
	assert.Equal(t, testNow.Add(90*24*time.Hour), ev.ExpiresAt.Time)
}

func TestDetectFundingBoundary(t *testing.T) {
	d := NewDetector(nil)

	// Day 90 still fires with floored confidence
	events := d.Detect(snapshotWithFunding(90), nil, testNow)
	ev := findByType(events, contracts.SignalFundingRound)
	require.NotNil(t, ev)
	assert.Equal(t, 0.5, ev.Confidence)

	// Day 91 does not fire
	events = d.Detect(snapshotWithFunding(91), nil, testNow)
	assert.Nil(t, findByType(events, contracts.SignalFundingRound))
}

func TestDetectFundingSuppressedWhenUnchanged(t *testing.T) {
	d := NewDetector(nil)

	current := snapshotWithFunding(10)
	previous := snapshotWithFunding(10)

	events := d.Detect(current, previous, testNow)
	assert.Nil(t, findByType(events, contracts.SignalFundingRound),
		"same round in both snapshots should not fire again")

	// A different round date is a new signal
	older := snapshotWithFunding(200)
	events = d.Detect(current, older, testNow)
	assert.NotNil(t, findByType(events, contracts.SignalFundingRound))
}

func TestDetectHiring(t *testing.T) {
	d := NewDetector(nil)

	current := &contracts.CompanySnapshot{
		Domain:        "acme.io",
		IsHiring:      true,
		OpenPositions: 8,
	}

	// No previous snapshot means baseline zero
	events := d.Detect(current, nil, testNow)
	ev := findByType(events, contracts.SignalJobPosting)
	require.NotNil(t, ev)
	assert.Equal(t, 20, ev.ScoreImpact)
	assert.InDelta(t, 0.5+8.0/20.0, ev.Confidence, 0.001)
	assert.Equal(t, 8, ev.Data["open_positions"])
	assert.Equal(t, 0, ev.Data["previous_positions"])

	// Flat or shrinking counts stay silent
	previous := &contracts.CompanySnapshot{Domain: "acme.io", IsHiring: true, OpenPositions: 8}
	events = d.Detect(current, previous, testNow)
	assert.Nil(t, findByType(events, contracts.SignalJobPosting))

	// Confidence caps at 1.0
	big := &contracts.CompanySnapshot{Domain: "acme.io", IsHiring: true, OpenPositions: 40}
	events = d.Detect(big, nil, testNow)
	ev = findByType(events, contracts.SignalJobPosting)
	require.NotNil(t, ev)
	assert.Equal(t, 1.0, ev.Confidence)
}

func TestDetectTechAdoption(t *testing.T) {
	d := NewDetector(nil)

	previous := &contracts.CompanySnapshot{
		Domain: "acme.io",
		TechStack: []contracts.TechStackItem{
			{Name: "PostgreSQL"},
			{Name: "React"},
		},
	}
	current := &contracts.CompanySnapshot{
		Domain: "acme.io",
		TechStack: []contracts.TechStackItem{
			{Name: "postgresql"}, // case change is not adoption
			{Name: "React"},
			{Name: "Kubernetes", Category: "devops"},
			{Name: "Snowflake"},
		},
	}

	events := d.Detect(current, previous, testNow)

	var techs []string
	for _, ev := range events {
		if ev.Type == contracts.SignalTechAdoption {
			techs = append(techs, ev.Data["technology"].(string))
			assert.Equal(t, 0.7, ev.Confidence)
			assert.Equal(t, 20, ev.ScoreImpact)
		}
	}
	assert.Equal(t, []string{"Kubernetes", "Snowflake"}, techs)

	// First observation has no baseline
	events = d.Detect(current, nil, testNow)
	assert.Nil(t, findByType(events, contracts.SignalTechAdoption))
}

func TestDetectTechAdoptionCapped(t *testing.T) {
	d := NewDetector(nil)

	previous := &contracts.CompanySnapshot{Domain: "acme.io", TechStack: []contracts.TechStackItem{{Name: "Go"}}}
	current := &contracts.CompanySnapshot{
		Domain: "acme.io",
		TechStack: []contracts.TechStackItem{
			{Name: "Go"}, {Name: "Delta"}, {Name: "Alpha"}, {Name: "Echo"}, {Name: "Bravo"}, {Name: "Charlie"},
		},
	}

	events := d.Detect(current, previous, testNow)

	var techs []string
	for _, ev := range events {
		if ev.Type == contracts.SignalTechAdoption {
			techs = append(techs, ev.Data["technology"].(string))
		}
	}

	// Capped at three, alphabetical for determinism
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, techs)
}

func TestDetectGrowth(t *testing.T) {
	d := NewDetector(nil)

	previous := &contracts.CompanySnapshot{Domain: "acme.io", EmployeeCount: intPtr(50)}

	// Exactly 20% growth fires
	current := &contracts.CompanySnapshot{Domain: "acme.io", EmployeeCount: intPtr(60)}
	events := d.Detect(current, previous, testNow)
	ev := findByType(events, contracts.SignalGrowthIndicator)
	require.NotNil(t, ev)
	assert.Equal(t, 15, ev.ScoreImpact)
	assert.InDelta(t, 0.5+0.2/2.0, ev.Confidence, 0.001)
	assert.Equal(t, 50, ev.Data["previous_count"])
	assert.Equal(t, 60, ev.Data["current_count"])

	// 19% growth does not
	current = &contracts.CompanySnapshot{Domain: "acme.io", EmployeeCount: intPtr(59)}
	events = d.Detect(current, previous, testNow)
	assert.Nil(t, findByType(events, contracts.SignalGrowthIndicator))

	// Missing counts stay silent
	events = d.Detect(&contracts.CompanySnapshot{Domain: "acme.io"}, previous, testNow)
	assert.Nil(t, findByType(events, contracts.SignalGrowthIndicator))

	// Zero baseline stays silent
	zeroBase := &contracts.CompanySnapshot{Domain: "acme.io", EmployeeCount: intPtr(0)}
	events = d.Detect(current, zeroBase, testNow)
	assert.Nil(t, findByType(events, contracts.SignalGrowthIndicator))
}

func TestDetectNews(t *testing.T) {
	d := NewDetector(nil)

	current := &contracts.CompanySnapshot{
		Domain: "acme.io",
		RecentNews: []contracts.NewsItem{
			{Title: "Acme launches new product", URL: "https://news.example/1",
				PostedOn: contracts.NewDateTime(testNow.Add(-3 * 24 * time.Hour))},
			{Title: "Undated mention"}, // no date, treated as fresh
			{Title: "Third entry never considered",
				PostedOn: contracts.NewDateTime(testNow.Add(-1 * 24 * time.Hour))},
		},
	}

	events := d.Detect(current, nil, testNow)

	var news []*contracts.SignalEvent
	for _, ev := range events {
		if ev.Type == contracts.SignalNewsMention {
			news = append(news, ev)
		}
	}
	require.Len(t, news, 2, "only the first two entries are considered")
	assert.Equal(t, "Acme launches new product", news[0].Data["title"])
	assert.Equal(t, "https://news.example/1", news[0].SourceURL)
	assert.Equal(t, 0.6, news[0].Confidence)
	assert.Equal(t, 10, news[0].ScoreImpact)
}

func TestDetectNewsStaleSkipped(t *testing.T) {
	d := NewDetector(nil)

	current := &contracts.CompanySnapshot{
		Domain: "acme.io",
		RecentNews: []contracts.NewsItem{
			{Title: "Old story", PostedOn: contracts.NewDateTime(testNow.Add(-20 * 24 * time.Hour))},
			{Title: "Fresh story", PostedOn: contracts.NewDateTime(testNow.Add(-2 * 24 * time.Hour))},
		},
	}

	events := d.Detect(current, nil, testNow)

	var titles []string
	for _, ev := range events {
		if ev.Type == contracts.SignalNewsMention {
			titles = append(titles, ev.Data["title"].(string))
		}
	}
	assert.Equal(t, []string{"Fresh story"}, titles)
}

func TestDetectNilCurrent(t *testing.T) {
	d := NewDetector(nil)
	assert.Nil(t, d.Detect(nil, nil, testNow))
}

func TestDetectSourceJoined(t *testing.T) {
	d := NewDetector(nil)

	current := snapshotWithFunding(5)
	current.Sources = []string{"apollo", "clearbit"}

	events := d.Detect(current, nil, testNow)
	ev := findByType(events, contracts.SignalFundingRound)
	require.NotNil(t, ev)
	assert.Equal(t, "apollo, clearbit", ev.Source)
}
