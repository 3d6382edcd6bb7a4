package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// fakeScoreStore is an in-memory ScoreStore for engine tests
type fakeScoreStore struct {
	previous    map[uuid.UUID]int
	saved       []*contracts.LeadScore
	readFails   bool
	writeFails  bool
	updateCalls int
}

func newFakeScoreStore() *fakeScoreStore {
	return &fakeScoreStore{previous: make(map[uuid.UUID]int)}
}

func (f *fakeScoreStore) GetPreviousScore(_ context.Context, leadID uuid.UUID) (int, bool, error) {
	if f.readFails {
		return 0, false, errors.New("connection refused")
	}
	score, ok := f.previous[leadID]
	return score, ok, nil
}

func (f *fakeScoreStore) Save(_ context.Context, score *contracts.LeadScore) error {
	if f.writeFails {
		return errors.New("insert failed")
	}
	f.saved = append(f.saved, score)
	return nil
}

func (f *fakeScoreStore) ListByTier(context.Context, uuid.UUID, contracts.ScoreTier, int) ([]*contracts.LeadScore, error) {
	return nil, nil
}

func (f *fakeScoreStore) TierDistribution(context.Context, uuid.UUID) (map[contracts.ScoreTier]contracts.TierStats, error) {
	return nil, nil
}

func (f *fakeScoreStore) ListCurrent(context.Context, int, int) ([]contracts.ScoreRow, error) {
	return nil, nil
}

func (f *fakeScoreStore) UpdateTier(context.Context, uuid.UUID, contracts.ScoreTier) error {
	f.updateCalls++
	return nil
}

// fakeSignalStore returns canned active signals
type fakeSignalStore struct {
	active    []*contracts.SignalEvent
	readFails bool
}

func (f *fakeSignalStore) SaveBatch(_ context.Context, signals []*contracts.SignalEvent) (int, error) {
	return len(signals), nil
}

func (f *fakeSignalStore) GetActiveByLead(context.Context, uuid.UUID) ([]*contracts.SignalEvent, error) {
	if f.readFails {
		return nil, errors.New("connection refused")
	}
	return f.active, nil
}

func (f *fakeSignalStore) GetActiveByDomain(context.Context, string) ([]*contracts.SignalEvent, error) {
	return f.active, nil
}

func (f *fakeSignalStore) PurgeExpired(context.Context) (int64, error) { return 0, nil }

func newTestEngine(scores *fakeScoreStore, signals *fakeSignalStore) *Engine {
	return NewEngine(scores, signals, logger.Nop()).
		WithClock(func() time.Time { return testNow })
}

func TestComputeNoData(t *testing.T) {
	score := Compute(ScoreRequest{LeadID: uuid.New()}, nil, testNow)

	assert.Equal(t, 0, score.IntentScore)
	assert.Equal(t, 50, score.FitScore, "no ICP means neutral fit")
	assert.Equal(t, 0, score.AccessibilityScore)

	// round((0*40 + 50*35 + 0*25) / 100) = round(17.5) = 18
	assert.Equal(t, 18, score.TotalScore)
	assert.Equal(t, contracts.TierCold, score.Tier)
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// intent 30, fit 50, access 40 with default weights:
	// (30*40 + 50*35 + 40*25) / 100 = 39.5, which rounds to 40
	req := ScoreRequest{
		LeadID:  uuid.New(),
		Company: companyFundedDaysAgo(20),
		Contact: &contracts.ContactSnapshot{
			Email:           "a@b.io",
			EmailConfidence: 0.5,
			LinkedInURL:     "https://linkedin.com/in/a",
		},
	}

	score := Compute(req, nil, testNow)
	require.Equal(t, 30, score.IntentScore)
	require.Equal(t, 50, score.FitScore)
	require.Equal(t, 40, score.AccessibilityScore)

	assert.Equal(t, 40, score.TotalScore)
	assert.Equal(t, contracts.TierNurture, score.Tier)
}

func TestComputeNormalizesWeights(t *testing.T) {
	icp := icpWith(contracts.ICPFilters{})
	icp.ID = uuid.New()
	icp.Weights = contracts.Weights{Intent: 20, Fit: 20, Accessibility: 20}

	req := ScoreRequest{
		LeadID:  uuid.New(),
		Company: companyFundedDaysAgo(10),
		ICP:     icp,
	}

	score := Compute(req, nil, testNow)
	require.Equal(t, 30, score.IntentScore)
	require.Equal(t, 0, score.FitScore, "empty filters contribute nothing")

	// Normalized weights are 33/33/34: round(30*33/100) = round(9.9) = 10
	assert.Equal(t, 10, score.TotalScore)
	require.NotNil(t, score.ICPID)
	assert.Equal(t, icp.ID, *score.ICPID)
}

func TestScoreLeadPersistsAndTracksChange(t *testing.T) {
	leadID := uuid.New()
	scores := newFakeScoreStore()
	scores.previous[leadID] = 25

	engine := newTestEngine(scores, &fakeSignalStore{})

	score, err := engine.ScoreLead(context.Background(), ScoreRequest{
		LeadID:  leadID,
		Company: companyFundedDaysAgo(20),
		Contact: &contracts.ContactSnapshot{Email: "a@b.io", EmailVerified: true},
	})
	require.NoError(t, err)

	require.NotNil(t, score.PreviousScore)
	assert.Equal(t, 25, *score.PreviousScore)
	require.NotNil(t, score.ScoreChange)
	assert.Equal(t, score.TotalScore-25, *score.ScoreChange)

	require.Len(t, scores.saved, 1)
	assert.Equal(t, score, scores.saved[0])
}

func TestScoreLeadFirstScoreHasNoChange(t *testing.T) {
	scores := newFakeScoreStore()
	engine := newTestEngine(scores, &fakeSignalStore{})

	score, err := engine.ScoreLead(context.Background(), ScoreRequest{LeadID: uuid.New()})
	require.NoError(t, err)

	assert.Nil(t, score.PreviousScore, "an unscored lead has no previous score")
	assert.Nil(t, score.ScoreChange)
}

func TestScoreLeadZeroChangeIsReported(t *testing.T) {
	leadID := uuid.New()
	scores := newFakeScoreStore()
	scores.previous[leadID] = 18

	engine := newTestEngine(scores, &fakeSignalStore{})

	// No data scores 18 again; the change is zero but still present
	score, err := engine.ScoreLead(context.Background(), ScoreRequest{LeadID: leadID})
	require.NoError(t, err)

	require.NotNil(t, score.ScoreChange)
	assert.Equal(t, 0, *score.ScoreChange)
}

func TestScoreLeadUsesActiveSignals(t *testing.T) {
	scores := newFakeScoreStore()
	signals := &fakeSignalStore{active: []*contracts.SignalEvent{
		{Type: contracts.SignalTechAdoption},
		{Type: contracts.SignalNewsMention},
	}}

	engine := newTestEngine(scores, signals)

	score, err := engine.ScoreLead(context.Background(), ScoreRequest{LeadID: uuid.New()})
	require.NoError(t, err)

	assert.Equal(t, 30, score.IntentScore)
	assert.Equal(t, []string{"tech_adoption", "news_mention"}, score.ActiveSignals)
}

func TestScoreLeadToleratesReadFailures(t *testing.T) {
	scores := newFakeScoreStore()
	scores.readFails = true
	signals := &fakeSignalStore{readFails: true}

	engine := newTestEngine(scores, signals)

	// Lookup failures degrade the score, they do not fail the request
	score, err := engine.ScoreLead(context.Background(), ScoreRequest{LeadID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, score.PreviousScore)
	assert.Equal(t, 0, score.IntentScore)
}

func TestScoreLeadPropagatesWriteFailure(t *testing.T) {
	scores := newFakeScoreStore()
	scores.writeFails = true

	engine := newTestEngine(scores, &fakeSignalStore{})

	_, err := engine.ScoreLead(context.Background(), ScoreRequest{LeadID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save lead score")
}
