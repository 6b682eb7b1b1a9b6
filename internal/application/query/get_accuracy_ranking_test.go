package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhive/quizhive-rankings/internal/domain/identity"
	"github.com/quizhive/quizhive-rankings/internal/domain/ranking"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// Фейковый репозиторий журнала попыток
// ─────────────────────────────────────────────────────────────────────────────

type fakeRankingRepo struct {
	stats    []ranking.WindowedStats
	statsErr error

	position *ranking.UserPosition
	posErr   error

	topCalls int
	posCalls int

	gotWindow ranking.TimeWindow
	gotMin    int
	gotLimit  int
}

func (f *fakeRankingRepo) GetRankingForPeriod(_ context.Context, window ranking.TimeWindow, minQuestions, limit int) ([]ranking.WindowedStats, error) {
	f.topCalls++
	f.gotWindow = window
	f.gotMin = minQuestions
	f.gotLimit = limit
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeRankingRepo) GetUserRankingPosition(_ context.Context, _ shared.UserID, _ ranking.TimeWindow, _ int) (*ranking.UserPosition, error) {
	f.posCalls++
	if f.posErr != nil {
		return nil, f.posErr
	}
	return f.position, nil
}

func (f *fakeRankingRepo) GetEligibleCount(_ context.Context, _ ranking.TimeWindow, _ int) (int, error) {
	return len(f.stats), nil
}

// fixedNow - детерминированный момент "сейчас" для окон: пятница.
var fixedNow = time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)

func newAccuracyHandler(repo *fakeRankingRepo) *GetAccuracyRankingHandler {
	h := NewGetAccuracyRankingHandler(repo, nil, nil)
	h.now = func() time.Time { return fixedNow }
	return h
}

// ─────────────────────────────────────────────────────────────────────────────
// Загрузка топа
// ─────────────────────────────────────────────────────────────────────────────

func TestAccuracyRanking_TopEntriesRanked(t *testing.T) {
	repo := &fakeRankingRepo{stats: []ranking.WindowedStats{
		ranking.NewWindowedStats("u1", 20, 19), // 95%
		ranking.NewWindowedStats("u2", 10, 9),  // 90%
		ranking.NewWindowedStats("u3", 8, 6),   // 75%
	}}

	view, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today"})
	require.NoError(t, err)

	assert.Equal(t, ModeAccuracy, view.Mode)
	assert.Equal(t, "today", view.Period)
	assert.False(t, view.Failed)
	require.Len(t, view.Entries, 3)

	assert.Equal(t, 1, view.Entries[0].Rank)
	assert.Equal(t, "u1", view.Entries[0].UserID)
	assert.Equal(t, 95, view.Entries[0].Accuracy)
	assert.Equal(t, 20, view.Entries[0].TotalQuestions)
	assert.Equal(t, 3, view.Entries[2].Rank)
}

func TestAccuracyRanking_WindowBoundaries(t *testing.T) {
	repo := &fakeRankingRepo{}
	h := newAccuracyHandler(repo)

	_, err := h.Handle(context.Background(), GetAccuracyRankingQuery{Period: "today"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), repo.gotWindow.Start)
	assert.False(t, repo.gotWindow.Open)

	_, err = h.Handle(context.Background(), GetAccuracyRankingQuery{Period: "week"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), repo.gotWindow.Start)
	assert.True(t, repo.gotWindow.Open)

	_, err = h.Handle(context.Background(), GetAccuracyRankingQuery{Period: "month"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), repo.gotWindow.Start)
	assert.True(t, repo.gotWindow.Open)
}

func TestAccuracyRanking_DefaultsApplied(t *testing.T) {
	repo := &fakeRankingRepo{}

	_, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today"})
	require.NoError(t, err)

	assert.Equal(t, ranking.DefaultMinQuestions, repo.gotMin)
	assert.Equal(t, ranking.DefaultLimit, repo.gotLimit)
}

func TestAccuracyRanking_LimitCapped(t *testing.T) {
	repo := &fakeRankingRepo{}

	_, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today", Limit: 5000})
	require.NoError(t, err)

	assert.Equal(t, ranking.DefaultLimit, repo.gotLimit)
}

func TestAccuracyRanking_InvalidPeriod(t *testing.T) {
	repo := &fakeRankingRepo{}

	_, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "fortnight"})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, repo.topCalls)
}

// ─────────────────────────────────────────────────────────────────────────────
// Точная позиция запрашивающего
// ─────────────────────────────────────────────────────────────────────────────

func TestAccuracyRanking_RequesterInTop_NoPositionLookup(t *testing.T) {
	repo := &fakeRankingRepo{stats: []ranking.WindowedStats{
		ranking.NewWindowedStats("me", 10, 10),
	}}

	view, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today", RequesterID: "me"})
	require.NoError(t, err)

	assert.True(t, view.RequesterRanked)
	assert.True(t, view.Entries[0].IsCurrentUser)
	assert.Nil(t, view.MyPosition)
	assert.Zero(t, repo.posCalls, "exact position must not be queried when requester is in top")
}

func TestAccuracyRanking_MyPositionBelowTop(t *testing.T) {
	repo := &fakeRankingRepo{
		stats: []ranking.WindowedStats{ranking.NewWindowedStats("u1", 10, 10)},
		position: &ranking.UserPosition{
			Stats:         ranking.NewWindowedStats("me", 40, 29), // 73%
			Rank:          150,
			TotalEligible: 900,
		},
	}

	view, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "week", RequesterID: "me"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.posCalls)
	assert.True(t, view.RequesterRanked)
	require.NotNil(t, view.MyPosition)
	assert.Equal(t, 150, view.MyPosition.Rank)
	assert.True(t, view.MyPosition.IsCurrentUser)
	assert.Equal(t, 73, view.MyPosition.Accuracy)
	assert.InDelta(t, 100.0-149.0/900.0*100.0, view.MyPosition.Percentile, 0.001)
}

func TestAccuracyRanking_RequesterBelowThreshold(t *testing.T) {
	// (nil, nil) от репозитория: ещё не в рейтинге - нормальное состояние.
	repo := &fakeRankingRepo{stats: []ranking.WindowedStats{
		ranking.NewWindowedStats("u1", 10, 10),
	}}

	view, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today", RequesterID: "me"})
	require.NoError(t, err)

	assert.False(t, view.Failed)
	assert.False(t, view.RequesterRanked)
	assert.Nil(t, view.MyPosition)
}

func TestAccuracyRanking_AnonymousSkipsPositionLookup(t *testing.T) {
	repo := &fakeRankingRepo{stats: []ranking.WindowedStats{
		ranking.NewWindowedStats("u1", 10, 10),
	}}

	view, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today"})
	require.NoError(t, err)

	assert.Zero(t, repo.posCalls)
	assert.False(t, view.RequesterRanked)
}

// ─────────────────────────────────────────────────────────────────────────────
// Деградация при отказах
// ─────────────────────────────────────────────────────────────────────────────

func TestAccuracyRanking_AggregationFailure(t *testing.T) {
	repo := &fakeRankingRepo{statsErr: errors.New("connection refused")}

	view, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today"})

	// Отказ агрегации не роняет загрузку: view с Failed == true.
	require.NoError(t, err)
	assert.True(t, view.Failed)
	assert.Empty(t, view.Entries)
	assert.False(t, view.RequesterRanked)
}

func TestAccuracyRanking_PositionFailureKeepsTop(t *testing.T) {
	repo := &fakeRankingRepo{
		stats:  []ranking.WindowedStats{ranking.NewWindowedStats("u1", 10, 10)},
		posErr: errors.New("timeout"),
	}

	view, err := newAccuracyHandler(repo).Handle(context.Background(), GetAccuracyRankingQuery{Period: "today", RequesterID: "me"})
	require.NoError(t, err)

	assert.False(t, view.Failed)
	require.Len(t, view.Entries, 1)
	assert.Nil(t, view.MyPosition)
	assert.False(t, view.RequesterRanked)
}

// ─────────────────────────────────────────────────────────────────────────────
// Имена в собранной view-модели
// ─────────────────────────────────────────────────────────────────────────────

func TestAccuracyRanking_DisplayNamesResolved(t *testing.T) {
	repo := &fakeRankingRepo{stats: []ranking.WindowedStats{
		ranking.NewWindowedStats("u1", 10, 9),
		ranking.NewWindowedStats("me", 10, 8),
	}}

	custom := &fakeCustomRoster{names: map[shared.UserID]string{"u1": "QuizMaster"}}
	admin := &fakeAdminRoster{}

	h := NewGetAccuracyRankingHandler(repo, newResolver(custom, admin), nil)
	h.now = func() time.Time { return fixedNow }

	view, err := h.Handle(context.Background(), GetAccuracyRankingQuery{
		Period:      "today",
		RequesterID: "me",
		Profile:     identity.LocalProfile{FullName: "Ivan Sidorov"},
	})
	require.NoError(t, err)

	assert.Equal(t, "QuizMaster", view.Entries[0].DisplayName)
	assert.Equal(t, "Ivan", view.Entries[1].DisplayName)
	assert.Equal(t, 1, custom.calls)
	assert.Equal(t, 1, admin.calls)
}
