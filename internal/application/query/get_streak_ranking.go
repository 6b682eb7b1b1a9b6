package query

import (
	"context"
	"errors"
	"time"

	"github.com/quizhive/quizhive-rankings/internal/domain/identity"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
	"github.com/quizhive/quizhive-rankings/internal/domain/streak"
	"github.com/quizhive/quizhive-rankings/pkg/logger"
	"github.com/quizhive/quizhive-rankings/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STREAK RANKING QUERY
// Собирает рейтинг учебных серий напрямую из поддерживаемого хранилища
// счётчиков. Периодов нет, отдельного запроса "моя позиция" тоже:
// при лимите 20 все подходящие серии на практике помещаются в топ.
// ══════════════════════════════════════════════════════════════════════════════

// GetStreakRankingQuery содержит параметры загрузки рейтинга серий.
type GetStreakRankingQuery struct {
	// RequesterID - идентификатор запрашивающего (может быть пустым).
	RequesterID string

	// MinStreak - порог попадания в рейтинг (по умолчанию 2).
	MinStreak int

	// Limit - размер топа (по умолчанию 20, максимум 20).
	Limit int

	// Profile - локально известный профиль запрашивающего из сессии.
	Profile identity.LocalProfile
}

// Validate проверяет и нормализует параметры запроса.
func (q *GetStreakRankingQuery) Validate() error {
	if q.MinStreak < 0 {
		return errors.New("min streak cannot be negative")
	}
	if q.MinStreak == 0 {
		q.MinStreak = streak.DefaultMinStreak
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 || q.Limit > streak.DefaultLimit {
		q.Limit = streak.DefaultLimit
	}
	return nil
}

// GetStreakRankingHandler обрабатывает загрузку рейтинга серий.
type GetStreakRankingHandler struct {
	store  streak.Store
	names  *DisplayNameResolver
	logger *logger.Logger

	// now подменяется в тестах.
	now func() time.Time
}

// NewGetStreakRankingHandler создаёт новый обработчик.
func NewGetStreakRankingHandler(
	store streak.Store,
	names *DisplayNameResolver,
	log *logger.Logger,
) *GetStreakRankingHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetStreakRankingHandler{
		store:  store,
		names:  names,
		logger: log.With(logger.Component("streak_ranking")),
		now:    timeutil.Now,
	}
}

// Handle выполняет загрузку рейтинга серий.
// Отказ хранилища не пробрасывается: view возвращается с Failed == true.
func (h *GetStreakRankingHandler) Handle(ctx context.Context, query GetStreakRankingQuery) (*RankingView, error) {
	// Валидация входных данных
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetStreakRanking", shared.ErrValidation, err.Error(), err)
	}

	view := &RankingView{
		Mode:        ModeStreak,
		Entries:     []RankRowDTO{},
		GeneratedAt: h.now(),
	}

	requesterID := shared.UserID(query.RequesterID)

	counters, err := h.store.TopStreaks(ctx, query.MinStreak, query.Limit)
	if err != nil {
		h.logger.Error("streak store query failed", logger.Err(err))
		view.Failed = true
		return view, nil
	}

	// Имена: один батч по объединению всех ID, включая запрашивающего.
	ids := make([]shared.UserID, 0, len(counters))
	for _, c := range counters {
		ids = append(ids, c.UserID)
	}
	labels := h.resolveLabels(ctx, ids, requesterID, query.Profile)

	entries := streak.AssignRanks(counters)
	view.Entries = make([]RankRowDTO, len(entries))
	for i, e := range entries {
		view.Entries[i] = RankRowDTO{
			Rank:          e.Rank,
			UserID:        e.UserID.String(),
			DisplayName:   labels[e.UserID],
			IsCurrentUser: e.UserID == requesterID,
			CurrentStreak: e.CurrentStreak,
			StreakDisplay: streak.FormatStreak(e.CurrentStreak),
		}
		if view.Entries[i].IsCurrentUser {
			view.RequesterRanked = true
		}
	}

	return view, nil
}

// resolveLabels вызывает резолвер имён, если он сконфигурирован.
func (h *GetStreakRankingHandler) resolveLabels(
	ctx context.Context,
	ids []shared.UserID,
	requesterID shared.UserID,
	profile identity.LocalProfile,
) map[shared.UserID]string {
	if h.names == nil {
		return map[shared.UserID]string{}
	}
	return h.names.Resolve(ctx, ids, requesterID, profile)
}
