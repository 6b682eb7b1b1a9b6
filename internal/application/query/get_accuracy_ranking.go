package query

import (
	"context"
	"errors"
	"time"

	"github.com/quizhive/quizhive-rankings/internal/domain/identity"
	"github.com/quizhive/quizhive-rankings/internal/domain/ranking"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
	"github.com/quizhive/quizhive-rankings/pkg/logger"
	"github.com/quizhive/quizhive-rankings/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACCURACY RANKING QUERY
// Собирает рейтинг точности за выбранный период: топ-N одной серверной
// агрегацией, затем - только если запрашивающего нет в топе - отдельный
// запрос его точной позиции. Двухфазная схема отвечает на вопрос
// "где я?" без выгрузки всей популяции.
// ══════════════════════════════════════════════════════════════════════════════

// GetAccuracyRankingQuery содержит параметры загрузки рейтинга точности.
type GetAccuracyRankingQuery struct {
	// RequesterID - идентификатор запрашивающего (может быть пустым
	// для анонимного просмотра).
	RequesterID string

	// Period - период рейтинга: today, yesterday, week, month.
	Period string

	// Limit - размер топа (по умолчанию 100, максимум 100).
	Limit int

	// MinQuestions - порог участия (по умолчанию 5).
	MinQuestions int

	// Profile - локально известный профиль запрашивающего из сессии.
	Profile identity.LocalProfile
}

// Validate проверяет и нормализует параметры запроса.
func (q *GetAccuracyRankingQuery) Validate() error {
	if _, err := ranking.ParsePeriod(q.Period); err != nil {
		return err
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 || q.Limit > ranking.DefaultLimit {
		q.Limit = ranking.DefaultLimit
	}
	if q.MinQuestions < 0 {
		return errors.New("min questions cannot be negative")
	}
	if q.MinQuestions == 0 {
		q.MinQuestions = ranking.DefaultMinQuestions
	}
	return nil
}

// GetAccuracyRankingHandler обрабатывает загрузку рейтинга точности.
type GetAccuracyRankingHandler struct {
	rankingRepo ranking.Repository
	names       *DisplayNameResolver
	logger      *logger.Logger

	// now подменяется в тестах для детерминированных окон.
	now func() time.Time
}

// NewGetAccuracyRankingHandler создаёт новый обработчик.
func NewGetAccuracyRankingHandler(
	rankingRepo ranking.Repository,
	names *DisplayNameResolver,
	log *logger.Logger,
) *GetAccuracyRankingHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetAccuracyRankingHandler{
		rankingRepo: rankingRepo,
		names:       names,
		logger:      log.With(logger.Component("accuracy_ranking")),
		now:         timeutil.Now,
	}
}

// Handle выполняет загрузку рейтинга точности.
// Отказ агрегации не пробрасывается наверх: view возвращается пустой
// с Failed == true - "данные не загрузились", а не падение загрузки.
func (h *GetAccuracyRankingHandler) Handle(ctx context.Context, query GetAccuracyRankingQuery) (*RankingView, error) {
	// Валидация входных данных
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetAccuracyRanking", shared.ErrValidation, err.Error(), err)
	}

	period, _ := ranking.ParsePeriod(query.Period)
	now := h.now()

	window, err := ranking.ResolveWindow(period, now)
	if err != nil {
		return nil, shared.WrapError("query", "GetAccuracyRanking", shared.ErrValidation, "cannot resolve window", err)
	}

	view := &RankingView{
		Mode:        ModeAccuracy,
		Period:      period.String(),
		Window:      newWindowDTO(window),
		Entries:     []RankRowDTO{},
		GeneratedAt: now,
	}

	requesterID := shared.UserID(query.RequesterID)

	// Фаза 1: топ-N одной серверной агрегацией.
	stats, err := h.rankingRepo.GetRankingForPeriod(ctx, window, query.MinQuestions, query.Limit)
	if err != nil {
		h.logger.Error("ranking aggregation failed",
			logger.Err(err), logger.Period(period.String()))
		view.Failed = true
		return view, nil
	}

	requesterInTop := false
	for _, s := range stats {
		if s.UserID == requesterID {
			requesterInTop = true
			break
		}
	}

	// Фаза 2: точная позиция - только когда запрашивающего нет в топе.
	var position *ranking.UserPosition
	if !requesterInTop && !requesterID.IsEmpty() {
		position, err = h.rankingRepo.GetUserRankingPosition(ctx, requesterID, window, query.MinQuestions)
		if err != nil {
			// Деградация: позиция отсутствует, топ остаётся валидным.
			h.logger.Error("exact position lookup failed",
				logger.Err(err), logger.UserID(query.RequesterID))
			position = nil
		}
	}

	// Имена: один батч по объединению всех ID, включая запрашивающего.
	ids := make([]shared.UserID, 0, len(stats))
	for _, s := range stats {
		ids = append(ids, s.UserID)
	}
	labels := h.resolveLabels(ctx, ids, requesterID, query.Profile)

	// Сборка строк топа: ранги 1..len, плотные, без пропусков.
	entries := ranking.AssignRanks(stats)
	view.Entries = make([]RankRowDTO, len(entries))
	for i, e := range entries {
		view.Entries[i] = RankRowDTO{
			Rank:           e.Rank.Int(),
			UserID:         e.UserID.String(),
			DisplayName:    labels[e.UserID],
			IsCurrentUser:  e.UserID == requesterID,
			TotalQuestions: e.Stats.TotalQuestions,
			CorrectAnswers: e.Stats.CorrectAnswers,
			Accuracy:       e.Stats.Accuracy,
		}
	}

	// Строка "моя позиция" - для подходящего, но не попавшего в топ.
	if position != nil {
		view.MyPosition = &RankRowDTO{
			Rank:           position.Rank.Int(),
			UserID:         requesterID.String(),
			DisplayName:    labels[requesterID],
			IsCurrentUser:  true,
			TotalQuestions: position.Stats.TotalQuestions,
			CorrectAnswers: position.Stats.CorrectAnswers,
			Accuracy:       position.Stats.Accuracy,
			Percentile:     position.Percentile(),
		}
	}

	view.RequesterRanked = requesterInTop || position != nil
	return view, nil
}

// resolveLabels вызывает резолвер имён, если он сконфигурирован.
func (h *GetAccuracyRankingHandler) resolveLabels(
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
