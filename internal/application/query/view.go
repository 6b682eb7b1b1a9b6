// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"time"

	"github.com/quizhive/quizhive-rankings/internal/domain/ranking"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW MODEL
// Итог одной загрузки рейтинга. Явное значение, которым владеет вызывающая
// сторона: никакого общего изменяемого состояния между загрузками нет,
// каждая загрузка полностью заменяет предыдущий результат.
// ══════════════════════════════════════════════════════════════════════════════

// Mode определяет режим рейтинга. Режимы взаимоисключающие:
// точность с фильтром периода либо серии без фильтров.
type Mode string

const (
	// ModeAccuracy - рейтинг точности по окну времени.
	ModeAccuracy Mode = "accuracy"
	// ModeStreak - рейтинг учебных серий.
	ModeStreak Mode = "streak"
)

// IsValid проверяет, что режим известен.
func (m Mode) IsValid() bool {
	return m == ModeAccuracy || m == ModeStreak
}

// String возвращает строковое представление режима.
func (m Mode) String() string {
	return string(m)
}

// WindowDTO - границы окна агрегации для отображения.
type WindowDTO struct {
	// Start - начало окна (UTC, RFC3339).
	Start time.Time `json:"start"`

	// End - конец окна. Отсутствует у открытого окна.
	End *time.Time `json:"end,omitempty"`

	// Open - окно без верхней границы ("до текущего момента").
	Open bool `json:"open"`
}

// newWindowDTO конвертирует доменное окно в DTO.
func newWindowDTO(w ranking.TimeWindow) *WindowDTO {
	dto := &WindowDTO{Start: w.Start, Open: w.Open}
	if !w.Open {
		end := w.End
		dto.End = &end
	}
	return dto
}

// RankRowDTO - одна строка рейтинга в view-модели.
// Поля точности и серий взаимоисключающие по режиму.
type RankRowDTO struct {
	// Rank - позиция (1-based, плотная, без пропусков).
	Rank int `json:"rank"`

	// UserID - канонический идентификатор пользователя.
	UserID string `json:"user_id"`

	// DisplayName - разрешённое отображаемое имя.
	DisplayName string `json:"display_name"`

	// IsCurrentUser - строка принадлежит запрашивающему.
	IsCurrentUser bool `json:"is_current_user"`

	// TotalQuestions - вопросов отвечено в окне (режим точности).
	TotalQuestions int `json:"total_questions,omitempty"`

	// CorrectAnswers - из них верно (режим точности).
	CorrectAnswers int `json:"correct_answers,omitempty"`

	// Accuracy - точность в процентах (режим точности).
	Accuracy int `json:"accuracy,omitempty"`

	// Percentile - процентиль, заполняется только у строки "моя позиция".
	Percentile float64 `json:"percentile,omitempty"`

	// CurrentStreak - текущая серия (режим серий, без ограничения).
	CurrentStreak int `json:"current_streak,omitempty"`

	// StreakDisplay - серия для отображения ("30+" выше порога).
	StreakDisplay string `json:"streak_display,omitempty"`
}

// RankingView - собранная view-модель одной загрузки.
type RankingView struct {
	// Mode - режим рейтинга.
	Mode Mode `json:"mode"`

	// Period - период (только в режиме точности).
	Period string `json:"period,omitempty"`

	// Window - границы окна (только в режиме точности).
	Window *WindowDTO `json:"window,omitempty"`

	// Entries - строки топа в порядке рейтинга.
	Entries []RankRowDTO `json:"entries"`

	// MyPosition - строка "моя позиция", когда запрашивающий подходит
	// по порогу, но не попал в топ. nil вместе с RequesterRanked == false
	// означает "ещё не в рейтинге" - это нормальное состояние, не ошибка.
	MyPosition *RankRowDTO `json:"my_position,omitempty"`

	// RequesterRanked - запрашивающий присутствует в рейтинге
	// (в топе или через MyPosition).
	RequesterRanked bool `json:"requester_ranked"`

	// Failed - агрегация не удалась; Entries пусты, состояние
	// "данные не загрузились", а не пустой рейтинг.
	Failed bool `json:"failed"`

	// GeneratedAt - момент сборки view-модели.
	GeneratedAt time.Time `json:"generated_at"`
}

// FindEntry возвращает строку пользователя в топе, либо nil.
func (v *RankingView) FindEntry(userID string) *RankRowDTO {
	for i := range v.Entries {
		if v.Entries[i].UserID == userID {
			return &v.Entries[i]
		}
	}
	return nil
}
