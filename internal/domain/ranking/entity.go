package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultMinQuestions - порог участия: минимум отвеченных вопросов
	// в окне, чтобы попасть в рейтинг точности.
	DefaultMinQuestions = 5

	// DefaultLimit - размер топа рейтинга точности.
	DefaultLimit = 100
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank представляет позицию пользователя в рейтинге.
// Rank начинается с 1 (первое место).
type Rank int

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// Int возвращает числовое значение ранга.
func (r Rank) Int() int {
	return int(r)
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// ══════════════════════════════════════════════════════════════════════════════
// WINDOWED STATS
// ══════════════════════════════════════════════════════════════════════════════

// WindowedStats - агрегированная статистика пользователя за окно времени.
// Производное значение: считается заново при каждой загрузке и нигде
// не сохраняется.
type WindowedStats struct {
	// UserID - канонический идентификатор пользователя.
	UserID shared.UserID

	// TotalQuestions - сколько вопросов отвечено в окне.
	TotalQuestions int

	// CorrectAnswers - сколько из них отвечено верно.
	CorrectAnswers int

	// Accuracy - точность в процентах, округлённая до целого.
	Accuracy int
}

// ComputeAccuracy возвращает round(correct/total * 100).
// Для total == 0 точность не определена и равна нулю.
func ComputeAccuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// NewWindowedStats создаёт статистику с вычисленной точностью.
func NewWindowedStats(userID shared.UserID, total, correct int) WindowedStats {
	return WindowedStats{
		UserID:         userID,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Accuracy:       ComputeAccuracy(correct, total),
	}
}

// IsEligible проверяет порог участия.
func (s WindowedStats) IsEligible(minQuestions int) bool {
	return s.TotalQuestions >= minQuestions
}

// String возвращает строковое представление для логирования.
func (s WindowedStats) String() string {
	return fmt.Sprintf("Stats{User: %s, %d/%d, %d%%}",
		s.UserID, s.CorrectAnswers, s.TotalQuestions, s.Accuracy)
}

// ══════════════════════════════════════════════════════════════════════════════
// RANK ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// RankEntry представляет одну строку рейтинга точности.
type RankEntry struct {
	// UserID - канонический идентификатор пользователя.
	UserID shared.UserID

	// Stats - агрегированная статистика за окно.
	Stats WindowedStats

	// Rank - позиция в возвращённом наборе (1-based, без пропусков).
	Rank Rank

	// DisplayName - разрешённое отображаемое имя.
	DisplayName string

	// IsCurrentUser - строка принадлежит запрашивающему пользователю.
	IsCurrentUser bool
}

// ══════════════════════════════════════════════════════════════════════════════
// USER POSITION
// ══════════════════════════════════════════════════════════════════════════════

// UserPosition - точная позиция одного пользователя по всей подходящей
// популяции. Используется только когда пользователь не попал в топ-N:
// дешевле спросить про одного, чем тянуть весь рейтинг.
type UserPosition struct {
	// Stats - статистика пользователя за окно.
	Stats WindowedStats

	// Rank - позиция среди всех подходящих пользователей.
	Rank Rank

	// TotalEligible - размер подходящей популяции.
	TotalEligible int
}

// Percentile возвращает процентиль позиции (100 = первое место).
func (p UserPosition) Percentile() float64 {
	if p.TotalEligible <= 0 {
		return 0
	}
	return 100.0 - (float64(p.Rank-1) / float64(p.TotalEligible) * 100.0)
}

// ══════════════════════════════════════════════════════════════════════════════
// ORDERING
// ══════════════════════════════════════════════════════════════════════════════

// Less задаёт полный детерминированный порядок рейтинга точности:
// точность по убыванию, затем количество вопросов по убыванию,
// затем UserID по возрастанию. Третий ключ делает порядок тотальным -
// два пользователя никогда не сравниваются как равные.
func Less(a, b WindowedStats) bool {
	if a.Accuracy != b.Accuracy {
		return a.Accuracy > b.Accuracy
	}
	if a.TotalQuestions != b.TotalQuestions {
		return a.TotalQuestions > b.TotalQuestions
	}
	return a.UserID < b.UserID
}

// SortStats сортирует статистику в каноническом порядке рейтинга.
func SortStats(stats []WindowedStats) {
	sort.Slice(stats, func(i, j int) bool {
		return Less(stats[i], stats[j])
	})
}

// AssignRanks присваивает позиции 1..len по текущему порядку среза.
// Порядок тотальный, поэтому ранги плотные и без пропусков.
func AssignRanks(stats []WindowedStats) []RankEntry {
	entries := make([]RankEntry, len(stats))
	for i, s := range stats {
		entries[i] = RankEntry{
			UserID: s.UserID,
			Stats:  s,
			Rank:   Rank(i + 1),
		}
	}
	return entries
}
