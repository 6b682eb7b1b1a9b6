// Package streak содержит доменную модель рейтинга учебных серий.
// Серия (streak) - количество дней подряд с учебной активностью.
// Счётчики серий ведёт внешний сервис активности (включая "льготный день" -
// один пропуск без сброса); этот движок их только читает и ранжирует.
package streak

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultMinStreak - минимальная серия для попадания в рейтинг.
	DefaultMinStreak = 2

	// DefaultLimit - размер топа рейтинга серий.
	DefaultLimit = 20

	// DisplayCap - порог отображения: значения выше показываются как "30+".
	// Хранение и сортировка не ограничены - капится только отображение.
	DisplayCap = 30
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK COUNTER
// ══════════════════════════════════════════════════════════════════════════════

// Counter - счётчик серии одного пользователя из внешнего хранилища.
// Только чтение: движок рейтинга никогда не изменяет счётчики.
type Counter struct {
	// UserID - канонический идентификатор пользователя.
	UserID shared.UserID

	// CurrentStreak - текущая серия дней.
	CurrentStreak int

	// LongestStreak - лучшая серия за всё время.
	LongestStreak int

	// LastActivityDate - дата последней активности.
	LastActivityDate time.Time
}

// IsEligible проверяет порог попадания в рейтинг.
func (c Counter) IsEligible(minStreak int) bool {
	return c.CurrentStreak >= minStreak
}

// String возвращает строковое представление для логирования.
func (c Counter) String() string {
	return fmt.Sprintf("Streak{User: %s, Current: %d, Longest: %d}",
		c.UserID, c.CurrentStreak, c.LongestStreak)
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAK ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry представляет одну строку рейтинга серий.
type Entry struct {
	// UserID - канонический идентификатор пользователя.
	UserID shared.UserID

	// CurrentStreak - текущая серия (без ограничения сверху).
	CurrentStreak int

	// Rank - позиция в возвращённом наборе (1-based, без пропусков).
	Rank int

	// DisplayName - разрешённое отображаемое имя.
	DisplayName string

	// IsCurrentUser - строка принадлежит запрашивающему пользователю.
	IsCurrentUser bool
}

// DisplayValue возвращает серию для отображения: значения выше DisplayCap
// показываются как "30+", само значение и порядок сортировки не меняются.
func (e Entry) DisplayValue() string {
	return FormatStreak(e.CurrentStreak)
}

// FormatStreak форматирует серию с учётом порога отображения.
func FormatStreak(days int) string {
	if days > DisplayCap {
		return strconv.Itoa(DisplayCap) + "+"
	}
	return strconv.Itoa(days)
}

// ══════════════════════════════════════════════════════════════════════════════
// ORDERING
// ══════════════════════════════════════════════════════════════════════════════

// SortCounters сортирует счётчики в каноническом порядке рейтинга серий:
// серия по убыванию, затем UserID по возрастанию для детерминизма.
func SortCounters(counters []Counter) {
	sort.Slice(counters, func(i, j int) bool {
		if counters[i].CurrentStreak != counters[j].CurrentStreak {
			return counters[i].CurrentStreak > counters[j].CurrentStreak
		}
		return counters[i].UserID < counters[j].UserID
	})
}

// AssignRanks присваивает позиции 1..len по текущему порядку среза.
func AssignRanks(counters []Counter) []Entry {
	entries := make([]Entry, len(counters))
	for i, c := range counters {
		entries[i] = Entry{
			UserID:        c.UserID,
			CurrentStreak: c.CurrentStreak,
			Rank:          i + 1,
		}
	}
	return entries
}
