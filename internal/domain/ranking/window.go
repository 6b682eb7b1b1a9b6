// Package ranking содержит доменную модель рейтинга точности QuizHive Rankings.
// Рейтинг считается по окну времени: пользователь видит свою точность ответов
// относительно остальных за сегодня, вчера, неделю или месяц.
// Философия: "Рейтинг - зеркало прогресса, а не инструмент давления".
package ranking

import (
	"time"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
	"github.com/quizhive/quizhive-rankings/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD
// ══════════════════════════════════════════════════════════════════════════════

// Period определяет период рейтинга, выбираемый пользователем.
type Period string

const (
	// PeriodToday - текущий календарный день (закрытое окно).
	PeriodToday Period = "today"
	// PeriodYesterday - предыдущий календарный день (закрытое окно).
	PeriodYesterday Period = "yesterday"
	// PeriodWeek - текущая неделя с понедельника (открытое окно).
	PeriodWeek Period = "week"
	// PeriodMonth - текущий месяц с первого числа (открытое окно).
	PeriodMonth Period = "month"
)

// IsValid проверяет, что период известен.
func (p Period) IsValid() bool {
	switch p {
	case PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// String возвращает строковое представление периода.
func (p Period) String() string {
	return string(p)
}

// ParsePeriod разбирает строку в Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.IsValid() {
		return "", shared.ErrInvalidPeriod
	}
	return p, nil
}

// AllPeriods возвращает все поддерживаемые периоды.
func AllPeriods() []Period {
	return []Period{PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth}
}

// ══════════════════════════════════════════════════════════════════════════════
// TIME WINDOW
// ══════════════════════════════════════════════════════════════════════════════

// TimeWindow представляет границы окна агрегации в UTC.
// Открытое окно (Open == true) означает "до текущего момента":
// активность последних минут не должна выпадать из недельного
// и месячного рейтинга.
type TimeWindow struct {
	// Start - начало окна (включительно).
	Start time.Time

	// End - конец окна (включительно). Имеет смысл только при Open == false.
	End time.Time

	// Open - окно без верхней границы.
	Open bool
}

// IsClosed возвращает true, если окно имеет верхнюю границу.
func (w TimeWindow) IsClosed() bool {
	return !w.Open
}

// Contains проверяет, попадает ли момент в окно.
func (w TimeWindow) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.Open {
		return true
	}
	return !t.After(w.End)
}

// ResolveWindow вычисляет границы окна для периода относительно момента now.
// Все границы считаются в UTC:
//   - today: [начало дня, конец дня] - закрытое окно, стабильный снимок;
//   - yesterday: границы предыдущего календарного дня;
//   - week: [понедельник текущей недели, открыто). Воскресенье считается
//     седьмым днём недели, не первым;
//   - month: [первое число текущего месяца, открыто).
func ResolveWindow(p Period, now time.Time) (TimeWindow, error) {
	utc := now.UTC()

	switch p {
	case PeriodToday:
		return TimeWindow{
			Start: timeutil.StartOfDay(utc),
			End:   timeutil.EndOfDay(utc),
		}, nil

	case PeriodYesterday:
		yesterday := utc.AddDate(0, 0, -1)
		return TimeWindow{
			Start: timeutil.StartOfDay(yesterday),
			End:   timeutil.EndOfDay(yesterday),
		}, nil

	case PeriodWeek:
		return TimeWindow{
			Start: timeutil.StartOfWeek(utc),
			Open:  true,
		}, nil

	case PeriodMonth:
		return TimeWindow{
			Start: timeutil.StartOfMonth(utc),
			Open:  true,
		}, nil

	default:
		return TimeWindow{}, shared.ErrInvalidPeriod
	}
}
