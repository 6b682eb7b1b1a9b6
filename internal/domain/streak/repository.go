package streak

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE CONTRACT
// ══════════════════════════════════════════════════════════════════════════════

// Store - контракт внешнего хранилища счётчиков серий.
// Движок никогда не пересчитывает серии из сырого журнала активности -
// он доверяет поддерживаемому счётчику (включая логику льготного дня,
// которая живёт у сервиса активности).
type Store interface {
	// TopStreaks возвращает до limit счётчиков с CurrentStreak >= minStreak
	// в каноническом порядке (серия по убыванию, UserID по возрастанию).
	TopStreaks(ctx context.Context, minStreak, limit int) ([]Counter, error)
}
