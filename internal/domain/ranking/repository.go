package ranking

import (
	"context"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY CONTRACT
// ══════════════════════════════════════════════════════════════════════════════

// Repository - контракт слоя доступа к журналу попыток.
// Движок рейтинга никогда не пишет: все операции - чтение уже
// накопленных данных.
type Repository interface {
	// GetRankingForPeriod возвращает топ-limit пользователей окна,
	// прошедших порог minQuestions, в каноническом порядке (см. Less).
	// Выполняется одной серверной агрегацией: журнал попыток не ограничен
	// по размеру, и сырые строки никогда не покидают хранилище.
	GetRankingForPeriod(ctx context.Context, window TimeWindow, minQuestions, limit int) ([]WindowedStats, error)

	// GetUserRankingPosition возвращает точную позицию пользователя
	// по всей подходящей популяции, либо (nil, nil) если пользователь
	// не прошёл порог. Отсутствие позиции - нормальное состояние,
	// а не ошибка.
	GetUserRankingPosition(ctx context.Context, userID shared.UserID, window TimeWindow, minQuestions int) (*UserPosition, error)

	// GetEligibleCount возвращает размер подходящей популяции окна.
	GetEligibleCount(ctx context.Context, window TimeWindow, minQuestions int) (int, error)
}
