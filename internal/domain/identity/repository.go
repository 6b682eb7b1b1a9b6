package identity

import (
	"context"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// CustomNameRoster - реестр выбранных пользователями публичных псевдонимов.
// Запрашивается строго одним батчем на загрузку - никогда построчно,
// иначе загрузка рейтинга превращается в N+1 запросов.
type CustomNameRoster interface {
	// GetCustomNames возвращает map userID -> псевдоним для тех ID,
	// у которых псевдоним задан. Отсутствие ключа - нормальное состояние.
	GetCustomNames(ctx context.Context, ids []shared.UserID) (map[shared.UserID]string, error)
}

// AdminRoster - административный реестр аккаунтов (ФИО и email).
// Тоже строго один батч на загрузку.
type AdminRoster interface {
	// GetAccountRecords возвращает map userID -> запись реестра
	// для найденных ID.
	GetAccountRecords(ctx context.Context, ids []shared.UserID) (map[shared.UserID]AccountRecord, error)
}
