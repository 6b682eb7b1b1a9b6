// Package identity содержит доменную модель разрешения отображаемых имён.
// Принцип приватности: показываем самое "мягкое" имя из доступных -
// выбранный пользователем псевдоним, иначе только имя (никогда полное ФИО),
// иначе локальную часть email, иначе анонимную метку.
package identity

import (
	"strings"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LABELS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// AnonymousLabel - метка для пользователя, о котором ничего не известно.
	AnonymousLabel = "Anonymous user"

	// SelfLabel - финальная метка для самого запрашивающего.
	SelfLabel = "You"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER RECORDS
// ══════════════════════════════════════════════════════════════════════════════

// AccountRecord - запись административного реестра аккаунтов.
// Источник: внешний сервис идентичности, только чтение.
type AccountRecord struct {
	// UserID - канонический идентификатор пользователя.
	UserID shared.UserID

	// FullName - полное имя владельца аккаунта. Наружу уходит только
	// первый токен (имя), полное ФИО не показывается никогда.
	FullName string

	// Email - email аккаунта. Наружу уходит только локальная часть.
	Email string
}

// LocalProfile - локально известные данные самого запрашивающего
// (его собственные имя и email из сессии). Используются как запасной
// источник для метки "себя" без дополнительного сетевого запроса.
type LocalProfile struct {
	// FullName - собственное полное имя из локального кеша профиля.
	FullName string

	// Email - собственный email из локального кеша профиля.
	Email string
}

// IsEmpty возвращает true, если профиль не содержит данных.
func (p LocalProfile) IsEmpty() bool {
	return strings.TrimSpace(p.FullName) == "" && strings.TrimSpace(p.Email) == ""
}

// ══════════════════════════════════════════════════════════════════════════════
// NAME HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// FirstToken возвращает первый токен полного имени (только имя).
// Пустая строка, если имя отсутствует.
func FirstToken(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// EmailLocalPart возвращает локальную часть email (до символа @).
// Пустая строка, если email не похож на адрес.
func EmailLocalPart(email string) string {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	return email[:at]
}
