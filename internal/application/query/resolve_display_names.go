package query

import (
	"context"

	"github.com/quizhive/quizhive-rankings/internal/domain/identity"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
	"github.com/quizhive/quizhive-rankings/pkg/circuitbreaker"
	"github.com/quizhive/quizhive-rankings/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DISPLAY NAME RESOLVER
// Превращает множество userID в map userID -> метка по цепочке приоритетов:
//   1. публичный псевдоним, выбранный пользователем;
//   2. первый токен ФИО из административного реестра (только имя);
//   3. для самого запрашивающего - локально известный профиль
//      (имя, иначе локальная часть своего email, иначе "You"),
//      без дополнительного сетевого запроса;
//   4. для остальных - локальная часть email из реестра;
//   5. анонимная метка.
// Оба реестра запрашиваются ровно один раз на загрузку, батчем по всему
// множеству ID. Отказ одного реестра деградирует на следующий уровень
// цепочки, а не роняет загрузку.
// ══════════════════════════════════════════════════════════════════════════════

// DisplayNameResolver разрешает отображаемые имена пользователей.
type DisplayNameResolver struct {
	customNames identity.CustomNameRoster
	accounts    identity.AdminRoster
	logger      *logger.Logger

	// Отдельный breaker на каждый реестр: падение административного
	// реестра не должно блокировать запросы псевдонимов, и наоборот.
	customBreaker  *circuitbreaker.CircuitBreaker
	accountBreaker *circuitbreaker.CircuitBreaker
}

// NewDisplayNameResolver создаёт новый резолвер имён.
func NewDisplayNameResolver(
	customNames identity.CustomNameRoster,
	accounts identity.AdminRoster,
	log *logger.Logger,
) *DisplayNameResolver {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("display_name_resolver"))
	onStateChange := func(name string, from, to circuitbreaker.State) {
		log.Warn("roster circuit state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()))
	}
	return &DisplayNameResolver{
		customNames:    customNames,
		accounts:       accounts,
		logger:         log,
		customBreaker:  circuitbreaker.RosterBreaker("custom-name-roster", onStateChange),
		accountBreaker: circuitbreaker.RosterBreaker("admin-roster", onStateChange),
	}
}

// Resolve возвращает метку для каждого запрошенного ID.
// requesterID добавляется в множество кандидатов, даже если его нет
// в рейтинге. self - локальный профиль запрашивающего из сессии.
func (r *DisplayNameResolver) Resolve(
	ctx context.Context,
	ids []shared.UserID,
	requesterID shared.UserID,
	self identity.LocalProfile,
) map[shared.UserID]string {
	candidates := shared.NewUserIDSet()
	for _, id := range ids {
		candidates.Add(id)
	}
	candidates.Add(requesterID)

	if candidates.Len() == 0 {
		return map[shared.UserID]string{}
	}

	custom := r.fetchCustomNames(ctx, candidates.IDs())
	accounts := r.fetchAccountRecords(ctx, candidates.IDs())

	result := make(map[shared.UserID]string, candidates.Len())
	for _, id := range candidates.IDs() {
		result[id] = r.resolveOne(id, requesterID, self, custom, accounts)
	}
	return result
}

// fetchCustomNames делает единственный батч-запрос к реестру псевдонимов.
// Отказ реестра - деградация на следующий уровень, не ошибка загрузки.
func (r *DisplayNameResolver) fetchCustomNames(ctx context.Context, ids []shared.UserID) map[shared.UserID]string {
	if r.customNames == nil {
		return nil
	}
	var names map[shared.UserID]string
	err := r.customBreaker.Execute(ctx, func(ctx context.Context) error {
		var fetchErr error
		names, fetchErr = r.customNames.GetCustomNames(ctx, ids)
		return fetchErr
	})
	if err != nil {
		r.logger.Warn("custom name roster lookup failed, degrading",
			logger.Err(err), logger.Int("candidates", len(ids)))
		return nil
	}
	return names
}

// fetchAccountRecords делает единственный батч-запрос к административному
// реестру. Отказ (например, запрет доступа) деградирует дальше по цепочке.
func (r *DisplayNameResolver) fetchAccountRecords(ctx context.Context, ids []shared.UserID) map[shared.UserID]identity.AccountRecord {
	if r.accounts == nil {
		return nil
	}
	var records map[shared.UserID]identity.AccountRecord
	err := r.accountBreaker.Execute(ctx, func(ctx context.Context) error {
		var fetchErr error
		records, fetchErr = r.accounts.GetAccountRecords(ctx, ids)
		return fetchErr
	})
	if err != nil {
		r.logger.Warn("admin roster lookup failed, degrading",
			logger.Err(err), logger.Int("candidates", len(ids)))
		return nil
	}
	return records
}

// resolveOne применяет цепочку приоритетов к одному пользователю.
func (r *DisplayNameResolver) resolveOne(
	id shared.UserID,
	requesterID shared.UserID,
	self identity.LocalProfile,
	custom map[shared.UserID]string,
	accounts map[shared.UserID]identity.AccountRecord,
) string {
	// 1. Публичный псевдоним.
	if name, ok := custom[id]; ok && name != "" {
		return name
	}

	record, hasRecord := accounts[id]

	// 2. Только имя из реестра - полное ФИО не показывается никогда.
	if hasRecord {
		if first := identity.FirstToken(record.FullName); first != "" {
			return first
		}
	}

	// 3. Для себя - локальный профиль без дополнительного запроса.
	if id == requesterID {
		if first := identity.FirstToken(self.FullName); first != "" {
			return first
		}
		if local := identity.EmailLocalPart(self.Email); local != "" {
			return local
		}
		return identity.SelfLabel
	}

	// 4. Локальная часть email из реестра.
	if hasRecord {
		if local := identity.EmailLocalPart(record.Email); local != "" {
			return local
		}
	}

	// 5. Ничего не нашлось.
	return identity.AnonymousLabel
}
