package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhive/quizhive-rankings/internal/domain/identity"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// Фейки реестров с подсчётом вызовов: резолвер обязан делать ровно один
// батч на реестр за загрузку.
// ─────────────────────────────────────────────────────────────────────────────

type fakeCustomRoster struct {
	names map[shared.UserID]string
	err   error
	calls int
	seen  [][]shared.UserID
}

func (f *fakeCustomRoster) GetCustomNames(_ context.Context, ids []shared.UserID) (map[shared.UserID]string, error) {
	f.calls++
	f.seen = append(f.seen, ids)
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

type fakeAdminRoster struct {
	records map[shared.UserID]identity.AccountRecord
	err     error
	calls   int
}

func (f *fakeAdminRoster) GetAccountRecords(_ context.Context, ids []shared.UserID) (map[shared.UserID]identity.AccountRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newResolver(custom *fakeCustomRoster, admin *fakeAdminRoster) *DisplayNameResolver {
	return NewDisplayNameResolver(custom, admin, nil)
}

// ─────────────────────────────────────────────────────────────────────────────
// Цепочка приоритетов
// ─────────────────────────────────────────────────────────────────────────────

func TestResolve_CustomNameWins(t *testing.T) {
	custom := &fakeCustomRoster{names: map[shared.UserID]string{"u1": "QuizMaster"}}
	admin := &fakeAdminRoster{records: map[shared.UserID]identity.AccountRecord{
		"u1": {UserID: "u1", FullName: "Maria Petrova", Email: "maria@example.com"},
	}}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1"}, "", identity.LocalProfile{})

	assert.Equal(t, "QuizMaster", labels["u1"])
}

func TestResolve_FirstNameOnly_NeverFullName(t *testing.T) {
	custom := &fakeCustomRoster{}
	admin := &fakeAdminRoster{records: map[shared.UserID]identity.AccountRecord{
		"u1": {UserID: "u1", FullName: "Maria Petrova Ivanova", Email: "maria@example.com"},
	}}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1"}, "", identity.LocalProfile{})

	assert.Equal(t, "Maria", labels["u1"])
	assert.NotContains(t, labels["u1"], "Petrova")
}

func TestResolve_EmailLocalPartFallback(t *testing.T) {
	custom := &fakeCustomRoster{}
	admin := &fakeAdminRoster{records: map[shared.UserID]identity.AccountRecord{
		"u1": {UserID: "u1", Email: "jdoe@example.com"},
	}}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1"}, "", identity.LocalProfile{})

	assert.Equal(t, "jdoe", labels["u1"])
}

func TestResolve_AnonymousWhenNothingKnown(t *testing.T) {
	labels := newResolver(&fakeCustomRoster{}, &fakeAdminRoster{}).
		Resolve(context.Background(), []shared.UserID{"u1"}, "", identity.LocalProfile{})

	assert.Equal(t, identity.AnonymousLabel, labels["u1"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Путь "для себя"
// ─────────────────────────────────────────────────────────────────────────────

func TestResolve_SelfUsesLocalProfile(t *testing.T) {
	// Реестры молчат, но запрашивающий знает собственный профиль.
	custom := &fakeCustomRoster{}
	admin := &fakeAdminRoster{}
	self := identity.LocalProfile{FullName: "Ivan Sidorov"}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1"}, "u1", self)

	assert.Equal(t, "Ivan", labels["u1"])
}

func TestResolve_SelfLocalEmailFallback(t *testing.T) {
	self := identity.LocalProfile{Email: "ivan.s@example.com"}

	labels := newResolver(&fakeCustomRoster{}, &fakeAdminRoster{}).
		Resolve(context.Background(), []shared.UserID{"u1"}, "u1", self)

	assert.Equal(t, "ivan.s", labels["u1"])
}

func TestResolve_SelfFinalLabel(t *testing.T) {
	labels := newResolver(&fakeCustomRoster{}, &fakeAdminRoster{}).
		Resolve(context.Background(), []shared.UserID{"u1"}, "u1", identity.LocalProfile{})

	assert.Equal(t, identity.SelfLabel, labels["u1"])
}

func TestResolve_RequesterAddedToCandidates(t *testing.T) {
	// Запрашивающего нет в топе, но его метка всё равно должна
	// разрешиться тем же батчем.
	custom := &fakeCustomRoster{names: map[shared.UserID]string{"me": "Lurker"}}
	admin := &fakeAdminRoster{}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1", "u2"}, "me", identity.LocalProfile{})

	assert.Equal(t, "Lurker", labels["me"])
	require.Len(t, custom.seen, 1)
	assert.Contains(t, custom.seen[0], shared.UserID("me"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Батчинг и деградация
// ─────────────────────────────────────────────────────────────────────────────

func TestResolve_SingleBatchPerRoster(t *testing.T) {
	custom := &fakeCustomRoster{}
	admin := &fakeAdminRoster{}

	ids := []shared.UserID{"u1", "u2", "u3", "u4", "u5", "u2", "u1"}
	newResolver(custom, admin).Resolve(context.Background(), ids, "u9", identity.LocalProfile{})

	assert.Equal(t, 1, custom.calls)
	assert.Equal(t, 1, admin.calls)

	// Дубликаты схлопнуты, запрашивающий добавлен.
	require.Len(t, custom.seen, 1)
	assert.Len(t, custom.seen[0], 6)
}

func TestResolve_CustomRosterFailureDegrades(t *testing.T) {
	custom := &fakeCustomRoster{err: errors.New("roster down")}
	admin := &fakeAdminRoster{records: map[shared.UserID]identity.AccountRecord{
		"u1": {UserID: "u1", FullName: "Maria Petrova"},
	}}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1"}, "", identity.LocalProfile{})

	// Падение реестра псевдонимов деградирует на следующий уровень.
	assert.Equal(t, "Maria", labels["u1"])
}

func TestResolve_AdminRosterFailureDegrades(t *testing.T) {
	custom := &fakeCustomRoster{}
	admin := &fakeAdminRoster{err: errors.New("permission denied")}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1"}, "", identity.LocalProfile{})

	assert.Equal(t, identity.AnonymousLabel, labels["u1"])
}

func TestResolve_BothRostersFailSelfStillResolves(t *testing.T) {
	custom := &fakeCustomRoster{err: errors.New("down")}
	admin := &fakeAdminRoster{err: errors.New("down")}
	self := identity.LocalProfile{FullName: "Ivan Sidorov"}

	labels := newResolver(custom, admin).Resolve(context.Background(), []shared.UserID{"u1", "u2"}, "u1", self)

	assert.Equal(t, "Ivan", labels["u1"])
	assert.Equal(t, identity.AnonymousLabel, labels["u2"])
}

func TestResolve_BreakerOpensAfterRepeatedRosterFailures(t *testing.T) {
	custom := &fakeCustomRoster{err: errors.New("down")}
	admin := &fakeAdminRoster{records: map[shared.UserID]identity.AccountRecord{
		"u1": {UserID: "u1", FullName: "Maria Petrova"},
	}}
	resolver := newResolver(custom, admin)

	for i := 0; i < 5; i++ {
		labels := resolver.Resolve(context.Background(), []shared.UserID{"u1"}, "", identity.LocalProfile{})
		assert.Equal(t, "Maria", labels["u1"])
	}

	// После трёх подряд отказов breaker открыт и реестр больше не вызывается.
	assert.Equal(t, 3, custom.calls)
	assert.Equal(t, 5, admin.calls)
}

func TestResolve_EmptyInput(t *testing.T) {
	custom := &fakeCustomRoster{}
	admin := &fakeAdminRoster{}

	labels := newResolver(custom, admin).Resolve(context.Background(), nil, "", identity.LocalProfile{})

	assert.Empty(t, labels)
	assert.Zero(t, custom.calls)
	assert.Zero(t, admin.calls)
}
