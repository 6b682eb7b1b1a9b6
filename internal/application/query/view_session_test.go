package query

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewSession_InstallCurrentGeneration(t *testing.T) {
	s := NewViewSession()

	gen := s.Begin()
	view := &RankingView{Mode: ModeAccuracy}

	assert.True(t, s.Install(gen, view))

	current, _ := s.Current()
	assert.Same(t, view, current)
}

func TestViewSession_StaleResultDiscarded(t *testing.T) {
	s := NewViewSession()

	// Пользователь переключил фильтр до завершения первой загрузки.
	slow := s.Begin()
	fast := s.Begin()

	fastView := &RankingView{Period: "week"}
	require.True(t, s.Install(fast, fastView))

	// Медленная загрузка завершилась позже, но её поколение устарело.
	slowView := &RankingView{Period: "today"}
	assert.False(t, s.Install(slow, slowView))

	current, _ := s.Current()
	assert.Same(t, fastView, current, "stale result must never replace the newer one")
}

func TestViewSession_StaleAfterCompletion(t *testing.T) {
	s := NewViewSession()

	first := s.Begin()
	require.True(t, s.Install(first, &RankingView{Period: "today"}))

	second := s.Begin()
	newer := &RankingView{Period: "month"}
	require.True(t, s.Install(second, newer))

	// Поздний повтор первого поколения отбрасывается.
	assert.False(t, s.Install(first, &RankingView{Period: "today"}))

	current, gen := s.Current()
	assert.Same(t, newer, current)
	assert.Equal(t, second, gen)
}

func TestViewSession_Reset(t *testing.T) {
	s := NewViewSession()

	gen := s.Begin()
	require.True(t, s.Install(gen, &RankingView{}))

	s.Reset()

	current, _ := s.Current()
	assert.Nil(t, current)

	// Начатая до сброса загрузка становится устаревшей.
	assert.False(t, s.Install(gen, &RankingView{}))
}

func TestViewSession_ConcurrentLoads(t *testing.T) {
	s := NewViewSession()

	var wg sync.WaitGroup
	const loads = 50

	gens := make([]uint64, loads)
	for i := 0; i < loads; i++ {
		gens[i] = s.Begin()
	}

	installed := make([]bool, loads)
	for i := 0; i < loads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			installed[i] = s.Install(gens[i], &RankingView{})
		}(i)
	}
	wg.Wait()

	// Установиться может только последняя начатая загрузка.
	wins := 0
	for i, ok := range installed {
		if ok {
			wins++
			assert.Equal(t, loads-1, i)
		}
	}
	assert.LessOrEqual(t, wins, 1)
}
