package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

func TestComputeAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"perfect", 10, 10, 100},
		{"zero correct", 0, 8, 0},
		{"rounds up", 2, 3, 67},
		{"rounds half away from zero", 1, 8, 13}, // 12.5 -> 13
		{"rounds down", 1, 3, 33},
		{"no questions", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeAccuracy(tt.correct, tt.total))
		})
	}
}

func TestWindowedStats_IsEligible(t *testing.T) {
	s := NewWindowedStats("u1", 5, 4)

	assert.True(t, s.IsEligible(5))
	assert.False(t, s.IsEligible(6))
}

func TestLess_TotalOrder(t *testing.T) {
	higher := NewWindowedStats("b", 10, 9) // 90%
	lower := NewWindowedStats("a", 10, 8)  // 80%

	assert.True(t, Less(higher, lower))
	assert.False(t, Less(lower, higher))

	// Equal accuracy: more questions ranks first.
	many := NewWindowedStats("b", 20, 18) // 90%
	few := NewWindowedStats("a", 10, 9)   // 90%
	assert.True(t, Less(many, few))

	// Full tie on stats: ascending user ID decides.
	x := NewWindowedStats("a", 10, 9)
	y := NewWindowedStats("b", 10, 9)
	assert.True(t, Less(x, y))
	assert.False(t, Less(y, x))
}

func TestSortStats_Deterministic(t *testing.T) {
	stats := []WindowedStats{
		NewWindowedStats("c", 10, 9),
		NewWindowedStats("a", 12, 6),
		NewWindowedStats("b", 10, 9),
		NewWindowedStats("d", 20, 18),
	}

	SortStats(stats)

	ids := make([]shared.UserID, len(stats))
	for i, s := range stats {
		ids[i] = s.UserID
	}

	// 90% with 20 questions, then 90% with 10 (b before c), then 50%.
	assert.Equal(t, []shared.UserID{"d", "b", "c", "a"}, ids)
}

func TestAssignRanks_DenseFromOne(t *testing.T) {
	stats := []WindowedStats{
		NewWindowedStats("a", 10, 10),
		NewWindowedStats("b", 10, 10), // same accuracy, still a distinct rank
		NewWindowedStats("c", 10, 5),
	}

	entries := AssignRanks(stats)

	assert.Equal(t, Rank(1), entries[0].Rank)
	assert.Equal(t, Rank(2), entries[1].Rank)
	assert.Equal(t, Rank(3), entries[2].Rank)
}

func TestUserPosition_Percentile(t *testing.T) {
	first := UserPosition{Rank: 1, TotalEligible: 200}
	assert.InDelta(t, 100.0, first.Percentile(), 0.001)

	mid := UserPosition{Rank: 101, TotalEligible: 200}
	assert.InDelta(t, 50.0, mid.Percentile(), 0.001)

	empty := UserPosition{Rank: 1, TotalEligible: 0}
	assert.Equal(t, 0.0, empty.Percentile())
}

func TestRank_String(t *testing.T) {
	assert.Equal(t, "#3", Rank(3).String())
	assert.True(t, Rank(1).IsValid())
	assert.False(t, Rank(0).IsValid())
}
