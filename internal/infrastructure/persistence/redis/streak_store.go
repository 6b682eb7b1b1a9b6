package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
	"github.com/quizhive/quizhive-rankings/internal/domain/streak"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK STORE
// ══════════════════════════════════════════════════════════════════════════════

// lastActivityLayout is the date format of the last_activity hash field.
const lastActivityLayout = "2006-01-02"

// StreakStore implements streak.Store over the Redis counter layout.
// It never writes: the activity service owns the counters.
type StreakStore struct {
	client *Client
}

// NewStreakStore creates a new StreakStore.
func NewStreakStore(client *Client) *StreakStore {
	return &StreakStore{client: client}
}

// TopStreaks returns up to limit counters with CurrentStreak >= minStreak
// in canonical order (streak descending, then user ID ascending).
//
// The whole eligible score band is fetched and ordered in Go: within equal
// scores Redis orders members lexicographically and ZREVRANGEBYSCORE
// reverses that, which is the opposite of the ascending user ID tie-break.
func (s *StreakStore) TopStreaks(ctx context.Context, minStreak, limit int) ([]streak.Counter, error) {
	if limit <= 0 {
		return []streak.Counter{}, nil
	}

	members, err := s.client.Redis().ZRevRangeByScoreWithScores(ctx, KeyCurrentStreaks, &redis.ZRangeBy{
		Min: strconv.Itoa(minStreak),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read streak ranking: %w", err)
	}

	if len(members) == 0 {
		return []streak.Counter{}, nil
	}

	counters := make([]streak.Counter, 0, len(members))
	for _, m := range members {
		userID, ok := m.Member.(string)
		if !ok {
			continue
		}
		counters = append(counters, streak.Counter{
			UserID:        shared.UserID(userID),
			CurrentStreak: int(m.Score),
		})
	}

	streak.SortCounters(counters)
	if len(counters) > limit {
		counters = counters[:limit]
	}

	if err := s.fillCounterDetails(ctx, counters); err != nil {
		return nil, err
	}

	return counters, nil
}

// fillCounterDetails loads the per-user hash fields for the already
// selected counters with a single pipeline round trip.
func (s *StreakStore) fillCounterDetails(ctx context.Context, counters []streak.Counter) error {
	if len(counters) == 0 {
		return nil
	}

	pipe := s.client.Redis().Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(counters))
	for i, c := range counters {
		cmds[i] = pipe.HGetAll(ctx, StreakUserKey(string(c.UserID)))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to read streak details: %w", err)
	}

	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			return fmt.Errorf("failed to read streak details: %w", err)
		}

		if v, ok := fields["longest"]; ok {
			if longest, err := strconv.Atoi(v); err == nil {
				counters[i].LongestStreak = longest
			}
		}
		// The current streak is always at least as long as itself.
		if counters[i].LongestStreak < counters[i].CurrentStreak {
			counters[i].LongestStreak = counters[i].CurrentStreak
		}

		if v, ok := fields["last_activity"]; ok {
			if t, err := time.Parse(lastActivityLayout, v); err == nil {
				counters[i].LastActivityDate = t.UTC()
			}
		}
	}

	return nil
}
