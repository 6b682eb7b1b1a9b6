package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/quizhive/quizhive-rankings/internal/domain/ranking"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RankingRepository implements ranking.Repository over the quiz attempt log.
// Every operation is a single server-side aggregation: the attempt log is
// unbounded and raw rows never leave the database.
type RankingRepository struct {
	conn *Connection
}

// NewRankingRepository creates a new RankingRepository.
func NewRankingRepository(conn *Connection) *RankingRepository {
	return &RankingRepository{conn: conn}
}

// windowEnd converts an open window into a NULL upper bound for SQL binding.
func windowEnd(w ranking.TimeWindow) *time.Time {
	if w.Open {
		return nil
	}
	end := w.End
	return &end
}

// GetRankingForPeriod returns the top eligible users of the window, ordered
// by accuracy desc, then total questions desc, then user id asc.
func (r *RankingRepository) GetRankingForPeriod(
	ctx context.Context,
	window ranking.TimeWindow,
	minQuestions, limit int,
) ([]ranking.WindowedStats, error) {
	query := `
		SELECT qa.user_id,
			   COUNT(*) AS total_questions,
			   COUNT(*) FILTER (WHERE qa.is_correct) AS correct_answers,
			   ROUND(COUNT(*) FILTER (WHERE qa.is_correct) * 100.0 / COUNT(*))::int AS accuracy
		FROM quiz_attempts qa
		WHERE qa.answered_at >= $1
		  AND ($2::timestamptz IS NULL OR qa.answered_at <= $2)
		GROUP BY qa.user_id
		HAVING COUNT(*) >= $3
		ORDER BY accuracy DESC, total_questions DESC, qa.user_id ASC
		LIMIT $4
	`

	rows, err := r.conn.Query(ctx, query, window.Start, windowEnd(window), minQuestions, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ranking: %w", err)
	}
	defer rows.Close()

	stats := make([]ranking.WindowedStats, 0, limit)
	for rows.Next() {
		var userID string
		var total, correct, accuracy int

		if err := rows.Scan(&userID, &total, &correct, &accuracy); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}

		stats = append(stats, ranking.WindowedStats{
			UserID:         shared.UserID(userID),
			TotalQuestions: total,
			CorrectAnswers: correct,
			Accuracy:       accuracy,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ranking rows: %w", err)
	}

	return stats, nil
}

// GetUserRankingPosition returns the exact rank of one user over the whole
// eligible population, or (nil, nil) when the user is below the threshold.
// The window function uses the same total order as GetRankingForPeriod, so
// row numbers are dense and consistent with the top-N result.
func (r *RankingRepository) GetUserRankingPosition(
	ctx context.Context,
	userID shared.UserID,
	window ranking.TimeWindow,
	minQuestions int,
) (*ranking.UserPosition, error) {
	query := `
		WITH eligible AS (
			SELECT qa.user_id,
				   COUNT(*) AS total_questions,
				   COUNT(*) FILTER (WHERE qa.is_correct) AS correct_answers,
				   ROUND(COUNT(*) FILTER (WHERE qa.is_correct) * 100.0 / COUNT(*))::int AS accuracy
			FROM quiz_attempts qa
			WHERE qa.answered_at >= $1
			  AND ($2::timestamptz IS NULL OR qa.answered_at <= $2)
			GROUP BY qa.user_id
			HAVING COUNT(*) >= $3
		), ranked AS (
			SELECT user_id, total_questions, correct_answers, accuracy,
				   ROW_NUMBER() OVER (
					   ORDER BY accuracy DESC, total_questions DESC, user_id ASC
				   ) AS position,
				   COUNT(*) OVER () AS total_eligible
			FROM eligible
		)
		SELECT total_questions, correct_answers, accuracy, position, total_eligible
		FROM ranked
		WHERE user_id = $4
	`

	var total, correct, accuracy int
	var position int64
	var totalEligible int64

	err := r.conn.QueryRow(ctx, query, window.Start, windowEnd(window), minQuestions, string(userID)).Scan(
		&total,
		&correct,
		&accuracy,
		&position,
		&totalEligible,
	)

	if IsNoRows(err) {
		// Below the eligibility threshold: a normal state, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user ranking position: %w", err)
	}

	return &ranking.UserPosition{
		Stats: ranking.WindowedStats{
			UserID:         userID,
			TotalQuestions: total,
			CorrectAnswers: correct,
			Accuracy:       accuracy,
		},
		Rank:          ranking.Rank(position),
		TotalEligible: int(totalEligible),
	}, nil
}

// GetEligibleCount returns the size of the eligible population of the window.
func (r *RankingRepository) GetEligibleCount(
	ctx context.Context,
	window ranking.TimeWindow,
	minQuestions int,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT qa.user_id
			FROM quiz_attempts qa
			WHERE qa.answered_at >= $1
			  AND ($2::timestamptz IS NULL OR qa.answered_at <= $2)
			GROUP BY qa.user_id
			HAVING COUNT(*) >= $3
		) eligible
	`

	var count int
	err := r.conn.QueryRow(ctx, query, window.Start, windowEnd(window), minQuestions).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count eligible users: %w", err)
	}

	return count, nil
}
