package postgres

import (
	"context"
	"fmt"

	"github.com/quizhive/quizhive-rankings/internal/domain/identity"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY ROSTER IMPLEMENTATIONS
// ══════════════════════════════════════════════════════════════════════════════

// IdentityRepository implements both identity.CustomNameRoster and
// identity.AdminRoster. Each lookup is a single batched query over the
// whole ID list; callers must never loop over it per user.
type IdentityRepository struct {
	conn *Connection
}

// NewIdentityRepository creates a new IdentityRepository.
func NewIdentityRepository(conn *Connection) *IdentityRepository {
	return &IdentityRepository{conn: conn}
}

func userIDStrings(ids []shared.UserID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// GetCustomNames returns user-chosen display names for the IDs that have one.
// IDs without a custom name are simply absent from the result.
func (r *IdentityRepository) GetCustomNames(
	ctx context.Context,
	ids []shared.UserID,
) (map[shared.UserID]string, error) {
	if len(ids) == 0 {
		return map[shared.UserID]string{}, nil
	}

	query := `
		SELECT user_id, display_name
		FROM public_profiles
		WHERE user_id = ANY($1)
		  AND display_name IS NOT NULL
		  AND display_name <> ''
	`

	rows, err := r.conn.Query(ctx, query, userIDStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to batch custom names: %w", err)
	}
	defer rows.Close()

	names := make(map[shared.UserID]string, len(ids))
	for rows.Next() {
		var userID, name string
		if err := rows.Scan(&userID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan custom name: %w", err)
		}
		names[shared.UserID(userID)] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read custom names: %w", err)
	}

	return names, nil
}

// GetAccountRecords returns administrative account records for the found IDs.
func (r *IdentityRepository) GetAccountRecords(
	ctx context.Context,
	ids []shared.UserID,
) (map[shared.UserID]identity.AccountRecord, error) {
	if len(ids) == 0 {
		return map[shared.UserID]identity.AccountRecord{}, nil
	}

	query := `
		SELECT user_id, COALESCE(full_name, ''), COALESCE(email, '')
		FROM accounts
		WHERE user_id = ANY($1)
	`

	rows, err := r.conn.Query(ctx, query, userIDStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to batch account records: %w", err)
	}
	defer rows.Close()

	records := make(map[shared.UserID]identity.AccountRecord, len(ids))
	for rows.Next() {
		var rec identity.AccountRecord
		var userID string
		if err := rows.Scan(&userID, &rec.FullName, &rec.Email); err != nil {
			return nil, fmt.Errorf("failed to scan account record: %w", err)
		}
		rec.UserID = shared.UserID(userID)
		records[rec.UserID] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account records: %w", err)
	}

	return records, nil
}
