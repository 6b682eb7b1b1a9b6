// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID represents the canonical user identifier (UUID format).
// It is the single join key across the attempt log, the streak store,
// both identity rosters, and the requester's session. All cross-source
// joins are keyed on this type - never on incidental field-name matching.
type UserID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the user ID is a valid UUID.
func (u UserID) IsValid() bool {
	return uuidRegex.MatchString(string(u))
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// IsEmpty checks if the ID is empty.
func (u UserID) IsEmpty() bool {
	return u == ""
}

// NewUserID creates a new UserID with validation.
func NewUserID(id string) (UserID, error) {
	uid := UserID(strings.TrimSpace(id))
	if !uid.IsValid() {
		return "", ErrInvalidUserID
	}
	return uid, nil
}

// UserIDSet is an order-preserving set of user IDs, used to collect the
// candidate set for a single batched roster lookup without duplicates.
type UserIDSet struct {
	ids  []UserID
	seen map[UserID]struct{}
}

// NewUserIDSet creates an empty set.
func NewUserIDSet() *UserIDSet {
	return &UserIDSet{seen: make(map[UserID]struct{})}
}

// Add inserts an ID, ignoring duplicates and empty values.
func (s *UserIDSet) Add(id UserID) {
	if id.IsEmpty() {
		return
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Contains reports whether the ID is in the set.
func (s *UserIDSet) Contains(id UserID) bool {
	_, ok := s.seen[id]
	return ok
}

// IDs returns the IDs in insertion order.
func (s *UserIDSet) IDs() []UserID {
	out := make([]UserID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Strings returns the IDs as plain strings, for query parameter binding.
func (s *UserIDSet) Strings() []string {
	out := make([]string, len(s.ids))
	for i, id := range s.ids {
		out[i] = string(id)
	}
	return out
}

// Len returns the number of IDs in the set.
func (s *UserIDSet) Len() int {
	return len(s.ids)
}
