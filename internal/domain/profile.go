package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds a user's gamification state. TotalXP is monotonically
// non-decreasing; Level is always derived from TotalXP via ProgressionFor.
// Profiles are mutated only by the check-in and achievement workflows, both
// of which lock the row for the duration of their transaction.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	TotalXP      int       `json:"total_xp"`
	Level        int       `json:"level"`
	SitesVisited int       `json:"sites_visited"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
