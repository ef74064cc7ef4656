package domain

import (
	"time"

	"github.com/google/uuid"
)

// Requirement types understood by the achievement auto-evaluator.
// Achievements with other requirement types are only awarded explicitly.
const (
	RequirementSitesVisited = "sites_visited"
	RequirementTotalXP      = "total_xp"
)

// Achievement is a read-only catalog entry describing an earnable badge.
type Achievement struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category"`
	XPReward         int       `json:"xp_reward"`
	RequirementType  string    `json:"requirement_type"`
	RequirementValue int       `json:"requirement_value"`
	Rarity           string    `json:"rarity"` // common | rare | epic | legendary
	CreatedAt        time.Time `json:"created_at"`
}

// MetBy reports whether the achievement's requirement is satisfied by the
// given profile. Unknown requirement types are never auto-satisfied.
func (a Achievement) MetBy(p Profile) bool {
	switch a.RequirementType {
	case RequirementSitesVisited:
		return p.SitesVisited >= a.RequirementValue
	case RequirementTotalXP:
		return p.TotalXP >= a.RequirementValue
	default:
		return false
	}
}

// UserAchievement records that a user earned an achievement.
// At most one exists per (UserID, AchievementID) pair — enforced by a
// uniqueness constraint in the database.
type UserAchievement struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}
