package domain

// XPPerLevel is the amount of experience between consecutive levels.
const XPPerLevel = 500

// DefaultXPReward is the fallback reward applied when a catalog entry has no
// explicit xp_reward. One constant module-wide; the schema default matches.
const DefaultXPReward = 50

// Progression is the level breakdown derived from cumulative XP.
// It is computed fresh on demand and never stored.
type Progression struct {
	Level          int     `json:"level"`
	XPIntoLevel    int     `json:"xp_into_level"`
	XPToNextLevel  int     `json:"xp_to_next_level"`
	PercentOfLevel float64 `json:"percent_of_level"`
}

// ProgressionFor converts cumulative XP into its level breakdown.
// Level 1 starts at 0 XP; each level spans XPPerLevel points.
// totalXP must be non-negative — the workflows never decrease it.
func ProgressionFor(totalXP int) Progression {
	into := totalXP % XPPerLevel
	return Progression{
		Level:          totalXP/XPPerLevel + 1,
		XPIntoLevel:    into,
		XPToNextLevel:  XPPerLevel - into,
		PercentOfLevel: float64(into) / XPPerLevel * 100,
	}
}

// LevelFor returns just the level for the given cumulative XP.
func LevelFor(totalXP int) int {
	return totalXP/XPPerLevel + 1
}
