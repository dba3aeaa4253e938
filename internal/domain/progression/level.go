// Package progression implements XP leveling math and the award-XP contract
// against the remote profile store.
package progression

import "math"

// baseLevelXP is the XP required to advance from level 1 to level 2.
const baseLevelXP = 500

// levelGrowth is the per-level multiplier applied to the requirement.
const levelGrowth = 1.2

// LevelInfo describes a learner's level derived from total XP.
type LevelInfo struct {
	// Level is the current level; always >= 1.
	Level int `json:"level"`

	// XPToNextLevel is the remaining XP needed to reach the next level.
	XPToNextLevel int `json:"xp_to_next_level"`

	// LevelProgress is the percentage (0-100) of the current level's
	// requirement already earned.
	LevelProgress float64 `json:"level_progress"`
}

// levelRequirement returns the XP needed to complete the given level and
// advance to the next one. Level 1 costs the base amount; each subsequent
// level grows the requirement by ~20%, rounded down.
func levelRequirement(level int) int {
	return int(math.Floor(baseLevelXP * math.Pow(levelGrowth, float64(level-1))))
}

// CalculateLevel derives the level reached with the given total XP.
// Deterministic and side-effect free. Negative input is treated as zero.
func CalculateLevel(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	remaining := totalXP
	requirement := levelRequirement(level)

	for remaining >= requirement {
		remaining -= requirement
		level++
		requirement = levelRequirement(level)
	}

	toNext := requirement - remaining
	if toNext < 0 {
		toNext = 0
	}

	progress := float64(remaining) / float64(requirement) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return LevelInfo{
		Level:         level,
		XPToNextLevel: toNext,
		LevelProgress: progress,
	}
}

// CoinsForXP returns the eco-coin gain for an XP award: one coin per ten XP,
// rounded up.
func CoinsForXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	return (amount + 9) / 10
}
