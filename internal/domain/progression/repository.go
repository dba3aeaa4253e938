package progression

import (
	"context"
	"time"
)

// ProfileXP is the XP-bearing subset of a remote profile.
type ProfileXP struct {
	UserID   string
	TotalXP  int
	EcoCoins int
	Level    int
}

// ProfileRepository is the remote profile store contract for XP awards.
// The store owns the authoritative profile record; this subsystem only reads
// the XP fields and writes them back in a single update.
type ProfileRepository interface {
	// GetXP returns the profile's current XP fields.
	GetXP(ctx context.Context, userID string) (ProfileXP, error)

	// UpdateXP writes total XP, coins, derived level, and the update stamp
	// in one statement.
	UpdateXP(ctx context.Context, userID string, totalXP, ecoCoins, level int, updatedAt time.Time) error
}
