package leaderboard

import "context"

// RankProfile is the requesting user's own ranking-relevant fields.
type RankProfile struct {
	TotalXP     int
	Institution string
}

// Repository is the remote store contract for rank and leaderboard queries.
type Repository interface {
	// GetRankProfile returns the user's own total XP and institution.
	GetRankProfile(ctx context.Context, userID string) (RankProfile, error)

	// CountWithGreaterXP counts profiles with strictly greater total XP.
	// An empty institution means the count is unscoped.
	CountWithGreaterXP(ctx context.Context, totalXP int, institution string) (int, error)

	// TopByXP returns up to limit entries ordered by total XP descending.
	// An empty institution means the query is unscoped.
	TopByXP(ctx context.Context, institution string, limit int) ([]Entry, error)
}
