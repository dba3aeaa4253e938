package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Returns up to limit profiles ordered by total XP descending. A failing
// school-scoped query falls back transparently to the global leaderboard:
// the learner sees a ranking either way, tagged with the scope actually used.
// ══════════════════════════════════════════════════════════════════════════════

// defaultLeaderboardLimit caps the number of returned entries.
const defaultLeaderboardLimit = 100

// GetLeaderboardQuery contains the leaderboard request parameters.
type GetLeaderboardQuery struct {
	// Scope is the requested population.
	Scope leaderboard.Scope

	// Institution scopes the query when Scope is school.
	Institution string

	// Limit caps the result size (defaults to 100).
	Limit int
}

// GetLeaderboardResult contains the ranked entries. Err is set when even the
// effective query failed; Data is empty in that case.
type GetLeaderboardResult struct {
	// Data is the ranked entries, XP descending.
	Data []leaderboard.Entry

	// ScopeUsed is the scope the returned data was computed over.
	ScopeUsed leaderboard.Scope

	// Err carries the failure of the query that produced (or failed to
	// produce) Data. A swallowed school-scope failure is not reported here.
	Err error
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	repo   leaderboard.Repository
	logger *slog.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
func NewGetLeaderboardHandler(repo leaderboard.Repository, logger *slog.Logger) *GetLeaderboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetLeaderboardHandler{repo: repo, logger: logger}
}

// Handle fetches the leaderboard. It never panics or returns an error to the
// caller; any unexpected failure surfaces inside the result.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (result GetLeaderboardResult) {
	result.ScopeUsed = q.Scope
	result.Data = []leaderboard.Entry{}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("leaderboard query panic", "scope", q.Scope, "panic", r)
			result = GetLeaderboardResult{
				Data:      []leaderboard.Entry{},
				ScopeUsed: q.Scope,
				Err:       fmt.Errorf("leaderboard query panic: %v", r),
			}
		}
	}()

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	if q.Scope == leaderboard.ScopeSchool && q.Institution != "" {
		entries, err := h.repo.TopByXP(ctx, q.Institution, limit)
		if err == nil {
			result.Data = entries
			result.ScopeUsed = leaderboard.ScopeSchool
			return result
		}
		// School failure is invisible to the learner: fall back to the
		// global query and report only the fallback's own outcome.
		h.logger.Warn("school leaderboard failed, falling back to global",
			"institution", q.Institution,
			"error", err,
		)
	}

	entries, err := h.repo.TopByXP(ctx, "", limit)
	if err != nil {
		result.ScopeUsed = leaderboard.ScopeGlobal
		result.Err = err
		return result
	}

	result.Data = entries
	result.ScopeUsed = leaderboard.ScopeGlobal
	return result
}
