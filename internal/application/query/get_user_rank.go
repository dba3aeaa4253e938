// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/leaderboard"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER RANK QUERY
// Resolves a learner's 1-based rank within a scope. Ranks are computed as the
// count of profiles with strictly greater XP plus one, so tied users share
// the same rank. This query never fails outward: a broken lookup yields a
// nil rank with the error attached, and the page shows "rank unavailable".
// ══════════════════════════════════════════════════════════════════════════════

// GetUserRankQuery contains the rank request parameters.
type GetUserRankQuery struct {
	// UserID is the learner whose rank is requested.
	UserID string

	// Scope is the requested ranking population.
	Scope leaderboard.Scope

	// Institution optionally overrides the user's own institution for
	// school-scoped ranking.
	Institution string
}

// GetUserRankResult contains the resolved rank. Err is set instead of a rank
// when the lookup failed.
type GetUserRankResult struct {
	// Rank is the 1-based rank, nil when unavailable.
	Rank *int

	// ScopeUsed is the scope the rank was actually computed over.
	ScopeUsed leaderboard.Scope

	// TotalXP is the user's own XP the rank was computed from.
	TotalXP int

	// Err carries the failure when Rank is nil.
	Err error
}

// GetUserRankHandler handles the GetUserRankQuery.
type GetUserRankHandler struct {
	repo   leaderboard.Repository
	logger *slog.Logger
}

// NewGetUserRankHandler creates a new GetUserRankHandler.
func NewGetUserRankHandler(repo leaderboard.Repository, logger *slog.Logger) *GetUserRankHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetUserRankHandler{repo: repo, logger: logger}
}

// Handle resolves the rank. It never panics or returns an error to the
// caller; any unexpected failure surfaces inside the result.
func (h *GetUserRankHandler) Handle(ctx context.Context, q GetUserRankQuery) (result GetUserRankResult) {
	result.ScopeUsed = q.Scope

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("rank query panic", "user_id", q.UserID, "panic", r)
			result = GetUserRankResult{ScopeUsed: q.Scope, Err: fmt.Errorf("rank query panic: %v", r)}
		}
	}()

	if q.UserID == "" {
		result.Err = shared.NewDomainError("leaderboard", "GetUserRank", shared.ErrInvalidID, "user_id is required")
		return result
	}

	profile, err := h.repo.GetRankProfile(ctx, q.UserID)
	if err != nil {
		h.logger.Debug("rank profile lookup failed", "user_id", q.UserID, "error", err)
		result.Err = shared.WrapError("leaderboard", "GetUserRank", shared.ErrNotFound, "profile lookup", err)
		return result
	}
	result.TotalXP = profile.TotalXP

	institution := ""
	scopeUsed := leaderboard.ScopeGlobal
	if q.Scope == leaderboard.ScopeSchool {
		institution = q.Institution
		if institution == "" {
			institution = profile.Institution
		}
		if institution != "" {
			scopeUsed = leaderboard.ScopeSchool
		}
	}

	count, err := h.repo.CountWithGreaterXP(ctx, profile.TotalXP, institution)
	if err != nil {
		result.Err = shared.WrapError("leaderboard", "GetUserRank", shared.ErrExternalService, "count query", err)
		return result
	}

	rank := count + 1
	result.Rank = &rank
	result.ScopeUsed = scopeUsed
	return result
}
