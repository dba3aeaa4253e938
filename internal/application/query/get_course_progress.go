package query

import (
	"context"
	"log/slog"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE PROGRESS VIEW QUERY
// Composes two independently-cached reads - the organization-wide course
// catalog (long-lived cache, no per-user key) and the per-user course
// progress (shorter-lived cache, keyed by user, skipped without a user id) -
// into one merged view. Progress reads register with the coordinator's
// ReadGuard so an optimistic write can cancel a stale in-flight fetch.
// ══════════════════════════════════════════════════════════════════════════════

// CourseProgressQuery contains the view request parameters.
type CourseProgressQuery struct {
	// UserID is the signed-in learner's id; empty skips the progress read.
	UserID string
}

// CourseProgressView is the merged read-side view.
type CourseProgressView struct {
	// Courses is the full catalog.
	Courses []course.Course

	// Progress is the user's course progress, nil without a user id.
	Progress []course.ProgressEntry

	// CatalogErr carries a catalog fetch failure.
	CatalogErr error

	// ProgressErr carries a progress fetch failure.
	ProgressErr error
}

// Err returns the first failure of either side, nil when both loaded.
func (v CourseProgressView) Err() error {
	if v.CatalogErr != nil {
		return v.CatalogErr
	}
	return v.ProgressErr
}

// CourseProgressHandler handles the CourseProgressQuery.
type CourseProgressHandler struct {
	repo     course.Repository
	catalog  course.CatalogCache
	progress course.ProgressCache
	guard    *course.ReadGuard
	logger   *slog.Logger
}

// NewCourseProgressHandler creates a new CourseProgressHandler.
func NewCourseProgressHandler(
	repo course.Repository,
	catalog course.CatalogCache,
	progress course.ProgressCache,
	guard *course.ReadGuard,
	logger *slog.Logger,
) *CourseProgressHandler {
	if guard == nil {
		guard = &course.ReadGuard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseProgressHandler{
		repo:     repo,
		catalog:  catalog,
		progress: progress,
		guard:    guard,
		logger:   logger,
	}
}

// Handle returns the merged view, serving each side from its cache when
// fresh and falling through to the remote store otherwise.
func (h *CourseProgressHandler) Handle(ctx context.Context, q CourseProgressQuery) CourseProgressView {
	return h.load(ctx, q, false)
}

// RefetchAll forces both sides to re-fetch from the remote store and
// repopulates the caches.
func (h *CourseProgressHandler) RefetchAll(ctx context.Context, q CourseProgressQuery) CourseProgressView {
	return h.load(ctx, q, true)
}

// InvalidateAll marks both caches stale without fetching.
func (h *CourseProgressHandler) InvalidateAll(ctx context.Context, userID string) {
	if err := h.catalog.Invalidate(ctx); err != nil {
		h.logger.Error("catalog cache invalidate", "error", err)
	}
	if userID == "" {
		return
	}
	if err := h.progress.Invalidate(ctx, userID); err != nil {
		h.logger.Error("progress cache invalidate", "user_id", userID, "error", err)
	}
}

func (h *CourseProgressHandler) load(ctx context.Context, q CourseProgressQuery, force bool) CourseProgressView {
	var view CourseProgressView

	view.Courses, view.CatalogErr = h.loadCatalog(ctx, force)

	if q.UserID == "" {
		return view
	}
	view.Progress, view.ProgressErr = h.loadProgress(ctx, q.UserID, force)

	return view
}

func (h *CourseProgressHandler) loadCatalog(ctx context.Context, force bool) ([]course.Course, error) {
	if !force {
		if cached, ok, err := h.catalog.Get(ctx); err == nil && ok {
			return cached, nil
		} else if err != nil {
			h.logger.Warn("catalog cache read", "error", err)
		}
	}

	courses, err := h.repo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.catalog.Set(ctx, courses); err != nil {
		h.logger.Error("catalog cache write", "error", err)
	}
	return courses, nil
}

func (h *CourseProgressHandler) loadProgress(ctx context.Context, userID string, force bool) ([]course.ProgressEntry, error) {
	readCtx, done := h.guard.Begin(ctx)
	defer done()

	if !force {
		if cached, ok, err := h.progress.Get(readCtx, userID); err == nil && ok {
			return cached, nil
		} else if err != nil && readCtx.Err() == nil {
			h.logger.Warn("progress cache read", "user_id", userID, "error", err)
		}
	}

	entries, err := h.repo.ListProgress(readCtx, userID)
	if err != nil {
		return nil, err
	}

	// A cancelled read must not repopulate the cache: the coordinator
	// cancelled it precisely because its result is stale relative to the
	// optimistic write.
	if readCtx.Err() != nil {
		return entries, readCtx.Err()
	}
	if err := h.progress.Set(readCtx, userID, entries); err != nil {
		h.logger.Error("progress cache write", "user_id", userID, "error", err)
	}
	return entries, nil
}
