package command

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/course"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// START COURSE COMMAND
// Starts a course for the signed-in learner against the remote store while
// keeping the per-user progress cache consistent under optimistic
// concurrency: snapshot before the remote call, roll back on failure,
// invalidate on settlement either way.
// ══════════════════════════════════════════════════════════════════════════════

// StartCourseCommand contains the data to start or advance a course.
type StartCourseCommand struct {
	// UserID is the signed-in learner's id. Required.
	UserID string

	// CourseID is the course to start.
	CourseID string

	// CurrentProgress is the caller's view of the course progress. A value
	// above zero means the course is already started and the remote call is
	// skipped.
	CurrentProgress float64
}

// Validate validates the command. A missing user id is an authentication
// failure, not a generic validation error.
func (c StartCourseCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("course", "Start", shared.ErrUnauthenticated, "no signed-in user")
	}
	if c.CourseID == "" {
		return shared.NewDomainError("course", "Start", shared.ErrValidation, "course_id is required")
	}
	return nil
}

// StartCourseResult contains the post-call view of the course.
type StartCourseResult struct {
	// CourseID is the affected course.
	CourseID string

	// Progress is the progress value after the call.
	Progress float64

	// Started indicates the remote start transition was issued.
	Started bool
}

// StartCourseHandler coordinates the optimistic start-course mutation.
// Only one course may be pending at a time from this handler's perspective;
// a later call supersedes the pending marker without cancelling the earlier
// remote call in flight.
type StartCourseHandler struct {
	courses course.Repository
	cache   course.ProgressCache
	guard   *course.ReadGuard
	logger  *slog.Logger

	mu            sync.Mutex
	pendingCourse string
	pendingSeq    uint64
}

// NewStartCourseHandler creates a new StartCourseHandler.
func NewStartCourseHandler(courses course.Repository, cache course.ProgressCache, guard *course.ReadGuard, logger *slog.Logger) *StartCourseHandler {
	if guard == nil {
		guard = &course.ReadGuard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StartCourseHandler{courses: courses, cache: cache, guard: guard, logger: logger}
}

// PendingCourse returns the course id currently undergoing a start mutation,
// or empty when none is pending.
func (h *StartCourseHandler) PendingCourse() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pendingCourse
}

// ReadGuard returns the guard the read side registers its fetches with.
func (h *StartCourseHandler) ReadGuard() *course.ReadGuard {
	return h.guard
}

// Handle executes the start-course mutation.
func (h *StartCourseHandler) Handle(ctx context.Context, cmd StartCourseCommand) (*StartCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Already started: echo the next state without touching the remote
	// store or the cache.
	if cmd.CurrentProgress > 0 {
		return &StartCourseResult{CourseID: cmd.CourseID, Progress: cmd.CurrentProgress}, nil
	}

	seq := h.markPending(cmd.CourseID)

	// Cancel any in-flight cache read so a stale result cannot clobber the
	// optimistic write below.
	h.guard.CancelActive()

	snapshot, hadSnapshot, err := h.cache.Get(ctx, cmd.UserID)
	if err != nil {
		h.logger.Error("progress cache read", "user_id", cmd.UserID, "error", err)
		hadSnapshot = false
	}

	if hadSnapshot {
		h.applyOptimistic(ctx, cmd.UserID, cmd.CourseID, snapshot)
	}

	startErr := h.courses.StartCourse(ctx, cmd.UserID, cmd.CourseID)

	// Settlement: roll back on failure, then always invalidate so the next
	// read reflects the authoritative remote state, and clear the pending
	// marker unless a later call superseded it.
	if startErr != nil && hadSnapshot {
		if err := h.cache.Set(ctx, cmd.UserID, snapshot); err != nil {
			h.logger.Error("progress cache rollback", "user_id", cmd.UserID, "error", err)
		}
	}
	if err := h.cache.Invalidate(ctx, cmd.UserID); err != nil {
		h.logger.Error("progress cache invalidate", "user_id", cmd.UserID, "error", err)
	}
	h.clearPending(seq)

	if startErr != nil {
		return nil, shared.WrapError("course", "Start", shared.ErrExternalService, "start course", startErr)
	}

	return &StartCourseResult{CourseID: cmd.CourseID, Progress: 1, Started: true}, nil
}

// applyOptimistic writes the tentative started entry into the cached
// collection before the remote call resolves.
func (h *StartCourseHandler) applyOptimistic(ctx context.Context, userID, courseID string, snapshot []course.ProgressEntry) {
	now := time.Now().UTC()
	optimistic := make([]course.ProgressEntry, len(snapshot))
	copy(optimistic, snapshot)

	found := false
	for i := range optimistic {
		if optimistic[i].CourseID == courseID {
			optimistic[i].Progress = 1
			if optimistic[i].StartedAt == nil {
				optimistic[i].StartedAt = &now
			}
			found = true
			break
		}
	}
	if !found {
		optimistic = append(optimistic, course.ProgressEntry{
			UserID:    userID,
			CourseID:  courseID,
			Progress:  1,
			StartedAt: &now,
		})
	}

	if err := h.cache.Set(ctx, userID, optimistic); err != nil {
		h.logger.Error("progress cache optimistic write", "user_id", userID, "error", err)
	}
}

// markPending records courseID as the single pending course and returns a
// sequence token identifying this mutation.
func (h *StartCourseHandler) markPending(courseID string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pendingSeq++
	h.pendingCourse = courseID
	return h.pendingSeq
}

// clearPending clears the marker unless a later mutation superseded it.
func (h *StartCourseHandler) clearPending(seq uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pendingSeq == seq {
		h.pendingCourse = ""
	}
}
