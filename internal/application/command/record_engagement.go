// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/streak"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ENGAGEMENT COMMAND
// Records one daily engagement for a learner and advances the streak state
// machine. Publishes a StreakMilestone event when the streak crosses a
// notable length or sets a new personal best.
// ══════════════════════════════════════════════════════════════════════════════

// RecordEngagementCommand contains the data to record a daily engagement.
type RecordEngagementCommand struct {
	// UserID is the learner's id.
	UserID string

	// Now is when the engagement occurred (defaults to now if zero).
	Now time.Time
}

// Validate validates the command.
func (c RecordEngagementCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("record_engagement: user_id is required")
	}
	return nil
}

// RecordEngagementResult contains the result of recording an engagement.
type RecordEngagementResult struct {
	// State is the streak state after the call.
	State streak.State

	// MilestoneReached indicates a milestone notification was published.
	MilestoneReached bool
}

// RecordEngagementHandler handles the RecordEngagementCommand.
type RecordEngagementHandler struct {
	store  streak.Store
	bus    shared.EventPublisher
	logger *slog.Logger
}

// NewRecordEngagementHandler creates a new RecordEngagementHandler.
func NewRecordEngagementHandler(store streak.Store, bus shared.EventPublisher, logger *slog.Logger) *RecordEngagementHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordEngagementHandler{store: store, bus: bus, logger: logger}
}

// Handle executes the record engagement command. Repeated calls within the
// same calendar day are idempotent.
func (h *RecordEngagementHandler) Handle(ctx context.Context, cmd RecordEngagementCommand) (*RecordEngagementResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("streak", "Record", shared.ErrValidation, "invalid command", err)
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	state, err := h.store.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, shared.WrapError("streak", "Record", shared.ErrExternalService, "load streak state", err)
	}

	res := state.Advance(now)
	if !res.Changed {
		return &RecordEngagementResult{State: res.State}, nil
	}

	if err := h.store.Save(ctx, cmd.UserID, res.State); err != nil {
		return nil, shared.WrapError("streak", "Record", shared.ErrExternalService, "save streak state", err)
	}

	if res.MilestoneReached {
		event := shared.NewStreakMilestoneEvent(cmd.UserID, res.State.CurrentStreak, res.State.LongestStreak)
		if err := h.bus.Publish(event); err != nil {
			h.logger.Error("publish streak milestone", "user_id", cmd.UserID, "error", err)
		}
	}

	h.logger.Debug("engagement recorded",
		"user_id", cmd.UserID,
		"current_streak", res.State.CurrentStreak,
		"milestone", res.MilestoneReached,
	)

	return &RecordEngagementResult{State: res.State, MilestoneReached: res.MilestoneReached}, nil
}
