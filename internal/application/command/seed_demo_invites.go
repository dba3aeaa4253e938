package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/invite"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEED DEMO INVITES COMMAND
// Seeds a fixed pair of illustrative pending invites for a user with an empty
// collection. Idempotent: a user who already has invites gets their existing
// collection back unchanged.
// ══════════════════════════════════════════════════════════════════════════════

// SeedDemoInvitesCommand contains the target user.
type SeedDemoInvitesCommand struct {
	// UserID is the learner's id.
	UserID string
}

// Validate validates the command.
func (c SeedDemoInvitesCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("seed_demo_invites: user_id is required")
	}
	return nil
}

// SeedDemoInvitesHandler handles the SeedDemoInvitesCommand.
type SeedDemoInvitesHandler struct {
	store  invite.Store
	logger *slog.Logger
}

// NewSeedDemoInvitesHandler creates a new SeedDemoInvitesHandler.
func NewSeedDemoInvitesHandler(store invite.Store, logger *slog.Logger) *SeedDemoInvitesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeedDemoInvitesHandler{store: store, logger: logger}
}

// Handle returns the user's invite collection, seeding it first when empty.
func (h *SeedDemoInvitesHandler) Handle(ctx context.Context, cmd SeedDemoInvitesCommand) ([]invite.Invite, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("invite", "SeedDemo", shared.ErrValidation, "invalid command", err)
	}

	existing, err := h.store.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, shared.WrapError("invite", "SeedDemo", shared.ErrExternalService, "load invites", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := time.Now().UTC()
	seeded := []invite.Invite{
		{
			InviteID:  invite.NewInviteID(now),
			TeamName:  "Green Guardians",
			Inviter:   "Maya Chen",
			Message:   "We could use your recycling streak on our team!",
			Status:    invite.StatusPending,
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			InviteID:  invite.NewInviteID(now.Add(time.Millisecond)),
			TeamName:  "Solar Squad",
			Inviter:   "Daniel Okafor",
			Status:    invite.StatusPending,
			CreatedAt: now.Add(-6 * time.Hour),
		},
	}

	if err := h.store.Save(ctx, cmd.UserID, seeded); err != nil {
		return nil, shared.WrapError("invite", "SeedDemo", shared.ErrExternalService, "save invites", err)
	}

	h.logger.Debug("demo invites seeded", "user_id", cmd.UserID, "count", len(seeded))

	return seeded, nil
}
