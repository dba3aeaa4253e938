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
// CREATE INVITE COMMAND
// Creates a team invitation for a learner, prepends it to the stored
// collection (newest first), and publishes a TeamInvite event.
// ══════════════════════════════════════════════════════════════════════════════

// CreateInviteCommand contains the data to create an invite.
type CreateInviteCommand struct {
	// UserID is the invited learner's id.
	UserID string

	// TeamName is the inviting team's name.
	TeamName string

	// Inviter is who sent the invite.
	Inviter string

	// Message is an optional personal note.
	Message string

	// Status overrides the default "pending" status (optional).
	Status invite.Status
}

// Validate validates the command.
func (c CreateInviteCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("create_invite: user_id is required")
	}
	if c.TeamName == "" {
		return errors.New("create_invite: team_name is required")
	}
	if c.Inviter == "" {
		return errors.New("create_invite: inviter is required")
	}
	if c.Status != "" && !c.Status.Valid() {
		return errors.New("create_invite: unknown status")
	}
	return nil
}

// CreateInviteHandler handles the CreateInviteCommand.
type CreateInviteHandler struct {
	store  invite.Store
	bus    shared.EventPublisher
	logger *slog.Logger
}

// NewCreateInviteHandler creates a new CreateInviteHandler.
func NewCreateInviteHandler(store invite.Store, bus shared.EventPublisher, logger *slog.Logger) *CreateInviteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateInviteHandler{store: store, bus: bus, logger: logger}
}

// Handle creates the invite and returns it.
func (h *CreateInviteHandler) Handle(ctx context.Context, cmd CreateInviteCommand) (*invite.Invite, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("invite", "Create", shared.ErrValidation, "invalid command", err)
	}

	now := time.Now().UTC()
	status := cmd.Status
	if status == "" {
		status = invite.StatusPending
	}

	created := invite.Invite{
		InviteID:  invite.NewInviteID(now),
		TeamName:  cmd.TeamName,
		Inviter:   cmd.Inviter,
		Message:   cmd.Message,
		Status:    status,
		CreatedAt: now,
	}

	existing, err := h.store.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, shared.WrapError("invite", "Create", shared.ErrExternalService, "load invites", err)
	}

	updated := append([]invite.Invite{created}, existing...)
	if err := h.store.Save(ctx, cmd.UserID, updated); err != nil {
		return nil, shared.WrapError("invite", "Create", shared.ErrExternalService, "save invites", err)
	}

	event := shared.NewTeamInviteEvent(cmd.UserID, created.InviteID, created.TeamName, created.Inviter, created.Message)
	if err := h.bus.Publish(event); err != nil {
		h.logger.Error("publish team invite", "user_id", cmd.UserID, "invite_id", created.InviteID, "error", err)
	}

	return &created, nil
}
