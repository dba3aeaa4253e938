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
// MARK INVITES NOTIFIED COMMAND
// Stamps NotifiedAt on invites that have been shown to the learner. Writes
// only when at least one invite actually changed, so repeated calls with the
// same ids are idempotent and cheap.
// ══════════════════════════════════════════════════════════════════════════════

// MarkInvitesNotifiedCommand contains the target user and invite ids.
type MarkInvitesNotifiedCommand struct {
	// UserID is the learner's id.
	UserID string

	// InviteIDs are the invites that were shown.
	InviteIDs []string
}

// Validate validates the command.
func (c MarkInvitesNotifiedCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("mark_invites_notified: user_id is required")
	}
	return nil
}

// MarkInvitesNotifiedResult reports how many invites were stamped.
type MarkInvitesNotifiedResult struct {
	// Stamped is the number of invites that received a NotifiedAt stamp.
	Stamped int
}

// MarkInvitesNotifiedHandler handles the MarkInvitesNotifiedCommand.
type MarkInvitesNotifiedHandler struct {
	store  invite.Store
	logger *slog.Logger
}

// NewMarkInvitesNotifiedHandler creates a new MarkInvitesNotifiedHandler.
func NewMarkInvitesNotifiedHandler(store invite.Store, logger *slog.Logger) *MarkInvitesNotifiedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkInvitesNotifiedHandler{store: store, logger: logger}
}

// Handle stamps the matching invites.
func (h *MarkInvitesNotifiedHandler) Handle(ctx context.Context, cmd MarkInvitesNotifiedCommand) (*MarkInvitesNotifiedResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("invite", "MarkNotified", shared.ErrValidation, "invalid command", err)
	}
	if len(cmd.InviteIDs) == 0 {
		return &MarkInvitesNotifiedResult{}, nil
	}

	ids := make(map[string]bool, len(cmd.InviteIDs))
	for _, id := range cmd.InviteIDs {
		ids[id] = true
	}

	invites, err := h.store.Load(ctx, cmd.UserID)
	if err != nil {
		return nil, shared.WrapError("invite", "MarkNotified", shared.ErrExternalService, "load invites", err)
	}

	now := time.Now().UTC()
	stamped := 0
	for i := range invites {
		if ids[invites[i].InviteID] && invites[i].NotifiedAt == nil {
			invites[i].NotifiedAt = &now
			stamped++
		}
	}

	if stamped == 0 {
		return &MarkInvitesNotifiedResult{}, nil
	}

	if err := h.store.Save(ctx, cmd.UserID, invites); err != nil {
		return nil, shared.WrapError("invite", "MarkNotified", shared.ErrExternalService, "save invites", err)
	}

	h.logger.Debug("invites marked notified", "user_id", cmd.UserID, "stamped", stamped)

	return &MarkInvitesNotifiedResult{Stamped: stamped}, nil
}
