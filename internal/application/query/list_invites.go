package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/invite"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST INVITES QUERY
// Returns the learner's stored invite collection, newest first. This is a
// leaf read: it degrades to an empty list on storage problems rather than
// failing outward.
// ══════════════════════════════════════════════════════════════════════════════

// ListInvitesQuery contains the target user.
type ListInvitesQuery struct {
	// UserID is the learner's id.
	UserID string
}

// Validate validates the query.
func (q ListInvitesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("list_invites: user_id is required")
	}
	return nil
}

// ListInvitesHandler handles the ListInvitesQuery.
type ListInvitesHandler struct {
	store  invite.Store
	logger *slog.Logger
}

// NewListInvitesHandler creates a new ListInvitesHandler.
func NewListInvitesHandler(store invite.Store, logger *slog.Logger) *ListInvitesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListInvitesHandler{store: store, logger: logger}
}

// Handle returns the user's invites, empty when none are stored or the
// stored content is unreadable.
func (h *ListInvitesHandler) Handle(ctx context.Context, q ListInvitesQuery) ([]invite.Invite, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("invite", "List", shared.ErrValidation, "invalid query", err)
	}

	invites, err := h.store.Load(ctx, q.UserID)
	if err != nil {
		h.logger.Warn("invite collection unreadable, returning empty", "user_id", q.UserID, "error", err)
		return []invite.Invite{}, nil
	}
	if invites == nil {
		invites = []invite.Invite{}
	}
	return invites, nil
}
