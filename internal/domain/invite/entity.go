// Package invite implements the team invitation registry domain.
// Invites are stored per user, newest first, and are never physically
// removed by this subsystem; only their status and notification stamp change.
package invite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an invitation.
type Status string

const (
	// StatusPending means the invite awaits a response.
	StatusPending Status = "pending"

	// StatusAccepted means the learner joined the team.
	StatusAccepted Status = "accepted"

	// StatusDeclined means the learner declined the invite.
	StatusDeclined Status = "declined"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Invite is a single team invitation for a learner.
type Invite struct {
	// InviteID is unique within the user's collection.
	InviteID string `json:"invite_id"`

	// TeamName is the inviting team's display name.
	TeamName string `json:"team_name"`

	// Inviter is the display name of the person who sent the invite.
	Inviter string `json:"inviter"`

	// Message is an optional personal note from the inviter.
	Message string `json:"message,omitempty"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is when the invite was created.
	CreatedAt time.Time `json:"created_at"`

	// NotifiedAt is when the learner was shown the invite notification.
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
}

// NewInviteID generates a collision-resistant invite id for the session:
// a millisecond timestamp plus a random suffix.
func NewInviteID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("inv_%d_%s", now.UnixMilli(), suffix)
}

// ParseList deserializes a stored invite collection. Malformed content
// degrades to an empty list; the returned error reports the corruption for
// logging.
func ParseList(raw []byte) ([]Invite, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var invites []Invite
	if err := json.Unmarshal(raw, &invites); err != nil {
		return nil, shared.WrapError("invite", "Parse", shared.ErrStorageCorrupt, "malformed invite collection", err)
	}
	return invites, nil
}

// MarshalList serializes an invite collection for durable storage.
func MarshalList(invites []Invite) ([]byte, error) {
	return json.Marshal(invites)
}
