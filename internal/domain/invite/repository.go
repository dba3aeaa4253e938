package invite

import "context"

// Store is the durable per-user invite persistence contract.
// A user with no stored invites yields an empty collection, not an error;
// corrupt content degrades to an empty collection.
type Store interface {
	// Load returns the user's invite collection, newest first.
	Load(ctx context.Context, userID string) ([]Invite, error)

	// Save replaces the user's invite collection.
	Save(ctx context.Context, userID string, invites []Invite) error
}
