package streak

import "context"

// Store is the durable per-user streak persistence contract.
// Implementations namespace records by user id; a missing record is not an
// error and yields the zero state.
type Store interface {
	// Load returns the stored state for the user, or the zero state when
	// nothing is stored. Corrupt content degrades to the zero state.
	Load(ctx context.Context, userID string) (State, error)

	// Save persists the state for the user, replacing any prior record.
	Save(ctx context.Context, userID string, state State) error
}
