package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/invite"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/streak"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// DURABLE PER-USER STORE
// Streak states and invite collections live under deterministic per-user
// keys with no TTL. Malformed stored content degrades to a safe default
// (zero state, empty list) and is logged - it never raises to the caller.
// ══════════════════════════════════════════════════════════════════════════════

// UserStore is the Redis-backed durable per-user store.
type UserStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewUserStore creates a new UserStore.
func NewUserStore(client *redis.Client, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{client: client, logger: logger}
}

// get returns the raw value for a key, nil when absent.
func (s *UserStore) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// StreakStore adapts the UserStore to the streak persistence contract.
type StreakStore struct {
	store *UserStore
}

// NewStreakStore creates a streak store view over the user store.
func NewStreakStore(store *UserStore) *StreakStore {
	return &StreakStore{store: store}
}

// Load returns the user's streak state, zero-valued when absent or corrupt.
func (s *StreakStore) Load(ctx context.Context, userID string) (streak.State, error) {
	if userID == "" {
		return streak.State{}, ErrKeyEmpty
	}

	raw, err := s.store.get(ctx, PrefixStreak+userID)
	if err != nil {
		return streak.State{}, err
	}

	state, parseErr := streak.Parse(raw)
	if parseErr != nil {
		s.store.logger.Warn("corrupt streak state, using zero state", "user_id", userID, "error", parseErr)
	}
	return state, nil
}

// Save persists the user's streak state.
func (s *StreakStore) Save(ctx context.Context, userID string, state streak.State) error {
	if userID == "" {
		return ErrKeyEmpty
	}

	data, err := state.Marshal()
	if err != nil {
		return err
	}
	return s.store.client.Set(ctx, PrefixStreak+userID, data, 0).Err()
}

// InviteStore adapts the UserStore to the invite persistence contract.
type InviteStore struct {
	store *UserStore
}

// NewInviteStore creates an invite store view over the user store.
func NewInviteStore(store *UserStore) *InviteStore {
	return &InviteStore{store: store}
}

// Load returns the user's invite collection, empty when absent or corrupt.
func (s *InviteStore) Load(ctx context.Context, userID string) ([]invite.Invite, error) {
	if userID == "" {
		return nil, ErrKeyEmpty
	}

	raw, err := s.store.get(ctx, PrefixInvites+userID)
	if err != nil {
		return nil, err
	}

	invites, parseErr := invite.ParseList(raw)
	if parseErr != nil {
		s.store.logger.Warn("corrupt invite collection, using empty list", "user_id", userID, "error", parseErr)
		return nil, nil
	}
	return invites, nil
}

// Save replaces the user's invite collection.
func (s *InviteStore) Save(ctx context.Context, userID string, invites []invite.Invite) error {
	if userID == "" {
		return ErrKeyEmpty
	}

	data, err := invite.MarshalList(invites)
	if err != nil {
		return err
	}
	return s.store.client.Set(ctx, PrefixInvites+userID, data, 0).Err()
}
