package course

import "context"

// Repository is the remote store contract for the course catalog and the
// start-course transition.
type Repository interface {
	// ListCatalog returns the full course catalog.
	ListCatalog(ctx context.Context) ([]Course, error)

	// ListProgress returns the user's course progress entries.
	ListProgress(ctx context.Context, userID string) ([]ProgressEntry, error)

	// StartCourse records the start transition for (userID, courseID).
	StartCourse(ctx context.Context, userID, courseID string) error
}

// ProgressCache is the per-user reactive cache of course progress entries.
// The optimistic mutation coordinator snapshots and restores it around
// remote start-course calls.
type ProgressCache interface {
	// Get returns the cached collection and whether a cached value exists.
	Get(ctx context.Context, userID string) ([]ProgressEntry, bool, error)

	// Set replaces the cached collection.
	Set(ctx context.Context, userID string, entries []ProgressEntry) error

	// Invalidate drops the cached collection so the next read hits the
	// remote store.
	Invalidate(ctx context.Context, userID string) error
}

// CatalogCache is the long-lived, organization-wide course catalog cache.
type CatalogCache interface {
	Get(ctx context.Context) ([]Course, bool, error)
	Set(ctx context.Context, courses []Course) error
	Invalidate(ctx context.Context) error
}
