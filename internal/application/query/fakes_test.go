package query

import (
	"context"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/course"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/invite"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/leaderboard"
)

// fakeLeaderboardRepo is a scriptable leaderboard.Repository.
type fakeLeaderboardRepo struct {
	profiles   map[string]leaderboard.RankProfile
	profileErr error

	greaterCounts map[string]int // keyed by institution ("" = global)
	countErr      error

	topEntries map[string][]leaderboard.Entry // keyed by institution
	topErrs    map[string]error

	topCalls []string
}

func newFakeLeaderboardRepo() *fakeLeaderboardRepo {
	return &fakeLeaderboardRepo{
		profiles:      map[string]leaderboard.RankProfile{},
		greaterCounts: map[string]int{},
		topEntries:    map[string][]leaderboard.Entry{},
		topErrs:       map[string]error{},
	}
}

func (f *fakeLeaderboardRepo) GetRankProfile(ctx context.Context, userID string) (leaderboard.RankProfile, error) {
	if f.profileErr != nil {
		return leaderboard.RankProfile{}, f.profileErr
	}
	return f.profiles[userID], nil
}

func (f *fakeLeaderboardRepo) CountWithGreaterXP(ctx context.Context, totalXP int, institution string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.greaterCounts[institution], nil
}

func (f *fakeLeaderboardRepo) TopByXP(ctx context.Context, institution string, limit int) ([]leaderboard.Entry, error) {
	f.topCalls = append(f.topCalls, institution)
	if err := f.topErrs[institution]; err != nil {
		return nil, err
	}
	entries := f.topEntries[institution]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// fakeInviteStore is an in-memory invite.Store.
type fakeInviteStore struct {
	invites map[string][]invite.Invite
	loadErr error
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{invites: map[string][]invite.Invite{}}
}

func (f *fakeInviteStore) Load(ctx context.Context, userID string) ([]invite.Invite, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.invites[userID], nil
}

func (f *fakeInviteStore) Save(ctx context.Context, userID string, invites []invite.Invite) error {
	f.invites[userID] = invites
	return nil
}

// fakeCourseRepo is a scriptable course.Repository that counts remote reads.
type fakeCourseRepo struct {
	catalog     []course.Course
	catalogErr  error
	progress    map[string][]course.ProgressEntry
	progressErr error

	catalogCalls  int
	progressCalls int

	// onProgress runs inside ListProgress, before the result is returned.
	onProgress func()
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{progress: map[string][]course.ProgressEntry{}}
}

func (f *fakeCourseRepo) ListCatalog(ctx context.Context) ([]course.Course, error) {
	f.catalogCalls++
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeCourseRepo) ListProgress(ctx context.Context, userID string) ([]course.ProgressEntry, error) {
	f.progressCalls++
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	if f.onProgress != nil {
		f.onProgress()
	}
	return f.progress[userID], nil
}

func (f *fakeCourseRepo) StartCourse(ctx context.Context, userID, courseID string) error {
	return nil
}

// fakeCatalogCache is an in-memory course.CatalogCache.
type fakeCatalogCache struct {
	courses []course.Course
	present bool
	sets    int
}

func (f *fakeCatalogCache) Get(ctx context.Context) ([]course.Course, bool, error) {
	return f.courses, f.present, nil
}

func (f *fakeCatalogCache) Set(ctx context.Context, courses []course.Course) error {
	f.courses = courses
	f.present = true
	f.sets++
	return nil
}

func (f *fakeCatalogCache) Invalidate(ctx context.Context) error {
	f.courses = nil
	f.present = false
	return nil
}

// fakeProgressCache is an in-memory course.ProgressCache.
type fakeProgressCache struct {
	entries map[string][]course.ProgressEntry
	sets    int
}

func newFakeProgressCache() *fakeProgressCache {
	return &fakeProgressCache{entries: map[string][]course.ProgressEntry{}}
}

func (f *fakeProgressCache) Get(ctx context.Context, userID string) ([]course.ProgressEntry, bool, error) {
	entries, ok := f.entries[userID]
	return entries, ok, nil
}

func (f *fakeProgressCache) Set(ctx context.Context, userID string, entries []course.ProgressEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.entries[userID] = entries
	f.sets++
	return nil
}

func (f *fakeProgressCache) Invalidate(ctx context.Context, userID string) error {
	delete(f.entries, userID)
	return nil
}
