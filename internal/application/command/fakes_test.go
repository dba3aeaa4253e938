package command

import (
	"context"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/course"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/invite"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/progression"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/streak"
)

// fakeStreakStore is an in-memory streak.Store.
type fakeStreakStore struct {
	states  map[string]streak.State
	loadErr error
	saveErr error
	saves   int
}

func newFakeStreakStore() *fakeStreakStore {
	return &fakeStreakStore{states: map[string]streak.State{}}
}

func (f *fakeStreakStore) Load(ctx context.Context, userID string) (streak.State, error) {
	if f.loadErr != nil {
		return streak.State{}, f.loadErr
	}
	return f.states[userID], nil
}

func (f *fakeStreakStore) Save(ctx context.Context, userID string, state streak.State) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.states[userID] = state
	f.saves++
	return nil
}

// fakeInviteStore is an in-memory invite.Store.
type fakeInviteStore struct {
	invites map[string][]invite.Invite
	loadErr error
	saveErr error
	saves   int
	onLoad  func() // runs inside Load, after the read is taken
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{invites: map[string][]invite.Invite{}}
}

func (f *fakeInviteStore) Load(ctx context.Context, userID string) ([]invite.Invite, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	loaded := f.invites[userID]
	if f.onLoad != nil {
		f.onLoad()
	}
	return loaded, nil
}

func (f *fakeInviteStore) Save(ctx context.Context, userID string, invites []invite.Invite) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.invites[userID] = invites
	f.saves++
	return nil
}

// fakeBus records published events.
type fakeBus struct {
	events []shared.Event
	err    error
}

func (f *fakeBus) Publish(event shared.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

// fakeProfileRepo is an in-memory progression.ProfileRepository.
type fakeProfileRepo struct {
	profiles  map[string]progression.ProfileXP
	getErr    error
	updateErr error
	updates   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]progression.ProfileXP{}}
}

func (f *fakeProfileRepo) GetXP(ctx context.Context, userID string) (progression.ProfileXP, error) {
	if f.getErr != nil {
		return progression.ProfileXP{}, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return progression.ProfileXP{}, shared.NewDomainError("profile", "GetXP", shared.ErrNotFound, "profile not found")
	}
	return p, nil
}

func (f *fakeProfileRepo) UpdateXP(ctx context.Context, userID string, totalXP, ecoCoins, level int, updatedAt time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.profiles[userID] = progression.ProfileXP{UserID: userID, TotalXP: totalXP, EcoCoins: ecoCoins, Level: level}
	f.updates++
	return nil
}

// fakeCourseRepo is an in-memory course.Repository.
type fakeCourseRepo struct {
	catalog  []course.Course
	progress map[string][]course.ProgressEntry
	startErr error
	started  []string                      // "userID/courseID"
	onStart  func(userID, courseID string) // runs inside StartCourse, before settling
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{progress: map[string][]course.ProgressEntry{}}
}

func (f *fakeCourseRepo) ListCatalog(ctx context.Context) ([]course.Course, error) {
	return f.catalog, nil
}

func (f *fakeCourseRepo) ListProgress(ctx context.Context, userID string) ([]course.ProgressEntry, error) {
	return f.progress[userID], nil
}

func (f *fakeCourseRepo) StartCourse(ctx context.Context, userID, courseID string) error {
	if f.onStart != nil {
		f.onStart(userID, courseID)
	}
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, userID+"/"+courseID)
	return nil
}

// fakeProgressCache is an in-memory course.ProgressCache that records the
// operation sequence.
type fakeProgressCache struct {
	entries map[string][]course.ProgressEntry
	getErr  error
	ops     []string
	sets    [][]course.ProgressEntry
}

func newFakeProgressCache() *fakeProgressCache {
	return &fakeProgressCache{entries: map[string][]course.ProgressEntry{}}
}

func (f *fakeProgressCache) Get(ctx context.Context, userID string) ([]course.ProgressEntry, bool, error) {
	f.ops = append(f.ops, "get")
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	entries, ok := f.entries[userID]
	return entries, ok, nil
}

func (f *fakeProgressCache) Set(ctx context.Context, userID string, entries []course.ProgressEntry) error {
	f.ops = append(f.ops, "set")
	f.sets = append(f.sets, entries)
	f.entries[userID] = entries
	return nil
}

func (f *fakeProgressCache) Invalidate(ctx context.Context, userID string) error {
	f.ops = append(f.ops, "invalidate")
	delete(f.entries, userID)
	return nil
}
