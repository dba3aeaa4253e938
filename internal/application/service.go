// Package application wires the progression use cases into a single facade
// for the embedding client. Commands mutate state, queries read it; both are
// exposed as fields so callers depend only on the handlers they use.
package application

import (
	"log/slog"

	"github.com/ecolearn-hub/ecolearn-progression/internal/application/command"
	"github.com/ecolearn-hub/ecolearn-progression/internal/application/query"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/course"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/invite"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/leaderboard"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/progression"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/streak"
)

// Dependencies carries everything the use cases need.
type Dependencies struct {
	Streaks       streak.Store
	Invites       invite.Store
	Profiles      progression.ProfileRepository
	Leaderboard   leaderboard.Repository
	Courses       course.Repository
	ProgressCache course.ProgressCache
	CatalogCache  course.CatalogCache
	Bus           shared.EventPublisher
	Logger        *slog.Logger
}

// Service is the progression subsystem's application facade.
type Service struct {
	// Commands
	RecordEngagement *command.RecordEngagementHandler
	AwardXP          *command.AwardXPHandler
	CreateInvite     *command.CreateInviteHandler
	SeedDemoInvites  *command.SeedDemoInvitesHandler
	MarkInvitesRead  *command.MarkInvitesNotifiedHandler
	StartCourse      *command.StartCourseHandler

	// Queries
	UserRank       *query.GetUserRankHandler
	Leaderboard    *query.GetLeaderboardHandler
	ListInvites    *query.ListInvitesHandler
	CourseProgress *query.CourseProgressHandler

	// Guard shared by the start-course mutation and the progress reads.
	ReadGuard *course.ReadGuard
}

// New wires all command and query handlers from the given dependencies.
func New(deps Dependencies) *Service {
	guard := &course.ReadGuard{}

	return &Service{
		RecordEngagement: command.NewRecordEngagementHandler(deps.Streaks, deps.Bus, deps.Logger),
		AwardXP:          command.NewAwardXPHandler(deps.Profiles, deps.Logger),
		CreateInvite:     command.NewCreateInviteHandler(deps.Invites, deps.Bus, deps.Logger),
		SeedDemoInvites:  command.NewSeedDemoInvitesHandler(deps.Invites, deps.Logger),
		MarkInvitesRead:  command.NewMarkInvitesNotifiedHandler(deps.Invites, deps.Logger),
		StartCourse:      command.NewStartCourseHandler(deps.Courses, deps.ProgressCache, guard, deps.Logger),

		UserRank:       query.NewGetUserRankHandler(deps.Leaderboard, deps.Logger),
		Leaderboard:    query.NewGetLeaderboardHandler(deps.Leaderboard, deps.Logger),
		ListInvites:    query.NewListInvitesHandler(deps.Invites, deps.Logger),
		CourseProgress: query.NewCourseProgressHandler(deps.Courses, deps.CatalogCache, deps.ProgressCache, guard, deps.Logger),

		ReadGuard: guard,
	}
}
