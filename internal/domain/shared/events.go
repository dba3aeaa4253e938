package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of notification event.
type EventType string

// Notification event types. Each one represents something significant
// that happened in a learner's progression.
const (
	// EventCourseCompleted is emitted when a learner finishes a course.
	EventCourseCompleted EventType = "course_completed"

	// EventTeamInvite is emitted when a learner receives a team invitation.
	EventTeamInvite EventType = "team_invite"

	// EventStreakMilestone is emitted when a learner's daily streak reaches
	// a notable length or sets a new personal best.
	EventStreakMilestone EventType = "streak_milestone"
)

// Event is the base interface for all notification events.
// Every event delivered to subscribers carries a non-empty id and timestamp;
// the variant constructors below fill both, so a partial event is not
// representable outside this package.
type Event interface {
	// EventID returns the globally unique id of this event instance.
	EventID() string

	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the id of the user the event belongs to.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventPublisher publishes events to interested subscribers.
type EventPublisher interface {
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	UserId    string    `json:"user_id"`
}

// EventID implements Event interface.
func (e BaseEvent) EventID() string {
	return e.ID
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.UserId
}

// NewBaseEvent creates a new base event with a generated id and timestamp.
func NewBaseEvent(eventType EventType, userID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		UserId:    userID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Course Events
// ═══════════════════════════════════════════════════════════════════════════

// CourseCompletedEvent is emitted when a learner completes a course.
type CourseCompletedEvent struct {
	BaseEvent
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course_title"`
	XPAwarded   int    `json:"xp_awarded"`
}

// Payload implements Event interface.
func (e CourseCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":      e.UserId,
		"course_id":    e.CourseID,
		"course_title": e.CourseTitle,
		"xp_awarded":   e.XPAwarded,
	}
}

// NewCourseCompletedEvent creates a new CourseCompletedEvent.
func NewCourseCompletedEvent(userID, courseID, courseTitle string, xpAwarded int) CourseCompletedEvent {
	return CourseCompletedEvent{
		BaseEvent:   NewBaseEvent(EventCourseCompleted, userID),
		CourseID:    courseID,
		CourseTitle: courseTitle,
		XPAwarded:   xpAwarded,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Invite Events
// ═══════════════════════════════════════════════════════════════════════════

// TeamInviteEvent is emitted when a team invitation is created for a learner.
type TeamInviteEvent struct {
	BaseEvent
	InviteID string `json:"invite_id"`
	TeamName string `json:"team_name"`
	Inviter  string `json:"inviter"`
	Message  string `json:"message,omitempty"`
}

// Payload implements Event interface.
func (e TeamInviteEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":   e.UserId,
		"invite_id": e.InviteID,
		"team_name": e.TeamName,
		"inviter":   e.Inviter,
		"message":   e.Message,
	}
}

// NewTeamInviteEvent creates a new TeamInviteEvent.
func NewTeamInviteEvent(userID, inviteID, teamName, inviter, message string) TeamInviteEvent {
	return TeamInviteEvent{
		BaseEvent: NewBaseEvent(EventTeamInvite, userID),
		InviteID:  inviteID,
		TeamName:  teamName,
		Inviter:   inviter,
		Message:   message,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Events
// ═══════════════════════════════════════════════════════════════════════════

// StreakMilestoneEvent is emitted when a learner's streak crosses a milestone.
type StreakMilestoneEvent struct {
	BaseEvent
	StreakLength  int `json:"streak_length"`
	LongestStreak int `json:"longest_streak"`
}

// Payload implements Event interface.
func (e StreakMilestoneEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":        e.UserId,
		"streak_length":  e.StreakLength,
		"longest_streak": e.LongestStreak,
	}
}

// NewStreakMilestoneEvent creates a new StreakMilestoneEvent.
func NewStreakMilestoneEvent(userID string, streakLength, longestStreak int) StreakMilestoneEvent {
	return StreakMilestoneEvent{
		BaseEvent:     NewBaseEvent(EventStreakMilestone, userID),
		StreakLength:  streakLength,
		LongestStreak: longestStreak,
	}
}
