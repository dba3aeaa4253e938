// Package streak implements daily engagement streak tracking.
// A streak is the count of consecutive calendar days with at least one
// recorded engagement; milestones trigger one-time notifications.
package streak

import (
	"encoding/json"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
	"github.com/ecolearn-hub/ecolearn-progression/pkg/timeutil"
)

// milestoneDays are streak lengths considered notable.
var milestoneDays = map[int]bool{
	3:  true,
	5:  true,
	7:  true,
	10: true,
	14: true,
	21: true,
	30: true,
}

// IsMilestoneDay reports whether the given streak length is in the fixed
// milestone set.
func IsMilestoneDay(length int) bool {
	return milestoneDays[length]
}

// State is the durable per-user streak record. The zero value is a valid
// fresh state for a user with no recorded engagement.
type State struct {
	// CurrentStreak is the count of consecutive active calendar days.
	CurrentStreak int `json:"current_streak"`

	// LongestStreak is the personal best; always >= CurrentStreak.
	LongestStreak int `json:"longest_streak"`

	// LastActiveDate is the last calendar date with recorded engagement.
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`

	// LastMilestoneNotifiedAt is the date the last milestone notification
	// was issued.
	LastMilestoneNotifiedAt *time.Time `json:"last_milestone_notified_at,omitempty"`
}

// AdvanceResult is the outcome of applying a daily engagement to a state.
type AdvanceResult struct {
	// State is the updated streak state.
	State State

	// MilestoneReached indicates a milestone notification should be issued.
	MilestoneReached bool

	// Changed indicates the state differs from the input and must be persisted.
	Changed bool
}

// Advance applies one daily engagement at the given time. Pure: the receiver
// is not mutated.
//
// Same-calendar-day calls are no-ops. A gap of exactly one day extends the
// streak; a gap of two or more days resets it to 1 while preserving the
// longest streak. A non-positive gap (clock skew, backdated timestamps)
// leaves the streak length unchanged but still counts as activity today.
func (s State) Advance(now time.Time) AdvanceResult {
	today := timeutil.StartOfDay(now)

	if s.LastActiveDate != nil && timeutil.SameDay(*s.LastActiveDate, today) {
		return AdvanceResult{State: s}
	}

	var nextStreak int
	switch {
	case s.LastActiveDate == nil:
		nextStreak = 1
	default:
		switch diff := timeutil.DaysBetween(*s.LastActiveDate, today); {
		case diff == 1:
			nextStreak = s.CurrentStreak + 1
		case diff <= 0:
			nextStreak = s.CurrentStreak
		default:
			nextStreak = 1
		}
	}

	nextLongest := s.LongestStreak
	if nextStreak > nextLongest {
		nextLongest = nextStreak
	}

	milestone := nextStreak >= 2 && nextStreak > s.CurrentStreak &&
		(IsMilestoneDay(nextStreak) || nextStreak > s.LongestStreak)

	next := State{
		CurrentStreak:           nextStreak,
		LongestStreak:           nextLongest,
		LastActiveDate:          &today,
		LastMilestoneNotifiedAt: s.LastMilestoneNotifiedAt,
	}
	if milestone {
		next.LastMilestoneNotifiedAt = &today
	}

	return AdvanceResult{State: next, MilestoneReached: milestone, Changed: true}
}

// Parse deserializes a stored streak state. Malformed content degrades to the
// zero state rather than failing; the returned error reports the corruption
// for logging.
func Parse(raw []byte) (State, error) {
	if len(raw) == 0 {
		return State{}, nil
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, shared.WrapError("streak", "Parse", shared.ErrStorageCorrupt, "malformed streak state", err)
	}
	if s.CurrentStreak < 0 || s.LongestStreak < s.CurrentStreak {
		return State{}, shared.NewDomainError("streak", "Parse", shared.ErrStorageCorrupt, "inconsistent streak counters")
	}
	return s, nil
}

// Marshal serializes the state for durable storage.
func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}
