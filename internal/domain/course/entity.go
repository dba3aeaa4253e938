// Package course implements course catalog and per-user progress types for
// the optimistic start-course mutation and its read-side view.
package course

import "time"

// Course is a catalog entry, organization-wide and not user-specific.
type Course struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	XPReward int    `json:"xp_reward"`
}

// ProgressEntry is the per-(user, course) association tracked by the remote
// store. This subsystem triggers the start transition and keeps an optimistic
// cache copy; the remote store owns the authoritative value.
type ProgressEntry struct {
	UserID    string     `json:"user_id"`
	CourseID  string     `json:"course_id"`
	Progress  float64    `json:"progress"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}
