package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// ListCatalog returns the full course catalog.
func (r *CourseRepository) ListCatalog(ctx context.Context) ([]course.Course, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, title, xp_reward
		FROM courses
		ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []course.Course
	for rows.Next() {
		var c course.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.XPReward); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate course rows: %w", err)
	}

	return courses, nil
}

// ListProgress returns the user's course progress entries.
func (r *CourseRepository) ListProgress(ctx context.Context, userID string) ([]course.ProgressEntry, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT user_id, course_id, progress, started_at
		FROM course_progress
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course progress: %w", err)
	}
	defer rows.Close()

	var entries []course.ProgressEntry
	for rows.Next() {
		var e course.ProgressEntry
		if err := rows.Scan(&e.UserID, &e.CourseID, &e.Progress, &e.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress rows: %w", err)
	}

	return entries, nil
}

// StartCourse records the start transition for (userID, courseID). Repeated
// starts leave the original started_at untouched.
func (r *CourseRepository) StartCourse(ctx context.Context, userID, courseID string) error {
	err := r.conn.Exec(ctx, `
		INSERT INTO course_progress (user_id, course_id, progress, started_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id, course_id)
		DO UPDATE SET progress = GREATEST(course_progress.progress, 1)
	`, userID, courseID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to start course: %w", err)
	}
	return nil
}
