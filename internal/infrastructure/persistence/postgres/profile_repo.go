package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/leaderboard"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/progression"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// Implements both the progression profile contract (XP awards) and the
// leaderboard repository contract (rank and top-N queries) over the shared
// profiles table.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements progression.ProfileRepository and
// leaderboard.Repository for PostgreSQL.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// XP OPERATIONS
// ─────────────────────────────────────────────────────────────────────────────

// GetXP returns the profile's current XP fields.
func (r *ProfileRepository) GetXP(ctx context.Context, userID string) (progression.ProfileXP, error) {
	var p progression.ProfileXP

	err := r.conn.QueryRow(ctx, `
		SELECT id, total_xp, eco_coins, level
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&p.UserID, &p.TotalXP, &p.EcoCoins, &p.Level)

	if IsNoRows(err) {
		return progression.ProfileXP{}, shared.NewDomainError("profile", "GetXP", shared.ErrNotFound, "profile not found")
	}
	if err != nil {
		return progression.ProfileXP{}, fmt.Errorf("failed to get profile xp: %w", err)
	}

	return p, nil
}

// UpdateXP writes the XP fields back in a single update.
func (r *ProfileRepository) UpdateXP(ctx context.Context, userID string, totalXP, ecoCoins, level int, updatedAt time.Time) error {
	tag, err := r.conn.pool.Exec(ctx, `
		UPDATE profiles
		SET total_xp = $2, eco_coins = $3, level = $4, updated_at = $5
		WHERE id = $1
	`, userID, totalXP, ecoCoins, level, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update profile xp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("profile", "UpdateXP", shared.ErrNotFound, "profile not found")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RANK AND LEADERBOARD OPERATIONS
// ─────────────────────────────────────────────────────────────────────────────

// GetRankProfile returns the user's own total XP and institution.
func (r *ProfileRepository) GetRankProfile(ctx context.Context, userID string) (leaderboard.RankProfile, error) {
	var p leaderboard.RankProfile
	var institution *string

	err := r.conn.QueryRow(ctx, `
		SELECT total_xp, institution
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&p.TotalXP, &institution)

	if IsNoRows(err) {
		return leaderboard.RankProfile{}, shared.NewDomainError("profile", "GetRankProfile", shared.ErrNotFound, "profile not found")
	}
	if err != nil {
		return leaderboard.RankProfile{}, fmt.Errorf("failed to get rank profile: %w", err)
	}

	if institution != nil {
		p.Institution = *institution
	}
	return p, nil
}

// CountWithGreaterXP counts profiles with strictly greater total XP,
// optionally constrained to one institution.
func (r *ProfileRepository) CountWithGreaterXP(ctx context.Context, totalXP int, institution string) (int, error) {
	var count int
	var err error

	if institution != "" {
		err = r.conn.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM profiles
			WHERE total_xp > $1 AND institution = $2
		`, totalXP, institution).Scan(&count)
	} else {
		err = r.conn.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM profiles
			WHERE total_xp > $1
		`, totalXP).Scan(&count)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// TopByXP returns up to limit entries ordered by total XP descending.
func (r *ProfileRepository) TopByXP(ctx context.Context, institution string, limit int) ([]leaderboard.Entry, error) {
	query := `
		SELECT id, display_name, first_name, last_name, total_xp, level, eco_coins, institution
		FROM profiles
	`
	args := []any{}
	if institution != "" {
		query += ` WHERE institution = $1`
		args = append(args, institution)
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY total_xp DESC LIMIT $%d`, len(args))

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]leaderboard.Entry, 0, limit)
	for rows.Next() {
		var e leaderboard.Entry
		var displayName, firstName, lastName, inst *string

		if err := rows.Scan(&e.ID, &displayName, &firstName, &lastName, &e.TotalXP, &e.Level, &e.EcoCoins, &inst); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}

		if displayName != nil {
			e.DisplayName = *displayName
		}
		if firstName != nil {
			e.FirstName = *firstName
		}
		if lastName != nil {
			e.LastName = *lastName
		}
		if inst != nil {
			e.Institution = *inst
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard rows: %w", err)
	}

	return entries, nil
}
