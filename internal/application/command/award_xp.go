package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/progression"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD XP COMMAND
// Grants XP (and optionally eco-coins) against the remote profile store and
// derives the new level. The write is a single update; a failed fetch or
// write leaves the profile untouched.
// ══════════════════════════════════════════════════════════════════════════════

// AwardXPCommand contains the data to award XP to a learner.
type AwardXPCommand struct {
	// UserID is the learner's id.
	UserID string

	// Amount is the XP to award. Negative amounts are clamped to zero.
	Amount int

	// Reason is an optional label for the award (e.g. "course_completed").
	Reason string

	// AwardCoins grants one eco-coin per ten XP, rounded up.
	AwardCoins bool
}

// Validate validates the command.
func (c AwardXPCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("award_xp: user_id is required")
	}
	return nil
}

// AwardXPResult contains the totals after a successful award.
type AwardXPResult struct {
	// TotalXP is the profile's XP after the award.
	TotalXP int

	// EcoCoins is the coin balance after the award.
	EcoCoins int

	// Level is the level derived from the new total.
	Level progression.LevelInfo

	// Applied indicates whether any state change was made. A zero-amount
	// award succeeds without reading or writing the profile.
	Applied bool
}

// AwardXPHandler handles the AwardXPCommand.
type AwardXPHandler struct {
	profiles progression.ProfileRepository
	logger   *slog.Logger
}

// NewAwardXPHandler creates a new AwardXPHandler.
func NewAwardXPHandler(profiles progression.ProfileRepository, logger *slog.Logger) *AwardXPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AwardXPHandler{profiles: profiles, logger: logger}
}

// Handle executes the award. On failure the caller must not assume any XP
// was granted.
func (h *AwardXPHandler) Handle(ctx context.Context, cmd AwardXPCommand) (*AwardXPResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("progression", "AwardXP", shared.ErrValidation, "invalid command", err)
	}

	amount := cmd.Amount
	if amount < 0 {
		amount = 0
	}
	if amount == 0 {
		return &AwardXPResult{}, nil
	}

	profile, err := h.profiles.GetXP(ctx, cmd.UserID)
	if err != nil {
		return nil, shared.WrapError("progression", "AwardXP", shared.ErrExternalService, "fetch profile", err)
	}

	newTotal := profile.TotalXP + amount
	coinsGain := 0
	if cmd.AwardCoins {
		coinsGain = progression.CoinsForXP(amount)
	}
	newCoins := profile.EcoCoins + coinsGain
	level := progression.CalculateLevel(newTotal)

	if err := h.profiles.UpdateXP(ctx, cmd.UserID, newTotal, newCoins, level.Level, time.Now().UTC()); err != nil {
		return nil, shared.WrapError("progression", "AwardXP", shared.ErrExternalService, "update profile", err)
	}

	h.logger.Debug("xp awarded",
		"user_id", cmd.UserID,
		"amount", amount,
		"reason", cmd.Reason,
		"new_total", newTotal,
		"level", level.Level,
	)

	return &AwardXPResult{
		TotalXP:  newTotal,
		EcoCoins: newCoins,
		Level:    level,
		Applied:  true,
	}, nil
}
