// Package leaderboard implements scoped ranked queries over learner profiles.
// Rankings are computed over either the whole population (global scope) or a
// shared institution (school scope).
package leaderboard

import (
	"fmt"
	"net/url"
	"strings"
)

// Scope is the population a ranking is computed over.
type Scope string

const (
	// ScopeGlobal ranks across all learners.
	ScopeGlobal Scope = "global"

	// ScopeSchool ranks within a shared institution.
	ScopeSchool Scope = "school"
)

// Valid reports whether the scope is known.
func (s Scope) Valid() bool {
	return s == ScopeGlobal || s == ScopeSchool
}

// Entry is a read-only projection of profile fields returned by rank queries.
type Entry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	TotalXP     int    `json:"total_xp"`
	Level       int    `json:"level"`
	EcoCoins    int    `json:"eco_coins"`
	Institution string `json:"institution,omitempty"`
}

// defaultAvatarLabel is used when a display name is absent.
const defaultAvatarLabel = "Eco Learner"

// AvatarURL produces a deterministic placeholder avatar URL derived from a
// display name. Pure string formatting; identical names always yield
// identical URLs.
func AvatarURL(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = defaultAvatarLabel
	}
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", url.QueryEscape(name))
}
