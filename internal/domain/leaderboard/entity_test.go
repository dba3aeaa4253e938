package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeValid(t *testing.T) {
	assert.True(t, ScopeGlobal.Valid())
	assert.True(t, ScopeSchool.Valid())
	assert.False(t, Scope("country").Valid())
	assert.False(t, Scope("").Valid())
}

func TestAvatarURL_Deterministic(t *testing.T) {
	a := AvatarURL("Maya Chen")
	b := AvatarURL("Maya Chen")

	assert.Equal(t, a, b)
	assert.Equal(t, "https://api.dicebear.com/7.x/initials/svg?seed=Maya+Chen", a)
}

func TestAvatarURL_EscapesSeed(t *testing.T) {
	url := AvatarURL("A&B <Team>")
	assert.Equal(t, "https://api.dicebear.com/7.x/initials/svg?seed=A%26B+%3CTeam%3E", url)
}

func TestAvatarURL_EmptyNameUsesDefault(t *testing.T) {
	assert.Equal(t, AvatarURL("Eco Learner"), AvatarURL(""))
	assert.Equal(t, AvatarURL("Eco Learner"), AvatarURL("   "))
}
