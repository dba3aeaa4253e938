package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/leaderboard"
)

func TestGetLeaderboard_Global(t *testing.T) {
	repo := newFakeLeaderboardRepo()
	repo.topEntries[""] = []leaderboard.Entry{
		{ID: "a", DisplayName: "Top Learner", TotalXP: 5000},
		{ID: "b", DisplayName: "Runner Up", TotalXP: 4000},
	}
	handler := NewGetLeaderboardHandler(repo, nil)

	res := handler.Handle(context.Background(), GetLeaderboardQuery{Scope: leaderboard.ScopeGlobal})

	assert.NoError(t, res.Err)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, leaderboard.ScopeGlobal, res.ScopeUsed)
	assert.Equal(t, []string{""}, repo.topCalls)
}

func TestGetLeaderboard_SchoolScope(t *testing.T) {
	repo := newFakeLeaderboardRepo()
	repo.topEntries["Greenwood High"] = []leaderboard.Entry{{ID: "a", TotalXP: 900}}
	handler := NewGetLeaderboardHandler(repo, nil)

	res := handler.Handle(context.Background(), GetLeaderboardQuery{
		Scope:       leaderboard.ScopeSchool,
		Institution: "Greenwood High",
	})

	assert.NoError(t, res.Err)
	assert.Len(t, res.Data, 1)
	assert.Equal(t, leaderboard.ScopeSchool, res.ScopeUsed)
}

func TestGetLeaderboard_SchoolFailureFallsBackToGlobal(t *testing.T) {
	repo := newFakeLeaderboardRepo()
	repo.topErrs["Greenwood High"] = errors.New("school view broken")
	repo.topEntries[""] = []leaderboard.Entry{{ID: "a", TotalXP: 5000}}
	handler := NewGetLeaderboardHandler(repo, nil)

	res := handler.Handle(context.Background(), GetLeaderboardQuery{
		Scope:       leaderboard.ScopeSchool,
		Institution: "Greenwood High",
	})

	assert.NoError(t, res.Err, "school failure is swallowed by the fallback")
	assert.Len(t, res.Data, 1)
	assert.Equal(t, leaderboard.ScopeGlobal, res.ScopeUsed)
	assert.Equal(t, []string{"Greenwood High", ""}, repo.topCalls)
}

func TestGetLeaderboard_SchoolWithoutInstitutionGoesGlobal(t *testing.T) {
	repo := newFakeLeaderboardRepo()
	repo.topEntries[""] = []leaderboard.Entry{{ID: "a"}}
	handler := NewGetLeaderboardHandler(repo, nil)

	res := handler.Handle(context.Background(), GetLeaderboardQuery{Scope: leaderboard.ScopeSchool})

	assert.Equal(t, leaderboard.ScopeGlobal, res.ScopeUsed)
	assert.Equal(t, []string{""}, repo.topCalls)
}

func TestGetLeaderboard_BothQueriesFailing(t *testing.T) {
	repo := newFakeLeaderboardRepo()
	repo.topErrs["Greenwood High"] = errors.New("school broken")
	repo.topErrs[""] = errors.New("global broken")
	handler := NewGetLeaderboardHandler(repo, nil)

	res := handler.Handle(context.Background(), GetLeaderboardQuery{
		Scope:       leaderboard.ScopeSchool,
		Institution: "Greenwood High",
	})

	assert.Error(t, res.Err)
	assert.Empty(t, res.Data)
	assert.Equal(t, leaderboard.ScopeGlobal, res.ScopeUsed)
}

func TestGetLeaderboard_LimitDefaultsAndCaps(t *testing.T) {
	repo := newFakeLeaderboardRepo()
	entries := make([]leaderboard.Entry, 150)
	for i := range entries {
		entries[i] = leaderboard.Entry{ID: string(rune('a' + i%26)), TotalXP: 150 - i}
	}
	repo.topEntries[""] = entries
	handler := NewGetLeaderboardHandler(repo, nil)

	res := handler.Handle(context.Background(), GetLeaderboardQuery{Scope: leaderboard.ScopeGlobal})
	assert.Len(t, res.Data, 100, "default limit")

	res = handler.Handle(context.Background(), GetLeaderboardQuery{Scope: leaderboard.ScopeGlobal, Limit: 10})
	assert.Len(t, res.Data, 10)
}

func TestGetLeaderboard_NeverPanics(t *testing.T) {
	handler := NewGetLeaderboardHandler(nil, nil)

	var res GetLeaderboardResult
	assert.NotPanics(t, func() {
		res = handler.Handle(context.Background(), GetLeaderboardQuery{Scope: leaderboard.ScopeGlobal})
	})
	assert.Error(t, res.Err)
	assert.Empty(t, res.Data)
}
