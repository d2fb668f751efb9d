// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrustRecomputeClamps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		reports   int
		afk       int
		confirmed int
		expected  int
	}{
		{"fresh", 0, 0, 0, 100},
		{"one report", 1, 0, 0, 98},
		{"one afk", 0, 1, 0, 96},
		{"confirmed cannot exceed cap", 0, 0, 10, 100},
		{"mixed", 2, 1, 3, 100},
		{"heavily reported floors at zero", 40, 10, 0, 0},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			p := TrustProfile{Reports: c.reports, AFKCount: c.afk, ConfirmedMatches: c.confirmed}
			assert.Equal(t, c.expected, p.Recompute())
			assert.Equal(t, c.expected, p.TrustScore)
		})
	}
}

func TestModeHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ModeTeam, ModeDuel.Other())
	assert.Equal(t, ModeDuel, ModeTeam.Other())
	assert.True(t, ModeDuel.Valid())
	assert.False(t, Mode("3v3").Valid())
	assert.Equal(t, []Mode{ModeDuel, ModeTeam}, Modes())
}

func TestSideOpposite(t *testing.T) {
	t.Parallel()
	assert.Equal(t, SideRed, SideBlue.Opposite())
	assert.Equal(t, SideBlue, SideRed.Opposite())
}

func TestMatchStateTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StateFinalized.Terminal())
	assert.True(t, StateCancelled.Terminal())
	assert.True(t, StateDisputed.Terminal())
	assert.False(t, StatePendingReady.Terminal())
	assert.False(t, StateInProgress.Terminal())
	assert.False(t, StateResultReported.Terminal())
}

func newTeamMatch() *Match {
	return &Match{
		MatchID: "m1",
		Mode:    ModeTeam,
		Players: []PlayerID{"a", "b", "c", "d"},
		Teams: map[Side][]PlayerID{
			SideBlue: {"a", "b"},
			SideRed:  {"c", "d"},
		},
		State:         StatePendingReady,
		Ready:         map[PlayerID]struct{}{"a": {}},
		Confirmations: map[PlayerID]struct{}{},
	}
}

func TestMatchHelpers(t *testing.T) {
	t.Parallel()
	m := newTeamMatch()

	assert.True(t, m.Contains("a"))
	assert.False(t, m.Contains("z"))
	assert.False(t, m.AllReady())

	side, ok := m.SideOf("c")
	require.True(t, ok)
	assert.Equal(t, SideRed, side)

	_, ok = m.SideOf("z")
	assert.False(t, ok)

	for _, p := range m.Players {
		m.Ready[p] = struct{}{}
	}
	assert.True(t, m.AllReady())
}

func TestMatchCopyIsDeep(t *testing.T) {
	t.Parallel()
	m := newTeamMatch()

	copied := m.Copy()
	copied.Ready["b"] = struct{}{}
	copied.Teams[SideBlue][0] = "mutated"
	copied.State = StateInProgress

	assert.NotContains(t, m.Ready, PlayerID("b"))
	assert.Equal(t, PlayerID("a"), m.Teams[SideBlue][0])
	assert.Equal(t, StatePendingReady, m.State)
}

func TestErrorCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 520101, ErrorCode(ErrAlreadyQueued))
	assert.Equal(t, 520105, ErrorCode(ErrBanned))
	assert.Equal(t, 20002, ErrorCode(assert.AnError))
}

func TestIsBenign(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBenign(ErrMatchNotFound))
	assert.True(t, IsBenign(ErrInvalidTransition))
	assert.False(t, IsBenign(ErrBanned))
	assert.False(t, IsBenign(assert.AnError))
}
