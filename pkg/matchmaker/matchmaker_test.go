// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/testsetup"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return at }
	t.Cleanup(func() { Now = prev })
}

func entry(id string, rating int, joined time.Time, mode models.Mode) models.QueueEntry {
	return models.QueueEntry{
		PlayerID: models.PlayerID(id),
		Rating:   rating,
		JoinedAt: joined,
		Mode:     mode,
	}
}

func duelEntries(ratings ...int) []models.QueueEntry {
	out := make([]models.QueueEntry, 0, len(ratings))
	for i, r := range ratings {
		out = append(out, entry(fmt.Sprintf("player%d", i+1), r, baseTime, models.ModeDuel))
	}
	return out
}

func teamEntries(ratings ...int) []models.QueueEntry {
	out := make([]models.QueueEntry, 0, len(ratings))
	for i, r := range ratings {
		out = append(out, entry(fmt.Sprintf("player%d", i+1), r, baseTime, models.ModeTeam))
	}
	return out
}

func TestToleranceWidensWithWait(t *testing.T) {
	t.Parallel()

	cases := []struct {
		wait     time.Duration
		expected int
	}{
		{0, 100},
		{29 * time.Second, 100},
		{30 * time.Second, 150},
		{59 * time.Second, 150},
		{60 * time.Second, 200},
		{2 * time.Minute, 300},
		{10 * time.Minute, 300},
		{-5 * time.Second, 100},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, tolerance(c.wait), "wait %s", c.wait)
	}
}

func TestFindDuelPairPrefersQueueOrder(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime)

	// player1 vs player2 is out of tolerance, player1 vs player3 fits.
	snapshot := duelEntries(1000, 1400, 1050)
	proposal := findDuelPair(g.TestScope, snapshot)

	g.Expect(proposal).ToNot(gomega.BeNil())
	g.Expect(proposal.Players).To(gomega.Equal([]models.PlayerID{"player1", "player3"}))
	g.Expect(proposal.Mode).To(gomega.Equal(models.ModeDuel))
}

func TestFindDuelPairUsesWidenedTolerance(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime.Add(90*time.Second))

	// 250 apart, waiting 90s widens tolerance to 250.
	snapshot := duelEntries(1000, 1250)
	proposal := findDuelPair(g.TestScope, snapshot)

	g.Expect(proposal).ToNot(gomega.BeNil())
	g.Expect(proposal.Players).To(gomega.Equal([]models.PlayerID{"player1", "player2"}))
}

func TestFindDuelPairNoEligiblePair(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime)

	snapshot := duelEntries(1000, 1151)
	g.Expect(findDuelPair(g.TestScope, snapshot)).To(gomega.BeNil())
}

func TestFindDuelPairDeterministic(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime)

	snapshot := duelEntries(1000, 1040, 1080, 990)
	first := findDuelPair(g.TestScope, snapshot)
	second := findDuelPair(g.TestScope, snapshot)

	g.Expect(first).ToNot(gomega.BeNil())
	g.Expect(second.Players).To(gomega.Equal(first.Players))
}

func TestFindTeamWindowNeedsTenPlayers(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime)

	snapshot := teamEntries(1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000)
	g.Expect(findTeamWindow(g.TestScope, snapshot)).To(gomega.BeNil())
}

func TestFindTeamWindowSplitsInQueueOrder(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime)

	snapshot := teamEntries(1000, 1005, 1010, 1015, 1020, 1025, 1030, 1035, 1040, 1045)
	proposal := findTeamWindow(g.TestScope, snapshot)

	g.Expect(proposal).ToNot(gomega.BeNil())
	g.Expect(proposal.Teams[models.SideBlue]).To(gomega.Equal([]models.PlayerID{
		"player1", "player2", "player3", "player4", "player5",
	}))
	g.Expect(proposal.Teams[models.SideRed]).To(gomega.Equal([]models.PlayerID{
		"player6", "player7", "player8", "player9", "player10",
	}))
	g.Expect(proposal.Summaries[models.SideBlue].Sum).To(gomega.Equal(5050.0))
	g.Expect(proposal.Summaries[models.SideBlue].Mean).To(gomega.Equal(1010.0))
	g.Expect(proposal.Summaries[models.SideRed].Sum).To(gomega.Equal(5175.0))
}

func TestFindTeamWindowSkipsOutlierPrefix(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime)

	// The window starting at player1 spans 1000 points; the one starting at
	// player2 fits.
	snapshot := teamEntries(2000, 1000, 1005, 1010, 1015, 1020, 1025, 1030, 1035, 1040, 1045)
	proposal := findTeamWindow(g.TestScope, snapshot)

	g.Expect(proposal).ToNot(gomega.BeNil())
	g.Expect(proposal.Players[0]).To(gomega.Equal(models.PlayerID("player2")))
	g.Expect(proposal.Players).To(gomega.HaveLen(10))
}

func TestFindTeamWindowSpreadTooWide(t *testing.T) {
	g := testsetup.WithGomega(t)
	freezeNow(t, baseTime)

	snapshot := teamEntries(1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1500)
	g.Expect(findTeamWindow(g.TestScope, snapshot)).To(gomega.BeNil())
}

func TestAssignTeamRolesDrawsCaptainFromRest(t *testing.T) {
	t.Parallel()

	team := []models.PlayerID{"a", "b", "c", "d", "e"}
	r := rand.New(rand.NewSource(7)) //nolint:gosec

	for i := 0; i < 50; i++ {
		roles := assignTeamRoles(r, team)
		assert.Contains(t, team, roles.Leader)
		assert.Contains(t, team, roles.Captain)
		assert.NotEqual(t, roles.Leader, roles.Captain)
	}
}

func TestAssignTeamRolesFallsBackToLeader(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7)) //nolint:gosec
	roles := assignTeamRoles(r, []models.PlayerID{"solo"})

	assert.Equal(t, models.PlayerID("solo"), roles.Leader)
	assert.Equal(t, models.PlayerID("solo"), roles.Captain)

	empty := assignTeamRoles(r, nil)
	assert.Empty(t, empty.Leader)
}

func TestFindMatchUnknownMode(t *testing.T) {
	g := testsetup.WithGomega(t)

	matcher := New()
	g.Expect(matcher.FindMatch(g.TestScope, duelEntries(1000, 1000), models.Mode("3v3"))).To(gomega.BeNil())
}
