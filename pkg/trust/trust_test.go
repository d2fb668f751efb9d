// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package trust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/storage"
	"github.com/inexmode/arena/pkg/testsetup"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// setNow pins the engine clock; tests move it forward with the returned
// function.
func setNow(t *testing.T, at time.Time) func(time.Time) {
	t.Helper()
	prev := Now
	current := at
	Now = func() time.Time { return current }
	t.Cleanup(func() { Now = prev })
	return func(next time.Time) { current = next }
}

func newEngine(t *testing.T, backend storage.Store) *Engine {
	t.Helper()
	e, err := NewEngine(testsetup.NewTestScope(), backend)
	require.NoError(t, err)
	return e
}

func TestTrustProfileDefaults(t *testing.T) {
	setNow(t, testTime)
	e := newEngine(t, storage.NewMemoryStore())

	profile := e.TrustProfile("unknown")
	assert.Equal(t, 100, profile.TrustScore)
	assert.Zero(t, profile.Reports)
}

func TestCleanGamesRaiseAndClampTrust(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	// Score is already at the cap, so clean games alone change nothing.
	change := e.RegisterCleanGame(scope, "player1")
	assert.Nil(t, change)
	assert.Equal(t, 100, e.TrustProfile("player1").TrustScore)
	assert.Equal(t, 1, e.TrustProfile("player1").ConfirmedMatches)
}

func TestInfractionLowersTrust(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	result, change := e.RegisterInfraction(scope, "player1", KindAFK)

	assert.Equal(t, models.OutcomeWarn, result.Outcome)
	assert.Equal(t, 1, result.Warnings)
	assert.Zero(t, result.Strikes)
	require.NotNil(t, change)
	assert.Equal(t, 100, change.Previous)
	assert.Equal(t, 96, change.Current)
}

func TestCleanStreakResetsWarnings(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	e.RegisterInfraction(scope, "player1", KindNotReady)
	e.RegisterInfraction(scope, "player1", KindNotReady)
	assert.Equal(t, 2, e.Infractions("player1").Warnings)
	assert.Equal(t, 1, e.Infractions("player1").Strikes)

	e.RegisterCleanGame(scope, "player1")
	assert.Equal(t, 2, e.Infractions("player1").Warnings)

	e.RegisterCleanGame(scope, "player1")
	record := e.Infractions("player1")
	assert.Zero(t, record.Warnings)
	assert.Zero(t, record.Strikes)
	assert.Zero(t, record.CleanGamesStreak)
}

func TestBanLadderEscalates(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	var result InfractionResult
	for i := 0; i < 3; i++ {
		result, _ = e.RegisterInfraction(scope, "player1", KindNoConfirm)
	}
	assert.Equal(t, models.OutcomeBan, result.Outcome)
	assert.Equal(t, testTime.Add(constants.BanAtThreeWarnings).Unix(), result.BannedUntil)

	result, _ = e.RegisterInfraction(scope, "player1", KindNoConfirm)
	assert.Equal(t, testTime.Add(constants.BanAtFourWarnings).Unix(), result.BannedUntil)

	result, _ = e.RegisterInfraction(scope, "player1", KindNoConfirm)
	assert.Equal(t, testTime.Add(constants.BanAtFiveWarnings).Unix(), result.BannedUntil)

	// From the sixth warning the ban runs to the end of the UTC day.
	result, _ = e.RegisterInfraction(scope, "player1", KindNoConfirm)
	endOfDay := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, endOfDay.Unix(), result.BannedUntil)
}

func TestBanExpiresLazily(t *testing.T) {
	advance := setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	duration := time.Hour
	e.Ban(scope, "player1", &duration, "manual")
	assert.Equal(t, models.BanTemporary, e.BanStatus(scope, "player1"))

	advance(testTime.Add(2 * time.Hour))
	assert.Equal(t, models.BanNone, e.BanStatus(scope, "player1"))

	_, stillBanned := e.BanInfo("player1")
	assert.False(t, stillBanned)
}

func TestOperatorBanPermanent(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	ban := e.Ban(scope, "player1", nil, "cheating")
	assert.Equal(t, models.BanUntilForever, ban.Until)
	assert.Equal(t, models.BanPermanent, e.BanStatus(scope, "player1"))

	assert.True(t, e.Unban(scope, "player1"))
	assert.Equal(t, models.BanNone, e.BanStatus(scope, "player1"))
	assert.False(t, e.Unban(scope, "player1"))
}

func TestReportPlayer(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	outcome, change, err := e.ReportPlayer(scope, "reporter", "target")
	require.NoError(t, err)
	assert.Equal(t, models.ReportAccepted, outcome)
	require.NotNil(t, change)
	assert.Equal(t, 98, change.Current)
	assert.Equal(t, 1, e.TrustProfile("target").Reports)
}

func TestReportRateLimit(t *testing.T) {
	advance := setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	outcome, _, err := e.ReportPlayer(scope, "reporter", "target")
	require.NoError(t, err)
	assert.Equal(t, models.ReportAccepted, outcome)

	outcome, change, err := e.ReportPlayer(scope, "reporter", "target")
	require.NoError(t, err)
	assert.Equal(t, models.ReportDuplicate, outcome)
	assert.Nil(t, change)
	assert.Equal(t, 1, e.TrustProfile("target").Reports)

	// A different reporter is not limited.
	outcome, _, err = e.ReportPlayer(scope, "other", "target")
	require.NoError(t, err)
	assert.Equal(t, models.ReportAccepted, outcome)

	// The window rolls, not resets at midnight.
	advance(testTime.Add(25 * time.Hour))
	outcome, _, err = e.ReportPlayer(scope, "reporter", "target")
	require.NoError(t, err)
	assert.Equal(t, models.ReportAccepted, outcome)
}

func TestSelfReportRejected(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	e := newEngine(t, storage.NewMemoryStore())

	_, _, err := e.ReportPlayer(scope, "player1", "player1")
	assert.ErrorIs(t, err, models.ErrSelfReport)
}

func TestStatePersistsAcrossReload(t *testing.T) {
	setNow(t, testTime)
	scope := testsetup.NewTestScope()
	backend := storage.NewMemoryStore()

	first := newEngine(t, backend)
	first.RegisterInfraction(scope, "player1", KindAFK)
	duration := time.Hour
	first.Ban(scope, "player2", &duration, "manual")

	reloaded := newEngine(t, backend)
	assert.Equal(t, 1, reloaded.Infractions("player1").Warnings)
	assert.Equal(t, 96, reloaded.TrustProfile("player1").TrustScore)
	assert.Equal(t, models.BanTemporary, reloaded.BanStatus(scope, "player2"))
}

func TestCorruptRowsAreDropped(t *testing.T) {
	setNow(t, testTime)
	backend := storage.NewMemoryStore()
	require.NoError(t, backend.Save(testsetup.NewTestScope().Ctx, constants.NamespaceTrust, map[string]string{
		"bad": "{broken",
	}))

	e := newEngine(t, backend)
	assert.Equal(t, 1, e.Corrupted)
	assert.Equal(t, 100, e.TrustProfile("bad").TrustScore)
}
