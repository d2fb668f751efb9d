// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package trust

import (
	"time"

	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

// Infraction kinds accepted by RegisterInfraction.
const (
	KindAFK       = "afk"
	KindNoConfirm = "no_confirm"
	KindNotReady  = "not_ready"
)

// InfractionResult summarizes one RegisterInfraction call for the caller's
// notification text.
type InfractionResult struct {
	PlayerID    models.PlayerID
	Kind        string
	Warnings    int
	Strikes     int
	Outcome     models.InfractionOutcome
	BannedUntil int64
}

// RegisterCleanGame credits one completed game without incident. Two clean
// games in a row wipe accumulated warnings and strikes. Returns the trust
// movement, or nil when the score did not change.
func (e *Engine) RegisterCleanGame(scope *envelope.Scope, playerID models.PlayerID) *TrustChange {
	e.mu.Lock()
	record := e.infractionRecord(playerID)
	record.CleanGamesStreak++
	if record.CleanGamesStreak >= constants.CleanGamesToReset && record.Warnings > 0 {
		scope.Log.WithField("player", playerID).
			Infof("clean streak reached %d, resetting %d warnings", record.CleanGamesStreak, record.Warnings)
		record.Warnings = 0
		record.Strikes = 0
		record.CleanGamesStreak = 0
		record.LastResetAt = Now().Unix()
	}

	profile := e.trustProfile(playerID)
	profile.ConfirmedMatches++
	change := recompute(profile, "clean game")
	e.mu.Unlock()

	e.saveInfractions(scope)
	e.saveTrust(scope)
	return change
}

// RegisterInfraction records one infraction of the given kind and walks the
// escalation ladder. The third warning starts issuing temporary bans that
// lengthen with each further warning; from the sixth on the ban runs to the
// end of the current UTC day. Returns the result and the trust movement.
func (e *Engine) RegisterInfraction(scope *envelope.Scope, playerID models.PlayerID, kind string) (InfractionResult, *TrustChange) {
	now := Now()

	e.mu.Lock()
	record := e.infractionRecord(playerID)
	record.Warnings++
	record.Strikes = record.Warnings / 2
	record.CleanGamesStreak = 0

	result := InfractionResult{
		PlayerID: playerID,
		Kind:     kind,
		Warnings: record.Warnings,
		Strikes:  record.Strikes,
		Outcome:  models.OutcomeWarn,
	}

	if duration, banned := banDuration(record.Warnings, now); banned {
		until := now.Add(duration).Unix()
		e.bans[playerID] = &models.BanRecord{
			PlayerID: playerID,
			Until:    until,
			Reason:   kind,
		}
		result.Outcome = models.OutcomeBan
		result.BannedUntil = until
		scope.Log.WithField("player", playerID).
			Warnf("warning %d crossed the ban threshold, banned for %s", record.Warnings, duration)
	}

	profile := e.trustProfile(playerID)
	profile.AFKCount++
	change := recompute(profile, "infraction: "+kind)
	e.mu.Unlock()

	e.saveInfractions(scope)
	e.saveTrust(scope)
	if result.Outcome == models.OutcomeBan {
		e.saveBans(scope)
	}
	return result, change
}

// banDuration maps a warning count onto the escalation ladder. Counts below
// three carry no ban.
func banDuration(warnings int, now time.Time) (time.Duration, bool) {
	switch {
	case warnings < 3:
		return 0, false
	case warnings == 3:
		return constants.BanAtThreeWarnings, true
	case warnings == 4:
		return constants.BanAtFourWarnings, true
	case warnings == 5:
		return constants.BanAtFiveWarnings, true
	default:
		return untilEndOfUTCDay(now), true
	}
}

func untilEndOfUTCDay(now time.Time) time.Duration {
	utc := now.UTC()
	end := time.Date(utc.Year(), utc.Month(), utc.Day(), 23, 59, 59, 0, time.UTC)
	if end.Before(utc) {
		return 0
	}
	return end.Sub(utc)
}

// BanStatus reports whether the player is currently banned. Expired bans are
// cleared lazily on the first check past their deadline.
func (e *Engine) BanStatus(scope *envelope.Scope, playerID models.PlayerID) models.BanStatus {
	e.mu.Lock()
	ban, ok := e.bans[playerID]
	if !ok {
		e.mu.Unlock()
		return models.BanNone
	}
	if ban.Until == models.BanUntilForever {
		e.mu.Unlock()
		return models.BanPermanent
	}
	if ban.Until <= Now().Unix() {
		delete(e.bans, playerID)
		e.mu.Unlock()
		scope.Log.WithField("player", playerID).Info("ban expired, clearing")
		e.saveBans(scope)
		return models.BanNone
	}
	e.mu.Unlock()
	return models.BanTemporary
}

// BanInfo returns a copy of the player's ban record, if any. No lazy expiry
// here; use BanStatus for enforcement.
func (e *Engine) BanInfo(playerID models.PlayerID) (models.BanRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ban, ok := e.bans[playerID]; ok {
		return *ban, true
	}
	return models.BanRecord{}, false
}

// Ban imposes an operator ban. A nil duration means permanent.
func (e *Engine) Ban(scope *envelope.Scope, playerID models.PlayerID, duration *time.Duration, reason string) models.BanRecord {
	until := models.BanUntilForever
	if duration != nil {
		until = Now().Add(*duration).Unix()
	}

	e.mu.Lock()
	ban := &models.BanRecord{
		PlayerID: playerID,
		Until:    until,
		Reason:   reason,
	}
	e.bans[playerID] = ban
	e.mu.Unlock()

	scope.Log.WithField("player", playerID).Warnf("operator ban issued: %s", reason)
	e.saveBans(scope)
	return *ban
}

// Unban lifts any ban on the player. Returns false when none existed.
func (e *Engine) Unban(scope *envelope.Scope, playerID models.PlayerID) bool {
	e.mu.Lock()
	_, ok := e.bans[playerID]
	if ok {
		delete(e.bans, playerID)
	}
	e.mu.Unlock()

	if ok {
		scope.Log.WithField("player", playerID).Info("ban lifted")
		e.saveBans(scope)
	}
	return ok
}
