// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package lifecycle

import (
	pie "github.com/elliotchance/pie/v2"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/trust"
)

// settle applies ratings, trust effects and history to a match that ended
// with a winner. The match is already popped; settle owns it exclusively.
func (e *Engine) settle(scope *envelope.Scope, match *models.Match, reason models.FinalizeReason) {
	match.State = models.StateFinalized
	winners, losers := outcomeLists(match)

	deltas := e.ratings.Update(scope, winners, losers)
	changes := e.applyTrustEffects(scope, match, winners, losers, reason)

	e.history.Append(scope, models.MatchOutcome{
		MatchID:    match.MatchID,
		Mode:       match.Mode,
		Players:    match.Players,
		Winners:    winners,
		Losers:     losers,
		Reason:     reason,
		Deltas:     deltas,
		FinishedAt: Now(),
	})
	e.releaseMatch(scope, match, reason)

	scope.SetAttributes(envelope.ReasonTag, string(reason))
	scope.Log.WithField(envelope.MatchIDTag, match.MatchID).
		Infof("match finalized (%s)", reason)

	notifications := e.settledNotifications(match, winners, losers, deltas, reason)
	notifications = append(notifications, trustNotifications(changes)...)
	e.dispatch(scope, notifications)
}

// applyTrustEffects translates the finalize reason into clean-game credits
// and infractions. Synthetic players carry no trust state.
func (e *Engine) applyTrustEffects(scope *envelope.Scope, match *models.Match, winners, losers []models.PlayerID, reason models.FinalizeReason) []*trust.TrustChange {
	var changes []*trust.TrustChange
	credit := func(playerID models.PlayerID) {
		if e.isSynthetic(playerID) {
			return
		}
		if change := e.trust.RegisterCleanGame(scope, playerID); change != nil {
			changes = append(changes, change)
		}
	}

	switch reason {
	case models.ReasonConfirmed:
		for _, p := range winners {
			credit(p)
		}
		for _, p := range losers {
			if _, confirmed := match.Confirmations[p]; confirmed {
				credit(p)
			}
		}
	case models.ReasonTimeout:
		for _, p := range winners {
			credit(p)
		}
		for _, p := range losers {
			if e.isSynthetic(p) {
				continue
			}
			if _, confirmed := match.Confirmations[p]; confirmed {
				credit(p)
				continue
			}
			result, change := e.trust.RegisterInfraction(scope, p, trust.KindNoConfirm)
			if change != nil {
				changes = append(changes, change)
			}
			e.dispatch(scope, []models.Notification{infractionNotification(result)})
		}
	case models.ReasonAutoCounterpart:
		for _, p := range match.Players {
			credit(p)
		}
	}
	return changes
}

// readyExpired ends a match whose ready window ran out. Players who never
// clicked take an infraction; players who were ready return to the queue.
func (e *Engine) readyExpired(scope *envelope.Scope, match *models.Match) {
	match.State = models.StateCancelled

	var notifications []models.Notification
	for _, p := range match.Players {
		if e.isSynthetic(p) {
			continue
		}
		if _, ready := match.Ready[p]; ready {
			continue
		}
		result, change := e.trust.RegisterInfraction(scope, p, trust.KindNotReady)
		notifications = append(notifications, infractionNotification(result))
		if change != nil {
			notifications = append(notifications, trustNotifications([]*trust.TrustChange{change})...)
		}
	}

	ready := pie.Filter(match.Players, func(p models.PlayerID) bool {
		_, ok := match.Ready[p]
		return ok
	})
	notifications = append(notifications, e.requeue(scope, ready, match.Mode)...)

	e.appendUnplayed(scope, match, models.ReasonReadyTimeout)
	e.releaseMatch(scope, match, models.ReasonReadyTimeout)

	scope.Log.WithField(envelope.MatchIDTag, match.MatchID).
		Info("ready window expired, match cancelled")
	e.dispatch(scope, notifications)
}

// cancelled ends a pending match on a participant's explicit cancel.
func (e *Engine) cancelled(scope *envelope.Scope, match *models.Match, canceller models.PlayerID) {
	match.State = models.StateCancelled

	var notifications []models.Notification
	if !e.isSynthetic(canceller) {
		result, change := e.trust.RegisterInfraction(scope, canceller, trust.KindNotReady)
		notifications = append(notifications, infractionNotification(result))
		if change != nil {
			notifications = append(notifications, trustNotifications([]*trust.TrustChange{change})...)
		}
	}

	others := pie.Filter(match.Players, func(p models.PlayerID) bool {
		return p != canceller
	})
	notifications = append(notifications, e.requeue(scope, others, match.Mode)...)

	e.appendUnplayed(scope, match, models.ReasonCancelled)
	e.releaseMatch(scope, match, models.ReasonCancelled)

	scope.Log.WithField(envelope.MatchIDTag, match.MatchID).
		Infof("match cancelled by %s", canceller)
	e.dispatch(scope, notifications)
}

// disputed ends a reported match on a rejection. No ratings move; the
// record is kept for an operator to resolve out of band.
func (e *Engine) disputed(scope *envelope.Scope, match *models.Match, rejecter models.PlayerID) {
	match.Disputed = true
	match.State = models.StateDisputed

	e.appendUnplayed(scope, match, models.ReasonDisputed)
	e.releaseMatch(scope, match, models.ReasonDisputed)

	scope.Log.WithField(envelope.MatchIDTag, match.MatchID).
		Warnf("result disputed by %s", rejecter)

	notifications := make([]models.Notification, 0, len(match.Players))
	for _, p := range match.Players {
		if e.isSynthetic(p) {
			continue
		}
		notifications = append(notifications, models.Notification{
			PlayerID: p,
			Text:     "The reported result was disputed. No rating changes were applied; an operator will follow up.",
		})
	}
	e.dispatch(scope, notifications)
}

// appendUnplayed records a terminal outcome that moved no ratings.
func (e *Engine) appendUnplayed(scope *envelope.Scope, match *models.Match, reason models.FinalizeReason) {
	e.history.Append(scope, models.MatchOutcome{
		MatchID:    match.MatchID,
		Mode:       match.Mode,
		Players:    match.Players,
		Reason:     reason,
		FinishedAt: Now(),
	})
}

// releaseMatch returns shared resources and records the terminal metrics.
func (e *Engine) releaseMatch(scope *envelope.Scope, match *models.Match, reason models.FinalizeReason) {
	e.rooms.Release(scope, match.MatchID)
	e.metrics.MatchFinalized(string(match.Mode), string(reason))
	e.metrics.MatchDurationSeconds(string(match.Mode), Now().Sub(match.CreatedAt))
}

// requeue puts players back into the queue they were drafted from.
func (e *Engine) requeue(scope *envelope.Scope, players []models.PlayerID, mode models.Mode) []models.Notification {
	var notifications []models.Notification
	for _, p := range players {
		if e.isSynthetic(p) {
			continue
		}
		if _, err := e.queues.Enqueue(p, e.ratings.Rating(p), mode); err != nil {
			scope.Log.WithField("player", p).Debugf("unable to requeue: %s", err)
			continue
		}
		if e.reminderInterval > 0 {
			playerID := p
			e.sched.Repeat(reminderKey(playerID), e.reminderInterval, func() {
				e.queueReminder(playerID)
			})
		}
		notifications = append(notifications, models.Notification{
			PlayerID: p,
			Text:     "The match did not start. You are back in the queue.",
			Actions:  []models.Action{{Label: "Leave queue", Callback: "queue:leave"}},
		})
	}
	return notifications
}

// outcomeLists resolves the reported winner into winner and loser lists.
func outcomeLists(match *models.Match) (winners, losers []models.PlayerID) {
	if match.ReportedWinner == nil {
		return nil, nil
	}

	if match.Mode == models.ModeDuel {
		winners = []models.PlayerID{match.ReportedWinner.Player}
		losers = pie.Filter(match.Players, func(p models.PlayerID) bool {
			return p != match.ReportedWinner.Player
		})
		return winners, losers
	}

	winners = match.Teams[match.ReportedWinner.Side]
	losers = match.Teams[match.ReportedWinner.Side.Opposite()]
	return winners, losers
}
