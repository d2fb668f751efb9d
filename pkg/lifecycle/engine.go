// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package lifecycle drives matches from creation to a terminal state. State
// transitions mutate the match under the registry lock and produce
// notifications as data; delivery, timers and persistence all happen after
// the critical section.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	pie "github.com/elliotchance/pie/v2"

	"github.com/inexmode/arena/pkg/common"
	"github.com/inexmode/arena/pkg/config"
	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/matchmaker"
	"github.com/inexmode/arena/pkg/metrics"
	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/notify"
	"github.com/inexmode/arena/pkg/queue"
	"github.com/inexmode/arena/pkg/rating"
	"github.com/inexmode/arena/pkg/rooms"
	"github.com/inexmode/arena/pkg/scheduler"
	"github.com/inexmode/arena/pkg/trust"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// Deps carries the collaborators of the Engine.
type Deps struct {
	Config     *config.Config
	Queues     *queue.Manager
	Matcher    matchmaker.Matcher
	Registry   *Registry
	Ratings    *rating.Store
	History    *rating.History
	Trust      *trust.Engine
	Scheduler  scheduler.Scheduler
	Dispatcher *notify.Dispatcher
	Rooms      rooms.Provisioner
	Metrics    metrics.ArenaMetrics
}

// Engine is the single entry point for every player action and timer firing.
type Engine struct {
	queues     *queue.Manager
	matcher    matchmaker.Matcher
	registry   *Registry
	ratings    *rating.Store
	history    *rating.History
	trust      *trust.Engine
	sched      scheduler.Scheduler
	dispatcher *notify.Dispatcher
	rooms      rooms.Provisioner
	metrics    metrics.ArenaMetrics

	readyTimeout     time.Duration
	confirmTimeout   time.Duration
	reminderInterval time.Duration
	synthetic        map[models.PlayerID]struct{}
}

// New creates an Engine from its collaborators. Zero timeout configuration
// falls back to the package defaults.
func New(deps Deps) *Engine {
	e := &Engine{
		queues:         deps.Queues,
		matcher:        deps.Matcher,
		registry:       deps.Registry,
		ratings:        deps.Ratings,
		history:        deps.History,
		trust:          deps.Trust,
		sched:          deps.Scheduler,
		dispatcher:     deps.Dispatcher,
		rooms:          deps.Rooms,
		metrics:        deps.Metrics,
		readyTimeout:   constants.ReadyTimeout,
		confirmTimeout: constants.ConfirmTimeout,
		synthetic:      make(map[models.PlayerID]struct{}),
	}

	if deps.Config != nil {
		if deps.Config.ReadyTimeoutSecond > 0 {
			e.readyTimeout = time.Duration(deps.Config.ReadyTimeoutSecond) * time.Second
		}
		if deps.Config.ConfirmTimeoutSecond > 0 {
			e.confirmTimeout = time.Duration(deps.Config.ConfirmTimeoutSecond) * time.Second
		}
		if deps.Config.QueueReminderSecond > 0 {
			e.reminderInterval = time.Duration(deps.Config.QueueReminderSecond) * time.Second
		}
		for _, id := range deps.Config.SyntheticPlayerIDs {
			e.synthetic[models.PlayerID(id)] = struct{}{}
		}
	}
	return e
}

func (e *Engine) isSynthetic(playerID models.PlayerID) bool {
	_, ok := e.synthetic[playerID]
	return ok
}

// dispatch delivers a notification batch and counts failed deliveries.
func (e *Engine) dispatch(scope *envelope.Scope, notifications []models.Notification) {
	delivered := e.dispatcher.Dispatch(scope, notifications)
	for failed := len(notifications) - delivered; failed > 0; failed-- {
		e.metrics.NotificationFailure()
	}
}

func reminderKey(playerID models.PlayerID) string {
	return "queue-reminder:" + string(playerID)
}

// JoinQueue puts the player into the mode's queue with a fresh rating
// snapshot. Banned players are rejected; joining the other mode moves the
// player instead of duplicating them.
func (e *Engine) JoinQueue(rootScope *envelope.Scope, playerID models.PlayerID, mode models.Mode) (models.QueueEntry, error) {
	scope := rootScope.NewChildScope("Engine.JoinQueue")
	defer scope.Finish()

	if !mode.Valid() {
		return models.QueueEntry{}, models.ErrInvalidTransition
	}
	if e.trust.BanStatus(scope, playerID) != models.BanNone {
		scope.Log.WithField("player", playerID).Info("enqueue rejected, player is banned")
		return models.QueueEntry{}, models.ErrBanned
	}

	entry, err := e.queues.Enqueue(playerID, e.ratings.Rating(playerID), mode)
	if err != nil {
		return models.QueueEntry{}, err
	}
	e.metrics.PlayersInQueue(string(mode), e.queues.Len(mode))

	if e.reminderInterval > 0 && !e.isSynthetic(playerID) {
		e.sched.Repeat(reminderKey(playerID), e.reminderInterval, func() {
			e.queueReminder(playerID)
		})
	}

	scope.SetAttributes(envelope.MatchModeTag, string(mode))
	scope.Log.WithField("player", playerID).Infof("queued for %s at rating %d", mode, entry.Rating)
	return entry, nil
}

// queueReminder runs on the reminder interval while a player waits.
func (e *Engine) queueReminder(playerID models.PlayerID) {
	scope := envelope.NewRootScope(context.Background(), "Engine.queueReminder", "")
	defer scope.Finish()

	if !e.queues.Queued(playerID) {
		e.sched.StopRepeat(reminderKey(playerID))
		return
	}
	e.dispatch(scope, []models.Notification{{
		PlayerID: playerID,
		Text:     "Still searching for opponents, hang tight.",
		Actions:  []models.Action{{Label: "Leave queue", Callback: "queue:leave"}},
	}})
}

// LeaveQueue removes the player from whichever queue holds them.
func (e *Engine) LeaveQueue(rootScope *envelope.Scope, playerID models.PlayerID) (models.Mode, error) {
	scope := rootScope.NewChildScope("Engine.LeaveQueue")
	defer scope.Finish()

	mode, ok := e.queues.Dequeue(playerID)
	if !ok {
		return "", models.ErrNotInQueue
	}
	e.sched.StopRepeat(reminderKey(playerID))
	e.metrics.PlayersInQueue(string(mode), e.queues.Len(mode))

	scope.Log.WithField("player", playerID).Infof("left the %s queue", mode)
	return mode, nil
}

// Tick scans every queue once and accepts proposals until none remain.
// Returns the number of matches created.
func (e *Engine) Tick(rootScope *envelope.Scope) int {
	scope := rootScope.NewChildScope("Engine.Tick")
	defer scope.Finish()
	started := Now()

	created := 0
	for _, mode := range models.Modes() {
		for {
			snapshot := e.queues.Snapshot(mode)
			proposal := e.matcher.FindMatch(scope, snapshot, mode)
			if proposal == nil {
				e.recordUnmatched(mode, snapshot)
				break
			}
			if !e.acceptProposal(scope, proposal) {
				break
			}
			created++
		}
		e.metrics.PlayersInQueue(string(mode), e.queues.Len(mode))
	}

	e.metrics.TickElapsedTimeMs(Now().Sub(started))
	return created
}

func (e *Engine) recordUnmatched(mode models.Mode, snapshot []models.QueueEntry) {
	if len(snapshot) == 0 {
		return
	}
	needed := 2
	if mode == models.ModeTeam {
		needed = constants.TeamMatchSize
	}
	if len(snapshot) < needed {
		e.metrics.AddUnmatchedReason(string(mode), constants.ReasonNotEnoughPlayers)
		return
	}
	e.metrics.AddUnmatchedReason(string(mode), constants.ReasonSpreadTooWide)
}

// acceptProposal consumes the proposal's players from the queue and creates
// the match. A player who left between snapshot and acceptance aborts the
// proposal; already dequeued players are put back at the tail.
func (e *Engine) acceptProposal(scope *envelope.Scope, proposal *matchmaker.Proposal) bool {
	dequeued := make([]models.QueueEntry, 0, len(proposal.Entries))
	for _, entry := range proposal.Entries {
		if _, ok := e.queues.Dequeue(entry.PlayerID); !ok {
			scope.Log.WithField("player", entry.PlayerID).Debug("proposal member left the queue, aborting")
			for _, d := range dequeued {
				_, _ = e.queues.Enqueue(d.PlayerID, d.Rating, d.Mode) //nolint:errcheck
			}
			return false
		}
		dequeued = append(dequeued, entry)
	}

	match := &models.Match{
		MatchID:       models.MatchID(common.GenerateUUID()),
		Mode:          proposal.Mode,
		Players:       proposal.Players,
		Teams:         proposal.Teams,
		State:         models.StatePendingReady,
		Ready:         make(map[models.PlayerID]struct{}),
		Confirmations: make(map[models.PlayerID]struct{}),
		CreatedAt:     Now(),
	}
	if proposal.Mode == models.ModeTeam {
		match.Roles = matchmaker.AssignRoles(proposal.Teams)
	}
	for _, p := range proposal.Players {
		e.sched.StopRepeat(reminderKey(p))
		if e.isSynthetic(p) {
			match.Ready[p] = struct{}{}
		}
	}

	e.registry.Insert(match)
	e.metrics.MatchCreated(string(match.Mode))

	scope.SetAttributes(envelope.MatchIDTag, string(match.MatchID))
	scope.SetAttributes(envelope.MatchModeTag, string(match.Mode))
	scope.Log.WithField(envelope.MatchIDTag, match.MatchID).
		Infof("match created for %d players in %s", len(match.Players), match.Mode)

	room, hasRoom := e.rooms.Acquire(scope, match.MatchID)
	e.armTimeout(match.MatchID, match.TimerGen, e.readyTimeout)
	e.dispatch(scope, matchFoundNotifications(match, proposal.Summaries, room, hasRoom))

	// An all-synthetic grouping never clicks anything.
	e.tryStart(scope, match.MatchID)
	return true
}

func (e *Engine) armTimeout(matchID models.MatchID, gen uint64, delay time.Duration) {
	e.sched.Arm(scheduler.TimerKey{MatchID: matchID, Gen: gen}, delay, func(key scheduler.TimerKey) {
		scope := envelope.NewRootScope(context.Background(), "Engine.HandleTimeout", "")
		defer scope.Finish()
		e.HandleTimeout(scope, key)
	})
}

// MarkReady records the player's ready click. The match starts when the last
// participant readies up. Clicking twice is a no-op.
func (e *Engine) MarkReady(rootScope *envelope.Scope, matchID models.MatchID, playerID models.PlayerID) error {
	scope := rootScope.NewChildScope("Engine.MarkReady")
	defer scope.Finish()

	var progress []models.Notification
	err := e.registry.WithMatch(matchID, func(m *models.Match) error {
		if !m.Contains(playerID) {
			return models.ErrMatchNotFound
		}
		if m.State != models.StatePendingReady {
			return models.ErrInvalidTransition
		}
		if _, ok := m.Ready[playerID]; ok {
			return nil
		}
		m.Ready[playerID] = struct{}{}
		progress = readyProgressNotifications(m, playerID)
		return nil
	})
	if err != nil {
		return err
	}

	e.dispatch(scope, progress)
	e.tryStart(scope, matchID)
	return nil
}

// tryStart advances the match to in-progress once everyone is ready.
func (e *Engine) tryStart(scope *envelope.Scope, matchID models.MatchID) {
	var started *models.Match
	_ = e.registry.WithMatch(matchID, func(m *models.Match) error { //nolint:errcheck
		if m.State != models.StatePendingReady || !m.AllReady() {
			return nil
		}
		e.sched.Cancel(scheduler.TimerKey{MatchID: matchID, Gen: m.TimerGen})
		m.TimerGen++
		m.State = models.StateInProgress
		started = m.Copy()
		return nil
	})
	if started == nil {
		return
	}

	scope.Log.WithField(envelope.MatchIDTag, matchID).Info("all players ready, match started")
	e.dispatch(scope, startedNotifications(started))
}

// ReportResult records the claimed winner. For duels either participant may
// report; for team matches only the reporting side's leader or captain may.
// The opposing side is asked to confirm within the confirm timeout.
func (e *Engine) ReportResult(rootScope *envelope.Scope, matchID models.MatchID, reporter models.PlayerID, winner models.Winner) error {
	scope := rootScope.NewChildScope("Engine.ReportResult")
	defer scope.Finish()

	var gen uint64
	var confirmers []models.PlayerID
	var reported *models.Match
	err := e.registry.WithMatch(matchID, func(m *models.Match) error {
		if !m.Contains(reporter) {
			return models.ErrMatchNotFound
		}
		if m.State != models.StateInProgress {
			return models.ErrInvalidTransition
		}
		if err := validateReport(m, reporter, winner); err != nil {
			return err
		}

		w := winner
		m.State = models.StateResultReported
		m.ReportedWinner = &w
		m.ReportedBy = reporter
		m.Disputed = false
		m.Confirmations = map[models.PlayerID]struct{}{reporter: {}}
		m.TimerGen++
		gen = m.TimerGen
		confirmers = confirmersOf(m)
		reported = m.Copy()
		return nil
	})
	if err != nil {
		return err
	}

	scope.SetAttributes(envelope.MatchIDTag, string(matchID))
	scope.Log.WithField(envelope.MatchIDTag, matchID).
		Infof("result reported by %s, awaiting confirmation", reporter)

	e.armTimeout(matchID, gen, e.confirmTimeout)
	e.dispatch(scope, reportedNotifications(reported, confirmers))

	if e.allSynthetic(confirmers) {
		return e.finalizeReported(scope, matchID, models.ReasonAutoCounterpart)
	}
	return nil
}

func (e *Engine) allSynthetic(players []models.PlayerID) bool {
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !e.isSynthetic(p) {
			return false
		}
	}
	return true
}

// validateReport checks the reporter's authority and the winner's shape.
func validateReport(m *models.Match, reporter models.PlayerID, winner models.Winner) error {
	switch m.Mode {
	case models.ModeDuel:
		if winner.Player == "" || !m.Contains(winner.Player) {
			return models.ErrInvalidTransition
		}
	case models.ModeTeam:
		if winner.Side != models.SideBlue && winner.Side != models.SideRed {
			return models.ErrInvalidTransition
		}
		side, ok := m.SideOf(reporter)
		if !ok || m.Roles == nil {
			return models.ErrInvalidTransition
		}
		roles := m.Roles.ForSide(side)
		if reporter != roles.Leader && reporter != roles.Captain {
			return models.ErrInvalidTransition
		}
	}
	return nil
}

// confirmersOf lists the players whose confirmation finalizes the reported
// result: the opponent for duels, the opposing leader and captain for teams.
func confirmersOf(m *models.Match) []models.PlayerID {
	if m.Mode == models.ModeDuel {
		return pie.Filter(m.Players, func(p models.PlayerID) bool {
			return p != m.ReportedBy
		})
	}

	side, ok := m.SideOf(m.ReportedBy)
	if !ok || m.Roles == nil {
		return nil
	}
	roles := m.Roles.ForSide(side.Opposite())
	confirmers := []models.PlayerID{roles.Leader}
	if roles.Captain != roles.Leader {
		confirmers = append(confirmers, roles.Captain)
	}
	return confirmers
}

func isConfirmer(m *models.Match, playerID models.PlayerID) bool {
	for _, p := range confirmersOf(m) {
		if p == playerID {
			return true
		}
	}
	return false
}

// Confirm accepts the reported result and finalizes the match. Racing
// confirmations and timers settle the match exactly once.
func (e *Engine) Confirm(rootScope *envelope.Scope, matchID models.MatchID, playerID models.PlayerID) error {
	scope := rootScope.NewChildScope("Engine.Confirm")
	defer scope.Finish()

	err := e.registry.WithMatch(matchID, func(m *models.Match) error {
		if !m.Contains(playerID) {
			return models.ErrMatchNotFound
		}
		if m.State != models.StateResultReported {
			return models.ErrInvalidTransition
		}
		if !isConfirmer(m, playerID) {
			return models.ErrInvalidTransition
		}
		m.Confirmations[playerID] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}

	return e.finalizeReported(scope, matchID, models.ReasonConfirmed)
}

// Reject disputes the reported result. The match ends with no rating
// changes; an operator resolves it out of band.
func (e *Engine) Reject(rootScope *envelope.Scope, matchID models.MatchID, playerID models.PlayerID) error {
	scope := rootScope.NewChildScope("Engine.Reject")
	defer scope.Finish()

	err := e.registry.WithMatch(matchID, func(m *models.Match) error {
		if !m.Contains(playerID) {
			return models.ErrMatchNotFound
		}
		if m.State != models.StateResultReported {
			return models.ErrInvalidTransition
		}
		if !isConfirmer(m, playerID) {
			return models.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return err
	}

	match, ok := e.registry.PopIf(matchID, func(m *models.Match) bool {
		return m.State == models.StateResultReported
	})
	if !ok {
		return nil
	}
	e.sched.Cancel(scheduler.TimerKey{MatchID: matchID, Gen: match.TimerGen})
	e.disputed(scope, match, playerID)
	return nil
}

// Cancel lets a participant abort a match that is still waiting for ready
// clicks. The canceller takes an infraction; everyone else returns to the
// queue they came from.
func (e *Engine) Cancel(rootScope *envelope.Scope, matchID models.MatchID, playerID models.PlayerID) error {
	scope := rootScope.NewChildScope("Engine.Cancel")
	defer scope.Finish()

	err := e.registry.WithMatch(matchID, func(m *models.Match) error {
		if !m.Contains(playerID) {
			return models.ErrMatchNotFound
		}
		if m.State != models.StatePendingReady {
			return models.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return err
	}

	match, ok := e.registry.PopIf(matchID, func(m *models.Match) bool {
		return m.State == models.StatePendingReady
	})
	if !ok {
		return nil
	}
	e.sched.Cancel(scheduler.TimerKey{MatchID: matchID, Gen: match.TimerGen})
	e.cancelled(scope, match, playerID)
	return nil
}

// HandleTimeout resolves a fired timer. A key whose generation no longer
// matches the match lost a race with a player action and is ignored.
func (e *Engine) HandleTimeout(rootScope *envelope.Scope, key scheduler.TimerKey) {
	scope := rootScope.NewChildScope("Engine.HandleTimeout")
	defer scope.Finish()

	match, ok := e.registry.PopIf(key.MatchID, func(m *models.Match) bool {
		if m.TimerGen != key.Gen {
			return false
		}
		return m.State == models.StatePendingReady || m.State == models.StateResultReported
	})
	if !ok {
		scope.Log.WithField(envelope.MatchIDTag, key.MatchID).Debug("stale timeout, ignoring")
		return
	}

	switch match.State {
	case models.StatePendingReady:
		e.readyExpired(scope, match)
	case models.StateResultReported:
		e.settle(scope, match, models.ReasonTimeout)
	}
}

// finalizeReported pops the match while it still awaits confirmation and
// settles it. Losing the pop race means someone else already settled it.
func (e *Engine) finalizeReported(scope *envelope.Scope, matchID models.MatchID, reason models.FinalizeReason) error {
	match, ok := e.registry.PopIf(matchID, func(m *models.Match) bool {
		return m.State == models.StateResultReported
	})
	if !ok {
		return nil
	}
	e.sched.Cancel(scheduler.TimerKey{MatchID: matchID, Gen: match.TimerGen})
	e.settle(scope, match, reason)
	return nil
}

// Report files a behavior report from one player against another and
// notifies the target when their trust score moved.
func (e *Engine) Report(rootScope *envelope.Scope, reporter, target models.PlayerID) (models.ReportOutcome, error) {
	scope := rootScope.NewChildScope("Engine.Report")
	defer scope.Finish()

	outcome, change, err := e.trust.ReportPlayer(scope, reporter, target)
	if err != nil {
		return "", err
	}

	switch outcome {
	case models.ReportDuplicate:
		e.dispatch(scope, []models.Notification{{
			PlayerID: reporter,
			Text:     "You already reported this player in the last 24 hours.",
		}})
	case models.ReportAccepted:
		notifications := []models.Notification{{
			PlayerID: reporter,
			Text:     "Report received, thank you.",
		}}
		if change != nil {
			notifications = append(notifications, trustNotifications([]*trust.TrustChange{change})...)
		}
		e.dispatch(scope, notifications)
	}
	return outcome, nil
}

// Match returns a copy of a live match.
func (e *Engine) Match(matchID models.MatchID) (*models.Match, bool) {
	return e.registry.Get(matchID)
}

// Matches returns copies of every live match.
func (e *Engine) Matches() []*models.Match {
	return e.registry.List()
}

// QueueLen returns the number of players waiting in the mode's queue.
func (e *Engine) QueueLen(mode models.Mode) int {
	return e.queues.Len(mode)
}

func ratingLine(delta, current int) string {
	if delta >= 0 {
		return fmt.Sprintf("+%d (now %d)", delta, current)
	}
	return fmt.Sprintf("%d (now %d)", delta, current)
}
