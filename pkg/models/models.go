// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package models holds the domain data model shared by the queue, matchmaker,
// lifecycle and store packages.
package models

import (
	"time"

	"github.com/mitchellh/copystructure"
	"github.com/sirupsen/logrus"

	"github.com/inexmode/arena/pkg/mathutil"
)

// PlayerID identifies a player across queues, matches and profiles.
type PlayerID string

// MatchID is an opaque unique token identifying one in-flight match.
type MatchID string

// Mode is the match size a player queues for.
type Mode string

const (
	ModeDuel Mode = "1v1"
	ModeTeam Mode = "5v5"
)

// Modes lists all queue modes in a fixed order. Cross-queue operations take
// locks in this order.
func Modes() []Mode {
	return []Mode{ModeDuel, ModeTeam}
}

// Other returns the opposite queue mode.
func (m Mode) Other() Mode {
	if m == ModeDuel {
		return ModeTeam
	}
	return ModeDuel
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDuel || m == ModeTeam
}

// Side tags one of the two teams of a 5v5 match.
type Side string

const (
	SideBlue Side = "blue"
	SideRed  Side = "red"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBlue {
		return SideRed
	}
	return SideBlue
}

// TeamRoles holds the assigned leader and captain of one side.
type TeamRoles struct {
	Leader  PlayerID `json:"leader"`
	Captain PlayerID `json:"captain"`
}

// RoleAssignment holds the per-side roles of a 5v5 match.
type RoleAssignment struct {
	Blue TeamRoles `json:"blue"`
	Red  TeamRoles `json:"red"`
}

// ForSide returns the roles of the given side.
func (r RoleAssignment) ForSide(side Side) TeamRoles {
	if side == SideBlue {
		return r.Blue
	}
	return r.Red
}

// MatchState is the lifecycle state of a match.
type MatchState string

const (
	StatePendingReady   MatchState = "PENDING_READY"
	StateInProgress     MatchState = "IN_PROGRESS"
	StateResultReported MatchState = "RESULT_REPORTED"
	StateConfirmed      MatchState = "CONFIRMED"
	StateDisputed       MatchState = "DISPUTED"
	StateFinalized      MatchState = "FINALIZED"
	StateCancelled      MatchState = "CANCELLED"
)

// Terminal reports whether no further transition is valid from s.
func (s MatchState) Terminal() bool {
	return s == StateFinalized || s == StateCancelled || s == StateDisputed
}

// FinalizeReason records why a match reached its terminal transition.
type FinalizeReason string

const (
	ReasonConfirmed       FinalizeReason = "confirmed"
	ReasonTimeout         FinalizeReason = "timeout"
	ReasonAutoCounterpart FinalizeReason = "auto_counterpart"
	ReasonReadyTimeout    FinalizeReason = "ready_timeout"
	ReasonCancelled       FinalizeReason = "cancelled"
	ReasonDisputed        FinalizeReason = "disputed"
)

// QueueEntry is a waiting player's record while searching for a match.
// Rating is a snapshot taken at enqueue time and is not live-updated.
type QueueEntry struct {
	PlayerID PlayerID  `json:"player_id"`
	Rating   int       `json:"rating"`
	JoinedAt time.Time `json:"joined_at"`
	Mode     Mode      `json:"mode"`
}

// Winner is the reported outcome of a match: a player for 1v1, a side for 5v5.
type Winner struct {
	Player PlayerID `json:"player,omitempty"`
	Side   Side     `json:"side,omitempty"`
}

// Match is a created grouping of players progressing through the lifecycle.
// It is owned exclusively by the match registry until finalized or cancelled.
type Match struct {
	MatchID        MatchID                 `json:"match_id"`
	Mode           Mode                    `json:"mode"`
	Players        []PlayerID              `json:"players"`
	Teams          map[Side][]PlayerID     `json:"teams,omitempty"`
	State          MatchState              `json:"state"`
	Ready          map[PlayerID]struct{}   `json:"ready"`
	ReportedWinner *Winner                 `json:"reported_winner,omitempty"`
	ReportedBy     PlayerID                `json:"reported_by,omitempty"`
	Confirmations  map[PlayerID]struct{}   `json:"confirmations"`
	Disputed       bool                    `json:"disputed"`
	Roles          *RoleAssignment         `json:"roles,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`

	// TimerGen increments every time the lifecycle arms a new timer for this
	// match, so a cancelled-then-rearmed timer can never be confused with a
	// stale one.
	TimerGen uint64 `json:"-"`
}

// Contains reports whether the player participates in this match.
func (m *Match) Contains(playerID PlayerID) bool {
	for _, p := range m.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// AllReady reports whether every participant has been marked ready.
func (m *Match) AllReady() bool {
	return len(m.Ready) == len(m.Players)
}

// SideOf returns the side the player plays on. Only meaningful for 5v5.
func (m *Match) SideOf(playerID PlayerID) (Side, bool) {
	for side, team := range m.Teams {
		for _, p := range team {
			if p == playerID {
				return side, true
			}
		}
	}
	return "", false
}

// Copy returns a deep copy of the match, safe to hand outside the registry.
func (m *Match) Copy() *Match {
	copied, err := copystructure.Copy(m)
	if err != nil {
		logrus.WithField("matchID", m.MatchID).Errorf("unable to copy match: %s", err)
		return m
	}
	result := copied.(*Match)
	return result
}

// Action is an inline action offered alongside a notification.
type Action struct {
	Label    string `json:"label"`
	Callback string `json:"callback"`
}

// Notification is an outbound message produced by a state transition. The
// transition itself never performs I/O; it returns notifications as data and
// the caller dispatches them after the critical section.
type Notification struct {
	PlayerID PlayerID `json:"player_id"`
	Text     string   `json:"text"`
	Actions  []Action `json:"actions,omitempty"`
}

// RatingProfile holds a player's rating and win/loss counters.
type RatingProfile struct {
	PlayerID PlayerID `json:"player_id"`
	Rating   int      `json:"rating"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
}

// TrustProfile holds a player's behavioral counters and derived trust score.
type TrustProfile struct {
	PlayerID         PlayerID `json:"player_id"`
	Reports          int      `json:"reports"`
	ConfirmedMatches int      `json:"confirmed_matches"`
	AFKCount         int      `json:"afk"`
	TrustScore       int      `json:"trust_score"`
}

// Recompute derives the trust score from the counters and returns it.
// The score is clamped to [0, 100].
func (t *TrustProfile) Recompute() int {
	score := 100 - 2*t.Reports - 4*t.AFKCount + 3*t.ConfirmedMatches
	t.TrustScore = mathutil.Clamp(score, 0, 100)
	return t.TrustScore
}

// InfractionRecord accumulates warnings toward escalating temporary bans.
type InfractionRecord struct {
	PlayerID         PlayerID `json:"player_id"`
	Warnings         int      `json:"warnings"`
	Strikes          int      `json:"strikes"`
	CleanGamesStreak int      `json:"clean_games"`
	LastResetAt      int64    `json:"last_reset"`
}

// BanUntilForever marks a ban with no expiry.
const BanUntilForever int64 = -1

// BanRecord is an active ban. Until is a unix timestamp; BanUntilForever
// means permanent.
type BanRecord struct {
	PlayerID PlayerID `json:"player_id"`
	Until    int64    `json:"until"`
	Reason   string   `json:"reason"`
}

// BanStatus is the answer of a ban check.
type BanStatus string

const (
	BanNone      BanStatus = "none"
	BanTemporary BanStatus = "temporary"
	BanPermanent BanStatus = "permanent"
)

// InfractionOutcome tells whether an infraction escalated into a ban.
type InfractionOutcome string

const (
	OutcomeWarn InfractionOutcome = "warn"
	OutcomeBan  InfractionOutcome = "ban"
)

// ReportOutcome is the result of filing a player report.
type ReportOutcome string

const (
	ReportAccepted  ReportOutcome = "success"
	ReportDuplicate ReportOutcome = "already_reported"
)

// MatchOutcome is the persisted history record of a finalized match.
// HistoryID is a ULID so history rows sort by creation order.
type MatchOutcome struct {
	HistoryID  string           `json:"history_id"`
	MatchID    MatchID          `json:"match_id"`
	Mode       Mode             `json:"mode"`
	Players    []PlayerID       `json:"players"`
	Winners    []PlayerID       `json:"winners"`
	Losers     []PlayerID       `json:"losers"`
	Reason     FinalizeReason   `json:"reason"`
	Deltas     map[PlayerID]int `json:"deltas"`
	FinishedAt time.Time        `json:"finished_at"`
}
