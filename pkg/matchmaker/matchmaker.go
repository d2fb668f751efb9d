// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package matchmaker turns queue snapshots into match proposals. Selection is
// first-fit in queue insertion order under a skill tolerance that widens with
// wait time; older entries are matched sooner by construction.
package matchmaker

import (
	"time"

	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/mathutil"
	"github.com/inexmode/arena/pkg/models"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// TeamSummary carries the rating aggregates of one proposed team. Both sums
// are shown to participants when a 5v5 match is found.
type TeamSummary struct {
	Sum  float64
	Mean float64
}

// Proposal is a grouping the matcher found in a snapshot. The queue is left
// untouched; the lifecycle dequeues the named players when it accepts the
// proposal.
type Proposal struct {
	Mode      models.Mode
	Players   []models.PlayerID
	Entries   []models.QueueEntry
	Teams     map[models.Side][]models.PlayerID
	Summaries map[models.Side]TeamSummary
}

// Matcher consumes a queue snapshot and produces zero or one proposal.
// Calling it without an eligible grouping is idempotent and safe every tick.
type Matcher interface {
	FindMatch(scope *envelope.Scope, snapshot []models.QueueEntry, mode models.Mode) *Proposal
}

type arenaMatcher struct{}

// New returns the default Matcher.
func New() Matcher {
	return arenaMatcher{}
}

func (arenaMatcher) FindMatch(rootScope *envelope.Scope, snapshot []models.QueueEntry, mode models.Mode) *Proposal {
	scope := rootScope.NewChildScope("arenaMatcher.FindMatch")
	defer scope.Finish()

	switch mode {
	case models.ModeDuel:
		return findDuelPair(scope, snapshot)
	case models.ModeTeam:
		return findTeamWindow(scope, snapshot)
	default:
		scope.Log.WithField("mode", mode).Error("unknown queue mode")
		return nil
	}
}

// tolerance returns the maximum allowed rating spread for a grouping whose
// oldest member has waited minWait: min(100 + 50*floor(minWait/30s), 300).
func tolerance(minWait time.Duration) int {
	if minWait < 0 {
		minWait = 0
	}
	steps := int(minWait / constants.ToleranceStepEvery)
	return mathutil.Min(constants.ToleranceBase+constants.ToleranceStep*steps, constants.ToleranceMax)
}
