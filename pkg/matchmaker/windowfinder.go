// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	pie "github.com/elliotchance/pie/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

// pool reusable object to reduce garbage collection that can affect performance
var pool = models.NewPool()

// findTeamWindow slides a window of exactly TeamMatchSize consecutive
// queue-order entries and accepts the first (lowest starting index) whose
// max-min rating spread fits the window's widened tolerance. The accepted
// window splits [0:5] blue vs [5:10] red in queue order; the split is
// deterministic, not rating-balanced, and both team rating sums are shown to
// participants.
func findTeamWindow(scope *envelope.Scope, snapshot []models.QueueEntry) *Proposal {
	if len(snapshot) < constants.TeamMatchSize {
		return nil
	}
	now := Now()

	window := pool.QueueEntries.Get()
	defer func() {
		window = window[:0]
		pool.QueueEntries.Put(window)
	}()

	for start := 0; start+constants.TeamMatchSize <= len(snapshot); start++ {
		window = append(window[:0], snapshot[start:start+constants.TeamMatchSize]...)

		minRating, maxRating := window[0].Rating, window[0].Rating
		minJoined := window[0].JoinedAt
		for _, e := range window[1:] {
			if e.Rating < minRating {
				minRating = e.Rating
			}
			if e.Rating > maxRating {
				maxRating = e.Rating
			}
			if e.JoinedAt.Before(minJoined) {
				minJoined = e.JoinedAt
			}
		}

		if maxRating-minRating > tolerance(now.Sub(minJoined)) {
			continue
		}

		entries := make([]models.QueueEntry, constants.TeamMatchSize)
		copy(entries, window)
		players := pie.Map(entries, func(e models.QueueEntry) models.PlayerID {
			return e.PlayerID
		})
		teams := map[models.Side][]models.PlayerID{
			models.SideBlue: players[:constants.TeamSize],
			models.SideRed:  players[constants.TeamSize:],
		}

		scope.SetAttributes(envelope.PlayersTag, playerIDStrings(entries))
		return &Proposal{
			Mode:    models.ModeTeam,
			Players: players,
			Entries: entries,
			Teams:   teams,
			Summaries: map[models.Side]TeamSummary{
				models.SideBlue: summarize(entries[:constants.TeamSize]),
				models.SideRed:  summarize(entries[constants.TeamSize:]),
			},
		}
	}

	return nil
}

func summarize(team []models.QueueEntry) TeamSummary {
	ratings := pie.Map(team, func(e models.QueueEntry) float64 {
		return float64(e.Rating)
	})
	return TeamSummary{
		Sum:  floats.Sum(ratings),
		Mean: stat.Mean(ratings, nil),
	}
}
