// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	pie "github.com/elliotchance/pie/v2"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

// findDuelPair scans every unordered pair (i < j, stable by queue order) and
// accepts the first whose rating difference fits the pair's widened
// tolerance. First-fit, not best-fit: ties resolve by insertion order.
func findDuelPair(scope *envelope.Scope, snapshot []models.QueueEntry) *Proposal {
	now := Now()

	for i := 0; i < len(snapshot); i++ {
		for j := i + 1; j < len(snapshot); j++ {
			first, second := snapshot[i], snapshot[j]

			minJoined := first.JoinedAt
			if second.JoinedAt.Before(minJoined) {
				minJoined = second.JoinedAt
			}
			allowed := tolerance(now.Sub(minJoined))

			diff := first.Rating - second.Rating
			if diff < 0 {
				diff = -diff
			}
			if diff > allowed {
				continue
			}

			entries := []models.QueueEntry{first, second}
			scope.SetAttributes(envelope.PlayersTag, playerIDStrings(entries))
			return &Proposal{
				Mode:    models.ModeDuel,
				Players: []models.PlayerID{first.PlayerID, second.PlayerID},
				Entries: entries,
			}
		}
	}

	return nil
}

func playerIDStrings(entries []models.QueueEntry) []string {
	return pie.Map(entries, func(e models.QueueEntry) string {
		return string(e.PlayerID)
	})
}
