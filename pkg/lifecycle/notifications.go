// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package lifecycle

import (
	"fmt"
	"time"

	"github.com/inexmode/arena/pkg/matchmaker"
	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/rooms"
	"github.com/inexmode/arena/pkg/trust"
)

func readyAction(matchID models.MatchID) models.Action {
	return models.Action{Label: "Ready", Callback: "match:ready:" + string(matchID)}
}

func cancelAction(matchID models.MatchID) models.Action {
	return models.Action{Label: "Cancel", Callback: "match:cancel:" + string(matchID)}
}

func reportAction(matchID models.MatchID) models.Action {
	return models.Action{Label: "Report result", Callback: "match:report:" + string(matchID)}
}

func confirmAction(matchID models.MatchID) models.Action {
	return models.Action{Label: "Confirm", Callback: "match:confirm:" + string(matchID)}
}

func rejectAction(matchID models.MatchID) models.Action {
	return models.Action{Label: "Reject", Callback: "match:reject:" + string(matchID)}
}

// matchFoundNotifications tells every participant the match exists and what
// to do next. Team matches include both rating sums and the side roles.
func matchFoundNotifications(match *models.Match, summaries map[models.Side]matchmaker.TeamSummary, room rooms.Room, hasRoom bool) []models.Notification {
	roomLine := ""
	if hasRoom {
		roomLine = "\nLobby: " + room.Name
		if room.URL != "" {
			roomLine += " " + room.URL
		}
	}

	notifications := make([]models.Notification, 0, len(match.Players))
	for _, p := range match.Players {
		text := ""
		if match.Mode == models.ModeDuel {
			opponent := p
			for _, other := range match.Players {
				if other != p {
					opponent = other
				}
			}
			text = fmt.Sprintf("Match found! You face %s. Press Ready to start.", opponent)
		} else {
			side, _ := match.SideOf(p)
			text = fmt.Sprintf("Match found! You play on %s.", side)
			if blue, ok := summaries[models.SideBlue]; ok {
				red := summaries[models.SideRed]
				text += fmt.Sprintf(" Ratings: blue %.0f (avg %.0f) vs red %.0f (avg %.0f).",
					blue.Sum, blue.Mean, red.Sum, red.Mean)
			}
			if match.Roles != nil {
				roles := match.Roles.ForSide(side)
				text += fmt.Sprintf(" Leader: %s, captain: %s.", roles.Leader, roles.Captain)
			}
			text += " Press Ready to start."
		}
		notifications = append(notifications, models.Notification{
			PlayerID: p,
			Text:     text + roomLine,
			Actions:  []models.Action{readyAction(match.MatchID), cancelAction(match.MatchID)},
		})
	}
	return notifications
}

// readyProgressNotifications acknowledges one ready click.
func readyProgressNotifications(match *models.Match, playerID models.PlayerID) []models.Notification {
	return []models.Notification{{
		PlayerID: playerID,
		Text:     fmt.Sprintf("Ready registered (%d/%d).", len(match.Ready), len(match.Players)),
	}}
}

// startedNotifications announces the start and hands the report action to
// the players allowed to use it.
func startedNotifications(match *models.Match) []models.Notification {
	notifications := make([]models.Notification, 0, len(match.Players))
	for _, p := range match.Players {
		n := models.Notification{
			PlayerID: p,
			Text:     "All players ready. Match started, good luck!",
		}
		if canReport(match, p) {
			n.Actions = []models.Action{reportAction(match.MatchID)}
		}
		notifications = append(notifications, n)
	}
	return notifications
}

func canReport(match *models.Match, playerID models.PlayerID) bool {
	if match.Mode == models.ModeDuel {
		return true
	}
	if match.Roles == nil {
		return false
	}
	side, ok := match.SideOf(playerID)
	if !ok {
		return false
	}
	roles := match.Roles.ForSide(side)
	return playerID == roles.Leader || playerID == roles.Captain
}

// reportedNotifications asks the confirmers to act and informs the rest.
func reportedNotifications(match *models.Match, confirmers []models.PlayerID) []models.Notification {
	winnerText := winnerDescription(match)
	asked := make(map[models.PlayerID]struct{}, len(confirmers))

	notifications := make([]models.Notification, 0, len(match.Players))
	for _, p := range confirmers {
		asked[p] = struct{}{}
		notifications = append(notifications, models.Notification{
			PlayerID: p,
			Text:     fmt.Sprintf("%s reports that %s won. Please confirm or reject.", match.ReportedBy, winnerText),
			Actions:  []models.Action{confirmAction(match.MatchID), rejectAction(match.MatchID)},
		})
	}
	for _, p := range match.Players {
		if _, ok := asked[p]; ok || p == match.ReportedBy {
			continue
		}
		notifications = append(notifications, models.Notification{
			PlayerID: p,
			Text:     fmt.Sprintf("%s reported that %s won. Awaiting confirmation.", match.ReportedBy, winnerText),
		})
	}
	return notifications
}

func winnerDescription(match *models.Match) string {
	if match.ReportedWinner == nil {
		return "nobody"
	}
	if match.Mode == models.ModeDuel {
		return string(match.ReportedWinner.Player)
	}
	return "the " + string(match.ReportedWinner.Side) + " side"
}

// settledNotifications reports each player's rating movement.
func (e *Engine) settledNotifications(match *models.Match, winners, losers []models.PlayerID, deltas map[models.PlayerID]int, reason models.FinalizeReason) []models.Notification {
	prefix := ""
	switch reason {
	case models.ReasonTimeout:
		prefix = "The confirmation window expired, the reported result stands. "
	case models.ReasonAutoCounterpart:
		prefix = "The result was confirmed automatically. "
	}

	var notifications []models.Notification
	for _, p := range winners {
		if e.isSynthetic(p) {
			continue
		}
		notifications = append(notifications, models.Notification{
			PlayerID: p,
			Text:     prefix + "Victory! Rating " + ratingLine(deltas[p], e.ratings.Rating(p)),
		})
	}
	for _, p := range losers {
		if e.isSynthetic(p) {
			continue
		}
		notifications = append(notifications, models.Notification{
			PlayerID: p,
			Text:     prefix + "Defeat. Rating " + ratingLine(deltas[p], e.ratings.Rating(p)),
		})
	}
	return notifications
}

// infractionNotification phrases one warning or ban.
func infractionNotification(result trust.InfractionResult) models.Notification {
	if result.Outcome == models.OutcomeBan {
		until := time.Unix(result.BannedUntil, 0).UTC().Format(time.RFC1123)
		return models.Notification{
			PlayerID: result.PlayerID,
			Text: fmt.Sprintf("You reached %d warnings and are banned from queueing until %s.",
				result.Warnings, until),
		}
	}
	return models.Notification{
		PlayerID: result.PlayerID,
		Text: fmt.Sprintf("Warning %d recorded (%s). Repeated warnings lead to temporary bans.",
			result.Warnings, result.Kind),
	}
}

// trustNotifications phrases trust score movements.
func trustNotifications(changes []*trust.TrustChange) []models.Notification {
	var notifications []models.Notification
	for _, change := range changes {
		if change == nil {
			continue
		}
		notifications = append(notifications, models.Notification{
			PlayerID: change.PlayerID,
			Text: fmt.Sprintf("Trust score changed: %d -> %d (%s).",
				change.Previous, change.Current, change.Reason),
		})
	}
	return notifications
}
