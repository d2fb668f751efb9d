// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"math/rand"
	"time"

	pie "github.com/elliotchance/pie/v2"

	"github.com/inexmode/arena/pkg/models"
)

//nolint:gosec
var roleRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// AssignRoles picks a leader and a captain for each side of a 5v5 match.
// This is the only randomized step of matchmaking: the leader is drawn
// uniformly from the team, the captain from the team minus the leader,
// falling back to the leader when that pool is empty.
func AssignRoles(teams map[models.Side][]models.PlayerID) *models.RoleAssignment {
	return assignRolesWith(roleRand, teams)
}

func assignRolesWith(r *rand.Rand, teams map[models.Side][]models.PlayerID) *models.RoleAssignment {
	return &models.RoleAssignment{
		Blue: assignTeamRoles(r, teams[models.SideBlue]),
		Red:  assignTeamRoles(r, teams[models.SideRed]),
	}
}

func assignTeamRoles(r *rand.Rand, team []models.PlayerID) models.TeamRoles {
	if len(team) == 0 {
		return models.TeamRoles{}
	}

	leader := team[r.Intn(len(team))]
	eligible := pie.Filter(team, func(p models.PlayerID) bool {
		return p != leader
	})

	captain := leader
	if len(eligible) > 0 {
		captain = eligible[r.Intn(len(eligible))]
	}

	return models.TeamRoles{
		Leader:  leader,
		Captain: captain,
	}
}
