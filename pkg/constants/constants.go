// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

const (
	// DefaultRating is assigned to players the first time their profile is referenced.
	DefaultRating = 1000

	// RatingDelta is the fixed per-match rating increment. The rating system is
	// intentionally a fixed-increment one, not Elo-expected-score based.
	RatingDelta = 25

	// RatingFloor is the lowest rating a loss can leave a player at.
	RatingFloor = 0
)

const (
	// ToleranceBase is the rating spread allowed for a fresh grouping.
	ToleranceBase = 100

	// ToleranceStep widens the allowed spread for every ToleranceStepEvery of wait.
	ToleranceStep      = 100 / 2
	ToleranceStepEvery = 30 * time.Second

	// ToleranceMax caps the widened spread.
	ToleranceMax = 300
)

const (
	// TeamMatchSize is the number of players consumed by one 5v5 grouping.
	TeamMatchSize = 10
	TeamSize      = 5
)

const (
	ReadyTimeout   = 600 * time.Second
	ConfirmTimeout = 600 * time.Second

	// ReportWindow is the rolling window during which a (reporter, target)
	// pair is accepted at most once.
	ReportWindow = 24 * time.Hour
)

// Ban ladder. Warning counts map to temporary ban durations; six or more
// warnings bans for the rest of the current UTC day.
const (
	BanAtThreeWarnings = 30 * time.Minute
	BanAtFourWarnings  = 60 * time.Minute
	BanAtFiveWarnings  = 120 * time.Minute

	CleanGamesToReset = 2
)

// Persistence namespaces.
const (
	NamespaceRatings     = "ratings"
	NamespaceTrust       = "trust"
	NamespaceInfractions = "infractions"
	NamespaceBans        = "bans"
	NamespaceReports     = "reports"
	NamespaceHistory     = "history"
)

// Unmatched reason constants.
const (
	ReasonNotEnoughPlayers = "not_enough_players"
	ReasonSpreadTooWide    = "spread_too_wide"
)
