// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type ArenaMetrics interface {
	PlayersInQueue(mode string, numPlayers int)
	MatchCreated(mode string)
	MatchFinalized(mode string, reason string)
	MatchDurationSeconds(mode string, duration time.Duration)
	TickElapsedTimeMs(elapsedTime time.Duration)
	AddUnmatchedReason(mode string, reason string)
	NotificationFailure()
	StorageRowsDropped(namespace string, count int)
}

func NewMetrics(registry *prometheus.Registry) ArenaMetrics {
	return setupPrometheusMetrics(registry)
}
