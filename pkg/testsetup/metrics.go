// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"time"

	"github.com/inexmode/arena/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) PlayersInQueue(mode string, numPlayers int) {
}

func (s stubMetricsCollection) MatchCreated(mode string) {
}

func (s stubMetricsCollection) MatchFinalized(mode string, reason string) {
}

func (s stubMetricsCollection) MatchDurationSeconds(mode string, duration time.Duration) {
}

func (s stubMetricsCollection) TickElapsedTimeMs(elapsedTime time.Duration) {
}

func (s stubMetricsCollection) AddUnmatchedReason(mode string, reason string) {
}

func (s stubMetricsCollection) NotificationFailure() {
}

func (s stubMetricsCollection) StorageRowsDropped(namespace string, count int) {
}

func NewMetrics() metrics.ArenaMetrics {
	return stubMetricsCollection{}
}
