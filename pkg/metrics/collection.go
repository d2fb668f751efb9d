// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	playersInQueue       prometheus.GaugeVec
	matchesCreated       prometheus.CounterVec
	matchesFinalized     prometheus.CounterVec
	matchDuration        prometheus.HistogramVec
	tickElapsedTime      prometheus.Histogram
	unmatchedReasons     prometheus.CounterVec
	notificationFailures prometheus.Counter
	storageRowsDropped   prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	playersInQueue := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arena_players_in_queue",
			Help: "The number of players currently waiting per queue mode",
		}, []string{"mode"})

	matchesCreated := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_matches_created_total",
			Help: "A counter of matches created per mode",
		}, []string{"mode"})

	matchesFinalized := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_matches_finalized_total",
			Help: "A counter of matches reaching a terminal state per mode and reason",
		}, []string{"mode", "reason"})

	//nolint:promlinter
	matchDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arena_match_duration_seconds",
			Help:    "A histogram of match lifetimes from creation to terminal state",
			Buckets: prometheus.ExponentialBuckets(30, 2, 10),
		}, []string{"mode"})

	//nolint:promlinter
	tickElapsedTime := factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arena_tick_elapsed_time_ms",
			Help:    "A histogram of matcher tick elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		})

	unmatchedReasons := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_unmatched_reasons",
			Help: "A counter of reasons a tick produced no match",
		}, []string{"mode", "reason"})

	notificationFailures := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_notification_failures_total",
			Help: "A counter of notification deliveries that failed",
		})

	storageRowsDropped := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_storage_rows_dropped_total",
			Help: "A counter of corrupt rows dropped while loading a namespace",
		}, []string{"namespace"})

	return prometheusMetrics{
		playersInQueue:       *playersInQueue,
		matchesCreated:       *matchesCreated,
		matchesFinalized:     *matchesFinalized,
		matchDuration:        *matchDuration,
		tickElapsedTime:      tickElapsedTime,
		unmatchedReasons:     *unmatchedReasons,
		notificationFailures: notificationFailures,
		storageRowsDropped:   *storageRowsDropped,
	}
}

func (metrics prometheusMetrics) PlayersInQueue(mode string, numPlayers int) {
	metrics.playersInQueue.With(prometheus.Labels{"mode": mode}).Set(float64(numPlayers))
}

func (metrics prometheusMetrics) MatchCreated(mode string) {
	metrics.matchesCreated.With(prometheus.Labels{"mode": mode}).Add(float64(1))
}

func (metrics prometheusMetrics) MatchFinalized(mode string, reason string) {
	metrics.matchesFinalized.With(prometheus.Labels{"mode": mode, "reason": reason}).Add(float64(1))
}

func (metrics prometheusMetrics) MatchDurationSeconds(mode string, duration time.Duration) {
	metrics.matchDuration.With(prometheus.Labels{"mode": mode}).Observe(duration.Seconds())
}

func (metrics prometheusMetrics) TickElapsedTimeMs(elapsedTime time.Duration) {
	metrics.tickElapsedTime.Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) AddUnmatchedReason(mode string, reason string) {
	metrics.unmatchedReasons.With(prometheus.Labels{"mode": mode, "reason": reason}).Add(float64(1))
}

func (metrics prometheusMetrics) NotificationFailure() {
	metrics.notificationFailures.Add(float64(1))
}

func (metrics prometheusMetrics) StorageRowsDropped(namespace string, count int) {
	metrics.storageRowsDropped.With(prometheus.Labels{"namespace": namespace}).Add(float64(count))
}
