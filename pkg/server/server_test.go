// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inexmode/arena/pkg/config"
	"github.com/inexmode/arena/pkg/lifecycle"
	"github.com/inexmode/arena/pkg/matchmaker"
	"github.com/inexmode/arena/pkg/metrics"
	"github.com/inexmode/arena/pkg/notify"
	"github.com/inexmode/arena/pkg/queue"
	"github.com/inexmode/arena/pkg/rating"
	"github.com/inexmode/arena/pkg/rooms"
	"github.com/inexmode/arena/pkg/scheduler"
	"github.com/inexmode/arena/pkg/storage"
	"github.com/inexmode/arena/pkg/testsetup"
	"github.com/inexmode/arena/pkg/trust"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	scope := testsetup.NewTestScope()
	backend := storage.NewMemoryStore()

	ratings, err := rating.NewStore(scope, backend)
	require.NoError(t, err)
	history, err := rating.NewHistory(scope, backend)
	require.NoError(t, err)
	trustEngine, err := trust.NewEngine(scope, backend)
	require.NoError(t, err)

	matchRegistry := lifecycle.NewRegistry()
	sched := scheduler.New()
	t.Cleanup(sched.Shutdown)

	registry := prometheus.NewRegistry()
	engine := lifecycle.New(lifecycle.Deps{
		Config:     &config.Config{ReadyTimeoutSecond: 600, ConfirmTimeoutSecond: 600},
		Queues:     queue.NewManager(matchRegistry),
		Matcher:    matchmaker.New(),
		Registry:   matchRegistry,
		Ratings:    ratings,
		History:    history,
		Trust:      trustEngine,
		Scheduler:  sched,
		Dispatcher: notify.NewDispatcher(testsetup.NewStubNotifier()),
		Rooms:      rooms.NewPool(nil),
		Metrics:    metrics.NewMetrics(registry),
	})

	return NewServer(engine, ratings, history, trustEngine, registry)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJoinAndListQueues(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/queues/1v1/players", map[string]string{"player_id": "p1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/queues", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lengths map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lengths))
	assert.Equal(t, 1, lengths["1v1"])
	assert.Zero(t, lengths["5v5"])
}

func TestJoinQueueDuplicateConflicts(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/queues/1v1/players", map[string]string{"player_id": "p1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/queues/1v1/players", map[string]string{"player_id": "p1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(520101), body["errorCode"])
}

func TestJoinQueueUnknownMode(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/queues/3v3/players", map[string]string{"player_id": "p1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaveQueue(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/v1/queues/5v5/players", map[string]string{"player_id": "p1"})
	rec := doJSON(t, s, http.MethodDelete, "/v1/queues/players/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/v1/queues/players/p1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlayerProfile(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/players/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rating struct {
			Rating int `json:"rating"`
		} `json:"rating"`
		Trust struct {
			TrustScore int `json:"trust_score"`
		} `json:"trust"`
		BanStatus string `json:"ban_status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1000, body.Rating.Rating)
	assert.Equal(t, 100, body.Trust.TrustScore)
	assert.Equal(t, "none", body.BanStatus)
}

func TestAdminBanBlocksQueueing(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/admin/bans", map[string]interface{}{
		"player_id": "p1",
		"seconds":   3600,
		"reason":    "manual",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/queues/1v1/players", map[string]string{"player_id": "p1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/v1/admin/bans/p1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/queues/1v1/players", map[string]string{"player_id": "p1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSelfReportRejected(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/reports", map[string]string{
		"reporter": "p1",
		"target":   "p1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchNotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/matches/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/matches/unknown/ready", map[string]string{"player_id": "p1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
