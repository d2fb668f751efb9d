// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/inexmode/arena/pkg/config"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/lifecycle"
	"github.com/inexmode/arena/pkg/matchmaker"
	"github.com/inexmode/arena/pkg/metrics"
	"github.com/inexmode/arena/pkg/notify"
	"github.com/inexmode/arena/pkg/queue"
	"github.com/inexmode/arena/pkg/rating"
	"github.com/inexmode/arena/pkg/rooms"
	"github.com/inexmode/arena/pkg/scheduler"
	"github.com/inexmode/arena/pkg/server"
	"github.com/inexmode/arena/pkg/storage"
	"github.com/inexmode/arena/pkg/trust"
)

func main() {
	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		logrus.Fatalf("unable to parse configuration: %s", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	shutdownTracing := setupTracing(cfg)
	defer shutdownTracing()

	scope := envelope.NewRootScope(context.Background(), "arenad", "")
	defer scope.Finish()

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		scope.Log.Fatalf("unable to create data directory: %s", err)
	}
	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		scope.Log.Fatalf("unable to open database: %s", err)
	}
	defer store.Close() //nolint:errcheck

	registry := prometheus.NewRegistry()
	arenaMetrics := metrics.NewMetrics(registry)

	ratings, err := rating.NewStore(scope, store)
	if err != nil {
		scope.Log.Fatalf("unable to load ratings: %s", err)
	}
	if ratings.Corrupted > 0 {
		arenaMetrics.StorageRowsDropped("ratings", ratings.Corrupted)
	}
	history, err := rating.NewHistory(scope, store)
	if err != nil {
		scope.Log.Fatalf("unable to load match history: %s", err)
	}
	trustEngine, err := trust.NewEngine(scope, store)
	if err != nil {
		scope.Log.Fatalf("unable to load trust state: %s", err)
	}
	if trustEngine.Corrupted > 0 {
		arenaMetrics.StorageRowsDropped("trust", trustEngine.Corrupted)
	}

	matchRegistry := lifecycle.NewRegistry()
	queues := queue.NewManager(matchRegistry)
	sched := scheduler.New()
	defer sched.Shutdown()

	roomPool := rooms.NewPool(roomsFromConfig(cfg))
	dispatcher := notify.NewDispatcher(notify.LogNotifier{})

	engine := lifecycle.New(lifecycle.Deps{
		Config:     cfg,
		Queues:     queues,
		Matcher:    matchmaker.New(),
		Registry:   matchRegistry,
		Ratings:    ratings,
		History:    history,
		Trust:      trustEngine,
		Scheduler:  sched,
		Dispatcher: dispatcher,
		Rooms:      roomPool,
		Metrics:    arenaMetrics,
	})

	tickInterval := time.Duration(cfg.MatchTickSecond) * time.Second
	stopTick := sched.Every(tickInterval, func() {
		tickScope := envelope.NewRootScope(context.Background(), "arenad.tick", "")
		defer tickScope.Finish()
		engine.Tick(tickScope)
	})
	defer stopTick()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewServer(engine, ratings, history, trustEngine, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		scope.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			scope.Log.Errorf("http shutdown: %s", err)
		}
	}()

	scope.Log.Infof("arenad listening on %s, tick every %s", cfg.ListenAddr, tickInterval)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		scope.Log.Fatalf("http server: %s", err)
	}
	scope.Log.Info("server stopped")
}

func roomsFromConfig(cfg *config.Config) []rooms.Room {
	out := make([]rooms.Room, 0, len(cfg.RoomNames))
	for i, name := range cfg.RoomNames {
		out = append(out, rooms.Room{
			ID:   fmt.Sprintf("room-%d", i+1),
			Name: name,
		})
	}
	return out
}

// setupTracing installs the zipkin span exporter when an endpoint is
// configured. Without one, spans stay in-process and cost nothing.
func setupTracing(cfg *config.Config) func() {
	if cfg.ZipkinEndpoint == "" {
		return func() {}
	}

	exporter, err := zipkin.New(cfg.ZipkinEndpoint)
	if err != nil {
		logrus.Errorf("unable to create zipkin exporter: %s", err)
		return func() {}
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logrus.Errorf("unable to shut down tracer provider: %s", err)
		}
	}
}
