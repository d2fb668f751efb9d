// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package envelope carries the per-request logging and tracing context
// through the queue, matching and lifecycle call chains.
package envelope

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/inexmode/arena/pkg/common"
)

const (
	traceIdLogField = "traceID"
	tracerName      = "arena-server"

	MatchIDTag   = "arena.match.id"
	MatchModeTag = "arena.match.mode"
	PlayersTag   = "arena.match.players"
	ReasonTag    = "arena.match.reason"
)

// Scope combines the context, trace span and tagged logger for one unit of
// work. Handlers create one per request, timers create one per firing.
type Scope struct {
	Ctx     context.Context
	TraceID string
	span    oteltrace.Span
	Log     *logrus.Entry
}

// ChildScopeFromRemoteScope opens a scope continuing whatever trace the
// incoming request context carries.
func ChildScopeFromRemoteScope(ctx context.Context, name string) *Scope {
	tracerCtx, span := otel.Tracer(tracerName).Start(ctx, name)
	return newScope(tracerCtx, span, span.SpanContext().TraceID().String())
}

// NewRootScope starts a fresh trace. Pass an empty traceID to have one
// generated.
func NewRootScope(rootCtx context.Context, name string, traceID string) *Scope {
	ctx, span := otel.Tracer(name).Start(rootCtx, name)
	return newScope(ctx, span, traceID)
}

func newScope(ctx context.Context, span oteltrace.Span, traceID string) *Scope {
	if len(traceID) != 32 {
		traceID = common.GenerateUUID()
	}
	return &Scope{
		Ctx:     ctx,
		TraceID: traceID,
		span:    span,
		Log:     logrus.WithField(traceIdLogField, traceID),
	}
}

// SetLogger swaps the logger backing this scope. Mostly useful for tests.
func (s *Scope) SetLogger(logger *logrus.Logger) {
	s.Log = logger.WithField(traceIdLogField, s.TraceID)
}

// Finish ends the underlying span.
func (s *Scope) Finish() {
	s.span.End()
}

// NewChildScope opens a nested span sharing this scope's trace ID.
func (s *Scope) NewChildScope(name string) *Scope {
	ctx, span := s.span.TracerProvider().Tracer(tracerName).Start(s.Ctx, name)

	return &Scope{
		Ctx:     ctx,
		TraceID: s.TraceID,
		span:    span,
		Log:     s.Log,
	}
}

// SetAttributes tags the span with a match attribute.
func (s *Scope) SetAttributes(key string, value interface{}) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}
