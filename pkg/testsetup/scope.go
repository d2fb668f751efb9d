// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"context"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/sirupsen/logrus"
)

// NewTestScope creates a fresh root scope for test use.
func NewTestScope() *envelope.Scope {
	return envelope.NewRootScope(context.Background(), "arena-test", "")
}

// NewTestScopeWithLogger creates a test scope backed by the given logger,
// so tests can capture log output with a logrus test hook.
func NewTestScopeWithLogger(logger *logrus.Logger) *envelope.Scope {
	scope := NewTestScope()
	scope.SetLogger(logger)
	return scope
}
