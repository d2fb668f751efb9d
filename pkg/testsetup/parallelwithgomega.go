// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"testing"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/onsi/gomega"
)

// GomegaWithScope bundles a gomega asserter with a ready-made test scope.
type GomegaWithScope struct {
	TestScope *envelope.Scope
	*gomega.GomegaWithT
}

// ParallelWithGomega marks the test parallel and returns the bundle.
// Use WithGomega for tests that override package-level clocks.
func ParallelWithGomega(t *testing.T) GomegaWithScope {
	t.Parallel()
	return WithGomega(t)
}

func WithGomega(t *testing.T) GomegaWithScope {
	return GomegaWithScope{NewTestScope(), gomega.NewGomegaWithT(t)}
}
