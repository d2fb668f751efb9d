// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rooms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inexmode/arena/pkg/testsetup"
)

func TestPoolAcquireAndRelease(t *testing.T) {
	t.Parallel()
	scope := testsetup.NewTestScope()
	pool := NewPool([]Room{{ID: "r1", Name: "Arena 1"}})

	room, ok := pool.Acquire(scope, "m1")
	require.True(t, ok)
	assert.Equal(t, "r1", room.ID)
	assert.Zero(t, pool.Available())

	// Exhausted pool: the match runs without a room.
	_, ok = pool.Acquire(scope, "m2")
	assert.False(t, ok)

	pool.Release(scope, "m1")
	assert.Equal(t, 1, pool.Available())

	_, ok = pool.Acquire(scope, "m2")
	assert.True(t, ok)
}

func TestAcquireIsIdempotentPerMatch(t *testing.T) {
	t.Parallel()
	scope := testsetup.NewTestScope()
	pool := NewPool([]Room{{ID: "r1"}, {ID: "r2"}})

	first, ok := pool.Acquire(scope, "m1")
	require.True(t, ok)
	again, ok := pool.Acquire(scope, "m1")
	require.True(t, ok)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, pool.Available())
}

func TestReleaseUnknownMatchIsNoop(t *testing.T) {
	t.Parallel()
	scope := testsetup.NewTestScope()
	pool := NewPool([]Room{{ID: "r1"}})

	pool.Release(scope, "never-acquired")
	assert.Equal(t, 1, pool.Available())

	// Double release does not duplicate the room.
	_, ok := pool.Acquire(scope, "m1")
	require.True(t, ok)
	pool.Release(scope, "m1")
	pool.Release(scope, "m1")
	assert.Equal(t, 1, pool.Available())
}
