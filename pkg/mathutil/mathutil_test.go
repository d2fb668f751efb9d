// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxMin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, Max(3, 5))
	assert.Equal(t, 3, Min(3, 5))
	assert.Equal(t, -1.5, Max(-2.5, -1.5))
	assert.Equal(t, "a", Min("a", "b"))
}

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50, Clamp(50, 0, 100))
	assert.Equal(t, 0, Clamp(-10, 0, 100))
	assert.Equal(t, 100, Clamp(250, 0, 100))
	assert.Equal(t, 0, Clamp(0, 0, 100))
	assert.Equal(t, 100, Clamp(100, 0, 100))
}
