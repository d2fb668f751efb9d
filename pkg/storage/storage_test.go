// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	loaded, err := s.Load(ctx, "ratings")
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, s.Save(ctx, "ratings", map[string]string{"p1": "{}"}))
	loaded, err = s.Load(ctx, "ratings")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": "{}"}, loaded)

	// The returned map is a copy.
	loaded["p2"] = "{}"
	again, err := s.Load(ctx, "ratings")
	require.NoError(t, err)
	assert.Len(t, again, 1)
}

func TestMemoryStoreSaveReplacesNamespace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, "bans", map[string]string{"p1": "a", "p2": "b"}))
	require.NoError(t, s.Save(ctx, "bans", map[string]string{"p1": "a"}))

	loaded, err := s.Load(ctx, "bans")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": "a"}, loaded)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "arena.db"))
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	require.NoError(t, s.Save(ctx, "ratings", map[string]string{"p1": `{"rating":1025}`}))
	require.NoError(t, s.Save(ctx, "trust", map[string]string{"p1": `{"trust_score":96}`}))

	loaded, err := s.Load(ctx, "ratings")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": `{"rating":1025}`}, loaded)

	// Namespaces do not bleed into each other.
	loaded, err = s.Load(ctx, "trust")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": `{"trust_score":96}`}, loaded)
}

func TestSQLiteStoreSaveReplacesNamespace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "arena.db"))
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	require.NoError(t, s.Save(ctx, "bans", map[string]string{"p1": "a", "p2": "b"}))
	require.NoError(t, s.Save(ctx, "bans", map[string]string{"p3": "c"}))

	loaded, err := s.Load(ctx, "bans")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p3": "c"}, loaded)
}

func TestSQLiteStoreReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "arena.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "history", map[string]string{"h1": "{}"}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close() //nolint:errcheck

	loaded, err := second.Load(ctx, "history")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"h1": "{}"}, loaded)
}
