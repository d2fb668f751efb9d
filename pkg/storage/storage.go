// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package storage is the persistence collaborator: namespaced key-value
// snapshots with crash-only durability. Each namespace's save is
// independently idempotent; no transactions span namespaces.
package storage

import (
	"context"
	"sync"
)

// Store loads and saves one mapping per namespace.
type Store interface {
	Load(ctx context.Context, namespace string) (map[string]string, error)
	Save(ctx context.Context, namespace string, data map[string]string) error
	Close() error
}

// MemoryStore is an in-process Store for tests and ephemeral runs.
type MemoryStore struct {
	mu         sync.Mutex
	namespaces map[string]map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string]string),
	}
}

func (s *MemoryStore) Load(_ context.Context, namespace string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.namespaces[namespace]))
	for k, v := range s.namespaces[namespace] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, namespace string, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]string, len(data))
	for k, v := range data {
		stored[k] = v
	}
	s.namespaces[namespace] = stored
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
