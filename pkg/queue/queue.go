// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package queue owns the waiting pools for each match size. Queue state is
// mutated only through Enqueue and Dequeue; every other caller sees deep
// copied snapshots.
package queue

import (
	"sync"
	"time"

	pie "github.com/elliotchance/pie/v2"
	"github.com/mitchellh/copystructure"

	"github.com/inexmode/arena/pkg/models"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// ActiveChecker answers whether a player currently participates in a
// non-terminal match. The match registry implements it.
type ActiveChecker interface {
	PlayerActive(playerID models.PlayerID) bool
}

type modeQueue struct {
	mu      sync.Mutex
	entries []models.QueueEntry
}

// Manager holds one queue per mode, each mutated under its own exclusive
// section. Cross-queue moves take locks in the fixed models.Modes order.
type Manager struct {
	queues map[models.Mode]*modeQueue
	active ActiveChecker
}

// NewManager creates a Manager. active may be nil when no match registry
// participates in the global-uniqueness check (tests).
func NewManager(active ActiveChecker) *Manager {
	queues := make(map[models.Mode]*modeQueue, len(models.Modes()))
	for _, mode := range models.Modes() {
		queues[mode] = &modeQueue{}
	}
	return &Manager{
		queues: queues,
		active: active,
	}
}

// Enqueue adds the player to the mode's queue with a rating snapshot taken
// now. Selecting a mode removes the player from the other mode's queue first.
// It fails with ErrAlreadyQueued when the player already waits in this queue
// or participates in an active match.
func (m *Manager) Enqueue(playerID models.PlayerID, rating int, mode models.Mode) (models.QueueEntry, error) {
	if m.active != nil && m.active.PlayerActive(playerID) {
		return models.QueueEntry{}, models.ErrAlreadyQueued
	}

	other := m.queues[mode.Other()]
	target := m.queues[mode]

	// Fixed lock order across queues.
	first, second := target, other
	if mode != models.Modes()[0] {
		first, second = other, target
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if containsPlayer(target.entries, playerID) {
		return models.QueueEntry{}, models.ErrAlreadyQueued
	}

	other.entries = pie.Filter(other.entries, func(e models.QueueEntry) bool {
		return e.PlayerID != playerID
	})

	entry := models.QueueEntry{
		PlayerID: playerID,
		Rating:   rating,
		JoinedAt: Now(),
		Mode:     mode,
	}
	target.entries = append(target.entries, entry)

	return entry, nil
}

// Dequeue removes the player from whichever queue holds them and reports the
// mode they waited in. Absent players are a no-op.
func (m *Manager) Dequeue(playerID models.PlayerID) (models.Mode, bool) {
	for _, mode := range models.Modes() {
		q := m.queues[mode]
		q.mu.Lock()
		before := len(q.entries)
		q.entries = pie.Filter(q.entries, func(e models.QueueEntry) bool {
			return e.PlayerID != playerID
		})
		removed := len(q.entries) < before
		q.mu.Unlock()
		if removed {
			return mode, true
		}
	}
	return "", false
}

// Queued reports whether the player waits in any queue.
func (m *Manager) Queued(playerID models.PlayerID) bool {
	for _, mode := range models.Modes() {
		q := m.queues[mode]
		q.mu.Lock()
		found := containsPlayer(q.entries, playerID)
		q.mu.Unlock()
		if found {
			return true
		}
	}
	return false
}

// Len returns the number of waiting players in the mode's queue.
func (m *Manager) Len(mode models.Mode) int {
	q := m.queues[mode]
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot returns a deep copied, queue-ordered view for the matcher.
// Mutating the returned slice never touches queue state.
func (m *Manager) Snapshot(mode models.Mode) []models.QueueEntry {
	q := m.queues[mode]
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return nil
	}
	copied, err := copystructure.Copy(q.entries)
	if err != nil {
		// Snapshot of plain values; a copy failure would indicate a broken
		// entry shape, fall back to a shallow copy.
		out := make([]models.QueueEntry, len(q.entries))
		copy(out, q.entries)
		return out
	}
	return copied.([]models.QueueEntry)
}

func containsPlayer(entries []models.QueueEntry, playerID models.PlayerID) bool {
	return pie.FindFirstUsing(entries, func(e models.QueueEntry) bool {
		return e.PlayerID == playerID
	}) != -1
}
