// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package rooms hands out lobby rooms to running matches from a fixed pool.
// When the pool is exhausted a match simply runs without a room.
package rooms

import (
	"sync"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

// Room is one lobby a match can be assigned to.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Provisioner acquires and releases rooms for matches.
type Provisioner interface {
	Acquire(scope *envelope.Scope, matchID models.MatchID) (Room, bool)
	Release(scope *envelope.Scope, matchID models.MatchID)
}

// Pool is a fixed-size Provisioner. Rooms are handed out in configuration
// order and returned to the back of the free list.
type Pool struct {
	mu       sync.Mutex
	free     []Room
	assigned map[models.MatchID]Room
}

// NewPool creates a Pool over the given rooms.
func NewPool(available []Room) *Pool {
	free := make([]Room, len(available))
	copy(free, available)
	return &Pool{
		free:     free,
		assigned: make(map[models.MatchID]Room),
	}
}

// Acquire assigns a free room to the match. Acquiring again for the same
// match returns the already assigned room. Returns false when the pool is
// exhausted.
func (p *Pool) Acquire(scope *envelope.Scope, matchID models.MatchID) (Room, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if room, ok := p.assigned[matchID]; ok {
		return room, true
	}
	if len(p.free) == 0 {
		scope.Log.WithField(envelope.MatchIDTag, matchID).Warn("room pool exhausted")
		return Room{}, false
	}

	room := p.free[0]
	p.free = p.free[1:]
	p.assigned[matchID] = room
	return room, true
}

// Release returns the match's room to the pool. Releasing a match that holds
// no room is a no-op.
func (p *Pool) Release(scope *envelope.Scope, matchID models.MatchID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	room, ok := p.assigned[matchID]
	if !ok {
		return
	}
	delete(p.assigned, matchID)
	p.free = append(p.free, room)
}

// Available returns the number of unassigned rooms.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
