// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package lifecycle

import (
	"sync"

	"github.com/inexmode/arena/pkg/models"
)

// Registry owns every non-terminal match. A match is mutated only under the
// registry lock via WithMatch, and leaves the registry exactly once via
// PopIf, which is how terminal transitions stay idempotent under racing
// timers and clicks.
type Registry struct {
	mu      sync.Mutex
	matches map[models.MatchID]*models.Match
	players map[models.PlayerID]models.MatchID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		matches: make(map[models.MatchID]*models.Match),
		players: make(map[models.PlayerID]models.MatchID),
	}
}

// Insert adds a newly created match and indexes its players as active.
func (r *Registry) Insert(match *models.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[match.MatchID] = match
	for _, p := range match.Players {
		r.players[p] = match.MatchID
	}
}

// WithMatch runs fn on the live match under the registry lock. fn must only
// mutate match state; I/O belongs to the caller, after the lock is released.
// Returns ErrMatchNotFound when no live match has this ID.
func (r *Registry) WithMatch(matchID models.MatchID, fn func(match *models.Match) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, ok := r.matches[matchID]
	if !ok {
		return models.ErrMatchNotFound
	}
	return fn(match)
}

// PopIf removes and returns the match when pred holds for it. Exactly one of
// any number of racing PopIf calls wins; the rest see false.
func (r *Registry) PopIf(matchID models.MatchID, pred func(match *models.Match) bool) (*models.Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, ok := r.matches[matchID]
	if !ok || !pred(match) {
		return nil, false
	}
	delete(r.matches, matchID)
	for _, p := range match.Players {
		delete(r.players, p)
	}
	return match, true
}

// PlayerActive reports whether the player participates in a live match.
func (r *Registry) PlayerActive(playerID models.PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.players[playerID]
	return ok
}

// MatchOf returns the ID of the live match the player participates in.
func (r *Registry) MatchOf(playerID models.PlayerID) (models.MatchID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matchID, ok := r.players[playerID]
	return matchID, ok
}

// Get returns a deep copy of the live match.
func (r *Registry) Get(matchID models.MatchID) (*models.Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, ok := r.matches[matchID]
	if !ok {
		return nil, false
	}
	return match.Copy(), true
}

// List returns deep copies of every live match.
func (r *Registry) List() []*models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Match, 0, len(r.matches))
	for _, match := range r.matches {
		out = append(out, match.Copy())
	}
	return out
}

// Len returns the number of live matches.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}
