// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package rating holds player ratings and win/loss counters. The rating
// system is a fixed-increment one: every winner gains 25, every loser drops
// 25 clamped at 0. This is intentional simplicity, not Elo.
package rating

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/mathutil"
	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/storage"
)

// Store is the authoritative owner of rating profiles. Profiles are created
// lazily with the default rating on first reference.
type Store struct {
	mu       sync.RWMutex
	profiles map[models.PlayerID]*models.RatingProfile
	backend  storage.Store

	// Corrupted counts profile rows dropped on load; surfaced so the
	// fallback-to-empty policy stays audited rather than silent.
	Corrupted int
}

// NewStore loads the ratings namespace from the backend. Corrupt rows are
// dropped with a warning and the cleaned snapshot is re-saved immediately.
func NewStore(scope *envelope.Scope, backend storage.Store) (*Store, error) {
	s := &Store{
		profiles: make(map[models.PlayerID]*models.RatingProfile),
		backend:  backend,
	}

	raw, err := backend.Load(scope.Ctx, constants.NamespaceRatings)
	if err != nil {
		return nil, err
	}
	for key, value := range raw {
		var profile models.RatingProfile
		if err := json.Unmarshal([]byte(value), &profile); err != nil {
			scope.Log.WithField("player", key).Warnf("dropping corrupt rating row: %s", err)
			s.Corrupted++
			continue
		}
		profile.PlayerID = models.PlayerID(key)
		s.profiles[profile.PlayerID] = &profile
	}
	if s.Corrupted > 0 {
		s.save(scope)
	}

	return s, nil
}

// Rating returns the player's current rating, defaulting without creating a
// profile.
func (s *Store) Rating(playerID models.PlayerID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[playerID]; ok {
		return p.Rating
	}
	return constants.DefaultRating
}

// Profile returns a copy of the player's profile, defaulted when absent.
func (s *Store) Profile(playerID models.PlayerID) models.RatingProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[playerID]; ok {
		return *p
	}
	return models.RatingProfile{
		PlayerID: playerID,
		Rating:   constants.DefaultRating,
	}
}

// Update applies the fixed increment to every winner and loser and returns
// the per-player deltas. Missing profiles are created with the default
// rating first. Profiles are touched one player at a time in list order, so
// no multi-player lock ordering exists to get wrong.
func (s *Store) Update(scope *envelope.Scope, winners, losers []models.PlayerID) map[models.PlayerID]int {
	deltas := make(map[models.PlayerID]int, len(winners)+len(losers))

	s.mu.Lock()
	for _, playerID := range winners {
		p := s.profile(playerID)
		before := p.Rating
		p.Rating = before + constants.RatingDelta
		p.Wins++
		deltas[playerID] = p.Rating - before
	}
	for _, playerID := range losers {
		p := s.profile(playerID)
		before := p.Rating
		p.Rating = mathutil.Max(constants.RatingFloor, before-constants.RatingDelta)
		p.Losses++
		deltas[playerID] = p.Rating - before
	}
	s.mu.Unlock()

	s.save(scope)
	return deltas
}

// profile returns the live profile, creating the default lazily.
// Callers hold s.mu.
func (s *Store) profile(playerID models.PlayerID) *models.RatingProfile {
	p, ok := s.profiles[playerID]
	if !ok {
		p = &models.RatingProfile{
			PlayerID: playerID,
			Rating:   constants.DefaultRating,
		}
		s.profiles[playerID] = p
	}
	return p
}

// save persists the full snapshot. Durability is crash-only: a failed save
// is logged and the in-memory state stands.
func (s *Store) save(scope *envelope.Scope) {
	s.mu.RLock()
	snapshot := make(map[string]string, len(s.profiles))
	ids := make([]models.PlayerID, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		encoded, err := json.Marshal(s.profiles[id])
		if err != nil {
			scope.Log.WithField("player", id).Errorf("unable to encode rating profile: %s", err)
			continue
		}
		snapshot[string(id)] = string(encoded)
	}
	s.mu.RUnlock()

	if err := s.backend.Save(context.WithoutCancel(scope.Ctx), constants.NamespaceRatings, snapshot); err != nil {
		scope.Log.Errorf("unable to save ratings: %s", err)
	}
}
