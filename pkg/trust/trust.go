// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package trust owns the behavioral side of player state: trust profiles,
// infraction records, bans and the report log. The trust score is derived
// from the counters and recomputed whenever any counter changes.
package trust

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/storage"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// TrustChange describes a trust score movement, returned as data so the
// caller can notify the player after the critical section.
type TrustChange struct {
	PlayerID models.PlayerID
	Previous int
	Current  int
	Reason   string
}

// Engine is the authoritative owner of trust, infraction, ban and report
// state. Every mutation persists its namespace before returning.
type Engine struct {
	mu          sync.Mutex
	profiles    map[models.PlayerID]*models.TrustProfile
	infractions map[models.PlayerID]*models.InfractionRecord
	bans        map[models.PlayerID]*models.BanRecord
	reports     map[string]int64
	backend     storage.Store

	// Corrupted counts rows dropped on load across all namespaces.
	Corrupted int
}

// NewEngine loads the trust, infractions, bans and reports namespaces.
// Corrupt rows are dropped with a warning and the cleaned snapshots are
// re-saved immediately.
func NewEngine(scope *envelope.Scope, backend storage.Store) (*Engine, error) {
	e := &Engine{
		profiles:    make(map[models.PlayerID]*models.TrustProfile),
		infractions: make(map[models.PlayerID]*models.InfractionRecord),
		bans:        make(map[models.PlayerID]*models.BanRecord),
		reports:     make(map[string]int64),
		backend:     backend,
	}

	if err := e.load(scope); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(scope *envelope.Scope) error {
	corruptBefore := e.Corrupted

	raw, err := e.backend.Load(scope.Ctx, constants.NamespaceTrust)
	if err != nil {
		return err
	}
	for key, value := range raw {
		var profile models.TrustProfile
		if err := json.Unmarshal([]byte(value), &profile); err != nil {
			scope.Log.WithField("player", key).Warnf("dropping corrupt trust row: %s", err)
			e.Corrupted++
			continue
		}
		profile.PlayerID = models.PlayerID(key)
		e.profiles[profile.PlayerID] = &profile
	}

	raw, err = e.backend.Load(scope.Ctx, constants.NamespaceInfractions)
	if err != nil {
		return err
	}
	for key, value := range raw {
		var record models.InfractionRecord
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			scope.Log.WithField("player", key).Warnf("dropping corrupt infraction row: %s", err)
			e.Corrupted++
			continue
		}
		record.PlayerID = models.PlayerID(key)
		e.infractions[record.PlayerID] = &record
	}

	raw, err = e.backend.Load(scope.Ctx, constants.NamespaceBans)
	if err != nil {
		return err
	}
	for key, value := range raw {
		var ban models.BanRecord
		if err := json.Unmarshal([]byte(value), &ban); err != nil {
			scope.Log.WithField("player", key).Warnf("dropping corrupt ban row: %s", err)
			e.Corrupted++
			continue
		}
		ban.PlayerID = models.PlayerID(key)
		e.bans[ban.PlayerID] = &ban
	}

	raw, err = e.backend.Load(scope.Ctx, constants.NamespaceReports)
	if err != nil {
		return err
	}
	for key, value := range raw {
		var at int64
		if err := json.Unmarshal([]byte(value), &at); err != nil {
			scope.Log.WithField("report", key).Warnf("dropping corrupt report row: %s", err)
			e.Corrupted++
			continue
		}
		e.reports[key] = at
	}

	if e.Corrupted > corruptBefore {
		e.saveTrust(scope)
		e.saveInfractions(scope)
		e.saveBans(scope)
		e.saveReports(scope)
	}
	return nil
}

// TrustProfile returns a copy of the player's trust profile, defaulted when
// absent.
func (e *Engine) TrustProfile(playerID models.PlayerID) models.TrustProfile {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.profiles[playerID]; ok {
		return *p
	}
	return defaultTrustProfile(playerID)
}

// Infractions returns a copy of the player's infraction record, defaulted
// when absent.
func (e *Engine) Infractions(playerID models.PlayerID) models.InfractionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.infractions[playerID]; ok {
		return *r
	}
	return models.InfractionRecord{PlayerID: playerID, LastResetAt: Now().Unix()}
}

func defaultTrustProfile(playerID models.PlayerID) models.TrustProfile {
	return models.TrustProfile{
		PlayerID:   playerID,
		TrustScore: 100,
	}
}

// trustProfile returns the live profile, creating the default lazily.
// Callers hold e.mu.
func (e *Engine) trustProfile(playerID models.PlayerID) *models.TrustProfile {
	p, ok := e.profiles[playerID]
	if !ok {
		defaulted := defaultTrustProfile(playerID)
		p = &defaulted
		e.profiles[playerID] = p
	}
	return p
}

// infractionRecord returns the live record, creating the default lazily.
// Callers hold e.mu.
func (e *Engine) infractionRecord(playerID models.PlayerID) *models.InfractionRecord {
	r, ok := e.infractions[playerID]
	if !ok {
		r = &models.InfractionRecord{
			PlayerID:    playerID,
			LastResetAt: Now().Unix(),
		}
		e.infractions[playerID] = r
	}
	return r
}

// recompute refreshes the derived score and reports the movement, or nil
// when the score did not change. Callers hold e.mu.
func recompute(p *models.TrustProfile, reason string) *TrustChange {
	previous := p.TrustScore
	current := p.Recompute()
	if current == previous {
		return nil
	}
	return &TrustChange{
		PlayerID: p.PlayerID,
		Previous: previous,
		Current:  current,
		Reason:   reason,
	}
}

func (e *Engine) saveTrust(scope *envelope.Scope) {
	e.saveNamespace(scope, constants.NamespaceTrust, func() map[string]string {
		snapshot := make(map[string]string, len(e.profiles))
		for id, p := range e.profiles {
			if encoded, err := json.Marshal(p); err == nil {
				snapshot[string(id)] = string(encoded)
			}
		}
		return snapshot
	})
}

func (e *Engine) saveInfractions(scope *envelope.Scope) {
	e.saveNamespace(scope, constants.NamespaceInfractions, func() map[string]string {
		snapshot := make(map[string]string, len(e.infractions))
		for id, r := range e.infractions {
			if encoded, err := json.Marshal(r); err == nil {
				snapshot[string(id)] = string(encoded)
			}
		}
		return snapshot
	})
}

func (e *Engine) saveBans(scope *envelope.Scope) {
	e.saveNamespace(scope, constants.NamespaceBans, func() map[string]string {
		snapshot := make(map[string]string, len(e.bans))
		for id, b := range e.bans {
			if encoded, err := json.Marshal(b); err == nil {
				snapshot[string(id)] = string(encoded)
			}
		}
		return snapshot
	})
}

func (e *Engine) saveReports(scope *envelope.Scope) {
	e.saveNamespace(scope, constants.NamespaceReports, func() map[string]string {
		snapshot := make(map[string]string, len(e.reports))
		for key, at := range e.reports {
			if encoded, err := json.Marshal(at); err == nil {
				snapshot[key] = string(encoded)
			}
		}
		return snapshot
	})
}

// saveNamespace builds the snapshot under the engine lock and writes it
// outside of it. Durability is crash-only: a failed save is logged and the
// in-memory state stands.
func (e *Engine) saveNamespace(scope *envelope.Scope, namespace string, build func() map[string]string) {
	e.mu.Lock()
	snapshot := build()
	e.mu.Unlock()

	if err := e.backend.Save(context.WithoutCancel(scope.Ctx), namespace, snapshot); err != nil {
		scope.Log.WithField("namespace", namespace).Errorf("unable to save: %s", err)
	}
}
