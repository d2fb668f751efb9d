// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rating

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/inexmode/arena/pkg/common"
	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/storage"
)

// History appends finalized match outcomes to the history namespace.
// Keys are ULIDs, so listing the namespace yields creation order.
type History struct {
	mu       sync.Mutex
	outcomes map[string]models.MatchOutcome
	backend  storage.Store
}

// NewHistory loads the persisted history. Corrupt rows are dropped with a
// warning, matching the rating store's fallback policy.
func NewHistory(scope *envelope.Scope, backend storage.Store) (*History, error) {
	h := &History{
		outcomes: make(map[string]models.MatchOutcome),
		backend:  backend,
	}

	raw, err := backend.Load(scope.Ctx, constants.NamespaceHistory)
	if err != nil {
		return nil, err
	}
	for key, value := range raw {
		var outcome models.MatchOutcome
		if err := json.Unmarshal([]byte(value), &outcome); err != nil {
			scope.Log.WithField("history", key).Warnf("dropping corrupt history row: %s", err)
			continue
		}
		h.outcomes[key] = outcome
	}

	return h, nil
}

// Append records one outcome and persists the namespace.
func (h *History) Append(scope *envelope.Scope, outcome models.MatchOutcome) {
	if outcome.HistoryID == "" {
		outcome.HistoryID = common.GenerateULID()
	}

	h.mu.Lock()
	h.outcomes[outcome.HistoryID] = outcome
	snapshot := make(map[string]string, len(h.outcomes))
	for key, o := range h.outcomes {
		encoded, err := json.Marshal(o)
		if err != nil {
			scope.Log.WithField("history", key).Errorf("unable to encode outcome: %s", err)
			continue
		}
		snapshot[key] = string(encoded)
	}
	h.mu.Unlock()

	if err := h.backend.Save(context.WithoutCancel(scope.Ctx), constants.NamespaceHistory, snapshot); err != nil {
		scope.Log.Errorf("unable to save match history: %s", err)
	}
}

// Recent returns up to n outcomes, newest first.
func (h *History) Recent(n int) []models.MatchOutcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys := make([]string, 0, len(h.outcomes))
	for key := range h.outcomes {
		keys = append(keys, key)
	}
	// ULID keys sort lexicographically by creation time.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	if n > len(keys) {
		n = len(keys)
	}
	out := make([]models.MatchOutcome, 0, n)
	for _, key := range keys[:n] {
		out = append(out, h.outcomes[key])
	}
	return out
}
