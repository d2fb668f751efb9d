// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

type errorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrAlreadyQueued), errors.Is(err, models.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, models.ErrNotInQueue), errors.Is(err, models.ErrMatchNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrBanned):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrSelfReport):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{
		ErrorCode:    models.ErrorCode(err),
		ErrorMessage: err.Error(),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			ErrorCode:    models.ErrorCode(err),
			ErrorMessage: "invalid request body",
		})
		return false
	}
	return true
}

func requestScope(r *http.Request, name string) *envelope.Scope {
	return envelope.ChildScopeFromRemoteScope(r.Context(), name)
}

func (s *Server) handleQueues(w http.ResponseWriter, _ *http.Request) {
	lengths := make(map[string]int, len(models.Modes()))
	for _, mode := range models.Modes() {
		lengths[string(mode)] = s.engine.QueueLen(mode)
	}
	writeJSON(w, http.StatusOK, lengths)
}

func (s *Server) handleJoinQueue(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, "handleJoinQueue")
	defer scope.Finish()

	var body struct {
		PlayerID models.PlayerID `json:"player_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	mode := models.Mode(chi.URLParam(r, "mode"))
	if !mode.Valid() || body.PlayerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			ErrorCode:    models.ErrorCode(models.ErrInvalidTransition),
			ErrorMessage: "unknown queue mode or missing player_id",
		})
		return
	}

	entry, err := s.engine.JoinQueue(scope, body.PlayerID, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleLeaveQueue(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, "handleLeaveQueue")
	defer scope.Finish()

	playerID := models.PlayerID(chi.URLParam(r, "playerID"))
	mode, err := s.engine.LeaveQueue(scope, playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": string(mode)})
}

func (s *Server) handleMatches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Matches())
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	matchID := models.MatchID(chi.URLParam(r, "matchID"))
	match, ok := s.engine.Match(matchID)
	if !ok {
		writeError(w, models.ErrMatchNotFound)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// matchAction factors the shared shape of ready/cancel/confirm/reject.
func (s *Server) matchAction(w http.ResponseWriter, r *http.Request, name string,
	action func(scope *envelope.Scope, matchID models.MatchID, playerID models.PlayerID) error) {
	scope := requestScope(r, name)
	defer scope.Finish()

	var body struct {
		PlayerID models.PlayerID `json:"player_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	matchID := models.MatchID(chi.URLParam(r, "matchID"))

	if err := action(scope, matchID, body.PlayerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.matchAction(w, r, "handleReady", s.engine.MarkReady)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.matchAction(w, r, "handleCancel", s.engine.Cancel)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	s.matchAction(w, r, "handleConfirm", s.engine.Confirm)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.matchAction(w, r, "handleReject", s.engine.Reject)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, "handleResult")
	defer scope.Finish()

	var body struct {
		Reporter     models.PlayerID `json:"reporter"`
		WinnerPlayer models.PlayerID `json:"winner_player,omitempty"`
		WinnerSide   models.Side     `json:"winner_side,omitempty"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	matchID := models.MatchID(chi.URLParam(r, "matchID"))
	winner := models.Winner{Player: body.WinnerPlayer, Side: body.WinnerSide}

	if err := s.engine.ReportResult(scope, matchID, body.Reporter, winner); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, "handleReport")
	defer scope.Finish()

	var body struct {
		Reporter models.PlayerID `json:"reporter"`
		Target   models.PlayerID `json:"target"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	outcome, err := s.engine.Report(scope, body.Reporter, body.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, "handlePlayer")
	defer scope.Finish()

	playerID := models.PlayerID(chi.URLParam(r, "playerID"))
	response := struct {
		Rating      models.RatingProfile    `json:"rating"`
		Trust       models.TrustProfile     `json:"trust"`
		Infractions models.InfractionRecord `json:"infractions"`
		BanStatus   models.BanStatus        `json:"ban_status"`
		Ban         *models.BanRecord       `json:"ban,omitempty"`
	}{
		Rating:      s.ratings.Profile(playerID),
		Trust:       s.trust.TrustProfile(playerID),
		Infractions: s.trust.Infractions(playerID),
		BanStatus:   s.trust.BanStatus(scope, playerID),
	}
	if ban, ok := s.trust.BanInfo(playerID); ok {
		response.Ban = &ban
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, s.history.Recent(limit))
}

func (s *Server) handleBan(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, "handleBan")
	defer scope.Finish()

	var body struct {
		PlayerID models.PlayerID `json:"player_id"`
		Seconds  int64           `json:"seconds,omitempty"`
		Reason   string          `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var duration *time.Duration
	if body.Seconds > 0 {
		d := time.Duration(body.Seconds) * time.Second
		duration = &d
	}
	ban := s.trust.Ban(scope, body.PlayerID, duration, body.Reason)
	writeJSON(w, http.StatusCreated, ban)
}

func (s *Server) handleUnban(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, "handleUnban")
	defer scope.Finish()

	playerID := models.PlayerID(chi.URLParam(r, "playerID"))
	if !s.trust.Unban(scope, playerID) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			ErrorCode:    models.ErrorCode(models.ErrMatchNotFound),
			ErrorMessage: "no active ban for player",
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
