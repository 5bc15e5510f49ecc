// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type VotingHandler struct {
	svc *election.Service
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: election.NewService(db, cfg)}
}

// SubmitVote handles POST /elections/{id}/positions/{name}/votes
// One ballot per voter per position; a second one is a 409.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.CandidateID) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	b, err := h.svc.SubmitVote(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), r.PathValue("name"), req.CandidateID)
	if err != nil {
		writeServiceError(w, err, "failed to submit vote")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		BallotID: b.ID,
		CastAt:   b.CastAt,
		Message:  "Vote recorded",
	})
}

// Tally handles GET /elections/{id}/positions/{name}/tally
// Sealed like the results until the election completes, unless admin.
func (h *VotingHandler) Tally(w http.ResponseWriter, r *http.Request) {
	if !unsealed(w, r, h.svc) {
		return
	}

	entries, err := h.svc.Tally(r.Context(), r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err, "failed to tally")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}
