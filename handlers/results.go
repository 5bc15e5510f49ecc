// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type ResultsHandler struct {
	svc *election.Service
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: election.NewService(db, cfg)}
}

// GetResults handles GET /elections/{id}/results
// Returns 403 until the election is completed, unless the caller is an admin
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	if !unsealed(w, r, h.svc) {
		return
	}

	res, err := h.svc.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to compute results")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, res)
}

// GetBallotCount handles GET /elections/{id}/ballot-count
// Turnout is public while voting is open
func (h *ResultsHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.BallotCount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to count ballots")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.BallotCountResponse{BallotCount: n})
}

// unsealed writes the error response and returns false while the
// election's counts are hidden from the caller
func unsealed(w http.ResponseWriter, r *http.Request, svc *election.Service) bool {
	e, err := svc.GetElection(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to get election")
		return false
	}
	if e.Status != models.StatusCompleted && !middleware.IdentityFrom(r.Context()).IsAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the election is completed")
		return false
	}
	return true
}
