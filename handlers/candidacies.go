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

type CandidacyHandler struct {
	svc *election.Service
}

func NewCandidacyHandler(db *sql.DB, cfg cliparse.Config) *CandidacyHandler {
	return &CandidacyHandler{svc: election.NewService(db, cfg)}
}

// Apply handles POST /elections/{id}/candidacies
// Anonymous callers must include full_name and email.
func (h *CandidacyHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req models.ApplyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.svc.ApplyForPosition(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err, "failed to apply")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// List handles GET /elections/{id}/candidacies (admin)
func (h *CandidacyHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ElectionCandidacies(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to list candidacies")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}

// Decide handles PATCH /elections/{id}/candidacies/{cid} (admin)
func (h *CandidacyHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req models.SetApprovalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Approved == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "approved is required")
		return
	}

	c, err := h.svc.SetApproval(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), r.PathValue("cid"), *req.Approved)
	if err != nil {
		writeServiceError(w, err, "failed to decide candidacy")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// ApplicationStatus handles GET /elections/{id}/application-status
func (h *CandidacyHandler) ApplicationStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ApplicationStatus(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to get application status")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Candidates handles GET /elections/{id}/positions/{name}/candidates
func (h *CandidacyHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.CandidatesForPosition(r.Context(), r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err, "failed to list candidates")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}
