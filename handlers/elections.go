// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type ElectionHandler struct {
	svc *election.Service
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{svc: election.NewService(db, cfg)}
}

// List handles GET /elections?status=&page=&limit=
func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePaging(w, r)
	if !ok {
		return
	}

	filter := models.ElectionFilter{Status: r.URL.Query().Get("status"), Page: page, Limit: limit}
	elections, err := h.svc.ListElections(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "failed to list elections")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}

// Active handles GET /elections/active
func (h *ElectionHandler) Active(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.ActiveElection(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to get active election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// Stats handles GET /elections/stats
func (h *ElectionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.CountByStatus(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to count elections")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, counts)
}

// Create handles POST /elections (admin)
func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.CreateElection(r.Context(), middleware.IdentityFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, err, "failed to create election")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, e)
}

// Get handles GET /elections/{id}
func (h *ElectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.GetElection(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to get election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// Edit handles PATCH /elections/{id} (admin)
// A status in the body pins the election to it; dates alone release the pin.
func (h *ElectionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req models.EditElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.EditElection(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err, "failed to edit election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// Delete handles DELETE /elections/{id} (admin)
func (h *ElectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteElection(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err, "failed to delete election")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Positions handles GET /elections/{id}/positions
func (h *ElectionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.svc.Positions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to list positions")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, positions)
}

// AddPosition handles POST /elections/{id}/positions (admin)
func (h *ElectionHandler) AddPosition(w http.ResponseWriter, r *http.Request) {
	var req models.PositionInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.AddPosition(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err, "failed to add position")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, e)
}

// EditPosition handles PATCH /elections/{id}/positions/{name} (admin)
func (h *ElectionHandler) EditPosition(w http.ResponseWriter, r *http.Request) {
	var req models.EditPositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.EditPosition(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), r.PathValue("name"), req)
	if err != nil {
		writeServiceError(w, err, "failed to edit position")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// RemovePosition handles DELETE /elections/{id}/positions/{name} (admin)
func (h *ElectionHandler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.RemovePosition(r.Context(), middleware.IdentityFrom(r.Context()), r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err, "failed to remove position")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// parsePaging reads the optional page and limit query parameters. It writes
// a 400 and returns false when either is not a number.
func parsePaging(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{{"page", &page}, {"limit", &limit}} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid "+p.key)
			return 0, 0, false
		}
		*p.dst = n
	}
	return page, limit, true
}
