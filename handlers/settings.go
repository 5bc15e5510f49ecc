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

type SettingsHandler struct {
	svc *election.Service
}

func NewSettingsHandler(db *sql.DB, cfg cliparse.Config) *SettingsHandler {
	return &SettingsHandler{svc: election.NewService(db, cfg)}
}

// Get handles GET /settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Settings(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to get settings")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, st)
}

// Update handles PATCH /settings (admin)
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	st, err := h.svc.UpdateSettings(r.Context(), middleware.IdentityFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, err, "failed to update settings")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, st)
}

// Reset handles DELETE /settings (admin)
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.ResetSettings(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to reset settings")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, st)
}
