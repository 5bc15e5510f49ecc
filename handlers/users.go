// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/users"
)

type UserHandler struct {
	users *users.Store
	svc   *election.Service
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{
		users: users.NewStore(db, cfg.AdminEmails),
		svc:   election.NewService(db, cfg),
	}
}

// Register handles POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.users.Register(r.Context(), req.DisplayName, req.Email)
	switch {
	case errors.Is(err, users.ErrInvalidName), errors.Is(err, users.ErrInvalidEmail):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, users.ErrEmailTaken):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.Error("failed to register user", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, user)
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFrom(r.Context())
	if actor.Anonymous() {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	user, err := h.users.Get(r.Context(), actor.ID)
	if errors.Is(err, users.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// MyApplications handles GET /users/me/applications
func (h *UserHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.MyApplications(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to list applications")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, apps)
}

// IsCandidate handles GET /users/me/candidate
func (h *UserHandler) IsCandidate(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.IsCandidate(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to check candidacy")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.IsCandidateResponse{IsCandidate: ok})
}

// Dashboard handles GET /users/me/dashboard
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.DashboardFor(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to build dashboard")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, d)
}

// List handles GET /users?page=&limit= (admin)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePaging(w, r)
	if !ok {
		return
	}

	list, err := h.svc.ListUsers(r.Context(), middleware.IdentityFrom(r.Context()), page, limit)
	if err != nil {
		writeServiceError(w, err, "failed to list users")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Count handles GET /users/count (admin)
func (h *UserHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.CountUsers(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to count users")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.UserCountResponse{TotalUsers: n})
}
