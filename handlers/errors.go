// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
)

// writeServiceError maps an election error kind onto an HTTP response
func writeServiceError(w http.ResponseWriter, err error, op string) {
	kind := election.Kind(err)

	var status int
	switch kind {
	case election.ErrValidation:
		status = http.StatusBadRequest
	case election.ErrNotFound:
		status = http.StatusNotFound
	case election.ErrState, election.ErrConflict:
		status = http.StatusConflict
	case election.ErrAuth:
		status = http.StatusUnauthorized
	case election.ErrPermission:
		status = http.StatusForbidden
	case election.ErrUnavailable:
		slog.Error(op, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database error")
		return
	default:
		slog.Error(op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return
	}

	middleware.ErrorResponse(w, status, strings.TrimPrefix(err.Error(), kind.Error()+": "))
}
