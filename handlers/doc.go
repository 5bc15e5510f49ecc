// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct built from the database and config:

  - ElectionHandler: Election and position management
  - CandidacyHandler: Applications, review and candidate listings
  - VotingHandler: Ballot submission and per-position tallies
  - ResultsHandler: Sealed results and turnout
  - UserHandler: Registration, self-service views, the candidate dashboard
    and the admin user list
  - SettingsHandler: Admin settings such as the approval cap

	electionHandler := handlers.NewElectionHandler(db, cfg)

Handlers do no validation of their own beyond decoding JSON, required
body fields and numeric query parameters. All rules live
in package election; writeServiceError maps its error kinds to status
codes:

	ErrValidation  → 400
	ErrAuth        → 401
	ErrPermission  → 403
	ErrNotFound    → 404
	ErrState       → 409
	ErrConflict    → 409
	ErrUnavailable → 503

# Identity

The caller is read from the request context, set by middleware.WithIdentity
from the X-User-ID header. Admin operations check the resolved identity's
admin flag.

# Sealed Results

Results and tallies return 403 until the election is completed, except for
admins. Ballot counts are always public.
*/
package handlers
