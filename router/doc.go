// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

	mux := router.NewRouter(db, cfg)

Every route except /health and / runs through request logging and
identity resolution (X-User-ID).

# Endpoints

Users:

	POST /users                  - Register (display_name, email)
	GET  /users                  - All users, ?page=&limit= (admin)
	GET  /users/count            - Number of users (admin)
	GET  /users/me               - Caller's profile
	GET  /users/me/applications  - Caller's candidacies
	GET  /users/me/candidate     - Whether the caller is an approved candidate
	GET  /users/me/dashboard     - Candidate dashboard

Elections (writes are admin only):

	GET    /elections                   - ?status=&page=&limit=
	GET    /elections/stats
	GET    /elections/active            - latest ongoing election
	POST   /elections
	GET    /elections/{id}
	PATCH  /elections/{id}
	DELETE /elections/{id}
	GET    /elections/{id}/positions
	POST   /elections/{id}/positions
	PATCH  /elections/{id}/positions/{name}
	DELETE /elections/{id}/positions/{name}

Candidacies:

	GET   /elections/{id}/positions/{name}/candidates
	POST  /elections/{id}/candidacies
	GET   /elections/{id}/candidacies       - admin review list
	PATCH /elections/{id}/candidacies/{cid} - approve or reject
	GET   /elections/{id}/application-status

Voting and results:

	POST /elections/{id}/positions/{name}/votes
	GET  /elections/{id}/positions/{name}/tally - sealed until completed
	GET  /elections/{id}/results                - sealed until completed
	GET  /elections/{id}/ballot-count

Settings:

	GET    /settings
	PATCH  /settings - admin
	DELETE /settings - admin, back to defaults
*/
package router
