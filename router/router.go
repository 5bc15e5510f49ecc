// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/users"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	electionHandler := handlers.NewElectionHandler(db, cfg)
	candidacyHandler := handlers.NewCandidacyHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)

	store := users.NewStore(db, cfg.AdminEmails)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithIdentity(store, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Users
	handle("POST /users", userHandler.Register)
	handle("GET /users", userHandler.List)
	handle("GET /users/count", userHandler.Count)
	handle("GET /users/me", userHandler.GetMe)
	handle("GET /users/me/applications", userHandler.MyApplications)
	handle("GET /users/me/candidate", userHandler.IsCandidate)
	handle("GET /users/me/dashboard", userHandler.Dashboard)

	// Elections and positions
	handle("GET /elections", electionHandler.List)
	handle("GET /elections/stats", electionHandler.Stats)
	handle("GET /elections/active", electionHandler.Active)
	handle("POST /elections", electionHandler.Create)
	handle("GET /elections/{id}", electionHandler.Get)
	handle("PATCH /elections/{id}", electionHandler.Edit)
	handle("DELETE /elections/{id}", electionHandler.Delete)
	handle("GET /elections/{id}/positions", electionHandler.Positions)
	handle("POST /elections/{id}/positions", electionHandler.AddPosition)
	handle("PATCH /elections/{id}/positions/{name}", electionHandler.EditPosition)
	handle("DELETE /elections/{id}/positions/{name}", electionHandler.RemovePosition)

	// Candidacies
	handle("GET /elections/{id}/positions/{name}/candidates", candidacyHandler.Candidates)
	handle("POST /elections/{id}/candidacies", candidacyHandler.Apply)
	handle("GET /elections/{id}/candidacies", candidacyHandler.List)
	handle("PATCH /elections/{id}/candidacies/{cid}", candidacyHandler.Decide)
	handle("GET /elections/{id}/application-status", candidacyHandler.ApplicationStatus)

	// Voting
	handle("POST /elections/{id}/positions/{name}/votes", votingHandler.SubmitVote)
	handle("GET /elections/{id}/positions/{name}/tally", votingHandler.Tally)

	// Results (sealed until completed)
	handle("GET /elections/{id}/results", resultsHandler.GetResults)
	handle("GET /elections/{id}/ballot-count", resultsHandler.GetBallotCount)

	// Settings
	handle("GET /settings", settingsHandler.Get)
	handle("PATCH /settings", settingsHandler.Update)
	handle("DELETE /settings", settingsHandler.Reset)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}
