// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs time-boxed elections: admins define elections and their
positions, users apply as candidates, admins approve them, and voters cast
one anonymous ballot per position while the election is ongoing.

# Starting the Server

	DATABASE_URL=elect.db VOTER_TOKEN_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -voter-salt ...

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - VOTER_TOKEN_SALT (-voter-salt): Secret for hashing voter identities

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - ADMIN_EMAILS (-admin-emails): Comma list of emails registered as admins
  - STATUS_SWEEP_INTERVAL (-sweep): How often stored statuses are reconciled (default: 1m)

# Reports

	go run . report -d elect.db <election-id>

prints the per-position tallies of one election as tables.

# Architecture

  - election: Lifecycle, candidacies, ballots, queries and the status sweep
  - users: User registration and identity resolution
  - handlers: HTTP request handlers over package election
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity, JSON helpers
  - models: Request/response and domain types
  - auth: IDs and voter token hashing
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing
  - report: Terminal result tables
*/
package main
