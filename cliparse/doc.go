// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

LoadDotEnv reads a .env file when one exists; variables already set in the
environment win.

# Server Config

	cfg, err := cliparse.ParseFlags(os.Args[1:])

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - VoterSalt: Secret for voter token hashing (required)
  - AdminEmails: Emails that register as admins
  - SweepInterval: Status sweep period (default: 1m)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-voter-salt    Voter token salt
	-admin-emails  Comma separated admin emails
	-sweep         Status sweep interval

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	VOTER_TOKEN_SALT      → -voter-salt
	ADMIN_EMAILS          → -admin-emails
	STATUS_SWEEP_INTERVAL → -sweep

# Report Config

ParseReportFlags accepts -d, -t, -no-color and the election ID either as -e
or as the first positional argument.
*/
package cliparse
