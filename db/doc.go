// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

"postgres" uses github.com/lib/pq. "sqlite" (the default) uses the pure Go
modernc.org/sqlite driver with foreign keys enabled and a single pooled
connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: Registered users and the admin flag
  - election: Election metadata, time window and stored status
  - election_position: Positions per election, unique by lower-cased name
  - candidacy: Applications, one per (election, position, user)
  - ballot: Votes, one per (election, position, voter token)
  - app_setting: Admin settings, a single row once saved

# Relationships

	election 1──* election_position
	election 1──* candidacy
	election 1──* ballot
	candidacy 1──* ballot
	app_user 1──* candidacy

All foreign keys use ON DELETE CASCADE.

# Constraint Errors

IsUniqueViolation recognizes unique constraint failures from both drivers
(PostgreSQL SQLSTATE 23505, SQLite SQLITE_CONSTRAINT_UNIQUE):

	if db.IsUniqueViolation(err) {
		// duplicate vote or application
	}
*/
package db
