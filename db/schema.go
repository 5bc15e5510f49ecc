// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types both SQLite and PostgreSQL understand.
// Timestamps are always written by the application in UTC.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    status TEXT NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'ongoing', 'completed')),
    status_locked BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    CHECK (start_date < end_date)
);

CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);

-- Positions
CREATE TABLE IF NOT EXISTS election_position (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name_key TEXT NOT NULL,
    name TEXT NOT NULL,
    seats INTEGER NOT NULL CHECK (seats >= 1),
    description TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL,
    PRIMARY KEY (election_id, name_key)
);

-- Candidacies
CREATE TABLE IF NOT EXISTS candidacy (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    position_key TEXT NOT NULL,
    position_name TEXT NOT NULL,
    party TEXT NOT NULL DEFAULT '',
    manifesto TEXT NOT NULL,
    poster TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    created_at TIMESTAMP NOT NULL,
    decided_at TIMESTAMP,
    UNIQUE (election_id, position_key, user_id)
);

CREATE INDEX IF NOT EXISTS idx_candidacy_election ON candidacy(election_id, position_key);
CREATE INDEX IF NOT EXISTS idx_candidacy_user ON candidacy(user_id);

-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    position_key TEXT NOT NULL,
    candidacy_id TEXT NOT NULL REFERENCES candidacy(id) ON DELETE CASCADE,
    voter_token TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (election_id, position_key, voter_token)
);

CREATE INDEX IF NOT EXISTS idx_ballot_candidacy ON ballot(candidacy_id);

-- Admin settings, at most one row
CREATE TABLE IF NOT EXISTS app_setting (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    school_name TEXT NOT NULL DEFAULT '',
    max_candidates_per_election INTEGER NOT NULL CHECK (max_candidates_per_election >= 0),
    updated_at TIMESTAMP NOT NULL
);
`
