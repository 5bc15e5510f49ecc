// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "test.db",
		DatabaseType:  cliparse.DatabaseSQLite,
		VoterSalt:     "test-voter-salt",
		AdminEmails:   []string{"admin@example.com"},
		SweepInterval: time.Minute,
	}
}

// CreateTestUser inserts a user and returns its ID
func CreateTestUser(t *testing.T, db *sql.DB, name string, isAdmin bool) string {
	t.Helper()

	id := auth.NewID()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "." + id[:8] + "@example.com"
	_, err := db.Exec(`
		INSERT INTO app_user (id, display_name, email, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, name, email, isAdmin, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestElection creates an election whose time window matches status
// ("upcoming", "ongoing" or "completed") and returns its ID
func CreateTestElection(t *testing.T, db *sql.DB, status string, positions ...string) string {
	t.Helper()

	now := time.Now().UTC()
	var start, end time.Time
	switch status {
	case "upcoming":
		start, end = now.Add(24*time.Hour), now.Add(8*24*time.Hour)
	case "ongoing":
		start, end = now.Add(-time.Hour), now.Add(24*time.Hour)
	case "completed":
		start, end = now.Add(-8*24*time.Hour), now.Add(-24*time.Hour)
	default:
		t.Fatalf("unknown election status %q", status)
	}

	id := auth.NewID()
	_, err := db.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date, status, status_locked, created_at, updated_at)
		VALUES ($1, 'Test Election', 'A test election', $2, $3, $4, $5, $6, $6)
	`, id, start, end, status, false, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	for _, p := range positions {
		AddTestPosition(t, db, id, p)
	}

	return id
}

// AddTestPosition adds a single-seat position to an election
func AddTestPosition(t *testing.T, db *sql.DB, electionID, name string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO election_position (election_id, name_key, name, seats, description, sort_order)
		VALUES ($1, $2, $3, 1, '', (SELECT COUNT(*) FROM election_position WHERE election_id = $1) + 1)
	`, electionID, strings.ToLower(name), name)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
}

// AddTestCandidacy records a candidacy with the given status and returns its ID
func AddTestCandidacy(t *testing.T, db *sql.DB, electionID, userID, position, status string) string {
	t.Helper()

	id := auth.NewID()
	_, err := db.Exec(`
		INSERT INTO candidacy (id, election_id, user_id, position_key, position_name, manifesto, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'Test manifesto', $6, $7)
	`, id, electionID, userID, strings.ToLower(position), position, status, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test candidacy: %v", err)
	}

	// Keep application order strictly increasing
	time.Sleep(time.Millisecond)

	return id
}

// CastTestBallots records n ballots from fresh voters for a candidacy
func CastTestBallots(t *testing.T, db *sql.DB, electionID, position, candidacyID string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		token, _ := auth.HashVoterToken(auth.NewID(), "test-voter-salt")
		_, err := db.Exec(`
			INSERT INTO ballot (id, election_id, position_key, candidacy_id, voter_token, cast_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.NewID(), electionID, strings.ToLower(position), candidacyID, token, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to create test ballot: %v", err)
		}
	}
}

// CountRows runs a COUNT(*) query and returns the result
func CountRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AsUser returns the header map identifying the caller
func AsUser(userID string) map[string]string {
	return map[string]string{"X-User-ID": userID}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
