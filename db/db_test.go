// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lib/pq"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "schema.db")
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(TypeSQLite, openTestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	conn, err := Open(TypeSQLite, openTestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	insert := `INSERT INTO app_user (id, display_name, email, is_admin, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := conn.Exec(insert, "u1", "Ada", "ada@example.com", false, now); err != nil {
		t.Fatal(err)
	}

	_, err = conn.Exec(insert, "u2", "Ada Again", "ada@example.com", false, now)
	if err == nil {
		t.Fatal("expected unique violation on duplicate email")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation() = false for %v", err)
	}
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"foreign key violation", &pq.Error{Code: "23503"}, false},
		{"wrapped", errors.Join(errors.New("insert ballot"), &pq.Error{Code: "23505"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	conn, err := Open(TypeSQLite, openTestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	_, err = conn.Exec(`
		INSERT INTO election_position (election_id, name_key, name, seats, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`, "missing-election", "president", "President", 1, 1)
	if err == nil {
		t.Error("expected foreign key failure for unknown election")
	}
}
