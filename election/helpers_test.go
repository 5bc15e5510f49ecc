// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func setupService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	return NewService(conn, testutil.GetTestConfig()), conn
}

func newAdmin(t *testing.T, conn *sql.DB) models.Identity {
	t.Helper()
	id := testutil.CreateTestUser(t, conn, "Admin", true)
	return models.Identity{ID: id, DisplayName: "Admin", IsAdmin: true}
}

func newVoter(t *testing.T, conn *sql.DB, name string) models.Identity {
	t.Helper()
	id := testutil.CreateTestUser(t, conn, name, false)
	return models.Identity{ID: id, DisplayName: name}
}

func assertKind(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("Expected %v, got %v", want, err)
	}
}
