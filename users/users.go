// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidName  = errors.New("display name must be 1-100 characters")
	ErrEmailTaken   = errors.New("email already registered")
	ErrEmailBlocked = errors.New("email belongs to an administrator; register and apply signed in")
)

// Querier is satisfied by *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db          *sql.DB
	adminEmails map[string]bool
}

func NewStore(db *sql.DB, adminEmails []string) *Store {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = true
	}
	return &Store{db: db, adminEmails: admins}
}

// Register creates a user. Emails listed in the admin set get the admin flag.
func (s *Store) Register(ctx context.Context, displayName, email string) (models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" || len(displayName) > 100 {
		return models.User{}, ErrInvalidName
	}
	email, err := parseEmail(email)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:          auth.NewID(),
		DisplayName: displayName,
		Email:       email,
		IsAdmin:     s.adminEmails[email],
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, display_name, email, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.DisplayName, user.Email, user.IsAdmin, user.CreatedAt)
	if db.IsUniqueViolation(err) {
		return models.User{}, ErrEmailTaken
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "is_admin", user.IsAdmin)
	return user, nil
}

// Get returns the user with the given ID
func (s *Store) Get(ctx context.Context, id string) (models.User, error) {
	return get(ctx, s.db, id)
}

// Resolve turns a user ID into the identity handed to the election engine
func (s *Store) Resolve(ctx context.Context, id string) (models.Identity, error) {
	user, err := get(ctx, s.db, id)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{ID: user.ID, DisplayName: user.DisplayName, IsAdmin: user.IsAdmin}, nil
}

// List returns users in registration order. A zero limit returns everyone;
// otherwise page is 1-based.
func (s *Store) List(ctx context.Context, page, limit int) ([]models.User, error) {
	query := `
		SELECT id, display_name, email, is_admin, created_at
		FROM app_user
		ORDER BY created_at, id`
	var args []any
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	list := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.DisplayName, &user.Email, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.CreatedAt = user.CreatedAt.UTC()
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return list, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func get(ctx context.Context, q Querier, id string) (models.User, error) {
	if !auth.ValidID(id) {
		return models.User{}, ErrNotFound
	}

	var user models.User
	err := q.QueryRowContext(ctx, `
		SELECT id, display_name, email, is_admin, created_at
		FROM app_user
		WHERE id = $1
	`, id).Scan(&user.ID, &user.DisplayName, &user.Email, &user.IsAdmin, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// FindOrCreate looks a user up by email, creating a non-admin user with the
// given name when none exists. Runs on q so callers can keep it inside their
// transaction. Admin accounts, and emails reserved for them, are never
// handed out this way.
func (s *Store) FindOrCreate(ctx context.Context, q Querier, displayName, email string) (models.User, bool, error) {
	email, err := parseEmail(email)
	if err != nil {
		return models.User{}, false, err
	}
	if s.adminEmails[email] {
		return models.User{}, false, ErrEmailBlocked
	}

	var user models.User
	err = q.QueryRowContext(ctx, `
		SELECT id, display_name, email, is_admin, created_at
		FROM app_user
		WHERE email = $1
	`, email).Scan(&user.ID, &user.DisplayName, &user.Email, &user.IsAdmin, &user.CreatedAt)
	if err == nil {
		if user.IsAdmin {
			return models.User{}, false, ErrEmailBlocked
		}
		return user, false, nil
	}
	if err != sql.ErrNoRows {
		return models.User{}, false, fmt.Errorf("failed to query user: %w", err)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" || len(displayName) > 100 {
		return models.User{}, false, ErrInvalidName
	}

	user = models.User{
		ID:          auth.NewID(),
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO app_user (id, display_name, email, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.DisplayName, user.Email, false, user.CreatedAt)
	if db.IsUniqueViolation(err) {
		return models.User{}, false, ErrEmailTaken
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, true, nil
}

func parseEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return normalizeEmail(addr.Address), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
