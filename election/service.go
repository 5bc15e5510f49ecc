// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/users"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Service runs every election, candidacy and ballot operation against the
// shared store. It keeps no state between calls.
type Service struct {
	db    *sql.DB
	users *users.Store
	salt  string
	now   func() time.Time
}

func NewService(db *sql.DB, cfg cliparse.Config) *Service {
	return &Service{
		db:    db,
		users: users.NewStore(db, cfg.AdminEmails),
		salt:  cfg.VoterSalt,
		now:   time.Now,
	}
}

// WithClock replaces the wall clock, for tests and imports
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}

func requireIdentity(actor models.Identity) error {
	if actor.Anonymous() {
		return ErrAuth
	}
	return nil
}

func requireAdmin(actor models.Identity) error {
	if actor.Anonymous() {
		return ErrAuth
	}
	if !actor.IsAdmin {
		return ErrPermission
	}
	return nil
}

// positionKey is the case-folded form used for all position comparisons
func positionKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// loadElection reads an election with its positions. Status is the
// effective status at now.
func loadElection(ctx context.Context, q querier, id string, now time.Time) (models.Election, error) {
	if !auth.ValidID(id) {
		return models.Election{}, notFoundf("election %s", id)
	}

	var e models.Election
	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, start_date, end_date, status, status_locked, created_at, updated_at
		FROM election
		WHERE id = $1
	`, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.Status, &e.StatusLocked, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Election{}, notFoundf("election %s", id)
	}
	if err != nil {
		return models.Election{}, storeErr("query election", err)
	}
	normalizeTimes(&e)
	e.Status = EffectiveStatus(e, now)

	e.Positions, err = loadPositions(ctx, q, id)
	if err != nil {
		return models.Election{}, err
	}
	return e, nil
}

func loadPositions(ctx context.Context, q querier, electionID string) ([]models.Position, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT name, seats, description
		FROM election_position
		WHERE election_id = $1
		ORDER BY sort_order, name_key
	`, electionID)
	if err != nil {
		return nil, storeErr("query positions", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.Name, &p.Seats, &p.Description); err != nil {
			return nil, storeErr("scan position", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate positions", err)
	}
	return positions, nil
}

// findPosition matches name case-insensitively
func findPosition(e models.Election, name string) (models.Position, bool) {
	key := positionKey(name)
	for _, p := range e.Positions {
		if positionKey(p.Name) == key {
			return p, true
		}
	}
	return models.Position{}, false
}

func normalizeTimes(e *models.Election) {
	e.StartDate = e.StartDate.UTC()
	e.EndDate = e.EndDate.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
}

func summarize(e models.Election) models.ElectionSummary {
	return models.ElectionSummary{
		ID:        e.ID,
		Title:     e.Title,
		Status:    e.Status,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
	}
}
