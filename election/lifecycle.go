// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
)

// ComputeStatus maps a point in time onto an election window. The boundaries
// themselves (now == start, now == end) count as ongoing.
func ComputeStatus(now, start, end time.Time) string {
	switch {
	case now.Before(start):
		return models.StatusUpcoming
	case now.After(end):
		return models.StatusCompleted
	default:
		return models.StatusOngoing
	}
}

// EffectiveStatus is the status operations are gated on: the forced status
// when an admin locked one, otherwise the status computed from the window.
func EffectiveStatus(e models.Election, now time.Time) string {
	if e.StatusLocked {
		return e.Status
	}
	return ComputeStatus(now, e.StartDate, e.EndDate)
}

// CreateElection validates and stores a new election. Admin creation only
// accepts windows that start in the future.
func (s *Service) CreateElection(ctx context.Context, actor models.Identity, req models.CreateElectionRequest) (models.Election, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Election{}, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	switch {
	case title == "":
		return models.Election{}, validationf("title is required")
	case description == "":
		return models.Election{}, validationf("description is required")
	case req.StartDate.IsZero():
		return models.Election{}, validationf("start_date is required")
	case req.EndDate.IsZero():
		return models.Election{}, validationf("end_date is required")
	}

	start, end := req.StartDate.UTC(), req.EndDate.UTC()
	if !start.Before(end) {
		return models.Election{}, validationf("end date must be after start date")
	}

	now := s.clock()
	if start.Before(now) {
		return models.Election{}, validationf("start date must be in the future")
	}

	seen := make(map[string]bool)
	positions := make([]models.Position, 0, len(req.Positions))
	for _, in := range req.Positions {
		p, err := validatePosition(in)
		if err != nil {
			return models.Election{}, err
		}
		if seen[positionKey(p.Name)] {
			return models.Election{}, validationf("duplicate position %q", p.Name)
		}
		seen[positionKey(p.Name)] = true
		positions = append(positions, p)
	}

	e := models.Election{
		ID:          auth.NewID(),
		Title:       title,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		Status:      ComputeStatus(now, start, end),
		Positions:   positions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO election (id, title, description, start_date, end_date, status, status_locked, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, e.ID, e.Title, e.Description, e.StartDate, e.EndDate, e.Status, false, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return storeErr("insert election", err)
		}

		for i, p := range positions {
			if err := insertPosition(ctx, tx, e.ID, p, i+1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Election{}, err
	}

	slog.Info("election created", "election_id", e.ID, "status", e.Status, "positions", len(positions))
	return e, nil
}

// EditElection applies the non-nil fields of req. Setting a status locks it
// against the status sweep; editing dates without a status releases the lock.
func (s *Service) EditElection(ctx context.Context, actor models.Identity, id string, req models.EditElectionRequest) (models.Election, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Election{}, err
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		return models.Election{}, validationf("status must be one of upcoming, ongoing, completed")
	}

	var updated models.Election
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.clock()
		e, err := loadElection(ctx, tx, id, now)
		if err != nil {
			return err
		}

		if req.Title != nil {
			if strings.TrimSpace(*req.Title) == "" {
				return validationf("title cannot be empty")
			}
			e.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			if strings.TrimSpace(*req.Description) == "" {
				return validationf("description cannot be empty")
			}
			e.Description = strings.TrimSpace(*req.Description)
		}
		datesChanged := false
		if req.StartDate != nil {
			e.StartDate = req.StartDate.UTC()
			datesChanged = true
		}
		if req.EndDate != nil {
			e.EndDate = req.EndDate.UTC()
			datesChanged = true
		}
		if !e.StartDate.Before(e.EndDate) {
			return validationf("end date must be after start date")
		}

		switch {
		case req.Status != nil:
			e.Status = *req.Status
			e.StatusLocked = true
		case datesChanged:
			e.StatusLocked = false
			e.Status = ComputeStatus(now, e.StartDate, e.EndDate)
		}
		e.UpdatedAt = now

		_, err = tx.ExecContext(ctx, `
			UPDATE election
			SET title = $1, description = $2, start_date = $3, end_date = $4,
			    status = $5, status_locked = $6, updated_at = $7
			WHERE id = $8
		`, e.Title, e.Description, e.StartDate, e.EndDate, e.Status, e.StatusLocked, e.UpdatedAt, e.ID)
		if err != nil {
			return storeErr("update election", err)
		}

		updated = e
		return nil
	})
	if err != nil {
		return models.Election{}, err
	}

	slog.Info("election updated", "election_id", id, "status", updated.Status, "status_locked", updated.StatusLocked)
	return updated, nil
}

// DeleteElection removes an election with all of its positions, candidacies
// and ballots
func (s *Service) DeleteElection(ctx context.Context, actor models.Identity, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return storeErr("query election", err)
		}
		if !exists {
			return notFoundf("election %s", id)
		}

		for _, stmt := range []string{
			`DELETE FROM ballot WHERE election_id = $1`,
			`DELETE FROM candidacy WHERE election_id = $1`,
			`DELETE FROM election_position WHERE election_id = $1`,
			`DELETE FROM election WHERE id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return storeErr("delete election", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("election deleted", "election_id", id)
	return nil
}

func insertPosition(ctx context.Context, q querier, electionID string, p models.Position, order int) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO election_position (election_id, name_key, name, seats, description, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, electionID, positionKey(p.Name), p.Name, p.Seats, p.Description, order)
	if db.IsUniqueViolation(err) {
		return conflictf("position %q already exists in this election", p.Name)
	}
	if err != nil {
		return storeErr("insert position", err)
	}
	return nil
}
