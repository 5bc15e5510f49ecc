// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

func validatePosition(in models.PositionInput) (models.Position, error) {
	p := models.Position{
		Name:        strings.TrimSpace(in.Name),
		Seats:       in.Seats,
		Description: strings.TrimSpace(in.Description),
	}
	if p.Name == "" {
		return models.Position{}, validationf("position_name is required")
	}
	if p.Seats < 1 {
		return models.Position{}, validationf("seats must be at least 1")
	}
	return p, nil
}

// AddPosition appends a position to an election
func (s *Service) AddPosition(ctx context.Context, actor models.Identity, electionID string, in models.PositionInput) (models.Election, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Election{}, err
	}
	p, err := validatePosition(in)
	if err != nil {
		return models.Election{}, err
	}

	var e models.Election
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		e, err = loadElection(ctx, tx, electionID, s.clock())
		if err != nil {
			return err
		}
		if _, ok := findPosition(e, p.Name); ok {
			return conflictf("position %q already exists in this election", p.Name)
		}

		var order int
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(sort_order), 0) + 1 FROM election_position WHERE election_id = $1
		`, electionID).Scan(&order)
		if err != nil {
			return storeErr("query position order", err)
		}

		if err := insertPosition(ctx, tx, electionID, p, order); err != nil {
			return err
		}
		e.Positions = append(e.Positions, p)
		return touch(ctx, tx, &e, s.clock())
	})
	if err != nil {
		return models.Election{}, err
	}

	slog.Info("position added", "election_id", electionID, "position", p.Name)
	return e, nil
}

// EditPosition updates a position in place. A rename carries the position's
// candidacies and ballots over to the new name.
func (s *Service) EditPosition(ctx context.Context, actor models.Identity, electionID, name string, req models.EditPositionRequest) (models.Election, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Election{}, err
	}

	var e models.Election
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		e, err = loadElection(ctx, tx, electionID, s.clock())
		if err != nil {
			return err
		}
		current, ok := findPosition(e, name)
		if !ok {
			return notFoundf("position %q not found in this election", name)
		}

		next := models.PositionInput{Name: current.Name, Seats: current.Seats, Description: current.Description}
		if req.Name != nil {
			next.Name = *req.Name
		}
		if req.Seats != nil {
			next.Seats = *req.Seats
		}
		if req.Description != nil {
			next.Description = *req.Description
		}
		p, err := validatePosition(next)
		if err != nil {
			return err
		}

		oldKey, newKey := positionKey(current.Name), positionKey(p.Name)
		if newKey != oldKey {
			if _, taken := findPosition(e, p.Name); taken {
				return conflictf("position %q already exists in this election", p.Name)
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE election_position
			SET name_key = $1, name = $2, seats = $3, description = $4
			WHERE election_id = $5 AND name_key = $6
		`, newKey, p.Name, p.Seats, p.Description, electionID, oldKey)
		if err != nil {
			return storeErr("update position", err)
		}

		if newKey != oldKey || p.Name != current.Name {
			_, err = tx.ExecContext(ctx, `
				UPDATE candidacy SET position_key = $1, position_name = $2
				WHERE election_id = $3 AND position_key = $4
			`, newKey, p.Name, electionID, oldKey)
			if err != nil {
				return storeErr("rename candidacy position", err)
			}
			_, err = tx.ExecContext(ctx, `
				UPDATE ballot SET position_key = $1
				WHERE election_id = $2 AND position_key = $3
			`, newKey, electionID, oldKey)
			if err != nil {
				return storeErr("rename ballot position", err)
			}
		}

		for i := range e.Positions {
			if positionKey(e.Positions[i].Name) == oldKey {
				e.Positions[i] = p
			}
		}
		return touch(ctx, tx, &e, s.clock())
	})
	if err != nil {
		return models.Election{}, err
	}

	slog.Info("position updated", "election_id", electionID, "position", name)
	return e, nil
}

// RemovePosition deletes a position and its candidacies. Positions that
// already hold ballots cannot be removed.
func (s *Service) RemovePosition(ctx context.Context, actor models.Identity, electionID, name string) (models.Election, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Election{}, err
	}

	var e models.Election
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		e, err = loadElection(ctx, tx, electionID, s.clock())
		if err != nil {
			return err
		}
		current, ok := findPosition(e, name)
		if !ok {
			return notFoundf("position %q not found in this election", name)
		}
		key := positionKey(current.Name)

		var ballots int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM ballot WHERE election_id = $1 AND position_key = $2
		`, electionID, key).Scan(&ballots)
		if err != nil {
			return storeErr("count ballots", err)
		}
		if ballots > 0 {
			return statef("position %q already has %d ballots", current.Name, ballots)
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM candidacy WHERE election_id = $1 AND position_key = $2
		`, electionID, key); err != nil {
			return storeErr("delete candidacies", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM election_position WHERE election_id = $1 AND name_key = $2
		`, electionID, key); err != nil {
			return storeErr("delete position", err)
		}

		kept := e.Positions[:0]
		for _, p := range e.Positions {
			if positionKey(p.Name) != key {
				kept = append(kept, p)
			}
		}
		e.Positions = kept
		return touch(ctx, tx, &e, s.clock())
	})
	if err != nil {
		return models.Election{}, err
	}

	slog.Info("position removed", "election_id", electionID, "position", name)
	return e, nil
}

func touch(ctx context.Context, q querier, e *models.Election, now time.Time) error {
	e.UpdatedAt = now
	if _, err := q.ExecContext(ctx, `UPDATE election SET updated_at = $1 WHERE id = $2`, now, e.ID); err != nil {
		return storeErr("touch election", err)
	}
	return nil
}
