// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/users"
)

const candidacyColumns = `c.id, c.election_id, c.user_id, c.position_name, c.party, c.manifesto,
	c.poster, c.status, c.created_at, c.decided_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidacy(row scanner, extra ...any) (models.Candidacy, error) {
	var c models.Candidacy
	var decided sql.NullTime
	dest := append([]any{
		&c.ID, &c.ElectionID, &c.UserID, &c.PositionName, &c.Party, &c.Manifesto,
		&c.Poster, &c.Status, &c.CreatedAt, &decided,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Candidacy{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	if decided.Valid {
		t := decided.Time.UTC()
		c.DecidedAt = &t
	}
	return c, nil
}

// ApplyForPosition records a pending candidacy. Applications are accepted
// only while the election is upcoming. An anonymous caller applies as a
// guest and is matched to (or registered as) a user by email.
func (s *Service) ApplyForPosition(ctx context.Context, actor models.Identity, electionID string, req models.ApplyRequest) (models.Candidacy, error) {
	manifesto := strings.TrimSpace(req.Manifesto)

	var c models.Candidacy
	var createdUser bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.clock()
		e, err := loadElection(ctx, tx, electionID, now)
		if err != nil {
			return err
		}
		if e.Status != models.StatusUpcoming {
			return statef("applications are closed: election is %s", e.Status)
		}
		position, ok := findPosition(e, req.PositionName)
		if !ok {
			return validationf("position %q not found in election", req.PositionName)
		}
		if manifesto == "" {
			return validationf("manifesto is required")
		}
		if actor.Anonymous() && (strings.TrimSpace(req.GuestName) == "" || strings.TrimSpace(req.GuestEmail) == "") {
			return validationf("full name and email are required for guest applications")
		}

		userID := actor.ID
		if actor.Anonymous() {
			user, created, err := s.users.FindOrCreate(ctx, tx, req.GuestName, req.GuestEmail)
			switch {
			case errors.Is(err, users.ErrInvalidEmail), errors.Is(err, users.ErrInvalidName):
				return validationf("%v", err)
			case errors.Is(err, users.ErrEmailTaken), errors.Is(err, users.ErrEmailBlocked):
				return conflictf("%v", err)
			case err != nil:
				return storeErr("resolve guest", err)
			}
			userID, createdUser = user.ID, created
		}

		key := positionKey(position.Name)
		var exists bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM candidacy
				WHERE election_id = $1 AND position_key = $2 AND user_id = $3
			)
		`, electionID, key, userID).Scan(&exists)
		if err != nil {
			return storeErr("query candidacy", err)
		}
		if exists {
			return conflictf("already applied for %s in this election", position.Name)
		}

		c = models.Candidacy{
			ID:           auth.NewID(),
			ElectionID:   electionID,
			UserID:       userID,
			PositionName: position.Name,
			Party:        strings.TrimSpace(req.Party),
			Manifesto:    manifesto,
			Poster:       strings.TrimSpace(req.Poster),
			Status:       models.CandidacyPending,
			CreatedAt:    now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO candidacy (id, election_id, user_id, position_key, position_name, party, manifesto, poster, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, c.ID, c.ElectionID, c.UserID, key, c.PositionName, c.Party, c.Manifesto, c.Poster, c.Status, c.CreatedAt)
		// A concurrent application for the same triple lands here
		if db.IsUniqueViolation(err) {
			return conflictf("already applied for %s in this election", position.Name)
		}
		if err != nil {
			return storeErr("insert candidacy", err)
		}
		return nil
	})
	if err != nil {
		return models.Candidacy{}, err
	}

	slog.Info("candidacy submitted", "election_id", electionID, "candidacy_id", c.ID,
		"position", c.PositionName, "guest_user_created", createdUser)
	return c, nil
}

// SetApproval approves or rejects a candidacy. Ballots already cast for the
// candidacy are left as they are. Approvals stop at the configured
// per-election maximum.
func (s *Service) SetApproval(ctx context.Context, actor models.Identity, electionID, candidacyID string, approved bool) (models.Candidacy, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Candidacy{}, err
	}
	if !auth.ValidID(electionID) || !auth.ValidID(candidacyID) {
		return models.Candidacy{}, notFoundf("candidacy %s in election %s", candidacyID, electionID)
	}

	status := models.CandidacyRejected
	if approved {
		status = models.CandidacyApproved
	}

	var c models.Candidacy
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.clock()
		var current string
		err := tx.QueryRowContext(ctx, `
			SELECT status FROM candidacy WHERE id = $1 AND election_id = $2
		`, candidacyID, electionID).Scan(&current)
		if err == sql.ErrNoRows {
			return notFoundf("candidacy %s in election %s", candidacyID, electionID)
		}
		if err != nil {
			return storeErr("query candidacy", err)
		}

		if approved && current != models.CandidacyApproved {
			if err := checkApprovalCap(ctx, tx, electionID); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE candidacy SET status = $1, decided_at = $2
			WHERE id = $3
		`, status, now, candidacyID)
		if err != nil {
			return storeErr("update candidacy", err)
		}

		c, err = scanCandidacy(tx.QueryRowContext(ctx, `
			SELECT `+candidacyColumns+` FROM candidacy c WHERE c.id = $1
		`, candidacyID))
		if err != nil {
			return storeErr("query candidacy", err)
		}
		return nil
	})
	if err != nil {
		return models.Candidacy{}, err
	}

	slog.Info("candidacy decided", "election_id", electionID, "candidacy_id", candidacyID, "status", status)
	return c, nil
}

// ApplicationStatus reports the caller's most recent candidacy in an election
func (s *Service) ApplicationStatus(ctx context.Context, actor models.Identity, electionID string) (models.ApplicationStatusResponse, error) {
	if err := requireIdentity(actor); err != nil {
		return models.ApplicationStatusResponse{}, err
	}
	if _, err := loadElection(ctx, s.db, electionID, s.clock()); err != nil {
		return models.ApplicationStatusResponse{}, err
	}

	var name, email string
	c, err := scanCandidacy(s.db.QueryRowContext(ctx, `
		SELECT `+candidacyColumns+`, u.display_name, u.email
		FROM candidacy c
		JOIN app_user u ON u.id = c.user_id
		WHERE c.election_id = $1 AND c.user_id = $2
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT 1
	`, electionID, actor.ID), &name, &email)
	if err == sql.ErrNoRows {
		return models.ApplicationStatusResponse{Status: models.ApplicationNotFound}, nil
	}
	if err != nil {
		return models.ApplicationStatusResponse{}, storeErr("query candidacy", err)
	}

	return models.ApplicationStatusResponse{
		Status: applicationStatus(c.Status),
		Details: &models.ApplicationDetails{
			CandidacyID:     c.ID,
			FullName:        name,
			Email:           email,
			Position:        c.PositionName,
			Party:           c.Party,
			Manifesto:       c.Manifesto,
			Poster:          c.Poster,
			ApplicationDate: c.CreatedAt,
		},
	}, nil
}

func applicationStatus(candidacyStatus string) string {
	switch candidacyStatus {
	case models.CandidacyApproved:
		return models.ApplicationAccepted
	case models.CandidacyRejected:
		return models.ApplicationRejected
	default:
		return models.ApplicationPending
	}
}

// CandidatesForPosition lists the approved candidacies for a position in
// application order
func (s *Service) CandidatesForPosition(ctx context.Context, electionID, positionName string) (models.PositionCandidates, error) {
	e, err := loadElection(ctx, s.db, electionID, s.clock())
	if err != nil {
		return models.PositionCandidates{}, err
	}
	position, ok := findPosition(e, positionName)
	if !ok {
		return models.PositionCandidates{}, validationf("position %q not found in election", positionName)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidacyColumns+`, u.display_name
		FROM candidacy c
		JOIN app_user u ON u.id = c.user_id
		WHERE c.election_id = $1 AND c.position_key = $2 AND c.status = $3
		ORDER BY c.created_at, c.id
	`, electionID, positionKey(position.Name), models.CandidacyApproved)
	if err != nil {
		return models.PositionCandidates{}, storeErr("query candidates", err)
	}
	defer rows.Close()

	out := models.PositionCandidates{Position: position, Candidates: []models.CandidateEntry{}}
	for rows.Next() {
		var name string
		c, err := scanCandidacy(rows, &name)
		if err != nil {
			return models.PositionCandidates{}, storeErr("scan candidate", err)
		}
		out.Candidates = append(out.Candidates, models.CandidateEntry{Candidacy: c, DisplayName: name})
	}
	if err := rows.Err(); err != nil {
		return models.PositionCandidates{}, storeErr("iterate candidates", err)
	}
	return out, nil
}
