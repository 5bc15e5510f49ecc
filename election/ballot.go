// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
)

// SubmitVote records one ballot for candidateID on a position. A voter gets
// exactly one ballot per position per election; the check is made on the
// hashed voter token and backed by the ballot table's unique constraint.
func (s *Service) SubmitVote(ctx context.Context, actor models.Identity, electionID, positionName, candidateID string) (models.Ballot, error) {
	if err := requireIdentity(actor); err != nil {
		return models.Ballot{}, err
	}

	var b models.Ballot
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.clock()
		e, err := loadElection(ctx, tx, electionID, now)
		if err != nil {
			return err
		}
		if e.Status != models.StatusOngoing {
			return statef("voting is not active: election is %s", e.Status)
		}
		position, ok := findPosition(e, positionName)
		if !ok {
			return validationf("position %q not found in election", positionName)
		}
		key := positionKey(position.Name)

		var found bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM candidacy
				WHERE id = $1 AND election_id = $2 AND position_key = $3 AND status = $4
			)
		`, candidateID, electionID, key, models.CandidacyApproved).Scan(&found)
		if err != nil {
			return storeErr("query candidate", err)
		}
		if !found {
			return notFoundf("candidate not found or not approved for %s", position.Name)
		}

		token, err := auth.HashVoterToken(actor.ID, s.salt)
		if err != nil {
			return ErrAuth
		}

		var voted bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM ballot
				WHERE election_id = $1 AND position_key = $2 AND voter_token = $3
			)
		`, electionID, key, token).Scan(&voted)
		if err != nil {
			return storeErr("query ballot", err)
		}
		if voted {
			return conflictf("already voted for %s in this election", position.Name)
		}

		b = models.Ballot{
			ID:          auth.NewID(),
			ElectionID:  electionID,
			PositionKey: key,
			CandidacyID: candidateID,
			VoterToken:  token,
			CastAt:      now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ballot (id, election_id, position_key, candidacy_id, voter_token, cast_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, b.ID, b.ElectionID, b.PositionKey, b.CandidacyID, b.VoterToken, b.CastAt)
		// A concurrent ballot for the same voter and position lands here
		if db.IsUniqueViolation(err) {
			return conflictf("already voted for %s in this election", position.Name)
		}
		if err != nil {
			return storeErr("insert ballot", err)
		}
		return nil
	})
	if err != nil {
		return models.Ballot{}, err
	}

	slog.Info("ballot recorded", "election_id", electionID, "position", b.PositionKey, "ballot_id", b.ID)
	return b, nil
}

// Tally counts ballots per candidacy for a position, most votes first. Ties
// go to the earlier application, then to the lower id. Every candidacy with
// at least one ballot is listed, including candidacies rejected after the
// ballots were cast.
func (s *Service) Tally(ctx context.Context, electionID, positionName string) ([]models.TallyEntry, error) {
	e, err := loadElection(ctx, s.db, electionID, s.clock())
	if err != nil {
		return nil, err
	}
	position, ok := findPosition(e, positionName)
	if !ok {
		return nil, validationf("position %q not found in election", positionName)
	}
	return countVotes(ctx, s.db, electionID, positionKey(position.Name), false)
}

// RankOf returns the 1-based rank of a candidacy in Tally. ok is false when
// the candidacy has no ballots or is not currently approved.
func (s *Service) RankOf(ctx context.Context, electionID, positionName, candidateID string) (rank int, ok bool, err error) {
	entries, err := s.Tally(ctx, electionID, positionName)
	if err != nil {
		return 0, false, err
	}
	for _, entry := range entries {
		if entry.CandidateID == candidateID {
			if !entry.Approved {
				return 0, false, nil
			}
			return entry.Rank, true, nil
		}
	}
	return 0, false, nil
}

const tallyQuery = `
	SELECT c.id, u.display_name, c.party, c.status, COUNT(b.id) AS votes
	FROM candidacy c
	JOIN app_user u ON u.id = c.user_id
	JOIN ballot b ON b.candidacy_id = c.id
	WHERE c.election_id = $1 AND c.position_key = $2
	GROUP BY c.id, u.display_name, c.party, c.status, c.created_at
	ORDER BY votes DESC, c.created_at, c.id
`

// Approved candidacies including those without ballots
const standingsQuery = `
	SELECT c.id, u.display_name, c.party, c.status, COUNT(b.id) AS votes
	FROM candidacy c
	JOIN app_user u ON u.id = c.user_id
	LEFT JOIN ballot b ON b.candidacy_id = c.id
	WHERE c.election_id = $1 AND c.position_key = $2 AND c.status = 'approved'
	GROUP BY c.id, u.display_name, c.party, c.status, c.created_at
	ORDER BY votes DESC, c.created_at, c.id
`

func countVotes(ctx context.Context, q querier, electionID, key string, approvedOnly bool) ([]models.TallyEntry, error) {
	query := tallyQuery
	if approvedOnly {
		query = standingsQuery
	}

	rows, err := q.QueryContext(ctx, query, electionID, key)
	if err != nil {
		return nil, storeErr("query tally", err)
	}
	defer rows.Close()

	entries := []models.TallyEntry{}
	for rows.Next() {
		var entry models.TallyEntry
		var status string
		if err := rows.Scan(&entry.CandidateID, &entry.DisplayName, &entry.Party, &status, &entry.Votes); err != nil {
			return nil, storeErr("scan tally", err)
		}
		entry.Approved = status == models.CandidacyApproved
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate tally", err)
	}
	return entries, nil
}
