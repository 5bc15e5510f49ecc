// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/danielhkuo/quickly-elect/models"
)

// DefaultMaxCandidates applies until an admin saves settings
const DefaultMaxCandidates = 5

const maxSchoolNameLen = 200

func defaultSettings() models.Settings {
	return models.Settings{MaxCandidatesPerElection: DefaultMaxCandidates}
}

func loadSettings(ctx context.Context, q querier) (models.Settings, error) {
	var st models.Settings
	err := q.QueryRowContext(ctx, `
		SELECT school_name, max_candidates_per_election, updated_at
		FROM app_setting
		WHERE id = 1
	`).Scan(&st.SchoolName, &st.MaxCandidatesPerElection, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return defaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, storeErr("query settings", err)
	}
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, nil
}

// Settings returns the saved settings, or the defaults when none were saved
func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	return loadSettings(ctx, s.db)
}

func (s *Service) UpdateSettings(ctx context.Context, actor models.Identity, req models.UpdateSettingsRequest) (models.Settings, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Settings{}, err
	}
	if req.SchoolName != nil && len(strings.TrimSpace(*req.SchoolName)) > maxSchoolNameLen {
		return models.Settings{}, validationf("school name must be at most %d characters", maxSchoolNameLen)
	}
	if req.MaxCandidatesPerElection != nil && *req.MaxCandidatesPerElection < 0 {
		return models.Settings{}, validationf("max candidates per election must be 0 (no limit) or more")
	}

	var st models.Settings
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		st, err = loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		if req.SchoolName != nil {
			st.SchoolName = strings.TrimSpace(*req.SchoolName)
		}
		if req.MaxCandidatesPerElection != nil {
			st.MaxCandidatesPerElection = *req.MaxCandidatesPerElection
		}
		st.UpdatedAt = s.clock()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO app_setting (id, school_name, max_candidates_per_election, updated_at)
			VALUES (1, $1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET
				school_name = excluded.school_name,
				max_candidates_per_election = excluded.max_candidates_per_election,
				updated_at = excluded.updated_at
		`, st.SchoolName, st.MaxCandidatesPerElection, st.UpdatedAt)
		if err != nil {
			return storeErr("save settings", err)
		}
		return nil
	})
	if err != nil {
		return models.Settings{}, err
	}

	slog.Info("settings updated", "max_candidates_per_election", st.MaxCandidatesPerElection)
	return st, nil
}

// ResetSettings drops the saved settings so the defaults apply again
func (s *Service) ResetSettings(ctx context.Context, actor models.Identity) (models.Settings, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Settings{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_setting`); err != nil {
		return models.Settings{}, storeErr("reset settings", err)
	}

	slog.Info("settings reset")
	return defaultSettings(), nil
}

// checkApprovalCap refuses one more approval once the election holds the
// configured number of approved candidacies
func checkApprovalCap(ctx context.Context, q querier, electionID string) error {
	st, err := loadSettings(ctx, q)
	if err != nil {
		return err
	}
	if st.MaxCandidatesPerElection == 0 {
		return nil
	}

	var n int
	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidacy WHERE election_id = $1 AND status = $2
	`, electionID, models.CandidacyApproved).Scan(&n)
	if err != nil {
		return storeErr("count approved candidacies", err)
	}
	if n >= st.MaxCandidatesPerElection {
		return statef("election already has the maximum of %d approved candidates", st.MaxCandidatesPerElection)
	}
	return nil
}
