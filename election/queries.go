// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"

	"github.com/danielhkuo/quickly-elect/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListElections returns the elections matching f, latest start first.
// Upcoming elections are listed soonest first instead.
func (s *Service) ListElections(ctx context.Context, f models.ElectionFilter) ([]models.Election, error) {
	if f.Status != "" && !models.ValidStatus(f.Status) {
		return nil, validationf("status must be one of upcoming, ongoing, completed")
	}
	if f.Page < 0 || f.Limit < 0 || f.Limit > maxPageSize {
		return nil, validationf("page must be positive and limit between 1 and %d", maxPageSize)
	}
	if f.Page > 0 && f.Limit == 0 {
		f.Limit = defaultPageSize
	}

	order := "start_date DESC, id"
	if f.Status == models.StatusUpcoming {
		order = "start_date, id"
	}

	// Status filtering needs the effective status, so page over ids first
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_date, end_date, status, status_locked FROM election ORDER BY `+order)
	if err != nil {
		return nil, storeErr("query elections", err)
	}
	now := s.clock()
	var ids []string
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.StartDate, &e.EndDate, &e.Status, &e.StatusLocked); err != nil {
			rows.Close()
			return nil, storeErr("scan election", err)
		}
		if f.Status != "" && EffectiveStatus(e, now) != f.Status {
			continue
		}
		ids = append(ids, e.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate elections", err)
	}

	ids = pageOf(ids, f.Page, f.Limit)
	elections := make([]models.Election, 0, len(ids))
	for _, id := range ids {
		e, err := loadElection(ctx, s.db, id, now)
		if err != nil {
			// Deleted between the two reads
			if Kind(err) == ErrNotFound {
				continue
			}
			return nil, err
		}
		elections = append(elections, e)
	}
	return elections, nil
}

func pageOf(ids []string, page, limit int) []string {
	if limit == 0 {
		return ids
	}
	if page == 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(ids) {
		return nil
	}
	return ids[start:min(start+limit, len(ids))]
}

// ActiveElection returns the ongoing election that started last
func (s *Service) ActiveElection(ctx context.Context) (models.Election, error) {
	list, err := s.ListElections(ctx, models.ElectionFilter{Status: models.StatusOngoing, Page: 1, Limit: 1})
	if err != nil {
		return models.Election{}, err
	}
	if len(list) == 0 {
		return models.Election{}, notFoundf("no active election")
	}
	return list[0], nil
}

func (s *Service) GetElection(ctx context.Context, id string) (models.Election, error) {
	return loadElection(ctx, s.db, id, s.clock())
}

func (s *Service) Positions(ctx context.Context, electionID string) ([]models.Position, error) {
	e, err := loadElection(ctx, s.db, electionID, s.clock())
	if err != nil {
		return nil, err
	}
	return e.Positions, nil
}

// CountByStatus counts elections by their effective status
func (s *Service) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	elections, err := s.ListElections(ctx, models.ElectionFilter{})
	if err != nil {
		return models.StatusCounts{}, err
	}

	var counts models.StatusCounts
	for _, e := range elections {
		switch e.Status {
		case models.StatusUpcoming:
			counts.Upcoming++
		case models.StatusOngoing:
			counts.Ongoing++
		case models.StatusCompleted:
			counts.Completed++
		}
	}
	return counts, nil
}

// ElectionCandidacies lists every candidacy of an election for review
func (s *Service) ElectionCandidacies(ctx context.Context, actor models.Identity, electionID string) ([]models.CandidateEntry, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := loadElection(ctx, s.db, electionID, s.clock()); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidacyColumns+`, u.display_name
		FROM candidacy c
		JOIN app_user u ON u.id = c.user_id
		WHERE c.election_id = $1
		ORDER BY c.created_at, c.id
	`, electionID)
	if err != nil {
		return nil, storeErr("query candidacies", err)
	}
	defer rows.Close()

	entries := []models.CandidateEntry{}
	for rows.Next() {
		var name string
		c, err := scanCandidacy(rows, &name)
		if err != nil {
			return nil, storeErr("scan candidacy", err)
		}
		entries = append(entries, models.CandidateEntry{Candidacy: c, DisplayName: name})
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate candidacies", err)
	}
	return entries, nil
}

// MyApplications lists the caller's candidacies across elections, newest first
func (s *Service) MyApplications(ctx context.Context, actor models.Identity) ([]models.MyApplication, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidacyColumns+`, e.title, e.start_date, e.end_date, e.status, e.status_locked
		FROM candidacy c
		JOIN election e ON e.id = c.election_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`, actor.ID)
	if err != nil {
		return nil, storeErr("query applications", err)
	}
	defer rows.Close()

	now := s.clock()
	apps := []models.MyApplication{}
	for rows.Next() {
		var e models.Election
		c, err := scanCandidacy(rows, &e.Title, &e.StartDate, &e.EndDate, &e.Status, &e.StatusLocked)
		if err != nil {
			return nil, storeErr("scan application", err)
		}
		e.ID = c.ElectionID
		normalizeTimes(&e)
		e.Status = EffectiveStatus(e, now)
		apps = append(apps, models.MyApplication{Candidacy: c, Election: summarize(e)})
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate applications", err)
	}
	return apps, nil
}

// IsCandidate reports whether the caller holds any approved candidacy
func (s *Service) IsCandidate(ctx context.Context, actor models.Identity) (bool, error) {
	if err := requireIdentity(actor); err != nil {
		return false, err
	}

	var ok bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidacy WHERE user_id = $1 AND status = $2)
	`, actor.ID, models.CandidacyApproved).Scan(&ok)
	if err != nil {
		return false, storeErr("query candidacy", err)
	}
	return ok, nil
}

// Results tallies every position of an election
func (s *Service) Results(ctx context.Context, electionID string) (models.ElectionResults, error) {
	e, err := loadElection(ctx, s.db, electionID, s.clock())
	if err != nil {
		return models.ElectionResults{}, err
	}

	res := models.ElectionResults{
		Election:  summarize(e),
		Positions: make([]models.PositionResult, 0, len(e.Positions)),
	}
	for _, p := range e.Positions {
		tally, err := countVotes(ctx, s.db, e.ID, positionKey(p.Name), false)
		if err != nil {
			return models.ElectionResults{}, err
		}
		res.Positions = append(res.Positions, models.PositionResult{Position: p, Tally: tally})
	}

	res.BallotCount, err = s.BallotCount(ctx, electionID)
	if err != nil {
		return models.ElectionResults{}, err
	}
	return res, nil
}

// BallotCount counts all ballots of an election across positions
func (s *Service) BallotCount(ctx context.Context, electionID string) (int, error) {
	if _, err := loadElection(ctx, s.db, electionID, s.clock()); err != nil {
		return 0, err
	}

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot WHERE election_id = $1`, electionID).Scan(&n)
	if err != nil {
		return 0, storeErr("count ballots", err)
	}
	return n, nil
}

// ListUsers pages through registered users for admins
func (s *Service) ListUsers(ctx context.Context, actor models.Identity, page, limit int) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if page < 0 || limit < 0 || limit > maxPageSize {
		return nil, validationf("page must be positive and limit between 1 and %d", maxPageSize)
	}
	if page > 0 && limit == 0 {
		limit = defaultPageSize
	}

	list, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return list, nil
}

func (s *Service) CountUsers(ctx context.Context, actor models.Identity) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return 0, storeErr("count users", err)
	}
	return n, nil
}
