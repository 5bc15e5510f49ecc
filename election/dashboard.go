// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-elect/models"
)

// DashboardFor builds the candidate dashboard for the caller's most relevant
// candidacy: the latest approved one, else the latest application. Vote
// counts and competitor data are only included once approved.
func (s *Service) DashboardFor(ctx context.Context, actor models.Identity) (models.Dashboard, error) {
	if err := requireIdentity(actor); err != nil {
		return models.Dashboard{}, err
	}

	// Approved first, then newest
	c, err := scanCandidacy(s.db.QueryRowContext(ctx, `
		SELECT `+candidacyColumns+`
		FROM candidacy c
		WHERE c.user_id = $1
		ORDER BY CASE WHEN c.status = 'approved' THEN 0 ELSE 1 END, c.created_at DESC, c.id DESC
		LIMIT 1
	`, actor.ID))
	if err == sql.ErrNoRows {
		return models.Dashboard{}, notFoundf("no candidate applications found")
	}
	if err != nil {
		return models.Dashboard{}, storeErr("query candidacy", err)
	}

	now := s.clock()
	e, err := loadElection(ctx, s.db, c.ElectionID, now)
	if err != nil {
		return models.Dashboard{}, err
	}

	d := models.Dashboard{
		Candidate: models.DashboardCandidate{
			CandidacyID:       c.ID,
			Position:          c.PositionName,
			RankLabel:         models.RankNotAvailable,
			ApplicationStatus: c.Status,
		},
		Election: models.DashboardElection{
			ID:     e.ID,
			Title:  e.Title,
			Status: e.Status,
			Ends:   humanize.RelTime(e.EndDate, now, "ago", "from now"),
		},
	}

	if c.Status != models.CandidacyApproved {
		d.Message = fmt.Sprintf("Your application is currently %s. You will see full dashboard data once it's approved.", c.Status)
		return d, nil
	}

	standings, err := countVotes(ctx, s.db, e.ID, positionKey(c.PositionName), true)
	if err != nil {
		return models.Dashboard{}, err
	}

	comp := &models.Competition{
		Labels:    make([]string, 0, len(standings)),
		Data:      make([]int, 0, len(standings)),
		Highlight: make([]bool, 0, len(standings)),
	}
	for _, entry := range standings {
		mine := entry.CandidateID == c.ID
		comp.Labels = append(comp.Labels, entry.DisplayName)
		comp.Data = append(comp.Data, entry.Votes)
		comp.Highlight = append(comp.Highlight, mine)
		if mine {
			d.Candidate.TotalVotes = entry.Votes
			d.Candidate.Rank = entry.Rank
			d.Candidate.RankLabel = humanize.Ordinal(entry.Rank)
		}
	}
	d.Competition = comp

	return d, nil
}
