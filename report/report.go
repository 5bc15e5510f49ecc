// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/danielhkuo/quickly-elect/models"
)

// Source supplies election results; *election.Service satisfies it
type Source interface {
	Results(ctx context.Context, electionID string) (models.ElectionResults, error)
}

// Render writes one tally table per position. Leaders are highlighted
// unless noColor is set.
func Render(ctx context.Context, w io.Writer, src Source, electionID string, noColor bool, now time.Time) error {
	res, err := src.Results(ctx, electionID)
	if err != nil {
		return err
	}

	title := color.New(color.FgCyan, color.Bold)
	heading := color.New(color.FgYellow)
	leader := color.New(color.FgGreen, color.Bold)
	muted := color.New(color.Faint)
	if noColor {
		for _, c := range []*color.Color{title, heading, leader, muted} {
			c.DisableColor()
		}
	}

	title.Fprintf(w, "=== %s (%s) ===\n", res.Election.Title, res.Election.Status)

	for _, p := range res.Positions {
		heading.Fprintf(w, "\n%s (%d %s)\n", p.Position.Name, p.Position.Seats, plural(p.Position.Seats, "seat"))

		if len(p.Tally) == 0 {
			muted.Fprintln(w, "No ballots cast")
			continue
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Rank", "Candidate", "Party", "Votes", "Share"})

		total := 0
		for _, entry := range p.Tally {
			total += entry.Votes
		}
		seated := leaders(p.Tally, p.Position.Seats)
		for _, entry := range p.Tally {
			name := entry.DisplayName
			if !entry.Approved {
				name += " (rejected)"
			} else if seated[entry.CandidateID] {
				name = leader.Sprint(name)
			}
			table.Append([]string{
				humanize.Ordinal(entry.Rank),
				name,
				entry.Party,
				humanize.Comma(int64(entry.Votes)),
				fmt.Sprintf("%.1f%%", 100*float64(entry.Votes)/float64(total)),
			})
		}
		table.Render()
	}

	fmt.Fprintf(w, "\n%s %s, voting %s %s\n",
		humanize.Comma(int64(res.BallotCount)), plural(res.BallotCount, "ballot"),
		endVerb(res.Election.EndDate, now), humanize.RelTime(res.Election.EndDate, now, "ago", "from now"))
	return nil
}

// leaders returns the approved candidates that fill the seats. Rejected
// entries keep their rank in the table but take no seat.
func leaders(tally []models.TallyEntry, seats int) map[string]bool {
	out := make(map[string]bool, seats)
	for _, entry := range tally {
		if len(out) == seats {
			break
		}
		if entry.Approved {
			out[entry.CandidateID] = true
		}
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func endVerb(end, now time.Time) string {
	if end.Before(now) {
		return "ended"
	}
	return "ends"
}
