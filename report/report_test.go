// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

type fakeSource struct {
	res models.ElectionResults
	err error
}

func (f fakeSource) Results(ctx context.Context, electionID string) (models.ElectionResults, error) {
	return f.res, f.err
}

func TestRender(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	src := fakeSource{res: models.ElectionResults{
		Election: models.ElectionSummary{
			ID:      "e1",
			Title:   "Student Council",
			Status:  models.StatusCompleted,
			EndDate: now.Add(-72 * time.Hour),
		},
		Positions: []models.PositionResult{
			{
				Position: models.Position{Name: "Secretary", Seats: 1},
				Tally: []models.TallyEntry{
					{CandidateID: "a", DisplayName: "Alice", Party: "Blue", Votes: 5, Approved: true, Rank: 1},
					{CandidateID: "b", DisplayName: "Bob", Votes: 3, Approved: false, Rank: 2},
				},
			},
			{Position: models.Position{Name: "Treasurer", Seats: 2}},
		},
		BallotCount: 1234,
	}}

	var buf bytes.Buffer
	if err := Render(context.Background(), &buf, src, "e1", true, now); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	checks := []string{
		"=== Student Council (completed) ===",
		"Secretary (1 seat)",
		"Alice",
		"62.5%",
		"Bob (rejected)",
		"2nd",
		"Treasurer (2 seats)",
		"No ballots cast",
		"1,234 ballots, voting ended 3 days ago",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Expected no ANSI escapes with noColor")
	}
}

func TestRender_SourceError(t *testing.T) {
	boom := errors.New("not found")
	var buf bytes.Buffer
	if err := Render(context.Background(), &buf, fakeSource{err: boom}, "e1", true, time.Now()); !errors.Is(err, boom) {
		t.Errorf("Expected source error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("Expected no output on error")
	}
}

func TestLeaders(t *testing.T) {
	tally := []models.TallyEntry{
		{CandidateID: "a", Votes: 9, Approved: false, Rank: 1},
		{CandidateID: "b", Votes: 7, Approved: true, Rank: 2},
		{CandidateID: "c", Votes: 4, Approved: true, Rank: 3},
		{CandidateID: "d", Votes: 1, Approved: true, Rank: 4},
	}

	tests := []struct {
		name  string
		seats int
		want  []string
	}{
		{"rejected leader takes no seat", 1, []string{"b"}},
		{"two seats skip the rejected entry", 2, []string{"b", "c"}},
		{"more seats than candidates", 5, []string{"b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leaders(tally, tt.seats)
			if len(got) != len(tt.want) {
				t.Fatalf("leaders() = %v, want %v", got, tt.want)
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("Expected %s to be seated, got %v", id, got)
				}
			}
		})
	}
}
