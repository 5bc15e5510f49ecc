// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestDashboardFor_Approved(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	id := testutil.CreateTestElection(t, conn, "ongoing", "President")
	alice := newVoter(t, conn, "Alice")
	bob := testutil.CreateTestUser(t, conn, "Bob", false)
	carol := testutil.CreateTestUser(t, conn, "Carol", false)
	a := testutil.AddTestCandidacy(t, conn, id, alice.ID, "President", models.CandidacyApproved)
	b := testutil.AddTestCandidacy(t, conn, id, bob, "President", models.CandidacyApproved)
	testutil.AddTestCandidacy(t, conn, id, carol, "President", models.CandidacyApproved)
	testutil.CastTestBallots(t, conn, id, "President", b, 4)
	testutil.CastTestBallots(t, conn, id, "President", a, 2)

	d, err := svc.DashboardFor(ctx, alice)
	if err != nil {
		t.Fatalf("DashboardFor() error = %v", err)
	}

	if d.Candidate.CandidacyID != a || d.Candidate.TotalVotes != 2 || d.Candidate.Rank != 2 {
		t.Errorf("Unexpected candidate block: %+v", d.Candidate)
	}
	if d.Candidate.RankLabel != "2nd" {
		t.Errorf("Expected rank label 2nd, got %q", d.Candidate.RankLabel)
	}
	if d.Competition == nil {
		t.Fatal("Expected competition data")
	}
	// Zero-vote approved candidates are part of the standings
	if len(d.Competition.Labels) != 3 {
		t.Fatalf("Expected 3 competitors, got %+v", d.Competition)
	}
	if d.Competition.Labels[0] != "Bob" || d.Competition.Data[0] != 4 || d.Competition.Data[2] != 0 {
		t.Errorf("Unexpected competition order: %+v", d.Competition)
	}
	if !d.Competition.Highlight[1] || d.Competition.Highlight[0] {
		t.Errorf("Expected only own entry highlighted: %+v", d.Competition.Highlight)
	}
	if d.Election.Status != models.StatusOngoing || !strings.HasSuffix(d.Election.Ends, "from now") {
		t.Errorf("Unexpected election block: %+v", d.Election)
	}
}

func TestDashboardFor_Pending(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	id := testutil.CreateTestElection(t, conn, "upcoming", "President")
	alice := newVoter(t, conn, "Alice")
	testutil.AddTestCandidacy(t, conn, id, alice.ID, "President", models.CandidacyPending)

	d, err := svc.DashboardFor(ctx, alice)
	if err != nil {
		t.Fatalf("DashboardFor() error = %v", err)
	}
	if d.Competition != nil {
		t.Error("Expected no competition data before approval")
	}
	if d.Candidate.RankLabel != models.RankNotAvailable || d.Candidate.TotalVotes != 0 {
		t.Errorf("Unexpected candidate block: %+v", d.Candidate)
	}
	if !strings.Contains(d.Message, "pending") {
		t.Errorf("Expected pending message, got %q", d.Message)
	}
}

func TestDashboardFor_PrefersApproved(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	older := testutil.CreateTestElection(t, conn, "ongoing", "President")
	newer := testutil.CreateTestElection(t, conn, "upcoming", "President")
	alice := newVoter(t, conn, "Alice")
	approved := testutil.AddTestCandidacy(t, conn, older, alice.ID, "President", models.CandidacyApproved)
	testutil.AddTestCandidacy(t, conn, newer, alice.ID, "President", models.CandidacyPending)

	d, err := svc.DashboardFor(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if d.Candidate.CandidacyID != approved {
		t.Errorf("Expected approved candidacy on dashboard, got %s", d.Candidate.CandidacyID)
	}
}

func TestDashboardFor_NoApplications(t *testing.T) {
	svc, conn := setupService(t)
	alice := newVoter(t, conn, "Alice")

	_, err := svc.DashboardFor(context.Background(), alice)
	assertKind(t, err, ErrNotFound)

	_, err = svc.DashboardFor(context.Background(), models.Identity{})
	assertKind(t, err, ErrAuth)
}
