// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestSubmitVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVotingHandler(db, testutil.GetTestConfig())
	ongoing := testutil.CreateTestElection(t, db, "ongoing", "President")
	completed := testutil.CreateTestElection(t, db, "completed", "President")
	alice := testutil.CreateTestUser(t, db, "Alice", false)
	bob := testutil.CreateTestUser(t, db, "Bob", false)
	a := testutil.AddTestCandidacy(t, db, ongoing, alice, "President", models.CandidacyApproved)
	b := testutil.AddTestCandidacy(t, db, ongoing, bob, "President", models.CandidacyApproved)
	closed := testutil.AddTestCandidacy(t, db, completed, alice, "President", models.CandidacyApproved)
	voter := testutil.CreateTestUser(t, db, "Val", false)

	tests := []struct {
		name           string
		electionID     string
		headers        map[string]string
		body           interface{}
		expectedStatus int
	}{
		{"first vote", ongoing, testutil.AsUser(voter), models.SubmitVoteRequest{CandidateID: a}, http.StatusCreated},
		{"second vote same position", ongoing, testutil.AsUser(voter), models.SubmitVoteRequest{CandidateID: b}, http.StatusConflict},
		{"anonymous", ongoing, nil, models.SubmitVoteRequest{CandidateID: a}, http.StatusUnauthorized},
		{"missing candidate", ongoing, testutil.AsUser(alice), models.SubmitVoteRequest{}, http.StatusBadRequest},
		{"unknown candidate", ongoing, testutil.AsUser(alice), models.SubmitVoteRequest{CandidateID: "nope"}, http.StatusNotFound},
		{"completed election", completed, testutil.AsUser(voter), models.SubmitVoteRequest{CandidateID: closed}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections/"+tt.electionID+"/positions/President/votes", tt.body, tt.headers)
			req.SetPathValue("id", tt.electionID)
			req.SetPathValue("name", "President")
			w := serve(db, handler.SubmitVote, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.SubmitVoteResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.BallotID == "" {
					t.Error("Expected ballot_id in response")
				}
			}
		})
	}

	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM ballot`); n != 1 {
		t.Errorf("Expected 1 ballot, got %d", n)
	}

	// Response never carries the voter token
	var token string
	db.QueryRow(`SELECT voter_token FROM ballot`).Scan(&token)
	if token == "" || token == voter {
		t.Errorf("Expected hashed voter token, got %q", token)
	}
}

func TestTallyEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVotingHandler(db, testutil.GetTestConfig())
	admin := testutil.CreateTestUser(t, db, "Admin", true)
	alice := testutil.CreateTestUser(t, db, "Alice", false)
	bob := testutil.CreateTestUser(t, db, "Bob", false)
	id := testutil.CreateTestElection(t, db, "ongoing", "Secretary")
	a := testutil.AddTestCandidacy(t, db, id, alice, "Secretary", models.CandidacyApproved)
	b := testutil.AddTestCandidacy(t, db, id, bob, "Secretary", models.CandidacyApproved)
	testutil.CastTestBallots(t, db, id, "Secretary", a, 5)
	testutil.CastTestBallots(t, db, id, "Secretary", b, 3)

	req := testutil.MakeRequest("GET", "/elections/"+id+"/positions/Secretary/tally", nil, testutil.AsUser(alice))
	req.SetPathValue("id", id)
	req.SetPathValue("name", "Secretary")
	testutil.AssertStatus(t, serve(db, handler.Tally, req), http.StatusForbidden)

	req = testutil.MakeRequest("GET", "/elections/"+id+"/positions/Secretary/tally", nil, testutil.AsUser(admin))
	req.SetPathValue("id", id)
	req.SetPathValue("name", "Secretary")
	w := serve(db, handler.Tally, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var entries []models.TallyEntry
	testutil.AssertJSON(t, w, &entries)
	if len(entries) != 2 || entries[0].CandidateID != a || entries[0].Votes != 5 || entries[1].Rank != 2 {
		t.Errorf("Unexpected tally: %+v", entries)
	}
}
