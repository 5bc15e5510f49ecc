// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestApply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewCandidacyHandler(db, testutil.GetTestConfig())
	alice := testutil.CreateTestUser(t, db, "Alice", false)
	upcoming := testutil.CreateTestElection(t, db, "upcoming", "President")
	ongoing := testutil.CreateTestElection(t, db, "ongoing", "President")

	tests := []struct {
		name           string
		electionID     string
		headers        map[string]string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "signed-in applicant",
			electionID:     upcoming,
			headers:        testutil.AsUser(alice),
			body:           models.ApplyRequest{PositionName: "President", Manifesto: "Longer lunch"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "second application",
			electionID:     upcoming,
			headers:        testutil.AsUser(alice),
			body:           models.ApplyRequest{PositionName: "president", Manifesto: "Again"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:       "guest applicant",
			electionID: upcoming,
			body: models.ApplyRequest{
				PositionName: "President", Manifesto: "Guest",
				GuestName: "Grace", GuestEmail: "grace@example.com",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "guest without details",
			electionID:     upcoming,
			body:           models.ApplyRequest{PositionName: "President", Manifesto: "Guest"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "election already running",
			electionID:     ongoing,
			headers:        testutil.AsUser(alice),
			body:           models.ApplyRequest{PositionName: "President", Manifesto: "Late"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown position",
			electionID:     upcoming,
			headers:        testutil.AsUser(alice),
			body:           models.ApplyRequest{PositionName: "Mascot", Manifesto: "Woof"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown election",
			electionID:     "missing",
			headers:        testutil.AsUser(alice),
			body:           models.ApplyRequest{PositionName: "President", Manifesto: "m"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections/"+tt.electionID+"/candidacies", tt.body, tt.headers)
			req.SetPathValue("id", tt.electionID)
			w := serve(db, handler.Apply, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var c models.Candidacy
				testutil.AssertJSON(t, w, &c)
				if c.Status != models.CandidacyPending {
					t.Errorf("Expected pending candidacy, got %q", c.Status)
				}
			}
		})
	}
}

func TestReviewCandidacies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewCandidacyHandler(db, testutil.GetTestConfig())
	admin := testutil.CreateTestUser(t, db, "Admin", true)
	alice := testutil.CreateTestUser(t, db, "Alice", false)
	id := testutil.CreateTestElection(t, db, "upcoming", "President")
	cid := testutil.AddTestCandidacy(t, db, id, alice, "President", models.CandidacyPending)

	// Only admins see the review list
	req := testutil.MakeRequest("GET", "/elections/"+id+"/candidacies", nil, testutil.AsUser(alice))
	req.SetPathValue("id", id)
	testutil.AssertStatus(t, serve(db, handler.List, req), http.StatusForbidden)

	req = testutil.MakeRequest("GET", "/elections/"+id+"/candidacies", nil, testutil.AsUser(admin))
	req.SetPathValue("id", id)
	w := serve(db, handler.List, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var entries []models.CandidateEntry
	testutil.AssertJSON(t, w, &entries)
	if len(entries) != 1 || entries[0].DisplayName != "Alice" {
		t.Errorf("Unexpected entries: %+v", entries)
	}

	req = testutil.MakeRequest("PATCH", "/elections/"+id+"/candidacies/"+cid,
		map[string]bool{"approved": true}, testutil.AsUser(admin))
	req.SetPathValue("id", id)
	req.SetPathValue("cid", cid)
	w = serve(db, handler.Decide, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// A body without "approved" is refused, not read as a rejection
	for _, body := range []any{map[string]bool{"approve": false}, map[string]any{}} {
		req = testutil.MakeRequest("PATCH", "/elections/"+id+"/candidacies/"+cid, body, testutil.AsUser(admin))
		req.SetPathValue("id", id)
		req.SetPathValue("cid", cid)
		testutil.AssertStatus(t, serve(db, handler.Decide, req), http.StatusBadRequest)
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM candidacy WHERE id = $1 AND status = 'approved'`, cid); n != 1 {
		t.Errorf("Expected candidacy to stay approved")
	}

	req = testutil.MakeRequest("PATCH", "/elections/"+id+"/candidacies/not-an-id",
		map[string]bool{"approved": true}, testutil.AsUser(admin))
	req.SetPathValue("id", id)
	req.SetPathValue("cid", "not-an-id")
	testutil.AssertStatus(t, serve(db, handler.Decide, req), http.StatusNotFound)

	// Approved candidates are listed per position
	req = testutil.MakeRequest("GET", "/elections/"+id+"/positions/President/candidates", nil, nil)
	req.SetPathValue("id", id)
	req.SetPathValue("name", "President")
	w = serve(db, handler.Candidates, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var out models.PositionCandidates
	testutil.AssertJSON(t, w, &out)
	if len(out.Candidates) != 1 || out.Candidates[0].Candidacy.ID != cid {
		t.Errorf("Unexpected candidates: %+v", out)
	}

	req = testutil.MakeRequest("GET", "/elections/"+id+"/application-status", nil, testutil.AsUser(alice))
	req.SetPathValue("id", id)
	w = serve(db, handler.ApplicationStatus, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var status models.ApplicationStatusResponse
	testutil.AssertJSON(t, w, &status)
	if status.Status != models.ApplicationAccepted {
		t.Errorf("Expected accepted, got %q", status.Status)
	}

	req = testutil.MakeRequest("GET", "/elections/"+id+"/application-status", nil, nil)
	req.SetPathValue("id", id)
	testutil.AssertStatus(t, serve(db, handler.ApplicationStatus, req), http.StatusUnauthorized)
}
