// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Candidacy status constants
const (
	CandidacyPending  = "pending"
	CandidacyApproved = "approved"
	CandidacyRejected = "rejected"
)

// Application status values returned to the applicant
const (
	ApplicationNotFound = "not_found"
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// RankNotAvailable is shown instead of a rank before approval
const RankNotAvailable = "N/A"

// ValidStatus reports whether s is one of the election status values
func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// Identity is the caller as resolved by the authentication layer.
// The zero value is an anonymous caller.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

func (i Identity) Anonymous() bool {
	return i.ID == ""
}

// Request types

type RegisterUserRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type PositionInput struct {
	Name        string `json:"position_name"`
	Seats       int    `json:"seats"`
	Description string `json:"description"`
}

type CreateElectionRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Positions   []PositionInput `json:"positions,omitempty"`
}

// Nil fields are left unchanged
type EditElectionRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

type EditPositionRequest struct {
	Name        *string `json:"position_name,omitempty"`
	Seats       *int    `json:"seats,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Guest fields are only read when the caller is anonymous
type ApplyRequest struct {
	PositionName string `json:"position_name"`
	Party        string `json:"party,omitempty"`
	Manifesto    string `json:"manifesto"`
	Poster       string `json:"poster,omitempty"`
	GuestName    string `json:"full_name,omitempty"`
	GuestEmail   string `json:"email,omitempty"`
}

// Approved is required; a missing key must not read as a rejection
type SetApprovalRequest struct {
	Approved *bool `json:"approved"`
}

// ElectionFilter narrows ListElections. Zero values mean every status and
// no paging; Page is 1-based.
type ElectionFilter struct {
	Status string
	Page   int
	Limit  int
}

// Nil fields are left unchanged
type UpdateSettingsRequest struct {
	SchoolName               *string `json:"school_name,omitempty"`
	MaxCandidatesPerElection *int    `json:"max_candidates_per_election,omitempty"`
}

type SubmitVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type SubmitVoteResponse struct {
	BallotID string    `json:"ballot_id"`
	CastAt   time.Time `json:"cast_at"`
	Message  string    `json:"message"`
}

type ApplicationStatusResponse struct {
	Status  string              `json:"status"`
	Details *ApplicationDetails `json:"details,omitempty"`
}

type ApplicationDetails struct {
	CandidacyID     string    `json:"candidacy_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Position        string    `json:"position"`
	Party           string    `json:"party"`
	Manifesto       string    `json:"manifesto"`
	Poster          string    `json:"poster,omitempty"`
	ApplicationDate time.Time `json:"application_date"`
}

type StatusCounts struct {
	Upcoming  int `json:"upcoming"`
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
}

type PositionCandidates struct {
	Position   Position         `json:"position"`
	Candidates []CandidateEntry `json:"candidates"`
}

type CandidateEntry struct {
	Candidacy   Candidacy `json:"candidacy"`
	DisplayName string    `json:"display_name"`
}

type MyApplication struct {
	Candidacy Candidacy       `json:"candidacy"`
	Election  ElectionSummary `json:"election"`
}

type IsCandidateResponse struct {
	IsCandidate bool `json:"is_candidate"`
}

type UserCountResponse struct {
	TotalUsers int `json:"total_users"`
}

type BallotCountResponse struct {
	BallotCount int `json:"ballot_count"`
}

// Domain types

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

type Election struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Status       string     `json:"status"`
	StatusLocked bool       `json:"status_locked"`
	Positions    []Position `json:"positions"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ElectionSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Position struct {
	Name        string `json:"position_name"`
	Seats       int    `json:"seats"`
	Description string `json:"description"`
}

type Candidacy struct {
	ID           string     `json:"id"`
	ElectionID   string     `json:"election_id"`
	UserID       string     `json:"user_id"`
	PositionName string     `json:"position_name"`
	Party        string     `json:"party,omitempty"`
	Manifesto    string     `json:"manifesto"`
	Poster       string     `json:"poster,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}

type Ballot struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	PositionKey string    `json:"-"`
	CandidacyID string    `json:"candidacy_id"`
	VoterToken  string    `json:"-"` // Never expose in JSON
	CastAt      time.Time `json:"cast_at"`
}

// Settings are edited by admins. A zero MaxCandidatesPerElection means no
// cap on approvals.
type Settings struct {
	SchoolName               string    `json:"school_name"`
	MaxCandidatesPerElection int       `json:"max_candidates_per_election"`
	UpdatedAt                time.Time `json:"updated_at,omitempty"`
}

// Result types

// TallyEntry counts the ballots recorded for one candidacy. Approved is the
// candidacy's current state; ballots cast before a rejection still count.
type TallyEntry struct {
	CandidateID string `json:"candidate_id"`
	DisplayName string `json:"display_name"`
	Party       string `json:"party,omitempty"`
	Votes       int    `json:"votes"`
	Approved    bool   `json:"approved"`
	Rank        int    `json:"rank"` // 1-indexed ranking
}

type PositionResult struct {
	Position Position     `json:"position"`
	Tally    []TallyEntry `json:"tally"`
}

type ElectionResults struct {
	Election    ElectionSummary  `json:"election"`
	Positions   []PositionResult `json:"positions"`
	BallotCount int              `json:"ballot_count"`
}

// Dashboard types

type Dashboard struct {
	Candidate   DashboardCandidate `json:"candidate"`
	Competition *Competition       `json:"competition"`
	Election    DashboardElection  `json:"election"`
	Message     string             `json:"message,omitempty"`
}

type DashboardCandidate struct {
	CandidacyID       string `json:"candidacy_id"`
	Position          string `json:"position"`
	TotalVotes        int    `json:"total_votes"`
	Rank              int    `json:"rank"`
	RankLabel         string `json:"rank_label"`
	ApplicationStatus string `json:"application_status"`
}

// Competition is shaped for a bar chart: one entry per approved candidate
// of the position, Highlight marks the dashboard owner.
type Competition struct {
	Labels    []string `json:"labels"`
	Data      []int    `json:"data"`
	Highlight []bool   `json:"highlight"`
}

type DashboardElection struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Ends   string `json:"ends"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
