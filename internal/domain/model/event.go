package model

import "time"

// Event kinds.
const (
	EventCandidateSourced  = "candidate.sourced"
	EventCandidateReviewed = "candidate.reviewed"
)

// CandidateEvent announces a successful row write to downstream consumers.
type CandidateEvent struct {
	ID    string    `json:"id"`
	Kind  string    `json:"kind"`
	Mode  string    `json:"mode"`
	Name  string    `json:"name"`
	Owner string    `json:"owner"`
	Rows  []int     `json:"rows"`
	At    time.Time `json:"at"`
}
