package domain

import (
	"sort"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the three known workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Request is a single tracked request. IDs are assigned by the store,
// are never reused, and increase monotonically.
type Request struct {
	ID           int64     `json:"id"`
	Text         string    `json:"text"`
	SubmittedBy  string    `json:"submittedBy"`
	SubmittedAt  time.Time `json:"submittedAt"`
	Status       Status    `json:"status"`
	Priority     bool      `json:"priority"`
	SortPosition int       `json:"sortPosition"`
	Year         int       `json:"year,omitempty"`
	Type         string    `json:"type,omitempty"`
}

// Less reports whether a displays before b: priority requests first, then
// ascending sort position, then ascending submission time. Sort positions
// may carry gaps and duplicates at rest, so the time tiebreak keeps the
// order deterministic.
func Less(a, b *Request) bool {
	if a.Priority != b.Priority {
		return a.Priority
	}
	if a.SortPosition != b.SortPosition {
		return a.SortPosition < b.SortPosition
	}
	return a.SubmittedAt.Before(b.SubmittedAt)
}

// SortRequests sorts reqs in place into the canonical display order.
func SortRequests(reqs []*Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return Less(reqs[i], reqs[j])
	})
}

// Clone returns a copy of r. Stores hand out clones so callers can't
// mutate authoritative state through a shared pointer.
func (r *Request) Clone() *Request {
	c := *r
	return &c
}
