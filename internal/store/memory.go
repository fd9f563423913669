package store

import (
	"strings"
	"sync"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
)

// InMemoryStore keeps the collection in process memory. It implements the
// same contract as SQLiteStore and backs tests and handler development.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests []*domain.Request
	nextID   int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		requests: []*domain.Request{},
		nextID:   1,
	}
}

func (s *InMemoryStore) Create(input domain.NewRequest) (*domain.Request, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := &domain.Request{
		ID:           s.nextID,
		Text:         strings.TrimSpace(input.Text),
		SubmittedBy:  strings.TrimSpace(input.SubmittedBy),
		SubmittedAt:  time.Now().UTC(),
		Status:       domain.StatusPending,
		Priority:     input.Priority,
		SortPosition: len(s.requests),
		Year:         input.Year,
		Type:         input.Type,
	}
	s.nextID++
	s.requests = append(s.requests, req)
	return req.Clone(), nil
}

func (s *InMemoryStore) List() ([]*domain.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Request, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r.Clone())
	}
	domain.SortRequests(out)
	return out, nil
}

func (s *InMemoryStore) SetStatus(id int64, status domain.Status) error {
	if !status.Valid() {
		return domain.InvalidStatusError{Status: string(status)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(id)
	if r == nil {
		return domain.ErrNotFound
	}
	r.Status = status
	return nil
}

func (s *InMemoryStore) SetSortPosition(id int64, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(id)
	if r == nil {
		return domain.ErrNotFound
	}
	r.SortPosition = position
	return nil
}

func (s *InMemoryStore) Reorder(ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[int64]*domain.Request, len(s.requests))
	for _, r := range s.requests {
		byID[r.ID] = r
	}

	// Unknown ids are skipped without disturbing the positions already
	// assigned, matching the sqlite store's zero-rows-updated behavior.
	for i, id := range ids {
		if r, ok := byID[id]; ok {
			r.SortPosition = i
		}
	}
	return nil
}

func (s *InMemoryStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.requests {
		if r.ID == id {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *InMemoryStore) find(id int64) *domain.Request {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}
