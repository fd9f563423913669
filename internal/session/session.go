// Package session owns a client's view of the request list: the local
// copy, the busy flag, and the polling loop that reconciles the copy
// against the server.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// DefaultPollInterval is the reconciliation cadence when none is configured.
const DefaultPollInterval = 5 * time.Second

// API is the slice of the mutation surface the session drives. The HTTP
// client satisfies it; tests inject fakes.
type API interface {
	List() ([]*domain.Request, error)
	Create(input domain.NewRequest) (int64, error)
	SetStatus(id int64, status domain.Status) error
	Reorder(ids []int64) error
	Delete(id int64) error
}

// Session reconciles a local copy of the ordered list with the server.
//
// The local copy is advisory: it is replaced wholesale on every successful
// fetch and never edited in place. Mutations follow one pattern: raise the
// busy flag (suspending the poll), call the API, force a reload, lower the
// flag. The flag only gates the poll goroutine; it is not a lock on user
// input.
type Session struct {
	api      API
	interval time.Duration
	logger   *slog.Logger

	onChange func([]*domain.Request)

	mu    sync.Mutex
	local []*domain.Request
	busy  bool

	// mutationMu serializes mutations from this client so server-side
	// ordering reflects the user's action ordering.
	mutationMu sync.Mutex

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	started  bool
}

type Option func(*Session)

// WithInterval overrides the poll cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnChange registers the redraw callback. It fires once per accepted
// list replacement, with a fresh copy the receiver may keep.
func WithOnChange(fn func([]*domain.Request)) Option {
	return func(s *Session) { s.onChange = fn }
}

func New(api API, opts ...Option) *Session {
	s := &Session{
		api:      api,
		interval: DefaultPollInterval,
		logger:   slog.Default(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	return s
}

// Start runs the reconciliation loop until ctx is canceled or Stop is
// called. The ticker keeps its cadence across mutations; a tick that lands
// during one is skipped, not deferred, so worst-case staleness stays
// bounded at one interval.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.pollOnce()
			}
		}
	}()
}

// Stop tears the loop down and waits for it to exit. Safe to call more
// than once, or without a prior Start.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

// pollOnce runs a single reconciliation tick: skipped entirely while busy,
// best-effort on fetch failure, and a redraw only when the authoritative
// list differs from the local copy.
func (s *Session) pollOnce() {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	fetched, err := s.api.List()
	if err != nil {
		s.logger.Debug("poll failed", "error", err)
		return
	}

	s.mu.Lock()
	if cmp.Equal(s.local, fetched) {
		s.mu.Unlock()
		return
	}
	s.local = fetched
	s.mu.Unlock()

	s.emitChange()
}

// Refresh fetches the authoritative list and redraws unconditionally.
func (s *Session) Refresh() error {
	fetched, err := s.api.List()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.local = fetched
	s.mu.Unlock()
	s.emitChange()
	return nil
}

// Requests returns a copy of the local list. Callers own the result.
func (s *Session) Requests() []*domain.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneList(s.local)
}

// Busy reports whether a user-initiated mutation is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Submit validates input with the full client-side form rules and creates
// the request. Validation failures return before any network call.
func (s *Session) Submit(input domain.NewRequest) error {
	if err := input.ValidateSubmission(time.Now()); err != nil {
		return err
	}
	return s.mutate(func() error {
		_, err := s.api.Create(input)
		return err
	})
}

// Toggle flips a request between pending and in-progress. Completed
// requests are left alone; the toggle is a no-op for them.
func (s *Session) Toggle(id int64) error {
	current, ok := s.statusOf(id)
	if !ok {
		return domain.ErrNotFound
	}

	var next domain.Status
	switch current {
	case domain.StatusPending:
		next = domain.StatusInProgress
	case domain.StatusInProgress:
		next = domain.StatusPending
	default:
		return nil
	}

	return s.mutate(func() error {
		return s.api.SetStatus(id, next)
	})
}

// Complete marks a request completed regardless of its current state.
func (s *Session) Complete(id int64) error {
	return s.mutate(func() error {
		return s.api.SetStatus(id, domain.StatusCompleted)
	})
}

// Delete removes a request.
func (s *Session) Delete(id int64) error {
	return s.mutate(func() error {
		return s.api.Delete(id)
	})
}

// ApplyReorder submits a candidate id order. The local list is not edited
// optimistically; the forced reload afterwards makes the server's answer
// (including any skipped ids or concurrent edits) the new local truth.
func (s *Session) ApplyReorder(ids []int64) error {
	return s.mutate(func() error {
		return s.api.Reorder(ids)
	})
}

// mutate runs one user-initiated mutation: polling is suspended for its
// duration, and the authoritative list is reloaded afterwards whether the
// call succeeded or not, so the local copy never keeps a speculative edit.
func (s *Session) mutate(op func() error) error {
	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	s.setBusy(true)
	defer s.setBusy(false)

	opErr := op()
	if err := s.Refresh(); err != nil {
		s.logger.Debug("post-mutation reload failed", "error", err)
	}
	return opErr
}

func (s *Session) statusOf(id int64) (domain.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.local {
		if r.ID == id {
			return r.Status, true
		}
	}
	return "", false
}

func (s *Session) setBusy(v bool) {
	s.mu.Lock()
	s.busy = v
	s.mu.Unlock()
}

func (s *Session) emitChange() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Requests())
}

func cloneList(reqs []*domain.Request) []*domain.Request {
	out := make([]*domain.Request, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Clone())
	}
	return out
}
