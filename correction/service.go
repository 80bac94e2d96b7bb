/*
service.go - Cache-aside orchestration for time corrections

PURPOSE:
  Wraps the REST client with an optimistic local cache. Every mutation
  goes to the remote API first; the cache is updated only when the call
  succeeds, so a failed call leaves prior state untouched.

CACHE SEMANTICS:
  - List() refreshes the cache with the fetched records.
  - Get() is cache-first with an API fallback; fetched records are
    cached for next time.
  - Create/Update/SetStatus mirror the server's returned record into
    the cache on success.
  - Cancel removes the record from the cache on success.

VALIDATION:
  The only rule enforced before calling the server:
  - Deny requires non-empty review notes (whitespace does not count).
  - Create requires a reason of at least MinReasonLength characters.
  Everything else is the server's call.

SEE ALSO:
  - client.go: the remote calls
  - errors.go: the failure taxonomy surfaced to callers
*/
package correction

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Service keeps the local request cache in sync with the upstream API.
type Service struct {
	client *Client
	log    *zap.Logger

	mu      sync.RWMutex
	cache   []*Request
	loading bool
}

func NewService(client *Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, log: log}
}

// Loading reports whether a remote call is in flight.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Cached returns a snapshot of the local cache.
func (s *Service) Cached() []*Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Request, len(s.cache))
	copy(out, s.cache)
	return out
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Create validates the form locally, then creates the request upstream
// and prepends the server's record to the cache.
func (s *Service) Create(ctx context.Context, form CreateForm) (*Request, error) {
	if len(strings.TrimSpace(form.Reason)) < MinReasonLength {
		return nil, validationError("reason must be at least %d characters", MinReasonLength)
	}
	if form.RequestedClockIn == nil && form.RequestedClockOut == nil {
		return nil, validationError("at least one of requested clock-in or clock-out must be set")
	}

	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.client.Create(ctx, form)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache = append([]*Request{created}, s.cache...)
	s.mu.Unlock()

	s.log.Info("time correction created",
		zap.String("id", created.ID),
		zap.String("session", created.WorkSessionID))
	return created, nil
}

// List fetches requests matching the query and refreshes the cache.
func (s *Service) List(ctx context.Context, q ListQuery) ([]*Request, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	requests, err := s.client.List(ctx, q)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache = requests
	s.mu.Unlock()

	out := make([]*Request, len(requests))
	copy(out, requests)
	return out, nil
}

// Get returns the cached request when present, falling back to the API.
func (s *Service) Get(ctx context.Context, id string) (*Request, error) {
	s.mu.RLock()
	for _, r := range s.cache {
		if r.ID == id {
			s.mu.RUnlock()
			return r, nil
		}
	}
	s.mu.RUnlock()

	s.setLoading(true)
	defer s.setLoading(false)

	req, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache = append(s.cache, req)
	s.mu.Unlock()
	return req, nil
}

// Update amends a request upstream and mirrors the result locally.
func (s *Service) Update(ctx context.Context, id string, form UpdateForm) (*Request, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.client.Update(ctx, id, form)
	if err != nil {
		return nil, err
	}
	s.replace(updated)
	return updated, nil
}

// Cancel deletes a request upstream and drops it from the cache.
func (s *Service) Cancel(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.Cancel(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i, r := range s.cache {
		if r.ID == id {
			s.cache = append(s.cache[:i], s.cache[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Approve marks a request approved. Notes are optional.
func (s *Service) Approve(ctx context.Context, id, reviewer, notes string) (*Request, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.client.SetStatus(ctx, id, StatusApproved, reviewer, notes)
	if err != nil {
		return nil, err
	}
	s.replace(updated)

	s.log.Info("time correction approved",
		zap.String("id", id), zap.String("reviewer", reviewer))
	return updated, nil
}

// Reject marks a request denied. Notes are REQUIRED: rejecting with
// empty or whitespace-only notes fails before any remote call.
func (s *Service) Reject(ctx context.Context, id, reviewer, notes string) (*Request, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, validationError("review notes are required when rejecting a correction")
	}

	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.client.SetStatus(ctx, id, StatusDenied, reviewer, notes)
	if err != nil {
		return nil, err
	}
	s.replace(updated)

	s.log.Info("time correction denied",
		zap.String("id", id), zap.String("reviewer", reviewer))
	return updated, nil
}

// replace swaps the cached copy of a request for the server's version.
// Records the server hasn't told us about yet are appended.
func (s *Service) replace(updated *Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.cache {
		if r.ID == updated.ID {
			s.cache[i] = updated
			return
		}
	}
	s.cache = append(s.cache, updated)
}
