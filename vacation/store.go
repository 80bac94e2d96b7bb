/*
store.go - Vacation request collection with durable persistence

PURPOSE:
  Owns the in-memory request collection and mirrors every mutation to a
  key-value persistence port as one JSON document. On startup the
  collection is rehydrated from the port; corrupt or missing data falls
  back to a small fixed seed dataset.

PERSISTENCE CONTRACT:
  - The WHOLE collection is serialized on every mutation.
  - Dates are stored as ISO-8601 strings (calendar.Date JSON encoding).
  - The storage key is fixed: "vacation_requests".

CONCURRENCY:
  All access is guarded by a RWMutex. Reads return copies so callers can
  never mutate the collection behind the store's back.

SEE ALSO:
  - store/sqlite: production KV implementation
  - manager.go: approval workflow over this collection
*/
package vacation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chronos/hr-engine/calendar"
	"github.com/chronos/hr-engine/store"
)

// StorageKey is the fixed key the serialized collection lives under.
const StorageKey = "vacation_requests"

// Store owns the vacation request collection, newest first.
type Store struct {
	mu       sync.RWMutex
	requests []*Request
	policy   Policy
	kv       store.KV
	log      *zap.Logger
	now      func() time.Time
}

// NewStore creates a store backed by the given KV port and loads the
// persisted collection, seeding example data when nothing is stored yet.
func NewStore(ctx context.Context, kv store.KV, policy Policy, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		policy: policy,
		kv:     kv,
		log:    log,
		now:    time.Now,
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err == store.ErrNotFound {
		s.requests = seedRequests()
		s.log.Info("no persisted vacation requests, seeding examples",
			zap.Int("count", len(s.requests)))
		return s.persistLocked(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load vacation requests: %w", err)
	}

	var requests []*Request
	if err := json.Unmarshal(raw, &requests); err != nil {
		// Corrupt data is not fatal: fall back to the seed dataset.
		s.log.Warn("corrupt vacation request data, falling back to seed",
			zap.Error(err))
		s.requests = seedRequests()
		return s.persistLocked(ctx)
	}
	s.requests = requests
	return nil
}

// persistLocked serializes the full collection. Callers must hold mu.
func (s *Store) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.requests)
	if err != nil {
		return fmt.Errorf("failed to serialize vacation requests: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("failed to persist vacation requests: %w", err)
	}
	return nil
}

// Policy returns the business constants this store was built with.
func (s *Store) Policy() Policy { return s.policy }

// =============================================================================
// MUTATIONS
// =============================================================================

// Create builds a new pending request from the form, prepends it to the
// collection (newest first) and persists. TotalDays is computed from the
// range; whatever the caller thinks it is gets ignored.
func (s *Store) Create(ctx context.Context, form CreateForm, employeeID string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	req := &Request{
		ID:           fmt.Sprintf("vac-%d", now.UnixNano()),
		EmployeeID:   employeeID,
		EmployeeName: form.EmployeeName,
		Type:         form.Type,
		StartDate:    form.StartDate,
		EndDate:      form.EndDate,
		TotalDays:    calendar.WorkingDays(form.StartDate, form.EndDate),
		Status:       StatusPending,
		RequestedAt:  now,
	}

	s.requests = append([]*Request{req}, s.requests...)

	if err := s.persistLocked(ctx); err != nil {
		// Roll the prepend back so memory matches durable state.
		s.requests = s.requests[1:]
		return nil, err
	}

	s.log.Info("vacation request created",
		zap.String("id", req.ID),
		zap.String("employee", employeeID),
		zap.Int("total_days", req.TotalDays))
	return req, nil
}

// Cancel moves a pending request to cancelled. Unknown ids and requests
// already in a terminal state are left untouched.
func (s *Store) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := s.findLocked(id)
	if req == nil || req.Status != StatusPending {
		return nil
	}
	req.Status = StatusCancelled
	return s.persistLocked(ctx)
}

// review applies a terminal approve/reject transition. Only the manager
// calls this; absent or non-pending requests are silent no-ops.
func (s *Store) review(ctx context.Context, id string, status Status, reviewer, comments string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := s.findLocked(id)
	if req == nil || req.Status != StatusPending {
		return nil, nil
	}

	now := s.now()
	req.Status = status
	req.ReviewedAt = &now
	req.ReviewedBy = reviewer
	req.ReviewComments = comments

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return copyRequest(req), nil
}

// =============================================================================
// READS
// =============================================================================

func (s *Store) findLocked(id string) *Request {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// GetByID returns a copy of the request, or ok=false when absent.
func (s *Store) GetByID(id string) (*Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req := s.findLocked(id)
	if req == nil {
		return nil, false
	}
	return copyRequest(req), true
}

// All returns a copy of the collection in stored order (newest first).
func (s *Store) All() []*Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Request, len(s.requests))
	for i, r := range s.requests {
		out[i] = copyRequest(r)
	}
	return out
}

// ByStatus returns requests with the given status, preserving order.
func (s *Store) ByStatus(status Status) []*Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Request
	for _, r := range s.requests {
		if r.Status == status {
			out = append(out, copyRequest(r))
		}
	}
	return out
}

// HasOverlappingApproved reports whether any approved request other than
// excludeID overlaps the inclusive range [start, end].
func (s *Store) HasOverlappingApproved(start, end calendar.Date, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.requests {
		if r.ID == excludeID || r.Status != StatusApproved {
			continue
		}
		if calendar.Overlaps(start, end, r.StartDate, r.EndDate) {
			return true
		}
	}
	return false
}

// Balance computes the vacation-day balance over the whole collection.
// Only vacation-type requests consume the allowance.
func (s *Store) Balance() Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := Balance{TotalVacationDays: s.policy.AnnualAllowanceDays}
	for _, r := range s.requests {
		if r.Type != TypeVacation {
			continue
		}
		switch r.Status {
		case StatusApproved:
			b.UsedVacationDays += r.TotalDays
		case StatusPending:
			b.PendingVacationDays += r.TotalDays
		}
	}
	b.RemainingVacationDays = b.TotalVacationDays - b.UsedVacationDays
	return b
}

func copyRequest(r *Request) *Request {
	c := *r
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}
