package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/piresc/kirimjek/internal/pkg/keylock"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/dispatch"
)

type attemptRecord struct {
	mu      sync.Mutex
	attempt models.DispatchAttempt
	offered map[string]struct{}
}

func (r *attemptRecord) snapshot() *models.DispatchAttempt {
	a := r.attempt
	a.Candidates = slices.Clone(r.attempt.Candidates)
	return &a
}

// MemoryCoordinatorStore keeps attempts and driver claims in process.
// Commits lock the driver id first and the attempt second; no lock spans
// more than one driver.
type MemoryCoordinatorStore struct {
	drivers  *keylock.Locker
	attempts sync.Map // attempt id -> *attemptRecord
	claims   sync.Map // driver id -> delivery id
	open     sync.Map // delivery id -> attempt id
}

// NewMemoryCoordinatorStore creates an empty coordinator store
func NewMemoryCoordinatorStore() *MemoryCoordinatorStore {
	return &MemoryCoordinatorStore{drivers: keylock.New()}
}

func (s *MemoryCoordinatorStore) record(attemptID string) (*attemptRecord, error) {
	v, ok := s.attempts.Load(attemptID)
	if !ok {
		return nil, dispatch.ErrAttemptNotFound
	}
	return v.(*attemptRecord), nil
}

// CreateAttempt stores a copy of attempt
func (s *MemoryCoordinatorStore) CreateAttempt(_ context.Context, attempt *models.DispatchAttempt) error {
	rec := &attemptRecord{offered: make(map[string]struct{})}
	rec.attempt = *attempt
	rec.attempt.Candidates = slices.Clone(attempt.Candidates)
	s.attempts.Store(attempt.ID, rec)

	if attempt.State == models.AttemptOpen {
		s.open.Store(attempt.DeliveryID, attempt.ID)
	}
	return nil
}

// GetAttempt returns a snapshot of the attempt
func (s *MemoryCoordinatorStore) GetAttempt(_ context.Context, attemptID string) (*models.DispatchAttempt, error) {
	rec, err := s.record(attemptID)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.snapshot(), nil
}

// OpenAttemptFor returns the OPEN attempt of a delivery, or nil
func (s *MemoryCoordinatorStore) OpenAttemptFor(ctx context.Context, deliveryID string) (*models.DispatchAttempt, error) {
	v, ok := s.open.Load(deliveryID)
	if !ok {
		return nil, nil
	}
	attempt, err := s.GetAttempt(ctx, v.(string))
	if err != nil || attempt.State != models.AttemptOpen {
		return nil, nil
	}
	return attempt, nil
}

// MarkOffered records a notification of driverID for the attempt
func (s *MemoryCoordinatorStore) MarkOffered(_ context.Context, attemptID, driverID string) (bool, error) {
	rec, err := s.record(attemptID)
	if err != nil {
		return false, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if _, done := rec.offered[driverID]; done {
		return false, nil
	}
	rec.offered[driverID] = struct{}{}
	return true, nil
}

// CommitOffer is the per-driver check-and-commit of an acceptance
func (s *MemoryCoordinatorStore) CommitOffer(_ context.Context, attemptID, driverID string, now time.Time) (*models.DispatchAttempt, error) {
	rec, err := s.record(attemptID)
	if err != nil {
		return nil, err
	}

	unlock := s.drivers.Lock(driverID)
	defer unlock()
	rec.mu.Lock()
	defer rec.mu.Unlock()

	a := &rec.attempt
	switch {
	case a.State == models.AttemptExpired:
		return nil, dispatch.ErrAttemptExpired
	case a.State == models.AttemptCommitted:
		return nil, dispatch.ErrDriverUnavailable
	case now.After(a.Deadline):
		return nil, dispatch.ErrAttemptExpired
	case !a.HasCandidate(driverID):
		return nil, dispatch.ErrNotCandidate
	}
	if _, held := s.claims.Load(driverID); held {
		return nil, dispatch.ErrDriverUnavailable
	}

	a.State = models.AttemptCommitted
	a.WinnerID = driverID
	a.ResolvedAt = now
	s.claims.Store(driverID, a.DeliveryID)
	s.open.CompareAndDelete(a.DeliveryID, a.ID)
	return rec.snapshot(), nil
}

// CommitDirect claims the winner of an already committed attempt
func (s *MemoryCoordinatorStore) CommitDirect(ctx context.Context, attempt *models.DispatchAttempt) error {
	unlock := s.drivers.Lock(attempt.WinnerID)
	defer unlock()

	if _, held := s.claims.Load(attempt.WinnerID); held {
		return dispatch.ErrDriverUnavailable
	}
	s.claims.Store(attempt.WinnerID, attempt.DeliveryID)
	return s.CreateAttempt(ctx, attempt)
}

// RevertCommit undoes a commit whose assignment could not be saved. The
// claim is dropped; the attempt reopens when asked to and its deadline has
// not passed, otherwise it expires.
func (s *MemoryCoordinatorStore) RevertCommit(_ context.Context, attemptID, driverID string, reopen bool, now time.Time) (*models.DispatchAttempt, error) {
	rec, err := s.record(attemptID)
	if err != nil {
		return nil, err
	}

	unlock := s.drivers.Lock(driverID)
	defer unlock()
	rec.mu.Lock()
	defer rec.mu.Unlock()

	a := &rec.attempt
	if a.State != models.AttemptCommitted || a.WinnerID != driverID {
		return rec.snapshot(), nil
	}

	s.claims.CompareAndDelete(driverID, a.DeliveryID)
	a.WinnerID = ""
	if reopen && now.Before(a.Deadline) {
		a.State = models.AttemptOpen
		a.ResolvedAt = time.Time{}
		s.open.Store(a.DeliveryID, a.ID)
	} else {
		a.State = models.AttemptExpired
		a.ResolvedAt = now
	}
	return rec.snapshot(), nil
}

// ExpireAttempt moves an OPEN attempt to EXPIRED
func (s *MemoryCoordinatorStore) ExpireAttempt(_ context.Context, attemptID string, now time.Time) (*models.DispatchAttempt, bool, error) {
	rec, err := s.record(attemptID)
	if err != nil {
		return nil, false, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.attempt.State != models.AttemptOpen {
		return rec.snapshot(), false, nil
	}
	rec.attempt.State = models.AttemptExpired
	rec.attempt.ResolvedAt = now
	s.open.CompareAndDelete(rec.attempt.DeliveryID, rec.attempt.ID)
	return rec.snapshot(), true, nil
}

// ListDueAttempts returns OPEN attempts past their deadline
func (s *MemoryCoordinatorStore) ListDueAttempts(_ context.Context, now time.Time) ([]string, error) {
	var due []string
	s.attempts.Range(func(key, value any) bool {
		rec := value.(*attemptRecord)
		rec.mu.Lock()
		if rec.attempt.State == models.AttemptOpen && !rec.attempt.Deadline.After(now) {
			due = append(due, key.(string))
		}
		rec.mu.Unlock()
		return true
	})
	return due, nil
}

// DriverHolds reports whether the driver has an unreleased claim
func (s *MemoryCoordinatorStore) DriverHolds(_ context.Context, driverID string) (bool, error) {
	_, held := s.claims.Load(driverID)
	return held, nil
}

// ReleaseDriver drops the claim if it belongs to deliveryID
func (s *MemoryCoordinatorStore) ReleaseDriver(_ context.Context, driverID, deliveryID string) (bool, error) {
	unlock := s.drivers.Lock(driverID)
	defer unlock()
	return s.claims.CompareAndDelete(driverID, deliveryID), nil
}

// PruneResolved deletes attempts resolved before the given time
func (s *MemoryCoordinatorStore) PruneResolved(_ context.Context, before time.Time) (int, error) {
	pruned := 0
	s.attempts.Range(func(key, value any) bool {
		rec := value.(*attemptRecord)
		rec.mu.Lock()
		stale := rec.attempt.IsResolved() && rec.attempt.ResolvedAt.Before(before)
		rec.mu.Unlock()
		if stale {
			s.attempts.Delete(key)
			pruned++
		}
		return true
	})
	return pruned, nil
}
