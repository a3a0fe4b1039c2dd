package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/dispatch"
)

// MemoryDeliveryStore keeps deliveries in process for local runs and tests
type MemoryDeliveryStore struct {
	mu         sync.Mutex
	deliveries map[string]models.DeliveryRequest
}

// NewMemoryDeliveryStore creates an empty delivery store
func NewMemoryDeliveryStore() *MemoryDeliveryStore {
	return &MemoryDeliveryStore{deliveries: make(map[string]models.DeliveryRequest)}
}

// CreateDelivery inserts d as CREATED unless the id is taken
func (s *MemoryDeliveryStore) CreateDelivery(_ context.Context, d models.DeliveryRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deliveries[d.ID]; ok {
		return false, nil
	}
	d.Status = models.DeliveryStatusCreated
	d.AssignedDriverID = ""
	d.UpdatedAt = models.Now()
	s.deliveries[d.ID] = d
	return true, nil
}

// LoadDelivery returns a copy of the delivery
func (s *MemoryDeliveryStore) LoadDelivery(_ context.Context, deliveryID string) (*models.DeliveryRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deliveries[deliveryID]
	if !ok {
		return nil, dispatch.ErrDeliveryNotFound
	}
	return &d, nil
}

// SaveDeliveryStatus applies an allowed transition
func (s *MemoryDeliveryStore) SaveDeliveryStatus(_ context.Context, deliveryID string, status models.DeliveryStatus, assignedDriverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deliveries[deliveryID]
	if !ok {
		return dispatch.ErrDeliveryNotFound
	}
	if !d.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", dispatch.ErrInvalidTransition, d.Status, status)
	}

	d.Status = status
	d.AssignedDriverID = ""
	if status == models.DeliveryStatusAssigned {
		d.AssignedDriverID = assignedDriverID
	}
	d.UpdatedAt = models.Now()
	s.deliveries[deliveryID] = d
	return nil
}
