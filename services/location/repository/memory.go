package repository

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/piresc/kirimjek/internal/pkg/geo"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/location"
)

const shardCount = 32

type positionShard struct {
	mu        sync.RWMutex
	positions map[string]models.DriverPosition
}

type cellShard struct {
	mu    sync.RWMutex
	cells map[string]map[string]struct{}
}

// MemoryStore keeps driver positions in process. Positions are sharded by
// driver id and indexed by geohash cell, so writers only contend with
// writers of the same shard. Lock order is position shard then cell shard;
// readers never hold two locks at once.
type MemoryStore struct {
	positions [shardCount]*positionShard
	cells     [shardCount]*cellShard
}

// NewMemoryStore creates an empty in-memory location store
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := 0; i < shardCount; i++ {
		s.positions[i] = &positionShard{positions: make(map[string]models.DriverPosition)}
		s.cells[i] = &cellShard{cells: make(map[string]map[string]struct{})}
	}
	return s
}

func shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}

func (s *MemoryStore) positionShard(driverID string) *positionShard {
	return s.positions[shardFor(driverID)]
}

func (s *MemoryStore) cellShard(cell string) *cellShard {
	return s.cells[shardFor(cell)]
}

// Upsert overwrites the position of a driver and moves it between cells
func (s *MemoryStore) Upsert(_ context.Context, pos models.DriverPosition) error {
	shard := s.positionShard(pos.DriverID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	prev, existed := shard.positions[pos.DriverID]
	shard.positions[pos.DriverID] = pos

	cell := geo.Cell(pos.Latitude, pos.Longitude)
	if existed {
		prevCell := geo.Cell(prev.Latitude, prev.Longitude)
		if prevCell == cell {
			return nil
		}
		s.unindex(prevCell, pos.DriverID)
	}
	s.index(cell, pos.DriverID)
	return nil
}

// Get returns a copy of the stored position
func (s *MemoryStore) Get(_ context.Context, driverID string) (*models.DriverPosition, error) {
	shard := s.positionShard(driverID)
	shard.mu.RLock()
	pos, ok := shard.positions[driverID]
	shard.mu.RUnlock()

	if !ok {
		return nil, location.ErrPositionNotFound
	}
	return &pos, nil
}

// Remove deletes the driver's position and its cell entry
func (s *MemoryStore) Remove(_ context.Context, driverID string) error {
	shard := s.positionShard(driverID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	prev, ok := shard.positions[driverID]
	if !ok {
		return nil
	}
	delete(shard.positions, driverID)
	s.unindex(geo.Cell(prev.Latitude, prev.Longitude), driverID)
	return nil
}

// FetchWithin collects the drivers indexed in the cells covering the circle.
// Queries the cell index cannot cover fall back to a scan of every shard.
func (s *MemoryStore) FetchWithin(_ context.Context, center models.Location, radiusKm float64) ([]models.DriverPosition, error) {
	cells, ok := geo.CoveringCells(center, radiusKm)
	if !ok {
		return s.scan(), nil
	}

	var ids []string
	for _, cell := range cells {
		cs := s.cellShard(cell)
		cs.mu.RLock()
		for id := range cs.cells[cell] {
			ids = append(ids, id)
		}
		cs.mu.RUnlock()
	}

	seen := make(map[string]struct{}, len(ids))
	positions := make([]models.DriverPosition, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		shard := s.positionShard(id)
		shard.mu.RLock()
		pos, ok := shard.positions[id]
		shard.mu.RUnlock()
		if ok {
			positions = append(positions, pos)
		}
	}
	return positions, nil
}

// Len returns the number of stored positions
func (s *MemoryStore) Len() int {
	n := 0
	for _, shard := range s.positions {
		shard.mu.RLock()
		n += len(shard.positions)
		shard.mu.RUnlock()
	}
	return n
}

func (s *MemoryStore) scan() []models.DriverPosition {
	var positions []models.DriverPosition
	for _, shard := range s.positions {
		shard.mu.RLock()
		for _, pos := range shard.positions {
			positions = append(positions, pos)
		}
		shard.mu.RUnlock()
	}
	return positions
}

func (s *MemoryStore) index(cell, driverID string) {
	cs := s.cellShard(cell)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	members, ok := cs.cells[cell]
	if !ok {
		members = make(map[string]struct{})
		cs.cells[cell] = members
	}
	members[driverID] = struct{}{}
}

func (s *MemoryStore) unindex(cell, driverID string) {
	cs := s.cellShard(cell)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	members := cs.cells[cell]
	delete(members, driverID)
	if len(members) == 0 {
		delete(cs.cells, cell)
	}
}
