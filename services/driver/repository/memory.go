package repository

import (
	"context"
	"sync"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// MemoryDirectory is an in-process driver directory used for local runs and tests
type MemoryDirectory struct {
	mu      sync.RWMutex
	drivers map[string]models.Driver
}

// NewMemoryDirectory creates a directory with the given drivers registered
// as online and active
func NewMemoryDirectory(seedIDs ...string) *MemoryDirectory {
	d := &MemoryDirectory{drivers: make(map[string]models.Driver, len(seedIDs))}
	for _, id := range seedIDs {
		d.drivers[id] = models.Driver{ID: id, IsOnline: true, IsActive: true}
	}
	return d
}

// Put registers or replaces a driver
func (d *MemoryDirectory) Put(driver models.Driver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drivers[driver.ID] = driver
}

// SetOnline flips the online flag of a known driver
func (d *MemoryDirectory) SetOnline(driverID string, online bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if drv, ok := d.drivers[driverID]; ok {
		drv.IsOnline = online
		d.drivers[driverID] = drv
	}
}

// DriverExists reports whether the driver was registered
func (d *MemoryDirectory) DriverExists(_ context.Context, driverID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.drivers[driverID]
	return ok, nil
}

// IsEligible reports whether the driver is registered and eligible
func (d *MemoryDirectory) IsEligible(_ context.Context, driverID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	drv, ok := d.drivers[driverID]
	return ok && drv.Eligible(), nil
}
