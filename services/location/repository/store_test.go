package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/piresc/kirimjek/internal/pkg/geo"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises the behaviour every LocationRepo must share
func runStoreSuite(t *testing.T, newStore func(t *testing.T) location.LocationRepo) {
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("upsert then get returns the latest fix", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: -6.2, Longitude: 106.8, UpdatedAt: at}))
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: -6.3, Longitude: 106.9, UpdatedAt: at.Add(time.Second)}))

		pos, err := store.Get(ctx, "drv-1")
		require.NoError(t, err)
		assert.Equal(t, -6.3, pos.Latitude)
		assert.Equal(t, 106.9, pos.Longitude)
		assert.True(t, pos.UpdatedAt.Equal(at.Add(time.Second)))
	})

	t.Run("get unknown driver", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "ghost")
		assert.ErrorIs(t, err, location.ErrPositionNotFound)
	})

	t.Run("remove is idempotent and hides the driver", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", UpdatedAt: at}))

		require.NoError(t, store.Remove(ctx, "drv-1"))
		require.NoError(t, store.Remove(ctx, "drv-1"))

		_, err := store.Get(ctx, "drv-1")
		assert.ErrorIs(t, err, location.ErrPositionNotFound)
		found, err := store.FetchWithin(ctx, models.Location{}, 5)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("fetch within returns every driver in range", func(t *testing.T) {
		store := newStore(t)
		center := models.Location{Latitude: -6.2, Longitude: 106.8}
		inRange := map[string]bool{}
		for i := 0; i < 40; i++ {
			pos := models.DriverPosition{
				DriverID:  fmt.Sprintf("drv-%02d", i),
				Latitude:  center.Latitude + float64(i%8-4)*0.01,
				Longitude: center.Longitude + float64(i/8-2)*0.012,
				UpdatedAt: at,
			}
			require.NoError(t, store.Upsert(ctx, pos))
			if geo.Distance(center, pos.Location()) <= 3 {
				inRange[pos.DriverID] = true
			}
		}

		found, err := store.FetchWithin(ctx, center, 3)
		require.NoError(t, err)

		got := map[string]bool{}
		for _, p := range found {
			got[p.DriverID] = true
		}
		for id := range inRange {
			assert.True(t, got[id], "missing %s", id)
		}
	})

	t.Run("moved driver is found at its new position only", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: 0, Longitude: 0, UpdatedAt: at}))
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: 1, Longitude: 1, UpdatedAt: at}))

		near, err := store.FetchWithin(ctx, models.Location{Latitude: 1, Longitude: 1}, 1)
		require.NoError(t, err)
		require.Len(t, near, 1)
		assert.Equal(t, 1.0, near[0].Latitude)

		old, err := store.FetchWithin(ctx, models.Location{}, 1)
		require.NoError(t, err)
		for _, p := range old {
			assert.Greater(t, geo.Distance(models.Location{}, p.Location()), 1.0)
		}
	})

	t.Run("drivers near the poles are stored and found", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-north", Latitude: 88, Longitude: 10, UpdatedAt: at}))
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-south", Latitude: -89.5, Longitude: -60, UpdatedAt: at}))
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-equator", Latitude: 0, Longitude: 0, UpdatedAt: at}))

		pos, err := store.Get(ctx, "drv-north")
		require.NoError(t, err)
		assert.Equal(t, 88.0, pos.Latitude)
		assert.Equal(t, 10.0, pos.Longitude)
		pos, err = store.Get(ctx, "drv-south")
		require.NoError(t, err)
		assert.Equal(t, -89.5, pos.Latitude)

		// stores may return a superset; callers keep what is in range
		within := func(center models.Location, radiusKm float64) []string {
			found, err := store.FetchWithin(ctx, center, radiusKm)
			require.NoError(t, err)
			var out []string
			for _, p := range found {
				if geo.Distance(center, p.Location()) <= radiusKm {
					out = append(out, p.DriverID)
				}
			}
			return out
		}

		assert.Equal(t, []string{"drv-north"}, within(models.Location{Latitude: 88, Longitude: 10.01}, 5))
		assert.Equal(t, []string{"drv-north"}, within(models.Location{Latitude: 84.9, Longitude: 10}, 400))
		assert.Equal(t, []string{"drv-south"}, within(models.Location{Latitude: -90, Longitude: 0}, 100))
		assert.Equal(t, []string{"drv-equator"}, within(models.Location{}, 5))

		// back inside the band
		require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-north", Latitude: 84, Longitude: 10, UpdatedAt: at}))
		assert.Equal(t, []string{"drv-north"}, within(models.Location{Latitude: 84, Longitude: 10}, 5))
		assert.Empty(t, within(models.Location{Latitude: 88, Longitude: 10}, 5))

		require.NoError(t, store.Remove(ctx, "drv-south"))
		assert.Empty(t, within(models.Location{Latitude: -90, Longitude: 0}, 100))
	})
}
