package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/piresc/kirimjek/internal/pkg/constants"
	"github.com/piresc/kirimjek/internal/pkg/database"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockRedis(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return &database.RedisClient{Client: client}, mr
}

func TestRedisStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) location.LocationRepo {
		client, _ := setupMockRedis(t)
		return NewRedisStore(client)
	})
}

func TestRedisStore_WritesGeoMemberAndHash(t *testing.T) {
	// Arrange
	client, mr := setupMockRedis(t)
	store := NewRedisStore(client)
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	// Act
	err := store.Upsert(context.Background(), models.DriverPosition{
		DriverID: "drv-1", Latitude: -6.175392, Longitude: 106.827153, UpdatedAt: at,
	})

	// Assert
	require.NoError(t, err)
	key := fmt.Sprintf(constants.KeyDriverPosition, "drv-1")
	assert.Equal(t, "-6.175392", mr.HGet(key, constants.FieldLatitude))
	assert.Equal(t, "106.827153", mr.HGet(key, constants.FieldLongitude))
	members, err := mr.ZMembers(constants.KeyDriverGeo)
	require.NoError(t, err)
	assert.Equal(t, []string{"drv-1"}, members)
}

func TestRedisStore_PolarDriversLeaveTheGeoSet(t *testing.T) {
	client, mr := setupMockRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: -6.2, Longitude: 106.8, UpdatedAt: time.Now()}))
	require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: 86, Longitude: 106.8, UpdatedAt: time.Now()}))

	assert.False(t, mr.Exists(constants.KeyDriverGeo))
	polar, err := mr.Members(constants.KeyDriverPolar)
	require.NoError(t, err)
	assert.Equal(t, []string{"drv-1"}, polar)
	assert.Equal(t, "86", mr.HGet(fmt.Sprintf(constants.KeyDriverPosition, "drv-1"), constants.FieldLatitude))

	require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: 85, Longitude: 106.8, UpdatedAt: time.Now()}))

	assert.False(t, mr.Exists(constants.KeyDriverPolar))
	members, err := mr.ZMembers(constants.KeyDriverGeo)
	require.NoError(t, err)
	assert.Equal(t, []string{"drv-1"}, members)
}

func TestRedisStore_FetchWithinSkipsMissingHash(t *testing.T) {
	client, mr := setupMockRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-1", Latitude: 0, Longitude: 0.005, UpdatedAt: time.Now()}))
	require.NoError(t, store.Upsert(ctx, models.DriverPosition{DriverID: "drv-2", Latitude: 0, Longitude: 0.006, UpdatedAt: time.Now()}))
	mr.Del(fmt.Sprintf(constants.KeyDriverPosition, "drv-2"))

	found, err := store.FetchWithin(ctx, models.Location{}, 2)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "drv-1", found[0].DriverID)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	store := NewRedisStore(client)
	mr.Close()

	err = store.Upsert(context.Background(), models.DriverPosition{DriverID: "drv-1"})
	assert.Error(t, err)
	_, err = store.FetchWithin(context.Background(), models.Location{}, 1)
	assert.Error(t, err)
}
