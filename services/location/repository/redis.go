package repository

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/kirimjek/internal/pkg/constants"
	"github.com/piresc/kirimjek/internal/pkg/database"
	"github.com/piresc/kirimjek/internal/pkg/geo"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/location"
)

// geoRadiusPad widens GEORADIUS queries. Redis measures on a slightly larger
// sphere and stores 52-bit geohashes, so the exact filter runs afterwards.
const (
	geoRadiusPad    = 1.01
	geoRadiusPadAbs = 0.01
)

// geoMaxLatitude bounds what GEOADD accepts. Drivers beyond it live in the
// polar set instead.
const geoMaxLatitude = 85.05112878

const kmPerDegreeLat = geo.EarthRadiusKm * math.Pi / 180

func inGeoBand(lat float64) bool { return math.Abs(lat) < geoMaxLatitude }

// RedisStore keeps positions in a Redis GEO set plus one hash per driver
// holding the exact coordinates and the fix timestamp. Drivers too close to
// a pole for GEO are kept in a plain set and checked one by one.
type RedisStore struct {
	redisClient *database.RedisClient
}

// NewRedisStore creates a Redis-backed location store
func NewRedisStore(redisClient *database.RedisClient) *RedisStore {
	return &RedisStore{redisClient: redisClient}
}

// Upsert writes the index membership and the position hash in one transaction
func (r *RedisStore) Upsert(ctx context.Context, pos models.DriverPosition) error {
	key := fmt.Sprintf(constants.KeyDriverPosition, pos.DriverID)

	_, err := r.redisClient.GetClient().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if inGeoBand(pos.Latitude) {
			pipe.GeoAdd(ctx, constants.KeyDriverGeo, &redis.GeoLocation{
				Name:      pos.DriverID,
				Longitude: pos.Longitude,
				Latitude:  pos.Latitude,
			})
			pipe.SRem(ctx, constants.KeyDriverPolar, pos.DriverID)
		} else {
			pipe.ZRem(ctx, constants.KeyDriverGeo, pos.DriverID)
			pipe.SAdd(ctx, constants.KeyDriverPolar, pos.DriverID)
		}
		pipe.HSet(ctx, key, map[string]interface{}{
			constants.FieldLatitude:  strconv.FormatFloat(pos.Latitude, 'f', -1, 64),
			constants.FieldLongitude: strconv.FormatFloat(pos.Longitude, 'f', -1, 64),
			constants.FieldTimestamp: strconv.FormatInt(pos.UpdatedAt.UnixNano(), 10),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store driver position: %w", err)
	}
	return nil
}

// Get reads the position hash of a driver
func (r *RedisStore) Get(ctx context.Context, driverID string) (*models.DriverPosition, error) {
	values, err := r.redisClient.GetClient().HMGet(ctx, fmt.Sprintf(constants.KeyDriverPosition, driverID),
		constants.FieldLatitude, constants.FieldLongitude, constants.FieldTimestamp).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get driver position: %w", err)
	}
	return parsePosition(driverID, values)
}

// Remove drops the index membership and the position hash
func (r *RedisStore) Remove(ctx context.Context, driverID string) error {
	_, err := r.redisClient.GetClient().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, constants.KeyDriverGeo, driverID)
		pipe.SRem(ctx, constants.KeyDriverPolar, driverID)
		pipe.Del(ctx, fmt.Sprintf(constants.KeyDriverPosition, driverID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove driver position: %w", err)
	}
	return nil
}

// FetchWithin runs a padded GEORADIUS and then reads the exact position of
// every member it returned. A circle reaching past the GEO latitude band
// scans the whole index; polar drivers are always checked.
func (r *RedisStore) FetchWithin(ctx context.Context, center models.Location, radiusKm float64) ([]models.DriverPosition, error) {
	padded := radiusKm*geoRadiusPad + geoRadiusPadAbs

	var ids []string
	if math.Abs(center.Latitude)+padded/kmPerDegreeLat < geoMaxLatitude {
		members, err := r.redisClient.GeoRadius(ctx, constants.KeyDriverGeo,
			center.Longitude, center.Latitude, padded, "km")
		if err != nil {
			return nil, fmt.Errorf("failed to query nearby drivers: %w", err)
		}
		for _, m := range members {
			ids = append(ids, m.Name)
		}
	} else {
		all, err := r.redisClient.GetClient().ZRange(ctx, constants.KeyDriverGeo, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver index: %w", err)
		}
		ids = append(ids, all...)
	}

	polar, err := r.redisClient.GetClient().SMembers(ctx, constants.KeyDriverPolar).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read polar drivers: %w", err)
	}
	ids = append(ids, polar...)
	if len(ids) == 0 {
		return nil, nil
	}

	positions, err := r.readPositions(ctx, ids)
	if err != nil {
		return nil, err
	}
	nearby := positions[:0]
	for _, pos := range positions {
		if geo.Distance(center, pos.Location()) <= padded {
			nearby = append(nearby, pos)
		}
	}
	return nearby, nil
}

// readPositions loads the position hashes of ids in one round trip, skipping
// duplicates and drivers removed in the meantime
func (r *RedisStore) readPositions(ctx context.Context, ids []string) ([]models.DriverPosition, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	pipe := r.redisClient.GetClient().Pipeline()
	cmds := make([]*redis.SliceCmd, len(unique))
	for i, id := range unique {
		cmds[i] = pipe.HMGet(ctx, fmt.Sprintf(constants.KeyDriverPosition, id),
			constants.FieldLatitude, constants.FieldLongitude, constants.FieldTimestamp)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read driver positions: %w", err)
	}

	positions := make([]models.DriverPosition, 0, len(unique))
	for i, id := range unique {
		pos, err := parsePosition(id, cmds[i].Val())
		if err != nil {
			// removed between the two round trips
			continue
		}
		positions = append(positions, *pos)
	}
	return positions, nil
}

func parsePosition(driverID string, values []interface{}) (*models.DriverPosition, error) {
	if len(values) != 3 {
		return nil, location.ErrPositionNotFound
	}
	raw := make([]string, 3)
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, location.ErrPositionNotFound
		}
		raw[i] = s
	}

	lat, err := strconv.ParseFloat(raw[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(raw[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	ts, err := strconv.ParseInt(raw[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	return &models.DriverPosition{
		DriverID:  driverID,
		Latitude:  lat,
		Longitude: lng,
		UpdatedAt: time.Unix(0, ts).UTC(),
	}, nil
}
