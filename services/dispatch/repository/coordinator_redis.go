package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/kirimjek/internal/pkg/constants"
	"github.com/piresc/kirimjek/internal/pkg/database"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/dispatch"
)

// The hash keeps the ordered candidate list as JSON for reads; membership
// checks inside the scripts go through the candidate set.

// KEYS: attempt hash, driver claim, deadlines zset, resolved zset, candidate set
// ARGV: driver id, now (unix ms), attempt id
var commitOfferScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 'not_found' end
local state = redis.call('HGET', KEYS[1], 'state')
if state == 'EXPIRED' then return 'expired' end
if state ~= 'OPEN' then return 'unavailable' end
if tonumber(ARGV[2]) > tonumber(redis.call('HGET', KEYS[1], 'deadline')) then return 'expired' end
if redis.call('SISMEMBER', KEYS[5], ARGV[1]) == 0 then return 'not_candidate' end
if redis.call('EXISTS', KEYS[2]) == 1 then return 'unavailable' end
redis.call('HSET', KEYS[1], 'state', 'COMMITTED', 'winner', ARGV[1], 'resolved_at', ARGV[2])
redis.call('SET', KEYS[2], redis.call('HGET', KEYS[1], 'delivery_id'))
redis.call('ZREM', KEYS[3], ARGV[3])
redis.call('ZADD', KEYS[4], ARGV[2], ARGV[3])
return 'ok'
`)

// KEYS: driver claim, attempt hash, resolved zset
// ARGV: delivery id, resolved at (unix ms), attempt id, field/value pairs...
var commitDirectScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX') then return 'unavailable' end
redis.call('HSET', KEYS[2], unpack(ARGV, 4))
redis.call('ZADD', KEYS[3], ARGV[2], ARGV[3])
return 'ok'
`)

// KEYS: attempt hash, deadlines zset, resolved zset
// ARGV: now (unix ms), attempt id
var expireScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 'not_found' end
if redis.call('HGET', KEYS[1], 'state') ~= 'OPEN' then return 'resolved' end
redis.call('HSET', KEYS[1], 'state', 'EXPIRED', 'resolved_at', ARGV[1])
redis.call('ZREM', KEYS[2], ARGV[2])
redis.call('ZADD', KEYS[3], ARGV[1], ARGV[2])
return 'ok'
`)

// KEYS: attempt hash, driver claim, deadlines zset, resolved zset
// ARGV: driver id, now (unix ms), attempt id, reopen flag
var revertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 'not_found' end
if redis.call('HGET', KEYS[1], 'state') ~= 'COMMITTED' then return 'unchanged' end
if redis.call('HGET', KEYS[1], 'winner') ~= ARGV[1] then return 'unchanged' end
if redis.call('GET', KEYS[2]) == redis.call('HGET', KEYS[1], 'delivery_id') then
  redis.call('DEL', KEYS[2])
end
local deadline = redis.call('HGET', KEYS[1], 'deadline')
if ARGV[4] == '1' and tonumber(ARGV[2]) < tonumber(deadline) then
  redis.call('HSET', KEYS[1], 'state', 'OPEN', 'winner', '', 'resolved_at', '0')
  redis.call('ZREM', KEYS[4], ARGV[3])
  redis.call('ZADD', KEYS[3], deadline, ARGV[3])
  return 'reopened'
end
redis.call('HSET', KEYS[1], 'state', 'EXPIRED', 'winner', '', 'resolved_at', ARGV[2])
redis.call('ZADD', KEYS[4], ARGV[2], ARGV[3])
return 'expired'
`)

// KEYS: driver claim; ARGV: delivery id
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then return redis.call('DEL', KEYS[1]) end
return 0
`)

// RedisCoordinatorStore shares attempts and driver claims between dispatch
// instances. Each commit is a single Lua script keyed by the driver claim.
type RedisCoordinatorStore struct {
	redisClient *database.RedisClient
	retention   time.Duration
}

// NewRedisCoordinatorStore creates a Redis-backed coordinator store.
// Offered-driver sets expire after retention.
func NewRedisCoordinatorStore(redisClient *database.RedisClient, retention time.Duration) *RedisCoordinatorStore {
	return &RedisCoordinatorStore{redisClient: redisClient, retention: retention}
}

func attemptKey(id string) string    { return fmt.Sprintf(constants.KeyAttempt, id) }
func offeredKey(id string) string    { return fmt.Sprintf(constants.KeyAttemptOffered, id) }
func claimKey(id string) string      { return fmt.Sprintf(constants.KeyDriverClaim, id) }
func deliveryKey(id string) string   { return fmt.Sprintf(constants.KeyDeliveryAttempt, id) }
func candidatesKey(id string) string { return fmt.Sprintf(constants.KeyAttemptCandidates, id) }

func unixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMs(raw string) time.Time {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func attemptFields(a *models.DispatchAttempt) ([]interface{}, error) {
	candidates, err := json.Marshal(a.Candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidates: %w", err)
	}
	return []interface{}{
		constants.FieldState, string(a.State),
		constants.FieldDeliveryID, a.DeliveryID,
		constants.FieldCandidates, string(candidates),
		constants.FieldWinner, a.WinnerID,
		constants.FieldRetry, strconv.Itoa(a.Retry),
		constants.FieldRadius, strconv.FormatFloat(a.RadiusKm, 'f', -1, 64),
		constants.FieldCreatedAt, strconv.FormatInt(unixMs(a.CreatedAt), 10),
		constants.FieldDeadline, strconv.FormatInt(unixMs(a.Deadline), 10),
		constants.FieldResolvedAt, strconv.FormatInt(unixMs(a.ResolvedAt), 10),
	}, nil
}

func parseAttempt(id string, h map[string]string) (*models.DispatchAttempt, error) {
	if len(h) == 0 {
		return nil, dispatch.ErrAttemptNotFound
	}
	retry, err := strconv.Atoi(h[constants.FieldRetry])
	if err != nil {
		return nil, fmt.Errorf("invalid retry for attempt %s: %w", id, err)
	}
	radius, err := strconv.ParseFloat(h[constants.FieldRadius], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid radius for attempt %s: %w", id, err)
	}

	var candidates []string
	if raw := h[constants.FieldCandidates]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
			return nil, fmt.Errorf("invalid candidates for attempt %s: %w", id, err)
		}
	}

	return &models.DispatchAttempt{
		ID:         id,
		DeliveryID: h[constants.FieldDeliveryID],
		Candidates: candidates,
		WinnerID:   h[constants.FieldWinner],
		State:      models.AttemptState(h[constants.FieldState]),
		Retry:      retry,
		RadiusKm:   radius,
		CreatedAt:  fromUnixMs(h[constants.FieldCreatedAt]),
		Deadline:   fromUnixMs(h[constants.FieldDeadline]),
		ResolvedAt: fromUnixMs(h[constants.FieldResolvedAt]),
	}, nil
}

// CreateAttempt writes the attempt hash and candidate set and indexes the
// attempt by deadline or resolution time
func (r *RedisCoordinatorStore) CreateAttempt(ctx context.Context, attempt *models.DispatchAttempt) error {
	fields, err := attemptFields(attempt)
	if err != nil {
		return err
	}

	_, err = r.redisClient.GetClient().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, attemptKey(attempt.ID), fields...)
		if len(attempt.Candidates) > 0 {
			members := make([]interface{}, len(attempt.Candidates))
			for i, c := range attempt.Candidates {
				members[i] = c
			}
			pipe.SAdd(ctx, candidatesKey(attempt.ID), members...)
		}
		if attempt.State == models.AttemptOpen {
			pipe.ZAdd(ctx, constants.KeyAttemptDeadlines, &redis.Z{
				Score:  float64(unixMs(attempt.Deadline)),
				Member: attempt.ID,
			})
			pipe.Set(ctx, deliveryKey(attempt.DeliveryID), attempt.ID, 0)
		} else {
			pipe.ZAdd(ctx, constants.KeyAttemptsResolved, &redis.Z{
				Score:  float64(unixMs(attempt.ResolvedAt)),
				Member: attempt.ID,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create dispatch attempt: %w", err)
	}
	return nil
}

// GetAttempt reads the attempt hash
func (r *RedisCoordinatorStore) GetAttempt(ctx context.Context, attemptID string) (*models.DispatchAttempt, error) {
	h, err := r.redisClient.GetClient().HGetAll(ctx, attemptKey(attemptID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatch attempt: %w", err)
	}
	return parseAttempt(attemptID, h)
}

// OpenAttemptFor follows the delivery pointer and checks the attempt is still OPEN
func (r *RedisCoordinatorStore) OpenAttemptFor(ctx context.Context, deliveryID string) (*models.DispatchAttempt, error) {
	attemptID, err := r.redisClient.Get(ctx, deliveryKey(deliveryID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open attempt: %w", err)
	}

	attempt, err := r.GetAttempt(ctx, attemptID)
	if err == dispatch.ErrAttemptNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if attempt.State != models.AttemptOpen {
		return nil, nil
	}
	return attempt, nil
}

// MarkOffered adds the driver to the attempt's offered set
func (r *RedisCoordinatorStore) MarkOffered(ctx context.Context, attemptID, driverID string) (bool, error) {
	key := offeredKey(attemptID)
	var added *redis.IntCmd
	_, err := r.redisClient.GetClient().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, key, driverID)
		if r.retention > 0 {
			pipe.Expire(ctx, key, r.retention)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to mark offer: %w", err)
	}
	return added.Val() == 1, nil
}

// CommitOffer runs the compare-and-commit script
func (r *RedisCoordinatorStore) CommitOffer(ctx context.Context, attemptID, driverID string, now time.Time) (*models.DispatchAttempt, error) {
	keys := []string{
		attemptKey(attemptID), claimKey(driverID),
		constants.KeyAttemptDeadlines, constants.KeyAttemptsResolved,
		candidatesKey(attemptID),
	}
	outcome, err := commitOfferScript.Run(ctx, r.redisClient.GetClient(), keys, driverID, unixMs(now), attemptID).Text()
	if err != nil {
		return nil, fmt.Errorf("failed to commit offer: %w", err)
	}

	switch outcome {
	case "ok":
		return r.GetAttempt(ctx, attemptID)
	case "not_found":
		return nil, dispatch.ErrAttemptNotFound
	case "expired":
		return nil, dispatch.ErrAttemptExpired
	case "not_candidate":
		return nil, dispatch.ErrNotCandidate
	default:
		return nil, dispatch.ErrDriverUnavailable
	}
}

// CommitDirect claims the winner and stores the committed attempt in one script
func (r *RedisCoordinatorStore) CommitDirect(ctx context.Context, attempt *models.DispatchAttempt) error {
	fields, err := attemptFields(attempt)
	if err != nil {
		return err
	}
	keys := []string{claimKey(attempt.WinnerID), attemptKey(attempt.ID), constants.KeyAttemptsResolved}
	args := append([]interface{}{attempt.DeliveryID, unixMs(attempt.ResolvedAt), attempt.ID}, fields...)

	outcome, err := commitDirectScript.Run(ctx, r.redisClient.GetClient(), keys, args...).Text()
	if err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}
	if outcome != "ok" {
		return dispatch.ErrDriverUnavailable
	}
	return nil
}

// RevertCommit runs the revert script
func (r *RedisCoordinatorStore) RevertCommit(ctx context.Context, attemptID, driverID string, reopen bool, now time.Time) (*models.DispatchAttempt, error) {
	keys := []string{attemptKey(attemptID), claimKey(driverID), constants.KeyAttemptDeadlines, constants.KeyAttemptsResolved}
	flag := "0"
	if reopen {
		flag = "1"
	}
	outcome, err := revertScript.Run(ctx, r.redisClient.GetClient(), keys, driverID, unixMs(now), attemptID, flag).Text()
	if err != nil {
		return nil, fmt.Errorf("failed to revert commit: %w", err)
	}
	if outcome == "not_found" {
		return nil, dispatch.ErrAttemptNotFound
	}
	return r.GetAttempt(ctx, attemptID)
}

// ExpireAttempt runs the OPEN to EXPIRED script
func (r *RedisCoordinatorStore) ExpireAttempt(ctx context.Context, attemptID string, now time.Time) (*models.DispatchAttempt, bool, error) {
	keys := []string{attemptKey(attemptID), constants.KeyAttemptDeadlines, constants.KeyAttemptsResolved}
	outcome, err := expireScript.Run(ctx, r.redisClient.GetClient(), keys, unixMs(now), attemptID).Text()
	if err != nil {
		return nil, false, fmt.Errorf("failed to expire attempt: %w", err)
	}
	if outcome == "not_found" {
		return nil, false, dispatch.ErrAttemptNotFound
	}

	attempt, err := r.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, false, err
	}
	return attempt, outcome == "ok", nil
}

// ListDueAttempts reads the deadline index up to now
func (r *RedisCoordinatorStore) ListDueAttempts(ctx context.Context, now time.Time) ([]string, error) {
	ids, err := r.redisClient.GetClient().ZRangeByScore(ctx, constants.KeyAttemptDeadlines, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(unixMs(now), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list due attempts: %w", err)
	}
	return ids, nil
}

// DriverHolds checks the driver claim key
func (r *RedisCoordinatorStore) DriverHolds(ctx context.Context, driverID string) (bool, error) {
	n, err := r.redisClient.GetClient().Exists(ctx, claimKey(driverID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check driver claim: %w", err)
	}
	return n == 1, nil
}

// ReleaseDriver deletes the claim only when it belongs to deliveryID
func (r *RedisCoordinatorStore) ReleaseDriver(ctx context.Context, driverID, deliveryID string) (bool, error) {
	n, err := releaseScript.Run(ctx, r.redisClient.GetClient(), []string{claimKey(driverID)}, deliveryID).Int()
	if err != nil {
		return false, fmt.Errorf("failed to release driver: %w", err)
	}
	return n == 1, nil
}

// PruneResolved deletes attempts resolved before the given time
func (r *RedisCoordinatorStore) PruneResolved(ctx context.Context, before time.Time) (int, error) {
	client := r.redisClient.GetClient()
	max := "(" + strconv.FormatInt(unixMs(before), 10)
	ids, err := client.ZRangeByScore(ctx, constants.KeyAttemptsResolved, &redis.ZRangeBy{Min: "-inf", Max: max}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list resolved attempts: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids)*3)
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, attemptKey(id), offeredKey(id), candidatesKey(id))
		members = append(members, id)
	}
	_, err = client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, constants.KeyAttemptsResolved, members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune attempts: %w", err)
	}
	return len(ids), nil
}
