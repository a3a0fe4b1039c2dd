package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/piresc/kirimjek/internal/pkg/database"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func openAttempt(id, deliveryID string, candidates ...string) *models.DispatchAttempt {
	return &models.DispatchAttempt{
		ID:         id,
		DeliveryID: deliveryID,
		Candidates: candidates,
		State:      models.AttemptOpen,
		RadiusKm:   3,
		CreatedAt:  base,
		Deadline:   base.Add(30 * time.Second),
	}
}

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

type storeFactory func(t *testing.T) dispatch.CoordinatorStore

func coordinatorStores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) dispatch.CoordinatorStore {
			return NewMemoryCoordinatorStore()
		},
		"redis": func(t *testing.T) dispatch.CoordinatorStore {
			client, _ := setupMockRedis(t)
			return NewRedisCoordinatorStore(client, time.Minute)
		},
	}
}

func TestCoordinatorStore_CommitOffer(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("winner commits and claims the driver", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1", "drv-2")))

				got, err := store.CommitOffer(ctx, "att-1", "drv-2", base.Add(time.Second))

				require.NoError(t, err)
				assert.Equal(t, models.AttemptCommitted, got.State)
				assert.Equal(t, "drv-2", got.WinnerID)
				holds, err := store.DriverHolds(ctx, "drv-2")
				require.NoError(t, err)
				assert.True(t, holds)
				open, err := store.OpenAttemptFor(ctx, "del-1")
				require.NoError(t, err)
				assert.Nil(t, open)
			})

			t.Run("second acceptance loses", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1", "drv-2")))
				_, err := store.CommitOffer(ctx, "att-1", "drv-1", base)
				require.NoError(t, err)

				_, err = store.CommitOffer(ctx, "att-1", "drv-2", base)
				assert.ErrorIs(t, err, dispatch.ErrDriverUnavailable)
				_, err = store.CommitOffer(ctx, "att-1", "drv-1", base)
				assert.ErrorIs(t, err, dispatch.ErrDriverUnavailable)
			})

			t.Run("driver holding another delivery cannot commit", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1")))
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-2", "del-2", "drv-1")))
				_, err := store.CommitOffer(ctx, "att-1", "drv-1", base)
				require.NoError(t, err)

				_, err = store.CommitOffer(ctx, "att-2", "drv-1", base)

				assert.ErrorIs(t, err, dispatch.ErrDriverUnavailable)
				still, err := store.GetAttempt(ctx, "att-2")
				require.NoError(t, err)
				assert.Equal(t, models.AttemptOpen, still.State)
			})

			t.Run("non candidate is rejected", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-10")))

				_, err := store.CommitOffer(ctx, "att-1", "drv-1", base)

				assert.ErrorIs(t, err, dispatch.ErrNotCandidate)
			})

			t.Run("candidate ids are matched whole", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv,1", "drv-2")))

				_, err := store.CommitOffer(ctx, "att-1", "drv", base)
				assert.ErrorIs(t, err, dispatch.ErrNotCandidate)
				_, err = store.CommitOffer(ctx, "att-1", "1", base)
				assert.ErrorIs(t, err, dispatch.ErrNotCandidate)

				got, err := store.CommitOffer(ctx, "att-1", "drv,1", base)
				require.NoError(t, err)
				assert.Equal(t, "drv,1", got.WinnerID)
				assert.Equal(t, []string{"drv,1", "drv-2"}, got.Candidates)
			})

			t.Run("late acceptance is expired", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1")))

				_, err := store.CommitOffer(ctx, "att-1", "drv-1", base.Add(31*time.Second))
				assert.ErrorIs(t, err, dispatch.ErrAttemptExpired)

				_, expired, err := store.ExpireAttempt(ctx, "att-1", base.Add(31*time.Second))
				require.NoError(t, err)
				assert.True(t, expired)
				_, err = store.CommitOffer(ctx, "att-1", "drv-1", base)
				assert.ErrorIs(t, err, dispatch.ErrAttemptExpired)
			})

			t.Run("unknown attempt", func(t *testing.T) {
				store := newStore(t)

				_, err := store.CommitOffer(ctx, "missing", "drv-1", base)

				assert.ErrorIs(t, err, dispatch.ErrAttemptNotFound)
			})
		})
	}
}

func TestCoordinatorStore_ExpireAndDue(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1")))

			due, err := store.ListDueAttempts(ctx, base.Add(10*time.Second))
			require.NoError(t, err)
			assert.Empty(t, due)

			due, err = store.ListDueAttempts(ctx, base.Add(30*time.Second))
			require.NoError(t, err)
			assert.Equal(t, []string{"att-1"}, due)

			got, expired, err := store.ExpireAttempt(ctx, "att-1", base.Add(30*time.Second))
			require.NoError(t, err)
			assert.True(t, expired)
			assert.Equal(t, models.AttemptExpired, got.State)

			_, expired, err = store.ExpireAttempt(ctx, "att-1", base.Add(31*time.Second))
			require.NoError(t, err)
			assert.False(t, expired, "second expiry is a no-op")

			due, err = store.ListDueAttempts(ctx, base.Add(time.Hour))
			require.NoError(t, err)
			assert.Empty(t, due)
		})
	}
}

func TestCoordinatorStore_MarkOffered(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1")))

			first, err := store.MarkOffered(ctx, "att-1", "drv-1")
			require.NoError(t, err)
			again, err := store.MarkOffered(ctx, "att-1", "drv-1")
			require.NoError(t, err)

			assert.True(t, first)
			assert.False(t, again)
		})
	}
}

func TestCoordinatorStore_CommitDirectAndRelease(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			direct := func(id, deliveryID string) *models.DispatchAttempt {
				return &models.DispatchAttempt{
					ID: id, DeliveryID: deliveryID, Candidates: []string{"drv-1"},
					WinnerID: "drv-1", State: models.AttemptCommitted,
					CreatedAt: base, Deadline: base, ResolvedAt: base,
				}
			}

			require.NoError(t, store.CommitDirect(ctx, direct("att-1", "del-1")))
			assert.ErrorIs(t, store.CommitDirect(ctx, direct("att-2", "del-2")), dispatch.ErrDriverUnavailable)

			stored, err := store.GetAttempt(ctx, "att-1")
			require.NoError(t, err)
			assert.Equal(t, "drv-1", stored.WinnerID)
			_, err = store.GetAttempt(ctx, "att-2")
			assert.ErrorIs(t, err, dispatch.ErrAttemptNotFound)

			released, err := store.ReleaseDriver(ctx, "drv-1", "del-2")
			require.NoError(t, err)
			assert.False(t, released, "claim belongs to another delivery")

			released, err = store.ReleaseDriver(ctx, "drv-1", "del-1")
			require.NoError(t, err)
			assert.True(t, released)
			require.NoError(t, store.CommitDirect(ctx, direct("att-3", "del-3")))
		})
	}
}

func TestCoordinatorStore_PruneResolved(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-open", "del-1", "drv-1")))
			require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-old", "del-2", "drv-2")))
			_, _, err := store.ExpireAttempt(ctx, "att-old", base)
			require.NoError(t, err)

			pruned, err := store.PruneResolved(ctx, base.Add(time.Minute))

			require.NoError(t, err)
			assert.Equal(t, 1, pruned)
			_, err = store.GetAttempt(ctx, "att-old")
			assert.ErrorIs(t, err, dispatch.ErrAttemptNotFound)
			_, err = store.GetAttempt(ctx, "att-open")
			assert.NoError(t, err)
		})
	}
}

func TestCoordinatorStore_ConcurrentAcceptsHaveOneWinner(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			const n = 32
			candidates := make([]string, n)
			for i := range candidates {
				candidates[i] = fmt.Sprintf("drv-%d", i)
			}
			require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", candidates...)))

			var wg sync.WaitGroup
			var mu sync.Mutex
			var winners []string
			unavailable := 0
			for _, id := range candidates {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					_, err := store.CommitOffer(ctx, "att-1", id, base)
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						winners = append(winners, id)
					} else if assert.ErrorIs(t, err, dispatch.ErrDriverUnavailable) {
						unavailable++
					}
				}(id)
			}
			wg.Wait()

			require.Len(t, winners, 1)
			assert.Equal(t, n-1, unavailable)
			got, err := store.GetAttempt(ctx, "att-1")
			require.NoError(t, err)
			assert.Equal(t, winners[0], got.WinnerID)
		})
	}
}

func TestCoordinatorStore_SameDriverConcurrentAccepts(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1", "drv-2")))

			const n = 32
			var wg sync.WaitGroup
			var mu sync.Mutex
			accepted, unavailable := 0, 0
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := store.CommitOffer(ctx, "att-1", "drv-1", base)
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						accepted++
					} else if assert.ErrorIs(t, err, dispatch.ErrDriverUnavailable) {
						unavailable++
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, accepted)
			assert.Equal(t, n-1, unavailable)
			got, err := store.GetAttempt(ctx, "att-1")
			require.NoError(t, err)
			assert.Equal(t, "drv-1", got.WinnerID)
		})
	}
}

func TestCoordinatorStore_RevertCommit(t *testing.T) {
	for name, newStore := range coordinatorStores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			committed := func(t *testing.T) dispatch.CoordinatorStore {
				store := newStore(t)
				require.NoError(t, store.CreateAttempt(ctx, openAttempt("att-1", "del-1", "drv-1", "drv-2")))
				_, err := store.CommitOffer(ctx, "att-1", "drv-1", base.Add(time.Second))
				require.NoError(t, err)
				return store
			}

			t.Run("reopens before the deadline", func(t *testing.T) {
				store := committed(t)

				got, err := store.RevertCommit(ctx, "att-1", "drv-1", true, base.Add(2*time.Second))

				require.NoError(t, err)
				assert.Equal(t, models.AttemptOpen, got.State)
				assert.Empty(t, got.WinnerID)
				assert.True(t, got.ResolvedAt.IsZero())
				holds, err := store.DriverHolds(ctx, "drv-1")
				require.NoError(t, err)
				assert.False(t, holds)
				open, err := store.OpenAttemptFor(ctx, "del-1")
				require.NoError(t, err)
				require.NotNil(t, open)
				assert.Equal(t, "att-1", open.ID)
				due, err := store.ListDueAttempts(ctx, base.Add(30*time.Second))
				require.NoError(t, err)
				assert.Equal(t, []string{"att-1"}, due)

				again, err := store.CommitOffer(ctx, "att-1", "drv-2", base.Add(3*time.Second))
				require.NoError(t, err)
				assert.Equal(t, "drv-2", again.WinnerID)
			})

			t.Run("expires when reopening is not wanted", func(t *testing.T) {
				store := committed(t)

				got, err := store.RevertCommit(ctx, "att-1", "drv-1", false, base.Add(2*time.Second))

				require.NoError(t, err)
				assert.Equal(t, models.AttemptExpired, got.State)
				assert.Empty(t, got.WinnerID)
				holds, err := store.DriverHolds(ctx, "drv-1")
				require.NoError(t, err)
				assert.False(t, holds)
				_, err = store.CommitOffer(ctx, "att-1", "drv-2", base.Add(3*time.Second))
				assert.ErrorIs(t, err, dispatch.ErrAttemptExpired)
			})

			t.Run("expires once the deadline is reached", func(t *testing.T) {
				store := committed(t)

				got, err := store.RevertCommit(ctx, "att-1", "drv-1", true, base.Add(30*time.Second))

				require.NoError(t, err)
				assert.Equal(t, models.AttemptExpired, got.State)
				due, err := store.ListDueAttempts(ctx, base.Add(time.Minute))
				require.NoError(t, err)
				assert.Empty(t, due)
			})

			t.Run("other driver leaves the commit alone", func(t *testing.T) {
				store := committed(t)

				got, err := store.RevertCommit(ctx, "att-1", "drv-2", true, base.Add(2*time.Second))

				require.NoError(t, err)
				assert.Equal(t, models.AttemptCommitted, got.State)
				assert.Equal(t, "drv-1", got.WinnerID)
				holds, err := store.DriverHolds(ctx, "drv-1")
				require.NoError(t, err)
				assert.True(t, holds)
			})

			t.Run("unknown attempt", func(t *testing.T) {
				store := newStore(t)

				_, err := store.RevertCommit(ctx, "missing", "drv-1", true, base)

				assert.ErrorIs(t, err, dispatch.ErrAttemptNotFound)
			})
		})
	}
}

func TestRedisCoordinatorStore_RoundTripsAttempt(t *testing.T) {
	client, mr := setupMockRedis(t)
	store := NewRedisCoordinatorStore(client, time.Minute)
	ctx := context.Background()
	want := openAttempt("att-1", "del-1", "drv-1", "drv-2")
	want.Retry = 2
	want.RadiusKm = 5.5

	require.NoError(t, store.CreateAttempt(ctx, want))
	got, err := store.GetAttempt(ctx, "att-1")

	require.NoError(t, err)
	assert.Equal(t, want.Candidates, got.Candidates)
	assert.Equal(t, 2, got.Retry)
	assert.Equal(t, 5.5, got.RadiusKm)
	assert.True(t, want.Deadline.Equal(got.Deadline))
	assert.True(t, got.ResolvedAt.IsZero())
	assert.True(t, mr.Exists("dispatch:delivery:del-1"))
}
