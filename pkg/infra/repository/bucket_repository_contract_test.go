package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func upsert(t *testing.T, repo bucket.Repository, policy, key, eventID string, timing bucket.Timing, now time.Time) *bucket.UpsertResult {
	t.Helper()
	res, err := repo.Upsert(context.Background(), bucket.UpsertParams{
		PolicyName:  policy,
		GroupingKey: key,
		EventID:     eventID,
		Timing:      timing,
		Now:         now,
	})
	require.NoError(t, err)
	return res
}

// runRepositoryContract exercises the behaviour every timer store must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) bucket.Repository) {
	t.Run("creates then appends", func(t *testing.T) {
		repo := newRepo(t)
		first := upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(15), baseTime)
		assert.True(t, first.Created)
		assert.Equal(t, []string{"e1"}, first.Bucket.Members())
		assert.WithinDuration(t, baseTime.Add(15*time.Minute), first.Bucket.FireAt, time.Millisecond)

		second := upsert(t, repo, "comments", "user-1", "e2", bucket.Delayed(15), baseTime.Add(10*time.Minute))
		assert.False(t, second.Created)
		assert.Equal(t, first.Bucket.ID, second.Bucket.ID)
		assert.Equal(t, []string{"e1", "e2"}, second.Bucket.Members())
		assert.WithinDuration(t, baseTime.Add(25*time.Minute), second.Bucket.FireAt, time.Millisecond)
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		repo := newRepo(t)
		upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(5), baseTime)
		res := upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(5), baseTime)
		assert.Equal(t, []string{"e1", "e1"}, res.Bucket.Members())
	})

	t.Run("scheduled hour fire time is pinned", func(t *testing.T) {
		repo := newRepo(t)
		timing := bucket.ScheduledHour(18, "UTC")
		first := upsert(t, repo, "digest", "user-1", "e1", timing, baseTime)
		second := upsert(t, repo, "digest", "user-1", "e2", timing, baseTime.Add(3*time.Hour))
		assert.True(t, first.Bucket.FireAt.Equal(second.Bucket.FireAt))
		assert.WithinDuration(t, time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC), second.Bucket.FireAt, time.Millisecond)
	})

	t.Run("deadline caps the fire time", func(t *testing.T) {
		repo := newRepo(t)
		timing := bucket.Delayed(15)
		timing.MaxWaitMinutes = 30
		upsert(t, repo, "comments", "user-1", "e1", timing, baseTime)
		res := upsert(t, repo, "comments", "user-1", "e2", timing, baseTime.Add(25*time.Minute))
		assert.WithinDuration(t, baseTime.Add(30*time.Minute), res.Bucket.FireAt, time.Millisecond)
		require.NotNil(t, res.Bucket.DeadlineAt)
	})

	t.Run("create only rejects existing bucket", func(t *testing.T) {
		repo := newRepo(t)
		upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(15), baseTime)
		_, err := repo.Upsert(context.Background(), bucket.UpsertParams{
			PolicyName:  "comments",
			GroupingKey: "user-1",
			EventID:     "e2",
			Timing:      bucket.Delayed(0),
			Now:         baseTime,
			CreateOnly:  true,
		})
		assert.ErrorIs(t, err, bucket.ErrBucketExists)

		res, err := repo.Upsert(context.Background(), bucket.UpsertParams{
			PolicyName:  "comments",
			GroupingKey: "user-2",
			EventID:     "e3",
			Timing:      bucket.Delayed(0),
			Now:         baseTime,
			CreateOnly:  true,
		})
		require.NoError(t, err)
		assert.True(t, res.Created)
	})

	t.Run("override-created bucket keeps its timing on append", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Upsert(ctx, bucket.UpsertParams{
			PolicyName:  "comments",
			GroupingKey: "user-1",
			EventID:     "e1",
			Timing:      bucket.Delayed(0),
			Now:         baseTime,
			CreateOnly:  true,
		})
		require.NoError(t, err)

		res := upsert(t, repo, "comments", "user-1", "e2", bucket.Delayed(15), baseTime)
		assert.False(t, res.Created)
		assert.Equal(t, []string{"e1", "e2"}, res.Bucket.Members())
		assert.WithinDuration(t, baseTime, res.Bucket.FireAt, time.Millisecond)

		due, err := repo.FindDue(ctx, "comments", baseTime, 10)
		require.NoError(t, err)
		assert.Len(t, due, 1)
	})

	t.Run("override-created bucket keeps its timing under a scheduled policy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Upsert(ctx, bucket.UpsertParams{
			PolicyName:  "digest",
			GroupingKey: "user-1",
			EventID:     "e1",
			Timing:      bucket.Delayed(0),
			Now:         baseTime,
			CreateOnly:  true,
		})
		require.NoError(t, err)

		res := upsert(t, repo, "digest", "user-1", "e2", bucket.ScheduledHour(18, "UTC"), baseTime.Add(time.Minute))
		assert.Equal(t, []string{"e1", "e2"}, res.Bucket.Members())
		assert.WithinDuration(t, baseTime.Add(time.Minute), res.Bucket.FireAt, time.Millisecond)
	})

	t.Run("keys never merge", func(t *testing.T) {
		repo := newRepo(t)
		a := upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(15), baseTime)
		b := upsert(t, repo, "comments", "user-2", "e2", bucket.Delayed(15), baseTime)
		c := upsert(t, repo, "votes", "user-1", "e3", bucket.Delayed(15), baseTime)
		assert.NotEqual(t, a.Bucket.ID, b.Bucket.ID)
		assert.NotEqual(t, a.Bucket.ID, c.Bucket.ID)

		active, err := repo.ListActive(context.Background())
		require.NoError(t, err)
		assert.Len(t, active, 3)
	})

	t.Run("find due and mark dispatched", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		due := upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(5), baseTime)
		upsert(t, repo, "comments", "user-2", "e2", bucket.Delayed(60), baseTime)

		buckets, err := repo.FindDue(ctx, "comments", baseTime.Add(10*time.Minute), 10)
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Equal(t, due.Bucket.ID, buckets[0].ID)

		claimed, ok, err := repo.MarkDispatched(ctx, due.Bucket.ID, baseTime.Add(10*time.Minute))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, claimed.Dispatched)
		assert.Equal(t, []string{"e1"}, claimed.Members())

		_, ok, err = repo.MarkDispatched(ctx, due.Bucket.ID, baseTime.Add(11*time.Minute))
		require.NoError(t, err)
		assert.False(t, ok)

		buckets, err = repo.FindDue(ctx, "comments", baseTime.Add(10*time.Minute), 10)
		require.NoError(t, err)
		assert.Empty(t, buckets)

		next := upsert(t, repo, "comments", "user-1", "e9", bucket.Delayed(5), baseTime.Add(12*time.Minute))
		assert.True(t, next.Created, "a dispatched bucket is never reused")
	})

	t.Run("count due and purge", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		a := upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(1), baseTime)
		upsert(t, repo, "comments", "user-2", "e2", bucket.Delayed(1), baseTime)
		upsert(t, repo, "votes", "user-1", "e3", bucket.Delayed(1), baseTime)

		counts, err := repo.CountDue(ctx, baseTime.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"comments": 2, "votes": 1}, counts)

		_, ok, err := repo.MarkDispatched(ctx, a.Bucket.ID, baseTime.Add(2*time.Minute))
		require.NoError(t, err)
		require.True(t, ok)

		purged, err := repo.PurgeDispatched(ctx, baseTime.Add(time.Minute))
		require.NoError(t, err)
		assert.Zero(t, purged)

		purged, err = repo.PurgeDispatched(ctx, baseTime.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		_, err = repo.Get(ctx, a.Bucket.ID)
		assert.ErrorIs(t, err, bucket.ErrBucketNotFound)
	})

	t.Run("get unknown bucket", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, bucket.ErrBucketNotFound)
	})

	t.Run("concurrent first appends create one bucket", func(t *testing.T) {
		repo := newRepo(t)
		const writers = 8
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Upsert(context.Background(), bucket.UpsertParams{
					PolicyName:  "comments",
					GroupingKey: "user-race",
					EventID:     fmt.Sprintf("e%d", i),
					Timing:      bucket.Delayed(15),
					Now:         baseTime,
				})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		active, err := repo.ListActiveByPolicy(context.Background(), "comments", 0)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Len(t, active[0].MemberEventIDs, writers)
	})

	t.Run("concurrent claims dispatch once", func(t *testing.T) {
		repo := newRepo(t)
		res := upsert(t, repo, "comments", "user-1", "e1", bucket.Delayed(0), baseTime)

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := repo.MarkDispatched(context.Background(), res.Bucket.ID, baseTime)
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
}
