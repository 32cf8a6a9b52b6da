package debouncer_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	bucketMocks "github.com/NeuralTrust/TrustBatch/pkg/domain/bucket/mocks"
	cacheMocks "github.com/NeuralTrust/TrustBatch/pkg/infra/cache/mocks"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_DelayedPolicyExtendsOnEveryEvent(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(15), rec.callback)
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	for i, offset := range []time.Duration{0, 10 * time.Minute, 20 * time.Minute} {
		clock.Set(t0.Add(offset))
		require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", fmt.Sprintf("e%d", i+1), nil))
	}

	clock.Set(t0.Add(34*time.Minute + 59*time.Second))
	assert.Zero(t, d.Sweep(ctx))

	clock.Set(t0.Add(35 * time.Minute))
	assert.Equal(t, 1, d.Sweep(ctx))

	batches := rec.waitFor(t, 1)
	require.Len(t, batches, 1)
	assert.Equal(t, "user-1", batches[0].key)
	assert.Equal(t, []string{"e1", "e2", "e3"}, batches[0].members)

	clock.Set(t0.Add(time.Hour))
	assert.Zero(t, d.Sweep(ctx))
}

func TestDebouncer_ScheduledHourDoesNotMove(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("digest", bucket.ScheduledHour(18, "UTC"), rec.callback)
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	require.NoError(t, d.RecordEvent(ctx, "digest", "user-1", "e1", nil))
	before, err := d.ListBuckets(ctx, "digest", 0)
	require.NoError(t, err)
	require.Len(t, before, 1)

	clock.Set(t0.Add(2 * time.Hour))
	require.NoError(t, d.RecordEvent(ctx, "digest", "user-1", "e2", nil))
	after, err := d.ListBuckets(ctx, "digest", 0)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.True(t, before[0].FireAt.Equal(after[0].FireAt))

	clock.Set(time.Date(2025, 3, 4, 17, 59, 0, 0, time.UTC))
	assert.Zero(t, d.Sweep(ctx))
	clock.Set(time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, d.Sweep(ctx))

	batches := rec.waitFor(t, 1)
	assert.Equal(t, []string{"e1", "e2"}, batches[0].members)
}

func TestDebouncer_ExactlyOnceAcrossInstances(t *testing.T) {
	repo := newMemoryRepo()
	clock := newClock()
	var calls sync.Map
	var total atomic.Int64
	callback := func(_ context.Context, key string, _ []string) error {
		total.Add(1)
		counter, _ := calls.LoadOrStore(key, new(atomic.Int64))
		counter.(*atomic.Int64).Add(1)
		return nil
	}

	instances := make([]*debouncer.Debouncer, 2)
	for i := range instances {
		registry := debouncer.NewRegistry()
		registry.MustRegister("comments", bucket.Delayed(1), callback)
		instances[i] = newDebouncer(t, registry, repo, clock, nil)
	}

	ctx := context.Background()
	const keys = 10
	for k := 0; k < keys; k++ {
		require.NoError(t, instances[k%2].RecordEvent(ctx, "comments", fmt.Sprintf("user-%d", k), "e", nil))
	}
	clock.Set(t0.Add(time.Minute))

	var wg sync.WaitGroup
	var claimed atomic.Int64
	for _, d := range instances {
		wg.Add(1)
		go func(d *debouncer.Debouncer) {
			defer wg.Done()
			claimed.Add(int64(d.Sweep(ctx)))
		}(d)
	}
	wg.Wait()
	for _, d := range instances {
		d.Close()
	}

	assert.Equal(t, int64(keys), claimed.Load())
	assert.Equal(t, int64(keys), total.Load())
	calls.Range(func(_, v any) bool {
		assert.Equal(t, int64(1), v.(*atomic.Int64).Load())
		return true
	})
}

func TestDebouncer_KeysAreIsolated(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(5), rec.callback)
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "a1", nil))
	require.NoError(t, d.RecordEvent(ctx, "comments", "user-2", "b1", nil))
	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "a2", nil))

	clock.Set(t0.Add(5 * time.Minute))
	assert.Equal(t, 2, d.Sweep(ctx))

	got := map[string][]string{}
	for _, b := range rec.waitFor(t, 2) {
		got[b.key] = b.members
	}
	assert.Equal(t, map[string][]string{
		"user-1": {"a1", "a2"},
		"user-2": {"b1"},
	}, got)
}

func TestDebouncer_RecoveryAfterRestart(t *testing.T) {
	repo := newMemoryRepo()
	clock := newClock()
	ctx := context.Background()

	first := debouncer.NewRegistry()
	firstRec := &recorder{}
	first.MustRegister("comments", bucket.Delayed(15), firstRec.callback)
	before := newDebouncer(t, first, repo, clock, nil)
	require.NoError(t, before.RecordEvent(ctx, "comments", "user-1", "e1", nil))
	clock.Set(t0.Add(5 * time.Minute))
	require.NoError(t, before.RecordEvent(ctx, "comments", "user-1", "e2", nil))
	before.Close()

	second := debouncer.NewRegistry()
	rec := &recorder{}
	second.MustRegister("comments", bucket.Delayed(15), rec.callback)
	after := newDebouncer(t, second, repo, clock, nil)

	armed, err := after.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, armed)
	armed, err = after.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, armed)

	next, ok := after.NextWake()
	require.True(t, ok)
	assert.True(t, next.Equal(t0.Add(20*time.Minute)))

	clock.Set(t0.Add(20 * time.Minute))
	assert.Equal(t, 1, after.Sweep(ctx))
	assert.Zero(t, after.Sweep(ctx))

	batches := rec.waitFor(t, 1)
	assert.Equal(t, []string{"e1", "e2"}, batches[0].members)
	assert.Empty(t, firstRec.snapshot())
}

func TestDebouncer_RecoveryIgnoresUnknownPolicies(t *testing.T) {
	repo := newMemoryRepo()
	clock := newClock()
	ctx := context.Background()

	old := debouncer.NewRegistry()
	old.MustRegister("retired", bucket.Delayed(1), noop)
	require.NoError(t, newDebouncer(t, old, repo, clock, nil).RecordEvent(ctx, "retired", "user-1", "e1", nil))

	current := debouncer.NewRegistry()
	current.MustRegister("comments", bucket.Delayed(1), noop)
	d := newDebouncer(t, current, repo, clock, nil)

	armed, err := d.Recover(ctx)
	require.NoError(t, err)
	assert.Zero(t, armed)
	_, ok := d.NextWake()
	assert.False(t, ok)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDebouncer_ConcurrentFirstEventsShareOneBucket(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(5), rec.callback)
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"e1", "e2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, d.RecordEvent(ctx, "comments", "user-new", id, nil))
		}(id)
	}
	wg.Wait()

	buckets, err := d.ListBuckets(ctx, "comments", 0)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.ElementsMatch(t, []string{"e1", "e2"}, buckets[0].Members())
}

func TestDebouncer_TimingOverride(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(15), rec.callback)
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	immediate := bucket.Delayed(0)
	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e1", &immediate))

	err := d.RecordEvent(ctx, "comments", "user-1", "e2", &immediate)
	assert.ErrorIs(t, err, debouncer.ErrTimingOverride)
	assert.ErrorIs(t, err, debouncer.ErrConfiguration)
	assert.False(t, debouncer.IsRetryable(err))

	invalid := bucket.Timing{Kind: "weekly"}
	err = d.RecordEvent(ctx, "comments", "user-2", "e3", &invalid)
	assert.ErrorIs(t, err, debouncer.ErrInvalidTiming)

	assert.Equal(t, 1, d.Sweep(ctx))
	batches := rec.waitFor(t, 1)
	assert.Equal(t, []string{"e1"}, batches[0].members)
}

func TestDebouncer_OverrideTimingSurvivesAppend(t *testing.T) {
	for name, timing := range map[string]bucket.Timing{
		"delayed policy":        bucket.Delayed(15),
		"scheduled hour policy": bucket.ScheduledHour(18, "UTC"),
	} {
		t.Run(name, func(t *testing.T) {
			registry := debouncer.NewRegistry()
			rec := &recorder{}
			registry.MustRegister("comments", timing, rec.callback)
			d := newDebouncer(t, registry, newMemoryRepo(), newClock(), nil)
			ctx := context.Background()

			immediate := bucket.Delayed(0)
			require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e1", &immediate))
			require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e2", nil))

			assert.Equal(t, 1, d.Sweep(ctx))
			batches := rec.waitFor(t, 1)
			assert.Equal(t, []string{"e1", "e2"}, batches[0].members)
		})
	}
}

func TestDebouncer_OverrideKeepsPolicyMaxWait(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(15), rec.callback, debouncer.WithMaxWait(30*time.Minute))
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	slower := bucket.Delayed(20)
	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e1", &slower))
	clock.Set(t0.Add(15 * time.Minute))
	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e2", nil))

	buckets, err := d.ListBuckets(ctx, "comments", 10)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.NotNil(t, buckets[0].DeadlineAt)
	assert.WithinDuration(t, t0.Add(30*time.Minute), *buckets[0].DeadlineAt, time.Millisecond)
	assert.WithinDuration(t, t0.Add(30*time.Minute), buckets[0].FireAt, time.Millisecond)

	clock.Set(t0.Add(30 * time.Minute))
	assert.Equal(t, 1, d.Sweep(ctx))
	rec.waitFor(t, 1)
}

func TestDebouncer_UnknownPolicy(t *testing.T) {
	d := newDebouncer(t, debouncer.NewRegistry(), newMemoryRepo(), newClock(), nil)
	ctx := context.Background()

	assert.ErrorIs(t, d.RecordEvent(ctx, "missing", "k", "e", nil), debouncer.ErrUnknownPolicy)
	assert.ErrorIs(t, d.Emit(ctx, "missing", "k", "e", nil), debouncer.ErrUnknownPolicy)
	_, err := d.ListBuckets(ctx, "missing", 10)
	assert.ErrorIs(t, err, debouncer.ErrUnknownPolicy)
}

func TestDebouncer_CallbackFailureIsNotRetried(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{err: errors.New("smtp down")}
	registry.MustRegister("comments", bucket.Delayed(1), rec.callback)
	registry.MustRegister("panics", bucket.Delayed(1), func(context.Context, string, []string) error {
		panic("template missing")
	})

	var mu sync.Mutex
	reported := map[string]error{}
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, &debouncer.Opts{
		FailureReporter: func(policy string, _ *bucket.Bucket, err error) {
			mu.Lock()
			defer mu.Unlock()
			reported[policy] = err
		},
	})
	ctx := context.Background()

	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e1", nil))
	require.NoError(t, d.RecordEvent(ctx, "panics", "user-1", "e1", nil))
	clock.Set(t0.Add(time.Minute))
	assert.Equal(t, 2, d.Sweep(ctx))
	rec.waitFor(t, 1)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) == 2
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.EqualError(t, reported["comments"], "smtp down")
	assert.Contains(t, reported["panics"].Error(), "template missing")
	mu.Unlock()

	clock.Set(t0.Add(time.Hour))
	assert.Zero(t, d.Sweep(ctx))
	d.Close()
	assert.Len(t, rec.snapshot(), 1)
}

func TestDebouncer_MaxWaitCapsExtension(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(15), rec.callback, debouncer.WithMaxWait(30*time.Minute))
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	for i, offset := range []time.Duration{0, 10 * time.Minute, 20 * time.Minute, 25 * time.Minute} {
		clock.Set(t0.Add(offset))
		require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", fmt.Sprintf("e%d", i), nil))
	}

	clock.Set(t0.Add(30 * time.Minute))
	assert.Equal(t, 1, d.Sweep(ctx))
	batches := rec.waitFor(t, 1)
	assert.Len(t, batches[0].members, 4)
}

func TestDebouncer_ForceFire(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("digest", bucket.ScheduledHour(18, "UTC"), rec.callback)
	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	require.NoError(t, d.RecordEvent(ctx, "digest", "user-1", "e1", nil))
	buckets, err := d.ListBuckets(ctx, "digest", 0)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	require.NoError(t, d.ForceFire(ctx, buckets[0].ID))
	assert.Equal(t, []batch{{key: "user-1", members: []string{"e1"}}}, rec.snapshot())

	assert.ErrorIs(t, d.ForceFire(ctx, buckets[0].ID), debouncer.ErrAlreadyDispatched)
	assert.ErrorIs(t, d.ForceFire(ctx, uuid.New()), debouncer.ErrBucketNotFound)

	clock.Set(time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC))
	assert.Zero(t, d.Sweep(ctx))
}

func TestDebouncer_ForceFireReturnsCallbackError(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{err: errors.New("push gateway rejected")}
	registry.MustRegister("comments", bucket.Delayed(15), rec.callback)
	d := newDebouncer(t, registry, newMemoryRepo(), newClock(), nil)
	ctx := context.Background()

	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e1", nil))
	buckets, err := d.ListBuckets(ctx, "comments", 0)
	require.NoError(t, err)

	assert.EqualError(t, d.ForceFire(ctx, buckets[0].ID), "push gateway rejected")
	assert.ErrorIs(t, d.ForceFire(ctx, buckets[0].ID), debouncer.ErrAlreadyDispatched)
}

func TestDebouncer_StorageUnavailable(t *testing.T) {
	repo := bucketMocks.NewRepository(t)
	storeErr := errors.New("connection refused")
	repo.EXPECT().Upsert(mock.Anything, mock.Anything).Return(nil, storeErr).Once()
	repo.EXPECT().FindDue(mock.Anything, "comments", mock.Anything, 10).Return(nil, storeErr).Once()
	repo.EXPECT().CountDue(mock.Anything, mock.Anything).Return(nil, storeErr).Once()

	registry := debouncer.NewRegistry()
	registry.MustRegister("comments", bucket.Delayed(15), noop)
	d := newDebouncer(t, registry, repo, newClock(), nil)
	ctx := context.Background()

	err := d.RecordEvent(ctx, "comments", "user-1", "e1", nil)
	assert.ErrorIs(t, err, debouncer.ErrStorageUnavailable)
	assert.ErrorIs(t, err, storeErr)
	assert.True(t, debouncer.IsRetryable(err))

	assert.Zero(t, d.Sweep(ctx))
}

func TestDebouncer_SkipsBucketsClaimedElsewhere(t *testing.T) {
	repo := bucketMocks.NewRepository(t)
	due := &bucket.Bucket{ID: uuid.New(), PolicyName: "comments", GroupingKey: "user-1", FireAt: t0}
	repo.EXPECT().FindDue(mock.Anything, "comments", t0, 10).Return([]*bucket.Bucket{due}, nil).Once()
	repo.EXPECT().MarkDispatched(mock.Anything, due.ID, t0).Return(nil, false, nil).Once()
	repo.EXPECT().CountDue(mock.Anything, t0).Return(map[string]int64{}, nil).Once()

	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(15), rec.callback)
	d := newDebouncer(t, registry, repo, newClock(), nil)

	assert.Zero(t, d.Sweep(context.Background()))
	d.Close()
	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_EmitRecordsAsynchronously(t *testing.T) {
	registry := debouncer.NewRegistry()
	registry.MustRegister("comments", bucket.Delayed(15), noop)
	repo := newMemoryRepo()
	d := newDebouncer(t, registry, repo, newClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Emit(ctx, "comments", "user-1", "e1", nil))
	require.NoError(t, d.Emit(ctx, "comments", "user-1", "e2", nil))
	cancel()

	invalid := bucket.Timing{Kind: bucket.KindScheduledHour, Hour: 30}
	assert.ErrorIs(t, d.Emit(context.Background(), "comments", "user-2", "e3", &invalid), debouncer.ErrInvalidTiming)

	d.Close()

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.ElementsMatch(t, []string{"e1", "e2"}, active[0].Members())
}

func TestDebouncer_AnnouncesScheduleOverRedis(t *testing.T) {
	publisher := cacheMocks.NewEventPublisher(t)
	publisher.EXPECT().
		Publish(mock.Anything, mock.MatchedBy(func(ev event.Event) bool {
			scheduled, ok := ev.(event.BucketScheduledEvent)
			return ok &&
				scheduled.PolicyName == "comments" &&
				scheduled.Origin == "instance-a" &&
				scheduled.FireAt.Equal(t0.Add(15*time.Minute))
		})).
		Return(errors.New("redis down")).
		Once()

	registry := debouncer.NewRegistry()
	registry.MustRegister("comments", bucket.Delayed(15), noop)
	d := newDebouncer(t, registry, newMemoryRepo(), newClock(), &debouncer.Opts{
		Publisher:  publisher,
		InstanceID: "instance-a",
	})

	assert.NoError(t, d.RecordEvent(context.Background(), "comments", "user-1", "e1", nil),
		"a failed announcement never fails the write")
}

func TestDebouncer_WakeKeepsEarliestTime(t *testing.T) {
	registry := debouncer.NewRegistry()
	registry.MustRegister("comments", bucket.Delayed(15), noop)
	d := newDebouncer(t, registry, newMemoryRepo(), newClock(), nil)

	d.Wake("comments", t0.Add(time.Hour))
	d.Wake("comments", t0.Add(time.Minute))
	d.Wake("comments", t0.Add(2*time.Hour))
	d.Wake("unknown", t0)

	next, ok := d.NextWake()
	require.True(t, ok)
	assert.True(t, next.Equal(t0.Add(time.Minute)))
}

func TestDebouncer_PurgesDispatchedBuckets(t *testing.T) {
	registry := debouncer.NewRegistry()
	registry.MustRegister("comments", bucket.Delayed(0), noop)
	repo := newMemoryRepo()
	clock := newClock()
	d := newDebouncer(t, registry, repo, clock, nil)
	ctx := context.Background()

	require.NoError(t, d.RecordEvent(ctx, "comments", "user-1", "e1", nil))
	assert.Equal(t, 1, d.Sweep(ctx))

	purged, err := d.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	clock.Set(t0.Add(73 * time.Hour))
	purged, err = d.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestDebouncer_RunFiresDueBuckets(t *testing.T) {
	registry := debouncer.NewRegistry()
	rec := &recorder{}
	registry.MustRegister("comments", bucket.Delayed(0), rec.callback)
	d := debouncer.New(testLogger(), registry, newMemoryRepo(), debouncer.Config{
		SweepInterval: time.Hour,
	}, nil)
	t.Cleanup(d.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.NoError(t, d.RecordEvent(context.Background(), "comments", "user-1", "e1", nil))
	batches := rec.waitFor(t, 1)
	assert.Equal(t, []string{"e1"}, batches[0].members)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not stop")
	}
}
