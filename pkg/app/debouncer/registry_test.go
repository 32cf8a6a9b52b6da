package debouncer_test

import (
	"context"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, string, []string) error { return nil }

func TestRegistry_Register(t *testing.T) {
	registry := debouncer.NewRegistry()
	require.NoError(t, registry.Register("comments", bucket.Delayed(15), noop))

	err := registry.Register("comments", bucket.Delayed(5), noop)
	assert.ErrorIs(t, err, debouncer.ErrDuplicatePolicy)
	assert.ErrorIs(t, err, debouncer.ErrConfiguration)

	err = registry.Register("digest", bucket.ScheduledHour(25, "UTC"), noop)
	assert.ErrorIs(t, err, debouncer.ErrInvalidTiming)
	assert.ErrorIs(t, err, debouncer.ErrConfiguration)

	err = registry.Register("broken", bucket.Delayed(5), nil)
	assert.ErrorIs(t, err, debouncer.ErrConfiguration)

	_, ok := registry.Lookup("digest")
	assert.False(t, ok, "a rejected registration leaves no policy behind")
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	registry := debouncer.NewRegistry()
	registry.MustRegister("comments", bucket.Delayed(15), noop)
	assert.Panics(t, func() {
		registry.MustRegister("comments", bucket.Delayed(15), noop)
	})
}

func TestRegistry_PoliciesAreSorted(t *testing.T) {
	registry := debouncer.NewRegistry()
	registry.MustRegister("votes", bucket.Delayed(5), noop)
	registry.MustRegister("comments", bucket.Delayed(15), noop, debouncer.WithMaxWait(2*time.Hour))

	policies := registry.Policies()
	require.Len(t, policies, 2)
	assert.Equal(t, "comments", policies[0].Name)
	assert.Equal(t, 120, policies[0].Timing.MaxWaitMinutes)
	assert.Equal(t, "delayed(15m)", policies[0].Rule)
	assert.Equal(t, "votes", policies[1].Name)
}

func TestRegistry_MaxWaitRoundsUpToWholeMinutes(t *testing.T) {
	registry := debouncer.NewRegistry()
	registry.MustRegister("seconds", bucket.Delayed(1), noop, debouncer.WithMaxWait(30*time.Second))
	registry.MustRegister("partial", bucket.Delayed(1), noop, debouncer.WithMaxWait(90*time.Second))
	registry.MustRegister("none", bucket.Delayed(1), noop, debouncer.WithMaxWait(0))

	seconds, ok := registry.Lookup("seconds")
	require.True(t, ok)
	assert.Equal(t, 1, seconds.Timing.MaxWaitMinutes)

	partial, ok := registry.Lookup("partial")
	require.True(t, ok)
	assert.Equal(t, 2, partial.Timing.MaxWaitMinutes)

	none, ok := registry.Lookup("none")
	require.True(t, ok)
	assert.Zero(t, none.Timing.MaxWaitMinutes)
}

func TestRegistry_TimeZoneSource(t *testing.T) {
	registry := debouncer.NewRegistry()
	zones := map[string]string{"user-madrid": "Europe/Madrid", "user-bogus": "Mars/Olympus"}
	registry.MustRegister("digest", bucket.ScheduledHour(9, "UTC"), noop,
		debouncer.WithTimeZoneSource(func(key string) string { return zones[key] }))

	clock := newClock()
	d := newDebouncer(t, registry, newMemoryRepo(), clock, nil)
	ctx := context.Background()

	require.NoError(t, d.RecordEvent(ctx, "digest", "user-madrid", "e1", nil))
	require.NoError(t, d.RecordEvent(ctx, "digest", "user-bogus", "e2", nil))
	require.NoError(t, d.RecordEvent(ctx, "digest", "user-other", "e3", nil))

	buckets, err := d.ListBuckets(ctx, "digest", 0)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	fireAt := map[string]time.Time{}
	for _, b := range buckets {
		fireAt[b.GroupingKey] = b.FireAt
	}
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	assert.True(t, fireAt["user-madrid"].Equal(time.Date(2025, 3, 5, 9, 0, 0, 0, madrid)))
	assert.True(t, fireAt["user-bogus"].Equal(time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)))
	assert.True(t, fireAt["user-other"].Equal(time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)))
}
