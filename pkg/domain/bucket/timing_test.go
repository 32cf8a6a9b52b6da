package bucket_test

import (
	"errors"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiming_Validate(t *testing.T) {
	tests := []struct {
		name    string
		timing  bucket.Timing
		wantErr bool
	}{
		{name: "delayed", timing: bucket.Delayed(15)},
		{name: "immediate", timing: bucket.Delayed(0)},
		{name: "negative delay", timing: bucket.Delayed(-1), wantErr: true},
		{name: "scheduled utc", timing: bucket.ScheduledHour(9, "")},
		{name: "scheduled zone", timing: bucket.ScheduledHour(23, "Europe/Madrid")},
		{name: "hour out of range", timing: bucket.ScheduledHour(24, ""), wantErr: true},
		{name: "unknown zone", timing: bucket.ScheduledHour(9, "Mars/Olympus"), wantErr: true},
		{name: "unknown kind", timing: bucket.Timing{Kind: "weekly"}, wantErr: true},
		{name: "negative max wait", timing: bucket.Timing{Kind: bucket.KindDelayed, DelayMinutes: 5, MaxWaitMinutes: -5}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.timing.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, bucket.ErrInvalidTiming))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTiming_FireAt_Delayed(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	fireAt, err := bucket.Delayed(15).FireAt(now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), fireAt)
}

func TestTiming_FireAt_ScheduledHour(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	t.Run("later today", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 7, 30, 0, 0, madrid)
		fireAt, err := bucket.ScheduledHour(9, "Europe/Madrid").FireAt(now)
		require.NoError(t, err)
		assert.True(t, time.Date(2025, 3, 1, 9, 0, 0, 0, madrid).Equal(fireAt))
	})

	t.Run("hour already passed", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 9, 0, 0, 0, madrid)
		fireAt, err := bucket.ScheduledHour(9, "Europe/Madrid").FireAt(now)
		require.NoError(t, err)
		assert.True(t, time.Date(2025, 3, 2, 9, 0, 0, 0, madrid).Equal(fireAt))
	})

	t.Run("zone differs from clock zone", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
		fireAt, err := bucket.ScheduledHour(9, "Europe/Madrid").FireAt(now)
		require.NoError(t, err)
		assert.True(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC).Equal(fireAt))
	})
}

func TestTiming_Deadline(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Nil(t, bucket.Delayed(5).Deadline(created))

	capped := bucket.Timing{Kind: bucket.KindDelayed, DelayMinutes: 5, MaxWaitMinutes: 60}
	deadline := capped.Deadline(created)
	require.NotNil(t, deadline)
	assert.Equal(t, created.Add(time.Hour), *deadline)
}

func TestTiming_ScanValue(t *testing.T) {
	in := bucket.ScheduledHour(8, "America/New_York")
	v, err := in.Value()
	require.NoError(t, err)

	var out bucket.Timing
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
	assert.Error(t, out.Scan(42))
}

func TestMergedFireAt(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("delayed moves forward", func(t *testing.T) {
		got := bucket.MergedFireAt(base, base.Add(10*time.Minute), bucket.Delayed(15), nil)
		assert.Equal(t, base.Add(10*time.Minute), got)
	})

	t.Run("delayed never moves backwards", func(t *testing.T) {
		got := bucket.MergedFireAt(base, base.Add(-time.Minute), bucket.Delayed(15), nil)
		assert.Equal(t, base, got)
	})

	t.Run("delayed capped by deadline", func(t *testing.T) {
		deadline := base.Add(5 * time.Minute)
		got := bucket.MergedFireAt(base, base.Add(10*time.Minute), bucket.Delayed(15), &deadline)
		assert.Equal(t, deadline, got)
	})

	t.Run("scheduled hour pinned", func(t *testing.T) {
		got := bucket.MergedFireAt(base, base.Add(time.Hour), bucket.ScheduledHour(9, ""), nil)
		assert.Equal(t, base, got)
	})
}

func TestBucket_State(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	b := &bucket.Bucket{FireAt: now.Add(time.Minute)}
	assert.Equal(t, bucket.StateAccumulating, b.State(now))
	assert.Equal(t, bucket.StateDue, b.State(now.Add(time.Minute)))
	b.Dispatched = true
	assert.Equal(t, bucket.StateDispatched, b.State(now.Add(time.Minute)))
}

func TestBucket_CloneDoesNotShareMembers(t *testing.T) {
	b := &bucket.Bucket{MemberEventIDs: []string{"a", "b"}}
	c := b.Clone()
	c.MemberEventIDs[0] = "z"
	assert.Equal(t, "a", b.MemberEventIDs[0])
}
