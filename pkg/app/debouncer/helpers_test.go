package debouncer_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: t0}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

type batch struct {
	key     string
	members []string
}

type recorder struct {
	mu      sync.Mutex
	batches []batch
	err     error
}

func (r *recorder) callback(_ context.Context, key string, members []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch{key: key, members: members})
	return r.err
}

func (r *recorder) snapshot() []batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]batch, len(r.batches))
	copy(out, r.batches)
	return out
}

func (r *recorder) waitFor(t *testing.T, n int) []batch {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(r.snapshot()) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return r.snapshot()
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newDebouncer(t *testing.T, registry *debouncer.Registry, repo bucket.Repository, clock *fakeClock, opts *debouncer.Opts) *debouncer.Debouncer {
	t.Helper()
	if opts == nil {
		opts = &debouncer.Opts{}
	}
	opts.TimeProvider = clock.Now
	d := debouncer.New(testLogger(), registry, repo, debouncer.Config{
		SweepInterval: time.Second,
		BatchSize:     10,
		Workers:       2,
		QueueSize:     100,
	}, opts)
	t.Cleanup(d.Close)
	return d
}

func newMemoryRepo() bucket.Repository {
	return repository.NewMemoryBucketRepository()
}
