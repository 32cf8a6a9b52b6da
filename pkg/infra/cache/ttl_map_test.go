package cache_test

import (
	"testing"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache"
	"github.com/stretchr/testify/assert"
)

func TestTTLMap_ExpiresIdleEntries(t *testing.T) {
	now := time.Unix(1740730536, 0)
	m := cache.NewTTLMap[int](time.Minute, func() time.Time { return now })

	v := m.GetOrCreate("a", func() int { return 1 })
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, m.Len())

	now = now.Add(2 * time.Minute)
	v = m.GetOrCreate("a", func() int { return 2 })
	assert.Equal(t, 2, v, "an expired entry is recreated")
	assert.Equal(t, 1, m.Len())
}

func TestTTLMap_GetOrCreateRefreshesExpiry(t *testing.T) {
	now := time.Unix(1740730536, 0)
	m := cache.NewTTLMap[*int](time.Minute, func() time.Time { return now })

	created := 0
	create := func() *int {
		created++
		v := created
		return &v
	}

	first := m.GetOrCreate("s", create)
	now = now.Add(50 * time.Second)
	second := m.GetOrCreate("s", create)
	assert.Same(t, first, second)

	now = now.Add(50 * time.Second)
	third := m.GetOrCreate("s", create)
	assert.Same(t, first, third, "access within the ttl keeps the entry alive")

	now = now.Add(2 * time.Minute)
	fourth := m.GetOrCreate("s", create)
	assert.NotSame(t, first, fourth)
	assert.Equal(t, 2, created)
}

func TestTTLMap_Sweep(t *testing.T) {
	now := time.Unix(1740730536, 0)
	m := cache.NewTTLMap[string](time.Minute, func() time.Time { return now })
	m.GetOrCreate("old", func() string { return "x" })
	now = now.Add(30 * time.Second)
	m.GetOrCreate("fresh", func() string { return "y" })
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "y", m.GetOrCreate("fresh", func() string { return "z" }))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Zero(t, m.Len())
}
