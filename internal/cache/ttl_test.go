package cache

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestTTL_GetSet(t *testing.T) {
	c := New[string]()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v", time.Minute)
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestTTL_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock[int](clock)

	c.Set("k", 42, 5*time.Minute)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	clock.Advance(5*time.Minute + time.Second)

	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be dropped on read")
}

func TestTTL_OverwriteRefreshesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock[int](clock)

	c.Set("k", 1, time.Minute)
	clock.Advance(50 * time.Second)
	c.Set("k", 2, time.Minute)
	clock.Advance(30 * time.Second)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestTTL_NonPositiveTTLStoresNothing(t *testing.T) {
	c := New[string]()

	c.Set("k", "v", 0)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Set("shared", n, time.Minute)
		}(i)
		go func() {
			defer wg.Done()
			c.Get("shared")
		}()
	}
	wg.Wait()

	_, ok := c.Get("shared")
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   url.Values
		expected string
	}{
		{"no params", "/neo/feed", nil, "/neo/feed"},
		{"single param", "/neo/feed", url.Values{"start_date": {"2026-08-01"}}, "/neo/feed?start_date=2026-08-01"},
		{
			"params sorted by name",
			"/neo/browse",
			url.Values{"size": {"20"}, "page": {"3"}},
			"/neo/browse?page=3?size=20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.endpoint, tt.params))
		})
	}
}

func TestKey_OrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("start_date", "2026-08-01")
	a.Set("end_date", "2026-08-07")

	b := url.Values{}
	b.Set("end_date", "2026-08-07")
	b.Set("start_date", "2026-08-01")

	assert.Equal(t, Key("/neo/feed", a), Key("/neo/feed", b))
}
