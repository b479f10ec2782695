package core

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiterStore_Defaults(t *testing.T) {
	store := NewRateLimiterStore(1, 2)
	greenhouseID := uuid.New()

	limiter := store.GetLimiter(greenhouseID)
	require.NotNil(t, limiter)
	assert.Equal(t, rate.Limit(1), limiter.Limit())
	assert.Equal(t, 2, limiter.Burst())
	assert.Equal(t, RateLimit{Rate: 1, Burst: 2}, store.Limits(greenhouseID))
	assert.Empty(t, store.Overrides())
}

func TestRateLimiterStore_SetLimits(t *testing.T) {
	store := NewRateLimiterStore(1, 1)
	greenhouseID, other := uuid.New(), uuid.New()

	exhausted := store.GetLimiter(greenhouseID)
	require.True(t, exhausted.Allow())
	require.False(t, exhausted.Allow())

	store.SetLimits(greenhouseID, RateLimit{Rate: 5, Burst: 10})

	limiter := store.GetLimiter(greenhouseID)
	assert.NotSame(t, exhausted, limiter)
	assert.Equal(t, rate.Limit(5), limiter.Limit())
	assert.Equal(t, 10, limiter.Burst())
	assert.True(t, limiter.Allow(), "a new limit starts with a full bucket")

	assert.Equal(t, RateLimit{Rate: 5, Burst: 10}, store.Limits(greenhouseID))
	assert.Equal(t, RateLimit{Rate: 1, Burst: 1}, store.Limits(other))
	assert.Equal(t, map[uuid.UUID]RateLimit{greenhouseID: {Rate: 5, Burst: 10}}, store.Overrides())
}

func TestRateLimiterStore_Forget(t *testing.T) {
	store := NewRateLimiterStore(1, 2)
	greenhouseID := uuid.New()

	store.SetLimits(greenhouseID, RateLimit{Rate: 5, Burst: 10})
	store.Forget(greenhouseID)

	assert.Equal(t, 2, store.GetLimiter(greenhouseID).Burst())
	assert.Empty(t, store.Overrides())
}

func TestRateLimiterStore_SharedPerGreenhouse(t *testing.T) {
	store := NewRateLimiterStore(10, 5)
	greenhouseID := uuid.New()

	var wg sync.WaitGroup
	limiters := make(chan *rate.Limiter, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiters <- store.GetLimiter(greenhouseID)
		}()
	}
	wg.Wait()
	close(limiters)

	first := store.GetLimiter(greenhouseID)
	for l := range limiters {
		require.Same(t, first, l)
	}
}

func TestRateLimiterStore_Refill(t *testing.T) {
	store := NewRateLimiterStore(2, 2)
	limiter := store.GetLimiter(uuid.New())

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	time.Sleep(600 * time.Millisecond)
	assert.True(t, limiter.Allow())
}
