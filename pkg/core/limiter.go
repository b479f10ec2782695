package core

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RateLimit is the token bucket applied to one greenhouse.
type RateLimit struct {
	Rate  rate.Limit `json:"rate"`
	Burst int        `json:"burst"`
}

// RateLimiterStore hands out one shared limiter per greenhouse. Limiters are
// built lazily from the greenhouse override when one was set, otherwise from
// the defaults.
type RateLimiterStore struct {
	mu        sync.Mutex
	defaults  RateLimit
	overrides map[uuid.UUID]RateLimit
	limiters  map[uuid.UUID]*rate.Limiter
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		defaults:  RateLimit{Rate: defaultRate, Burst: defaultBurst},
		overrides: make(map[uuid.UUID]RateLimit),
		limiters:  make(map[uuid.UUID]*rate.Limiter),
	}
}

func (s *RateLimiterStore) limitsLocked(greenhouseID uuid.UUID) RateLimit {
	if limits, ok := s.overrides[greenhouseID]; ok {
		return limits
	}
	return s.defaults
}

func (s *RateLimiterStore) GetLimiter(greenhouseID uuid.UUID) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[greenhouseID]
	if !ok {
		limits := s.limitsLocked(greenhouseID)
		limiter = rate.NewLimiter(limits.Rate, limits.Burst)
		s.limiters[greenhouseID] = limiter
	}
	return limiter
}

// Limits reports what GetLimiter applies to the greenhouse.
func (s *RateLimiterStore) Limits(greenhouseID uuid.UUID) RateLimit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limitsLocked(greenhouseID)
}

// SetLimits overrides the defaults for one greenhouse. The new limiter
// starts with a full bucket.
func (s *RateLimiterStore) SetLimits(greenhouseID uuid.UUID, limits RateLimit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[greenhouseID] = limits
	s.limiters[greenhouseID] = rate.NewLimiter(limits.Rate, limits.Burst)
}

// Forget drops the limiter and any override of a deleted greenhouse.
func (s *RateLimiterStore) Forget(greenhouseID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, greenhouseID)
	delete(s.limiters, greenhouseID)
}

// Overrides returns a copy of every per-greenhouse override.
func (s *RateLimiterStore) Overrides() map[uuid.UUID]RateLimit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[uuid.UUID]RateLimit, len(s.overrides))
	for id, limits := range s.overrides {
		out[id] = limits
	}
	return out
}
