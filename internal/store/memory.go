package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no forecast is cached for a location.
	ErrNotFound = errors.New("no forecast cached for location")
	// ErrStale is returned when the cached forecast is older than requested.
	ErrStale = errors.New("cached forecast is stale")
)

type forecastEntry struct {
	result  weather.ForecastResult
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory forecast cache.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: latest forecast
	data map[string]forecastEntry

	// retention configuration
	maxEntries int           // max number of cached locations (0 = unlimited)
	maxAge     time.Duration // entries older than this are evicted on save (0 = keep)

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]forecastEntry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveForecast stores the latest forecast for a location and enforces retention.
func (s *MemoryStore) SaveForecast(loc weather.Location, res weather.ForecastResult) {
	key := loc.Key()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = forecastEntry{result: res, savedAt: now}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		for k, e := range s.data {
			if e.savedAt.Before(cutoff) {
				delete(s.data, k)
			}
		}
	}

	// Enforce retention by count, dropping the oldest entries first.
	for s.maxEntries > 0 && len(s.data) > s.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range s.data {
			if oldestKey == "" || e.savedAt.Before(oldest) {
				oldestKey, oldest = k, e.savedAt
			}
		}
		delete(s.data, oldestKey)
	}
}

// GetForecast returns the cached forecast for a location if it is younger than maxAge.
// A maxAge <= 0 accepts any age.
func (s *MemoryStore) GetForecast(loc weather.Location, maxAge time.Duration) (weather.ForecastResult, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return weather.ForecastResult{}, ErrNotFound
	}
	if maxAge > 0 && s.now().Sub(e.savedAt) > maxAge {
		return weather.ForecastResult{}, ErrStale
	}
	return e.result, nil
}

// Len returns the number of cached locations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ weather.ForecastCache = (*MemoryStore)(nil)
