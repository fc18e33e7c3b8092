package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type recordingRefresher struct {
	mu   sync.Mutex
	seen []string
	fail string
}

func (r *recordingRefresher) Refresh(_ context.Context, loc weather.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, loc.City)
	if loc.City == r.fail {
		return errors.New("boom")
	}
	return nil
}

func TestRunOnceRefreshesEveryLocation(t *testing.T) {
	ref := &recordingRefresher{fail: "Oslo"}
	locs := []weather.Location{{City: "Paris"}, {City: "Oslo"}, {City: "Delhi"}}
	s := New(locs, time.Minute, ref)

	var (
		mu     sync.Mutex
		failed []string
	)
	s.OnRefresh = func(loc weather.Location, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed = append(failed, loc.City)
		}
	}

	s.RunOnce(context.Background())

	if len(ref.seen) != 3 {
		t.Fatalf("expected 3 refreshes, got %v", ref.seen)
	}
	if len(failed) != 1 || failed[0] != "Oslo" {
		t.Fatalf("expected only Oslo to fail, got %v", failed)
	}
}

func TestStartWithoutLocations(t *testing.T) {
	s := New(nil, time.Minute, &recordingRefresher{})
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
