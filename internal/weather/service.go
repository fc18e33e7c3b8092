package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// ServiceConfig wires the collaborators of a Service.
type ServiceConfig struct {
	Currents  []CurrentProvider  // tried in order until one succeeds
	Forecasts []ForecastProvider // tried in order until one succeeds
	Cache     ForecastCache
	History   History
	Clock     Clock

	// FallbackCity is answered from the static fixture when fetching fails.
	FallbackCity string
	// CacheMaxAge bounds how old a cached forecast may be; 0 disables caching reads.
	CacheMaxAge time.Duration
}

// Service orchestrates providers, the forecast cache and the aggregator.
type Service struct {
	currents     []CurrentProvider
	forecasts    []ForecastProvider
	cache        ForecastCache
	history      History
	agg          *Aggregator
	now          Clock
	fallbackCity string
	cacheMaxAge  time.Duration
}

// NewService creates a new Service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		currents:     cfg.Currents,
		forecasts:    cfg.Forecasts,
		cache:        cfg.Cache,
		history:      cfg.History,
		agg:          NewAggregator(now),
		now:          now,
		fallbackCity: cfg.FallbackCity,
		cacheMaxAge:  cfg.CacheMaxAge,
	}
}

// Aggregator returns the aggregator the service classifies with.
func (s *Service) Aggregator() *Aggregator {
	return s.agg
}

func locationFor(city string) (Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Location{}, fmt.Errorf("city is required")
	}
	name, country, _ := strings.Cut(city, ",")
	return Location{City: strings.TrimSpace(name), Country: strings.TrimSpace(country)}, nil
}

// Current fetches current conditions for city.
func (s *Service) Current(ctx context.Context, city string) (WeatherSnapshot, bool, error) {
	loc, err := locationFor(city)
	if err != nil {
		return WeatherSnapshot{}, false, err
	}
	snap, err := s.fetchCurrent(ctx, loc)
	if err != nil {
		if IsFallbackCity(city, s.fallbackCity) {
			log.Printf("INFO: current weather for %s unavailable, serving fallback: %v", city, err)
			return FallbackCurrent(), true, nil
		}
		return WeatherSnapshot{}, false, err
	}
	return snap, false, nil
}

func (s *Service) fetchCurrent(ctx context.Context, loc Location) (WeatherSnapshot, error) {
	if len(s.currents) == 0 {
		return WeatherSnapshot{}, fmt.Errorf("%w: no current weather provider configured", ErrNetwork)
	}

	var errs []error
	for _, p := range s.currents {
		snap, err := p.FetchCurrent(ctx, loc)
		if err != nil {
			log.Printf("provider %s current fetch failed for %s: %v", p.Name(), loc.Key(), err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		return snap, nil
	}
	return WeatherSnapshot{}, errors.Join(errs...)
}

// Forecast returns the forecast for city with daily summaries and classification.
func (s *Service) Forecast(ctx context.Context, city string) (ForecastView, error) {
	loc, err := locationFor(city)
	if err != nil {
		return ForecastView{}, err
	}

	res, err := s.forecast(ctx, loc)
	if err != nil {
		if IsFallbackCity(city, s.fallbackCity) {
			log.Printf("INFO: forecast for %s unavailable, serving fallback: %v", city, err)
			return s.fallbackView()
		}
		return ForecastView{}, err
	}
	return s.agg.View(res)
}

func (s *Service) fallbackView() (ForecastView, error) {
	view, err := s.agg.View(FallbackForecast())
	if err != nil {
		return ForecastView{}, err
	}
	view.Fallback = true
	return view, nil
}

// forecast serves from the cache when fresh, otherwise fetches.
func (s *Service) forecast(ctx context.Context, loc Location) (ForecastResult, error) {
	if s.cache != nil && s.cacheMaxAge > 0 {
		if res, err := s.cache.GetForecast(loc, s.cacheMaxAge); err == nil {
			log.Printf("DEBUG: forecast cache hit for %s", loc.Key())
			return res, nil
		}
	}
	return s.fetchForecast(ctx, loc)
}

// fetchForecast tries each forecast provider in order and caches the first success.
func (s *Service) fetchForecast(ctx context.Context, loc Location) (ForecastResult, error) {
	if len(s.forecasts) == 0 {
		log.Printf("ERROR: No forecast providers available for %s", loc.Key())
		return ForecastResult{}, fmt.Errorf("%w: no forecast providers configured", ErrNetwork)
	}

	var errs []error
	for _, p := range s.forecasts {
		res, err := p.FetchForecast(ctx, loc)
		if err != nil {
			log.Printf("provider %s forecast failed for %s: %v", p.Name(), loc.Key(), err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		// Unparseable timestamps must not reach the cache.
		if _, err := GroupDays(res.Samples); err != nil {
			log.Printf("ERROR: provider %s returned a malformed forecast for %s: %v", p.Name(), loc.Key(), err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if res.Fetched.IsZero() {
			res.Fetched = s.now().UTC()
		}
		if s.cache != nil {
			s.cache.SaveForecast(loc, res)
		}
		return res, nil
	}
	return ForecastResult{}, errors.Join(errs...)
}

// Dashboard fetches current conditions and the forecast concurrently.
// A successful lookup is recorded in the search history.
func (s *Service) Dashboard(ctx context.Context, city string) (Dashboard, error) {
	loc, err := locationFor(city)
	if err != nil {
		return Dashboard{}, err
	}

	var (
		wg          sync.WaitGroup
		current     WeatherSnapshot
		forecast    ForecastResult
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.fetchCurrent(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.forecast(ctx, loc)
	}()
	wg.Wait()

	if err := errors.Join(currentErr, forecastErr); err != nil {
		if !IsFallbackCity(city, s.fallbackCity) {
			return Dashboard{}, err
		}
		log.Printf("INFO: dashboard for %s unavailable, serving fallback: %v", city, err)
		view, ferr := s.fallbackView()
		if ferr != nil {
			return Dashboard{}, ferr
		}
		cur := FallbackCurrent()
		return Dashboard{
			Current:   cur,
			TimeOfDay: cur.TimeOfDayAt(s.now()),
			Forecast:  view,
			Fallback:  true,
		}, nil
	}

	view, err := s.agg.View(forecast)
	if err != nil {
		return Dashboard{}, err
	}
	if s.history != nil {
		s.history.RecordSearch(strings.TrimSpace(city))
	}

	return Dashboard{
		Current:   current,
		TimeOfDay: current.TimeOfDayAt(s.now()),
		Forecast:  view,
	}, nil
}

// Refresh fetches the forecast for loc bypassing the cache and stores it.
func (s *Service) Refresh(ctx context.Context, loc Location) error {
	log.Printf("DEBUG: Refresh called for %s with %d providers", loc.Key(), len(s.forecasts))
	_, err := s.fetchForecast(ctx, loc)
	return err
}
