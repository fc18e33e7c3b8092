package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the data source does not know the city.
	ErrNotFound = errors.New("city not found")
	// ErrNetwork is returned when the data source could not be reached or failed.
	ErrNetwork = errors.New("weather source unavailable")
)

// CurrentProvider fetches current conditions for a city.
type CurrentProvider interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (WeatherSnapshot, error)
}

// ForecastProvider fetches the 5-day / 3-hour forecast for a city.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location) (ForecastResult, error)
}

// ForecastCache is the contract the in-memory forecast store satisfies.
type ForecastCache interface {
	SaveForecast(loc Location, res ForecastResult)
	GetForecast(loc Location, maxAge time.Duration) (ForecastResult, error)
}

// History records the cities a user searched for.
type History interface {
	RecordSearch(city string)
}
