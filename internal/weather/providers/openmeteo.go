package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const openMeteoTimeLayout = "2006-01-02T15:04"

// geocoderZeroResults is the error text kelvins/geocoder returns for ZERO_RESULTS.
const geocoderZeroResults = "No results found."

// Geocoder resolves a location to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, loc weather.Location) (lat, lon float64, err error)
}

// GoogleGeocoder resolves cities through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the geocoding API key.
func NewGoogleGeocoder(apiKey string) GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return GoogleGeocoder{}
}

func (GoogleGeocoder) Locate(ctx context.Context, loc weather.Location) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	found, err := geocoder.Geocoding(geocoder.Address{City: loc.City, Country: loc.Country})
	if err != nil {
		if err.Error() == geocoderZeroResults {
			return 0, 0, fmt.Errorf("%w: geocoding %s: %v", weather.ErrNotFound, loc.Query(), err)
		}
		return 0, 0, fmt.Errorf("%w: geocoding %s: %v", weather.ErrNetwork, loc.Query(), err)
	}
	return found.Latitude, found.Longitude, nil
}

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
// It samples the hourly forecast every three hours to match the 5-day/3-hour shape.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	geocoder Geocoder
}

func NewOpenMeteoProvider(httpCfg HTTPClientConfig, geo Geocoder, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	if httpCfg.Backoff == (BackoffConfig{}) {
		httpCfg.Backoff = DefaultBackoff
	}
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  baseURL,
		httpCfg:  httpCfg,
		circuit:  newBreaker("openmeteo"),
		geocoder: geo,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.ForecastResult, error) {
	if loc.Lat == nil || loc.Lon == nil {
		if p.geocoder == nil {
			return weather.ForecastResult{}, fmt.Errorf("%w: openmeteo requires latitude and longitude", weather.ErrNotFound)
		}
		lat, lon, err := p.geocoder.Locate(ctx, loc)
		if err != nil {
			return weather.ForecastResult{}, err
		}
		loc.Lat, loc.Lon = &lat, &lon
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", *loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", *loc.Lon))
		values.Set("hourly", "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,wind_speed_10m,wind_direction_10m,weather_code,is_day")
		values.Set("wind_speed_unit", "ms")
		values.Set("forecast_days", "5")
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ForecastResult{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		UTCOffsetSeconds int `json:"utc_offset_seconds"`
		Hourly           struct {
			Time        []string  `json:"time"`
			Temperature []float64 `json:"temperature_2m"`
			Apparent    []float64 `json:"apparent_temperature"`
			Humidity    []float64 `json:"relative_humidity_2m"`
			Pressure    []float64 `json:"surface_pressure"`
			WindSpeed   []float64 `json:"wind_speed_10m"`
			WindDir     []float64 `json:"wind_direction_10m"`
			WeatherCode []int     `json:"weather_code"`
			IsDay       []int     `json:"is_day"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: decoding forecast: %v", weather.ErrNetwork, err)
	}

	h := payload.Hourly
	zone := time.FixedZone("local", payload.UTCOffsetSeconds)
	samples := make([]weather.ForecastSample, 0, len(h.Time)/3)
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation(openMeteoTimeLayout, raw, zone)
		if err != nil || ts.Hour()%3 != 0 {
			continue
		}
		cond := mapOpenMeteoCondition(at(h.WeatherCode, i))
		temp := at(h.Temperature, i)
		samples = append(samples, weather.ForecastSample{
			Timestamp:     ts.UTC(),
			Text:          ts.Format("2006-01-02 15:04:05"),
			Temperature:   temp,
			FeelsLike:     at(h.Apparent, i),
			TempMin:       temp,
			TempMax:       temp,
			Pressure:      at(h.Pressure, i),
			Humidity:      at(h.Humidity, i),
			WindSpeed:     at(h.WindSpeed, i),
			WindDirection: int(at(h.WindDir, i)),
			Condition:     cond,
			Icon:          iconFor(cond, at(h.IsDay, i) == 1),
			Description:   strings.ToLower(string(cond)),
		})
	}

	loc.Timezone = payload.UTCOffsetSeconds
	return weather.ForecastResult{
		Location: loc,
		Samples:  samples,
		Provider: p.name,
		Fetched:  time.Now().UTC(),
	}, nil
}

func at[T any](xs []T, i int) T {
	var zero T
	if i < len(xs) {
		return xs[i]
	}
	return zero
}

// mapOpenMeteoCondition maps WMO weather codes to condition groups.
func mapOpenMeteoCondition(code int) weather.Condition {
	switch {
	case code == 0 || code == 1:
		return weather.ConditionClear
	case code == 2 || code == 3:
		return weather.ConditionClouds
	case code == 45 || code == 48:
		return weather.ConditionFog
	case code >= 51 && code <= 57:
		return weather.ConditionDrizzle
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionThunderstorm
	default:
		return weather.ConditionClear
	}
}

var iconCodes = map[weather.Condition]string{
	weather.ConditionClear:        "01",
	weather.ConditionClouds:       "03",
	weather.ConditionDrizzle:      "09",
	weather.ConditionRain:         "10",
	weather.ConditionThunderstorm: "11",
	weather.ConditionSnow:         "13",
	weather.ConditionMist:         "50",
	weather.ConditionFog:          "50",
	weather.ConditionHaze:         "50",
	weather.ConditionDust:         "50",
	weather.ConditionSmoke:        "50",
}

// iconFor returns the OpenWeatherMap icon code for a condition.
func iconFor(cond weather.Condition, day bool) string {
	code, ok := iconCodes[cond]
	if !ok {
		code = "01"
	}
	if day {
		return code + "d"
	}
	return code + "n"
}
