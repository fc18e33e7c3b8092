package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider fetches current weather and the 5-day/3-hour forecast
// from OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider returns a provider talking to baseURL; empty means the public API.
func NewOpenWeatherProvider(httpCfg HTTPClientConfig, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if httpCfg.Backoff == (BackoffConfig{}) {
		httpCfg.Backoff = DefaultBackoff
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) request(path string, loc weather.Location) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		if loc.Lat != nil && loc.Lon != nil {
			values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
			values.Set("lon", fmt.Sprintf("%f", *loc.Lon))
		} else {
			values.Set("q", loc.Query())
		}

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type owmWind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

func firstCondition(items []owmCondition) owmCondition {
	if len(items) == 0 {
		return owmCondition{Main: string(weather.ConditionClear)}
	}
	return items[0]
}

// FetchCurrent implements weather.CurrentProvider.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrNetwork)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("weather", loc))
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Dt         int64          `json:"dt"`
		Name       string         `json:"name"`
		Timezone   int            `json:"timezone"`
		Visibility int            `json:"visibility"`
		Main       owmMain        `json:"main"`
		Wind       owmWind        `json:"wind"`
		Weather    []owmCondition `json:"weather"`
		Coord      struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Sys struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: decoding current weather: %v", weather.ErrNetwork, err)
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	cond := firstCondition(payload.Weather)
	lat, lon := payload.Coord.Lat, payload.Coord.Lon

	snap := weather.WeatherSnapshot{
		Location: weather.Location{
			City:     orDefault(payload.Name, loc.City),
			Country:  orDefault(payload.Sys.Country, loc.Country),
			Lat:      &lat,
			Lon:      &lon,
			Timezone: payload.Timezone,
		},
		Timestamp:   ts,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		WindDeg:     payload.Wind.Deg,
		Visibility:  payload.Visibility,
		Condition:   weather.ParseCondition(cond.Main),
		Icon:        cond.Icon,
		Description: cond.Description,
		Provider:    p.name,
	}
	if payload.Sys.Sunrise > 0 && payload.Sys.Sunset > 0 {
		snap.Sunrise = time.Unix(payload.Sys.Sunrise, 0).UTC()
		snap.Sunset = time.Unix(payload.Sys.Sunset, 0).UTC()
	}
	return snap, nil
}

// FetchForecast implements weather.ForecastProvider.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.ForecastResult, error) {
	if p.apiKey == "" {
		return weather.ForecastResult{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrNetwork)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("forecast", loc))
	if err != nil {
		return weather.ForecastResult{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt      int64          `json:"dt"`
			DtTxt   string         `json:"dt_txt"`
			Main    owmMain        `json:"main"`
			Wind    owmWind        `json:"wind"`
			Weather []owmCondition `json:"weather"`
		} `json:"list"`
		City struct {
			Name    string `json:"name"`
			Country string `json:"country"`
			Coord   struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"coord"`
			Timezone int `json:"timezone"`
		} `json:"city"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: decoding forecast: %v", weather.ErrNetwork, err)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		cond := firstCondition(item.Weather)
		samples = append(samples, weather.ForecastSample{
			Timestamp:     time.Unix(item.Dt, 0).UTC(),
			Text:          item.DtTxt,
			Temperature:   item.Main.Temp,
			FeelsLike:     item.Main.FeelsLike,
			TempMin:       item.Main.TempMin,
			TempMax:       item.Main.TempMax,
			Pressure:      item.Main.Pressure,
			Humidity:      item.Main.Humidity,
			WindSpeed:     item.Wind.Speed,
			WindDirection: item.Wind.Deg,
			Condition:     weather.ParseCondition(cond.Main),
			Icon:          cond.Icon,
			Description:   cond.Description,
		})
	}

	lat, lon := payload.City.Coord.Lat, payload.City.Coord.Lon
	return weather.ForecastResult{
		Location: weather.Location{
			City:     orDefault(payload.City.Name, loc.City),
			Country:  orDefault(payload.City.Country, loc.Country),
			Lat:      &lat,
			Lon:      &lon,
			Timezone: payload.City.Timezone,
		},
		Samples:  samples,
		Provider: p.name,
		Fetched:  time.Now().UTC(),
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var (
	_ weather.CurrentProvider  = (*OpenWeatherProvider)(nil)
	_ weather.ForecastProvider = (*OpenWeatherProvider)(nil)
)
