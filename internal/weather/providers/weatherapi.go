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

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// WeatherAPIProvider implements the provider interfaces for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(httpCfg HTTPClientConfig, apiKey, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = "https://api.weatherapi.com/v1"
	}
	if httpCfg.Backoff == (BackoffConfig{}) {
		httpCfg.Backoff = DefaultBackoff
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) request(path string, loc weather.Location, extra url.Values) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		if loc.Lat != nil && loc.Lon != nil {
			values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
		} else {
			values.Set("q", loc.Query())
		}
		for k, v := range extra {
			values[k] = v
		}

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

type weatherAPILocation struct {
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	LocaltimeEpoch int64   `json:"localtime_epoch"`
}

// FetchCurrent implements weather.CurrentProvider.
func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrNetwork)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("current.json", loc, nil))
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location weatherAPILocation `json:"location"`
		Current  struct {
			TempC      float64             `json:"temp_c"`
			FeelsLikeC float64             `json:"feelslike_c"`
			Humidity   float64             `json:"humidity"`
			WindKph    float64             `json:"wind_kph"`
			WindDegree int                 `json:"wind_degree"`
			PressureMb float64             `json:"pressure_mb"`
			VisKm      float64             `json:"vis_km"`
			IsDay      int                 `json:"is_day"`
			Condition  weatherAPICondition `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: decoding current weather: %v", weather.ErrNetwork, err)
	}

	ts := time.Now().UTC()
	if payload.Location.LocaltimeEpoch > 0 {
		ts = time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	}

	cond := mapWeatherAPICondition(payload.Current.Condition.Text)
	lat, lon := payload.Location.Lat, payload.Location.Lon

	return weather.WeatherSnapshot{
		Location: weather.Location{
			City:    orDefault(payload.Location.Name, loc.City),
			Country: orDefault(payload.Location.Country, loc.Country),
			Lat:     &lat,
			Lon:     &lon,
		},
		Timestamp:   ts,
		Temperature: payload.Current.TempC,
		FeelsLike:   payload.Current.FeelsLikeC,
		TempMin:     payload.Current.TempC,
		TempMax:     payload.Current.TempC,
		Humidity:    payload.Current.Humidity,
		Pressure:    payload.Current.PressureMb,
		// Convert wind from kph to m/s (approx).
		WindSpeed:   payload.Current.WindKph / 3.6,
		WindDeg:     payload.Current.WindDegree,
		Visibility:  int(payload.Current.VisKm * 1000),
		Condition:   cond,
		Icon:        iconFor(cond, payload.Current.IsDay == 1),
		Description: strings.ToLower(payload.Current.Condition.Text),
		Provider:    p.name,
	}, nil
}

// FetchForecast implements weather.ForecastProvider using every third hourly entry.
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.ForecastResult, error) {
	if p.apiKey == "" {
		return weather.ForecastResult{}, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrNetwork)
	}

	extra := url.Values{"days": []string{"5"}}
	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("forecast.json", loc, extra))
	if err != nil {
		return weather.ForecastResult{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location weatherAPILocation `json:"location"`
		Forecast struct {
			Forecastday []struct {
				Hour []struct {
					TimeEpoch  int64               `json:"time_epoch"`
					Time       string              `json:"time"`
					TempC      float64             `json:"temp_c"`
					FeelsLikeC float64             `json:"feelslike_c"`
					Humidity   float64             `json:"humidity"`
					WindKph    float64             `json:"wind_kph"`
					WindDegree int                 `json:"wind_degree"`
					PressureMb float64             `json:"pressure_mb"`
					IsDay      int                 `json:"is_day"`
					Condition  weatherAPICondition `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: decoding forecast: %v", weather.ErrNetwork, err)
	}

	var samples []weather.ForecastSample
	for _, day := range payload.Forecast.Forecastday {
		for _, h := range day.Hour {
			// "2025-04-09 03:00" in the location's local time.
			text := h.Time + ":00"
			ts, err := time.Parse("2006-01-02 15:04:05", text)
			if err != nil || ts.Hour()%3 != 0 {
				continue
			}
			cond := mapWeatherAPICondition(h.Condition.Text)
			samples = append(samples, weather.ForecastSample{
				Timestamp:     time.Unix(h.TimeEpoch, 0).UTC(),
				Text:          text,
				Temperature:   h.TempC,
				FeelsLike:     h.FeelsLikeC,
				TempMin:       h.TempC,
				TempMax:       h.TempC,
				Pressure:      h.PressureMb,
				Humidity:      h.Humidity,
				WindSpeed:     h.WindKph / 3.6,
				WindDirection: h.WindDegree,
				Condition:     cond,
				Icon:          iconFor(cond, h.IsDay == 1),
				Description:   strings.ToLower(h.Condition.Text),
			})
		}
	}

	lat, lon := payload.Location.Lat, payload.Location.Lon
	return weather.ForecastResult{
		Location: weather.Location{
			City:    orDefault(payload.Location.Name, loc.City),
			Country: orDefault(payload.Location.Country, loc.Country),
			Lat:     &lat,
			Lon:     &lon,
		},
		Samples:  samples,
		Provider: p.name,
		Fetched:  time.Now().UTC(),
	}, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return weather.ConditionClear
	case common.HasAny(t, "thunder", "storm"):
		return weather.ConditionThunderstorm
	case common.HasAny(t, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(t, "drizzle"):
		return weather.ConditionDrizzle
	case common.HasAny(t, "rain", "shower"):
		return weather.ConditionRain
	case common.HasAny(t, "fog"):
		return weather.ConditionFog
	case common.HasAny(t, "mist"):
		return weather.ConditionMist
	case common.HasAny(t, "haze"):
		return weather.ConditionHaze
	case common.HasAny(t, "cloud", "overcast"):
		return weather.ConditionClouds
	default:
		return weather.ConditionClear
	}
}

var (
	_ weather.CurrentProvider  = (*WeatherAPIProvider)(nil)
	_ weather.ForecastProvider = (*WeatherAPIProvider)(nil)
)
