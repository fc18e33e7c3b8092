package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestMapWeatherAPICondition(t *testing.T) {
	cases := map[string]weather.Condition{
		"":                                    weather.ConditionClear,
		"Sunny":                               weather.ConditionClear,
		"Partly cloudy":                       weather.ConditionClouds,
		"Overcast":                            weather.ConditionClouds,
		"Mist":                                weather.ConditionMist,
		"Freezing fog":                        weather.ConditionFog,
		"Patchy light drizzle":                weather.ConditionDrizzle,
		"Moderate rain":                       weather.ConditionRain,
		"Light rain shower":                   weather.ConditionRain,
		"Patchy light snow":                   weather.ConditionSnow,
		"Light sleet showers":                 weather.ConditionSnow,
		"Thundery outbreaks possible":         weather.ConditionThunderstorm,
		"Moderate or heavy rain with thunder": weather.ConditionThunderstorm,
	}
	for text, want := range cases {
		if got := mapWeatherAPICondition(text); got != want {
			t.Errorf("%q: expected %s, got %s", text, want, got)
		}
	}
}

func weatherAPIForecastBody() string {
	var hours []string
	for h := 0; h < 24; h++ {
		text := "Sunny"
		if h >= 12 {
			text = "Light rain"
		}
		hours = append(hours, fmt.Sprintf(`{"time_epoch": %d, "time": "2025-04-09 %02d:00", "temp_c": %d, "wind_kph": 36, "is_day": 1, "condition": {"text": %q}}`,
			1744156800+h*3600, h, h, text))
	}
	return fmt.Sprintf(`{"location": {"name": "Oslo", "country": "Norway", "lat": 59.91, "lon": 10.75}, "forecast": {"forecastday": [{"hour": [%s]}]}}`,
		strings.Join(hours, ","))
}

func TestWeatherAPIRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "secret" || q.Get("q") != "Oslo,NO" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/current.json":
			w.Write([]byte(`{"location": {"name": "Oslo", "country": "Norway", "localtime_epoch": 1744200000},
				"current": {"temp_c": 8, "wind_kph": 18, "vis_km": 10, "is_day": 0, "condition": {"text": "Partly cloudy"}}}`))
		case "/forecast.json":
			if q.Get("days") != "5" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(weatherAPIForecastBody()))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(testHTTPConfig(srv), "secret", srv.URL)
	loc := weather.Location{City: "Oslo", Country: "NO"}

	snap, err := p.FetchCurrent(context.Background(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Condition != weather.ConditionClouds || snap.Icon != "03n" || snap.Visibility != 10000 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if math.Abs(snap.WindSpeed-5) > 1e-9 {
		t.Fatalf("expected 5 m/s wind, got %v", snap.WindSpeed)
	}

	res, err := p.FetchForecast(context.Background(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Samples) != 8 {
		t.Fatalf("expected 8 three-hourly samples, got %d", len(res.Samples))
	}
	if res.Samples[1].Text != "2025-04-09 03:00:00" || res.Samples[1].Temperature != 3 {
		t.Fatalf("unexpected sample: %+v", res.Samples[1])
	}

	view, err := weather.NewAggregator(nil).View(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Four sunny then four rainy samples: the tie goes to the first seen.
	if view.Days[0].DominantCondition != weather.ConditionClear {
		t.Fatalf("expected Clear on a tie, got %s", view.Days[0].DominantCondition)
	}
}
