package weather

import (
	"strings"
	"time"
)

// DefaultFallbackCity is served from a static dataset when its fetch fails.
const DefaultFallbackCity = "Delhi"

const fallbackProvider = "fallback"

var (
	delhiLat = 28.6667
	delhiLon = 77.2167

	delhi = Location{
		City:     "Delhi",
		Country:  "IN",
		Lat:      &delhiLat,
		Lon:      &delhiLon,
		Timezone: 19800,
	}
)

// IsFallbackCity reports whether city should be answered from the fixture.
func IsFallbackCity(city, fallback string) bool {
	return fallback != "" && strings.EqualFold(strings.TrimSpace(city), fallback)
}

// FallbackCurrent is the static current-conditions fixture.
func FallbackCurrent() WeatherSnapshot {
	return WeatherSnapshot{
		Location:    delhi,
		Timestamp:   time.Unix(1744145415, 0).UTC(),
		Temperature: 30.85,
		FeelsLike:   28.86,
		TempMin:     30.85,
		TempMax:     30.85,
		Humidity:    17,
		Pressure:    1009,
		WindSpeed:   2.81,
		WindDeg:     120,
		Visibility:  10000,
		Condition:   ConditionClear,
		Icon:        "01n",
		Description: "clear sky",
		Sunrise:     time.Unix(1744158723, 0).UTC(),
		Sunset:      time.Unix(1744204381, 0).UTC(),
		Provider:    fallbackProvider,
	}
}

// FallbackForecast is the static forecast fixture.
func FallbackForecast() ForecastResult {
	rows := []struct {
		dt        int64
		text      string
		temp      float64
		feelsLike float64
		pressure  float64
		humidity  float64
		icon      string
	}{
		{1744156800, "2025-04-09 12:00:00", 32.5, 30.2, 1010, 15, "01d"},
		{1744167600, "2025-04-09 15:00:00", 33.8, 31.5, 1008, 14, "01d"},
		{1744178400, "2025-04-09 18:00:00", 31.2, 29.3, 1007, 18, "01n"},
		{1744189200, "2025-04-09 21:00:00", 28.5, 27.1, 1009, 22, "01n"},
		{1744200000, "2025-04-10 00:00:00", 26.3, 26.3, 1008, 25, "01n"},
		{1744210800, "2025-04-10 03:00:00", 25.1, 24.6, 1010, 28, "01n"},
		{1744221600, "2025-04-10 06:00:00", 24.2, 23.8, 1011, 30, "01d"},
		{1744232400, "2025-04-10 09:00:00", 29.8, 28.4, 1012, 19, "01d"},
		{1744243200, "2025-04-10 12:00:00", 32.9, 30.7, 1010, 15, "01d"},
	}

	samples := make([]ForecastSample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, ForecastSample{
			Timestamp:   time.Unix(r.dt, 0).UTC(),
			Text:        r.text,
			Temperature: r.temp,
			FeelsLike:   r.feelsLike,
			TempMin:     r.temp,
			TempMax:     r.temp,
			Pressure:    r.pressure,
			Humidity:    r.humidity,
			Condition:   ConditionClear,
			Icon:        r.icon,
			Description: "clear sky",
		})
	}

	return ForecastResult{
		Location: delhi,
		Samples:  samples,
		Provider: fallbackProvider,
	}
}
