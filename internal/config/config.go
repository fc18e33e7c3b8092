package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Forecast provider names accepted by FORECAST_PROVIDER.
const (
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "openmeteo"
	ProviderWeatherAPI  = "weatherapi"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherAPIKey      string
	GeocoderAPIKey     string

	// ForecastProvider is tried first; the others follow as fallbacks when configured.
	ForecastProvider string

	// FallbackCity is answered from the static fixture when its fetch fails.
	FallbackCity string

	// FetchInterval controls how often the forecast cache is pre-warmed.
	FetchInterval time.Duration
	HTTPTimeout   time.Duration
	// ProviderRPS throttles outbound provider calls (0 = unlimited).
	ProviderRPS float64

	// Locations to pre-warm.
	Locations []weather.Location

	// In-memory forecast cache retention.
	StoreMaxEntries int           // max cached cities (0 = unlimited)
	StoreMaxAge     time.Duration // max age of a cached forecast (0 = unlimited)

	HistoryLimit int
	SceneFPS     int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = os.Getenv("OPENWEATHER_BASE_URL")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.ForecastProvider = strings.ToLower(getenvDefault("FORECAST_PROVIDER", ProviderOpenWeather))
	switch cfg.ForecastProvider {
	case ProviderOpenWeather, ProviderOpenMeteo, ProviderWeatherAPI:
	default:
		return nil, fmt.Errorf("invalid FORECAST_PROVIDER %q", cfg.ForecastProvider)
	}

	cfg.FallbackCity = getenvDefault("FALLBACK_CITY", weather.DefaultFallbackCity)

	var err error
	// Scheduler interval: default 15 minutes.
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "30m"); err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(getenvDefault("PROVIDER_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RPS: %w", err)
	}
	cfg.ProviderRPS = rps

	cfg.StoreMaxEntries = getenvInt("STORE_MAX_ENTRIES", 100)
	cfg.HistoryLimit = getenvInt("HISTORY_LIMIT", 5)
	cfg.SceneFPS = getenvInt("SCENE_FPS", 30)
	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := loadLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// loadLocations pairs the comma-separated WEATHER_LOCATION_CITY and
// WEATHER_LOCATION_COUNTRY lists. Without cities only the fallback city is warmed.
func loadLocations() ([]weather.Location, error) {
	city := strings.TrimSpace(os.Getenv("WEATHER_LOCATION_CITY"))
	if city == "" {
		return []weather.Location{{City: getenvDefault("FALLBACK_CITY", weather.DefaultFallbackCity)}}, nil
	}
	cities := strings.Split(city, ",")

	var countries []string
	if country := strings.TrimSpace(os.Getenv("WEATHER_LOCATION_COUNTRY")); country != "" {
		countries = strings.Split(country, ",")
		if len(cities) != len(countries) {
			return nil, fmt.Errorf("number of cities and countries must be the same")
		}
	}

	var locs []weather.Location
	for i := range cities {
		loc := weather.Location{City: strings.TrimSpace(cities[i])}
		if countries != nil {
			loc.Country = strings.TrimSpace(countries[i])
		}
		locs = append(locs, loc)
	}

	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
