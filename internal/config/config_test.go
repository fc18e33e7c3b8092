package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"FORECAST_PROVIDER", "FALLBACK_CITY", "FETCH_INTERVAL", "HTTP_TIMEOUT", "STORE_MAX_AGE",
		"PROVIDER_RPS", "HISTORY_LIMIT", "SCENE_FPS", "PORT", "WEATHER_LOCATION_CITY", "WEATHER_LOCATION_COUNTRY",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ForecastProvider != ProviderOpenWeather {
		t.Fatalf("expected %s, got %s", ProviderOpenWeather, cfg.ForecastProvider)
	}
	if cfg.FallbackCity != "Delhi" {
		t.Fatalf("expected Delhi fallback, got %s", cfg.FallbackCity)
	}
	if cfg.FetchInterval != 15*time.Minute || cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected intervals: fetch=%s timeout=%s", cfg.FetchInterval, cfg.HTTPTimeout)
	}
	if cfg.HistoryLimit != 5 || cfg.Port != "8080" {
		t.Fatalf("unexpected defaults: history=%d port=%s", cfg.HistoryLimit, cfg.Port)
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0].City != "Delhi" {
		t.Fatalf("expected fallback city to be warmed, got %+v", cfg.Locations)
	}
}

func TestLoadLocations(t *testing.T) {
	t.Setenv("WEATHER_LOCATION_CITY", "Paris, Berlin")
	t.Setenv("WEATHER_LOCATION_COUNTRY", "FR,DE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Locations) != 2 || cfg.Locations[1].City != "Berlin" || cfg.Locations[1].Country != "DE" {
		t.Fatalf("unexpected locations: %+v", cfg.Locations)
	}

	t.Setenv("WEATHER_LOCATION_COUNTRY", "FR")
	if _, err := Load(); err == nil {
		t.Fatal("expected mismatched city and country lists to fail")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("FORECAST_PROVIDER", "darksky")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown provider to fail")
	}

	t.Setenv("FORECAST_PROVIDER", "openmeteo")
	t.Setenv("FETCH_INTERVAL", "often")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid FETCH_INTERVAL to fail")
	}
}
