package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/animation"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

const (
	liveSceneWidth  = 480
	liveSceneHeight = 320
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		Backoff: providers.DefaultBackoff,
		Limiter: providers.NewLimiter(cfg.ProviderRPS, 1),
	}
	currents, forecasts := buildProviders(cfg, httpCfg)

	// In-memory forecast cache and preferences seeded with the fallback city.
	memStore := store.NewMemoryStore(cfg.StoreMaxEntries, cfg.StoreMaxAge)
	prefs := store.NewPreferences(store.NewMemoryKV(), cfg.HistoryLimit, cfg.FallbackCity)

	service := weather.NewService(weather.ServiceConfig{
		Currents:     currents,
		Forecasts:    forecasts,
		Cache:        memStore,
		History:      prefs,
		FallbackCity: cfg.FallbackCity,
		CacheMaxAge:  cfg.StoreMaxAge,
	})

	// Live backdrop drawn on its own frame loop.
	loop := animation.NewLoop(cfg.SceneFPS)
	initial, _ := service.Aggregator().ClassifyWindow(nil)
	live := animation.NewAnimator(loop, animation.Config{
		Condition: string(initial.DominantCondition),
		TimeOfDay: animation.ParseTimeOfDay(string(initial.TimeOfDay)),
		Surface:   animation.NewCanvas(liveSceneWidth, liveSceneHeight),
	})
	defer live.Stop()
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("ERROR: frame loop: %v", err)
		}
	}()

	// Scheduler that periodically pre-warms the forecast cache. The first
	// configured location drives the live scene.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, service)
	sched.OnRefresh = func(loc weather.Location, err error) {
		if err != nil || len(cfg.Locations) == 0 || loc.Key() != cfg.Locations[0].Key() {
			return
		}
		view, err := service.Forecast(ctx, loc.Query())
		if err != nil {
			log.Printf("ERROR: classify %s: %v", loc.Key(), err)
			return
		}
		live.Set(string(view.Classification.DominantCondition), animation.ParseTimeOfDay(string(view.Classification.TimeOfDay)))
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Dependencies{
		Service:     service,
		Preferences: prefs,
		Scene:       live,
		DefaultCity: cfg.FallbackCity,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s with %d forecast providers", cfg.Port, len(forecasts))

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// buildProviders orders the forecast chain with the configured provider first.
// Providers without credentials are left out, except OpenWeatherMap which
// always serves current conditions.
func buildProviders(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) ([]weather.CurrentProvider, []weather.ForecastProvider) {
	owm := providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	currents := []weather.CurrentProvider{owm}
	byName := map[string]weather.ForecastProvider{config.ProviderOpenWeather: owm}

	if cfg.WeatherAPIKey != "" {
		wapi := providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIKey, "")
		currents = append(currents, wapi)
		byName[config.ProviderWeatherAPI] = wapi
	}
	// Open-Meteo does not require an API key, but geocoding requires a Google API key.
	if cfg.GeocoderAPIKey != "" {
		byName[config.ProviderOpenMeteo] = providers.NewOpenMeteoProvider(httpCfg, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey), "")
	}

	var forecasts []weather.ForecastProvider
	if p, ok := byName[cfg.ForecastProvider]; ok {
		forecasts = append(forecasts, p)
	} else {
		log.Printf("INFO: forecast provider %s not configured, using fallbacks", cfg.ForecastProvider)
	}
	for _, name := range []string{config.ProviderOpenWeather, config.ProviderWeatherAPI, config.ProviderOpenMeteo} {
		if p, ok := byName[name]; ok && name != cfg.ForecastProvider {
			forecasts = append(forecasts, p)
		}
	}
	return currents, forecasts
}
