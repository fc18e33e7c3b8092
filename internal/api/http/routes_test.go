package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/animation"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// stubProvider knows every city except Atlantis; Offline and Delhi are unreachable.
type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) lookup(loc weather.Location) error {
	switch strings.ToLower(loc.City) {
	case "atlantis":
		return fmt.Errorf("%w: %s", weather.ErrNotFound, loc.City)
	case "offline", "delhi":
		return fmt.Errorf("%w: connection refused", weather.ErrNetwork)
	}
	return nil
}

func (p stubProvider) FetchCurrent(_ context.Context, loc weather.Location) (weather.WeatherSnapshot, error) {
	if err := p.lookup(loc); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return weather.WeatherSnapshot{
		Location:    loc,
		Temperature: 12,
		Condition:   weather.ConditionRain,
		Description: "light rain",
		Provider:    p.Name(),
	}, nil
}

func (p stubProvider) FetchForecast(_ context.Context, loc weather.Location) (weather.ForecastResult, error) {
	if err := p.lookup(loc); err != nil {
		return weather.ForecastResult{}, err
	}
	var samples []weather.ForecastSample
	for _, text := range []string{"2025-04-09 09:00:00", "2025-04-09 12:00:00", "2025-04-10 12:00:00"} {
		samples = append(samples, weather.ForecastSample{Text: text, Temperature: 10, Condition: weather.ConditionSnow})
	}
	return weather.ForecastResult{Location: loc, Samples: samples, Provider: p.Name()}, nil
}

type recordingScene struct {
	condition string
	tod       animation.TimeOfDay
	frame     *animation.Frame
}

func (r *recordingScene) Set(condition string, tod animation.TimeOfDay) {
	r.condition, r.tod = condition, tod
}

func (r *recordingScene) Snapshot() (animation.Frame, bool) {
	if r.frame == nil {
		return animation.Frame{}, false
	}
	return *r.frame, true
}

func newTestApp(t *testing.T) (*fiber.App, *store.Preferences, *recordingScene) {
	t.Helper()

	prefs := store.NewPreferences(store.NewMemoryKV(), 5, "Delhi")
	noon := func() time.Time { return time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC) }
	svc := weather.NewService(weather.ServiceConfig{
		Currents:     []weather.CurrentProvider{stubProvider{}},
		Forecasts:    []weather.ForecastProvider{stubProvider{}},
		Cache:        store.NewMemoryStore(10, time.Hour),
		History:      prefs,
		Clock:        noon,
		FallbackCity: weather.DefaultFallbackCity,
		CacheMaxAge:  time.Minute,
	})
	scene := &recordingScene{}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Dependencies{
		Service:     svc,
		Preferences: prefs,
		Scene:       scene,
		DefaultCity: weather.DefaultFallbackCity,
	})
	return app, prefs, scene
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestForecastReturnsSummariesAndDrivesScene(t *testing.T) {
	app, _, scene := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/forecast?city=Oslo", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	view := decode[weather.ForecastView](t, resp)
	if len(view.Days) != 2 {
		t.Fatalf("expected 2 daily summaries, got %d", len(view.Days))
	}
	if view.Days[0].Midday.Text != "2025-04-09 12:00:00" {
		t.Fatalf("expected noon sample as midday, got %s", view.Days[0].Midday.Text)
	}
	if view.Classification.DominantCondition != weather.ConditionSnow {
		t.Fatalf("expected Snow classification, got %s", view.Classification.DominantCondition)
	}
	if scene.condition != "Snow" || scene.tod != animation.Day {
		t.Fatalf("expected live scene set to Snow/day, got %s/%s", scene.condition, scene.tod)
	}
}

func TestDashboardRecordsHistory(t *testing.T) {
	app, prefs, scene := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/dashboard?city=Oslo", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	dash := decode[weather.Dashboard](t, resp)
	if dash.Fallback || dash.Current.Condition != weather.ConditionRain {
		t.Fatalf("unexpected dashboard: %+v", dash.Current)
	}
	if scene.condition != "Rain" {
		t.Fatalf("expected live scene to follow current conditions, got %s", scene.condition)
	}

	history := prefs.History()
	if len(history) != 2 || history[0] != "Oslo" || history[1] != "Delhi" {
		t.Fatalf("unexpected history: %v", history)
	}
	if prefs.LastCity() != "Oslo" {
		t.Fatalf("expected last city Oslo, got %s", prefs.LastCity())
	}

	// Without a city the last searched one is used.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/weather/current", nil)
	body := decode[struct {
		Weather weather.WeatherSnapshot `json:"weather"`
	}](t, resp)
	if body.Weather.Location.City != "Oslo" {
		t.Fatalf("expected Oslo, got %s", body.Weather.Location.City)
	}
}

func TestFallbackCityServedFromFixture(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/dashboard?city=delhi", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	dash := decode[weather.Dashboard](t, resp)
	if !dash.Fallback || !dash.Forecast.Fallback {
		t.Fatal("expected fallback dashboard")
	}
	if dash.Forecast.Classification.DominantCondition != weather.ConditionClear {
		t.Fatalf("expected Clear fixture, got %s", dash.Forecast.Classification.DominantCondition)
	}
}

func TestWeatherErrors(t *testing.T) {
	app, _, _ := newTestApp(t)

	cases := []struct {
		target string
		status int
	}{
		{"/api/v1/weather/current?city=Atlantis", http.StatusNotFound},
		{"/api/v1/weather/forecast?city=Offline", http.StatusBadGateway},
		{"/api/v1/weather/dashboard?city=" + strings.Repeat("x", 101), http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := doRequest(t, app, http.MethodGet, tc.target, nil)
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.target, tc.status, resp.StatusCode)
		}
		body := decode[map[string]any](t, resp)
		if body["error"] != true {
			t.Fatalf("%s: expected error body, got %v", tc.target, body)
		}
	}
}

func TestSceneRendering(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/scene.png?condition=Thunderstorm&timeOfDay=night&width=80&height=60&frames=2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Fatalf("unexpected bounds %v", b)
	}

	for _, q := range []string{"width=0", "height=5000", "timeOfDay=dusk", "dark=maybe", "condition=rain!"} {
		resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/scene.png?"+q, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", q, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestLiveScene(t *testing.T) {
	app, _, scene := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/scene/live.png", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d before the first frame, got %d", http.StatusNotFound, resp.StatusCode)
	}

	scene.frame = &animation.Frame{
		Image:   image.NewRGBA(image.Rect(0, 0, 4, 4)),
		Session: "c0ffee",
		Scene:   animation.KindSnow,
		Frames:  12,
	}
	resp = doRequest(t, app, http.MethodGet, "/api/v1/scene/live.png", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if got := resp.Header.Get("X-Scene-Session"); got != "c0ffee" {
		t.Fatalf("expected session header c0ffee, got %q", got)
	}
	if resp.Header.Get("X-Scene-Kind") != "snow" || resp.Header.Get("X-Scene-Frames") != "12" {
		t.Fatalf("unexpected scene headers: %v", resp.Header)
	}
}

func TestPreferences(t *testing.T) {
	app, prefs, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPut, "/api/v1/preferences/theme", strings.NewReader(`{"darkMode":true}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if snap := decode[store.Snapshot](t, resp); !snap.DarkMode {
		t.Fatal("expected dark mode on")
	}

	resp = doRequest(t, app, http.MethodPut, "/api/v1/preferences/theme", strings.NewReader(`{}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for missing darkMode, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodPost, "/api/v1/preferences/theme/toggle", nil)
	if snap := decode[store.Snapshot](t, resp); snap.DarkMode {
		t.Fatal("expected toggle to turn dark mode off")
	}

	resp = doRequest(t, app, http.MethodDelete, "/api/v1/preferences/history", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}
	if len(prefs.History()) != 0 {
		t.Fatalf("expected empty history, got %v", prefs.History())
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/preferences", nil)
	if snap := decode[store.Snapshot](t, resp); snap.History == nil || len(snap.History) != 0 {
		t.Fatalf("expected empty history list, got %v", snap.History)
	}
}
