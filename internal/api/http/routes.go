package httpapi

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/animation"
	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

const maxSceneFrames = 600

// LiveScene is the animated backdrop kept in step with the last lookup.
type LiveScene interface {
	Set(condition string, tod animation.TimeOfDay)
	Snapshot() (animation.Frame, bool)
}

// Dependencies are the collaborators the handlers use. Preferences and Scene may be nil.
type Dependencies struct {
	Service     *weather.Service
	Preferences *store.Preferences
	Scene       LiveScene
	DefaultCity string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	h := &handlers{Dependencies: deps}
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", h.current)
	v1.Get("/weather/forecast", h.forecast)
	v1.Get("/weather/dashboard", h.dashboard)
	v1.Get("/weather/scene.png", h.renderScene)
	v1.Get("/scene/live.png", h.liveScene)

	v1.Get("/preferences", h.preferences)
	v1.Put("/preferences/theme", h.setTheme)
	v1.Post("/preferences/theme/toggle", h.toggleTheme)
	v1.Delete("/preferences/history", h.clearHistory)
}

type handlers struct {
	Dependencies
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// cityQuery holds the city lookup parameter.
type cityQuery struct {
	City string `validate:"required,max=100"`
}

// parseCityQuery falls back to the last searched city, then the default city.
func (h *handlers) parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: strings.Clone(strings.TrimSpace(c.Query("city")))}
	if q.City == "" && h.Preferences != nil {
		q.City = h.Preferences.LastCity()
	}
	if q.City == "" {
		q.City = h.DefaultCity
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func (h *handlers) current(c *fiber.Ctx) error {
	q, err := h.parseCityQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snap, fallback, err := h.Service.Current(c.UserContext(), q.City)
	if err != nil {
		return weatherError(err)
	}
	return c.JSON(fiber.Map{
		"weather":  snap,
		"fallback": fallback,
	})
}

func (h *handlers) forecast(c *fiber.Ctx) error {
	q, err := h.parseCityQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	view, err := h.Service.Forecast(c.UserContext(), q.City)
	if err != nil {
		return weatherError(err)
	}
	h.showScene(string(view.Classification.DominantCondition), view.Classification.TimeOfDay)
	return c.JSON(view)
}

func (h *handlers) dashboard(c *fiber.Ctx) error {
	q, err := h.parseCityQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	dash, err := h.Service.Dashboard(c.UserContext(), q.City)
	if err != nil {
		return weatherError(err)
	}
	h.showScene(string(dash.Current.Condition), dash.TimeOfDay)
	return c.JSON(dash)
}

func (h *handlers) showScene(condition string, tod weather.TimeOfDay) {
	if h.Scene == nil {
		return
	}
	h.Scene.Set(condition, animation.ParseTimeOfDay(string(tod)))
}

// weatherError maps service failures onto HTTP statuses.
func weatherError(err error) error {
	var malformed *weather.MalformedSampleError
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	case errors.As(err, &malformed):
		return fiber.NewError(fiber.StatusBadGateway, malformed.Error())
	case errors.Is(err, weather.ErrNetwork):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// sceneQuery holds query parameters for rendering a scene frame.
type sceneQuery struct {
	Condition string `validate:"omitempty,max=32,alpha"`
	TimeOfDay string `validate:"omitempty,oneof=day night"`
	Width     int    `validate:"min=1,max=2048"`
	Height    int    `validate:"min=1,max=2048"`
	Frames    int
	Dark      bool
}

func (h *handlers) bindSceneQuery(c *fiber.Ctx) (sceneQuery, error) {
	q := sceneQuery{
		Condition: c.Query("condition", "clear"),
		TimeOfDay: strings.ToLower(c.Query("timeOfDay", "day")),
		Width:     c.QueryInt("width", 480),
		Height:    c.QueryInt("height", 320),
		Frames:    common.Clamp(c.QueryInt("frames", 30), 1, maxSceneFrames),
	}

	if raw := c.Query("dark"); raw != "" {
		dark, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("dark must be a boolean")
		}
		q.Dark = dark
	} else if h.Preferences != nil {
		q.Dark = h.Preferences.DarkMode()
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func (h *handlers) renderScene(c *fiber.Ctx) error {
	q, err := h.bindSceneQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	img := animation.RenderFrames(q.Condition, animation.ParseTimeOfDay(q.TimeOfDay), q.Width, q.Height, animation.RenderOptions{
		Frames:   q.Frames,
		Backdrop: true,
		Dark:     q.Dark,
	})
	return sendPNG(c, img)
}

func (h *handlers) liveScene(c *fiber.Ctx) error {
	if h.Scene == nil {
		return fiber.NewError(fiber.StatusNotFound, "live scene disabled")
	}
	frame, ok := h.Scene.Snapshot()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no scene rendered yet")
	}
	c.Set("X-Scene-Session", frame.Session)
	c.Set("X-Scene-Kind", string(frame.Scene))
	c.Set("X-Scene-Frames", strconv.Itoa(frame.Frames))
	return sendPNG(c, frame.Image)
}

func sendPNG(c *fiber.Ctx, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to encode frame")
	}
	c.Type("png")
	return c.Send(buf.Bytes())
}

func (h *handlers) requirePreferences() error {
	if h.Preferences == nil {
		return fiber.NewError(fiber.StatusNotFound, "preferences disabled")
	}
	return nil
}

func (h *handlers) preferences(c *fiber.Ctx) error {
	if err := h.requirePreferences(); err != nil {
		return err
	}
	return c.JSON(h.Preferences.Snapshot())
}

// themeRequest is the body of PUT /preferences/theme.
type themeRequest struct {
	DarkMode *bool `json:"darkMode" validate:"required"`
}

func (h *handlers) setTheme(c *fiber.Ctx) error {
	if err := h.requirePreferences(); err != nil {
		return err
	}

	var req themeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.Preferences.SetDarkMode(*req.DarkMode)
	return c.JSON(h.Preferences.Snapshot())
}

func (h *handlers) toggleTheme(c *fiber.Ctx) error {
	if err := h.requirePreferences(); err != nil {
		return err
	}
	h.Preferences.ToggleDarkMode()
	return c.JSON(h.Preferences.Snapshot())
}

func (h *handlers) clearHistory(c *fiber.Ctx) error {
	if err := h.requirePreferences(); err != nil {
		return err
	}
	h.Preferences.ClearHistory()
	return c.SendStatus(fiber.StatusNoContent)
}
