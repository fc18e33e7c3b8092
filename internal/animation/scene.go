package animation

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/fogleman/gg"
)

// Kind names one of the six scene variants.
type Kind string

const (
	KindRain         Kind = "rain"
	KindSnow         Kind = "snow"
	KindClouds       Kind = "clouds"
	KindClear        Kind = "clear"
	KindThunderstorm Kind = "thunderstorm"
	KindMist         Kind = "mist"
)

// TimeOfDay selects the day or night rendition of a scene.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// ParseTimeOfDay maps anything other than "night" to Day.
func ParseTimeOfDay(s string) TimeOfDay {
	if strings.EqualFold(strings.TrimSpace(s), string(Night)) {
		return Night
	}
	return Day
}

// KindFor maps a weather condition name to its scene. Unknown conditions fall back to clear.
func KindFor(condition string) Kind {
	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "rain", "drizzle":
		return KindRain
	case "snow":
		return KindSnow
	case "clouds":
		return KindClouds
	case "thunderstorm":
		return KindThunderstorm
	case "mist", "fog", "haze":
		return KindMist
	default:
		return KindClear
	}
}

// Scene is one particle simulation. Render only reads particle state; Advance
// moves every particle by one frame.
type Scene interface {
	Kind() Kind
	Render(dc *gg.Context)
	Advance()
}

// timedScene is a Scene that schedules work of its own between frames.
type timedScene interface {
	Scene
	start(t Timers)
	stop()
}

// bounds is the drawable area a scene was built for.
type bounds struct {
	w, h float64
}

func (b bounds) minSide() float64 {
	return math.Min(b.w, b.h)
}

// density is the number of particles per 10000 square pixels.
func (b bounds) density(per int) int {
	return int(math.Floor(b.w*b.h/10000)) * per
}

// between returns a uniform value in [lo, hi).
func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// cloud is a drifting background cloud shared by several scenes.
type cloud struct {
	x, y, size, speed, opacity float64
}

func drawClouds(dc *gg.Context, clouds []cloud, shade rgb) {
	for _, c := range clouds {
		drawCloud(dc, c.x, c.y, c.size, shade, c.opacity)
	}
}

// newScene builds a fresh scene of kind for a surface of size w x h.
func newScene(kind Kind, tod TimeOfDay, w, h int, rng *rand.Rand) Scene {
	b := bounds{w: float64(w), h: float64(h)}
	switch kind {
	case KindRain:
		return newRainScene(b, tod, rng)
	case KindSnow:
		return newSnowScene(b, tod, rng)
	case KindClouds:
		return newCloudsScene(b, tod, rng)
	case KindThunderstorm:
		return newStormScene(b, rng)
	case KindMist:
		return newMistScene(b, tod, rng)
	default:
		return newClearScene(b, tod, rng)
	}
}
