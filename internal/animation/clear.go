package animation

import (
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"
)

const sunSpin = 0.0005

type star struct {
	x, y, size, twinkleSpeed, phase, opacity float64
	sparkle                                  bool
}

// brightness oscillates in [0.4, 1.0] of the star's opacity.
func (s star) brightness() float64 {
	return s.opacity * (math.Sin(s.phase)*0.3 + 0.7)
}

// celestial is the sun or moon fixed in the upper right.
type celestial struct {
	x, y, size, angle, opacity float64
}

func newCelestial(b bounds, scale, opacity float64) celestial {
	return celestial{x: b.w * 0.8, y: b.h * 0.2, size: b.minSide() * scale, opacity: opacity}
}

type clearScene struct {
	b     bounds
	tod   TimeOfDay
	rng   *rand.Rand
	body  celestial
	stars []star
}

func newClearScene(b bounds, tod TimeOfDay, rng *rand.Rand) *clearScene {
	s := &clearScene{b: b, tod: tod, rng: rng}
	if tod == Day {
		s.body = newCelestial(b, 0.25, 1)
		return s
	}

	s.body = newCelestial(b, 0.2, 1)
	s.stars = make([]star, b.density(1))
	for i := range s.stars {
		s.stars[i] = star{
			x:            between(rng, 0, b.w),
			y:            between(rng, 0, b.h),
			size:         between(rng, 5, 15),
			twinkleSpeed: between(rng, 0.01, 0.06),
			phase:        between(rng, 0, 2*math.Pi),
			opacity:      0.7,
		}
	}
	return s
}

func (s *clearScene) Kind() Kind { return KindClear }

func (s *clearScene) Render(dc *gg.Context) {
	if s.tod == Day {
		drawSun(dc, s.body.x, s.body.y, s.body.size, s.body.angle, s.body.opacity)
		return
	}
	for _, st := range s.stars {
		if st.sparkle {
			drawStar(dc, st.x, st.y, st.size, st.brightness())
			continue
		}
		drawDot(dc, st.x, st.y, st.size/6, white, st.brightness())
	}
	drawMoon(dc, s.body.x, s.body.y, s.body.size, s.body.opacity)
}

func (s *clearScene) Advance() {
	if s.tod == Day {
		s.body.angle += sunSpin
		return
	}
	for i := range s.stars {
		st := &s.stars[i]
		st.phase += st.twinkleSpeed
		st.sparkle = st.size > 8 && s.rng.Float64() > 0.98
	}
}
