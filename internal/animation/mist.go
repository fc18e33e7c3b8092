package animation

import (
	"math/rand/v2"

	"github.com/fogleman/gg"
)

const mistParticles = 20

type haze struct {
	x, y, size, speed, opacity float64
}

type mistScene struct {
	b     bounds
	tod   TimeOfDay
	rng   *rand.Rand
	body  celestial
	banks []haze
}

func newMistScene(b bounds, tod TimeOfDay, rng *rand.Rand) *mistScene {
	s := &mistScene{b: b, tod: tod, rng: rng}
	if tod == Day {
		s.body = newCelestial(b, 0.15, 0.3)
	} else {
		s.body = newCelestial(b, 0.15, 0.15)
	}

	s.banks = make([]haze, mistParticles)
	for i := range s.banks {
		s.banks[i] = haze{
			x:       between(rng, 0, b.w),
			y:       between(rng, 0, b.h),
			size:    between(rng, 100, 300),
			speed:   between(rng, 0.1, 0.6),
			opacity: between(rng, 0.1, 0.3),
		}
	}
	return s
}

func (s *mistScene) Kind() Kind { return KindMist }

func (s *mistScene) Render(dc *gg.Context) {
	if s.tod == Day {
		drawSun(dc, s.body.x, s.body.y, s.body.size, 0, s.body.opacity)
	} else {
		drawMoon(dc, s.body.x, s.body.y, s.body.size, s.body.opacity)
	}
	for _, p := range s.banks {
		drawDot(dc, p.x, p.y, p.size/2, white, p.opacity)
	}
}

func (s *mistScene) Advance() {
	for i := range s.banks {
		p := &s.banks[i]
		p.x += p.speed
		if p.x-p.size > s.b.w {
			p.x = -p.size
			p.y = between(s.rng, 0, s.b.h)
		}
	}
}
