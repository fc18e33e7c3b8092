package animation

import (
	"math/rand/v2"

	"github.com/fogleman/gg"
)

type cloudsScene struct {
	b      bounds
	rng    *rand.Rand
	clouds []cloud
}

func newCloudsScene(b bounds, tod TimeOfDay, rng *rand.Rand) *cloudsScene {
	s := &cloudsScene{b: b, rng: rng}

	lo, hi := 0.6, 0.9
	if tod == Night {
		lo, hi = 0.3, 0.5
	}
	for i := 0; i < 5; i++ {
		s.clouds = append(s.clouds, cloud{
			x:       between(rng, 0, b.w),
			y:       between(rng, 0, b.h/2),
			size:    between(rng, 80, 200),
			speed:   between(rng, 0.1, 0.6),
			opacity: between(rng, lo, hi),
		})
	}
	return s
}

func (s *cloudsScene) Kind() Kind { return KindClouds }

func (s *cloudsScene) Render(dc *gg.Context) {
	drawClouds(dc, s.clouds, white)
}

func (s *cloudsScene) Advance() {
	for i := range s.clouds {
		c := &s.clouds[i]
		c.x += c.speed
		if c.x > s.b.w+c.size/2 {
			c.x = -c.size / 2
			c.y = between(s.rng, 0, s.b.h/2)
		}
	}
}
