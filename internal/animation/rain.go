package animation

import (
	"math/rand/v2"

	"github.com/fogleman/gg"
)

type drop struct {
	x, y, size, speed, opacity float64
}

type rainScene struct {
	b      bounds
	rng    *rand.Rand
	drops  []drop
	clouds []cloud
}

func newRainScene(b bounds, tod TimeOfDay, rng *rand.Rand) *rainScene {
	s := &rainScene{b: b, rng: rng}

	cloudOpacity := 0.8
	if tod == Night {
		cloudOpacity = 0.5
	}
	for i := 0; i < 3; i++ {
		s.clouds = append(s.clouds, cloud{
			x:       between(rng, 0, b.w),
			y:       between(rng, 0, b.h/3),
			size:    between(rng, 60, 140),
			speed:   between(rng, 0.1, 0.6),
			opacity: cloudOpacity,
		})
	}

	s.drops = make([]drop, b.density(3))
	for i := range s.drops {
		s.drops[i] = drop{
			x:       between(rng, 0, b.w),
			y:       between(rng, 0, b.h),
			size:    between(rng, 5, 12),
			speed:   between(rng, 10, 20),
			opacity: between(rng, 0.3, 0.7),
		}
	}
	return s
}

func (s *rainScene) Kind() Kind { return KindRain }

func (s *rainScene) Render(dc *gg.Context) {
	drawClouds(dc, s.clouds, white)
	for _, d := range s.drops {
		drawRaindrop(dc, d.x, d.y, d.size, d.opacity)
	}
}

func (s *rainScene) Advance() {
	for i := range s.clouds {
		c := &s.clouds[i]
		c.x += c.speed
		if c.x > s.b.w+c.size {
			c.x = -c.size
		}
	}
	for i := range s.drops {
		d := &s.drops[i]
		d.y += d.speed
		if d.y > s.b.h {
			d.y = -d.size * 2
			d.x = between(s.rng, 0, s.b.w)
		}
	}
}
