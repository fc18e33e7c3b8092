package animation

import (
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"
)

type flake struct {
	x, y, size, speed, wind, angle, spin, opacity float64
}

type snowScene struct {
	b      bounds
	rng    *rand.Rand
	flakes []flake
	clouds []cloud
}

func newSnowScene(b bounds, tod TimeOfDay, rng *rand.Rand) *snowScene {
	s := &snowScene{b: b, rng: rng}

	cloudOpacity := 0.4
	if tod == Night {
		cloudOpacity = 0.2
	}
	for i := 0; i < 2; i++ {
		s.clouds = append(s.clouds, cloud{
			x:       between(rng, 0, b.w),
			y:       between(rng, 0, b.h/4),
			size:    between(rng, 60, 160),
			speed:   between(rng, 0.1, 0.4),
			opacity: cloudOpacity,
		})
	}

	s.flakes = make([]flake, b.density(2))
	for i := range s.flakes {
		s.flakes[i] = flake{
			x:       between(rng, 0, b.w),
			y:       between(rng, 0, b.h),
			size:    between(rng, 8, 23),
			speed:   between(rng, 1, 3),
			wind:    between(rng, -0.5, 0.5),
			angle:   between(rng, 0, 2*math.Pi),
			spin:    between(rng, -0.01, 0.01),
			opacity: between(rng, 0.5, 1),
		}
	}
	return s
}

func (s *snowScene) Kind() Kind { return KindSnow }

func (s *snowScene) Render(dc *gg.Context) {
	drawClouds(dc, s.clouds, white)
	for _, f := range s.flakes {
		drawSnowflake(dc, f.x, f.y, f.size, f.angle, f.opacity)
	}
}

func (s *snowScene) Advance() {
	for i := range s.clouds {
		c := &s.clouds[i]
		c.x += c.speed
		if c.x > s.b.w+c.size {
			c.x = -c.size
		}
	}
	for i := range s.flakes {
		f := &s.flakes[i]
		f.y += f.speed
		f.x += f.wind
		f.angle += f.spin

		if f.y > s.b.h {
			f.y = -f.size
			f.x = between(s.rng, 0, s.b.w)
		}
		if f.x > s.b.w+f.size {
			f.x = -f.size
		} else if f.x < -f.size {
			f.x = s.b.w + f.size
		}
	}
}
