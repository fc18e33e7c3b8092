package animation

import (
	"math/rand/v2"
	"time"

	"github.com/fogleman/gg"
)

const (
	FlashDuration    = 200 * time.Millisecond
	MinFlashInterval = 2000 * time.Millisecond
	MaxFlashInterval = 7000 * time.Millisecond

	flashPeak       = 0.9
	flashFade       = 0.95
	flashFloor      = 0.4
	overlayOpacity  = 0.7
	stormCloudAlpha = 0.8
)

type lightning struct {
	x, y, size, opacity float64
	active              bool
}

type stormScene struct {
	b      bounds
	rng    *rand.Rand
	drops  []drop
	clouds []cloud
	flash  lightning

	timers    Timers
	fadeTimer TimerID
	nextTimer TimerID

	// onFlash observes flash transitions.
	onFlash func(active bool)
}

func newStormScene(b bounds, rng *rand.Rand) *stormScene {
	s := &stormScene{b: b, rng: rng}

	for i := 0; i < 4; i++ {
		s.clouds = append(s.clouds, cloud{
			x:       b.w / 4 * float64(i),
			y:       between(rng, 0, b.h/4),
			size:    between(rng, 120, 260),
			speed:   between(rng, 0.1, 0.6),
			opacity: stormCloudAlpha,
		})
	}

	s.drops = make([]drop, b.density(3))
	for i := range s.drops {
		s.drops[i] = drop{
			x:       between(rng, 0, b.w),
			y:       between(rng, 0, b.h),
			size:    between(rng, 5, 13),
			speed:   between(rng, 15, 30),
			opacity: between(rng, 0.2, 0.8),
		}
	}
	return s
}

func (s *stormScene) Kind() Kind { return KindThunderstorm }

// start fires the first flash immediately and keeps rescheduling.
func (s *stormScene) start(t Timers) {
	s.timers = t
	s.strike()
}

func (s *stormScene) stop() {
	if s.timers == nil {
		return
	}
	s.timers.CancelTimer(s.fadeTimer)
	s.timers.CancelTimer(s.nextTimer)
	s.timers = nil
}

func (s *stormScene) strike() {
	if !s.flash.active {
		c := s.clouds[s.rng.IntN(len(s.clouds))]
		s.flash = lightning{
			x:       c.x,
			y:       c.y + c.size/4,
			size:    between(s.rng, 40, 100),
			opacity: flashPeak,
			active:  true,
		}
		s.notify(true)
		s.fadeTimer = s.timers.AfterFunc(FlashDuration, func() {
			s.flash.active = false
			s.notify(false)
		})
	}

	next := MinFlashInterval + time.Duration(s.rng.Int64N(int64(MaxFlashInterval-MinFlashInterval)))
	s.nextTimer = s.timers.AfterFunc(next, s.strike)
}

func (s *stormScene) notify(active bool) {
	if s.onFlash != nil {
		s.onFlash(active)
	}
}

func (s *stormScene) Render(dc *gg.Context) {
	drawClouds(dc, s.clouds, stormGrey)

	if s.flash.active {
		drawBolt(dc, s.flash.x, s.flash.y, s.flash.size, s.flash.opacity)
		if s.flash.opacity > overlayOpacity {
			setColor(dc, flashTint, s.flash.opacity/10)
			dc.DrawRectangle(0, 0, s.b.w, s.b.h)
			dc.Fill()
		}
	}

	for _, d := range s.drops {
		drawRaindrop(dc, d.x, d.y, d.size, d.opacity)
	}
}

func (s *stormScene) Advance() {
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
	if s.flash.active {
		s.flash.opacity = max(s.flash.opacity*flashFade, flashFloor)
	}
}
