package animation

import (
	"image"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
)

// Config parameterizes an Animator. Surface may be nil until the host attaches one.
type Config struct {
	Condition string
	TimeOfDay TimeOfDay
	Surface   Surface
	// Rand seeds particle generation; nil draws a random seed.
	Rand *rand.Rand
}

// session is one live scene bound to a surface of fixed size.
type session struct {
	id     string
	scene  Scene
	img    *image.RGBA
	dc     *gg.Context
	width  int
	height int
	frame  FrameID
	frames int
}

// Frame is a copy of the surface together with the session that drew it.
// Session changes whenever the scene is rebuilt.
type Frame struct {
	Image   *image.RGBA
	Session string
	Scene   Kind
	Frames  int // frames drawn by this session
}

// Animator owns the scene lifecycle for one surface. At most one frame
// callback is registered with the host at any time.
type Animator struct {
	mu      sync.Mutex
	host    Host
	rng     *rand.Rand
	surface Surface
	kind    Kind
	tod     TimeOfDay
	sess    *session
	stopped bool

	onFlash func(active bool)
}

// NewAnimator mounts an animator on host and starts rendering as soon as a
// non-empty surface is available.
func NewAnimator(host Host, cfg Config) *Animator {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	tod := cfg.TimeOfDay
	if tod != Night {
		tod = Day
	}
	a := &Animator{
		host:    host,
		rng:     rng,
		surface: cfg.Surface,
		kind:    KindFor(cfg.Condition),
		tod:     tod,
	}
	a.mu.Lock()
	a.restartLocked()
	a.mu.Unlock()
	return a
}

// Set switches the scene. The live scene is rebuilt only when the variant or
// time of day actually changes.
func (a *Animator) Set(condition string, tod TimeOfDay) {
	kind := KindFor(condition)
	if tod != Night {
		tod = Day
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if kind == a.kind && tod == a.tod && a.sess != nil {
		return
	}
	a.kind, a.tod = kind, tod
	a.restartLocked()
}

// Attach binds a new surface, or detaches with nil.
func (a *Animator) Attach(s Surface) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.surface = s
	a.restartLocked()
}

// Resized rebuilds the scene if the surface no longer matches it.
func (a *Animator) Resized() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess != nil && a.matchesLocked(a.sess) {
		return
	}
	a.restartLocked()
}

// Stop tears down the live scene. A stopped animator never renders again.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.teardownLocked()
}

// Snapshot copies the surface as last drawn. It reports false when no scene is live.
func (a *Animator) Snapshot() (Frame, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess == nil {
		return Frame{}, false
	}
	return Frame{
		Image:   copyRGBA(a.sess.img),
		Session: a.sess.id,
		Scene:   a.sess.scene.Kind(),
		Frames:  a.sess.frames,
	}, true
}

func (a *Animator) matchesLocked(s *session) bool {
	if a.surface == nil {
		return false
	}
	w, h := a.surface.Size()
	return w == s.width && h == s.height && a.surface.RGBA() == s.img
}

func (a *Animator) teardownLocked() {
	s := a.sess
	if s == nil {
		return
	}
	a.host.CancelFrame(s.frame)
	if ts, ok := s.scene.(timedScene); ok {
		ts.stop()
	}
	a.sess = nil
	log.Printf("DEBUG: scene %s stopped after %d frames (session %s)", s.scene.Kind(), s.frames, s.id)
}

// restartLocked replaces the live scene. Without a usable surface nothing is built.
func (a *Animator) restartLocked() {
	a.teardownLocked()
	if a.stopped || a.surface == nil {
		return
	}
	w, h := a.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}

	img := a.surface.RGBA()
	s := &session{
		id:     uuid.NewString(),
		scene:  newScene(a.kind, a.tod, w, h, a.rng),
		img:    img,
		dc:     gg.NewContextForRGBA(img),
		width:  w,
		height: h,
	}
	a.sess = s

	if storm, ok := s.scene.(*stormScene); ok {
		storm.onFlash = a.onFlash
	}
	if ts, ok := s.scene.(timedScene); ok {
		ts.start(sessionTimers{a: a, s: s})
	}
	s.frame = a.host.RequestFrame(a.frameFunc(s))
	log.Printf("DEBUG: scene %s/%s started on %dx%d (session %s)", a.kind, a.tod, w, h, s.id)
}

func (a *Animator) frameFunc(s *session) func(time.Time) {
	return func(time.Time) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.sess != s {
			return
		}
		if !a.matchesLocked(s) {
			a.restartLocked()
			return
		}

		clearSurface(s.dc)
		s.scene.Render(s.dc)
		s.scene.Advance()
		s.frames++
		s.frame = a.host.RequestFrame(a.frameFunc(s))
	}
}

// sessionTimers runs scene timers under the animator lock and drops any that
// fire after their session ended.
type sessionTimers struct {
	a *Animator
	s *session
}

func (t sessionTimers) AfterFunc(d time.Duration, cb func()) TimerID {
	return t.a.host.AfterFunc(d, func() {
		t.a.mu.Lock()
		defer t.a.mu.Unlock()
		if t.a.sess != t.s {
			return
		}
		cb()
	})
}

func (t sessionTimers) CancelTimer(id TimerID) {
	t.a.host.CancelTimer(id)
}
