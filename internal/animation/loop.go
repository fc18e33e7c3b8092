package animation

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultFPS is the frame rate of a Loop when none is configured.
const DefaultFPS = 60

// Loop is a real-time Host. Frames and timers all run on the goroutine that
// calls Run, one at a time.
type Loop struct {
	interval time.Duration

	mu     sync.Mutex
	nextID uint64
	frames []frameEntry
	timers map[TimerID]*time.Timer

	tasks chan func()
	done  chan struct{}
}

// NewLoop returns a Loop ticking fps times per second.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		timers:   make(map[TimerID]*time.Timer),
		tasks:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

func (l *Loop) RequestFrame(cb func(now time.Time)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := FrameID(l.nextID)
	l.frames = append(l.frames, frameEntry{id: id, cb: cb})
	return id
}

func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = removeFrame(l.frames, id)
}

func (l *Loop) AfterFunc(d time.Duration, cb func()) TimerID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := TimerID(l.nextID)
	l.timers[id] = time.AfterFunc(d, func() {
		l.post(func() {
			l.mu.Lock()
			_, live := l.timers[id]
			delete(l.timers, id)
			l.mu.Unlock()
			if live {
				cb()
			}
		})
	})
	return id
}

func (l *Loop) CancelTimer(id TimerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.timers[id]; ok {
		t.Stop()
		delete(l.timers, id)
	}
}

func (l *Loop) post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Run drives frames and timers until ctx is cancelled. Pending timers are
// stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	log.Printf("INFO: frame loop started at %s per frame", l.interval)
	defer func() {
		l.mu.Lock()
		for id, t := range l.timers {
			t.Stop()
			delete(l.timers, id)
		}
		l.frames = nil
		l.mu.Unlock()
		close(l.done)
		log.Println("INFO: frame loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.runFrames(now)
		case fn := <-l.tasks:
			fn()
		}
	}
}

func (l *Loop) runFrames(now time.Time) {
	l.mu.Lock()
	batch := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, f := range batch {
		f.cb(now)
	}
}

var _ Host = (*Loop)(nil)
