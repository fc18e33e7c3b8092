package animation

import (
	"sync"
	"time"
)

type virtualTimer struct {
	at  time.Time
	seq uint64
	cb  func()
}

// VirtualHost is a Host on a virtual clock. Nothing happens until Advance or
// Step moves the clock; frames fire on every interval boundary and timers at
// their due time, timers first when both are due together.
type VirtualHost struct {
	mu          sync.Mutex
	now         time.Time
	interval    time.Duration
	nextFrameAt time.Time
	nextID      uint64
	frames      []frameEntry
	timers      map[TimerID]virtualTimer
	frameCount  int
}

// NewVirtualHost starts the clock at start; interval <= 0 means 60 frames per second.
func NewVirtualHost(start time.Time, interval time.Duration) *VirtualHost {
	if interval <= 0 {
		interval = time.Second / DefaultFPS
	}
	return &VirtualHost{
		now:         start,
		interval:    interval,
		nextFrameAt: start.Add(interval),
		timers:      make(map[TimerID]virtualTimer),
	}
}

// Now returns the virtual time.
func (h *VirtualHost) Now() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

// Interval returns the time between frames.
func (h *VirtualHost) Interval() time.Duration {
	return h.interval
}

// Frames returns how many frame boundaries have run.
func (h *VirtualHost) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frameCount
}

// PendingFrames returns the number of registered frame callbacks.
func (h *VirtualHost) PendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

// PendingTimers returns the number of scheduled timers.
func (h *VirtualHost) PendingTimers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.timers)
}

func (h *VirtualHost) RequestFrame(cb func(now time.Time)) FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := FrameID(h.nextID)
	h.frames = append(h.frames, frameEntry{id: id, cb: cb})
	return id
}

func (h *VirtualHost) CancelFrame(id FrameID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = removeFrame(h.frames, id)
}

func (h *VirtualHost) AfterFunc(d time.Duration, cb func()) TimerID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := TimerID(h.nextID)
	h.timers[id] = virtualTimer{at: h.now.Add(d), seq: h.nextID, cb: cb}
	return id
}

func (h *VirtualHost) CancelTimer(id TimerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.timers, id)
}

// Step advances the clock to the next frame boundary.
func (h *VirtualHost) Step() {
	h.mu.Lock()
	d := h.nextFrameAt.Sub(h.now)
	h.mu.Unlock()
	h.Advance(d)
}

// StepN runs n frame boundaries.
func (h *VirtualHost) StepN(n int) {
	for i := 0; i < n; i++ {
		h.Step()
	}
}

// Advance moves the clock forward by d, running every timer and frame that
// falls due on the way in time order.
func (h *VirtualHost) Advance(d time.Duration) {
	h.mu.Lock()
	target := h.now.Add(d)
	h.mu.Unlock()

	for {
		h.mu.Lock()
		id, t, ok := h.earliestTimer()
		if ok && !t.at.After(target) && !t.at.After(h.nextFrameAt) {
			delete(h.timers, id)
			h.now = t.at
			h.mu.Unlock()
			t.cb()
			continue
		}

		if !h.nextFrameAt.After(target) {
			h.now = h.nextFrameAt
			h.nextFrameAt = h.now.Add(h.interval)
			h.frameCount++
			batch := h.frames
			h.frames = nil
			now := h.now
			h.mu.Unlock()
			for _, f := range batch {
				f.cb(now)
			}
			continue
		}

		h.now = target
		h.mu.Unlock()
		return
	}
}

func (h *VirtualHost) earliestTimer() (TimerID, virtualTimer, bool) {
	var (
		bestID TimerID
		best   virtualTimer
		found  bool
	)
	for id, t := range h.timers {
		if !found || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			bestID, best, found = id, t, true
		}
	}
	return bestID, best, found
}

var _ Host = (*VirtualHost)(nil)
