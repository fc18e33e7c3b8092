// Package animation renders the animated weather backdrop: six particle scenes
// driven by a frame host that calls back once per display refresh.
package animation

import "time"

// FrameID identifies a scheduled frame callback.
type FrameID uint64

// TimerID identifies a scheduled timer callback.
type TimerID uint64

// Timers schedules one-shot callbacks.
type Timers interface {
	AfterFunc(d time.Duration, cb func()) TimerID
	CancelTimer(id TimerID)
}

// Host is the rendering host's scheduling facility. A frame callback runs once;
// it must request another frame to keep animating.
type Host interface {
	Timers
	RequestFrame(cb func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type frameEntry struct {
	id FrameID
	cb func(time.Time)
}

func removeFrame(frames []frameEntry, id FrameID) []frameEntry {
	for i, f := range frames {
		if f.id == id {
			return append(frames[:i], frames[i+1:]...)
		}
	}
	return frames
}
