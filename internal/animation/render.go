package animation

import (
	"image"
	"math/rand/v2"
	"time"

	"github.com/fogleman/gg"
)

// RenderOptions controls headless frame rendering.
type RenderOptions struct {
	// Frames is how many frames to simulate before capturing; at least one runs.
	Frames int
	// Backdrop paints the sky gradient under the scene.
	Backdrop bool
	Dark     bool
	Rand     *rand.Rand
}

// RenderFrames runs a scene on a virtual clock and returns the last frame.
// A zero-area request yields an empty image.
func RenderFrames(condition string, tod TimeOfDay, width, height int, opts RenderOptions) *image.RGBA {
	canvas := NewCanvas(width, height)
	w, h := canvas.Size()
	if w == 0 || h == 0 {
		return canvas.RGBA()
	}

	host := NewVirtualHost(time.Unix(0, 0), 0)
	a := NewAnimator(host, Config{
		Condition: condition,
		TimeOfDay: tod,
		Surface:   canvas,
		Rand:      opts.Rand,
	})
	defer a.Stop()

	host.StepN(max(opts.Frames, 1))

	frame, ok := a.Snapshot()
	if !ok {
		return canvas.RGBA()
	}
	if !opts.Backdrop {
		return frame.Image
	}

	out := image.NewRGBA(frame.Image.Bounds())
	dc := gg.NewContextForRGBA(out)
	Backdrop(dc, condition, tod, opts.Dark)
	dc.DrawImage(frame.Image, 0, 0)
	return out
}
