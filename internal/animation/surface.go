package animation

import (
	"image"
	"image/draw"
)

// Surface is a drawable raster. A zero-area surface is treated as absent.
type Surface interface {
	Size() (width, height int)
	RGBA() *image.RGBA
}

// Canvas is an in-memory Surface. It is not safe for concurrent use; the
// Animator drawing it serializes access.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas returns a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// RGBA returns the backing image.
func (c *Canvas) RGBA() *image.RGBA {
	return c.img
}

// Resize replaces the backing image; negative sizes are treated as zero.
func (c *Canvas) Resize(width, height int) {
	c.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

func copyRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
