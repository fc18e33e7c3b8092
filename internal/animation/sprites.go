package animation

import (
	"math"

	"github.com/fogleman/gg"
)

type rgb struct{ r, g, b uint8 }

var (
	white      = rgb{255, 255, 255}
	cloudEdge  = rgb{240, 240, 240}
	stormGrey  = rgb{150, 155, 170}
	dropBlue   = rgb{100, 180, 255}
	flakeWhite = rgb{255, 255, 255}
	sunYellow  = rgb{255, 220, 100}
	moonWhite  = rgb{240, 240, 255}
	moonShade  = rgb{200, 200, 220}
	boltYellow = rgb{255, 255, 200}
	flashTint  = rgb{255, 255, 220}
)

func setColor(dc *gg.Context, c rgb, alpha float64) {
	dc.SetRGBA(float64(c.r)/255, float64(c.g)/255, float64(c.b)/255, alpha)
}

// drawCloud paints the 100x60 cloud sprite anchored so (x, y) sits a third
// down from its top edge and half-way across.
func drawCloud(dc *gg.Context, x, y, size float64, shade rgb, alpha float64) {
	w, h := size, size/2
	dc.Push()
	dc.Translate(x-size/2, y-size/3)
	dc.Scale(w/100, h/60)
	dc.MoveTo(25, 45)
	dc.QuadraticTo(10, 45, 10, 30)
	dc.QuadraticTo(10, 15, 25, 15)
	dc.QuadraticTo(30, 5, 45, 5)
	dc.QuadraticTo(65, 5, 70, 20)
	dc.QuadraticTo(85, 20, 90, 35)
	dc.QuadraticTo(90, 45, 80, 45)
	dc.ClosePath()
	setColor(dc, shade, 0.9*alpha)
	dc.FillPreserve()
	setColor(dc, cloudEdge, 0.5*alpha)
	dc.SetLineWidth(1)
	dc.Stroke()
	dc.Pop()
}

// drawRaindrop paints a teardrop of width size and height 2*size whose tip is at (x, y).
func drawRaindrop(dc *gg.Context, x, y, size, alpha float64) {
	dc.Push()
	dc.Translate(x-size/2, y)
	dc.Scale(size/10, size/10)
	dc.MoveTo(5, 0)
	dc.LineTo(10, 10)
	dc.QuadraticTo(10, 20, 5, 20)
	dc.QuadraticTo(0, 20, 0, 10)
	dc.ClosePath()
	setColor(dc, dropBlue, 0.7*alpha)
	dc.Fill()
	dc.Pop()
}

// drawSnowflake paints a six-armed flake centred on (x, y) rotated by angle.
func drawSnowflake(dc *gg.Context, x, y, size, angle, alpha float64) {
	scale := size / 30
	dc.Push()
	dc.Translate(x, y)
	dc.Rotate(angle)
	dc.Scale(scale, scale)
	for i := 0; i < 3; i++ {
		a := float64(i) * math.Pi / 3
		dx, dy := 13*math.Sin(a), 13*math.Cos(a)
		dc.MoveTo(-dx, -dy)
		dc.LineTo(dx, dy)
	}
	setColor(dc, flakeWhite, 0.8*alpha)
	dc.SetLineWidth(2 * scale)
	dc.SetLineCap(gg.LineCapRound)
	dc.Stroke()
	dc.DrawCircle(0, 0, 3)
	setColor(dc, flakeWhite, 0.9*alpha)
	dc.Fill()
	dc.Pop()
}

// drawSun paints a disc with eight rays centred on (x, y); size is the sprite's full width.
func drawSun(dc *gg.Context, x, y, size, angle, alpha float64) {
	scale := size / 100
	dc.Push()
	dc.Translate(x, y)
	dc.Rotate(angle)
	dc.Scale(scale, scale)
	dc.DrawCircle(0, 0, 25)
	setColor(dc, sunYellow, 0.9*alpha)
	dc.Fill()
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		dc.MoveTo(32*math.Cos(a), 32*math.Sin(a))
		dc.LineTo(45*math.Cos(a), 45*math.Sin(a))
	}
	setColor(dc, sunYellow, 0.7*alpha)
	dc.SetLineWidth(4 * scale)
	dc.SetLineCap(gg.LineCapRound)
	dc.Stroke()
	dc.Pop()
}

// drawMoon paints a crescent centred on (x, y).
func drawMoon(dc *gg.Context, x, y, size, alpha float64) {
	scale := size / 100
	dc.Push()
	dc.Translate(x-size/2, y-size/2)
	dc.Scale(scale, scale)
	inner := math.Atan2(35, 20)
	dc.NewSubPath()
	dc.DrawArc(50, 50, 35, -math.Pi/2, math.Pi/2)
	dc.DrawArc(30, 50, math.Hypot(20, 35), inner, -inner)
	dc.ClosePath()
	setColor(dc, moonWhite, 0.9*alpha)
	dc.FillPreserve()
	setColor(dc, moonShade, 0.5*alpha)
	dc.SetLineWidth(scale)
	dc.Stroke()
	dc.Pop()
}

// drawBolt paints a 60x120 lightning bolt whose top is at (x, y).
func drawBolt(dc *gg.Context, x, y, size, alpha float64) {
	dc.Push()
	dc.Translate(x-size/4, y)
	dc.Scale(size/120, size/120)
	dc.MoveTo(30, 0)
	dc.LineTo(20, 50)
	dc.LineTo(40, 55)
	dc.LineTo(10, 120)
	dc.LineTo(20, 70)
	dc.LineTo(0, 65)
	dc.ClosePath()
	setColor(dc, boltYellow, alpha)
	dc.Fill()
	dc.Pop()
}

// drawStar paints a five-pointed star centred on (x, y).
func drawStar(dc *gg.Context, x, y, size, alpha float64) {
	dc.Push()
	dc.Translate(x, y)
	outer, inner := size/2, size/5
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := float64(i)*math.Pi/5 - math.Pi/2
		px, py := r*math.Cos(a), r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
	setColor(dc, white, alpha)
	dc.Fill()
	dc.Pop()
}

// drawDot paints a filled circle.
func drawDot(dc *gg.Context, x, y, r float64, c rgb, alpha float64) {
	dc.DrawCircle(x, y, r)
	setColor(dc, c, alpha)
	dc.Fill()
}

// clearSurface resets every pixel to transparent.
func clearSurface(dc *gg.Context) {
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()
}
