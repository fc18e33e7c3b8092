package animation

import (
	"image/color"
	"strings"

	"github.com/fogleman/gg"
)

type gradient struct {
	from, to color.RGBA
}

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Sky colours.
var (
	blue100, blue200, blue300, blue400     = hex(0xdbeafe), hex(0xbfdbfe), hex(0x93c5fd), hex(0x60a5fa)
	blue700, blue900, blue950              = hex(0x1d4ed8), hex(0x1e3a8a), hex(0x172554)
	sky300                                 = hex(0x7dd3fc)
	indigo800, indigo900, indigo950        = hex(0x3730a3), hex(0x312e81), hex(0x1e1b4b)
	gray300, gray400, gray500, gray600     = hex(0xd1d5db), hex(0x9ca3af), hex(0x6b7280), hex(0x4b5563)
	gray700, gray800, gray900, gray950     = hex(0x374151), hex(0x1f2937), hex(0x111827), hex(0x030712)
	slate200, slate400, slate500, slate600 = hex(0xe2e8f0), hex(0x94a3b8), hex(0x64748b), hex(0x475569)
	slate700, slate800, slate900, slate950 = hex(0x334155), hex(0x1e293b), hex(0x0f172a), hex(0x020617)
	purple950                              = hex(0x3b0764)
	yellow200, yellow300, yellow700        = hex(0xfef08a), hex(0xfde047), hex(0xa16207)
	yellow900, yellow950                   = hex(0x713f12), hex(0x422006)
	orange300, orange400, orange800        = hex(0xfdba74), hex(0xfb923c), hex(0x9a3412)
	orange900, orange950                   = hex(0x7c2d12), hex(0x431407)
	paper                                  = hex(0xffffff)
)

// palette holds {day light, day dark, night light, night dark} per condition.
var palette = map[string][4]gradient{
	"clear":        {{blue400, sky300}, {blue900, indigo900}, {indigo800, blue700}, {indigo950, blue950}},
	"clouds":       {{gray300, blue200}, {gray800, slate900}, {gray600, slate700}, {gray900, slate950}},
	"rain":         {{gray400, slate500}, {gray800, slate900}, {gray700, slate800}, {gray950, slate950}},
	"drizzle":      {{gray300, blue300}, {gray800, blue900}, {gray600, blue700}, {gray900, blue950}},
	"snow":         {{slate200, blue100}, {slate700, blue900}, {slate400, blue300}, {slate800, blue950}},
	"thunderstorm": {{gray600, slate700}, {gray800, slate950}, {gray700, slate800}, {gray950, purple950}},
	"mist":         {{gray300, slate400}, {gray800, slate900}, {gray500, slate600}, {gray900, slate950}},
	"fog":          {{gray300, slate400}, {gray800, slate900}, {gray500, slate600}, {gray900, slate950}},
	"haze":         {{yellow200, orange300}, {yellow900, orange900}, {yellow700, orange800}, {yellow950, orange950}},
	"dust":         {{yellow300, orange400}, {yellow900, orange900}, {yellow700, orange800}, {yellow950, orange950}},
	"smoke":        {{gray400, slate500}, {gray800, slate900}, {gray600, slate700}, {gray900, slate950}},
	"default":      {{blue100, paper}, {gray900, gray800}, {indigo800, blue700}, {gray950, blue950}},
}

func gradientFor(condition string, tod TimeOfDay, dark bool) gradient {
	set, ok := palette[strings.ToLower(strings.TrimSpace(condition))]
	if !ok {
		set = palette["default"]
	}
	i := 0
	if tod == Night {
		i = 2
	}
	if dark {
		i++
	}
	return set[i]
}

// Backdrop fills dc with the diagonal sky gradient for condition.
func Backdrop(dc *gg.Context, condition string, tod TimeOfDay, dark bool) {
	g := gradientFor(condition, tod, dark)
	w, h := float64(dc.Width()), float64(dc.Height())

	fill := gg.NewLinearGradient(0, 0, w, h)
	fill.AddColorStop(0, g.from)
	fill.AddColorStop(1, g.to)

	dc.Push()
	dc.Identity()
	dc.SetFillStyle(fill)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
	dc.Pop()
}
