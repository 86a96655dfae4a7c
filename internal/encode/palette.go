package encode

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fallback is used for empty palettes and unparsable colors.
var Fallback = colorful.Color{R: 0.6, G: 0.6, B: 0.6}

// Palette is the active color channel configuration: option colors indexed
// by ordinal for Discrete, gradient stops for Continuous.
type Palette struct {
	Kind   Kind
	Colors []string
}

// ColorAt resolves a color channel value. Continuous values are clamped to
// [0, 1] here; NaN resolves to the first stop.
func (p Palette) ColorAt(v float64) colorful.Color {
	if len(p.Colors) == 0 {
		return Fallback
	}
	if p.Kind == Discrete {
		i := int(v)
		if i < 0 || i >= len(p.Colors) || math.IsNaN(v) {
			return Fallback
		}
		return parse(p.Colors[i])
	}
	if math.IsNaN(v) || v <= 0 || len(p.Colors) == 1 {
		return parse(p.Colors[0])
	}
	if v >= 1 {
		return parse(p.Colors[len(p.Colors)-1])
	}
	pos := v * float64(len(p.Colors)-1)
	i := int(pos)
	return parse(p.Colors[i]).BlendLab(parse(p.Colors[i+1]), pos-float64(i)).Clamped()
}

// Hex is ColorAt formatted as #rrggbb.
func (p Palette) Hex(v float64) string {
	return p.ColorAt(v).Hex()
}

func parse(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return Fallback
	}
	return c
}
