// Package colorgrad handles color parsing and the multi-stop gradient ramp
// used by the palette strategies. Gradient stops are interpolated in HSL
// space so complementary-hue ramps pass through vivid intermediates instead
// of muddy grays.
package colorgrad

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/abertin/stardrift/internal/vmath"
)

// DefaultColor is used whenever a configured color fails to parse.
var DefaultColor = color.RGBA{R: 0x00, G: 0xC8, B: 0xFF, A: 0xFF}

// Parse resolves a "#RGB"/"#RRGGBB" hex string or a CSS color name.
func Parse(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
		}
		return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xFF}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// ParseOrDefault is Parse with the fallback-color failure policy applied.
func ParseOrDefault(s string) color.RGBA {
	c, err := Parse(s)
	if err != nil {
		return DefaultColor
	}
	return c
}

// RGBToHSL converts 8-bit RGB to hue/saturation/lightness, each in [0,1].
func RGBToHSL(c color.RGBA) (h, s, l float64) {
	rf := float64(c.R) / 255.0
	gf := float64(c.G) / 255.0
	bf := float64(c.B) / 255.0
	maxV := math.Max(rf, math.Max(gf, bf))
	minV := math.Min(rf, math.Min(gf, bf))
	l = (maxV + minV) / 2.0
	if maxV == minV {
		return 0, 0, l
	}
	d := maxV - minV
	if l > 0.5 {
		s = d / (2.0 - maxV - minV)
	} else {
		s = d / (maxV + minV)
	}
	switch maxV {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	h /= 6
	return h, s, l
}

// HSLToRGB converts hue/saturation/lightness in [0,1] to 8-bit RGB.
func HSLToRGB(h, s, l float64) color.RGBA {
	hue := func(p, q, t float64) float64 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		switch {
		case t < 1.0/6.0:
			return p + (q-p)*6*t
		case t < 1.0/2.0:
			return q
		case t < 2.0/3.0:
			return p + (q-p)*(2.0/3.0-t)*6
		}
		return p
	}

	if s == 0 {
		v := uint8(math.Round(l * 255))
		return color.RGBA{R: v, G: v, B: v, A: 0xFF}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return color.RGBA{
		R: uint8(math.Round(hue(p, q, h+1.0/3.0) * 255)),
		G: uint8(math.Round(hue(p, q, h) * 255)),
		B: uint8(math.Round(hue(p, q, h-1.0/3.0) * 255)),
		A: 0xFF,
	}
}

// FromHue builds a color from a hue in degrees plus saturation/lightness in
// [0,1]. Palette strategies that map angles to hue go through here.
func FromHue(hueDeg, s, l float64) color.RGBA {
	h := math.Mod(hueDeg, 360)
	if h < 0 {
		h += 360
	}
	return HSLToRGB(h/360.0, vmath.Clamp01(s), vmath.Clamp01(l))
}

// MixHSL interpolates two colors in HSL space.
func MixHSL(a, b color.RGBA, t float64) color.RGBA {
	h1, s1, l1 := RGBToHSL(a)
	h2, s2, l2 := RGBToHSL(b)
	return HSLToRGB(
		vmath.Lerp(h1, h2, t),
		vmath.Lerp(s1, s2, t),
		vmath.Lerp(l1, l2, t),
	)
}

// Stop is one gradient stop: a color anchored at a position in [0,1].
type Stop struct {
	Color color.RGBA
	Pos   float64
}

// Gradient is an ordered color ramp over [0,1].
type Gradient struct {
	stops []Stop
}

// DefaultGradient mirrors the default appearance ramp.
func DefaultGradient() Gradient {
	return Gradient{stops: []Stop{
		{Color: DefaultColor, Pos: 0},
		{Color: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, Pos: 1},
	}}
}

// ParseStops parses a comma-separated "color@pos" list. Positions are
// optional; omitted ones are distributed evenly among the unpositioned
// stops. The result is sorted and extended so it covers [0,1] exactly.
// Unparseable input yields the default ramp.
func ParseStops(s string) Gradient {
	parts := strings.Split(s, ",")
	type rawStop struct {
		color  color.RGBA
		pos    float64
		hasPos bool
	}
	var raw []rawStop
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		entry := rawStop{}
		colorText := part
		if at := strings.IndexByte(part, '@'); at >= 0 {
			colorText = strings.TrimSpace(part[:at])
			if pos, err := strconv.ParseFloat(strings.TrimSpace(part[at+1:]), 64); err == nil {
				entry.pos = vmath.Clamp01(pos)
				entry.hasPos = true
			}
		}
		c, err := Parse(colorText)
		if err != nil {
			continue
		}
		entry.color = c
		raw = append(raw, entry)
	}
	if len(raw) == 0 {
		return DefaultGradient()
	}

	unpositioned := 0
	for _, r := range raw {
		if !r.hasPos {
			unpositioned++
		}
	}
	idx := 0
	for i := range raw {
		if raw[i].hasPos {
			continue
		}
		if unpositioned == 1 {
			raw[i].pos = 0
		} else {
			raw[i].pos = float64(idx) / float64(unpositioned-1)
		}
		idx++
	}

	stops := make([]Stop, 0, len(raw)+2)
	for _, r := range raw {
		stops = append(stops, Stop{Color: r.color, Pos: r.pos})
	}
	// insertion sort keeps equal positions in declaration order
	for i := 1; i < len(stops); i++ {
		for j := i; j > 0 && stops[j].Pos < stops[j-1].Pos; j-- {
			stops[j], stops[j-1] = stops[j-1], stops[j]
		}
	}
	if stops[0].Pos > 0 {
		stops = append([]Stop{{Color: stops[0].Color, Pos: 0}}, stops...)
	}
	if stops[len(stops)-1].Pos < 1 {
		stops = append(stops, Stop{Color: stops[len(stops)-1].Color, Pos: 1})
	}
	return Gradient{stops: stops}
}

// Stops exposes the normalized stop list.
func (g Gradient) Stops() []Stop { return g.stops }

// At samples the ramp at t, interpolating the bracketing stop pair in HSL.
func (g Gradient) At(t float64) color.RGBA {
	if len(g.stops) == 0 {
		return DefaultColor
	}
	t = vmath.Clamp01(t)
	for i := 0; i < len(g.stops)-1; i++ {
		a, b := g.stops[i], g.stops[i+1]
		if t >= a.Pos && t <= b.Pos {
			local := (t - a.Pos) / math.Max(1e-6, b.Pos-a.Pos)
			// endpoints are returned verbatim so the configured stop colors
			// survive the HSL round-trip untouched
			if local <= 0 {
				return a.Color
			}
			if local >= 1 {
				return b.Color
			}
			return MixHSL(a.Color, b.Color, local)
		}
	}
	return g.stops[len(g.stops)-1].Color
}

// WithAlpha returns c with its alpha premultiplied-free channel replaced.
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	c.A = uint8(math.Round(vmath.Clamp01(alpha) * 255))
	return c
}
