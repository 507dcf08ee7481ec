package engine

import (
	"image/color"
	"math"

	"github.com/abertin/stardrift/internal/colorgrad"
	"github.com/abertin/stardrift/internal/vmath"
)

// pointColor resolves the RGBA for one projected point under the active
// palette. w and h are the current viewport in pixels; nowMs feeds the
// time-driven palettes.
func (e *Engine) pointColor(p projected, w, h int, nowMs float64) color.RGBA {
	ap := &e.cfg.Appearance
	base := colorgrad.ParseOrDefault(ap.Color)

	switch ap.Palette {
	case "", "uniform":
		return base
	case "random_stop":
		stops := e.gradient.Stops()
		if len(stops) == 0 {
			return base
		}
		k := int(vmath.RandForIndex(p.Seed, 5) * float64(len(stops)))
		if k >= len(stops) {
			k = len(stops) - 1
		}
		return stops[k].Color
	case "alternate":
		stops := e.gradient.Stops()
		if len(stops) < 2 {
			return base
		}
		if p.Index%2 == 1 {
			return stops[len(stops)-1].Color
		}
		return stops[0].Color
	case "every_kth":
		k := ap.PaletteK
		if k < 1 {
			k = 2
		}
		stops := e.gradient.Stops()
		if len(stops) < 2 {
			return base
		}
		return stops[(p.Index/k)%len(stops)].Color
	case "lon_bands":
		_, phi := vmath.SphericalAngles(p.X, p.Y, p.Z)
		bands := float64(max(2, ap.PaletteK))
		t := math.Floor(phi/(2*math.Pi)*bands) / math.Max(1, bands-1)
		return e.gradient.At(vmath.Clamp01(t))
	case "hue_cycle":
		hue := math.Mod(ap.H0+nowMs*0.05, 360)
		return colorgrad.FromHue(hue, 0.75, 0.55)
	case "by_lat":
		theta, _ := vmath.SphericalAngles(p.X, p.Y, p.Z)
		return e.hslFromParams((1-theta/math.Pi)*2-1, nowMs)
	case "by_lon":
		_, phi := vmath.SphericalAngles(p.X, p.Y, p.Z)
		return e.hslFromParams((phi/(2*math.Pi))*2-1, nowMs)
	case "by_direction":
		return e.hslFromParams(math.Atan2(p.Z, p.X)/math.Pi, nowMs)
	case "gradient_radial":
		cx, cy := float64(w)/2, float64(h)/2
		rMax := 0.5 * math.Min(float64(w), float64(h))
		t := vmath.Clamp01(math.Hypot(p.SX-cx, p.SY-cy) / math.Max(1, rMax))
		return e.gradient.At(t)
	case "gradient_linear":
		t := vmath.Clamp01((p.SX - 0.25*float64(w)) / math.Max(1, 0.5*float64(w)))
		return e.gradient.At(t)
	case "by_noise":
		scale := math.Max(0.05, ap.NoiseScale)
		shift := nowMs * 0.001 * ap.NoiseSpeed
		t := vmath.Clamp01(vmath.ValueNoise3(p.X*scale+shift, p.Y*scale, p.Z*scale-shift))
		return e.gradient.At(t)
	}
	return base
}

// hslFromParams turns a signed factor in [-1,1] into a color through the
// h0/dh/wh hue controls, with a slow time wobble on the hue.
func (e *Engine) hslFromParams(factor, nowMs float64) color.RGBA {
	ap := &e.cfg.Appearance
	hue := math.Mod(ap.H0+ap.Dh*factor+ap.Wh*math.Sin(nowMs*0.001), 360)
	if hue < 0 {
		hue += 360
	}
	sat := vmath.Clamp01(0.55 + 0.2*factor)
	light := vmath.Clamp01(0.55 + 0.25*factor)
	return colorgrad.FromHue(hue, sat, light)
}

// maskWeight returns the visibility weight in [0,1] for a world position.
// Weights soften over softDeg at the mask boundary; invert flips the
// result, and animate slides the longitudinal reference over time.
func maskWeight(m *maskParams, x, y, z, nowMs float64) float64 {
	if !m.enabled || m.mode == "" || m.mode == "none" {
		return 1
	}
	theta, phi := vmath.SphericalAngles(x, y, z)
	latDeg := 90 - theta*180/math.Pi
	soft := math.Max(1e-6, m.softDeg)

	var w float64
	switch m.mode {
	case "north_cap":
		edge := 90 - m.angleDeg
		w = vmath.Smoothstep(edge-soft, edge+soft, latDeg)
	case "south_cap":
		edge := m.angleDeg - 90
		w = 1 - vmath.Smoothstep(edge-soft, edge+soft, latDeg)
	case "equatorial_band":
		d := math.Abs(latDeg)
		w = 1 - vmath.Smoothstep(m.bandHalfDeg-soft, m.bandHalfDeg+soft, d)
	case "longitudinal_band":
		center := m.lonCenterDeg + nowMs*0.001*m.animateDegSec
		lonDeg := phi * 180 / math.Pi
		d := math.Abs(angleDiffDeg(lonDeg, center))
		half := m.lonWidthDeg / 2
		w = 1 - vmath.Smoothstep(half-soft, half+soft, d)
	default:
		return 1
	}
	if m.invert {
		w = 1 - w
	}
	return w
}

// maskParams is a snapshot of the mask config taken once per frame.
type maskParams struct {
	enabled                   bool
	mode                      string
	angleDeg, bandHalfDeg     float64
	lonCenterDeg, lonWidthDeg float64
	softDeg                   float64
	animateDegSec             float64
	invert                    bool
}

// angleDiffDeg wraps a-b into (-180, 180].
func angleDiffDeg(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// depthAlpha attenuates alpha with distance. ad=0 disables the effect,
// ad=1 makes far points fade fully.
func depthAlpha(depth, ad float64) float64 {
	if ad <= 0 {
		return 1
	}
	t := vmath.Clamp01(math.Atan(depth) / (math.Pi / 2))
	return (1 - ad) + ad*(1-t)
}

// dotRadius computes the rendered radius for one point, applying the
// pixel-size modulation mode on top of the base px setting.
func (e *Engine) dotRadius(p projected, total int, nowMs float64) float64 {
	ap := &e.cfg.Appearance
	px := ap.Px
	if px <= 0 {
		px = 2
	}
	var factor float64
	switch ap.PxModMode {
	case "by_index":
		if total > 1 {
			factor = float64(p.Index) / float64(total-1)
		}
	case "by_radius":
		r := math.Max(1e-6, e.cfg.Geometry.R)
		factor = vmath.Clamp01(math.Sqrt(p.X*p.X+p.Y*p.Y+p.Z*p.Z) / r)
	default:
		return math.Max(1, px)
	}
	tSec := nowMs * 0.001
	mod := 1 + ap.PxModAmp*math.Sin(2*math.Pi*ap.PxModFreq*tSec+vmath.Radians(ap.PxModPhaseDeg)+2*math.Pi*factor)
	return math.Max(1, px*mod)
}
