package engine

import (
	"math"

	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/geometry"
	"github.com/abertin/stardrift/internal/vmath"
)

// applyModifiers runs the per-frame spatial perturbations over one base
// point. The order is fixed: cluster pull, static distortion, animated warp,
// field flow, repulsion, pulse scale, orientation. Every stage is the
// identity when its magnitude is zero, so an all-zero distribution section
// leaves the base cloud untouched.
func applyModifiers(cfg *config.Config, base geometry.Point, nowMs float64) (x, y, z float64) {
	dist := &cfg.Distribution
	dyn := &cfg.Dynamics
	r := cfg.Geometry.R
	if r == 0 {
		r = 1
	}
	x, y, z = base.X, base.Y, base.Z

	if dist.ClusterCount > 1 && dist.ClusterSpread != 0 {
		cx, cy, cz := clusterCenter(base.Seed, dist.ClusterCount, r)
		t := vmath.Clamp01(dist.ClusterSpread)
		x += (cx - x) * t
		y += (cy - y) * t
		z += (cz - z) * t
	}

	if dist.NoiseDistortion != 0 {
		x, y, z = noiseDisplace(x, y, z, base, dist.NoiseDistortion*r*0.4, 0)
	}
	if dist.NoiseWarp != 0 {
		x, y, z = noiseDisplace(x, y, z, base, dist.NoiseWarp*r*0.4, nowMs*0.0006)
	}

	if flow := dist.FieldFlow; flow != 0 {
		angle := flow*0.4*nowMs*0.001 + flow*0.3*(y/math.Max(1e-6, r))
		sinA, cosA := math.Sincos(angle)
		x, z = cosA*x-sinA*z, sinA*x+cosA*z
	}

	if repel := dist.RepelForce; repel != 0 {
		rad := math.Sqrt(x*x + y*y + z*z)
		if rad == 0 {
			rad = 1
		}
		k := repel * 0.6 * (r - rad)
		x += k * (x / rad)
		y += k * (y / rad)
		z += k * (z / rad)
	}

	if pulse := dist.DensityPulse; pulse != 0 {
		scale := 1 + 0.3*pulse*math.Sin(nowMs*0.001*2*math.Pi)
		x *= scale
		y *= scale
		z *= scale
	}

	if dyn.OrientXDeg != 0 {
		sinX, cosX := math.Sincos(vmath.Radians(dyn.OrientXDeg))
		y, z = cosX*y-sinX*z, sinX*y+cosX*z
	}
	if dyn.OrientYDeg != 0 {
		sinY, cosY := math.Sincos(vmath.Radians(dyn.OrientYDeg))
		x, z = cosY*x+sinY*z, -sinY*x+cosY*z
	}
	if dyn.OrientZDeg != 0 {
		sinZ, cosZ := math.Sincos(vmath.Radians(dyn.OrientZDeg))
		x, y = cosZ*x-sinZ*y, sinZ*x+cosZ*y
	}

	return x, y, z
}

// clusterCenter places cluster k of n on the golden-angle spiral over the
// sphere of radius r. A point always belongs to the same cluster through
// its stable seed.
func clusterCenter(seed, n int, r float64) (x, y, z float64) {
	k := seed % n
	if k < 0 {
		k += n
	}
	zUnit := 1 - 2*(float64(k)+0.5)/float64(n)
	ring := math.Sqrt(math.Max(0, 1-zUnit*zUnit))
	phi := float64(k) * vmath.GoldenAngle
	return r * ring * math.Cos(phi), r * zUnit, r * ring * math.Sin(phi)
}

// noiseDisplace adds a value-noise offset per axis; anim phase-shifts the
// sample coordinates over time, zero anim yields the static distortion.
func noiseDisplace(x, y, z float64, base geometry.Point, amp, anim float64) (float64, float64, float64) {
	const freq = 1.3
	x += amp * (vmath.ValueNoise3((base.X+anim)*freq, (base.Y-anim)*freq, (base.Z+2+anim)*freq)*2 - 1)
	y += amp * (vmath.ValueNoise3((base.X-anim)*freq, (base.Y+anim)*freq, (base.Z-anim)*freq)*2 - 1)
	z += amp * (vmath.ValueNoise3((base.X+anim*0.5)*freq, (base.Y+2*anim)*freq, (base.Z-anim*0.25)*freq)*2 - 1)
	return x, y, z
}

// phaseFactor maps a point to its [0,1] phase according to the configured
// phase-assignment mode. Unknown modes behave as "none".
func phaseFactor(cfg *config.Config, p geometry.Point, idx, total int, x, y, z float64) float64 {
	r := math.Max(1e-6, cfg.Geometry.R)
	switch cfg.Dynamics.RotPhaseMode {
	case "by_index":
		if total <= 1 {
			return 0
		}
		return float64(idx) / float64(total-1)
	case "by_radius":
		return vmath.Clamp01(math.Hypot(x, z) / r)
	case "by_longitude":
		_, phi := vmath.SphericalAngles(x, y, z)
		return phi / (2 * math.Pi)
	case "by_latitude":
		theta, _ := vmath.SphericalAngles(x, y, z)
		return theta / math.Pi
	case "checkerboard":
		sum := int(math.Floor(x*2)) + int(math.Floor(y*2)) + int(math.Floor(z*2))
		if ((sum%2)+2)%2 == 1 {
			return 0.5
		}
		return 0
	case "random":
		return vmath.RandForIndex(idx, 77)
	case "noise":
		return vmath.Clamp01(vmath.ValueNoise3(x*1.7, y*1.7, z*1.7))
	case "golden_spiral":
		v := float64(p.Seed) * vmath.Phi
		return v - math.Floor(v)
	case "cluster_wave":
		n := max(1, cfg.Distribution.ClusterCount)
		k := p.Seed % n
		if k < 0 {
			k += n
		}
		if n == 1 {
			return 0
		}
		return float64(k) / float64(n-1)
	}
	return 0
}
