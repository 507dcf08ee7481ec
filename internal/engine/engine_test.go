package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abertin/stardrift/internal/config"
)

func newEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Geometry.Topology = "fibo_sphere"
	cfg.Geometry.N = 200
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg)
}

func TestAzimuthFrameRateIndependent(t *testing.T) {
	coarse := newEngine(t, nil)
	fine := newEngine(t, nil)

	// same wall-clock span stepped at 20 Hz vs 100 Hz
	for ms := 0.0; ms <= 2000; ms += 50 {
		coarse.advanceAzimuth(ms)
	}
	for ms := 0.0; ms <= 2000; ms += 10 {
		fine.advanceAzimuth(ms)
	}

	want := math.Mod(coarse.cfg.Camera.OmegaDegSec*2.0, 360)
	assert.InDelta(t, want, coarse.azimuthDeg, 1e-9)
	assert.InDelta(t, want, fine.azimuthDeg, 1e-9)
}

func TestAzimuthClampsStalledFrames(t *testing.T) {
	e := newEngine(t, nil)
	e.advanceAzimuth(0)
	e.advanceAzimuth(5000) // 5s stall counts as 100ms
	assert.InDelta(t, e.cfg.Camera.OmegaDegSec*0.1, e.azimuthDeg, 1e-9)
}

func TestProjectionNorthPole(t *testing.T) {
	e := newEngine(t, func(c *config.Config) {
		c.Camera.OmegaDegSec = 0
	})
	e.base = e.base[:1]
	e.base[0].X, e.base[0].Y, e.base[0].Z = 0, 1, 0

	pts := e.project(800, 600, 0)
	require.Len(t, pts, 1)
	assert.Less(t, pts[0].SY, 300.0, "a point on the top of the sphere should land above screen center")
	assert.InDelta(t, 400.0, pts[0].SX, 1e-6)
}

func TestPhaseOffsetSpinsAllAxesWithZeroRates(t *testing.T) {
	e := newEngine(t, func(c *config.Config) {
		c.Camera.OmegaDegSec = 0
		c.Camera.HeightDeg = 0
		c.Dynamics.RotPhaseMode = "by_index"
		c.Dynamics.RotPhaseDeg = 180
	})
	e.base = e.base[:2]
	e.base[0].X, e.base[0].Y, e.base[0].Z = 1, 0, 0
	e.base[1].X, e.base[1].Y, e.base[1].Z = 1, 0, 0

	pts := e.project(800, 600, 0)
	require.Len(t, pts, 2)

	// phase 0 leaves the point untouched
	assert.InDelta(t, 1.0, pts[0].X, 1e-9)

	// phase 1 rotates 180 degrees about Z (to -1), then X, then Y (back
	// to +1): the phase offset applies on every axis even at zero rates
	assert.InDelta(t, 1.0, pts[1].X, 1e-9)
	assert.InDelta(t, 0.0, pts[1].Y, 1e-9)
	assert.InDelta(t, 0.0, pts[1].Z, 1e-9)
}

func TestProjectCullsBehindCamera(t *testing.T) {
	e := newEngine(t, func(c *config.Config) {
		c.Camera.Radius = 0.5
		c.Camera.HeightDeg = 0
		c.Camera.OmegaDegSec = 0
	})
	e.base = e.base[:1]
	e.base[0].X, e.base[0].Y, e.base[0].Z = 0, 0, -1

	pts := e.project(800, 600, 0)
	assert.Empty(t, pts, "points behind the near plane must be dropped")
}

func TestDepthSortFarToNear(t *testing.T) {
	e := newEngine(t, nil)
	pts := e.project(800, 600, 0)
	require.NotEmpty(t, pts)
	for i := 1; i < len(pts); i++ {
		assert.GreaterOrEqual(t, pts[i-1].Depth, pts[i].Depth)
	}
}

func TestScreenMinDistanceThins(t *testing.T) {
	var pts []projected
	for i := 0; i < 50; i++ {
		pts = append(pts, projected{SX: float64(i), SY: 0})
	}
	out := screenMinDistance(pts, 10)
	require.NotEmpty(t, out)
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			dx := out[i].SX - out[j].SX
			dy := out[i].SY - out[j].SY
			assert.GreaterOrEqual(t, math.Hypot(dx, dy), 10.0)
		}
	}
}

func TestMaskNoneIsTransparentToWeight(t *testing.T) {
	m := maskParams{enabled: true, mode: "none"}
	assert.Equal(t, 1.0, maskWeight(&m, 0, 1, 0, 0))
	m.enabled = false
	m.mode = "north_cap"
	assert.Equal(t, 1.0, maskWeight(&m, 0, 1, 0, 0))
}

func TestMaskNorthCap(t *testing.T) {
	m := maskParams{enabled: true, mode: "north_cap", angleDeg: 30, softDeg: 1}
	assert.InDelta(t, 1.0, maskWeight(&m, 0, 1, 0, 0), 1e-9, "pole is inside a 30 degree cap")
	assert.InDelta(t, 0.0, maskWeight(&m, 0, -1, 0, 0), 1e-9, "south pole is outside")

	m.invert = true
	assert.InDelta(t, 0.0, maskWeight(&m, 0, 1, 0, 0), 1e-9)
}

func TestMaskEquatorialBand(t *testing.T) {
	m := maskParams{enabled: true, mode: "equatorial_band", bandHalfDeg: 20, softDeg: 1}
	assert.InDelta(t, 1.0, maskWeight(&m, 1, 0, 0, 0), 1e-9)
	assert.InDelta(t, 0.0, maskWeight(&m, 0, 1, 0, 0), 1e-9)
}

func TestPhaseFactorsInUnitRange(t *testing.T) {
	modes := []string{
		"none", "by_index", "by_radius", "by_longitude", "by_latitude",
		"checkerboard", "random", "noise", "golden_spiral", "cluster_wave",
	}
	e := newEngine(t, func(c *config.Config) { c.Distribution.ClusterCount = 4 })
	for _, mode := range modes {
		e.cfg.Dynamics.RotPhaseMode = mode
		for i, p := range e.base {
			f := phaseFactor(e.cfg, p, i, len(e.base), p.X, p.Y, p.Z)
			assert.GreaterOrEqual(t, f, 0.0, "mode %s", mode)
			assert.LessOrEqual(t, f, 1.0, "mode %s", mode)
		}
	}
}

func TestModifiersIdentityAtZero(t *testing.T) {
	e := newEngine(t, nil)
	p := e.base[0]
	x, y, z := applyModifiers(e.cfg, p, 1234)
	assert.Equal(t, p.X, x)
	assert.Equal(t, p.Y, y)
	assert.Equal(t, p.Z, z)
}

func TestDensityPulseScalesRadius(t *testing.T) {
	e := newEngine(t, func(c *config.Config) { c.Distribution.DensityPulse = 1 })
	p := e.base[0]
	r0 := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)

	// sin(2*pi*0.25) = 1 at t=250ms, so the scale peaks at 1.3
	x, y, z := applyModifiers(e.cfg, p, 250)
	r := math.Sqrt(x*x + y*y + z*z)
	assert.InDelta(t, r0*1.3, r, 1e-9)
}

func TestMergeAppearanceKeepsCloud(t *testing.T) {
	e := newEngine(t, nil)
	before := e.PointCount()
	gen := e.generation

	require.NoError(t, e.Merge([]byte(`{"appearance":{"color":"#FF0000"}}`)))
	assert.Equal(t, before, e.PointCount())
	assert.Equal(t, gen, e.generation)

	require.NoError(t, e.Merge([]byte(`{"geometry":{"N":50}}`)))
	assert.NotEqual(t, gen, e.generation)
}

func TestRebuildDeterministicForSeed(t *testing.T) {
	a := newEngine(t, nil)
	b := newEngine(t, nil)
	require.Equal(t, a.PointCount(), b.PointCount())
	for i := range a.base {
		assert.Equal(t, a.base[i], b.base[i])
	}
}

func TestFrameProducesDots(t *testing.T) {
	e := newEngine(t, nil)
	dots := e.Frame(800, 600, 16)
	assert.NotEmpty(t, dots)
	for _, d := range dots {
		assert.GreaterOrEqual(t, d.Radius, 1.0)
	}
}

func TestDepthAlphaMonotone(t *testing.T) {
	assert.Equal(t, 1.0, depthAlpha(10, 0))
	near := depthAlpha(0.5, 1)
	far := depthAlpha(5, 1)
	assert.Greater(t, near, far)
}

func TestParseBlendFallsBack(t *testing.T) {
	assert.Equal(t, parseBlend("source-over"), parseBlend("no-such-mode"))
	assert.NotEqual(t, parseBlend("lighter"), parseBlend(""))
}
