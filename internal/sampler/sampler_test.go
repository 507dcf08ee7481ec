package sampler

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/geometry"
)

func spherePoints(t *testing.T, n int) []geometry.Point {
	t.Helper()
	g := config.Default().Geometry
	g.Topology = "fibo_sphere"
	g.N = n
	return geometry.Generate(&g, 0, rand.New(rand.NewSource(1)))
}

func TestDirectPassThrough(t *testing.T) {
	pts := spherePoints(t, 300)
	out := Apply(pts, Options{Strategy: "direct", DensityMode: "uniform", R: 1})
	assert.Equal(t, pts, out)
}

func TestMinDistanceProperty(t *testing.T) {
	pts := spherePoints(t, 500)
	const dmin = 0.2
	out := EnforceMinDistance(pts, dmin, 1)
	require.NotEmpty(t, out)
	require.Less(t, len(out), len(pts))
	for i, a := range out {
		for _, b := range out[i+1:] {
			dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			assert.GreaterOrEqual(t, d, dmin-1e-12)
		}
	}
}

func TestMinDistanceKeepsInputWhenDisabled(t *testing.T) {
	pts := spherePoints(t, 100)
	assert.Equal(t, pts, EnforceMinDistance(pts, 0, 1))
}

func TestBlueNoiseDeterministic(t *testing.T) {
	pts := spherePoints(t, 400)
	opts := Options{Strategy: "blue_noise", MinDist: 0.15, R: 1, Seed: 9}
	a := Apply(pts, opts)
	b := Apply(pts, opts)
	assert.Equal(t, a, b)
}

func TestCenteredDensityPrefersCore(t *testing.T) {
	// points on the unit shell all share r/R == 1, so build a mixed cloud
	pts := make([]geometry.Point, 0, 200)
	for i := range 100 {
		pts = append(pts, geometry.Point{Seed: i})                         // at center, weight 1
		pts = append(pts, geometry.Point{X: 1.0, Seed: 100 + i, Y: 0.001}) // on shell
	}
	out := Apply(pts, Options{Strategy: "direct", DensityMode: "centered", R: 1})
	core, shell := 0, 0
	for _, p := range out {
		if p.X < 0.5 {
			core++
		} else {
			shell++
		}
	}
	assert.Equal(t, 100, core, "core points survive a near-unity weight")
	assert.Less(t, shell, 20, "shell points mostly rejected under exp(-3)")
}

func TestWeightedSamplingDeterministic(t *testing.T) {
	pts := spherePoints(t, 400)
	opts := Options{Strategy: "weighted", WeightExpr: "1 - r/2", R: 1, Seed: 3}
	a := Apply(pts, opts)
	b := Apply(pts, opts)
	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestWeightedMalformedExpressionFallsBack(t *testing.T) {
	pts := spherePoints(t, 200)
	out := Apply(pts, Options{Strategy: "weighted", WeightExpr: "r*(", R: 1})
	// falls back to the radial default instead of dropping everything
	assert.NotEmpty(t, out)
}

func TestUnknownStrategyActsDirect(t *testing.T) {
	pts := spherePoints(t, 100)
	out := Apply(pts, Options{Strategy: "wat", R: 1})
	assert.Equal(t, pts, out)
}

func TestFromConfig(t *testing.T) {
	c := config.Default()
	c.Distribution.Sampler = "blue_noise"
	c.Distribution.DMin = 0.1
	c.System.Seed = 5
	opts := FromConfig(&c)
	assert.Equal(t, "blue_noise", opts.Strategy)
	assert.Equal(t, 0.1, opts.MinDist)
	assert.Equal(t, int64(5), opts.Seed)
	assert.Equal(t, c.Geometry.R, opts.R)
}
