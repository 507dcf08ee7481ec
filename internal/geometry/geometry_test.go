package geometry

import (
	"bytes"
	"log"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abertin/stardrift/internal/config"
)

func geo(mutate func(*config.Geometry)) *config.Geometry {
	g := config.Default().Geometry
	if mutate != nil {
		mutate(&g)
	}
	return &g
}

func newRng() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func pointRadius(p Point) float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

func TestUVSphereLatticeCount(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "uv_sphere"
		g.Lat = 4
		g.Lon = 4
	})
	pts := Generate(g, 0, newRng())
	require.Len(t, pts, 16)

	// first row is the north pole repeated per longitude column
	assert.InDelta(t, g.R, pts[0].Y, 1e-12)
	// all samples sit on the sphere
	for _, p := range pts {
		assert.InDelta(t, g.R, pointRadius(p), 1e-9)
	}
}

func TestFiboSphereOnShell(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "fibo_sphere"
		g.N = 256
		g.R = 1.5
	})
	pts := Generate(g, 0, newRng())
	require.Len(t, pts, 256)
	for _, p := range pts {
		assert.InDelta(t, 1.5, pointRadius(p), 1e-9)
	}
}

func TestUnknownTopologyFallsBack(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "definitely_not_a_shape"
		g.Lat = 4
		g.Lon = 4
	})
	pts := Generate(g, 0, newRng())
	want := Generate(geo(func(g *config.Geometry) {
		g.Topology = "uv_sphere"
		g.Lat = 4
		g.Lon = 4
	}), 0, newRng())
	assert.Equal(t, want, pts)
}

func TestCapClampsPointCount(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "fibo_sphere"
		g.N = 10000
	})
	pts := Generate(g, 100, newRng())
	assert.Len(t, pts, 100)
}

func TestTorusSurfaceEquation(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "torus"
		g.Lat = 16
		g.Lon = 16
	})
	pts := Generate(g, 0, newRng())
	require.Len(t, pts, 256)
	for _, p := range pts {
		q := math.Sqrt(p.X*p.X+p.Z*p.Z) - g.R*g.RMajor
		tube := math.Sqrt(q*q + p.Y*p.Y)
		assert.InDelta(t, g.R*g.RMinor, tube, 1e-9)
	}
}

func TestPoissonDiskMinDistance(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "poisson_disk"
		g.N = 200
		g.PoissonDMin = 0.08
	})
	pts := Generate(g, 0, newRng())
	require.NotEmpty(t, pts)
	minDist := g.PoissonDMin * g.R
	for i, a := range pts {
		for _, b := range pts[i+1:] {
			dx := a.X - b.X
			dz := a.Z - b.Z
			assert.GreaterOrEqual(t, math.Sqrt(dx*dx+dz*dz), minDist-1e-12)
		}
	}
}

func TestGeodesicSphereVertexCounts(t *testing.T) {
	// the icosahedron has 12 vertices; each subdivision level yields
	// 10*4^n + 2
	for level, want := range map[int]int{0: 12, 1: 42, 2: 162} {
		g := geo(func(g *config.Geometry) {
			g.Topology = "geodesic_sphere"
			g.GeoLevel = level
		})
		pts := Generate(g, 0, newRng())
		assert.Len(t, pts, want, "level %d", level)
	}
}

func TestPolyhedronVertexCounts(t *testing.T) {
	for name, want := range map[string]int{
		"tetrahedron":  4,
		"cube":         8,
		"octahedron":   6,
		"icosahedron":  12,
		"dodecahedron": 20,
	} {
		g := geo(func(g *config.Geometry) {
			g.Topology = name
			g.PolyLayers = 1
			g.PolyLinkSteps = 0
		})
		pts := Generate(g, 0, newRng())
		assert.Len(t, pts, want, name)
	}
}

func TestPolyhedronLinkStepsAddEdgePoints(t *testing.T) {
	base := Generate(geo(func(g *config.Geometry) {
		g.Topology = "tetrahedron"
	}), 0, newRng())
	linked := Generate(geo(func(g *config.Geometry) {
		g.Topology = "tetrahedron"
		g.PolyLinkSteps = 2
	}), 0, newRng())
	// 6 edges with 2 interior samples each
	assert.Len(t, linked, len(base)+12)
}

func TestImplicitSamplingDeterministic(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "gyroid"
		g.N = 500
	})
	a := Generate(g, 0, rand.New(rand.NewSource(7)))
	b := Generate(g, 0, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestMetaballsNearIsoShell(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "metaballs"
		g.N = 300
	})
	pts := Generate(g, 0, newRng())
	require.NotEmpty(t, pts)
	for _, p := range pts {
		dist2 := p.X*p.X + p.Y*p.Y + p.Z*p.Z + 1e-6
		field := 0.6 * 0.6 / dist2
		assert.InDelta(t, g.MetaballsIso, field, g.MetaballsIso*0.15+1e-9)
	}
}

func TestDistanceFieldSphereShell(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "distance_field_shape"
		g.DfOps = "sphere(0.8)"
		g.N = 200
	})
	pts := Generate(g, 0, newRng())
	require.NotEmpty(t, pts)
	for _, p := range pts {
		assert.InDelta(t, 0.8, pointRadius(p), g.R*0.05+1e-9)
	}
}

func TestWeightedSphereFloor(t *testing.T) {
	g := geo(func(g *config.Geometry) {
		g.Topology = "weighted_sphere"
		g.WeightMap = "0 - 5" // always negative, floored to the minimum shell
		g.N = 64
	})
	pts := Generate(g, 0, newRng())
	require.Len(t, pts, 64)
	for _, p := range pts {
		assert.InDelta(t, 0.05*g.R, pointRadius(p), 1e-9)
	}
}

func TestBrokenExpressionsWarn(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	g := geo(func(g *config.Geometry) {
		g.Topology = "density_warp"
		g.DensityPDF = "r*("
		g.N = 32
	})
	pts := Generate(g, 0, newRng())
	assert.Len(t, pts, 32) // falls back to the uniform disk
	assert.Contains(t, buf.String(), "density expression")

	buf.Reset()
	g = geo(func(g *config.Geometry) {
		g.Topology = "distance_field_shape"
		g.DfOps = "sphere("
		g.N = 32
	})
	pts = Generate(g, 0, newRng())
	assert.Empty(t, pts)
	assert.Contains(t, buf.String(), "distance field")

	buf.Reset()
	g = geo(func(g *config.Geometry) {
		g.Topology = "weighted_sphere"
		g.WeightMap = "theta*("
		g.N = 32
	})
	pts = Generate(g, 0, newRng())
	require.Len(t, pts, 32)
	for _, p := range pts {
		assert.InDelta(t, g.R, pointRadius(p), 1e-9)
	}
	assert.Contains(t, buf.String(), "weight expression")
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, -3}, parseNumberList("1, 2.5; -3 junk"))

	vecs := parseVectorList("1,2,3; 4 5")
	require.Len(t, vecs, 2)
	assert.Equal(t, vec3{X: 1, Y: 2, Z: 3}, vecs[0])
	assert.Equal(t, vec3{X: 4, Y: 5, Z: 0}, vecs[1])

	xmin, xmax, zmin, zmax := parseBBox("garbage")
	assert.Equal(t, []float64{-1, 1, -1, 1}, []float64{xmin, xmax, zmin, zmax})

	terms := parseSphericalTerms("2,0,0.4;3,2,0.2;bad")
	require.Len(t, terms, 2)
	assert.Equal(t, sphericalTerm{L: 2, M: 0, Amp: 0.4}, terms[0])

	verts, faces := parsePolyhedronJSON(`{"vertices":[[0,0,1],[1,0,0],[0,1,0]],"faces":[[0,1,2]]}`)
	assert.Len(t, verts, 3)
	assert.Len(t, faces, 1)
}
