package geometry

import (
	"log"
	"math/rand"
	"sort"

	"github.com/abertin/stardrift/internal/config"
)

// genEnv carries the per-build random source shared by stochastic
// generators.
type genEnv struct {
	rng *rand.Rand
}

type genFunc func(g *config.Geometry, cap int, env *genEnv) []Point

// generators maps every recognized topology name to its builder. A few
// historical aliases map to the same builder.
var generators = map[string]genFunc{
	"uv_sphere":           genUVSphere,
	"fibo_sphere":         genFiboSphere,
	"vogel_sphere_spiral": genVogelSphereSpiral,
	"superquadric":        genSuperquadric,
	"superellipsoid":      genSuperellipsoid,
	"half_sphere":         genHalfSphere,
	"noisy_sphere":        genNoisySphere,
	"spherical_harmonics": genSphericalHarmonics,
	"weighted_sphere":     genWeightedSphere,

	"disk_phyllo":       genDiskPhyllo,
	"disk_phyllotaxis":  genDiskPhyllo,
	"archimede_spiral":  genArchimedeSpiral,
	"log_spiral":        genLogSpiral,
	"rose_curve":        genRoseCurve,
	"superformula_2d":   genSuperformula2D,
	"superformula_2D":   genSuperformula2D,
	"density_warp":      genDensityWarp,
	"density_warp_disk": genDensityWarp,
	"poisson_disk":      genPoissonDisk,
	"lissajous_disk":    genLissajousDisk,

	"torus":         genTorus,
	"double_torus":  genDoubleTorus,
	"horn_torus":    genHornTorus,
	"spindle_torus": genSpindleTorus,
	"torus_knot":    genTorusKnot,
	"strip_twist":   genStripTwist,
	"klein_bottle":  genKleinBottle,
	"mobius":        genMobius,

	"concentric_rings":  genConcentricRings,
	"hex_packing_plane": genHexPacking,
	"voronoi_seeds":     genVoronoiSeeds,
	"helix":             genHelix,
	"viviani_curve":     genViviani,
	"lissajous3d":       genLissajous3D,
	"lissajous3D":       genLissajous3D,

	"line_integral_convolution_sphere": genLICSphere,
	"stream_on_torus":                  genStreamOnTorus,
	"random_geometric_graph":           genRandomGeometricGraph,

	"geodesic_sphere": genGeodesicSphere,
	"geodesic":        genGeodesic,
	"geodesic_graph":  genGeodesicGraph,

	"tetrahedron":     genNamedPolyhedron("tetrahedron"),
	"cube":            genNamedPolyhedron("cube"),
	"octahedron":      genNamedPolyhedron("octahedron"),
	"dodecahedron":    genNamedPolyhedron("dodecahedron"),
	"icosahedron":     genNamedPolyhedron("icosahedron"),
	"polyhedron":      genCustomPolyhedron,
	"truncated_icosa": genTruncatedIcosa,
	"stellated_icosa": genStellatedIcosa,

	"blob":                 genBlob,
	"gyroid":               genGyroid,
	"schwarz_P":            genSchwarzP,
	"schwarz_D":            genSchwarzD,
	"heart_implicit":       genHeart,
	"metaballs":            genMetaballs,
	"distance_field_shape": genDistanceFieldShape,
	"superformula_3D":      genSuperformula3D,
}

// Known reports whether name maps to a builder.
func Known(name string) bool {
	_, ok := generators[name]
	return ok
}

// Names returns the sorted list of recognized topology names, aliases
// included.
func Names() []string {
	out := make([]string, 0, len(generators))
	for name := range generators {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Generate builds the base point set for the configured topology, capped at
// cap points. Unknown topology names fall back to the uv sphere with a
// warning; the valid remainder of the record still renders.
func Generate(g *config.Geometry, cap int, rng *rand.Rand) []Point {
	gen, ok := generators[g.Topology]
	if !ok {
		log.Printf("unknown topology %q, falling back to uv_sphere", g.Topology)
		return GenUVSphere(g, cap)
	}
	return gen(g, cap, &genEnv{rng: rng})
}
