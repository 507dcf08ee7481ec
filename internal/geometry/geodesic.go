package geometry

import (
	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/vmath"
)

// subdivideGeodesic splits every icosahedron triangle into four per level,
// projecting midpoints back onto the unit sphere. Midpoints are cached per
// pass so shared edges are split once.
func subdivideGeodesic(level int) (verts []vec3, tris [][3]int) {
	base := polyhedra["icosahedron"]
	verts = make([]vec3, len(base.vertices))
	for i, v := range base.vertices {
		verts[i] = v.Normalize()
	}
	tris = make([][3]int, len(base.faces))
	for i, f := range base.faces {
		tris[i] = [3]int{f[0], f[1], f[2]}
	}

	for range max(0, level) {
		cache := make(map[edge]int)
		midpoint := func(a, b int) int {
			key := sortedEdge(a, b)
			if idx, ok := cache[key]; ok {
				return idx
			}
			mid := vmath.Mix(verts[a], verts[b], 0.5).Normalize()
			verts = append(verts, mid)
			cache[key] = len(verts) - 1
			return len(verts) - 1
		}
		next := make([][3]int, 0, len(tris)*4)
		for _, t := range tris {
			a, b, c := t[0], t[1], t[2]
			ab := midpoint(a, b)
			bc := midpoint(b, c)
			ca := midpoint(c, a)
			next = append(next,
				[3]int{a, ab, ca},
				[3]int{b, bc, ab},
				[3]int{c, ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		tris = next
	}
	return verts, tris
}

func genGeodesicSphere(g *config.Geometry, cap int, env *genEnv) []Point {
	verts, _ := subdivideGeodesic(max(0, g.GeoLevel))
	return uniquePoints(verts, g.R, cap)
}

// genGeodesic adds each triangle's edge midpoints on top of the subdivided
// vertex set.
func genGeodesic(g *config.Geometry, cap int, env *genEnv) []Point {
	verts, tris := subdivideGeodesic(max(0, g.GeoLevel))
	vectors := make([]vec3, len(verts), len(verts)+len(tris)*3)
	copy(vectors, verts)
	for _, t := range tris {
		va, vb, vc := verts[t[0]], verts[t[1]], verts[t[2]]
		vectors = append(vectors, vmath.Mix(va, vb, 0.5), vmath.Mix(vb, vc, 0.5), vmath.Mix(vc, va, 0.5))
	}
	return uniquePoints(vectors, g.R, cap)
}

// genGeodesicGraph emits the wireframe: both endpoints plus the midpoint of
// every unique edge.
func genGeodesicGraph(g *config.Geometry, cap int, env *genEnv) []Point {
	verts, tris := subdivideGeodesic(max(0, g.GeoGraphLevel))
	seen := make(map[edge]struct{})
	var edges []edge
	for _, t := range tris {
		for i := range 3 {
			e := sortedEdge(t[i], t[(i+1)%3])
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	vectors := make([]vec3, 0, len(edges)*3)
	for _, e := range edges {
		va, vb := verts[e.a], verts[e.b]
		vectors = append(vectors, va, vb, vmath.Mix(va, vb, 0.5))
	}
	return uniquePoints(vectors, g.R, cap)
}
