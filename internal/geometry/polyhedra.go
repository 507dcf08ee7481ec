package geometry

import (
	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/vmath"
)

type polyhedron struct {
	vertices []vec3
	faces    [][]int
}

var polyhedra = map[string]polyhedron{
	"tetrahedron": {
		vertices: []vec3{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		faces: [][]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}},
	},
	"cube": {
		vertices: []vec3{
			{X: -1, Y: -1, Z: -1},
			{X: 1, Y: -1, Z: -1},
			{X: 1, Y: 1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
			{X: 1, Y: -1, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: -1, Y: 1, Z: 1},
		},
		faces: [][]int{
			{0, 1, 2, 3},
			{4, 5, 6, 7},
			{0, 1, 5, 4},
			{2, 3, 7, 6},
			{1, 2, 6, 5},
			{3, 0, 4, 7},
		},
	},
	"octahedron": {
		vertices: []vec3{
			{X: 1, Y: 0, Z: 0},
			{X: -1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: -1, Z: 0},
			{X: 0, Y: 0, Z: 1},
			{X: 0, Y: 0, Z: -1},
		},
		faces: [][]int{
			{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
			{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
		},
	},
	"icosahedron": {
		vertices: []vec3{
			{X: -1, Y: vmath.Phi, Z: 0},
			{X: 1, Y: vmath.Phi, Z: 0},
			{X: -1, Y: -vmath.Phi, Z: 0},
			{X: 1, Y: -vmath.Phi, Z: 0},
			{X: 0, Y: -1, Z: vmath.Phi},
			{X: 0, Y: 1, Z: vmath.Phi},
			{X: 0, Y: -1, Z: -vmath.Phi},
			{X: 0, Y: 1, Z: -vmath.Phi},
			{X: vmath.Phi, Y: 0, Z: -1},
			{X: vmath.Phi, Y: 0, Z: 1},
			{X: -vmath.Phi, Y: 0, Z: -1},
			{X: -vmath.Phi, Y: 0, Z: 1},
		},
		faces: [][]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	},
	"dodecahedron": {
		vertices: []vec3{
			{X: -1, Y: -1, Z: -1},
			{X: -1, Y: -1, Z: 1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: 1, Y: -1, Z: 1},
			{X: 1, Y: 1, Z: -1},
			{X: 1, Y: 1, Z: 1},
			{X: 0, Y: -1 / vmath.Phi, Z: -vmath.Phi},
			{X: 0, Y: -1 / vmath.Phi, Z: vmath.Phi},
			{X: 0, Y: 1 / vmath.Phi, Z: -vmath.Phi},
			{X: 0, Y: 1 / vmath.Phi, Z: vmath.Phi},
			{X: -1 / vmath.Phi, Y: -vmath.Phi, Z: 0},
			{X: -1 / vmath.Phi, Y: vmath.Phi, Z: 0},
			{X: 1 / vmath.Phi, Y: -vmath.Phi, Z: 0},
			{X: 1 / vmath.Phi, Y: vmath.Phi, Z: 0},
			{X: -vmath.Phi, Y: 0, Z: -1 / vmath.Phi},
			{X: vmath.Phi, Y: 0, Z: -1 / vmath.Phi},
			{X: -vmath.Phi, Y: 0, Z: 1 / vmath.Phi},
			{X: vmath.Phi, Y: 0, Z: 1 / vmath.Phi},
		},
		faces: [][]int{
			{0, 8, 10, 2, 16},
			{0, 12, 14, 4, 8},
			{0, 16, 18, 1, 12},
			{1, 9, 11, 3, 13},
			{1, 18, 19, 5, 9},
			{2, 10, 6, 17, 16},
			{2, 3, 11, 7, 6},
			{3, 13, 15, 7, 11},
			{4, 14, 15, 7, 6},
			{4, 5, 19, 17, 8},
			{5, 9, 11, 7, 15},
			{6, 7, 15, 14, 10},
		},
	},
}

type edge struct{ a, b int }

func sortedEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// polyhedronPoints expands base vertices into a point cloud: optional inner
// layers scale the solid toward the origin, and link steps sample each edge
// at evenly spaced interior points. Duplicates are removed the same way as
// in uniquePoints but without sphere projection.
func polyhedronPoints(base []vec3, faces [][]int, radius float64, layers, linkSteps, cap int) []Point {
	if len(base) == 0 {
		return nil
	}
	vectors := make([]vec3, 0, len(base)*max(1, layers))
	vectors = append(vectors, base...)
	if layers > 1 {
		for layer := 1; layer < layers; layer++ {
			s := float64(layer) / float64(layers)
			for _, v := range base {
				vectors = append(vectors, v.Multiply(s))
			}
		}
	}
	if linkSteps > 0 && len(faces) > 0 {
		seen := make(map[edge]struct{})
		var edges []edge
		for _, face := range faces {
			if len(face) < 2 {
				continue
			}
			for i := range face {
				e := sortedEdge(face[i], face[(i+1)%len(face)])
				if _, dup := seen[e]; dup {
					continue
				}
				seen[e] = struct{}{}
				edges = append(edges, e)
			}
		}
		for _, e := range edges {
			if e.a >= len(base) || e.b >= len(base) {
				continue
			}
			for step := 1; step <= linkSteps; step++ {
				t := float64(step) / float64(linkSteps+1)
				vectors = append(vectors, vmath.Mix(base[e.a], base[e.b], t))
			}
		}
	}
	out := make([]Point, 0, len(vectors))
	seen := make(map[[3]float64]struct{}, len(vectors))
	for idx, v := range vectors {
		sx, sy, sz := radius*v.X, radius*v.Y, radius*v.Z
		key := [3]float64{roundKey(sx), roundKey(sy), roundKey(sz)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Point{X: sx, Y: sy, Z: sz, Seed: idx})
		if cap > 0 && len(out) >= cap {
			break
		}
	}
	return out
}

func genNamedPolyhedron(name string) genFunc {
	return func(g *config.Geometry, cap int, env *genEnv) []Point {
		p := polyhedra[name]
		return polyhedronPoints(p.vertices, p.faces, g.R, max(1, g.PolyLayers), max(0, g.PolyLinkSteps), cap)
	}
}

func genCustomPolyhedron(g *config.Geometry, cap int, env *genEnv) []Point {
	vertices, faces := parsePolyhedronJSON(g.PolyhedronData)
	if len(vertices) == 0 {
		p := polyhedra["cube"]
		vertices, faces = p.vertices, p.faces
	}
	return polyhedronPoints(vertices, faces, g.R, max(1, g.PolyLayers), max(0, g.PolyLinkSteps), cap)
}

// genTruncatedIcosa pulls each icosahedron face corner toward the face
// centroid by the truncation ratio, which carves the familiar football
// vertex ring.
func genTruncatedIcosa(g *config.Geometry, cap int, env *genEnv) []Point {
	ratio := vmath.Clamp(g.TruncRatio, 0.05, 0.45)
	base := polyhedra["icosahedron"]
	var vectors []vec3
	for _, face := range base.faces {
		a, b, c := base.vertices[face[0]], base.vertices[face[1]], base.vertices[face[2]]
		centroid := a.Add(b).Add(c).Multiply(1.0 / 3.0)
		for _, idx := range face[:3] {
			vectors = append(vectors, vmath.Mix(base.vertices[idx], centroid, ratio))
		}
	}
	return polyhedronPoints(vectors, nil, g.R, max(1, g.PolyLayers), max(0, g.PolyLinkSteps), cap)
}

// genStellatedIcosa appends one spike vertex above each face centroid.
func genStellatedIcosa(g *config.Geometry, cap int, env *genEnv) []Point {
	scale := g.StellatedScale
	if scale == 0 {
		scale = 1.4
	}
	base := polyhedra["icosahedron"]
	vectors := make([]vec3, 0, len(base.vertices)+len(base.faces))
	vectors = append(vectors, base.vertices...)
	for _, face := range base.faces {
		a, b, c := base.vertices[face[0]], base.vertices[face[1]], base.vertices[face[2]]
		center := a.Add(b).Add(c).Normalize()
		vectors = append(vectors, center.Multiply(scale))
	}
	return polyhedronPoints(vectors, nil, g.R, max(1, g.PolyLayers), max(0, g.PolyLinkSteps), cap)
}
