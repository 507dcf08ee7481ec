// Package geometry produces base point sets for every built-in topology.
// Generators are pure given a geometry record, a point cap and a random
// source; the same seed always yields the same cloud.
package geometry

import (
	"math"

	"github.com/abertin/stardrift/internal/vmath"
)

// Point is a generated sample together with the index it was produced at.
// The index feeds the per-point deterministic randomness downstream.
type Point struct {
	X, Y, Z float64
	Seed    int
}

func clampCount(n, cap int) int {
	if cap > 0 && n > cap {
		return cap
	}
	return n
}

type vec3 = vmath.Vec3

// uniquePoints projects vectors onto the sphere of the given radius and drops
// duplicates, comparing coordinates rounded to 1e-6.
func uniquePoints(vectors []vec3, radius float64, cap int) []Point {
	out := make([]Point, 0, len(vectors))
	seen := make(map[[3]float64]struct{}, len(vectors))
	for idx, v := range vectors {
		l := v.Length()
		if l == 0 {
			l = 1
		}
		sx := radius * v.X / l
		sy := radius * v.Y / l
		sz := radius * v.Z / l
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

func roundKey(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
