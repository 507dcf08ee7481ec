// Package sampler thins a raw base point set according to the distribution
// configuration: density-mode retention, blue-noise minimum-distance
// enforcement and weighted importance sampling. Everything here is
// deterministic for a given seed, so a rebuild with unchanged parameters
// reproduces the exact same subset.
package sampler

import (
	"log"
	"math"
	"math/rand"
	"strings"

	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/geometry"
	"github.com/abertin/stardrift/internal/mathexpr"
	"github.com/abertin/stardrift/internal/vmath"
)

// Options collects everything sampling needs from the configuration.
type Options struct {
	DensityMode string
	Strategy    string
	MinDist     float64
	WeightExpr  string
	R           float64
	Seed        int64
}

// FromConfig derives sampling options from the live record.
func FromConfig(c *config.Config) Options {
	return Options{
		DensityMode: c.Distribution.DensityMode,
		Strategy:    c.Distribution.Sampler,
		MinDist:     c.Distribution.DMin,
		WeightExpr:  c.Geometry.WeightMap,
		R:           c.Geometry.R,
		Seed:        c.System.Seed,
	}
}

// Apply runs the configured strategy over the base points. Unknown strategy
// names behave as direct with a warning.
func Apply(points []geometry.Point, opts Options) []geometry.Point {
	points = densityFilter(points, opts)
	switch opts.Strategy {
	case "", "direct":
		if opts.MinDist > 0 {
			points = EnforceMinDistance(points, opts.MinDist, opts.Seed)
		}
	case "blue_noise":
		points = EnforceMinDistance(points, opts.MinDist, opts.Seed)
	case "weighted":
		points = weightedRetain(points, opts)
		if opts.MinDist > 0 {
			points = EnforceMinDistance(points, opts.MinDist, opts.Seed)
		}
	default:
		log.Printf("unknown sampler %q, using direct", opts.Strategy)
		if opts.MinDist > 0 {
			points = EnforceMinDistance(points, opts.MinDist, opts.Seed)
		}
	}
	return points
}

// densityFilter keeps each point with a probability given by the density
// mode. The retention roll uses the point's stable seed, so the same cloud
// filtered twice keeps the same points.
func densityFilter(points []geometry.Point, opts Options) []geometry.Point {
	switch opts.DensityMode {
	case "", "uniform":
		return points
	}
	r := math.Max(1e-6, opts.R)
	out := make([]geometry.Point, 0, len(points))
	for _, p := range points {
		weight := 1.0
		rn := math.Sqrt(p.X*p.X+p.Y*p.Y+p.Z*p.Z) / r
		switch opts.DensityMode {
		case "centered":
			weight = math.Exp(-3 * rn * rn)
		case "edges":
			weight = vmath.Clamp01(math.Pow(rn, 0.75))
		case "noise_field":
			weight = vmath.Clamp01(vmath.ValueNoise3(p.X*1.6+11.1, p.Y*1.6+22.2, p.Z*1.6+33.3))
		}
		if weight >= 1 || vmath.RandForIndex(p.Seed+1, 0) <= weight {
			out = append(out, p)
		}
	}
	return out
}

// cell is a spatial-hash bucket coordinate at minDist granularity.
type cell struct{ x, y, z int }

// EnforceMinDistance keeps a maximal prefix-greedy subset in which every
// pair is at least minDist apart. Points are visited in a seeded shuffle
// order so the survivors carry no positional bias from generation order.
// If filtering would reject everything, the input is returned unchanged.
func EnforceMinDistance(points []geometry.Point, minDist float64, seed int64) []geometry.Point {
	if minDist <= 0 || len(points) == 0 {
		return points
	}
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	grid := make(map[cell][]geometry.Point)
	minSq := minDist * minDist
	keyOf := func(p geometry.Point) cell {
		return cell{
			x: int(math.Floor(p.X / minDist)),
			y: int(math.Floor(p.Y / minDist)),
			z: int(math.Floor(p.Z / minDist)),
		}
	}
	selected := make([]geometry.Point, 0, len(points))
	for _, idx := range order {
		p := points[idx]
		key := keyOf(p)
		keep := true
	neighbors:
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, other := range grid[cell{key.x + dx, key.y + dy, key.z + dz}] {
						ddx := p.X - other.X
						ddy := p.Y - other.Y
						ddz := p.Z - other.Z
						if ddx*ddx+ddy*ddy+ddz*ddz < minSq {
							keep = false
							break neighbors
						}
					}
				}
			}
		}
		if !keep {
			continue
		}
		selected = append(selected, p)
		grid[key] = append(grid[key], p)
	}
	if len(selected) == 0 {
		return points
	}
	return selected
}

// weightedRetain keeps each point with probability proportional to its
// weight, normalized by the observed maximum. The weight comes from the
// user expression when one parses, otherwise from a centered radial
// falloff.
func weightedRetain(points []geometry.Point, opts Options) []geometry.Point {
	if len(points) == 0 {
		return points
	}
	var prog *mathexpr.Program
	if strings.TrimSpace(opts.WeightExpr) != "" {
		var err error
		prog, err = mathexpr.Compile(opts.WeightExpr)
		if err != nil {
			log.Printf("weight expression %q: %v", opts.WeightExpr, err)
			prog = nil
		}
	}
	r := math.Max(1e-6, opts.R)
	weights := make([]float64, len(points))
	maxW := 0.0
	for i, p := range points {
		rad := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		w := 0.0
		if prog != nil {
			theta, phi := vmath.SphericalAngles(p.X, p.Y, p.Z)
			w = prog.EvalOrZero(map[string]float64{
				"x": p.X, "y": p.Y, "z": p.Z,
				"r": rad, "theta": theta, "phi": phi,
			})
		} else {
			rn := rad / r
			w = math.Exp(-1.5 * rn * rn)
		}
		w = math.Max(0, w)
		weights[i] = w
		maxW = math.Max(maxW, w)
	}
	if maxW <= 0 {
		return points
	}
	out := make([]geometry.Point, 0, len(points))
	for i, p := range points {
		if vmath.RandForIndex(p.Seed, 31) <= weights[i]/maxW {
			out = append(out, p)
		}
	}
	return out
}
