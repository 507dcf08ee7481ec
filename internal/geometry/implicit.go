package geometry

import (
	"log"
	"math"
	"math/rand"
	"strings"

	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/mathexpr"
	"github.com/abertin/stardrift/internal/vmath"
)

// sampleImplicit rejection-samples the level set f(p) = iso inside the
// [-radius, radius] cube, accepting points whose field value sits within the
// shell thickness. The attempt budget keeps degenerate fields from spinning
// forever; an under-filled result is returned as-is.
func sampleImplicit(count int, radius float64, f func(x, y, z float64) float64, iso, thickness float64, rng *rand.Rand) []Point {
	out := make([]Point, 0, count)
	maxAttempts := max(1000, count*60)
	for attempts := 0; len(out) < count && attempts < maxAttempts; attempts++ {
		x := (rng.Float64()*2 - 1) * radius
		y := (rng.Float64()*2 - 1) * radius
		z := (rng.Float64()*2 - 1) * radius
		if math.Abs(f(x, y, z)-iso) <= thickness {
			out = append(out, Point{X: x, Y: y, Z: z, Seed: len(out)})
		}
	}
	return out
}

func genGyroid(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	scale := g.GyroidScale
	if scale == 0 {
		scale = 1
	}
	thickness := g.GyroidThickness
	if thickness == 0 {
		thickness = 0.05
	}
	thickness *= g.R
	f := func(x, y, z float64) float64 {
		sx, sy, sz := scale*x, scale*y, scale*z
		return math.Sin(sx)*math.Cos(sy) + math.Sin(sy)*math.Cos(sz) + math.Sin(sz)*math.Cos(sx) - g.GyroidC
	}
	return sampleImplicit(count, g.R, f, 0, thickness, env.rng)
}

func genSchwarzP(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	scale := g.SchwarzScale
	if scale == 0 {
		scale = 1
	}
	f := func(x, y, z float64) float64 {
		return math.Cos(scale*x) + math.Cos(scale*y) + math.Cos(scale*z)
	}
	return sampleImplicit(count, g.R, f, g.SchwarzIso, g.R*0.03, env.rng)
}

func genSchwarzD(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	scale := g.SchwarzScale
	if scale == 0 {
		scale = 1
	}
	f := func(x, y, z float64) float64 {
		sx, sy, sz := scale*x, scale*y, scale*z
		return math.Sin(sx)*math.Sin(sy)*math.Sin(sz) +
			math.Sin(sx)*math.Cos(sy)*math.Cos(sz) +
			math.Cos(sx)*math.Sin(sy)*math.Cos(sz) +
			math.Cos(sx)*math.Cos(sy)*math.Sin(sz)
	}
	return sampleImplicit(count, g.R, f, g.SchwarzIso, g.R*0.03, env.rng)
}

// genHeart samples the classic sextic heart surface.
func genHeart(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	scale := g.HeartScale
	if scale == 0 {
		scale = 1
	}
	radius := g.R * scale
	f := func(x, y, z float64) float64 {
		x /= radius
		y /= radius
		z /= radius
		q := x*x + 9.0/4.0*y*y + z*z - 1
		return q*q*q - x*x*z*z*z - 9.0/80.0*y*y*z*z*z
	}
	return sampleImplicit(count, radius, f, 0, radius*0.02, env.rng)
}

// genMetaballs samples the iso-shell of a sum of inverse-square blob fields.
// Radii repeat their last entry when shorter than the center list.
func genMetaballs(g *config.Geometry, cap int, env *genEnv) []Point {
	centers := parseVectorList(g.MetaballsCenters)
	radii := parseNumberList(g.MetaballsRadii)
	if len(centers) == 0 {
		centers = []vec3{{X: 0, Y: 0, Z: 0}}
	}
	if len(radii) == 0 {
		radii = []float64{0.6}
	}
	iso := g.MetaballsIso
	if iso == 0 {
		iso = 1
	}
	count := clampCount(max(1, g.N), cap)
	field := func(x, y, z float64) float64 {
		total := 0.0
		for idx, c := range centers {
			d := vmath.NewVec3(x, y, z).Subtract(c)
			r := radii[min(idx, len(radii)-1)]
			total += r * r / (d.X*d.X + d.Y*d.Y + d.Z*d.Z + 1e-6)
		}
		return total
	}
	return sampleImplicit(count, g.R, field, iso, iso*0.15, env.rng)
}

// genDensityWarp rejection-samples a disk against a user radial density
// expression of r and u. A broken expression logs a warning and falls back
// to the uniform disk.
func genDensityWarp(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	var prog *mathexpr.Program
	if strings.TrimSpace(g.DensityPDF) != "" {
		var err error
		prog, err = mathexpr.Compile(g.DensityPDF)
		if err != nil {
			log.Printf("density expression %q: %v", g.DensityPDF, err)
		}
	}
	out := make([]Point, 0, count)
	maxAttempts := count * 20
	for attempts := 0; len(out) < count && attempts < maxAttempts; attempts++ {
		u := env.rng.Float64()
		r := math.Sqrt(u)
		pdf := 1.0
		if prog != nil {
			pdf = math.Max(0, prog.EvalOrZero(map[string]float64{"r": r, "u": u}))
		}
		if pdf <= 0 {
			continue
		}
		if env.rng.Float64() > vmath.Clamp01(pdf) {
			continue
		}
		theta := env.rng.Float64() * 2 * math.Pi
		rr := g.R * r
		out = append(out, Point{X: rr * math.Cos(theta), Z: rr * math.Sin(theta), Seed: len(out)})
	}
	return out
}

// genPoissonDisk dart-throws disk samples, rejecting candidates closer than
// the minimum spacing to any accepted point.
func genPoissonDisk(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	minDist := math.Max(0, g.PoissonDMin) * g.R
	out := make([]Point, 0, count)
	maxTries := count * 50
	for tries := 0; len(out) < count && tries < maxTries; tries++ {
		r := g.R * math.Sqrt(env.rng.Float64())
		theta := env.rng.Float64() * 2 * math.Pi
		cand := Point{X: r * math.Cos(theta), Z: r * math.Sin(theta), Seed: len(out)}
		ok := true
		for _, p := range out {
			dx := cand.X - p.X
			dz := cand.Z - p.Z
			if dx*dx+dz*dz < minDist*minDist {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, cand)
		}
	}
	return out
}

// sdfProgram compiles a distance-field expression whose primitives read the
// sample position from the shared cursor. The cursor is advanced before each
// evaluation, so a single compiled program serves the whole sampling loop.
type sdfProgram struct {
	prog   *mathexpr.Program
	cursor struct{ x, y, z float64 }
}

func compileSDF(expr string) (*sdfProgram, error) {
	s := &sdfProgram{}
	base, err := mathexpr.Compile(expr)
	if err != nil {
		return nil, err
	}
	s.prog = base.WithFuncs(map[string]mathexpr.Func{
		"sphere": func(args []float64) (float64, error) {
			if len(args) != 1 {
				return 0, mathexpr.ErrArity
			}
			return math.Sqrt(s.cursor.x*s.cursor.x+s.cursor.y*s.cursor.y+s.cursor.z*s.cursor.z) - args[0], nil
		},
		"box": func(args []float64) (float64, error) {
			if len(args) != 3 {
				return 0, mathexpr.ErrArity
			}
			dx := math.Abs(s.cursor.x) - args[0]
			dy := math.Abs(s.cursor.y) - args[1]
			dz := math.Abs(s.cursor.z) - args[2]
			outside := math.Sqrt(math.Pow(math.Max(dx, 0), 2) + math.Pow(math.Max(dy, 0), 2) + math.Pow(math.Max(dz, 0), 2))
			inside := math.Min(math.Max(dx, math.Max(dy, dz)), 0)
			return outside + inside, nil
		},
		"torus": func(args []float64) (float64, error) {
			if len(args) != 2 {
				return 0, mathexpr.ErrArity
			}
			q := math.Sqrt(s.cursor.x*s.cursor.x+s.cursor.z*s.cursor.z) - args[0]
			return math.Sqrt(q*q+s.cursor.y*s.cursor.y) - args[1], nil
		},
		"union": func(args []float64) (float64, error) {
			if len(args) != 2 {
				return 0, mathexpr.ErrArity
			}
			return math.Min(args[0], args[1]), nil
		},
		"inter": func(args []float64) (float64, error) {
			if len(args) != 2 {
				return 0, mathexpr.ErrArity
			}
			return math.Max(args[0], args[1]), nil
		},
		"sub": func(args []float64) (float64, error) {
			if len(args) != 2 {
				return 0, mathexpr.ErrArity
			}
			return math.Max(args[0], -args[1]), nil
		},
	})
	return s, nil
}

func (s *sdfProgram) eval(x, y, z float64) float64 {
	s.cursor.x, s.cursor.y, s.cursor.z = x, y, z
	return s.prog.EvalOrZero(map[string]float64{"x": x, "y": y, "z": z})
}

// genDistanceFieldShape samples the zero shell of a composed signed distance
// expression like "sub(box(0.8,0.8,0.8), sphere(1.0))".
func genDistanceFieldShape(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	sdf, err := compileSDF(g.DfOps)
	if err != nil {
		log.Printf("distance field %q: %v", g.DfOps, err)
		return nil
	}
	f := func(x, y, z float64) float64 { return sdf.eval(x, y, z) }
	return sampleImplicit(count, g.R, f, 0, g.R*0.05, env.rng)
}
