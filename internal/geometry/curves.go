package geometry

import (
	"math"

	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/vmath"
)

// genFiboSphere distributes N points along the golden spiral on the sphere.
func genFiboSphere(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	denom := float64(max(1, count-1))
	out := make([]Point, 0, count)
	for i := range count {
		z := 1 - 2*float64(i)/denom
		r := math.Sqrt(math.Max(0, 1-z*z))
		phi := float64(i) * g.PhiG
		out = append(out, Point{
			X:    g.R * r * math.Cos(phi),
			Y:    g.R * z,
			Z:    g.R * r * math.Sin(phi),
			Seed: i,
		})
	}
	return out
}

func genVogelSphereSpiral(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	k := g.VogelK
	if k == 0 {
		k = vmath.GoldenAngle
	}
	out := make([]Point, 0, count)
	for i := range count {
		t := (float64(i) + 0.5) / float64(count)
		theta := math.Acos(1 - 2*t)
		phi := math.Mod(float64(i)*k, 2*math.Pi)
		sinT := math.Sin(theta)
		out = append(out, Point{
			X:    g.R * sinT * math.Cos(phi),
			Y:    g.R * math.Cos(theta),
			Z:    g.R * sinT * math.Sin(phi),
			Seed: i,
		})
	}
	return out
}

// genDiskPhyllo is Vogel's sunflower layout on the xz plane.
func genDiskPhyllo(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	denom := float64(max(1, count-1))
	out := make([]Point, 0, count)
	for k := range count {
		theta := float64(k) * g.PhiG
		r := g.R * math.Sqrt(float64(k)/denom)
		out = append(out, Point{X: r * math.Cos(theta), Z: r * math.Sin(theta), Seed: k})
	}
	return out
}

func thetaMax(g *config.Geometry, fallback float64) float64 {
	if g.ThetaMax == 0 {
		return fallback
	}
	return math.Max(0.1, g.ThetaMax)
}

func genArchimedeSpiral(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	tMax := thetaMax(g, math.Pi*6)
	denom := g.ArchA + g.ArchB*tMax
	scale := g.R
	if denom != 0 {
		scale = g.R / math.Abs(denom)
	}
	out := make([]Point, 0, count)
	for i := range count {
		t := tMax * float64(i) / float64(count-1)
		r := math.Abs(g.ArchA+g.ArchB*t) * scale
		out = append(out, Point{X: r * math.Cos(t), Z: r * math.Sin(t), Seed: i})
	}
	return out
}

func genLogSpiral(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	tMax := thetaMax(g, math.Pi*6)
	base := math.Exp(g.LogB * tMax)
	scale := g.R
	if g.LogA*base != 0 {
		scale = g.R / (g.LogA * base)
	}
	out := make([]Point, 0, count)
	for i := range count {
		t := tMax * float64(i) / float64(count-1)
		r := math.Abs(g.LogA*math.Exp(g.LogB*t)) * scale
		out = append(out, Point{X: r * math.Cos(t), Z: r * math.Sin(t), Seed: i})
	}
	return out
}

func genRoseCurve(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	tMax := thetaMax(g, 2*math.Pi)
	out := make([]Point, 0, count)
	for i := range count {
		t := tMax * float64(i) / float64(count-1)
		r := math.Abs(math.Cos(g.RoseK*t)) * g.R
		out = append(out, Point{X: r * math.Cos(t), Z: r * math.Sin(t), Seed: i})
	}
	return out
}

func genLissajousDisk(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	a := float64(max(1, g.LissajousA))
	b := float64(max(1, g.LissajousB))
	out := make([]Point, 0, count)
	for i := range count {
		t := float64(i) / float64(count) * 2 * math.Pi
		out = append(out, Point{
			X:    g.R * math.Cos(a*t+g.LissajousPhase),
			Z:    g.R * math.Sin(b*t),
			Seed: i,
		})
	}
	return out
}

func genLissajous3D(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	wx := float64(max(1, g.Lissajous3DWx))
	wy := float64(max(1, g.Lissajous3DWy))
	wz := float64(max(1, g.Lissajous3DWz))
	out := make([]Point, 0, count)
	for i := range count {
		t := 2 * math.Pi * float64(i) / float64(count)
		out = append(out, Point{
			X:    g.R * g.Lissajous3DAx * math.Sin(wx*t+g.Lissajous3DPhi),
			Y:    g.R * g.Lissajous3DAy * math.Sin(wy*t),
			Z:    g.R * g.Lissajous3DAz * math.Sin(wz*t+g.Lissajous3DPhi/2),
			Seed: i,
		})
	}
	return out
}

func genHelix(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	r := g.HelixR
	if r == 0 {
		r = 0.4
	}
	r *= g.R
	pitch := g.HelixPitch
	if pitch == 0 {
		pitch = 0.3
	}
	pitch *= g.R
	turns := math.Max(0.1, g.HelixTurns)
	height := pitch * turns
	out := make([]Point, 0, count)
	for i := range count {
		t := turns * 2 * math.Pi * float64(i) / float64(max(1, count-1))
		out = append(out, Point{
			X:    r * math.Cos(t),
			Y:    -height/2 + pitch*t/(2*math.Pi),
			Z:    r * math.Sin(t),
			Seed: i,
		})
	}
	return out
}

// genViviani traces the sphere/cylinder intersection curve, recentered so
// the figure-eight sits near the origin.
func genViviani(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	a := g.VivianiA
	if a == 0 {
		a = 1
	}
	out := make([]Point, 0, count)
	for i := range count {
		t := 2 * math.Pi * float64(i) / float64(max(1, count-1))
		out = append(out, Point{
			X:    (a*(1+math.Cos(t)) - 1.5*a) * g.R,
			Y:    a * math.Sin(t) * g.R,
			Z:    2 * a * math.Sin(t/2) * g.R,
			Seed: i,
		})
	}
	return out
}

func genConcentricRings(g *config.Geometry, cap int, env *genEnv) []Point {
	rings := max(1, g.RingsCount)
	perRing := max(3, g.RingPoints)
	out := make([]Point, 0, rings*perRing+1)
	if rings <= 1 {
		out = append(out, Point{})
	}
	for ring := range rings {
		r := 0.0
		if rings > 1 {
			r = g.R * float64(ring) / float64(rings-1)
		}
		for j := range perRing {
			angle := float64(j) / float64(perRing) * 2 * math.Pi
			out = append(out, Point{X: r * math.Cos(angle), Z: r * math.Sin(angle), Seed: len(out)})
		}
	}
	return out[:clampCount(len(out), cap)]
}

// genHexPacking lays out a staggered hexagonal grid on the xz plane and
// rescales it so the farthest point touches radius R.
func genHexPacking(g *config.Geometry, cap int, env *genEnv) []Point {
	step := g.HexStep
	if step == 0 {
		step = 0.2
	}
	nx := max(1, g.HexNx)
	ny := max(1, g.HexNy)
	type planar struct{ x, z float64 }
	points := make([]planar, 0, nx*ny)
	maxLen := 0.0
	for ix := range nx {
		for iy := range ny {
			x := (float64(ix) - float64(nx-1)/2) * step
			z := (float64(iy) - float64(ny-1)/2) * step * math.Sqrt(3) / 2
			if ix%2 == 1 {
				z += step * math.Sqrt(3) / 4
			}
			points = append(points, planar{x, z})
			maxLen = math.Max(maxLen, math.Hypot(x, z))
		}
	}
	if maxLen == 0 {
		maxLen = 1
	}
	scale := g.R / maxLen
	out := make([]Point, 0, len(points))
	for i, p := range points {
		out = append(out, Point{X: p.x * scale, Z: p.z * scale, Seed: i})
	}
	return out[:clampCount(len(out), cap)]
}

func genVoronoiSeeds(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.VoronoiN), cap)
	xmin, xmax, zmin, zmax := parseBBox(g.VoronoiBBox)
	out := make([]Point, 0, count)
	for i := range count {
		out = append(out, Point{
			X:    (xmin + env.rng.Float64()*(xmax-xmin)) * g.R,
			Z:    (zmin + env.rng.Float64()*(zmax-zmin)) * g.R,
			Seed: i,
		})
	}
	return out
}

// genLICSphere traces random great circles: each line picks a random
// normal, builds an orthonormal frame around it and walks the circle.
func genLICSphere(g *config.Geometry, cap int, env *genEnv) []Point {
	lines := max(1, g.LicN)
	steps := max(4, g.LicSteps)
	out := make([]Point, 0, lines*steps)
	for range lines {
		theta := env.rng.Float64() * math.Pi
		phi := env.rng.Float64() * 2 * math.Pi
		n := vmath.NewVec3(
			math.Sin(theta)*math.Cos(phi),
			math.Cos(theta),
			math.Sin(theta)*math.Sin(phi),
		)
		ref := vmath.NewVec3(0, 1, 0)
		if math.Abs(n.Dot(ref)) > 0.9 {
			ref = vmath.NewVec3(1, 0, 0)
		}
		u := n.Cross(ref).Normalize()
		v := n.Cross(u)
		for j := range steps {
			angle := 2 * math.Pi * float64(j) / float64(steps)
			sinA, cosA := math.Sincos(angle)
			p := u.Multiply(cosA).Add(v.Multiply(sinA)).Multiply(g.R)
			out = append(out, Point{X: p.X, Y: p.Y, Z: p.Z, Seed: len(out)})
		}
	}
	return out[:clampCount(len(out), cap)]
}

// genStreamOnTorus advances fixed-step streamlines winding around a torus.
func genStreamOnTorus(g *config.Geometry, cap int, env *genEnv) []Point {
	streams := max(1, g.StreamN)
	steps := max(8, g.StreamSteps)
	rMajor := g.RMajor
	if rMajor == 0 {
		rMajor = 1
	}
	rMinor := g.RMinor
	if rMinor == 0 {
		rMinor = 0.3
	}
	out := make([]Point, 0, streams*steps)
	for i := range streams {
		theta := float64(i) / float64(streams) * 2 * math.Pi
		phi := env.rng.Float64() * 2 * math.Pi
		for range steps {
			theta += 0.08
			phi += 0.12
			ring := rMajor + rMinor*math.Cos(theta)
			out = append(out, Point{
				X:    ring * math.Cos(phi) * g.R,
				Y:    rMinor * math.Sin(theta) * g.R,
				Z:    ring * math.Sin(phi) * g.R,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

// genRandomGeometricGraph scatters nodes in a flattened box and bridges
// every pair closer than the connect radius with two interior points.
func genRandomGeometricGraph(g *config.Geometry, cap int, env *genEnv) []Point {
	nodes := clampCount(max(1, g.RggNodes), cap)
	connect := g.RggRadius
	if connect == 0 {
		connect = 0.2
	}
	connect *= g.R
	points := make([]Point, 0, nodes)
	for i := range nodes {
		points = append(points, Point{
			X:    (env.rng.Float64()*2 - 1) * g.R,
			Y:    (env.rng.Float64()*2 - 1) * g.R * 0.3,
			Z:    (env.rng.Float64()*2 - 1) * g.R,
			Seed: i,
		})
	}
	out := append([]Point(nil), points...)
	for i, a := range points {
		for j := i + 1; j < len(points); j++ {
			b := points[j]
			dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
			dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if dist <= connect && dist > 1e-6 {
				const steps = 3
				for s := 1; s < steps; s++ {
					t := float64(s) / steps
					out = append(out, Point{
						X:    a.X + dx*t,
						Y:    a.Y + dy*t,
						Z:    a.Z + dz*t,
						Seed: len(out),
					})
				}
			}
		}
	}
	return out[:clampCount(len(out), cap)]
}
