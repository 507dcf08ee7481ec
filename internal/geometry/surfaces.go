package geometry

import (
	"log"
	"math"
	"strings"

	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/mathexpr"
	"github.com/abertin/stardrift/internal/vmath"
)

// GenUVSphere is the canonical lat/lon lattice and the fallback for unknown
// topologies. Latitude rows span both poles inclusively; longitude columns
// leave out the wrap duplicate.
func GenUVSphere(g *config.Geometry, cap int) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := float64(i) / float64(max(1, latSteps-1))
		theta := v * math.Pi
		sinT, cosT := math.Sincos(theta)
		for j := range lonSteps {
			u := float64(j) / float64(lonSteps)
			phi := u * 2 * math.Pi
			sinP, cosP := math.Sincos(phi)
			out = append(out, Point{
				X:    g.R * sinT * cosP,
				Y:    g.R * cosT,
				Z:    g.R * sinT * sinP,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

func genUVSphere(g *config.Geometry, cap int, env *genEnv) []Point {
	return GenUVSphere(g, cap)
}

func sgnpow(u, p float64) float64 {
	expo := 2.0 / math.Max(1e-3, p)
	return math.Copysign(math.Pow(math.Abs(u), expo), u)
}

func genSuperquadric(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := -0.5*math.Pi + math.Pi*float64(i)/float64(max(1, latSteps-1))
		cv := sgnpow(math.Cos(v), g.Eps1)
		sv := sgnpow(math.Sin(v), g.Eps1)
		for j := range lonSteps {
			u := -math.Pi + 2*math.Pi*float64(j)/float64(lonSteps)
			cu := sgnpow(math.Cos(u), g.Eps2)
			su := sgnpow(math.Sin(u), g.Eps2)
			out = append(out, Point{
				X:    g.R * g.Ax * cv * cu,
				Y:    g.R * g.Ay * cv * su,
				Z:    g.R * g.Az * sv,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

func genSuperellipsoid(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := -0.5*math.Pi + math.Pi*float64(i)/float64(max(1, latSteps-1))
		cv, sv := math.Cos(v), math.Sin(v)
		for j := range lonSteps {
			u := -math.Pi + 2*math.Pi*float64(j)/float64(lonSteps)
			cu, su := math.Cos(u), math.Sin(u)
			out = append(out, Point{
				X:    g.R * g.Ax * sgnpow(cv, g.SeN1) * sgnpow(cu, g.SeN2),
				Y:    g.R * g.Ay * sgnpow(cv, g.SeN1) * sgnpow(su, g.SeN2),
				Z:    g.R * g.Az * sgnpow(sv, g.SeN1),
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

func genHalfSphere(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	height := g.HalfHeight
	if height == 0 {
		height = 1
	}
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := float64(i) / float64(max(1, latSteps-1)) * 0.5 * math.Pi
		sinT, cosT := math.Sincos(v)
		for j := range lonSteps {
			phi := float64(j) / float64(lonSteps) * 2 * math.Pi
			out = append(out, Point{
				X:    g.R * sinT * math.Cos(phi),
				Y:    g.R * cosT * height,
				Z:    g.R * sinT * math.Sin(phi),
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

// genNoisySphere displaces a uv lattice radially by three octaves of value
// noise; the omega parameter shears the sample coordinates so the surface
// can be animated across rebuilds.
func genNoisySphere(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	freq := g.NoisyFreq
	if freq == 0 {
		freq = 1
	}
	gain := g.NoisyGain
	if gain == 0 {
		gain = 1
	}
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := float64(i) / float64(max(1, latSteps-1))
		theta := v * math.Pi
		sinT, cosT := math.Sincos(theta)
		for j := range lonSteps {
			phi := float64(j) / float64(lonSteps) * 2 * math.Pi
			nx := sinT * math.Cos(phi)
			ny := cosT
			nz := sinT * math.Sin(phi)
			n := 0.0
			frequency := freq
			amplitude := 1.0
			for range 3 {
				n += vmath.ValueNoise3(nx*frequency+g.NoisyOmega, ny*frequency, nz*frequency-g.NoisyOmega) * amplitude
				amplitude *= gain
				frequency *= 2
			}
			offset := 1 + g.NoisyAmp*(n-0.5)
			out = append(out, Point{
				X:    g.R * nx * offset,
				Y:    g.R * ny * offset,
				Z:    g.R * nz * offset,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

// associatedLegendre evaluates P_l^m(x) by upward recurrence.
func associatedLegendre(l, m int, x float64) float64 {
	mAbs := m
	if mAbs < 0 {
		mAbs = -mAbs
	}
	pmm := 1.0
	if mAbs > 0 {
		somx2 := math.Sqrt(math.Max(0, 1-x*x))
		fact := 1.0
		for range mAbs {
			pmm *= -fact * somx2
			fact += 2
		}
	}
	if l == mAbs {
		return pmm
	}
	pmmp1 := x * float64(2*mAbs+1) * pmm
	if l == mAbs+1 {
		return pmmp1
	}
	pll := 0.0
	for n := mAbs + 2; n <= l; n++ {
		pll = (float64(2*n-1)*x*pmmp1 - float64(n+mAbs-1)*pmm) / float64(n-mAbs)
		pmm, pmmp1 = pmmp1, pll
	}
	return pll
}

func factorial(n int) float64 {
	out := 1.0
	for i := 2; i <= n; i++ {
		out *= float64(i)
	}
	return out
}

// realSphericalHarmonic evaluates the real-valued Y_l^m basis function.
func realSphericalHarmonic(l, m int, theta, phi float64) float64 {
	mAbs := m
	if mAbs < 0 {
		mAbs = -mAbs
	}
	norm := math.Sqrt(float64(2*l+1) / (4 * math.Pi) *
		(factorial(l-mAbs) / math.Max(1, factorial(l+mAbs))))
	plm := associatedLegendre(l, mAbs, math.Cos(theta))
	if m == 0 {
		return norm * plm
	}
	factor := math.Sqrt2 * norm
	if m > 0 {
		return factor * plm * math.Cos(float64(m)*phi)
	}
	return factor * plm * math.Sin(float64(mAbs)*phi)
}

func genSphericalHarmonics(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	terms := parseSphericalTerms(g.SphTerms)
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := float64(i) / float64(max(1, latSteps-1))
		theta := v * math.Pi
		sinT, cosT := math.Sincos(theta)
		for j := range lonSteps {
			phi := float64(j) / float64(lonSteps) * 2 * math.Pi
			amp := 1.0
			for _, term := range terms {
				amp += term.Amp * realSphericalHarmonic(term.L, term.M, theta, phi)
			}
			amp = math.Max(0.1, amp)
			out = append(out, Point{
				X:    g.R * amp * sinT * math.Cos(phi),
				Y:    g.R * amp * cosT,
				Z:    g.R * amp * sinT * math.Sin(phi),
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

// genWeightedSphere scales each golden-spiral sample radially by a user
// expression of theta and phi. A broken expression logs a warning and
// leaves the weight at one, so the shape degrades to a plain sphere.
func genWeightedSphere(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(1, g.N), cap)
	var prog *mathexpr.Program
	if strings.TrimSpace(g.WeightMap) != "" {
		var err error
		prog, err = mathexpr.Compile(g.WeightMap)
		if err != nil {
			log.Printf("weight expression %q: %v", g.WeightMap, err)
		}
	}
	out := make([]Point, 0, count)
	for i := range count {
		u := (float64(i) + 0.5) / float64(count)
		theta := math.Acos(1 - 2*u)
		phi := math.Mod(float64(i)*vmath.GoldenAngle, 2*math.Pi)
		weight := 1.0
		if prog != nil {
			weight = prog.EvalOrZero(map[string]float64{"theta": theta, "phi": phi})
		}
		weight = math.Max(0.05, weight)
		sinT := math.Sin(theta)
		out = append(out, Point{
			X:    g.R * weight * sinT * math.Cos(phi),
			Y:    g.R * weight * math.Cos(theta),
			Z:    g.R * weight * sinT * math.Sin(phi),
			Seed: i,
		})
	}
	return out
}

func torusPoints(g *config.Geometry, rMajor float64, cap int) []Point {
	rMinor := g.RMinor
	if rMinor == 0 {
		rMinor = 0.45
	}
	latSteps := max(3, g.Lat)
	lonSteps := max(3, g.Lon)
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		theta := float64(i) / float64(latSteps) * 2 * math.Pi
		sinT, cosT := math.Sincos(theta)
		ring := rMajor + rMinor*cosT
		for j := range lonSteps {
			phi := float64(j) / float64(lonSteps) * 2 * math.Pi
			sinP, cosP := math.Sincos(phi)
			out = append(out, Point{
				X:    g.R * ring * cosP,
				Y:    g.R * rMinor * sinT,
				Z:    g.R * ring * sinP,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

func majorRadius(g *config.Geometry) float64 {
	if g.RMajor == 0 {
		return 1.2
	}
	return g.RMajor
}

func genTorus(g *config.Geometry, cap int, env *genEnv) []Point {
	return torusPoints(g, majorRadius(g), cap)
}

func genDoubleTorus(g *config.Geometry, cap int, env *genEnv) []Point {
	primary := torusPoints(g, majorRadius(g), cap)
	second := g.RMajor2
	if second == 0 {
		second = majorRadius(g)
	}
	combined := append(primary, torusPoints(g, second, cap)...)
	return combined[:clampCount(len(combined), cap)]
}

// genHornTorus clamps the major radius to the minor radius so the tube
// meets itself at the axis.
func genHornTorus(g *config.Geometry, cap int, env *genEnv) []Point {
	rMinor := g.RMinor
	if rMinor == 0 {
		rMinor = 0.45
	}
	rMajor := g.RMajor
	if rMajor == 0 || math.IsInf(rMajor, 0) || math.IsNaN(rMajor) || rMajor > rMinor {
		rMajor = rMinor
	}
	return torusPoints(g, rMajor, cap)
}

// genSpindleTorus keeps the major radius strictly below the minor radius to
// preserve the self-intersection.
func genSpindleTorus(g *config.Geometry, cap int, env *genEnv) []Point {
	rMinor := g.RMinor
	if rMinor == 0 {
		rMinor = 0.45
	}
	rMajor := g.RMajor
	if rMajor == 0 || math.IsInf(rMajor, 0) || math.IsNaN(rMajor) {
		rMajor = 0.75 * rMinor
	}
	if rMajor >= rMinor {
		rMajor = math.Max(0.25*rMinor, rMinor*0.75)
	}
	return torusPoints(g, rMajor, cap)
}

func genTorusKnot(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(50, g.N), cap)
	p := max(1, g.TorusKnotP)
	q := max(1, g.TorusKnotQ)
	rMajor := g.RMajor
	if rMajor == 0 {
		rMajor = 1
	}
	rMinor := g.RMinor
	if rMinor == 0 {
		rMinor = 0.2
	}
	total := 2 * math.Pi * float64(p)
	out := make([]Point, 0, count)
	for i := range count {
		t := total * float64(i) / float64(count)
		sinQ, cosQ := math.Sincos(float64(q) * t / float64(p))
		ring := rMajor + rMinor*cosQ
		out = append(out, Point{
			X:    g.R * ring * math.Cos(t),
			Y:    g.R * ring * math.Sin(t),
			Z:    g.R * rMinor * sinQ,
			Seed: i,
		})
	}
	return out
}

func genStripTwist(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(3, g.Lat)
	lonSteps := max(20, g.Lon)
	halfW := g.StripW / 2
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range lonSteps {
		u := float64(i) / float64(lonSteps) * 2 * math.Pi
		for j := range latSteps {
			v := -halfW + float64(j)/float64(max(1, latSteps-1))*(2*halfW)
			angle := g.StripN * u / 2
			sinA, cosA := math.Sincos(angle)
			out = append(out, Point{
				X:    (g.R + v*cosA) * math.Cos(u),
				Y:    v * sinA,
				Z:    (g.R + v*cosA) * math.Sin(u),
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

func genKleinBottle(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(3, g.Lat)
	lonSteps := max(3, g.Lon)
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range lonSteps {
		v := float64(i) / float64(lonSteps) * 2 * math.Pi
		sinV := math.Sin(v)
		sin2V := math.Sin(2 * v)
		for j := range latSteps {
			u := float64(j) / float64(latSteps) * 2 * math.Pi
			sinU, cosU := math.Sincos(u)
			sinHalf, cosHalf := math.Sincos(u / 2)
			ring := g.RMajor + g.RMinor*cosHalf*sinV - g.RMinor*sinHalf*sin2V
			out = append(out, Point{
				X:    ring * cosU,
				Y:    ring * sinU,
				Z:    g.RMinor*sinHalf*sinV + g.RMinor*cosHalf*sin2V,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

func genMobius(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(3, g.Lat)
	lonSteps := max(3, g.Lon)
	width := g.MobiusW
	if width == 0 {
		width = 0.4
	}
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		u := float64(i) / float64(latSteps) * 2 * math.Pi
		sinU, cosU := math.Sincos(u)
		sinHalf, cosHalf := math.Sincos(u / 2)
		for j := range lonSteps {
			v := float64(j)/float64(max(1, lonSteps-1))*2 - 1
			s := v * width * 0.5
			out = append(out, Point{
				X:    (g.R + s*cosHalf) * cosU,
				Y:    (g.R + s*cosHalf) * sinU,
				Z:    s * sinHalf,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

// genBlob is a single-octave noisy sphere.
func genBlob(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	amp := g.BlobNoiseAmp
	if amp == 0 {
		amp = 0.2
	}
	scale := g.BlobNoiseScale
	if scale == 0 {
		scale = 1
	}
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := float64(i) / float64(max(1, latSteps-1))
		theta := v * math.Pi
		sinT, cosT := math.Sincos(theta)
		for j := range lonSteps {
			phi := float64(j) / float64(lonSteps) * 2 * math.Pi
			nx := sinT * math.Cos(phi)
			ny := cosT
			nz := sinT * math.Sin(phi)
			offset := 1 + amp*(vmath.ValueNoise3(nx*scale, ny*scale, nz*scale)-0.5)
			out = append(out, Point{
				X:    g.R * nx * offset,
				Y:    g.R * ny * offset,
				Z:    g.R * nz * offset,
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}

func superformula2D(theta, m, a, b, n1, n2, n3 float64) float64 {
	if a == 0 {
		a = 1
	}
	if b == 0 {
		b = 1
	}
	part1 := math.Pow(math.Abs(math.Cos(m*theta/4)/a), n2)
	part2 := math.Pow(math.Abs(math.Sin(m*theta/4)/b), n3)
	return math.Pow(part1+part2, -1/math.Max(1e-6, n1))
}

func genSuperformula2D(g *config.Geometry, cap int, env *genEnv) []Point {
	count := clampCount(max(2, g.N), cap)
	out := make([]Point, 0, count)
	for i := range count {
		theta := float64(i) / float64(count) * 2 * math.Pi
		r := g.R * superformula2D(theta, g.Sf2M, g.Sf2A, g.Sf2B, g.Sf2N1, g.Sf2N2, g.Sf2N3)
		out = append(out, Point{X: r * math.Cos(theta), Z: r * math.Sin(theta), Seed: i})
	}
	return out
}

func genSuperformula3D(g *config.Geometry, cap int, env *genEnv) []Point {
	latSteps := max(2, g.Lat)
	lonSteps := max(3, g.Lon)
	scale := g.Sf3Scale
	if scale == 0 {
		scale = 1
	}
	sf := func(theta, m float64) float64 {
		return superformula2D(theta, m, g.Sf3A, g.Sf3B, g.Sf3N1, g.Sf3N2, g.Sf3N3)
	}
	out := make([]Point, 0, latSteps*lonSteps)
	for i := range latSteps {
		v := float64(i) / float64(max(1, latSteps-1))
		theta := v*math.Pi - math.Pi/2
		r2 := sf(theta, g.Sf3M2)
		for j := range lonSteps {
			u := float64(j) / float64(lonSteps)
			phi := u*2*math.Pi - math.Pi
			r1 := sf(phi, g.Sf3M1)
			r3 := sf(phi, g.Sf3M3)
			out = append(out, Point{
				X:    scale * g.R * r1 * r2 * math.Cos(theta) * math.Cos(phi),
				Y:    scale * g.R * r1 * r2 * math.Sin(theta),
				Z:    scale * g.R * r3 * math.Cos(theta) * math.Sin(phi),
				Seed: len(out),
			})
		}
	}
	return out[:clampCount(len(out), cap)]
}
