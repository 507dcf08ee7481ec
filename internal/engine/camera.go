package engine

import (
	"math"
	"sort"

	"github.com/abertin/stardrift/internal/vmath"
)

// projected is one surviving point after the camera pass, ready for the
// color and raster stages. Depth is the distance term used for sorting and
// alpha attenuation; Phase carries the point's phase factor forward.
type projected struct {
	SX, SY  float64
	Depth   float64
	Phase   float64
	Index   int
	Seed    int
	X, Y, Z float64 // world position after modifiers, pre camera
}

// advanceAzimuth integrates the orbit angle. The step is clamped to 100ms
// so a stalled frame (window drag, tab switch) cannot fling the camera.
func (e *Engine) advanceAzimuth(nowMs float64) {
	if !e.clockStarted {
		e.clockStarted = true
		e.lastMs = nowMs
		return
	}
	dt := (nowMs - e.lastMs) / 1000
	e.lastMs = nowMs
	if dt < 0 {
		dt = 0
	}
	if dt > 0.1 {
		dt = 0.1
	}
	e.azimuthDeg = math.Mod(e.azimuthDeg+e.cfg.Camera.OmegaDegSec*dt, 360)
	if e.azimuthDeg < 0 {
		e.azimuthDeg += 360
	}
}

// project runs the per-point rotation, camera orientation and perspective
// for every base point and returns the on-screen survivors. Points behind
// the near plane are culled; when depthSort is on the result is ordered
// far to near so painter-style blending works.
func (e *Engine) project(w, h int, nowMs float64) []projected {
	cfg := e.cfg
	cam := &cfg.Camera
	tSec := nowMs * 0.001

	worldScale := 0.45 * math.Min(float64(w), float64(h))
	cx, cy := float64(w)/2, float64(h)/2

	yaw := vmath.Radians(e.azimuthDeg)
	pitch := vmath.Radians(cam.HeightDeg)
	roll := vmath.Radians(cam.TiltDeg)
	sinYaw, cosYaw := math.Sincos(yaw)
	sinPitch, cosPitch := math.Sincos(pitch)
	sinRoll, cosRoll := math.Sincos(roll)

	rotX := vmath.Radians(cfg.Dynamics.RotX) * tSec
	rotY := vmath.Radians(cfg.Dynamics.RotY) * tSec
	rotZ := vmath.Radians(cfg.Dynamics.RotZ) * tSec
	phaseOfs := vmath.Radians(cfg.Dynamics.RotPhaseDeg)
	pulsePhase := vmath.Radians(cfg.Dynamics.PulsePhaseDeg)

	out := e.frameItems[:0]
	for i, p := range e.base {
		x, y, z := applyModifiers(cfg, p, nowMs)
		phase := phaseFactor(cfg, p, i, len(e.base), x, y, z)

		if cfg.Dynamics.PulseA != 0 {
			s := 1 + cfg.Dynamics.PulseA*math.Sin(cfg.Dynamics.PulseW*tSec+pulsePhase+2*math.Pi*phase)
			x, y, z = x*s, y*s, z*s
		}

		// point spin, Z then X then Y, each angle offset by the phase
		if rotZ != 0 || phaseOfs != 0 {
			a := rotZ + phaseOfs*phase
			sinA, cosA := math.Sincos(a)
			x, y = cosA*x-sinA*y, sinA*x+cosA*y
		}
		if rotX != 0 || phaseOfs != 0 {
			a := rotX + phaseOfs*phase
			sinA, cosA := math.Sincos(a)
			y, z = cosA*y-sinA*z, sinA*y+cosA*z
		}
		if rotY != 0 || phaseOfs != 0 {
			a := rotY + phaseOfs*phase
			sinA, cosA := math.Sincos(a)
			x, z = cosA*x+sinA*z, -sinA*x+cosA*z
		}

		// camera yaw about y, then pitch about x, then roll about z
		xc := cosYaw*x + sinYaw*z
		zc := -sinYaw*x + cosYaw*z
		yc := y

		yc, zc = cosPitch*yc-sinPitch*zc, sinPitch*yc+cosPitch*zc
		xc, yc = cosRoll*xc-sinRoll*yc, sinRoll*xc+cosRoll*yc

		depth := zc + cam.Radius
		if depth <= 0.01 {
			continue
		}
		pscale := cam.FOV / (cam.FOV + depth*worldScale)
		sx := cx + xc*worldScale*pscale
		sy := cy - yc*worldScale*pscale

		out = append(out, projected{
			SX: sx, SY: sy,
			Depth: depth,
			Phase: phase,
			Index: i,
			Seed:  p.Seed,
			X:     x, Y: y, Z: z,
		})
	}

	if cfg.System.DepthSort {
		sort.SliceStable(out, func(a, b int) bool { return out[a].Depth > out[b].Depth })
	}
	if cfg.Distribution.DMinPx > 0 {
		out = screenMinDistance(out, cfg.Distribution.DMinPx)
	}
	e.frameItems = out
	return out
}

// screenMinDistance thins projected points so no two survivors sit closer
// than dminPx on screen, using a pixel grid with a 3x3 neighborhood scan.
// Visit order is the incoming order, so with depth sorting on the farther
// point wins its cell first.
func screenMinDistance(pts []projected, dminPx float64) []projected {
	grid := make(map[[2]int][]int)
	d2 := dminPx * dminPx
	kept := 0
	for _, p := range pts {
		gx := int(math.Floor(p.SX / dminPx))
		gy := int(math.Floor(p.SY / dminPx))
		ok := true
	neighbors:
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range grid[[2]int{gx + dx, gy + dy}] {
					q := pts[j]
					ddx, ddy := p.SX-q.SX, p.SY-q.SY
					if ddx*ddx+ddy*ddy < d2 {
						ok = false
						break neighbors
					}
				}
			}
		}
		if ok {
			grid[[2]int{gx, gy}] = append(grid[[2]int{gx, gy}], kept)
			pts[kept] = p
			kept++
		}
	}
	return pts[:kept]
}
