package engine

import (
	"log"
	"math/rand"
	"sync"

	"github.com/abertin/stardrift/internal/colorgrad"
	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/geometry"
	"github.com/abertin/stardrift/internal/sampler"
	"github.com/abertin/stardrift/internal/vmath"
)

// Engine owns the live configuration and the base point cloud built from
// it. Frame-rate work (modifiers, camera, color) reads the base cloud
// without mutating it; rebuilds replace it wholesale under the mutex.
type Engine struct {
	mu  sync.Mutex
	cfg *config.Config

	base       []geometry.Point
	gradient   colorgrad.Gradient
	generation uint64

	azimuthDeg   float64
	lastMs       float64
	clockStarted bool

	// per-frame scratch, reused across ticks to avoid allocation churn
	frameItems []projected
	frameDots  []Dot
}

// New builds an engine around cfg and synchronously constructs the first
// point cloud.
func New(cfg config.Config) *Engine {
	e := &Engine{cfg: &cfg}
	e.gradient = colorgrad.ParseStops(cfg.Appearance.Colors)
	e.base = e.buildCloud(&cfg)
	return e
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.cfg
}

// Merge applies a JSON patch to the live configuration. Appearance-level
// changes take effect on the next frame; geometry, distribution and system
// changes trigger a synchronous rebuild of the base cloud.
func (e *Engine) Merge(patch []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rebuild, err := e.cfg.Merge(patch)
	if err != nil {
		return err
	}
	e.gradient = colorgrad.ParseStops(e.cfg.Appearance.Colors)
	if rebuild {
		e.generation++
		e.base = e.buildCloud(e.cfg)
	}
	return nil
}

// Replace swaps in a whole new configuration (profile load) and rebuilds.
func (e *Engine) Replace(cfg config.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	*e.cfg = cfg
	e.gradient = colorgrad.ParseStops(cfg.Appearance.Colors)
	e.generation++
	e.base = e.buildCloud(e.cfg)
}

// SetTopology switches the generator by name and rebuilds.
func (e *Engine) SetTopology(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Geometry.Topology = name
	e.generation++
	e.base = e.buildCloud(e.cfg)
}

// RebuildAsync regenerates the base cloud off the frame goroutine. The
// result is dropped if another rebuild started in the meantime.
func (e *Engine) RebuildAsync() {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	cfg := *e.cfg
	e.mu.Unlock()

	go func() {
		pts := e.buildCloud(&cfg)
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.generation == gen {
			e.base = pts
		}
	}()
}

// PointCount reports the size of the current base cloud.
func (e *Engine) PointCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.base)
}

// buildCloud runs generator then sampler, recenters the cloud on its
// centroid, and caps the result at Nmax. The same seed always yields the
// same cloud.
func (e *Engine) buildCloud(cfg *config.Config) []geometry.Point {
	capN := cfg.System.NMax
	if capN <= 0 {
		capN = 50000
	}
	rng := rand.New(rand.NewSource(cfg.System.Seed))
	pts := geometry.Generate(&cfg.Geometry, capN, rng)
	pts = sampler.Apply(pts, sampler.FromConfig(cfg))

	if len(pts) == 0 {
		log.Printf("topology %q produced no points after sampling", cfg.Geometry.Topology)
		return pts
	}
	if want := cfg.Geometry.N; want > 0 && len(pts) < want/2 {
		log.Printf("topology %q yielded %d of %d requested points", cfg.Geometry.Topology, len(pts), want)
	}

	var cx, cy, cz float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
		cz += p.Z
	}
	n := float64(len(pts))
	cx, cy, cz = cx/n, cy/n, cz/n
	for i := range pts {
		pts[i].X -= cx
		pts[i].Y -= cy
		pts[i].Z -= cz
	}
	return pts
}

// Frame computes the drawable dots for the current instant. It advances
// the orbit, projects every point and resolves color, alpha and radius.
// The returned slice is backed by a reusable buffer and is only valid
// until the next Frame call.
func (e *Engine) Frame(w, h int, nowMs float64) []Dot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advanceAzimuth(nowMs)
	pts := e.project(w, h, nowMs)

	mask := maskParams{
		enabled:       e.cfg.Mask.Enabled,
		mode:          e.cfg.Mask.Mode,
		angleDeg:      e.cfg.Mask.AngleDeg,
		bandHalfDeg:   e.cfg.Mask.BandHalfDeg,
		lonCenterDeg:  e.cfg.Mask.LonCenterDeg,
		lonWidthDeg:   e.cfg.Mask.LonWidthDeg,
		softDeg:       e.cfg.Mask.SoftDeg,
		animateDegSec: e.cfg.Mask.AnimateDegSec,
		invert:        e.cfg.Mask.Invert,
	}
	opacity := e.cfg.Appearance.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	ad := e.cfg.Appearance.AlphaDepth

	dots := e.frameDots[:0]
	for _, p := range pts {
		mw := maskWeight(&mask, p.X, p.Y, p.Z, nowMs)
		if mw <= 0.003 {
			continue
		}
		alpha := vmath.Clamp01(opacity * depthAlpha(p.Depth, ad) * mw)
		if alpha <= 0.003 {
			continue
		}
		dots = append(dots, Dot{
			X:      p.SX,
			Y:      p.SY,
			Radius: e.dotRadius(p, len(e.base), nowMs),
			Color:  colorgrad.WithAlpha(e.pointColor(p, w, h, nowMs), alpha),
		})
	}
	e.frameDots = dots
	return dots
}
