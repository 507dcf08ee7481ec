package main

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/abertin/stardrift/internal/config"
	"github.com/abertin/stardrift/internal/engine"
	"github.com/abertin/stardrift/internal/geometry"
)

const (
	windowWidth  = 1024
	windowHeight = 768
)

type game struct {
	engine   *engine.Engine
	renderer *engine.Renderer

	topologies []string
	topoIndex  int

	start    time.Time
	pausedAt float64
	paused   bool
	showHUD  bool

	lastErr error
}

func newGame() *game {
	cfg := config.Default()
	g := &game{
		engine:     engine.New(cfg),
		renderer:   engine.NewRenderer(),
		topologies: geometry.Names(),
		start:      time.Now(),
		showHUD:    true,
	}
	for i, name := range g.topologies {
		if name == cfg.Geometry.Topology {
			g.topoIndex = i
			break
		}
	}
	return g
}

// nowMs is the animation clock in milliseconds. Pausing freezes it so the
// cloud resumes exactly where it stopped.
func (g *game) nowMs() float64 {
	if g.paused {
		return g.pausedAt
	}
	return float64(time.Since(g.start)) / float64(time.Millisecond)
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.paused {
			g.start = time.Now().Add(-time.Duration(g.pausedAt) * time.Millisecond)
		} else {
			g.pausedAt = g.nowMs()
		}
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.cycleTopology(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.cycleTopology(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.openProfileDialog(); err != nil {
			g.lastErr = err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.saveProfileDialog(); err != nil {
			g.lastErr = err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.RebuildAsync()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *game) cycleTopology(dir int) {
	n := len(g.topologies)
	g.topoIndex = ((g.topoIndex+dir)%n + n) % n
	g.engine.SetTopology(g.topologies[g.topoIndex])
}

func (g *game) Draw(screen *ebiten.Image) {
	cfg := g.engine.Config()
	if cfg.System.Transparent {
		screen.Clear()
	} else {
		screen.Fill(color.RGBA{R: 8, G: 10, B: 16, A: 255})
	}

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	dots := g.engine.Frame(w, h, g.nowMs())
	g.renderer.Draw(screen, dots, cfg.Appearance.Shape, cfg.Appearance.BlendMode)

	if g.showHUD {
		status := fmt.Sprintf("%s | %d pts | %.0f fps | Tab: next topology, Space: pause, O/S: open/save profile, H: hide HUD",
			cfg.Geometry.Topology, len(dots), ebiten.ActualFPS())
		if g.paused {
			status = "[paused] " + status
		}
		if g.lastErr != nil {
			status += " | Error: " + g.lastErr.Error()
		}
		ebitenutil.DebugPrintAt(screen, status, 12, 12)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	cfg := g.engine.Config()
	if cfg.System.DprClamp > 0 && scale > cfg.System.DprClamp {
		scale = cfg.System.DprClamp
	}
	return int(float64(outsideWidth) * scale), int(float64(outsideHeight) * scale)
}

func (g *game) openProfileDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Profile"),
		zenity.FileFilters{{
			Name:     "Profiles",
			Patterns: []string{"*.json"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	cfg := g.engine.Config()
	if _, err := cfg.MergeFile(filename); err != nil {
		return err
	}
	g.engine.Replace(cfg)
	g.lastErr = nil
	for i, name := range g.topologies {
		if name == cfg.Geometry.Topology {
			g.topoIndex = i
			break
		}
	}
	return nil
}

func (g *game) saveProfileDialog() error {
	filename, err := zenity.SelectFileSave(
		zenity.Title("Save Profile"),
		zenity.ConfirmOverwrite(),
		zenity.Filename("profile.json"),
		zenity.FileFilters{{
			Name:     "Profiles",
			Patterns: []string{"*.json"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	cfg := g.engine.Config()
	return cfg.SaveFile(filename)
}

func main() {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Stardrift - Tab: cycle topology, Space: pause, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := newGame()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
