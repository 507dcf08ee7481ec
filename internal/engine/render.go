package engine

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Dot is one rasterizable point: screen center, radius in pixels and the
// final premultiplied-alpha-free RGBA.
type Dot struct {
	X, Y   float64
	Radius float64
	Color  color.RGBA
}

const spriteSize = 64

// Renderer rasterizes dots with a cached white sprite, scaled and tinted
// per dot. One sprite per shape avoids re-tessellating circles every frame.
type Renderer struct {
	circle *ebiten.Image
	square *ebiten.Image
}

func NewRenderer() *Renderer {
	circle := ebiten.NewImage(spriteSize, spriteSize)
	vector.DrawFilledCircle(circle, spriteSize/2, spriteSize/2, spriteSize/2, color.White, true)
	square := ebiten.NewImage(spriteSize, spriteSize)
	square.Fill(color.White)
	return &Renderer{circle: circle, square: square}
}

// Draw paints the dots onto dst in order. shape selects the sprite and
// blendMode the compositing operator; unknown values fall back to circle
// and source-over.
func (r *Renderer) Draw(dst *ebiten.Image, dots []Dot, shape, blendMode string) {
	sprite := r.circle
	if shape == "square" {
		sprite = r.square
	}
	blend := parseBlend(blendMode)

	for _, d := range dots {
		if d.Color.A == 0 {
			continue
		}
		scale := d.Radius * 2 / spriteSize
		op := &ebiten.DrawImageOptions{Blend: blend, Filter: ebiten.FilterLinear}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(d.X-d.Radius, d.Y-d.Radius)
		op.ColorScale.ScaleWithColor(d.Color)
		dst.DrawImage(sprite, op)
	}
}

func parseBlend(name string) ebiten.Blend {
	switch name {
	case "lighter", "screen", "additive":
		return ebiten.BlendLighter
	case "copy":
		return ebiten.BlendCopy
	case "destination-over":
		return ebiten.BlendDestinationOver
	case "xor":
		return ebiten.BlendXor
	}
	return ebiten.BlendSourceOver
}
