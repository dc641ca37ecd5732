package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderable draws itself onto the frame target during Layer.Render.
type Renderable interface {
	Render(screen *ebiten.Image)
}

// whitePixel is a 1x1 white image used for solid color rectangles. Created on
// first use so importing grove never touches the graphics driver.
var whitePixel *ebiten.Image

func solidPixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// drawRect fills an axis-aligned rectangle with c, scaled by alpha.
func drawRect(screen *ebiten.Image, x, y, w, h float64, c Color, alpha float64) {
	if screen == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	a := c.A * alpha
	// ColorScale expects premultiplied values.
	op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	screen.DrawImage(solidPixel(), op)
}
