package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const fpsRefreshInterval = 0.5

// FPSCounter displays the current FPS and TPS, refreshed every ~0.5 seconds.
type FPSCounter struct {
	text    string
	elapsed float64
	entity  *Entity
}

func newFPSCounter(_ *Context, _ *EntityDef) (any, error) {
	return &FPSCounter{}, nil
}

// Attach implements Attacher.
func (f *FPSCounter) Attach(e *Entity) { f.entity = e }

// Update implements Updateable.
func (f *FPSCounter) Update(dt float64) {
	f.elapsed += dt
	if f.elapsed < fpsRefreshInterval {
		return
	}
	f.elapsed = 0
	f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

// Text returns the last rendered text.
func (f *FPSCounter) Text() string { return f.text }

// Render implements Renderable.
func (f *FPSCounter) Render(screen *ebiten.Image) {
	if screen == nil || f.text == "" || !f.entity.IsActive() {
		return
	}
	p := f.entity.WorldPosition()
	ebitenutil.DebugPrintAt(screen, f.text, int(p.X), int(p.Y))
}
