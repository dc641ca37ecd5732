package grove

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// AppConfig configures the frame scheduler.
type AppConfig struct {
	// FixedStep is the fixed simulation step. Zero disables FixedUpdate.
	FixedStep time.Duration

	// MaxFixedSteps caps fixed steps per tick; leftover time is dropped.
	MaxFixedSteps int

	// ClearColor fills the screen before rendering when its alpha is non-zero.
	ClearColor Color

	// Watcher, when set, reloads the active scene when its file changes.
	Watcher *Watcher

	// Script, when set, is stepped once per tick before the scene update.
	Script *FrameScript

	// ExitOnScriptDone ends the game loop once Script finishes. Failed
	// expectations are returned as an error from Run.
	ExitOnScriptDone bool
}

// App is the frame loop. It implements ebiten.Game and drives a SceneManager
// in a fixed order each tick: watcher, script, Update, FixedUpdate steps.
// Draw renders the active scene and runs the deletion sweep.
type App struct {
	mgr    *SceneManager
	cfg    AppConfig
	acc    float64
	width  int
	height int
}

// NewApp creates a frame loop for mgr.
func NewApp(mgr *SceneManager, cfg AppConfig) *App {
	if cfg.MaxFixedSteps <= 0 {
		cfg.MaxFixedSteps = 5
	}
	return &App{mgr: mgr, cfg: cfg}
}

// Manager returns the driven scene manager.
func (a *App) Manager() *SceneManager { return a.mgr }

// Update implements ebiten.Game.
func (a *App) Update() error {
	return a.tick(1.0 / float64(ebiten.TPS()))
}

func (a *App) tick(dt float64) error {
	if a.cfg.Watcher != nil {
		reloadOnChange(a.cfg.Watcher, a.mgr)
	}
	if s := a.cfg.Script; s != nil {
		s.Step(a.mgr)
		if s.Done() && a.cfg.ExitOnScriptDone {
			if f := s.Failures(); len(f) > 0 {
				return fmt.Errorf("frame script failed: %s", strings.Join(f, "; "))
			}
			return ebiten.Termination
		}
	}

	a.mgr.Update(dt)

	step := a.cfg.FixedStep.Seconds()
	if step <= 0 {
		return nil
	}
	a.acc += dt
	n := 0
	for a.acc >= step && n < a.cfg.MaxFixedSteps {
		a.mgr.FixedUpdate(step)
		a.acc -= step
		n++
	}
	if a.acc >= step {
		a.acc = 0
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	if a.cfg.ClearColor.A > 0 {
		screen.Fill(a.cfg.ClearColor.toRGBA())
	}
	a.mgr.Render(screen)
}

// Layout implements ebiten.Game. The logical size is the configured window
// size, or the outside size when none was configured.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if a.width > 0 && a.height > 0 {
		return a.width, a.height
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs app until the window closes or the frame loop
// returns an error. The active scene is destroyed on exit.
func Run(app *App, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
		app.width, app.height = cfg.Width, cfg.Height
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	defer app.mgr.Shutdown()
	err := ebiten.RunGame(app)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
