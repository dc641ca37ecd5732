// Command grove runs a scene directory in a window.
//
// Usage:
//
//	grove -config grove.toml [-profile cpu|mem]
//
// The config file names the scene root and directory; see grove.Config.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phanxgames/grove"
	"github.com/phanxgames/grove/script"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "grove.toml", "path to the TOML config")
	profMode := flag.String("profile", "", "write a profile to the working directory: cpu or mem")
	flag.Parse()

	switch *profMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profMode)
	}

	// 1. Load config
	cfg := grove.DefaultConfig()
	if _, err := os.Stat(*cfgPath); err == nil {
		cfg, err = grove.LoadConfig(*cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	// 2. Init logger
	log, err := grove.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// 3. Context, entity kinds and scenes
	g, err := newGame(cfg, log)
	if err != nil {
		return err
	}
	defer g.Close()
	ctx, mgr := g.ctx, g.mgr

	// 4. Frame loop
	appCfg := grove.AppConfig{
		FixedStep:     cfg.Loop.FixedStep,
		MaxFixedSteps: cfg.Loop.MaxFixedSteps,
		ClearColor:    grove.Color{R: 0.118, G: 0.118, B: 0.157, A: 1},
	}
	if cfg.Debug.Watch {
		w, err := grove.NewWatcher(cfg.Scenes.Root, log)
		if err != nil {
			return fmt.Errorf("watch scenes: %w", err)
		}
		defer func() { _ = w.Close() }()
		if err := w.WatchScenes(mgr.Directory()); err != nil {
			return fmt.Errorf("watch scenes: %w", err)
		}
		appCfg.Watcher = w
	}
	if cfg.Debug.Script != "" {
		frames, err := grove.LoadFrameScriptFile(ctx.Assets, cfg.Debug.Script)
		if err != nil {
			return fmt.Errorf("frame script: %w", err)
		}
		appCfg.Script = frames
		appCfg.ExitOnScriptDone = true
	}

	log.Info("starting", zap.String("scene", mgr.ActiveID()))
	return grove.Run(grove.NewApp(mgr, appCfg), grove.RunConfig{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
}

// game holds what the frame loop drives.
type game struct {
	ctx *grove.Context
	mgr *grove.SceneManager
	lua *script.Engine
}

// newGame builds the context, registers every entity kind and enters the
// start scene of the configured directory.
func newGame(cfg *grove.Config, log *zap.Logger) (*game, error) {
	ctx := &grove.Context{
		Log:     log,
		Assets:  os.DirFS(cfg.Scenes.Root),
		Factory: grove.NewFactory(),
		Debug:   cfg.Debug.Enabled,
	}
	if err := grove.RegisterBuiltins(ctx); err != nil {
		return nil, fmt.Errorf("register builtins: %w", err)
	}
	lua := script.NewEngine(ctx)
	if err := script.Register(ctx, lua); err != nil {
		lua.Close()
		return nil, fmt.Errorf("register script kind: %w", err)
	}
	g := &game{ctx: ctx, lua: lua}

	dir, err := grove.LoadDirectory(ctx.Assets, cfg.Scenes.Directory)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("scene directory: %w", err)
	}
	g.mgr = grove.NewSceneManager(ctx, dir)
	if err := g.mgr.Init(); err != nil {
		g.Close()
		return nil, fmt.Errorf("scene manager: %w", err)
	}
	if err := g.mgr.EnterStartScene(); err != nil {
		g.Close()
		return nil, fmt.Errorf("enter start scene: %w", err)
	}
	return g, nil
}

// Close releases the Lua VM. Scenes are torn down by grove.Run.
func (g *game) Close() {
	g.lua.Close()
}
