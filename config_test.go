package grove

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "grove.toml", `
[window]
title = "demo"

[scenes]
root = "assets"

[loop]
fixed_step = "10ms"

[logging]
format = "json"

[debug]
enabled = true
script = "smoke.yaml"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "demo" || cfg.Window.Width != 640 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Scenes.Root != "assets" || cfg.Scenes.Directory != "scenes.yaml" {
		t.Errorf("scenes = %+v", cfg.Scenes)
	}
	if cfg.Loop.FixedStep != 10*time.Millisecond || cfg.Loop.MaxFixedSteps != 5 {
		t.Errorf("loop = %+v", cfg.Loop)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Debug.Enabled || cfg.Debug.Watch || cfg.Debug.Script != "smoke.yaml" {
		t.Errorf("debug = %+v", cfg.Debug)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file: nil error")
	}
	bad := writeFile(t, dir, "bad.toml", "[window\n")
	if _, err := LoadConfig(bad); err == nil {
		t.Error("malformed file: nil error")
	}
}
