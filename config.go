package grove

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the application configuration, read from TOML.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Scenes  ScenesConfig  `toml:"scenes"`
	Loop    LoopConfig    `toml:"loop"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type ScenesConfig struct {
	Root      string `toml:"root"`      // directory scene files are read from
	Directory string `toml:"directory"` // scene directory file, relative to Root
}

type LoopConfig struct {
	FixedStep     time.Duration `toml:"fixed_step"`
	MaxFixedSteps int           `toml:"max_fixed_steps"` // per tick, to avoid a spiral of death
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Enabled bool   `toml:"enabled"`
	Watch   bool   `toml:"watch"`  // reload the active scene when its file changes
	Script  string `toml:"script"` // frame script path, relative to Scenes.Root
}

// LoadConfig reads path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used for keys a file omits.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "grove",
			Width:  640,
			Height: 480,
		},
		Scenes: ScenesConfig{
			Root:      "scenes",
			Directory: "scenes.yaml",
		},
		Loop: LoopConfig{
			FixedStep:     20 * time.Millisecond,
			MaxFixedSteps: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
