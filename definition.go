package grove

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// ErrMissingAttribute reports a definition that lacks a required element.
var ErrMissingAttribute = errors.New("grove: missing required attribute")

// Directory lists the scenes a SceneManager can enter.
type Directory struct {
	Start  string       `yaml:"start"`
	Scenes []SceneEntry `yaml:"scenes"`
}

// SceneEntry maps a scene id to its definition path inside Context.Assets.
type SceneEntry struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// SceneDef is a scene's on-disk definition. Layers are keyed by layer name.
type SceneDef struct {
	Layers map[string]LayerDef `yaml:"layers"`
}

// LayerDef lists a layer's entities in creation order.
type LayerDef struct {
	Entities []EntityDef `yaml:"entities"`
}

// EntityDef is one typed entity definition. Attrs holds kind-specific
// attributes and is decoded by the kind's constructor.
type EntityDef struct {
	Type        string      `yaml:"type"`
	Tag         string      `yaml:"tag"`
	StartActive *bool       `yaml:"startActive"`
	X           float64     `yaml:"x"`
	Y           float64     `yaml:"y"`
	Attrs       yaml.Node   `yaml:"attrs"`
	Children    []EntityDef `yaml:"children"`
}

// Active returns the startActive attribute, defaulting to true.
func (d *EntityDef) Active() bool {
	return d.StartActive == nil || *d.StartActive
}

// DecodeAttrs decodes the kind-specific attributes into out. Fields of out
// that are absent from the definition keep their current values, so callers
// prefill defaults. A definition without attrs leaves out untouched.
func (d *EntityDef) DecodeAttrs(out any) error {
	if d.Attrs.Kind == 0 {
		return nil
	}
	if err := d.Attrs.Decode(out); err != nil {
		return fmt.Errorf("decode %s attrs: %w", d.Type, err)
	}
	return nil
}

// LoadDirectory reads and validates a scene directory definition.
func LoadDirectory(fsys fs.FS, path string) (Directory, error) {
	var dir Directory
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return dir, fmt.Errorf("read scene directory %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &dir); err != nil {
		return dir, fmt.Errorf("parse scene directory %s: %w", path, err)
	}
	if dir.Start == "" {
		return dir, fmt.Errorf("scene directory %s: start: %w", path, ErrMissingAttribute)
	}
	for i, e := range dir.Scenes {
		if e.ID == "" || e.Path == "" {
			return dir, fmt.Errorf("scene directory %s: scenes[%d] needs id and path: %w", path, i, ErrMissingAttribute)
		}
	}
	return dir, nil
}

// LoadSceneDef reads a scene definition.
func LoadSceneDef(fsys fs.FS, path string) (*SceneDef, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	var def SceneDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return &def, nil
}
