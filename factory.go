package grove

import (
	"errors"
	"fmt"
	"hash/fnv"
)

// ErrUnknownType reports an entity definition whose type has no constructor.
var ErrUnknownType = errors.New("grove: unknown entity type")

// Constructor builds a behavior from a definition. A nil behavior is valid
// and produces a plain container-like entity of the registered kind.
type Constructor func(ctx *Context, def *EntityDef) (any, error)

type factoryEntry struct {
	name string
	kind EntityKind
	ctor Constructor
}

// Factory maps entity type names to constructors. Registration happens
// explicitly at startup (see RegisterBuiltins); entries are keyed by a hash
// of the type name.
type Factory struct {
	entries map[uint64]factoryEntry
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{entries: make(map[uint64]factoryEntry)}
}

// TypeHash returns the key a type name is registered under.
func TypeHash(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// Register adds a constructor for name. Registering the same name twice is an
// invariant violation: it panics in debug mode and returns an error otherwise.
func (f *Factory) Register(ctx *Context, name string, kind EntityKind, ctor Constructor) error {
	key := TypeHash(name)
	if prev, ok := f.entries[key]; ok {
		violation(ctx, "factory type %q already registered (hash shared with %q)", name, prev.name)
		return fmt.Errorf("register %q: duplicate type", name)
	}
	f.entries[key] = factoryEntry{name: name, kind: kind, ctor: ctor}
	return nil
}

// Has reports whether a constructor exists for name.
func (f *Factory) Has(name string) bool {
	_, ok := f.entries[TypeHash(name)]
	return ok
}

// Create builds the behavior for def and returns it with the registered kind.
func (f *Factory) Create(ctx *Context, def *EntityDef) (any, EntityKind, error) {
	if def.Type == "" {
		return nil, 0, fmt.Errorf("entity %q: type: %w", def.Tag, ErrMissingAttribute)
	}
	entry, ok := f.entries[TypeHash(def.Type)]
	if !ok {
		return nil, 0, fmt.Errorf("entity %q: %w %q", def.Tag, ErrUnknownType, def.Type)
	}
	if entry.ctor == nil {
		return nil, entry.kind, nil
	}
	b, err := entry.ctor(ctx, def)
	if err != nil {
		return nil, entry.kind, fmt.Errorf("create %s %q: %w", def.Type, def.Tag, err)
	}
	return b, entry.kind, nil
}
