package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/fluentgen/compiler/plan"
)

// Renderer turns builder plans into source for one target language.
//
// Implementations are independent of each other and must be safe for
// concurrent use: the pipeline calls Render from several workers at once.
type Renderer interface {
	// Name is the target identifier, e.g. "go" or "python".
	Name() string
	// Render returns the builder source for p. Operations the target cannot
	// express are reported with an *UnsupportedTargetError.
	Render(p *plan.Plan) (*Fragment, error)
}

// Fragment is the output of a single Render call.
type Fragment struct {
	// Path of the file, relative to the target's output directory,
	// using forward slashes.
	Path string
	// Source of the builder.
	Source []byte
	// Warnings about identifiers that were renamed or similar
	// adjustments that did not prevent rendering.
	Warnings []string
}

// Warnf appends a formatted warning to the fragment.
func (f *Fragment) Warnf(format string, args ...any) {
	f.Warnings = append(f.Warnings, fmt.Sprintf(format, args...))
}

// BuildMode selects what a builder's terminal method returns.
type BuildMode uint8

// Build modes.
const (
	// BuildCopy returns a value independent of the builder: later setter
	// calls do not affect previously built values.
	BuildCopy BuildMode = iota
	// BuildShared returns the builder's internal instance.
	BuildShared
)

// String returns the name of the build mode.
func (m BuildMode) String() string {
	switch m {
	case BuildCopy:
		return "copy"
	case BuildShared:
		return "shared"
	default:
		return fmt.Sprintf("BuildMode(%d)", m)
	}
}

// ParseBuildMode parses "copy" or "shared".
func ParseBuildMode(s string) (BuildMode, error) {
	switch s {
	case "copy", "":
		return BuildCopy, nil
	case "shared":
		return BuildShared, nil
	default:
		return 0, NewConfigError("Build", s, "unknown build mode; use copy or shared")
	}
}

// Registry is an ordered table of renderers keyed by name.
// A Registry is not safe for concurrent registration, but lookups
// may run concurrently once it is populated.
type Registry struct {
	names     []string
	renderers map[string]Renderer
}

// NewRegistry returns a registry holding the given renderers, in order.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]Renderer, len(renderers))}
	for _, rd := range renderers {
		if err := r.Register(rd); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a renderer. Names must be unique.
func (r *Registry) Register(rd Renderer) error {
	if rd == nil {
		return NewConfigError("Renderer", nil, "renderer cannot be nil")
	}
	name := rd.Name()
	if name == "" {
		return NewConfigError("Renderer", nil, "renderer name cannot be empty")
	}
	if _, ok := r.renderers[name]; ok {
		return NewConfigError("Renderer", name, "renderer already registered")
	}
	r.names = append(r.names, name)
	r.renderers[name] = rd
	return nil
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (Renderer, bool) {
	rd, ok := r.renderers[name]
	return rd, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Select returns the named renderers in the given order, or all renderers
// in registration order when no name is given.
func (r *Registry) Select(names ...string) ([]Renderer, error) {
	if len(names) == 0 {
		names = r.names
	}
	selected := make([]Renderer, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		rd, ok := r.renderers[name]
		if !ok {
			return nil, NewConfigError("Targets", name, fmt.Sprintf("unknown target; available targets: %v", r.names))
		}
		seen[name] = true
		selected = append(selected, rd)
	}
	return selected, nil
}
