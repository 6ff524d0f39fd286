// Package targets holds the table of built-in target renderers.
package targets

import (
	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/gen/golang"
	"github.com/syssam/fluentgen/compiler/gen/java"
	"github.com/syssam/fluentgen/compiler/gen/php"
	"github.com/syssam/fluentgen/compiler/gen/python"
	"github.com/syssam/fluentgen/compiler/gen/typescript"
)

// Factory creates a renderer from its target options.
type Factory func(gen.TargetOptions) gen.Renderer

// builtin lists the built-in targets in registration order.
var builtin = []struct {
	name string
	new  Factory
}{
	{golang.Name, func(o gen.TargetOptions) gen.Renderer { return golang.New(o) }},
	{java.Name, func(o gen.TargetOptions) gen.Renderer { return java.New(o) }},
	{python.Name, func(o gen.TargetOptions) gen.Renderer { return python.New(o) }},
	{typescript.Name, func(o gen.TargetOptions) gen.Renderer { return typescript.New(o) }},
	{php.Name, func(o gen.TargetOptions) gen.Renderer { return php.New(o) }},
}

// Names returns the names of the built-in targets.
func Names() []string {
	names := make([]string, len(builtin))
	for i, b := range builtin {
		names[i] = b.name
	}
	return names
}

// Builtin returns a registry of the built-in renderers configured
// from cfg. A nil cfg uses the defaults.
func Builtin(cfg *gen.Config) (*gen.Registry, error) {
	if cfg == nil {
		var err error
		if cfg, err = gen.NewConfig(); err != nil {
			return nil, err
		}
	}
	reg, err := gen.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, b := range builtin {
		if err := reg.Register(b.new(cfg.Target(b.name))); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
