package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/syssam/fluentgen/compiler/plan"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by fluentgen. DO NOT EDIT."

// Config holds the global codegen configuration shared by
// the pipeline, the renderers and the writer.
type Config struct {
	// Output is the root directory artifacts are written to.
	// Each target writes into its own subdirectory.
	Output string
	// Package is the default package of the generated builders,
	// usually the schema package.
	Package string
	// Header is the comment placed at the top of every generated file.
	Header string
	// Workers bounds the parallelism of compile and render tasks.
	Workers int
	// Build selects what generated build methods return.
	Build BuildMode
	// Policy decides between flattening and delegation.
	Policy plan.Policy
	// Renames maps "Struct.field" selectors to setter names.
	Renames map[string]string
	// Targets lists the targets to render. Empty means all registered.
	Targets []string
	// TargetOptions holds per-target settings keyed by target name.
	TargetOptions map[string]TargetOptions
	// Logger receives pipeline and writer events.
	Logger *slog.Logger
}

// TargetOptions configures a single target renderer.
type TargetOptions struct {
	// Package of the generated builders: a Go package name, a Java
	// package, or a TypeScript directory.
	Package string `yaml:"package"`
	// Namespace of the generated builders, used by PHP.
	Namespace string `yaml:"namespace"`
	// Models locates the built types: a Go import path, a Python module
	// or a PHP namespace. Empty means next to the builders.
	Models string `yaml:"models"`
	// Header is the comment placed at the top of every generated file.
	Header string `yaml:"-"`
	// Build selects what generated build methods return.
	Build BuildMode `yaml:"-"`
}

func defaultConfig() *Config {
	return &Config{
		Output:  "generated",
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
		Policy:  plan.DefaultPolicy{},
		Logger:  slog.Default(),
	}
}

// Target returns the options of the named target, completed with the
// global package, header and build mode.
func (c *Config) Target(name string) TargetOptions {
	opts := c.TargetOptions[name]
	if opts.Package == "" {
		opts.Package = c.Package
	}
	opts.Header = c.Header
	opts.Build = c.Build
	return opts
}

// fileConfig is the YAML representation of a Config.
type fileConfig struct {
	Output     string                   `yaml:"output"`
	Package    string                   `yaml:"package"`
	Header     *string                  `yaml:"header"`
	Workers    int                      `yaml:"workers"`
	Build      string                   `yaml:"build"`
	Targets    []string                 `yaml:"targets"`
	Flattening *flatteningConfig        `yaml:"flattening"`
	Rename     []renameRule             `yaml:"rename"`
	Options    map[string]TargetOptions `yaml:"options"`
}

type renameRule struct {
	// Field is a "Struct.field" selector.
	Field string `yaml:"field"`
	// Name replaces the field name in the setter name.
	Name string `yaml:"name"`
}

type flatteningConfig struct {
	// Mode is "auto" (the default policy) or "delegate" (never flatten).
	Mode     string        `yaml:"mode"`
	Flatten  []flattenRule `yaml:"flatten"`
	Delegate []string      `yaml:"delegate"`
}

type flattenRule struct {
	// Field is a "Struct.field" selector.
	Field string `yaml:"field"`
	// Fields restricts the setter to a subset of the nested fields.
	Fields []string `yaml:"fields"`
}

// LoadConfig reads the YAML configuration file at path and returns a
// Config built from it. Options given to LoadConfig are applied after the
// file, so they override its values.
func LoadConfig(path string, overrides ...Option) (*Config, error) {
	opts, err := LoadOptions(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(append(opts, overrides...)...)
}

// LoadOptions reads the YAML configuration file at path and converts it
// to options.
func LoadOptions(path string) ([]Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	opts, err := ParseOptions(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return opts, nil
}

// ParseOptions converts a YAML configuration document to options.
// Unknown keys are rejected.
func ParseOptions(data []byte) ([]Option, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	var opts []Option
	if fc.Output != "" {
		opts = append(opts, WithOutput(fc.Output))
	}
	if fc.Package != "" {
		opts = append(opts, WithPackage(fc.Package))
	}
	if fc.Header != nil {
		opts = append(opts, WithHeader(*fc.Header))
	}
	if fc.Workers != 0 {
		opts = append(opts, WithWorkers(fc.Workers))
	}
	if fc.Build != "" {
		mode, err := ParseBuildMode(fc.Build)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBuildMode(mode))
	}
	if len(fc.Targets) > 0 {
		opts = append(opts, WithTargets(fc.Targets...))
	}
	if fc.Flattening != nil {
		p, err := fc.Flattening.policy()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPolicy(p))
	}
	for _, r := range fc.Rename {
		opts = append(opts, WithRename(r.Field, r.Name))
	}
	if len(fc.Options) > 0 {
		opts = append(opts, WithAllTargetOptions(fc.Options))
	}
	return opts, nil
}

func (fc *flatteningConfig) policy() (plan.Policy, error) {
	var base plan.Policy
	switch fc.Mode {
	case "", "auto":
		base = plan.DefaultPolicy{}
	case "delegate":
		base = plan.DelegateAll{}
	default:
		return nil, NewConfigError("Flattening", fc.Mode, "unknown flattening mode; use auto or delegate")
	}
	if len(fc.Flatten) == 0 && len(fc.Delegate) == 0 {
		return base, nil
	}
	// The file has no rule order across the two lists, so a field may
	// appear in only one of them.
	overrides := plan.NewOverrides(base)
	flattened := make(map[string]struct{}, len(fc.Flatten))
	for _, r := range fc.Flatten {
		if _, _, err := plan.ParseSelector(r.Field); err != nil {
			return nil, NewConfigError("Flattening", r.Field, err.Error())
		}
		flattened[r.Field] = struct{}{}
		overrides.Flatten(r.Field, r.Fields...)
	}
	for _, sel := range fc.Delegate {
		if _, _, err := plan.ParseSelector(sel); err != nil {
			return nil, NewConfigError("Flattening", sel, err.Error())
		}
		if _, ok := flattened[sel]; ok {
			return nil, NewConfigError("Flattening", sel, "field is both flattened and delegated")
		}
		overrides.Delegate(sel)
	}
	return overrides, nil
}
