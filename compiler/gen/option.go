package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"maps"

	"github.com/syssam/fluentgen/compiler/plan"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the default package of the generated builders.
// Targets without an explicit package option use it.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithOutput sets the output directory.
func WithOutput(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Output", nil, "output directory cannot be empty")
		}
		c.Output = dir
		return nil
	}
}

// WithWorkers sets the number of parallel compile and render workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithBuildMode sets what generated build methods return.
func WithBuildMode(mode BuildMode) Option {
	return func(c *Config) error {
		if mode != BuildCopy && mode != BuildShared {
			return NewConfigError("Build", mode, "unknown build mode")
		}
		c.Build = mode
		return nil
	}
}

// WithPolicy sets the flattening policy used to compile struct-typed fields.
func WithPolicy(p plan.Policy) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Policy", nil, "policy cannot be nil")
		}
		c.Policy = p
		return nil
	}
}

// WithRename names the setter of the field addressed by the "Struct.field"
// selector after name instead of the field. Each target applies its own
// casing to name.
func WithRename(selector, name string) Option {
	return func(c *Config) error {
		if _, _, err := plan.ParseSelector(selector); err != nil {
			return NewConfigError("Renames", selector, err.Error())
		}
		if !token.IsIdentifier(name) {
			return NewConfigError("Renames", name, "setter name must be an identifier")
		}
		if c.Renames == nil {
			c.Renames = make(map[string]string)
		}
		c.Renames[selector] = name
		return nil
	}
}

// WithTargets selects the targets to render, in order.
// Without it every registered target is rendered.
func WithTargets(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if name == "" {
				return NewConfigError("Targets", nil, "target name cannot be empty")
			}
		}
		c.Targets = append(c.Targets[:0:0], names...)
		return nil
	}
}

// WithTargetOptions sets the options of a single target.
func WithTargetOptions(target string, opts TargetOptions) Option {
	return func(c *Config) error {
		if target == "" {
			return NewConfigError("TargetOptions", nil, "target name cannot be empty")
		}
		if c.TargetOptions == nil {
			c.TargetOptions = make(map[string]TargetOptions)
		}
		c.TargetOptions[target] = opts
		return nil
	}
}

// WithAllTargetOptions merges per-target options into the config.
func WithAllTargetOptions(opts map[string]TargetOptions) Option {
	return func(c *Config) error {
		if c.TargetOptions == nil {
			c.TargetOptions = make(map[string]TargetOptions, len(opts))
		}
		maps.Copy(c.TargetOptions, opts)
		return nil
	}
}

// WithLogger sets the logger used by the pipeline and the writer.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
