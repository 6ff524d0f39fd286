package gen

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

// Pipeline drives a schema through the compiler and the configured
// renderers.
type Pipeline struct {
	compiler  *plan.Compiler
	policy    plan.Policy
	renames   map[string]string
	renderers []Renderer
	workers   int
	log       *slog.Logger
}

// NewPipeline returns a pipeline rendering the targets selected by cfg
// from reg. A nil cfg uses the defaults.
func NewPipeline(cfg *Config, reg *Registry) (*Pipeline, error) {
	if cfg == nil {
		cfg = defaultConfig()
	}
	if reg == nil {
		return nil, NewConfigError("Registry", nil, "registry cannot be nil")
	}
	renderers, err := reg.Select(cfg.Targets...)
	if err != nil {
		return nil, err
	}
	if len(renderers) == 0 {
		return nil, NewConfigError("Targets", nil, "no target to render")
	}
	p := &Pipeline{
		compiler:  plan.NewCompiler(cfg.Policy).WithRenames(cfg.Renames),
		policy:    cfg.Policy,
		renames:   cfg.Renames,
		renderers: renderers,
		workers:   cfg.Workers,
		log:       cfg.Logger,
	}
	if p.workers <= 0 {
		p.workers = defaultConfig().Workers
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p, nil
}

// Targets returns the names of the rendered targets, in output order.
func (p *Pipeline) Targets() []string {
	names := make([]string, len(p.renderers))
	for i, r := range p.renderers {
		names[i] = r.Name()
	}
	return names
}

// renderSlot is the output of one (struct, target) task.
type renderSlot struct {
	fragment *Fragment
	err      error
}

// Run validates s, compiles every struct and renders it for every target.
//
// Schema errors abort the run: when validation fails nothing is rendered.
// Per-struct and per-target failures do not; they exclude the affected
// output and are reported as diagnostics. A fatal error raised while tasks
// are running cancels the remaining ones, and the artifacts completed so
// far are returned together with the error.
func (p *Pipeline) Run(ctx context.Context, s *schema.Schema) (*Result, error) {
	res := &Result{Run: uuid.NewString()}
	log := p.log.With("run", res.Run)
	if err := s.Validate(); err != nil {
		log.Error("schema validation failed", "error", err)
		return res, err
	}

	for _, d := range p.ruleDiagnostics(s) {
		log.Warn(d.Message, "struct", d.Struct, "field", d.Field)
		res.Diagnostics = append(res.Diagnostics, d)
	}

	plans, compileErrs, err := p.compile(ctx, s)
	if err != nil {
		log.Error("compilation aborted", "error", err)
		return res, err
	}

	slots := make([]renderSlot, len(s.Structs)*len(p.renderers))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for i, pl := range plans {
		if pl == nil {
			continue
		}
		for j, r := range p.renderers {
			slot := &slots[i*len(p.renderers)+j]
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				f, err := r.Render(pl)
				if schema.IsError(err) {
					return err
				}
				slot.fragment, slot.err = f, err
				return nil
			})
		}
	}
	waitErr := eg.Wait()

	for i, st := range s.Structs {
		if err := compileErrs[i]; err != nil {
			for _, d := range compileDiagnostics(st.Name, err) {
				log.Warn("struct excluded", "struct", st.Name, "field", d.Field, "error", d.Err)
				res.Diagnostics = append(res.Diagnostics, d)
			}
			continue
		}
		for j, r := range p.renderers {
			slot := slots[i*len(p.renderers)+j]
			switch {
			case slot.err != nil:
				d := renderDiagnostic(r.Name(), st.Name, slot.err)
				log.Warn("target excluded", "target", r.Name(), "struct", st.Name, "error", slot.err)
				res.Diagnostics = append(res.Diagnostics, d)
			case slot.fragment != nil:
				a := Artifact{
					Target: r.Name(),
					Struct: st.Name,
					Path:   slot.fragment.Path,
					Source: slot.fragment.Source,
				}
				for _, w := range slot.fragment.Warnings {
					a.Diagnostics = append(a.Diagnostics, Diagnostic{
						Severity: SeverityWarning,
						Target:   r.Name(),
						Struct:   st.Name,
						Message:  w,
					})
					log.Warn(w, "target", r.Name(), "struct", st.Name)
				}
				res.Diagnostics = append(res.Diagnostics, a.Diagnostics...)
				res.Artifacts = append(res.Artifacts, a)
				log.Debug("rendered builder", "target", a.Target, "struct", a.Struct, "path", a.Path)
			}
		}
	}
	if waitErr != nil {
		log.Error("rendering aborted", "error", waitErr, "artifacts", len(res.Artifacts))
		return res, waitErr
	}
	log.Info("generation finished",
		"structs", len(s.Structs),
		"targets", len(p.renderers),
		"artifacts", len(res.Artifacts),
		"diagnostics", len(res.Diagnostics),
	)
	return res, nil
}

// ruleDiagnostics warns about configured rules that address nothing in s:
// flattening rules on fields that are not struct-typed, and renames of
// fields that do not exist.
func (p *Pipeline) ruleDiagnostics(s *schema.Schema) []Diagnostic {
	var diags []Diagnostic
	warn := func(sel, msg string) {
		st, field, _ := plan.ParseSelector(sel)
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Struct:   st,
			Field:    field,
			Message:  msg,
		})
	}
	if o, ok := p.policy.(*plan.Overrides); ok {
		for _, sel := range plan.Unmatched(s, o.Selectors(), true) {
			warn(sel, fmt.Sprintf("flattening rule %s matches no struct-typed field", sel))
		}
	}
	renamed := slices.Sorted(maps.Keys(p.renames))
	for _, sel := range plan.Unmatched(s, renamed, false) {
		warn(sel, fmt.Sprintf("rename rule %s matches no field", sel))
	}
	return diags
}

// compile compiles every struct of s in parallel. Recoverable errors are
// stored per struct; a schema error is returned and stops the workers.
func (p *Pipeline) compile(ctx context.Context, s *schema.Schema) ([]*plan.Plan, []error, error) {
	plans := make([]*plan.Plan, len(s.Structs))
	errs := make([]error, len(s.Structs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for i, st := range s.Structs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pl, err := p.compiler.Compile(st)
			if schema.IsError(err) {
				return err
			}
			plans[i], errs[i] = pl, err
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return plans, errs, nil
}

// Plans compiles every struct of s without rendering. Structs that fail to
// compile are reported as diagnostics.
func (p *Pipeline) Plans(ctx context.Context, s *schema.Schema) ([]*plan.Plan, []Diagnostic, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	plans, errs, err := p.compile(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	var (
		compiled []*plan.Plan
		diags    []Diagnostic
	)
	for i, st := range s.Structs {
		if errs[i] != nil {
			diags = append(diags, compileDiagnostics(st.Name, errs[i])...)
			continue
		}
		compiled = append(compiled, plans[i])
	}
	return compiled, diags, nil
}
