package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/fluentgen/compiler/plan"
)

// Severity of a Diagnostic.
type Severity uint8

// Severity levels.
const (
	// SeverityWarning marks an adjustment that did not prevent generation.
	SeverityWarning Severity = iota + 1
	// SeverityError marks a failure that excluded output.
	SeverityError
)

// String returns the name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic records a recoverable failure or a warning.
type Diagnostic struct {
	Severity Severity
	// Target is empty when the diagnostic applies to every target,
	// as for compile failures.
	Target  string
	Struct  string
	Field   string
	Message string
	// Err is the underlying error, nil for warnings.
	Err error
}

// String returns a one line description of the diagnostic.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	if d.Target != "" {
		fmt.Fprintf(&b, " [%s]", d.Target)
	}
	if d.Struct != "" {
		b.WriteString(" ")
		b.WriteString(d.Struct)
		if d.Field != "" {
			b.WriteString(".")
			b.WriteString(d.Field)
		}
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Artifact is the builder source of one struct for one target.
type Artifact struct {
	Target string
	Struct string
	// Path of the file relative to the target's output directory.
	Path        string
	Source      []byte
	Diagnostics []Diagnostic
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Run identifies the pipeline run.
	Run string
	// Artifacts in struct declaration order, then configured target order.
	Artifacts []Artifact
	// Diagnostics of every struct and target, in the same order.
	Diagnostics []Diagnostic
}

// Errors returns the error diagnostics.
func (r *Result) Errors() []Diagnostic {
	var diags []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			diags = append(diags, d)
		}
	}
	return diags
}

// Artifact returns the artifact of structName for target.
func (r *Result) Artifact(target, structName string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Target == target && a.Struct == structName {
			return a, true
		}
	}
	return Artifact{}, false
}

// compileDiagnostics converts the joined compile errors of a struct into
// diagnostics, one per field.
func compileDiagnostics(structName string, err error) []Diagnostic {
	errs := plan.FieldErrors(err)
	diags := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		d := Diagnostic{Severity: SeverityError, Struct: structName, Message: e.Error(), Err: e}
		var (
			kindErr     *plan.FieldKindError
			decisionErr *plan.DecisionError
		)
		switch {
		case errors.As(e, &kindErr):
			d.Field = kindErr.Field
		case errors.As(e, &decisionErr):
			d.Field = decisionErr.Field
		}
		diags = append(diags, d)
	}
	return diags
}

// renderDiagnostic converts a render failure into a diagnostic.
func renderDiagnostic(target, structName string, err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Target: target, Struct: structName, Message: err.Error(), Err: err}
	var targetErr *UnsupportedTargetError
	if errors.As(err, &targetErr) {
		d.Field = targetErr.Field
	}
	return d
}
