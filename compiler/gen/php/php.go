// Package php renders builder plans as PHP builder classes.
//
// PHP builders do not flatten nested fields: a plan holding a flattening
// operation is rejected with an UnsupportedTargetError, so such fields must
// be delegated to a nested builder for this target.
package php

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

// Name is the target name of the renderer.
const Name = "php"

// DefaultNamespace is the root namespace when none is configured.
const DefaultNamespace = "App"

//go:embed builder.php.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("builder.php.tmpl").
	Funcs(template.FuncMap{"params": params}).
	ParseFS(tmplFS, "builder.php.tmpl"))

var reserved = gen.Reserved{
	Keywords: gen.Words("this"),
	Members:  gen.Words("build", "__construct"),
	Suffix:   "Val",
}

// Renderer renders PHP builders.
type Renderer struct {
	opts gen.TargetOptions
}

// New returns a PHP renderer. Builders live in the Builders namespace
// under opts.Namespace and build the classes of opts.Models, which
// defaults to the Models namespace.
func New(opts gen.TargetOptions) *Renderer {
	opts.Namespace = strings.Trim(opts.Namespace, `\`)
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	opts.Models = strings.Trim(opts.Models, `\`)
	if opts.Models == "" {
		opts.Models = opts.Namespace + `\Models`
	}
	return &Renderer{opts: opts}
}

// Name implements gen.Renderer.
func (r *Renderer) Name() string { return Name }

// Render implements gen.Renderer.
func (r *Renderer) Render(p *plan.Plan) (*gen.Fragment, error) {
	for _, op := range p.Operations {
		if op.Kind == plan.FlattenNestedFields {
			return nil, gen.NewUnsupportedTargetError(Name, p.Name(), op.Field.Name, op.Kind.String(),
				"flattening setters are not emitted, delegate the field to a nested builder")
		}
	}
	v, err := gen.Prepare(Name, p, resolver{namespace: r.opts.Namespace, models: r.opts.Models}, reserved, r.opts)
	if err != nil {
		return nil, err
	}
	frag := &gen.Fragment{
		Path:     "src/Builders/" + v.Builder + ".php",
		Warnings: v.Warnings,
	}
	data := struct {
		*gen.View
		Namespace string
	}{View: v, Namespace: r.opts.Namespace}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "builder.php.tmpl", data); err != nil {
		return nil, gen.NewGenerationError("render", frag.Path, "execute template", err)
	}
	frag.Source = buf.Bytes()
	return frag, nil
}

func params(ps []gen.Param) string {
	list := make([]string, len(ps))
	for i, p := range ps {
		list[i] = p.Type + " $" + p.Name
	}
	return strings.Join(list, ", ")
}

type resolver struct {
	namespace string
	models    string
}

func (resolver) ScalarType(k schema.ScalarKind) string {
	switch k {
	case schema.ScalarString, schema.ScalarBytes:
		return "string"
	case schema.ScalarBool:
		return "bool"
	case schema.ScalarInt32, schema.ScalarInt64:
		return "int"
	case schema.ScalarFloat32, schema.ScalarFloat64:
		return "float"
	default:
		return "mixed"
	}
}

// PHP has no typed collections; lists and maps are both arrays.
func (resolver) ArrayType(string) string { return "array" }

func (resolver) MapType(_, _ string) string { return "array" }

func (r resolver) ModelType(name string) string { return `\` + r.models + `\` + name }

func (r resolver) BuilderType(string) string { return `\` + r.namespace + `\Cog\Builder` }

func (resolver) BuilderName(name string) string { return name + "Builder" }

func (resolver) MethodName(field string) string { return gen.LowerFirst(gen.Title(field)) }

func (resolver) ParamName(field string) string { return gen.LowerFirst(gen.Title(field)) }

func (resolver) PropertyName(field string) string { return field }
