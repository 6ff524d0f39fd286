// Package python renders builder plans as Python builder classes.
package python

import (
	"bytes"
	"embed"
	"maps"
	"strings"
	"text/template"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

// Name is the target name of the renderer.
const Name = "python"

// DefaultModels is the models module when neither a models module nor a
// package is configured.
const DefaultModels = "models"

//go:embed builder.py.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("builder.py.tmpl").
	Funcs(template.FuncMap{"params": params}).
	ParseFS(tmplFS, "builder.py.tmpl"))

// keywords are Python keywords, builtins commonly used as field names
// and names the generated module imports.
var keywords = gen.Words(
	"False", "None", "True", "and", "as", "assert", "async", "await", "break",
	"class", "continue", "def", "del", "elif", "else", "except", "finally",
	"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "raise", "return", "try", "while", "with", "yield",
	"id", "type", "list", "dict", "str", "int", "float", "bool", "bytes",
	"object", "filter", "map", "format", "hash", "len", "max", "min", "range",
	"set", "sum", "input", "print", "copy", "typing", "cogbuilder", "self",
)

var reserved = gen.Reserved{
	Keywords: keywords,
	Members:  members(),
	Suffix:   "_val",
}

func members() map[string]struct{} {
	m := maps.Clone(keywords)
	m["build"] = struct{}{}
	return m
}

// Renderer renders Python builders.
type Renderer struct {
	opts gen.TargetOptions
}

// New returns a Python renderer. The built types are imported from the
// models module named by opts.Models, or by opts.Package.
func New(opts gen.TargetOptions) *Renderer {
	if opts.Models == "" {
		opts.Models = opts.Package
	}
	if opts.Models == "" {
		opts.Models = DefaultModels
	}
	opts.Package = opts.Models
	return &Renderer{opts: opts}
}

// Name implements gen.Renderer.
func (r *Renderer) Name() string { return Name }

// Render implements gen.Renderer.
func (r *Renderer) Render(p *plan.Plan) (*gen.Fragment, error) {
	v, err := gen.Prepare(Name, p, resolver{module: r.opts.Models}, reserved, r.opts)
	if err != nil {
		return nil, err
	}
	frag := &gen.Fragment{
		Path:     "builders/" + gen.Snake(p.Name()) + ".py",
		Warnings: v.Warnings,
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "builder.py.tmpl", v); err != nil {
		return nil, gen.NewGenerationError("render", frag.Path, "execute template", err)
	}
	frag.Source = buf.Bytes()
	return frag, nil
}

func params(ps []gen.Param) string {
	list := make([]string, len(ps))
	for i, p := range ps {
		list[i] = p.Name + ": " + p.Type
	}
	return strings.Join(list, ", ")
}

type resolver struct {
	module string
}

func (resolver) ScalarType(k schema.ScalarKind) string {
	switch k {
	case schema.ScalarString:
		return "str"
	case schema.ScalarBool:
		return "bool"
	case schema.ScalarInt32, schema.ScalarInt64:
		return "int"
	case schema.ScalarFloat32, schema.ScalarFloat64:
		return "float"
	case schema.ScalarBytes:
		return "bytes"
	default:
		return "object"
	}
}

func (resolver) ArrayType(elem string) string { return "list[" + elem + "]" }

func (resolver) MapType(key, value string) string { return "dict[" + key + ", " + value + "]" }

func (r resolver) ModelType(name string) string { return r.module + "." + name }

func (r resolver) BuilderType(name string) string {
	return "cogbuilder.Builder[" + r.ModelType(name) + "]"
}

func (resolver) BuilderName(name string) string { return name }

func (resolver) MethodName(field string) string { return gen.Snake(field) }

func (resolver) ParamName(field string) string { return gen.Snake(field) }

func (resolver) PropertyName(field string) string {
	name, _ := gen.Escape(gen.Snake(field), reserved.Suffix, keywords)
	return name
}
