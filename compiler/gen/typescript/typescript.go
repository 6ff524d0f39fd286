// Package typescript renders builder plans as TypeScript builder classes.
//
// Builders construct their value with the default factory of the types
// module, types.defaultDashboard() for a struct Dashboard.
package typescript

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
const Name = "typescript"

// DefaultPackage is the directory of the builders when none is configured.
const DefaultPackage = "builders"

// DefaultModels is the module holding the built types.
const DefaultModels = "./types.gen"

//go:embed builder.ts.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("builder.ts.tmpl").
	Funcs(template.FuncMap{
		"params":  params,
		"default": defaultValue,
	}).
	ParseFS(tmplFS, "builder.ts.tmpl"))

var reserved = gen.Reserved{
	Keywords: gen.Words(
		"break", "case", "catch", "class", "const", "continue", "debugger",
		"default", "delete", "do", "else", "enum", "export", "extends", "false",
		"finally", "for", "function", "if", "import", "in", "instanceof", "new",
		"null", "return", "super", "switch", "this", "throw", "true", "try",
		"typeof", "var", "void", "while", "with", "as", "implements", "interface",
		"let", "package", "private", "protected", "public", "static", "yield",
		"await", "cog", "types",
	),
	Members: gen.Words("build", "constructor", "internal"),
	Suffix:  "Val",
}

// Renderer renders TypeScript builders.
type Renderer struct {
	opts gen.TargetOptions
}

// New returns a TypeScript renderer.
func New(opts gen.TargetOptions) *Renderer {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	if opts.Models == "" {
		opts.Models = DefaultModels
	}
	return &Renderer{opts: opts}
}

// Name implements gen.Renderer.
func (r *Renderer) Name() string { return Name }

// Render implements gen.Renderer.
func (r *Renderer) Render(p *plan.Plan) (*gen.Fragment, error) {
	v, err := gen.Prepare(Name, p, resolver{}, reserved, r.opts)
	if err != nil {
		return nil, err
	}
	frag := &gen.Fragment{
		Path:     r.opts.Package + "/" + gen.LowerFirst(v.Builder) + ".gen.ts",
		Warnings: v.Warnings,
	}
	data := struct {
		*gen.View
		Types string
	}{View: v, Types: r.opts.Models}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "builder.ts.tmpl", data); err != nil {
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

// defaultValue returns the default factory call of a model type:
// types.Time => types.defaultTime().
func defaultValue(model string) string {
	pkg, name, found := strings.Cut(model, ".")
	if !found {
		return "default" + model + "()"
	}
	return pkg + ".default" + name + "()"
}

type resolver struct{}

func (resolver) ScalarType(k schema.ScalarKind) string {
	switch k {
	case schema.ScalarString, schema.ScalarBytes:
		return "string"
	case schema.ScalarBool:
		return "boolean"
	case schema.ScalarInt32, schema.ScalarInt64, schema.ScalarFloat32, schema.ScalarFloat64:
		return "number"
	default:
		return "any"
	}
}

func (resolver) ArrayType(elem string) string { return elem + "[]" }

func (resolver) MapType(key, value string) string { return "Record<" + key + ", " + value + ">" }

func (resolver) ModelType(name string) string { return "types." + name }

func (resolver) BuilderType(name string) string { return "cog.Builder<types." + name + ">" }

func (resolver) BuilderName(name string) string { return name + "Builder" }

func (resolver) MethodName(field string) string { return gen.LowerFirst(gen.Title(field)) }

func (resolver) ParamName(field string) string { return gen.LowerFirst(gen.Title(field)) }

func (resolver) PropertyName(field string) string { return field }
