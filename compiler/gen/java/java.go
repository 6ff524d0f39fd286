// Package java renders builder plans as Java builder classes.
package java

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
const Name = "java"

// DefaultPackage is the package of the builders when none is configured.
const DefaultPackage = "builders"

//go:embed builder.java.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("builder.java.tmpl").
	Funcs(template.FuncMap{"params": params}).
	ParseFS(tmplFS, "builder.java.tmpl"))

var reserved = gen.Reserved{
	Keywords: gen.Words(
		"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
		"class", "const", "continue", "default", "do", "double", "else", "enum",
		"extends", "false", "final", "finally", "float", "for", "goto", "if",
		"implements", "import", "instanceof", "int", "interface", "long", "native",
		"new", "null", "package", "private", "protected", "public", "record",
		"return", "short", "static", "strictfp", "super", "switch", "synchronized",
		"this", "throw", "throws", "transient", "true", "try", "var", "void",
		"volatile", "while", "yield",
	),
	Members: gen.Words("build"),
	Suffix:  "Val",
}

// Renderer renders Java builders.
type Renderer struct {
	opts gen.TargetOptions
}

// New returns a Java renderer.
func New(opts gen.TargetOptions) *Renderer {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	return &Renderer{opts: opts}
}

// Name implements gen.Renderer.
func (r *Renderer) Name() string { return Name }

// Render implements gen.Renderer.
func (r *Renderer) Render(p *plan.Plan) (*gen.Fragment, error) {
	v, err := gen.Prepare(Name, p, resolver{models: r.opts.Models}, reserved, r.opts)
	if err != nil {
		return nil, err
	}
	if v.Uses("List<") {
		v.Imports["java.util.List"] = true
	}
	if v.Uses("Map<") {
		v.Imports["java.util.Map"] = true
	}
	if v.Copy {
		v.Imports["com.fasterxml.jackson.core.JsonProcessingException"] = true
		v.Imports["com.fasterxml.jackson.databind.ObjectMapper"] = true
	}
	frag := &gen.Fragment{
		Path:     strings.ReplaceAll(r.opts.Package, ".", "/") + "/" + v.Builder + ".java",
		Warnings: v.Warnings,
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "builder.java.tmpl", v); err != nil {
		return nil, gen.NewGenerationError("render", frag.Path, "execute template", err)
	}
	frag.Source = buf.Bytes()
	return frag, nil
}

func params(ps []gen.Param) string {
	list := make([]string, len(ps))
	for i, p := range ps {
		list[i] = p.Type + " " + p.Name
	}
	return strings.Join(list, ", ")
}

type resolver struct {
	models string
}

func (resolver) ScalarType(k schema.ScalarKind) string {
	switch k {
	case schema.ScalarString:
		return "String"
	case schema.ScalarBool:
		return "Boolean"
	case schema.ScalarInt32:
		return "Integer"
	case schema.ScalarInt64:
		return "Long"
	case schema.ScalarFloat32:
		return "Float"
	case schema.ScalarFloat64:
		return "Double"
	case schema.ScalarBytes:
		return "byte[]"
	default:
		return "Object"
	}
}

func (resolver) ArrayType(elem string) string { return "List<" + elem + ">" }

func (resolver) MapType(key, value string) string { return "Map<" + key + ", " + value + ">" }

func (r resolver) ModelType(name string) string {
	if r.models != "" {
		return r.models + "." + name
	}
	return name
}

func (r resolver) BuilderType(name string) string { return "cog.Builder<" + r.ModelType(name) + ">" }

func (resolver) BuilderName(name string) string { return name + "Builder" }

func (resolver) MethodName(field string) string { return "set" + gen.Title(field) }

func (resolver) ParamName(field string) string { return gen.LowerFirst(gen.Title(field)) }

func (resolver) PropertyName(field string) string {
	name, _ := gen.Escape(gen.LowerFirst(gen.Title(field)), reserved.Suffix, reserved.Keywords)
	return name
}
