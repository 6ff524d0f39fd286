// Package golang renders builder plans as Go source using jennifer.
//
// For a struct Dashboard it emits DashboardBuilder, a constructor
// NewDashboardBuilder, one setter per field and a Build method:
//
//	link := golang.NewDashboardLinkBuilder().Title("Home").URL("/home")
//	d := golang.NewDashboardBuilder().
//		Time("now-6h", "now").
//		SingleLink(link).
//		Build()
//
// Struct-typed fields of the built types are pointers, nested struct
// values inside slices and maps are not.
package golang

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

// Name is the target name of the renderer.
const Name = "go"

// DefaultPackage is the package of the builders when none is configured.
const DefaultPackage = "builders"

// receiver is the receiver name of every builder method.
const receiver = "builder"

var (
	// keywords cannot be used as parameter names.
	keywords = gen.Words(
		"break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
		"map", "package", "range", "return", "select", "struct", "switch", "type",
		"var", receiver, "out", "v",
	)
	// members are the methods every builder declares.
	members = gen.Words("Build")
)

// Renderer renders Go builders.
type Renderer struct {
	opts gen.TargetOptions
}

// New returns a Go renderer.
func New(opts gen.TargetOptions) *Renderer {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	if opts.Header == "" {
		opts.Header = gen.DefaultHeader
	}
	return &Renderer{opts: opts}
}

// Name implements gen.Renderer.
func (r *Renderer) Name() string { return Name }

// Render implements gen.Renderer.
func (r *Renderer) Render(p *plan.Plan) (*gen.Fragment, error) {
	frag := &gen.Fragment{Path: gen.Snake(p.Name()) + "_builder.go"}
	b := &builder{Renderer: r, plan: p, frag: frag, name: builderName(p.Name())}
	f := jen.NewFile(r.opts.Package)
	f.HeaderComment(r.opts.Header)

	b.typeDecl(f)
	b.constructor(f)
	b.build(f)
	for _, op := range p.Operations {
		if err := b.setter(f, op); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, gen.NewGenerationError("render", frag.Path, "render Go source", err)
	}
	frag.Source = buf.Bytes()
	return frag, nil
}

func builderName(structName string) string {
	return structName + "Builder"
}

// builder holds the state of a single Render call.
type builder struct {
	*Renderer
	plan *plan.Plan
	frag *gen.Fragment
	name string
}

// model returns the built type with the given name.
func (r *Renderer) model(name string) *jen.Statement {
	if r.opts.Models != "" {
		return jen.Qual(r.opts.Models, name)
	}
	return jen.Id(name)
}

// internal returns builder.internal.<Field>.
func internal(field *schema.Field) *jen.Statement {
	return jen.Id(receiver).Dot("internal").Dot(gen.Pascal(field.Name))
}

func (b *builder) typeDecl(f *jen.File) {
	f.Commentf("%s builds %s values.", b.name, b.plan.Name())
	for _, line := range b.plan.Struct.Comments {
		f.Comment(line)
	}
	f.Type().Id(b.name).Struct(
		jen.Id("internal").Op("*").Add(b.model(b.plan.Name())),
	)
}

func (b *builder) constructor(f *jen.File) {
	f.Commentf("New%s returns a builder of an empty %s.", b.name, b.plan.Name())
	f.Func().Id("New"+b.name).Params().Op("*").Id(b.name).Block(
		jen.Return(jen.Op("&").Id(b.name).Values(jen.Dict{
			jen.Id("internal"): jen.Op("&").Add(b.model(b.plan.Name())).Values(),
		})),
	)
}

// build emits the terminal method. In copy mode the built value is
// detached from the builder: nested values held behind pointers, whether
// flattened or delegated, are copied.
func (b *builder) build(f *jen.File) {
	recv := jen.Id(receiver).Op("*").Id(b.name)
	if b.opts.Build == gen.BuildShared {
		f.Comment("Build returns the built value. The builder keeps a reference to it.")
		f.Func().Params(recv).Id("Build").Params().Op("*").Add(b.model(b.plan.Name())).Block(
			jen.Return(jen.Id(receiver).Dot("internal")),
		)
		return
	}
	body := []jen.Code{jen.Id("out").Op(":=").Op("*").Id(receiver).Dot("internal")}
	for _, op := range b.plan.Operations {
		if op.Kind != plan.FlattenNestedFields && op.Kind != plan.DelegateToNestedBuilder {
			continue
		}
		body = append(body, jen.If(internal(op.Field).Op("!=").Nil()).Block(
			jen.Id("v").Op(":=").Op("*").Add(internal(op.Field)),
			jen.Id("out").Dot(gen.Pascal(op.Field.Name)).Op("=").Op("&").Id("v"),
		))
	}
	body = append(body, jen.Return(jen.Id("out")))
	f.Comment("Build returns a copy of the built value.")
	f.Func().Params(recv).Id("Build").Params().Add(b.model(b.plan.Name())).Block(body...)
}

func (b *builder) setter(f *jen.File, op plan.Operation) error {
	method := b.methodName(op)
	var (
		params []jen.Code
		body   []jen.Code
	)
	switch op.Kind {
	case plan.DirectAssign:
		param := b.paramName(op.Field)
		params = append(params, jen.Id(param).Add(b.goType(op.Field.Type, true)))
		body = append(body, internal(op.Field).Op("=").Id(param))
		f.Commentf("%s sets the %s field.", method, op.Field.Name)
	case plan.FlattenNestedFields:
		body = append(body, jen.If(internal(op.Field).Op("==").Nil()).Block(
			internal(op.Field).Op("=").Op("&").Add(b.model(op.Nested.Name)).Values(),
		))
		for _, sub := range op.SubFields {
			param := b.paramName(sub)
			params = append(params, jen.Id(param).Add(b.goType(sub.Type, true)))
			body = append(body, internal(op.Field).Dot(gen.Pascal(sub.Name)).Op("=").Id(param))
		}
		f.Commentf("%s sets %s of the %s field.", method, joinNames(op.SubFieldNames()), op.Field.Name)
	case plan.DelegateToNestedBuilder:
		param := b.paramName(op.Field)
		params = append(params, jen.Id(param).Op("*").Id(builderName(op.Nested.Name)))
		if b.opts.Build == gen.BuildShared {
			body = append(body, internal(op.Field).Op("=").Id(param).Dot("Build").Call())
		} else {
			res := param + "Resource"
			body = append(body,
				jen.Id(res).Op(":=").Id(param).Dot("Build").Call(),
				internal(op.Field).Op("=").Op("&").Id(res),
			)
		}
		f.Commentf("%s sets the %s field to the value built by %s.", method, op.Field.Name, param)
	default:
		return gen.NewUnsupportedTargetError(Name, b.plan.Name(), op.Field.Name, op.Kind.String(), "unknown operation")
	}
	for _, line := range op.Field.Comments {
		f.Comment(line)
	}
	body = append(body, jen.Return(jen.Id(receiver)))
	f.Func().Params(jen.Id(receiver).Op("*").Id(b.name)).Id(method).Params(params...).Op("*").Id(b.name).Block(body...)
	return nil
}

func (b *builder) methodName(op plan.Operation) string {
	name, escaped := gen.Escape(gen.Pascal(op.SetterName()), "Val", members)
	if escaped {
		b.frag.Warnf("field %s: setter renamed to %s", op.Field.Name, name)
	}
	return name
}

func (b *builder) paramName(field *schema.Field) string {
	name, escaped := gen.Escape(gen.Camel(field.Name), "Val", keywords)
	if escaped {
		b.frag.Warnf("field %s: parameter renamed to %s", field.Name, name)
	}
	return name
}

// goType returns the Go type of t. Struct references are pointers when
// top is set, that is for fields, and values inside slices and maps.
func (r *Renderer) goType(t schema.TypeRef, top bool) jen.Code {
	switch t.Kind {
	case schema.KindScalar:
		return scalarType(t.Scalar)
	case schema.KindStruct:
		if top {
			return jen.Op("*").Add(r.model(t.Struct.Name))
		}
		return r.model(t.Struct.Name)
	case schema.KindArray:
		return jen.Index().Add(r.goType(*t.Elem, false))
	case schema.KindMap:
		return jen.Map(r.goType(*t.Key, false)).Add(r.goType(*t.Elem, false))
	default:
		return jen.Id("any")
	}
}

func scalarType(k schema.ScalarKind) jen.Code {
	switch k {
	case schema.ScalarString:
		return jen.String()
	case schema.ScalarBool:
		return jen.Bool()
	case schema.ScalarInt32:
		return jen.Int32()
	case schema.ScalarInt64:
		return jen.Int64()
	case schema.ScalarFloat32:
		return jen.Float32()
	case schema.ScalarFloat64:
		return jen.Float64()
	case schema.ScalarBytes:
		return jen.Index().Byte()
	default:
		return jen.Id("any")
	}
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		s := names[0]
		for _, n := range names[1 : len(names)-1] {
			s += ", " + n
		}
		return fmt.Sprintf("%s and %s", s, names[len(names)-1])
	}
}
