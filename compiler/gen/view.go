package gen

import (
	"slices"
	"strings"

	"github.com/syssam/fluentgen/compiler/plan"
	"github.com/syssam/fluentgen/schema"
)

// TypeResolver spells schema types and names in a target language.
// Template based renderers implement it and hand it to Prepare.
type TypeResolver interface {
	// ScalarType returns the type of a scalar kind.
	ScalarType(k schema.ScalarKind) string
	// ArrayType returns the type of a list of elem.
	ArrayType(elem string) string
	// MapType returns the type of a map from key to value.
	MapType(key, value string) string
	// ModelType returns the reference to the built type of a struct.
	ModelType(structName string) string
	// BuilderType returns the parameter type accepting the builder of a struct.
	BuilderType(structName string) string
	// BuilderName returns the name of the builder declared for a struct.
	BuilderName(structName string) string
	// MethodName returns the setter name of a field.
	MethodName(field string) string
	// ParamName returns the parameter name of a field.
	ParamName(field string) string
	// PropertyName returns the attribute name of a field on the built type.
	PropertyName(field string) string
}

// Reserved lists the identifiers a target cannot use as generated names.
type Reserved struct {
	// Keywords cannot be used as parameter names.
	Keywords map[string]struct{}
	// Members are the builder's own members and cannot be used as setters.
	Members map[string]struct{}
	// Suffix is appended to a reserved name.
	Suffix string
}

// View is the template data of one builder.
type View struct {
	Header   string
	Package  string
	Struct   string
	Builder  string
	Model    string
	Comments []string
	Methods  []Method
	Copy     bool
	Warnings []string
	// Imports collects target specific imports, keyed by import spec.
	Imports map[string]bool
}

// Method is one fluent setter.
type Method struct {
	Kind     string
	Name     string
	Field    string
	Property string
	Comments []string
	Params   []Param
	// Nested is the built type of the nested struct for flatten and
	// delegate methods.
	Nested string
	// Resource is the local variable holding a delegated build result.
	Resource string
}

// Param is a setter parameter and the property it is assigned to.
type Param struct {
	Name     string
	Type     string
	Property string
}

// ImportList returns the collected imports, sorted.
func (v *View) ImportList() []string {
	list := make([]string, 0, len(v.Imports))
	for imp := range v.Imports {
		list = append(list, imp)
	}
	slices.Sort(list)
	return list
}

// Uses reports whether any parameter type contains s.
func (v *View) Uses(s string) bool {
	for _, m := range v.Methods {
		for _, p := range m.Params {
			if strings.Contains(p.Type, s) {
				return true
			}
		}
	}
	return false
}

// Flatten reports whether m is a flattening setter.
func (m Method) Flatten() bool { return m.Kind == plan.FlattenNestedFields.String() }

// Delegate reports whether m takes a nested builder.
func (m Method) Delegate() bool { return m.Kind == plan.DelegateToNestedBuilder.String() }

// Prepare converts a plan into template data for the target.
func Prepare(target string, p *plan.Plan, r TypeResolver, reserved Reserved, opts TargetOptions) (*View, error) {
	v := &View{
		Header:   opts.Header,
		Package:  opts.Package,
		Struct:   p.Name(),
		Builder:  r.BuilderName(p.Name()),
		Model:    r.ModelType(p.Name()),
		Comments: p.Struct.Comments,
		Copy:     opts.Build == BuildCopy,
		Imports:  make(map[string]bool),
	}
	for _, op := range p.Operations {
		m := Method{
			Kind:     op.Kind.String(),
			Name:     v.escape(op.Field.Name, "setter", r.MethodName(op.SetterName()), reserved.Members, reserved.Suffix),
			Field:    op.Field.Name,
			Property: r.PropertyName(op.Field.Name),
			Comments: op.Field.Comments,
		}
		switch op.Kind {
		case plan.DirectAssign:
			m.Params = []Param{v.param(op.Field, r, reserved)}
		case plan.FlattenNestedFields:
			m.Nested = r.ModelType(op.Nested.Name)
			for _, sub := range op.SubFields {
				m.Params = append(m.Params, v.param(sub, r, reserved))
			}
		case plan.DelegateToNestedBuilder:
			m.Nested = r.ModelType(op.Nested.Name)
			param := v.param(op.Field, r, reserved)
			param.Type = r.BuilderType(op.Nested.Name)
			m.Params = []Param{param}
			m.Resource = param.Name + "Resource"
		default:
			return nil, NewUnsupportedTargetError(target, p.Name(), op.Field.Name, op.Kind.String(), "unknown operation")
		}
		v.Methods = append(v.Methods, m)
	}
	return v, nil
}

func (v *View) param(f *schema.Field, r TypeResolver, reserved Reserved) Param {
	return Param{
		Name:     v.escape(f.Name, "parameter", r.ParamName(f.Name), reserved.Keywords, reserved.Suffix),
		Type:     ResolveType(f.Type, r),
		Property: r.PropertyName(f.Name),
	}
}

func (v *View) escape(field, what, name string, reserved map[string]struct{}, suffix string) string {
	escaped, changed := Escape(name, suffix, reserved)
	if changed {
		v.Warnings = append(v.Warnings, "field "+field+": "+what+" renamed to "+escaped)
	}
	return escaped
}

// ResolveType spells t with r.
func ResolveType(t schema.TypeRef, r TypeResolver) string {
	switch t.Kind {
	case schema.KindScalar:
		return r.ScalarType(t.Scalar)
	case schema.KindStruct:
		return r.ModelType(t.Struct.Name)
	case schema.KindArray:
		return r.ArrayType(ResolveType(*t.Elem, r))
	case schema.KindMap:
		return r.MapType(ResolveType(*t.Key, r), ResolveType(*t.Elem, r))
	default:
		return r.ScalarType(schema.ScalarAny)
	}
}
