package load

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/parser"

	"github.com/syssam/fluentgen/schema"
)

// cueLoader converts CUE definitions (#Time) and top-level structs into
// schema structs. Inline anonymous structs become structs named after
// their owner and field, as in DashboardTime.
type cueLoader struct {
	index  *structs
	values []cue.Value
	// order holds the structs in output order: each named struct followed
	// by the inline structs declared in its fields.
	order []*schema.Struct
}

func parseCUE(name string, data []byte) (*schema.Schema, error) {
	f, err := parser.ParseFile(name, data, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	v := cuecontext.New().BuildFile(f)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	l := &cueLoader{index: newStructs()}
	if err := l.declare(v); err != nil {
		return nil, err
	}
	for i, st := range l.index.list {
		l.order = append(l.order, st)
		if err := l.fill(st, l.values[i]); err != nil {
			return nil, err
		}
	}
	return schema.New(f.PackageName(), l.order...), nil
}

// declare registers every definition and every top-level struct field.
func (l *cueLoader) declare(v cue.Value) error {
	iter, err := v.Fields(cue.Definitions(true))
	if err != nil {
		return err
	}
	for iter.Next() {
		dv := iter.Value()
		if dv.IncompleteKind() != cue.StructKind {
			continue
		}
		if _, ok := reference(dv); ok && !iter.Selector().IsDefinition() {
			continue
		}
		st := l.index.declare(label(iter.Selector()))
		st.Comments = docComments(dv)
		l.values = append(l.values, dv)
	}
	return nil
}

// fill converts the fields of v into fields of st.
func (l *cueLoader) fill(st *schema.Struct, v cue.Value) error {
	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		return fmt.Errorf("struct %s: %w", st.Name, err)
	}
	for iter.Next() {
		name := label(iter.Selector())
		fv := iter.Value()
		typ, err := l.typeOf(st.Name, name, fv)
		if err != nil {
			return fmt.Errorf("struct %s field %s: %w", st.Name, name, err)
		}
		f := schema.NewField(name, typ).Comment(docComments(fv)...)
		f.Required = !iter.IsOptional()
		st.Fields = append(st.Fields, f)
	}
	return nil
}

func (l *cueLoader) typeOf(owner, field string, v cue.Value) (schema.TypeRef, error) {
	ref, hasRef := reference(v)
	if hasRef {
		if st, ok := l.index.lookup(ref); ok {
			return schema.Ref(st), nil
		}
	}
	kind := v.IncompleteKind() &^ cue.NullKind
	switch kind {
	case cue.StringKind:
		return schema.String(), nil
	case cue.BoolKind:
		return schema.Bool(), nil
	case cue.IntKind:
		return schema.Int64(), nil
	case cue.FloatKind, cue.NumberKind:
		return schema.Float64(), nil
	case cue.BytesKind:
		return schema.Scalar(schema.ScalarBytes), nil
	case cue.TopKind:
		return schema.Any(), nil
	case cue.ListKind:
		elem := v.LookupPath(cue.MakePath(cue.AnyIndex))
		if !elem.Exists() {
			return schema.ArrayOf(schema.Any()), nil
		}
		et, err := l.typeOf(owner, field, elem)
		if err != nil {
			return schema.TypeRef{}, err
		}
		return schema.ArrayOf(et), nil
	case cue.StructKind:
		return l.structType(owner, field, v)
	}
	// Disjunctions of several kinds have no single type.
	if hasRef {
		return schema.Unresolved(ref), nil
	}
	return schema.Unresolved(kind.String()), nil
}

func (l *cueLoader) structType(owner, field string, v cue.Value) (schema.TypeRef, error) {
	if st, ok := l.equivalent(v); ok {
		return schema.Ref(st), nil
	}
	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		return schema.TypeRef{}, err
	}
	if !iter.Next() {
		// [string]: T
		if elem := v.LookupPath(cue.MakePath(cue.AnyString)); elem.Exists() {
			et, err := l.typeOf(owner, field, elem)
			if err != nil {
				return schema.TypeRef{}, err
			}
			return schema.MapOf(schema.String(), et), nil
		}
		return schema.Any(), nil
	}
	st := schema.NewStruct(owner + upperFirst(field))
	l.order = append(l.order, st)
	if err := l.fill(st, v); err != nil {
		return schema.TypeRef{}, err
	}
	return schema.Ref(st), nil
}

// equivalent returns the named struct whose value is equivalent to v.
// It resolves list elements and pattern values that no longer carry
// their reference.
func (l *cueLoader) equivalent(v cue.Value) (*schema.Struct, bool) {
	for i, dv := range l.values {
		if dv.Subsume(v) == nil && v.Subsume(dv) == nil {
			return l.index.list[i], true
		}
	}
	return nil, false
}

// reference returns the name of the definition or field v refers to,
// looking through unifications such as #Time & {from: "now"}.
func reference(v cue.Value) (string, bool) {
	if _, path := v.ReferencePath(); len(path.Selectors()) > 0 {
		sels := path.Selectors()
		return label(sels[len(sels)-1]), true
	}
	if op, args := v.Expr(); op == cue.AndOp {
		for _, arg := range args {
			if name, ok := reference(arg); ok {
				return name, true
			}
		}
	}
	return "", false
}

// label returns the plain name of a selector: #Time => Time, from? => from.
func label(sel cue.Selector) string {
	name := strings.TrimRight(sel.String(), "?!")
	name = strings.TrimPrefix(name, "#")
	if s, err := strconv.Unquote(name); err == nil {
		return s
	}
	return name
}

func docComments(v cue.Value) []string {
	var lines []string
	for _, cg := range v.Doc() {
		lines = append(lines, comments(cg.Text())...)
	}
	return lines
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
