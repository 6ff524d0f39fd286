package plan

import (
	"errors"
	"fmt"
	"maps"

	"github.com/syssam/fluentgen/schema"
)

// Compiler converts structs into builder plans.
type Compiler struct {
	resolver *Resolver
	renames  map[string]string
}

// NewCompiler returns a compiler using policy to resolve struct-typed
// fields. A nil policy selects DefaultPolicy.
func NewCompiler(policy Policy) *Compiler {
	return &Compiler{resolver: NewResolver(policy)}
}

// WithRenames sets the setter names of the fields addressed by the
// "Struct.field" selectors keying renames.
func (c *Compiler) WithRenames(renames map[string]string) *Compiler {
	c.renames = maps.Clone(renames)
	return c
}

// Compile returns the builder plan of st.
//
// A field that cannot be represented yields a FieldKindError; compilation
// continues so that every offending field is reported, and the joined errors
// are returned without a plan. A struct that cannot be traversed at all
// yields a schema error, which callers must treat as fatal.
func (c *Compiler) Compile(st *schema.Struct) (*Plan, error) {
	if st == nil {
		return nil, schema.NewError("", "", "nil struct", nil)
	}
	p := &Plan{
		Struct:     st,
		Operations: make([]Operation, 0, len(st.Fields)),
	}
	var errs []error
	setters := make(map[string]string, len(st.Fields))
	for i, f := range st.Fields {
		if f == nil {
			return nil, schema.NewError(st.Name, "", fmt.Sprintf("field #%d is nil", i), nil)
		}
		if err := schema.ValidateType(f.Type); err != nil {
			return nil, schema.NewError(st.Name, f.Name, "", err)
		}
		op, err := c.operation(st, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		op.Method = c.renames[Selector(st.Name, f.Name)]
		if prev, ok := setters[op.SetterName()]; ok {
			errs = append(errs, &DecisionError{
				Struct:  st.Name,
				Field:   f.Name,
				Message: fmt.Sprintf("setter name %q is already used by field %s", op.SetterName(), prev),
			})
			continue
		}
		setters[op.SetterName()] = f.Name
		p.Operations = append(p.Operations, op)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return p, nil
}

// CompileAll compiles every struct of s in declaration order. It stops at the
// first schema error; per-field errors are collected and joined.
func (c *Compiler) CompileAll(s *schema.Schema) ([]*Plan, error) {
	plans := make([]*Plan, 0, len(s.Structs))
	var errs []error
	for _, st := range s.Structs {
		p, err := c.Compile(st)
		switch {
		case schema.IsError(err):
			return nil, err
		case err != nil:
			errs = append(errs, err)
		default:
			plans = append(plans, p)
		}
	}
	return plans, errors.Join(errs...)
}

func (c *Compiler) operation(st *schema.Struct, f *schema.Field) (Operation, error) {
	if err := checkKind(f.Type); err != nil {
		return Operation{}, NewFieldKindError(st.Name, f.Name, f.Type.String(), err.Error())
	}
	switch f.Type.Kind {
	case schema.KindScalar, schema.KindArray, schema.KindMap:
		return Operation{Kind: DirectAssign, Field: f}, nil
	case schema.KindStruct:
		return c.resolver.Resolve(st, f)
	default:
		return Operation{}, NewFieldKindError(st.Name, f.Name, f.Type.String(), "no builder operation for kind "+f.Type.Kind.String())
	}
}

// checkKind rejects types no target can express: unresolved references
// and maps keyed by anything but strings and integers, at any depth.
func checkKind(t schema.TypeRef) error {
	if name, ok := t.Unresolved(); ok {
		return fmt.Errorf("unresolved reference %q has no builder representation", name)
	}
	switch {
	case t.Kind == schema.KindArray && t.Elem != nil:
		return checkKind(*t.Elem)
	case t.Kind == schema.KindMap && t.Key != nil && t.Elem != nil:
		if err := checkMapKey(*t.Key); err != nil {
			return err
		}
		return checkKind(*t.Elem)
	}
	return nil
}

// checkMapKey accepts string and integer scalar keys, the only key types
// every target can express.
func checkMapKey(key schema.TypeRef) error {
	if key.Kind == schema.KindScalar && (key.Scalar == schema.ScalarString || key.Scalar.Integer()) {
		return nil
	}
	return fmt.Errorf("map key %s is not a string or integer scalar", key)
}
