package plan

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/syssam/fluentgen/schema"
)

// Decision is the outcome of a Policy for one struct-typed field.
type Decision struct {
	// Kind is FlattenNestedFields or DelegateToNestedBuilder.
	Kind OperationKind
	// SubFields restricts a flattening setter to the named nested fields.
	// Empty means all of them.
	SubFields []string
}

// Flatten returns a flattening decision, optionally restricted to subFields.
func Flatten(subFields ...string) Decision {
	return Decision{Kind: FlattenNestedFields, SubFields: subFields}
}

// Delegate returns a delegation decision.
func Delegate() Decision {
	return Decision{Kind: DelegateToNestedBuilder}
}

// Policy decides how a struct-typed field is exposed on its owner's builder.
// Implementations must be deterministic and safe for concurrent use.
type Policy interface {
	Decide(owner *schema.Struct, field *schema.Field, nested *schema.Struct) Decision
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(owner *schema.Struct, field *schema.Field, nested *schema.Struct) Decision

// Decide calls f(owner, field, nested).
func (f PolicyFunc) Decide(owner *schema.Struct, field *schema.Field, nested *schema.Struct) Decision {
	return f(owner, field, nested)
}

// DefaultPolicy flattens nested structs that are safe to default-construct
// and fill in one field at a time, and delegates the rest.
type DefaultPolicy struct{}

// Decide implements Policy.
func (DefaultPolicy) Decide(_ *schema.Struct, _ *schema.Field, nested *schema.Struct) Decision {
	if Flattenable(nested) {
		return Flatten()
	}
	return Delegate()
}

// Flattenable reports whether nested can be allocated empty and assigned
// incrementally without breaking its own invariants: it has fields, none of
// them nests another struct or is unresolved, and it declares no cross-field
// constraints.
func Flattenable(nested *schema.Struct) bool {
	if nested == nil || len(nested.Fields) == 0 || len(nested.Constraints) > 0 {
		return false
	}
	for _, f := range nested.Fields {
		if f.Type.ReferencesStruct() {
			return false
		}
		if _, ok := f.Type.Unresolved(); ok {
			return false
		}
	}
	return true
}

// DelegateAll never flattens.
type DelegateAll struct{}

// Decide implements Policy.
func (DelegateAll) Decide(*schema.Struct, *schema.Field, *schema.Struct) Decision {
	return Delegate()
}

// Overrides applies per-field rules and falls back to another policy for
// fields no rule addresses. Rules are keyed by "Struct.field" selectors.
// Overrides must not be modified once handed to a Compiler.
type Overrides struct {
	fallback Policy
	flatten  map[string][]string
	delegate map[string]struct{}
}

// NewOverrides returns an empty rule set falling back to fallback, or to
// DefaultPolicy when fallback is nil.
func NewOverrides(fallback Policy) *Overrides {
	if fallback == nil {
		fallback = DefaultPolicy{}
	}
	return &Overrides{
		fallback: fallback,
		flatten:  make(map[string][]string),
		delegate: make(map[string]struct{}),
	}
}

// Flatten forces the selected field to be flattened, exposing only
// subFields when given.
func (o *Overrides) Flatten(selector string, subFields ...string) *Overrides {
	delete(o.delegate, selector)
	o.flatten[selector] = slices.Clone(subFields)
	return o
}

// Delegate forces the selected field to delegate to the nested builder.
func (o *Overrides) Delegate(selector string) *Overrides {
	delete(o.flatten, selector)
	o.delegate[selector] = struct{}{}
	return o
}

// Selectors returns the selectors of every rule, sorted.
func (o *Overrides) Selectors() []string {
	sels := slices.Collect(maps.Keys(o.flatten))
	sels = slices.AppendSeq(sels, maps.Keys(o.delegate))
	slices.Sort(sels)
	return sels
}

// Unmatched returns the selectors that address no field of s, or, when
// structOnly is set, no struct-typed field. Rules with such selectors are
// never applied, usually because of a typo.
func Unmatched(s *schema.Schema, selectors []string, structOnly bool) []string {
	var unmatched []string
	for _, sel := range selectors {
		structName, fieldName, err := ParseSelector(sel)
		if err != nil {
			unmatched = append(unmatched, sel)
			continue
		}
		var f *schema.Field
		if st := s.Lookup(structName); st != nil {
			f = st.Field(fieldName)
		}
		if f == nil || (structOnly && !f.Type.IsStruct()) {
			unmatched = append(unmatched, sel)
		}
	}
	return unmatched
}

// Len returns the number of rules.
func (o *Overrides) Len() int {
	return len(o.flatten) + len(o.delegate)
}

// Decide implements Policy.
func (o *Overrides) Decide(owner *schema.Struct, field *schema.Field, nested *schema.Struct) Decision {
	key := Selector(owner.Name, field.Name)
	if sub, ok := o.flatten[key]; ok {
		return Flatten(sub...)
	}
	if _, ok := o.delegate[key]; ok {
		return Delegate()
	}
	return o.fallback.Decide(owner, field, nested)
}

// Selector returns the rule selector addressing field of structName.
func Selector(structName, field string) string {
	return structName + "." + field
}

// ParseSelector splits a "Struct.field" selector.
func ParseSelector(selector string) (structName, field string, err error) {
	structName, field, found := strings.Cut(selector, ".")
	if !found || structName == "" || field == "" {
		return "", "", fmt.Errorf("selector %q is incorrect: expected Struct.field", selector)
	}
	return structName, field, nil
}

// Resolver turns policy decisions into operations.
type Resolver struct {
	policy Policy
}

// NewResolver returns a resolver consulting policy, or DefaultPolicy when
// policy is nil.
func NewResolver(policy Policy) *Resolver {
	if policy == nil {
		policy = DefaultPolicy{}
	}
	return &Resolver{policy: policy}
}

// Resolve returns the operation for a struct-typed field of owner.
func (r *Resolver) Resolve(owner *schema.Struct, field *schema.Field) (Operation, error) {
	nested := field.Type.Struct
	d := r.policy.Decide(owner, field, nested)
	switch d.Kind {
	case DelegateToNestedBuilder:
		return Operation{Kind: DelegateToNestedBuilder, Field: field, Nested: nested}, nil
	case FlattenNestedFields:
		sub, err := subFields(nested, d.SubFields)
		if err != nil {
			return Operation{}, &DecisionError{Struct: owner.Name, Field: field.Name, Message: err.Error()}
		}
		// A forced rule may flatten a struct Flattenable rejects.
		for _, f := range sub {
			if err := checkKind(f.Type); err != nil {
				return Operation{}, NewFieldKindError(owner.Name, field.Name, f.Type.String(),
					fmt.Sprintf("flattened field %s.%s: %s", nested.Name, f.Name, err))
			}
		}
		return Operation{Kind: FlattenNestedFields, Field: field, Nested: nested, SubFields: sub}, nil
	default:
		return Operation{}, &DecisionError{
			Struct:  owner.Name,
			Field:   field.Name,
			Message: fmt.Sprintf("policy returned %s for a struct field", d.Kind),
		}
	}
}

// subFields selects the named fields of nested in nested's declaration
// order, regardless of the order names are given in.
func subFields(nested *schema.Struct, names []string) ([]*schema.Field, error) {
	if len(names) == 0 {
		return slices.Clone(nested.Fields), nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if nested.Field(name) == nil {
			return nil, fmt.Errorf("struct %s has no field %q", nested.Name, name)
		}
		want[name] = true
	}
	fields := make([]*schema.Field, 0, len(names))
	for _, f := range nested.Fields {
		if want[f.Name] {
			fields = append(fields, f)
		}
	}
	return fields, nil
}
