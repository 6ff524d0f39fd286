package plan

import (
	"fmt"
	"strings"

	"github.com/syssam/fluentgen/schema"
)

// OperationKind is the variant of a builder Operation.
type OperationKind uint8

// Operation kinds.
const (
	DirectAssign OperationKind = iota + 1
	FlattenNestedFields
	DelegateToNestedBuilder
)

// String returns the name of the operation kind.
func (k OperationKind) String() string {
	switch k {
	case DirectAssign:
		return "assign"
	case FlattenNestedFields:
		return "flatten"
	case DelegateToNestedBuilder:
		return "delegate"
	default:
		return "unknown"
	}
}

type (
	// Plan is the compiled form of one struct's builder.
	Plan struct {
		// Struct the builder produces.
		Struct *schema.Struct
		// Operations in field declaration order, one per field.
		Operations []Operation
	}

	// Operation is a single fluent builder method.
	Operation struct {
		// Kind of the operation.
		Kind OperationKind
		// Field of the built struct the operation assigns.
		Field *schema.Field
		// Nested is the referenced struct for FlattenNestedFields and
		// DelegateToNestedBuilder.
		Nested *schema.Struct
		// SubFields are the nested fields exposed as setter parameters
		// for FlattenNestedFields, in the nested struct's declaration order.
		SubFields []*schema.Field
		// Method replaces the field name as the base of the setter name.
		// Renderers apply their own casing to it.
		Method string
	}
)

// Name returns the name of the built struct.
func (p *Plan) Name() string { return p.Struct.Name }

// Kinds returns the operation kinds in order.
func (p *Plan) Kinds() []OperationKind {
	kinds := make([]OperationKind, len(p.Operations))
	for i, op := range p.Operations {
		kinds[i] = op.Kind
	}
	return kinds
}

// Has reports whether the plan contains an operation of kind k.
func (p *Plan) Has(k OperationKind) bool {
	for _, op := range p.Operations {
		if op.Kind == k {
			return true
		}
	}
	return false
}

// String returns a readable listing of the plan, one operation per line.
func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", p.Struct.Name)
	for _, op := range p.Operations {
		fmt.Fprintf(&b, "  %s\n", op)
	}
	return b.String()
}

// SetterName returns the name renderers derive the setter name from:
// Method when set, the field name otherwise.
func (op Operation) SetterName() string {
	if op.Method != "" {
		return op.Method
	}
	return op.Field.Name
}

// String returns a one line description of the operation.
func (op Operation) String() string {
	if op.Method != "" {
		return op.describe() + " as " + op.Method
	}
	return op.describe()
}

func (op Operation) describe() string {
	switch op.Kind {
	case FlattenNestedFields:
		names := make([]string, len(op.SubFields))
		for i, f := range op.SubFields {
			names[i] = f.Name
		}
		return fmt.Sprintf("%s %s(%s) -> %s", op.Kind, op.Field.Name, strings.Join(names, ", "), op.Nested.Name)
	case DelegateToNestedBuilder:
		return fmt.Sprintf("%s %s(%sBuilder)", op.Kind, op.Field.Name, op.Nested.Name)
	default:
		return fmt.Sprintf("%s %s(%s)", op.Kind, op.Field.Name, op.Field.Type)
	}
}

// SubFieldNames returns the names of the flattened sub-fields.
func (op Operation) SubFieldNames() []string {
	names := make([]string, len(op.SubFields))
	for i, f := range op.SubFields {
		names[i] = f.Name
	}
	return names
}

// Partial reports whether a flattening operation exposes only some of the
// nested struct's fields.
func (op Operation) Partial() bool {
	return op.Kind == FlattenNestedFields && len(op.SubFields) < len(op.Nested.Fields)
}
