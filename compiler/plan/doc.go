// Package plan compiles a schema struct into a BuilderPlan: the ordered list
// of operations every target renderer turns into fluent builder methods.
//
// # Operations
//
//   - DirectAssign: scalar, array and map fields. The setter takes one value
//     of the field type and assigns it unchanged.
//   - FlattenNestedFields: a struct field whose nested struct is exposed as
//     setter parameters, e.g. time: {from, to} becomes Time(from, to).
//     The builder allocates the nested value on first use.
//   - DelegateToNestedBuilder: a struct field whose setter accepts the nested
//     type's own builder and stores its build result.
//
// # Flattening policy
//
// Which of the last two applies is decided by a Policy. DefaultPolicy
// flattens nested structs that can be default-constructed and assigned one
// field at a time: no struct-typed fields of their own, no unresolved
// types, no cross-field constraints. Overrides addresses individual fields
// ("Dashboard.refresh") and may restrict a flattening setter to a subset of
// the nested fields.
//
// # Guarantees
//
// A Plan holds exactly one Operation per field, in declaration order.
// Compile is a pure function of the struct and the policy: compiling the
// same struct twice yields equal plans, and Compiler values are safe for
// concurrent use.
package plan
