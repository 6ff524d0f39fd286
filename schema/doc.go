// Package schema provides the language-neutral type graph consumed by the
// builder generator.
//
// A Schema is an ordered list of Struct definitions. Each Struct holds an
// ordered list of Field values, and each Field points at a TypeRef:
//
//   - Scalar: one of the built-in scalar kinds (string, bool, int32, ...)
//   - StructRef: a pre-resolved reference to another Struct
//   - Array: a list of some element TypeRef
//   - Map: a key TypeRef to value TypeRef mapping
//   - Unresolved: an opaque reference the front-end could not resolve
//
// The graph is immutable once loaded. Front-ends in compiler/load build it in
// two passes so that every StructRef points at its concrete Struct before the
// generator sees it; nothing in the generator looks types up by name.
//
// # Building a Schema by hand
//
//	timeRange := schema.NewStruct("Time",
//	    schema.NewField("from", schema.String()),
//	    schema.NewField("to", schema.String()),
//	)
//	someStruct := schema.NewStruct("SomeStruct",
//	    schema.NewField("time", schema.Ref(timeRange)).Require(),
//	)
//	s := schema.New("sandbox", someStruct, timeRange)
//	if err := s.Validate(); err != nil {
//	    // cyclic or malformed graph
//	}
//
// # Validation
//
// Validate reports graph-wide problems as *Error values matching
// ErrInvalidSchema: empty or duplicate names, StructRefs without a target,
// references to structs that are not part of the schema, and cycles.
// Unresolved references are not a schema error; the plan compiler reports
// them per field.
package schema
