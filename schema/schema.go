package schema

import "slices"

type (
	// Schema is an ordered collection of struct definitions that belong to
	// one package.
	Schema struct {
		// Package is the name of the package the structs are defined in.
		// Renderers use it as the default namespace of the generated code.
		Package string
		// Structs holds the struct definitions in declaration order.
		Structs []*Struct
	}

	// Struct is a named structured type with ordered fields.
	Struct struct {
		// Name of the struct, as declared in the schema.
		Name string
		// Fields in declaration order.
		Fields []*Field
		// Comments attached to the struct definition.
		Comments []string
		// Constraints are cross-field rules declared on the struct.
		// A struct with constraints cannot be assigned field by field
		// without risking an invalid intermediate state.
		Constraints []Constraint
	}

	// Field is a single member of a Struct.
	Field struct {
		// Name of the field, as declared in the schema.
		Name string
		// Type of the field.
		Type TypeRef
		// Required reports whether the field must be set on the struct.
		Required bool
		// Comments attached to the field definition.
		Comments []string
	}

	// Constraint describes a rule spanning several fields of a struct,
	// for example "from <= to".
	Constraint struct {
		Fields []string `yaml:"fields"`
		Rule   string   `yaml:"rule"`
	}
)

// New returns a schema holding the given structs.
func New(pkg string, structs ...*Struct) *Schema {
	return &Schema{Package: pkg, Structs: structs}
}

// Lookup returns the struct with the given name, or nil.
func (s *Schema) Lookup(name string) *Struct {
	for _, st := range s.Structs {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// NewStruct returns a struct with the given fields.
func NewStruct(name string, fields ...*Field) *Struct {
	return &Struct{Name: name, Fields: fields}
}

// Field returns the field with the given name, or nil.
func (s *Struct) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// HasStructFields reports whether any field of s references another struct,
// directly or as an array element or map value.
func (s *Struct) HasStructFields() bool {
	return slices.ContainsFunc(s.Fields, func(f *Field) bool {
		return f.Type.ReferencesStruct()
	})
}

// RequiredFields returns the names of the required fields of s.
func (s *Struct) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// NewField returns an optional field of the given type.
func NewField(name string, typ TypeRef) *Field {
	return &Field{Name: name, Type: typ}
}

// Require marks the field as required and returns it.
func (f *Field) Require() *Field {
	f.Required = true
	return f
}

// Comment appends comment lines to the field and returns it.
func (f *Field) Comment(lines ...string) *Field {
	f.Comments = append(f.Comments, lines...)
	return f
}
