package load

import (
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/fluentgen/schema"
)

// graphqlScalars maps the built-in GraphQL scalars.
var graphqlScalars = map[string]schema.ScalarKind{
	"String":  schema.ScalarString,
	"ID":      schema.ScalarString,
	"Boolean": schema.ScalarBool,
	"Int":     schema.ScalarInt32,
	"Float":   schema.ScalarFloat64,
}

// parseGraphQL converts object and input types into structs. Enums are
// strings, custom scalars are any, and unions and interfaces have no
// struct shape so fields using them are Unresolved.
func parseGraphQL(name string, data []byte) (*schema.Schema, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: string(data)})
	if err != nil {
		return nil, err
	}
	defs := make(map[string]*ast.Definition, len(doc.Definitions))
	index := newStructs()
	var objects []*ast.Definition
	for _, def := range doc.Definitions {
		defs[def.Name] = def
		if def.Kind == ast.Object || def.Kind == ast.InputObject {
			st := index.declare(def.Name)
			st.Comments = comments(def.Description)
			objects = append(objects, def)
		}
	}
	// Fields of "extend type" definitions are appended to their type.
	extensions := make(map[string][]*ast.FieldDefinition)
	for _, ext := range doc.Extensions {
		extensions[ext.Name] = append(extensions[ext.Name], ext.Fields...)
	}
	for i, def := range objects {
		st := index.list[i]
		fields := append(slices.Clone([]*ast.FieldDefinition(def.Fields)), extensions[def.Name]...)
		for _, fd := range fields {
			f := schema.NewField(fd.Name, graphqlType(fd.Type, defs, index)).Comment(comments(fd.Description)...)
			f.Required = fd.Type.NonNull
			st.Fields = append(st.Fields, f)
		}
	}
	return schema.New("", index.list...), nil
}

func graphqlType(t *ast.Type, defs map[string]*ast.Definition, index *structs) schema.TypeRef {
	if t.Elem != nil {
		return schema.ArrayOf(graphqlType(t.Elem, defs, index))
	}
	if k, ok := graphqlScalars[t.NamedType]; ok {
		return schema.Scalar(k)
	}
	if st, ok := index.lookup(t.NamedType); ok {
		return schema.Ref(st)
	}
	def, ok := defs[t.NamedType]
	if !ok {
		return schema.Unresolved(t.NamedType)
	}
	switch def.Kind {
	case ast.Enum:
		return schema.String()
	case ast.Scalar:
		return schema.Any()
	default:
		return schema.Unresolved(t.NamedType)
	}
}
