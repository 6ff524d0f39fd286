package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/fluentgen/schema"
)

// yamlSchema is the native schema document.
type yamlSchema struct {
	Package string       `yaml:"package"`
	Structs []yamlStruct `yaml:"structs"`
}

type yamlStruct struct {
	Name        string              `yaml:"name"`
	Comments    []string            `yaml:"comments"`
	Fields      []yamlField         `yaml:"fields"`
	Constraints []schema.Constraint `yaml:"constraints"`
}

type yamlField struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Required bool     `yaml:"required"`
	Comments []string `yaml:"comments"`
}

func parseYAML(data []byte) (*schema.Schema, error) {
	var doc yamlSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	index := newStructs()
	for _, ys := range doc.Structs {
		index.declare(ys.Name)
	}
	var errs []error
	for i, ys := range doc.Structs {
		st := index.list[i]
		st.Comments = ys.Comments
		st.Constraints = ys.Constraints
		for _, yf := range ys.Fields {
			typ, err := ParseType(yf.Type, index.lookup)
			if err != nil {
				errs = append(errs, fmt.Errorf("struct %s field %s: %w", ys.Name, yf.Name, err))
				continue
			}
			f := schema.NewField(yf.Name, typ).Comment(yf.Comments...)
			f.Required = yf.Required
			st.Fields = append(st.Fields, f)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return schema.New(doc.Package, index.list...), nil
}

// ParseType parses a type expression:
//
//	string | bool | int32 | int64 | float32 | float64 | bytes | any
//	[]T
//	map[K]V
//	StructName
//
// Struct names are resolved with lookup; names lookup does not know
// become Unresolved.
func ParseType(expr string, lookup func(string) (*schema.Struct, bool)) (schema.TypeRef, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return schema.TypeRef{}, errors.New("empty type expression")
	case strings.HasPrefix(expr, "[]"):
		elem, err := ParseType(expr[2:], lookup)
		if err != nil {
			return schema.TypeRef{}, err
		}
		return schema.ArrayOf(elem), nil
	case strings.HasPrefix(expr, "map["):
		key, value, ok := strings.Cut(expr[len("map["):], "]")
		if !ok {
			return schema.TypeRef{}, fmt.Errorf("type %q is incorrect: missing ] after map key", expr)
		}
		k, err := ParseType(key, lookup)
		if err != nil {
			return schema.TypeRef{}, err
		}
		v, err := ParseType(value, lookup)
		if err != nil {
			return schema.TypeRef{}, err
		}
		return schema.MapOf(k, v), nil
	}
	if k, ok := schema.ParseScalar(expr); ok {
		return schema.Scalar(k), nil
	}
	if strings.ContainsAny(expr, "[] \t") {
		return schema.TypeRef{}, fmt.Errorf("type %q is incorrect", expr)
	}
	if st, ok := lookup(expr); ok {
		return schema.Ref(st), nil
	}
	return schema.Unresolved(expr), nil
}
