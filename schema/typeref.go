package schema

import "strings"

// Kind is the variant of a TypeRef.
type Kind uint8

// TypeRef variants.
const (
	KindInvalid Kind = iota
	KindScalar
	KindStruct
	KindArray
	KindMap
	KindUnresolved
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindScalar:     "scalar",
	KindStruct:     "struct",
	KindArray:      "array",
	KindMap:        "map",
	KindUnresolved: "unresolved",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ScalarKind identifies a built-in scalar type.
type ScalarKind uint8

// Scalar kinds.
const (
	ScalarInvalid ScalarKind = iota
	ScalarString
	ScalarBool
	ScalarInt32
	ScalarInt64
	ScalarFloat32
	ScalarFloat64
	ScalarBytes
	ScalarAny
)

var scalarNames = [...]string{
	ScalarInvalid: "invalid",
	ScalarString:  "string",
	ScalarBool:    "bool",
	ScalarInt32:   "int32",
	ScalarInt64:   "int64",
	ScalarFloat32: "float32",
	ScalarFloat64: "float64",
	ScalarBytes:   "bytes",
	ScalarAny:     "any",
}

// String returns the schema name of the scalar kind.
func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return "invalid"
}

// Integer reports whether k is an integer kind.
func (k ScalarKind) Integer() bool {
	return k == ScalarInt32 || k == ScalarInt64
}

// ParseScalar returns the scalar kind with the given schema name.
func ParseScalar(name string) (ScalarKind, bool) {
	for k, n := range scalarNames {
		if n == name && ScalarKind(k) != ScalarInvalid {
			return ScalarKind(k), true
		}
	}
	return ScalarInvalid, false
}

// TypeRef describes the type of a field.
type TypeRef struct {
	// Kind is the variant of the reference.
	Kind Kind
	// Scalar is set for KindScalar.
	Scalar ScalarKind
	// Struct is set for KindStruct.
	Struct *Struct
	// Elem is the element type for KindArray, and the value type for KindMap.
	Elem *TypeRef
	// Key is the key type for KindMap.
	Key *TypeRef
	// Name is the unresolved reference for KindUnresolved.
	Name string
}

// Scalar returns a scalar type reference.
func Scalar(k ScalarKind) TypeRef { return TypeRef{Kind: KindScalar, Scalar: k} }

// String returns a string scalar reference.
func String() TypeRef { return Scalar(ScalarString) }

// Bool returns a bool scalar reference.
func Bool() TypeRef { return Scalar(ScalarBool) }

// Int32 returns an int32 scalar reference.
func Int32() TypeRef { return Scalar(ScalarInt32) }

// Int64 returns an int64 scalar reference.
func Int64() TypeRef { return Scalar(ScalarInt64) }

// Float64 returns a float64 scalar reference.
func Float64() TypeRef { return Scalar(ScalarFloat64) }

// Any returns an any scalar reference.
func Any() TypeRef { return Scalar(ScalarAny) }

// Ref returns a reference to the given struct.
func Ref(s *Struct) TypeRef { return TypeRef{Kind: KindStruct, Struct: s} }

// ArrayOf returns an array of elem.
func ArrayOf(elem TypeRef) TypeRef { return TypeRef{Kind: KindArray, Elem: &elem} }

// MapOf returns a map from key to value.
func MapOf(key, value TypeRef) TypeRef { return TypeRef{Kind: KindMap, Key: &key, Elem: &value} }

// Unresolved returns an opaque reference to name.
func Unresolved(name string) TypeRef { return TypeRef{Kind: KindUnresolved, Name: name} }

// IsScalar reports whether t is a scalar.
func (t TypeRef) IsScalar() bool { return t.Kind == KindScalar }

// IsStruct reports whether t is a struct reference.
func (t TypeRef) IsStruct() bool { return t.Kind == KindStruct }

// ReferencesStruct reports whether t is a struct reference, or an array or
// map whose elements reference a struct.
func (t TypeRef) ReferencesStruct() bool {
	switch t.Kind {
	case KindStruct:
		return true
	case KindArray, KindMap:
		return t.Elem != nil && t.Elem.ReferencesStruct()
	default:
		return false
	}
}

// Unresolved returns the first unresolved reference found in t.
func (t TypeRef) Unresolved() (string, bool) {
	switch t.Kind {
	case KindUnresolved:
		return t.Name, true
	case KindArray:
		if t.Elem != nil {
			return t.Elem.Unresolved()
		}
	case KindMap:
		if t.Key != nil {
			if name, ok := t.Key.Unresolved(); ok {
				return name, true
			}
		}
		if t.Elem != nil {
			return t.Elem.Unresolved()
		}
	}
	return "", false
}

// String returns the type expression of t, in the syntax accepted by the
// YAML front-end.
func (t TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	switch t.Kind {
	case KindScalar:
		b.WriteString(t.Scalar.String())
	case KindStruct:
		if t.Struct == nil {
			b.WriteString("<nil>")
			return
		}
		b.WriteString(t.Struct.Name)
	case KindArray:
		b.WriteString("[]")
		if t.Elem != nil {
			t.Elem.write(b)
		}
	case KindMap:
		b.WriteString("map[")
		if t.Key != nil {
			t.Key.write(b)
		}
		b.WriteString("]")
		if t.Elem != nil {
			t.Elem.write(b)
		}
	case KindUnresolved:
		b.WriteString("?")
		b.WriteString(t.Name)
	default:
		b.WriteString("invalid")
	}
}
