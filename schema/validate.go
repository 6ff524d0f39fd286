package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that the type graph is well formed and acyclic.
// All problems are reported, joined; each one matches ErrInvalidSchema.
func (s *Schema) Validate() error {
	if s == nil {
		return NewError("", "", "nil schema", nil)
	}
	members := make(map[*Struct]struct{}, len(s.Structs))
	seen := make(map[string]struct{}, len(s.Structs))
	var errs []error
	for i, st := range s.Structs {
		if st == nil {
			errs = append(errs, NewError("", "", fmt.Sprintf("struct #%d is nil", i), nil))
			continue
		}
		if st.Name == "" {
			errs = append(errs, NewError("", "", fmt.Sprintf("struct #%d has no name", i), nil))
		}
		if _, ok := seen[st.Name]; ok && st.Name != "" {
			errs = append(errs, NewError(st.Name, "", "duplicate struct name", nil))
		}
		seen[st.Name] = struct{}{}
		members[st] = struct{}{}
	}
	for _, st := range s.Structs {
		if st == nil {
			continue
		}
		errs = append(errs, validateStruct(st, members)...)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if cycle := findCycle(s.Structs); cycle != nil {
		return NewError(cycle[0], "", "cyclic type graph: "+strings.Join(cycle, " -> "), nil)
	}
	return nil
}

func validateStruct(st *Struct, members map[*Struct]struct{}) []error {
	var errs []error
	fields := make(map[string]struct{}, len(st.Fields))
	for i, f := range st.Fields {
		if f == nil {
			errs = append(errs, NewError(st.Name, "", fmt.Sprintf("field #%d is nil", i), nil))
			continue
		}
		if f.Name == "" {
			errs = append(errs, NewError(st.Name, "", fmt.Sprintf("field #%d has no name", i), nil))
		}
		if _, ok := fields[f.Name]; ok && f.Name != "" {
			errs = append(errs, NewError(st.Name, f.Name, "duplicate field name", nil))
		}
		fields[f.Name] = struct{}{}
		if err := ValidateType(f.Type); err != nil {
			errs = append(errs, NewError(st.Name, f.Name, "", err))
			continue
		}
		for _, ref := range structRefs(f.Type, nil) {
			if _, ok := members[ref]; !ok {
				errs = append(errs, NewError(st.Name, f.Name, fmt.Sprintf("references struct %s which is not part of the schema", ref.Name), nil))
			}
		}
	}
	for _, c := range st.Constraints {
		for _, name := range c.Fields {
			if _, ok := fields[name]; !ok {
				errs = append(errs, NewError(st.Name, name, fmt.Sprintf("constraint %q references an unknown field", c.Rule), nil))
			}
		}
	}
	return errs
}

// ValidateType checks the structural well-formedness of a single TypeRef.
// Unresolved references are well formed.
func ValidateType(t TypeRef) error {
	switch t.Kind {
	case KindScalar:
		if t.Scalar == ScalarInvalid || t.Scalar > ScalarAny {
			return errors.New("invalid scalar kind")
		}
	case KindStruct:
		if t.Struct == nil {
			return errors.New("struct reference without target")
		}
	case KindArray:
		if t.Elem == nil {
			return errors.New("array without element type")
		}
		return ValidateType(*t.Elem)
	case KindMap:
		if t.Key == nil || t.Elem == nil {
			return errors.New("map without key or value type")
		}
		if err := ValidateType(*t.Key); err != nil {
			return err
		}
		return ValidateType(*t.Elem)
	case KindUnresolved:
	default:
		return fmt.Errorf("invalid type kind %d", t.Kind)
	}
	return nil
}

// structRefs appends the structs referenced by t to refs.
func structRefs(t TypeRef, refs []*Struct) []*Struct {
	switch t.Kind {
	case KindStruct:
		if t.Struct != nil {
			refs = append(refs, t.Struct)
		}
	case KindArray:
		if t.Elem != nil {
			refs = structRefs(*t.Elem, refs)
		}
	case KindMap:
		if t.Key != nil {
			refs = structRefs(*t.Key, refs)
		}
		if t.Elem != nil {
			refs = structRefs(*t.Elem, refs)
		}
	}
	return refs
}

// findCycle returns the struct names of the first cycle found, with the
// first name repeated at the end, or nil. Traversal follows declaration
// order so the reported cycle is stable.
func findCycle(structs []*Struct) []string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[*Struct]int, len(structs))
	var stack []*Struct
	var cycle []string
	var visit func(st *Struct) bool
	visit = func(st *Struct) bool {
		color[st] = grey
		stack = append(stack, st)
		for _, f := range st.Fields {
			for _, ref := range structRefs(f.Type, nil) {
				switch color[ref] {
				case grey:
					start := 0
					for i, s := range stack {
						if s == ref {
							start = i
						}
					}
					for _, s := range stack[start:] {
						cycle = append(cycle, s.Name)
					}
					cycle = append(cycle, ref.Name)
					return true
				case white:
					if visit(ref) {
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[st] = black
		return false
	}
	for _, st := range structs {
		if color[st] == white && visit(st) {
			return cycle
		}
	}
	return nil
}
