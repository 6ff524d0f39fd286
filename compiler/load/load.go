// Package load reads schema files into a *schema.Schema.
//
// The format is chosen by file extension: YAML (.yaml, .yml), CUE (.cue)
// and GraphQL SDL (.graphql, .graphqls, .gql). Every front-end resolves
// struct references in two passes, so declaration order does not matter,
// and turns references it cannot resolve into Unresolved types.
package load

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/syssam/fluentgen/schema"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("load: unsupported schema format")

// Format is a schema file format.
type Format string

// Supported formats.
const (
	YAML    Format = "yaml"
	CUE     Format = "cue"
	GraphQL Format = "graphql"
)

// FormatOf returns the format of the file at path, from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".cue":
		return CUE, nil
	case ".graphql", ".graphqls", ".gql":
		return GraphQL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// File loads the schema file at path.
func File(path string) (*schema.Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	return Bytes(format, path, data)
}

// Bytes loads a schema of the given format. The name is used in error
// messages and, when the document does not name a package, as the
// package name.
func Bytes(format Format, name string, data []byte) (*schema.Schema, error) {
	var (
		s   *schema.Schema
		err error
	)
	switch format {
	case YAML:
		s, err = parseYAML(data)
	case CUE:
		s, err = parseCUE(name, data)
	case GraphQL:
		s, err = parseGraphQL(name, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if s.Package == "" {
		s.Package = packageName(name)
	}
	return s, nil
}

// packageName derives a package name from a file name.
func packageName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' && b.Len() > 0 {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "schema"
	}
	return b.String()
}

// structs is the first-pass index of named structs.
type structs struct {
	list   []*schema.Struct
	byName map[string]*schema.Struct
}

func newStructs() *structs {
	return &structs{byName: make(map[string]*schema.Struct)}
}

// declare registers a struct name. Redeclarations are kept so that the
// schema validation reports them.
func (s *structs) declare(name string) *schema.Struct {
	st := schema.NewStruct(name)
	s.list = append(s.list, st)
	if _, ok := s.byName[name]; !ok {
		s.byName[name] = st
	}
	return st
}

func (s *structs) lookup(name string) (*schema.Struct, bool) {
	st, ok := s.byName[name]
	return st, ok
}

// comments splits a description into trimmed, non-empty lines.
func comments(text string) []string {
	var lines []string
	for line := range strings.SplitSeq(strings.TrimSpace(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
