// Package nskind holds an immutable table that classifies namespace URIs by
// kind code (CORE, DOMAIN, XSD, ...). A table is built once per run and
// passed to whatever needs it, so concurrent runs share no mutable state.
package nskind

import (
	"errors"
	"fmt"
	"io"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/jacoelho/cmf/internal/vocab"
)

// Table maps namespace URIs to kind codes. The zero value is an empty table.
type Table struct {
	kinds map[string]string
}

// Entry is one row of a table file.
type Entry struct {
	URI  string `yaml:"uri" validate:"required,uri"`
	Kind string `yaml:"kind" validate:"required,uppercase"`
}

type tableFile struct {
	Namespaces []Entry `yaml:"namespaces"`
}

// New returns a table holding a copy of kinds.
func New(kinds map[string]string) *Table {
	return &Table{kinds: maps.Clone(kinds)}
}

// Default returns the table of meta namespaces every model may reference.
func Default() *Table {
	return New(map[string]string{
		vocab.XSDNamespace:        vocab.KindXSD,
		vocab.XMLNamespace:        vocab.KindXML,
		vocab.XSINamespace:        vocab.KindBuiltin,
		vocab.StructuresNamespace: vocab.KindBuiltin,
	})
}

// Load reads a YAML table of the form
//
//	namespaces:
//	  - uri: http://www.w3.org/2001/XMLSchema
//	    kind: XSD
func Load(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode namespace kind table: %w", err)
	}
	kinds := make(map[string]string, len(f.Namespaces))
	for i, e := range f.Namespaces {
		if e.URI == "" || e.Kind == "" {
			return nil, fmt.Errorf("namespace kind table entry %d: uri and kind are required", i)
		}
		if prev, ok := kinds[e.URI]; ok && prev != e.Kind {
			return nil, fmt.Errorf("namespace kind table: %s is both %s and %s", e.URI, prev, e.Kind)
		}
		kinds[e.URI] = e.Kind
	}
	return &Table{kinds: kinds}, nil
}

// With returns a new table that also maps uri to kind.
func (t *Table) With(uri, kind string) *Table {
	next := &Table{kinds: make(map[string]string, t.Len()+1)}
	if t != nil {
		maps.Copy(next.kinds, t.kinds)
	}
	next.kinds[uri] = kind
	return next
}

// Merge returns a new table with the rows of t overridden by the rows of other.
func (t *Table) Merge(other *Table) *Table {
	next := &Table{kinds: make(map[string]string, t.Len()+other.Len())}
	if t != nil {
		maps.Copy(next.kinds, t.kinds)
	}
	if other != nil {
		maps.Copy(next.kinds, other.kinds)
	}
	return next
}

// Kind returns the kind code of uri.
func (t *Table) Kind(uri string) (string, bool) {
	if t == nil {
		return "", false
	}
	kind, ok := t.kinds[uri]
	return kind, ok
}

// IsBuiltin reports whether uri is classified as a meta namespace.
func (t *Table) IsBuiltin(uri string) bool {
	kind, ok := t.Kind(uri)
	return ok && vocab.IsBuiltinKind(kind)
}

// Rows returns a copy of the table rows keyed by URI.
func (t *Table) Rows() map[string]string {
	out := make(map[string]string, t.Len())
	if t != nil {
		maps.Copy(out, t.kinds)
	}
	return out
}

// Len reports the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.kinds)
}
