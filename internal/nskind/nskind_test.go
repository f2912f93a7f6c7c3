package nskind

import (
	"strings"
	"testing"

	"github.com/jacoelho/cmf/internal/vocab"
)

func TestDefault(t *testing.T) {
	tbl := Default()
	if !tbl.IsBuiltin(vocab.XSDNamespace) {
		t.Fatalf("IsBuiltin(XSD) = false, want true")
	}
	if tbl.IsBuiltin("http://example/nc/") {
		t.Fatalf("IsBuiltin(nc) = true, want false")
	}
}

func TestLoad(t *testing.T) {
	tbl, err := Load(strings.NewReader(`
namespaces:
  - uri: http://example/nc/
    kind: CORE
  - uri: http://example/proxy/
    kind: BUILTIN
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if kind, ok := tbl.Kind("http://example/nc/"); !ok || kind != "CORE" {
		t.Fatalf("Kind(nc) = %q, %v, want CORE", kind, ok)
	}
	if !tbl.IsBuiltin("http://example/proxy/") {
		t.Fatalf("IsBuiltin(proxy) = false, want true")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"missing kind":  "namespaces:\n  - uri: http://example/\n",
		"unknown field": "namespaces:\n  - uri: http://example/\n    kind: CORE\n    extra: 1\n",
		"conflict":      "namespaces:\n  - {uri: http://a/, kind: CORE}\n  - {uri: http://a/, kind: DOMAIN}\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(input)); err == nil {
				t.Fatalf("Load() error = nil, want error")
			}
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	tbl, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tbl.Len())
	}
}

func TestWithLeavesOriginalUnchanged(t *testing.T) {
	base := Default()
	next := base.With("http://example/proxy/", vocab.KindBuiltin)
	if base.IsBuiltin("http://example/proxy/") {
		t.Fatalf("With() modified the receiver")
	}
	if !next.IsBuiltin("http://example/proxy/") || !next.IsBuiltin(vocab.XSDNamespace) {
		t.Fatalf("With() lost rows")
	}
	merged := base.Merge(New(map[string]string{vocab.XSDNamespace: vocab.KindCore}))
	if merged.IsBuiltin(vocab.XSDNamespace) {
		t.Fatalf("Merge() did not override")
	}
}

func TestRowsIsCopy(t *testing.T) {
	tbl := Default()
	rows := tbl.Rows()
	rows[vocab.XSDNamespace] = vocab.KindCore
	if !tbl.IsBuiltin(vocab.XSDNamespace) {
		t.Fatalf("Rows() shares storage with the table")
	}
	var empty *Table
	if got := empty.Rows(); got == nil || len(got) != 0 {
		t.Fatalf("nil Rows() = %v, want empty map", got)
	}
}
