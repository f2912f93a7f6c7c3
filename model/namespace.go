package model

import "github.com/jacoelho/cmf/internal/vocab"

// Namespace is a target namespace of the model.
type Namespace struct {
	ID NamespaceID
	// Prefix is the prefix assigned by the model's prefix registry.
	Prefix string
	// DeclaredPrefix is the prefix the namespace was first declared with.
	// It differs from Prefix when the declared prefix was munged.
	DeclaredPrefix     string
	URI                string
	Version            string
	Kind               string
	Language           string
	ConformanceTargets []string
	Documentation      []Text
	LocalTerms         []LocalTerm
	Augmentations      []AugmentRecord
	// ImportDocs holds documentation about imports, keyed by imported URI.
	ImportDocs map[string][]Text
}

// IsModelNamespace reports whether the namespace belongs to the model itself,
// as opposed to a builtin or meta namespace such as XML Schema.
func (n *Namespace) IsModelNamespace() bool {
	return !vocab.IsBuiltinKind(n.Kind)
}

// AddImportDoc appends documentation about the import of uri.
func (n *Namespace) AddImportDoc(uri string, docs ...Text) {
	if n.ImportDocs == nil {
		n.ImportDocs = make(map[string][]Text)
	}
	n.ImportDocs[uri] = append(n.ImportDocs[uri], docs...)
}
