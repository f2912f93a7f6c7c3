// Package attach implements the protocol that applies a parsed child element
// to the entity under construction above it.
//
// Every (parent kind, child kind, element name) triple that may occur in a CMF
// document is a key in one of two rule tables. Parent rules are consulted
// first; generic component rules (Name, DocumentationText, DeprecatedIndicator,
// the owning Namespace) are parent rules shared by every component kind.
// When the parent has no rule, the child's rules are consulted: a reference
// knows how to attach itself to each parent that can hold it. A triple found
// in neither table is an error, never a silent no-op.
package attach

import (
	"fmt"

	"github.com/jacoelho/cmf/model"
)

// Kind is the kind of a node taking part in attachment.
type Kind uint8

const (
	KindModel Kind = iota + 1
	KindNamespace
	KindClass
	KindDataProperty
	KindObjectProperty
	KindDatatype
	KindRestriction
	KindUnion
	KindList
	KindAssociation
	KindAnyProperty
	KindAugmentation
	KindFacet
	KindLocalTerm
	KindCodeList
	KindImportDoc
	KindText
	KindNamespaceRef
	KindClassRef
	KindDataPropertyRef
	KindObjectPropertyRef
	KindDatatypeRef
	kindEnd
)

// AllKinds lists every node kind.
func AllKinds() []Kind {
	out := make([]Kind, 0, int(kindEnd)-1)
	for k := KindModel; k < kindEnd; k++ {
		out = append(out, k)
	}
	return out
}

var kindNames = [...]string{
	KindModel:             "Model",
	KindNamespace:         "Namespace",
	KindClass:             "Class",
	KindDataProperty:      "DataProperty",
	KindObjectProperty:    "ObjectProperty",
	KindDatatype:          "Datatype",
	KindRestriction:       "Restriction",
	KindUnion:             "Union",
	KindList:              "List",
	KindAssociation:       "ChildPropertyAssociation",
	KindAnyProperty:       "AnyProperty",
	KindAugmentation:      "AugmentationRecord",
	KindFacet:             "Facet",
	KindLocalTerm:         "LocalTerm",
	KindCodeList:          "CodeListBinding",
	KindImportDoc:         "ImportDocumentation",
	KindText:              "text",
	KindNamespaceRef:      "namespace reference",
	KindClassRef:          "class reference",
	KindDataPropertyRef:   "data property reference",
	KindObjectPropertyRef: "object property reference",
	KindDatatypeRef:       "datatype reference",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ComponentKind maps a component kind to the node kind of its definition.
func ComponentKind(k model.Kind) Kind {
	switch k {
	case model.KindClass:
		return KindClass
	case model.KindDataProperty:
		return KindDataProperty
	case model.KindObjectProperty:
		return KindObjectProperty
	case model.KindDatatype:
		return KindDatatype
	case model.KindRestriction:
		return KindRestriction
	case model.KindUnion:
		return KindUnion
	case model.KindList:
		return KindList
	default:
		return 0
	}
}

// RefKind maps a component kind to the node kind of a reference to it.
// Every datatype variant is referenced as a datatype.
func RefKind(k model.Kind) Kind {
	switch {
	case k == model.KindClass:
		return KindClassRef
	case k == model.KindDataProperty:
		return KindDataPropertyRef
	case k == model.KindObjectProperty:
		return KindObjectPropertyRef
	case k.IsDatatype():
		return KindDatatypeRef
	default:
		return 0
	}
}

// Node is one entity taking part in attachment. The set of implementations
// is closed.
type Node interface {
	Kind() Kind
	node()
}

// ModelNode is the document root.
type ModelNode struct{}

// NamespaceNode is a namespace definition being populated.
type NamespaceNode struct {
	NS *model.Namespace
}

// ComponentNode is a component definition being populated.
type ComponentNode struct {
	C model.Component
}

// RefNode is a resolved reference to a component or, when Target is nil, a namespace.
type RefNode struct {
	Target model.Component
	NS     *model.Namespace
}

// TextNode is the trimmed text of a leaf element with its inherited language.
type TextNode struct {
	Text string
	Lang string
}

// AssociationNode is a ChildPropertyAssociation under construction.
type AssociationNode struct {
	Value model.PropertyAssociation
}

// AnyNode is an AnyProperty under construction.
type AnyNode struct {
	Value model.AnyProperty
}

// AugmentNode is an AugmentationRecord under construction.
type AugmentNode struct {
	Value model.AugmentRecord
}

// FacetNode is a Facet under construction.
type FacetNode struct {
	Value model.Facet
}

// TermNode is a LocalTerm under construction.
type TermNode struct {
	Value model.LocalTerm
}

// CodeListNode is a CodeListBinding under construction.
type CodeListNode struct {
	Value model.CodeListBinding
}

// ImportDocNode is documentation about one imported namespace.
type ImportDocNode struct {
	URI  string
	Docs []model.Text
}

func (*ModelNode) Kind() Kind       { return KindModel }
func (*NamespaceNode) Kind() Kind   { return KindNamespace }
func (n *ComponentNode) Kind() Kind { return ComponentKind(n.C.Kind()) }
func (*TextNode) Kind() Kind        { return KindText }
func (*AssociationNode) Kind() Kind { return KindAssociation }
func (*AnyNode) Kind() Kind         { return KindAnyProperty }
func (*AugmentNode) Kind() Kind     { return KindAugmentation }
func (*FacetNode) Kind() Kind       { return KindFacet }
func (*TermNode) Kind() Kind        { return KindLocalTerm }
func (*CodeListNode) Kind() Kind    { return KindCodeList }
func (*ImportDocNode) Kind() Kind   { return KindImportDoc }

func (n *RefNode) Kind() Kind {
	if n.Target == nil {
		return KindNamespaceRef
	}
	return RefKind(n.Target.Kind())
}

func (*ModelNode) node()       {}
func (*NamespaceNode) node()   {}
func (*ComponentNode) node()   {}
func (*RefNode) node()         {}
func (*TextNode) node()        {}
func (*AssociationNode) node() {}
func (*AnyNode) node()         {}
func (*AugmentNode) node()     {}
func (*FacetNode) node()       {}
func (*TermNode) node()        {}
func (*CodeListNode) node()    {}
func (*ImportDocNode) node()   {}
