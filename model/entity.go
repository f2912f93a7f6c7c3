package model

import (
	"fmt"
	"slices"

	"github.com/jacoelho/cmf/internal/vocab"
)

// ID is a component handle within one Model. The zero ID means "unset".
type ID uint32

// NamespaceID is a namespace handle within one Model. The zero value means "unset".
type NamespaceID uint32

// Kind is the concrete kind of a component.
type Kind uint8

const (
	KindClass Kind = iota + 1
	KindDataProperty
	KindObjectProperty
	KindDatatype
	KindRestriction
	KindUnion
	KindList
)

// Kinds lists every component kind.
var Kinds = []Kind{
	KindClass, KindDataProperty, KindObjectProperty,
	KindDatatype, KindRestriction, KindUnion, KindList,
}

// String returns the CMF element name of the kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return vocab.Class
	case KindDataProperty:
		return vocab.DataProperty
	case KindObjectProperty:
		return vocab.ObjectProperty
	case KindDatatype:
		return vocab.Datatype
	case KindRestriction:
		return vocab.Restriction
	case KindUnion:
		return vocab.Union
	case KindList:
		return vocab.List
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsProperty reports whether k is a data or object property.
func (k Kind) IsProperty() bool {
	return k == KindDataProperty || k == KindObjectProperty
}

// IsDatatype reports whether k is a datatype or one of its variants.
func (k Kind) IsDatatype() bool {
	switch k {
	case KindDatatype, KindRestriction, KindUnion, KindList:
		return true
	default:
		return false
	}
}

// KindForElement maps a CMF component element name to its kind.
func KindForElement(local string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == local {
			return k, true
		}
	}
	return 0, false
}

// Text is a run of free text in a language.
type Text struct {
	Value string
	Lang  string
}

// Component is implemented by every component kind. The set is closed:
// *ClassType, *DataProperty, *ObjectProperty, *Datatype, *Restriction,
// *Union and *ListType.
type Component interface {
	Kind() Kind
	Base() *ComponentBase
	component()
}

// ComponentBase holds the fields common to every component.
// Exactly one of Namespace and OutsideURI is set.
type ComponentBase struct {
	ID            ID
	Name          string
	Namespace     NamespaceID
	OutsideURI    string
	Deprecated    bool
	Documentation []Text
}

// Base returns the common component fields.
func (b *ComponentBase) Base() *ComponentBase { return b }

func (b *ComponentBase) component() {}

// IsOutside reports whether the component is a placeholder for a component
// defined in another model.
func (b *ComponentBase) IsOutside() bool {
	return b.OutsideURI != ""
}

// ClassType is a structured type.
type ClassType struct {
	ComponentBase
	Abstract      bool
	ReferenceCode string
	SubClassOf    ID
	Properties    []PropertyAssociation
	AnyProperties []AnyProperty
}

// Kind returns KindClass.
func (*ClassType) Kind() Kind { return KindClass }

// PropertyBase holds the fields common to data and object properties.
type PropertyBase struct {
	ComponentBase
	Abstract      bool
	Ordered       bool
	Attribute     bool
	SubPropertyOf ID
}

// Property is implemented by *DataProperty and *ObjectProperty.
type Property interface {
	Component
	Prop() *PropertyBase
}

// Prop returns the common property fields.
func (p *PropertyBase) Prop() *PropertyBase { return p }

// DataProperty is a property whose value is a datatype.
type DataProperty struct {
	PropertyBase
	Datatype ID
}

// Kind returns KindDataProperty.
func (*DataProperty) Kind() Kind { return KindDataProperty }

// ObjectProperty is a property whose value is a class.
type ObjectProperty struct {
	PropertyBase
	Class ID
}

// Kind returns KindObjectProperty.
func (*ObjectProperty) Kind() Kind { return KindObjectProperty }

// Datatype is a value type with no further structure, such as xs:string.
type Datatype struct {
	ComponentBase
}

// Kind returns KindDatatype.
func (*Datatype) Kind() Kind { return KindDatatype }

// Restriction is a datatype derived from BaseType by facets.
type Restriction struct {
	ComponentBase
	BaseType ID
	Facets   []Facet
	CodeList *CodeListBinding
}

// Kind returns KindRestriction.
func (*Restriction) Kind() Kind { return KindRestriction }

// Union is a datatype whose values are drawn from any member datatype.
type Union struct {
	ComponentBase
	Members []ID
}

// Kind returns KindUnion.
func (*Union) Kind() Kind { return KindUnion }

// ListType is a whitespace-separated list of ItemType values.
type ListType struct {
	ComponentBase
	ItemType ID
	Ordered  bool
}

// Kind returns KindList.
func (*ListType) Kind() Kind { return KindList }

// PropertyAssociation is a class-to-property edge with cardinality.
type PropertyAssociation struct {
	Property      ID
	MinOccurs     string
	MaxOccurs     string
	Ordered       bool
	Documentation []Text
}

// MaxOccursIsUnbounded reports whether the association has no upper bound.
func (a *PropertyAssociation) MaxOccursIsUnbounded() bool {
	return a.MaxOccurs == vocab.Unbounded
}

// AnyProperty is an element or attribute wildcard on a class.
type AnyProperty struct {
	NamespaceConstraint string
	ProcessCode         string
	MinOccurs           string
	MaxOccurs           string
	Attribute           bool
}

// AugmentRecord states that a namespace augments a class, or a global class
// category, with a property.
type AugmentRecord struct {
	Class            ID
	Property         ID
	Index            int
	MinOccurs        string
	MaxOccurs        string
	GlobalClassCodes []string
}

// AddGlobalClassCode inserts code into the sorted code set.
func (r *AugmentRecord) AddGlobalClassCode(code string) {
	i, found := slices.BinarySearch(r.GlobalClassCodes, code)
	if !found {
		r.GlobalClassCodes = slices.Insert(r.GlobalClassCodes, i, code)
	}
}

// Facet is a constraint on a restriction's value space.
type Facet struct {
	Category      string
	Value         string
	Documentation []Text
}

// LocalTerm is a glossary entry scoped to a namespace.
type LocalTerm struct {
	Term          string
	Literal       string
	Documentation []Text
	SourceURIs    []string
	Citations     []Text
}

// CodeListBinding links a restriction to an external code list.
type CodeListBinding struct {
	URI          string
	ColumnName   string
	Constraining bool
}
