// Package vocab names the CMF wire vocabulary: namespace URIs, element and
// attribute local names, and the closed code lists carried in element text.
package vocab

const (
	// CMFNamespace is the namespace of every CMF element.
	CMFNamespace = "https://docs.oasis-open.org/niemopen/ns/specification/cmf/1.0/"
	// StructuresNamespace holds the id, ref and uri attributes.
	StructuresNamespace = "https://docs.oasis-open.org/niemopen/ns/model/structures/6.0/"
	// XMLNamespace is the XML namespace URI.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XSINamespace is the XML Schema instance namespace URI.
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
	// XSDNamespace is the XML Schema namespace URI.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"

	// CMFPrefix is the reserved prefix for CMFNamespace.
	CMFPrefix = "cmf"
	// StructuresPrefix is the reserved prefix for StructuresNamespace.
	StructuresPrefix = "structures"
	// XMLPrefix is the reserved prefix for XMLNamespace.
	XMLPrefix = "xml"
	// XSIPrefix is the reserved prefix for XSINamespace.
	XSIPrefix = "xsi"
)

// Reserved returns the prefix bindings every model starts with.
func Reserved() map[string]string {
	return map[string]string{
		CMFPrefix:        CMFNamespace,
		StructuresPrefix: StructuresNamespace,
		XMLPrefix:        XMLNamespace,
		XSIPrefix:        XSINamespace,
	}
}

// Structural attributes.
const (
	AttrID   = "id"
	AttrRef  = "ref"
	AttrURI  = "uri"
	AttrLang = "lang"
)

// Entity elements.
const (
	Model                    = "Model"
	Namespace                = "Namespace"
	Class                    = "Class"
	DataProperty             = "DataProperty"
	ObjectProperty           = "ObjectProperty"
	Datatype                 = "Datatype"
	List                     = "List"
	Restriction              = "Restriction"
	Union                    = "Union"
	ChildPropertyAssociation = "ChildPropertyAssociation"
	AnyProperty              = "AnyProperty"
	AugmentationRecord       = "AugmentationRecord"
	Facet                    = "Facet"
	LocalTerm                = "LocalTerm"
	CodeListBinding          = "CodeListBinding"
	ImportDocumentation      = "ImportDocumentation"
)

// Reference-only elements that name a component under a different role.
const (
	SubClassOf          = "SubClassOf"
	SubPropertyOf       = "SubPropertyOf"
	RestrictionBase     = "RestrictionBase"
	ListItemDatatype    = "ListItemDatatype"
	UnionMemberDatatype = "UnionMemberDatatype"
)

// Leaf text elements.
const (
	Name                          = "Name"
	DocumentationText             = "DocumentationText"
	DeprecatedIndicator           = "DeprecatedIndicator"
	AbstractIndicator             = "AbstractIndicator"
	ReferenceCode                 = "ReferenceCode"
	AttributeIndicator            = "AttributeIndicator"
	OrderedPropertyIndicator      = "OrderedPropertyIndicator"
	MinOccursQuantity             = "MinOccursQuantity"
	MaxOccursQuantity             = "MaxOccursQuantity"
	NamespaceURI                  = "NamespaceURI"
	NamespacePrefixText           = "NamespacePrefixText"
	NamespaceKindCode             = "NamespaceKindCode"
	NamespaceVersionText          = "NamespaceVersionText"
	NamespaceLanguageName         = "NamespaceLanguageName"
	ConformanceTargetURIList      = "ConformanceTargetURIList"
	AugmentationIndex             = "AugmentationIndex"
	GlobalClassCode               = "GlobalClassCode"
	FacetCategoryCode             = "FacetCategoryCode"
	FacetValue                    = "FacetValue"
	TermName                      = "TermName"
	TermLiteralText               = "TermLiteralText"
	SourceURIs                    = "SourceURIs"
	SourceCitationText            = "SourceCitationText"
	CodeListURI                   = "CodeListURI"
	CodeListColumnName            = "CodeListColumnName"
	CodeListConstrainingIndicator = "CodeListConstrainingIndicator"
	AnyNamespaceText              = "AnyNamespaceText"
	AnyProcessCode                = "AnyProcessCode"
)

// Unbounded is the MaxOccursQuantity value for no upper limit.
const Unbounded = "unbounded"

var leaves = map[string]struct{}{
	Name: {}, DocumentationText: {}, DeprecatedIndicator: {}, AbstractIndicator: {},
	ReferenceCode: {}, AttributeIndicator: {}, OrderedPropertyIndicator: {},
	MinOccursQuantity: {}, MaxOccursQuantity: {}, NamespaceURI: {},
	NamespacePrefixText: {}, NamespaceKindCode: {}, NamespaceVersionText: {},
	NamespaceLanguageName: {}, ConformanceTargetURIList: {}, AugmentationIndex: {},
	GlobalClassCode: {}, FacetCategoryCode: {}, FacetValue: {}, TermName: {},
	TermLiteralText: {}, SourceURIs: {}, SourceCitationText: {}, CodeListURI: {},
	CodeListColumnName: {}, CodeListConstrainingIndicator: {}, AnyNamespaceText: {},
	AnyProcessCode: {},
}

// IsLeaf reports whether local names a text-only element.
func IsLeaf(local string) bool {
	_, ok := leaves[local]
	return ok
}

// IsTopLevelComponent reports whether local names an element that defines a
// component when it appears directly under Model.
func IsTopLevelComponent(local string) bool {
	switch local {
	case Class, DataProperty, ObjectProperty, Datatype, List, Restriction, Union:
		return true
	default:
		return false
	}
}

// IsRecord reports whether local names a structured record element.
func IsRecord(local string) bool {
	switch local {
	case ChildPropertyAssociation, AnyProperty, AugmentationRecord, Facet,
		LocalTerm, CodeListBinding, ImportDocumentation:
		return true
	default:
		return false
	}
}

// IsTrue reports whether an indicator's text is the boolean true.
func IsTrue(text string) bool {
	return text == "true" || text == "1"
}
