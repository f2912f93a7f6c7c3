package vocab

// Facet category codes, named after the XML Schema facets they carry.
const (
	FacetEnumeration    = "enumeration"
	FacetPattern        = "pattern"
	FacetLength         = "length"
	FacetMinLength      = "minLength"
	FacetMaxLength      = "maxLength"
	FacetMinInclusive   = "minInclusive"
	FacetMaxInclusive   = "maxInclusive"
	FacetMinExclusive   = "minExclusive"
	FacetMaxExclusive   = "maxExclusive"
	FacetTotalDigits    = "totalDigits"
	FacetFractionDigits = "fractionDigits"
	FacetWhiteSpace     = "whiteSpace"
)

var facetCategories = map[string]struct{}{
	FacetEnumeration: {}, FacetPattern: {}, FacetLength: {}, FacetMinLength: {},
	FacetMaxLength: {}, FacetMinInclusive: {}, FacetMaxInclusive: {},
	FacetMinExclusive: {}, FacetMaxExclusive: {}, FacetTotalDigits: {},
	FacetFractionDigits: {}, FacetWhiteSpace: {},
}

// IsFacetCategory reports whether code is a known facet category.
func IsFacetCategory(code string) bool {
	_, ok := facetCategories[code]
	return ok
}

// Namespace kind codes.
const (
	KindCore      = "CORE"
	KindDomain    = "DOMAIN"
	KindExtension = "EXTENSION"
	KindExternal  = "EXTERNAL"
	KindBuiltin   = "BUILTIN"
	KindXSD       = "XSD"
	KindXML       = "XML"
	KindOtherNIEM = "OTHERNIEM"
	KindUnknown   = "UNKNOWN"
)

// IsBuiltinKind reports whether a namespace kind code names a meta namespace
// that every model may reference implicitly.
func IsBuiltinKind(code string) bool {
	switch code {
	case KindBuiltin, KindXSD, KindXML:
		return true
	default:
		return false
	}
}

// Global class codes used in augmentation records.
const (
	GlobalClassObject      = "OBJECT"
	GlobalClassAssociation = "ASSOCIATION"
	GlobalClassLiteral     = "LITERAL"
)

// IsGlobalClass reports whether code is a known global class code.
func IsGlobalClass(code string) bool {
	switch code {
	case GlobalClassObject, GlobalClassAssociation, GlobalClassLiteral:
		return true
	default:
		return false
	}
}
