package attach

import (
	"errors"
	"testing"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/internal/vocab"
	"github.com/jacoelho/cmf/model"
)

type fixture struct {
	m  *model.Model
	ns *model.Namespace
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	m := model.New()
	ns, err := m.AddNamespace("nc", "http://example/nc/")
	if err != nil {
		t.Fatalf("AddNamespace() error = %v", err)
	}
	return fixture{m: m, ns: ns}
}

func (f fixture) component(t *testing.T, kind model.Kind, name string) model.Component {
	t.Helper()
	c, err := f.m.AddComponent(f.ns.ID, name, kind)
	if err != nil {
		t.Fatalf("AddComponent(%s) error = %v", name, err)
	}
	return c
}

// sample returns a node of kind k with fresh state.
func (f fixture) sample(t *testing.T, k Kind) Node {
	t.Helper()
	for _, ck := range model.Kinds {
		if ComponentKind(ck) == k {
			return &ComponentNode{C: f.component(t, ck, "Def"+ck.String())}
		}
	}
	switch k {
	case KindModel:
		return &ModelNode{}
	case KindNamespace:
		return &NamespaceNode{NS: f.ns}
	case KindAssociation:
		return &AssociationNode{}
	case KindAnyProperty:
		return &AnyNode{}
	case KindAugmentation:
		return &AugmentNode{}
	case KindFacet:
		return &FacetNode{}
	case KindLocalTerm:
		return &TermNode{}
	case KindCodeList:
		return &CodeListNode{}
	case KindImportDoc:
		return &ImportDocNode{}
	case KindText:
		return &TextNode{Text: "x"}
	case KindNamespaceRef:
		return &RefNode{NS: f.ns}
	case KindClassRef:
		return &RefNode{Target: f.component(t, model.KindClass, "RefClass")}
	case KindDataPropertyRef:
		return &RefNode{Target: f.component(t, model.KindDataProperty, "RefData")}
	case KindObjectPropertyRef:
		return &RefNode{Target: f.component(t, model.KindObjectProperty, "RefObject")}
	case KindDatatypeRef:
		return &RefNode{Target: f.component(t, model.KindDatatype, "RefDatatype")}
	}
	t.Fatalf("no sample for %s", k)
	return nil
}

func TestAttachRejectsEveryCombinationOutsideTheTable(t *testing.T) {
	f := newFixture(t)
	legal := make(map[key]bool)
	for _, r := range Legal() {
		legal[key{parent: r.Parent, child: r.Child, element: r.Element}] = true
	}
	elements := append(Elements(), "NotAnElement")
	samples := make(map[Kind]Node)
	for _, k := range AllKinds() {
		samples[k] = f.sample(t, k)
	}

	rejected := 0
	for _, parent := range AllKinds() {
		for _, child := range AllKinds() {
			for _, element := range elements {
				if legal[key{parent: parent, child: child, element: element}] {
					continue
				}
				err := Attach(f.m, samples[parent], samples[child], element)
				var attachErr *Error
				if !errors.As(err, &attachErr) {
					t.Fatalf("Attach(%s, %s, %s) = %v, want *Error", parent, child, element, err)
				}
				if attachErr.Code != cmferrors.ErrVocabulary {
					t.Fatalf("Attach(%s, %s, %s) code = %s, want %s", parent, child, element, attachErr.Code, cmferrors.ErrVocabulary)
				}
				if attachErr.Parent != parent || attachErr.Child != child || attachErr.Element != element {
					t.Fatalf("error tags = (%s, %s, %s), want (%s, %s, %s)",
						attachErr.Parent, attachErr.Child, attachErr.Element, parent, child, element)
				}
				rejected++
			}
		}
	}
	if rejected == 0 {
		t.Fatalf("no combination was rejected")
	}
}

func TestLegalTablesDoNotOverlap(t *testing.T) {
	for k := range childRules {
		if _, ok := parentRules[k]; ok {
			t.Fatalf("%s/%s/%s is in both tables", k.parent, k.child, k.element)
		}
	}
}

func TestGenericComponentRules(t *testing.T) {
	f := newFixture(t)
	for _, ck := range model.Kinds {
		c := f.component(t, ck, "Generic"+ck.String())
		parent := &ComponentNode{C: c}
		if err := Attach(f.m, parent, &TextNode{Text: c.Base().Name}, vocab.Name); err != nil {
			t.Fatalf("%s Name: %v", ck, err)
		}
		if err := Attach(f.m, parent, &TextNode{Text: "other"}, vocab.Name); err == nil {
			t.Fatalf("%s: second distinct Name accepted", ck)
		}
		if err := Attach(f.m, parent, &TextNode{Text: "A thing.", Lang: "en"}, vocab.DocumentationText); err != nil {
			t.Fatalf("%s DocumentationText: %v", ck, err)
		}
		if err := Attach(f.m, parent, &TextNode{Text: "true"}, vocab.DeprecatedIndicator); err != nil {
			t.Fatalf("%s DeprecatedIndicator: %v", ck, err)
		}
		if err := Attach(f.m, parent, &RefNode{NS: f.ns}, vocab.Namespace); err != nil {
			t.Fatalf("%s Namespace: %v", ck, err)
		}
		b := c.Base()
		if !b.Deprecated {
			t.Fatalf("%s Deprecated = false, want true", ck)
		}
		if len(b.Documentation) != 1 || b.Documentation[0] != (model.Text{Value: "A thing.", Lang: "en"}) {
			t.Fatalf("%s Documentation = %v", ck, b.Documentation)
		}
	}
}

func TestComponentNamespaceMismatch(t *testing.T) {
	f := newFixture(t)
	other, err := f.m.AddNamespace("ext", "http://example/ext/")
	if err != nil {
		t.Fatalf("AddNamespace() error = %v", err)
	}
	c := f.component(t, model.KindClass, "Foo")
	err = Attach(f.m, &ComponentNode{C: c}, &RefNode{NS: other}, vocab.Namespace)
	if err == nil {
		t.Fatalf("moving a component to another namespace succeeded")
	}
}

func TestReferenceRules(t *testing.T) {
	f := newFixture(t)
	text := f.component(t, model.KindDatatype, "TextType")
	code := f.component(t, model.KindRestriction, "CodeType")
	union := f.component(t, model.KindUnion, "EitherType")
	list := f.component(t, model.KindList, "ListType")
	person := f.component(t, model.KindClass, "PersonType")
	entity := f.component(t, model.KindClass, "EntityType")
	name := f.component(t, model.KindDataProperty, "PersonName")
	anyName := f.component(t, model.KindDataProperty, "Name")
	who := f.component(t, model.KindObjectProperty, "Person")

	steps := []struct {
		parent  Node
		child   model.Component
		element string
	}{
		{parent: &ComponentNode{C: name}, child: text, element: vocab.Datatype},
		{parent: &ComponentNode{C: name}, child: anyName, element: vocab.SubPropertyOf},
		{parent: &ComponentNode{C: code}, child: text, element: vocab.RestrictionBase},
		{parent: &ComponentNode{C: union}, child: text, element: vocab.UnionMemberDatatype},
		{parent: &ComponentNode{C: union}, child: code, element: vocab.UnionMemberDatatype},
		{parent: &ComponentNode{C: list}, child: code, element: vocab.ListItemDatatype},
		{parent: &ComponentNode{C: who}, child: person, element: vocab.Class},
		{parent: &ComponentNode{C: person}, child: entity, element: vocab.SubClassOf},
	}
	for _, step := range steps {
		if err := Attach(f.m, step.parent, &RefNode{Target: step.child}, step.element); err != nil {
			t.Fatalf("Attach(%s) error = %v", step.element, err)
		}
	}

	if got := name.(*model.DataProperty).Datatype; got != text.Base().ID {
		t.Fatalf("Datatype = %d, want %d", got, text.Base().ID)
	}
	if got := name.(*model.DataProperty).SubPropertyOf; got != anyName.Base().ID {
		t.Fatalf("SubPropertyOf = %d, want %d", got, anyName.Base().ID)
	}
	if got := code.(*model.Restriction).BaseType; got != text.Base().ID {
		t.Fatalf("BaseType = %d, want %d", got, text.Base().ID)
	}
	if got := union.(*model.Union).Members; len(got) != 2 {
		t.Fatalf("Members = %v, want 2 members", got)
	}
	if got := list.(*model.ListType).ItemType; got != code.Base().ID {
		t.Fatalf("ItemType = %d, want %d", got, code.Base().ID)
	}
	if got := who.(*model.ObjectProperty).Class; got != person.Base().ID {
		t.Fatalf("Class = %d, want %d", got, person.Base().ID)
	}
	if got := person.(*model.ClassType).SubClassOf; got != entity.Base().ID {
		t.Fatalf("SubClassOf = %d, want %d", got, entity.Base().ID)
	}

	// a second, different value for a single-valued slot is an error
	if err := Attach(f.m, &ComponentNode{C: name}, &RefNode{Target: code}, vocab.Datatype); err == nil {
		t.Fatalf("second datatype accepted")
	}
	if err := Attach(f.m, &ComponentNode{C: person}, &RefNode{Target: person}, vocab.SubClassOf); err == nil {
		t.Fatalf("self subclass accepted")
	}
	// a class where a datatype is expected has no rule
	err := Attach(f.m, &ComponentNode{C: name}, &RefNode{Target: person}, vocab.Datatype)
	var attachErr *Error
	if !errors.As(err, &attachErr) {
		t.Fatalf("class as datatype: error = %v, want *Error", err)
	}
}

func TestAssociationAttach(t *testing.T) {
	f := newFixture(t)
	foo := f.component(t, model.KindClass, "Foo")
	bar := f.component(t, model.KindDataProperty, "bar")

	assoc := &AssociationNode{}
	for _, step := range []struct {
		child   Node
		element string
	}{
		{child: &RefNode{Target: bar}, element: vocab.DataProperty},
		{child: &TextNode{Text: "0"}, element: vocab.MinOccursQuantity},
		{child: &TextNode{Text: vocab.Unbounded}, element: vocab.MaxOccursQuantity},
		{child: &TextNode{Text: "Bar of a foo."}, element: vocab.DocumentationText},
	} {
		if err := Attach(f.m, assoc, step.child, step.element); err != nil {
			t.Fatalf("Attach(%s) error = %v", step.element, err)
		}
	}
	if err := Attach(f.m, &ComponentNode{C: foo}, assoc, vocab.ChildPropertyAssociation); err != nil {
		t.Fatalf("Attach(association) error = %v", err)
	}

	props := foo.(*model.ClassType).Properties
	if len(props) != 1 {
		t.Fatalf("len(Properties) = %d, want 1", len(props))
	}
	if props[0].Property != bar.Base().ID || props[0].MinOccurs != "0" || !props[0].MaxOccursIsUnbounded() {
		t.Fatalf("association = %+v", props[0])
	}
}

func TestAssociationWithoutPropertyIsIncomplete(t *testing.T) {
	f := newFixture(t)
	foo := f.component(t, model.KindClass, "Foo")
	err := Attach(f.m, &ComponentNode{C: foo}, &AssociationNode{}, vocab.ChildPropertyAssociation)
	var attachErr *Error
	if !errors.As(err, &attachErr) || attachErr.Code != cmferrors.ErrIncomplete {
		t.Fatalf("error = %v, want %s", err, cmferrors.ErrIncomplete)
	}
}

func TestNamespaceRecords(t *testing.T) {
	f := newFixture(t)
	foo := f.component(t, model.KindClass, "Foo")
	bar := f.component(t, model.KindObjectProperty, "Bar")
	parent := &NamespaceNode{NS: f.ns}

	aug := &AugmentNode{}
	for _, step := range []struct {
		child   Node
		element string
	}{
		{child: &RefNode{Target: foo}, element: vocab.Class},
		{child: &RefNode{Target: bar}, element: vocab.ObjectProperty},
		{child: &TextNode{Text: "2"}, element: vocab.AugmentationIndex},
		{child: &TextNode{Text: "OBJECT"}, element: vocab.GlobalClassCode},
		{child: &TextNode{Text: "ASSOCIATION"}, element: vocab.GlobalClassCode},
	} {
		if err := Attach(f.m, aug, step.child, step.element); err != nil {
			t.Fatalf("Attach(%s) error = %v", step.element, err)
		}
	}
	if err := Attach(f.m, parent, aug, vocab.AugmentationRecord); err != nil {
		t.Fatalf("Attach(augmentation) error = %v", err)
	}
	if err := Attach(f.m, aug, &TextNode{Text: "two"}, vocab.AugmentationIndex); err == nil {
		t.Fatalf("non-numeric augmentation index accepted")
	}
	if err := Attach(f.m, aug, &TextNode{Text: "Object"}, vocab.GlobalClassCode); err == nil {
		t.Fatalf("unknown global class code accepted")
	}

	term := &TermNode{}
	for _, step := range []struct {
		text    string
		element string
	}{
		{text: "NIEM", element: vocab.TermName},
		{text: "National Information Exchange Model", element: vocab.TermLiteralText},
		{text: "http://a http://b", element: vocab.SourceURIs},
	} {
		if err := Attach(f.m, term, &TextNode{Text: step.text}, step.element); err != nil {
			t.Fatalf("Attach(%s) error = %v", step.element, err)
		}
	}
	if err := Attach(f.m, parent, term, vocab.LocalTerm); err != nil {
		t.Fatalf("Attach(term) error = %v", err)
	}

	for _, step := range []struct {
		text    string
		element string
	}{
		{text: "DOMAIN", element: vocab.NamespaceKindCode},
		{text: "en-US", element: vocab.NamespaceLanguageName},
		{text: "urn:a urn:b", element: vocab.ConformanceTargetURIList},
		{text: "http://example/nc/", element: vocab.NamespaceURI},
	} {
		if err := Attach(f.m, parent, &TextNode{Text: step.text}, step.element); err != nil {
			t.Fatalf("Attach(%s) error = %v", step.element, err)
		}
	}
	if err := Attach(f.m, parent, &TextNode{Text: "http://elsewhere/"}, vocab.NamespaceURI); err == nil {
		t.Fatalf("mismatched NamespaceURI accepted")
	}

	ns := f.ns
	if len(ns.Augmentations) != 1 {
		t.Fatalf("len(Augmentations) = %d, want 1", len(ns.Augmentations))
	}
	got := ns.Augmentations[0]
	if got.Class != foo.Base().ID || got.Property != bar.Base().ID || got.Index != 2 {
		t.Fatalf("augmentation = %+v", got)
	}
	if len(got.GlobalClassCodes) != 2 || got.GlobalClassCodes[0] != "ASSOCIATION" {
		t.Fatalf("GlobalClassCodes = %v, want sorted set", got.GlobalClassCodes)
	}
	if len(ns.LocalTerms) != 1 || len(ns.LocalTerms[0].SourceURIs) != 2 {
		t.Fatalf("LocalTerms = %+v", ns.LocalTerms)
	}
	if ns.Kind != "DOMAIN" || ns.Language != "en-US" || len(ns.ConformanceTargets) != 2 {
		t.Fatalf("namespace = %+v", ns)
	}
}

func TestRestrictionRecords(t *testing.T) {
	f := newFixture(t)
	code := f.component(t, model.KindRestriction, "CodeType")
	parent := &ComponentNode{C: code}

	facet := &FacetNode{}
	if err := Attach(f.m, facet, &TextNode{Text: "bogus"}, vocab.FacetCategoryCode); err == nil {
		t.Fatalf("unknown facet category accepted")
	}
	if err := Attach(f.m, facet, &TextNode{Text: "enumeration"}, vocab.FacetCategoryCode); err != nil {
		t.Fatalf("FacetCategoryCode error = %v", err)
	}
	if err := Attach(f.m, facet, &TextNode{Text: "A"}, vocab.FacetValue); err != nil {
		t.Fatalf("FacetValue error = %v", err)
	}
	if err := Attach(f.m, parent, facet, vocab.Facet); err != nil {
		t.Fatalf("Attach(facet) error = %v", err)
	}
	if err := Attach(f.m, parent, &FacetNode{}, vocab.Facet); err == nil {
		t.Fatalf("facet without category accepted")
	}

	binding := &CodeListNode{}
	if err := Attach(f.m, binding, &TextNode{Text: "http://codes/"}, vocab.CodeListURI); err != nil {
		t.Fatalf("CodeListURI error = %v", err)
	}
	if err := Attach(f.m, parent, binding, vocab.CodeListBinding); err != nil {
		t.Fatalf("Attach(binding) error = %v", err)
	}
	if err := Attach(f.m, parent, &CodeListNode{}, vocab.CodeListBinding); err == nil {
		t.Fatalf("second code list binding accepted")
	}

	r := code.(*model.Restriction)
	if len(r.Facets) != 1 || r.Facets[0].Category != "enumeration" || r.Facets[0].Value != "A" {
		t.Fatalf("Facets = %+v", r.Facets)
	}
	if r.CodeList == nil || r.CodeList.URI != "http://codes/" {
		t.Fatalf("CodeList = %+v", r.CodeList)
	}
}
