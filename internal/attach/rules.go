package attach

import (
	"fmt"
	"strconv"
	"strings"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/internal/vocab"
	"github.com/jacoelho/cmf/model"
)

var (
	parentRules = buildParentRules()
	childRules  = buildChildRules()
)

type table map[key]rule

func (t table) add(parent, child Kind, element string, fn rule) {
	k := key{parent: parent, child: child, element: element}
	if _, dup := t[k]; dup {
		panic(fmt.Sprintf("attach: duplicate rule %s/%s/%s", parent, child, element))
	}
	t[k] = fn
}

func buildParentRules() table {
	t := make(table)

	// Model holds definitions registered by earlier passes and top-level
	// references, which need no further work.
	t.add(KindModel, KindNamespace, vocab.Namespace, accepted)
	t.add(KindModel, KindNamespaceRef, vocab.Namespace, accepted)
	for _, ck := range model.Kinds {
		t.add(KindModel, ComponentKind(ck), ck.String(), accepted)
		t.add(KindModel, RefKind(ck), ck.String(), accepted)
	}

	for _, ck := range model.Kinds {
		p := ComponentKind(ck)
		t.add(p, KindText, vocab.Name, setName)
		t.add(p, KindText, vocab.DocumentationText, componentText(func(c model.Component, v *TextNode) error {
			b := c.Base()
			b.Documentation = append(b.Documentation, model.Text{Value: v.Text, Lang: v.Lang})
			return nil
		}))
		t.add(p, KindText, vocab.DeprecatedIndicator, componentText(func(c model.Component, v *TextNode) error {
			c.Base().Deprecated = vocab.IsTrue(v.Text)
			return nil
		}))
		t.add(p, KindNamespaceRef, vocab.Namespace, setComponentNamespace)
	}

	addNamespaceRules(t)
	addClassRules(t)
	addPropertyRules(t)
	addDatatypeRules(t)
	addRecordRules(t)
	return t
}

func addNamespaceRules(t table) {
	t.add(KindNamespace, KindText, vocab.NamespaceURI, nodeText(func(n *NamespaceNode, v *TextNode) error {
		if v.Text != n.NS.URI {
			return fmt.Errorf("namespace URI %s differs from registered %s", v.Text, n.NS.URI)
		}
		return nil
	}))
	// the prefix was assigned when the namespace was registered
	t.add(KindNamespace, KindText, vocab.NamespacePrefixText, accepted)
	t.add(KindNamespace, KindText, vocab.DocumentationText, nodeText(func(n *NamespaceNode, v *TextNode) error {
		n.NS.Documentation = append(n.NS.Documentation, model.Text{Value: v.Text, Lang: v.Lang})
		return nil
	}))
	t.add(KindNamespace, KindText, vocab.NamespaceKindCode, nodeText(func(n *NamespaceNode, v *TextNode) error {
		n.NS.Kind = v.Text
		return nil
	}))
	t.add(KindNamespace, KindText, vocab.NamespaceVersionText, nodeText(func(n *NamespaceNode, v *TextNode) error {
		n.NS.Version = v.Text
		return nil
	}))
	t.add(KindNamespace, KindText, vocab.NamespaceLanguageName, nodeText(func(n *NamespaceNode, v *TextNode) error {
		n.NS.Language = v.Text
		return nil
	}))
	t.add(KindNamespace, KindText, vocab.ConformanceTargetURIList, nodeText(func(n *NamespaceNode, v *TextNode) error {
		n.NS.ConformanceTargets = append(n.NS.ConformanceTargets, strings.Fields(v.Text)...)
		return nil
	}))
	t.add(KindNamespace, KindAugmentation, vocab.AugmentationRecord, func(_ *model.Model, parent, child Node) error {
		rec := child.(*AugmentNode).Value
		if rec.Property == 0 {
			return incomplete("augmentation record names no property")
		}
		ns := parent.(*NamespaceNode).NS
		ns.Augmentations = append(ns.Augmentations, rec)
		return nil
	})
	t.add(KindNamespace, KindLocalTerm, vocab.LocalTerm, func(_ *model.Model, parent, child Node) error {
		ns := parent.(*NamespaceNode).NS
		ns.LocalTerms = append(ns.LocalTerms, child.(*TermNode).Value)
		return nil
	})
	t.add(KindNamespace, KindImportDoc, vocab.ImportDocumentation, func(_ *model.Model, parent, child Node) error {
		doc := child.(*ImportDocNode)
		if doc.URI == "" {
			return fmt.Errorf("import documentation names no namespace URI")
		}
		parent.(*NamespaceNode).NS.AddImportDoc(doc.URI, doc.Docs...)
		return nil
	})
}

func addClassRules(t table) {
	t.add(KindClass, KindText, vocab.AbstractIndicator, classText(func(c *model.ClassType, v *TextNode) error {
		c.Abstract = vocab.IsTrue(v.Text)
		return nil
	}))
	t.add(KindClass, KindText, vocab.ReferenceCode, classText(func(c *model.ClassType, v *TextNode) error {
		c.ReferenceCode = v.Text
		return nil
	}))
	t.add(KindClass, KindAssociation, vocab.ChildPropertyAssociation, func(_ *model.Model, parent, child Node) error {
		assoc := child.(*AssociationNode).Value
		if assoc.Property == 0 {
			return incomplete("property association names no property")
		}
		c := parent.(*ComponentNode).C.(*model.ClassType)
		c.Properties = append(c.Properties, assoc)
		return nil
	})
	t.add(KindClass, KindAnyProperty, vocab.AnyProperty, func(_ *model.Model, parent, child Node) error {
		c := parent.(*ComponentNode).C.(*model.ClassType)
		c.AnyProperties = append(c.AnyProperties, child.(*AnyNode).Value)
		return nil
	})
}

func addPropertyRules(t table) {
	for _, p := range []Kind{KindDataProperty, KindObjectProperty} {
		t.add(p, KindText, vocab.AbstractIndicator, propertyText(func(b *model.PropertyBase, v *TextNode) {
			b.Abstract = vocab.IsTrue(v.Text)
		}))
		t.add(p, KindText, vocab.OrderedPropertyIndicator, propertyText(func(b *model.PropertyBase, v *TextNode) {
			b.Ordered = vocab.IsTrue(v.Text)
		}))
		t.add(p, KindText, vocab.AttributeIndicator, propertyText(func(b *model.PropertyBase, v *TextNode) {
			b.Attribute = vocab.IsTrue(v.Text)
		}))
	}
}

func addDatatypeRules(t table) {
	t.add(KindRestriction, KindFacet, vocab.Facet, func(_ *model.Model, parent, child Node) error {
		f := child.(*FacetNode).Value
		if f.Category == "" {
			return fmt.Errorf("facet has no category")
		}
		r := parent.(*ComponentNode).C.(*model.Restriction)
		r.Facets = append(r.Facets, f)
		return nil
	})
	t.add(KindRestriction, KindCodeList, vocab.CodeListBinding, func(_ *model.Model, parent, child Node) error {
		r := parent.(*ComponentNode).C.(*model.Restriction)
		if r.CodeList != nil {
			return fmt.Errorf("restriction already has a code list binding")
		}
		binding := child.(*CodeListNode).Value
		r.CodeList = &binding
		return nil
	})
	t.add(KindList, KindText, vocab.OrderedPropertyIndicator, componentText(func(c model.Component, v *TextNode) error {
		c.(*model.ListType).Ordered = vocab.IsTrue(v.Text)
		return nil
	}))
}

func addRecordRules(t table) {
	t.add(KindAssociation, KindText, vocab.MinOccursQuantity, nodeText(func(n *AssociationNode, v *TextNode) error {
		n.Value.MinOccurs = v.Text
		return nil
	}))
	t.add(KindAssociation, KindText, vocab.MaxOccursQuantity, nodeText(func(n *AssociationNode, v *TextNode) error {
		n.Value.MaxOccurs = v.Text
		return nil
	}))
	t.add(KindAssociation, KindText, vocab.OrderedPropertyIndicator, nodeText(func(n *AssociationNode, v *TextNode) error {
		n.Value.Ordered = vocab.IsTrue(v.Text)
		return nil
	}))
	t.add(KindAssociation, KindText, vocab.DocumentationText, nodeText(func(n *AssociationNode, v *TextNode) error {
		n.Value.Documentation = append(n.Value.Documentation, model.Text{Value: v.Text, Lang: v.Lang})
		return nil
	}))

	t.add(KindAnyProperty, KindText, vocab.AnyNamespaceText, nodeText(func(n *AnyNode, v *TextNode) error {
		n.Value.NamespaceConstraint = v.Text
		return nil
	}))
	t.add(KindAnyProperty, KindText, vocab.AnyProcessCode, nodeText(func(n *AnyNode, v *TextNode) error {
		n.Value.ProcessCode = v.Text
		return nil
	}))
	t.add(KindAnyProperty, KindText, vocab.MinOccursQuantity, nodeText(func(n *AnyNode, v *TextNode) error {
		n.Value.MinOccurs = v.Text
		return nil
	}))
	t.add(KindAnyProperty, KindText, vocab.MaxOccursQuantity, nodeText(func(n *AnyNode, v *TextNode) error {
		n.Value.MaxOccurs = v.Text
		return nil
	}))
	t.add(KindAnyProperty, KindText, vocab.AttributeIndicator, nodeText(func(n *AnyNode, v *TextNode) error {
		n.Value.Attribute = vocab.IsTrue(v.Text)
		return nil
	}))

	t.add(KindAugmentation, KindText, vocab.AugmentationIndex, nodeText(func(n *AugmentNode, v *TextNode) error {
		idx, err := strconv.Atoi(v.Text)
		if err != nil {
			return fmt.Errorf("augmentation index %q is not an integer", v.Text)
		}
		n.Value.Index = idx
		return nil
	}))
	t.add(KindAugmentation, KindText, vocab.MinOccursQuantity, nodeText(func(n *AugmentNode, v *TextNode) error {
		n.Value.MinOccurs = v.Text
		return nil
	}))
	t.add(KindAugmentation, KindText, vocab.MaxOccursQuantity, nodeText(func(n *AugmentNode, v *TextNode) error {
		n.Value.MaxOccurs = v.Text
		return nil
	}))
	t.add(KindAugmentation, KindText, vocab.GlobalClassCode, nodeText(func(n *AugmentNode, v *TextNode) error {
		if !vocab.IsGlobalClass(v.Text) {
			return fmt.Errorf("unknown global class code %q", v.Text)
		}
		n.Value.AddGlobalClassCode(v.Text)
		return nil
	}))

	t.add(KindFacet, KindText, vocab.FacetCategoryCode, nodeText(func(n *FacetNode, v *TextNode) error {
		if !vocab.IsFacetCategory(v.Text) {
			return fmt.Errorf("unknown facet category %q", v.Text)
		}
		n.Value.Category = v.Text
		return nil
	}))
	t.add(KindFacet, KindText, vocab.FacetValue, nodeText(func(n *FacetNode, v *TextNode) error {
		n.Value.Value = v.Text
		return nil
	}))
	t.add(KindFacet, KindText, vocab.DocumentationText, nodeText(func(n *FacetNode, v *TextNode) error {
		n.Value.Documentation = append(n.Value.Documentation, model.Text{Value: v.Text, Lang: v.Lang})
		return nil
	}))

	t.add(KindLocalTerm, KindText, vocab.TermName, nodeText(func(n *TermNode, v *TextNode) error {
		n.Value.Term = v.Text
		return nil
	}))
	t.add(KindLocalTerm, KindText, vocab.TermLiteralText, nodeText(func(n *TermNode, v *TextNode) error {
		n.Value.Literal = v.Text
		return nil
	}))
	t.add(KindLocalTerm, KindText, vocab.DocumentationText, nodeText(func(n *TermNode, v *TextNode) error {
		n.Value.Documentation = append(n.Value.Documentation, model.Text{Value: v.Text, Lang: v.Lang})
		return nil
	}))
	t.add(KindLocalTerm, KindText, vocab.SourceURIs, nodeText(func(n *TermNode, v *TextNode) error {
		n.Value.SourceURIs = append(n.Value.SourceURIs, strings.Fields(v.Text)...)
		return nil
	}))
	t.add(KindLocalTerm, KindText, vocab.SourceCitationText, nodeText(func(n *TermNode, v *TextNode) error {
		n.Value.Citations = append(n.Value.Citations, model.Text{Value: v.Text, Lang: v.Lang})
		return nil
	}))

	t.add(KindCodeList, KindText, vocab.CodeListURI, nodeText(func(n *CodeListNode, v *TextNode) error {
		n.Value.URI = v.Text
		return nil
	}))
	t.add(KindCodeList, KindText, vocab.CodeListColumnName, nodeText(func(n *CodeListNode, v *TextNode) error {
		n.Value.ColumnName = v.Text
		return nil
	}))
	t.add(KindCodeList, KindText, vocab.CodeListConstrainingIndicator, nodeText(func(n *CodeListNode, v *TextNode) error {
		n.Value.Constraining = vocab.IsTrue(v.Text)
		return nil
	}))

	t.add(KindImportDoc, KindText, vocab.NamespaceURI, nodeText(func(n *ImportDocNode, v *TextNode) error {
		n.URI = v.Text
		return nil
	}))
	t.add(KindImportDoc, KindText, vocab.DocumentationText, nodeText(func(n *ImportDocNode, v *TextNode) error {
		n.Docs = append(n.Docs, model.Text{Value: v.Text, Lang: v.Lang})
		return nil
	}))
}

// buildChildRules lists the parents each kind of reference can attach itself to.
func buildChildRules() table {
	t := make(table)

	t.add(KindDataProperty, KindDatatypeRef, vocab.Datatype, refRule(func(p *model.DataProperty, id model.ID) error {
		return setOnce(&p.Datatype, id, "datatype")
	}))
	t.add(KindRestriction, KindDatatypeRef, vocab.RestrictionBase, refRule(func(r *model.Restriction, id model.ID) error {
		return setOnce(&r.BaseType, id, "base datatype")
	}))
	t.add(KindUnion, KindDatatypeRef, vocab.UnionMemberDatatype, refRule(func(u *model.Union, id model.ID) error {
		u.Members = append(u.Members, id)
		return nil
	}))
	t.add(KindList, KindDatatypeRef, vocab.ListItemDatatype, refRule(func(l *model.ListType, id model.ID) error {
		return setOnce(&l.ItemType, id, "item datatype")
	}))

	t.add(KindObjectProperty, KindClassRef, vocab.Class, refRule(func(p *model.ObjectProperty, id model.ID) error {
		return setOnce(&p.Class, id, "class")
	}))
	t.add(KindClass, KindClassRef, vocab.SubClassOf, refRule(func(c *model.ClassType, id model.ID) error {
		if id == c.ID {
			return fmt.Errorf("class %s cannot subclass itself", c.Name)
		}
		return setOnce(&c.SubClassOf, id, "parent class")
	}))
	t.add(KindAugmentation, KindClassRef, vocab.Class, func(_ *model.Model, parent, child Node) error {
		return setOnce(&parent.(*AugmentNode).Value.Class, child.(*RefNode).Target.Base().ID, "class")
	})

	for _, pk := range []struct {
		ref     Kind
		def     Kind
		element string
	}{
		{ref: KindDataPropertyRef, def: KindDataProperty, element: vocab.DataProperty},
		{ref: KindObjectPropertyRef, def: KindObjectProperty, element: vocab.ObjectProperty},
	} {
		t.add(KindAssociation, pk.ref, pk.element, func(_ *model.Model, parent, child Node) error {
			return setOnce(&parent.(*AssociationNode).Value.Property, child.(*RefNode).Target.Base().ID, "property")
		})
		t.add(KindAugmentation, pk.ref, pk.element, func(_ *model.Model, parent, child Node) error {
			return setOnce(&parent.(*AugmentNode).Value.Property, child.(*RefNode).Target.Base().ID, "property")
		})
		t.add(pk.def, pk.ref, vocab.SubPropertyOf, func(_ *model.Model, parent, child Node) error {
			p := parent.(*ComponentNode).C.(model.Property).Prop()
			id := child.(*RefNode).Target.Base().ID
			if id == p.ID {
				return fmt.Errorf("property %s cannot be its own subproperty", p.Name)
			}
			return setOnce(&p.SubPropertyOf, id, "parent property")
		})
	}
	return t
}

func accepted(*model.Model, Node, Node) error { return nil }

func setName(_ *model.Model, parent, child Node) error {
	b := parent.(*ComponentNode).C.Base()
	name := child.(*TextNode).Text
	if b.Name != "" && b.Name != name {
		return fmt.Errorf("component %s has a second name %s", b.Name, name)
	}
	b.Name = name
	return nil
}

func setComponentNamespace(_ *model.Model, parent, child Node) error {
	b := parent.(*ComponentNode).C.Base()
	ns := child.(*RefNode).NS
	if b.IsOutside() {
		return fmt.Errorf("outside component %s cannot be given a namespace", b.OutsideURI)
	}
	if b.Namespace != 0 && b.Namespace != ns.ID {
		return fmt.Errorf("component %s is already in another namespace", b.Name)
	}
	b.Namespace = ns.ID
	return nil
}

func setOnce(dst *model.ID, id model.ID, what string) error {
	if *dst != 0 && *dst != id {
		return fmt.Errorf("already has a %s", what)
	}
	*dst = id
	return nil
}

func incomplete(msg string) error {
	return &Error{Code: cmferrors.ErrIncomplete, Message: msg}
}

func componentText(fn func(model.Component, *TextNode) error) rule {
	return func(_ *model.Model, parent, child Node) error {
		return fn(parent.(*ComponentNode).C, child.(*TextNode))
	}
}

func classText(fn func(*model.ClassType, *TextNode) error) rule {
	return func(_ *model.Model, parent, child Node) error {
		return fn(parent.(*ComponentNode).C.(*model.ClassType), child.(*TextNode))
	}
}

func propertyText(fn func(*model.PropertyBase, *TextNode)) rule {
	return func(_ *model.Model, parent, child Node) error {
		fn(parent.(*ComponentNode).C.(model.Property).Prop(), child.(*TextNode))
		return nil
	}
}

func nodeText[P Node](fn func(P, *TextNode) error) rule {
	return func(_ *model.Model, parent, child Node) error {
		return fn(parent.(P), child.(*TextNode))
	}
}

func refRule[T model.Component](fn func(T, model.ID) error) rule {
	return func(_ *model.Model, parent, child Node) error {
		return fn(parent.(*ComponentNode).C.(T), child.(*RefNode).Target.Base().ID)
	}
}
