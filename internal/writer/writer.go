// Package writer serializes a model to a CMF document.
//
// Output is deterministic: namespaces are written in prefix order, then
// properties, classes and datatypes, each group ordered by namespace prefix
// and natural order of name. A reference to a component in a namespace being
// written is a structures:ref to its document id; any other reference,
// including one to an outside placeholder, is a structures:uri holding the
// absolute URI. Fields at their zero value are omitted.
package writer

import (
	"cmp"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jacoelho/cmf/internal/natural"
	"github.com/jacoelho/cmf/internal/vocab"
	"github.com/jacoelho/cmf/model"
)

// Options selects what to write.
type Options struct {
	// Namespaces lists the prefixes of the namespaces to write. Empty
	// means every namespace in the model.
	Namespaces []string
}

// Write writes m to w as one CMF document.
func Write(w io.Writer, m *model.Model, opts Options) error {
	wr, err := newWriter(w, m, opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	wr.model()
	if wr.err == nil {
		wr.err = wr.enc.Flush()
	}
	if wr.err == nil {
		_, wr.err = io.WriteString(w, "\n")
	}
	if wr.err != nil {
		return fmt.Errorf("write cmf: %w", wr.err)
	}
	return nil
}

type writer struct {
	m       *model.Model
	enc     *xml.Encoder
	order   *natural.Order
	written map[model.NamespaceID]bool
	err     error
}

func newWriter(w io.Writer, m *model.Model, opts Options) (*writer, error) {
	written := make(map[model.NamespaceID]bool)
	if len(opts.Namespaces) == 0 {
		for _, ns := range m.Namespaces() {
			written[ns.ID] = true
		}
	}
	for _, prefix := range opts.Namespaces {
		ns := m.NamespaceByPrefix(prefix)
		if ns == nil {
			return nil, fmt.Errorf("write cmf: no namespace with prefix %q", prefix)
		}
		written[ns.ID] = true
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &writer{m: m, enc: enc, order: natural.New(), written: written}, nil
}

func (w *writer) model() {
	w.start(vocab.Model,
		attr("xmlns", vocab.CMFNamespace),
		attr("xmlns:"+vocab.StructuresPrefix, vocab.StructuresNamespace))
	for _, ns := range w.m.Namespaces() {
		if w.written[ns.ID] {
			w.namespace(ns)
		}
	}
	groups := [][]model.Component{nil, nil, nil}
	for _, c := range w.m.Components() {
		b := c.Base()
		if b.IsOutside() || !w.written[b.Namespace] {
			continue
		}
		switch k := c.Kind(); {
		case k.IsProperty():
			groups[0] = append(groups[0], c)
		case k == model.KindClass:
			groups[1] = append(groups[1], c)
		default:
			groups[2] = append(groups[2], c)
		}
	}
	for _, group := range groups {
		slices.SortFunc(group, w.compareComponents)
		for _, c := range group {
			w.component(c)
		}
	}
	w.end(vocab.Model)
}

func (w *writer) compareComponents(a, b model.Component) int {
	pa := w.m.Namespace(a.Base().Namespace).Prefix
	pb := w.m.Namespace(b.Base().Namespace).Prefix
	if r := strings.Compare(pa, pb); r != 0 {
		return r
	}
	return w.order.Compare(a.Base().Name, b.Base().Name)
}

func (w *writer) namespace(ns *model.Namespace) {
	w.start(vocab.Namespace, structAttr(vocab.AttrID, ns.Prefix))
	w.leaf(vocab.NamespaceURI, ns.URI)
	w.leaf(vocab.NamespacePrefixText, ns.Prefix)
	w.docs(vocab.DocumentationText, ns.Documentation)
	w.leaf(vocab.NamespaceKindCode, ns.Kind)
	w.leaf(vocab.NamespaceVersionText, ns.Version)
	w.leaf(vocab.NamespaceLanguageName, ns.Language)
	w.leaf(vocab.ConformanceTargetURIList, strings.Join(ns.ConformanceTargets, " "))

	terms := slices.Clone(ns.LocalTerms)
	slices.SortStableFunc(terms, func(a, b model.LocalTerm) int { return strings.Compare(a.Term, b.Term) })
	for _, term := range terms {
		w.localTerm(term)
	}

	records := slices.Clone(ns.Augmentations)
	slices.SortStableFunc(records, func(a, b model.AugmentRecord) int {
		return cmp.Or(
			strings.Compare(w.m.QNameOf(a.Class), w.m.QNameOf(b.Class)),
			strings.Compare(w.m.QNameOf(a.Property), w.m.QNameOf(b.Property)),
		)
	})
	for _, rec := range records {
		w.augmentation(rec)
	}

	for _, uri := range slices.Sorted(maps.Keys(ns.ImportDocs)) {
		w.start(vocab.ImportDocumentation)
		w.leaf(vocab.NamespaceURI, uri)
		w.docs(vocab.DocumentationText, ns.ImportDocs[uri])
		w.end(vocab.ImportDocumentation)
	}
	w.end(vocab.Namespace)
}

func (w *writer) localTerm(term model.LocalTerm) {
	w.start(vocab.LocalTerm)
	w.leaf(vocab.TermName, term.Term)
	w.leaf(vocab.TermLiteralText, term.Literal)
	w.docs(vocab.DocumentationText, term.Documentation)
	w.leaf(vocab.SourceURIs, strings.Join(term.SourceURIs, " "))
	w.docs(vocab.SourceCitationText, term.Citations)
	w.end(vocab.LocalTerm)
}

func (w *writer) augmentation(rec model.AugmentRecord) {
	w.start(vocab.AugmentationRecord)
	w.ref(vocab.Class, rec.Class)
	if p := w.m.Component(rec.Property); p != nil {
		w.ref(p.Kind().String(), rec.Property)
	}
	if rec.Index != 0 {
		w.leaf(vocab.AugmentationIndex, strconv.Itoa(rec.Index))
	}
	w.leaf(vocab.MinOccursQuantity, rec.MinOccurs)
	w.leaf(vocab.MaxOccursQuantity, rec.MaxOccurs)
	for _, code := range rec.GlobalClassCodes {
		w.leaf(vocab.GlobalClassCode, code)
	}
	w.end(vocab.AugmentationRecord)
}

func (w *writer) component(c model.Component) {
	b := c.Base()
	element := c.Kind().String()
	w.start(element, structAttr(vocab.AttrID, w.id(c)))
	w.leaf(vocab.Name, b.Name)
	w.start(vocab.Namespace, structAttr(vocab.AttrRef, w.m.Namespace(b.Namespace).Prefix))
	w.end(vocab.Namespace)
	w.docs(vocab.DocumentationText, b.Documentation)
	w.flag(vocab.DeprecatedIndicator, b.Deprecated)

	switch c := c.(type) {
	case *model.ClassType:
		w.flag(vocab.AbstractIndicator, c.Abstract)
		w.leaf(vocab.ReferenceCode, c.ReferenceCode)
		w.ref(vocab.SubClassOf, c.SubClassOf)
		for i := range c.Properties {
			w.association(&c.Properties[i])
		}
		for _, a := range c.AnyProperties {
			w.anyProperty(a)
		}
	case *model.DataProperty:
		w.property(&c.PropertyBase)
		w.ref(vocab.Datatype, c.Datatype)
	case *model.ObjectProperty:
		w.property(&c.PropertyBase)
		w.ref(vocab.Class, c.Class)
	case *model.Restriction:
		w.ref(vocab.RestrictionBase, c.BaseType)
		for _, f := range c.Facets {
			w.start(vocab.Facet)
			w.leaf(vocab.FacetCategoryCode, f.Category)
			w.leaf(vocab.FacetValue, f.Value)
			w.docs(vocab.DocumentationText, f.Documentation)
			w.end(vocab.Facet)
		}
		if cl := c.CodeList; cl != nil {
			w.start(vocab.CodeListBinding)
			w.leaf(vocab.CodeListURI, cl.URI)
			w.leaf(vocab.CodeListColumnName, cl.ColumnName)
			w.flag(vocab.CodeListConstrainingIndicator, cl.Constraining)
			w.end(vocab.CodeListBinding)
		}
	case *model.Union:
		for _, member := range c.Members {
			w.ref(vocab.UnionMemberDatatype, member)
		}
	case *model.ListType:
		w.ref(vocab.ListItemDatatype, c.ItemType)
		w.flag(vocab.OrderedPropertyIndicator, c.Ordered)
	case *model.Datatype:
	}
	w.end(element)
}

func (w *writer) property(p *model.PropertyBase) {
	w.flag(vocab.AbstractIndicator, p.Abstract)
	w.flag(vocab.OrderedPropertyIndicator, p.Ordered)
	w.flag(vocab.AttributeIndicator, p.Attribute)
	w.ref(vocab.SubPropertyOf, p.SubPropertyOf)
}

func (w *writer) association(a *model.PropertyAssociation) {
	w.start(vocab.ChildPropertyAssociation)
	if p := w.m.Component(a.Property); p != nil {
		w.ref(p.Kind().String(), a.Property)
	}
	w.leaf(vocab.MinOccursQuantity, a.MinOccurs)
	w.leaf(vocab.MaxOccursQuantity, a.MaxOccurs)
	w.flag(vocab.OrderedPropertyIndicator, a.Ordered)
	w.docs(vocab.DocumentationText, a.Documentation)
	w.end(vocab.ChildPropertyAssociation)
}

func (w *writer) anyProperty(a model.AnyProperty) {
	w.start(vocab.AnyProperty)
	w.leaf(vocab.AnyNamespaceText, a.NamespaceConstraint)
	w.leaf(vocab.AnyProcessCode, a.ProcessCode)
	w.leaf(vocab.MinOccursQuantity, a.MinOccurs)
	w.leaf(vocab.MaxOccursQuantity, a.MaxOccurs)
	w.flag(vocab.AttributeIndicator, a.Attribute)
	w.end(vocab.AnyProperty)
}

// id is the document id of a written component.
func (w *writer) id(c model.Component) string {
	b := c.Base()
	return w.m.Namespace(b.Namespace).Prefix + "." + b.Name
}

// ref writes an empty reference element; an unset handle writes nothing.
func (w *writer) ref(element string, id model.ID) {
	c := w.m.Component(id)
	if c == nil {
		return
	}
	b := c.Base()
	if !b.IsOutside() && w.written[b.Namespace] {
		w.start(element, structAttr(vocab.AttrRef, w.id(c)))
	} else {
		w.start(element, structAttr(vocab.AttrURI, w.m.URI(c)))
	}
	w.end(element)
}

func (w *writer) leaf(element, value string) {
	if value == "" {
		return
	}
	w.start(element)
	w.chars(value)
	w.end(element)
}

func (w *writer) flag(element string, v bool) {
	if v {
		w.leaf(element, "true")
	}
}

func (w *writer) docs(element string, texts []model.Text) {
	for _, t := range texts {
		if t.Value == "" {
			continue
		}
		if t.Lang != "" {
			w.start(element, attr("xml:"+vocab.AttrLang, t.Lang))
		} else {
			w.start(element)
		}
		w.chars(t.Value)
		w.end(element)
	}
}

func (w *writer) start(element string, attrs ...xml.Attr) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: element}, Attr: attrs})
	}
}

func (w *writer) end(element string) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: element}})
	}
}

func (w *writer) chars(s string) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.CharData(s))
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func structAttr(local, value string) xml.Attr {
	return attr(vocab.StructuresPrefix+":"+local, value)
}
