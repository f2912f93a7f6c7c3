package reader

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/internal/attach"
	"github.com/jacoelho/cmf/internal/state"
	"github.com/jacoelho/cmf/internal/vocab"
	"github.com/jacoelho/cmf/model"
)

// frame is the state kept for one open element: the entity under
// construction, its source location, its accumulated text and its
// inherited language.
type frame struct {
	element string
	node    attach.Node
	leaf    bool
	ref     bool
	text    strings.Builder
	lang    string
	loc     location
}

// populator is the state machine of the populate pass over one document.
// Every start event pushes a frame and every end event pops one and
// attaches it to the frame below.
type populator struct {
	r       *Reader
	f       *file
	frames  state.Stack[*frame]
	ordinal int
}

// populate is the third pass. Documents are populated in input order.
func (r *Reader) populate() {
	for _, f := range r.files {
		p := &populator{r: r, f: f, frames: state.NewStack[*frame](16)}
		r.report(stream(f.doc, p))
	}
}

func (p *populator) start(ev *event) error {
	fr := &frame{element: ev.Name.Local, loc: ev.loc()}
	parent, hasParent := p.frames.Peek()
	if hasParent {
		fr.lang = parent.lang
	}
	if lang, ok := langAttr(ev.Attrs); ok {
		fr.lang = lang
	}
	if !hasParent {
		fr.node = &attach.ModelNode{}
		p.frames.Push(fr)
		return nil
	}
	if parent.leaf {
		return faultf(fr.loc, cmferrors.ErrVocabulary, "%s cannot contain element %s", parent.element, fr.element)
	}
	if parent.ref {
		return faultf(fr.loc, cmferrors.ErrVocabulary, "reference %s cannot carry content, found element %s", parent.element, fr.element)
	}

	local := fr.element
	switch {
	case vocab.IsLeaf(local):
		fr.leaf = true
	case vocab.IsRecord(local):
		fr.node = newRecord(local)
	case local == vocab.Namespace:
		node, ref, ft := p.namespace(ev)
		if ft != nil {
			return ft
		}
		fr.node, fr.ref = node, ref
	default:
		if kind, ok := model.KindForElement(local); ok {
			node, ref, ft := p.component(ev, kind)
			if ft != nil {
				return ft
			}
			fr.node, fr.ref = node, ref
			break
		}
		want, ok := roleKind(local, parent)
		if !ok {
			return faultf(fr.loc, cmferrors.ErrVocabulary, "unknown element %s", local)
		}
		target, ft := p.resolve(ev, want)
		if ft != nil {
			return ft
		}
		fr.node, fr.ref = &attach.RefNode{Target: target}, true
	}
	p.frames.Push(fr)
	return nil
}

func (p *populator) text(ev *event) error {
	fr, ok := p.frames.Peek()
	if !ok {
		return nil
	}
	if fr.leaf {
		fr.text.Write(ev.Text)
		return nil
	}
	if isBlank(ev.Text) {
		return nil
	}
	if fr.ref {
		return faultf(ev.loc(), cmferrors.ErrVocabulary, "reference %s cannot carry content, found text", fr.element)
	}
	return faultf(ev.loc(), cmferrors.ErrVocabulary, "unexpected text in %s", fr.element)
}

func (p *populator) end(*event) error {
	fr, _ := p.frames.Pop()
	parent, ok := p.frames.Peek()
	if !ok {
		return nil
	}
	child := fr.node
	if fr.leaf {
		child = &attach.TextNode{Text: strings.TrimSpace(fr.text.String()), Lang: fr.lang}
	}
	if err := attach.Attach(p.r.m, parent.node, child, fr.element); err != nil {
		var ae *attach.Error
		if errors.As(err, &ae) {
			return faultf(fr.loc, ae.Code, "%s", ae.Error())
		}
		return faultf(fr.loc, cmferrors.ErrVocabulary, "%v", err)
	}
	return nil
}

// namespace returns the node for a Namespace element: the namespace being
// defined for a registered top-level declaration, a reference otherwise.
func (p *populator) namespace(ev *event) (attach.Node, bool, *fault) {
	id := structAttr(ev.Attrs, vocab.AttrID)
	if ev.Depth == 1 && id != "" {
		ns, ok := p.f.namespaces[id]
		if !ok {
			return nil, false, faultf(ev.loc(), cmferrors.ErrIncomplete, "namespace %s declares no NamespaceURI", id)
		}
		return &attach.NamespaceNode{NS: ns}, false, nil
	}
	ref := structAttr(ev.Attrs, vocab.AttrRef)
	uri := structAttr(ev.Attrs, vocab.AttrURI)
	if ref == "" && uri == "" {
		return nil, false, faultf(ev.loc(), cmferrors.ErrDanglingReference, "namespace reference has no ref or uri attribute")
	}
	if _, ok := p.f.components[ref]; ok && ref != "" {
		return nil, false, faultf(ev.loc(), cmferrors.ErrKindMismatch, "%q names a component, not a namespace", ref)
	}
	ns, err := p.r.resolveNamespace(p.f, ref, uri)
	if err != nil {
		return nil, false, faultf(ev.loc(), cmferrors.ErrDanglingReference, "%v", err)
	}
	return &attach.RefNode{NS: ns}, true, nil
}

// component returns the node for a component element. Top-level elements
// registered by the components pass are definitions; every other component
// element is a reference.
func (p *populator) component(ev *event, kind model.Kind) (attach.Node, bool, *fault) {
	if ev.Depth == 1 {
		ordinal := p.ordinal
		p.ordinal++
		if ordinal < len(p.f.defs) && p.f.defs[ordinal] != nil {
			return &attach.ComponentNode{C: p.f.defs[ordinal]}, false, nil
		}
	}
	target, ft := p.resolve(ev, kind)
	if ft != nil {
		return nil, false, ft
	}
	return &attach.RefNode{Target: target}, true, nil
}

// resolve resolves a component reference: by file-local id, then by
// absolute URI in the model, then by creating an outside placeholder for an
// absolute URI that resolves to nothing.
func (p *populator) resolve(ev *event, want model.Kind) (model.Component, *fault) {
	loc := ev.loc()
	ref := structAttr(ev.Attrs, vocab.AttrRef)
	uri := structAttr(ev.Attrs, vocab.AttrURI)
	key := ref
	if fragment, ok := strings.CutPrefix(uri, "#"); ok {
		if key == "" {
			key = fragment
		}
		uri = ""
	}

	if key != "" {
		if c, ok := p.f.components[key]; ok {
			return p.checkKind(loc, ev.Name.Local, c, want)
		}
		if _, ok := p.f.namespaces[key]; ok {
			return nil, faultf(loc, cmferrors.ErrKindMismatch, "%s reference %q names a namespace, want %s", ev.Name.Local, key, want)
		}
		if uri == "" {
			return nil, faultf(loc, cmferrors.ErrDanglingReference, "%s reference %q matches no id in this document", ev.Name.Local, key)
		}
	}
	if uri == "" {
		return nil, faultf(loc, cmferrors.ErrDanglingReference, "%s reference has no ref or uri attribute", ev.Name.Local)
	}
	if c := p.r.m.ComponentByURI(uri); c != nil {
		return p.checkKind(loc, ev.Name.Local, c, want)
	}
	if !isAbsoluteURI(uri) {
		return nil, faultf(loc, cmferrors.ErrDanglingReference, "%s reference %q is not an absolute URI", ev.Name.Local, uri)
	}
	c, err := p.r.m.AddOutside(want, uri)
	if err != nil {
		return nil, faultf(loc, cmferrors.ErrKindMismatch, "%v", err)
	}
	p.r.logger.Debug("outside component placeholder created",
		slog.String("uri", uri),
		slog.String("kind", want.String()),
		slog.String("file", p.f.doc.Name),
		slog.Int("line", loc.line))
	return c, nil
}

func (p *populator) checkKind(loc location, element string, c model.Component, want model.Kind) (model.Component, *fault) {
	have := c.Kind()
	if have == want || (have.IsDatatype() && want.IsDatatype()) {
		return c, nil
	}
	return nil, faultf(loc, cmferrors.ErrKindMismatch, "%s reference resolves to %s %s, want %s",
		element, have, p.r.m.QName(c), want)
}

// roleKind returns the kind a role element refers to.
func roleKind(local string, parent *frame) (model.Kind, bool) {
	switch local {
	case vocab.SubClassOf:
		return model.KindClass, true
	case vocab.SubPropertyOf:
		if cn, ok := parent.node.(*attach.ComponentNode); ok && cn.C.Kind().IsProperty() {
			return cn.C.Kind(), true
		}
		return model.KindDataProperty, true
	case vocab.RestrictionBase, vocab.ListItemDatatype, vocab.UnionMemberDatatype:
		return model.KindDatatype, true
	default:
		return 0, false
	}
}

func newRecord(local string) attach.Node {
	switch local {
	case vocab.ChildPropertyAssociation:
		return &attach.AssociationNode{}
	case vocab.AnyProperty:
		return &attach.AnyNode{}
	case vocab.AugmentationRecord:
		return &attach.AugmentNode{}
	case vocab.Facet:
		return &attach.FacetNode{}
	case vocab.LocalTerm:
		return &attach.TermNode{}
	case vocab.CodeListBinding:
		return &attach.CodeListNode{}
	default:
		return &attach.ImportDocNode{}
	}
}

func isAbsoluteURI(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && u.IsAbs()
}
