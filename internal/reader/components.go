package reader

import (
	"errors"
	"fmt"
	"strings"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/internal/vocab"
	"github.com/jacoelho/cmf/model"
)

// componentDecl is a top-level component element with a non-empty Name.
type componentDecl struct {
	ordinal int
	kind    model.Kind
	id      string
	name    string
	nsRef   string
	nsURI   string
	loc     location
}

// componentScan collects top-level component definitions. It counts every
// top-level component element, references included, so the populate pass
// can match elements to stubs by position.
type componentScan struct {
	decls  []componentDecl
	count  int
	cur    *componentDecl
	inName bool
	name   strings.Builder
}

func (s *componentScan) start(ev *event) error {
	switch {
	case ev.Depth == 1 && vocab.IsTopLevelComponent(ev.Name.Local):
		kind, ok := model.KindForElement(ev.Name.Local)
		if !ok {
			return nil
		}
		s.cur = &componentDecl{
			ordinal: s.count,
			kind:    kind,
			id:      structAttr(ev.Attrs, vocab.AttrID),
			loc:     ev.loc(),
		}
		s.count++
	case ev.Depth == 2 && s.cur != nil:
		switch ev.Name.Local {
		case vocab.Name:
			s.inName = true
			s.name.Reset()
		case vocab.Namespace:
			s.cur.nsRef = structAttr(ev.Attrs, vocab.AttrRef)
			s.cur.nsURI = structAttr(ev.Attrs, vocab.AttrURI)
		}
	}
	return nil
}

func (s *componentScan) text(ev *event) error {
	if s.inName && ev.Depth == 2 {
		s.name.Write(ev.Text)
	}
	return nil
}

func (s *componentScan) end(ev *event) error {
	switch {
	case ev.Depth == 2 && s.inName:
		s.cur.name = strings.TrimSpace(s.name.String())
		s.inName = false
	case ev.Depth == 1 && s.cur != nil:
		if s.cur.name != "" {
			s.decls = append(s.decls, *s.cur)
		}
		s.cur = nil
	}
	return nil
}

type componentScanResult struct {
	decls []componentDecl
	count int
}

func scanComponents(f *file) (componentScanResult, *cmferrors.Diagnostic) {
	s := &componentScan{}
	if d := stream(f.doc, s); d != nil {
		return componentScanResult{}, d
	}
	return componentScanResult{decls: s.decls, count: s.count}, nil
}

// readComponents is the second pass.
func (r *Reader) readComponents() {
	results, diags := scanAll(r, scanComponents)
	for i, f := range r.files {
		if diags[i] != nil {
			r.report(diags[i])
			continue
		}
		res := results[i]
		f.defs = make([]model.Component, res.count)
		for _, decl := range res.decls {
			if ft := r.registerComponent(f, decl); ft != nil {
				r.reportAt(f, ft)
				break
			}
		}
	}
}

func (r *Reader) registerComponent(f *file, decl componentDecl) *fault {
	ns, ft := r.definitionNamespace(f, decl)
	if ft != nil {
		return ft
	}
	c, err := r.m.AddComponent(ns.ID, decl.name, decl.kind)
	if err != nil {
		code := cmferrors.ErrVocabulary
		if errors.Is(err, model.ErrDuplicateComponent) {
			code = cmferrors.ErrDuplicateComponent
		}
		return faultf(decl.loc, code, "%v", err)
	}
	id := c.Base().ID
	if prev, ok := r.defined[id]; ok {
		return faultf(decl.loc, cmferrors.ErrDuplicateComponent,
			"%s %s is already defined at %s:%d", decl.kind, r.m.QName(c), prev.file, prev.loc.line)
	}
	r.defined[id] = definedAt{file: f.doc.Name, loc: decl.loc}
	if decl.id != "" {
		if ft := f.claimID(decl.id, decl.loc); ft != nil {
			return ft
		}
		f.components[decl.id] = c
	}
	f.defs[decl.ordinal] = c
	return nil
}

func (r *Reader) definitionNamespace(f *file, decl componentDecl) (*model.Namespace, *fault) {
	if decl.nsRef == "" && decl.nsURI == "" {
		return nil, faultf(decl.loc, cmferrors.ErrIncomplete, "%s %s names no namespace", decl.kind, decl.name)
	}
	ns, err := r.resolveNamespace(f, decl.nsRef, decl.nsURI)
	if err != nil {
		return nil, faultf(decl.loc, cmferrors.ErrDanglingReference, "%s %s: %v", decl.kind, decl.name, err)
	}
	return ns, nil
}

// resolveNamespace resolves a namespace reference by file-local id, by
// fragment, or by absolute URI. Namespaces never get placeholders.
func (r *Reader) resolveNamespace(f *file, ref, uri string) (*model.Namespace, error) {
	key := ref
	if fragment, ok := strings.CutPrefix(uri, "#"); ok && key == "" {
		key = fragment
	}
	if key != "" {
		if ns, ok := f.namespaces[key]; ok {
			return ns, nil
		}
		return nil, fmt.Errorf("no namespace with id %q in this document", key)
	}
	if ns := r.m.NamespaceByURI(uri); ns != nil {
		return ns, nil
	}
	return nil, fmt.Errorf("no namespace with URI %s", uri)
}
