package reader

import (
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/internal/vocab"
	"github.com/jacoelho/cmf/model"
)

// scanAll runs scan over every file, up to r.concurrency at a time. Results
// keep input order so registration does not depend on scheduling.
func scanAll[T any](r *Reader, scan func(*file) (T, *cmferrors.Diagnostic)) ([]T, []*cmferrors.Diagnostic) {
	results := make([]T, len(r.files))
	diags := make([]*cmferrors.Diagnostic, len(r.files))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, f := range r.files {
		g.Go(func() error {
			results[i], diags[i] = scan(f)
			return nil
		})
	}
	_ = g.Wait()
	return results, diags
}

// namespaceDecl is a top-level Namespace element carrying both an id and a URI.
type namespaceDecl struct {
	id     string
	prefix string
	uri    string
	loc    location
}

// namespaceScan collects namespace declarations. Only direct children of the
// Model are declarations; a Namespace without a URI is a reference.
type namespaceScan struct {
	decls []namespaceDecl
	cur   *namespaceDecl
	leaf  string
	buf   strings.Builder
}

func (s *namespaceScan) start(ev *event) error {
	switch {
	case ev.Depth == 1 && ev.Name.Local == vocab.Namespace:
		s.cur = &namespaceDecl{id: structAttr(ev.Attrs, vocab.AttrID), loc: ev.loc()}
	case ev.Depth == 2 && s.cur != nil:
		if ev.Name.Local == vocab.NamespaceURI || ev.Name.Local == vocab.NamespacePrefixText {
			s.leaf = ev.Name.Local
			s.buf.Reset()
		}
	}
	return nil
}

func (s *namespaceScan) text(ev *event) error {
	if s.leaf != "" && ev.Depth == 2 {
		s.buf.Write(ev.Text)
	}
	return nil
}

func (s *namespaceScan) end(ev *event) error {
	switch {
	case ev.Depth == 2 && s.leaf != "":
		value := strings.TrimSpace(s.buf.String())
		if s.leaf == vocab.NamespaceURI {
			s.cur.uri = value
		} else {
			s.cur.prefix = value
		}
		s.leaf = ""
	case ev.Depth == 1 && s.cur != nil:
		if s.cur.id != "" && s.cur.uri != "" {
			if s.cur.prefix == "" {
				s.cur.prefix = s.cur.id
			}
			s.decls = append(s.decls, *s.cur)
		}
		s.cur = nil
	}
	return nil
}

func scanNamespaces(f *file) ([]namespaceDecl, *cmferrors.Diagnostic) {
	s := &namespaceScan{}
	if d := stream(f.doc, s); d != nil {
		return nil, d
	}
	return s.decls, nil
}

// readNamespaces is the first pass.
func (r *Reader) readNamespaces() {
	results, diags := scanAll(r, scanNamespaces)
	for i, f := range r.files {
		if diags[i] != nil {
			r.report(diags[i])
			continue
		}
		for _, decl := range results[i] {
			if err := r.registerNamespace(f, decl); err != nil {
				r.reportAt(f, err)
				break
			}
		}
	}
}

func (r *Reader) registerNamespace(f *file, decl namespaceDecl) *fault {
	if ft := f.claimID(decl.id, decl.loc); ft != nil {
		return ft
	}
	ns, err := r.m.AssignNamespace(decl.prefix, decl.uri)
	if err != nil {
		code := cmferrors.ErrNamespaceConflict
		if !errors.Is(err, model.ErrNamespaceConflict) {
			code = cmferrors.ErrVocabulary
		}
		return faultf(decl.loc, code, "namespace %s: %v", decl.id, err)
	}
	f.namespaces[decl.id] = ns
	return nil
}
