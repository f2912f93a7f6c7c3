// Package reader builds a model from one or more CMF documents.
//
// A read makes three passes over every document. Pass one registers the
// namespaces, pass two registers a stub for each top-level component
// definition, and pass three populates every entity through the attachment
// protocol, resolving references against the per-document identity maps and
// the model. A pass that records a diagnostic ends the read, so later passes
// always see the complete results of earlier ones.
package reader

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"time"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/model"
)

// Document is one input document. Open is called once per pass.
type Document struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// BytesDocument returns a Document backed by data.
func BytesDocument(name string, data []byte) Document {
	return Document{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileDocument returns a Document that opens path on every pass.
func FileDocument(path string) Document {
	return Document{
		Name: path,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Config configures a Reader.
type Config struct {
	Logger *slog.Logger
	// Concurrency bounds the documents scanned at once in the first two
	// passes. Values below one scan sequentially.
	Concurrency int
}

// Reader populates one model. It is not reusable.
type Reader struct {
	m           *model.Model
	logger      *slog.Logger
	concurrency int
	files       []*file
	diags       cmferrors.DiagnosticList
	defined     map[model.ID]definedAt
}

type definedAt struct {
	file string
	loc  location
}

// file holds the identity maps of one document, shared by the passes over it.
type file struct {
	doc        Document
	ids        map[string]location
	namespaces map[string]*model.Namespace
	components map[string]model.Component
	// defs holds, per top-level component element in document order, the
	// component it defines, or nil for a top-level reference.
	defs []model.Component
}

// New returns a Reader that populates m.
func New(m *model.Model, cfg Config) *Reader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Reader{
		m:           m,
		logger:      logger,
		concurrency: concurrency,
		defined:     make(map[model.ID]definedAt),
	}
}

// Read populates the model from docs. On failure it returns a
// cmferrors.DiagnosticList holding every diagnostic recorded, and the model
// must be discarded.
func (r *Reader) Read(docs []Document) error {
	r.files = make([]*file, len(docs))
	for i, doc := range docs {
		r.files[i] = &file{
			doc:        doc,
			ids:        make(map[string]location),
			namespaces: make(map[string]*model.Namespace),
			components: make(map[string]model.Component),
		}
	}

	passes := []struct {
		name string
		run  func()
	}{
		{name: "namespaces", run: r.readNamespaces},
		{name: "components", run: r.readComponents},
		{name: "populate", run: r.populate},
		{name: "check", run: r.check},
	}
	for _, pass := range passes {
		start := time.Now()
		pass.run()
		r.logger.Debug("cmf read pass finished",
			slog.String("pass", pass.name),
			slog.Int("documents", len(docs)),
			slog.Int("namespaces", r.m.NamespaceCount()),
			slog.Int("components", r.m.ComponentCount()),
			slog.Duration("elapsed", time.Since(start)))
		if len(r.diags) > 0 {
			for _, d := range r.diags {
				r.logger.Error("cmf read failed", slog.String("pass", pass.name), slog.String("diagnostic", d.Error()))
			}
			return r.diags
		}
	}
	return nil
}

func (r *Reader) report(d *cmferrors.Diagnostic) {
	if d != nil {
		r.diags = append(r.diags, *d)
	}
}

func (r *Reader) reportAt(f *file, ft *fault) {
	r.diags = append(r.diags, ft.diagnostic(f.doc.Name))
}

// check reports construction invariants that do not hold on the finished model.
func (r *Reader) check() {
	for _, err := range r.m.Check() {
		r.diags = append(r.diags, cmferrors.NewDiagnosticf(cmferrors.ErrIncomplete, "%v", err))
	}
}

// claimID records id as defined at loc in f.
func (f *file) claimID(id string, loc location) *fault {
	if prev, ok := f.ids[id]; ok {
		return faultf(loc, cmferrors.ErrDuplicateComponent, "id %q is already used at line %d", id, prev.line)
	}
	f.ids[id] = loc
	return nil
}
