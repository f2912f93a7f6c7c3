// Package cmf reads and writes models in the Common Model Format.
//
// A model is built from one or more CMF documents in a single read. The read
// either succeeds with a fully linked model or fails with an
// errors.DiagnosticList describing every problem found; a partial model is
// never returned.
package cmf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jacoelho/cmf/internal/nskind"
	"github.com/jacoelho/cmf/internal/reader"
	"github.com/jacoelho/cmf/internal/writer"
	"github.com/jacoelho/cmf/model"
)

// Document is one input document. Open is called once per read pass, so it
// must return a fresh reader each time.
type Document struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// BytesDocument returns a Document backed by data.
func BytesDocument(name string, data []byte) Document {
	doc := reader.BytesDocument(name, data)
	return Document{Name: doc.Name, Open: doc.Open}
}

// FileDocument returns a Document read from path.
func FileDocument(path string) Document {
	doc := reader.FileDocument(path)
	return Document{Name: doc.Name, Open: doc.Open}
}

// FSDocument returns a Document read from path in fsys.
func FSDocument(fsys fs.FS, path string) Document {
	return Document{
		Name: path,
		Open: func() (io.ReadCloser, error) {
			return fsys.Open(path)
		},
	}
}

// ReadFS reads the documents at paths in fsys with default options.
func ReadFS(fsys fs.FS, paths ...string) (*model.Model, error) {
	docs := make([]Document, len(paths))
	for i, path := range paths {
		docs[i] = FSDocument(fsys, path)
	}
	return Read(NewReadOptions(), docs...)
}

// ReadFiles reads the documents at paths with default options.
func ReadFiles(paths ...string) (*model.Model, error) {
	docs := make([]Document, len(paths))
	for i, path := range paths {
		docs[i] = FileDocument(path)
	}
	return Read(NewReadOptions(), docs...)
}

// Read builds one model from docs. Documents may refer to each other in any
// order. A construction failure is returned as an errors.DiagnosticList.
func Read(opts ReadOptions, docs ...Document) (*model.Model, error) {
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("read cmf: %w", err)
	}
	inputs := make([]reader.Document, len(docs))
	for i, doc := range docs {
		if doc.Open == nil {
			return nil, fmt.Errorf("read cmf: document %d (%q) has no Open function", i, doc.Name)
		}
		inputs[i] = reader.Document{Name: doc.Name, Open: doc.Open}
	}

	m := model.New(model.WithLogger(resolved.logger), model.WithReservedPrefixes(resolved.reserved))
	r := reader.New(m, reader.Config{Logger: resolved.logger, Concurrency: resolved.concurrency})
	if err := r.Read(inputs); err != nil {
		return nil, err
	}
	classify(m, nskind.Default().Merge(nskind.New(resolved.kinds)))
	return m, nil
}

// classify fills in the kind code of namespaces that did not declare one.
func classify(m *model.Model, kinds *nskind.Table) {
	for _, ns := range m.Namespaces() {
		if ns.Kind != "" {
			continue
		}
		if kind, ok := kinds.Kind(ns.URI); ok {
			ns.Kind = kind
		}
	}
}

// Write serializes m to w as one CMF document.
func Write(w io.Writer, m *model.Model, opts WriteOptions) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("write cmf: %w", err)
	}
	return writer.Write(w, m, writer.Options{Namespaces: opts.namespaces})
}

// WriteFile serializes m to the file at path, replacing it.
func WriteFile(path string, m *model.Model, opts WriteOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write cmf: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	bw := bufio.NewWriter(f)
	if err := Write(bw, m, opts); err != nil {
		return err
	}
	return bw.Flush()
}
