// Package model holds the in-memory CMF model: namespaces, components and the
// records that hang off them, owned by one registry that indexes them by
// absolute URI and qualified name.
//
// Entities live in arenas owned by the Model and refer to each other through
// ID and NamespaceID handles, so cyclic references need no ownership tree.
package model

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/jacoelho/cmf/internal/prefixmap"
	"github.com/jacoelho/cmf/internal/vocab"
)

var (
	// ErrNamespaceConflict reports a prefix or URI already bound to a different counterpart.
	ErrNamespaceConflict = errors.New("namespace conflict")
	// ErrDuplicateComponent reports a URI already registered for another component kind.
	ErrDuplicateComponent = errors.New("duplicate component")
	// ErrUnknownNamespace reports a namespace handle that is not in the model.
	ErrUnknownNamespace = errors.New("unknown namespace")
)

// Model is the registry that owns every entity of one CMF model.
// It is built once and may be read concurrently afterwards.
type Model struct {
	logger     *slog.Logger
	prefixes   *prefixmap.Map
	namespaces []*Namespace
	nsByURI    map[string]NamespaceID
	components []Component
	byURI      map[string]ID
}

type config struct {
	logger   *slog.Logger
	reserved map[string]string
}

// Option configures a Model.
type Option func(*config)

// WithLogger sets the logger used for recoverable conditions such as prefix munging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReservedPrefixes adds prefix bindings on top of the CMF reserved set.
func WithReservedPrefixes(reserved map[string]string) Option {
	return func(c *config) {
		maps.Copy(c.reserved, reserved)
	}
}

// New returns an empty model.
func New(opts ...Option) *Model {
	cfg := config{
		logger:   slog.New(slog.DiscardHandler),
		reserved: vocab.Reserved(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Model{
		logger:   cfg.logger,
		prefixes: prefixmap.New(cfg.reserved),
		nsByURI:  make(map[string]NamespaceID),
		byURI:    make(map[string]ID),
	}
}

// AddNamespace registers a namespace with an exact prefix. Repeating an
// identical registration returns the existing namespace; any other overlap
// with a bound prefix or URI is ErrNamespaceConflict.
func (m *Model) AddNamespace(prefix, uri string) (*Namespace, error) {
	if prefix == "" || uri == "" {
		return nil, fmt.Errorf("%w: namespace needs prefix and URI (prefix %q, uri %q)", ErrNamespaceConflict, prefix, uri)
	}
	if id, ok := m.nsByURI[uri]; ok {
		ns := m.namespaces[id-1]
		if ns.Prefix == prefix {
			return ns, nil
		}
		return nil, fmt.Errorf("%w: %s is bound to prefix %s, not %s", ErrNamespaceConflict, uri, ns.Prefix, prefix)
	}
	if bound, ok := m.prefixes.URI(prefix); ok && bound != uri {
		return nil, fmt.Errorf("%w: prefix %s is bound to %s, not %s", ErrNamespaceConflict, prefix, bound, uri)
	}
	if bound, ok := m.prefixes.Prefix(uri); ok && bound != prefix {
		return nil, fmt.Errorf("%w: %s is bound to prefix %s, not %s", ErrNamespaceConflict, uri, bound, prefix)
	}
	actual, _ := m.prefixes.Assign(prefix, uri)
	return m.newNamespace(actual, prefix, uri), nil
}

// AssignNamespace registers a namespace declared with prefix. A prefix
// already bound to another URI is munged and logged. A URI that is already
// registered is accepted when prefix is its assigned or declared prefix.
func (m *Model) AssignNamespace(prefix, uri string) (*Namespace, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: namespace needs a URI (prefix %q)", ErrNamespaceConflict, prefix)
	}
	if id, ok := m.nsByURI[uri]; ok {
		ns := m.namespaces[id-1]
		if prefix == "" || prefix == ns.Prefix || prefix == ns.DeclaredPrefix {
			return ns, nil
		}
		return nil, fmt.Errorf("%w: %s is bound to prefix %s, not %s", ErrNamespaceConflict, uri, ns.Prefix, prefix)
	}
	actual, munged := m.prefixes.Assign(prefix, uri)
	if munged {
		m.logger.Warn("namespace prefix collision resolved",
			slog.String("declared", prefix),
			slog.String("assigned", actual),
			slog.String("uri", uri))
	}
	return m.newNamespace(actual, prefix, uri), nil
}

// ChangePrefix rebinds a namespace to a new prefix, munging on collision.
func (m *Model) ChangePrefix(id NamespaceID, prefix string) (string, error) {
	ns := m.Namespace(id)
	if ns == nil {
		return "", fmt.Errorf("%w: %d", ErrUnknownNamespace, id)
	}
	actual, _, err := m.prefixes.Change(prefix, ns.URI)
	if err != nil {
		return "", fmt.Errorf("change prefix of %s: %w", ns.URI, err)
	}
	ns.Prefix = actual
	return actual, nil
}

func (m *Model) newNamespace(prefix, declared, uri string) *Namespace {
	ns := &Namespace{
		ID:             NamespaceID(len(m.namespaces) + 1),
		Prefix:         prefix,
		DeclaredPrefix: declared,
		URI:            uri,
	}
	m.namespaces = append(m.namespaces, ns)
	m.nsByURI[uri] = ns.ID
	return ns
}

// Namespace returns the namespace with id, or nil.
func (m *Model) Namespace(id NamespaceID) *Namespace {
	if id == 0 || int(id) > len(m.namespaces) {
		return nil
	}
	return m.namespaces[id-1]
}

// NamespaceByPrefix returns the namespace bound to prefix, or nil.
func (m *Model) NamespaceByPrefix(prefix string) *Namespace {
	uri, ok := m.prefixes.URI(prefix)
	if !ok {
		return nil
	}
	return m.NamespaceByURI(uri)
}

// NamespaceByURI returns the namespace with uri, or nil.
func (m *Model) NamespaceByURI(uri string) *Namespace {
	id, ok := m.nsByURI[uri]
	if !ok {
		return nil
	}
	return m.namespaces[id-1]
}

// Namespaces returns every namespace in prefix order.
func (m *Model) Namespaces() []*Namespace {
	out := make([]*Namespace, 0, len(m.namespaces))
	for _, prefix := range m.prefixes.Prefixes() {
		if ns := m.NamespaceByPrefix(prefix); ns != nil {
			out = append(out, ns)
		}
	}
	return out
}

// NamespaceCount reports the number of namespaces.
func (m *Model) NamespaceCount() int {
	return len(m.namespaces)
}

// ComponentURI joins a namespace URI and a local name into a component URI.
func ComponentURI(namespaceURI, name string) string {
	if strings.HasSuffix(namespaceURI, "/") || strings.HasSuffix(namespaceURI, "#") || strings.HasSuffix(namespaceURI, ":") {
		return namespaceURI + name
	}
	return namespaceURI + "#" + name
}
