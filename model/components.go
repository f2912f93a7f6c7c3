package model

import (
	"fmt"
	"strings"
)

// AddClass registers the class ns:name.
func (m *Model) AddClass(ns NamespaceID, name string) (*ClassType, error) {
	c, err := m.add(ns, name, KindClass)
	if err != nil {
		return nil, err
	}
	return c.(*ClassType), nil
}

// AddDataProperty registers the data property ns:name.
func (m *Model) AddDataProperty(ns NamespaceID, name string) (*DataProperty, error) {
	c, err := m.add(ns, name, KindDataProperty)
	if err != nil {
		return nil, err
	}
	return c.(*DataProperty), nil
}

// AddObjectProperty registers the object property ns:name.
func (m *Model) AddObjectProperty(ns NamespaceID, name string) (*ObjectProperty, error) {
	c, err := m.add(ns, name, KindObjectProperty)
	if err != nil {
		return nil, err
	}
	return c.(*ObjectProperty), nil
}

// AddDatatype registers the plain datatype ns:name.
func (m *Model) AddDatatype(ns NamespaceID, name string) (*Datatype, error) {
	c, err := m.add(ns, name, KindDatatype)
	if err != nil {
		return nil, err
	}
	return c.(*Datatype), nil
}

// AddRestriction registers the restriction datatype ns:name.
func (m *Model) AddRestriction(ns NamespaceID, name string) (*Restriction, error) {
	c, err := m.add(ns, name, KindRestriction)
	if err != nil {
		return nil, err
	}
	return c.(*Restriction), nil
}

// AddUnion registers the union datatype ns:name.
func (m *Model) AddUnion(ns NamespaceID, name string) (*Union, error) {
	c, err := m.add(ns, name, KindUnion)
	if err != nil {
		return nil, err
	}
	return c.(*Union), nil
}

// AddList registers the list datatype ns:name.
func (m *Model) AddList(ns NamespaceID, name string) (*ListType, error) {
	c, err := m.add(ns, name, KindList)
	if err != nil {
		return nil, err
	}
	return c.(*ListType), nil
}

// AddComponent registers ns:name with the given kind. It is the generic form
// of the per-kind Add methods.
func (m *Model) AddComponent(ns NamespaceID, name string, kind Kind) (Component, error) {
	return m.add(ns, name, kind)
}

// AddOutside registers a placeholder for a component defined outside the
// model, identified only by uri. An existing component at uri is returned
// when its kind is compatible.
func (m *Model) AddOutside(kind Kind, uri string) (Component, error) {
	if uri == "" {
		return nil, fmt.Errorf("outside component needs a URI")
	}
	if id, ok := m.byURI[uri]; ok {
		existing := m.components[id-1]
		if !compatible(existing.Kind(), kind) {
			return nil, fmt.Errorf("%w: %s is a %s, not %s", ErrDuplicateComponent, uri, existing.Kind(), kind)
		}
		return existing, nil
	}
	c, err := newComponent(kind)
	if err != nil {
		return nil, err
	}
	b := c.Base()
	b.Name = localFromURI(uri)
	b.OutsideURI = uri
	m.insert(c, uri)
	return c, nil
}

func (m *Model) add(ns NamespaceID, name string, kind Kind) (Component, error) {
	n := m.Namespace(ns)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNamespace, ns)
	}
	if name == "" {
		return nil, fmt.Errorf("%s in %s needs a name", kind, n.Prefix)
	}
	uri := ComponentURI(n.URI, name)
	if id, ok := m.byURI[uri]; ok {
		existing := m.components[id-1]
		if !existing.Base().IsOutside() {
			if existing.Kind() != kind {
				return nil, fmt.Errorf("%w: %s:%s is a %s, not %s", ErrDuplicateComponent, n.Prefix, name, existing.Kind(), kind)
			}
			return existing, nil
		}
		if !compatible(existing.Kind(), kind) {
			return nil, fmt.Errorf("%w: %s is referenced as a %s, not %s", ErrDuplicateComponent, uri, existing.Kind(), kind)
		}
		return m.promote(id, ns, name, kind)
	}
	c, err := newComponent(kind)
	if err != nil {
		return nil, err
	}
	b := c.Base()
	b.Name = name
	b.Namespace = ns
	m.insert(c, uri)
	return c, nil
}

// promote turns the outside placeholder at id into a definition in ns.
// The handle is kept so existing references stay valid.
func (m *Model) promote(id ID, ns NamespaceID, name string, kind Kind) (Component, error) {
	c := m.components[id-1]
	if c.Kind() != kind {
		replacement, err := newComponent(kind)
		if err != nil {
			return nil, err
		}
		replacement.Base().Documentation = c.Base().Documentation
		c = replacement
		m.components[id-1] = c
	}
	b := c.Base()
	b.ID = id
	b.Name = name
	b.Namespace = ns
	b.OutsideURI = ""
	return c, nil
}

func (m *Model) insert(c Component, uri string) {
	b := c.Base()
	b.ID = ID(len(m.components) + 1)
	m.components = append(m.components, c)
	m.byURI[uri] = b.ID
}

func newComponent(kind Kind) (Component, error) {
	switch kind {
	case KindClass:
		return &ClassType{}, nil
	case KindDataProperty:
		return &DataProperty{}, nil
	case KindObjectProperty:
		return &ObjectProperty{}, nil
	case KindDatatype:
		return &Datatype{}, nil
	case KindRestriction:
		return &Restriction{}, nil
	case KindUnion:
		return &Union{}, nil
	case KindList:
		return &ListType{}, nil
	default:
		return nil, fmt.Errorf("unknown component kind %s", kind)
	}
}

// compatible reports whether a component registered as have may stand for
// one requested as want. Datatype variants are interchangeable because a
// reference names only "a datatype".
func compatible(have, want Kind) bool {
	if have == want {
		return true
	}
	return have.IsDatatype() && want.IsDatatype()
}

func localFromURI(uri string) string {
	if i := strings.LastIndexAny(uri, "/#:"); i >= 0 && i < len(uri)-1 {
		return uri[i+1:]
	}
	return uri
}

// AddAugmentation appends an augmentation record to namespace ns.
func (m *Model) AddAugmentation(ns NamespaceID, rec AugmentRecord) error {
	n := m.Namespace(ns)
	if n == nil {
		return fmt.Errorf("%w: %d", ErrUnknownNamespace, ns)
	}
	n.Augmentations = append(n.Augmentations, rec)
	return nil
}

// AddLocalTerm appends a local term to namespace ns.
func (m *Model) AddLocalTerm(ns NamespaceID, term LocalTerm) error {
	n := m.Namespace(ns)
	if n == nil {
		return fmt.Errorf("%w: %d", ErrUnknownNamespace, ns)
	}
	n.LocalTerms = append(n.LocalTerms, term)
	return nil
}
