package model

// Component returns the component with id, or nil.
func (m *Model) Component(id ID) Component {
	if id == 0 || int(id) > len(m.components) {
		return nil
	}
	return m.components[id-1]
}

// Class returns the class with id, or nil when id is not a class.
func (m *Model) Class(id ID) *ClassType {
	c, _ := m.Component(id).(*ClassType)
	return c
}

// Property returns the property with id, or nil when id is not a property.
func (m *Model) Property(id ID) Property {
	p, _ := m.Component(id).(Property)
	return p
}

// Datatype returns the datatype variant with id, or nil when id is not a datatype.
func (m *Model) Datatype(id ID) Component {
	c := m.Component(id)
	if c == nil || !c.Kind().IsDatatype() {
		return nil
	}
	return c
}

// ComponentByURI returns the component registered under an absolute URI, or nil.
func (m *Model) ComponentByURI(uri string) Component {
	id, ok := m.byURI[uri]
	if !ok {
		return nil
	}
	return m.components[id-1]
}

// ComponentByQName resolves "prefix:name" to a component, or nil.
func (m *Model) ComponentByQName(qname string) Component {
	q, err := ParseQName(qname)
	if err != nil {
		return nil
	}
	ns := m.NamespaceByPrefix(q.Prefix)
	if ns == nil {
		return nil
	}
	return m.ComponentByURI(ComponentURI(ns.URI, q.Local))
}

// ClassByQName resolves "prefix:name" to a class, or nil.
func (m *Model) ClassByQName(qname string) *ClassType {
	c, _ := m.ComponentByQName(qname).(*ClassType)
	return c
}

// PropertyByQName resolves "prefix:name" to a property, or nil.
func (m *Model) PropertyByQName(qname string) Property {
	p, _ := m.ComponentByQName(qname).(Property)
	return p
}

// DatatypeByQName resolves "prefix:name" to a datatype variant, or nil.
func (m *Model) DatatypeByQName(qname string) Component {
	c := m.ComponentByQName(qname)
	if c == nil || !c.Kind().IsDatatype() {
		return nil
	}
	return c
}

// Components returns every component in registration order.
func (m *Model) Components() []Component {
	out := make([]Component, len(m.components))
	copy(out, m.components)
	return out
}

// ComponentsIn returns the components owned by namespace ns in registration order.
func (m *Model) ComponentsIn(ns NamespaceID) []Component {
	var out []Component
	for _, c := range m.components {
		if c.Base().Namespace == ns {
			out = append(out, c)
		}
	}
	return out
}

// ComponentCount reports the number of components, placeholders included.
func (m *Model) ComponentCount() int {
	return len(m.components)
}

// URI returns the absolute URI of c.
func (m *Model) URI(c Component) string {
	b := c.Base()
	if b.IsOutside() {
		return b.OutsideURI
	}
	ns := m.Namespace(b.Namespace)
	if ns == nil {
		return ""
	}
	return ComponentURI(ns.URI, b.Name)
}

// QName returns "prefix:name" for c, or its URI when c is an outside placeholder.
func (m *Model) QName(c Component) string {
	b := c.Base()
	if b.IsOutside() {
		return b.OutsideURI
	}
	ns := m.Namespace(b.Namespace)
	if ns == nil {
		return b.Name
	}
	return ns.Prefix + ":" + b.Name
}

// QNameOf is QName for a handle; it returns "" for an unset or unknown id.
func (m *Model) QNameOf(id ID) string {
	c := m.Component(id)
	if c == nil {
		return ""
	}
	return m.QName(c)
}
