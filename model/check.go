package model

import "fmt"

// Check reports construction invariants that do not hold: components with
// neither a namespace nor an outside URI, dangling handles, and association
// or augmentation records without a property.
func (m *Model) Check() []error {
	var errs []error
	for _, c := range m.components {
		b := c.Base()
		hasNS := b.Namespace != 0
		if hasNS == b.IsOutside() {
			errs = append(errs, fmt.Errorf("%s %s: exactly one of namespace and outside URI must be set", c.Kind(), b.Name))
		}
		for _, ref := range References(c) {
			if m.Component(ref.Target) == nil {
				errs = append(errs, fmt.Errorf("%s %s: %s refers to unknown handle %d", c.Kind(), m.QName(c), ref.Role, ref.Target))
			}
		}
		if class, ok := c.(*ClassType); ok {
			for i := range class.Properties {
				if class.Properties[i].Property == 0 {
					errs = append(errs, fmt.Errorf("class %s: association %d has no property", m.QName(c), i))
				}
			}
		}
	}
	for _, ns := range m.namespaces {
		for i, rec := range ns.Augmentations {
			if rec.Property == 0 {
				errs = append(errs, fmt.Errorf("namespace %s: augmentation %d has no property", ns.Prefix, i))
			}
		}
	}
	return errs
}
