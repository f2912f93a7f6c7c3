package attach

import (
	"fmt"
	"sort"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/model"
)

// Error reports a failed attachment. The reader adds the source location.
type Error struct {
	Code    cmferrors.ErrorCode
	Parent  Kind
	Child   Kind
	Element string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s under %s: %s", e.Element, e.Parent, e.Message)
}

type key struct {
	parent  Kind
	child   Kind
	element string
}

type rule func(m *model.Model, parent, child Node) error

// Attach applies child, parsed from element, to parent.
func Attach(m *model.Model, parent, child Node, element string) error {
	k := key{parent: parent.Kind(), child: child.Kind(), element: element}
	if r, ok := parentRules[k]; ok {
		return wrap(k, r(m, parent, child))
	}
	if r, ok := childRules[k]; ok {
		return wrap(k, r(m, parent, child))
	}
	return &Error{
		Code:    cmferrors.ErrVocabulary,
		Parent:  k.parent,
		Child:   k.child,
		Element: element,
		Message: fmt.Sprintf("%s cannot hold a %s here", k.parent, k.child),
	}
}

func wrap(k key, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{
		Code:    cmferrors.ErrVocabulary,
		Parent:  k.parent,
		Child:   k.child,
		Element: k.element,
		Message: err.Error(),
	}
}

// Rule is one legal (parent, child, element) combination.
type Rule struct {
	Parent  Kind
	Child   Kind
	Element string
	// ChildSide reports whether the child, not the parent, applies the rule.
	ChildSide bool
}

// Legal returns every legal combination in a stable order.
func Legal() []Rule {
	out := make([]Rule, 0, len(parentRules)+len(childRules))
	for k := range parentRules {
		out = append(out, Rule{Parent: k.parent, Child: k.child, Element: k.element})
	}
	for k := range childRules {
		out = append(out, Rule{Parent: k.parent, Child: k.child, Element: k.element, ChildSide: true})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Parent != b.Parent {
			return a.Parent < b.Parent
		}
		if a.Child != b.Child {
			return a.Child < b.Child
		}
		return a.Element < b.Element
	})
	return out
}

// Elements returns every element name that appears in some rule.
func Elements() []string {
	seen := make(map[string]struct{})
	for _, r := range Legal() {
		seen[r.Element] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
