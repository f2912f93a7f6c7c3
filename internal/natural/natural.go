// Package natural orders names the way people read them: case is ignored
// and runs of digits compare by numeric value, so Foo2 sorts before Foo10.
package natural

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order compares strings in natural order. An Order is not safe for
// concurrent use.
type Order struct {
	c *collate.Collator
}

// New returns a natural Order.
func New() *Order {
	return &Order{c: collate.New(language.Und, collate.IgnoreCase, collate.Numeric)}
}

// Compare returns -1, 0 or 1. Strings that collate equal are ordered by
// their bytes so the order is total.
func (o *Order) Compare(a, b string) int {
	if r := o.c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}
