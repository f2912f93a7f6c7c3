// Package prefixmap keeps the bijective namespace prefix <-> URI map of a model
// and resolves prefix collisions by munging.
package prefixmap

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Map is a bijection between namespace prefixes and URIs.
// The zero value is not usable; call New.
type Map struct {
	byPrefix map[string]string
	byURI    map[string]string
	reserved map[string]struct{}
}

// New returns a map seeded with reserved bindings. Reserved bindings cannot
// be changed or removed.
func New(reserved map[string]string) *Map {
	m := &Map{
		byPrefix: make(map[string]string, len(reserved)+16),
		byURI:    make(map[string]string, len(reserved)+16),
		reserved: make(map[string]struct{}, len(reserved)),
	}
	for prefix, uri := range reserved {
		m.byPrefix[prefix] = uri
		m.byURI[uri] = prefix
		m.reserved[prefix] = struct{}{}
	}
	return m
}

// Assign binds uri to desired, or to a munged form of desired when desired is
// already bound to a different URI. A URI that is already bound keeps its
// prefix. The second result reports whether the returned prefix differs from
// desired.
func (m *Map) Assign(desired, uri string) (string, bool) {
	if prefix, ok := m.byURI[uri]; ok {
		return prefix, prefix != desired
	}
	if _, taken := m.byPrefix[desired]; !taken && desired != "" {
		m.bind(desired, uri)
		return desired, false
	}
	base := mungeBase(desired, uri)
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if _, taken := m.byPrefix[candidate]; !taken {
			m.bind(candidate, uri)
			return candidate, true
		}
	}
}

// Change rebinds uri under a new desired prefix.
func (m *Map) Change(desired, uri string) (string, bool, error) {
	if old, ok := m.byURI[uri]; ok {
		if old == desired {
			return old, false, nil
		}
		if _, isReserved := m.reserved[old]; isReserved {
			return "", false, fmt.Errorf("prefix %s is reserved", old)
		}
		delete(m.byPrefix, old)
		delete(m.byURI, uri)
	}
	prefix, munged := m.Assign(desired, uri)
	return prefix, munged, nil
}

// Remove unbinds prefix and its URI.
func (m *Map) Remove(prefix string) error {
	if _, isReserved := m.reserved[prefix]; isReserved {
		return fmt.Errorf("prefix %s is reserved", prefix)
	}
	uri, ok := m.byPrefix[prefix]
	if !ok {
		return nil
	}
	delete(m.byPrefix, prefix)
	delete(m.byURI, uri)
	return nil
}

// URI returns the URI bound to prefix.
func (m *Map) URI(prefix string) (string, bool) {
	uri, ok := m.byPrefix[prefix]
	return uri, ok
}

// Prefix returns the prefix bound to uri.
func (m *Map) Prefix(uri string) (string, bool) {
	prefix, ok := m.byURI[uri]
	return prefix, ok
}

// IsReserved reports whether prefix was seeded by New.
func (m *Map) IsReserved(prefix string) bool {
	_, ok := m.reserved[prefix]
	return ok
}

// Prefixes returns all bound prefixes in sorted order.
func (m *Map) Prefixes() []string {
	out := make([]string, 0, len(m.byPrefix))
	for prefix := range m.byPrefix {
		out = append(out, prefix)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of bindings.
func (m *Map) Len() int {
	return len(m.byPrefix)
}

func (m *Map) bind(prefix, uri string) {
	m.byPrefix[prefix] = uri
	m.byURI[uri] = prefix
}

var (
	mungedSuffix = regexp.MustCompile(`_[0-9]+$`)
	versionToken = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)
)

func mungeBase(prefix, uri string) string {
	if prefix == "" {
		prefix = "ns"
	}
	if loc := mungedSuffix.FindStringIndex(prefix); loc != nil && loc[0] > 0 {
		return prefix[:loc[0]]
	}
	return prefix + VersionToken(uri)
}

// VersionToken returns the version segment of a namespace URI, such as "4.0"
// in ".../niem-core/4.0/", or "" when the last segment is not a version.
func VersionToken(uri string) string {
	trimmed := strings.TrimRight(uri, "/#")
	if i := strings.LastIndexAny(trimmed, "/:#"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if versionToken.MatchString(trimmed) {
		return trimmed
	}
	return ""
}
