package model

import (
	"fmt"
	"strings"
)

// QName is a component name in prefix:local form.
type QName struct {
	Prefix string
	Local  string
}

// String returns the QName in prefix:local form.
func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// ParseQName trims and splits a prefix:local name. Both parts are required.
func ParseQName(name string) (QName, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return QName{}, fmt.Errorf("empty qname")
	}
	prefix, local, hasPrefix := strings.Cut(trimmed, ":")
	if !hasPrefix || prefix == "" || local == "" || strings.Contains(local, ":") {
		return QName{}, fmt.Errorf("invalid QName '%s'", trimmed)
	}
	return QName{Prefix: prefix, Local: local}, nil
}
