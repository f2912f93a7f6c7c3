package cmf

import (
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
)

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved(def int) int {
	if !o.set || o.value == 0 {
		return def
	}
	return o.value
}

// ReadOptions configures model construction.
type ReadOptions struct {
	logger      *slog.Logger
	concurrency intOption
	reserved    map[string]string
	kinds       map[string]string
}

// WriteOptions configures model serialization.
type WriteOptions struct {
	namespaces []string
}

type resolvedReadOptions struct {
	logger      *slog.Logger
	concurrency int
	reserved    map[string]string
	kinds       map[string]string
}

// NewReadOptions returns a default, valid read options value.
func NewReadOptions() ReadOptions {
	return ReadOptions{}
}

// NewWriteOptions returns a default, valid write options value.
func NewWriteOptions() WriteOptions {
	return WriteOptions{}
}

// WithLogger sets the logger for read progress and prefix munging warnings.
func (o ReadOptions) WithLogger(logger *slog.Logger) ReadOptions {
	o.logger = logger
	return o
}

// WithConcurrency bounds the documents scanned at once (0 uses GOMAXPROCS).
func (o ReadOptions) WithConcurrency(value int) ReadOptions {
	o.concurrency = intOption{value: value, set: true}
	return o
}

// WithReservedPrefixes binds extra prefixes that documents may not rebind.
func (o ReadOptions) WithReservedPrefixes(reserved map[string]string) ReadOptions {
	o.reserved = merged(o.reserved, reserved)
	return o
}

// WithNamespaceKinds classifies namespaces that declare no kind code, keyed
// by namespace URI. The defaults classify XML Schema, XML, XSI and the
// structures namespace.
func (o ReadOptions) WithNamespaceKinds(kinds map[string]string) ReadOptions {
	o.kinds = merged(o.kinds, kinds)
	return o
}

// Validate validates read options values.
func (o ReadOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

func (o ReadOptions) withDefaults() (resolvedReadOptions, error) {
	if o.concurrency.set && o.concurrency.value < 0 {
		return resolvedReadOptions{}, fmt.Errorf("concurrency %d is negative", o.concurrency.value)
	}
	for _, prefix := range slices.Sorted(maps.Keys(o.reserved)) {
		if prefix == "" || o.reserved[prefix] == "" {
			return resolvedReadOptions{}, fmt.Errorf("reserved prefix %q needs a prefix and a URI", prefix)
		}
	}
	for _, uri := range slices.Sorted(maps.Keys(o.kinds)) {
		if uri == "" || o.kinds[uri] == "" {
			return resolvedReadOptions{}, fmt.Errorf("namespace kind for %q needs a URI and a kind", uri)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return resolvedReadOptions{
		logger:      logger,
		concurrency: o.concurrency.resolved(runtime.GOMAXPROCS(0)),
		reserved:    maps.Clone(o.reserved),
		kinds:       maps.Clone(o.kinds),
	}, nil
}

// WithNamespaces restricts output to the namespaces with the given prefixes.
// References to anything outside them are written as absolute URIs.
func (o WriteOptions) WithNamespaces(prefixes ...string) WriteOptions {
	o.namespaces = append(slices.Clone(o.namespaces), prefixes...)
	return o
}

// Validate validates write options values.
func (o WriteOptions) Validate() error {
	seen := make(map[string]bool, len(o.namespaces))
	for _, prefix := range o.namespaces {
		if prefix == "" {
			return fmt.Errorf("empty namespace prefix")
		}
		if seen[prefix] {
			return fmt.Errorf("namespace prefix %q listed twice", prefix)
		}
		seen[prefix] = true
	}
	return nil
}

// merged returns a fresh map so option values never share state.
func merged(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}
