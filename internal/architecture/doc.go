// Package architecture holds tests that enforce the import layering and the
// public API surface of the module. It has no production code.
package architecture
