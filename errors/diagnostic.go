package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a model construction failure.
type ErrorCode string

const (
	// ErrMalformed indicates the document is not well-formed XML.
	ErrMalformed ErrorCode = "cmf-malformed"
	// ErrVocabulary indicates an element outside the CMF vocabulary, an element
	// under a parent that cannot hold it, or content on a reference-only element.
	ErrVocabulary ErrorCode = "cmf-vocabulary"
	// ErrKindMismatch indicates a reference resolved to an entity of the wrong kind.
	ErrKindMismatch ErrorCode = "cmf-kind-mismatch"
	// ErrDanglingReference indicates a reference that resolves to nothing and
	// carries no absolute URI to build an outside placeholder from.
	ErrDanglingReference ErrorCode = "cmf-dangling-reference"
	// ErrNamespaceConflict indicates a prefix or URI bound inconsistently.
	ErrNamespaceConflict ErrorCode = "cmf-namespace-conflict"
	// ErrDuplicateComponent indicates a component defined more than once.
	ErrDuplicateComponent ErrorCode = "cmf-duplicate-component"
	// ErrIncomplete indicates an entity left unresolved after construction.
	ErrIncomplete ErrorCode = "cmf-incomplete"
	// ErrIO indicates an input document could not be opened or read.
	ErrIO ErrorCode = "cmf-io"
)

// Diagnostic describes one fatal construction error with its source location.
//
//nolint:errname // public API name uses the reader's domain term.
type Diagnostic struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

// DiagnosticList is the error returned by a failed read. It holds every
// diagnostic accumulated before the read stopped.
type DiagnosticList []Diagnostic //nolint:errname // public API name.

// Error returns a compact summary of the diagnostics.
func (d DiagnosticList) Error() string {
	switch len(d) {
	case 0:
		return "no diagnostics"
	case 1:
		return d[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", d[0].Error(), len(d)-1)
	}
}

// Error formats the diagnostic as "file:line:col: [code] message".
func (d *Diagnostic) Error() string {
	if d == nil {
		return "diagnostic <nil>"
	}

	var b strings.Builder
	if d.File != "" {
		b.WriteString(d.File)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&b, ":%d", d.Column)
			}
		}
		b.WriteString(": ")
	} else if d.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", d.Line)
	}
	fmt.Fprintf(&b, "[%s] %s", d.Code, d.Message)
	return b.String()
}

// NewDiagnostic builds a Diagnostic with a code, message and location.
func NewDiagnostic(code ErrorCode, msg, file string, line, column int) Diagnostic {
	return Diagnostic{Code: string(code), Message: msg, File: file, Line: line, Column: column}
}

// NewDiagnosticf formats a message and builds a Diagnostic without location.
func NewDiagnosticf(code ErrorCode, format string, args ...any) Diagnostic {
	return Diagnostic{Code: string(code), Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether any diagnostic in the list carries code.
func (d DiagnosticList) HasCode(code ErrorCode) bool {
	for _, diag := range d {
		if diag.Code == string(code) {
			return true
		}
	}
	return false
}

// AsDiagnostics extracts diagnostics from an error returned by a read.
func AsDiagnostics(err error) ([]Diagnostic, bool) {
	list, ok := asDiagnosticList(err)
	if !ok {
		return nil, false
	}
	return []Diagnostic(list), true
}

func asDiagnosticList(err error) (DiagnosticList, bool) {
	if err == nil {
		return nil, false
	}
	var list DiagnosticList
	if errors.As(err, &list) {
		return list, true
	}

	var listPtr *DiagnosticList
	if errors.As(err, &listPtr) && listPtr != nil {
		return *listPtr, true
	}

	return nil, false
}
