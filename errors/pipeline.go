// Package errors defines the stable error taxonomy for the event pipeline.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of pipeline failure with a stable code.
type ErrorCode string

const (
	// ErrStructureInvalid indicates unbalanced or improperly nested
	// start/end events. The stream state is no longer trustworthy.
	ErrStructureInvalid ErrorCode = "pipe-structure-invalid"
	// ErrStateInvalid indicates a state-specific accessor was called
	// outside its valid provider state.
	ErrStateInvalid ErrorCode = "pipe-state-invalid"
	// ErrNamespaceConflict indicates two local declarations bind one
	// prefix to different URIs on the same element.
	ErrNamespaceConflict ErrorCode = "pipe-ns-conflict"
	// ErrXMLParse wraps a failure from the upstream tokenizer.
	ErrXMLParse ErrorCode = "xml-parse-error"
)

// Pipeline describes a pipeline error with a stable code and optional
// line/column context.
//
//nolint:errname // public API name uses pipeline domain term.
type Pipeline struct {
	Code    ErrorCode
	Message string
	Line    int
	Column  int
}

// Error formats the error for display, including code and context.
func (p *Pipeline) Error() string {
	if p == nil {
		return "pipeline <nil>"
	}
	if p.Line > 0 && p.Column > 0 {
		return fmt.Sprintf("[%s] %s at line %d, column %d", p.Code, p.Message, p.Line, p.Column)
	}
	return fmt.Sprintf("[%s] %s", p.Code, p.Message)
}

// NewStructure builds a structural-violation error.
func NewStructure(format string, args ...any) *Pipeline {
	return &Pipeline{Code: ErrStructureInvalid, Message: fmt.Sprintf(format, args...)}
}

// NewState builds a state-precondition error.
func NewState(format string, args ...any) *Pipeline {
	return &Pipeline{Code: ErrStateInvalid, Message: fmt.Sprintf(format, args...)}
}

// NewNamespaceConflict builds an unresolvable namespace conflict error.
func NewNamespaceConflict(format string, args ...any) *Pipeline {
	return &Pipeline{Code: ErrNamespaceConflict, Message: fmt.Sprintf(format, args...)}
}

// WrapParse classifies an upstream tokenizer failure. Pipeline errors
// pass through unchanged; they already carry a code.
func WrapParse(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := CodeOf(err); ok {
		return err
	}
	return &Pipeline{Code: ErrXMLParse, Message: err.Error()}
}

// WithPosition returns a copy of the error annotated with a position.
func (p *Pipeline) WithPosition(line, column int) *Pipeline {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Line = line
	clone.Column = column
	return &clone
}

// CodeOf extracts the pipeline error code from err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var p *Pipeline
	if errors.As(err, &p) && p != nil {
		return p.Code, true
	}
	return "", false
}

// IsCode reports whether err carries the given pipeline error code.
func IsCode(err error, code ErrorCode) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}
