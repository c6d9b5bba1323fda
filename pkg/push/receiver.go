// Package push defines the push-style receiver contract driven by the
// pipeline, plus receivers used for testing and serialization.
package push

import (
	"github.com/jacoelho/xmlpipe/pkg/names"
)

// Receiver accepts structural callbacks in exact nesting order.
//
// For each element the caller issues StartElement, then any Namespace
// and Attribute calls, then StartContent, then content callbacks, then
// EndElement. Receivers must tolerate zero-length Text calls; they are
// deliberate separators between adjacent atomic values crossing a
// document boundary.
type Receiver interface {
	StartDocument() error
	EndDocument() error
	StartElement(name names.Code, typ names.TypeCode) error
	Namespace(b names.Binding) error
	Attribute(name names.Code, typ names.TypeCode, value string) error
	StartContent() error
	Text(content string) error
	Comment(content string) error
	ProcessingInstruction(target names.Code, data string) error
	EndElement() error
	Close() error
}

// Discard is a Receiver that accepts and drops every callback.
type Discard struct{}

func (Discard) StartDocument() error                               { return nil }
func (Discard) EndDocument() error                                 { return nil }
func (Discard) StartElement(names.Code, names.TypeCode) error      { return nil }
func (Discard) Namespace(names.Binding) error                      { return nil }
func (Discard) Attribute(names.Code, names.TypeCode, string) error { return nil }
func (Discard) StartContent() error                                { return nil }
func (Discard) Text(string) error                                  { return nil }
func (Discard) Comment(string) error                               { return nil }
func (Discard) ProcessingInstruction(names.Code, string) error     { return nil }
func (Discard) EndElement() error                                  { return nil }
func (Discard) Close() error                                       { return nil }
