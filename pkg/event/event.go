// Package event defines the streaming event model shared by every
// pipeline stage: a closed tagged variant over XML-like content plus a
// pull Stream contract.
package event

import (
	"github.com/jacoelho/xmlpipe/pkg/names"
	"github.com/jacoelho/xmlpipe/pkg/tree"
)

// Kind identifies the kind of pipeline event.
type Kind uint8

const (
	// KindNone is the zero value; it never appears in a valid stream.
	KindNone Kind = iota
	// KindStartElement opens an element. Carries name, type annotation,
	// local namespace declarations, and attributes.
	KindStartElement
	// KindEndElement closes the innermost open element.
	KindEndElement
	// KindStartDocument opens a document.
	KindStartDocument
	// KindEndDocument closes the innermost open document.
	KindEndDocument
	// KindText is a text node. Value holds the content.
	KindText
	// KindComment is a comment node.
	KindComment
	// KindPI is a processing instruction. Name holds the target,
	// Value the data.
	KindPI
	// KindAttribute is a free-standing attribute node.
	KindAttribute
	// KindNamespace is a free-standing namespace node.
	KindNamespace
	// KindAtomic is a free-standing atomic value. Value holds the
	// lexical form.
	KindAtomic
	// KindNode references an already-materialized tree node.
	KindNode
	// KindNested wraps a sub-stream. Only legal before flattening.
	KindNested
)

var kindNames = [...]string{
	KindNone:          "none",
	KindStartElement:  "start-element",
	KindEndElement:    "end-element",
	KindStartDocument: "start-document",
	KindEndDocument:   "end-document",
	KindText:          "text",
	KindComment:       "comment",
	KindPI:            "processing-instruction",
	KindAttribute:     "attribute",
	KindNamespace:     "namespace",
	KindAtomic:        "atomic-value",
	KindNode:          "node",
	KindNested:        "nested-stream",
}

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Attr is an attribute carried by a StartElement event.
type Attr struct {
	Name  names.Code
	Type  names.TypeCode
	Value string
}

// Event is one unit in a stream. The populated payload fields depend
// on Kind; unrelated fields are zero.
type Event struct {
	Kind     Kind
	Name     names.Code
	Type     names.TypeCode
	Bindings []names.Binding
	Attrs    []Attr
	Value    string
	Node     tree.Node
	Sub      Stream
	Line     int
	Column   int
}

// StartElement builds a start-element event.
func StartElement(name names.Code, bindings []names.Binding, attrs []Attr) Event {
	return Event{Kind: KindStartElement, Name: name, Bindings: bindings, Attrs: attrs}
}

// EndElement builds an end-element event. It carries no payload.
func EndElement() Event { return Event{Kind: KindEndElement} }

// StartDocument builds a start-document event.
func StartDocument() Event { return Event{Kind: KindStartDocument} }

// EndDocument builds an end-document event.
func EndDocument() Event { return Event{Kind: KindEndDocument} }

// Text builds a text event.
func Text(content string) Event { return Event{Kind: KindText, Value: content} }

// Comment builds a comment event.
func Comment(content string) Event { return Event{Kind: KindComment, Value: content} }

// PI builds a processing-instruction event.
func PI(target names.Code, data string) Event {
	return Event{Kind: KindPI, Name: target, Value: data}
}

// Attribute builds a free-standing attribute event.
func Attribute(name names.Code, value string) Event {
	return Event{Kind: KindAttribute, Name: name, Value: value}
}

// Namespace builds a free-standing namespace event.
func Namespace(b names.Binding) Event {
	return Event{Kind: KindNamespace, Bindings: []names.Binding{b}}
}

// Atomic builds an atomic value event from its lexical form.
func Atomic(lexical string) Event { return Event{Kind: KindAtomic, Value: lexical} }

// NodeRef builds an event referencing a materialized tree node.
func NodeRef(n tree.Node) Event { return Event{Kind: KindNode, Node: n} }

// Nested wraps a sub-stream into a single event.
func Nested(sub Stream) Event { return Event{Kind: KindNested, Sub: sub} }

// IsStart reports whether the event opens an element or document.
func (e Event) IsStart() bool {
	return e.Kind == KindStartElement || e.Kind == KindStartDocument
}

// IsEnd reports whether the event closes an element or document.
func (e Event) IsEnd() bool {
	return e.Kind == KindEndElement || e.Kind == KindEndDocument
}

// Binding returns the binding of a namespace event.
func (e Event) Binding() names.Binding {
	if e.Kind != KindNamespace || len(e.Bindings) == 0 {
		return names.Binding{}
	}
	return e.Bindings[0]
}
