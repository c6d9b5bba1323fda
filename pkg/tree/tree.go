// Package tree defines the minimal read-only node contracts consumed by
// the event pipeline when a source is tree-shaped rather than streamed.
package tree

import (
	"strings"

	"github.com/jacoelho/xmlpipe/pkg/names"
)

// Kind classifies nodes. Values follow DOM/XPath numbering.
type Kind int

const (
	// ElementKind identifies an element node.
	ElementKind Kind = 1
	// AttributeKind identifies a free-standing attribute node.
	AttributeKind Kind = 2
	// TextKind identifies a text node.
	TextKind Kind = 3
	// ProcInstKind identifies a processing instruction node.
	ProcInstKind Kind = 7
	// CommentKind identifies a comment node.
	CommentKind Kind = 8
	// DocumentKind identifies a document node.
	DocumentKind Kind = 9
	// NamespaceKind identifies a free-standing namespace node.
	NamespaceKind Kind = 13
)

// Name is a qualified name as carried by tree nodes.
type Name struct {
	Prefix string
	URI    string
	Local  string
}

// Node is the minimal node contract needed by the decomposer.
type Node interface {
	NodeKind() Kind
	StringValue() string
}

// Element is the element view used during decomposition. Attributes and
// namespace declarations must be available before children are read.
type Element interface {
	Node
	Name() Name
	Attributes() []Attr
	NamespaceDecls() []names.Binding
	Children() []Node
}

// Document exposes document children in document order.
type Document interface {
	Node
	Children() []Node
}

// Attr exposes attribute name and value.
type Attr interface {
	Name() Name
	Value() string
}

// ProcInst exposes the target of a processing instruction node.
type ProcInst interface {
	Node
	Target() string
}

// Namespace exposes the binding of a free-standing namespace node.
type Namespace interface {
	Node
	Binding() names.Binding
}

// AttributeNode exposes a free-standing attribute node.
type AttributeNode interface {
	Node
	Attr
}

type document struct {
	children []Node
}

// NewDocument creates an in-memory document node.
func NewDocument(children ...Node) Document {
	return &document{children: children}
}

func (d *document) NodeKind() Kind   { return DocumentKind }
func (d *document) Children() []Node { return d.children }

func (d *document) StringValue() string {
	var b strings.Builder
	for _, child := range d.children {
		appendTextValue(&b, child)
	}
	return b.String()
}

type element struct {
	name     Name
	attrs    []Attr
	decls    []names.Binding
	children []Node
}

// NewElement creates an in-memory element node.
func NewElement(name Name, children ...Node) Element {
	return &element{name: name, children: children}
}

// NewElementFull creates an element with attributes and namespace declarations.
func NewElementFull(name Name, attrs []Attr, decls []names.Binding, children ...Node) Element {
	return &element{name: name, attrs: attrs, decls: decls, children: children}
}

func (e *element) NodeKind() Kind                  { return ElementKind }
func (e *element) Name() Name                      { return e.name }
func (e *element) Attributes() []Attr              { return e.attrs }
func (e *element) NamespaceDecls() []names.Binding { return e.decls }
func (e *element) Children() []Node                { return e.children }

func (e *element) StringValue() string {
	var b strings.Builder
	appendTextValue(&b, e)
	return b.String()
}

func appendTextValue(b *strings.Builder, n Node) {
	switch n.NodeKind() {
	case TextKind:
		b.WriteString(n.StringValue())
	case ElementKind:
		for _, child := range n.(Element).Children() {
			appendTextValue(b, child)
		}
	case DocumentKind:
		for _, child := range n.(Document).Children() {
			appendTextValue(b, child)
		}
	}
}

type attr struct {
	name  Name
	value string
}

// NewAttr creates an attribute usable both in element attribute lists
// and as a free-standing attribute node.
func NewAttr(name Name, value string) AttributeNode {
	return &attr{name: name, value: value}
}

func (a *attr) NodeKind() Kind      { return AttributeKind }
func (a *attr) Name() Name          { return a.name }
func (a *attr) Value() string       { return a.value }
func (a *attr) StringValue() string { return a.value }

type text string

// NewText creates a text node.
func NewText(s string) Node { return text(s) }

func (t text) NodeKind() Kind      { return TextKind }
func (t text) StringValue() string { return string(t) }

type comment string

// NewComment creates a comment node.
func NewComment(s string) Node { return comment(s) }

func (c comment) NodeKind() Kind      { return CommentKind }
func (c comment) StringValue() string { return string(c) }

type procInst struct {
	target string
	data   string
}

// NewProcInst creates a processing instruction node.
func NewProcInst(target, data string) ProcInst {
	return &procInst{target: target, data: data}
}

func (p *procInst) NodeKind() Kind      { return ProcInstKind }
func (p *procInst) Target() string      { return p.target }
func (p *procInst) StringValue() string { return p.data }

type namespace names.Binding

// NewNamespace creates a free-standing namespace node.
func NewNamespace(b names.Binding) Namespace { return namespace(b) }

func (n namespace) NodeKind() Kind         { return NamespaceKind }
func (n namespace) Binding() names.Binding { return names.Binding(n) }
func (n namespace) StringValue() string    { return n.URI }
