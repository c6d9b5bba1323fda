// Package decompose expands tree-shaped items into their canonical
// start/content/end event sequences. Output is deliberately NOT
// flattened; composing with the flattener is the caller's job.
package decompose

import (
	"io"

	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
	"github.com/jacoelho/xmlpipe/pkg/tree"
)

// Item decomposes a single event. Atomic values, leaf-kind events, and
// structural events pass through unchanged; node references expand into
// their canonical event form.
func Item(ev event.Event, pool *names.Pool) (event.Event, error) {
	if ev.Kind != event.KindNode {
		return ev, nil
	}
	return nodeEvent(ev.Node, pool)
}

// Node produces the canonical event stream for one tree node.
func Node(n tree.Node, pool *names.Pool) event.Stream {
	ev, err := nodeEvent(n, pool)
	if err != nil {
		return errStream{err: err}
	}
	return event.FromSlice([]event.Event{ev})
}

// nodeEvent converts one node into a single event: leaves map to their
// event kind, containers become a nested start/children/end stream.
func nodeEvent(n tree.Node, pool *names.Pool) (event.Event, error) {
	if n == nil {
		return event.Event{}, errors.NewStructure("nil node in content")
	}
	switch n.NodeKind() {
	case tree.TextKind:
		return event.Text(n.StringValue()), nil

	case tree.CommentKind:
		return event.Comment(n.StringValue()), nil

	case tree.ProcInstKind:
		pi, ok := n.(tree.ProcInst)
		if !ok {
			return event.Event{}, errors.NewStructure("processing instruction node without target")
		}
		target := pool.Allocate("", "", pi.Target())
		return event.PI(target, n.StringValue()), nil

	case tree.AttributeKind:
		attr, ok := n.(tree.Attr)
		if !ok {
			return event.Event{}, errors.NewStructure("attribute node without name")
		}
		name := attr.Name()
		return event.Attribute(pool.Allocate(name.Prefix, name.URI, name.Local), attr.Value()), nil

	case tree.NamespaceKind:
		ns, ok := n.(tree.Namespace)
		if !ok {
			return event.Event{}, errors.NewStructure("namespace node without binding")
		}
		return event.Namespace(ns.Binding()), nil

	case tree.DocumentKind:
		doc, ok := n.(tree.Document)
		if !ok {
			return event.Event{}, errors.NewStructure("document node without children")
		}
		return event.Nested(&containerStream{
			start:    event.StartDocument(),
			end:      event.EndDocument(),
			children: doc.Children(),
			pool:     pool,
		}), nil

	case tree.ElementKind:
		elem, ok := n.(tree.Element)
		if !ok {
			return event.Event{}, errors.NewStructure("element node without element view")
		}
		return event.Nested(&containerStream{
			start:    startOf(elem, pool),
			end:      event.EndElement(),
			children: elem.Children(),
			pool:     pool,
		}), nil
	}
	return event.Event{}, errors.NewStructure("unknown node kind %d", n.NodeKind())
}

// startOf builds the synthetic start event. Attributes and namespace
// declarations are collected eagerly; they must be visible before any
// child content is read.
func startOf(elem tree.Element, pool *names.Pool) event.Event {
	name := elem.Name()
	code := pool.Allocate(name.Prefix, name.URI, name.Local)
	var attrs []event.Attr
	for _, a := range elem.Attributes() {
		an := a.Name()
		attrs = append(attrs, event.Attr{
			Name:  pool.Allocate(an.Prefix, an.URI, an.Local),
			Value: a.Value(),
		})
	}
	return event.StartElement(code, elem.NamespaceDecls(), attrs)
}

// containerStream yields start, one nested event per child, then end.
type containerStream struct {
	start    event.Event
	end      event.Event
	children []tree.Node
	pool     *names.Pool
	pos      int
	state    containerState
}

type containerState uint8

const (
	atStart containerState = iota
	inChildren
	exhausted
)

func (c *containerStream) Next() (event.Event, error) {
	switch c.state {
	case atStart:
		c.state = inChildren
		return c.start, nil
	case inChildren:
		if c.pos < len(c.children) {
			child := c.children[c.pos]
			c.pos++
			return nodeEvent(child, c.pool)
		}
		c.state = exhausted
		return c.end, nil
	default:
		return event.Event{}, io.EOF
	}
}

func (c *containerStream) Close() error {
	c.state = exhausted
	return nil
}

type errStream struct {
	err error
}

func (e errStream) Next() (event.Event, error) { return event.Event{}, e.err }
func (e errStream) Close() error               { return nil }
