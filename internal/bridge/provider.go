// Package bridge connects the pull and push halves of the pipeline: a
// stateful pull Provider with position-dependent accessors, a push
// driver that decodes events into receiver callbacks, and a Tee that
// mirrors a pull stream into a push sink.
package bridge

import (
	"io"
	"strings"

	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/internal/flatten"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
)

// State is the position of a Provider within its input.
type State uint8

const (
	// StateNotStarted precedes the first Next call and holds between
	// top-level items outside any document or element.
	StateNotStarted State = iota
	// StateReadingDocument holds inside a document, outside elements.
	StateReadingDocument
	// StateReadingElement holds while at least one element is open.
	StateReadingElement
	// StateAtAtomicValue holds immediately after an atomic value.
	StateAtAtomicValue
	// StateClosed holds after Close or input exhaustion.
	StateClosed
)

var stateNames = [...]string{
	StateNotStarted:      "not-started",
	StateReadingDocument: "reading-document",
	StateReadingElement:  "reading-element",
	StateAtAtomicValue:   "at-atomic-value",
	StateClosed:          "closed",
}

// String returns the state name for diagnostics.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Provider adapts a stream into a cursor-style pull interface. Next is
// the only ordinary mutator; the accessors are valid only in the states
// their documentation names, and StringValue on a start element is
// itself a mutator. A Provider is owned by a single consumer.
type Provider struct {
	src      event.Stream
	state    State
	depth    int
	inDoc    bool
	current  event.Event
	hasEvent bool
}

// NewProvider wraps src, flattening it first. The provider starts in
// StateNotStarted; nothing is read until the first Next.
func NewProvider(src event.Stream) *Provider {
	return &Provider{src: flatten.New(src)}
}

// State returns the provider's current state.
func (p *Provider) State() State { return p.state }

// Depth returns the number of currently open elements.
func (p *Provider) Depth() int { return p.depth }

// Event returns the event the cursor is positioned on. It is only
// meaningful after a successful Next.
func (p *Provider) Event() event.Event { return p.current }

// Next advances to the next event. It returns io.EOF at exhaustion,
// after which the provider is closed.
func (p *Provider) Next() (event.Event, error) {
	if p.state == StateClosed {
		return event.Event{}, errors.NewState("next called on a closed provider")
	}
	ev, err := p.src.Next()
	if err == io.EOF {
		if p.depth > 0 || p.inDoc {
			p.state = StateClosed
			return event.Event{}, errors.NewStructure("input exhausted with open containers")
		}
		p.state = StateClosed
		return event.Event{}, io.EOF
	}
	if err != nil {
		return event.Event{}, err
	}
	if err := p.classify(ev); err != nil {
		return event.Event{}, err
	}
	p.current = ev
	p.hasEvent = true
	return ev, nil
}

func (p *Provider) classify(ev event.Event) error {
	switch ev.Kind {
	case event.KindStartDocument:
		p.inDoc = true
		p.state = StateReadingDocument
	case event.KindEndDocument:
		if !p.inDoc || p.depth > 0 {
			return errors.NewStructure("end document without matching start")
		}
		p.inDoc = false
		p.state = StateNotStarted
	case event.KindStartElement:
		p.depth++
		p.state = StateReadingElement
	case event.KindEndElement:
		if p.depth == 0 {
			return errors.NewStructure("end element without matching start")
		}
		p.depth--
		p.state = p.enclosing()
	case event.KindAtomic:
		p.state = StateAtAtomicValue
	default:
		p.state = p.enclosing()
	}
	return nil
}

// enclosing is the state implied by the open containers alone.
func (p *Provider) enclosing() State {
	switch {
	case p.depth > 0:
		return StateReadingElement
	case p.inDoc:
		return StateReadingDocument
	default:
		return StateNotStarted
	}
}

// Attributes returns the attributes of the start element the cursor is
// on. Calling it anywhere else is a state violation.
func (p *Provider) Attributes() ([]event.Attr, error) {
	if !p.hasEvent || p.current.Kind != event.KindStartElement {
		return nil, errors.NewState("attributes requested in state %s on %s event",
			p.state, p.current.Kind)
	}
	return p.current.Attrs, nil
}

// Namespaces returns the local namespace declarations of the start
// element the cursor is on. Calling it anywhere else is a state
// violation.
func (p *Provider) Namespaces() ([]names.Binding, error) {
	if !p.hasEvent || p.current.Kind != event.KindStartElement {
		return nil, errors.NewState("namespaces requested in state %s on %s event",
			p.state, p.current.Kind)
	}
	return p.current.Bindings, nil
}

// StringValue returns the string value of the event the cursor is on.
// On a leaf event this reads the carried value. On a start element it
// is a mutator: it consumes events up to and including the matching
// end element, concatenating all descendant text, and leaves the
// cursor on that end element.
func (p *Provider) StringValue() (string, error) {
	if !p.hasEvent {
		return "", errors.NewState("string value requested before first event")
	}
	switch p.current.Kind {
	case event.KindText, event.KindComment, event.KindPI,
		event.KindAttribute, event.KindAtomic:
		return p.current.Value, nil
	case event.KindStartElement:
		return p.consumeElementValue()
	default:
		return "", errors.NewState("string value requested in state %s on %s event",
			p.state, p.current.Kind)
	}
}

func (p *Provider) consumeElementValue() (string, error) {
	var b strings.Builder
	open := 1
	for open > 0 {
		ev, err := p.src.Next()
		if err == io.EOF {
			p.state = StateClosed
			return "", errors.NewStructure("input exhausted inside element")
		}
		if err != nil {
			return "", err
		}
		switch ev.Kind {
		case event.KindStartElement:
			open++
		case event.KindEndElement:
			open--
		case event.KindText, event.KindAtomic:
			b.WriteString(ev.Value)
		}
	}
	p.depth--
	p.state = p.enclosing()
	p.current = event.EndElement()
	return b.String(), nil
}

// Close releases the underlying stream. Further Next calls fail.
func (p *Provider) Close() error {
	if p.state == StateClosed {
		return nil
	}
	p.state = StateClosed
	return p.src.Close()
}
