package push

import (
	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
)

// Recorder is a Receiver that decodes the callback sequence back into
// an event sequence. It is the reference push-to-pull decoder used by
// the tee equivalence tests.
type Recorder struct {
	events  []event.Event
	pending *event.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Events returns the decoded events recorded so far.
func (r *Recorder) Events() []event.Event { return r.events }

// Stream exposes the recorded events as a stream.
func (r *Recorder) Stream() event.Stream { return event.FromSlice(r.events) }

// StartDocument records a start-document event.
func (r *Recorder) StartDocument() error {
	if err := r.flushPending(); err != nil {
		return err
	}
	r.events = append(r.events, event.StartDocument())
	return nil
}

// EndDocument records an end-document event.
func (r *Recorder) EndDocument() error {
	if err := r.flushPending(); err != nil {
		return err
	}
	r.events = append(r.events, event.EndDocument())
	return nil
}

// StartElement opens a pending start event; namespaces and attributes
// accumulate onto it until StartContent.
func (r *Recorder) StartElement(name names.Code, typ names.TypeCode) error {
	if err := r.flushPending(); err != nil {
		return err
	}
	r.pending = &event.Event{Kind: event.KindStartElement, Name: name, Type: typ}
	return nil
}

// Namespace adds a local declaration to the pending start event.
func (r *Recorder) Namespace(b names.Binding) error {
	if r.pending == nil {
		return errors.NewState("namespace callback outside element start")
	}
	r.pending.Bindings = append(r.pending.Bindings, b)
	return nil
}

// Attribute adds an attribute to the pending start event.
func (r *Recorder) Attribute(name names.Code, typ names.TypeCode, value string) error {
	if r.pending == nil {
		return errors.NewState("attribute callback outside element start")
	}
	r.pending.Attrs = append(r.pending.Attrs, event.Attr{Name: name, Type: typ, Value: value})
	return nil
}

// StartContent seals the pending start event.
func (r *Recorder) StartContent() error {
	if r.pending == nil {
		return errors.NewState("start-content callback outside element start")
	}
	return r.flushPending()
}

// Text records a text event, including the deliberate zero-length case.
func (r *Recorder) Text(content string) error {
	if err := r.flushPending(); err != nil {
		return err
	}
	r.events = append(r.events, event.Text(content))
	return nil
}

// Comment records a comment event.
func (r *Recorder) Comment(content string) error {
	if err := r.flushPending(); err != nil {
		return err
	}
	r.events = append(r.events, event.Comment(content))
	return nil
}

// ProcessingInstruction records a processing-instruction event.
func (r *Recorder) ProcessingInstruction(target names.Code, data string) error {
	if err := r.flushPending(); err != nil {
		return err
	}
	r.events = append(r.events, event.PI(target, data))
	return nil
}

// EndElement records an end-element event.
func (r *Recorder) EndElement() error {
	if err := r.flushPending(); err != nil {
		return err
	}
	r.events = append(r.events, event.EndElement())
	return nil
}

// Close flushes any pending start event.
func (r *Recorder) Close() error {
	return r.flushPending()
}

func (r *Recorder) flushPending() error {
	if r.pending == nil {
		return nil
	}
	r.events = append(r.events, *r.pending)
	r.pending = nil
	return nil
}
