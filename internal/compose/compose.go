// Package compose enforces complex content construction rules on the
// content sequence of one element or document: adjacent atomic values
// and text nodes merge into single text runs, zero-length text is
// dropped, and redundant namespace declarations are eliminated while
// start events are tracked on an open-event stack.
package compose

import (
	"io"
	"strings"

	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/internal/flatten"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
)

// New wraps src with construction-rule normalization. The source is
// force-flattened first; the output stream is always flat.
func New(src event.Stream) event.Stream {
	return &stream{src: flatten.New(src)}
}

type stream struct {
	src event.Stream

	// open start events, one per currently open element or document.
	open []event.Event
	// pendingText is the single in-progress merged text run.
	pendingText *textRun
	// pendingOutput defers the event that forced a text-run flush.
	pendingOutput *event.Event
	// sepPending requests the deliberate zero-length separator before
	// the deferred start-document is released.
	sepPending bool
	// prevAtomic is true when the last merged unit was an atomic value,
	// selecting the space-separation rule over plain concatenation.
	prevAtomic bool
}

// textRun accumulates one merged text run. The first fragment is
// referenced without copying; a builder takes over on second append so
// the original event is never mutated.
type textRun struct {
	first  event.Event
	b      strings.Builder
	merged bool
}

func (r *textRun) append(s string) {
	if !r.merged {
		r.b.WriteString(r.first.Value)
		r.merged = true
	}
	r.b.WriteString(s)
}

func (r *textRun) emit() event.Event {
	if !r.merged && r.first.Kind == event.KindText {
		return r.first
	}
	content := r.b.String()
	if !r.merged {
		content = r.first.Value
	}
	out := event.Text(content)
	out.Line = r.first.Line
	out.Column = r.first.Column
	return out
}

func (s *stream) Flat() bool { return true }

func (s *stream) Close() error { return s.src.Close() }

func (s *stream) Next() (event.Event, error) {
	if s.pendingOutput != nil {
		return s.releaseDeferred()
	}
	for {
		ev, err := s.src.Next()
		if err == io.EOF {
			return s.finish()
		}
		if err != nil {
			return event.Event{}, err
		}

		switch ev.Kind {
		case event.KindText:
			if ev.Value == "" {
				// zero-length text never reaches the output.
				continue
			}
			if s.pendingText == nil {
				run := textRun{first: ev}
				s.pendingText = &run
			} else {
				s.pendingText.append(ev.Value)
			}
			s.prevAtomic = false

		case event.KindAtomic:
			if s.pendingText == nil {
				run := textRun{first: ev}
				s.pendingText = &run
			} else if s.prevAtomic {
				s.pendingText.append(" ")
				s.pendingText.append(ev.Value)
			} else {
				s.pendingText.append(ev.Value)
			}
			s.prevAtomic = true

		case event.KindStartDocument:
			if len(s.open) == 0 && s.prevAtomic {
				if s.pendingText != nil {
					out := s.takeRun()
					s.deferEvent(ev)
					s.sepPending = true
					return out, nil
				}
				s.deferEvent(ev)
				s.sepPending = true
				return s.releaseDeferred()
			}
			return s.structural(ev)

		case event.KindStartElement, event.KindEndElement, event.KindEndDocument:
			return s.structural(ev)

		case event.KindComment, event.KindPI, event.KindAttribute,
			event.KindNamespace, event.KindNode:
			if s.pendingText != nil {
				out := s.takeRun()
				s.deferEvent(ev)
				return out, nil
			}
			s.prevAtomic = false
			return ev, nil

		default:
			return event.Event{}, errors.NewStructure("unexpected %s event in content", ev.Kind).
				WithPosition(ev.Line, ev.Column)
		}
	}
}

// structural handles start and end events: flush any pending run first,
// deferring the event, otherwise apply it to the open stack and emit.
func (s *stream) structural(ev event.Event) (event.Event, error) {
	if s.pendingText != nil {
		out := s.takeRun()
		s.deferEvent(ev)
		return out, nil
	}
	s.prevAtomic = false
	return s.apply(ev)
}

func (s *stream) releaseDeferred() (event.Event, error) {
	ev := *s.pendingOutput
	if s.sepPending {
		// deliberate separator: prevents whitespace from being inserted
		// between atomic values across a document boundary.
		s.sepPending = false
		s.prevAtomic = false
		return event.Text(""), nil
	}
	s.pendingOutput = nil
	s.prevAtomic = false
	if ev.IsStart() || ev.IsEnd() {
		return s.apply(ev)
	}
	return ev, nil
}

func (s *stream) finish() (event.Event, error) {
	if s.pendingText != nil {
		out := s.takeRun()
		return out, nil
	}
	if len(s.open) > 0 {
		top := s.open[len(s.open)-1]
		return event.Event{}, errors.NewStructure("content ended with %d unclosed %s", len(s.open), top.Kind)
	}
	return event.Event{}, io.EOF
}

func (s *stream) takeRun() event.Event {
	out := s.pendingText.emit()
	s.pendingText = nil
	return out
}

func (s *stream) deferEvent(ev event.Event) {
	s.pendingOutput = &ev
}

// apply pushes or pops the open-event stack. Pushing a start element
// also drops locally declared namespaces already visible unchanged from
// an ancestor frame.
func (s *stream) apply(ev event.Event) (event.Event, error) {
	switch ev.Kind {
	case event.KindStartElement:
		ev.Bindings = s.dedupBindings(ev.Bindings)
		s.open = append(s.open, ev)
		return ev, nil
	case event.KindStartDocument:
		s.open = append(s.open, ev)
		return ev, nil
	case event.KindEndElement:
		return s.pop(ev, event.KindStartElement)
	case event.KindEndDocument:
		return s.pop(ev, event.KindStartDocument)
	}
	return ev, nil
}

func (s *stream) pop(ev event.Event, wantOpen event.Kind) (event.Event, error) {
	if len(s.open) == 0 {
		return event.Event{}, errors.NewStructure("%s without matching start", ev.Kind).
			WithPosition(ev.Line, ev.Column)
	}
	top := s.open[len(s.open)-1]
	if top.Kind != wantOpen {
		return event.Event{}, errors.NewStructure("%s closes open %s", ev.Kind, top.Kind).
			WithPosition(ev.Line, ev.Column)
	}
	s.open = s.open[:len(s.open)-1]
	return ev, nil
}

// dedupBindings filters local declarations against bindings visible
// from ancestor frames. Identical (prefix, uri) pairs are dropped;
// same-prefix redeclarations with a different URI are kept, since they
// are necessary to shadow the ancestor.
func (s *stream) dedupBindings(local []names.Binding) []names.Binding {
	if len(local) == 0 {
		return local
	}
	var filtered []names.Binding
	dropped := false
	for i, b := range local {
		if s.visibleUnchanged(b) {
			if !dropped {
				filtered = append(filtered, local[:i]...)
				dropped = true
			}
			continue
		}
		if dropped {
			filtered = append(filtered, b)
		}
	}
	if !dropped {
		return local
	}
	return filtered
}

// visibleUnchanged reports whether an identical (prefix, uri) pair is
// already declared by the nearest ancestor frame declaring the prefix.
func (s *stream) visibleUnchanged(b names.Binding) bool {
	for i := len(s.open) - 1; i >= 0; i-- {
		for _, anc := range s.open[i].Bindings {
			if anc.Prefix == b.Prefix {
				return anc.URI == b.URI
			}
		}
	}
	return false
}
