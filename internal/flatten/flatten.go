// Package flatten eliminates nested sub-streams so consumers see one
// uniform linear event sequence.
package flatten

import (
	"io"

	"github.com/jacoelho/xmlpipe/pkg/event"
)

// New wraps src so the result never yields a nested-stream event.
// Nesting depth is bounded only by memory: an explicit iterator stack
// replaces call-stack recursion. A source that self-reports as already
// flat is returned unwrapped.
func New(src event.Stream) event.Stream {
	if marker, ok := src.(event.FlatMarker); ok && marker.Flat() {
		return src
	}
	return &stream{stack: []event.Stream{src}}
}

type stream struct {
	stack []event.Stream
}

// Flat reports the flattener's postcondition.
func (s *stream) Flat() bool { return true }

// Next returns the next non-nested event or io.EOF at exhaustion of
// the whole stack.
func (s *stream) Next() (event.Event, error) {
	for {
		if len(s.stack) == 0 {
			return event.Event{}, io.EOF
		}
		top := s.stack[len(s.stack)-1]
		ev, err := top.Next()
		if err == io.EOF {
			s.stack = s.stack[:len(s.stack)-1]
			if err := top.Close(); err != nil {
				return event.Event{}, err
			}
			continue
		}
		if err != nil {
			// propagate without altering stack state.
			return event.Event{}, err
		}
		if ev.Kind == event.KindNested {
			if ev.Sub != nil {
				s.stack = append(s.stack, ev.Sub)
			}
			continue
		}
		return ev, nil
	}
}

// Close releases every stream still on the stack, innermost first.
func (s *stream) Close() error {
	var firstErr error
	for i := len(s.stack) - 1; i >= 0; i-- {
		if err := s.stack[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.stack = s.stack[:0]
	return firstErr
}
