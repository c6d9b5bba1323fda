package event

import (
	"io"
	"iter"
)

// Stream is a lazy, finite, forward-only sequence of events.
// Next returns io.EOF at exhaustion. Close releases any held resources;
// calling it is advisory but recommended on early termination.
type Stream interface {
	Next() (Event, error)
	Close() error
}

// FlatMarker is implemented by streams that guarantee never to yield a
// nested-stream event. The flattener returns such streams unwrapped.
type FlatMarker interface {
	Flat() bool
}

type sliceStream struct {
	events []Event
	pos    int
	flat   bool
}

// FromSlice exposes a slice of events as a stream.
func FromSlice(events []Event) Stream {
	flat := true
	for _, ev := range events {
		if ev.Kind == KindNested {
			flat = false
			break
		}
	}
	return &sliceStream{events: events, flat: flat}
}

func (s *sliceStream) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *sliceStream) Close() error { return nil }

func (s *sliceStream) Flat() bool { return s.flat }

type emptyStream struct{}

// Empty returns a stream that is already exhausted.
func Empty() Stream { return emptyStream{} }

func (emptyStream) Next() (Event, error) { return Event{}, io.EOF }
func (emptyStream) Close() error         { return nil }
func (emptyStream) Flat() bool           { return true }

// Collect drains a stream into a slice, closing it afterwards.
func Collect(s Stream) ([]Event, error) {
	var events []Event
	for {
		ev, err := s.Next()
		if err == io.EOF {
			return events, s.Close()
		}
		if err != nil {
			_ = s.Close()
			return events, err
		}
		events = append(events, ev)
	}
}

// All adapts a stream to a range-over-func sequence. Iteration stops at
// the first error; io.EOF is not surfaced.
func All(s Stream) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := s.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Event{}, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Func adapts a Next-style function to a Stream with a no-op Close.
type Func func() (Event, error)

// Next calls the wrapped function.
func (f Func) Next() (Event, error) { return f() }

// Close is a no-op.
func (f Func) Close() error { return nil }
