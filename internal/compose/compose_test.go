package compose

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
)

type unit struct {
	kind  event.Kind
	value string
}

func collectUnits(t *testing.T, events []event.Event) []unit {
	t.Helper()
	out, err := event.Collect(New(event.FromSlice(events)))
	if err != nil {
		t.Fatalf("Collect error = %v", err)
	}
	units := make([]unit, 0, len(out))
	for _, ev := range out {
		units = append(units, unit{kind: ev.Kind, value: ev.Value})
	}
	return units
}

func TestTextMergeBoundaryRules(t *testing.T) {
	// node text concatenates bare, adjacent atomics get one space, and
	// the node/atomic boundary itself has no separator.
	got := collectUnits(t, []event.Event{
		event.Text("a"),
		event.Text("b"),
		event.Atomic("1"),
		event.Atomic("2"),
		event.Text("c"),
	})
	want := []unit{{event.KindText, "ab1 2c"}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(unit{})); diff != "" {
		t.Fatalf("merged units mismatch (-want +got):\n%s", diff)
	}
}

func TestTextMergeTable(t *testing.T) {
	tests := []struct {
		name string
		in   []event.Event
		want string
	}{
		{
			name: "atomic then text",
			in:   []event.Event{event.Atomic("1"), event.Text("c")},
			want: "1c",
		},
		{
			name: "text then atomic",
			in:   []event.Event{event.Text("a"), event.Atomic("1")},
			want: "a1",
		},
		{
			name: "atomics separated",
			in:   []event.Event{event.Atomic("1"), event.Atomic("2"), event.Atomic("3")},
			want: "1 2 3",
		},
		{
			name: "text fragments joined",
			in:   []event.Event{event.Text("x"), event.Text("y")},
			want: "xy",
		},
		{
			name: "empty text dropped between atomics",
			in:   []event.Event{event.Atomic("1"), event.Text(""), event.Atomic("2")},
			want: "1 2",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := collectUnits(t, tc.in)
			if len(got) != 1 || got[0].kind != event.KindText || got[0].value != tc.want {
				t.Fatalf("units = %v, want single text %q", got, tc.want)
			}
		})
	}
}

func TestSingleTextFragmentPassesThroughUnchanged(t *testing.T) {
	src := event.Text("solo")
	src.Line = 4
	src.Column = 2
	out, err := event.Collect(New(event.FromSlice([]event.Event{src})))
	if err != nil {
		t.Fatalf("Collect error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}
	if out[0].Value != "solo" || out[0].Line != 4 || out[0].Column != 2 {
		t.Fatalf("single fragment rewritten: %+v", out[0])
	}
}

func TestZeroLengthTextEliminated(t *testing.T) {
	got := collectUnits(t, []event.Event{
		event.Comment("a"),
		event.Text(""),
		event.Comment("b"),
	})
	want := []unit{{event.KindComment, "a"}, {event.KindComment, "b"}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(unit{})); diff != "" {
		t.Fatalf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestFlushDefersTriggeringEvent(t *testing.T) {
	pool := names.NewPool()
	name := pool.Allocate("", "", "el")
	got := collectUnits(t, []event.Event{
		event.Text("a"),
		event.Atomic("1"),
		event.StartElement(name, nil, nil),
		event.Text("in"),
		event.EndElement(),
		event.Text("z"),
	})
	want := []unit{
		{event.KindText, "a1"},
		{event.KindStartElement, ""},
		{event.KindText, "in"},
		{event.KindEndElement, ""},
		{event.KindText, "z"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(unit{})); diff != "" {
		t.Fatalf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentBoundarySeparator(t *testing.T) {
	// crossing a document boundary directly after an atomic run emits a
	// deliberate zero-length text event, preserved bit for bit.
	got := collectUnits(t, []event.Event{
		event.Atomic("1"),
		event.StartDocument(),
		event.Text("inside"),
		event.EndDocument(),
	})
	want := []unit{
		{event.KindText, "1"},
		{event.KindText, ""},
		{event.KindStartDocument, ""},
		{event.KindText, "inside"},
		{event.KindEndDocument, ""},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(unit{})); diff != "" {
		t.Fatalf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentBoundaryWithoutAtomicHasNoSeparator(t *testing.T) {
	got := collectUnits(t, []event.Event{
		event.Text("t"),
		event.StartDocument(),
		event.EndDocument(),
	})
	want := []unit{
		{event.KindText, "t"},
		{event.KindStartDocument, ""},
		{event.KindEndDocument, ""},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(unit{})); diff != "" {
		t.Fatalf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestNamespaceDedup(t *testing.T) {
	pool := names.NewPool()
	outer := pool.Allocate("p", "urn:a", "outer")
	inner := pool.Allocate("p", "urn:a", "inner")
	shadow := pool.Allocate("p", "urn:b", "shadow")

	out, err := event.Collect(New(event.FromSlice([]event.Event{
		event.StartElement(outer, []names.Binding{{Prefix: "p", URI: "urn:a"}}, nil),
		event.StartElement(inner, []names.Binding{{Prefix: "p", URI: "urn:a"}}, nil),
		event.EndElement(),
		event.StartElement(shadow, []names.Binding{{Prefix: "p", URI: "urn:b"}}, nil),
		event.EndElement(),
		event.EndElement(),
	})))
	if err != nil {
		t.Fatalf("Collect error = %v", err)
	}
	if len(out) != 6 {
		t.Fatalf("got %d events, want 6", len(out))
	}
	if len(out[0].Bindings) != 1 {
		t.Fatalf("outer bindings = %+v, want 1 declaration", out[0].Bindings)
	}
	if len(out[1].Bindings) != 0 {
		t.Fatalf("redundant inner declaration kept: %+v", out[1].Bindings)
	}
	if len(out[3].Bindings) != 1 || out[3].Bindings[0].URI != "urn:b" {
		t.Fatalf("necessary redeclaration dropped: %+v", out[3].Bindings)
	}
}

func TestNestedInputIsFlattenedFirst(t *testing.T) {
	got := collectUnits(t, []event.Event{
		event.Nested(event.FromSlice([]event.Event{event.Text("a"), event.Text("b")})),
		event.Atomic("1"),
	})
	want := []unit{{event.KindText, "ab1"}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(unit{})); diff != "" {
		t.Fatalf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestUnbalancedEndFails(t *testing.T) {
	_, err := event.Collect(New(event.FromSlice([]event.Event{event.EndElement()})))
	if !errors.IsCode(err, errors.ErrStructureInvalid) {
		t.Fatalf("error = %v, want %s", err, errors.ErrStructureInvalid)
	}
}

func TestMismatchedEndFails(t *testing.T) {
	_, err := event.Collect(New(event.FromSlice([]event.Event{
		event.StartDocument(),
		event.EndElement(),
	})))
	if !errors.IsCode(err, errors.ErrStructureInvalid) {
		t.Fatalf("error = %v, want %s", err, errors.ErrStructureInvalid)
	}
}

func TestUnclosedStartFails(t *testing.T) {
	pool := names.NewPool()
	name := pool.Allocate("", "", "open")
	s := New(event.FromSlice([]event.Event{event.StartElement(name, nil, nil)}))
	if _, err := s.Next(); err != nil {
		t.Fatalf("start error = %v", err)
	}
	_, err := s.Next()
	if !errors.IsCode(err, errors.ErrStructureInvalid) {
		t.Fatalf("error = %v, want %s", err, errors.ErrStructureInvalid)
	}
}

func TestTrailingRunFlushedAtEOF(t *testing.T) {
	s := New(event.FromSlice([]event.Event{event.Text("a"), event.Atomic("1")}))
	ev, err := s.Next()
	if err != nil || ev.Value != "a1" {
		t.Fatalf("Next = %q, %v, want a1", ev.Value, err)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("Next after flush = %v, want io.EOF", err)
	}
}
