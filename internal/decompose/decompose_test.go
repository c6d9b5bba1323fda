package decompose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jacoelho/xmlpipe/internal/flatten"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
	"github.com/jacoelho/xmlpipe/pkg/tree"
)

type shape struct {
	kind  event.Kind
	name  string
	value string
}

func collectShapes(t *testing.T, pool *names.Pool, s event.Stream) []shape {
	t.Helper()
	events, err := event.Collect(flatten.New(s))
	if err != nil {
		t.Fatalf("Collect error = %v", err)
	}
	shapes := make([]shape, 0, len(events))
	for _, ev := range events {
		sh := shape{kind: ev.Kind, value: ev.Value}
		if ev.Kind == event.KindStartElement || ev.Kind == event.KindPI || ev.Kind == event.KindAttribute {
			sh.name = pool.Display(ev.Name)
		}
		shapes = append(shapes, sh)
	}
	return shapes
}

func TestDecomposeElementTree(t *testing.T) {
	pool := names.NewPool()
	root := tree.NewElement(tree.Name{Local: "a"},
		tree.NewElement(tree.Name{Local: "b"}),
		tree.NewText("text"),
		tree.NewElement(tree.Name{Local: "c"}),
	)

	got := collectShapes(t, pool, Node(root, pool))
	want := []shape{
		{kind: event.KindStartElement, name: "a"},
		{kind: event.KindStartElement, name: "b"},
		{kind: event.KindEndElement},
		{kind: event.KindText, value: "text"},
		{kind: event.KindStartElement, name: "c"},
		{kind: event.KindEndElement},
		{kind: event.KindEndElement},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(shape{})); diff != "" {
		t.Fatalf("decomposed events mismatch (-want +got):\n%s", diff)
	}
}

func TestDecomposeDocument(t *testing.T) {
	pool := names.NewPool()
	doc := tree.NewDocument(
		tree.NewComment("head"),
		tree.NewElement(tree.Name{Local: "root"}, tree.NewText("v")),
	)
	got := collectShapes(t, pool, Node(doc, pool))
	want := []shape{
		{kind: event.KindStartDocument},
		{kind: event.KindComment, value: "head"},
		{kind: event.KindStartElement, name: "root"},
		{kind: event.KindText, value: "v"},
		{kind: event.KindEndElement},
		{kind: event.KindEndDocument},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(shape{})); diff != "" {
		t.Fatalf("decomposed events mismatch (-want +got):\n%s", diff)
	}
}

func TestDecomposeCollectsAttributesEagerly(t *testing.T) {
	pool := names.NewPool()
	elem := tree.NewElementFull(
		tree.Name{Prefix: "p", URI: "urn:p", Local: "e"},
		[]tree.Attr{tree.NewAttr(tree.Name{Local: "id"}, "7")},
		[]names.Binding{{Prefix: "p", URI: "urn:p"}},
		tree.NewText("body"),
	)
	s := Node(elem, pool)
	nested, err := s.Next()
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	if nested.Kind != event.KindNested {
		t.Fatalf("element decomposition = %v, want nested stream", nested.Kind)
	}
	start, err := nested.Sub.Next()
	if err != nil {
		t.Fatalf("nested Next error = %v", err)
	}
	if start.Kind != event.KindStartElement {
		t.Fatalf("first nested event = %v, want start-element", start.Kind)
	}
	// attributes and declarations are present before children are read.
	if len(start.Attrs) != 1 || start.Attrs[0].Value != "7" {
		t.Fatalf("start attrs = %+v, want id=7", start.Attrs)
	}
	if len(start.Bindings) != 1 || start.Bindings[0].URI != "urn:p" {
		t.Fatalf("start bindings = %+v, want p=urn:p", start.Bindings)
	}
	if got := pool.Display(start.Name); got != "p:e" {
		t.Fatalf("start name = %q, want p:e", got)
	}
}

func TestLeafNodesPassThrough(t *testing.T) {
	pool := names.NewPool()
	tests := []struct {
		name string
		node tree.Node
		want shape
	}{
		{"text", tree.NewText("t"), shape{kind: event.KindText, value: "t"}},
		{"comment", tree.NewComment("c"), shape{kind: event.KindComment, value: "c"}},
		{"pi", tree.NewProcInst("tgt", "data"), shape{kind: event.KindPI, name: "tgt", value: "data"}},
		{"attr", tree.NewAttr(tree.Name{Local: "id"}, "9"), shape{kind: event.KindAttribute, name: "id", value: "9"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := collectShapes(t, pool, Node(tc.node, pool))
			if len(got) != 1 || got[0] != tc.want {
				t.Fatalf("shapes = %+v, want [%+v]", got, tc.want)
			}
		})
	}
}

func TestItemPassesNonNodesThrough(t *testing.T) {
	pool := names.NewPool()
	in := event.Atomic("42")
	out, err := Item(in, pool)
	if err != nil {
		t.Fatalf("Item error = %v", err)
	}
	if out.Kind != event.KindAtomic || out.Value != "42" {
		t.Fatalf("Item = %+v, want unchanged atomic", out)
	}
}

func TestItemExpandsNodeReference(t *testing.T) {
	pool := names.NewPool()
	ref := event.NodeRef(tree.NewElement(tree.Name{Local: "x"}))
	out, err := Item(ref, pool)
	if err != nil {
		t.Fatalf("Item error = %v", err)
	}
	if out.Kind != event.KindNested {
		t.Fatalf("Item on node ref = %v, want nested", out.Kind)
	}
}

func TestNamespaceNodePassThrough(t *testing.T) {
	pool := names.NewPool()
	got, err := event.Collect(Node(tree.NewNamespace(names.Binding{Prefix: "q", URI: "urn:q"}), pool))
	if err != nil {
		t.Fatalf("Collect error = %v", err)
	}
	if len(got) != 1 || got[0].Kind != event.KindNamespace {
		t.Fatalf("events = %+v, want single namespace", got)
	}
	if b := got[0].Binding(); b.Prefix != "q" || b.URI != "urn:q" {
		t.Fatalf("binding = %+v", b)
	}
}
