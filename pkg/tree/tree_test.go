package tree

import (
	"testing"

	"github.com/jacoelho/xmlpipe/pkg/names"
)

func TestStringValueConcatenatesDescendantText(t *testing.T) {
	doc := NewDocument(
		NewElement(Name{Local: "a"},
			NewText("x"),
			NewElement(Name{Local: "b"}, NewText("y")),
			NewComment("ignored"),
			NewText("z"),
		),
	)
	if got := doc.StringValue(); got != "xyz" {
		t.Fatalf("StringValue = %q, want xyz", got)
	}
}

func TestElementViews(t *testing.T) {
	attrs := []Attr{NewAttr(Name{Local: "id"}, "7")}
	decls := []names.Binding{{Prefix: "p", URI: "urn:p"}}
	e := NewElementFull(Name{Prefix: "p", URI: "urn:p", Local: "e"}, attrs, decls,
		NewText("body"))

	if e.NodeKind() != ElementKind {
		t.Fatalf("kind = %d, want element", e.NodeKind())
	}
	if got := e.Name(); got != (Name{Prefix: "p", URI: "urn:p", Local: "e"}) {
		t.Fatalf("name = %+v", got)
	}
	if len(e.Attributes()) != 1 || e.Attributes()[0].Value() != "7" {
		t.Fatalf("attributes = %+v", e.Attributes())
	}
	if len(e.NamespaceDecls()) != 1 || e.NamespaceDecls()[0] != decls[0] {
		t.Fatalf("decls = %+v", e.NamespaceDecls())
	}
	if got := e.StringValue(); got != "body" {
		t.Fatalf("StringValue = %q, want body", got)
	}
}

func TestLeafNodes(t *testing.T) {
	tests := []struct {
		name  string
		node  Node
		kind  Kind
		value string
	}{
		{"text", NewText("t"), TextKind, "t"},
		{"comment", NewComment("c"), CommentKind, "c"},
		{"proc-inst", NewProcInst("xslt", "d"), ProcInstKind, "d"},
		{"attribute", NewAttr(Name{Local: "a"}, "v"), AttributeKind, "v"},
		{"namespace", NewNamespace(names.Binding{Prefix: "p", URI: "u"}), NamespaceKind, "u"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.NodeKind(); got != tt.kind {
				t.Fatalf("kind = %d, want %d", got, tt.kind)
			}
			if got := tt.node.StringValue(); got != tt.value {
				t.Fatalf("StringValue = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestProcInstTarget(t *testing.T) {
	pi := NewProcInst("target", "data")
	if pi.Target() != "target" {
		t.Fatalf("Target = %q", pi.Target())
	}
}

func TestNamespaceBinding(t *testing.T) {
	b := names.Binding{Prefix: "p", URI: "urn:p"}
	if got := NewNamespace(b).Binding(); got != b {
		t.Fatalf("Binding = %+v, want %+v", got, b)
	}
}
