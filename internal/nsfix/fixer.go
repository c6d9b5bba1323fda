package nsfix

import (
	"github.com/jacoelho/xmlpipe/pkg/names"
	"github.com/jacoelho/xmlpipe/pkg/push"
)

// Fixer decorates a push receiver with namespace fixup: incoming
// declarations are deduplicated, conflicting prefixes renamed, and the
// element's complete local declaration set is emitted exactly once,
// immediately before StartContent.
type Fixer struct {
	next    push.Receiver
	scopes  *Scopes
	attrSeq int
}

// NewFixer wraps next with namespace fixup over pool.
func NewFixer(next push.Receiver, pool *names.Pool) *Fixer {
	return &Fixer{next: next, scopes: NewScopes(pool)}
}

// StartDocument forwards unchanged.
func (f *Fixer) StartDocument() error { return f.next.StartDocument() }

// EndDocument forwards unchanged.
func (f *Fixer) EndDocument() error { return f.next.EndDocument() }

// StartElement opens a scope frame and forwards the validated name.
func (f *Fixer) StartElement(name names.Code, typ names.TypeCode) error {
	f.attrSeq = 0
	checked, err := f.scopes.StartElement(name)
	if err != nil {
		return err
	}
	return f.next.StartElement(checked, typ)
}

// Namespace absorbs the declaration; the deduplicated set is emitted at
// StartContent.
func (f *Fixer) Namespace(b names.Binding) error {
	_, err := f.scopes.Declare(b)
	return err
}

// Attribute forwards the attribute under its validated, possibly
// renamed, name. Attribute positions are 1-based; 0 is the element.
func (f *Fixer) Attribute(name names.Code, typ names.TypeCode, value string) error {
	f.attrSeq++
	checked, err := f.scopes.Check(name, f.attrSeq)
	if err != nil {
		return err
	}
	return f.next.Attribute(checked, typ, value)
}

// StartContent emits the frame's final declarations, then forwards.
func (f *Fixer) StartContent() error {
	for _, b := range f.scopes.LocalBindings() {
		if err := f.next.Namespace(b); err != nil {
			return err
		}
	}
	return f.next.StartContent()
}

// Text forwards unchanged, zero-length included.
func (f *Fixer) Text(content string) error { return f.next.Text(content) }

// Comment forwards unchanged.
func (f *Fixer) Comment(content string) error { return f.next.Comment(content) }

// ProcessingInstruction forwards unchanged.
func (f *Fixer) ProcessingInstruction(target names.Code, data string) error {
	return f.next.ProcessingInstruction(target, data)
}

// EndElement pops the scope frame and forwards.
func (f *Fixer) EndElement() error {
	if err := f.scopes.EndElement(); err != nil {
		return err
	}
	return f.next.EndElement()
}

// LastClosed returns the validated name of the element most recently
// closed, readable immediately after its EndElement callback.
func (f *Fixer) LastClosed() names.Code { return f.scopes.LastClosed() }

// Close forwards unchanged.
func (f *Fixer) Close() error { return f.next.Close() }
