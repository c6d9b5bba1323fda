// Package nsfix guarantees that every namespace prefix used by element
// and attribute names is declared exactly once in the nearest enclosing
// scope, inventing substitute prefixes deterministically when two URIs
// compete for one prefix.
package nsfix

import (
	"strconv"

	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/pkg/names"
)

// Scopes tracks all currently visible namespace bindings as a single
// flat array plus per-frame contribution counts. One frame is pushed
// per open element and popped on the matching end element. A Scopes is
// exclusively owned by one fixup stage.
type Scopes struct {
	pool       *names.Pool
	bindings   []names.Binding
	counts     []int
	elems      []names.Code
	lastClosed names.Code
}

// NewScopes creates an empty scope tracker over pool.
func NewScopes(pool *names.Pool) *Scopes {
	return &Scopes{pool: pool, lastClosed: names.None}
}

// StartElement opens a frame for the element and validates its name.
// The returned code is the name to use, possibly reallocated under a
// substitute prefix.
func (s *Scopes) StartElement(name names.Code) (names.Code, error) {
	s.counts = append(s.counts, 0)
	s.elems = append(s.elems, name)
	checked, err := s.Check(name, 0)
	if err != nil {
		return names.None, err
	}
	s.elems[len(s.elems)-1] = checked
	return checked, nil
}

// EndElement pops the innermost frame, truncating the visible binding
// list by the frame's contribution. The closed element's name stays
// readable through LastClosed until the next EndElement.
func (s *Scopes) EndElement() error {
	if len(s.counts) == 0 {
		return errors.NewStructure("end element with no open element")
	}
	contribution := s.counts[len(s.counts)-1]
	s.counts = s.counts[:len(s.counts)-1]
	s.bindings = s.bindings[:len(s.bindings)-contribution]
	s.lastClosed = s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return nil
}

// LastClosed returns the name of the most recently closed element.
func (s *Scopes) LastClosed() names.Code { return s.lastClosed }

// Depth returns the number of open frames.
func (s *Scopes) Depth() int { return len(s.counts) }

// LocalBindings returns the current frame's contribution: exactly the
// declarations, invented or kept, that belong on the open element.
func (s *Scopes) LocalBindings() []names.Binding {
	if len(s.counts) == 0 {
		return nil
	}
	return s.bindings[len(s.bindings)-s.counts[len(s.counts)-1]:]
}

// Check validates a proposed name against the visible bindings. seq is
// the 1-based attribute position, or 0 for the element name itself; it
// makes invented prefixes deterministic.
func (s *Scopes) Check(name names.Code, seq int) (names.Code, error) {
	binding := s.pool.Binding(name)
	if binding.Prefix == "xml" {
		// implicitly bound, never declared.
		return name, nil
	}
	if binding.Prefix == "" && binding.URI == "" {
		return s.checkUnqualified(name, seq)
	}
	if binding.Prefix == "" && seq > 0 {
		// attributes are never in the default namespace, so a
		// namespaced attribute name without a prefix must have one
		// invented before a declaration can anchor the URI.
		substitute := s.pool.WithPrefix(name, "ns_"+strconv.Itoa(seq))
		return s.Check(substitute, seq)
	}
	if len(s.counts) == 0 {
		// free-standing name outside any element: nothing to anchor a
		// declaration to.
		return name, nil
	}
	localStart := len(s.bindings) - s.localCount()
	for i := len(s.bindings) - 1; i >= 0; i-- {
		visible := s.bindings[i]
		if visible.Prefix != binding.Prefix {
			continue
		}
		if visible.URI == binding.URI {
			return name, nil
		}
		if i >= localStart {
			// the prefix is taken on this very element; invent a
			// substitute deterministically and re-validate it.
			substitute := s.pool.WithPrefix(name, binding.Prefix+"_"+strconv.Itoa(seq))
			return s.Check(substitute, seq)
		}
		// ancestor binding: shadow it with a local redeclaration.
		s.declareLocal(binding)
		return name, nil
	}
	s.declareLocal(binding)
	return name, nil
}

// checkUnqualified handles names in no namespace. Unprefixed attributes
// are never namespaced and need no declaration. An element in no
// namespace only needs action when a default namespace is visible: the
// default must be undeclared locally, which is impossible if this very
// element declares one.
func (s *Scopes) checkUnqualified(name names.Code, seq int) (names.Code, error) {
	if seq > 0 {
		return name, nil
	}
	localStart := len(s.bindings) - s.localCount()
	for i := len(s.bindings) - 1; i >= 0; i-- {
		visible := s.bindings[i]
		if visible.Prefix != "" {
			continue
		}
		if visible.URI == "" {
			return name, nil
		}
		if i >= localStart {
			return names.None, errors.NewNamespaceConflict(
				"element %s is in no namespace but declares default namespace %q locally",
				s.pool.Display(name), visible.URI)
		}
		s.declareLocal(names.Binding{})
		return name, nil
	}
	return name, nil
}

// Declare records an explicit namespace declaration on the current
// element. It reports whether the declaration was kept: declarations
// whose (prefix, uri) pair is already visible unchanged are redundant
// and dropped. Two local declarations binding one prefix to different
// URIs are an unresolvable construction-rule violation.
func (s *Scopes) Declare(b names.Binding) (bool, error) {
	if len(s.counts) == 0 {
		return false, errors.NewStructure("namespace declaration outside an element")
	}
	localStart := len(s.bindings) - s.localCount()
	for i := len(s.bindings) - 1; i >= 0; i-- {
		visible := s.bindings[i]
		if visible.Prefix != b.Prefix {
			continue
		}
		if visible.URI == b.URI {
			// redundant: identical pair already in scope.
			return false, nil
		}
		if i >= localStart {
			return false, errors.NewNamespaceConflict(
				"prefix %q bound to both %q and %q on one element", b.Prefix, visible.URI, b.URI)
		}
		break
	}
	s.declareLocal(b)
	return true, nil
}

func (s *Scopes) localCount() int {
	if len(s.counts) == 0 {
		return 0
	}
	return s.counts[len(s.counts)-1]
}

func (s *Scopes) declareLocal(b names.Binding) {
	s.bindings = append(s.bindings, b)
	if len(s.counts) > 0 {
		s.counts[len(s.counts)-1]++
	}
}
