// Package stax adapts the standard library XML tokenizer into the
// pipeline event model. It is deliberately thin: names are interned
// into the session pool, xmlns attributes become namespace bindings,
// and document boundaries are synthesized around the token stream.
// Tokenizer errors propagate unchanged.
package stax

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
)

// Options controls which tokens become events.
type Options struct {
	// Comments emits comment events instead of discarding them.
	Comments bool
	// PIs emits processing-instruction events instead of discarding
	// them.
	PIs bool
	// Coalesce merges adjacent character data into one text event.
	Coalesce bool
}

type stream struct {
	dec     *xml.Decoder
	src     io.Reader
	pool    *names.Pool
	opts    Options
	scopes  [][]names.Binding
	held    xml.Token
	heldErr error
	started bool
	ended   bool
	closed  bool
}

// New wraps r as an event stream interning names into pool. The first
// event is always StartDocument; EndDocument is synthesized when the
// tokenizer is exhausted. Closing the stream closes r when r is an
// io.Closer.
func New(r io.Reader, pool *names.Pool, opts Options) event.Stream {
	return &stream{dec: xml.NewDecoder(r), src: r, pool: pool, opts: opts}
}

func (s *stream) Next() (event.Event, error) {
	if s.closed {
		return event.Event{}, io.EOF
	}
	if !s.started {
		s.started = true
		return event.StartDocument(), nil
	}
	for {
		tok, err := s.take()
		if err == io.EOF {
			if !s.ended {
				s.ended = true
				return event.EndDocument(), nil
			}
			return event.Event{}, io.EOF
		}
		if err != nil {
			return event.Event{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return s.startElement(t), nil
		case xml.EndElement:
			if n := len(s.scopes); n > 0 {
				s.scopes = s.scopes[:n-1]
			}
			return event.EndElement(), nil
		case xml.CharData:
			text := string(t)
			if s.opts.Coalesce {
				text = s.coalesce(text)
			}
			return event.Text(text), nil
		case xml.Comment:
			if s.opts.Comments {
				return event.Comment(string(t)), nil
			}
		case xml.ProcInst:
			if s.opts.PIs {
				target := s.pool.Allocate("", "", t.Target)
				return event.PI(target, string(t.Inst)), nil
			}
		}
		// skipped token kinds, directives included.
	}
}

func (s *stream) take() (xml.Token, error) {
	if s.held != nil || s.heldErr != nil {
		tok, err := s.held, s.heldErr
		s.held, s.heldErr = nil, nil
		return tok, err
	}
	return s.dec.Token()
}

// coalesce extends a text run across adjacent character data tokens.
// Tokens the options discard anyway do not break the run; the first
// surviving non-text token (or error) is parked for the next call.
func (s *stream) coalesce(first string) string {
	var b strings.Builder
	b.WriteString(first)
	for {
		tok, err := s.dec.Token()
		if err != nil {
			s.heldErr = err
			return b.String()
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.Comment:
			if s.opts.Comments {
				s.held = xml.CopyToken(tok)
				return b.String()
			}
		case xml.ProcInst:
			if s.opts.PIs {
				s.held = xml.CopyToken(tok)
				return b.String()
			}
		case xml.Directive:
			// discarded everywhere
		default:
			s.held = xml.CopyToken(tok)
			return b.String()
		}
	}
}

// startElement splits xmlns attributes out of the attribute list,
// records the scope frame for prefix recovery, and interns every name.
// Bindings are collected and the frame pushed before any name is
// interned: attribute order in a start tag is insignificant, so a
// declaration may lexically follow the attributes that use it.
func (s *stream) startElement(t xml.StartElement) event.Event {
	var bindings []names.Binding
	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			bindings = append(bindings, names.Binding{URI: a.Value})
		case a.Name.Space == "xmlns":
			bindings = append(bindings, names.Binding{Prefix: a.Name.Local, URI: a.Value})
		}
	}
	s.scopes = append(s.scopes, bindings)
	var attrs []event.Attr
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		attrs = append(attrs, event.Attr{Name: s.intern(a.Name), Value: a.Value})
	}
	return event.StartElement(s.intern(t.Name), bindings, attrs)
}

// intern maps a tokenizer name to a pool code. The tokenizer resolves
// prefixes to URIs and discards the written prefix, so the prefix is
// recovered from the innermost visible declaration of the URI.
func (s *stream) intern(n xml.Name) names.Code {
	if n.Space == "" {
		return s.pool.Allocate("", "", n.Local)
	}
	return s.pool.Allocate(s.prefixFor(n.Space), n.Space, n.Local)
}

func (s *stream) prefixFor(uri string) string {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		frame := s.scopes[i]
		for j := len(frame) - 1; j >= 0; j-- {
			if frame[j].URI == uri {
				return frame[j].Prefix
			}
		}
	}
	return ""
}

func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *stream) Flat() bool { return true }
