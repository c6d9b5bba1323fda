package push

import (
	"encoding/xml"
	"io"

	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/pkg/names"
)

// Serializer is a Receiver that writes the callback sequence as XML.
// Prefixes are emitted exactly as resolved by the session pool; the
// pipeline's namespace fixup stage is responsible for making them
// well-formed before they reach the serializer.
type Serializer struct {
	enc     *xml.Encoder
	pool    *names.Pool
	pending *xml.StartElement
	open    []xml.Name
}

// NewSerializer creates a serializer writing to w, resolving name codes
// through pool.
func NewSerializer(w io.Writer, pool *names.Pool) *Serializer {
	return &Serializer{enc: xml.NewEncoder(w), pool: pool}
}

// StartDocument is a no-op for the text form.
func (s *Serializer) StartDocument() error { return nil }

// EndDocument is a no-op for the text form.
func (s *Serializer) EndDocument() error { return nil }

// StartElement opens a start tag; it stays pending until StartContent.
func (s *Serializer) StartElement(name names.Code, _ names.TypeCode) error {
	if err := s.flushPending(); err != nil {
		return err
	}
	s.pending = &xml.StartElement{Name: xml.Name{Local: s.pool.Display(name)}}
	return nil
}

// Namespace adds an xmlns attribute to the pending start tag.
func (s *Serializer) Namespace(b names.Binding) error {
	if s.pending == nil {
		return errors.NewState("namespace callback outside element start")
	}
	attrName := "xmlns"
	if b.Prefix != "" {
		attrName = "xmlns:" + b.Prefix
	}
	s.pending.Attr = append(s.pending.Attr, xml.Attr{
		Name:  xml.Name{Local: attrName},
		Value: b.URI,
	})
	return nil
}

// Attribute adds an attribute to the pending start tag.
func (s *Serializer) Attribute(name names.Code, _ names.TypeCode, value string) error {
	if s.pending == nil {
		return errors.NewState("attribute callback outside element start")
	}
	s.pending.Attr = append(s.pending.Attr, xml.Attr{
		Name:  xml.Name{Local: s.pool.Display(name)},
		Value: value,
	})
	return nil
}

// StartContent writes the pending start tag.
func (s *Serializer) StartContent() error {
	if s.pending == nil {
		return errors.NewState("start-content callback outside element start")
	}
	return s.flushPending()
}

// Text writes character data. Zero-length text writes nothing but is
// accepted; it is a legal separator callback.
func (s *Serializer) Text(content string) error {
	if err := s.flushPending(); err != nil {
		return err
	}
	if content == "" {
		return nil
	}
	return s.enc.EncodeToken(xml.CharData(content))
}

// Comment writes a comment.
func (s *Serializer) Comment(content string) error {
	if err := s.flushPending(); err != nil {
		return err
	}
	return s.enc.EncodeToken(xml.Comment(content))
}

// ProcessingInstruction writes a processing instruction.
func (s *Serializer) ProcessingInstruction(target names.Code, data string) error {
	if err := s.flushPending(); err != nil {
		return err
	}
	return s.enc.EncodeToken(xml.ProcInst{
		Target: s.pool.Local(target),
		Inst:   []byte(data),
	})
}

// EndElement closes the innermost open element.
func (s *Serializer) EndElement() error {
	if err := s.flushPending(); err != nil {
		return err
	}
	if len(s.open) == 0 {
		return errors.NewStructure("end element with no open element")
	}
	name := s.open[len(s.open)-1]
	s.open = s.open[:len(s.open)-1]
	return s.enc.EncodeToken(xml.EndElement{Name: name})
}

// Close flushes buffered output.
func (s *Serializer) Close() error {
	if err := s.flushPending(); err != nil {
		return err
	}
	if len(s.open) > 0 {
		return errors.NewStructure("close with %d open elements", len(s.open))
	}
	return s.enc.Flush()
}

func (s *Serializer) flushPending() error {
	if s.pending == nil {
		return nil
	}
	start := *s.pending
	s.pending = nil
	if err := s.enc.EncodeToken(start); err != nil {
		return err
	}
	s.open = append(s.open, start.Name)
	return nil
}
