package bridge

import (
	"io"

	"github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/internal/flatten"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/push"
)

// Drive pulls src to exhaustion and delivers every event to r as the
// corresponding callback sequence. The receiver is closed on every
// path, error paths included; the stream likewise.
func Drive(src event.Stream, r push.Receiver) error {
	s := flatten.New(src)
	for {
		ev, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = r.Close()
			_ = s.Close()
			return err
		}
		if err := deliver(ev, r); err != nil {
			_ = r.Close()
			_ = s.Close()
			return err
		}
	}
	if err := s.Close(); err != nil {
		_ = r.Close()
		return err
	}
	return r.Close()
}

// deliver decodes one flat event into receiver callbacks. A start
// element expands to StartElement, its namespace declarations, its
// attributes, then StartContent.
func deliver(ev event.Event, r push.Receiver) error {
	switch ev.Kind {
	case event.KindStartDocument:
		return r.StartDocument()
	case event.KindEndDocument:
		return r.EndDocument()
	case event.KindStartElement:
		if err := r.StartElement(ev.Name, ev.Type); err != nil {
			return err
		}
		for _, b := range ev.Bindings {
			if err := r.Namespace(b); err != nil {
				return err
			}
		}
		for _, a := range ev.Attrs {
			if err := r.Attribute(a.Name, a.Type, a.Value); err != nil {
				return err
			}
		}
		return r.StartContent()
	case event.KindEndElement:
		return r.EndElement()
	case event.KindText:
		// zero-length text is forwarded untouched; receivers must
		// tolerate it as the document-boundary separator.
		return r.Text(ev.Value)
	case event.KindAtomic:
		return r.Text(ev.Value)
	case event.KindComment:
		return r.Comment(ev.Value)
	case event.KindPI:
		return r.ProcessingInstruction(ev.Name, ev.Value)
	case event.KindAttribute:
		return r.Attribute(ev.Name, ev.Type, ev.Value)
	case event.KindNamespace:
		return r.Namespace(ev.Binding())
	case event.KindNode:
		return errors.NewStructure("node event reached push delivery undecomposed")
	default:
		return errors.NewStructure("cannot deliver %s event", ev.Kind)
	}
}
