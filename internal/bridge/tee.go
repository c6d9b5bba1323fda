package bridge

import (
	"github.com/jacoelho/xmlpipe/internal/flatten"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/push"
)

type tee struct {
	src  event.Stream
	sink push.Receiver
}

// Tee decorates src so that every pulled event is also delivered to
// sink, exactly one callback sequence per event, before it is returned
// to the caller. No buffering, no reordering. Closing the tee closes
// both sides.
func Tee(src event.Stream, sink push.Receiver) event.Stream {
	return &tee{src: flatten.New(src), sink: sink}
}

func (t *tee) Next() (event.Event, error) {
	ev, err := t.src.Next()
	if err != nil {
		// io.EOF included: nothing is replayed for exhaustion.
		return event.Event{}, err
	}
	if err := deliver(ev, t.sink); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

func (t *tee) Close() error {
	err := t.src.Close()
	if cerr := t.sink.Close(); err == nil {
		err = cerr
	}
	return err
}

func (t *tee) Flat() bool { return true }
