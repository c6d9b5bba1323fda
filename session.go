package xmlpipe

import (
	"io"

	"github.com/jacoelho/xmlpipe/internal/bridge"
	"github.com/jacoelho/xmlpipe/internal/compose"
	"github.com/jacoelho/xmlpipe/internal/decompose"
	"github.com/jacoelho/xmlpipe/internal/flatten"
	"github.com/jacoelho/xmlpipe/internal/nsfix"
	"github.com/jacoelho/xmlpipe/internal/stax"
	"github.com/jacoelho/xmlpipe/pkg/event"
	"github.com/jacoelho/xmlpipe/pkg/names"
	"github.com/jacoelho/xmlpipe/pkg/push"
	"github.com/jacoelho/xmlpipe/pkg/tree"
)

// Provider is a cursor-style pull interface over an event stream.
type Provider = bridge.Provider

// Session owns the name pool shared by every stage it creates. Streams
// built by different sessions must not be mixed: their name codes are
// not comparable. Sessions are not safe for concurrent use.
type Session struct {
	pool *names.Pool
}

// NewSession creates a session with an empty name pool.
func NewSession() *Session {
	return &Session{pool: names.NewPool()}
}

// Pool returns the session's name pool.
func (s *Session) Pool() *names.Pool { return s.pool }

// Name interns a qualified name and returns its code.
func (s *Session) Name(prefix, uri, local string) names.Code {
	return s.pool.Allocate(prefix, uri, local)
}

// Flatten removes nested sub-stream events from src so consumers see
// one uniform linear sequence. Streams already known to be flat pass
// through unwrapped.
func (s *Session) Flatten(src event.Stream) event.Stream {
	return flatten.New(src)
}

// Normalize applies the complex content construction rules to src:
// adjacent text merges, adjacent atomic values are joined with a
// single space, zero-length text is dropped, and event nesting is
// checked. The input is flattened first.
func (s *Session) Normalize(src event.Stream) event.Stream {
	return compose.New(src)
}

// Decompose expands a materialized tree node into its canonical event
// sequence.
func (s *Session) Decompose(n tree.Node) event.Stream {
	return decompose.Node(n, s.pool)
}

// Tee mirrors every event pulled from src into sink as push callbacks
// before returning it. Closing the returned stream closes both sides.
func (s *Session) Tee(src event.Stream, sink push.Receiver) event.Stream {
	return bridge.Tee(src, sink)
}

// Provider wraps src in a cursor-style pull interface with
// position-dependent accessors.
func (s *Session) Provider(src event.Stream) *Provider {
	return bridge.NewProvider(src)
}

// Deliver normalizes src and pushes it into r with namespace fixup
// applied: prefixes used by names are declared exactly once in the
// nearest scope, conflicts are renamed deterministically. The receiver
// is closed on every path.
func (s *Session) Deliver(src event.Stream, r push.Receiver) error {
	return bridge.Drive(compose.New(src), nsfix.NewFixer(r, s.pool))
}

// ReadXML tokenizes r into an event stream, interning names into the
// session pool. Comments and processing instructions are discarded and
// character data is coalesced unless options say otherwise.
func (s *Session) ReadXML(r io.Reader, opts ...ReadOption) event.Stream {
	cfg := readOptions{coalesce: true}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return stax.New(r, s.pool, stax.Options{
		Comments: cfg.comments,
		PIs:      cfg.pis,
		Coalesce: cfg.coalesce,
	})
}

// WriteXML serializes src to w. The stream is normalized and namespace
// fixup applied, so the output carries well-formed declarations even
// when the input does not.
func (s *Session) WriteXML(w io.Writer, src event.Stream) error {
	return s.Deliver(src, push.NewSerializer(w, s.pool))
}
