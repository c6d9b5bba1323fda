package xmlpipe

// ReadOption configures ReadXML.
type ReadOption interface{ apply(*readOptions) }

type readOptions struct {
	comments bool
	pis      bool
	coalesce bool
}

type readOptionFunc func(*readOptions)

func (f readOptionFunc) apply(cfg *readOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

// WithComments controls whether comments become events. Disabled by
// default.
func WithComments(enabled bool) ReadOption {
	return readOptionFunc(func(cfg *readOptions) {
		cfg.comments = enabled
	})
}

// WithProcessingInstructions controls whether processing instructions
// become events. Disabled by default.
func WithProcessingInstructions(enabled bool) ReadOption {
	return readOptionFunc(func(cfg *readOptions) {
		cfg.pis = enabled
	})
}

// WithCoalescing controls whether adjacent character data merges into
// one text event. Enabled by default.
func WithCoalescing(enabled bool) ReadOption {
	return readOptionFunc(func(cfg *readOptions) {
		cfg.coalesce = enabled
	})
}
