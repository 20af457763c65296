package debugdraw

// Option configures a Context during creation.
//
// Example:
//
//	// Defaults: white lines, no relay
//	dc := debugdraw.New()
//
//	// Configured from a file and relayed to a viewer
//	cfg, _ := debugdraw.LoadConfig("debugdraw.toml")
//	dc := debugdraw.New(debugdraw.WithConfig(cfg), debugdraw.WithSink(client))
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	config  Config
	sinks   []Sink
	onError func(error)
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{config: DefaultConfig()}
}

// WithConfig replaces the default Config. Zero fields fall back to their
// defaults.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c.normalized()
	}
}

// WithSink adds a Sink that receives every frame produced by EndFrame.
// Sinks implementing io.Closer are closed when the context is released.
func WithSink(s Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithErrorHandler installs a callback for diagnostics reported by draw
// calls. Diagnostics are also logged at Warn level.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
