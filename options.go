package i11e

// ContextOption configures a Context at construction time.
type ContextOption interface {
	applyContext(*contextOptions)
}

type contextOptions struct {
	debugAssertions bool
}

type contextOptionFunc func(*contextOptions)

func (f contextOptionFunc) applyContext(o *contextOptions) { f(o) }

// WithDebugAssertions enables or disables the invariant checks that panic
// on caller-contract violations (e.g. arming a second hook, closing a
// context that is still armed or attached, or passing an explicit context
// that differs from the one attached to the goroutine). Enabled by default;
// when disabled, these violations are not checked and no error is reported
// in place of the panic.
func WithDebugAssertions(enabled bool) ContextOption {
	return contextOptionFunc(func(o *contextOptions) {
		o.debugAssertions = enabled
	})
}

func resolveContextOptions(opts []ContextOption) *contextOptions {
	cfg := &contextOptions{debugAssertions: true}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyContext(cfg)
	}
	return cfg
}

// Option configures the package-wide ambient state (currently just the
// logging sink) via Configure. It is a separate type from ContextOption
// because it applies to the whole process, not to one Context.
type Option interface {
	applyGlobal(*globalOptions)
}

type globalOptions struct {
	logger Logger
}

type optionFunc func(*globalOptions)

func (f optionFunc) applyGlobal(o *globalOptions) { f(o) }

// WithLogger installs logger as the package-wide structured logging sink.
// Equivalent to calling SetStructuredLogger directly; provided so that
// logger selection can be composed with other package-level options
// through Configure.
func WithLogger(logger Logger) Option {
	return optionFunc(func(o *globalOptions) {
		o.logger = logger
	})
}

// Configure applies package-wide options. Typically called once, near
// process startup, before any Context is created.
func Configure(opts ...Option) {
	cfg := &globalOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyGlobal(cfg)
	}
	if cfg.logger != nil {
		SetStructuredLogger(cfg.logger)
	}
}
