package upload

import (
	"log/slog"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for sessions and pollers
type Opt func(*opts) error

type opts struct {
	tracer      trace.Tracer
	logger      *slog.Logger
	poll        PollConfig
	clock       Clock
	concurrency int
}

// PollConfig determines how often and for how long the status of an
// indexing job is requested
type PollConfig struct {
	Interval time.Duration `json:"interval"` // default 5s
	Timeout  time.Duration `json:"timeout"`  // default 600s, zero returns without polling
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 600 * time.Second
)

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithTracer sets the tracer used for tracing operations.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *slog.Logger) Opt {
	return func(o *opts) error {
		if logger == nil {
			return httpresponse.ErrBadRequest.Withf("logger is nil")
		}
		o.logger = logger
		return nil
	}
}

// WithPollConfig sets the interval and timeout for polling indexing jobs.
func WithPollConfig(config PollConfig) Opt {
	return func(o *opts) error {
		if config.Interval <= 0 {
			return httpresponse.ErrBadRequest.Withf("invalid poll interval %v", config.Interval)
		}
		if config.Timeout < 0 {
			return httpresponse.ErrBadRequest.Withf("invalid poll timeout %v", config.Timeout)
		}
		o.poll = config
		return nil
	}
}

// WithClock sets the clock used when polling.
func WithClock(clock Clock) Opt {
	return func(o *opts) error {
		if clock == nil {
			return httpresponse.ErrBadRequest.Withf("clock is nil")
		}
		o.clock = clock
		return nil
	}
}

// WithConcurrency limits the number of transfer requests in flight. The
// default of zero dispatches every request at once.
func WithConcurrency(n int) Opt {
	return func(o *opts) error {
		if n < 0 {
			return httpresponse.ErrBadRequest.Withf("invalid concurrency %d", n)
		}
		o.concurrency = n
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// DefaultPollConfig returns the default poll interval and timeout
func DefaultPollConfig() PollConfig {
	return PollConfig{Interval: DefaultPollInterval, Timeout: DefaultPollTimeout}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	// Set defaults
	o := opts{
		logger: slog.New(slog.DiscardHandler),
		poll:   DefaultPollConfig(),
		clock:  RealClock(),
	}

	// Apply options
	for _, fn := range opt {
		if err := fn(&o); err != nil {
			return opts{}, err
		}
	}

	// Return success
	return o, nil
}

func spanName(op string) string {
	return schema.SchemaName + ".upload." + op
}
