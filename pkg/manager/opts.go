package manager

import (
	"log/slog"

	// Packages
	upload "github.com/mutablelogic/go-artifactdb/pkg/upload"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for upload manager configuration.
type Opt func(*opts) error

type opts struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	session []upload.Opt
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithTracer sets the tracer used for tracing operations.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithLogger sets the logger used by the manager and its sessions.
func WithLogger(logger *slog.Logger) Opt {
	return func(o *opts) error {
		if logger == nil {
			return httpresponse.ErrBadRequest.Withf("logger is nil")
		}
		o.logger = logger
		return nil
	}
}

// WithSessionOpts appends options for every upload session, for example the
// poll configuration or the transfer concurrency.
func WithSessionOpts(session ...upload.Opt) Opt {
	return func(o *opts) error {
		o.session = append(o.session, session...)
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	// Set defaults
	o := opts{
		logger: slog.New(slog.DiscardHandler),
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

// sessionOpts returns the options for a session, which inherits the tracer
// and logger of the manager
func (o opts) sessionOpts() []upload.Opt {
	return append([]upload.Opt{
		upload.WithTracer(o.tracer),
		upload.WithLogger(o.logger),
	}, o.session...)
}
