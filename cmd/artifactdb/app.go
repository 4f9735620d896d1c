package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	httpclient "github.com/mutablelogic/go-artifactdb/pkg/httpclient"
	manager "github.com/mutablelogic/go-artifactdb/pkg/manager"
	upload "github.com/mutablelogic/go-artifactdb/pkg/upload"
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	Endpoint string        `env:"ARTIFACTDB_ENDPOINT" default:"http://localhost:8000" help:"ArtifactDB API endpoint"`
	Token    string        `env:"ARTIFACTDB_TOKEN" help:"Bearer token for requests which modify a project"`
	Timeout  time.Duration `help:"Timeout for API requests" default:"30s"`
	Debug    bool          `help:"Enable debug output"`
	Trace    bool          `help:"Trace HTTP requests"`

	vars   kong.Vars `kong:"-"` // Variables for kong
	ctx    context.Context
	cancel context.CancelFunc
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewApp(app Globals, vars kong.Vars) *Globals {
	// Set the vars
	app.vars = vars

	// Create the context
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Return the app
	return &app
}

func (app *Globals) Close() error {
	app.cancel()
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client returns an API client with the credentials from the global flags
func (app *Globals) Client() (*httpclient.Client, error) {
	opts := []client.ClientOpt{}
	if app.Trace {
		opts = append(opts, client.OptTrace(os.Stderr, app.Debug))
	}
	if app.Timeout > 0 {
		opts = append(opts, client.OptTimeout(app.Timeout))
	}
	c, err := httpclient.New(app.Endpoint, opts...)
	if err != nil {
		return nil, err
	}
	if app.Token != "" {
		c = c.WithCredentials(httpclient.Bearer(app.Token))
	}
	return c, nil
}

// Manager returns an upload manager for the API client
func (app *Globals) Manager(opts ...upload.Opt) (*manager.Manager, *httpclient.Client, error) {
	c, err := app.Client()
	if err != nil {
		return nil, nil, err
	}
	mgr, err := manager.New(c, manager.WithLogger(app.Logger()), manager.WithSessionOpts(opts...))
	if err != nil {
		return nil, nil, err
	}
	return mgr, c, nil
}

// Logger returns a logger which writes to stderr when debugging is enabled
func (app *Globals) Logger() *slog.Logger {
	if !app.Debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func prettyJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
