package testserver

import (
	"fmt"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for test server configuration.
type Opt func(*opts) error

type opts struct {
	token        string
	pageSize     int
	jobStatus    []schema.JobState
	failPath     map[string]int
	failStart    int
	failAbort    int
	failComplete int
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultPageSize = 100
	defaultRegion   = "us-east-1"
	bucketName      = "artifactdb"
)

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithToken requires write requests, except presigned uploads, to carry the
// bearer token.
func WithToken(token string) Opt {
	return func(o *opts) error {
		o.token = token
		return nil
	}
}

// WithPageSize sets the number of entries in each page of metadata and
// project listings.
func WithPageSize(n int) Opt {
	return func(o *opts) error {
		if n <= 0 {
			return fmt.Errorf("invalid page size %d", n)
		}
		o.pageSize = n
		return nil
	}
}

// WithJobStatus sets the sequence of states reported for every indexing job,
// one state for each status request. The last state is repeated. The
// default is a job which succeeds on the first request.
func WithJobStatus(states ...schema.JobState) Opt {
	return func(o *opts) error {
		if len(states) == 0 {
			return fmt.Errorf("missing job states")
		}
		o.jobStatus = states
		return nil
	}
}

// WithFailPath makes the presigned upload or link creation for a path fail
// with the HTTP status code.
func WithFailPath(path string, code int) Opt {
	return func(o *opts) error {
		if o.failPath == nil {
			o.failPath = make(map[string]int)
		}
		o.failPath[path] = code
		return nil
	}
}

// WithFailStart makes every upload start request fail with the HTTP status code.
func WithFailStart(code int) Opt {
	return func(o *opts) error {
		o.failStart = code
		return nil
	}
}

// WithFailComplete makes every upload completion request fail with the HTTP status code.
func WithFailComplete(code int) Opt {
	return func(o *opts) error {
		o.failComplete = code
		return nil
	}
}

// WithFailAbort makes every abort request fail with the HTTP status code.
func WithFailAbort(code int) Opt {
	return func(o *opts) error {
		o.failAbort = code
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	// Set defaults
	o := opts{
		pageSize:  defaultPageSize,
		jobStatus: []schema.JobState{schema.JobSuccess},
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
