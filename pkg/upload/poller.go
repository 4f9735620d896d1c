package upload

import (
	"context"

	// Packages
	artifactdb "github.com/mutablelogic/go-artifactdb"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	otel "github.com/mutablelogic/go-client/pkg/otel"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Poller waits for indexing jobs to reach a terminal state
type Poller struct {
	opts
	jobs artifactdb.Jobs
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewPoller returns a poller which requests job status from jobs
func NewPoller(jobs artifactdb.Jobs, opts ...Opt) (*Poller, error) {
	self := &Poller{jobs: jobs}
	if opt, err := applyOpts(opts); err != nil {
		return nil, err
	} else {
		self.opts = opt
	}
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Wait requests the status of a job once every interval until the job
// succeeds or fails, or the timeout has elapsed. A job which succeeds returns
// an indexed result, a job which fails returns an IndexingFailureError, and a
// job still running at the timeout returns a result which is not indexed.
func (p *Poller) Wait(ctx context.Context, id schema.JobId) (_ *schema.UploadResult, err error) {
	child, endFunc := otel.StartSpan(p.tracer, ctx, spanName("Wait"))
	defer func() { endFunc(err) }()

	start := p.clock.Now()
	for p.clock.Now().Sub(start) < p.poll.Timeout {
		select {
		case <-child.Done():
			return nil, child.Err()
		case <-p.clock.After(p.poll.Interval):
		}

		status, err := p.jobs.GetJob(child, id)
		if err != nil {
			return nil, err
		}
		p.logger.DebugContext(child, "job status", "job", id, "status", status.Status)
		switch status.Status {
		case schema.JobSuccess:
			return &schema.UploadResult{JobId: id, Indexed: true}, nil
		case schema.JobFailure:
			return nil, &schema.IndexingFailureError{JobId: id, StatusUrl: p.jobs.JobUrl(id)}
		}
	}

	// Still running
	p.logger.DebugContext(child, "job not indexed before timeout", "job", id, "timeout", p.poll.Timeout)
	return &schema.UploadResult{JobId: id}, nil
}
