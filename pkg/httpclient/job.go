package httpclient

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetJob returns the status of an indexing job
func (c *Client) GetJob(ctx context.Context, id schema.JobId) (*schema.JobStatus, error) {
	var response schema.JobStatus
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, c.opts(
		client.OptPath("jobs", string(id)),
	)...); err != nil {
		return nil, protocolError("failed to get status of job "+string(id), err)
	}
	if response.JobId == "" {
		response.JobId = id
	}
	return &response, nil
}

// JobUrl returns the URL of the job status
func (c *Client) JobUrl(id schema.JobId) string {
	return c.resolve("/jobs/" + string(id))
}
