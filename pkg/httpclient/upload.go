package httpclient

import (
	"bytes"
	"context"
	"net/http"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	client "github.com/mutablelogic/go-client"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// StartUpload sends the manifest to start an upload of a new project version
// and returns the session descriptor
func (c *Client) StartUpload(ctx context.Context, project, version string, req schema.UploadRequest) (*schema.SessionDescriptor, error) {
	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return nil, err
	}

	var response schema.SessionDescriptor
	if err := c.DoWithContext(ctx, payload, &response, c.opts(
		client.OptPath("projects", project, "version", version, "upload"),
	)...); err != nil {
		return nil, protocolError("failed to start upload for "+project+"@"+version, err)
	}
	return &response, nil
}

// CreateLink creates a deduplication link. The URL may be relative to the
// API endpoint.
func (c *Client) CreateLink(ctx context.Context, url string) error {
	if err := c.DoWithContext(ctx, client.NewRequestEx(http.MethodPut, types.ContentTypeJSON), nil, c.opts(
		client.OptReqEndpoint(c.resolve(url)),
	)...); err != nil {
		return protocolError("failed to create link", err)
	}
	return nil
}

// PutPresigned uploads the content of a file to its presigned URL, with
// the base64-encoded checksum in the Content-Md5 header. The request never
// carries the client credentials, since the URL signature authorizes it.
func (c *Client) PutPresigned(ctx context.Context, entry schema.PresignedUrl, data []byte) error {
	payload := &putPayload{body: bytes.NewReader(data), contentType: schema.ContentTypeFor(entry.Filename)}
	if err := c.DoWithContext(ctx, payload, nil,
		client.OptReqEndpoint(entry.Url),
		client.OptReqHeader(schema.ContentMd5Header, entry.Md5sum),
		client.OptNoTimeout(),
	); err != nil {
		return protocolError("failed to upload "+entry.Filename, err)
	}
	return nil
}

// CompleteUpload completes an upload with the default permissions for a new
// project, and returns the indexing job. The URL may be relative to the API
// endpoint.
func (c *Client) CompleteUpload(ctx context.Context, url string, req schema.CompleteRequest) (*schema.CompleteResponse, error) {
	payload, err := newJSONPutPayload(req)
	if err != nil {
		return nil, err
	}

	var response schema.CompleteResponse
	if err := c.DoWithContext(ctx, payload, &response, c.opts(
		client.OptReqEndpoint(c.resolve(url)),
	)...); err != nil {
		return nil, protocolError("failed to complete upload", err)
	}
	return &response, nil
}

// AbortUpload aborts an upload. The URL may be relative to the API endpoint.
func (c *Client) AbortUpload(ctx context.Context, url string) error {
	if err := c.DoWithContext(ctx, client.NewRequestEx(http.MethodPut, types.ContentTypeJSON), nil, c.opts(
		client.OptReqEndpoint(c.resolve(url)),
	)...); err != nil {
		return protocolError("failed to abort upload", err)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// opts returns the request options with the client credentials prepended
func (c *Client) opts(opts ...client.RequestOpt) []client.RequestOpt {
	return append(c.creds.opts(), opts...)
}
