package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// page decodes a JSON response body and captures the URL of the next page
// from the Link response header
type page[T any] struct {
	Body T
	more string
}

var _ client.Unmarshaler = (*page[schema.MetadataList])(nil)

///////////////////////////////////////////////////////////////////////////////
// INTERFACE IMPLEMENTATION

func (p *page[T]) Unmarshal(header http.Header, reader io.Reader) error {
	if value := header.Get(schema.LinkHeader); value != "" {
		links, err := ParseLinkHeader(value)
		if err != nil {
			return err
		}
		p.more = links[relMore]
	}
	return json.NewDecoder(reader).Decode(&p.Body)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetProjectMetadata returns the metadata documents for every artifact in a
// version of a project, following pagination. When version is empty, the
// documents for all versions are returned.
func (c *Client) GetProjectMetadata(ctx context.Context, project, version string) ([]schema.Metadata, error) {
	endpoint := "/projects/" + url.PathEscape(project)
	if version != "" {
		endpoint += "/version/" + url.PathEscape(version)
	}
	endpoint += "/metadata"

	var result []schema.Metadata
	if err := c.paginate(ctx, "failed to get metadata for "+project, endpoint, func(endpoint string) (string, bool, error) {
		var response page[schema.MetadataList]
		if err := c.DoWithContext(ctx, client.NewRequest(), &response, c.opts(
			client.OptReqEndpoint(endpoint),
		)...); err != nil {
			return "", false, err
		}
		result = append(result, response.Body.Results...)
		return response.more, true, nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// GetFileMetadata returns the metadata document for an artifact. When
// followLink is true and the artifact is a link, the document of the
// target artifact is returned.
func (c *Client) GetFileMetadata(ctx context.Context, id schema.ArtifactId, followLink bool) (schema.Metadata, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	endpoint := c.resolve("/files/" + url.PathEscape(id.String()) + "/metadata")
	if followLink {
		endpoint += "?follow_link=true"
	}

	var response schema.Metadata
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, c.opts(
		client.OptReqEndpoint(endpoint),
	)...); err != nil {
		return nil, protocolError("failed to get metadata for "+id.String(), err)
	}
	return response, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// paginate calls fn with the endpoint of the first page and then with every
// page linked with rel="more", until fn returns false or there are no more
// pages. Endpoints may be relative to the API endpoint.
func (c *Client) paginate(ctx context.Context, op, endpoint string, fn func(string) (string, bool, error)) error {
	seen := make(map[string]struct{})
	for endpoint != "" {
		endpoint = c.resolve(endpoint)
		if _, exists := seen[endpoint]; exists {
			return protocolError(op, fmt.Errorf("%w: pagination loop at %q", schema.ErrProtocol, endpoint))
		} else if err := ctx.Err(); err != nil {
			return err
		}
		seen[endpoint] = struct{}{}

		more, next, err := fn(endpoint)
		if err != nil {
			return protocolError(op, err)
		} else if !next {
			return nil
		}
		endpoint = more
	}
	return nil
}
