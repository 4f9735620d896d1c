package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// readFileUnmarshaler streams the response body to fn in chunks
type readFileUnmarshaler struct {
	fn      func([]byte) error
	written int64
}

var _ client.Unmarshaler = (*readFileUnmarshaler)(nil)

///////////////////////////////////////////////////////////////////////////////
// INTERFACE IMPLEMENTATION

func (r *readFileUnmarshaler) Unmarshal(_ http.Header, reader io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			r.written += int64(n)
			if r.fn != nil {
				if callErr := r.fn(buf[:n]); callErr != nil {
					return callErr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ReadFile downloads the content of an artifact, calling fn with each chunk
// of data as it arrives from the server. The slice passed to fn is reused
// across calls; copy it if retained. Returns the number of bytes read.
func (c *Client) ReadFile(ctx context.Context, id schema.ArtifactId, fn func([]byte) error) (int64, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}
	u := &readFileUnmarshaler{fn: fn}
	if err := c.DoWithContext(ctx, client.NewRequestEx(http.MethodGet, ""), u, c.opts(
		client.OptReqEndpoint(c.resolve("/files/"+url.PathEscape(id.String()))),
		client.OptNoTimeout(),
	)...); err != nil {
		return u.written, protocolError("failed to retrieve file for "+id.String(), err)
	}
	return u.written, nil
}
