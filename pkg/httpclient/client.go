package httpclient

import (
	"net/url"
	"strings"

	// Packages
	artifactdb "github.com/mutablelogic/go-artifactdb"
	client "github.com/mutablelogic/go-client"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is an ArtifactDB HTTP client that wraps the base HTTP client
// and provides typed methods for interacting with the ArtifactDB API.
type Client struct {
	*client.Client
	endpoint string
	creds    Credentials
}

var _ artifactdb.Backend = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new ArtifactDB HTTP client with the given base URL and options.
// The url parameter should point to the API endpoint, e.g.
// "https://artifactdb.example.com/api". Requests carry no credentials until
// WithCredentials is called.
func New(endpoint string, opts ...client.ClientOpt) (*Client, error) {
	if u, err := url.Parse(endpoint); err != nil {
		return nil, err
	} else if u.Scheme == "" || u.Host == "" {
		return nil, httpresponse.ErrBadRequest.Withf("endpoint %q is not an absolute URL", endpoint)
	}
	cl, err := client.New(append(opts, client.OptEndpoint(endpoint))...)
	if err != nil {
		return nil, err
	}
	return &Client{
		Client:   cl,
		endpoint: strings.TrimSuffix(endpoint, "/"),
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithCredentials returns a copy of the client which authenticates every
// request except presigned uploads with the credentials. The underlying
// HTTP client is shared.
func (c *Client) WithCredentials(creds Credentials) *Client {
	return &Client{
		Client:   c.Client,
		endpoint: c.endpoint,
		creds:    creds,
	}
}

// Credentials returns the credentials used by the client
func (c *Client) Credentials() Credentials {
	return c.creds
}

// Endpoint returns the base URL of the API
func (c *Client) Endpoint() string {
	return c.endpoint
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// resolve returns an absolute URL. URLs returned by the server may be
// relative to the API endpoint, including any path prefix.
func (c *Client) resolve(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.endpoint + ref
}
