package httpclient

import (
	"maps"
	"net/http"
	"slices"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Credentials is an immutable set of headers which authenticate requests.
// The zero value carries no headers.
type Credentials struct {
	header map[string]string
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Bearer returns credentials for a bearer token
func Bearer(token string) Credentials {
	return Credentials{}.With("Authorization", "Bearer "+token)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// With returns a copy of the credentials with an additional header. An empty
// value removes the header.
func (c Credentials) With(key, value string) Credentials {
	header := maps.Clone(c.header)
	if header == nil {
		header = make(map[string]string, 1)
	}
	key = http.CanonicalHeaderKey(key)
	if value == "" {
		delete(header, key)
	} else {
		header[key] = value
	}
	return Credentials{header: header}
}

// Get returns the value of a header, or an empty string
func (c Credentials) Get(key string) string {
	return c.header[http.CanonicalHeaderKey(key)]
}

// IsZero returns true if there are no headers
func (c Credentials) IsZero() bool {
	return len(c.header) == 0
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c Credentials) opts() []client.RequestOpt {
	result := make([]client.RequestOpt, 0, len(c.header))
	for _, key := range slices.Sorted(maps.Keys(c.header)) {
		result = append(result, client.OptReqHeader(key, c.header[key]))
	}
	return result
}
