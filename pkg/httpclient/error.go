package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// errorBody is the body of an error response from the server
type errorBody struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const errorStatus = "error"


///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// protocolError translates a transport error into a ProtocolError carrying
// the operation, the HTTP status and the reason supplied by the server.
// Context errors are returned unchanged.
func protocolError(op string, err error) error {
	if err == nil {
		return nil
	} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	result := &schema.ProtocolError{Op: op, Err: err}
	var response httpresponse.ErrResponse
	var code httpresponse.Err
	if errors.As(err, &response) {
		result.Status = response.Code
		result.Reason = response.Reason
	} else if errors.As(err, &code) {
		// The response body, if any, follows the status in the message
		result.Status = int(code)
		result.Reason = errorReason(err.Error())
	}
	return result
}

// errorReason returns the reason from an error body embedded in an error
// message, which may be quoted
func errorReason(message string) string {
	if i := strings.IndexByte(message, '{'); i >= 0 {
		if j := strings.LastIndexByte(message, '}'); j > i {
			if reason, ok := decodeErrorBody(message[i : j+1]); ok {
				return reason
			}
		}
	}
	if i := strings.IndexByte(message, '"'); i >= 0 {
		if quoted, err := strconv.QuotedPrefix(message[i:]); err == nil {
			if unquoted, err := strconv.Unquote(quoted); err == nil {
				if reason, ok := decodeErrorBody(strings.TrimSpace(unquoted)); ok {
					return reason
				}
			}
		}
	}
	return ""
}

func decodeErrorBody(data string) (string, bool) {
	var body errorBody
	if err := json.Unmarshal([]byte(data), &body); err != nil {
		return "", false
	} else if body.Status != errorStatus || body.Reason == "" {
		return "", false
	}
	return body.Reason, true
}
