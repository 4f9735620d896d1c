package testserver

import (
	"fmt"
	"net/http"

	// Packages
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// errorBody is the body of every error response
type errorBody struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func writeError(w http.ResponseWriter, r *http.Request, code int, format string, args ...any) error {
	return httpresponse.JSON(w, code, httprequest.Indent(r), errorBody{
		Status: "error",
		Reason: fmt.Sprintf(format, args...),
	})
}

func writeOK(w http.ResponseWriter, r *http.Request) error {
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), map[string]string{"status": "ok"})
}
