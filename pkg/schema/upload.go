package schema

import (
	"bytes"
	"encoding/json"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// UploadRequest is the body of the upload start request
type UploadRequest struct {
	Filenames   []UploadFile `json:"filenames"`
	Mode        string       `json:"mode"`
	ExpiresIn   string       `json:"expires_in,omitempty"`
	CompletedBy string       `json:"completed_by,omitempty"`
}

type UploadFile struct {
	Filename string       `json:"filename"`
	Check    Strategy     `json:"check"`
	Values   UploadValues `json:"values"`
}

type UploadValues struct {
	Md5sum       string      `json:"md5sum,omitempty"`
	Field        string      `json:"field,omitempty"`
	ArtifactdbId *ArtifactId `json:"artifactdb_id,omitempty"`
}

// SessionDescriptor is returned by the backend in response to an upload
// start request, and governs one upload attempt
type SessionDescriptor struct {
	PresignedUrls []PresignedUrl `json:"presigned_urls"`
	Links         []LinkUrl      `json:"links"`
	CompletionUrl string         `json:"completion_url"`
	AbortUrl      string         `json:"abort_url"`
}

// PresignedUrl is a pre-authorized URL for uploading the content of one file
type PresignedUrl struct {
	Filename string `json:"filename"`
	Url      string `json:"url"`
	Md5sum   string `json:"md5sum"` // base64-encoded
}

// LinkUrl is the URL used to create a deduplication link for one file
type LinkUrl struct {
	Filename string `json:"filename"`
	Url      string `json:"url"`
}

// CompleteRequest is the body sent to the completion URL. The permissions
// are only applied when the project has no prior version.
type CompleteRequest struct {
	ReadAccess string   `json:"read_access,omitempty"`
	Viewers    []string `json:"viewers"`
	Owners     []string `json:"owners"`
}

type CompleteResponse struct {
	JobId JobId `json:"job_id"`
}

// UploadResult is the outcome of an upload. When Indexed is false and no
// error was returned, the job was still running when polling timed out.
type UploadResult struct {
	JobId   JobId `json:"job_id,omitempty"`
	Indexed bool  `json:"indexed"`

	// Set when the upload failed and was rolled back. AbortErr holds any
	// error from the abort request, which is never returned to the caller.
	Aborted  bool  `json:"aborted,omitempty"`
	AbortErr error `json:"-"`
}

// JobId identifies an indexing job. The backend may send it as a number or
// a string.
type JobId string

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r UploadRequest) String() string {
	return types.Stringify(r)
}

func (r SessionDescriptor) String() string {
	return types.Stringify(r)
}

func (r CompleteRequest) String() string {
	return types.Stringify(r)
}

func (r UploadResult) String() string {
	return types.Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (id *JobId) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = JobId(v)
		return nil
	}
	var v json.Number
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*id = JobId(v.String())
	return nil
}
