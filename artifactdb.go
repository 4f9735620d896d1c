package artifactdb

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Jobs is the interface for querying asynchronous indexing jobs
type Jobs interface {
	// Return the current status of a job
	GetJob(context.Context, schema.JobId) (*schema.JobStatus, error)

	// Return the URL which can be used to look up the job status
	JobUrl(schema.JobId) string
}

// Uploader is the backend surface used by a single upload session
type Uploader interface {
	Jobs

	// Start an upload of a new project version, returning the session descriptor
	StartUpload(context.Context, string, string, schema.UploadRequest) (*schema.SessionDescriptor, error)

	// Create a deduplication link. The URL may be relative to the API endpoint
	CreateLink(context.Context, string) error

	// Upload file content to a presigned URL
	PutPresigned(context.Context, schema.PresignedUrl, []byte) error

	// Complete an upload, returning the indexing job
	CompleteUpload(context.Context, string, schema.CompleteRequest) (*schema.CompleteResponse, error)

	// Abort an upload
	AbortUpload(context.Context, string) error
}

// Metadata is the interface for reading project metadata
type Metadata interface {
	// Return the metadata for every artifact in a project version, following
	// pagination. An empty version returns metadata across all versions.
	GetProjectMetadata(context.Context, string, string) ([]schema.Metadata, error)
}

// Backend is the higher-level interface used to upload and clone project versions
type Backend interface {
	Uploader
	Metadata
}
