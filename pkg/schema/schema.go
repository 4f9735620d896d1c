package schema

import (
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

const (
	SchemaName = "artifactdb"

	// MetadataSuffix is the reserved suffix for metadata documents. Files
	// with this suffix are never deduplicated.
	MetadataSuffix = ".json"

	// Metadata fields
	PathField  = "path"
	ExtraField = "_extra" // injected by the server, never part of a raw document

	// DefaultMd5Field is the metadata field holding the MD5 checksum of a file
	DefaultMd5Field = "md5sum"

	// UploadMode is the only transfer mode supported by this client
	UploadMode = "s3-presigned-url"

	// HTTP headers
	ContentMd5Header = "Content-Md5"
	LinkHeader       = "Link"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsMetadataPath returns true if the path names a metadata document
func IsMetadataPath(path string) bool {
	return strings.HasSuffix(path, MetadataSuffix)
}

// ContentTypeFor returns the content type used when uploading a path:
// metadata documents are JSON and everything else is opaque binary.
func ContentTypeFor(path string) string {
	if IsMetadataPath(path) {
		return types.ContentTypeJSON
	}
	return types.ContentTypeBinary
}
