package schema

import (
	"fmt"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Strategy determines how the backend receives a file
type Strategy string

// FileEntry is a single file in an upload manifest
type FileEntry struct {
	Path     string      `json:"path"`
	Strategy Strategy    `json:"strategy"`
	Md5      string      `json:"md5,omitempty"`  // hex checksum, for Simple and Md5
	Link     *ArtifactId `json:"link,omitempty"` // target, for Link
}

// Manifest is the ordered, immutable list of files sent to start an upload
type Manifest struct {
	entries  []FileEntry
	md5Field string
	expires  uint
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Content is always uploaded
	Simple Strategy = "simple"

	// Content is uploaded unless a previous version holds a file with the
	// same path and checksum
	Md5 Strategy = "md5"

	// Content is never uploaded; the path links to an existing artifact
	Link Strategy = "link"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewManifest returns a manifest for the entries, which are copied. The
// md5Field names the metadata field used for MD5 deduplication (empty means
// DefaultMd5Field) and expires is the number of days until the version
// expires, or zero for a permanent version.
func NewManifest(entries []FileEntry, md5Field string, expires uint) (*Manifest, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Path == "" {
			return nil, fmt.Errorf("manifest entry has an empty path")
		}
		if _, exists := seen[entry.Path]; exists {
			return nil, &DuplicatePathError{Path: entry.Path}
		}
		seen[entry.Path] = struct{}{}
		switch entry.Strategy {
		case Simple, Md5:
			if entry.Md5 == "" {
				return nil, fmt.Errorf("manifest entry %q has no checksum", entry.Path)
			}
		case Link:
			if entry.Link == nil {
				return nil, fmt.Errorf("manifest entry %q has no link target", entry.Path)
			} else if err := entry.Link.Validate(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("manifest entry %q has unknown strategy %q", entry.Path, entry.Strategy)
		}
	}
	if md5Field == "" {
		md5Field = DefaultMd5Field
	}

	// Take copies so the manifest cannot be changed after construction
	self := &Manifest{
		entries:  make([]FileEntry, len(entries)),
		md5Field: md5Field,
		expires:  expires,
	}
	for i, entry := range entries {
		if entry.Link != nil {
			entry.Link = types.Ptr(*entry.Link)
		}
		self.entries[i] = entry
	}
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m *Manifest) String() string {
	return types.Stringify(m.Entries())
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Len returns the number of entries
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order
func (m *Manifest) Entries() []FileEntry {
	result := make([]FileEntry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Expires returns the number of days until the version expires, or zero
func (m *Manifest) Expires() uint {
	return m.expires
}

// UploadRequest returns the body sent to the upload start endpoint
func (m *Manifest) UploadRequest() UploadRequest {
	req := UploadRequest{
		Filenames: make([]UploadFile, 0, len(m.entries)),
		Mode:      UploadMode,
	}
	for _, entry := range m.entries {
		file := UploadFile{Filename: entry.Path, Check: entry.Strategy}
		switch entry.Strategy {
		case Simple:
			file.Values.Md5sum = entry.Md5
		case Md5:
			file.Values.Md5sum = entry.Md5
			file.Values.Field = m.md5Field
		case Link:
			file.Values.ArtifactdbId = types.Ptr(*entry.Link)
		}
		req.Filenames = append(req.Filenames, file)
	}
	if m.expires > 0 {
		req.ExpiresIn = fmt.Sprintf("in %d days", m.expires)
		req.CompletedBy = req.ExpiresIn
	}
	return req
}
