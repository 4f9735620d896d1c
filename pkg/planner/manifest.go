package planner

import (
	"maps"
	"slices"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ManifestRequest describes the files in a new version of a project
type ManifestRequest struct {
	// Primary paths in the project, mapped to their hex MD5 checksums
	Paths map[string]string `json:"paths,omitempty"`

	// Paths which are always deduplicated by MD5 checksum against the
	// previous version, mapped to their hex MD5 checksums
	DedupMd5Paths map[string]string `json:"dedup_md5_paths,omitempty"`

	// Paths which link to existing artifacts and are never uploaded
	DedupLinkPaths map[string]schema.ArtifactId `json:"dedup_link_paths,omitempty"`

	// When true, primary paths other than metadata documents are
	// deduplicated by MD5 checksum. Default is false.
	AutoDedupMd5 bool `json:"auto_dedup_md5,omitempty"`

	// Metadata field holding the MD5 checksum. Default is "md5sum".
	Md5Field string `json:"md5_field,omitempty"`

	// Number of days until the version expires. Default is zero, which
	// is a permanent version.
	Expires uint `json:"expires,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	setMd5  = "MD5 deduplication paths"
	setLink = "link deduplication paths"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewManifest classifies each path into a strategy and returns the manifest.
// Entries are ordered primary paths first, then MD5 paths, then link paths,
// and sorted by path within each group. Returns a DuplicatePathError if a
// path appears in more than one set.
func NewManifest(req ManifestRequest) (*schema.Manifest, error) {
	n := len(req.Paths) + len(req.DedupMd5Paths) + len(req.DedupLinkPaths)
	seen := make(map[string]struct{}, n)
	entries := make([]schema.FileEntry, 0, n)

	// Primary paths
	for _, path := range slices.Sorted(maps.Keys(req.Paths)) {
		strategy := schema.Simple
		if req.AutoDedupMd5 && !schema.IsMetadataPath(path) {
			strategy = schema.Md5
		}
		seen[path] = struct{}{}
		entries = append(entries, schema.FileEntry{Path: path, Strategy: strategy, Md5: req.Paths[path]})
	}

	// Explicit MD5 deduplication
	for _, path := range slices.Sorted(maps.Keys(req.DedupMd5Paths)) {
		if _, exists := seen[path]; exists {
			return nil, &schema.DuplicatePathError{Path: path, Set: setMd5}
		}
		seen[path] = struct{}{}
		entries = append(entries, schema.FileEntry{Path: path, Strategy: schema.Md5, Md5: req.DedupMd5Paths[path]})
	}

	// Explicit link deduplication
	for _, path := range slices.Sorted(maps.Keys(req.DedupLinkPaths)) {
		if _, exists := seen[path]; exists {
			return nil, &schema.DuplicatePathError{Path: path, Set: setLink}
		}
		seen[path] = struct{}{}
		target := req.DedupLinkPaths[path]
		entries = append(entries, schema.FileEntry{Path: path, Strategy: schema.Link, Link: &target})
	}

	return schema.NewManifest(entries, req.Md5Field, req.Expires)
}
