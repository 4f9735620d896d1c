package planner

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ClonePlan describes a new version which reuses the artifacts of an
// existing version. Metadata documents are uploaded and every other file is
// a link to the artifact in the existing version.
type ClonePlan struct {
	// Metadata documents keyed by the path of the document
	Metadata map[string]schema.Metadata `json:"metadata"`

	// Link targets keyed by the path of the file
	Links map[string]schema.ArtifactId `json:"links"`
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewClonePlan returns a plan to clone the files described by raw metadata
// documents from a version of a project. Returns a RawMetadataExpectedError
// if a document carries server-injected fields, and a DuplicateKeyError if
// two documents collide on the same metadata or link path.
func NewClonePlan(project, version string, metadata []schema.Metadata) (*ClonePlan, error) {
	plan := &ClonePlan{
		Metadata: make(map[string]schema.Metadata, len(metadata)),
		Links:    make(map[string]schema.ArtifactId, len(metadata)),
	}
	for _, doc := range metadata {
		path := doc.Path()
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: document has no %q field", err, schema.PathField)
		}
		if !doc.IsRaw() {
			return nil, &schema.RawMetadataExpectedError{Path: path, Field: schema.ExtraField}
		}

		key := path
		if !schema.IsMetadataPath(path) {
			if _, exists := plan.Links[path]; exists {
				return nil, &schema.DuplicateKeyError{Key: path, Kind: "link"}
			}
			target, err := schema.NewArtifactId(project, path, version)
			if err != nil {
				return nil, err
			}
			plan.Links[path] = target
			key = path + schema.MetadataSuffix
		}
		if _, exists := plan.Metadata[key]; exists {
			return nil, &schema.DuplicateKeyError{Key: key, Kind: "metadata"}
		}
		plan.Metadata[key] = doc.Raw()
	}
	return plan, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Contents returns the serialized metadata documents keyed by path
func (p *ClonePlan) Contents() (map[string][]byte, error) {
	result := make(map[string][]byte, len(p.Metadata))
	for _, key := range slices.Sorted(maps.Keys(p.Metadata)) {
		data, err := json.Marshal(p.Metadata[key])
		if err != nil {
			return nil, err
		}
		result[key] = data
	}
	return result, nil
}

// ManifestRequest returns the request for a manifest which uploads the
// metadata documents in contents and links every other file
func (p *ClonePlan) ManifestRequest(contents map[string][]byte) ManifestRequest {
	return ManifestRequest{
		Paths:          Checksums(contents),
		DedupLinkPaths: maps.Clone(p.Links),
	}
}

// Checksums returns the hex MD5 checksum of each entry in contents
func Checksums(contents map[string][]byte) map[string]string {
	result := make(map[string]string, len(contents))
	for path, data := range contents {
		sum := md5.Sum(data)
		result[path] = hex.EncodeToString(sum[:])
	}
	return result
}
