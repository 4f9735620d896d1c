package schema

import (
	"encoding/json"
	"maps"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Metadata is a single metadata document. Documents returned by the server
// carry an additional "_extra" field with the identifier and version of the
// artifact; raw documents, as uploaded, do not.
type Metadata map[string]any

// MetadataList is one page of metadata documents
type MetadataList struct {
	Results []Metadata `json:"results"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Path returns the path of the artifact described by the document, or an
// empty string if there is no path
func (m Metadata) Path() string {
	if path, ok := m[PathField].(string); ok {
		return path
	}
	return ""
}

// IsRaw returns true if the document carries no server-injected fields
func (m Metadata) IsRaw() bool {
	_, exists := m[ExtraField]
	return !exists
}

// Raw returns a shallow copy of the document without server-injected fields
func (m Metadata) Raw() Metadata {
	result := maps.Clone(m)
	delete(result, ExtraField)
	return result
}

// Id returns the artifact identifier injected by the server, if any
func (m Metadata) Id() (ArtifactId, bool) {
	extra, ok := m[ExtraField].(map[string]any)
	if !ok {
		return ArtifactId{}, false
	}
	value, ok := extra["id"].(string)
	if !ok {
		return ArtifactId{}, false
	}
	id, err := ParseArtifactId(value)
	if err != nil {
		return ArtifactId{}, false
	}
	return id, true
}

// Validate checks the document has a path
func (m Metadata) Validate() error {
	if m.Path() == "" {
		return ErrInvalidMetadata
	}
	return nil
}

func (m Metadata) String() string {
	data, err := json.MarshalIndent(map[string]any(m), "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
