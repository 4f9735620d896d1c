package schema

import (
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ArtifactId identifies a single file within a version of a project. It is
// serialized as "project:path@version", where the project cannot contain ':'
// and the version cannot contain '@'.
type ArtifactId struct {
	Project string
	Path    string
	Version string
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewArtifactId returns an identifier from its components, or an error if
// the components cannot be packed into an identifier which parses back to
// the same components.
func NewArtifactId(project, path, version string) (ArtifactId, error) {
	id := ArtifactId{Project: project, Path: path, Version: version}
	if err := id.Validate(); err != nil {
		return ArtifactId{}, err
	}
	return id, nil
}

// ParseArtifactId splits a packed identifier into its components. The project
// ends at the first ':' and the version starts after the last '@'.
func ParseArtifactId(id string) (ArtifactId, error) {
	i1 := strings.Index(id, ":")
	if i1 < 0 {
		return ArtifactId{}, &InvalidArtifactIdError{Id: id, Reason: "could not identify project"}
	} else if i1 == 0 {
		return ArtifactId{}, &InvalidArtifactIdError{Id: id, Reason: "empty project"}
	}

	i2 := strings.LastIndex(id, "@")
	if i2 < 0 || i2 < i1 {
		return ArtifactId{}, &InvalidArtifactIdError{Id: id, Reason: "could not identify version"}
	} else if i2 == len(id)-1 {
		return ArtifactId{}, &InvalidArtifactIdError{Id: id, Reason: "empty version"}
	} else if i1+1 == i2 {
		return ArtifactId{}, &InvalidArtifactIdError{Id: id, Reason: "empty path"}
	}

	return ArtifactId{
		Project: id[:i1],
		Path:    id[i1+1 : i2],
		Version: id[i2+1:],
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

// String returns the packed "project:path@version" form
func (id ArtifactId) String() string {
	return id.Project + ":" + id.Path + "@" + id.Version
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks the components can be packed without ambiguity
func (id ArtifactId) Validate() error {
	switch {
	case id.Project == "":
		return &InvalidArtifactIdError{Id: id.String(), Reason: "empty project"}
	case strings.Contains(id.Project, ":"):
		return &InvalidArtifactIdError{Id: id.String(), Reason: "project contains ':'"}
	case id.Path == "":
		return &InvalidArtifactIdError{Id: id.String(), Reason: "empty path"}
	case id.Version == "":
		return &InvalidArtifactIdError{Id: id.String(), Reason: "empty version"}
	case strings.Contains(id.Version, "@"):
		return &InvalidArtifactIdError{Id: id.String(), Reason: "version contains '@'"}
	}
	return nil
}

// IsZero returns true if no component is set
func (id ArtifactId) IsZero() bool {
	return id == ArtifactId{}
}

// MarshalText packs the identifier, so it is a plain string in JSON
func (id ArtifactId) MarshalText() ([]byte, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return []byte(id.String()), nil
}

// UnmarshalText parses a packed identifier
func (id *ArtifactId) UnmarshalText(data []byte) error {
	v, err := ParseArtifactId(string(data))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
