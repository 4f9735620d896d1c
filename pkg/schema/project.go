package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ProjectVersions lists the versions of a project
type ProjectVersions struct {
	Versions []string `json:"versions"`
	Latest   string   `json:"latest"`
}

// Project is a project and its versions
type Project struct {
	Project  string   `json:"project"`
	Versions []string `json:"versions"`
}

// ProjectList is a list of projects, truncated when more projects exist than
// were requested
type ProjectList struct {
	Projects  []Project `json:"projects"`
	Truncated bool      `json:"truncated"`
}

// VersionAgg is a version as aggregated by the server
type VersionAgg struct {
	Version string `json:"_extra.version"`
}

// VersionsResponse is the response from the versions endpoint
type VersionsResponse struct {
	Aggs   []VersionAgg `json:"aggs"`
	Latest VersionAgg   `json:"latest"`
}

// ProjectAgg is a project as returned by the project listing endpoint
type ProjectAgg struct {
	ProjectId string       `json:"project_id"`
	Agg       []VersionAgg `json:"agg"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (p ProjectVersions) String() string {
	return types.Stringify(p)
}

func (p ProjectList) String() string {
	return types.Stringify(p)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ProjectVersions returns the versions in the response
func (r VersionsResponse) ProjectVersions() ProjectVersions {
	result := ProjectVersions{
		Versions: make([]string, 0, len(r.Aggs)),
		Latest:   r.Latest.Version,
	}
	for _, agg := range r.Aggs {
		result.Versions = append(result.Versions, agg.Version)
	}
	return result
}

// Project returns the project and its versions
func (r ProjectAgg) Project() Project {
	result := Project{
		Project:  r.ProjectId,
		Versions: make([]string, 0, len(r.Agg)),
	}
	for _, agg := range r.Agg {
		result.Versions = append(result.Versions, agg.Version)
	}
	return result
}
