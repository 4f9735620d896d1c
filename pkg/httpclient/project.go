package httpclient

import (
	"context"
	"net/url"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// DefaultProjectLimit is the number of projects returned by ListProjects
// when the limit is zero
const DefaultProjectLimit = 50

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListProjectVersions returns the versions of a project and the latest version
func (c *Client) ListProjectVersions(ctx context.Context, project string) (*schema.ProjectVersions, error) {
	var response schema.VersionsResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, c.opts(
		client.OptReqEndpoint(c.resolve("/projects/"+url.PathEscape(project)+"/versions")),
	)...); err != nil {
		return nil, protocolError("failed to list versions for "+project, err)
	}
	versions := response.ProjectVersions()
	return &versions, nil
}

// ListProjects returns up to limit projects and their versions, following
// pagination. Truncated is set when more projects are available.
func (c *Client) ListProjects(ctx context.Context, limit uint) (*schema.ProjectList, error) {
	if limit == 0 {
		limit = DefaultProjectLimit
	}

	result := schema.ProjectList{Projects: make([]schema.Project, 0, limit)}
	if err := c.paginate(ctx, "failed to list projects", "/projects", func(endpoint string) (string, bool, error) {
		var response page[[]schema.ProjectAgg]
		if err := c.DoWithContext(ctx, client.NewRequest(), &response, c.opts(
			client.OptReqEndpoint(endpoint),
		)...); err != nil {
			return "", false, err
		}
		for _, project := range response.Body {
			result.Projects = append(result.Projects, project.Project())
		}
		return response.more, uint(len(result.Projects)) <= limit, nil
	}); err != nil {
		return nil, err
	}
	if uint(len(result.Projects)) > limit {
		result.Projects = result.Projects[:limit]
		result.Truncated = true
	}
	return &result, nil
}
