package httpclient

import (
	"context"
	"net/url"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetPermissions returns the permissions of a project
func (c *Client) GetPermissions(ctx context.Context, project string) (*schema.Permissions, error) {
	var response schema.Permissions
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, c.opts(
		client.OptReqEndpoint(c.permissionsUrl(project)),
	)...); err != nil {
		return nil, protocolError("failed to fetch permissions for project "+project, err)
	}
	return &response, nil
}

// SetPermissions changes the permissions of a project. When the update
// appends or removes users, the existing permissions are fetched first and
// merged with the update.
func (c *Client) SetPermissions(ctx context.Context, project string, update schema.PermissionsUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	var existing *schema.Permissions
	if update.NeedsExisting() {
		if permissions, err := c.GetPermissions(ctx, project); err != nil {
			return err
		} else {
			existing = permissions
		}
	}

	req, err := update.Request(existing)
	if err != nil {
		return err
	}
	payload, err := newJSONPutPayload(req)
	if err != nil {
		return err
	}
	if err := c.DoWithContext(ctx, payload, nil, c.opts(
		client.OptReqEndpoint(c.permissionsUrl(project)),
	)...); err != nil {
		return protocolError("failed to set permissions for project "+project, err)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) permissionsUrl(project string) string {
	return c.resolve("/projects/" + url.PathEscape(project) + "/permissions")
}
