package main

import (
	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type PermissionCommands struct {
	Permissions    PermissionsCommand    `cmd:"" group:"PERMISSIONS" help:"Get the permissions of a project"`
	SetPermissions SetPermissionsCommand `cmd:"" name:"set-permissions" group:"PERMISSIONS" help:"Change the permissions of a project"`
}

type PermissionsCommand struct {
	Project string `arg:"" name:"project" help:"Project name"`
}

type SetPermissionsCommand struct {
	Project string   `arg:"" name:"project" help:"Project name"`
	Access  string   `name:"access" help:"Make the project public or visible to viewers only" enum:"unchanged,public,private" default:"unchanged"`
	Viewers []string `name:"viewer" help:"Viewers to add, remove or set"`
	Owners  []string `name:"owner" help:"Owners to add, remove or set"`
	Action  string   `name:"action" help:"How viewers and owners are combined with the existing users" enum:"append,remove,set" default:"append"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *PermissionsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	permissions, err := c.GetPermissions(ctx.ctx, cmd.Project)
	if err != nil {
		return err
	}
	return prettyJSON(permissions)
}

func (cmd *SetPermissionsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	update := schema.PermissionsUpdate{
		Viewers: cmd.Viewers,
		Owners:  cmd.Owners,
		Action:  schema.PermissionAction(cmd.Action),
	}
	switch cmd.Access {
	case "public":
		update.IsPublic = types.Ptr(true)
	case "private":
		update.IsPublic = types.Ptr(false)
	}
	if err := c.SetPermissions(ctx.ctx, cmd.Project, update); err != nil {
		return err
	}

	// Return the new permissions
	permissions, err := c.GetPermissions(ctx.ctx, cmd.Project)
	if err != nil {
		return err
	}
	return prettyJSON(permissions)
}
