package schema

import (
	"slices"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Permissions are the access controls of a project
type Permissions struct {
	Scope       string   `json:"scope,omitempty"`        // "project" or "version"
	ReadAccess  string   `json:"read_access,omitempty"`  // "public", "viewers", "owners" or "none"
	WriteAccess string   `json:"write_access,omitempty"` // "owners" or "none"
	Viewers     []string `json:"viewers"`
	Owners      []string `json:"owners"`
}

// UploadPermissions are the default permissions of a new project, applied
// on completion of its first upload. The zero value is a public project with
// no viewers or owners.
type UploadPermissions struct {
	Private bool     `json:"private,omitempty"`
	Viewers []string `json:"viewers,omitempty"`
	Owners  []string `json:"owners,omitempty"`
}

// PermissionsUpdate describes a change to the permissions of a project. Nil
// fields are left unchanged.
type PermissionsUpdate struct {
	IsPublic *bool            `json:"is_public,omitempty"`
	Viewers  []string         `json:"viewers,omitempty"`
	Owners   []string         `json:"owners,omitempty"`
	Action   PermissionAction `json:"action,omitempty"` // default is append
}

// PermissionsRequest is the body sent to change the permissions of a
// project. Nil fields are left unchanged by the server.
type PermissionsRequest struct {
	ReadAccess string    `json:"read_access,omitempty"`
	Viewers    *[]string `json:"viewers,omitempty"`
	Owners     *[]string `json:"owners,omitempty"`
}

// PermissionAction determines how users in an update are combined with the
// existing users
type PermissionAction string

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ActionAppend PermissionAction = "append"
	ActionRemove PermissionAction = "remove"
	ActionSet    PermissionAction = "set"
)

const (
	ReadAccessPublic  = "public"
	ReadAccessViewers = "viewers"
	ReadAccessOwners  = "owners"
	ReadAccessNone    = "none"
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (p Permissions) String() string {
	return types.Stringify(p)
}

func (p PermissionsUpdate) String() string {
	return types.Stringify(p)
}

func (p PermissionsRequest) String() string {
	return types.Stringify(p)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CompleteRequest returns the body sent to the completion URL
func (p UploadPermissions) CompleteRequest() CompleteRequest {
	req := CompleteRequest{
		ReadAccess: ReadAccessPublic,
		Viewers:    slices.Clone(p.Viewers),
		Owners:     slices.Clone(p.Owners),
	}
	if p.Private {
		req.ReadAccess = ReadAccessViewers
	}
	if req.Viewers == nil {
		req.Viewers = []string{}
	}
	if req.Owners == nil {
		req.Owners = []string{}
	}
	return req
}

// Validate checks the action is known
func (p PermissionsUpdate) Validate() error {
	switch p.Action {
	case "", ActionAppend, ActionRemove, ActionSet:
		return nil
	default:
		return ErrInvalidAction
	}
}

// NeedsExisting returns true if the update has to be merged with the
// existing permissions of the project
func (p PermissionsUpdate) NeedsExisting() bool {
	if p.Action == ActionSet {
		return false
	}
	return p.Viewers != nil || p.Owners != nil
}

// Request returns the body to send to the server, merging users with the
// existing permissions when the action is append or remove
func (p PermissionsUpdate) Request(existing *Permissions) (PermissionsRequest, error) {
	var req PermissionsRequest
	if err := p.Validate(); err != nil {
		return req, err
	}
	if p.IsPublic != nil {
		if *p.IsPublic {
			req.ReadAccess = ReadAccessPublic
		} else {
			req.ReadAccess = ReadAccessViewers
		}
	}
	if existing == nil {
		existing = new(Permissions)
	}
	if p.Viewers != nil {
		req.Viewers = types.Ptr(MergeUsers(existing.Viewers, p.Viewers, p.Action))
	}
	if p.Owners != nil {
		req.Owners = types.Ptr(MergeUsers(existing.Owners, p.Owners, p.Action))
	}
	return req, nil
}

// MergeUsers adds users to (append) or removes users from (remove) the
// existing list, preserving order. Any other action returns a copy of users.
func MergeUsers(existing, users []string, action PermissionAction) []string {
	switch action {
	case "", ActionAppend:
		result := slices.Clone(existing)
		for _, user := range users {
			if !slices.Contains(result, user) {
				result = append(result, user)
			}
		}
		if result == nil {
			result = []string{}
		}
		return result
	case ActionRemove:
		result := make([]string, 0, len(existing))
		for _, user := range existing {
			if !slices.Contains(users, user) {
				result = append(result, user)
			}
		}
		return result
	default:
		result := slices.Clone(users)
		if result == nil {
			result = []string{}
		}
		return result
	}
}
