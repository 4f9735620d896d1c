package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_Permissions_MergeUsers(t *testing.T) {
	assert := assert.New(t)
	existing := []string{"alice", "bob"}

	assert.Equal([]string{"alice", "bob", "carol"}, schema.MergeUsers(existing, []string{"bob", "carol"}, schema.ActionAppend))
	assert.Equal([]string{"alice", "bob", "carol"}, schema.MergeUsers(existing, []string{"carol"}, ""))
	assert.Equal([]string{"alice"}, schema.MergeUsers(existing, []string{"bob", "dave"}, schema.ActionRemove))
	assert.Equal([]string{"dave"}, schema.MergeUsers(existing, []string{"dave"}, schema.ActionSet))
	assert.Equal([]string{}, schema.MergeUsers(nil, nil, schema.ActionAppend))

	// existing list is never modified
	assert.Equal([]string{"alice", "bob"}, existing)
}

func Test_Permissions_Request(t *testing.T) {
	assert := assert.New(t)
	existing := &schema.Permissions{Viewers: []string{"alice"}, Owners: []string{"bob"}}

	// Append viewers, owners unchanged
	req, err := schema.PermissionsUpdate{Viewers: []string{"carol"}}.Request(existing)
	require.NoError(t, err)
	assert.Equal([]string{"alice", "carol"}, *req.Viewers)
	assert.Nil(req.Owners)
	assert.Empty(req.ReadAccess)

	// Set owners to nobody and make private
	req, err = schema.PermissionsUpdate{IsPublic: types.Ptr(false), Owners: []string{}, Action: schema.ActionSet}.Request(existing)
	require.NoError(t, err)
	assert.Equal(schema.ReadAccessViewers, req.ReadAccess)
	assert.Equal([]string{}, *req.Owners)
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(`{"read_access":"viewers","owners":[]}`, string(data))

	// Unknown action
	_, err = schema.PermissionsUpdate{Action: "replace"}.Request(existing)
	assert.ErrorIs(err, schema.ErrInvalidAction)
}

func Test_Permissions_NeedsExisting(t *testing.T) {
	assert := assert.New(t)
	assert.False(schema.PermissionsUpdate{IsPublic: types.Ptr(true)}.NeedsExisting())
	assert.True(schema.PermissionsUpdate{Viewers: []string{"a"}}.NeedsExisting())
	assert.True(schema.PermissionsUpdate{Owners: []string{"a"}, Action: schema.ActionRemove}.NeedsExisting())
	assert.False(schema.PermissionsUpdate{Owners: []string{"a"}, Action: schema.ActionSet}.NeedsExisting())
}

func Test_UploadPermissions_CompleteRequest(t *testing.T) {
	assert := assert.New(t)

	req := schema.UploadPermissions{}.CompleteRequest()
	assert.Equal(schema.ReadAccessPublic, req.ReadAccess)
	assert.Equal([]string{}, req.Viewers)
	assert.Equal([]string{}, req.Owners)

	req = schema.UploadPermissions{Private: true, Owners: []string{"alice"}}.CompleteRequest()
	assert.Equal(schema.ReadAccessViewers, req.ReadAccess)
	assert.Equal([]string{"alice"}, req.Owners)
}
