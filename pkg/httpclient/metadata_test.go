package httpclient_test

import (
	"context"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	testserver "github.com/mutablelogic/go-artifactdb/pkg/testserver"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func seed(t *testing.T, srv *testserver.Server, project, version string) {
	t.Helper()
	require.NoError(t, srv.Seed(context.Background(), project, version, map[string][]byte{
		"a.txt":      []byte("alpha"),
		"a.txt.json": []byte(`{"path":"a.txt","$schema":"text/v1.json"}`),
		"b.txt":      []byte("beta"),
		"b.txt.json": []byte(`{"path":"b.txt","$schema":"text/v1.json"}`),
		"c.json":     []byte(`{"path":"c.json","$schema":"json/v1.json"}`),
	}))
}

func TestGetProjectMetadata_Pagination(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t, testserver.WithPageSize(2))
	seed(t, srv, "test", "1")
	seed(t, srv, "test", "2")

	metadata, err := c.GetProjectMetadata(ctx, "test", "1")
	require.NoError(t, err)
	require.Len(t, metadata, 3)
	paths := make([]string, 0, len(metadata))
	for _, doc := range metadata {
		paths = append(paths, doc.Path())
		assert.False(doc.IsRaw())
		id, ok := doc.Id()
		assert.True(ok)
		assert.Equal("1", id.Version)
	}
	assert.Equal([]string{"a.txt", "b.txt", "c.json"}, paths)

	// All versions
	metadata, err = c.GetProjectMetadata(ctx, "test", "")
	require.NoError(t, err)
	assert.Len(metadata, 6)

	_, err = c.GetProjectMetadata(ctx, "missing", "1")
	assert.ErrorIs(err, schema.ErrProtocol)
}

func TestGetFileMetadata(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t)
	seed(t, srv, "test", "1")

	doc, err := c.GetFileMetadata(ctx, schema.ArtifactId{Project: "test", Path: "a.txt", Version: "1"}, true)
	require.NoError(t, err)
	assert.Equal("a.txt", doc.Path())
	assert.Equal("text/v1.json", doc["$schema"])

	_, err = c.GetFileMetadata(ctx, schema.ArtifactId{Project: "test", Path: "z.txt", Version: "1"}, false)
	assert.ErrorIs(err, schema.ErrProtocol)

	_, err = c.GetFileMetadata(ctx, schema.ArtifactId{}, false)
	assert.ErrorIs(err, schema.ErrInvalidArtifactId)
}

func TestListProjectVersions(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t)
	seed(t, srv, "test", "1")
	seed(t, srv, "test", "2")

	versions, err := c.ListProjectVersions(ctx, "test")
	require.NoError(t, err)
	assert.Equal([]string{"1", "2"}, versions.Versions)
	assert.Equal("2", versions.Latest)

	_, err = c.ListProjectVersions(ctx, "missing")
	assert.ErrorIs(err, schema.ErrProtocol)
}

func TestListProjects(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t, testserver.WithPageSize(2))
	for _, project := range []string{"a", "b", "c", "d", "e"} {
		seed(t, srv, project, "1")
	}

	projects, err := c.ListProjects(ctx, 3)
	require.NoError(t, err)
	assert.True(projects.Truncated)
	require.Len(t, projects.Projects, 3)
	assert.Equal(schema.Project{Project: "a", Versions: []string{"1"}}, projects.Projects[0])

	projects, err = c.ListProjects(ctx, 0)
	require.NoError(t, err)
	assert.False(projects.Truncated)
	assert.Len(projects.Projects, 5)
}
