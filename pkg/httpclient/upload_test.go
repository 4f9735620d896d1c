package httpclient_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	// Packages
	httpclient "github.com/mutablelogic/go-artifactdb/pkg/httpclient"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	testserver "github.com/mutablelogic/go-artifactdb/pkg/testserver"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, files map[string][]byte) schema.UploadRequest {
	t.Helper()
	entries := make([]schema.FileEntry, 0, len(files))
	for path, data := range files {
		entries = append(entries, schema.FileEntry{Path: path, Strategy: schema.Simple, Md5: md5hex(data)})
	}
	manifest, err := schema.NewManifest(entries, "", 0)
	require.NoError(t, err)
	return manifest.UploadRequest()
}

func TestUpload_Protocol(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t, testserver.WithToken("secret"))
	c = c.WithCredentials(httpclient.Bearer("secret"))

	files := map[string][]byte{
		"a.txt":      []byte("alpha"),
		"a.txt.json": []byte(`{"path":"a.txt","title":"alpha"}`),
	}
	session, err := c.StartUpload(ctx, "test", "1", uploadRequest(t, files))
	require.NoError(t, err)
	assert.Len(session.PresignedUrls, 2)
	assert.Empty(session.Links)
	assert.NotEmpty(session.CompletionUrl)
	assert.NotEmpty(session.AbortUrl)

	for _, entry := range session.PresignedUrls {
		require.NoError(t, c.PutPresigned(ctx, entry, files[entry.Filename]))
	}
	response, err := c.CompleteUpload(ctx, session.CompletionUrl, schema.UploadPermissions{Owners: []string{"alice"}}.CompleteRequest())
	require.NoError(t, err)
	assert.NotEmpty(response.JobId)

	status, err := c.GetJob(ctx, response.JobId)
	require.NoError(t, err)
	assert.Equal(schema.JobSuccess, status.Status)
	assert.Equal(response.JobId, status.JobId)

	// Presigned uploads never carry credentials, everything else does
	for _, req := range srv.Requests() {
		if req.Method == http.MethodPut && bytes.HasPrefix([]byte(req.Path), []byte("/artifactdb/")) {
			assert.Empty(req.Authorization, req.Path)
		} else if req.Method != http.MethodGet {
			assert.Equal("Bearer secret", req.Authorization, req.Path)
		}
	}

	// The version can be read back
	var content bytes.Buffer
	n, err := c.ReadFile(ctx, schema.ArtifactId{Project: "test", Path: "a.txt", Version: "1"}, func(data []byte) error {
		content.Write(data)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(int64(5), n)
	assert.Equal("alpha", content.String())

	permissions, err := c.GetPermissions(ctx, "test")
	require.NoError(t, err)
	assert.Equal([]string{"alice"}, permissions.Owners)
	assert.Equal(schema.ReadAccessPublic, permissions.ReadAccess)
}

func TestUpload_Links(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t)
	require.NoError(t, srv.Seed(ctx, "test", "1", map[string][]byte{"a.txt": []byte("alpha")}))

	target := schema.ArtifactId{Project: "test", Path: "a.txt", Version: "1"}
	manifest, err := schema.NewManifest([]schema.FileEntry{
		{Path: "a.txt", Strategy: schema.Md5, Md5: md5hex([]byte("alpha"))},
		{Path: "b.txt", Strategy: schema.Link, Link: &target},
	}, "", 0)
	require.NoError(t, err)

	session, err := c.StartUpload(ctx, "test", "2", manifest.UploadRequest())
	require.NoError(t, err)
	assert.Empty(session.PresignedUrls)
	require.Len(t, session.Links, 2)
	for _, link := range session.Links {
		assert.NoError(c.CreateLink(ctx, link.Url))
	}
	response, err := c.CompleteUpload(ctx, session.CompletionUrl, schema.UploadPermissions{}.CompleteRequest())
	require.NoError(t, err)
	_, err = c.GetJob(ctx, response.JobId)
	require.NoError(t, err)

	// Linked content is served from the target
	var content bytes.Buffer
	_, err = c.ReadFile(ctx, schema.ArtifactId{Project: "test", Path: "b.txt", Version: "2"}, func(data []byte) error {
		content.Write(data)
		return nil
	})
	require.NoError(t, err)
	assert.Equal("alpha", content.String())
}

func TestUpload_Abort(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t)

	session, err := c.StartUpload(ctx, "test", "1", uploadRequest(t, map[string][]byte{"a.txt": []byte("alpha")}))
	require.NoError(t, err)
	require.NoError(t, c.AbortUpload(ctx, session.AbortUrl))
	assert.Equal(1, srv.Aborts())

	// Completing an aborted upload fails
	_, err = c.CompleteUpload(ctx, session.CompletionUrl, schema.CompleteRequest{})
	assert.ErrorIs(err, schema.ErrProtocol)
}

func TestUpload_ProtocolError(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t)
	require.NoError(t, srv.Seed(ctx, "test", "1", map[string][]byte{"a.txt": []byte("alpha")}))

	_, err := c.StartUpload(ctx, "test", "1", uploadRequest(t, map[string][]byte{"a.txt": []byte("alpha")}))
	assert.ErrorIs(err, schema.ErrProtocol)

	var protocol *schema.ProtocolError
	if assert.ErrorAs(err, &protocol) {
		assert.Equal(http.StatusConflict, protocol.Status)
		assert.NotEmpty(protocol.Op)
	}
}

func TestUpload_Unauthorized(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestServer(t, testserver.WithToken("secret"))

	_, err := c.StartUpload(ctx, "test", "1", uploadRequest(t, map[string][]byte{"a.txt": []byte("alpha")}))
	var protocol *schema.ProtocolError
	if assert.ErrorAs(t, err, &protocol) {
		assert.Equal(t, http.StatusUnauthorized, protocol.Status)
	}
}

func TestPutPresigned_Checksum(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestServer(t)

	session, err := c.StartUpload(ctx, "test", "1", uploadRequest(t, map[string][]byte{"a.txt": []byte("alpha")}))
	require.NoError(t, err)
	require.Len(t, session.PresignedUrls, 1)

	err = c.PutPresigned(ctx, session.PresignedUrls[0], []byte("beta"))
	assert.ErrorIs(t, err, schema.ErrProtocol)
}
