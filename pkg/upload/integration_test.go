package upload_test

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"
	"time"

	// Packages
	httpclient "github.com/mutablelogic/go-artifactdb/pkg/httpclient"
	planner "github.com/mutablelogic/go-artifactdb/pkg/planner"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	testserver "github.com/mutablelogic/go-artifactdb/pkg/testserver"
	upload "github.com/mutablelogic/go-artifactdb/pkg/upload"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...testserver.Opt) (*httpclient.Client, *testserver.Server) {
	t.Helper()
	srv, err := testserver.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	c, err := httpclient.New(srv.URL)
	require.NoError(t, err)
	return c, srv
}

func md5hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// count returns the number of requests with the method whose path contains substr
func count(srv *testserver.Server, method, substr string) int {
	var n int
	for _, req := range srv.Requests() {
		if req.Method == method && strings.Contains(req.Path, substr) {
			n++
		}
	}
	return n
}

func Test_Session_Backend(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t, testserver.WithJobStatus(schema.JobPending, schema.JobSuccess))
	require.NoError(t, srv.Seed(ctx, "test", "1", map[string][]byte{
		"a.txt": []byte("alpha"),
	}))

	// Three paths, one of which is unchanged from the previous version
	contents := map[string][]byte{
		"a.txt":      []byte("alpha"),
		"b.txt":      []byte("beta"),
		"b.txt.json": []byte(`{"path":"b.txt"}`),
	}
	manifest, err := planner.NewManifest(planner.ManifestRequest{
		Paths:        planner.Checksums(contents),
		AutoDedupMd5: true,
	})
	require.NoError(t, err)

	session, err := upload.NewSession(c, "test", "2",
		upload.WithClock(&fakeClock{now: time.Unix(0, 0)}),
	)
	require.NoError(t, err)
	require.NoError(t, session.Initialize(ctx, manifest))

	descriptor := session.Descriptor()
	require.Len(t, descriptor.PresignedUrls, 2)
	require.Len(t, descriptor.Links, 1)
	assert.Equal("a.txt", descriptor.Links[0].Filename)
	assert.Equal("b.txt", descriptor.PresignedUrls[0].Filename)
	assert.Equal("b.txt.json", descriptor.PresignedUrls[1].Filename)

	result, err := session.Run(ctx, contents, schema.UploadPermissions{})
	require.NoError(t, err)
	assert.True(result.Indexed)
	assert.NotEmpty(result.JobId)
	assert.Equal(upload.Succeeded, session.State())

	// Two uploads to presigned URLs and one link
	assert.Equal(2, count(srv, http.MethodPut, "/artifactdb/"))
	assert.Equal(1, count(srv, http.MethodPut, "/links/"))
	assert.Equal(2, count(srv, http.MethodGet, "/jobs/"))
	assert.Equal(0, srv.Aborts())

	// The unchanged file links to the previous version
	var data []byte
	_, err = c.ReadFile(ctx, schema.ArtifactId{Project: "test", Path: "a.txt", Version: "2"}, func(chunk []byte) error {
		data = append(data, chunk...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal("alpha", string(data))
}

func Test_Session_BackendExplicitMd5(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t)
	require.NoError(t, srv.Seed(ctx, "test", "1", map[string][]byte{
		"a.txt": []byte("alpha"),
	}))

	// One explicit MD5 path and two primary paths, one of which is metadata
	contents := map[string][]byte{
		"b.txt":      []byte("beta"),
		"b.txt.json": []byte(`{"path":"b.txt"}`),
	}
	manifest, err := planner.NewManifest(planner.ManifestRequest{
		Paths:         planner.Checksums(contents),
		DedupMd5Paths: map[string]string{"a.txt": md5hex([]byte("alpha"))},
	})
	require.NoError(t, err)
	entries := manifest.Entries()
	require.Len(t, entries, 3)
	assert.Equal(schema.FileEntry{Path: "b.txt", Strategy: schema.Simple, Md5: md5hex([]byte("beta"))}, entries[0])
	assert.Equal(schema.Simple, entries[1].Strategy)
	assert.Equal(schema.FileEntry{Path: "a.txt", Strategy: schema.Md5, Md5: md5hex([]byte("alpha"))}, entries[2])

	session, err := upload.NewSession(c, "test", "2",
		upload.WithClock(&fakeClock{now: time.Unix(0, 0)}),
	)
	require.NoError(t, err)
	require.NoError(t, session.Initialize(ctx, manifest))

	descriptor := session.Descriptor()
	require.Len(t, descriptor.PresignedUrls, 2)
	require.Len(t, descriptor.Links, 1)
	assert.Equal("a.txt", descriptor.Links[0].Filename)
	assert.Equal("b.txt", descriptor.PresignedUrls[0].Filename)
	assert.Equal("b.txt.json", descriptor.PresignedUrls[1].Filename)

	// The deduplicated path needs no content
	result, err := session.Run(ctx, contents, schema.UploadPermissions{})
	require.NoError(t, err)
	assert.True(result.Indexed)
	assert.Equal(2, count(srv, http.MethodPut, "/artifactdb/"))
	assert.Equal(1, count(srv, http.MethodPut, "/links/"))

	var data []byte
	_, err = c.ReadFile(ctx, schema.ArtifactId{Project: "test", Path: "a.txt", Version: "2"}, func(chunk []byte) error {
		data = append(data, chunk...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal("alpha", string(data))
}

func Test_Session_BackendRollback(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c, srv := newTestServer(t, testserver.WithFailPath("b.txt", http.StatusForbidden))

	contents := map[string][]byte{
		"a.txt": []byte("alpha"),
		"b.txt": []byte("beta"),
	}
	manifest, err := planner.NewManifest(planner.ManifestRequest{Paths: planner.Checksums(contents)})
	require.NoError(t, err)
	session, err := upload.NewSession(c, "test", "1")
	require.NoError(t, err)
	require.NoError(t, session.Initialize(ctx, manifest))

	result, err := session.Run(ctx, contents, schema.UploadPermissions{})
	var transferErr *schema.TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Equal("b.txt", transferErr.Path)
	var protocolErr *schema.ProtocolError
	require.ErrorAs(t, err, &protocolErr)
	assert.Equal(http.StatusForbidden, protocolErr.Status)

	require.NotNil(t, result)
	assert.True(result.Aborted)
	assert.Equal(1, srv.Aborts())
	assert.Equal(upload.Aborted, session.State())

	// The version was never created
	_, err = c.ListProjectVersions(ctx, "test")
	assert.ErrorIs(err, schema.ErrProtocol)
}
