package testserver_test

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	testserver "github.com/mutablelogic/go-artifactdb/pkg/testserver"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func newServer(t *testing.T, opts ...testserver.Opt) *testserver.Server {
	t.Helper()
	srv, err := testserver.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func startUpload(t *testing.T, srv *testserver.Server, req schema.UploadRequest) schema.SessionDescriptor {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	response, err := http.Post(srv.URL+"/projects/test/version/1/upload", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	var session schema.SessionDescriptor
	require.NoError(t, json.NewDecoder(response.Body).Decode(&session))
	return session
}

func put(t *testing.T, url string, body []byte, header map[string]string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	response, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer response.Body.Close()
	return response.StatusCode
}

func md5hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

////////////////////////////////////////////////////////////////////////////////
// PRESIGNED UPLOAD TESTS

func Test_Presigned_Upload(t *testing.T) {
	assert := assert.New(t)
	srv := newServer(t)
	content := []byte("hello world")

	session := startUpload(t, srv, schema.UploadRequest{
		Mode: schema.UploadMode,
		Filenames: []schema.UploadFile{
			{Filename: "dir/a.txt", Check: schema.Simple, Values: schema.UploadValues{Md5sum: md5hex(content)}},
		},
	})
	require.Len(t, session.PresignedUrls, 1)
	entry := session.PresignedUrls[0]
	assert.Equal("dir/a.txt", entry.Filename)
	assert.Contains(entry.Url, srv.URL+"/artifactdb/")
	assert.Contains(entry.Url, "X-Amz-Signature=")
	sum := md5.Sum(content)
	assert.Equal(base64.StdEncoding.EncodeToString(sum[:]), entry.Md5sum)

	// Credentials are rejected on presigned URLs
	assert.Equal(http.StatusBadRequest, put(t, entry.Url, content, map[string]string{
		"Authorization":         "Bearer token",
		schema.ContentMd5Header: entry.Md5sum,
	}))

	// Missing checksum header
	assert.Equal(http.StatusBadRequest, put(t, entry.Url, content, nil))

	// Content does not match the checksum
	assert.Equal(http.StatusBadRequest, put(t, entry.Url, []byte("goodbye"), map[string]string{
		schema.ContentMd5Header: entry.Md5sum,
	}))

	// Unsigned URL
	assert.Equal(http.StatusForbidden, put(t, srv.URL+"/artifactdb/x/dir/a.txt", content, map[string]string{
		schema.ContentMd5Header: entry.Md5sum,
	}))

	// Success
	assert.Equal(http.StatusOK, put(t, entry.Url, content, map[string]string{
		schema.ContentMd5Header: entry.Md5sum,
	}))
}

func Test_Upload_Conflict(t *testing.T) {
	srv := newServer(t)
	require.NoError(t, srv.Seed(context.Background(), "test", "1", map[string][]byte{"a.txt": []byte("a")}))

	response, err := http.Post(srv.URL+"/projects/test/version/1/upload", "application/json", bytes.NewReader([]byte(`{"mode":"s3-presigned-url","filenames":[]}`)))
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["reason"])
}

func Test_Upload_Token(t *testing.T) {
	srv := newServer(t, testserver.WithToken("secret"))

	response, err := http.Post(srv.URL+"/projects/test/version/1/upload", "application/json", bytes.NewReader([]byte(`{"mode":"s3-presigned-url","filenames":[]}`)))
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	requests := srv.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodPost, requests[0].Method)
	assert.Empty(t, requests[0].Authorization)
}

func Test_Opts(t *testing.T) {
	_, err := testserver.New(context.Background(), testserver.WithPageSize(0))
	assert.Error(t, err)
	_, err = testserver.New(context.Background(), testserver.WithJobStatus())
	assert.Error(t, err)
}
