package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	// Packages
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_ReadContents(t *testing.T) {
	assert := assert.New(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir", ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "b.txt"), []byte("beta"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dir", ".git", "HEAD"), []byte("ref"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0o644))

	contents, err := readContents(root, false)
	require.NoError(t, err)
	assert.Equal(map[string][]byte{
		"a.txt":     []byte("alpha"),
		"dir/b.txt": []byte("beta"),
	}, contents)

	contents, err = readContents(root, true)
	require.NoError(t, err)
	assert.Len(contents, 4)
	assert.Contains(contents, "dir/.git/HEAD")

	_, err = readContents(filepath.Join(root, "missing"), false)
	assert.Error(err)
}

func Test_UploadFlags(t *testing.T) {
	assert := assert.New(t)
	flags := UploadFlags{Private: true, Owners: []string{"alice"}, Interval: time.Second, Wait: time.Minute}

	permissions := flags.permissions()
	assert.True(permissions.Private)
	assert.Equal([]string{"alice"}, permissions.Owners)
	assert.Len(flags.sessionOpts(), 2)
}
