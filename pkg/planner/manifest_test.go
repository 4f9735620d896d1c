package planner_test

import (
	"testing"

	// Packages
	planner "github.com/mutablelogic/go-artifactdb/pkg/planner"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

////////////////////////////////////////////////////////////////////////////////
// MANIFEST TESTS

func Test_Manifest_Strategies(t *testing.T) {
	assert := assert.New(t)
	target := schema.ArtifactId{Project: "other", Path: "d.txt", Version: "1"}

	manifest, err := planner.NewManifest(planner.ManifestRequest{
		Paths:          map[string]string{"b.txt": "bb", "a.json": "aa"},
		DedupMd5Paths:  map[string]string{"c.txt": "cc"},
		DedupLinkPaths: map[string]schema.ArtifactId{"d.txt": target},
		AutoDedupMd5:   true,
	})
	require.NoError(t, err)

	entries := manifest.Entries()
	require.Len(t, entries, 4)
	assert.Equal(schema.FileEntry{Path: "a.json", Strategy: schema.Simple, Md5: "aa"}, entries[0])
	assert.Equal(schema.FileEntry{Path: "b.txt", Strategy: schema.Md5, Md5: "bb"}, entries[1])
	assert.Equal(schema.FileEntry{Path: "c.txt", Strategy: schema.Md5, Md5: "cc"}, entries[2])
	assert.Equal("d.txt", entries[3].Path)
	assert.Equal(schema.Link, entries[3].Strategy)
	assert.Equal(target, *entries[3].Link)
}

func Test_Manifest_NoAutoDedup(t *testing.T) {
	manifest, err := planner.NewManifest(planner.ManifestRequest{
		Paths:         map[string]string{"b.txt": "bb", "a.json": "aa"},
		DedupMd5Paths: map[string]string{"c.txt": "cc"},
	})
	require.NoError(t, err)

	strategies := map[string]schema.Strategy{}
	for _, entry := range manifest.Entries() {
		strategies[entry.Path] = entry.Strategy
	}
	assert.Equal(t, map[string]schema.Strategy{
		"a.json": schema.Simple,
		"b.txt":  schema.Simple,
		"c.txt":  schema.Md5,
	}, strategies)
}

func Test_Manifest_Expires(t *testing.T) {
	manifest, err := planner.NewManifest(planner.ManifestRequest{
		Paths:    map[string]string{"a.txt": "aa"},
		Md5Field: "checksum",
		Expires:  30,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(30), manifest.Expires())
	assert.Equal(t, "in 30 days", manifest.UploadRequest().ExpiresIn)
}

func Test_Manifest_Empty(t *testing.T) {
	manifest, err := planner.NewManifest(planner.ManifestRequest{})
	require.NoError(t, err)
	assert.Zero(t, manifest.Len())
}

func Test_Manifest_DuplicatePaths(t *testing.T) {
	target := schema.ArtifactId{Project: "p", Path: "x", Version: "1"}
	tests := map[string]planner.ManifestRequest{
		"primary and md5": {
			Paths:         map[string]string{"a.txt": "aa"},
			DedupMd5Paths: map[string]string{"a.txt": "aa"},
		},
		"primary and link": {
			Paths:          map[string]string{"a.txt": "aa"},
			DedupLinkPaths: map[string]schema.ArtifactId{"a.txt": target},
		},
		"md5 and link": {
			DedupMd5Paths:  map[string]string{"b.txt": "bb"},
			DedupLinkPaths: map[string]schema.ArtifactId{"b.txt": target},
		},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			manifest, err := planner.NewManifest(req)
			assert.Nil(t, manifest)
			assert.ErrorIs(t, err, schema.ErrDuplicatePath)

			var duplicate *schema.DuplicatePathError
			require.ErrorAs(t, err, &duplicate)
			assert.NotEmpty(t, duplicate.Path)
		})
	}
}

func Test_Manifest_Disjoint(t *testing.T) {
	// Every accepted manifest holds each path exactly once
	target := schema.ArtifactId{Project: "p", Path: "x", Version: "1"}
	manifest, err := planner.NewManifest(planner.ManifestRequest{
		Paths:          map[string]string{"a": "1", "b": "2", "c.json": "3"},
		DedupMd5Paths:  map[string]string{"d": "4", "e": "5"},
		DedupLinkPaths: map[string]schema.ArtifactId{"f": target, "g": target},
		AutoDedupMd5:   true,
	})
	require.NoError(t, err)

	seen := map[string]int{}
	for _, entry := range manifest.Entries() {
		seen[entry.Path]++
	}
	assert.Len(t, seen, 7)
	for path, count := range seen {
		assert.Equal(t, 1, count, path)
	}
}
