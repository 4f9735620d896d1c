package version_test

import (
	"encoding/json"
	"runtime"
	"testing"

	// Packages
	version "github.com/mutablelogic/go-artifactdb/pkg/version"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_Version(t *testing.T) {
	assert := assert.New(t)

	version.GitTag = "v1.2.3"
	t.Cleanup(func() { version.GitTag = "" })
	assert.Equal("v1.2.3", version.Version())

	info := version.Get("artifactdb")
	assert.Equal("artifactdb", info.Name)
	assert.Equal("v1.2.3", info.Version)
	assert.Equal(runtime.Version(), info.Compiler)

	var decoded version.Info
	require.NoError(t, json.Unmarshal(version.JSON("artifactdb"), &decoded))
	assert.Equal("v1.2.3", decoded.Tag)
}
