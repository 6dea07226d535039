package fetchengo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "fetchengo/"+Version, UserAgent())
}

func TestVersionString(t *testing.T) {
	v := VersionString()
	assert.True(t, strings.HasPrefix(v, "fetchengo "))
	assert.Contains(t, v, Version)
	assert.Contains(t, v, GitCommit)
	assert.Contains(t, v, GoVersion)
}

func TestVersionInfo(t *testing.T) {
	info := VersionInfo()
	assert.Equal(t, Version, info["version"])
	assert.Equal(t, GitCommit, info["commit"])
	assert.Equal(t, BuildDate, info["build_date"])
	assert.Equal(t, GoVersion, info["go_version"])
}
