package osutil

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOSType(t *testing.T) {
	assert.Equal(t, runtime.GOOS, GetOSType())
	assert.False(t, IsWindows() && IsMacOS())
}

func TestIsRunningInPipeline(t *testing.T) {
	for _, key := range []string{"CI", "PIPELINE", "GITHUB_ACTIONS", "JENKINS_URL"} {
		t.Setenv(key, "")
	}
	assert.False(t, IsRunningInPipeline())

	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, IsRunningInPipeline())
}
