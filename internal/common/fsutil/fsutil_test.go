package fsutil

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"TEST_JOB":     "TEST_JOB",
		"nightly/load": "nightly_load",
		`a:b*c?"d"`:    "a_b_c__d_",
		"  ":           "job",
		"..":           "job",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFileName(in), in)
	}
}

func TestWriteFileCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "job.xml")
	require.NoError(t, WriteFile(path, []byte("<job/>"), 0644))
	assert.True(t, FileExists(path))
	assert.True(t, DirExists(filepath.Dir(path)))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<job/>", string(data))
}

func TestLockPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")

	assert.Same(t, GetPathMutex(a), GetPathMutex(dir+"/./a.xml"))

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths := []string{a, b, a}
			if i%2 == 0 {
				paths = []string{b, a}
			}
			unlock := LockPaths(paths...)
			counter++
			unlock()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}
