package fsutil

import (
	"path/filepath"
	"sort"
	"sync"
)

// Path mutex registry serializing writers to the same files within a process
var (
	pathMutexes sync.Map // Maps cleaned paths to mutexes
)

// GetPathMutex returns the mutex for the given path
func GetPathMutex(path string) *sync.Mutex {
	actual, _ := pathMutexes.LoadOrStore(filepath.Clean(path), &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// LockPaths locks every path in sorted order and returns the function that releases them.
func LockPaths(paths ...string) func() {
	sorted := make([]string, 0, len(paths))
	for _, p := range paths {
		sorted = append(sorted, filepath.Clean(p))
	}
	sort.Strings(sorted)

	var mutexes []*sync.Mutex
	for i, path := range sorted {
		if i > 0 && path == sorted[i-1] {
			continue
		}
		mu := GetPathMutex(path)
		mu.Lock()
		mutexes = append(mutexes, mu)
	}

	return func() {
		for i := len(mutexes) - 1; i >= 0; i-- {
			mutexes[i].Unlock()
		}
	}
}
