// Package pathutil provides destination path resolution for transfers.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveDestination computes the target path for moving or copying source
// into destRoot. If destRoot is an existing directory the result is destRoot
// joined with the filename component of source (e.g. moving "/games/WoW" to
// "/backups" yields "/backups/WoW"). Otherwise destRoot is already a
// fully-qualified target and is returned unchanged.
func ResolveDestination(source, destRoot string) string {
	info, err := os.Stat(destRoot)
	if err == nil && info.IsDir() {
		return filepath.Join(destRoot, filepath.Base(source))
	}
	return destRoot
}

// MakeUnique returns path unchanged if nothing exists there. Otherwise it
// splits the name into stem and extension and probes "stem (1)ext",
// "stem (2)ext", ... in ascending order until an unused path is found.
// For directories the extension is empty, so the counter lands on the name
// itself.
//
// Existence is checked at call time, so a check-then-act race against the
// filesystem is possible: an external actor creating the returned path before
// the caller does wins the name. This is an accepted limitation; callers that
// need stronger guarantees must create exclusively and handle the failure.
func MakeUnique(path string) string {
	if !exists(path) {
		return path
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := filepath.Base(path)
	stem = stem[:len(stem)-len(ext)]

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

// ResolveAbsolutePath converts a relative path to an absolute path, expanding
// a leading ~ and resolving symlinks in the existing portion of the path.
// Non-existent trailing components are appended unresolved, which handles
// destinations that the transfer itself will create.
func ResolveAbsolutePath(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// Fast path: the whole path exists
	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}

	// Walk up to the deepest existing ancestor, resolve it, then re-append
	// the non-existent remainder.
	current := absPath
	var remainder []string

	for {
		if _, err := os.Stat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				resolved = current
			}
			for i := len(remainder) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, remainder[i])
			}
			return resolved, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return absPath, nil
		}
		remainder = append(remainder, filepath.Base(current))
		current = parent
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
