//go:build windows

package localfs

import (
	"path/filepath"
	"strings"
)

// SameVolume reports whether a and b live on the same filesystem volume.
// On Windows this compares the volume names (drive letters or UNC shares) of
// the two paths, matching the root-designator comparison the OS uses to
// decide whether MoveFile can be an instant rename.
func SameVolume(a, b string) bool {
	volA := filepath.VolumeName(filepath.Clean(a))
	volB := filepath.VolumeName(filepath.Clean(b))
	if volA == "" || volB == "" {
		return false
	}
	return strings.EqualFold(volA, volB)
}
