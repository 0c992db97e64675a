//go:build !windows

package localfs

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// SameVolume reports whether a and b live on the same filesystem volume.
// On Unix this compares the device IDs of the deepest existing ancestor of
// each path - the destination usually does not exist yet when the transfer
// engine asks. If either device cannot be determined the paths are treated as
// different volumes, which degrades an instant rename into a byte copy but
// never the reverse.
func SameVolume(a, b string) bool {
	devA, okA := deviceID(a)
	devB, okB := deviceID(b)
	return okA && okB && devA == devB
}

// deviceID returns the device ID of the deepest existing ancestor of path.
func deviceID(path string) (uint64, bool) {
	current := filepath.Clean(path)
	for {
		var stat unix.Stat_t
		if err := unix.Stat(current, &stat); err == nil {
			return uint64(stat.Dev), true
		} else if !os.IsNotExist(err) {
			return 0, false
		}

		parent := filepath.Dir(current)
		if parent == current {
			return 0, false
		}
		current = parent
	}
}
