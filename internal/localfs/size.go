package localfs

import (
	"io/fs"
	"path/filepath"
)

// TreeSize recursively sums the size of every regular file under dir.
// Traversal errors (permission denials, broken entries) are swallowed and the
// affected entries simply excluded: the result only drives a progress
// percentage, so an undercount is preferable to a failed scan.
func TreeSize(dir string) uint64 {
	return TreeSizeWithProgress(dir, nil)
}

// TreeSizeWithProgress is TreeSize with an optional callback invoked with the
// running total after each regular file is counted. Used by the CLI to show
// scan activity on large trees.
func TreeSizeWithProgress(dir string, onAdd func(total uint64)) uint64 {
	var total uint64

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry: skip it, keep scanning
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += uint64(info.Size())
		if onAdd != nil {
			onAdd(total)
		}
		return nil
	})

	return total
}
