package transfer

import (
	"github.com/sysbutler/butler/internal/localfs"
)

// strategy identifies one of the three mutually exclusive execution paths for
// a job. The choice is a plain tagged decision evaluated once at claim time;
// the strategies share no state.
type strategy int

const (
	// strategyDirRename: source is a directory, operation is Move, and both
	// paths share a volume. Executed as a single OS-level rename.
	strategyDirRename strategy = iota

	// strategySingleFile: source is a regular file. Byte-copy or rename
	// depending on operation and volume.
	strategySingleFile

	// strategyTreeCopy: source is a directory and strategyDirRename's
	// precondition fails (cross-volume, or operation is Copy). Recursive
	// walk with incremental progress.
	strategyTreeCopy
)

func (s strategy) String() string {
	switch s {
	case strategyDirRename:
		return "dir-rename"
	case strategySingleFile:
		return "single-file"
	case strategyTreeCopy:
		return "tree-copy"
	default:
		return "unknown"
	}
}

// selectStrategy picks the execution path for a claimed job based on source
// type, operation, and whether source and destination share a volume.
func selectStrategy(source, dest string, op Operation) strategy {
	isDir := localfs.IsDir(source)

	switch {
	case isDir && op == OpMove && localfs.SameVolume(source, dest):
		return strategyDirRename
	case !isDir:
		return strategySingleFile
	default:
		return strategyTreeCopy
	}
}
