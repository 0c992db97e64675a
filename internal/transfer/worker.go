package transfer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sysbutler/butler/internal/constants"
	"github.com/sysbutler/butler/internal/diskspace"
	"github.com/sysbutler/butler/internal/events"
	"github.com/sysbutler/butler/internal/localfs"
	"github.com/sysbutler/butler/internal/pathutil"
)

// workerLoop is the queue's single background worker. It polls for the
// oldest Pending job, executes the selected strategy, and loops until Close.
// All I/O happens here, outside the queue lock.
func (q *Queue) workerLoop() {
	q.log.Info().Msg("Worker started")

	for !q.stop.Load() {
		job := q.claimNext()
		if job == nil {
			time.Sleep(constants.WorkerPollInterval)
			continue
		}
		q.execute(job)
	}

	q.log.Info().Msg("Worker stopped")
	close(q.done)
}

// execute runs one claimed job to a terminal state. A job failure is local:
// it never propagates out of here, so the worker keeps polling afterwards.
func (q *Queue) execute(job *Job) {
	job.setStatus(StatusCopying)
	job.markStarted()

	// Re-resolve the destination against the current filesystem state:
	// merge into the target directory if one exists there now, then pick a
	// collision-free name. Enqueue-time resolution may be stale - other jobs
	// or external changes can have created the path in the interim.
	dest := pathutil.ResolveDestination(job.Source, job.Destination())
	dest = pathutil.MakeUnique(dest)
	job.setDestination(dest)

	strat := selectStrategy(job.Source, dest, job.Operation)
	q.log.Info().
		Str("job", job.ID).
		Str("op", string(job.Operation)).
		Str("strategy", strat.String()).
		Str("source", job.Source).
		Str("dest", dest).
		Msg("Processing job")
	q.publishJobEvent(events.EventJobStarted, job)

	var err error
	switch strat {
	case strategyDirRename:
		err = q.runDirRename(job, dest)
	case strategySingleFile:
		err = q.runSingleFile(job, dest)
	case strategyTreeCopy:
		err = q.runTreeCopy(job, dest)
	}

	if err != nil {
		job.fail(err.Error())
		q.log.Error().
			Str("job", job.ID).
			Str("op", string(job.Operation)).
			Str("error", job.ErrMsg()).
			Msg("Job failed")
		q.publishJobEvent(events.EventJobFailed, job)
		return
	}

	job.complete()
	q.log.Info().
		Str("job", job.ID).
		Str("op", string(job.Operation)).
		Str("dest", dest).
		Msg("Job completed")
	q.publishJobEvent(events.EventJobCompleted, job)
}

// runDirRename executes an atomic same-volume directory move.
// Near-instant, so progress jumps straight to 1.0 with no incremental
// reporting.
func (q *Queue) runDirRename(job *Job, dest string) error {
	if err := os.Rename(job.Source, dest); err != nil {
		return fmt.Errorf("failed to move directory: %w", err)
	}
	job.setProgress(1.0)
	return nil
}

// runSingleFile transfers a single regular file. Same-volume
// moves are renames; everything else is a byte copy, with the source deleted
// afterwards when the copy emulates a cross-volume move.
func (q *Queue) runSingleFile(job *Job, dest string) error {
	if job.Operation == OpMove && localfs.SameVolume(job.Source, dest) {
		if err := os.Rename(job.Source, dest); err != nil {
			return fmt.Errorf("failed to move file: %w", err)
		}
		job.setProgress(1.0)
		return nil
	}

	size := localfs.FileSize(job.Source)
	if err := diskspace.CheckAvailableSpace(dest, size, constants.DiskSpaceSafetyMargin); err != nil {
		return err
	}

	var copied int64
	err := localfs.CopyFile(job.Source, dest, func(n int64) {
		copied += n
		if size > 0 {
			job.setProgress(float64(copied) / float64(size))
		}
	})
	if err != nil {
		return err
	}

	if job.Operation == OpMove {
		// Copy-emulated cross-volume move: drop the source now that the
		// destination is fully written.
		if err := os.Remove(job.Source); err != nil {
			return fmt.Errorf("failed to remove source after move: %w", err)
		}
	}
	return nil
}

// runTreeCopy executes a recursive directory copy (cross-volume
// move, or any directory copy). The tree is sized first to drive the
// progress fraction, then mirrored entry by entry. Status is Calculating
// during the size scan and again during post-move source cleanup.
func (q *Queue) runTreeCopy(job *Job, dest string) error {
	job.setStatus(StatusCalculating)
	q.log.Info().Str("job", job.ID).Str("source", job.Source).Msg("Calculating tree size")
	totalBytes := localfs.TreeSize(job.Source)

	if err := diskspace.CheckAvailableSpace(dest, int64(totalBytes), constants.DiskSpaceSafetyMargin); err != nil {
		return err
	}

	job.setStatus(StatusCopying)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create destination root: %w", err)
	}

	var copied uint64
	walkErr := filepath.WalkDir(job.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if path == job.Source {
			return nil
		}

		// Block before the next entry while paused. Shutdown must not hang
		// on a queue nobody will resume, so the stop flag breaks the wait
		// and fails the job.
		for job.Status() == StatusPaused {
			if q.stop.Load() {
				return errors.New("queue shut down while paused")
			}
			time.Sleep(constants.PausePollInterval)
		}

		rel, err := filepath.Rel(job.Source, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		target := filepath.Join(dest, rel)

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case d.Type().IsRegular():
			err := localfs.CopyFile(path, target, func(n int64) {
				copied += uint64(n)
				if totalBytes > 0 {
					// Progress holds its last value when the scan saw an
					// empty tree.
					job.setProgress(float64(copied) / float64(totalBytes))
				}
			})
			if err != nil {
				return err
			}
			q.publishJobEvent(events.EventJobProgress, job)
		default:
			// Sockets, devices, symlinks: not counted by the scanner, not
			// mirrored by the copy.
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	if job.Operation == OpMove {
		// Reuse Calculating to mean "cleaning up": bytes are no longer
		// being copied while the source tree is removed.
		job.setStatus(StatusCalculating)
		q.log.Info().Str("job", job.ID).Str("source", job.Source).Msg("Removing source tree")
		if err := os.RemoveAll(job.Source); err != nil {
			return fmt.Errorf("failed to remove source tree: %w", err)
		}
	}
	return nil
}
