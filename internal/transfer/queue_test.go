package transfer

import (
	"os"
	"path/filepath"
	"testing"
)

// newIdleQueue returns a queue whose worker never claims work (Start is not
// called), so structural behavior can be tested without racing the worker.
func newIdleQueue(t *testing.T) *Queue {
	t.Helper()
	q := NewQueue(testLogger(t), nil)
	t.Cleanup(q.Close)
	return q
}

func TestEnqueueMergesIntoExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.pdf")
	writeFile(t, src, 10)
	destRoot := filepath.Join(dir, "backups")
	if err := os.Mkdir(destRoot, 0o755); err != nil {
		t.Fatal(err)
	}

	q := newIdleQueue(t)
	job := q.Enqueue(src, destRoot, OpCopy)

	want := filepath.Join(destRoot, "report.pdf")
	if job.Destination() != want {
		t.Errorf("Expected pre-display destination %s, got %s", want, job.Destination())
	}
	if job.Status() != StatusPending {
		t.Errorf("Expected StatusPending, got %v", job.Status())
	}
}

func TestEnqueueKeepsQualifiedTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.pdf")
	writeFile(t, src, 10)
	dest := filepath.Join(dir, "renamed.pdf") // does not exist

	q := newIdleQueue(t)
	job := q.Enqueue(src, dest, OpCopy)

	if job.Destination() != dest {
		t.Errorf("Non-directory destination should pass through, got %s", job.Destination())
	}
}

func TestJobsSnapshotPreservesInsertionOrder(t *testing.T) {
	dir := t.TempDir()
	q := newIdleQueue(t)

	var ids []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		src := filepath.Join(dir, name)
		writeFile(t, src, 1)
		ids = append(ids, q.Enqueue(src, dir+"-dest", OpCopy).ID)
	}

	views := q.Jobs()
	if len(views) != 3 {
		t.Fatalf("Expected 3 jobs, got %d", len(views))
	}
	for i, view := range views {
		if view.ID != ids[i] {
			t.Errorf("Job %d out of order: expected %s, got %s", i, ids[i], view.ID)
		}
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	q := newIdleQueue(t)
	src := filepath.Join(dir, "x.txt")
	writeFile(t, src, 1)

	q.Enqueue(src, filepath.Join(dir, "out"), OpCopy)
	q.Enqueue(src, filepath.Join(dir, "out2"), OpCopy)

	if q.Remove(-1) {
		t.Error("Negative index must be a no-op")
	}
	if q.Remove(2) {
		t.Error("Out-of-range index must be a no-op")
	}

	if !q.Remove(0) {
		t.Error("Removing a pending job should succeed")
	}
	if len(q.Jobs()) != 1 {
		t.Errorf("Expected 1 job after removal, got %d", len(q.Jobs()))
	}
}

func TestRemoveRejectsActiveJob(t *testing.T) {
	dir := t.TempDir()
	q := newIdleQueue(t)
	src := filepath.Join(dir, "x.txt")
	writeFile(t, src, 1)

	job := q.Enqueue(src, filepath.Join(dir, "out"), OpCopy)

	job.setStatus(StatusCopying)
	if q.Remove(0) {
		t.Error("Removing a Copying job must be rejected")
	}
	if len(q.Jobs()) != 1 {
		t.Error("Queue must be unchanged after rejected removal")
	}

	job.setStatus(StatusCalculating)
	if q.Remove(0) {
		t.Error("Removing a Calculating job must be rejected")
	}

	job.setStatus(StatusPaused)
	if !q.Remove(0) {
		t.Error("Removing a Paused job should succeed")
	}
}

func TestPauseResumeFlipsActiveJobs(t *testing.T) {
	dir := t.TempDir()
	q := newIdleQueue(t)
	src := filepath.Join(dir, "x.txt")
	writeFile(t, src, 1)

	copying := q.Enqueue(src, filepath.Join(dir, "a"), OpCopy)
	pending := q.Enqueue(src, filepath.Join(dir, "b"), OpCopy)
	copying.setStatus(StatusCopying)

	q.Pause()
	if !q.IsPaused() {
		t.Error("IsPaused should report true after Pause")
	}
	if copying.Status() != StatusPaused {
		t.Errorf("Copying job should be Paused, got %v", copying.Status())
	}
	if pending.Status() != StatusPending {
		t.Errorf("Pending job should be untouched by Pause, got %v", pending.Status())
	}

	q.Resume()
	if q.IsPaused() {
		t.Error("IsPaused should report false after Resume")
	}
	if copying.Status() != StatusCopying {
		t.Errorf("Paused job should be Copying again, got %v", copying.Status())
	}
}

func TestClearCompleted(t *testing.T) {
	dir := t.TempDir()
	q := newIdleQueue(t)
	src := filepath.Join(dir, "x.txt")
	writeFile(t, src, 1)

	done := q.Enqueue(src, filepath.Join(dir, "a"), OpCopy)
	failed := q.Enqueue(src, filepath.Join(dir, "b"), OpCopy)
	kept := q.Enqueue(src, filepath.Join(dir, "c"), OpCopy)
	done.complete()
	failed.fail("boom")

	q.ClearCompleted()

	views := q.Jobs()
	if len(views) != 1 {
		t.Fatalf("Expected 1 job after ClearCompleted, got %d", len(views))
	}
	if views[0].ID != kept.ID {
		t.Errorf("Wrong job survived ClearCompleted: %s", views[0].ID)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	q := newIdleQueue(t)
	src := filepath.Join(dir, "x.txt")
	writeFile(t, src, 1)

	q.Enqueue(src, filepath.Join(dir, "a"), OpCopy)
	q.Enqueue(src, filepath.Join(dir, "b"), OpCopy).setStatus(StatusCopying)
	q.Enqueue(src, filepath.Join(dir, "c"), OpCopy).complete()
	q.Enqueue(src, filepath.Join(dir, "d"), OpCopy).fail("boom")

	stats := q.Stats()
	if stats.Pending != 1 || stats.Copying != 1 || stats.Completed != 1 || stats.Failed != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.Total() != 4 {
		t.Errorf("Expected total 4, got %d", stats.Total())
	}
}

func TestRunningFlagClearsWhenDrained(t *testing.T) {
	q := newIdleQueue(t)

	if q.IsRunning() {
		t.Error("Queue should not be running before Start")
	}

	// No pending jobs: the worker notices and clears the permission flag.
	q.Start()
	waitFor(t, "running flag to clear", func() bool { return !q.IsRunning() })
}
