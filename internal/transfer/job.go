// Package transfer implements the job queue and worker engine for local
// file and directory copy/move operations. A producer enqueues jobs and a
// single background worker executes them one at a time, so per-job state is
// built for one writer and many lock-free readers.
package transfer

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Operation indicates whether a job copies or moves its source.
type Operation string

const (
	OpCopy Operation = "copy"
	OpMove Operation = "move"
)

// Status represents the current lifecycle state of a job.
//
// Transitions: Pending -> Calculating -> Copying -> {Completed | Failed},
// with Copying <-> Paused as a reversible side transition while active.
// Calculating is reused during tree-copy move cleanup to mean "not actively
// copying bytes". Only the worker mutates status, except for the queue-wide
// Pause/Resume flips.
type Status int32

const (
	StatusPending Status = iota
	StatusCalculating
	StatusCopying
	StatusPaused
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCalculating:
		return "calculating"
	case StatusCopying:
		return "copying"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for Completed and Failed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job represents one requested transfer. Source and Operation never change
// after creation; Destination is mutated once at enqueue (directory-merge
// resolution) and once when the worker claims the job (collision-free
// resolution), then stays fixed.
//
// Status and Progress are independent atomic scalars so the UI can poll them
// every frame without taking the queue lock or blocking the worker.
type Job struct {
	ID        string
	Source    string
	Operation Operation
	CreatedAt time.Time

	status   atomic.Int32
	progress atomic.Uint64 // float64 bits

	mu          sync.RWMutex // guards the fields below
	destination string
	errMsg      string
	startedAt   time.Time
	completedAt time.Time
}

func newJob(source, destination string, op Operation) *Job {
	j := &Job{
		ID:          generateJobID(),
		Source:      source,
		Operation:   op,
		CreatedAt:   time.Now(),
		destination: destination,
	}
	j.status.Store(int32(StatusPending))
	return j
}

// Status returns the current lifecycle state.
func (j *Job) Status() Status {
	return Status(j.status.Load())
}

func (j *Job) setStatus(s Status) {
	j.status.Store(int32(s))
}

// transition atomically moves the job from one status to another. Returns
// false if the job was not in the expected state, e.g. when Resume races a
// job that already completed.
func (j *Job) transition(from, to Status) bool {
	return j.status.CompareAndSwap(int32(from), int32(to))
}

// Progress returns the completed fraction in [0.0, 1.0]. It is 0 before the
// job starts copying, monotonically non-decreasing while Copying, and forced
// to 1.0 on completion.
func (j *Job) Progress() float64 {
	return math.Float64frombits(j.progress.Load())
}

func (j *Job) setProgress(p float64) {
	j.progress.Store(math.Float64bits(p))
}

// Destination returns the current destination path. Before the worker claims
// the job this is the pre-display merge-resolved path; afterwards it is the
// final collision-free path.
func (j *Job) Destination() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.destination
}

func (j *Job) setDestination(path string) {
	j.mu.Lock()
	j.destination = path
	j.mu.Unlock()
}

// ErrMsg returns the failure message, empty unless the job Failed.
func (j *Job) ErrMsg() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.errMsg
}

func (j *Job) markStarted() {
	j.mu.Lock()
	j.startedAt = time.Now()
	j.mu.Unlock()
}

func (j *Job) complete() {
	j.setProgress(1.0)
	j.mu.Lock()
	j.completedAt = time.Now()
	j.mu.Unlock()
	j.setStatus(StatusCompleted)
}

func (j *Job) fail(msg string) {
	j.mu.Lock()
	if j.errMsg == "" {
		j.errMsg = msg
	}
	j.completedAt = time.Now()
	j.mu.Unlock()
	j.setStatus(StatusFailed)
}

// JobView is an immutable snapshot of a job for read-only consumers.
type JobView struct {
	ID          string
	Source      string
	Destination string
	Operation   Operation
	Status      Status
	Progress    float64
	ErrMsg      string
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}

// Snapshot returns a consistent copy of the job's observable state.
func (j *Job) Snapshot() JobView {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobView{
		ID:          j.ID,
		Source:      j.Source,
		Destination: j.destination,
		Operation:   j.Operation,
		Status:      j.Status(),
		Progress:    j.Progress(),
		ErrMsg:      j.errMsg,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.startedAt,
		CompletedAt: j.completedAt,
	}
}

// ID generation
var (
	jobCounter uint64
	jobMu      sync.Mutex
)

func generateJobID() string {
	jobMu.Lock()
	defer jobMu.Unlock()
	jobCounter++
	return fmt.Sprintf("job-%d", jobCounter)
}
