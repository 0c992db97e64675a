package transfer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sysbutler/butler/internal/events"
	"github.com/sysbutler/butler/internal/logging"
	"github.com/sysbutler/butler/internal/pathutil"
)

// QueueStats holds per-status counts for the jobs in the queue.
type QueueStats struct {
	Pending     int
	Calculating int
	Copying     int
	Paused      int
	Completed   int
	Failed      int
}

// Total returns the total number of jobs in the queue.
func (s QueueStats) Total() int {
	return s.Pending + s.Calculating + s.Copying + s.Paused + s.Completed + s.Failed
}

// Queue is the shared, insertion-ordered collection of jobs plus the single
// worker goroutine that executes them. The queue itself is a passive data
// structure: all scheduling lives in the worker loop, and the only concurrent
// writers are the producer (enqueue/remove/start/pause) and the worker.
//
// Structural mutation requires the queue mutex; per-job status and progress
// are atomics readable without it. No I/O happens under the lock.
type Queue struct {
	mu   sync.Mutex
	jobs []*Job

	running atomic.Bool // permission to claim pending jobs
	paused  atomic.Bool // queue-wide pause flag
	stop    atomic.Bool // shutdown requested

	log  *logging.Logger
	bus  *events.Bus
	done chan struct{} // closed when the worker exits
}

// NewQueue creates a queue and starts its worker goroutine. The logger and
// event bus are observability sinks only; either may be nil.
func NewQueue(log *logging.Logger, bus *events.Bus) *Queue {
	if log == nil {
		log = logging.NewDefaultLogger()
	}
	q := &Queue{
		log:  log,
		bus:  bus,
		done: make(chan struct{}),
	}
	go q.workerLoop()
	return q
}

// Enqueue appends a new Pending job. The destination is pre-resolved for
// display: if destRoot is an existing directory, the job's destination is
// already destRoot/<basename(source)> rather than the bare folder. The
// collision-free name is resolved later, when the worker claims the job.
func (q *Queue) Enqueue(source, destRoot string, op Operation) *Job {
	dest := pathutil.ResolveDestination(source, destRoot)
	job := newJob(source, dest, op)

	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	q.log.Info().
		Str("job", job.ID).
		Str("op", string(op)).
		Str("source", source).
		Str("dest", dest).
		Msg("Job queued")
	q.publishJobEvent(events.EventJobQueued, job)

	return job
}

// Start grants the worker permission to claim pending jobs. It does not
// itself pick up work: the worker's poll loop notices pending jobs whenever
// the flag is set. The flag self-clears when no pending jobs remain.
func (q *Queue) Start() {
	q.running.Store(true)
}

// Pause sets the queue-wide pause flag and moves every Copying job to
// Paused. An in-flight tree walk blocks before its next entry until Resume.
func (q *Queue) Pause() {
	q.paused.Store(true)

	q.mu.Lock()
	for _, job := range q.jobs {
		job.transition(StatusCopying, StatusPaused)
	}
	q.mu.Unlock()

	if q.bus != nil {
		q.bus.Publish(&events.QueueEvent{BaseEvent: events.BaseEvent{
			EventType: events.EventQueuePaused, Time: time.Now(),
		}})
	}
}

// Resume clears the pause flag and moves every Paused job back to Copying.
func (q *Queue) Resume() {
	q.paused.Store(false)

	q.mu.Lock()
	for _, job := range q.jobs {
		job.transition(StatusPaused, StatusCopying)
	}
	q.mu.Unlock()

	if q.bus != nil {
		q.bus.Publish(&events.QueueEvent{BaseEvent: events.BaseEvent{
			EventType: events.EventQueueResumed, Time: time.Now(),
		}})
	}
}

// Remove excises the job at the given queue position. It is a no-op if the
// index is invalid or the job is currently Copying (or Calculating, the
// scan/cleanup phase of an active tree copy).
func (q *Queue) Remove(index int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.jobs) {
		return false
	}
	status := q.jobs[index].Status()
	if status == StatusCopying || status == StatusCalculating {
		return false
	}
	q.jobs = append(q.jobs[:index], q.jobs[index+1:]...)
	return true
}

// ClearCompleted removes all terminal (Completed/Failed) jobs from the queue.
func (q *Queue) ClearCompleted() {
	q.mu.Lock()
	defer q.mu.Unlock()

	filtered := make([]*Job, 0, len(q.jobs))
	for _, job := range q.jobs {
		if !job.Status().IsTerminal() {
			filtered = append(filtered, job)
		}
	}
	q.jobs = filtered
}

// Jobs returns a consistent snapshot of all jobs, in insertion order.
func (q *Queue) Jobs() []JobView {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := make([]JobView, len(q.jobs))
	for i, job := range q.jobs {
		result[i] = job.Snapshot()
	}
	return result
}

// Stats returns current per-status job counts.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := QueueStats{}
	for _, job := range q.jobs {
		switch job.Status() {
		case StatusPending:
			stats.Pending++
		case StatusCalculating:
			stats.Calculating++
		case StatusCopying:
			stats.Copying++
		case StatusPaused:
			stats.Paused++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}

// IsRunning reports whether the worker currently has permission to claim
// pending jobs.
func (q *Queue) IsRunning() bool {
	return q.running.Load()
}

// IsPaused reports whether the queue-wide pause flag is set.
func (q *Queue) IsPaused() bool {
	return q.paused.Load()
}

// Close signals the worker to stop and waits for it to exit. An in-progress
// transfer finishes its current file-level operation first; there is no
// abrupt mid-copy cancellation.
func (q *Queue) Close() {
	q.stop.Store(true)
	<-q.done
}

// claimNext returns the first Pending job in insertion order, or nil. When
// the engine is marked running but nothing is pending, the running flag is
// cleared - the queue has drained.
func (q *Queue) claimNext() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running.Load() || q.paused.Load() {
		return nil
	}
	for _, job := range q.jobs {
		if job.Status() == StatusPending {
			return job
		}
	}
	q.running.Store(false)
	return nil
}

func (q *Queue) publishJobEvent(eventType events.EventType, job *Job) {
	if q.bus == nil {
		return
	}
	q.bus.Publish(&events.JobEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			Time:      time.Now(),
		},
		JobID:       job.ID,
		Source:      job.Source,
		Destination: job.Destination(),
		Operation:   string(job.Operation),
		Progress:    job.Progress(),
		Message:     job.ErrMsg(),
	})
}
