// Package events provides a pub/sub event bus for job lifecycle notifications.
// The transfer queue publishes events; UI consumers subscribe to render state
// changes without polling the queue lock.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sysbutler/butler/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventJobQueued    EventType = "job_queued"    // Job added to queue
	EventJobStarted   EventType = "job_started"   // Worker claimed the job
	EventJobProgress  EventType = "job_progress"  // Progress update during transfer
	EventJobCompleted EventType = "job_completed" // Successfully completed
	EventJobFailed    EventType = "job_failed"    // Failed with error
	EventQueuePaused  EventType = "queue_paused"  // Queue-wide pause
	EventQueueResumed EventType = "queue_resumed" // Queue-wide resume
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// JobEvent represents a job lifecycle event
type JobEvent struct {
	BaseEvent
	JobID       string
	Source      string
	Destination string
	Operation   string
	Progress    float64 // 0.0 to 1.0
	Message     string  // error message for EventJobFailed, empty otherwise
}

// QueueEvent represents a queue-wide state change (pause/resume)
type QueueEvent struct {
	BaseEvent
}

// Bus manages event subscriptions and publishing
type Bus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewBus creates a new event bus with the specified per-subscriber buffer size
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (b *Bus) Subscribe(eventType EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (b *Bus) SubscribeAll() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.all = append(b.all, ch)
	return ch
}

// Publish sends an event to all subscribers. Sends are non-blocking: a
// subscriber with a full buffer misses the event rather than stalling the
// worker thread.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			b.droppedEvents.Add(1)
		}
	}

	for _, ch := range b.all {
		select {
		case ch <- event:
		default:
			b.droppedEvents.Add(1)
		}
	}
}

// DroppedEvents returns the count of events dropped due to full buffers.
func (b *Bus) DroppedEvents() int64 {
	return b.droppedEvents.Load()
}

// Close shuts down the event bus and closes all subscriber channels
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.all {
		close(ch)
	}
	b.subscribers = make(map[EventType][]chan Event)
	b.all = nil
}
