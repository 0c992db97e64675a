// Package progress provides progress reporting for CLI consumers of the
// transfer queue: a single-operation Reporter backed by a progress bar, and
// a multi-job terminal UI backed by mpb.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/sysbutler/butler/internal/events"
)

// Reporter is the interface for reporting progress of one operation.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
	SetDescription(desc string)
}

// CLIProgress implements progress reporting using a terminal progress bar.
// A negative total renders a spinner, used for scans with unknown extent.
type CLIProgress struct {
	bar *progressbar.ProgressBar
}

// NewCLIProgress creates a new CLI progress reporter.
func NewCLIProgress() *CLIProgress {
	return &CLIProgress{}
}

// Start initializes the progress bar with total size and description.
func (p *CLIProgress) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update updates the progress bar to the current position.
func (p *CLIProgress) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the progress bar.
func (p *CLIProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error displays an error message.
func (p *CLIProgress) Error(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
	}
}

// SetDescription updates the progress bar description.
func (p *CLIProgress) SetDescription(desc string) {
	if p.bar != nil {
		p.bar.Describe(desc)
	}
}

// BusProgress implements progress reporting by publishing events to an event
// bus, for consumers that render elsewhere.
type BusProgress struct {
	bus     *events.Bus
	jobID   string
	total   int64
	current int64
}

// NewBusProgress creates a new event-bus progress reporter for a job.
func NewBusProgress(bus *events.Bus, jobID string) *BusProgress {
	return &BusProgress{bus: bus, jobID: jobID}
}

// Start records the total and publishes an initial progress event.
func (p *BusProgress) Start(total int64, description string) {
	p.total = total
	p.publish(description)
}

// Update publishes the new position.
func (p *BusProgress) Update(current int64) {
	p.current = current
	p.publish("")
}

// Finish publishes a final full-progress event.
func (p *BusProgress) Finish() {
	p.current = p.total
	p.publish("")
}

// Error publishes a failure event.
func (p *BusProgress) Error(err error) {
	if err == nil {
		return
	}
	p.bus.Publish(&events.JobEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventJobFailed, Time: time.Now()},
		JobID:     p.jobID,
		Message:   err.Error(),
	})
}

// SetDescription publishes a description-only progress event.
func (p *BusProgress) SetDescription(desc string) {
	p.publish(desc)
}

func (p *BusProgress) publish(message string) {
	if p.bus == nil {
		return
	}
	fraction := 0.0
	if p.total > 0 {
		fraction = float64(p.current) / float64(p.total)
	}
	p.bus.Publish(&events.JobEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventJobProgress, Time: time.Now()},
		JobID:     p.jobID,
		Progress:  fraction,
		Message:   message,
	})
}
