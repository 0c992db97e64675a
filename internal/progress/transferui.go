package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"

	"github.com/sysbutler/butler/internal/transfer"
)

// barScale is the resolution of a job bar. Job progress is a fraction, so
// bars run 0..barScale rather than byte counts.
const barScale = 1000

// TransferUI renders one progress bar per queued job, driven by polling job
// snapshots from the queue. On a non-terminal it degrades to plain start and
// finish lines.
type TransferUI struct {
	progress   *mpb.Progress
	isTerminal bool

	mu   sync.Mutex
	bars map[string]*jobBar
}

// jobBar tracks one job's bar plus the mutable status label its decorator
// reads.
type jobBar struct {
	bar      *mpb.Bar
	mu       sync.Mutex
	status   string
	finished bool
}

func (b *jobBar) setStatus(s string) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}

func (b *jobBar) getStatus() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// NewTransferUI creates a transfer progress UI writing to stderr.
func NewTransferUI() *TransferUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(150*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		// Non-TTY: no bars, plain text lines only
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &TransferUI{
		progress:   p,
		isTerminal: isTerminal,
		bars:       make(map[string]*jobBar),
	}
}

// Observe reconciles the UI with one job snapshot. Call it for every job on
// every poll tick; bars are created lazily the first time a job is seen.
func (u *TransferUI) Observe(view transfer.JobView) {
	u.mu.Lock()
	jb, ok := u.bars[view.ID]
	if !ok {
		jb = u.addBar(view)
		u.bars[view.ID] = jb
	}
	u.mu.Unlock()

	jb.setStatus(view.Status.String())

	if jb.finished {
		return
	}

	switch view.Status {
	case transfer.StatusCompleted:
		jb.finished = true
		if jb.bar != nil {
			jb.bar.SetCurrent(barScale)
		}
		u.println(fmt.Sprintf("✓ %s → %s", truncatePath(view.Source, 2), truncatePath(view.Destination, 2)))
	case transfer.StatusFailed:
		jb.finished = true
		if jb.bar != nil {
			jb.bar.Abort(false) // keep the bar visible to show the failure
		}
		u.println(fmt.Sprintf("✗ %s: %s", truncatePath(view.Source, 2), view.ErrMsg))
	default:
		if jb.bar != nil {
			jb.bar.SetCurrent(int64(view.Progress * barScale))
		}
	}
}

// addBar creates the bar for a newly observed job. Caller holds u.mu.
func (u *TransferUI) addBar(view transfer.JobView) *jobBar {
	jb := &jobBar{status: view.Status.String()}

	if !u.isTerminal {
		fmt.Fprintf(os.Stderr, "%s: %s → %s\n",
			strings.ToUpper(string(view.Operation)),
			view.Source, view.Destination)
		return jb
	}

	jb.bar = u.progress.New(barScale,
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("%s %s", strings.ToUpper(string(view.Operation)),
				truncatePath(view.Source, 2)), decor.WCSyncSpaceR),
			decor.Any(func(s decor.Statistics) string {
				return jb.getStatus()
			}, decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.BarRemoveOnComplete(),
	)
	return jb
}

// println writes a line above the live bars without corrupting them.
func (u *TransferUI) println(msg string) {
	if u.isTerminal && u.progress != nil {
		_, _ = u.progress.Write([]byte(msg + "\n"))
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// Wait blocks until all bars complete or abort.
func (u *TransferUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// Writer returns an io.Writer that safely prints above the progress bars.
func (u *TransferUI) Writer() io.Writer {
	if u.progress != nil && u.isTerminal {
		return u.progress
	}
	return os.Stderr
}

// IsTerminal returns whether output is to a terminal.
func (u *TransferUI) IsTerminal() bool {
	return u.isTerminal
}

// truncatePath shortens a path to its last n components for display.
func truncatePath(path string, n int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= n {
		return path
	}
	return "…/" + strings.Join(parts[len(parts)-n:], "/")
}
