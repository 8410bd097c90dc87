package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while work is in flight. It serves
// both list progress events and deployment session transitions.
type SpinnerProgressReporter struct {
	mu         sync.Mutex
	spinner    *spinner.Spinner
	out        io.Writer
	stageStart time.Time

	// running is whether a stage wants the spinner, paused holds it off
	running bool
	paused  bool
}

// NewSpinnerProgressReporterTo creates a reporter writing to out
func NewSpinnerProgressReporterTo(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Spinner {
		r.startLocked(event.Message)
	} else {
		r.stopLocked()
	}
}

// OnTransition renders one deployment session transition
func (r *SpinnerProgressReporter) OnTransition(ctx context.Context, t domain.SessionTransition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := t.Session
	switch t.To {
	case domain.StateSubmitted:
		r.stageStart = time.Now()
		r.startLocked(fmt.Sprintf("Submitting createStandardL2Token for %s...", session.SourceAddress.Hex()))

	case domain.StateConfirming:
		hash := ""
		if session.TxHash != nil {
			hash = session.TxHash.Hex()
		}
		r.stopLocked()
		fmt.Fprintf(r.out, "%s Submitted %s\n", color.GreenString("✓"), hash)
		r.stageStart = time.Now()
		r.startLocked("Waiting for confirmation...")

	case domain.StateDeployed:
		r.stopLocked()
		elapsed := time.Since(r.stageStart).Round(time.Millisecond)
		fmt.Fprintf(r.out, "%s Confirmed (%s)\n", color.GreenString("✓"), elapsed)

	case domain.StateFailed:
		r.stopLocked()
		elapsed := time.Since(r.stageStart).Round(time.Millisecond)
		fmt.Fprintf(r.out, "%s Failed after %s\n", color.RedString("✗"), elapsed)

	case domain.StateNotStarted:
		r.stopLocked()
		if t.From == domain.StateSubmitted {
			fmt.Fprintf(r.out, "%s Signature declined\n", color.YellowString("⊘"))
		}
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.println(color.New(color.FgRed), message)
}

// Pause stops the spinner until resume is called, so a prompt can own the
// terminal. Transitions seen while paused take effect on resume.
func (r *SpinnerProgressReporter) Pause() func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paused = true
	if r.spinner.Active() {
		r.spinner.Stop()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.paused = false
			if r.running {
				r.spinner.Start()
			}
		})
	}
}

// spinning reports whether the spinner should be drawing right now
func (r *SpinnerProgressReporter) spinning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running && !r.paused
}

// println prints above the spinner, restarting it afterwards if it was active
func (r *SpinnerProgressReporter) println(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	c.Fprintln(r.out, message)
	if wasActive && !r.paused {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) startLocked(message string) {
	r.spinner.Suffix = " " + message
	r.running = true
	if !r.paused && !r.spinner.Active() {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) stopLocked() {
	r.running = false
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Ensure SpinnerProgressReporter implements the progress interfaces
var (
	_ usecase.ProgressSink      = (*SpinnerProgressReporter)(nil)
	_ usecase.SessionObserver   = (*SpinnerProgressReporter)(nil)
	_ usecase.InteractionPauser = (*SpinnerProgressReporter)(nil)
)
