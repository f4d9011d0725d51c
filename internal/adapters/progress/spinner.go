package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// SpinnerProgressReporter prints orchestration stages and spins while the
// deployment transaction is pending.
type SpinnerProgressReporter struct {
	spinner      *spinner.Spinner
	out          io.Writer
	currentStage string
	stageStart   time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	r.completeCurrentStage()

	r.currentStage = event.Stage
	r.stageStart = time.Now()

	if event.Spinner {
		r.spinner.Suffix = " " + event.Message
		r.spinner.Start()
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgYellow).Sprint("●"), event.Message)
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.withSpinnerPaused(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.withSpinnerPaused(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// Stop halts the spinner and closes the running stage
func (r *SpinnerProgressReporter) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	r.completeCurrentStage()
	r.currentStage = ""
}

func (r *SpinnerProgressReporter) withSpinnerPaused(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage reports how long the previous spinner stage took
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if r.currentStage != usecase.StageDeploy {
		return
	}
	took := time.Since(r.stageStart).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s %s (%s)\n", color.New(color.FgGreen).Sprint("✓"), r.currentStage, took)
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
