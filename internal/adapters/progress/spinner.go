package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

var (
	migrationColor = color.New(color.FgCyan, color.Bold)
	deployedColor  = color.New(color.FgGreen)
	dryRunColor    = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	faintColor     = color.New(color.Faint)
)

// indicator is the animated part of the sink
type indicator interface {
	Start()
	Stop()
	Active() bool
	SetSuffix(suffix string)
}

type terminalSpinner struct {
	*spinner.Spinner
}

func (t terminalSpinner) SetSuffix(suffix string) {
	t.Lock()
	t.Suffix = suffix
	t.Unlock()
}

// SpinnerSink reports migration progress with a spinner while transactions are pending
type SpinnerSink struct {
	out     io.Writer
	spinner indicator
	mu      sync.Mutex
	started map[string]time.Time
}

// NewSpinnerSink creates a spinner sink writing to stdout
func NewSpinnerSink() *SpinnerSink {
	return NewSpinnerSinkTo(os.Stdout)
}

// NewSpinnerSinkTo creates a spinner sink writing to out
func NewSpinnerSinkTo(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		out:     out,
		spinner: terminalSpinner{s},
		started: make(map[string]time.Time),
	}
}

// OnProgress handles progress events
func (s *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Stage {
	case usecase.StageMigrating:
		s.stop()
		fmt.Fprintf(s.out, "%s %s\n",
			faintColor.Sprintf("[%d/%d]", event.Current, event.Total),
			migrationColor.Sprint(event.Message))

	case usecase.StageDeploying:
		if name, ok := event.Metadata.(string); ok {
			s.started[name] = time.Now()
		}
		s.spinner.SetSuffix(" " + event.Message)
		if !s.spinner.Active() {
			s.spinner.Start()
		}

	case usecase.StageDeployed:
		s.stop()
		dep, ok := event.Metadata.(*models.Deployment)
		if !ok {
			fmt.Fprintf(s.out, "  %s\n", event.Message)
			return
		}
		elapsed := ""
		if start, ok := s.started[dep.ContractName]; ok {
			elapsed = faintColor.Sprintf(" (%s)", time.Since(start).Round(time.Millisecond))
			delete(s.started, dep.ContractName)
		}
		if dep.DryRun {
			fmt.Fprintf(s.out, "  %s %s would deploy at %s%s\n", dryRunColor.Sprint("○"), dep.ContractName, dep.Address, elapsed)
			return
		}
		fmt.Fprintf(s.out, "  %s %s deployed at %s%s\n", deployedColor.Sprint("✓"), dep.ContractName, dep.Address, elapsed)

	case usecase.StageFailed:
		s.stop()
		step, ok := event.Metadata.(usecase.FailedStep)
		if !ok || step.Contract == "" {
			fmt.Fprintf(s.out, "  %s %s failed\n", errorColor.Sprint("✗"), event.Message)
			return
		}
		elapsed := ""
		if start, ok := s.started[step.Contract]; ok {
			elapsed = faintColor.Sprintf(" (%s)", time.Since(start).Round(time.Millisecond))
			delete(s.started, step.Contract)
		}
		fmt.Fprintf(s.out, "  %s%s\n", errorColor.Sprintf("✗ %s failed", step.Contract), elapsed)

	case usecase.StageCompleted:
		s.stop()

	default:
		if event.Spinner {
			s.spinner.SetSuffix(" " + event.Message)
			if !s.spinner.Active() {
				s.spinner.Start()
			}
		} else {
			s.stop()
		}
	}
}

func (s *SpinnerSink) stop() {
	if s.spinner.Active() {
		s.spinner.Stop()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
