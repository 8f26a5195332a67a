// Package progress shows terminal spinners for the stages of an interaction.
package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"lyriq/internal/app/lyrics"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Step is one spinner shown by a StageTracker.
type Step struct {
	Stage lyrics.Stage
	Text  string
	// OK is false when the interaction failed while this step was running.
	OK       bool
	Finished bool
}

// StageTracker renders one spinner per stage that has a remote call in
// flight. Its Observe method is a lyrics.Observer.
type StageTracker struct {
	container *mpb.Progress
	enabled   bool

	mu      sync.Mutex
	current *mpb.Bar
	steps   []Step
}

func NewStageTracker(config Config) *StageTracker {
	if !config.Enabled {
		return &StageTracker{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)

	return &StageTracker{
		container: container,
		enabled:   true,
	}
}

// Observe finishes the running spinner and starts one for stage if it has
// progress text.
func (t *StageTracker) Observe(stage lyrics.Stage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.steps); n > 0 && !t.steps[n-1].Finished {
		ok := stage != lyrics.StageError
		t.steps[n-1].Finished = true
		t.steps[n-1].OK = ok
		t.finishBar(ok)
	}

	if stage.IsTerminal() {
		return
	}
	text := stage.ProgressText()
	if text == "" {
		return
	}
	t.steps = append(t.steps, Step{Stage: stage, Text: text})

	if !t.enabled || t.container == nil {
		return
	}
	t.current = t.container.New(0,
		mpb.SpinnerStyle().PositionLeft(),
		mpb.PrependDecorators(
			decor.Name(text, decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace), " ✓"),
		),
		mpb.BarFillerOnComplete("✓"),
	)
}

func (t *StageTracker) finishBar(ok bool) {
	if t.current == nil {
		return
	}
	if ok {
		t.current.SetTotal(-1, true)
	} else {
		t.current.Abort(false)
	}
	t.current = nil
}

// recorded returns the spinners started so far, in order.
func (t *StageTracker) recorded() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Wait blocks until every spinner has been rendered for the last time.
func (t *StageTracker) Wait() {
	t.mu.Lock()
	if t.current != nil {
		t.current.Abort(false)
		t.current = nil
	}
	t.mu.Unlock()

	if t.enabled && t.container != nil {
		t.container.Wait()
	}
}

// IsTTY reports whether writer is a terminal.
func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}
