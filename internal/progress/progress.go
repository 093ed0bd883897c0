// Package progress reports how far a long-running phase has come.
// It is observability only: nothing in the export depends on it.
package progress

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// Tracker counts processed items of one phase.
type Tracker interface {
	SetTotal(total int64)
	Increment(n int64)
	Done()
}

// Reporter creates one tracker per phase.
type Reporter interface {
	Track(message string) Tracker
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Track(string) Tracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) SetTotal(int64)  {}
func (nopTracker) Increment(int64) {}
func (nopTracker) Done()           {}

// Renderer draws progress bars to a terminal.
type Renderer struct {
	writer progress.Writer
}

// NewRenderer starts rendering to out. Call Stop when the run is over.
func NewRenderer(out io.Writer) *Renderer {
	writer := progress.NewWriter()
	writer.SetOutputWriter(out)
	writer.SetAutoStop(false)
	writer.SetTrackerLength(30)
	writer.SetUpdateFrequency(100 * time.Millisecond)
	writer.SetStyle(progress.StyleDefault)
	writer.Style().Visibility.Value = true
	writer.Style().Visibility.ETA = true
	go writer.Render()

	return &Renderer{writer: writer}
}

func (r *Renderer) Track(message string) Tracker {
	tracker := &progress.Tracker{
		Message: message,
		Units:   progress.UnitsDefault,
	}
	r.writer.AppendTracker(tracker)
	return &barTracker{tracker: tracker}
}

// Stop renders the final state and waits for the renderer to finish.
func (r *Renderer) Stop() {
	r.writer.Stop()
	for r.writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}

type barTracker struct {
	tracker *progress.Tracker
}

func (t *barTracker) SetTotal(total int64) { t.tracker.UpdateTotal(total) }
func (t *barTracker) Increment(n int64)    { t.tracker.Increment(n) }
func (t *barTracker) Done()                { t.tracker.MarkAsDone() }
