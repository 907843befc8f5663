// Package pipeline drives the acquire → detect → preview loop for one
// run: it pulls frames from a source, filters stale deliveries,
// forwards accepted frames to the detector, and optionally shows an
// annotated preview with cooperative cancellation.
package pipeline

import (
	"fmt"
)

const (
	counterFormat = "Faces found so far: %d"
	cancelHint    = "press any key to stop"
)

// Runner owns the main loop for exactly one pass over one source. It
// runs synchronously on the calling goroutine; a Runner must not be
// reused and must not share its detector with another run.
type Runner struct {
	source   Source
	detector Detector
	display  Renderer
	preview  bool
	counter  FaceCounter

	// OnAccept, when set, is called once per accepted frame after its
	// result is appended. The CLI hangs a progress bar off it.
	OnAccept func()
}

// New creates a runner. display may be nil when preview is false; with
// preview enabled a renderer is required.
func New(src Source, det Detector, display Renderer, preview bool) *Runner {
	return &Runner{
		source:   src,
		detector: det,
		display:  display,
		preview:  preview,
	}
}

// Run executes the loop until the source is exhausted, the user
// cancels from the preview, or a detector/renderer failure aborts the
// run. The display surface is released on every exit path. On error
// the detector keeps everything appended before the failure.
func (r *Runner) Run() error {
	if r.display != nil {
		defer r.display.Release()
	}

	frameIndex := 0
	for r.source.Read() {
		// Stale re-delivery from an asynchronous capture buffer:
		// skip without touching the sequence or the counter.
		if !r.source.IsUpdated() {
			continue
		}

		frame := r.source.Frame()
		result, err := r.detector.AddFrame(frame)
		if err != nil {
			return fmt.Errorf("processing frame %d: %w", frameIndex, err)
		}
		frameIndex++

		if r.OnAccept != nil {
			r.OnAccept()
		}

		if !r.preview {
			continue
		}

		r.counter.Add(len(result.Faces))
		r.display.Annotate(frame, result)
		r.display.OverlayText(frame, fmt.Sprintf(counterFormat, r.counter.Total()), AnchorTopLeft)
		r.display.OverlayText(frame, cancelHint, AnchorBottomLeft)
		if r.display.Show(frame) {
			break
		}
	}

	return nil
}

// FacesSoFar returns the preview counter's running total.
func (r *Runner) FacesSoFar() int {
	return r.counter.Total()
}
