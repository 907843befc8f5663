package pipeline

import (
	"gocv.io/x/gocv"

	"github.com/dudu/faceseq/internal/detector"
)

// Source delivers frames one Read at a time. IsUpdated reports
// whether the last Read produced a genuinely new frame.
type Source interface {
	Read() bool
	IsUpdated() bool
	Frame() *gocv.Mat
}

// Detector accumulates per-frame results and returns a reference to
// the result it just appended.
type Detector interface {
	AddFrame(frame *gocv.Mat) (*detector.FrameResult, error)
}

// TextAnchor places an overlay line on a frame.
type TextAnchor int

const (
	AnchorTopLeft TextAnchor = iota
	AnchorBottomLeft
)

// Renderer drives the preview surface. Show displays the frame and
// polls briefly for a cancel signal, returning true when one arrived.
// Release closes the display surface; the runner calls it on every
// exit path.
type Renderer interface {
	Annotate(frame *gocv.Mat, result *detector.FrameResult)
	OverlayText(frame *gocv.Mat, text string, anchor TextAnchor)
	Show(frame *gocv.Mat) bool
	Release() error
}
