package ui

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/dudu/faceseq/internal/detector"
	"github.com/dudu/faceseq/internal/pipeline"
)

// pollDelayMs bounds the per-frame wait for a cancel key. It keeps the
// loop responsive without turning the poll into a frame-rate limiter.
const pollDelayMs = 1

var (
	boxColor      = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	landmarkColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	textColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Display shows the annotated preview in a titled window and polls for
// the cancel key. It implements pipeline.Renderer.
type Display struct {
	window *gocv.Window
	name   string
}

// NewDisplay creates the preview window.
func NewDisplay(title string) *Display {
	return &Display{
		window: gocv.NewWindow(title),
		name:   title,
	}
}

// Annotate draws the frame's bounding boxes and landmark dots in place.
func (d *Display) Annotate(frame *gocv.Mat, result *detector.FrameResult) {
	for _, face := range result.Faces {
		rect := image.Rect(face.BBox.X, face.BBox.Y,
			face.BBox.X+face.BBox.Width, face.BBox.Y+face.BBox.Height)
		gocv.Rectangle(frame, rect, boxColor, 1)

		for _, lm := range face.Landmarks {
			gocv.Circle(frame, image.Pt(lm.X, lm.Y), 1, landmarkColor, 2)
		}
	}
}

// OverlayText draws one fixed status line on the frame.
func (d *Display) OverlayText(frame *gocv.Mat, text string, anchor pipeline.TextAnchor) {
	switch anchor {
	case pipeline.AnchorBottomLeft:
		gocv.PutText(frame, text, image.Pt(10, frame.Rows()-20),
			gocv.FontHersheyComplex, 0.5, textColor, 1)
	default:
		gocv.PutText(frame, text, image.Pt(15, 15),
			gocv.FontHersheySimplex, 0.5, textColor, 1)
	}
}

// Show displays the frame and polls briefly for a key press. Any key
// requests cancellation.
func (d *Display) Show(frame *gocv.Mat) bool {
	d.window.IMShow(*frame)
	return d.window.WaitKey(pollDelayMs) >= 0
}

// Release closes the window.
func (d *Display) Release() error {
	if d.window != nil {
		err := d.window.Close()
		d.window = nil
		return err
	}
	return nil
}
