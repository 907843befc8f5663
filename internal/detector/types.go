package detector

// Point is a 2D pixel coordinate in the detector's 0-based convention.
type Point struct {
	X, Y float32
}

// BoundingBox represents a face bounding box
type BoundingBox struct {
	X1, Y1 float32 // top-left
	X2, Y2 float32 // bottom-right
}

// Width returns box width
func (b BoundingBox) Width() float32 {
	return b.X2 - b.X1
}

// Height returns box height
func (b BoundingBox) Height() float32 {
	return b.Y2 - b.Y1
}

// Center returns box center point
func (b BoundingBox) Center() Point {
	return Point{
		X: (b.X1 + b.X2) / 2,
		Y: (b.Y1 + b.Y2) / 2,
	}
}

// Area returns box area
func (b BoundingBox) Area() float32 {
	return b.Width() * b.Height()
}

// Face is one raw detection. Landmarks holds the 5 SCRFD keypoints,
// replaced by the 106-point set when landmark refinement is enabled.
type Face struct {
	BoundingBox BoundingBox
	Landmarks   []Point
	Score       float32
}

// Point2i is an integer pixel coordinate.
type Point2i struct {
	X, Y int
}

// BBox is an integer (x, y, width, height) rectangle in a frame's
// 0-based pixel grid.
type BBox struct {
	X, Y          int
	Width, Height int
}

// FaceResult is one face of an accepted frame, rounded to the captured
// frame's 0-based pixel grid.
type FaceResult struct {
	Landmarks []Point2i
	BBox      BBox
}

// FrameResult records the detections of one accepted frame. Width and
// Height are the captured frame's dimensions, which may vary across a
// run when a live device renegotiates its resolution.
type FrameResult struct {
	Width  int
	Height int
	Faces  []FaceResult
}

// toResult converts a raw detection to frame-grid integers. inv maps
// coordinates from the detection copy back to the captured frame; it
// is 1 when no detection scale is applied.
func (f Face) toResult(inv float32) FaceResult {
	result := FaceResult{
		Landmarks: make([]Point2i, len(f.Landmarks)),
		BBox: BBox{
			X:      roundToInt(f.BoundingBox.X1 * inv),
			Y:      roundToInt(f.BoundingBox.Y1 * inv),
			Width:  roundToInt(f.BoundingBox.Width() * inv),
			Height: roundToInt(f.BoundingBox.Height() * inv),
		},
	}
	for i, p := range f.Landmarks {
		result.Landmarks[i] = Point2i{X: roundToInt(p.X * inv), Y: roundToInt(p.Y * inv)}
	}
	return result
}

func roundToInt(x float32) int {
	if x < 0 {
		return int(x - 0.5)
	}
	return int(x + 0.5)
}
