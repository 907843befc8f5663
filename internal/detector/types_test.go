package detector

import (
	"reflect"
	"testing"
)

func TestFaceToResult(t *testing.T) {
	face := Face{
		BoundingBox: BoundingBox{X1: 10.4, Y1: 20.6, X2: 50.4, Y2: 80.6},
		Landmarks:   []Point{{X: 15.5, Y: 25.4}, {X: 0, Y: 0}},
		Score:       0.9,
	}

	got := face.toResult(1)

	want := FaceResult{
		Landmarks: []Point2i{{X: 16, Y: 25}, {X: 0, Y: 0}},
		BBox:      BBox{X: 10, Y: 21, Width: 40, Height: 60},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toResult(1) = %+v, want %+v", got, want)
	}
}

func TestFaceToResultRescales(t *testing.T) {
	// Detection ran on a half-scale copy; inv maps back to the
	// captured frame's pixel grid.
	face := Face{
		BoundingBox: BoundingBox{X1: 10, Y1: 10, X2: 20, Y2: 20},
		Landmarks:   []Point{{X: 12, Y: 14}},
	}

	got := face.toResult(2)

	want := FaceResult{
		Landmarks: []Point2i{{X: 24, Y: 28}},
		BBox:      BBox{X: 20, Y: 20, Width: 20, Height: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toResult(2) = %+v, want %+v", got, want)
	}
}

func TestBoundingBoxGeometry(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 40, Y2: 60}

	if b.Width() != 30 || b.Height() != 40 {
		t.Errorf("size = %vx%v, want 30x40", b.Width(), b.Height())
	}
	if b.Area() != 1200 {
		t.Errorf("Area() = %v, want 1200", b.Area())
	}
	if c := b.Center(); c.X != 25 || c.Y != 40 {
		t.Errorf("Center() = %+v, want (25, 40)", c)
	}
}
