package detector

import (
	"math"
	"testing"
)

func TestNMSSuppressesOverlaps(t *testing.T) {
	faces := []Face{
		{BoundingBox: BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.9},
		{BoundingBox: BoundingBox{X1: 5, Y1: 5, X2: 105, Y2: 105}, Score: 0.8}, // heavy overlap with the first
		{BoundingBox: BoundingBox{X1: 200, Y1: 200, X2: 300, Y2: 300}, Score: 0.7},
	}

	kept := nms(faces, 0.4)

	if len(kept) != 2 {
		t.Fatalf("kept %d faces, want 2", len(kept))
	}
	if kept[0].Score != 0.9 || kept[1].Score != 0.7 {
		t.Errorf("kept scores [%v, %v], want [0.9, 0.7]", kept[0].Score, kept[1].Score)
	}
}

func TestNMSKeepsDisjointFaces(t *testing.T) {
	faces := []Face{
		{BoundingBox: BoundingBox{X1: 0, Y1: 0, X2: 50, Y2: 50}, Score: 0.6},
		{BoundingBox: BoundingBox{X1: 100, Y1: 100, X2: 150, Y2: 150}, Score: 0.9},
	}

	kept := nms(faces, 0.4)

	if len(kept) != 2 {
		t.Fatalf("kept %d faces, want 2", len(kept))
	}
	// Highest score first after suppression ordering.
	if kept[0].Score != 0.9 {
		t.Errorf("kept[0].Score = %v, want 0.9", kept[0].Score)
	}
}

func TestNMSEmpty(t *testing.T) {
	if kept := nms(nil, 0.4); len(kept) != 0 {
		t.Errorf("nms(nil) = %v, want empty", kept)
	}
}

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want float32
	}{
		{
			name: "identical boxes",
			a:    BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:    BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10},
			want: 1.0,
		},
		{
			name: "disjoint boxes",
			a:    BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:    BoundingBox{X1: 20, Y1: 20, X2: 30, Y2: 30},
			want: 0.0,
		},
		{
			name: "half overlap",
			a:    BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:    BoundingBox{X1: 0, Y1: 5, X2: 10, Y2: 15},
			want: 50.0 / 150.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := iou(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("iou() = %v, want %v", got, tt.want)
			}
		})
	}
}
