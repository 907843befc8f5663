package detector

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

// stubFinder replays canned detections per call.
type stubFinder struct {
	results [][]Face
	calls   int
	err     error
}

func (s *stubFinder) Detect(img gocv.Mat) ([]Face, error) {
	if s.err != nil {
		return nil, s.err
	}
	var faces []Face
	if s.calls < len(s.results) {
		faces = s.results[s.calls]
	}
	s.calls++
	return faces, nil
}

func (s *stubFinder) Close() error { return nil }

func TestSequenceAccumulatesInOrder(t *testing.T) {
	finder := &stubFinder{
		results: [][]Face{
			{{BoundingBox: BoundingBox{X1: 1, Y1: 2, X2: 11, Y2: 22}, Landmarks: []Point{{X: 5, Y: 6}}}},
			nil,
			{
				{BoundingBox: BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}},
				{BoundingBox: BoundingBox{X1: 20, Y1: 20, X2: 30, Y2: 30}},
			},
		},
	}
	seq := &Sequence{finder: finder, scale: 1}

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	for i := 0; i < 3; i++ {
		result, err := seq.AddFrame(&frame)
		if err != nil {
			t.Fatalf("AddFrame %d failed: %v", i, err)
		}
		if result.Width != 64 || result.Height != 48 {
			t.Errorf("frame %d dimensions %dx%d, want 64x48", i, result.Width, result.Height)
		}
	}

	frames := seq.Frames()
	if len(frames) != 3 {
		t.Fatalf("sequence holds %d frames, want 3", len(frames))
	}
	if counts := []int{len(frames[0].Faces), len(frames[1].Faces), len(frames[2].Faces)}; counts[0] != 1 || counts[1] != 0 || counts[2] != 2 {
		t.Errorf("face counts = %v, want [1 0 2]", counts)
	}
	if frames[0].Faces[0].BBox != (BBox{X: 1, Y: 2, Width: 10, Height: 20}) {
		t.Errorf("frame 0 bbox = %+v", frames[0].Faces[0].BBox)
	}
}

func TestSequenceAddFrameReturnsAppendedResult(t *testing.T) {
	finder := &stubFinder{}
	seq := &Sequence{finder: finder, scale: 1}

	frame := gocv.NewMatWithSize(24, 32, gocv.MatTypeCV8UC3)
	defer frame.Close()

	result, err := seq.AddFrame(&frame)
	if err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	if result != &seq.frames[0] {
		t.Error("AddFrame must return a reference into the sequence")
	}
}

func TestSequenceRescalesToCapturedGrid(t *testing.T) {
	// Detection runs on a half-scale copy; results come back in the
	// captured frame's pixel grid, and the recorded dimensions are the
	// captured ones.
	finder := &stubFinder{
		results: [][]Face{
			{{
				BoundingBox: BoundingBox{X1: 10, Y1: 10, X2: 20, Y2: 20},
				Landmarks:   []Point{{X: 12, Y: 14}},
			}},
		},
	}
	seq := &Sequence{finder: finder, scale: 0.5}

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	result, err := seq.AddFrame(&frame)
	if err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}

	if result.Width != 64 || result.Height != 48 {
		t.Errorf("dimensions %dx%d, want captured 64x48", result.Width, result.Height)
	}
	face := result.Faces[0]
	if face.BBox != (BBox{X: 20, Y: 20, Width: 20, Height: 20}) {
		t.Errorf("bbox = %+v, want mapped back to full resolution", face.BBox)
	}
	if face.Landmarks[0] != (Point2i{X: 24, Y: 28}) {
		t.Errorf("landmark = %+v, want {24 28}", face.Landmarks[0])
	}
}

func TestSequenceFailedFrameLeavesHistoryUntouched(t *testing.T) {
	finder := &stubFinder{}
	seq := &Sequence{finder: finder, scale: 1}

	frame := gocv.NewMatWithSize(24, 32, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if _, err := seq.AddFrame(&frame); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}

	finder.err = errors.New("inference failed")
	if _, err := seq.AddFrame(&frame); err == nil {
		t.Fatal("AddFrame succeeded, want error")
	}

	// Everything appended before the failure is still retrievable.
	if len(seq.Frames()) != 1 {
		t.Errorf("sequence holds %d frames after failure, want 1", len(seq.Frames()))
	}
}
