package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dudu/faceseq/internal/export"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveRunRoundTrip(t *testing.T) {
	db := openTestDB(t)

	frames := []export.Frame{
		{
			Width: 640, Height: 480,
			Faces: []export.Face{
				{Landmarks: [][2]int{{11, 21}, {31, 41}}, BBox: [4]int{6, 7, 30, 40}},
			},
		},
		{Width: 640, Height: 480},
		{
			Width: 320, Height: 240,
			Faces: []export.Face{
				{Landmarks: [][2]int{{2, 3}}, BBox: [4]int{1, 1, 9, 9}},
				{Landmarks: [][2]int{{4, 5}}, BBox: [4]int{8, 9, 5, 5}},
			},
		},
	}

	runID, err := db.SaveRun("clips/session.mp4", frames)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("SaveRun returned an empty run id")
	}

	loaded, err := db.Run(runID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, frames) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, frames)
	}
}

func TestSaveRunEmptySequence(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.SaveRun("device:0", nil)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	loaded, err := db.Run(runID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d frames, want 0", len(loaded))
	}
}

func TestRunsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	first, err := db.SaveRun("a.mp4", []export.Frame{{Width: 10, Height: 10}})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	second, err := db.SaveRun("b.mp4", []export.Frame{{Width: 20, Height: 20}, {Width: 20, Height: 20}})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if first == second {
		t.Fatal("run ids must be unique")
	}

	frames, err := db.Run(second)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(frames) != 2 || frames[0].Width != 20 {
		t.Errorf("second run = %+v, want its own 2 frames", frames)
	}
}
