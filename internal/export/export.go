// Package export projects a finished detection history into the
// caller-facing schema. Exported coordinates are 1-based: consumers
// index pixels from (1,1), so every positional coordinate is shifted
// by exactly +1, exactly once. Widths and heights are sizes, not
// positions, and are never shifted.
package export

import (
	"encoding/json"
	"io"

	"github.com/dudu/faceseq/internal/detector"
)

// Face is one exported face in 1-based pixel coordinates.
type Face struct {
	// Landmarks is an N×2 matrix of (x, y) pairs.
	Landmarks [][2]int `json:"landmarks"`
	// BBox is (x, y, width, height).
	BBox [4]int `json:"bbox"`
}

// Frame is one exported record. Faces is omitted when the frame had no
// detections; width and height are always present.
type Frame struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Faces  []Face `json:"faces,omitempty"`
}

// Sequence projects the detector's history into the exported form. It
// is pure and order-preserving: one record per frame, in capture
// order, with no filtering or aggregation.
func Sequence(frames []detector.FrameResult) []Frame {
	out := make([]Frame, len(frames))
	for i, frame := range frames {
		record := Frame{
			Width:  frame.Width,
			Height: frame.Height,
		}
		if len(frame.Faces) > 0 {
			record.Faces = make([]Face, len(frame.Faces))
			for j, face := range frame.Faces {
				record.Faces[j] = exportFace(face)
			}
		}
		out[i] = record
	}
	return out
}

func exportFace(face detector.FaceResult) Face {
	landmarks := make([][2]int, len(face.Landmarks))
	for i, lm := range face.Landmarks {
		landmarks[i] = [2]int{lm.X + 1, lm.Y + 1}
	}
	return Face{
		Landmarks: landmarks,
		BBox:      [4]int{face.BBox.X + 1, face.BBox.Y + 1, face.BBox.Width, face.BBox.Height},
	}
}

// Write encodes the exported sequence as indented JSON.
func Write(w io.Writer, frames []Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(frames)
}
