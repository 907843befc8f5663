package detector

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/dudu/faceseq/internal/inference"
)

// faceFinder is the per-image detection step behind a Sequence.
type faceFinder interface {
	Detect(img gocv.Mat) ([]Face, error)
	Close() error
}

// Config holds the models and tuning of a detection sequence.
type Config struct {
	ModelPath         string  // SCRFD face detection model (required)
	LandmarkModelPath string  // optional 106-point refinement model
	Scale             float32 // detection scale, 1 = detect at full resolution
	DetectionSize     int
	ConfThreshold     float32
	NMSThreshold      float32
	RuntimeLibrary    string // onnxruntime shared library path override
}

// Sequence runs detection on accepted frames and owns the ordered
// per-frame result history for one run. It is not safe for concurrent
// use; one run drives one Sequence.
type Sequence struct {
	finder  faceFinder
	refiner *Landmark106
	scale   float32
	frames  []FrameResult
}

// NewSequence loads the detection models and returns an empty sequence.
func NewSequence(cfg Config) (*Sequence, error) {
	if err := inference.Initialize(cfg.RuntimeLibrary); err != nil {
		return nil, fmt.Errorf("failed to initialize inference: %w", err)
	}

	det, err := NewSCRFD(cfg.ModelPath, cfg.DetectionSize, cfg.ConfThreshold, cfg.NMSThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}

	var refiner *Landmark106
	if cfg.LandmarkModelPath != "" {
		refiner, err = NewLandmark106(cfg.LandmarkModelPath)
		if err != nil {
			det.Close()
			return nil, fmt.Errorf("failed to create landmark refiner: %w", err)
		}
	}

	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}

	return &Sequence{
		finder:  det,
		refiner: refiner,
		scale:   scale,
	}, nil
}

// AddFrame detects faces on one accepted frame, appends the result to
// the sequence, and returns a reference to it. This is the only
// mutation point of the history: the append happens after detection
// succeeds in full, so a failed frame leaves the sequence untouched.
func (s *Sequence) AddFrame(frame *gocv.Mat) (*FrameResult, error) {
	width := frame.Cols()
	height := frame.Rows()

	img := *frame
	scaled := false
	if s.scale != 1 {
		resized := gocv.NewMat()
		gocv.Resize(*frame, &resized, image.Pt(0, 0), float64(s.scale), float64(s.scale), gocv.InterpolationLinear)
		img = resized
		scaled = true
	}
	if scaled {
		defer img.Close()
	}

	faces, err := s.finder.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	if s.refiner != nil {
		for i := range faces {
			if err := s.refiner.Refine(img, &faces[i]); err != nil {
				return nil, fmt.Errorf("landmark refinement failed: %w", err)
			}
		}
	}

	// Map coordinates from the detection copy back to the captured frame
	inv := 1 / s.scale

	result := FrameResult{
		Width:  width,
		Height: height,
		Faces:  make([]FaceResult, len(faces)),
	}
	for i, face := range faces {
		result.Faces[i] = face.toResult(inv)
	}

	s.frames = append(s.frames, result)
	return &s.frames[len(s.frames)-1], nil
}

// Frames returns the accumulated history in capture order. The slice
// is owned by the Sequence; callers read it, they do not mutate it.
// After an aborted run it still holds everything appended before the
// failure.
func (s *Sequence) Frames() []FrameResult {
	return s.frames
}

// Close releases the detection models.
func (s *Sequence) Close() error {
	var errs []error

	if s.finder != nil {
		if err := s.finder.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.refiner != nil {
		if err := s.refiner.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := inference.Shutdown(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}
