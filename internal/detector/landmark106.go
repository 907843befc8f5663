package detector

import (
	"fmt"
	"image"

	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"

	"github.com/dudu/faceseq/internal/inference"
)

const landmarkCount = 106

// Landmark106 refines a detected face with insightface's 2d106det
// model, replacing the 5 SCRFD keypoints with 106 dense landmarks.
type Landmark106 struct {
	session   *inference.Session
	inputSize int
	inputMean float32
	inputStd  float32
}

// NewLandmark106 creates a new 106-point landmark detector
func NewLandmark106(modelPath string) (*Landmark106, error) {
	inputNames := []string{"data"}
	outputNames := []string{"fc1"}

	session, err := inference.NewSession(modelPath, inputNames, outputNames)
	if err != nil {
		return nil, fmt.Errorf("failed to create landmark session: %w", err)
	}

	return &Landmark106{
		session:   session,
		inputSize: 192,
		inputMean: 127.5,
		inputStd:  128.0,
	}, nil
}

// Refine replaces face.Landmarks with the dense 106-point set,
// expressed in img's pixel coordinates.
func (l *Landmark106) Refine(img gocv.Mat, face *Face) error {
	bbox := face.BoundingBox

	// Crop parameters: 1.5x expansion around the box center, like insightface
	w := bbox.Width()
	h := bbox.Height()
	centerX := (bbox.X1 + bbox.X2) / 2
	centerY := (bbox.Y1 + bbox.Y2) / 2
	maxDim := w
	if h > w {
		maxDim = h
	}
	scale := float32(l.inputSize) / (maxDim * 1.5)

	M := l.getTransformMatrix(centerX, centerY, scale)

	aligned := gocv.NewMat()
	defer aligned.Close()
	gocv.WarpAffine(img, &aligned, M, image.Pt(l.inputSize, l.inputSize))
	M.Close()

	rgb := gocv.NewMat()
	gocv.CvtColor(aligned, &rgb, gocv.ColorBGRToRGB)
	defer rgb.Close()

	floatMat := gocv.NewMat()
	rgb.ConvertTo(&floatMat, gocv.MatTypeCV32FC3)
	defer floatMat.Close()

	// Normalize: (x - mean) / std
	gocv.AddWeighted(floatMat, 1.0/float64(l.inputStd), floatMat, 0, -float64(l.inputMean)/float64(l.inputStd), &floatMat)

	blob := gocv.BlobFromImage(floatMat, 1.0, image.Pt(l.inputSize, l.inputSize),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	blobData := blob.ToBytes()
	floatData := bytesToFloat32(blobData)

	inputTensor, err := ort.NewTensor(
		ort.NewShape(1, 3, int64(l.inputSize), int64(l.inputSize)),
		floatData,
	)
	if err != nil {
		return fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	// Output is (1, 212) = 106 landmarks * 2 coords
	outputTensor, err := inference.CreateEmptyTensor[float32]([]int64{1, landmarkCount * 2})
	if err != nil {
		return fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	err = l.session.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor})
	if err != nil {
		return fmt.Errorf("landmark inference failed: %w", err)
	}

	face.Landmarks = l.postprocess(outputTensor.GetData(), centerX, centerY, scale)
	return nil
}

// getTransformMatrix creates the affine transform for the face crop
func (l *Landmark106) getTransformMatrix(centerX, centerY, scale float32) gocv.Mat {
	// Scale and translate only, no rotation
	M := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)

	M.SetDoubleAt(0, 0, float64(scale))
	M.SetDoubleAt(0, 1, 0)
	M.SetDoubleAt(0, 2, float64(l.inputSize)/2-float64(centerX*scale))
	M.SetDoubleAt(1, 0, 0)
	M.SetDoubleAt(1, 1, float64(scale))
	M.SetDoubleAt(1, 2, float64(l.inputSize)/2-float64(centerY*scale))

	return M
}

// postprocess transforms landmarks from model output to image coordinates
func (l *Landmark106) postprocess(output []float32, centerX, centerY, scale float32) []Point {
	landmarks := make([]Point, landmarkCount)

	halfSize := float32(l.inputSize) / 2

	for i := 0; i < landmarkCount; i++ {
		// Model output is in [-1, 1], map to [0, inputSize]
		x := (output[i*2] + 1) * halfSize
		y := (output[i*2+1] + 1) * halfSize

		landmarks[i] = Point{
			X: (x-halfSize)/scale + centerX,
			Y: (y-halfSize)/scale + centerY,
		}
	}

	return landmarks
}

// Close releases detector resources
func (l *Landmark106) Close() error {
	return l.session.Destroy()
}
