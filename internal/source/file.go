package source

import (
	"fmt"

	"gocv.io/x/gocv"
)

// File reads frames from a video file. Decoding is synchronous, so
// every successful read of a non-empty frame is an updated frame; the
// source is exhausted when Read returns false.
type File struct {
	capture *gocv.VideoCapture
	path    string
	frame   gocv.Mat
	updated bool
}

// OpenFile opens a video file source.
func OpenFile(path string) (*File, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file %s: %w", path, err)
	}

	return &File{
		capture: capture,
		path:    path,
		frame:   gocv.NewMat(),
	}, nil
}

// Read advances to the next frame.
func (f *File) Read() bool {
	if f.capture == nil {
		return false
	}
	ok := f.capture.Read(&f.frame)
	f.updated = ok && !f.frame.Empty()
	return ok
}

// IsUpdated reports whether the last Read produced a new frame.
func (f *File) IsUpdated() bool {
	return f.updated
}

// Frame returns the current frame buffer.
func (f *File) Frame() *gocv.Mat {
	return &f.frame
}

// TotalFrames returns the container's frame count, or 0 when the
// container does not report one.
func (f *File) TotalFrames() int {
	if f.capture == nil {
		return 0
	}
	n := int(f.capture.Get(gocv.VideoCaptureFrameCount))
	if n < 0 {
		return 0
	}
	return n
}

// Close releases the decoder and the frame buffer.
func (f *File) Close() error {
	f.frame.Close()
	if f.capture != nil {
		err := f.capture.Close()
		f.capture = nil
		return err
	}
	return nil
}
