package source

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Device captures frames from a local camera. The device's capture
// buffer is asynchronous: a grab can re-deliver the previous frame or
// an empty one before the camera warms up, which IsUpdated reports as
// stale. A device source never exhausts on its own; the run ends via
// preview cancellation or device failure.
type Device struct {
	webcam   *gocv.VideoCapture
	deviceID int
	width    int
	height   int
	frame    gocv.Mat
	updated  bool
	mu       sync.Mutex
}

// OpenDevice opens a camera device. Width and height are requests; the
// device may renegotiate, so the actual dimensions are read back and
// each captured frame records its own size.
func OpenDevice(deviceID, width, height int) (*Device, error) {
	webcam, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", deviceID, err)
	}

	if width > 0 {
		webcam.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	// The camera may not honor the requested resolution
	actualWidth := int(webcam.Get(gocv.VideoCaptureFrameWidth))
	actualHeight := int(webcam.Get(gocv.VideoCaptureFrameHeight))

	return &Device{
		webcam:   webcam,
		deviceID: deviceID,
		width:    actualWidth,
		height:   actualHeight,
		frame:    gocv.NewMat(),
	}, nil
}

// Read grabs the next frame from the device.
func (d *Device) Read() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.webcam == nil {
		return false
	}

	ok := d.webcam.Read(&d.frame)
	d.updated = ok && !d.frame.Empty()
	return ok
}

// IsUpdated reports whether the last Read produced a new frame.
func (d *Device) IsUpdated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updated
}

// Frame returns the current frame buffer.
func (d *Device) Frame() *gocv.Mat {
	return &d.frame
}

// Width returns the negotiated frame width.
func (d *Device) Width() int {
	return d.width
}

// Height returns the negotiated frame height.
func (d *Device) Height() int {
	return d.height
}

// Close releases the camera and the frame buffer.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.frame.Close()
	if d.webcam != nil {
		err := d.webcam.Close()
		d.webcam = nil
		return err
	}
	return nil
}
