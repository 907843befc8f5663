package source

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUsage marks an invocation shape error. It is always detected
// before any model or video source is opened.
var ErrUsage = errors.New("usage error")

// Kind discriminates the two accepted source shapes.
type Kind int

const (
	// KindDataset reads a video file from disk.
	KindDataset Kind = iota
	// KindLiveDevice captures from a local camera device.
	KindLiveDevice
)

// Spec is the fully resolved source selection for one run. Exactly one
// shape is active: Path for datasets, DeviceID plus the requested
// capture size for live devices. Components downstream of the CLI
// never re-inspect the raw argument; they consume this.
type Spec struct {
	Kind     Kind
	Path     string
	DeviceID int
	Width    int // requested capture width, 0 = device default
	Height   int // requested capture height, 0 = device default
	Scale    float32
	Preview  bool
}

// Options carries the tuning flags that accompany the source argument.
type Options struct {
	Scale   float64
	Preview bool
	Width   int
	Height  int
}

// Resolve turns the raw SOURCE argument and its flags into a Spec. A
// numeric argument selects a live device, anything else is a dataset
// path. Live devices always preview; width/height apply to live
// devices only.
func Resolve(arg string, opts Options) (Spec, error) {
	if arg == "" {
		return Spec{}, fmt.Errorf("%w: no video source specified", ErrUsage)
	}
	if opts.Scale < 0 {
		return Spec{}, fmt.Errorf("%w: scale must be non-negative, got %v", ErrUsage, opts.Scale)
	}
	if opts.Width < 0 || opts.Height < 0 {
		return Spec{}, fmt.Errorf("%w: width/height must be non-negative", ErrUsage)
	}

	if deviceID, err := strconv.Atoi(arg); err == nil {
		if deviceID < 0 {
			return Spec{}, fmt.Errorf("%w: device id must be non-negative, got %d", ErrUsage, deviceID)
		}
		return Spec{
			Kind:     KindLiveDevice,
			DeviceID: deviceID,
			Width:    opts.Width,
			Height:   opts.Height,
			Scale:    float32(opts.Scale),
			Preview:  true,
		}, nil
	}

	if opts.Width != 0 || opts.Height != 0 {
		return Spec{}, fmt.Errorf("%w: width/height apply to live devices only", ErrUsage)
	}

	return Spec{
		Kind:    KindDataset,
		Path:    arg,
		Scale:   float32(opts.Scale),
		Preview: opts.Preview,
	}, nil
}

// String describes the source for logs and persisted runs.
func (s Spec) String() string {
	if s.Kind == KindLiveDevice {
		return fmt.Sprintf("device:%d", s.DeviceID)
	}
	return s.Path
}
