// Package source resolves and opens video sources. A source delivers
// frames one Read at a time; IsUpdated reports whether the last Read
// produced a genuinely new frame, as opposed to a stale re-delivery
// from an asynchronous capture buffer.
package source

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Source is one opened video source. Read advances to the next frame
// and reports whether the source can still deliver; IsUpdated and
// Frame describe the result of the last Read.
type Source interface {
	Read() bool
	IsUpdated() bool
	Frame() *gocv.Mat
	Close() error
}

// Open constructs and opens the source a Spec selects.
func Open(spec Spec) (Source, error) {
	switch spec.Kind {
	case KindDataset:
		return OpenFile(spec.Path)
	case KindLiveDevice:
		return OpenDevice(spec.DeviceID, spec.Width, spec.Height)
	default:
		return nil, fmt.Errorf("no video source specified")
	}
}
