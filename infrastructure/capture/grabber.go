package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

type screenGrabber struct{}

// NewNativeGrabber returns a grabber backed by the OS screen-capture API.
// The returned grabber is stateless and safe for concurrent use.
func NewNativeGrabber() Grabber { return screenGrabber{} }

func (screenGrabber) Grab(rect image.Rectangle) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", rect, err)
	}
	return img, nil
}
