// Package capture defines the screen-grab boundary the engine polls
// through, plus an image-backed implementation used by tests and tools.
package capture

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
)

// Grabber captures a rectangle of the screen as an RGBA pixel buffer.
// Implementations must be safe for concurrent use; every polling loop
// of a processor grabs through the same Grabber.
type Grabber interface {
	Grab(rect image.Rectangle) (*image.RGBA, error)
}

// ImageGrabber serves grabs from an in-memory image, standing in for a
// live screen. The backing image can be swapped between grabs to script
// screen changes in tests.
type ImageGrabber struct {
	mu  sync.RWMutex
	img image.Image
}

// NewImageGrabber creates a grabber backed by the given image.
func NewImageGrabber(img image.Image) *ImageGrabber {
	return &ImageGrabber{img: img}
}

// SetImage replaces the backing image.
func (g *ImageGrabber) SetImage(img image.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.img = img
}

// Grab copies the requested rectangle out of the backing image. A
// rectangle that leaves the backing bounds is a capture failure, the
// same way a real grab of an off-screen area would be.
func (g *ImageGrabber) Grab(rect image.Rectangle) (*image.RGBA, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.img == nil {
		return nil, fmt.Errorf("no backing image")
	}
	if !rect.In(g.img.Bounds()) {
		return nil, fmt.Errorf("capture rect %v outside screen bounds %v", rect, g.img.Bounds())
	}

	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), g.img, rect.Min, draw.Src)
	return out, nil
}
