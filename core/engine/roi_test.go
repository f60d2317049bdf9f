package engine

import (
	"image"
	"image/color"
	"testing"

	"pixelkey-go/domain/profile"
)

func TestBuildCaptureRect(t *testing.T) {
	t.Run("pixel mode is one pixel", func(t *testing.T) {
		d := &Descriptor{Mode: profile.MatchModePixel, Center: image.Point{X: 40, Y: 70}}
		if got := BuildCaptureRect(d); got != image.Rect(40, 70, 41, 71) {
			t.Errorf("rect %v", got)
		}
	})

	t.Run("region mode centers the extents", func(t *testing.T) {
		d := &Descriptor{
			Mode:   profile.MatchModeRegion,
			Center: image.Point{X: 100, Y: 100},
			RegionW: 31, RegionH: 20,
		}
		// 31/2 and 20/2 truncate
		if got := BuildCaptureRect(d); got != image.Rect(85, 90, 116, 110) {
			t.Errorf("rect %v", got)
		}
	})
}

func TestExtractROI(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			frame.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	t.Run("region rebased at origin", func(t *testing.T) {
		d := &Descriptor{
			Mode: profile.MatchModeRegion,
			Rel:  image.Point{X: 10, Y: 10},
			RegionW: 5, RegionH: 4,
		}
		roi := ExtractROI(frame, d, false)
		if roi == nil {
			t.Fatal("expected ROI")
		}
		if roi.Bounds() != image.Rect(0, 0, 5, 4) {
			t.Fatalf("bounds %v", roi.Bounds())
		}
		// top-left of the ROI maps to frame (10-5/2, 10-4/2) = (8, 8)
		if c := roi.RGBAAt(0, 0); c.R != 8 || c.G != 8 {
			t.Errorf("origin pixel (%d,%d)", c.R, c.G)
		}
	})

	t.Run("any edge out of frame is nil", func(t *testing.T) {
		cases := []image.Point{
			{X: 1, Y: 10},  // left edge underflows
			{X: 10, Y: 1},  // top edge underflows
			{X: 19, Y: 10}, // right edge overflows
			{X: 10, Y: 19}, // bottom edge overflows
		}
		for _, rel := range cases {
			d := &Descriptor{Mode: profile.MatchModeRegion, Rel: rel, RegionW: 6, RegionH: 6}
			if roi := ExtractROI(frame, d, false); roi != nil {
				t.Errorf("rel %v: expected nil ROI", rel)
			}
		}
	})

	t.Run("independent gets the whole frame", func(t *testing.T) {
		d := &Descriptor{Mode: profile.MatchModeRegion, RegionW: 6, RegionH: 6}
		if roi := ExtractROI(frame, d, true); roi != frame {
			t.Error("expected the frame itself")
		}
	})
}
