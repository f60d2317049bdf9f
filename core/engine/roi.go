package engine

import (
	"image"
	"image/draw"

	"pixelkey-go/domain/profile"
)

// BuildCaptureRect returns the screen rectangle an independent event
// captures on its own: a single pixel in pixel mode, or the region
// extents centered on the target point.
func BuildCaptureRect(d *Descriptor) image.Rectangle {
	if d.Mode == profile.MatchModeRegion {
		x0 := d.Center.X - d.RegionW/2
		y0 := d.Center.Y - d.RegionH/2
		return image.Rect(x0, y0, x0+d.RegionW, y0+d.RegionH)
	}
	return image.Rect(d.Center.X, d.Center.Y, d.Center.X+1, d.Center.Y+1)
}

// ExtractROI cuts the descriptor's region out of a captured frame,
// re-based at the origin. The region is centered on the in-frame
// target point; if any edge falls outside the frame the result is nil.
// Independent events own their whole capture, so they get the frame
// back unchanged.
func ExtractROI(frame *image.RGBA, d *Descriptor, independent bool) *image.RGBA {
	if independent {
		return frame
	}
	b := frame.Bounds()
	x0 := d.Rel.X - d.RegionW/2
	y0 := d.Rel.Y - d.RegionH/2
	if x0 < 0 || y0 < 0 || x0+d.RegionW > b.Dx() || y0+d.RegionH > b.Dy() {
		return nil
	}
	roi := image.NewRGBA(image.Rect(0, 0, d.RegionW, d.RegionH))
	src := image.Rect(x0, y0, x0+d.RegionW, y0+d.RegionH).Add(b.Min)
	draw.Draw(roi, roi.Bounds(), frame, src.Min, draw.Src)
	return roi
}
