package engine

import (
	"image"

	"pixelkey-go/domain/profile"
)

// CheckMatch evaluates one descriptor against a captured frame and
// returns its raw match state. Inversion applies only when the
// comparison itself was evaluable; an out-of-bounds target or a
// missing reference yields false regardless of Invert.
func CheckMatch(frame *image.RGBA, d *Descriptor, independent bool) bool {
	if d.Mode == profile.MatchModeRegion {
		return checkRegion(frame, d, independent)
	}
	return checkPixel(frame, d, independent)
}

func checkPixel(frame *image.RGBA, d *Descriptor, independent bool) bool {
	// Independent captures are a single pixel; the target is its only
	// sample regardless of where the rectangle sits on screen.
	p := d.Rel
	if independent {
		p = image.Point{}
	}
	b := frame.Bounds()
	if p.X < 0 || p.Y < 0 || p.X >= b.Dx() || p.Y >= b.Dy() {
		return false
	}
	c := frame.RGBAAt(b.Min.X+p.X, b.Min.Y+p.Y)
	matched := c.R == d.RefColor[0] && c.G == d.RefColor[1] && c.B == d.RefColor[2]
	if d.Invert {
		matched = !matched
	}
	return matched
}

func checkRegion(frame *image.RGBA, d *Descriptor, independent bool) bool {
	// No reference sub-image was ever supplied, so there is nothing to
	// compare against and the comparison is not evaluable.
	if d.CheckPoints == nil {
		return false
	}
	roi := ExtractROI(frame, d, independent)
	if roi == nil {
		return false
	}
	b := roi.Bounds()
	matched := true
	for _, cp := range d.CheckPoints {
		if cp.Pos.X >= b.Dx() || cp.Pos.Y >= b.Dy() {
			return false
		}
		c := roi.RGBAAt(b.Min.X+cp.Pos.X, b.Min.Y+cp.Pos.Y)
		if c.R != cp.Color[0] || c.G != cp.Color[1] || c.B != cp.Color[2] {
			matched = false
			break
		}
	}
	if d.Invert {
		matched = !matched
	}
	return matched
}
