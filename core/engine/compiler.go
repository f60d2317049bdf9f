package engine

import (
	"image"
	"math"

	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
)

// checkpoint density: one sample per 100 region pixels, clamped.
const (
	checkPointsMin       = 5
	checkPointsMax       = 25
	checkPointPixelRatio = 100
)

type eventSignature struct {
	pos   image.Point
	color RGB
	key   string
}

// Compile turns persisted event records into runtime descriptors.
// Disabled records are dropped, pixel-mode records without a full
// 3-channel reference color are dropped, and records that collapse to
// the same (position, color, key) signature are deduplicated keeping
// the first occurrence. Key names are normalized against the key
// table; unknown keys compile with no key to press.
func Compile(events []profile.Event, keys keymap.Table) *Compiled {
	compiled := &Compiled{}
	seen := make(map[eventSignature]bool)

	for i := range events {
		rec := &events[i]
		if !rec.Enabled {
			continue
		}
		if rec.MatchMode == profile.MatchModePixel && len(rec.RefPixel) < 3 {
			continue
		}

		d := &Descriptor{
			Name:        rec.Name,
			Mode:        rec.MatchMode,
			Center:      rec.AbsolutePosition(),
			Invert:      rec.Invert,
			DurMS:       rec.PressDurationMS,
			RandMS:      rec.RandomizationMS,
			Group:       rec.Group,
			Priority:    rec.Priority,
			Exec:        rec.Execute,
			Independent: rec.Independent,
		}
		if len(rec.RefPixel) >= 3 {
			d.RefColor = RGB{rec.RefPixel[0], rec.RefPixel[1], rec.RefPixel[2]}
		}
		if name, ok := keys.Normalize(rec.Key); ok {
			d.Key = name
		}
		if len(rec.Conditions) > 0 {
			d.Conditions = make(map[string]bool, len(rec.Conditions))
			for name, want := range rec.Conditions {
				d.Conditions[name] = want
			}
		}
		if rec.MatchMode == profile.MatchModeRegion {
			d.RegionW = rec.RegionW
			d.RegionH = rec.RegionH
			if rec.HeldImage != nil && rec.RegionW > 0 && rec.RegionH > 0 {
				d.CheckPoints = buildCheckPoints(rec.HeldImage, rec.RegionW, rec.RegionH)
			}
		}

		sig := eventSignature{pos: d.Center, color: d.RefColor, key: d.Key}
		if seen[sig] {
			continue
		}
		seen[sig] = true

		if d.Independent {
			compiled.Independent = append(compiled.Independent, d)
		} else {
			compiled.Events = append(compiled.Events, d)
		}
	}

	if rect := boundingRect(compiled.Events); rect != nil {
		compiled.CaptureRect = rect
		for _, d := range compiled.Events {
			d.Rel = d.Center.Sub(rect.Min)
		}
	}
	return compiled
}

// boundingRect covers every descriptor's center point, both edges
// inclusive. Returns nil when there is nothing to cover.
func boundingRect(events []*Descriptor) *image.Rectangle {
	if len(events) == 0 {
		return nil
	}
	rect := image.Rectangle{Min: events[0].Center, Max: events[0].Center}
	for _, d := range events[1:] {
		p := d.Center
		if p.X < rect.Min.X {
			rect.Min.X = p.X
		}
		if p.Y < rect.Min.Y {
			rect.Min.Y = p.Y
		}
		if p.X > rect.Max.X {
			rect.Max.X = p.X
		}
		if p.Y > rect.Max.Y {
			rect.Max.Y = p.Y
		}
	}
	rect.Max.X++
	rect.Max.Y++
	return &rect
}

// buildCheckPoints samples the reference sub-image on an evenly spaced
// near-square grid. The grid always includes both extreme corners, and
// extra positions beyond the target count are trimmed from the tail,
// never dropping a corner.
func buildCheckPoints(ref image.Image, w, h int) []CheckPoint {
	n := w * h / checkPointPixelRatio
	if n < checkPointsMin {
		n = checkPointsMin
	}
	if n > checkPointsMax {
		n = checkPointsMax
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	var points []image.Point
	seen := make(map[image.Point]bool)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := image.Point{X: gridCoord(c, cols, w), Y: gridCoord(r, rows, h)}
			if !seen[p] {
				seen[p] = true
				points = append(points, p)
			}
		}
	}

	if len(points) > n {
		corners := map[image.Point]bool{
			{X: 0, Y: 0}:         true,
			{X: w - 1, Y: h - 1}: true,
		}
		trimmed := points[:0]
		drop := len(points) - n
		for i := len(points) - 1; i >= 0; i-- {
			if drop > 0 && !corners[points[i]] {
				drop--
				points[i] = image.Point{X: -1, Y: -1}
			}
		}
		for _, p := range points {
			if p.X >= 0 {
				trimmed = append(trimmed, p)
			}
		}
		points = trimmed
	}

	min := ref.Bounds().Min
	cps := make([]CheckPoint, len(points))
	for i, p := range points {
		r, g, b, _ := ref.At(min.X+p.X, min.Y+p.Y).RGBA()
		cps[i] = CheckPoint{
			Pos:   p,
			Color: RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)},
		}
	}
	return cps
}

// gridCoord spreads grid index i over [0, extent-1] inclusive.
func gridCoord(i, count, extent int) int {
	if count <= 1 || extent <= 1 {
		return 0
	}
	return i * (extent - 1) / (count - 1)
}
