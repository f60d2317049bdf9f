// Package engine implements the pixel-trigger keystroke engine: it
// compiles persisted event records into runtime match descriptors,
// evaluates them against captured frames, resolves the condition graph,
// arbitrates group winners and dispatches simulated key presses on a
// polling loop.
package engine

import (
	"image"

	"pixelkey-go/domain/profile"
)

// RGB is an exact 3-channel reference color.
type RGB [3]uint8

// CheckPoint is one sampled position/color pair used to approximate a
// full region comparison without touching every pixel.
type CheckPoint struct {
	Pos   image.Point
	Color RGB
}

// Descriptor is one compiled event, immutable for the lifetime of a
// processor run.
type Descriptor struct {
	// Name is the label other events' conditions refer to.
	Name string

	// Mode selects pixel or region matching.
	Mode profile.MatchMode

	// Center is the absolute on-screen target point.
	Center image.Point

	// Rel is the target point relative to the shared capture
	// rectangle's origin, fixed at compile time.
	Rel image.Point

	// RefColor is the expected color at the target point.
	RefColor RGB

	// CheckPoints sample the reference sub-image for region matching.
	// Nil means no reference sub-image existed, so the event can never
	// region-match; an empty non-nil slice matches vacuously.
	CheckPoints []CheckPoint

	// RegionW and RegionH are the region-mode extents.
	RegionW int
	RegionH int

	// Invert flips the match result when the comparison was evaluable.
	Invert bool

	// Key is the canonical key name to press, "" for none.
	Key string

	// DurMS is the nominal hold duration in milliseconds; nil draws
	// from the default press range.
	DurMS *float64
	// RandMS is symmetric hold-duration jitter in milliseconds.
	RandMS *float64

	// Group and Priority drive arbitration; lower priority wins.
	Group    string
	Priority int

	// Exec gates dispatch. Evaluation-only events still feed the
	// condition graph.
	Exec bool

	// Conditions are AND-combined requirements on other events'
	// effective states.
	Conditions map[string]bool

	// Independent events run outside grouping and condition
	// resolution, against their own capture.
	Independent bool
}

// Compiled is the output of compiling one profile's event records.
type Compiled struct {
	// Events are the non-independent descriptors, in compile order.
	Events []*Descriptor
	// Independent are the events running on their own capture/cadence.
	Independent []*Descriptor
	// CaptureRect is the smallest rectangle covering every
	// non-independent event's target point, or nil when none qualify.
	CaptureRect *image.Rectangle
}

// Count returns the total number of compiled descriptors.
func (c *Compiled) Count() int {
	return len(c.Events) + len(c.Independent)
}
