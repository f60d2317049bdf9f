// Package profile defines persisted event profiles for the keystroke
// engine and their on-disk JSON storage.
package profile

import "image"

// MatchMode selects the matching strategy for an event.
type MatchMode string

const (
	// MatchModePixel compares a single target pixel against a reference
	// color.
	MatchModePixel MatchMode = "pixel"
	// MatchModeRegion compares sampled checkpoints of a reference
	// sub-image against the live region around the target point.
	MatchModeRegion MatchMode = "region"
)

// Event is one persisted event record, the raw material the engine
// compiler turns into runtime descriptors.
type Event struct {
	// Name labels the event and is the vocabulary for Conditions.
	// Uniqueness within a profile is not enforced here.
	Name string

	// Enabled excludes the event from compilation when false.
	Enabled bool

	// LatestPosition and ClickedPosition together give the absolute
	// on-screen target point (window origin plus in-window click).
	LatestPosition  image.Point
	ClickedPosition image.Point

	// RefPixel is the expected color at the target point, RGB order.
	// Records with fewer than 3 channels cannot pixel-match.
	RefPixel []uint8

	// Key is the key name to press. Empty means no key.
	Key string

	// PressDurationMS is the nominal hold duration; nil draws from the
	// configured default press range.
	PressDurationMS *float64
	// RandomizationMS is symmetric jitter added to the hold duration.
	RandomizationMS *float64

	// Independent removes the event from grouping and condition
	// resolution; it runs on its own capture and cadence.
	Independent bool

	// MatchMode selects pixel or region matching.
	MatchMode MatchMode

	// Invert flips the boolean match result.
	Invert bool

	// RegionW and RegionH are the region-mode extents.
	RegionW int
	RegionH int

	// Execute controls whether the event presses its key when active.
	// Evaluation-only events still participate in condition chains.
	Execute bool

	// Group and Priority drive arbitration; lower priority wins.
	Group    string
	Priority int

	// Conditions are AND-combined requirements on other events'
	// effective states.
	Conditions map[string]bool

	// HeldImage is the reference sub-image region-mode checkpoints are
	// sampled from. Nil means the event cannot region-match.
	HeldImage image.Image
}

// AbsolutePosition returns the on-screen target point.
func (e *Event) AbsolutePosition() image.Point {
	return image.Point{
		X: e.LatestPosition.X + e.ClickedPosition.X,
		Y: e.LatestPosition.Y + e.ClickedPosition.Y,
	}
}

// ModifierRule configures handling for one physical modifier key
// (Alt/Ctrl/Shift) while the engine is running.
type ModifierRule struct {
	// Enabled activates the rule.
	Enabled bool
	// Value is the key name to press while the modifier is held.
	Value string
	// Pass suppresses the mapped press, letting the modifier pass
	// through to the target application untouched.
	Pass bool
}

// Profile is a named set of events plus modifier-key configuration.
type Profile struct {
	Name         string
	Events       []Event
	ModifierKeys map[string]ModifierRule
	Favorite     bool
}
