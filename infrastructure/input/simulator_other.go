//go:build !windows

package input

// NewNativeSimulator returns the platform key simulator. Platforms
// without native injection get a no-op so profiles can still be
// evaluated in dry-run fashion.
func NewNativeSimulator() Simulator { return NoopSimulator{} }

// NewNativeModifiers returns the platform modifier-state reader.
func NewNativeModifiers() ModifierState { return NoModifiers{} }
