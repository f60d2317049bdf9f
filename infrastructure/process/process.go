// Package process provides the foreground-process check the engine
// consults before each tick.
package process

// Checker reports whether the target process currently owns the
// foreground window. The engine skips ticks while it does not.
type Checker interface {
	IsForeground(pid int) bool
}

// AlwaysActive treats every process as foreground. Used on platforms
// without window tracking and in tests.
type AlwaysActive struct{}

func (AlwaysActive) IsForeground(int) bool { return true }

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(pid int) bool

func (f CheckerFunc) IsForeground(pid int) bool { return f(pid) }
