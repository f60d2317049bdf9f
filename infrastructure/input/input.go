// Package input abstracts OS key injection and modifier-key state
// behind capability interfaces with one implementation per platform.
package input

import "sync"

// Simulator injects a single virtual key event. The engine only ever
// calls Press and Release with codes from the active keymap table.
type Simulator interface {
	Press(code int) error
	Release(code int) error
}

// ModifierState reports whether a physical modifier key (Alt, Ctrl,
// Shift) is currently held by the user.
type ModifierState interface {
	Held(name string) bool
}

// NoopSimulator discards all key events. Used on platforms without
// native injection and as a safe default.
type NoopSimulator struct{}

func (NoopSimulator) Press(int) error   { return nil }
func (NoopSimulator) Release(int) error { return nil }

// NoModifiers reports every modifier as released.
type NoModifiers struct{}

func (NoModifiers) Held(string) bool { return false }

// KeyAction records one simulated press or release.
type KeyAction struct {
	Code    int
	Release bool
}

// Recorder is a Simulator that records the event sequence, for tests
// and dry runs.
type Recorder struct {
	mu      sync.Mutex
	actions []KeyAction

	// PressErr and ReleaseErr, when set, are returned from the
	// corresponding call to exercise failure paths.
	PressErr   error
	ReleaseErr error
}

func (r *Recorder) Press(code int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PressErr != nil {
		return r.PressErr
	}
	r.actions = append(r.actions, KeyAction{Code: code})
	return nil
}

func (r *Recorder) Release(code int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ReleaseErr != nil {
		return r.ReleaseErr
	}
	r.actions = append(r.actions, KeyAction{Code: code, Release: true})
	return nil
}

// Actions returns a copy of the recorded sequence.
func (r *Recorder) Actions() []KeyAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]KeyAction, len(r.actions))
	copy(out, r.actions)
	return out
}

// Reset clears the recorded sequence.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}
