package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"pixelkey-go/domain/keymap"
	"pixelkey-go/infrastructure/input"
)

// minPressDuration is the shortest hold the simulator reliably
// registers; calculated durations never go below it.
const minPressDuration = 50 * time.Millisecond

// repeat guard pause after a release, before the same key can fire
// again.
const (
	pressCooldownMin = 25 * time.Millisecond
	pressCooldownMax = 50 * time.Millisecond
)

// Executor drives the key simulator. It holds a set of currently
// pressed keys so concurrent press tasks for the same key collapse to
// one, and a terminated flag that turns every later press into a
// no-op.
type Executor struct {
	sim        input.Simulator
	keys       keymap.Table
	pressMin   time.Duration
	pressMax   time.Duration
	terminated atomic.Bool

	mu      sync.Mutex
	pressed map[string]struct{}
}

// NewExecutor builds an executor pressing keys through sim, resolving
// key codes against keys, with the default hold range [pressMin,
// pressMax] for events that carry no duration of their own.
func NewExecutor(sim input.Simulator, keys keymap.Table, pressMin, pressMax time.Duration) *Executor {
	return &Executor{
		sim:      sim,
		keys:     keys,
		pressMin: pressMin,
		pressMax: pressMax,
		pressed:  make(map[string]struct{}),
	}
}

// Terminate makes every subsequent Press a no-op. Presses already in
// flight finish their hold and release normally.
func (x *Executor) Terminate() {
	x.terminated.Store(true)
}

// CalculatePressDuration picks the hold time for one press: the
// event's own duration, or a uniform draw from the default range, plus
// symmetric jitter when configured, floored at the minimum the
// simulator registers.
func (x *Executor) CalculatePressDuration(d *Descriptor) time.Duration {
	var dur time.Duration
	if d.DurMS != nil {
		dur = time.Duration(*d.DurMS * float64(time.Millisecond))
	} else {
		dur = x.pressMin + time.Duration(rand.Int63n(int64(x.pressMax-x.pressMin)+1))
	}
	if d.RandMS != nil && *d.RandMS > 0 {
		jitter := *d.RandMS * float64(time.Millisecond)
		dur += time.Duration((rand.Float64()*2 - 1) * jitter)
	}
	if dur < minPressDuration {
		dur = minPressDuration
	}
	return dur
}

// Press performs one synchronous press-hold-release for the
// descriptor's key. It silently does nothing when the executor is
// terminated, the event has no usable key, or the key is already held
// by another in-flight press. The key is removed from the held set on
// every exit path. A simulator failure is returned to this press's
// caller only.
func (x *Executor) Press(d *Descriptor) (time.Duration, error) {
	if x.terminated.Load() || d.Key == "" {
		return 0, nil
	}
	code, ok := x.keys.Code(d.Key)
	if !ok {
		return 0, nil
	}

	x.mu.Lock()
	if _, held := x.pressed[d.Key]; held {
		x.mu.Unlock()
		return 0, nil
	}
	x.pressed[d.Key] = struct{}{}
	x.mu.Unlock()

	defer func() {
		x.mu.Lock()
		delete(x.pressed, d.Key)
		x.mu.Unlock()
	}()

	dur := x.CalculatePressDuration(d)
	if err := x.sim.Press(code); err != nil {
		return 0, fmt.Errorf("press %s: %w", d.Key, err)
	}
	time.Sleep(dur)
	if err := x.sim.Release(code); err != nil {
		return dur, fmt.Errorf("release %s: %w", d.Key, err)
	}
	cooldown := pressCooldownMin + time.Duration(rand.Int63n(int64(pressCooldownMax-pressCooldownMin)+1))
	time.Sleep(cooldown)
	return dur, nil
}
