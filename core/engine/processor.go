package engine

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"pixelkey-go/core/event"
	"pixelkey-go/core/eventbus"
	"pixelkey-go/core/state"
	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
	"pixelkey-go/domain/settings"
	"pixelkey-go/infrastructure/capture"
	"pixelkey-go/infrastructure/input"
	"pixelkey-go/infrastructure/process"
)

// delay while the target process is in the background.
const foregroundIdleDelay = 500 * time.Millisecond

// Config wires one processor run.
type Config struct {
	ProfileName  string
	Events       []profile.Event
	ModifierKeys map[string]profile.ModifierRule

	// TargetPID gates evaluation on the process being foreground;
	// 0 means always evaluate.
	TargetPID int

	Settings  *settings.Settings
	Grabber   capture.Grabber
	Simulator input.Simulator
	Modifiers input.ModifierState
	Process   process.Checker
	KeyTable  keymap.Table
	Bus       eventbus.EventBus
	Logger    *slog.Logger
}

// Processor runs one profile: a polling loop over a shared capture for
// the grouped events plus one loop per independent event. Effective
// states from each tick are committed as the fallback for the next.
type Processor struct {
	cfg      Config
	compiled *Compiled
	exec     *Executor
	mods     *ModifierHandler
	logger   *slog.Logger

	running atomic.Bool

	stateMu sync.Mutex
	st      state.ProcessorState

	statesMu      sync.Mutex
	currentStates map[string]bool

	// consecutive dispatch counts per key, for the repeat cap.
	repeatCounts map[string]int

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pressWG sync.WaitGroup
}

// NewProcessor compiles the profile's events and prepares a processor.
// It does not start any loops.
func NewProcessor(cfg Config) *Processor {
	if cfg.Settings == nil {
		cfg.Settings = settings.Default()
	}
	if cfg.KeyTable == nil {
		cfg.KeyTable = keymap.Native()
	}
	if cfg.Simulator == nil {
		cfg.Simulator = input.NoopSimulator{}
	}
	if cfg.Modifiers == nil {
		cfg.Modifiers = input.NoModifiers{}
	}
	if cfg.Process == nil {
		cfg.Process = process.AlwaysActive{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &Processor{
		cfg:           cfg,
		compiled:      Compile(cfg.Events, cfg.KeyTable),
		logger:        cfg.Logger.With("profile", cfg.ProfileName),
		st:            state.StateIdle,
		currentStates: make(map[string]bool),
		repeatCounts:  make(map[string]int),
	}
	p.exec = NewExecutor(
		cfg.Simulator,
		cfg.KeyTable,
		time.Duration(cfg.Settings.KeyPressedTimeMinMS)*time.Millisecond,
		time.Duration(cfg.Settings.KeyPressedTimeMaxMS)*time.Millisecond,
	)
	if len(cfg.ModifierKeys) > 0 {
		p.mods = NewModifierHandler(cfg.ModifierKeys, cfg.KeyTable, cfg.Modifiers, p.exec, p.logger)
	}
	return p
}

// Compiled exposes the compile result, for inspection and tests.
func (p *Processor) Compiled() *Compiled {
	return p.compiled
}

// State returns the current lifecycle state.
func (p *Processor) State() state.ProcessorState {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.st
}

// CurrentStates returns a copy of the last committed effective states.
func (p *Processor) CurrentStates() map[string]bool {
	p.statesMu.Lock()
	defer p.statesMu.Unlock()
	out := make(map[string]bool, len(p.currentStates))
	for k, v := range p.currentStates {
		out[k] = v
	}
	return out
}

// Start launches the polling loops. It fails if the processor is not
// idle or the profile compiled to nothing runnable.
func (p *Processor) Start() error {
	if err := p.transition(state.StateRunning); err != nil {
		return err
	}
	if p.compiled.Count() == 0 {
		p.logger.Warn("No runnable events after compilation")
		p.forceTerminated()
		p.publish(event.NewProcessorStopped(p.cfg.ProfileName, event.StopReasonNoEvents, nil))
		return fmt.Errorf("profile %s: no runnable events", p.cfg.ProfileName)
	}

	p.running.Store(true)
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.wg.Add(1)
	go p.run()
	for _, d := range p.compiled.Independent {
		p.wg.Add(1)
		go p.runIndependent(d)
	}

	p.publish(event.NewProcessorStarted(p.cfg.ProfileName, p.cfg.TargetPID, p.compiled.Count()))
	p.logger.Info("Processor started",
		"events", len(p.compiled.Events),
		"independent", len(p.compiled.Independent),
	)
	return nil
}

// Stop signals termination, waits for the loops and any in-flight
// presses to drain, and publishes the stop. Safe to call once per run.
func (p *Processor) Stop() {
	if !p.running.Load() {
		return
	}
	if err := p.transition(state.StateStopping); err != nil {
		return
	}
	p.running.Store(false)
	p.exec.Terminate()
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		p.pressWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		p.logger.Warn("Processor stop timeout")
	}

	p.transition(state.StateTerminated)
	p.publish(event.NewProcessorStopped(p.cfg.ProfileName, event.StopReasonManual, nil))
	p.logger.Info("Processor stopped")
}

// run is the main polling loop over the shared capture rectangle.
func (p *Processor) run() {
	defer p.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("Processor loop panicked", "error", rec)
			p.publish(event.NewProcessorStopped(p.cfg.ProfileName, event.StopReasonError, fmt.Errorf("panic: %v", rec)))
		}
	}()

	for p.running.Load() {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		if !p.targetForeground() {
			p.sleep(foregroundIdleDelay)
			continue
		}

		if p.mods != nil && p.mods.CheckAndProcess() {
			p.sleepJitter()
			continue
		}

		if p.compiled.CaptureRect != nil {
			frame, err := p.cfg.Grabber.Grab(*p.compiled.CaptureRect)
			if err != nil {
				p.logger.Warn("Screen capture failed", "error", err)
				p.publish(event.NewCaptureFailed(p.cfg.ProfileName, err))
				p.sleepJitter()
				continue
			}
			p.tick(frame)
		}

		p.sleepJitter()
	}
}

// tick evaluates one captured frame end to end: raw matches, condition
// resolution, arbitration, dispatch, then state commit.
func (p *Processor) tick(frame *image.RGBA) {
	raw := make(map[string]bool, len(p.compiled.Events))
	for _, d := range p.compiled.Events {
		if _, ok := raw[d.Name]; !ok {
			raw[d.Name] = CheckMatch(frame, d, false)
		}
	}

	fallback := p.CurrentStates()
	resolved := ResolveEffectiveStates(p.compiled.Events, raw, fallback)

	var candidates []*Descriptor
	for _, d := range p.compiled.Events {
		if d.Exec && resolved[d.Name] {
			candidates = append(candidates, d)
		}
	}
	winners := p.applyRepeatCap(SelectByGroupPriority(candidates))

	dispatched := make([]string, 0, len(winners))
	for _, d := range winners {
		dispatched = append(dispatched, d.Name)
		p.dispatch(d)
	}

	p.statesMu.Lock()
	p.currentStates = resolved
	p.statesMu.Unlock()

	p.publish(event.NewTickCompleted(p.cfg.ProfileName, dispatched))
}

// dispatch presses the winner's key on its own goroutine so a long
// hold never stalls the tick cadence.
func (p *Processor) dispatch(d *Descriptor) {
	p.pressWG.Add(1)
	go func() {
		defer p.pressWG.Done()
		hold, err := p.exec.Press(d)
		if err != nil {
			p.logger.Warn("Key press failed", "event", d.Name, "key", d.Key, "error", err)
			p.publish(event.NewPressFailed(p.cfg.ProfileName, d.Name, d.Key, err))
			return
		}
		if hold > 0 {
			p.publish(event.NewKeyPressed(p.cfg.ProfileName, d.Name, d.Key, hold))
		}
	}()
}

// applyRepeatCap drops winners whose key has already been dispatched
// the configured number of consecutive ticks. A tick without the key
// resets its count. A cap of zero disables the check.
func (p *Processor) applyRepeatCap(winners []*Descriptor) []*Descriptor {
	max := p.cfg.Settings.MaxKeyCount
	if max <= 0 {
		return winners
	}
	counts := make(map[string]int, len(winners))
	kept := winners[:0]
	for _, d := range winners {
		if d.Key == "" {
			kept = append(kept, d)
			continue
		}
		n := p.repeatCounts[d.Key] + 1
		counts[d.Key] = n
		if n <= max {
			kept = append(kept, d)
		}
	}
	p.repeatCounts = counts
	return kept
}

// runIndependent polls one independent event against its own capture.
func (p *Processor) runIndependent(d *Descriptor) {
	defer p.wg.Done()

	rect := BuildCaptureRect(d)
	log := p.logger.With("event", d.Name)

	for p.running.Load() {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		if !p.targetForeground() {
			p.sleep(foregroundIdleDelay)
			continue
		}

		frame, err := p.cfg.Grabber.Grab(rect)
		if err != nil {
			log.Warn("Screen capture failed", "error", err)
			p.publish(event.NewCaptureFailed(p.cfg.ProfileName, err))
			p.sleepJitter()
			continue
		}

		if CheckMatch(frame, d, true) && d.Exec {
			hold, err := p.exec.Press(d)
			if err != nil {
				log.Warn("Key press failed", "key", d.Key, "error", err)
				p.publish(event.NewPressFailed(p.cfg.ProfileName, d.Name, d.Key, err))
			} else if hold > 0 {
				p.publish(event.NewKeyPressed(p.cfg.ProfileName, d.Name, d.Key, hold))
			}
		}

		p.sleepJitter()
	}
}

func (p *Processor) targetForeground() bool {
	if p.cfg.TargetPID == 0 {
		return true
	}
	return p.cfg.Process.IsForeground(p.cfg.TargetPID)
}

// sleepJitter waits a uniform draw from the configured inter-tick
// range, returning early on cancellation.
func (p *Processor) sleepJitter() {
	min := time.Duration(p.cfg.Settings.DelayBetweenLoopMinMS) * time.Millisecond
	max := time.Duration(p.cfg.Settings.DelayBetweenLoopMaxMS) * time.Millisecond
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min + 1)))
	}
	p.sleep(d)
}

func (p *Processor) sleep(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.ctx.Done():
	case <-timer.C:
	}
}

func (p *Processor) transition(target state.ProcessorState) error {
	p.stateMu.Lock()
	old := p.st
	if !old.CanTransitionTo(target) {
		p.stateMu.Unlock()
		return state.NewTransitionError(old, target, "invalid processor transition")
	}
	p.st = target
	p.stateMu.Unlock()
	p.publish(event.NewProcessorStateChanged(p.cfg.ProfileName, old, target))
	return nil
}

// forceTerminated jumps straight to terminated when the run never got
// going.
func (p *Processor) forceTerminated() {
	p.stateMu.Lock()
	old := p.st
	p.st = state.StateTerminated
	p.stateMu.Unlock()
	p.publish(event.NewProcessorStateChanged(p.cfg.ProfileName, old, state.StateTerminated))
}

func (p *Processor) publish(e event.Event) {
	if p.cfg.Bus != nil {
		p.cfg.Bus.Publish(e)
	}
}
