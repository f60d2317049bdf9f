// Package application provides the application layer orchestrating
// profile processors.
package application

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pixelkey-go/core/command"
	"pixelkey-go/core/engine"
	"pixelkey-go/core/event"
	"pixelkey-go/core/eventbus"
	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
	"pixelkey-go/domain/settings"
	"pixelkey-go/infrastructure/capture"
	"pixelkey-go/infrastructure/input"
	"pixelkey-go/infrastructure/process"
)

// Coordinator manages the lifecycle of profile processors and handles
// cross-profile operations.
type Coordinator struct {
	processors   map[string]*engine.Processor
	processorsMu sync.RWMutex

	eventBus  eventbus.EventBus
	store     *profile.Store
	settings  *settings.Settings
	grabber   capture.Grabber
	simulator input.Simulator
	modifiers input.ModifierState
	process   process.Checker
	keyTable  keymap.Table
	logger    *slog.Logger
}

// Config holds the Coordinator's dependencies.
type Config struct {
	EventBus  eventbus.EventBus
	Store     *profile.Store
	Settings  *settings.Settings
	Grabber   capture.Grabber
	Simulator input.Simulator
	Modifiers input.ModifierState
	Process   process.Checker
	KeyTable  keymap.Table
	Logger    *slog.Logger
}

// NewCoordinator creates a coordinator. It subscribes to the event bus
// to reap processors that stop on their own.
func NewCoordinator(cfg *Config) *Coordinator {
	if cfg.Settings == nil {
		cfg.Settings = settings.Default()
	}
	if cfg.KeyTable == nil {
		cfg.KeyTable = keymap.Native()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Coordinator{
		processors: make(map[string]*engine.Processor),
		eventBus:   cfg.EventBus,
		store:      cfg.Store,
		settings:   cfg.Settings,
		grabber:    cfg.Grabber,
		simulator:  cfg.Simulator,
		modifiers:  cfg.Modifiers,
		process:    cfg.Process,
		keyTable:   cfg.KeyTable,
		logger:     cfg.Logger,
	}

	if c.eventBus != nil {
		c.eventBus.Subscribe(c.handleEvent)
	}
	return c
}

// Dispatch sends a command to the appropriate handler.
func (c *Coordinator) Dispatch(cmd command.Command) error {
	c.logger.Debug("Dispatching command", "command", cmd.CommandName())

	switch cmd := cmd.(type) {
	case *command.ActivateProfile:
		return c.ActivateProfile(cmd.ProfileName(), cmd.TargetPID)
	case *command.DeactivateProfile:
		return c.Deactivate(cmd.ProfileName())
	case *command.DeactivateAll:
		c.DeactivateAll()
		return nil
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}
}

// ActivateProfile loads the named profile from the store and starts a
// processor for it. A profile can run at most one processor at a time.
func (c *Coordinator) ActivateProfile(name string, targetPID int) error {
	c.processorsMu.Lock()
	defer c.processorsMu.Unlock()

	if _, exists := c.processors[name]; exists {
		return fmt.Errorf("profile already active: %s", name)
	}

	p, err := c.store.Load(name)
	if err != nil {
		return fmt.Errorf("load profile %s: %w", name, err)
	}
	for _, w := range profile.Validate(p) {
		c.logger.Warn("Profile validation warning",
			"profile", name, "kind", w.Kind, "detail", w.Message)
	}

	proc := engine.NewProcessor(engine.Config{
		ProfileName:  name,
		Events:       p.Events,
		ModifierKeys: p.ModifierKeys,
		TargetPID:    targetPID,
		Settings:     c.settings,
		Grabber:      c.grabber,
		Simulator:    c.simulator,
		Modifiers:    c.modifiers,
		Process:      c.process,
		KeyTable:     c.keyTable,
		Bus:          c.eventBus,
		Logger:       c.logger,
	})
	if err := proc.Start(); err != nil {
		return err
	}

	c.processors[name] = proc
	c.logger.Info("Profile activated", "profile", name, "target_pid", targetPID)
	return nil
}

// Deactivate stops the named profile's processor.
func (c *Coordinator) Deactivate(name string) error {
	c.processorsMu.Lock()
	proc, exists := c.processors[name]
	if exists {
		delete(c.processors, name)
	}
	c.processorsMu.Unlock()

	if !exists {
		return fmt.Errorf("profile not active: %s", name)
	}

	proc.Stop()
	c.logger.Info("Profile deactivated", "profile", name)
	return nil
}

// DeactivateAll stops every running processor, in parallel, waiting up
// to a grace period for them to drain.
func (c *Coordinator) DeactivateAll() {
	c.processorsMu.Lock()
	procs := make([]*engine.Processor, 0, len(c.processors))
	for _, p := range c.processors {
		procs = append(procs, p)
	}
	c.processors = make(map[string]*engine.Processor)
	c.processorsMu.Unlock()

	var wg sync.WaitGroup
	for _, p := range procs {
		wg.Add(1)
		go func(proc *engine.Processor) {
			defer wg.Done()
			proc.Stop()
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		c.logger.Warn("Deactivation timeout, some processors may not have stopped cleanly")
	}

	c.logger.Info("All profiles deactivated", "count", len(procs))
}

// ActiveProfiles returns the names of profiles currently running.
func (c *Coordinator) ActiveProfiles() []string {
	c.processorsMu.RLock()
	defer c.processorsMu.RUnlock()
	names := make([]string, 0, len(c.processors))
	for name := range c.processors {
		names = append(names, name)
	}
	return names
}

// Processor returns the running processor for a profile, or nil.
func (c *Coordinator) Processor(name string) *engine.Processor {
	c.processorsMu.RLock()
	defer c.processorsMu.RUnlock()
	return c.processors[name]
}

// handleEvent reaps processors that stopped without going through
// Deactivate.
func (c *Coordinator) handleEvent(e event.Event) {
	evt, ok := e.(*event.ProcessorStopped)
	if !ok || evt.Reason == event.StopReasonManual {
		return
	}
	c.processorsMu.Lock()
	if _, exists := c.processors[evt.ProfileName()]; exists {
		delete(c.processors, evt.ProfileName())
		c.logger.Info("Processor reaped", "profile", evt.ProfileName(), "reason", evt.Reason.String())
	}
	c.processorsMu.Unlock()
}
