// Package event defines all events published by the engine.
// Events represent state changes and are consumed by the orchestration layer.
package event

import (
	"time"

	"pixelkey-go/core/state"
)

// Event is the base interface for all events.
type Event interface {
	// EventName returns the name of the event for logging/debugging
	EventName() string
}

// ProfileEvent is an event that originates from a specific active profile.
type ProfileEvent interface {
	Event
	// ProfileName returns the source profile name
	ProfileName() string
}

// baseProfileEvent provides common implementation for profile events.
type baseProfileEvent struct {
	profileName string
}

func (e *baseProfileEvent) ProfileName() string {
	return e.profileName
}

// ProcessorStarted is published when the polling loop begins.
type ProcessorStarted struct {
	baseProfileEvent
	TargetPID  int
	EventCount int
}

func NewProcessorStarted(profileName string, targetPID, eventCount int) *ProcessorStarted {
	return &ProcessorStarted{
		baseProfileEvent: baseProfileEvent{profileName: profileName},
		TargetPID:        targetPID,
		EventCount:       eventCount,
	}
}

func (e *ProcessorStarted) EventName() string {
	return "ProcessorStarted"
}

// StopReason indicates why the processor stopped.
type StopReason int

const (
	// StopReasonManual indicates the processor was stopped by the user.
	StopReasonManual StopReason = iota
	// StopReasonNoEvents indicates the profile compiled to nothing runnable.
	StopReasonNoEvents
	// StopReasonError indicates the processor stopped due to an error.
	StopReasonError
)

func (r StopReason) String() string {
	switch r {
	case StopReasonManual:
		return "Manual"
	case StopReasonNoEvents:
		return "NoEvents"
	case StopReasonError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ProcessorStopped is published when the polling loop has fully drained.
type ProcessorStopped struct {
	baseProfileEvent
	Reason StopReason
	Error  error // Non-nil if Reason is StopReasonError
}

func NewProcessorStopped(profileName string, reason StopReason, err error) *ProcessorStopped {
	return &ProcessorStopped{
		baseProfileEvent: baseProfileEvent{profileName: profileName},
		Reason:           reason,
		Error:            err,
	}
}

func (e *ProcessorStopped) EventName() string {
	return "ProcessorStopped"
}

// ProcessorStateChanged is published on every lifecycle transition.
type ProcessorStateChanged struct {
	baseProfileEvent
	OldState state.ProcessorState
	NewState state.ProcessorState
}

func NewProcessorStateChanged(profileName string, oldState, newState state.ProcessorState) *ProcessorStateChanged {
	return &ProcessorStateChanged{
		baseProfileEvent: baseProfileEvent{profileName: profileName},
		OldState:         oldState,
		NewState:         newState,
	}
}

func (e *ProcessorStateChanged) EventName() string {
	return "ProcessorStateChanged"
}

// KeyPressed is published after a simulated press/release completes.
type KeyPressed struct {
	baseProfileEvent
	SourceEvent string
	Key         string
	HoldTime    time.Duration
}

func NewKeyPressed(profileName, sourceEvent, key string, holdTime time.Duration) *KeyPressed {
	return &KeyPressed{
		baseProfileEvent: baseProfileEvent{profileName: profileName},
		SourceEvent:      sourceEvent,
		Key:              key,
		HoldTime:         holdTime,
	}
}

func (e *KeyPressed) EventName() string {
	return "KeyPressed"
}

// PressFailed is published when the press or release primitive errors.
type PressFailed struct {
	baseProfileEvent
	SourceEvent string
	Key         string
	Error       error
}

func NewPressFailed(profileName, sourceEvent, key string, err error) *PressFailed {
	return &PressFailed{
		baseProfileEvent: baseProfileEvent{profileName: profileName},
		SourceEvent:      sourceEvent,
		Key:              key,
		Error:            err,
	}
}

func (e *PressFailed) EventName() string {
	return "PressFailed"
}

// CaptureFailed is published when a screen grab fails; the tick's
// dispatch is abandoned and the loop continues.
type CaptureFailed struct {
	baseProfileEvent
	Error error
}

func NewCaptureFailed(profileName string, err error) *CaptureFailed {
	return &CaptureFailed{
		baseProfileEvent: baseProfileEvent{profileName: profileName},
		Error:            err,
	}
}

func (e *CaptureFailed) EventName() string {
	return "CaptureFailed"
}

// TickCompleted is published at the end of each evaluated tick with the
// names of the dispatched winners.
type TickCompleted struct {
	baseProfileEvent
	Dispatched []string
}

func NewTickCompleted(profileName string, dispatched []string) *TickCompleted {
	return &TickCompleted{
		baseProfileEvent: baseProfileEvent{profileName: profileName},
		Dispatched:       dispatched,
	}
}

func (e *TickCompleted) EventName() string {
	return "TickCompleted"
}
