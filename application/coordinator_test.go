package application

import (
	"image"
	"image/color"
	"testing"
	"time"

	"pixelkey-go/core/command"
	"pixelkey-go/core/state"
	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
	"pixelkey-go/domain/settings"
	"pixelkey-go/infrastructure/capture"
	"pixelkey-go/infrastructure/input"
)

func testStore(t *testing.T) *profile.Store {
	t.Helper()
	store := profile.NewStore(t.TempDir())
	p := &profile.Profile{
		Name: "farm",
		Events: []profile.Event{{
			Name:            "hp low",
			Enabled:         true,
			LatestPosition:  image.Point{X: 10, Y: 10},
			RefPixel:        []uint8{255, 0, 0},
			Key:             "1",
			MatchMode:       profile.MatchModePixel,
			Execute:         true,
		}},
	}
	if err := store.Save(p); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	return store
}

func testCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	screen := image.NewRGBA(image.Rect(0, 0, 50, 50))
	screen.SetRGBA(10, 10, color.RGBA{R: 255, A: 255})
	s := settings.Default()
	s.DelayBetweenLoopMinMS = 1
	s.DelayBetweenLoopMaxMS = 2
	return NewCoordinator(&Config{
		Store:     testStore(t),
		Settings:  s,
		Grabber:   capture.NewImageGrabber(screen),
		Simulator: &input.Recorder{},
		KeyTable:  keymap.Windows(),
	})
}

func TestCoordinatorActivation(t *testing.T) {
	t.Run("activate starts a processor", func(t *testing.T) {
		c := testCoordinator(t)
		if err := c.ActivateProfile("farm", 0); err != nil {
			t.Fatalf("activate: %v", err)
		}
		defer c.DeactivateAll()

		proc := c.Processor("farm")
		if proc == nil {
			t.Fatal("no processor registered")
		}
		if proc.State() != state.StateRunning {
			t.Fatalf("state %v", proc.State())
		}
		if got := c.ActiveProfiles(); len(got) != 1 || got[0] != "farm" {
			t.Fatalf("active profiles %v", got)
		}
	})

	t.Run("double activation rejected", func(t *testing.T) {
		c := testCoordinator(t)
		if err := c.ActivateProfile("farm", 0); err != nil {
			t.Fatalf("activate: %v", err)
		}
		defer c.DeactivateAll()
		if err := c.ActivateProfile("farm", 0); err == nil {
			t.Fatal("expected error on second activation")
		}
	})

	t.Run("unknown profile fails", func(t *testing.T) {
		c := testCoordinator(t)
		if err := c.ActivateProfile("nope", 0); err == nil {
			t.Fatal("expected load error")
		}
	})

	t.Run("deactivate stops and unregisters", func(t *testing.T) {
		c := testCoordinator(t)
		if err := c.ActivateProfile("farm", 0); err != nil {
			t.Fatalf("activate: %v", err)
		}
		proc := c.Processor("farm")
		if err := c.Deactivate("farm"); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
		if proc.State() != state.StateTerminated {
			t.Fatalf("state %v", proc.State())
		}
		if c.Processor("farm") != nil {
			t.Fatal("processor still registered")
		}
		if err := c.Deactivate("farm"); err == nil {
			t.Fatal("second deactivate should fail")
		}
	})

	t.Run("deactivate all drains every processor", func(t *testing.T) {
		c := testCoordinator(t)
		if err := c.ActivateProfile("farm", 0); err != nil {
			t.Fatalf("activate: %v", err)
		}
		proc := c.Processor("farm")
		c.DeactivateAll()
		if len(c.ActiveProfiles()) != 0 {
			t.Fatal("profiles still active")
		}
		if proc.State() != state.StateTerminated {
			t.Fatalf("state %v", proc.State())
		}
	})
}

func TestCoordinatorDispatch(t *testing.T) {
	c := testCoordinator(t)

	if err := c.Dispatch(command.NewActivateProfile("farm", 0)); err != nil {
		t.Fatalf("dispatch activate: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := c.Dispatch(command.NewDeactivateProfile("farm")); err != nil {
		t.Fatalf("dispatch deactivate: %v", err)
	}
	if err := c.Dispatch(&command.DeactivateAll{}); err != nil {
		t.Fatalf("dispatch deactivate all: %v", err)
	}
	if err := c.Dispatch(bogusCommand{}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

type bogusCommand struct{}

func (bogusCommand) CommandName() string { return "Bogus" }
