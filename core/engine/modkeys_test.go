package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
	"pixelkey-go/infrastructure/input"
)

type heldModifiers map[string]bool

func (h heldModifiers) Held(name string) bool { return h[name] }

func newModHandler(rules map[string]profile.ModifierRule, state input.ModifierState, rec *input.Recorder) *ModifierHandler {
	exec := NewExecutor(rec, keymap.Windows(), 50*time.Millisecond, 50*time.Millisecond)
	return NewModifierHandler(rules, keymap.Windows(), state, exec, nil)
}

func TestModifierHandler(t *testing.T) {
	t.Run("nothing held is inactive", func(t *testing.T) {
		rec := &input.Recorder{}
		h := newModHandler(map[string]profile.ModifierRule{
			"Alt": {Enabled: true, Value: "Q"},
		}, heldModifiers{}, rec)
		if h.CheckAndProcess() {
			t.Error("expected inactive")
		}
		if len(rec.Actions()) != 0 {
			t.Error("no presses expected")
		}
	})

	t.Run("held modifier remaps to its key", func(t *testing.T) {
		rec := &input.Recorder{}
		h := newModHandler(map[string]profile.ModifierRule{
			"Alt": {Enabled: true, Value: "Q"},
		}, heldModifiers{"Alt": true}, rec)
		if !h.CheckAndProcess() {
			t.Fatal("expected active")
		}
		actions := rec.Actions()
		if len(actions) != 2 || actions[0].Code != 0x51 {
			t.Errorf("actions %v", actions)
		}
	})

	t.Run("pass-through suppresses the press but reports active", func(t *testing.T) {
		rec := &input.Recorder{}
		h := newModHandler(map[string]profile.ModifierRule{
			"Ctrl": {Enabled: true, Value: "Q", Pass: true},
		}, heldModifiers{"Ctrl": true}, rec)
		if !h.CheckAndProcess() {
			t.Fatal("expected active")
		}
		if len(rec.Actions()) != 0 {
			t.Errorf("actions %v", rec.Actions())
		}
	})

	t.Run("failed remap press is logged and still reports active", func(t *testing.T) {
		rec := &input.Recorder{PressErr: errors.New("injection rejected")}
		var buf bytes.Buffer
		exec := NewExecutor(rec, keymap.Windows(), 50*time.Millisecond, 50*time.Millisecond)
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		h := NewModifierHandler(map[string]profile.ModifierRule{
			"Alt": {Enabled: true, Value: "Q"},
		}, keymap.Windows(), heldModifiers{"Alt": true}, exec, logger)
		if !h.CheckAndProcess() {
			t.Fatal("expected active despite the press failure")
		}
		if !strings.Contains(buf.String(), "modifier press failed") {
			t.Errorf("expected the failure in the log, got %q", buf.String())
		}
	})

	t.Run("disabled rules are ignored", func(t *testing.T) {
		rec := &input.Recorder{}
		h := newModHandler(map[string]profile.ModifierRule{
			"Shift": {Enabled: false, Value: "Q"},
		}, heldModifiers{"Shift": true}, rec)
		if h.CheckAndProcess() {
			t.Error("disabled rule must not activate")
		}
	})
}
