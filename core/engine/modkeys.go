package engine

import (
	"log/slog"
	"sort"

	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
	"pixelkey-go/infrastructure/input"
)

// ModifierHandler watches physical modifier keys and, while any
// enabled one is held, pauses normal evaluation. A rule without
// pass-through remaps the hold to presses of its mapped key.
type ModifierHandler struct {
	rules  []modifierRule
	state  input.ModifierState
	exec   *Executor
	logger *slog.Logger
}

type modifierRule struct {
	name   string
	mapped *Descriptor
	pass   bool
}

// NewModifierHandler compiles the enabled rules. Rule order is fixed
// alphabetically by modifier name so remapped presses fire
// deterministically.
func NewModifierHandler(rules map[string]profile.ModifierRule, keys keymap.Table, state input.ModifierState, exec *Executor, logger *slog.Logger) *ModifierHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &ModifierHandler{state: state, exec: exec, logger: logger}
	names := make([]string, 0, len(rules))
	for name, rule := range rules {
		if rule.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		rule := rules[name]
		r := modifierRule{name: name, pass: rule.Pass}
		if !rule.Pass {
			d := &Descriptor{Name: "modifier " + name}
			if key, ok := keys.Normalize(rule.Value); ok {
				d.Key = key
			}
			r.mapped = d
		}
		h.rules = append(h.rules, r)
	}
	return h
}

// CheckAndProcess reports whether any enabled modifier is currently
// held, pressing the mapped key for each held non-pass-through rule.
func (h *ModifierHandler) CheckAndProcess() bool {
	active := false
	for _, r := range h.rules {
		if !h.state.Held(r.name) {
			continue
		}
		active = true
		if r.mapped != nil {
			if _, err := h.exec.Press(r.mapped); err != nil {
				h.logger.Error("modifier press failed", "modifier", r.name, "key", r.mapped.Key, "error", err)
			}
		}
	}
	return active
}
