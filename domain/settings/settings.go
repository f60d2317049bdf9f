// Package settings defines user-tunable engine timing settings.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-configurable timing and safety parameters
// consumed by the keystroke engine.
type Settings struct {
	// StartStopKey is the key name that toggles the engine, or
	// "DISABLED" to turn the toggle off.
	StartStopKey string `yaml:"start_stop_key"`

	// KeyPressedTimeMinMS and KeyPressedTimeMaxMS bound the default
	// press-hold duration drawn for events without an explicit duration.
	KeyPressedTimeMinMS int `yaml:"key_pressed_time_min_ms"`
	KeyPressedTimeMaxMS int `yaml:"key_pressed_time_max_ms"`

	// DelayBetweenLoopMinMS and DelayBetweenLoopMaxMS bound the jittered
	// inter-tick sleep of the polling loop.
	DelayBetweenLoopMinMS int `yaml:"delay_between_loop_min_ms"`
	DelayBetweenLoopMaxMS int `yaml:"delay_between_loop_max_ms"`

	// MaxKeyCount caps consecutive repeats of the same key; 0 disables
	// the cap.
	MaxKeyCount int `yaml:"max_key_count"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		StartStopKey:          "`",
		KeyPressedTimeMinMS:   95,
		KeyPressedTimeMaxMS:   135,
		DelayBetweenLoopMinMS: 100,
		DelayBetweenLoopMaxMS: 150,
		MaxKeyCount:           10,
	}
}

// normalize clamps nonsensical values back to defaults so a hand-edited
// file cannot produce a zero-delay busy loop.
func (s *Settings) normalize() {
	def := Default()
	if s.KeyPressedTimeMinMS <= 0 {
		s.KeyPressedTimeMinMS = def.KeyPressedTimeMinMS
	}
	if s.KeyPressedTimeMaxMS < s.KeyPressedTimeMinMS {
		s.KeyPressedTimeMaxMS = s.KeyPressedTimeMinMS
	}
	if s.DelayBetweenLoopMinMS <= 0 {
		s.DelayBetweenLoopMinMS = def.DelayBetweenLoopMinMS
	}
	if s.DelayBetweenLoopMaxMS < s.DelayBetweenLoopMinMS {
		s.DelayBetweenLoopMaxMS = s.DelayBetweenLoopMinMS
	}
	if s.MaxKeyCount < 0 {
		s.MaxKeyCount = 0
	}
}

// Load reads settings from a YAML file. A missing file yields defaults,
// not an error.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	s.normalize()
	return s, nil
}

// Save writes settings to a YAML file, creating parent directories as
// needed.
func Save(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}
	return nil
}
