package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.KeyPressedTimeMinMS != 95 || s.DelayBetweenLoopMaxMS != 150 {
		t.Errorf("Expected defaults, got %+v", s)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.yaml")

	want := Default()
	want.StartStopKey = "F8"
	want.DelayBetweenLoopMinMS = 50
	want.DelayBetweenLoopMaxMS = 80

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.StartStopKey != "F8" || got.DelayBetweenLoopMinMS != 50 || got.DelayBetweenLoopMaxMS != 80 {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_NormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := []byte("key_pressed_time_min_ms: -5\nkey_pressed_time_max_ms: 0\ndelay_between_loop_min_ms: 0\nmax_key_count: -1\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.KeyPressedTimeMinMS <= 0 {
		t.Errorf("KeyPressedTimeMinMS = %d, want positive", s.KeyPressedTimeMinMS)
	}
	if s.KeyPressedTimeMaxMS < s.KeyPressedTimeMinMS {
		t.Errorf("KeyPressedTimeMaxMS = %d below min %d", s.KeyPressedTimeMaxMS, s.KeyPressedTimeMinMS)
	}
	if s.MaxKeyCount != 0 {
		t.Errorf("MaxKeyCount = %d, want 0", s.MaxKeyCount)
	}
}

func TestLoad_CorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("\t{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for corrupt settings file")
	}
}
