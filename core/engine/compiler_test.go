package engine

import (
	"image"
	"image/color"
	"testing"

	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
)

func pixelEvent(name string, x, y int, ref []uint8, key string) profile.Event {
	return profile.Event{
		Name:            name,
		Enabled:         true,
		LatestPosition:  image.Point{X: x, Y: y},
		ClickedPosition: image.Point{},
		RefPixel:        ref,
		Key:             key,
		MatchMode:       profile.MatchModePixel,
		Execute:         true,
	}
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCompileFiltering(t *testing.T) {
	keys := keymap.Windows()

	t.Run("disabled events dropped", func(t *testing.T) {
		ev := pixelEvent("off", 1, 1, []uint8{1, 2, 3}, "A")
		ev.Enabled = false
		c := Compile([]profile.Event{ev}, keys)
		if c.Count() != 0 {
			t.Fatalf("expected no descriptors, got %d", c.Count())
		}
		if c.CaptureRect != nil {
			t.Error("expected nil capture rect")
		}
	})

	t.Run("pixel event with short ref color dropped", func(t *testing.T) {
		events := []profile.Event{
			pixelEvent("short", 1, 1, []uint8{10, 20}, "A"),
			pixelEvent("none", 2, 2, nil, "B"),
			pixelEvent("full", 3, 3, []uint8{10, 20, 30}, "C"),
		}
		c := Compile(events, keys)
		if len(c.Events) != 1 || c.Events[0].Name != "full" {
			t.Fatalf("expected only the full-color event, got %+v", c.Events)
		}
	})

	t.Run("duplicate signatures collapse to first", func(t *testing.T) {
		a := pixelEvent("first", 5, 5, []uint8{1, 2, 3}, "A")
		b := pixelEvent("second", 5, 5, []uint8{1, 2, 3}, "a") // same after normalization
		d := pixelEvent("third", 5, 5, []uint8{1, 2, 3}, "B")  // different key
		c := Compile([]profile.Event{a, b, d}, keys)
		if len(c.Events) != 2 {
			t.Fatalf("expected 2 descriptors, got %d", len(c.Events))
		}
		if c.Events[0].Name != "first" || c.Events[1].Name != "third" {
			t.Errorf("wrong survivors: %s, %s", c.Events[0].Name, c.Events[1].Name)
		}
	})

	t.Run("unknown key compiles with no key", func(t *testing.T) {
		ev := pixelEvent("e", 1, 1, []uint8{1, 2, 3}, "nosuchkey")
		c := Compile([]profile.Event{ev}, keys)
		if c.Events[0].Key != "" {
			t.Errorf("expected empty key, got %q", c.Events[0].Key)
		}
	})

	t.Run("key names normalized", func(t *testing.T) {
		ev := pixelEvent("e", 1, 1, []uint8{1, 2, 3}, "  space ")
		c := Compile([]profile.Event{ev}, keys)
		if c.Events[0].Key != "Space" {
			t.Errorf("expected Space, got %q", c.Events[0].Key)
		}
	})

	t.Run("independent events separated", func(t *testing.T) {
		a := pixelEvent("solo", 100, 100, []uint8{1, 2, 3}, "A")
		a.Independent = true
		b := pixelEvent("grouped", 5, 5, []uint8{1, 2, 3}, "B")
		c := Compile([]profile.Event{a, b}, keys)
		if len(c.Independent) != 1 || len(c.Events) != 1 {
			t.Fatalf("expected 1 independent + 1 grouped, got %d + %d",
				len(c.Independent), len(c.Events))
		}
		// an independent-only point must not stretch the shared rect
		if got := *c.CaptureRect; got != image.Rect(5, 5, 6, 6) {
			t.Errorf("capture rect %v", got)
		}
	})
}

func TestCompileCaptureRect(t *testing.T) {
	keys := keymap.Windows()
	events := []profile.Event{
		pixelEvent("a", 10, 40, []uint8{1, 2, 3}, "A"),
		pixelEvent("b", 30, 20, []uint8{4, 5, 6}, "B"),
	}
	c := Compile(events, keys)
	want := image.Rect(10, 20, 31, 41) // both extremes inclusive
	if c.CaptureRect == nil || *c.CaptureRect != want {
		t.Fatalf("capture rect = %v, want %v", c.CaptureRect, want)
	}
	if c.Events[0].Rel != (image.Point{X: 0, Y: 20}) {
		t.Errorf("a rel = %v", c.Events[0].Rel)
	}
	if c.Events[1].Rel != (image.Point{X: 20, Y: 0}) {
		t.Errorf("b rel = %v", c.Events[1].Rel)
	}
}

func TestCompileCheckPoints(t *testing.T) {
	keys := keymap.Windows()

	regionEvent := func(w, h int, held image.Image) profile.Event {
		return profile.Event{
			Name:            "r",
			Enabled:         true,
			LatestPosition:  image.Point{X: 50, Y: 50},
			ClickedPosition: image.Point{},
			RefPixel:        []uint8{9, 9, 9},
			MatchMode:       profile.MatchModeRegion,
			RegionW:         w,
			RegionH:         h,
			HeldImage:       held,
			Execute:         true,
		}
	}

	t.Run("count clamped and corners forced", func(t *testing.T) {
		cases := []struct {
			w, h, want int
		}{
			{20, 20, 5},   // 4 -> clamp up
			{50, 50, 25},  // exactly 25
			{100, 100, 25}, // 100 -> clamp down
			{30, 30, 9},
			{40, 30, 12},
		}
		for _, tc := range cases {
			held := solidImage(tc.w, tc.h, color.RGBA{R: 1, G: 2, B: 3, A: 255})
			c := Compile([]profile.Event{regionEvent(tc.w, tc.h, held)}, keys)
			cps := c.Events[0].CheckPoints
			if len(cps) != tc.want {
				t.Errorf("%dx%d: %d checkpoints, want %d", tc.w, tc.h, len(cps), tc.want)
			}
			seen := make(map[image.Point]bool)
			hasOrigin, hasFar := false, false
			for _, cp := range cps {
				if seen[cp.Pos] {
					t.Errorf("%dx%d: duplicate checkpoint %v", tc.w, tc.h, cp.Pos)
				}
				seen[cp.Pos] = true
				if cp.Pos.X < 0 || cp.Pos.Y < 0 || cp.Pos.X >= tc.w || cp.Pos.Y >= tc.h {
					t.Errorf("%dx%d: checkpoint %v out of bounds", tc.w, tc.h, cp.Pos)
				}
				if cp.Pos == (image.Point{}) {
					hasOrigin = true
				}
				if cp.Pos == (image.Point{X: tc.w - 1, Y: tc.h - 1}) {
					hasFar = true
				}
			}
			if !hasOrigin || !hasFar {
				t.Errorf("%dx%d: corners missing (origin=%v far=%v)", tc.w, tc.h, hasOrigin, hasFar)
			}
		}
	})

	t.Run("checkpoint colors sampled from reference", func(t *testing.T) {
		held := solidImage(30, 30, color.RGBA{R: 11, G: 22, B: 33, A: 255})
		c := Compile([]profile.Event{regionEvent(30, 30, held)}, keys)
		for _, cp := range c.Events[0].CheckPoints {
			if cp.Color != (RGB{11, 22, 33}) {
				t.Fatalf("checkpoint color %v", cp.Color)
			}
		}
	})

	t.Run("no reference image means nil checkpoints", func(t *testing.T) {
		c := Compile([]profile.Event{regionEvent(30, 30, nil)}, keys)
		if c.Events[0].CheckPoints != nil {
			t.Errorf("expected nil checkpoints, got %d", len(c.Events[0].CheckPoints))
		}
	})
}
