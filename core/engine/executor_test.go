package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"pixelkey-go/domain/keymap"
	"pixelkey-go/infrastructure/input"
)

func newTestExecutor(sim input.Simulator) *Executor {
	return NewExecutor(sim, keymap.Windows(), 60*time.Millisecond, 80*time.Millisecond)
}

func ms(v float64) *float64 { return &v }

func TestCalculatePressDuration(t *testing.T) {
	x := newTestExecutor(&input.Recorder{})

	t.Run("explicit duration used", func(t *testing.T) {
		d := &Descriptor{Key: "A", DurMS: ms(200)}
		if got := x.CalculatePressDuration(d); got != 200*time.Millisecond {
			t.Errorf("duration %v", got)
		}
	})

	t.Run("floor applies to short durations", func(t *testing.T) {
		d := &Descriptor{Key: "A", DurMS: ms(10)}
		if got := x.CalculatePressDuration(d); got != minPressDuration {
			t.Errorf("duration %v, want %v", got, minPressDuration)
		}
	})

	t.Run("default range respected", func(t *testing.T) {
		d := &Descriptor{Key: "A"}
		for i := 0; i < 50; i++ {
			got := x.CalculatePressDuration(d)
			if got < 60*time.Millisecond || got > 80*time.Millisecond {
				t.Fatalf("duration %v outside default range", got)
			}
		}
	})

	t.Run("jitter stays within band and above floor", func(t *testing.T) {
		d := &Descriptor{Key: "A", DurMS: ms(100), RandMS: ms(30)}
		for i := 0; i < 50; i++ {
			got := x.CalculatePressDuration(d)
			if got < 70*time.Millisecond || got > 130*time.Millisecond {
				t.Fatalf("duration %v outside jitter band", got)
			}
		}
		short := &Descriptor{Key: "A", DurMS: ms(50), RandMS: ms(49)}
		for i := 0; i < 50; i++ {
			if got := x.CalculatePressDuration(short); got < minPressDuration {
				t.Fatalf("duration %v below floor", got)
			}
		}
	})
}

func TestExecutorPress(t *testing.T) {
	t.Run("press then release with the mapped code", func(t *testing.T) {
		rec := &input.Recorder{}
		x := newTestExecutor(rec)
		d := &Descriptor{Name: "e", Key: "A", DurMS: ms(50)}
		hold, err := x.Press(d)
		if err != nil {
			t.Fatalf("press: %v", err)
		}
		if hold != 50*time.Millisecond {
			t.Errorf("hold %v", hold)
		}
		actions := rec.Actions()
		if len(actions) != 2 {
			t.Fatalf("actions %v", actions)
		}
		if actions[0].Release || !actions[1].Release || actions[0].Code != 0x41 {
			t.Errorf("sequence %v", actions)
		}
	})

	t.Run("terminated executor is a no-op", func(t *testing.T) {
		rec := &input.Recorder{}
		x := newTestExecutor(rec)
		x.Terminate()
		hold, err := x.Press(&Descriptor{Key: "A", DurMS: ms(50)})
		if err != nil || hold != 0 {
			t.Fatalf("hold %v err %v", hold, err)
		}
		if len(rec.Actions()) != 0 {
			t.Error("no actions expected after terminate")
		}
	})

	t.Run("missing or unknown key is a no-op", func(t *testing.T) {
		rec := &input.Recorder{}
		x := newTestExecutor(rec)
		for _, d := range []*Descriptor{{Name: "nokey"}, {Name: "bad", Key: "NotAKey"}} {
			if _, err := x.Press(d); err != nil {
				t.Fatalf("%s: %v", d.Name, err)
			}
		}
		if len(rec.Actions()) != 0 {
			t.Errorf("actions %v", rec.Actions())
		}
	})

	t.Run("concurrent presses of one key collapse", func(t *testing.T) {
		rec := &input.Recorder{}
		x := newTestExecutor(rec)
		d := &Descriptor{Name: "e", Key: "A", DurMS: ms(80)}
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				x.Press(d)
			}()
		}
		wg.Wait()
		if got := len(rec.Actions()); got != 2 {
			t.Errorf("expected one press/release pair, got %d actions", got)
		}
	})

	t.Run("key pressable again after completion", func(t *testing.T) {
		rec := &input.Recorder{}
		x := newTestExecutor(rec)
		d := &Descriptor{Name: "e", Key: "A", DurMS: ms(50)}
		if _, err := x.Press(d); err != nil {
			t.Fatal(err)
		}
		if _, err := x.Press(d); err != nil {
			t.Fatal(err)
		}
		if got := len(rec.Actions()); got != 4 {
			t.Errorf("expected two pairs, got %d actions", got)
		}
	})

	t.Run("press failure propagates and frees the key", func(t *testing.T) {
		boom := errors.New("injection refused")
		rec := &input.Recorder{PressErr: boom}
		x := newTestExecutor(rec)
		d := &Descriptor{Name: "e", Key: "A", DurMS: ms(50)}
		if _, err := x.Press(d); !errors.Is(err, boom) {
			t.Fatalf("err %v", err)
		}
		rec.PressErr = nil
		if _, err := x.Press(d); err != nil {
			t.Fatalf("key should be pressable after a failed press: %v", err)
		}
	})

	t.Run("release failure propagates", func(t *testing.T) {
		boom := errors.New("release refused")
		rec := &input.Recorder{ReleaseErr: boom}
		x := newTestExecutor(rec)
		if _, err := x.Press(&Descriptor{Name: "e", Key: "A", DurMS: ms(50)}); !errors.Is(err, boom) {
			t.Fatalf("err %v", err)
		}
	})
}
