package systems

import (
	"math/rand"
	"testing"
)

func TestSnowStartsInsideDomain(t *testing.T) {
	cfg := defaultConfig(t)
	s := NewSnow(cfg.Snow, cfg.Physics.ReferenceHz, rand.New(rand.NewSource(1)))

	half := float32(cfg.Snow.Range / 2)
	buf := s.Buffer()
	for i := 0; i < buf.Len(); i++ {
		x, y, z := buf.Position(i)
		if x < -half || x > half || z < -half || z > half {
			t.Fatalf("flake %d at (%v, %v) outside horizontal domain", i, x, z)
		}
		if y < 0 || float64(y) > s.Ceiling() {
			t.Fatalf("flake %d y=%v outside [0, %v]", i, y, s.Ceiling())
		}
		if f := s.FallSpeed(i); f < 0.02 || f > 0.07 {
			t.Fatalf("flake %d fall speed %v outside [0.02, 0.07]", i, f)
		}
	}
}

func TestSnowEveryFlakeRecycles(t *testing.T) {
	cfg := defaultConfig(t)
	s := NewSnow(cfg.Snow, cfg.Physics.ReferenceHz, rand.New(rand.NewSource(2)))

	// (ceiling - floor) / slowest fall, plus margin
	frames := int((s.Ceiling()-s.Floor())/cfg.Snow.FallSpeed[0]) + 100
	dt := 1.0 / cfg.Physics.ReferenceHz
	for f := 0; f < frames; f++ {
		s.Update(float64(f)*dt, dt)
	}

	for i := 0; i < s.Buffer().Len(); i++ {
		if s.Recycles(i) == 0 {
			t.Fatalf("flake %d never recycled in %d frames", i, frames)
		}
	}
}

func TestSnowRecycleResetsToCeiling(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Snow.Count = 1
	cfg.Snow.Wind = 0
	s := NewSnow(cfg.Snow, cfg.Physics.ReferenceHz, rand.New(rand.NewSource(3)))
	s.Buffer().SetPosition(0, 0, float32(s.Floor())+0.001, 0)

	s.Update(0, 1.0/60)

	if s.Recycles(0) != 1 {
		t.Fatalf("expected one recycle, got %d", s.Recycles(0))
	}
	if _, y, _ := s.Buffer().Position(0); float64(y) != s.Ceiling() {
		t.Errorf("expected y at ceiling %v, got %v", s.Ceiling(), y)
	}

	// The next frame only falls
	s.Update(1.0/60, 1.0/60)
	if s.Recycles(0) != 1 {
		t.Errorf("expected exactly one recycle per traversal, got %d", s.Recycles(0))
	}
}

func TestSnowFallScalesWithDT(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Snow.Count = 1
	cfg.Snow.Wind = 0
	s := NewSnow(cfg.Snow, 60, rand.New(rand.NewSource(4)))
	s.Buffer().SetPosition(0, 0, 20, 0)
	fall := s.FallSpeed(0)

	// Two reference frames in one step
	s.Update(0, 2.0/60)

	_, y, _ := s.Buffer().Position(0)
	want := 20 - 2*fall
	if diff := y - want; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("expected y=%v after double step, got %v", want, y)
	}
}

func TestSnowNonPositiveDTIsNoop(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Snow.Count = 10
	s := NewSnow(cfg.Snow, 60, rand.New(rand.NewSource(5)))
	before := append([]float32(nil), s.Buffer().Positions...)

	s.Update(1, 0)
	s.Update(2, -0.5)

	for i, v := range s.Buffer().Positions {
		if v != before[i] {
			t.Fatalf("position component %d changed on non-positive dt", i)
		}
	}
}

func TestSnowSetConfigKeepsBuffer(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Snow.Count = 10
	s := NewSnow(cfg.Snow, 60, nil)
	buf := s.Buffer()

	next := cfg.Snow
	next.Count = 500
	next.Size = 0.2
	s.SetConfig(next)

	if s.Buffer() != buf || buf.Len() != 10 {
		t.Error("SetConfig must not resize the buffer")
	}
	if buf.Sizes[0] != 0.2 {
		t.Errorf("expected size 0.2 after reload, got %v", buf.Sizes[0])
	}
}
