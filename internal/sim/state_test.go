package sim

import (
	"math"
	"testing"
)

func TestNewStateRingLayout(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg, NewRand(1))

	if len(s.Rings) != cfg.RingCount {
		t.Fatalf("rings = %d, want %d", len(s.Rings), cfg.RingCount)
	}
	for i, r := range s.Rings {
		want := cfg.BaseRingRadius + float64(i)*cfg.RingSpacing
		if math.Abs(r.Radius-want) > 0.001 {
			t.Errorf("ring %d radius = %.4f, want %.4f", i, r.Radius, want)
		}
		if r.TargetRadius != r.Radius || r.OriginalRadius != r.Radius {
			t.Errorf("ring %d target/original not initialized to radius", i)
		}
		if r.Rotation < 0 || r.Rotation >= 2*math.Pi {
			t.Errorf("ring %d rotation %.4f outside [0, 2π)", i, r.Rotation)
		}
		if r.Destroyed {
			t.Errorf("ring %d born destroyed", i)
		}
	}

	// Progressive offsets stagger the gates.
	if cfg.ProgressiveRotationOffsetPct > 0 && s.Rings[0].Rotation == s.Rings[1].Rotation {
		t.Error("consecutive gates should not be aligned")
	}
}

func TestNewStateBall(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg, NewRand(4))

	if len(s.Balls) != 1 {
		t.Fatalf("balls = %d, want 1", len(s.Balls))
	}
	b := s.Balls[0]
	if b.Position != cfg.Center() {
		t.Errorf("ball starts at %+v, want arena center", b.Position)
	}
	speed := b.Velocity.Magnitude()
	if speed < cfg.MinVelocity || speed > cfg.MaxVelocity {
		t.Errorf("launch speed %.4f outside configured bounds", speed)
	}
	if math.Abs(b.InitialSpeed-speed) > 0.01 {
		t.Errorf("initial speed %.4f not captured from launch speed %.4f", b.InitialSpeed, speed)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg, NewRand(2))

	c := s.Clone()
	c.Balls[0].Position.X = -1
	c.Rings[0].Destroyed = true

	if s.Balls[0].Position.X == -1 || s.Rings[0].Destroyed {
		t.Fatal("Clone shares backing storage with the original")
	}
}

func TestPresetsExist(t *testing.T) {
	for _, mode := range Modes() {
		cfg, ok := Preset(mode)
		if !ok {
			t.Fatalf("preset %q missing", mode)
		}
		if !cfg.WallsEnabled && !cfg.RingsEnabled {
			t.Errorf("preset %q has no resolvers enabled", mode)
		}
		if _, styled := particleStyles[cfg.ParticleStyle]; !styled {
			t.Errorf("preset %q references unknown particle style %q", mode, cfg.ParticleStyle)
		}
	}
	if _, ok := Preset("nope"); ok {
		t.Error("unknown preset must not resolve")
	}
}

func TestRingColorCycles(t *testing.T) {
	if RingColor(0) != RingColor(len(ringPalette)) {
		t.Error("palette should wrap by index")
	}
	if RingColor(1) == RingColor(2) {
		t.Error("adjacent rings share a color")
	}
}
