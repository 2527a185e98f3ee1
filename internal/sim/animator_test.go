package sim

import (
	"math"
	"testing"
)

func TestRadiusEasesTowardTarget(t *testing.T) {
	cfg := testConfig()
	s := State{Rings: []Ring{{
		ID: 1, Radius: 100, TargetRadius: 50, OriginalRadius: 100,
		RotationSpeed: 0.02, OriginalRotationSpeed: 0.02, Flashing: true,
	}}}

	animateRings(&s, &cfg, 1.0)

	// 5% of the remaining delta per frame.
	if got := s.Rings[0].Radius; math.Abs(got-97.5) > 0.001 {
		t.Errorf("radius after one frame = %.4f, want 97.5", got)
	}
	if !s.Rings[0].Flashing {
		t.Error("flashing must persist while the animation runs")
	}
}

func TestRadiusSnapsAndClearsFlash(t *testing.T) {
	cfg := testConfig()
	s := State{Rings: []Ring{{
		ID: 1, Radius: 50.3, TargetRadius: 50, OriginalRadius: 100,
		RotationSpeed: 0.02, OriginalRotationSpeed: 0.02, Flashing: true,
	}}}

	animateRings(&s, &cfg, 1.0)

	if s.Rings[0].Radius != 50 {
		t.Errorf("radius = %.4f, want snapped to 50", s.Rings[0].Radius)
	}
	if s.Rings[0].Flashing {
		t.Error("flash must clear once the animation settles")
	}
}

func TestRotationSpeedScalesWithSquareRootOfSize(t *testing.T) {
	cfg := testConfig()
	s := State{Rings: []Ring{{
		ID: 1, Radius: 25, TargetRadius: 25, OriginalRadius: 100,
		RotationSpeed: 0.04, OriginalRotationSpeed: 0.04,
	}}}

	animateRings(&s, &cfg, 1.0)

	// (25/100)^0.5 = 0.5 — the exponent is load-bearing.
	if got := s.Rings[0].RotationSpeed; math.Abs(got-0.02) > 0.0001 {
		t.Errorf("rotation speed = %.5f, want 0.02", got)
	}
}

func TestRotationStaysWrapped(t *testing.T) {
	cfg := testConfig()
	s := State{Rings: []Ring{{
		ID: 1, Radius: 100, TargetRadius: 100, OriginalRadius: 100,
		Rotation: 2*math.Pi - 0.01, RotationSpeed: 0.05, OriginalRotationSpeed: 0.05,
	}}}

	for i := 0; i < 300; i++ {
		animateRings(&s, &cfg, 1.0)
		r := s.Rings[0].Rotation
		if r < 0 || r >= 2*math.Pi {
			t.Fatalf("step %d: rotation %.4f left [0, 2π)", i, r)
		}
	}
}

func TestRetargetRespectsHardFloor(t *testing.T) {
	cfg := testConfig()
	cfg.ShrinkFactor = 0.1 // aggressive shrink runs into the floor

	s := State{ShrinkAccum: 1, Rings: []Ring{
		{ID: 1, Index: 0, Radius: 100, TargetRadius: 100, OriginalRadius: 100},
	}}
	retargetRings(&s, &cfg)

	if got := s.Rings[0].TargetRadius; got != cfg.MinRingRadius {
		t.Errorf("target = %.4f, want clamped to floor %.4f", got, cfg.MinRingRadius)
	}
}

func TestRetargetAccumulatesShrink(t *testing.T) {
	cfg := testConfig()
	cfg.ShrinkFactor = 0.9
	cfg.MinRingGap = 0

	s := State{ShrinkAccum: 1, Rings: []Ring{
		{ID: 1, Index: 0, Radius: 200, TargetRadius: 200, OriginalRadius: 200},
	}}

	retargetRings(&s, &cfg)
	retargetRings(&s, &cfg)

	// Two destructions: 200 * 0.9 * 0.9.
	if got := s.Rings[0].TargetRadius; math.Abs(got-162) > 0.001 {
		t.Errorf("target after two shrinks = %.4f, want 162", got)
	}
	if math.Abs(s.ShrinkAccum-0.81) > 0.0001 {
		t.Errorf("shrink accumulator = %.4f, want 0.81", s.ShrinkAccum)
	}
}
