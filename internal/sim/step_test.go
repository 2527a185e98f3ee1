package sim

import (
	"math"
	"reflect"
	"testing"
)

// testConfig returns a deterministic-friendly tuning: no gravity, no
// drag, no wall jitter, no replacement spawns.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	cfg.AirResistance = 1.0
	cfg.WallJitterMax = 0
	cfg.BallsOnDestroy = 0
	return cfg
}

func testBall(pos, vel Vec2, radius float64) Ball {
	return Ball{
		ID:          1,
		Position:    pos,
		Velocity:    vel,
		Radius:      radius,
		Elasticity:  1.0,
		LastWallHit: -1000,
		LastRingHit: -1000,
	}
}

func singleRingState(ball Ball, ringRadius float64) State {
	return State{
		ShrinkAccum:    1.0,
		NextBallID:     2,
		NextParticleID: 1,
		Balls:          []Ball{ball},
		Rings: []Ring{{
			ID:             1,
			Index:          0,
			Radius:         ringRadius,
			TargetRadius:   ringRadius,
			OriginalRadius: ringRadius,
		}},
	}
}

func countEvents(events []Event, typ string) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestBallAtCenterIsSteadyState(t *testing.T) {
	cfg := testConfig()
	ball := testBall(cfg.Center(), Vec2{}, cfg.BaseBallRadius)
	s := singleRingState(ball, 100)

	rng := NewRand(1)
	for i := 0; i < 100; i++ {
		var events []Event
		s, events = Step(s, 1.0, cfg, rng)
		if n := countEvents(events, EventWallCollision) + countEvents(events, EventRingBounce); n != 0 {
			t.Fatalf("step %d: unexpected collision events for a parked ball", i)
		}
	}

	if s.Balls[0].Position != cfg.Center() {
		t.Errorf("parked ball moved: %+v", s.Balls[0].Position)
	}
	if !s.Balls[0].Velocity.IsZero() {
		t.Errorf("parked ball gained velocity: %+v", s.Balls[0].Velocity)
	}
}

func TestGateEscapeDestroysRing(t *testing.T) {
	cfg := testConfig()
	center := cfg.Center()

	angle := 15 * math.Pi / 180 // inside a 30° gate at rotation 0
	dir := NewVec2(math.Cos(angle), math.Sin(angle))
	ball := testBall(center.Plus(dir.Times(100)), dir.Times(5), cfg.BaseBallRadius)
	s := singleRingState(ball, 100)

	next, events := Step(s, 1.0, cfg, NewRand(1))

	if !next.Rings[0].Destroyed {
		t.Fatal("ball escaping through the gate should destroy the ring")
	}
	if next.Score != cfg.ScorePerRing {
		t.Errorf("score = %d, want %d", next.Score, cfg.ScorePerRing)
	}
	if n := countEvents(events, EventRingDestroyed); n != 1 {
		t.Errorf("ring_destroyed events = %d, want 1", n)
	}
	if s.Rings[0].Destroyed {
		t.Error("input state was mutated")
	}
}

func TestSolidArcBouncesBall(t *testing.T) {
	cfg := testConfig()
	center := cfg.Center()

	angle := 45 * math.Pi / 180 // outside the 30° gate plus its margin
	dir := NewVec2(math.Cos(angle), math.Sin(angle))
	incoming := 5.0
	ball := testBall(center.Plus(dir.Times(100)), dir.Times(incoming), cfg.BaseBallRadius)
	s := singleRingState(ball, 100)

	next, events := Step(s, 1.0, cfg, NewRand(1))

	if next.Rings[0].Destroyed {
		t.Fatal("ball outside the gate must not destroy the ring")
	}
	if n := countEvents(events, EventRingBounce); n != 1 {
		t.Errorf("ring_bounce events = %d, want 1", n)
	}

	b := next.Balls[0]
	speed := b.Velocity.Magnitude()
	if speed > cfg.Bounciness*incoming+0.01 {
		t.Errorf("post-bounce speed %.4f exceeds bounciness*incoming %.4f", speed, cfg.Bounciness*incoming)
	}

	delta := b.Position.Minus(center)
	wantDist := 100 - b.Radius - cfg.RingSafetyMargin
	if got := delta.Magnitude(); math.Abs(got-wantDist) > 0.01 {
		t.Errorf("ball repositioned at distance %.4f, want just inside at %.4f", got, wantDist)
	}
	if delta.Dot(b.Velocity) >= 0 {
		t.Error("reflected velocity should point back inward")
	}
}

func TestWallBounceScenario(t *testing.T) {
	cfg := testConfig()
	cfg.RingsEnabled = false
	cfg.Bounciness = 0.9

	ball := testBall(NewVec2(790, 300), NewVec2(10, 0), 15)
	ball.InitialSpeed = 10
	s := State{ShrinkAccum: 1, NextBallID: 2, NextParticleID: 1, Balls: []Ball{ball}}

	next, events := Step(s, 1.0, cfg, NewRand(1))

	b := next.Balls[0]
	wantX := cfg.ArenaWidth - cfg.WallMargin - 15 - 15*cfg.WallSafetyFrac
	if math.Abs(b.Position.X-wantX) > 0.01 {
		t.Errorf("ball.x = %.4f, want %.4f", b.Position.X, wantX)
	}
	if math.Abs(b.Velocity.X-(-9)) > 0.01 {
		t.Errorf("ball.vx = %.4f, want -9", b.Velocity.X)
	}
	if n := countEvents(events, EventWallCollision); n != 1 {
		t.Errorf("wall_collision events = %d, want 1", n)
	}
}

func TestShrinkRetargetsKeepOrdering(t *testing.T) {
	cfg := testConfig()
	cfg.ShrinkFactor = 0.8
	cfg.MinRingGap = 15

	s := State{ShrinkAccum: 1, NextBallID: 1, NextParticleID: 1}
	for i, r := range []float64{100, 140, 180} {
		s.Rings = append(s.Rings, Ring{
			ID: i + 1, Index: i,
			Radius: r, TargetRadius: r, OriginalRadius: r,
		})
	}

	s.Rings[0].Destroyed = true
	retargetRings(&s, &cfg)

	want1 := math.Max(140*0.8, cfg.MinRingRadius)
	if got := s.Rings[1].TargetRadius; math.Abs(got-want1) > 0.001 {
		t.Errorf("ring1 target = %.4f, want %.4f", got, want1)
	}
	want2 := math.Max(180*0.8, want1+15+cfg.BaseBallRadius)
	if got := s.Rings[2].TargetRadius; math.Abs(got-want2) > 0.001 {
		t.Errorf("ring2 target = %.4f, want %.4f", got, want2)
	}
	if s.Rings[2].TargetRadius <= s.Rings[1].TargetRadius {
		t.Error("targets must stay strictly increasing with ring index")
	}
	if !s.Rings[1].Flashing || !s.Rings[2].Flashing {
		t.Error("retargeted rings should flash")
	}
}

func TestDeterministicReplay(t *testing.T) {
	cfg, _ := Preset("classic")

	run := func() (State, int) {
		state := NewState(cfg, NewRand(99))
		rng := NewRand(5)
		total := 0
		for i := 0; i < 150; i++ {
			var events []Event
			state, events = Step(state, 1.0, cfg, rng)
			total += len(events)
		}
		return state, total
	}

	s1, n1 := run()
	s2, n2 := run()

	if n1 != n2 {
		t.Fatalf("event counts diverged: %d vs %d", n1, n2)
	}
	if !reflect.DeepEqual(s1, s2) {
		t.Fatal("two runs from the same seed diverged")
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	cfg, _ := Preset("classic")
	state := NewState(cfg, NewRand(7))
	before := state.Clone()

	Step(state, 1.0, cfg, NewRand(3))

	if !reflect.DeepEqual(state, before) {
		t.Fatal("Step mutated its input state")
	}
}

func TestVelocityAndWallBoundsOverManySteps(t *testing.T) {
	cfg, _ := Preset("classic")
	state := NewState(cfg, NewRand(21))
	rng := NewRand(13)

	for i := 0; i < 300; i++ {
		state, _ = Step(state, 1.0, cfg, rng)
		for _, b := range state.Balls {
			speed := b.Velocity.Magnitude()
			if speed == 0 {
				continue
			}
			if speed > cfg.MaxVelocity+0.01 {
				t.Fatalf("step %d: ball %d speed %.4f above max %.2f", i, b.ID, speed, cfg.MaxVelocity)
			}
			if speed < cfg.MinVelocity-0.01 {
				t.Fatalf("step %d: ball %d speed %.4f below min %.2f", i, b.ID, speed, cfg.MinVelocity)
			}
			if b.Position.X-b.Radius < cfg.WallMargin-0.01 ||
				b.Position.X+b.Radius > cfg.ArenaWidth-cfg.WallMargin+0.01 ||
				b.Position.Y-b.Radius < cfg.WallMargin-0.01 ||
				b.Position.Y+b.Radius > cfg.ArenaHeight-cfg.WallMargin+0.01 {
				t.Fatalf("step %d: ball %d outside arena at %+v", i, b.ID, b.Position)
			}
		}
	}
}

func TestDestructionIsMonotonic(t *testing.T) {
	cfg, _ := Preset("cascade")
	state := NewState(cfg, NewRand(3))
	rng := NewRand(17)

	destroyed := make(map[int]bool)
	for i := 0; i < 400; i++ {
		state, _ = Step(state, 1.0, cfg, rng)
		for _, r := range state.Rings {
			if destroyed[r.ID] && !r.Destroyed {
				t.Fatalf("step %d: ring %d came back from destroyed", i, r.ID)
			}
			if r.Destroyed {
				destroyed[r.ID] = true
			}
		}

		prev := -1.0
		for _, r := range state.Rings {
			if r.Destroyed {
				continue
			}
			if prev >= 0 && r.TargetRadius <= prev {
				t.Fatalf("step %d: active ring targets not strictly increasing", i)
			}
			prev = r.TargetRadius
		}
	}
}

func TestLargeDeltaTimeIsClamped(t *testing.T) {
	cfg := testConfig()
	cfg.RingsEnabled = false
	ball := testBall(NewVec2(400, 300), NewVec2(10, 0), 12)
	s := State{ShrinkAccum: 1, NextBallID: 2, NextParticleID: 1, Balls: []Ball{ball}}

	// A 100-frame stall must advance at most 3 frame-equivalents.
	next, _ := Step(s, 100, cfg, NewRand(1))
	if got := next.Balls[0].Position.X; got > 400+10*maxDeltaFrames+0.01 {
		t.Errorf("ball advanced %.4f, dt clamp not applied", got-400)
	}
	if next.Time != maxDeltaFrames {
		t.Errorf("time advanced by %.4f, want %.1f", next.Time, maxDeltaFrames)
	}
}

func TestNonPositiveDeltaTimeIsNoOp(t *testing.T) {
	cfg := testConfig()
	state := NewState(cfg, NewRand(2))

	next, events := Step(state, 0, cfg, NewRand(1))
	if len(events) != 0 {
		t.Errorf("dt=0 produced %d events", len(events))
	}
	if !reflect.DeepEqual(next, state) {
		t.Error("dt=0 changed the state")
	}
}
