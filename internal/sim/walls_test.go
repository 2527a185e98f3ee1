package sim

import (
	"math"
	"testing"
)

func TestWallReflectionAllFourEdges(t *testing.T) {
	cfg := testConfig()
	cfg.RingsEnabled = false

	cases := []struct {
		name     string
		pos, vel Vec2
		wall     string
	}{
		{"left", NewVec2(10, 300), NewVec2(-5, 0), "left"},
		{"right", NewVec2(790, 300), NewVec2(5, 0), "right"},
		{"top", NewVec2(400, 10), NewVec2(0, -5), "top"},
		{"bottom", NewVec2(400, 590), NewVec2(0, 5), "bottom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := State{Time: 10, Balls: []Ball{testBall(tc.pos, tc.vel, 12)}}
			events := resolveWalls(&s, &s.Balls[0], &cfg, NewRand(1))

			if len(events) != 1 || events[0].Wall != tc.wall {
				t.Fatalf("events = %+v, want one %s collision", events, tc.wall)
			}
			if events[0].ImpactSpeed != 5 {
				t.Errorf("impact speed = %.4f, want 5", events[0].ImpactSpeed)
			}

			b := s.Balls[0]
			if b.Position.X-b.Radius < cfg.WallMargin-0.01 ||
				b.Position.X+b.Radius > cfg.ArenaWidth-cfg.WallMargin+0.01 ||
				b.Position.Y-b.Radius < cfg.WallMargin-0.01 ||
				b.Position.Y+b.Radius > cfg.ArenaHeight-cfg.WallMargin+0.01 {
				t.Errorf("ball not clamped inside arena: %+v", b.Position)
			}
			// Perpendicular component reflected and scaled.
			wantSpeed := 5 * cfg.Bounciness
			if got := b.Velocity.Magnitude(); math.Abs(got-wantSpeed) > 0.01 {
				t.Errorf("rebound speed = %.4f, want %.4f", got, wantSpeed)
			}
			if b.LastWallHit != s.Time {
				t.Error("wall hit time not recorded")
			}
		})
	}
}

func TestWallMinimumReboundFloor(t *testing.T) {
	cfg := testConfig()
	cfg.RingsEnabled = false

	// Creeping approach: reflection alone would give 0.9 * 0.85 ≈ 0.77,
	// well below the rebound floor.
	s := State{Time: 10, Balls: []Ball{testBall(NewVec2(790, 300), NewVec2(0.9, 0), 12)}}
	resolveWalls(&s, &s.Balls[0], &cfg, NewRand(1))

	if got := s.Balls[0].Velocity.X; math.Abs(got-(-cfg.MinReboundVelocity)) > 0.001 {
		t.Errorf("vx = %.4f, want rebound floor %.4f", got, -cfg.MinReboundVelocity)
	}
}

func TestWallImmunityStillRepositions(t *testing.T) {
	cfg := testConfig()
	cfg.RingsEnabled = false

	b := testBall(NewVec2(795, 300), NewVec2(6, 0), 12)
	b.LastWallHit = 9 // hit last frame
	s := State{Time: 10, Balls: []Ball{b}}

	events := resolveWalls(&s, &s.Balls[0], &cfg, NewRand(1))

	if len(events) != 0 {
		t.Errorf("immune wall contact emitted %d events", len(events))
	}
	if s.Balls[0].Velocity.X != 6 {
		t.Errorf("immune contact changed velocity: vx = %.4f", s.Balls[0].Velocity.X)
	}
	maxX := cfg.ArenaWidth - cfg.WallMargin - 12
	if s.Balls[0].Position.X > maxX {
		t.Errorf("position not corrected during immunity: x = %.4f", s.Balls[0].Position.X)
	}
}

func TestWallTangentialFriction(t *testing.T) {
	cfg := testConfig()
	cfg.RingsEnabled = false
	cfg.WallFriction = 0.9

	s := State{Time: 10, Balls: []Ball{testBall(NewVec2(790, 300), NewVec2(5, 4), 12)}}
	resolveWalls(&s, &s.Balls[0], &cfg, NewRand(1))

	if got := s.Balls[0].Velocity.Y; math.Abs(got-4*0.9) > 0.001 {
		t.Errorf("tangential vy = %.4f, want %.4f", got, 4*0.9)
	}
}

func TestWallJitterStaysBounded(t *testing.T) {
	cfg := testConfig()
	cfg.RingsEnabled = false
	cfg.WallJitterMax = 0.1

	rng := NewRand(42)
	for i := 0; i < 50; i++ {
		s := State{Time: 10, Balls: []Ball{testBall(NewVec2(790, 300), NewVec2(5, 0), 12)}}
		resolveWalls(&s, &s.Balls[0], &cfg, rng)

		v := s.Balls[0].Velocity
		angle := math.Atan2(v.Y, v.X)
		// Unjittered rebound points at exactly π.
		off := math.Abs(math.Abs(angle) - math.Pi)
		if off > cfg.WallJitterMax+0.001 {
			t.Fatalf("iteration %d: jitter %.4f exceeds max %.4f", i, off, cfg.WallJitterMax)
		}
	}
}
