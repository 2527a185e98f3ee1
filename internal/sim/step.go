package sim

import "math/rand"

// maxDeltaFrames clamps dt so a stalled host (tab switch, GC pause on
// the client) cannot punch balls through geometry with one huge step.
const maxDeltaFrames = 3.0

// Step advances the simulation by dt frame-equivalents (1.0 ≈ one 60 Hz
// frame) and returns the next state plus the discrete events the
// rendering/audio layer consumes. The input state is never mutated.
//
// Per-ball order: integrate, walls, rings. Then ring animation, particle
// update, and the terminal check. Identical (state, dt sequence, seed)
// inputs reproduce identical outputs bit for bit.
func Step(prev State, dt float64, cfg Config, rng *rand.Rand) (State, []Event) {
	if dt <= 0 {
		return prev.Clone(), nil
	}
	if dt > maxDeltaFrames {
		dt = maxDeltaFrames
	}

	s := prev.Clone()
	s.Time = fix(s.Time + dt)
	var events []Event

	// Reserve the full population up front so mid-frame spawns never
	// reallocate the slice out from under the ball being resolved.
	if cap(s.Balls) < cfg.MaxBallCount+cfg.BallsOnDestroy {
		grown := make([]Ball, len(s.Balls), cfg.MaxBallCount+cfg.BallsOnDestroy)
		copy(grown, s.Balls)
		s.Balls = grown
	}

	ballCount := len(s.Balls)
	for i := 0; i < ballCount; i++ {
		b := &s.Balls[i]

		integrateBall(b, &cfg, dt)
		if cfg.WallsEnabled {
			wallEvents := resolveWalls(&s, b, &cfg, rng)
			events = append(events, wallEvents...)
			// Wall-only variants grow balls on wall hits instead of
			// ring bounces; that growth is what ends those games.
			if !cfg.RingsEnabled && len(wallEvents) > 0 {
				events = append(events, growBallOnBounce(&s, b, &cfg)...)
			}
		}
		if cfg.RingsEnabled {
			events = append(events, resolveRings(&s, b, &cfg, rng)...)
		}

		clampBallSpeed(b, &cfg)
	}

	animateRings(&s, &cfg, dt)
	updateParticles(&s, &cfg, dt, rng)
	events = append(events, checkGameOver(&s, &cfg)...)

	return s, events
}

// clampBallSpeed restores the velocity bounds after collision response.
// The elastic boost applied during a reflection may momentarily exceed
// the range; by the end of the step every ball is back inside
// [floor, MaxVelocity]. A stationary ball is left alone.
func clampBallSpeed(b *Ball, cfg *Config) {
	speed := b.Velocity.Magnitude()
	if speed == 0 {
		return
	}
	if speed > cfg.MaxVelocity {
		b.Velocity = b.Velocity.Times(cfg.MaxVelocity / speed)
		return
	}
	if floor := ballSpeedFloor(b, cfg); speed < floor {
		b.Velocity = b.Velocity.Times(floor / speed)
	}
}
