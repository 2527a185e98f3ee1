package sim

// integrateBall advances one ball's velocity and position for a step.
// dt is normalized so 1.0 is one 60 Hz frame. Pure: no events, no rng.
//
// Order matters: drag, then gravity, then the speed clamp, then position.
// A stationary ball stays stationary — the minimum-speed floor only
// rescales a non-zero velocity, so a ball parked at the center with no
// gravity is a steady state.
func integrateBall(b *Ball, cfg *Config, dt float64) {
	if cfg.AirResistance < 1.0 {
		b.Velocity = b.Velocity.Times(cfg.AirResistance)
	}
	if cfg.Gravity != 0 {
		b.Velocity.Y = fix(b.Velocity.Y + cfg.Gravity*cfg.GravityScaling*dt)
	}

	speed := b.Velocity.Magnitude()
	if speed > cfg.MaxVelocity {
		b.Velocity = b.Velocity.Times(cfg.MaxVelocity / speed)
	} else if speed > 0 && speed < cfg.MinVelocity {
		// Deliberate anti-stall: keep the game kinetic rather than realistic.
		b.Velocity = b.Velocity.Times(cfg.MinVelocity / speed)
	}

	b.Position = b.Position.Plus(b.Velocity.Times(dt))
}

// ballSpeedFloor is the per-ball minimum speed: the configured floor,
// raised toward the ball's spawn speed so restitution losses do not
// bleed a ball down to a crawl over many collisions.
func ballSpeedFloor(b *Ball, cfg *Config) float64 {
	floor := cfg.MinVelocity
	if half := fix(b.InitialSpeed * 0.5); half > floor {
		floor = half
	}
	return floor
}
