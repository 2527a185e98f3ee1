package sim

import (
	"math"
	"math/rand"
)

// resolveRings runs one ball against every active ring in ascending index
// order. Pass-throughs destroy the ring and let the ball keep flying, so
// later rings still see it; the first ring that changes the ball's
// velocity ends the pass — later rings get evaluated against the updated
// trajectory on the next frame. (Two rings in contact at once only
// happens when rings are configured thinner than the ball.)
func resolveRings(s *State, b *Ball, cfg *Config, rng *rand.Rand) []Event {
	var events []Event
	center := cfg.Center()

	for i := range s.Rings {
		ring := &s.Rings[i]
		if ring.Destroyed {
			continue
		}

		delta := b.Position.Minus(center)
		dist := delta.Magnitude()
		if math.Abs(dist-ring.Radius) >= b.Radius {
			continue
		}

		normal := delta.Normalize()
		if normal.IsZero() {
			// Ball exactly at center: the radial normal is undefined.
			normal = NewVec2(1, 0)
		}

		outward := delta.Dot(b.Velocity) > 0
		if outward && s.ringGateOpen(ring, delta, cfg) && dist > ring.Radius-b.Radius*cfg.PassDepthFrac {
			events = append(events, s.destroyRing(ring, b, cfg, rng)...)
			continue
		}

		events = append(events, s.bounceOffRing(ring, b, normal, dist, cfg, rng)...)
		break
	}

	return events
}

// ringGateOpen reports whether the ball's angular position falls inside
// the ring's exit gate. The gate is widened by GateMarginFrac of its
// width on both sides; the margin is gameplay tuning, not geometry.
func (s *State) ringGateOpen(ring *Ring, delta Vec2, cfg *Config) bool {
	theta := delta.Angle()
	margin := cfg.GateWidthRadians * cfg.GateMarginFrac
	return angleInArc(theta, ring.Rotation-margin, cfg.GateWidthRadians+2*margin)
}

// destroyRing marks the ring destroyed (one-way), awards score, emits the
// destruction burst, retargets surviving rings when shrink is enabled,
// and lets the population manager spawn replacement balls.
func (s *State) destroyRing(ring *Ring, b *Ball, cfg *Config, rng *rand.Rand) []Event {
	ring.Destroyed = true
	s.Score += cfg.ScorePerRing

	center := cfg.Center()
	color := RingColor(ring.Index)
	events := []Event{{
		Type:   EventRingDestroyed,
		RingID: ring.ID,
		BallID: b.ID,
		Center: &center,
		Radius: ring.Radius,
		Color:  color,
		Score:  cfg.ScorePerRing,
	}}

	if cfg.ShrinkOnDestroy {
		retargetRings(s, cfg)
	}

	if spawned := emitParticles(s, ring, color, cfg, rng); len(spawned) > 0 {
		events = append(events, Event{Type: EventParticlesSpawned, RingID: ring.ID, Particles: spawned})
	}

	events = append(events, spawnReplacementBalls(s, ring, cfg, rng)...)
	return events
}

// bounceOffRing reflects the ball's velocity about the radial normal at
// the contact point and repositions it a safety margin onto the side it
// approached from, so the same contact cannot re-trigger next frame.
func (s *State) bounceOffRing(ring *Ring, b *Ball, normal Vec2, dist float64, cfg *Config, rng *rand.Rand) []Event {
	center := cfg.Center()

	// The side to land on follows the approach direction: an outward
	// mover hit the arc from inside even if integration carried it past
	// the radius this frame. Only a tangential grazer falls back to the
	// current distance.
	vn0 := b.Velocity.Dot(normal)
	inside := vn0 > 0
	if vn0 == 0 {
		inside = dist < ring.Radius
	}

	// Reposition first: tunneling correction applies even inside the
	// ring-collision immunity window.
	var standoff float64
	if inside {
		standoff = ring.Radius - b.Radius - cfg.RingSafetyMargin
	} else {
		standoff = ring.Radius + b.Radius + cfg.RingSafetyMargin
	}
	b.Position = center.Plus(normal.Times(standoff))

	if s.Time-b.LastRingHit < cfg.RingImmunityFrames {
		return nil
	}

	impact := b.Velocity.Magnitude()
	vn := b.Velocity.Dot(normal)
	reflected := b.Velocity.Minus(normal.Times(2 * vn))
	b.Velocity = reflected.Times(cfg.Bounciness * b.Elasticity)

	if speed := b.Velocity.Magnitude(); speed > cfg.MaxVelocity {
		b.Velocity = b.Velocity.Times(cfg.MaxVelocity / speed)
	}

	b.LastRingHit = s.Time

	events := []Event{{
		Type:        EventRingBounce,
		RingID:      ring.ID,
		BallID:      b.ID,
		ImpactSpeed: impact,
	}}
	events = append(events, growBallOnBounce(s, b, cfg)...)
	return events
}
