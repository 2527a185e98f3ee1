package sim

import (
	"math"
	"math/rand"
)

// resolveWalls detects and resolves contact between one ball and the four
// arena edges. Each edge is handled independently.
//
// Position is always re-clamped on contact, even inside the immunity
// window — suppressing only the velocity change is what kills the
// "sticking" failure mode where a ball re-triggers the same wall every
// frame. The immunity window exists so a ball sliding along a corner does
// not get its velocity reflected twice in quick succession.
func resolveWalls(s *State, b *Ball, cfg *Config, rng *rand.Rand) []Event {
	var events []Event
	safety := fix(b.Radius * cfg.WallSafetyFrac)
	immune := s.Time-b.LastWallHit < cfg.WallImmunityFrames

	minX := cfg.WallMargin + b.Radius
	maxX := cfg.ArenaWidth - cfg.WallMargin - b.Radius
	minY := cfg.WallMargin + b.Radius
	maxY := cfg.ArenaHeight - cfg.WallMargin - b.Radius

	bounce := func(wall string, impact float64) {
		events = append(events, Event{
			Type:        EventWallCollision,
			Wall:        wall,
			BallID:      b.ID,
			ImpactSpeed: fix(math.Abs(impact)),
		})
		b.LastWallHit = s.Time
	}

	if b.Position.X < minX {
		b.Position.X = fix(minX + safety)
		if !immune {
			impact := b.Velocity.X
			b.Velocity.X = fix(-b.Velocity.X * cfg.Bounciness * b.Elasticity)
			if b.Velocity.X < cfg.MinReboundVelocity {
				b.Velocity.X = cfg.MinReboundVelocity
			}
			b.Velocity.Y = fix(b.Velocity.Y * cfg.WallFriction)
			jitterVelocity(b, cfg, rng)
			bounce("left", impact)
		}
	} else if b.Position.X > maxX {
		b.Position.X = fix(maxX - safety)
		if !immune {
			impact := b.Velocity.X
			b.Velocity.X = fix(-b.Velocity.X * cfg.Bounciness * b.Elasticity)
			if b.Velocity.X > -cfg.MinReboundVelocity {
				b.Velocity.X = -cfg.MinReboundVelocity
			}
			b.Velocity.Y = fix(b.Velocity.Y * cfg.WallFriction)
			jitterVelocity(b, cfg, rng)
			bounce("right", impact)
		}
	}

	if b.Position.Y < minY {
		b.Position.Y = fix(minY + safety)
		if !immune {
			impact := b.Velocity.Y
			b.Velocity.Y = fix(-b.Velocity.Y * cfg.Bounciness * b.Elasticity)
			if b.Velocity.Y < cfg.MinReboundVelocity {
				b.Velocity.Y = cfg.MinReboundVelocity
			}
			b.Velocity.X = fix(b.Velocity.X * cfg.WallFriction)
			jitterVelocity(b, cfg, rng)
			bounce("top", impact)
		}
	} else if b.Position.Y > maxY {
		b.Position.Y = fix(maxY - safety)
		if !immune {
			impact := b.Velocity.Y
			b.Velocity.Y = fix(-b.Velocity.Y * cfg.Bounciness * b.Elasticity)
			if b.Velocity.Y > -cfg.MinReboundVelocity {
				b.Velocity.Y = -cfg.MinReboundVelocity
			}
			b.Velocity.X = fix(b.Velocity.X * cfg.WallFriction)
			jitterVelocity(b, cfg, rng)
			bounce("bottom", impact)
		}
	}

	return events
}

// jitterVelocity perturbs the post-bounce angle by up to WallJitterMax
// radians either way, defeating the periodic trajectories a perfectly
// axis-aligned arena otherwise settles into.
func jitterVelocity(b *Ball, cfg *Config, rng *rand.Rand) {
	if cfg.WallJitterMax <= 0 {
		return
	}
	if b.Velocity.IsZero() {
		// Degenerate rebound: pick a direction rather than divide by zero.
		b.Velocity = randUnit(rng).Times(cfg.MinReboundVelocity)
		return
	}
	angle := randRange(rng, -cfg.WallJitterMax, cfg.WallJitterMax)
	b.Velocity = b.Velocity.Rotate(angle)
}
