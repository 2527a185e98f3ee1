package sim

import "math/rand"

// growBallOnBounce applies the growth rule on a ring bounce. Growth is
// capped at a fraction of the arena size; balls at the cap stop growing
// but keep bouncing.
func growBallOnBounce(s *State, b *Ball, cfg *Config) []Event {
	if cfg.GrowthRate <= 0 {
		return nil
	}
	limit := cfg.growthCap()
	if b.Radius >= limit {
		return nil
	}

	b.Radius = fix(b.Radius + cfg.GrowthRate)
	if b.Radius > limit {
		b.Radius = limit
	}
	b.Growing = true

	return []Event{{
		Type:      EventBallGrew,
		BallID:    b.ID,
		NewRadius: b.Radius,
	}}
}

// spawnReplacementBalls creates up to BallsOnDestroy new balls on the
// destroyed ring's circumference with randomized outward velocity. The
// population is bounded: once MaxBallCount is reached, balls simply are
// not created — existing balls are never removed.
func spawnReplacementBalls(s *State, ring *Ring, cfg *Config, rng *rand.Rand) []Event {
	if cfg.BallsOnDestroy <= 0 {
		return nil
	}

	center := cfg.Center()
	var events []Event
	for i := 0; i < cfg.BallsOnDestroy; i++ {
		if len(s.Balls) >= cfg.MaxBallCount {
			break
		}

		dir := randUnit(rng)
		speed := randRange(rng, cfg.MinVelocity, cfg.MaxVelocity/2)
		b := Ball{
			ID:           s.NextBallID,
			Position:     center.Plus(dir.Times(ring.Radius)),
			Velocity:     dir.Times(speed),
			Radius:       cfg.BaseBallRadius,
			InitialSpeed: speed,
			Elasticity:   1.0,
			LastWallHit:  s.Time,
			LastRingHit:  s.Time,
		}
		s.NextBallID++
		s.Balls = append(s.Balls, b)

		spawned := b
		events = append(events, Event{Type: EventBallSpawned, Ball: &spawned})
	}
	return events
}

// checkGameOver evaluates the terminal conditions: every ring destroyed,
// or (growth variants) a ball grown to the cap. The flag is one-way and
// the state stays steppable — stopping the loop is the host's call.
func checkGameOver(s *State, cfg *Config) []Event {
	if s.GameOver {
		return nil
	}

	over := false
	if cfg.RingsEnabled && len(s.Rings) > 0 && s.ActiveRings() == 0 {
		over = true
	}
	if cfg.GrowthRate > 0 {
		limit := cfg.growthCap()
		for i := range s.Balls {
			if s.Balls[i].Radius >= limit {
				over = true
				break
			}
		}
	}
	if !over {
		return nil
	}

	s.GameOver = true
	return []Event{{Type: EventGameOver, Score: s.Score}}
}
