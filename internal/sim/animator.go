package sim

import "math"

// radiusEaseRate is the fraction of the remaining radius delta applied
// per frame while a ring animates toward its target (first-order
// low-pass, not a physical spring).
const radiusEaseRate = 0.05

// radiusSnapEpsilon snaps the animation once the remaining delta is
// imperceptible.
const radiusSnapEpsilon = 0.5

// rotationScaleExponent controls how rotation speed follows ring size
// during shrink: 1.0 would keep angular motion perceptually constant,
// 0 would not compensate at all. 0.5 is the tuned middle ground and
// must stay exactly 0.5 for behavioral parity.
const rotationScaleExponent = 0.5

// animateRings advances every surviving ring for one frame: eases the
// radius toward its target, scales rotation speed with the current size,
// and advances the gate rotation.
func animateRings(s *State, cfg *Config, dt float64) {
	for i := range s.Rings {
		ring := &s.Rings[i]
		if ring.Destroyed {
			continue
		}

		if delta := ring.TargetRadius - ring.Radius; math.Abs(delta) > radiusSnapEpsilon {
			ring.Radius = fix(ring.Radius + delta*radiusEaseRate*dt)
		} else if ring.Radius != ring.TargetRadius {
			ring.Radius = ring.TargetRadius
			ring.Flashing = false
		} else {
			ring.Flashing = false
		}

		if ring.OriginalRadius > 0 {
			scale := math.Pow(ring.Radius/ring.OriginalRadius, rotationScaleExponent)
			ring.RotationSpeed = fix(ring.OriginalRotationSpeed * scale)
		}

		ring.Rotation = wrapAngle(ring.Rotation + ring.RotationSpeed*dt)
	}
}

// retargetRings recomputes every surviving ring's target radius after a
// destruction. The cumulative shrink factor has already been applied for
// previous destructions; each call multiplies in one more step. The
// max() chain guarantees rings can never overlap or invert order, even
// for hostile configs — bad input degrades to a clamped layout, never an
// error.
func retargetRings(s *State, cfg *Config) {
	s.ShrinkAccum = fix(s.ShrinkAccum * cfg.ShrinkFactor)

	prevTarget := 0.0
	havePrev := false
	for i := range s.Rings {
		ring := &s.Rings[i]
		if ring.Destroyed {
			continue
		}

		target := fix(ring.OriginalRadius * s.ShrinkAccum)
		if target < cfg.MinRingRadius {
			target = cfg.MinRingRadius
		}
		if cfg.MinRingGap > 0 && havePrev {
			if floor := fix(prevTarget + cfg.MinRingGap + cfg.BaseBallRadius); target < floor {
				target = floor
			}
		}

		if target != ring.TargetRadius {
			ring.TargetRadius = target
			ring.Flashing = true
		}
		prevTarget = target
		havePrev = true
	}
}
