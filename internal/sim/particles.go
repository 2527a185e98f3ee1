package sim

import (
	"math"
	"math/rand"
)

// Particle tuning shared by all styles.
const (
	particleGravity   = 0.02 // mild pull back toward the arena center
	particleFriction  = 0.98
	particleJitter    = 0.08 // per-axis micro-jitter amplitude
	particleShrinkExp = 0.7  // radius follows lifeRatio^exp, smoother than linear
	particleAlphaExp  = 1.5
	particleCountMin  = 50
	particleCountMax  = 300
)

// particleStyleParams defines one burst preset. Styles with a nil
// palette color every particle with the destroyed ring's color.
type particleStyleParams struct {
	countMult          float64
	speedMin, speedMax float64
	sizeMin, sizeMax   float64
	lifeMin, lifeMax   float64
	palette            []string
}

// The five presets are reproduced verbatim from the tuned originals;
// changing them changes event counts and breaks replay fidelity.
var particleStyles = map[ParticleStyle]particleStyleParams{
	ParticleStandard: {
		countMult: 1.0,
		speedMin:  1.0, speedMax: 4.0,
		sizeMin: 2.0, sizeMax: 5.0,
		lifeMin: 40, lifeMax: 80,
	},
	ParticleSparkle: {
		countMult: 1.2,
		speedMin:  0.5, speedMax: 2.5,
		sizeMin: 1.0, sizeMax: 3.0,
		lifeMin: 30, lifeMax: 60,
		palette: []string{"#ffffff", "#fff7c2", "#ffe98a", "#ffd34d"},
	},
	ParticleExplosion: {
		countMult: 1.6,
		speedMin:  3.0, speedMax: 8.0,
		sizeMin: 3.0, sizeMax: 7.0,
		lifeMin: 50, lifeMax: 100,
		palette: []string{"#ff4d00", "#ff8c00", "#ffc100", "#b30000"},
	},
	ParticleMinimal: {
		countMult: 0.5,
		speedMin:  1.0, speedMax: 3.0,
		sizeMin: 1.5, sizeMax: 3.5,
		lifeMin: 20, lifeMax: 40,
	},
	ParticleConfetti: {
		countMult: 1.4,
		speedMin:  2.0, speedMax: 6.0,
		sizeMin: 2.0, sizeMax: 6.0,
		lifeMin: 60, lifeMax: 120,
		palette: []string{"#ff5c8a", "#5cb8ff", "#7dff5c", "#ffe45c", "#b45cff", "#ff965c"},
	},
}

// emitParticles synthesizes the destruction burst for a ring. The count
// scales with ring radius, clamped to [50, 300]. Particles spawn on the
// ring's circumference moving outward with a tangential component.
func emitParticles(s *State, ring *Ring, ringColor string, cfg *Config, rng *rand.Rand) []Particle {
	style, ok := particleStyles[cfg.ParticleStyle]
	if !ok {
		style = particleStyles[ParticleStandard]
	}

	count := int(ring.Radius * style.countMult)
	if count < particleCountMin {
		count = particleCountMin
	}
	if count > particleCountMax {
		count = particleCountMax
	}

	center := cfg.Center()
	spawned := make([]Particle, 0, count)
	for i := 0; i < count; i++ {
		angle := randRange(rng, 0, 2*math.Pi)
		dir := NewVec2(math.Cos(angle), math.Sin(angle))
		pos := center.Plus(dir.Times(ring.Radius))

		speed := randRange(rng, style.speedMin, style.speedMax)
		tangent := NewVec2(-dir.Y, dir.X).Times(randRange(rng, -0.5, 0.5) * speed)
		vel := dir.Times(speed).Plus(tangent)

		size := randRange(rng, style.sizeMin, style.sizeMax)
		life := randRange(rng, style.lifeMin, style.lifeMax)

		color := ringColor
		if len(style.palette) > 0 {
			color = style.palette[rng.Intn(len(style.palette))]
		}

		p := Particle{
			ID:            s.NextParticleID,
			Position:      pos,
			Velocity:      vel,
			Radius:        size,
			InitialRadius: size,
			Color:         color,
			Alpha:         1.0,
			Life:          life,
			MaxLife:       life,
		}
		s.NextParticleID++
		spawned = append(spawned, p)
	}

	s.Particles = append(s.Particles, spawned...)
	return spawned
}

// updateParticles advances and culls the particle population for one
// frame: inward gravity, air friction, micro-jitter, and the nonlinear
// shrink/fade curves.
func updateParticles(s *State, cfg *Config, dt float64, rng *rand.Rand) {
	if len(s.Particles) == 0 {
		return
	}

	center := cfg.Center()
	alive := s.Particles[:0]
	for _, p := range s.Particles {
		inward := center.Minus(p.Position).Normalize()
		p.Velocity = p.Velocity.Plus(inward.Times(particleGravity * dt)).Times(particleFriction)
		p.Velocity.X = fix(p.Velocity.X + randRange(rng, -particleJitter, particleJitter))
		p.Velocity.Y = fix(p.Velocity.Y + randRange(rng, -particleJitter, particleJitter))
		p.Position = p.Position.Plus(p.Velocity.Times(dt))

		p.Life -= dt
		if p.Life <= 0 {
			continue
		}

		ratio := p.Life / p.MaxLife
		p.Radius = fix(p.InitialRadius * math.Pow(ratio, particleShrinkExp))
		p.Alpha = fix(math.Pow(ratio, particleAlphaExp))
		alive = append(alive, p)
	}
	s.Particles = alive
}
