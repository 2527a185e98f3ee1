package sim

import (
	"math"
	"math/rand"
)

// Ball is a projectile bouncing inside the arena and rings.
type Ball struct {
	ID           int     `json:"id"`
	Position     Vec2    `json:"position"`
	Velocity     Vec2    `json:"velocity"`
	Radius       float64 `json:"radius"`
	InitialSpeed float64 `json:"initial_speed"` // captured at spawn; floors later speed clamps
	Elasticity   float64 `json:"elasticity"`
	LastWallHit  float64 `json:"last_wall_hit"` // sim time of last wall contact
	LastRingHit  float64 `json:"last_ring_hit"` // tracked separately from walls
	Growing      bool    `json:"growing"`
}

// Ring is a concentric circular boundary with a rotating angular gate.
type Ring struct {
	ID                    int     `json:"id"`
	Index                 int     `json:"index"` // 0 = innermost
	Radius                float64 `json:"radius"`
	TargetRadius          float64 `json:"target_radius"`
	OriginalRadius        float64 `json:"original_radius"`
	Rotation              float64 `json:"rotation"` // gate start angle, [0, 2π)
	RotationSpeed         float64 `json:"rotation_speed"`
	OriginalRotationSpeed float64 `json:"original_rotation_speed"`
	Destroyed             bool    `json:"destroyed"` // one-way
	Flashing              bool    `json:"flashing"`  // transient cue while retarget animates
}

// Particle is a decorative fragment spawned on ring destruction.
type Particle struct {
	ID            int     `json:"id"`
	Position      Vec2    `json:"position"`
	Velocity      Vec2    `json:"velocity"`
	Radius        float64 `json:"radius"`
	InitialRadius float64 `json:"initial_radius"`
	Color         string  `json:"color"`
	Alpha         float64 `json:"alpha"`
	Life          float64 `json:"life"`
	MaxLife       float64 `json:"max_life"`
}

// State is the complete simulation snapshot. Step never mutates its
// input state; it clones and returns a new value.
type State struct {
	Time           float64    `json:"time"` // elapsed frame-equivalents
	Balls          []Ball     `json:"balls"`
	Rings          []Ring     `json:"rings"`
	Particles      []Particle `json:"particles"`
	Score          int        `json:"score"`
	GameOver       bool       `json:"game_over"`
	ShrinkAccum    float64    `json:"shrink_accum"` // cumulative shrink factor product
	NextBallID     int        `json:"next_ball_id"`
	NextParticleID int        `json:"next_particle_id"`
}

// ringPalette colors rings by index; particles derive their palette from
// the destroyed ring's color for the styles that do not bring their own.
var ringPalette = []string{
	"#ff5c5c", "#ffb65c", "#ffe45c", "#7dff5c", "#5cd8ff",
	"#5c7aff", "#b45cff", "#ff5cd8",
}

// RingColor returns the display color for a ring index.
func RingColor(index int) string {
	return ringPalette[index%len(ringPalette)]
}

// NewState builds the initial state for a config: rings laid out from
// BaseRingRadius outward with progressively offset gates, and one ball
// launched from the arena center.
func NewState(cfg Config, rng *rand.Rand) State {
	s := State{
		ShrinkAccum:    1.0,
		NextBallID:     1,
		NextParticleID: 1,
	}

	if cfg.RingsEnabled {
		s.Rings = make([]Ring, 0, cfg.RingCount)
		for i := 0; i < cfg.RingCount; i++ {
			radius := fix(cfg.BaseRingRadius + float64(i)*cfg.RingSpacing)
			offset := wrapAngle(float64(i) * cfg.ProgressiveRotationOffsetPct * 2 * math.Pi)
			s.Rings = append(s.Rings, Ring{
				ID:                    i + 1,
				Index:                 i,
				Radius:                radius,
				TargetRadius:          radius,
				OriginalRadius:        radius,
				Rotation:              offset,
				RotationSpeed:         cfg.RotationSpeed,
				OriginalRotationSpeed: cfg.RotationSpeed,
			})
		}
	}

	dir := randUnit(rng)
	speed := fix((cfg.MinVelocity + cfg.MaxVelocity) / 2)
	s.Balls = []Ball{{
		ID:           s.NextBallID,
		Position:     cfg.Center(),
		Velocity:     dir.Times(speed),
		Radius:       cfg.BaseBallRadius,
		InitialSpeed: speed,
		Elasticity:   1.0,
		LastWallHit:  -1000,
		LastRingHit:  -1000,
	}}
	s.NextBallID++

	return s
}

// Clone returns a deep copy; the slices are freshly allocated so the
// caller can diff old and new snapshots.
func (s State) Clone() State {
	out := s
	out.Balls = append([]Ball(nil), s.Balls...)
	out.Rings = append([]Ring(nil), s.Rings...)
	out.Particles = append([]Particle(nil), s.Particles...)
	return out
}

// ActiveRings counts rings not yet destroyed.
func (s State) ActiveRings() int {
	n := 0
	for _, r := range s.Rings {
		if !r.Destroyed {
			n++
		}
	}
	return n
}
