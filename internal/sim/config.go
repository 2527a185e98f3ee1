package sim

import "math"

// ParticleStyle selects one of the burst presets spawned on ring escape.
type ParticleStyle string

const (
	ParticleStandard  ParticleStyle = "standard"
	ParticleSparkle   ParticleStyle = "sparkle"
	ParticleExplosion ParticleStyle = "explosion"
	ParticleMinimal   ParticleStyle = "minimal"
	ParticleConfetti  ParticleStyle = "confetti"
)

// Config holds every tunable of the simulation. A game mode is a preset
// of this struct plus the resolver toggles. Several of the collision
// constants (gate margin, pass depth, safety margins) are gameplay-tuned
// rather than derived; they are kept configurable with the tuned defaults.
type Config struct {
	ArenaWidth  float64 `json:"arena_width"`
	ArenaHeight float64 `json:"arena_height"`

	Gravity        float64 `json:"gravity"`
	GravityScaling float64 `json:"gravity_scaling"`
	AirResistance  float64 `json:"air_resistance"`
	MinVelocity    float64 `json:"min_velocity"`
	MaxVelocity    float64 `json:"max_velocity"`
	Bounciness     float64 `json:"bounciness"`

	WallsEnabled       bool    `json:"walls_enabled"`
	WallMargin         float64 `json:"wall_margin"`
	WallSafetyFrac     float64 `json:"wall_safety_frac"` // safety margin as fraction of ball radius
	MinReboundVelocity float64 `json:"min_rebound_velocity"`
	WallFriction       float64 `json:"wall_friction"`    // tangential multiplier on bounce
	WallJitterMax      float64 `json:"wall_jitter_max"`  // max post-bounce angle perturbation, radians
	WallImmunityFrames float64 `json:"wall_immunity_frames"`

	RingsEnabled     bool    `json:"rings_enabled"`
	RingCount        int     `json:"ring_count"`
	BaseRingRadius   float64 `json:"base_ring_radius"` // innermost ring
	RingSpacing      float64 `json:"ring_spacing"`
	GateWidthRadians float64 `json:"gate_width_radians"`
	GateMarginFrac   float64 `json:"gate_margin_frac"` // forgiveness margin, fraction of gate width
	PassDepthFrac    float64 `json:"pass_depth_frac"`  // pass-through depth test, fraction of ball radius
	RotationSpeed    float64 `json:"rotation_speed"`   // radians per frame for the innermost ring

	// ProgressiveRotationOffsetPct staggers each ring's gate start angle
	// by this fraction of a full turn per ring index.
	ProgressiveRotationOffsetPct float64 `json:"progressive_rotation_offset_pct"`

	RingSafetyMargin   float64 `json:"ring_safety_margin"`
	RingImmunityFrames float64 `json:"ring_immunity_frames"`

	ShrinkOnDestroy bool    `json:"shrink_on_destroy"`
	ShrinkFactor    float64 `json:"shrink_factor"`
	MinRingGap      float64 `json:"min_ring_gap"`
	MinRingRadius   float64 `json:"min_ring_radius"`

	BallsOnDestroy int     `json:"balls_on_destroy"`
	MaxBallCount   int     `json:"max_ball_count"`
	BaseBallRadius float64 `json:"base_ball_radius"`
	GrowthRate     float64 `json:"growth_rate"`
	GrowthCapFrac  float64 `json:"growth_cap_frac"` // ball radius cap, fraction of half the short arena side

	ScorePerRing  int           `json:"score_per_ring"`
	ParticleStyle ParticleStyle `json:"particle_style"`
}

// DefaultConfig returns the classic-mode tuning.
func DefaultConfig() Config {
	return Config{
		ArenaWidth:  800,
		ArenaHeight: 600,

		Gravity:        0.15,
		GravityScaling: 1.0,
		AirResistance:  0.999,
		MinVelocity:    2.0,
		MaxVelocity:    15.0,
		Bounciness:     0.85,

		WallsEnabled:       true,
		WallMargin:         5.0,
		WallSafetyFrac:     0.1,
		MinReboundVelocity: 1.5,
		WallFriction:       0.98,
		WallJitterMax:      0.05,
		WallImmunityFrames: 3,

		RingsEnabled:     true,
		RingCount:        5,
		BaseRingRadius:   100,
		RingSpacing:      40,
		GateWidthRadians: 30 * math.Pi / 180,
		GateMarginFrac:   0.10,
		PassDepthFrac:    0.5,
		RotationSpeed:    0.02,

		ProgressiveRotationOffsetPct: 0.15,

		RingSafetyMargin:   1.0,
		RingImmunityFrames: 3,

		ShrinkOnDestroy: true,
		ShrinkFactor:    0.85,
		MinRingGap:      15,
		MinRingRadius:   40,

		BallsOnDestroy: 1,
		MaxBallCount:   20,
		BaseBallRadius: 12,
		GrowthRate:     0,
		GrowthCapFrac:  0.45,

		ScorePerRing:  10,
		ParticleStyle: ParticleStandard,
	}
}

// Preset returns the config for a named game mode. The five modes cover
// the variants the engine replaces: classic, zen, cascade, walls, frenzy.
func Preset(mode string) (Config, bool) {
	cfg := DefaultConfig()
	switch mode {
	case "classic":
		return cfg, true
	case "zen":
		cfg.Gravity = 0
		cfg.WallsEnabled = false
		cfg.ShrinkOnDestroy = false
		cfg.BallsOnDestroy = 0
		cfg.ParticleStyle = ParticleMinimal
		return cfg, true
	case "cascade":
		cfg.BallsOnDestroy = 2
		cfg.ShrinkFactor = 0.8
		cfg.RingCount = 7
		cfg.RingSpacing = 32
		cfg.ParticleStyle = ParticleSparkle
		return cfg, true
	case "walls":
		cfg.RingsEnabled = false
		cfg.GrowthRate = 0.5
		cfg.Gravity = 0.25
		cfg.ParticleStyle = ParticleExplosion
		return cfg, true
	case "frenzy":
		cfg.Gravity = 0.3
		cfg.GrowthRate = 0.4
		cfg.BallsOnDestroy = 3
		cfg.MaxBallCount = 30
		cfg.RotationSpeed = 0.035
		cfg.ParticleStyle = ParticleConfetti
		return cfg, true
	}
	return Config{}, false
}

// Modes lists the available game mode presets.
func Modes() []string {
	return []string{"classic", "zen", "cascade", "walls", "frenzy"}
}

// Center returns the arena center, which is also the ring center.
func (c Config) Center() Vec2 {
	return NewVec2(c.ArenaWidth/2, c.ArenaHeight/2)
}

// growthCap is the maximum ball radius allowed by the growth rule, and
// also the radius at which growth-mode games end.
func (c Config) growthCap() float64 {
	short := math.Min(c.ArenaWidth, c.ArenaHeight)
	return fix(c.GrowthCapFrac * short / 2)
}
