package sim

// Event types emitted by a step, consumed by the rendering/audio layer.
const (
	EventWallCollision    = "wall_collision"
	EventRingBounce       = "ring_bounce"
	EventRingDestroyed    = "ring_destroyed"
	EventParticlesSpawned = "particles_spawned"
	EventBallGrew         = "ball_grew"
	EventBallSpawned      = "ball_spawned"
	EventGameOver         = "game_over"
)

// Event records one discrete occurrence during a step. A single struct
// with a type discriminator keeps the wire format flat for WS clients;
// unused fields are omitted.
type Event struct {
	Type        string     `json:"type"`
	Wall        string     `json:"wall,omitempty"` // "left", "right", "top", "bottom"
	BallID      int        `json:"ball_id,omitempty"`
	RingID      int        `json:"ring_id,omitempty"`
	ImpactSpeed float64    `json:"impact_speed,omitempty"`
	Center      *Vec2      `json:"center,omitempty"`
	Radius      float64    `json:"radius,omitempty"`
	Color       string     `json:"color,omitempty"`
	NewRadius   float64    `json:"new_radius,omitempty"`
	Ball        *Ball      `json:"ball,omitempty"`
	Particles   []Particle `json:"particles,omitempty"`
	Score       int        `json:"score,omitempty"`
}
