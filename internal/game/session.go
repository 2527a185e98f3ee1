package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/ringrush/backend/internal/sim"
)

// SessionStatus tracks the lifecycle of a hosted simulation
type SessionStatus string

const (
	StatusLive      SessionStatus = "live"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
	StatusExpired   SessionStatus = "expired"
)

// Session is one server-hosted simulation run. The authoritative state
// advances only through sim.Step, so a session can always be replayed
// from its seed and mode.
type Session struct {
	ID         string
	Token      string
	PlayerName string
	Mode       string
	Seed       int64

	Config sim.Config
	State  sim.State

	Status       SessionStatus
	Frame        int64
	DBSessionID  int
	CreatedAt    time.Time
	LastActivity time.Time

	rng *rand.Rand
	mu  sync.RWMutex
}

// NewSession builds a session with a fresh deterministic state
func NewSession(id, token, playerName, mode string, seed int64, cfg sim.Config) *Session {
	rng := sim.NewRand(seed)
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		PlayerName:   playerName,
		Mode:         mode,
		Seed:         seed,
		Config:       cfg,
		State:        sim.NewState(cfg, rng),
		Status:       StatusLive,
		rng:          rng,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Advance steps the simulation by dt frames and returns the events
// produced. It is a no-op unless the session is live.
func (s *Session) Advance(dt float64) []sim.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusLive {
		return nil
	}

	next, events := sim.Step(s.State, dt, s.Config, s.rng)
	s.State = next
	s.Frame++

	if s.State.GameOver {
		s.Status = StatusCompleted
	}
	return events
}

// Pause suspends a live session
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusLive {
		return errors.New("session is not live")
	}
	s.Status = StatusPaused
	s.LastActivity = time.Now()
	return nil
}

// Resume continues a paused session
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusPaused {
		return errors.New("session is not paused")
	}
	s.Status = StatusLive
	s.LastActivity = time.Now()
	return nil
}

// Touch marks the session as recently active
func (s *Session) Touch() {
	s.mu.Lock()
	s.LastActivity = time.Now()
	s.mu.Unlock()
}

// Expire marks the session expired (reaper path)
func (s *Session) Expire() {
	s.mu.Lock()
	if s.Status == StatusLive || s.Status == StatusPaused {
		s.Status = StatusExpired
	}
	s.mu.Unlock()
}

// CurrentStatus returns the status under the session lock
func (s *Session) CurrentStatus() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Snapshot returns a JSON-safe view of the session for clients and
// for the Redis snapshot store.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionSnapshot{
		ID:         s.ID,
		Token:      s.Token,
		PlayerName: s.PlayerName,
		Mode:       s.Mode,
		Seed:       s.Seed,
		Status:     string(s.Status),
		Frame:      s.Frame,
		Score:      s.State.Score,
		GameOver:   s.State.GameOver,
		State:      s.State.Clone(),
		CreatedAt:  s.CreatedAt,
	}
}

// SessionSnapshot is the wire/storage form of a session
type SessionSnapshot struct {
	ID         string    `json:"id"`
	Token      string    `json:"token"`
	PlayerName string    `json:"player_name"`
	Mode       string    `json:"mode"`
	Seed       int64     `json:"seed"`
	Status     string    `json:"status"`
	Frame      int64     `json:"frame"`
	Score      int       `json:"score"`
	GameOver   bool      `json:"game_over"`
	State      sim.State `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}
