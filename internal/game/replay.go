package game

import (
	"fmt"

	"github.com/ringrush/backend/internal/sim"
)

// Replay re-simulates a run from its seed and mode for the given
// number of frames. Because every source of randomness flows through
// the seeded generator, the resulting state is bit-identical to the
// original run at the same frame.
func Replay(mode string, seed int64, frames int64) (*Session, error) {
	cfg, ok := sim.Preset(mode)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	session := NewSession(generateSessionID(), generateToken(16), "", mode, seed, cfg)
	for i := int64(0); i < frames; i++ {
		session.Advance(1.0)
		if session.CurrentStatus() == StatusCompleted {
			break
		}
	}
	return session, nil
}

// ReplayResult summarizes a verification replay
type ReplayResult struct {
	Mode           string `json:"mode"`
	Seed           int64  `json:"seed"`
	Frames         int64  `json:"frames"`
	Score          int    `json:"score"`
	RingsDestroyed int    `json:"rings_destroyed"`
	GameOver       bool   `json:"game_over"`
	Verified       bool   `json:"verified"`
}

// VerifyScore replays a finished run and checks the claimed score
// against the deterministic outcome.
func VerifyScore(mode string, seed int64, frames int64, claimedScore int) (*ReplayResult, error) {
	session, err := Replay(mode, seed, frames)
	if err != nil {
		return nil, err
	}

	snap := session.Snapshot()
	ringsDestroyed := 0
	for _, r := range snap.State.Rings {
		if r.Destroyed {
			ringsDestroyed++
		}
	}

	return &ReplayResult{
		Mode:           mode,
		Seed:           seed,
		Frames:         snap.Frame,
		Score:          snap.Score,
		RingsDestroyed: ringsDestroyed,
		GameOver:       snap.GameOver,
		Verified:       snap.Score == claimedScore,
	}, nil
}
