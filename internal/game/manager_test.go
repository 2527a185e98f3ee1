package game

import (
	"testing"

	"github.com/ringrush/backend/internal/config"
)

func testManager(maxSessions int) *SessionManager {
	cfg := &config.Config{
		TickRate:             60,
		MaxSessions:          maxSessions,
		SessionExpiryMinutes: 10,
		SnapshotTTLSeconds:   3600,
		LeaderboardSize:      25,
		DefaultMode:          "classic",
	}
	return NewSessionManager(nil, nil, cfg)
}

func TestCreateAndLookupSession(t *testing.T) {
	sm := testManager(10)

	session, err := sm.CreateSession("alice", "classic", 11)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if session.Seed != 11 || session.Mode != "classic" {
		t.Errorf("session = %+v, want seed 11 mode classic", session)
	}

	byID, err := sm.GetSession(session.ID)
	if err != nil || byID != session {
		t.Error("lookup by ID failed")
	}
	byToken, err := sm.GetSessionByToken(session.Token)
	if err != nil || byToken != session {
		t.Error("lookup by token failed")
	}
	if sm.GetActiveSessionCount() != 1 {
		t.Errorf("active count = %d, want 1", sm.GetActiveSessionCount())
	}
}

func TestCreateSessionPicksSeedWhenZero(t *testing.T) {
	sm := testManager(10)
	session, err := sm.CreateSession("bob", "zen", 0)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if session.Seed == 0 {
		t.Error("server did not pick a seed")
	}
}

func TestCreateSessionRejectsUnknownMode(t *testing.T) {
	sm := testManager(10)
	if _, err := sm.CreateSession("carol", "pinball", 1); err == nil {
		t.Error("unknown mode must be rejected")
	}
}

func TestSessionCapacity(t *testing.T) {
	sm := testManager(2)

	if _, err := sm.CreateSession("a", "classic", 1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := sm.CreateSession("b", "classic", 2); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := sm.CreateSession("c", "classic", 3); err == nil {
		t.Error("capacity limit not enforced")
	}
}

func TestEndSessionRemovesFromMemory(t *testing.T) {
	sm := testManager(10)
	session, err := sm.CreateSession("dave", "classic", 4)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sm.EndSession(session.ID, StatusCompleted)

	if _, err := sm.GetSession(session.ID); err == nil {
		t.Error("ended session still resolvable by ID")
	}
	if sm.GetActiveSessionCount() != 0 {
		t.Errorf("active count = %d, want 0", sm.GetActiveSessionCount())
	}
}

func TestLeaderboardRequiresRedis(t *testing.T) {
	sm := testManager(10)
	if _, err := sm.Leaderboard("classic"); err == nil {
		t.Error("leaderboard without redis must error")
	}
}
