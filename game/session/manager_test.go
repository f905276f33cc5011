package session

import (
	"testing"

	"github.com/jmorel/yam-master-server/game/engine"
)

func newTestManager() (*Manager, *fakeEmitter) {
	emitter := &fakeEmitter{}
	return NewManager(emitter, testSettings()), emitter
}

func closeAll(t *testing.T, m *Manager) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.Close()
	}
}

func TestJoinQueueWaitsForOpponent(t *testing.T) {
	m, emitter := newTestManager()
	defer closeAll(t, m)

	m.JoinQueue("a")

	if m.QueueLen() != 1 {
		t.Fatalf("queue length = %d, want 1", m.QueueLen())
	}
	queued := emitter.byEvent("a", EventQueueAdded)
	if len(queued) != 1 {
		t.Fatalf("got %d queue.added pushes, want 1", len(queued))
	}
	if view := queued[0].(QueueView); !view.InQueue || view.InGame {
		t.Errorf("unexpected queue view %+v", view)
	}
}

func TestJoinQueuePairsFirstInFirstOut(t *testing.T) {
	m, emitter := newTestManager()
	defer closeAll(t, m)

	m.JoinQueue("a")
	m.JoinQueue("b")

	if m.QueueLen() != 0 {
		t.Fatalf("queue length = %d after pairing, want 0", m.QueueLen())
	}

	sa, roleA, ok := m.Lookup("a")
	if !ok || roleA != engine.RolePlayer1 {
		t.Fatalf("a seated as %s (found=%v), want player:1", roleA, ok)
	}
	sb, roleB, ok := m.Lookup("b")
	if !ok || roleB != engine.RolePlayer2 {
		t.Fatalf("b seated as %s (found=%v), want player:2", roleB, ok)
	}
	if sa != sb {
		t.Fatal("both clients should share one session")
	}
	if sa.VsBot() {
		t.Error("a paired match is not a bot game")
	}

	starts := emitter.byEvent("a", EventGameStart)
	if len(starts) != 1 {
		t.Fatalf("got %d game.start pushes for a, want 1", len(starts))
	}
	if view := starts[0].(StartView); view.IDOpponent != "b" || view.IDBot != "" {
		t.Errorf("unexpected start view for a: %+v", view)
	}
}

func TestJoinQueueIgnoresDoubleJoin(t *testing.T) {
	m, _ := newTestManager()
	defer closeAll(t, m)

	m.JoinQueue("a")
	m.JoinQueue("a")
	if m.QueueLen() != 1 {
		t.Fatalf("queue length = %d, want 1", m.QueueLen())
	}

	m.JoinQueue("b")
	m.JoinQueue("a") // already in a session now
	if m.QueueLen() != 0 {
		t.Fatalf("queue length = %d, want 0", m.QueueLen())
	}
}

func TestJoinBotGameRefusesSeatedClient(t *testing.T) {
	m, _ := newTestManager()
	defer closeAll(t, m)

	s, err := m.JoinBotGame("a")
	if err != nil {
		t.Fatalf("JoinBotGame: %v", err)
	}
	if !s.VsBot() {
		t.Fatal("session should be a bot game")
	}
	if _, role, ok := m.Lookup("a"); !ok || role != engine.RolePlayer1 {
		t.Fatalf("a seated as %s (found=%v), want player:1", role, ok)
	}
	if _, _, ok := m.Lookup(BotID); ok {
		t.Error("the bot must not be addressable as a client")
	}

	if _, err := m.JoinBotGame("a"); err != ErrAlreadyPlaying {
		t.Errorf("second join error = %v, want ErrAlreadyPlaying", err)
	}
}

func TestDisconnectLeavesQueue(t *testing.T) {
	m, _ := newTestManager()
	defer closeAll(t, m)

	m.JoinQueue("a")
	m.Disconnect("a")
	if m.QueueLen() != 0 {
		t.Fatalf("queue length = %d after disconnect, want 0", m.QueueLen())
	}

	// the client can come back
	m.JoinQueue("a")
	if m.QueueLen() != 1 {
		t.Fatalf("queue length = %d after rejoin, want 1", m.QueueLen())
	}
}

func TestDisconnectTearsDownBothSeats(t *testing.T) {
	m, _ := newTestManager()
	defer closeAll(t, m)

	m.JoinQueue("a")
	m.JoinQueue("b")
	s, _, _ := m.Lookup("a")

	m.Disconnect("a")

	if _, _, ok := m.Lookup("a"); ok {
		t.Error("a should be unseated")
	}
	if _, _, ok := m.Lookup("b"); ok {
		t.Error("the companion seat goes down with the session")
	}
	if _, ok := m.Get(s.ID); ok {
		t.Error("the session should be dropped from the registry")
	}
	if len(m.Sessions()) != 0 {
		t.Errorf("got %d live sessions, want 0", len(m.Sessions()))
	}
}

func TestSessionsListsLiveMatches(t *testing.T) {
	m, _ := newTestManager()
	defer closeAll(t, m)

	if _, err := m.JoinBotGame("a"); err != nil {
		t.Fatalf("JoinBotGame: %v", err)
	}
	m.JoinQueue("b")
	m.JoinQueue("c")

	infos := m.Sessions()
	if len(infos) != 2 {
		t.Fatalf("got %d sessions, want 2", len(infos))
	}
	var bots int
	for _, info := range infos {
		if info.VsBot {
			bots++
		}
		if info.CurrentTurn != engine.RolePlayer1 {
			t.Errorf("session %s turn = %s, want player:1", info.ID, info.CurrentTurn)
		}
	}
	if bots != 1 {
		t.Errorf("got %d bot sessions, want 1", bots)
	}
}
