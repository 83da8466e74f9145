package state

import (
	"testing"
	"time"

	"bomberman/internal/protocol"
)

func testConfig() Config {
	return Config{
		ServerName:      "S",
		SizeX:           5,
		SizeY:           5,
		PlayersCount:    2,
		GameLength:      10,
		ExplosionRadius: 1,
		BombTimer:       3,
		InitialBlocks:   2,
		TurnDuration:    10 * time.Millisecond,
		Seed:            1,
	}
}

func TestAcceptJoinFlipsToPlayingOnLastSlot(t *testing.T) {
	s := New(testConfig())

	id0, ok, started := s.AcceptJoin("a", "1.1.1.1:1")
	if !ok || started || id0 != 0 {
		t.Fatalf("first join: id=%d ok=%v started=%v", id0, ok, started)
	}
	if s.Phase() != PhaseLobby {
		t.Fatalf("phase after first join = %v, want Lobby", s.Phase())
	}

	id1, ok, started := s.AcceptJoin("b", "2.2.2.2:2")
	if !ok || !started || id1 != 1 {
		t.Fatalf("second join: id=%d ok=%v started=%v", id1, ok, started)
	}
	if s.Phase() != PhasePlaying {
		t.Fatalf("phase after second join = %v, want Playing", s.Phase())
	}

	if _, ok, _ := s.AcceptJoin("c", "3.3.3.3:3"); ok {
		t.Fatal("third join accepted past players_count")
	}
}

func TestPlayerIDsAscending(t *testing.T) {
	s := New(testConfig())
	s.AcceptJoin("a", "1:1")
	s.AcceptJoin("b", "2:2")
	ids := s.PlayerIDsAscending()
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Fatalf("got %v", ids)
	}
}

func TestBombLifecycle(t *testing.T) {
	s := New(testConfig())
	id := s.AddBomb(protocol.Position{X: 1, Y: 1})
	b, ok := s.Bomb(id)
	if !ok || b.Timer != s.Config.BombTimer {
		t.Fatalf("got %+v, ok=%v", b, ok)
	}
	if got := s.DecrementBombTimer(id); got != b.Timer-1 {
		t.Fatalf("decremented timer = %d, want %d", got, b.Timer-1)
	}
	s.RemoveBomb(id)
	if _, ok := s.Bomb(id); ok {
		t.Fatal("bomb still present after removal")
	}
}

func TestAddBlockRejectsDuplicate(t *testing.T) {
	s := New(testConfig())
	p := protocol.Position{X: 2, Y: 2}
	if !s.AddBlock(p) {
		t.Fatal("first AddBlock should report newly added")
	}
	if s.AddBlock(p) {
		t.Fatal("second AddBlock on same position should report no-op")
	}
	if !s.HasBlock(p) {
		t.Fatal("HasBlock false after AddBlock")
	}
	s.RemoveBlocks([]protocol.Position{p})
	if s.HasBlock(p) {
		t.Fatal("HasBlock true after RemoveBlocks")
	}
}

func TestResetClearsEntitiesKeepsConfig(t *testing.T) {
	s := New(testConfig())
	s.AcceptJoin("a", "1:1")
	s.AddBlock(protocol.Position{X: 0, Y: 0})
	s.AddBomb(protocol.Position{X: 1, Y: 1})
	s.IncrementScore(0)

	s.Reset()

	if s.Phase() != PhaseLobby {
		t.Fatal("phase not reset to Lobby")
	}
	if len(s.PlayersSnapshot()) != 0 {
		t.Fatal("players not cleared")
	}
	if len(s.BlocksSnapshot()) != 0 {
		t.Fatal("blocks not cleared")
	}
	if len(s.BombsSnapshot()) != 0 {
		t.Fatal("bombs not cleared")
	}
	if s.Config.SizeX != testConfig().SizeX {
		t.Fatal("config mutated by reset")
	}
	// A fresh game reuses PlayerId 0.
	id, ok, _ := s.AcceptJoin("c", "3:3")
	if !ok || id != 0 {
		t.Fatalf("post-reset join id = %d, ok=%v, want 0/true", id, ok)
	}
}

func TestIntentQueueDrainIsLastWriterWins(t *testing.T) {
	q := NewIntentQueue()
	q.Submit(0, protocol.MoveMessage{Direction: protocol.DirectionUp})
	q.Submit(0, protocol.PlaceBombMessage{})
	q.Submit(1, protocol.MoveMessage{Direction: protocol.DirectionLeft})

	drained := q.Drain()
	if len(drained) != 2 {
		t.Fatalf("drained %d intents, want 2", len(drained))
	}
	if _, ok := drained[0].(protocol.PlaceBombMessage); !ok {
		t.Fatalf("player 0's intent = %#v, want the later PlaceBomb", drained[0])
	}
	if mv, ok := drained[1].(protocol.MoveMessage); !ok || mv.Direction != protocol.DirectionLeft {
		t.Fatalf("player 1's intent = %#v", drained[1])
	}

	// A second drain with nothing submitted is empty, not blocking.
	if d := q.Drain(); len(d) != 0 {
		t.Fatalf("second drain = %v, want empty", d)
	}
}

func TestHistoryAppendAndSnapshot(t *testing.T) {
	s := New(testConfig())
	s.AppendTurn(protocol.TurnMessage{Turn: 0})
	s.AppendTurn(protocol.TurnMessage{Turn: 1})
	hist := s.HistorySnapshot()
	if len(hist) != 2 || hist[0].Turn != 0 || hist[1].Turn != 1 {
		t.Fatalf("got %+v", hist)
	}
}
