package connection

import (
	"net"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"bomberman/internal/framing"
	"bomberman/internal/protocol"
	"bomberman/internal/state"
)

type stubJoiner struct {
	nextID protocol.PlayerId
}

func (j *stubJoiner) Join(name, address string) (protocol.PlayerId, bool) {
	id := j.nextID
	j.nextID++
	return id, true
}

func testConfig() state.Config {
	return state.Config{
		ServerName:      "S",
		SizeX:           5,
		SizeY:           5,
		PlayersCount:    2,
		GameLength:      3,
		ExplosionRadius: 1,
		BombTimer:       2,
		TurnDuration:    time.Millisecond,
		Seed:            1,
	}
}

func TestGreetLobbyRepliesHelloThenAcceptedPlayers(t *testing.T) {
	st := state.New(testConfig())
	st.AcceptJoin("alice", "10.0.0.1:1")

	c := New(st, &stubJoiner{}, Config{RateLimit: rate.Inf, RateBurst: 100})

	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()
	go c.handleAccept(serverConn)

	clientStream := framing.NewTCPStream(clientConn)

	msg, err := clientStream.DecodeServerMessage()
	if err != nil {
		t.Fatal(err)
	}
	hello, ok := msg.(protocol.HelloMessage)
	if !ok || hello.ServerName != "S" {
		t.Fatalf("first message = %#v, want Hello", msg)
	}

	msg, err = clientStream.DecodeServerMessage()
	if err != nil {
		t.Fatal(err)
	}
	accepted, ok := msg.(protocol.AcceptedPlayerMessage)
	if !ok || accepted.PlayerId != 0 || accepted.Player.Name != "alice" {
		t.Fatalf("second message = %#v, want AcceptedPlayer(0, alice)", msg)
	}
}

func TestGreetPlayingRepliesGameStartedThenHistory(t *testing.T) {
	st := state.New(testConfig())
	st.AcceptJoin("alice", "10.0.0.1:1")
	st.AcceptJoin("bob", "10.0.0.2:2")
	st.AppendTurn(protocol.TurnMessage{Turn: 0, Events: []protocol.Event{
		protocol.PlayerMovedEvent{PlayerId: 0, Position: protocol.Position{X: 1, Y: 1}},
	}})

	c := New(st, &stubJoiner{}, Config{RateLimit: rate.Inf, RateBurst: 100})

	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()
	go c.handleAccept(serverConn)

	clientStream := framing.NewTCPStream(clientConn)

	if _, err := clientStream.DecodeServerMessage(); err != nil {
		t.Fatal(err)
	}
	msg, err := clientStream.DecodeServerMessage()
	if err != nil {
		t.Fatal(err)
	}
	started, ok := msg.(protocol.GameStartedMessage)
	if !ok || len(started.Players) != 2 {
		t.Fatalf("got %#v, want GameStarted with 2 players", msg)
	}
	msg, err = clientStream.DecodeServerMessage()
	if err != nil {
		t.Fatal(err)
	}
	turn, ok := msg.(protocol.TurnMessage)
	if !ok || turn.Turn != 0 {
		t.Fatalf("got %#v, want replayed Turn 0", msg)
	}
}

func TestJoinMessageAssignsIDAndSubsequentIntentIsSubmitted(t *testing.T) {
	st := state.New(testConfig())
	c := New(st, &stubJoiner{}, Config{RateLimit: rate.Inf, RateBurst: 100})

	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()
	go c.handleAccept(serverConn)

	clientStream := framing.NewTCPStream(clientConn)
	// Drain Hello.
	if _, err := clientStream.DecodeServerMessage(); err != nil {
		t.Fatal(err)
	}

	if err := clientStream.WriteClientMessage(protocol.JoinMessage{Name: "carol"}); err != nil {
		t.Fatal(err)
	}
	if err := clientStream.WriteClientMessage(protocol.MoveMessage{Direction: protocol.DirectionUp}); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(time.Second)
	for {
		drained := st.Intents().Drain()
		if len(drained) == 1 {
			if _, ok := drained[0].(protocol.MoveMessage); !ok {
				t.Fatalf("intent for id 0 = %#v, want MoveMessage", drained[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for intent to be submitted")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestBroadcastRemovesConnectionOnSendError(t *testing.T) {
	st := state.New(testConfig())
	c := New(st, &stubJoiner{}, Config{RateLimit: rate.Inf, RateBurst: 100})

	goodServer, goodClient := net.Pipe()
	defer goodClient.Close()
	badServer, badClient := net.Pipe()
	badClient.Close() // the peer is already gone

	goodPC := &PlayerConnection{stream: framing.NewTCPStream(goodServer), limiter: rate.NewLimiter(rate.Inf, 1)}
	badPC := &PlayerConnection{stream: framing.NewTCPStream(badServer), limiter: rate.NewLimiter(rate.Inf, 1)}
	c.conns[goodPC] = struct{}{}
	c.conns[badPC] = struct{}{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		clientStream := framing.NewTCPStream(goodClient)
		if _, err := clientStream.DecodeServerMessage(); err != nil {
			t.Error(err)
		}
	}()

	c.Broadcast(protocol.GameEndedMessage{Scores: map[protocol.PlayerId]protocol.Score{}})
	<-done

	if c.ConnectionCount() != 1 {
		t.Fatalf("connection count = %d, want 1 (bad connection removed)", c.ConnectionCount())
	}
	stats := c.Stats()
	if stats["sent"] != 1 || stats["dropped"] != 1 {
		t.Fatalf("stats = %+v, want sent=1 dropped=1", stats)
	}
}
