package framing

import (
	"net"
	"testing"
	"time"

	"bomberman/internal/protocol"
)

func TestTCPStreamRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	serverStream := NewTCPStream(server)
	clientStream := NewTCPStream(client)

	done := make(chan error, 1)
	go func() {
		done <- clientStream.WriteClientMessage(protocol.JoinMessage{Name: "alice"})
	}()

	msg, err := serverStream.DecodeClientMessage()
	if err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	join, ok := msg.(protocol.JoinMessage)
	if !ok || join.Name != "alice" {
		t.Fatalf("got %#v", msg)
	}
}

func TestTCPStreamAbortedMidMessage(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	serverStream := NewTCPStream(server)

	go func() {
		// Write a truncated Hello (tag, a name length of 5, and only one
		// of the five name bytes), then close without the rest.
		client.Write([]byte{0x00, 0x05, 'S'})
		client.Close()
	}()

	_, err := serverStream.DecodeServerMessage()
	if err == nil {
		t.Fatal("expected an error decoding a truncated, then-closed stream")
	}
}

func TestUDPEndpointRoundTrip(t *testing.T) {
	clientSideConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer clientSideConn.Close()

	guiSideConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer guiSideConn.Close()

	clientSide := NewUDPEndpoint(clientSideConn)
	guiSide := NewUDPEndpoint(guiSideConn)

	clientAddr, err := net.ResolveUDPAddr("udp", clientSideConn.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	guiAddr, err := net.ResolveUDPAddr("udp", guiSideConn.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}

	// GUI -> client: an input datagram.
	if err := guiSide.WriteGuiDraw(nil, nil); err == nil {
		t.Fatal("expected an error encoding a nil GuiDraw")
	}
	writeDone := make(chan error, 1)
	go func() {
		e := protocol.NewEncoder()
		if err := protocol.EncodeGuiInput(e, protocol.GuiMove{Direction: protocol.DirectionLeft}); err != nil {
			writeDone <- err
			return
		}
		_, err := guiSideConn.WriteTo(e.Bytes(), clientAddr)
		writeDone <- err
	}()
	if err := <-writeDone; err != nil {
		t.Fatal(err)
	}
	in, _, err := clientSide.ReadGuiInput()
	if err != nil {
		t.Fatal(err)
	}
	if mv, ok := in.(protocol.GuiMove); !ok || mv.Direction != protocol.DirectionLeft {
		t.Fatalf("got %#v", in)
	}

	// client -> GUI: a draw datagram.
	draw := protocol.LobbyDraw{ServerName: "S", PlayersCount: 1}
	if err := clientSide.WriteGuiDraw(draw, guiAddr); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	n, _, err := guiSideConn.ReadFrom(make([]byte, 4096))
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("expected a non-empty datagram")
	}
}

func TestUDPTrailingBytesIsTooLong(t *testing.T) {
	serverConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer serverConn.Close()

	clientConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer clientConn.Close()

	serverAddr, err := net.ResolveUDPAddr("udp", serverConn.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}

	// A valid GuiMove encoding plus one trailing byte.
	e := protocol.NewEncoder()
	_ = protocol.EncodeGuiInput(e, protocol.GuiMove{Direction: protocol.DirectionUp})
	payload := append(e.Bytes(), 0xFF)
	if _, err := clientConn.WriteTo(payload, serverAddr); err != nil {
		t.Fatal(err)
	}

	server := NewUDPEndpoint(serverConn)
	_, _, err = server.ReadGuiInput()
	if err == nil {
		t.Fatal("expected too-long decode error")
	}
	de, ok := err.(*protocol.DecodeError)
	if !ok || de.Kind != protocol.ErrKindTooLong {
		t.Fatalf("got %v, want too-long DecodeError", err)
	}
}
