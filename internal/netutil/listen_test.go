package netutil

import (
	"context"
	"testing"
)

func TestListenTCPAcceptsOnEphemeralPort(t *testing.T) {
	ln, err := ListenTCP(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	if ln.Addr() == nil {
		t.Fatal("listener has no address")
	}
}

func TestListenUDPBindsOnEphemeralPort(t *testing.T) {
	conn, err := ListenUDP(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if conn.LocalAddr() == nil {
		t.Fatal("conn has no local address")
	}
}
