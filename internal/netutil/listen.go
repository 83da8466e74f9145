package netutil

import (
	"context"
	"net"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddrControl sets SO_REUSEADDR on the raw socket before bind, via the
// net.ListenConfig.Control hook — the idiomatic Go way to reach a socket
// option stdlib's net package doesn't expose a setter for. This lets the
// server rebind its port immediately after a restart instead of waiting out
// TIME_WAIT.
func reuseAddrControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// ListenTCP opens a dual-stack ("tcp", not "tcp4"/"tcp6") TCP listener on
// port with SO_REUSEADDR set (spec.md §6: "Server listens TCP on port
// (dual-stack)").
func ListenTCP(ctx context.Context, port uint16) (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseAddrControl}
	return lc.Listen(ctx, "tcp", portAddr(port))
}

// ListenUDP opens a dual-stack UDP socket on port with SO_REUSEADDR set,
// for the client relay's GUI-facing receive socket.
func ListenUDP(ctx context.Context, port uint16) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: reuseAddrControl}
	return lc.ListenPacket(ctx, "udp", portAddr(port))
}

func portAddr(port uint16) string {
	return net.JoinHostPort("", strconv.Itoa(int(port)))
}
