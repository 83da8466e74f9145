package netutil

import (
	"context"
	"fmt"
	"net"
)

// DialTCP resolves host:port (last-colon split, see SplitHostPort) and
// dials it with TCP_NODELAY set, preferring an IPv6 address with an
// IPv4-mapped fallback (spec.md §6: "Resolution prefers IPv6 with IPv4-mapped
// fallback").
func DialTCP(ctx context.Context, hostport string) (*net.TCPConn, error) {
	host, port, err := SplitHostPort(hostport)
	if err != nil {
		return nil, err
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, fmt.Errorf("netutil: resolving %q: %w", host, err)
	}
	addr := preferIPv6(ips)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(addr.String(), port))
	if err != nil {
		return nil, err
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("netutil: dialed connection is not TCP")
	}
	if err := tcpConn.SetNoDelay(true); err != nil {
		tcpConn.Close()
		return nil, err
	}
	return tcpConn, nil
}

// preferIPv6 picks the first true IPv6 address in ips, falling back to the
// first address of any kind (which may be an IPv4-mapped IPv6 address, or
// plain IPv4) if none is found.
func preferIPv6(ips []net.IP) net.IP {
	for _, ip := range ips {
		if ip.To4() == nil {
			return ip
		}
	}
	return ips[0]
}
