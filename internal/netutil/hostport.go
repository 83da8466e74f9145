// Package netutil supplies the small set of socket/addressing helpers both
// executables need: last-colon host:port splitting (spec.md §6), dual-stack
// listener construction with SO_REUSEADDR, and TCP_NODELAY.
package netutil

import (
	"fmt"
	"strings"
)

// SplitHostPort splits addr at its last colon, not its first — so an IPv6
// address written without brackets ("::1:4321") still separates correctly,
// matching spec.md §6: "split at the last colon; everything before is
// host ..., after is port". net.SplitHostPort already implements exactly
// this rule for bracketed IPv6 and dotted IPv4, but rejects a bare,
// unbracketed IPv6 host; this function accepts that form too.
func SplitHostPort(addr string) (host, port string, err error) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return "", "", fmt.Errorf("netutil: %q has no port", addr)
	}
	host, port = addr[:i], addr[i+1:]
	host = strings.TrimPrefix(strings.TrimSuffix(host, "]"), "[")
	if port == "" {
		return "", "", fmt.Errorf("netutil: %q has an empty port", addr)
	}
	return host, port, nil
}
