package netutil

import "testing"

func TestSplitHostPortLastColon(t *testing.T) {
	cases := []struct {
		addr     string
		wantHost string
		wantPort string
	}{
		{"127.0.0.1:8080", "127.0.0.1", "8080"},
		{"example.com:443", "example.com", "443"},
		{"[::1]:9000", "::1", "9000"},
		{"::1:9000", "::1", "9000"},
	}
	for _, c := range cases {
		host, port, err := SplitHostPort(c.addr)
		if err != nil {
			t.Fatalf("%q: %v", c.addr, err)
		}
		if host != c.wantHost || port != c.wantPort {
			t.Fatalf("%q -> (%q, %q), want (%q, %q)", c.addr, host, port, c.wantHost, c.wantPort)
		}
	}
}

func TestSplitHostPortRejectsMissingPort(t *testing.T) {
	if _, _, err := SplitHostPort("no-port-here"); err == nil {
		t.Fatal("expected an error for an address with no colon")
	}
}
