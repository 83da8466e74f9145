// Package framing implements the two peer-facing byte sources the codec
// reads from: a continuous TCP stream, and a single UDP datagram (spec.md
// §4.1, "Framing"). Both feed the protocol package's Decoder through an
// io.Reader (TCPStream is one; UDPEndpoint uses an internal reader over
// each datagram); the difference is entirely in how end-of-message is
// detected and what a short read means.
package framing

import (
	"bufio"
	"errors"
	"io"
	"net"

	"bomberman/internal/protocol"
)

// ErrConnectionAborted is returned when a TCP peer closes mid-message.
var ErrConnectionAborted = errors.New("framing: connection aborted by peer")

// maxDatagramSize is the safe UDP payload cap referenced by spec.md §4.1
// ("64 KiB safe cap").
const maxDatagramSize = 65536

// TCPStream wraps a net.Conn with a buffered reader so the codec can pull
// exactly the bytes it needs without the framing layer knowing message
// boundaries up front.
type TCPStream struct {
	conn net.Conn
	r    *bufio.Reader
}

// NewTCPStream wraps conn. TCP_NODELAY should already have been set on conn
// by the caller (internal/netutil).
func NewTCPStream(conn net.Conn) *TCPStream {
	return &TCPStream{conn: conn, r: bufio.NewReader(conn)}
}

// Read implements io.Reader, translating a peer close mid-message into
// ErrConnectionAborted rather than a bare io.EOF/io.ErrUnexpectedEOF.
func (s *TCPStream) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && errors.Is(err, io.EOF) {
		return n, ErrConnectionAborted
	}
	return n, err
}

// DecodeClientMessage reads exactly one ClientMessage from the stream.
func (s *TCPStream) DecodeClientMessage() (protocol.ClientMessage, error) {
	return protocol.DecodeClientMessage(protocol.NewDecoder(s))
}

// DecodeServerMessage reads exactly one ServerMessage from the stream.
func (s *TCPStream) DecodeServerMessage() (protocol.ServerMessage, error) {
	return protocol.DecodeServerMessage(protocol.NewDecoder(s))
}

// WriteClientMessage encodes and writes a single ClientMessage.
func (s *TCPStream) WriteClientMessage(m protocol.ClientMessage) error {
	e := protocol.NewEncoder()
	if err := protocol.EncodeClientMessage(e, m); err != nil {
		return err
	}
	return s.write(e.Bytes())
}

// WriteServerMessage encodes and writes a single ServerMessage.
func (s *TCPStream) WriteServerMessage(m protocol.ServerMessage) error {
	e := protocol.NewEncoder()
	if err := protocol.EncodeServerMessage(e, m); err != nil {
		return err
	}
	return s.write(e.Bytes())
}

func (s *TCPStream) write(b []byte) error {
	_, err := s.conn.Write(b)
	if err != nil && errors.Is(err, io.EOF) {
		return ErrConnectionAborted
	}
	return err
}

// Close closes the underlying connection.
func (s *TCPStream) Close() error {
	return s.conn.Close()
}

// RemoteAddr returns the textual "host:port" of the peer.
func (s *TCPStream) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// UDPEndpoint reads/writes one complete datagram per operation; a message
// must fit entirely within a single datagram, and trailing bytes after a
// complete decode are a too-long error (spec.md §4.1).
type UDPEndpoint struct {
	conn net.PacketConn
	buf  []byte
}

// NewUDPEndpoint wraps a bound/connected UDP PacketConn.
func NewUDPEndpoint(conn net.PacketConn) *UDPEndpoint {
	return &UDPEndpoint{conn: conn, buf: make([]byte, maxDatagramSize)}
}

// ReadGuiInput reads one datagram and decodes it as a GuiInput. Decode
// failures here are not fatal to the caller — per spec.md §4.1, GUI→client
// decode failures are silently dropped — but this function still returns
// the error so the caller can decide whether to log it; it never closes
// anything.
func (u *UDPEndpoint) ReadGuiInput() (protocol.GuiInput, net.Addr, error) {
	n, addr, err := u.conn.ReadFrom(u.buf)
	if err != nil {
		return nil, nil, err
	}
	r := newBoundedReader(u.buf[:n])
	in, err := protocol.DecodeGuiInput(protocol.NewDecoder(r))
	if err != nil {
		return nil, addr, err
	}
	if r.remaining() > 0 {
		return nil, addr, errTooLong()
	}
	return in, addr, nil
}

// WriteGuiDraw encodes and sends one GuiDraw to addr (or the connected
// peer, if conn is already connected and addr is nil).
func (u *UDPEndpoint) WriteGuiDraw(d protocol.GuiDraw, addr net.Addr) error {
	e := protocol.NewEncoder()
	if err := protocol.EncodeGuiDraw(e, d); err != nil {
		return err
	}
	if e.Len() > maxDatagramSize {
		return errors.New("framing: encoded message exceeds datagram cap")
	}
	if addr != nil {
		_, err := u.conn.WriteTo(e.Bytes(), addr)
		return err
	}
	type writer interface {
		Write([]byte) (int, error)
	}
	w, ok := u.conn.(writer)
	if !ok {
		return errors.New("framing: no destination address for unconnected socket")
	}
	_, err := w.Write(e.Bytes())
	return err
}

func errTooLong() error {
	return &protocol.DecodeError{Kind: protocol.ErrKindTooLong, Msg: "trailing bytes after datagram decode"}
}

// boundedReader is a minimal io.Reader over a fixed slice that tracks how
// many bytes remain, so the caller can detect trailing data after decode.
type boundedReader struct {
	b   []byte
	pos int
}

func newBoundedReader(b []byte) *boundedReader {
	return &boundedReader{b: b}
}

func (r *boundedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

func (r *boundedReader) remaining() int {
	return len(r.b) - r.pos
}
