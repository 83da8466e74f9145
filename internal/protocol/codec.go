package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// maxStringLen is enforced by the wire format itself: a single byte length
// prefix can never exceed 255.
const maxStringLen = 255

// maxCollectionLen is a protective cap on list/set/map element counts. It is
// not part of the bit-exact wire format (spec.md §4.1 places no explicit
// cap on count), but an attacker-controlled 4-byte count must not be used
// to drive an unbounded allocation before a single byte of element data has
// been read.
const maxCollectionLen = 1 << 20

// Encoder accumulates an in-memory encoding of one message. Encoding never
// fails except when a string exceeds the wire format's 255-byte limit.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes accumulated so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) WriteU8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) WriteU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteU8(1)
	} else {
		e.WriteU8(0)
	}
}

// WriteString writes a length-prefixed string: a single length byte
// followed by the raw UTF-8 bytes. It errors if s exceeds 255 bytes.
func (e *Encoder) WriteString(s string) error {
	if len(s) > maxStringLen {
		return errLengthOverflow("string exceeds 255 bytes")
	}
	e.WriteU8(uint8(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

func (e *Encoder) WritePosition(p Position) {
	e.WriteU16(p.X)
	e.WriteU16(p.Y)
}

// Decoder reads a single message from an underlying byte source. The same
// Decoder implementation serves both TCP (backed by a buffered net.Conn,
// pulling exactly the bytes a value needs) and UDP (backed by an in-memory
// reader over one already-received datagram); only the
// end-of-message "too-long" check differs between the two call sites, and
// that check lives in the framing package, not here.
type Decoder struct {
	r io.Reader
}

// NewDecoder wraps r. An io.EOF or io.ErrUnexpectedEOF from r while a value
// is incomplete is reported as a too-short DecodeError; any other error
// from r is returned unchanged.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func (d *Decoder) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := io.ReadFull(d.r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errTooShort(err.Error())
		}
		return nil, err
	}
	return buf, nil
}

func (d *Decoder) ReadU8() (uint8, error) {
	b, err := d.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadU16() (uint16, error) {
	b, err := d.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	b, err := d.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) ReadU64() (uint64, error) {
	b, err := d.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadU8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ReadString reads a length-prefixed string: a single length byte followed
// by that many raw bytes.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadU8()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := d.readExact(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) ReadPosition() (Position, error) {
	x, err := d.ReadU16()
	if err != nil {
		return Position{}, err
	}
	y, err := d.ReadU16()
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

// readCollectionLen reads a 4-byte sequence count and rejects absurd
// values before any per-element allocation happens.
func (d *Decoder) readCollectionLen() (uint32, error) {
	n, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if n > maxCollectionLen {
		return 0, errLengthOverflow("sequence count exceeds protective cap")
	}
	return n, nil
}
