// Package tpkt implements RFC 1006 TPKT framing: a 4-byte header carrying a
// big-endian total length in front of an X.224 payload.
package tpkt

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// Version is the only TPKT version this codec accepts.
const Version uint8 = 0x03

// HeaderLen is the fixed size of the TPKT header.
const HeaderLen = 4

// Packet is a TPKT frame: a derived header plus an opaque payload.
type Packet struct {
	Payload []byte
}

// NewPacket wraps payload in a Packet. The header's total length is always
// derived from len(payload), never supplied directly.
func NewPacket(payload []byte) *Packet {
	return &Packet{Payload: payload}
}

// Encode writes the 4-byte header (version=3, reserved=0, big-endian total
// length) followed by the payload.
func (p *Packet) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	buf.WriteByte(Version)
	buf.WriteByte(0x00)
	if err := binary.Write(buf, binary.BigEndian, uint16(HeaderLen+len(p.Payload))); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	buf.Write(p.Payload)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// Decode reads a 4-byte header and exactly length-4 payload bytes from r.
func Decode(r io.Reader) (*Packet, error) {
	header := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	version := header[0]
	if version != Version {
		return nil, &rdperr.UnsupportedVersion{Version: version}
	}

	length := binary.BigEndian.Uint16(header[2:4])
	if length < HeaderLen {
		return nil, &rdperr.InvalidLength{Expected: HeaderLen, Actual: int(length)}
	}

	payload := make([]byte, int(length)-HeaderLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	return &Packet{Payload: payload}, nil
}

// Size returns the total encoded size, header included.
func (p *Packet) Size() int {
	return HeaderLen + len(p.Payload)
}
