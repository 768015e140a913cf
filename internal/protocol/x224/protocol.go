// Package x224 implements the ITU-T X.224 Class 0 Connection Request,
// Connection Confirm, and Data PDUs, plus the RDP negotiation sub-structure
// carried in the CR/CC variable region.
package x224

import (
	"bytes"
	"io"

	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// PDU type bytes for the connection spine.
const (
	crType byte = 0xE0
	ccType byte = 0xD0
)

// connectionHeaderMinSize is the fixed 7-byte spine shared by CR and CC.
const connectionHeaderMinSize = 7

// RDP negotiation message types.
const (
	NegReq     byte = 0x01
	NegRsp     byte = 0x02
	NegFailure byte = 0x03
)

// negDataSize is the fixed encoded size of an RdpNegotiation block.
const negDataSize = 8

// Negotiation protocol flags (RDP-negotiation protocol enumeration).
const (
	ProtocolRDP      uint32 = 0x00000000
	ProtocolSSL      uint32 = 0x00000001
	ProtocolHybrid   uint32 = 0x00000002
	ProtocolRDSTLS   uint32 = 0x00000004
	ProtocolHybridEx uint32 = 0x00000008
)

// RdpNegotiation is the 8-byte negotiation block optionally following the
// CR/CC spine and cookie.
type RdpNegotiation struct {
	Type             byte
	Flags            byte
	SelectedProtocol uint32
}

// NewNegotiationRequest builds an RDP_NEG_REQ block for the given requested
// protocol set.
func NewNegotiationRequest(protocol uint32) *RdpNegotiation {
	return &RdpNegotiation{Type: NegReq, SelectedProtocol: protocol}
}

// NewNegotiationResponse builds an RDP_NEG_RSP block for the given selected
// protocol.
func NewNegotiationResponse(protocol uint32) *RdpNegotiation {
	return &RdpNegotiation{Type: NegRsp, SelectedProtocol: protocol}
}

// Encode writes the 8-byte negotiation block. Flags is always written as 0.
func (n *RdpNegotiation) Encode(w io.Writer) error {
	buf := make([]byte, negDataSize)
	buf[0] = n.Type
	buf[1] = 0x00
	buf[2] = byte(negDataSize)
	buf[3] = 0x00
	buf[4] = byte(n.SelectedProtocol)
	buf[5] = byte(n.SelectedProtocol >> 8)
	buf[6] = byte(n.SelectedProtocol >> 16)
	buf[7] = byte(n.SelectedProtocol >> 24)

	if _, err := w.Write(buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeNegotiation reads an 8-byte negotiation block. Any flags value is
// accepted.
func DecodeNegotiation(r io.Reader) (*RdpNegotiation, error) {
	buf := make([]byte, negDataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	length := int(buf[2]) | int(buf[3])<<8
	if length != negDataSize {
		return nil, &rdperr.InvalidLength{Expected: negDataSize, Actual: length}
	}

	return &RdpNegotiation{
		Type:             buf[0],
		Flags:            buf[1],
		SelectedProtocol: uint32(buf[4]) | uint32(buf[5])<<8 | uint32(buf[6])<<16 | uint32(buf[7])<<24,
	}, nil
}

// Size returns the fixed negotiation block size.
func (n *RdpNegotiation) Size() int {
	return negDataSize
}

// connectionHeader is the 7-byte spine shared by ConnectionRequest and
// ConnectionConfirm.
type connectionHeader struct {
	lengthIndicator byte
	pduType         byte
	dstRef          uint16
	srcRef          uint16
	classOption     byte
}

func (h *connectionHeader) encode(w io.Writer) error {
	buf := make([]byte, connectionHeaderMinSize)
	buf[0] = h.lengthIndicator
	buf[1] = h.pduType
	buf[2] = byte(h.dstRef)
	buf[3] = byte(h.dstRef >> 8)
	buf[4] = byte(h.srcRef)
	buf[5] = byte(h.srcRef >> 8)
	buf[6] = h.classOption

	if _, err := w.Write(buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodeConnectionHeader(r io.Reader) (*connectionHeader, error) {
	buf := make([]byte, connectionHeaderMinSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	return &connectionHeader{
		lengthIndicator: buf[0],
		pduType:         buf[1],
		dstRef:          uint16(buf[2]) | uint16(buf[3])<<8,
		srcRef:          uint16(buf[4]) | uint16(buf[5])<<8,
		classOption:     buf[6],
	}, nil
}

func (h *connectionHeader) size() int {
	return connectionHeaderMinSize
}

// ConnectionRequest is the X.224 Connection Request PDU (CR, type 0xE0).
type ConnectionRequest struct {
	header         connectionHeader
	Cookie         string
	RdpNegotiation *RdpNegotiation
}

// NewConnectionRequest builds a bare CR carrying only the fixed spine.
func NewConnectionRequest(srcRef uint16) *ConnectionRequest {
	return &ConnectionRequest{
		header: connectionHeader{
			lengthIndicator: connectionHeaderMinSize - 1,
			pduType:         crType,
			srcRef:          srcRef,
		},
	}
}

// WithCookie sets the mstshash cookie line and recomputes the length
// indicator.
func (r *ConnectionRequest) WithCookie(username string) *ConnectionRequest {
	r.Cookie = "Cookie: mstshash=" + username + "\r\n"
	r.updateLengthIndicator()
	return r
}

// WithNegotiation sets the RDP negotiation request block and recomputes the
// length indicator.
func (r *ConnectionRequest) WithNegotiation(protocol uint32) *ConnectionRequest {
	r.RdpNegotiation = NewNegotiationRequest(protocol)
	r.updateLengthIndicator()
	return r
}

func (r *ConnectionRequest) updateLengthIndicator() {
	variable := len(r.Cookie)
	if r.RdpNegotiation != nil {
		variable += r.RdpNegotiation.Size()
	}
	r.header.lengthIndicator = byte(connectionHeaderMinSize - 1 + variable)
}

// Encode writes the spine, then the cookie (if any), then the negotiation
// block (if any).
func (r *ConnectionRequest) Encode(w io.Writer) error {
	if err := r.header.encode(w); err != nil {
		return err
	}

	if r.Cookie != "" {
		if _, err := w.Write([]byte(r.Cookie)); err != nil {
			return &rdperr.IOError{Cause: err}
		}
	}

	if r.RdpNegotiation != nil {
		if err := r.RdpNegotiation.Encode(w); err != nil {
			return err
		}
	}

	return nil
}

// DecodeConnectionRequest reads a CR PDU: the 7-byte spine, then infers the
// cookie and/or negotiation block from the variable region sized by the
// spine's length indicator.
func DecodeConnectionRequest(r io.Reader) (*ConnectionRequest, error) {
	header, err := decodeConnectionHeader(r)
	if err != nil {
		return nil, err
	}
	if header.pduType != crType {
		return nil, &rdperr.InvalidPDUType{Value: header.pduType}
	}

	variableLength := int(header.lengthIndicator) + 1 - connectionHeaderMinSize
	if variableLength < 0 {
		variableLength = 0
	}

	out := &ConnectionRequest{header: *header}
	if variableLength == 0 {
		return out, nil
	}

	variable := make([]byte, variableLength)
	if _, err := io.ReadFull(r, variable); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	cursor := 0
	const cookiePrefix = "Cookie: mstshash="
	if bytes.HasPrefix(variable, []byte(cookiePrefix)) {
		if end := bytes.Index(variable, []byte("\r\n")); end >= 0 {
			out.Cookie = string(variable[:end+2])
			cursor = end + 2
		}
	}

	if cursor < len(variable) {
		if negotiation, err := DecodeNegotiation(bytes.NewReader(variable[cursor:])); err == nil {
			out.RdpNegotiation = negotiation
		}
	}

	return out, nil
}

// Size returns the spine size plus cookie and negotiation sizes when
// present.
func (r *ConnectionRequest) Size() int {
	size := r.header.size()
	size += len(r.Cookie)
	if r.RdpNegotiation != nil {
		size += r.RdpNegotiation.Size()
	}
	return size
}

// ConnectionConfirm is the X.224 Connection Confirm PDU (CC, type 0xD0).
type ConnectionConfirm struct {
	header         connectionHeader
	RdpNegotiation *RdpNegotiation
}

// NewConnectionConfirm builds a bare CC carrying only the fixed spine.
func NewConnectionConfirm(dstRef, srcRef uint16) *ConnectionConfirm {
	return &ConnectionConfirm{
		header: connectionHeader{
			lengthIndicator: connectionHeaderMinSize - 1,
			pduType:         ccType,
			dstRef:          dstRef,
			srcRef:          srcRef,
		},
	}
}

// WithNegotiation sets the RDP negotiation response block and recomputes the
// length indicator.
func (c *ConnectionConfirm) WithNegotiation(protocol uint32) *ConnectionConfirm {
	c.RdpNegotiation = NewNegotiationResponse(protocol)
	c.header.lengthIndicator = byte(connectionHeaderMinSize - 1 + negDataSize)
	return c
}

// Encode writes the spine, then the negotiation block (if any).
func (c *ConnectionConfirm) Encode(w io.Writer) error {
	if err := c.header.encode(w); err != nil {
		return err
	}

	if c.RdpNegotiation != nil {
		if err := c.RdpNegotiation.Encode(w); err != nil {
			return err
		}
	}

	return nil
}

// DecodeConnectionConfirm reads a CC PDU: the 7-byte spine, then an optional
// negotiation block sized by the spine's length indicator.
func DecodeConnectionConfirm(r io.Reader) (*ConnectionConfirm, error) {
	header, err := decodeConnectionHeader(r)
	if err != nil {
		return nil, err
	}
	if header.pduType != ccType {
		return nil, &rdperr.InvalidPDUType{Value: header.pduType}
	}

	variableLength := int(header.lengthIndicator) + 1 - connectionHeaderMinSize
	if variableLength < 0 {
		variableLength = 0
	}

	out := &ConnectionConfirm{header: *header}
	if variableLength == 0 {
		return out, nil
	}

	variable := make([]byte, variableLength)
	if _, err := io.ReadFull(r, variable); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	if negotiation, err := DecodeNegotiation(bytes.NewReader(variable)); err == nil {
		out.RdpNegotiation = negotiation
	}

	return out, nil
}

// Size returns the spine size plus the negotiation size when present.
func (c *ConnectionConfirm) Size() int {
	size := c.header.size()
	if c.RdpNegotiation != nil {
		size += c.RdpNegotiation.Size()
	}
	return size
}

// dataType and eotFlag compose the X.224 Data PDU's type byte.
const (
	dataType byte = 0xF0
	eotFlag  byte = 0x01
)

// dataHeaderMinSize is the fixed 2-byte DT spine.
const dataHeaderMinSize = 2

// DataPDU is the X.224 Data PDU (DT): a 2-byte spine followed by payload
// extending to the end of the containing frame.
type DataPDU struct {
	EOT     bool
	Payload []byte
}

// NewDataPDU wraps payload in a DataPDU.
func NewDataPDU(payload []byte, eot bool) *DataPDU {
	return &DataPDU{EOT: eot, Payload: payload}
}

// Encode writes the 2-byte spine followed by the payload.
func (d *DataPDU) Encode(w io.Writer) error {
	typeByte := dataType
	if d.EOT {
		typeByte |= eotFlag
	}

	if _, err := w.Write([]byte{dataHeaderMinSize - 1, typeByte}); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	if _, err := w.Write(d.Payload); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeDataPDU reads the 2-byte spine (discarding any extra spine bytes the
// length indicator declares), then reads the remaining bytes of r as
// payload.
func DecodeDataPDU(r io.Reader) (*DataPDU, error) {
	header := make([]byte, dataHeaderMinSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	lengthIndicator := header[0]
	typeByte := header[1]
	eot := typeByte&eotFlag != 0
	pduType := typeByte &^ eotFlag
	if pduType != dataType {
		return nil, &rdperr.InvalidPDUType{Value: typeByte}
	}

	if int(lengthIndicator) > dataHeaderMinSize-1 {
		extra := int(lengthIndicator) - (dataHeaderMinSize - 1)
		if _, err := io.ReadFull(r, make([]byte, extra)); err != nil {
			return nil, &rdperr.IOError{Cause: err}
		}
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	return &DataPDU{EOT: eot, Payload: payload}, nil
}

// Size returns the spine size plus the payload length.
func (d *DataPDU) Size() int {
	return dataHeaderMinSize + len(d.Payload)
}
