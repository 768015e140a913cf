package pdu

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// synchronizeMessageType is the only value TS_SYNCHRONIZE_PDU's
// messageType field takes.
const synchronizeMessageType uint16 = 1

// SynchronizePDU is the TS_SYNCHRONIZE_PDU (MS-RDPBCGR 2.2.1.14).
type SynchronizePDU struct {
	TargetUser uint16
}

// SynchronizePDUSize is the fixed encoded size.
const SynchronizePDUSize = 4

// Encode writes the 4-byte body.
func (pdu *SynchronizePDU) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, synchronizeMessageType)
	binary.Write(buf, binary.LittleEndian, pdu.TargetUser)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeSynchronizePDU reads the 4-byte body.
func DecodeSynchronizePDU(r io.Reader) (*SynchronizePDU, error) {
	buf := make([]byte, SynchronizePDUSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	messageType := binary.LittleEndian.Uint16(buf[0:2])
	if messageType != synchronizeMessageType {
		return nil, &rdperr.ParseError{Msg: "invalid synchronize message type"}
	}

	return &SynchronizePDU{TargetUser: binary.LittleEndian.Uint16(buf[2:4])}, nil
}

// Size returns the fixed body size.
func (pdu *SynchronizePDU) Size() int {
	return SynchronizePDUSize
}

// ControlAction is the action field of a Control PDU (MS-RDPBCGR 2.2.1.15).
type ControlAction uint16

const (
	ControlActionRequestControl ControlAction = 0x0001
	ControlActionGrantedControl ControlAction = 0x0002
	ControlActionDetach         ControlAction = 0x0003
	ControlActionCooperate      ControlAction = 0x0004
)

func controlActionFromUint16(value uint16) (ControlAction, error) {
	switch ControlAction(value) {
	case ControlActionRequestControl, ControlActionGrantedControl, ControlActionDetach, ControlActionCooperate:
		return ControlAction(value), nil
	default:
		return 0, &rdperr.ParseError{Msg: "invalid control action"}
	}
}

// grantedControlID is the fixed control-id a server assigns on granting
// control (MS-RDPBCGR never documents another value in practice).
const grantedControlID uint32 = 1000

// ControlPDU is the TS_CONTROL_PDU (MS-RDPBCGR 2.2.1.15/.17/.19/.20).
type ControlPDU struct {
	Action    ControlAction
	GrantID   uint16
	ControlID uint32
}

// CooperatePDU builds the Control Cooperate PDU body.
func CooperatePDU() *ControlPDU {
	return &ControlPDU{Action: ControlActionCooperate}
}

// RequestControlPDU builds the Control Request Control PDU body.
func RequestControlPDU() *ControlPDU {
	return &ControlPDU{Action: ControlActionRequestControl}
}

// GrantedControlPDU builds the Control Granted Control PDU body for the
// given grant id, setting the fixed control id servers use.
func GrantedControlPDU(grantID uint16) *ControlPDU {
	return &ControlPDU{Action: ControlActionGrantedControl, GrantID: grantID, ControlID: grantedControlID}
}

// ControlPDUSize is the fixed encoded size.
const ControlPDUSize = 8

// Encode writes the 8-byte body.
func (pdu *ControlPDU) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint16(pdu.Action))
	binary.Write(buf, binary.LittleEndian, pdu.GrantID)
	binary.Write(buf, binary.LittleEndian, pdu.ControlID)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeControlPDU reads the 8-byte body.
func DecodeControlPDU(r io.Reader) (*ControlPDU, error) {
	buf := make([]byte, ControlPDUSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	action, err := controlActionFromUint16(binary.LittleEndian.Uint16(buf[0:2]))
	if err != nil {
		return nil, err
	}

	return &ControlPDU{
		Action:    action,
		GrantID:   binary.LittleEndian.Uint16(buf[2:4]),
		ControlID: binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// Size returns the fixed body size.
func (pdu *ControlPDU) Size() int {
	return ControlPDUSize
}

// fontListMapFlags is the listFlags/mapFlags value for both the Font List
// and Font Map PDUs, always the "first and last" combined value; this codec
// never splits a font list/map across PDUs.
const fontListMapFlags uint16 = 0x0003

const fontListEntrySize uint16 = 0x0032
const fontMapEntrySize uint16 = 0x0004

// FontListPDU is the client-to-server TS_FONT_LIST_PDU (MS-RDPBCGR 2.2.1.18).
type FontListPDU struct {
	NumberFonts   uint16
	TotalNumFonts uint16
}

// NewFontListPDU builds the Font List PDU body clients send; the counts are
// always zero in practice (the font list itself is never populated).
func NewFontListPDU() *FontListPDU {
	return &FontListPDU{}
}

// FontListPDUSize is the fixed encoded size.
const FontListPDUSize = 8

// Encode writes the 8-byte body.
func (pdu *FontListPDU) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, pdu.NumberFonts)
	binary.Write(buf, binary.LittleEndian, pdu.TotalNumFonts)
	binary.Write(buf, binary.LittleEndian, fontListMapFlags)
	binary.Write(buf, binary.LittleEndian, fontListEntrySize)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeFontListPDU reads the 8-byte body.
func DecodeFontListPDU(r io.Reader) (*FontListPDU, error) {
	buf := make([]byte, FontListPDUSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	return &FontListPDU{
		NumberFonts:   binary.LittleEndian.Uint16(buf[0:2]),
		TotalNumFonts: binary.LittleEndian.Uint16(buf[2:4]),
	}, nil
}

// Size returns the fixed body size.
func (pdu *FontListPDU) Size() int {
	return FontListPDUSize
}

// FontMapPDU is the server-to-client TS_FONT_MAP_PDU (MS-RDPBCGR 2.2.1.22).
type FontMapPDU struct {
	NumberEntries   uint16
	TotalNumEntries uint16
}

// FontMapPDUSize is the fixed encoded size.
const FontMapPDUSize = 8

// Encode writes the 8-byte body.
func (pdu *FontMapPDU) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, pdu.NumberEntries)
	binary.Write(buf, binary.LittleEndian, pdu.TotalNumEntries)
	binary.Write(buf, binary.LittleEndian, fontListMapFlags)
	binary.Write(buf, binary.LittleEndian, fontMapEntrySize)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeFontMapPDU reads the 8-byte body.
func DecodeFontMapPDU(r io.Reader) (*FontMapPDU, error) {
	buf := make([]byte, FontMapPDUSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	return &FontMapPDU{
		NumberEntries:   binary.LittleEndian.Uint16(buf[0:2]),
		TotalNumEntries: binary.LittleEndian.Uint16(buf[2:4]),
	}, nil
}

// Size returns the fixed body size.
func (pdu *FontMapPDU) Size() int {
	return FontMapPDUSize
}
