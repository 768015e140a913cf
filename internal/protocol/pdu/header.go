// Package pdu implements the RDP share-level PDUs: share control and share
// data headers, capability sets, the client info PDU, the control family,
// input events, and graphics updates, as specified in MS-RDPBCGR.
package pdu

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kulaginds/rdpcodec/internal/logging"
	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// PDUType is the Share Control header's pdu-type field (before the
// TS_PROTOCOL_VERSION flag is OR'd in).
type PDUType uint16

const (
	PDUTypeDemandActive   PDUType = 0x01
	PDUTypeConfirmActive  PDUType = 0x03
	PDUTypeDeactivateAll  PDUType = 0x06
	PDUTypeData           PDUType = 0x07
	PDUTypeServerRedirect PDUType = 0x0A
)

// protocolVersion is always OR'd into the wire pdu-type and masked off on
// decode.
const protocolVersion uint16 = 0x0010

func pduTypeFromUint16(value uint16) (PDUType, error) {
	switch PDUType(value) {
	case PDUTypeDemandActive, PDUTypeConfirmActive, PDUTypeDeactivateAll, PDUTypeData, PDUTypeServerRedirect:
		return PDUType(value), nil
	default:
		return 0, &rdperr.ParseError{Msg: "invalid share control PDU type"}
	}
}

// ShareControlHeader is the 6-byte TS_SHARECONTROLHEADER prefixing every
// RDP share-level PDU.
type ShareControlHeader struct {
	TotalLength uint16
	PDUType     PDUType
	PDUSource   uint16
}

// ShareControlHeaderSize is the fixed encoded size.
const ShareControlHeaderSize = 6

// Encode writes the 6-byte header, OR-ing the protocol-version flag into
// the pdu-type field.
func (h *ShareControlHeader) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, h.TotalLength)
	binary.Write(buf, binary.LittleEndian, uint16(h.PDUType)|protocolVersion)
	binary.Write(buf, binary.LittleEndian, h.PDUSource)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeShareControlHeader reads the 6-byte header, masking off the
// protocol-version flag before validating the PDU type.
func DecodeShareControlHeader(r io.Reader) (*ShareControlHeader, error) {
	buf := make([]byte, ShareControlHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	totalLength := binary.LittleEndian.Uint16(buf[0:2])
	rawType := binary.LittleEndian.Uint16(buf[2:4])
	pduSource := binary.LittleEndian.Uint16(buf[4:6])

	pduType, err := pduTypeFromUint16(rawType &^ protocolVersion)
	if err != nil {
		return nil, err
	}
	logging.Debug("pdu: decoded share control header type=%#04x source=%#04x", uint16(pduType), pduSource)

	return &ShareControlHeader{
		TotalLength: totalLength,
		PDUType:     pduType,
		PDUSource:   pduSource,
	}, nil
}

// Size returns the fixed header size.
func (h *ShareControlHeader) Size() int {
	return ShareControlHeaderSize
}

// DataPDUType is the Share Data header's 8-bit subtype field.
type DataPDUType uint8

const (
	DataPDUTypeUpdate                    DataPDUType = 0x02
	DataPDUTypeControl                   DataPDUType = 0x14
	DataPDUTypePointer                   DataPDUType = 0x1B
	DataPDUTypeInput                     DataPDUType = 0x1C
	DataPDUTypeSynchronize               DataPDUType = 0x1F
	DataPDUTypeRefreshRect                DataPDUType = 0x21
	DataPDUTypePlaySound                 DataPDUType = 0x22
	DataPDUTypeSuppressOutput            DataPDUType = 0x23
	DataPDUTypeShutdownRequest           DataPDUType = 0x24
	DataPDUTypeShutdownDenied            DataPDUType = 0x25
	DataPDUTypeSaveSessionInfo           DataPDUType = 0x26
	DataPDUTypeFontList                  DataPDUType = 0x27
	DataPDUTypeFontMap                   DataPDUType = 0x28
	DataPDUTypeSetKeyboardIndicators     DataPDUType = 0x29
	DataPDUTypeBitmapCachePersistentList DataPDUType = 0x2B
	DataPDUTypeBitmapCacheError          DataPDUType = 0x2C
	DataPDUTypeSetKeyboardIMEStatus      DataPDUType = 0x2D
	DataPDUTypeOffscreenCacheError       DataPDUType = 0x2E
	DataPDUTypeSetErrorInfo              DataPDUType = 0x2F
	DataPDUTypeDrawNineGridError         DataPDUType = 0x30
	DataPDUTypeDrawGdiPlusError          DataPDUType = 0x31
	DataPDUTypeArcStatus                 DataPDUType = 0x32
	DataPDUTypeStatusInfo                DataPDUType = 0x36
	DataPDUTypeMonitorLayout             DataPDUType = 0x37
)

func dataPDUTypeFromUint8(value uint8) (DataPDUType, error) {
	switch DataPDUType(value) {
	case DataPDUTypeUpdate, DataPDUTypeControl, DataPDUTypePointer, DataPDUTypeInput,
		DataPDUTypeSynchronize, DataPDUTypeRefreshRect, DataPDUTypePlaySound,
		DataPDUTypeSuppressOutput, DataPDUTypeShutdownRequest, DataPDUTypeShutdownDenied,
		DataPDUTypeSaveSessionInfo, DataPDUTypeFontList, DataPDUTypeFontMap,
		DataPDUTypeSetKeyboardIndicators, DataPDUTypeBitmapCachePersistentList,
		DataPDUTypeBitmapCacheError, DataPDUTypeSetKeyboardIMEStatus,
		DataPDUTypeOffscreenCacheError, DataPDUTypeSetErrorInfo, DataPDUTypeDrawNineGridError,
		DataPDUTypeDrawGdiPlusError, DataPDUTypeArcStatus, DataPDUTypeStatusInfo,
		DataPDUTypeMonitorLayout:
		return DataPDUType(value), nil
	default:
		return 0, &rdperr.ParseError{Msg: "invalid share data PDU type"}
	}
}

// Stream identifiers for the Share Data header.
const (
	StreamLow    uint8 = 1
	StreamMedium uint8 = 2
	StreamHigh   uint8 = 4
)

// ShareDataHeader is the 12-byte TS_SHAREDATAHEADER following the Share
// Control header on Data PDUs.
type ShareDataHeader struct {
	ShareID            uint32
	StreamID           uint8
	UncompressedLength uint16
	PDUType2           DataPDUType
	CompressedType     uint8
	CompressedLength   uint16
}

// ShareDataHeaderSize is the fixed encoded size.
const ShareDataHeaderSize = 12

// Encode writes the 12-byte header. This codec never produces compressed
// payloads, but CompressedType/CompressedLength are written verbatim so
// callers that explicitly set them (e.g. decode/re-encode round trips) are
// preserved.
func (h *ShareDataHeader) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, h.ShareID)
	buf.WriteByte(0) // pad1
	buf.WriteByte(h.StreamID)
	binary.Write(buf, binary.LittleEndian, h.UncompressedLength)
	buf.WriteByte(uint8(h.PDUType2))
	buf.WriteByte(h.CompressedType)
	binary.Write(buf, binary.LittleEndian, h.CompressedLength)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeShareDataHeader reads the 12-byte header.
func DecodeShareDataHeader(r io.Reader) (*ShareDataHeader, error) {
	buf := make([]byte, ShareDataHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	pduType2, err := dataPDUTypeFromUint8(buf[6])
	if err != nil {
		return nil, err
	}
	logging.Debug("pdu: decoded share data header type2=%#02x", uint8(pduType2))

	return &ShareDataHeader{
		ShareID:            binary.LittleEndian.Uint32(buf[0:4]),
		StreamID:           buf[5],
		UncompressedLength: binary.LittleEndian.Uint16(buf[8:10]),
		PDUType2:           pduType2,
		CompressedType:     buf[7],
		CompressedLength:   binary.LittleEndian.Uint16(buf[10:12]),
	}, nil
}

// Size returns the fixed header size.
func (h *ShareDataHeader) Size() int {
	return ShareDataHeaderSize
}
