package pdu

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kulaginds/rdpcodec/internal/logging"
	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// UpdateType is the Update PDU's dispatch field (MS-RDPBCGR 2.2.9.1.1.3.1).
type UpdateType uint16

const (
	UpdateTypeOrders      UpdateType = 0x0000
	UpdateTypeBitmap      UpdateType = 0x0001
	UpdateTypePalette     UpdateType = 0x0002
	UpdateTypeSynchronize UpdateType = 0x0003
)

// UpdatePDU is the TS_UPDATE (MS-RDPBCGR 2.2.9.1.1.3), carried inside a Data
// PDU whose PDUType2 is DataPDUTypeUpdate. Exactly one of Orders/Bitmap/
// Palette is set unless Type is UpdateTypeSynchronize.
type UpdatePDU struct {
	Type UpdateType

	Orders  *OrdersUpdate
	Bitmap  *BitmapUpdate
	Palette *PaletteUpdate
}

// Encode writes the 2-byte update-type followed by the type-specific body.
func (pdu *UpdatePDU) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint16(pdu.Type))

	switch pdu.Type {
	case UpdateTypeOrders:
		if err := pdu.Orders.encodeData(buf); err != nil {
			return err
		}
	case UpdateTypeBitmap:
		if err := pdu.Bitmap.encodeData(buf); err != nil {
			return err
		}
	case UpdateTypePalette:
		if err := pdu.Palette.encodeData(buf); err != nil {
			return err
		}
	case UpdateTypeSynchronize:
		binary.Write(buf, binary.LittleEndian, uint16(0)) // pad
	default:
		return &rdperr.ParseError{Msg: "unsupported update type"}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeUpdatePDU reads the 2-byte update-type and dispatches the body.
func DecodeUpdatePDU(r io.Reader) (*UpdatePDU, error) {
	typeBuf := make([]byte, 2)
	if _, err := io.ReadFull(r, typeBuf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	updateType := UpdateType(binary.LittleEndian.Uint16(typeBuf))
	pdu := &UpdatePDU{Type: updateType}
	logging.Debug("pdu: decoding update type=%#04x", uint16(updateType))

	var err error
	switch updateType {
	case UpdateTypeOrders:
		pdu.Orders, err = decodeOrdersUpdateData(r)
	case UpdateTypeBitmap:
		pdu.Bitmap, err = decodeBitmapUpdateData(r)
	case UpdateTypePalette:
		pdu.Palette, err = decodePaletteUpdateData(r)
	case UpdateTypeSynchronize:
		pad := make([]byte, 2)
		_, err = io.ReadFull(r, pad)
	default:
		return nil, &rdperr.ParseError{Msg: "unsupported update type"}
	}
	if err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	return pdu, nil
}

// Size returns the PDU's total encoded size.
func (pdu *UpdatePDU) Size() int {
	size := 2
	switch pdu.Type {
	case UpdateTypeOrders:
		size += pdu.Orders.dataSize()
	case UpdateTypeBitmap:
		size += pdu.Bitmap.dataSize()
	case UpdateTypePalette:
		size += pdu.Palette.dataSize()
	case UpdateTypeSynchronize:
		size += 2
	}
	return size
}

// PaletteEntry is a single RGB triplet (MS-RDPBCGR 2.2.9.1.1.3.1.1.1).
type PaletteEntry struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

const paletteEntrySize = 3

// MaxPaletteEntries is the largest number of entries a Palette Update may
// carry (MS-RDPBCGR 2.2.9.1.1.3.1.1.1).
const MaxPaletteEntries = 256

// PaletteUpdate is the TS_UPDATE_PALETTE_DATA body (MS-RDPBCGR 2.2.9.1.1.3.1.1).
type PaletteUpdate struct {
	Entries []PaletteEntry
}

func (pdu *PaletteUpdate) encodeData(w io.Writer) error {
	binary.Write(w, binary.LittleEndian, uint16(0)) // pad2Octets
	binary.Write(w, binary.LittleEndian, uint16(len(pdu.Entries)))

	for _, e := range pdu.Entries {
		if _, err := w.Write([]byte{e.Red, e.Green, e.Blue}); err != nil {
			return &rdperr.IOError{Cause: err}
		}
	}
	return nil
}

func decodePaletteUpdateData(r io.Reader) (*PaletteUpdate, error) {
	prefix := make([]byte, 4)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, err
	}

	numberColors := binary.LittleEndian.Uint16(prefix[2:4])

	entries := make([]PaletteEntry, 0, numberColors)
	for i := uint16(0); i < numberColors; i++ {
		buf := make([]byte, paletteEntrySize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		entries = append(entries, PaletteEntry{Red: buf[0], Green: buf[1], Blue: buf[2]})
	}

	return &PaletteUpdate{Entries: entries}, nil
}

func (pdu *PaletteUpdate) dataSize() int {
	return 4 + len(pdu.Entries)*paletteEntrySize
}
