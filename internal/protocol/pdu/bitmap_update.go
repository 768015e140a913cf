package pdu

import (
	"encoding/binary"
	"io"

	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// BitmapFlags are the Bitmap Data flags (MS-RDPBCGR 2.2.9.1.1.3.1.2.3).
const (
	BitmapFlagCompressed           uint16 = 0x0001
	BitmapFlagNoBitmapCompressionHdr uint16 = 0x0400
)

const bitmapDataHeaderSize = 18

// BitmapData is the TS_BITMAP_DATA structure (MS-RDPBCGR 2.2.9.1.1.3.1.2).
// The codec round-trips Data verbatim; it never inflates or interprets a
// compressed payload.
type BitmapData struct {
	DestLeft     uint16
	DestTop      uint16
	DestRight    uint16
	DestBottom   uint16
	Width        uint16
	Height       uint16
	BitsPerPixel uint16
	Flags        uint16
	BitmapLength uint16
	Data         []byte
}

func (b *BitmapData) encode(w io.Writer) error {
	header := make([]byte, bitmapDataHeaderSize)
	binary.LittleEndian.PutUint16(header[0:2], b.DestLeft)
	binary.LittleEndian.PutUint16(header[2:4], b.DestTop)
	binary.LittleEndian.PutUint16(header[4:6], b.DestRight)
	binary.LittleEndian.PutUint16(header[6:8], b.DestBottom)
	binary.LittleEndian.PutUint16(header[8:10], b.Width)
	binary.LittleEndian.PutUint16(header[10:12], b.Height)
	binary.LittleEndian.PutUint16(header[12:14], b.BitsPerPixel)
	binary.LittleEndian.PutUint16(header[14:16], b.Flags)
	binary.LittleEndian.PutUint16(header[16:18], uint16(len(b.Data)))

	if _, err := w.Write(header); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	if _, err := w.Write(b.Data); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodeBitmapData(r io.Reader) (*BitmapData, error) {
	header := make([]byte, bitmapDataHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	b := &BitmapData{
		DestLeft:     binary.LittleEndian.Uint16(header[0:2]),
		DestTop:      binary.LittleEndian.Uint16(header[2:4]),
		DestRight:    binary.LittleEndian.Uint16(header[4:6]),
		DestBottom:   binary.LittleEndian.Uint16(header[6:8]),
		Width:        binary.LittleEndian.Uint16(header[8:10]),
		Height:       binary.LittleEndian.Uint16(header[10:12]),
		BitsPerPixel: binary.LittleEndian.Uint16(header[12:14]),
		Flags:        binary.LittleEndian.Uint16(header[14:16]),
		BitmapLength: binary.LittleEndian.Uint16(header[16:18]),
	}

	b.Data = make([]byte, b.BitmapLength)
	if _, err := io.ReadFull(r, b.Data); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *BitmapData) size() int {
	return bitmapDataHeaderSize + len(b.Data)
}

// BitmapUpdate is the TS_UPDATE_BITMAP_DATA body (MS-RDPBCGR 2.2.9.1.1.3.1.2).
type BitmapUpdate struct {
	Rectangles []*BitmapData
}

func (pdu *BitmapUpdate) encodeData(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(pdu.Rectangles))); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	for _, rect := range pdu.Rectangles {
		if err := rect.encode(w); err != nil {
			return err
		}
	}
	return nil
}

func decodeBitmapUpdateData(r io.Reader) (*BitmapUpdate, error) {
	countBuf := make([]byte, 2)
	if _, err := io.ReadFull(r, countBuf); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint16(countBuf)

	rects := make([]*BitmapData, 0, count)
	for i := uint16(0); i < count; i++ {
		rect, err := decodeBitmapData(r)
		if err != nil {
			return nil, err
		}
		rects = append(rects, rect)
	}

	return &BitmapUpdate{Rectangles: rects}, nil
}

func (pdu *BitmapUpdate) dataSize() int {
	size := 2
	for _, rect := range pdu.Rectangles {
		size += rect.size()
	}
	return size
}
