package pdu

import (
	"encoding/binary"
	"io"

	"github.com/kulaginds/rdpcodec/internal/logging"
	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// OrderType is a primary drawing order's 1-byte discriminator
// (MS-RDPEGDI 2.2.2.2.1.1.2). Only the variants this codec implements are
// named here; any other byte value fails to decode.
type OrderType uint8

const (
	OrderTypeDstBlt     OrderType = 0x00
	OrderTypePatBlt     OrderType = 0x01
	OrderTypeScrBlt     OrderType = 0x02
	OrderTypeMemBlt     OrderType = 0x0D
	OrderTypeOpaqueRect OrderType = 0x0A
)

// DrawingOrder is one entry of an Orders Update, a 1-byte order-type
// discriminator followed by a fixed-size, type-specific body. Colors and
// rectangle coordinates in the variant bodies below match MS-RDPEGDI's
// packing: coordinates are signed 16-bit, colors are 24-bit packed into a
// little-endian 32-bit word.
type DrawingOrder struct {
	Type OrderType

	DstBlt     *DstBltOrder
	PatBlt     *PatBltOrder
	ScrBlt     *ScrBltOrder
	MemBlt     *MemBltOrder
	OpaqueRect *OpaqueRectOrder
}

func (o *DrawingOrder) encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(o.Type)); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	var err error
	switch o.Type {
	case OrderTypeDstBlt:
		err = o.DstBlt.encode(w)
	case OrderTypePatBlt:
		err = o.PatBlt.encode(w)
	case OrderTypeScrBlt:
		err = o.ScrBlt.encode(w)
	case OrderTypeMemBlt:
		err = o.MemBlt.encode(w)
	case OrderTypeOpaqueRect:
		err = o.OpaqueRect.encode(w)
	default:
		return &rdperr.ParseError{Msg: "unsupported order type"}
	}
	return err
}

func decodeDrawingOrder(r io.Reader) (*DrawingOrder, error) {
	typeBuf := make([]byte, 1)
	if _, err := io.ReadFull(r, typeBuf); err != nil {
		return nil, err
	}

	orderType := OrderType(typeBuf[0])
	order := &DrawingOrder{Type: orderType}
	logging.Debug("pdu: decoding drawing order type=%#02x", uint8(orderType))

	var err error
	switch orderType {
	case OrderTypeDstBlt:
		order.DstBlt, err = decodeDstBltOrder(r)
	case OrderTypePatBlt:
		order.PatBlt, err = decodePatBltOrder(r)
	case OrderTypeScrBlt:
		order.ScrBlt, err = decodeScrBltOrder(r)
	case OrderTypeMemBlt:
		order.MemBlt, err = decodeMemBltOrder(r)
	case OrderTypeOpaqueRect:
		order.OpaqueRect, err = decodeOpaqueRectOrder(r)
	default:
		return nil, &rdperr.ParseError{Msg: "unsupported order type"}
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (o *DrawingOrder) size() int {
	size := 1
	switch o.Type {
	case OrderTypeDstBlt:
		size += dstBltOrderSize
	case OrderTypePatBlt:
		size += patBltOrderSize
	case OrderTypeScrBlt:
		size += scrBltOrderSize
	case OrderTypeMemBlt:
		size += memBltOrderSize
	case OrderTypeOpaqueRect:
		size += opaqueRectOrderSize
	}
	return size
}

// DstBltOrder is the DSTBLT_ORDER body (MS-RDPEGDI 2.2.2.2.1.1.2).
type DstBltOrder struct {
	NLeftRect int16
	NTopRect  int16
	NWidth    int16
	NHeight   int16
	BRop      uint8
}

const dstBltOrderSize = 9

func (o *DstBltOrder) encode(w io.Writer) error {
	buf := make([]byte, dstBltOrderSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(o.NLeftRect))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(o.NTopRect))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(o.NWidth))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(o.NHeight))
	buf[8] = o.BRop

	if _, err := w.Write(buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodeDstBltOrder(r io.Reader) (*DstBltOrder, error) {
	buf := make([]byte, dstBltOrderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return &DstBltOrder{
		NLeftRect: int16(binary.LittleEndian.Uint16(buf[0:2])),
		NTopRect:  int16(binary.LittleEndian.Uint16(buf[2:4])),
		NWidth:    int16(binary.LittleEndian.Uint16(buf[4:6])),
		NHeight:   int16(binary.LittleEndian.Uint16(buf[6:8])),
		BRop:      buf[8],
	}, nil
}

// PatBltOrder is the PATBLT_ORDER body (MS-RDPEGDI 2.2.2.2.1.1.2).
type PatBltOrder struct {
	NLeftRect int16
	NTopRect  int16
	NWidth    int16
	NHeight   int16
	BRop      uint8
	BackColor uint32
	ForeColor uint32
}

const patBltOrderSize = 17

func (o *PatBltOrder) encode(w io.Writer) error {
	buf := make([]byte, patBltOrderSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(o.NLeftRect))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(o.NTopRect))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(o.NWidth))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(o.NHeight))
	buf[8] = o.BRop
	binary.LittleEndian.PutUint32(buf[9:13], o.BackColor)
	binary.LittleEndian.PutUint32(buf[13:17], o.ForeColor)

	if _, err := w.Write(buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodePatBltOrder(r io.Reader) (*PatBltOrder, error) {
	buf := make([]byte, patBltOrderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return &PatBltOrder{
		NLeftRect: int16(binary.LittleEndian.Uint16(buf[0:2])),
		NTopRect:  int16(binary.LittleEndian.Uint16(buf[2:4])),
		NWidth:    int16(binary.LittleEndian.Uint16(buf[4:6])),
		NHeight:   int16(binary.LittleEndian.Uint16(buf[6:8])),
		BRop:      buf[8],
		BackColor: binary.LittleEndian.Uint32(buf[9:13]),
		ForeColor: binary.LittleEndian.Uint32(buf[13:17]),
	}, nil
}

// ScrBltOrder is the SCRBLT_ORDER body (MS-RDPEGDI 2.2.2.2.1.1.2).
type ScrBltOrder struct {
	NLeftRect int16
	NTopRect  int16
	NWidth    int16
	NHeight   int16
	BRop      uint8
	NXSrc     int16
	NYSrc     int16
}

const scrBltOrderSize = 13

func (o *ScrBltOrder) encode(w io.Writer) error {
	buf := make([]byte, scrBltOrderSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(o.NLeftRect))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(o.NTopRect))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(o.NWidth))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(o.NHeight))
	buf[8] = o.BRop
	binary.LittleEndian.PutUint16(buf[9:11], uint16(o.NXSrc))
	binary.LittleEndian.PutUint16(buf[11:13], uint16(o.NYSrc))

	if _, err := w.Write(buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodeScrBltOrder(r io.Reader) (*ScrBltOrder, error) {
	buf := make([]byte, scrBltOrderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return &ScrBltOrder{
		NLeftRect: int16(binary.LittleEndian.Uint16(buf[0:2])),
		NTopRect:  int16(binary.LittleEndian.Uint16(buf[2:4])),
		NWidth:    int16(binary.LittleEndian.Uint16(buf[4:6])),
		NHeight:   int16(binary.LittleEndian.Uint16(buf[6:8])),
		BRop:      buf[8],
		NXSrc:     int16(binary.LittleEndian.Uint16(buf[9:11])),
		NYSrc:     int16(binary.LittleEndian.Uint16(buf[11:13])),
	}, nil
}

// MemBltOrder is the MEMBLT_ORDER body (MS-RDPEGDI 2.2.2.2.1.1.2).
type MemBltOrder struct {
	CacheID    uint16
	NLeftRect  int16
	NTopRect   int16
	NWidth     int16
	NHeight    int16
	BRop       uint8
	NXSrc      int16
	NYSrc      int16
	CacheIndex uint16
}

const memBltOrderSize = 17

func (o *MemBltOrder) encode(w io.Writer) error {
	buf := make([]byte, memBltOrderSize)
	binary.LittleEndian.PutUint16(buf[0:2], o.CacheID)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(o.NLeftRect))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(o.NTopRect))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(o.NWidth))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(o.NHeight))
	buf[10] = o.BRop
	binary.LittleEndian.PutUint16(buf[11:13], uint16(o.NXSrc))
	binary.LittleEndian.PutUint16(buf[13:15], uint16(o.NYSrc))
	binary.LittleEndian.PutUint16(buf[15:17], o.CacheIndex)

	if _, err := w.Write(buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodeMemBltOrder(r io.Reader) (*MemBltOrder, error) {
	buf := make([]byte, memBltOrderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return &MemBltOrder{
		CacheID:    binary.LittleEndian.Uint16(buf[0:2]),
		NLeftRect:  int16(binary.LittleEndian.Uint16(buf[2:4])),
		NTopRect:   int16(binary.LittleEndian.Uint16(buf[4:6])),
		NWidth:     int16(binary.LittleEndian.Uint16(buf[6:8])),
		NHeight:    int16(binary.LittleEndian.Uint16(buf[8:10])),
		BRop:       buf[10],
		NXSrc:      int16(binary.LittleEndian.Uint16(buf[11:13])),
		NYSrc:      int16(binary.LittleEndian.Uint16(buf[13:15])),
		CacheIndex: binary.LittleEndian.Uint16(buf[15:17]),
	}, nil
}

// OpaqueRectOrder is the OPAQUERECT_ORDER body (MS-RDPEGDI 2.2.2.2.1.1.2).
type OpaqueRectOrder struct {
	NLeftRect int16
	NTopRect  int16
	NWidth    int16
	NHeight   int16
	Color     uint32
}

const opaqueRectOrderSize = 12

func (o *OpaqueRectOrder) encode(w io.Writer) error {
	buf := make([]byte, opaqueRectOrderSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(o.NLeftRect))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(o.NTopRect))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(o.NWidth))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(o.NHeight))
	binary.LittleEndian.PutUint32(buf[8:12], o.Color)

	if _, err := w.Write(buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodeOpaqueRectOrder(r io.Reader) (*OpaqueRectOrder, error) {
	buf := make([]byte, opaqueRectOrderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return &OpaqueRectOrder{
		NLeftRect: int16(binary.LittleEndian.Uint16(buf[0:2])),
		NTopRect:  int16(binary.LittleEndian.Uint16(buf[2:4])),
		NWidth:    int16(binary.LittleEndian.Uint16(buf[4:6])),
		NHeight:   int16(binary.LittleEndian.Uint16(buf[6:8])),
		Color:     binary.LittleEndian.Uint32(buf[8:12]),
	}, nil
}

// OrdersUpdate is the TS_UPDATE_ORDERS body (MS-RDPBCGR 2.2.9.1.1.3.1.1).
type OrdersUpdate struct {
	Orders []*DrawingOrder
}

func (pdu *OrdersUpdate) encodeData(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil { // pad2Octets
		return &rdperr.IOError{Cause: err}
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(pdu.Orders))); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	for _, order := range pdu.Orders {
		if err := order.encode(w); err != nil {
			return err
		}
	}
	return nil
}

func decodeOrdersUpdateData(r io.Reader) (*OrdersUpdate, error) {
	prefix := make([]byte, 4)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint16(prefix[2:4])

	orders := make([]*DrawingOrder, 0, count)
	for i := uint16(0); i < count; i++ {
		order, err := decodeDrawingOrder(r)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return &OrdersUpdate{Orders: orders}, nil
}

func (pdu *OrdersUpdate) dataSize() int {
	size := 4
	for _, order := range pdu.Orders {
		size += order.size()
	}
	return size
}
