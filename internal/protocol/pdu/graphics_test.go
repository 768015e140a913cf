package pdu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizeUpdatePDURoundTrip(t *testing.T) {
	pdu := &UpdatePDU{Type: UpdateTypeSynchronize}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, pdu.Size(), buf.Len())
	assert.Equal(t, 4, buf.Len())

	decoded, err := DecodeUpdatePDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestPaletteUpdatePDURoundTrip(t *testing.T) {
	pdu := &UpdatePDU{
		Type: UpdateTypePalette,
		Palette: &PaletteUpdate{
			Entries: []PaletteEntry{
				{Red: 0xFF, Green: 0x00, Blue: 0x00},
				{Red: 0x00, Green: 0xFF, Blue: 0x00},
			},
		},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, pdu.Size(), buf.Len())

	decoded, err := DecodeUpdatePDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestBitmapUpdatePDUTwoRectangles(t *testing.T) {
	pdu := &UpdatePDU{
		Type: UpdateTypeBitmap,
		Bitmap: &BitmapUpdate{
			Rectangles: []*BitmapData{
				{
					DestLeft: 0, DestTop: 0, DestRight: 15, DestBottom: 15,
					Width: 16, Height: 16, BitsPerPixel: 16, BitmapLength: 32,
					Flags: BitmapFlagNoBitmapCompressionHdr,
					Data:  bytes.Repeat([]byte{0xAB}, 32),
				},
				{
					DestLeft: 16, DestTop: 0, DestRight: 31, DestBottom: 15,
					Width: 16, Height: 16, BitsPerPixel: 16, BitmapLength: 3,
					Flags: BitmapFlagCompressed,
					Data:  []byte{0x01, 0x02, 0x03},
				},
			},
		},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, pdu.Size(), buf.Len())

	decoded, err := DecodeUpdatePDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
	assert.Len(t, decoded.Bitmap.Rectangles, 2)
}

func TestBitmapUpdatePDUEmpty(t *testing.T) {
	pdu := &UpdatePDU{Type: UpdateTypeBitmap, Bitmap: &BitmapUpdate{}}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))

	decoded, err := DecodeUpdatePDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, decoded.Bitmap.Rectangles, 0)
}

func TestDecodeUpdatePDUUnsupportedType(t *testing.T) {
	buf := []byte{0xFF, 0xFF}
	_, err := DecodeUpdatePDU(bytes.NewReader(buf))
	require.Error(t, err)
}

func TestOrdersUpdatePDURoundTrip(t *testing.T) {
	pdu := &UpdatePDU{
		Type: UpdateTypeOrders,
		Orders: &OrdersUpdate{
			Orders: []*DrawingOrder{
				{Type: OrderTypeDstBlt, DstBlt: &DstBltOrder{NLeftRect: 1, NTopRect: 2, NWidth: 3, NHeight: 4, BRop: 0xCC}},
				{Type: OrderTypePatBlt, PatBlt: &PatBltOrder{NLeftRect: -1, NTopRect: 0, NWidth: 10, NHeight: 10, BRop: 0xF0, BackColor: 0x00FFFFFF, ForeColor: 0x00000000}},
				{Type: OrderTypeScrBlt, ScrBlt: &ScrBltOrder{NLeftRect: 5, NTopRect: 5, NWidth: 20, NHeight: 20, BRop: 0xCC, NXSrc: 0, NYSrc: 0}},
				{Type: OrderTypeMemBlt, MemBlt: &MemBltOrder{CacheID: 1, NLeftRect: 0, NTopRect: 0, NWidth: 32, NHeight: 32, BRop: 0xCC, NXSrc: 0, NYSrc: 0, CacheIndex: 7}},
				{Type: OrderTypeOpaqueRect, OpaqueRect: &OpaqueRectOrder{NLeftRect: 0, NTopRect: 0, NWidth: 100, NHeight: 50, Color: 0x00123456}},
			},
		},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, pdu.Size(), buf.Len())

	decoded, err := DecodeUpdatePDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestDecodeDrawingOrderUnsupportedType(t *testing.T) {
	// 0x1B (GlyphIndex) is a valid MS-RDPEGDI order type this codec does not implement.
	buf := []byte{0x1B}
	_, err := decodeDrawingOrder(bytes.NewReader(buf))
	require.Error(t, err)
}

func TestNegativeCoordinatesRoundTrip(t *testing.T) {
	order := &DstBltOrder{NLeftRect: -100, NTopRect: -1, NWidth: 50, NHeight: 50, BRop: 0x00}

	buf := new(bytes.Buffer)
	require.NoError(t, order.encode(buf))

	decoded, err := decodeDstBltOrder(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, order, decoded)
}
