package pdu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralCapabilitySetRoundTrip(t *testing.T) {
	c := &CapabilitySet{Type: CapabilitySetTypeGeneral, General: NewGeneralCapabilitySet()}

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf))
	assert.Equal(t, c.Size(), buf.Len())

	decoded, err := DecodeCapabilitySet(buf)
	require.NoError(t, err)
	require.NotNil(t, decoded.General)
	assert.Equal(t, c.General, decoded.General)
	assert.Equal(t, uint16(0x040D), decoded.General.ExtraFlags)
}

func TestBitmapCapabilitySetRoundTrip(t *testing.T) {
	c := &CapabilitySet{Type: CapabilitySetTypeBitmap, Bitmap: NewBitmapCapabilitySet(1920, 1080)}

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf))

	decoded, err := DecodeCapabilitySet(buf)
	require.NoError(t, err)
	require.NotNil(t, decoded.Bitmap)
	assert.Equal(t, uint16(1920), decoded.Bitmap.DesktopWidth)
	assert.Equal(t, uint16(1080), decoded.Bitmap.DesktopHeight)
	assert.Equal(t, uint8(0x1B), decoded.Bitmap.DrawingFlags)
}

func TestOrderCapabilitySetRoundTrip(t *testing.T) {
	o := NewOrderCapabilitySet()
	c := &CapabilitySet{Type: CapabilitySetTypeOrder, Order: o}

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf))
	assert.Equal(t, capabilitySetHeaderSize+orderCapabilitySetDataSize, buf.Len())

	decoded, err := DecodeCapabilitySet(buf)
	require.NoError(t, err)
	require.NotNil(t, decoded.Order)
	assert.Equal(t, o.OrderSupport, decoded.Order.OrderSupport)
	for _, idx := range defaultOrderSupportIndexes {
		assert.Equal(t, byte(1), decoded.Order.OrderSupport[idx])
	}
	assert.Equal(t, uint32(480*480), decoded.Order.DesktopSaveSize)
}

func TestInputCapabilitySetRoundTrip(t *testing.T) {
	in := NewInputCapabilitySet()
	in.IMEFileName = "msime.ime"
	c := &CapabilitySet{Type: CapabilitySetTypeInput, Input: in}

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf))

	decoded, err := DecodeCapabilitySet(buf)
	require.NoError(t, err)
	require.NotNil(t, decoded.Input)
	assert.Equal(t, uint32(0x0409), decoded.Input.KeyboardLayout)
	assert.Equal(t, "msime.ime", decoded.Input.IMEFileName)
}

func TestInputCapabilitySetEmptyIMEName(t *testing.T) {
	in := NewInputCapabilitySet()
	c := &CapabilitySet{Type: CapabilitySetTypeInput, Input: in}

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf))

	decoded, err := DecodeCapabilitySet(buf)
	require.NoError(t, err)
	assert.Equal(t, "", decoded.Input.IMEFileName)
}

func TestUnknownCapabilitySetPreservesTypeAndBytes(t *testing.T) {
	c := &CapabilitySet{
		Type:    CapabilitySetTypeGlyphCache,
		Unknown: &UnknownCapabilitySet{Type: uint16(CapabilitySetTypeGlyphCache), Data: []byte{1, 2, 3, 4, 5, 6}},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf))

	decoded, err := DecodeCapabilitySet(buf)
	require.NoError(t, err)
	require.NotNil(t, decoded.Unknown)
	assert.Equal(t, uint16(CapabilitySetTypeGlyphCache), decoded.Unknown.Type)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, decoded.Unknown.Data)
}

func TestUnknownCapabilitySetArbitraryTypeValue(t *testing.T) {
	// A capability-set type value with no matching constant at all must
	// still round-trip through Unknown with its exact raw type preserved.
	c := &CapabilitySet{Type: CapabilitySetType(0xBEEF), Unknown: &UnknownCapabilitySet{Type: 0xBEEF, Data: []byte{9, 9}}}

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf))

	decoded, err := DecodeCapabilitySet(buf)
	require.NoError(t, err)
	require.NotNil(t, decoded.Unknown)
	assert.Equal(t, uint16(0xBEEF), decoded.Unknown.Type)
}
