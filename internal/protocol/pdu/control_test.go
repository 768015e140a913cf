package pdu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizePDURoundTrip(t *testing.T) {
	pdu := &SynchronizePDU{TargetUser: 1002}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, SynchronizePDUSize, buf.Len())

	decoded, err := DecodeSynchronizePDU(buf)
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestDecodeSynchronizePDUInvalidMessageType(t *testing.T) {
	buf := []byte{0x02, 0x00, 0x00, 0x00}
	_, err := DecodeSynchronizePDU(bytes.NewReader(buf))
	require.Error(t, err)
}

func TestCooperatePDU(t *testing.T) {
	pdu := CooperatePDU()
	assert.Equal(t, ControlActionCooperate, pdu.Action)
	assert.Equal(t, uint16(0), pdu.GrantID)
	assert.Equal(t, uint32(0), pdu.ControlID)

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))

	decoded, err := DecodeControlPDU(buf)
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestRequestControlPDU(t *testing.T) {
	pdu := RequestControlPDU()
	assert.Equal(t, ControlActionRequestControl, pdu.Action)
}

func TestGrantedControlPDU(t *testing.T) {
	pdu := GrantedControlPDU(7)
	assert.Equal(t, ControlActionGrantedControl, pdu.Action)
	assert.Equal(t, uint16(7), pdu.GrantID)
	assert.Equal(t, uint32(1000), pdu.ControlID)

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, ControlPDUSize, buf.Len())

	decoded, err := DecodeControlPDU(buf)
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestDecodeControlPDUInvalidAction(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := DecodeControlPDU(bytes.NewReader(buf))
	require.Error(t, err)
}

func TestFontListPDURoundTrip(t *testing.T) {
	pdu := NewFontListPDU()

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, FontListPDUSize, buf.Len())

	wire := buf.Bytes()
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x03, 0x00, 0x32, 0x00}, wire)

	decoded, err := DecodeFontListPDU(bytes.NewReader(wire))
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestFontMapPDURoundTrip(t *testing.T) {
	pdu := &FontMapPDU{NumberEntries: 0, TotalNumEntries: 0}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))

	wire := buf.Bytes()
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x03, 0x00, 0x04, 0x00}, wire)

	decoded, err := DecodeFontMapPDU(bytes.NewReader(wire))
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}
