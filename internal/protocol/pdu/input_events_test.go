package pdu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyboardEventRoundTrip(t *testing.T) {
	e := &InputEvent{Type: InputEventTypeScancode, Scancode: &KeyboardEvent{Flags: KeyboardFlagExtended, KeyCode: 0x1E}}

	buf := new(bytes.Buffer)
	require.NoError(t, e.Encode(buf))
	assert.Equal(t, e.Size(), buf.Len())
	assert.Equal(t, 10, buf.Len())

	decoded, err := DecodeInputEvent(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestUnicodeKeyboardEventRoundTrip(t *testing.T) {
	e := &InputEvent{Type: InputEventTypeUnicode, Unicode: &UnicodeKeyboardEvent{Flags: UnicodeKeyboardFlagRelease, UnicodeCode: 0x0041}}

	buf := new(bytes.Buffer)
	require.NoError(t, e.Encode(buf))

	decoded, err := DecodeInputEvent(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestMouseEventRoundTrip(t *testing.T) {
	e := &InputEvent{Type: InputEventTypeMouse, Mouse: &MouseEvent{Flags: MouseFlagMove | MouseFlagButton1, XPos: 100, YPos: 200}}

	buf := new(bytes.Buffer)
	require.NoError(t, e.Encode(buf))

	decoded, err := DecodeInputEvent(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestNewVerticalWheelMouseEvent(t *testing.T) {
	e := NewVerticalWheelMouseEvent(true, 10, 20)
	assert.Equal(t, MouseFlagWheel|MouseFlagWheelNegative, e.Flags)

	e = NewVerticalWheelMouseEvent(false, 10, 20)
	assert.Equal(t, MouseFlagWheel, e.Flags)
}

func TestNewHorizontalWheelMouseEvent(t *testing.T) {
	e := NewHorizontalWheelMouseEvent(true, 10, 20)
	assert.Equal(t, MouseFlagHWheel|MouseFlagWheelNegative, e.Flags)
}

func TestExtendedMouseEventRoundTrip(t *testing.T) {
	e := &InputEvent{Type: InputEventTypeExtendedMouse, ExtendedMouse: &ExtendedMouseEvent{Flags: ExtendedMouseFlagXButton1 | ExtendedMouseFlagDown, XPos: 5, YPos: 6}}

	buf := new(bytes.Buffer)
	require.NoError(t, e.Encode(buf))

	decoded, err := DecodeInputEvent(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestSyncEventRoundTrip(t *testing.T) {
	e := &InputEvent{Type: InputEventTypeSync, Sync: &SyncEvent{Flags: SyncFlagCapsLock | SyncFlagNumLock}}

	buf := new(bytes.Buffer)
	require.NoError(t, e.Encode(buf))
	assert.Equal(t, 8, buf.Len())

	decoded, err := DecodeInputEvent(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestDecodeInputEventUnsupportedType(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := DecodeInputEvent(bytes.NewReader(buf))
	require.Error(t, err)
}

func TestInputEventPDURoundTrip(t *testing.T) {
	pdu := &InputEventPDU{
		Events: []*InputEvent{
			{Type: InputEventTypeSync, Sync: &SyncEvent{Flags: SyncFlagNumLock}},
			{Type: InputEventTypeScancode, Scancode: &KeyboardEvent{Flags: 0, KeyCode: 0x10}},
		},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, pdu.Size(), buf.Len())
	assert.Equal(t, 4+8+10, buf.Len())

	decoded, err := DecodeInputEventPDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, pdu, decoded)
}

func TestInputEventPDUEmpty(t *testing.T) {
	pdu := &InputEventPDU{}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, 4, buf.Len())

	decoded, err := DecodeInputEventPDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, decoded.Events, 0)
}
