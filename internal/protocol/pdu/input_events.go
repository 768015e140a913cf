package pdu

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// InputEventType is the slow-path TS_INPUT_EVENT messageType field
// (MS-RDPBCGR 2.2.8.1.1.3.1).
type InputEventType uint16

const (
	InputEventTypeSync          InputEventType = 0x0000
	InputEventTypeScancode      InputEventType = 0x0004
	InputEventTypeUnicode       InputEventType = 0x0005
	InputEventTypeMouse         InputEventType = 0x8001
	InputEventTypeExtendedMouse InputEventType = 0x8002
)

// eventHeaderSize is the 2-byte eventTime (always written as 0, ignored on
// decode) plus the 2-byte messageType.
const eventHeaderSize = 4

// InputEvent is one TS_INPUT_EVENT. Exactly one of the variant fields is
// set, selected by Type.
type InputEvent struct {
	Type InputEventType

	Scancode      *KeyboardEvent
	Unicode       *UnicodeKeyboardEvent
	Mouse         *MouseEvent
	ExtendedMouse *ExtendedMouseEvent
	Sync          *SyncEvent
}

// Encode writes the 4-byte prefix (eventTime=0, messageType) followed by
// the variant body.
func (e *InputEvent) Encode(w io.Writer) error {
	body := new(bytes.Buffer)
	var err error
	switch e.Type {
	case InputEventTypeScancode:
		err = e.Scancode.encodeData(body)
	case InputEventTypeUnicode:
		err = e.Unicode.encodeData(body)
	case InputEventTypeMouse:
		err = e.Mouse.encodeData(body)
	case InputEventTypeExtendedMouse:
		err = e.ExtendedMouse.encodeData(body)
	case InputEventTypeSync:
		err = e.Sync.encodeData(body)
	default:
		return &rdperr.ParseError{Msg: "unsupported input event type"}
	}
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint16(0)) // eventTime
	binary.Write(buf, binary.LittleEndian, uint16(e.Type))
	buf.Write(body.Bytes())

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeInputEvent reads one TS_INPUT_EVENT, dispatching the variant body
// on the wire messageType.
func DecodeInputEvent(r io.Reader) (*InputEvent, error) {
	header := make([]byte, eventHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	messageType := InputEventType(binary.LittleEndian.Uint16(header[2:4]))

	e := &InputEvent{Type: messageType}
	var err error
	switch messageType {
	case InputEventTypeScancode:
		e.Scancode, err = decodeKeyboardEvent(r)
	case InputEventTypeUnicode:
		e.Unicode, err = decodeUnicodeKeyboardEvent(r)
	case InputEventTypeMouse:
		e.Mouse, err = decodeMouseEvent(r)
	case InputEventTypeExtendedMouse:
		e.ExtendedMouse, err = decodeExtendedMouseEvent(r)
	case InputEventTypeSync:
		e.Sync, err = decodeSyncEvent(r)
	default:
		return nil, &rdperr.ParseError{Msg: "unsupported input event type"}
	}
	if err != nil {
		return nil, err
	}

	return e, nil
}

// Size returns the event's total encoded size, prefix included.
func (e *InputEvent) Size() int {
	switch e.Type {
	case InputEventTypeSync:
		return eventHeaderSize + syncEventDataSize
	default:
		return eventHeaderSize + 6
	}
}

// KeyboardFlags for KeyboardEvent.Flags.
const (
	KeyboardFlagRelease   uint16 = 0x8000
	KeyboardFlagExtended  uint16 = 0x0100
	KeyboardFlagExtended1 uint16 = 0x0200
)

// KeyboardEvent is the scancode keyboard variant (MS-RDPBCGR 2.2.8.1.1.3.1.1.1).
type KeyboardEvent struct {
	Flags   uint16
	KeyCode uint16
}

func (e *KeyboardEvent) encodeData(w io.Writer) error {
	binary.Write(w, binary.LittleEndian, e.Flags)
	binary.Write(w, binary.LittleEndian, e.KeyCode)
	binary.Write(w, binary.LittleEndian, uint16(0)) // pad
	return nil
}

func decodeKeyboardEvent(r io.Reader) (*KeyboardEvent, error) {
	buf := make([]byte, 6)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	return &KeyboardEvent{
		Flags:   binary.LittleEndian.Uint16(buf[0:2]),
		KeyCode: binary.LittleEndian.Uint16(buf[2:4]),
	}, nil
}

// UnicodeKeyboardFlags for UnicodeKeyboardEvent.Flags.
const UnicodeKeyboardFlagRelease uint16 = 0x8000

// UnicodeKeyboardEvent is the Unicode keyboard variant (MS-RDPBCGR 2.2.8.1.1.3.1.1.2).
type UnicodeKeyboardEvent struct {
	Flags       uint16
	UnicodeCode uint16
}

func (e *UnicodeKeyboardEvent) encodeData(w io.Writer) error {
	binary.Write(w, binary.LittleEndian, e.Flags)
	binary.Write(w, binary.LittleEndian, e.UnicodeCode)
	binary.Write(w, binary.LittleEndian, uint16(0)) // pad
	return nil
}

func decodeUnicodeKeyboardEvent(r io.Reader) (*UnicodeKeyboardEvent, error) {
	buf := make([]byte, 6)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	return &UnicodeKeyboardEvent{
		Flags:       binary.LittleEndian.Uint16(buf[0:2]),
		UnicodeCode: binary.LittleEndian.Uint16(buf[2:4]),
	}, nil
}

// MouseFlags for MouseEvent.Flags.
const (
	MouseFlagMove          uint16 = 0x0800
	MouseFlagDown          uint16 = 0x8000
	MouseFlagButton1       uint16 = 0x1000
	MouseFlagButton2       uint16 = 0x2000
	MouseFlagButton3       uint16 = 0x4000
	MouseFlagWheel         uint16 = 0x0200
	MouseFlagHWheel        uint16 = 0x0400
	MouseFlagWheelNegative uint16 = 0x0100
)

// MouseEvent is the mouse variant (MS-RDPBCGR 2.2.8.1.1.3.1.1.3).
type MouseEvent struct {
	Flags uint16
	XPos  uint16
	YPos  uint16
}

// NewVerticalWheelMouseEvent builds a vertical wheel event. Only the
// rotation's sign is modeled on the wire flags; magnitude is not encoded.
func NewVerticalWheelMouseEvent(negative bool, xPos, yPos uint16) *MouseEvent {
	flags := MouseFlagWheel
	if negative {
		flags |= MouseFlagWheelNegative
	}
	return &MouseEvent{Flags: flags, XPos: xPos, YPos: yPos}
}

// NewHorizontalWheelMouseEvent builds a horizontal wheel event. Only the
// rotation's sign is modeled on the wire flags; magnitude is not encoded.
func NewHorizontalWheelMouseEvent(negative bool, xPos, yPos uint16) *MouseEvent {
	flags := MouseFlagHWheel
	if negative {
		flags |= MouseFlagWheelNegative
	}
	return &MouseEvent{Flags: flags, XPos: xPos, YPos: yPos}
}

func (e *MouseEvent) encodeData(w io.Writer) error {
	binary.Write(w, binary.LittleEndian, e.Flags)
	binary.Write(w, binary.LittleEndian, e.XPos)
	binary.Write(w, binary.LittleEndian, e.YPos)
	return nil
}

func decodeMouseEvent(r io.Reader) (*MouseEvent, error) {
	buf := make([]byte, 6)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	return &MouseEvent{
		Flags: binary.LittleEndian.Uint16(buf[0:2]),
		XPos:  binary.LittleEndian.Uint16(buf[2:4]),
		YPos:  binary.LittleEndian.Uint16(buf[4:6]),
	}, nil
}

// ExtendedMouseFlags for ExtendedMouseEvent.Flags.
const (
	ExtendedMouseFlagButton1  uint16 = 0x0001
	ExtendedMouseFlagButton2  uint16 = 0x0002
	ExtendedMouseFlagXButton1 uint16 = 0x0004
	ExtendedMouseFlagXButton2 uint16 = 0x0008
	ExtendedMouseFlagDown     uint16 = 0x0010
	ExtendedMouseFlagMove     uint16 = 0x0020
)

// ExtendedMouseEvent is the extended (X-button) mouse variant
// (MS-RDPBCGR 2.2.8.1.1.3.1.1.4).
type ExtendedMouseEvent struct {
	Flags uint16
	XPos  uint16
	YPos  uint16
}

func (e *ExtendedMouseEvent) encodeData(w io.Writer) error {
	binary.Write(w, binary.LittleEndian, e.Flags)
	binary.Write(w, binary.LittleEndian, e.XPos)
	binary.Write(w, binary.LittleEndian, e.YPos)
	return nil
}

func decodeExtendedMouseEvent(r io.Reader) (*ExtendedMouseEvent, error) {
	buf := make([]byte, 6)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	return &ExtendedMouseEvent{
		Flags: binary.LittleEndian.Uint16(buf[0:2]),
		XPos:  binary.LittleEndian.Uint16(buf[2:4]),
		YPos:  binary.LittleEndian.Uint16(buf[4:6]),
	}, nil
}

// SyncFlags for SyncEvent.Flags.
const (
	SyncFlagScrollLock uint16 = 0x0001
	SyncFlagNumLock    uint16 = 0x0002
	SyncFlagCapsLock   uint16 = 0x0004
	SyncFlagKanaLock   uint16 = 0x0008
)

const syncEventDataSize = 4

// SyncEvent is the toggle-key-state variant (MS-RDPBCGR 2.2.8.1.1.3.1.1.5).
type SyncEvent struct {
	Flags uint16
}

func (e *SyncEvent) encodeData(w io.Writer) error {
	binary.Write(w, binary.LittleEndian, e.Flags)
	binary.Write(w, binary.LittleEndian, uint16(0)) // pad
	return nil
}

func decodeSyncEvent(r io.Reader) (*SyncEvent, error) {
	buf := make([]byte, syncEventDataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	return &SyncEvent{Flags: binary.LittleEndian.Uint16(buf[0:2])}, nil
}

// InputEventPDU is the TS_INPUT_PDU_DATA body (MS-RDPBCGR 2.2.8.1.1.3).
type InputEventPDU struct {
	Events []*InputEvent
}

// inputEventPDUPrefixSize is the 2-byte numEvents field plus 2-byte pad.
const inputEventPDUPrefixSize = 4

// Encode writes the fixed prefix followed by each event in order.
func (pdu *InputEventPDU) Encode(w io.Writer) error {
	prefix := new(bytes.Buffer)
	binary.Write(prefix, binary.LittleEndian, uint16(len(pdu.Events)))
	binary.Write(prefix, binary.LittleEndian, uint16(0)) // pad

	if _, err := w.Write(prefix.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	for _, e := range pdu.Events {
		if err := e.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

// DecodeInputEventPDU reads the fixed prefix followed by numEvents events.
func DecodeInputEventPDU(r io.Reader) (*InputEventPDU, error) {
	prefix := make([]byte, inputEventPDUPrefixSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	numEvents := binary.LittleEndian.Uint16(prefix[0:2])

	events := make([]*InputEvent, 0, numEvents)
	for i := uint16(0); i < numEvents; i++ {
		e, err := DecodeInputEvent(r)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return &InputEventPDU{Events: events}, nil
}

// Size returns the PDU's total encoded size.
func (pdu *InputEventPDU) Size() int {
	size := inputEventPDUPrefixSize
	for _, e := range pdu.Events {
		size += e.Size()
	}
	return size
}
