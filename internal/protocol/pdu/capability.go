package pdu

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf16"

	"github.com/kulaginds/rdpcodec/internal/logging"
	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// CapabilitySetType identifies the body carried by a capability set
// envelope (MS-RDPBCGR 2.2.1.13.1.1.1). Only General/Bitmap/Order/Input
// are decoded into structured bodies; every other value round-trips
// through UnknownCapabilitySet.
type CapabilitySetType uint16

const (
	CapabilitySetTypeGeneral                CapabilitySetType = 0x0001
	CapabilitySetTypeBitmap                 CapabilitySetType = 0x0002
	CapabilitySetTypeOrder                  CapabilitySetType = 0x0003
	CapabilitySetTypeBitmapCache            CapabilitySetType = 0x0004
	CapabilitySetTypeControl                CapabilitySetType = 0x0005
	CapabilitySetTypeActivation              CapabilitySetType = 0x0007
	CapabilitySetTypePointer                CapabilitySetType = 0x0008
	CapabilitySetTypeShare                  CapabilitySetType = 0x0009
	CapabilitySetTypeColorCache             CapabilitySetType = 0x000A
	CapabilitySetTypeSound                  CapabilitySetType = 0x000C
	CapabilitySetTypeInput                  CapabilitySetType = 0x000D
	CapabilitySetTypeFont                   CapabilitySetType = 0x000E
	CapabilitySetTypeBrush                  CapabilitySetType = 0x000F
	CapabilitySetTypeGlyphCache             CapabilitySetType = 0x0010
	CapabilitySetTypeOffscreenCache         CapabilitySetType = 0x0011
	CapabilitySetTypeBitmapCacheHostSupport CapabilitySetType = 0x0012
	CapabilitySetTypeBitmapCacheV2          CapabilitySetType = 0x0013
	CapabilitySetTypeVirtualChannel         CapabilitySetType = 0x0014
	CapabilitySetTypeDrawNineGrid           CapabilitySetType = 0x0015
	CapabilitySetTypeDrawGdiPlus            CapabilitySetType = 0x0016
	CapabilitySetTypeRail                   CapabilitySetType = 0x0017
	CapabilitySetTypeWindow                 CapabilitySetType = 0x0018
	CapabilitySetTypeDesktopComposition     CapabilitySetType = 0x0019
	CapabilitySetTypeMultifragmentUpdate    CapabilitySetType = 0x001A
	CapabilitySetTypeLargePointer           CapabilitySetType = 0x001B
	CapabilitySetTypeSurfaceCommands        CapabilitySetType = 0x001C
	CapabilitySetTypeBitmapCodecs           CapabilitySetType = 0x001D
	CapabilitySetTypeFrameAcknowledge       CapabilitySetType = 0x001E
)

// capabilitySetHeaderSize is the 4-byte type+length prefix on every
// capability set.
const capabilitySetHeaderSize = 4

// CapabilitySet is a single entry of a Demand Active / Confirm Active
// PDU's capability set array. Exactly one of the typed fields is set,
// except for types this codec doesn't model structurally, which land in
// Unknown.
type CapabilitySet struct {
	Type CapabilitySetType

	General *GeneralCapabilitySet
	Bitmap  *BitmapCapabilitySet
	Order   *OrderCapabilitySet
	Input   *InputCapabilitySet
	Unknown *UnknownCapabilitySet
}

// Encode writes the 4-byte header followed by the active body.
func (c *CapabilitySet) Encode(w io.Writer) error {
	body := new(bytes.Buffer)

	switch {
	case c.General != nil:
		if err := c.General.encodeData(body); err != nil {
			return err
		}
	case c.Bitmap != nil:
		if err := c.Bitmap.encodeData(body); err != nil {
			return err
		}
	case c.Order != nil:
		if err := c.Order.encodeData(body); err != nil {
			return err
		}
	case c.Input != nil:
		if err := c.Input.encodeData(body); err != nil {
			return err
		}
	case c.Unknown != nil:
		body.Write(c.Unknown.Data)
	default:
		return &rdperr.InvalidHeader{Msg: "capability set has no body set"}
	}

	header := new(bytes.Buffer)
	binary.Write(header, binary.LittleEndian, uint16(c.Type))
	binary.Write(header, binary.LittleEndian, uint16(capabilitySetHeaderSize+body.Len()))

	if _, err := w.Write(header.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeCapabilitySet reads the 4-byte header and dispatches to the body
// matching its type, falling back to UnknownCapabilitySet for any type
// this codec doesn't model structurally. The raw type value is preserved
// verbatim on the unknown path so re-encoding is byte-exact.
func DecodeCapabilitySet(r io.Reader) (*CapabilitySet, error) {
	hdr := make([]byte, capabilitySetHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	rawType := binary.LittleEndian.Uint16(hdr[0:2])
	length := binary.LittleEndian.Uint16(hdr[2:4])
	if length < capabilitySetHeaderSize {
		return nil, &rdperr.InvalidLength{Expected: capabilitySetHeaderSize, Actual: int(length)}
	}
	dataLen := int(length) - capabilitySetHeaderSize

	data := make([]byte, dataLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	body := bytes.NewReader(data)

	c := &CapabilitySet{Type: CapabilitySetType(rawType)}
	logging.Debug("pdu: decoding capability set type=%#04x len=%d", rawType, length)

	switch CapabilitySetType(rawType) {
	case CapabilitySetTypeGeneral:
		g := &GeneralCapabilitySet{}
		if err := g.decodeData(body); err != nil {
			return nil, err
		}
		c.General = g
	case CapabilitySetTypeBitmap:
		b := &BitmapCapabilitySet{}
		if err := b.decodeData(body); err != nil {
			return nil, err
		}
		c.Bitmap = b
	case CapabilitySetTypeOrder:
		o := &OrderCapabilitySet{}
		if err := o.decodeData(body); err != nil {
			return nil, err
		}
		c.Order = o
	case CapabilitySetTypeInput:
		i := &InputCapabilitySet{}
		if err := i.decodeData(body); err != nil {
			return nil, err
		}
		c.Input = i
	default:
		c.Unknown = &UnknownCapabilitySet{Type: rawType, Data: data}
	}

	return c, nil
}

// Size returns the encoded size including the 4-byte header.
func (c *CapabilitySet) Size() int {
	switch {
	case c.General != nil:
		return capabilitySetHeaderSize + generalCapabilitySetDataSize
	case c.Bitmap != nil:
		return capabilitySetHeaderSize + bitmapCapabilitySetDataSize
	case c.Order != nil:
		return capabilitySetHeaderSize + orderCapabilitySetDataSize
	case c.Input != nil:
		return capabilitySetHeaderSize + inputCapabilitySetDataSize
	case c.Unknown != nil:
		return capabilitySetHeaderSize + len(c.Unknown.Data)
	default:
		return capabilitySetHeaderSize
	}
}

// UnknownCapabilitySet carries an unrecognized capability set's raw type
// and data, unmodified, so it round-trips byte for byte.
type UnknownCapabilitySet struct {
	Type uint16
	Data []byte
}

// GeneralCapabilitySet is the General Capability Set (MS-RDPBCGR
// 2.2.7.1.1).
type GeneralCapabilitySet struct {
	OSMajorType           uint16
	OSMinorType           uint16
	ProtocolVersion       uint16
	CompressionTypes      uint16
	ExtraFlags            uint16
	UpdateCapabilityFlag  uint16
	RemoteUnshareFlag     uint16
	CompressionLevel      uint16
	RefreshRectSupport    uint8
	SuppressOutputSupport uint8
}

const generalCapabilitySetDataSize = 20

// NewGeneralCapabilitySet builds a General Capability Set with default
// client values: RDP 5.0+ protocol version, fastpath output, long
// credentials, and refresh-rect/suppress-output support.
func NewGeneralCapabilitySet() *GeneralCapabilitySet {
	return &GeneralCapabilitySet{
		OSMajorType:           0x0001,
		OSMinorType:           0x0003,
		ProtocolVersion:       0x0200,
		ExtraFlags:            0x040D, // FASTPATH_OUTPUT_SUPPORTED | LONG_CREDENTIALS_SUPPORTED | AUTORECONNECT_SUPPORTED | NO_BITMAP_COMPRESSION_HDR
		RefreshRectSupport:    1,
		SuppressOutputSupport: 1,
	}
}

func (s *GeneralCapabilitySet) encodeData(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, s.OSMajorType)
	binary.Write(buf, binary.LittleEndian, s.OSMinorType)
	binary.Write(buf, binary.LittleEndian, s.ProtocolVersion)
	binary.Write(buf, binary.LittleEndian, uint16(0)) // pad2octetsA
	binary.Write(buf, binary.LittleEndian, s.CompressionTypes)
	binary.Write(buf, binary.LittleEndian, s.ExtraFlags)
	binary.Write(buf, binary.LittleEndian, s.UpdateCapabilityFlag)
	binary.Write(buf, binary.LittleEndian, s.RemoteUnshareFlag)
	binary.Write(buf, binary.LittleEndian, s.CompressionLevel)
	buf.WriteByte(s.RefreshRectSupport)
	buf.WriteByte(s.SuppressOutputSupport)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func (s *GeneralCapabilitySet) decodeData(r io.Reader) error {
	buf := make([]byte, generalCapabilitySetDataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	s.OSMajorType = binary.LittleEndian.Uint16(buf[0:2])
	s.OSMinorType = binary.LittleEndian.Uint16(buf[2:4])
	s.ProtocolVersion = binary.LittleEndian.Uint16(buf[4:6])
	s.CompressionTypes = binary.LittleEndian.Uint16(buf[8:10])
	s.ExtraFlags = binary.LittleEndian.Uint16(buf[10:12])
	s.UpdateCapabilityFlag = binary.LittleEndian.Uint16(buf[12:14])
	s.RemoteUnshareFlag = binary.LittleEndian.Uint16(buf[14:16])
	s.CompressionLevel = binary.LittleEndian.Uint16(buf[16:18])
	s.RefreshRectSupport = buf[18]
	s.SuppressOutputSupport = buf[19]
	return nil
}

// BitmapCapabilitySet is the Bitmap Capability Set (MS-RDPBCGR
// 2.2.7.1.2).
type BitmapCapabilitySet struct {
	PreferredBitsPerPixel uint16
	Receive1BitPerPixel   uint16
	Receive4BitsPerPixel  uint16
	Receive8BitsPerPixel  uint16
	DesktopWidth          uint16
	DesktopHeight         uint16
	DesktopResizeFlag     uint16
	DrawingFlags          uint8
}

const bitmapCapabilitySetDataSize = 24

// NewBitmapCapabilitySet builds a Bitmap Capability Set advertising
// 32-bit color and dynamic desktop resizing at the given dimensions.
func NewBitmapCapabilitySet(desktopWidth, desktopHeight uint16) *BitmapCapabilitySet {
	return &BitmapCapabilitySet{
		PreferredBitsPerPixel: 0x0020,
		Receive1BitPerPixel:   0x0001,
		Receive4BitsPerPixel:  0x0001,
		Receive8BitsPerPixel:  0x0001,
		DesktopWidth:          desktopWidth,
		DesktopHeight:         desktopHeight,
		DesktopResizeFlag:     0x0001,
		DrawingFlags:          0x1B,
	}
}

func (s *BitmapCapabilitySet) encodeData(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, s.PreferredBitsPerPixel)
	binary.Write(buf, binary.LittleEndian, s.Receive1BitPerPixel)
	binary.Write(buf, binary.LittleEndian, s.Receive4BitsPerPixel)
	binary.Write(buf, binary.LittleEndian, s.Receive8BitsPerPixel)
	binary.Write(buf, binary.LittleEndian, s.DesktopWidth)
	binary.Write(buf, binary.LittleEndian, s.DesktopHeight)
	binary.Write(buf, binary.LittleEndian, uint16(0)) // pad2octets
	binary.Write(buf, binary.LittleEndian, s.DesktopResizeFlag)
	binary.Write(buf, binary.LittleEndian, uint16(0x0001)) // bitmapCompressionFlag, always TRUE
	buf.WriteByte(0)                                       // highColorFlags, unused
	buf.WriteByte(s.DrawingFlags)
	binary.Write(buf, binary.LittleEndian, uint16(0x0001)) // multipleRectangleSupport, always TRUE
	binary.Write(buf, binary.LittleEndian, uint16(0))      // pad2octetsB

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func (s *BitmapCapabilitySet) decodeData(r io.Reader) error {
	buf := make([]byte, bitmapCapabilitySetDataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	s.PreferredBitsPerPixel = binary.LittleEndian.Uint16(buf[0:2])
	s.Receive1BitPerPixel = binary.LittleEndian.Uint16(buf[2:4])
	s.Receive4BitsPerPixel = binary.LittleEndian.Uint16(buf[4:6])
	s.Receive8BitsPerPixel = binary.LittleEndian.Uint16(buf[6:8])
	s.DesktopWidth = binary.LittleEndian.Uint16(buf[8:10])
	s.DesktopHeight = binary.LittleEndian.Uint16(buf[10:12])
	s.DesktopResizeFlag = binary.LittleEndian.Uint16(buf[14:16])
	s.DrawingFlags = buf[19]
	return nil
}

// OrderCapabilitySet is the Order Capability Set (MS-RDPBCGR 2.2.7.1.3).
type OrderCapabilitySet struct {
	OrderFlags          uint16
	OrderSupport        [32]byte
	TextFlags           uint16
	OrderSupportExFlags uint16
	DesktopSaveSize     uint32
	TextANSICodePage    uint16
}

const orderCapabilitySetDataSize = 84

// defaultOrderSupportIndexes are the orderSupport array positions that
// NewOrderCapabilitySet marks as supported. This set is wider than what
// this module's graphics-update codec decodes: OrdersUpdate handles only
// DstBlt, PatBlt, ScrBlt, MemBlt and OpaqueRect.
var defaultOrderSupportIndexes = []int{0, 1, 2, 3, 4, 8, 9, 15, 16, 17, 18, 22, 25, 27}

// NewOrderCapabilitySet builds an Order Capability Set with
// NEGOTIATEORDERSUPPORT and ZEROBOUNDSDELTASSUPPORT set, and the default
// order-support index set enabled.
func NewOrderCapabilitySet() *OrderCapabilitySet {
	o := &OrderCapabilitySet{
		OrderFlags:      0x0002 | 0x0008,
		DesktopSaveSize: 480 * 480,
	}
	for _, idx := range defaultOrderSupportIndexes {
		o.OrderSupport[idx] = 1
	}
	return o
}

func (s *OrderCapabilitySet) encodeData(w io.Writer) error {
	buf := new(bytes.Buffer)
	buf.Write(make([]byte, 16))                           // terminalDescriptor, unused
	binary.Write(buf, binary.LittleEndian, uint32(0))      // pad4octetsA
	binary.Write(buf, binary.LittleEndian, uint16(1))      // desktopSaveXGranularity
	binary.Write(buf, binary.LittleEndian, uint16(20))     // desktopSaveYGranularity
	binary.Write(buf, binary.LittleEndian, uint16(0))      // pad2octetsA
	binary.Write(buf, binary.LittleEndian, uint16(1))      // maximumOrderLevel, ORD_LEVEL_1_ORDERS
	binary.Write(buf, binary.LittleEndian, uint16(0))      // numberFonts
	binary.Write(buf, binary.LittleEndian, s.OrderFlags)
	buf.Write(s.OrderSupport[:])
	binary.Write(buf, binary.LittleEndian, s.TextFlags)
	binary.Write(buf, binary.LittleEndian, s.OrderSupportExFlags)
	binary.Write(buf, binary.LittleEndian, uint32(0)) // pad4octetsB
	binary.Write(buf, binary.LittleEndian, s.DesktopSaveSize)
	binary.Write(buf, binary.LittleEndian, uint32(0)) // pad4octetsC / pad2octetsC combined below
	binary.Write(buf, binary.LittleEndian, s.TextANSICodePage)
	binary.Write(buf, binary.LittleEndian, uint16(0)) // pad2octetsD

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func (s *OrderCapabilitySet) decodeData(r io.Reader) error {
	buf := make([]byte, orderCapabilitySetDataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	s.OrderFlags = binary.LittleEndian.Uint16(buf[30:32])
	copy(s.OrderSupport[:], buf[32:64])
	s.TextFlags = binary.LittleEndian.Uint16(buf[64:66])
	s.OrderSupportExFlags = binary.LittleEndian.Uint16(buf[66:68])
	s.DesktopSaveSize = binary.LittleEndian.Uint32(buf[72:76])
	s.TextANSICodePage = binary.LittleEndian.Uint16(buf[80:82])
	return nil
}

// InputCapabilitySet is the Input Capability Set (MS-RDPBCGR 2.2.7.1.6).
type InputCapabilitySet struct {
	InputFlags          uint16
	KeyboardLayout      uint32
	KeyboardType        uint32
	KeyboardSubType     uint32
	KeyboardFunctionKey uint32
	IMEFileName         string
}

const inputCapabilitySetDataSize = 84
const imeFileNameSize = 64

// NewInputCapabilitySet builds an Input Capability Set advertising
// scancode, extended-mouse-button, unicode, and fastpath input support
// with a US keyboard layout.
func NewInputCapabilitySet() *InputCapabilitySet {
	return &InputCapabilitySet{
		InputFlags:          0x0001 | 0x0004 | 0x0010 | 0x0020,
		KeyboardLayout:      0x00000409,
		KeyboardType:        0x00000004,
		KeyboardFunctionKey: 12,
	}
}

func (s *InputCapabilitySet) encodeData(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, s.InputFlags)
	binary.Write(buf, binary.LittleEndian, uint16(0)) // pad2octets
	binary.Write(buf, binary.LittleEndian, s.KeyboardLayout)
	binary.Write(buf, binary.LittleEndian, s.KeyboardType)
	binary.Write(buf, binary.LittleEndian, s.KeyboardSubType)
	binary.Write(buf, binary.LittleEndian, s.KeyboardFunctionKey)

	ime := make([]byte, imeFileNameSize)
	encodeUTF16LEInto(s.IMEFileName, ime)
	buf.Write(ime)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func (s *InputCapabilitySet) decodeData(r io.Reader) error {
	buf := make([]byte, inputCapabilitySetDataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return &rdperr.IOError{Cause: err}
	}

	s.InputFlags = binary.LittleEndian.Uint16(buf[0:2])
	s.KeyboardLayout = binary.LittleEndian.Uint32(buf[4:8])
	s.KeyboardType = binary.LittleEndian.Uint32(buf[8:12])
	s.KeyboardSubType = binary.LittleEndian.Uint32(buf[12:16])
	s.KeyboardFunctionKey = binary.LittleEndian.Uint32(buf[16:20])
	s.IMEFileName = decodeUTF16LE(buf[20:84])
	return nil
}

// encodeUTF16LEInto writes s as UTF-16LE into dst, truncating to fit; it
// never writes past len(dst). It writes no terminator: bytes of dst after
// s keep their prior value, so a zeroed dst ends in a nul code unit only
// when s is shorter than len(dst)/2 code units.
func encodeUTF16LEInto(s string, dst []byte) {
	units := utf16.Encode([]rune(s))
	maxUnits := len(dst) / 2
	if len(units) > maxUnits {
		units = units[:maxUnits]
	}
	for i, u := range units {
		binary.LittleEndian.PutUint16(dst[i*2:i*2+2], u)
	}
}

// decodeUTF16LE decodes a UTF-16LE byte slice, stopping at the first nul
// code unit or the end of the slice.
func decodeUTF16LE(src []byte) string {
	units := make([]uint16, 0, len(src)/2)
	for i := 0; i+1 < len(src); i += 2 {
		u := binary.LittleEndian.Uint16(src[i : i+2])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
