package pdu

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf16"

	"github.com/kulaginds/rdpcodec/internal/codecopts"
	"github.com/kulaginds/rdpcodec/internal/rdperr"
)

// ClientInfoFlags for ClientInfoPDU.Flags (MS-RDPBCGR 2.2.1.11.1.1).
const (
	ClientInfoFlagMouse                 uint32 = 0x00000001
	ClientInfoFlagDisableCtrlAltDel     uint32 = 0x00000002
	ClientInfoFlagAutologon             uint32 = 0x00000008
	ClientInfoFlagUnicode               uint32 = 0x00000010
	ClientInfoFlagMaximizeShell         uint32 = 0x00000020
	ClientInfoFlagLogonNotify           uint32 = 0x00000040
	ClientInfoFlagCompression           uint32 = 0x00000080
	ClientInfoFlagEnableWindowsKey      uint32 = 0x00000100
	ClientInfoFlagRemoteConsoleAudio    uint32 = 0x00002000
	ClientInfoFlagForceEncryptedCSPDU   uint32 = 0x00004000
	ClientInfoFlagRail                  uint32 = 0x00008000
	ClientInfoFlagLogonErrors           uint32 = 0x00010000
	ClientInfoFlagMouseHasWheel         uint32 = 0x00020000
	ClientInfoFlagPasswordIsSCPin       uint32 = 0x00040000
	ClientInfoFlagNoAudioPlayback       uint32 = 0x00080000
	ClientInfoFlagUsingSavedCreds       uint32 = 0x00100000
	ClientInfoFlagAudioCapture          uint32 = 0x00200000
	ClientInfoFlagVideoDisable          uint32 = 0x00400000
	ClientInfoFlagHiDefRailSupported    uint32 = 0x02000000
)

// PerformanceFlags for ExtendedInfo.PerformanceFlags (MS-RDPBCGR 2.2.1.11.1.1.1).
const (
	PerformanceFlagDisableWallpaper         uint32 = 0x00000001
	PerformanceFlagDisableFullWindowDrag    uint32 = 0x00000002
	PerformanceFlagDisableMenuAnimations    uint32 = 0x00000004
	PerformanceFlagDisableTheming           uint32 = 0x00000008
	PerformanceFlagDisableCursorShadow      uint32 = 0x00000020
	PerformanceFlagDisableCursorSettings    uint32 = 0x00000040
	PerformanceFlagEnableFontSmoothing      uint32 = 0x00000080
	PerformanceFlagEnableDesktopComposition uint32 = 0x00000100
)

// Client address family values for ExtendedInfo.ClientAddressFamily.
const (
	AFInet  uint16 = 2
	AFInet6 uint16 = 23
)

// timeZoneInformationSize is the fixed TS_TIME_ZONE_INFORMATION encoded size.
const timeZoneInformationSize = 172

const (
	tzNameFieldSize = 64
	tzDateFieldSize = 16
)

// TimeZoneInformation is the TS_TIME_ZONE_INFORMATION structure
// (MS-RDPBCGR 2.2.1.11.1.1.1).
type TimeZoneInformation struct {
	Bias          uint32
	StandardName  string
	StandardDate  [tzDateFieldSize]byte
	StandardBias  uint32
	DaylightName  string
	DaylightDate  [tzDateFieldSize]byte
	DaylightBias  uint32
}

// UTCTimeZone returns a TimeZoneInformation with zero bias and no DST rule.
func UTCTimeZone() *TimeZoneInformation {
	return &TimeZoneInformation{}
}

func (tz *TimeZoneInformation) encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, tz.Bias)

	nameBuf := make([]byte, tzNameFieldSize)
	encodeUTF16LEInto(tz.StandardName, nameBuf)
	buf.Write(nameBuf)
	buf.Write(tz.StandardDate[:])
	binary.Write(buf, binary.LittleEndian, tz.StandardBias)

	nameBuf = make([]byte, tzNameFieldSize)
	encodeUTF16LEInto(tz.DaylightName, nameBuf)
	buf.Write(nameBuf)
	buf.Write(tz.DaylightDate[:])
	binary.Write(buf, binary.LittleEndian, tz.DaylightBias)

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func decodeTimeZoneInformation(r io.Reader) (*TimeZoneInformation, error) {
	buf := make([]byte, timeZoneInformationSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	tz := &TimeZoneInformation{
		Bias:         binary.LittleEndian.Uint32(buf[0:4]),
		StandardName: decodeUTF16LE(buf[4:68]),
		StandardBias: binary.LittleEndian.Uint32(buf[84:88]),
		DaylightName: decodeUTF16LE(buf[88:152]),
		DaylightBias: binary.LittleEndian.Uint32(buf[168:172]),
	}
	copy(tz.StandardDate[:], buf[68:84])
	copy(tz.DaylightDate[:], buf[152:168])

	return tz, nil
}

// ExtendedInfo is the optional TS_EXTENDED_INFO_PACKET appended after the
// base Client Info fields (MS-RDPBCGR 2.2.1.11.1.1.1).
type ExtendedInfo struct {
	ClientAddressFamily uint16
	ClientAddress       string
	ClientDir           string
	ClientTimeZone      *TimeZoneInformation
	ClientSessionID     uint32
	PerformanceFlags    uint32
}

// ClientInfoPDU is the TS_INFO_PACKET (MS-RDPBCGR 2.2.1.11).
type ClientInfoPDU struct {
	CodePage       uint32
	Flags          uint32
	Domain         string
	UserName       string
	Password       string
	AlternateShell string
	WorkingDir     string
	ExtendedInfo   *ExtendedInfo
}

// NewClientInfoPDU builds a Client Info PDU with the flags this codec
// always sends: mouse, Unicode strings, logon notify, maximized shell,
// Windows key passthrough, and Ctrl+Alt+Del disabled.
func NewClientInfoPDU(userName, password string) *ClientInfoPDU {
	return &ClientInfoPDU{
		Flags: ClientInfoFlagMouse | ClientInfoFlagUnicode | ClientInfoFlagLogonNotify |
			ClientInfoFlagMaximizeShell | ClientInfoFlagEnableWindowsKey | ClientInfoFlagDisableCtrlAltDel,
		UserName: userName,
		Password: password,
	}
}

// unicodeStringByteCount is the TS_INFO_PACKET string-length convention:
// UTF-16LE character count plus the terminating null, in bytes.
func unicodeStringByteCount(s string) uint16 {
	return uint16((len(utf16.Encode([]rune(s))) + 1) * 2)
}

func writeLengthPrefixedString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, unicodeStringByteCount(s)); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

func writeNullTerminatedUnicodeString(w io.Writer, s string) error {
	for _, ch := range utf16.Encode([]rune(s)) {
		if err := binary.Write(w, binary.LittleEndian, ch); err != nil {
			return &rdperr.IOError{Cause: err}
		}
	}
	return binary.Write(w, binary.LittleEndian, uint16(0))
}

func readNullTerminatedUnicodeString(r io.Reader, byteCount uint16) (string, error) {
	if byteCount == 0 {
		return "", nil
	}

	raw := make([]byte, byteCount)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", &rdperr.IOError{Cause: err}
	}

	units := make([]uint16, 0, byteCount/2)
	for i := 0; i+1 < len(raw); i += 2 {
		u := binary.LittleEndian.Uint16(raw[i : i+2])
		if u == 0 {
			continue
		}
		units = append(units, u)
	}

	return string(utf16.Decode(units)), nil
}

// Encode writes the Client Info PDU body. If ExtendedInfo is nil, the
// extended info block is omitted entirely.
func (pdu *ClientInfoPDU) Encode(w io.Writer) error {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, pdu.CodePage)
	binary.Write(buf, binary.LittleEndian, pdu.Flags)

	if err := writeLengthPrefixedString(buf, pdu.Domain); err != nil {
		return err
	}
	if err := writeLengthPrefixedString(buf, pdu.UserName); err != nil {
		return err
	}
	if err := writeLengthPrefixedString(buf, pdu.Password); err != nil {
		return err
	}
	if err := writeLengthPrefixedString(buf, pdu.AlternateShell); err != nil {
		return err
	}
	if err := writeLengthPrefixedString(buf, pdu.WorkingDir); err != nil {
		return err
	}

	for _, s := range []string{pdu.Domain, pdu.UserName, pdu.Password, pdu.AlternateShell, pdu.WorkingDir} {
		if err := writeNullTerminatedUnicodeString(buf, s); err != nil {
			return err
		}
	}

	if ext := pdu.ExtendedInfo; ext != nil {
		binary.Write(buf, binary.LittleEndian, ext.ClientAddressFamily)
		if err := writeLengthPrefixedString(buf, ext.ClientAddress); err != nil {
			return err
		}
		if err := writeNullTerminatedUnicodeString(buf, ext.ClientAddress); err != nil {
			return err
		}
		if err := writeLengthPrefixedString(buf, ext.ClientDir); err != nil {
			return err
		}
		if err := writeNullTerminatedUnicodeString(buf, ext.ClientDir); err != nil {
			return err
		}

		tz := ext.ClientTimeZone
		if tz == nil {
			tz = UTCTimeZone()
		}
		if err := tz.encode(buf); err != nil {
			return err
		}

		binary.Write(buf, binary.LittleEndian, ext.ClientSessionID)
		binary.Write(buf, binary.LittleEndian, ext.PerformanceFlags)
		binary.Write(buf, binary.LittleEndian, uint16(0)) // cbAutoReconnectLen
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &rdperr.IOError{Cause: err}
	}
	return nil
}

// DecodeClientInfoPDU reads a Client Info PDU. A short read at the
// extended-info boundary is treated as "no extended info present" rather
// than an error. Equivalent to
// DecodeClientInfoPDUWithOptions(r, nil).
func DecodeClientInfoPDU(r io.Reader) (*ClientInfoPDU, error) {
	return DecodeClientInfoPDUWithOptions(r, nil)
}

// DecodeClientInfoPDUWithOptions reads a Client Info PDU under the given
// options. When opts is nil or opts.StrictExtendedInfo is false, a short
// read at the extended-info boundary is treated as "no extended info
// present"; when StrictExtendedInfo is true, the same short read is
// reported as an error instead.
func DecodeClientInfoPDUWithOptions(r io.Reader, opts *codecopts.Decode) (*ClientInfoPDU, error) {
	fixed := make([]byte, 8)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}

	pdu := &ClientInfoPDU{
		CodePage: binary.LittleEndian.Uint32(fixed[0:4]),
		Flags:    binary.LittleEndian.Uint32(fixed[4:8]),
	}

	lengths := make([]byte, 10)
	if _, err := io.ReadFull(r, lengths); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	cbDomain := binary.LittleEndian.Uint16(lengths[0:2])
	cbUserName := binary.LittleEndian.Uint16(lengths[2:4])
	cbPassword := binary.LittleEndian.Uint16(lengths[4:6])
	cbAlternateShell := binary.LittleEndian.Uint16(lengths[6:8])
	cbWorkingDir := binary.LittleEndian.Uint16(lengths[8:10])

	var err error
	if pdu.Domain, err = readNullTerminatedUnicodeString(r, cbDomain); err != nil {
		return nil, err
	}
	if pdu.UserName, err = readNullTerminatedUnicodeString(r, cbUserName); err != nil {
		return nil, err
	}
	if pdu.Password, err = readNullTerminatedUnicodeString(r, cbPassword); err != nil {
		return nil, err
	}
	if pdu.AlternateShell, err = readNullTerminatedUnicodeString(r, cbAlternateShell); err != nil {
		return nil, err
	}
	if pdu.WorkingDir, err = readNullTerminatedUnicodeString(r, cbWorkingDir); err != nil {
		return nil, err
	}

	familyBuf := make([]byte, 2)
	if _, err := io.ReadFull(r, familyBuf); err != nil {
		if opts != nil && opts.StrictExtendedInfo {
			return nil, &rdperr.IOError{Cause: err}
		}
		return pdu, nil // no extended info: lenient short read
	}

	ext := &ExtendedInfo{ClientAddressFamily: binary.LittleEndian.Uint16(familyBuf)}

	cbAddr := make([]byte, 2)
	if _, err := io.ReadFull(r, cbAddr); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	if ext.ClientAddress, err = readNullTerminatedUnicodeString(r, binary.LittleEndian.Uint16(cbAddr)); err != nil {
		return nil, err
	}

	cbDir := make([]byte, 2)
	if _, err := io.ReadFull(r, cbDir); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	if ext.ClientDir, err = readNullTerminatedUnicodeString(r, binary.LittleEndian.Uint16(cbDir)); err != nil {
		return nil, err
	}

	if ext.ClientTimeZone, err = decodeTimeZoneInformation(r); err != nil {
		return nil, err
	}

	tail := make([]byte, 8)
	if _, err := io.ReadFull(r, tail); err != nil {
		return nil, &rdperr.IOError{Cause: err}
	}
	ext.ClientSessionID = binary.LittleEndian.Uint32(tail[0:4])
	ext.PerformanceFlags = binary.LittleEndian.Uint32(tail[4:8])

	cbAutoReconnect := make([]byte, 2)
	if _, err := io.ReadFull(r, cbAutoReconnect); err == nil {
		if n := binary.LittleEndian.Uint16(cbAutoReconnect); n > 0 {
			cookie := make([]byte, n)
			io.ReadFull(r, cookie) // best-effort; cookie contents are opaque
		}
	}

	pdu.ExtendedInfo = ext
	return pdu, nil
}

// Size returns the PDU's total encoded size.
func (pdu *ClientInfoPDU) Size() int {
	size := 8 + 10 // codePage+flags, five length prefixes
	size += int(unicodeStringByteCount(pdu.Domain))
	size += int(unicodeStringByteCount(pdu.UserName))
	size += int(unicodeStringByteCount(pdu.Password))
	size += int(unicodeStringByteCount(pdu.AlternateShell))
	size += int(unicodeStringByteCount(pdu.WorkingDir))

	if ext := pdu.ExtendedInfo; ext != nil {
		size += 2 // clientAddressFamily
		size += 2 + int(unicodeStringByteCount(ext.ClientAddress))
		size += 2 + int(unicodeStringByteCount(ext.ClientDir))
		size += timeZoneInformationSize
		size += 4 // clientSessionId
		size += 4 // performanceFlags
		size += 2 // cbAutoReconnectLen
	}

	return size
}
