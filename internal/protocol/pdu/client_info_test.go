package pdu

import (
	"bytes"
	"testing"

	"github.com/kulaginds/rdpcodec/internal/codecopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInfoPDURoundTripNoExtendedInfo(t *testing.T) {
	pdu := NewClientInfoPDU("testuser", "password123")

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, pdu.Size(), buf.Len())

	decoded, err := DecodeClientInfoPDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "testuser", decoded.UserName)
	assert.Equal(t, "password123", decoded.Password)
	assert.Equal(t, uint32(0), decoded.CodePage)
	assert.Nil(t, decoded.ExtendedInfo)
}

func TestClientInfoPDURoundTripWithDomain(t *testing.T) {
	pdu := NewClientInfoPDU("admin", "pass")
	pdu.Domain = "WORKGROUP"

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))

	decoded, err := DecodeClientInfoPDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "WORKGROUP", decoded.Domain)
	assert.Equal(t, "admin", decoded.UserName)
}

func TestClientInfoPDURoundTripWithExtendedInfo(t *testing.T) {
	pdu := NewClientInfoPDU("user", "pass")
	pdu.ExtendedInfo = &ExtendedInfo{
		ClientAddressFamily: AFInet,
		ClientAddress:       "192.168.1.100",
		ClientDir:           `C:\Users\Test`,
		ClientTimeZone:      UTCTimeZone(),
		ClientSessionID:     0,
		PerformanceFlags:    PerformanceFlagDisableWallpaper,
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))
	assert.Equal(t, pdu.Size(), buf.Len())

	decoded, err := DecodeClientInfoPDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NotNil(t, decoded.ExtendedInfo)
	assert.Equal(t, "192.168.1.100", decoded.ExtendedInfo.ClientAddress)
	assert.Equal(t, AFInet, decoded.ExtendedInfo.ClientAddressFamily)
	assert.Equal(t, `C:\Users\Test`, decoded.ExtendedInfo.ClientDir)
	assert.Equal(t, PerformanceFlagDisableWallpaper, decoded.ExtendedInfo.PerformanceFlags)
}

func TestClientInfoPDUEmptyStrings(t *testing.T) {
	pdu := NewClientInfoPDU("", "")

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))

	decoded, err := DecodeClientInfoPDU(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "", decoded.UserName)
	assert.Equal(t, "", decoded.Password)
}

func TestClientInfoPDUStrictExtendedInfoRejectsShortRead(t *testing.T) {
	pdu := NewClientInfoPDU("user", "pass")

	buf := new(bytes.Buffer)
	require.NoError(t, pdu.Encode(buf))

	lenient, err := DecodeClientInfoPDUWithOptions(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	assert.Nil(t, lenient.ExtendedInfo)

	_, err = DecodeClientInfoPDUWithOptions(bytes.NewReader(buf.Bytes()), &codecopts.Decode{StrictExtendedInfo: true})
	require.Error(t, err)
}

func TestTimeZoneInformationRoundTrip(t *testing.T) {
	tz := &TimeZoneInformation{Bias: 60, StandardName: "GMT Standard Time", DaylightName: "GMT Daylight Time", StandardBias: 0, DaylightBias: 60}

	buf := new(bytes.Buffer)
	require.NoError(t, tz.encode(buf))
	assert.Equal(t, timeZoneInformationSize, buf.Len())

	decoded, err := decodeTimeZoneInformation(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, tz.Bias, decoded.Bias)
	assert.Equal(t, tz.StandardName, decoded.StandardName)
	assert.Equal(t, tz.DaylightName, decoded.DaylightName)
}
