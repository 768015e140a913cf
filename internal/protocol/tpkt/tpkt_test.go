package tpkt

import (
	"bytes"
	"testing"

	"github.com/kulaginds/rdpcodec/internal/rdperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketEncodeFiveByteExact(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	p := NewPacket(payload)

	buf := new(bytes.Buffer)
	require.NoError(t, p.Encode(buf))

	want := []byte{0x03, 0x00, 0x00, 0x09, 0x01, 0x02, 0x03, 0x04, 0x05}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, len(want), p.Size())
}

func TestPacketRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x01, 0x02, 0x03},
		bytes.Repeat([]byte{0xFF}, 100),
	}

	for _, payload := range cases {
		p := NewPacket(payload)

		buf := new(bytes.Buffer)
		require.NoError(t, p.Encode(buf))
		assert.Equal(t, p.Size(), buf.Len())

		decoded, err := Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, p.Payload, decoded.Payload)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	buf := bytes.NewReader([]byte{0x02, 0x00, 0x00, 0x04})
	_, err := Decode(buf)
	require.Error(t, err)

	var unsupported *rdperr.UnsupportedVersion
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, byte(0x02), unsupported.Version)
}

func TestDecodeInvalidLength(t *testing.T) {
	buf := bytes.NewReader([]byte{0x03, 0x00, 0x00, 0x02})
	_, err := Decode(buf)
	require.Error(t, err)

	var invalid *rdperr.InvalidLength
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 4, invalid.Expected)
	assert.Equal(t, 2, invalid.Actual)
}

func TestDecodePrefixClosure(t *testing.T) {
	payload := []byte{0xAA, 0xBB}
	p := NewPacket(payload)

	buf := new(bytes.Buffer)
	require.NoError(t, p.Encode(buf))
	buf.Write([]byte{0xDE, 0xAD}) // trailing bytes beyond the frame

	decoded, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded.Payload)
	assert.Equal(t, []byte{0xDE, 0xAD}, buf.Bytes())
}
