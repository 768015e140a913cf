package mcs

import (
	"testing"

	"github.com/kulaginds/rdpcodec/internal/protocol/encoding"
	"github.com/kulaginds/rdpcodec/internal/rdperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainParametersPresets(t *testing.T) {
	target := TargetDomainParameters()
	assert.Equal(t, uint32(34), target.MaxChannelIDs)
	assert.Equal(t, uint32(65535), target.MaxMCSPDUSize)

	minimum := MinimumDomainParameters()
	assert.Equal(t, uint32(1), minimum.MaxChannelIDs)
	assert.Equal(t, uint32(1056), minimum.MaxMCSPDUSize)

	maximum := MaximumDomainParameters()
	assert.Equal(t, uint32(65535), maximum.MaxChannelIDs)
	assert.Equal(t, uint32(64535), maximum.MaxUserIDs)
}

func TestDomainParametersRoundTrip(t *testing.T) {
	p := TargetDomainParameters()

	w := encoding.NewWriter()
	p.encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := decodeDomainParameters(r)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
	assert.Equal(t, 0, r.Remaining())
}

func TestConnectInitialRoundTrip(t *testing.T) {
	c := NewConnectInitial([]byte("gcc conference create request"))

	w := encoding.NewWriter()
	c.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeConnectInitial(r)
	require.NoError(t, err)
	assert.Equal(t, c.CallingDomainSelector, decoded.CallingDomainSelector)
	assert.Equal(t, c.UpwardFlag, decoded.UpwardFlag)
	assert.Equal(t, c.TargetParameters, decoded.TargetParameters)
	assert.Equal(t, c.UserData, decoded.UserData)
}

func TestConnectResponseRoundTrip(t *testing.T) {
	c := NewConnectResponseSuccess([]byte("server gcc data"))

	w := encoding.NewWriter()
	c.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeConnectResponse(r)
	require.NoError(t, err)
	assert.Equal(t, ResultSuccessful, decoded.Result)
	assert.Equal(t, c.UserData, decoded.UserData)
}

func TestConnectResponseUnknownResultFails(t *testing.T) {
	w := encoding.NewWriter()
	w.WriteApplicationTag(tagConnectResponse, func(inner *encoding.Writer) {
		inner.WriteEnumerated(200)
		inner.WriteInteger(0)
		TargetDomainParameters().encode(inner)
		inner.WriteOctetString(nil)
	})

	_, err := DecodeConnectResponse(encoding.NewReader(w.Bytes()))
	require.Error(t, err)
	var parseErr *rdperr.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestErectDomainRequestRoundTrip(t *testing.T) {
	e := &ErectDomainRequest{SubHeight: 0, SubInterval: 0}

	w := encoding.NewWriter()
	e.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeErectDomainRequest(r)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestAttachUserRequestRoundTrip(t *testing.T) {
	a := &AttachUserRequest{}

	w := encoding.NewWriter()
	a.Encode(w)
	assert.Equal(t, []byte{0x4A, 0x00}, w.Bytes())

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeAttachUserRequest(r)
	require.NoError(t, err)
	assert.Equal(t, a, decoded)
}

func TestAttachUserConfirmSuccessRoundTrip(t *testing.T) {
	a := NewAttachUserConfirmSuccess(1001)

	w := encoding.NewWriter()
	a.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeAttachUserConfirm(r)
	require.NoError(t, err)
	assert.Equal(t, ResultSuccessful, decoded.Result)
	require.NotNil(t, decoded.UserID)
	assert.Equal(t, uint16(1001), *decoded.UserID)
}

func TestAttachUserConfirmFailureRoundTrip(t *testing.T) {
	a := NewAttachUserConfirmFailure(ResultTooManyUsers)

	w := encoding.NewWriter()
	a.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeAttachUserConfirm(r)
	require.NoError(t, err)
	assert.Equal(t, ResultTooManyUsers, decoded.Result)
	assert.Nil(t, decoded.UserID)
}

func TestChannelJoinRequestRoundTrip(t *testing.T) {
	c := &ChannelJoinRequest{UserID: 1007, ChannelID: 1003}

	w := encoding.NewWriter()
	c.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeChannelJoinRequest(r)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestChannelJoinConfirmSuccessRoundTrip(t *testing.T) {
	c := NewChannelJoinConfirmSuccess(1001, 1003)

	w := encoding.NewWriter()
	c.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeChannelJoinConfirm(r)
	require.NoError(t, err)
	assert.Equal(t, ResultSuccessful, decoded.Result)
	assert.Equal(t, uint16(1001), decoded.UserID)
	assert.Equal(t, uint16(1003), decoded.RequestedChannelID)
	require.NotNil(t, decoded.ChannelID)
	assert.Equal(t, uint16(1003), *decoded.ChannelID)
}

func TestChannelJoinConfirmFailureRoundTrip(t *testing.T) {
	c := NewChannelJoinConfirmFailure(ResultNoSuchChannel, 1001, 1003)

	w := encoding.NewWriter()
	c.Encode(w)

	r := encoding.NewReader(w.Bytes())
	decoded, err := DecodeChannelJoinConfirm(r)
	require.NoError(t, err)
	assert.Equal(t, ResultNoSuchChannel, decoded.Result)
	assert.Nil(t, decoded.ChannelID)
}

func TestDecodeApplicationTagMismatchFails(t *testing.T) {
	w := encoding.NewWriter()
	e := &ErectDomainRequest{}
	e.Encode(w)

	_, err := DecodeAttachUserRequest(encoding.NewReader(w.Bytes()))
	require.Error(t, err)
	var parseErr *rdperr.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
