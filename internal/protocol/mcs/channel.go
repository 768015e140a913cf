package mcs

import "github.com/kulaginds/rdpcodec/internal/protocol/encoding"

// Application tag numbers for the MCS channel-join PDUs.
const (
	tagChannelJoinRequest byte = 14
	tagChannelJoinConfirm byte = 15
)

// ChannelJoinRequest is the client's MCS Channel-Join-Request PDU.
type ChannelJoinRequest struct {
	UserID    uint16
	ChannelID uint16
}

// Encode writes the application-tag-14 envelope.
func (c *ChannelJoinRequest) Encode(w *encoding.Writer) {
	w.WriteApplicationTag(tagChannelJoinRequest, func(inner *encoding.Writer) {
		inner.WriteInteger(uint32(c.UserID))
		inner.WriteInteger(uint32(c.ChannelID))
	})
}

// DecodeChannelJoinRequest reads an application-tag-14 envelope.
func DecodeChannelJoinRequest(r *encoding.Reader) (*ChannelJoinRequest, error) {
	if _, err := r.ReadApplicationTag(tagChannelJoinRequest); err != nil {
		return nil, err
	}

	c := &ChannelJoinRequest{}

	userID, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	c.UserID = uint16(userID)

	channelID, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	c.ChannelID = uint16(channelID)

	return c, nil
}

// ChannelJoinConfirm is the server's MCS Channel-Join-Confirm PDU. ChannelID
// (the actual joined channel) is present only on success.
type ChannelJoinConfirm struct {
	Result             Result
	UserID             uint16
	RequestedChannelID uint16
	ChannelID          *uint16
}

// NewChannelJoinConfirmSuccess builds a successful confirm where the actual
// channel ID matches the requested one.
func NewChannelJoinConfirmSuccess(userID, channelID uint16) *ChannelJoinConfirm {
	return &ChannelJoinConfirm{
		Result:             ResultSuccessful,
		UserID:             userID,
		RequestedChannelID: channelID,
		ChannelID:          &channelID,
	}
}

// NewChannelJoinConfirmFailure builds a failed confirm with no actual
// channel ID.
func NewChannelJoinConfirmFailure(result Result, userID, requestedChannelID uint16) *ChannelJoinConfirm {
	return &ChannelJoinConfirm{
		Result:             result,
		UserID:             userID,
		RequestedChannelID: requestedChannelID,
	}
}

// Encode writes the application-tag-15 envelope.
func (c *ChannelJoinConfirm) Encode(w *encoding.Writer) {
	w.WriteApplicationTag(tagChannelJoinConfirm, func(inner *encoding.Writer) {
		inner.WriteEnumerated(byte(c.Result))
		inner.WriteInteger(uint32(c.UserID))
		inner.WriteInteger(uint32(c.RequestedChannelID))
		if c.ChannelID != nil {
			inner.WriteInteger(uint32(*c.ChannelID))
		}
	})
}

// DecodeChannelJoinConfirm reads an application-tag-15 envelope. The caller
// passes a Reader scoped to exactly this PDU's bytes, so the trailing
// channel ID is read only if bytes remain after the requested-channel-id
// field.
func DecodeChannelJoinConfirm(r *encoding.Reader) (*ChannelJoinConfirm, error) {
	if _, err := r.ReadApplicationTag(tagChannelJoinConfirm); err != nil {
		return nil, err
	}

	c := &ChannelJoinConfirm{}

	resultCode, err := r.ReadEnumerated()
	if err != nil {
		return nil, err
	}
	if c.Result, err = resultFromByte(resultCode); err != nil {
		return nil, err
	}

	userID, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	c.UserID = uint16(userID)

	requested, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	c.RequestedChannelID = uint16(requested)

	if r.Remaining() > 0 {
		channelID, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		v := uint16(channelID)
		c.ChannelID = &v
	}

	return c, nil
}
