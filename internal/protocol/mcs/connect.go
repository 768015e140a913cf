package mcs

import "github.com/kulaginds/rdpcodec/internal/protocol/encoding"

// Application tag numbers for the MCS Connect PDUs.
const (
	tagConnectInitial  byte = 101
	tagConnectResponse byte = 102
)

// ConnectInitial is the client's MCS Connect-Initial PDU: calling/called
// domain selectors, the upward flag, three Domain-Parameters sequences in
// target/minimum/maximum order, and an opaque user-data payload (the GCC
// Conference Create Request, which this codec never parses).
type ConnectInitial struct {
	CallingDomainSelector []byte
	CalledDomainSelector  []byte
	UpwardFlag            bool
	TargetParameters      DomainParameters
	MinimumParameters     DomainParameters
	MaximumParameters     DomainParameters
	UserData              []byte
}

// NewConnectInitial builds a ConnectInitial with the conventional domain
// selectors (a single 0x01 byte) and the RDP client's canonical parameter
// presets.
func NewConnectInitial(userData []byte) *ConnectInitial {
	return &ConnectInitial{
		CallingDomainSelector: []byte{0x01},
		CalledDomainSelector:  []byte{0x01},
		UpwardFlag:            true,
		TargetParameters:      TargetDomainParameters(),
		MinimumParameters:     MinimumDomainParameters(),
		MaximumParameters:     MaximumDomainParameters(),
		UserData:              userData,
	}
}

// Encode writes the application-tag-101 envelope.
func (c *ConnectInitial) Encode(w *encoding.Writer) {
	w.WriteApplicationTag(tagConnectInitial, func(inner *encoding.Writer) {
		inner.WriteOctetString(c.CallingDomainSelector)
		inner.WriteOctetString(c.CalledDomainSelector)
		inner.WriteBoolean(c.UpwardFlag)
		c.TargetParameters.encode(inner)
		c.MinimumParameters.encode(inner)
		c.MaximumParameters.encode(inner)
		inner.WriteOctetString(c.UserData)
	})
}

// DecodeConnectInitial reads an application-tag-101 envelope and its fields
// in declared order.
func DecodeConnectInitial(r *encoding.Reader) (*ConnectInitial, error) {
	if _, err := r.ReadApplicationTag(tagConnectInitial); err != nil {
		return nil, err
	}

	c := &ConnectInitial{}

	var err error
	if c.CallingDomainSelector, err = r.ReadOctetString(); err != nil {
		return nil, err
	}
	if c.CalledDomainSelector, err = r.ReadOctetString(); err != nil {
		return nil, err
	}
	if c.UpwardFlag, err = r.ReadBoolean(); err != nil {
		return nil, err
	}
	if c.TargetParameters, err = decodeDomainParameters(r); err != nil {
		return nil, err
	}
	if c.MinimumParameters, err = decodeDomainParameters(r); err != nil {
		return nil, err
	}
	if c.MaximumParameters, err = decodeDomainParameters(r); err != nil {
		return nil, err
	}
	if c.UserData, err = r.ReadOctetString(); err != nil {
		return nil, err
	}

	return c, nil
}

// ConnectResponse is the server's MCS Connect-Response PDU.
type ConnectResponse struct {
	Result           Result
	CalledConnectID  uint32
	DomainParameters DomainParameters
	UserData         []byte
}

// NewConnectResponseSuccess builds a successful Connect-Response carrying
// the target Domain-Parameters preset.
func NewConnectResponseSuccess(userData []byte) *ConnectResponse {
	return &ConnectResponse{
		Result:           ResultSuccessful,
		DomainParameters: TargetDomainParameters(),
		UserData:         userData,
	}
}

// Encode writes the application-tag-102 envelope.
func (c *ConnectResponse) Encode(w *encoding.Writer) {
	w.WriteApplicationTag(tagConnectResponse, func(inner *encoding.Writer) {
		inner.WriteEnumerated(byte(c.Result))
		inner.WriteInteger(c.CalledConnectID)
		c.DomainParameters.encode(inner)
		inner.WriteOctetString(c.UserData)
	})
}

// DecodeConnectResponse reads an application-tag-102 envelope and its fields
// in declared order.
func DecodeConnectResponse(r *encoding.Reader) (*ConnectResponse, error) {
	if _, err := r.ReadApplicationTag(tagConnectResponse); err != nil {
		return nil, err
	}

	c := &ConnectResponse{}

	resultCode, err := r.ReadEnumerated()
	if err != nil {
		return nil, err
	}
	if c.Result, err = resultFromByte(resultCode); err != nil {
		return nil, err
	}

	if c.CalledConnectID, err = r.ReadInteger(); err != nil {
		return nil, err
	}
	if c.DomainParameters, err = decodeDomainParameters(r); err != nil {
		return nil, err
	}
	if c.UserData, err = r.ReadOctetString(); err != nil {
		return nil, err
	}

	return c, nil
}
