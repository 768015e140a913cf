package mcs

import "github.com/kulaginds/rdpcodec/internal/protocol/encoding"

// Application tag numbers for the MCS domain/attach-user PDUs.
const (
	tagErectDomainRequest byte = 1
	tagAttachUserRequest  byte = 10
	tagAttachUserConfirm  byte = 11
)

// ErectDomainRequest is the client's MCS Erect-Domain-Request PDU.
type ErectDomainRequest struct {
	SubHeight   uint32
	SubInterval uint32
}

// Encode writes the application-tag-1 envelope.
func (e *ErectDomainRequest) Encode(w *encoding.Writer) {
	w.WriteApplicationTag(tagErectDomainRequest, func(inner *encoding.Writer) {
		inner.WriteInteger(e.SubHeight)
		inner.WriteInteger(e.SubInterval)
	})
}

// DecodeErectDomainRequest reads an application-tag-1 envelope.
func DecodeErectDomainRequest(r *encoding.Reader) (*ErectDomainRequest, error) {
	if _, err := r.ReadApplicationTag(tagErectDomainRequest); err != nil {
		return nil, err
	}

	e := &ErectDomainRequest{}

	var err error
	if e.SubHeight, err = r.ReadInteger(); err != nil {
		return nil, err
	}
	if e.SubInterval, err = r.ReadInteger(); err != nil {
		return nil, err
	}

	return e, nil
}

// AttachUserRequest is the client's MCS Attach-User-Request PDU: an empty
// application-tag-10 sequence.
type AttachUserRequest struct{}

// Encode writes the empty application-tag-10 envelope.
func (a *AttachUserRequest) Encode(w *encoding.Writer) {
	w.WriteApplicationTag(tagAttachUserRequest, func(*encoding.Writer) {})
}

// DecodeAttachUserRequest reads the empty application-tag-10 envelope.
func DecodeAttachUserRequest(r *encoding.Reader) (*AttachUserRequest, error) {
	if _, err := r.ReadApplicationTag(tagAttachUserRequest); err != nil {
		return nil, err
	}
	return &AttachUserRequest{}, nil
}

// AttachUserConfirm is the server's MCS Attach-User-Confirm PDU. UserID is
// present only on success; its presence is inferred from whether the
// envelope has any bytes left after the result field.
type AttachUserConfirm struct {
	Result Result
	UserID *uint16
}

// NewAttachUserConfirmSuccess builds a successful confirm carrying userID.
func NewAttachUserConfirmSuccess(userID uint16) *AttachUserConfirm {
	return &AttachUserConfirm{Result: ResultSuccessful, UserID: &userID}
}

// NewAttachUserConfirmFailure builds a failed confirm with no user ID.
func NewAttachUserConfirmFailure(result Result) *AttachUserConfirm {
	return &AttachUserConfirm{Result: result}
}

// Encode writes the application-tag-11 envelope.
func (a *AttachUserConfirm) Encode(w *encoding.Writer) {
	w.WriteApplicationTag(tagAttachUserConfirm, func(inner *encoding.Writer) {
		inner.WriteEnumerated(byte(a.Result))
		if a.UserID != nil {
			inner.WriteInteger(uint32(*a.UserID))
		}
	})
}

// DecodeAttachUserConfirm reads an application-tag-11 envelope. The caller
// passes a Reader scoped to exactly this PDU's bytes, so the trailing user
// ID is read only if bytes remain at all after the result field.
func DecodeAttachUserConfirm(r *encoding.Reader) (*AttachUserConfirm, error) {
	if _, err := r.ReadApplicationTag(tagAttachUserConfirm); err != nil {
		return nil, err
	}

	a := &AttachUserConfirm{}

	resultCode, err := r.ReadEnumerated()
	if err != nil {
		return nil, err
	}
	if a.Result, err = resultFromByte(resultCode); err != nil {
		return nil, err
	}

	if r.Remaining() > 0 {
		userID, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		v := uint16(userID)
		a.UserID = &v
	}

	return a, nil
}
