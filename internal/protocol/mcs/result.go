// Package mcs implements the Multipoint Communication Service (ITU-T T.125)
// PDUs used during RDP connection setup: Connect-Initial/Response, Erect
// Domain, Attach User, and Channel Join, all BER-encoded.
package mcs

import "github.com/kulaginds/rdpcodec/internal/rdperr"

// Result is the MCS result enumeration returned by Connect-Response,
// Attach-User-Confirm, and Channel-Join-Confirm.
type Result byte

const (
	ResultSuccessful             Result = 0
	ResultDomainMerging          Result = 1
	ResultDomainNotHierarchical  Result = 2
	ResultNoSuchChannel          Result = 3
	ResultNoSuchDomain           Result = 4
	ResultNoSuchUser             Result = 5
	ResultNotAdmitted            Result = 6
	ResultOtherUserIDInvalid     Result = 7
	ResultParametersUnacceptable Result = 8
	ResultTokenNotAvailable      Result = 9
	ResultTokenNotPossessed      Result = 10
	ResultTooManyChannels        Result = 11
	ResultTooManyTokens          Result = 12
	ResultTooManyUsers           Result = 13
	ResultUnspecifiedFailure     Result = 14
	ResultUserRejected           Result = 15
)

func resultFromByte(value byte) (Result, error) {
	if value > byte(ResultUserRejected) {
		return 0, &rdperr.ParseError{Msg: "invalid MCS result code " + hexByte(value)}
	}
	return Result(value), nil
}

func hexByte(b byte) string {
	const hexDigits = "0123456789abcdef"
	return "0x" + string([]byte{hexDigits[b>>4], hexDigits[b&0xF]})
}
