// Package codecopts carries per-call decode options. It replaces the
// teacher's global, environment-driven Config: a codec library embedded in
// someone else's process must not read env vars or hold process-wide
// mutable state, so options are passed explicitly and a nil *Decode means
// "use the defaults".
package codecopts

// Decode holds decoder behavior choices that are not fixed by the wire
// format itself.
type Decode struct {
	// StrictExtendedInfo makes DecodeClientInfoPDUWithOptions fail when the
	// Client Info PDU's optional TS_EXTENDED_INFO_PACKET is truncated,
	// instead of the default lenient behavior of treating a short read at
	// that boundary as "extended info absent".
	StrictExtendedInfo bool
}

// Lenient is the zero-value Decode: every decoder behaves as it does when
// passed a nil options pointer.
var Lenient = &Decode{}
