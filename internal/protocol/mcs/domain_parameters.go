package mcs

import "github.com/kulaginds/rdpcodec/internal/protocol/encoding"

// DomainParameters is the eight-integer SEQUENCE negotiated three times
// (target/minimum/maximum) inside Connect-Initial and once inside
// Connect-Response.
type DomainParameters struct {
	MaxChannelIDs   uint32
	MaxUserIDs      uint32
	MaxTokenIDs     uint32
	NumPriorities   uint32
	MinThroughput   uint32
	MaxHeight       uint32
	MaxMCSPDUSize   uint32
	ProtocolVersion uint32
}

// TargetDomainParameters is the RDP client's preferred parameter set.
func TargetDomainParameters() DomainParameters {
	return DomainParameters{34, 2, 0, 1, 0, 1, 65535, 2}
}

// MinimumDomainParameters is the RDP client's floor parameter set.
func MinimumDomainParameters() DomainParameters {
	return DomainParameters{1, 1, 1, 1, 0, 1, 1056, 2}
}

// MaximumDomainParameters is the RDP client's ceiling parameter set.
func MaximumDomainParameters() DomainParameters {
	return DomainParameters{65535, 64535, 65535, 1, 0, 1, 65535, 2}
}

func (p *DomainParameters) encode(w *encoding.Writer) {
	w.WriteSequence(func(inner *encoding.Writer) {
		inner.WriteInteger(p.MaxChannelIDs)
		inner.WriteInteger(p.MaxUserIDs)
		inner.WriteInteger(p.MaxTokenIDs)
		inner.WriteInteger(p.NumPriorities)
		inner.WriteInteger(p.MinThroughput)
		inner.WriteInteger(p.MaxHeight)
		inner.WriteInteger(p.MaxMCSPDUSize)
		inner.WriteInteger(p.ProtocolVersion)
	})
}

func decodeDomainParameters(r *encoding.Reader) (DomainParameters, error) {
	var p DomainParameters

	if _, err := r.ReadTag(); err != nil {
		return p, err
	}
	if _, err := r.ReadLength(); err != nil {
		return p, err
	}

	fields := []*uint32{
		&p.MaxChannelIDs, &p.MaxUserIDs, &p.MaxTokenIDs, &p.NumPriorities,
		&p.MinThroughput, &p.MaxHeight, &p.MaxMCSPDUSize, &p.ProtocolVersion,
	}
	for _, f := range fields {
		v, err := r.ReadInteger()
		if err != nil {
			return p, err
		}
		*f = v
	}

	return p, nil
}
