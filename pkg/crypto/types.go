// Package crypto implements the core of a DDS Security cryptographic
// plugin conforming to the OMG DDS Security v1.1 §9.5 "AES-GCM-GMAC"
// builtin profile: the crypto key factory, the builtin wire types that
// carry key material and authenticated/encrypted content, and their CDR
// codecs. The actual AES-GCM / AES-GMAC transforms, the broader RTPS
// transport, and the access-control/authentication plugins are treated
// as external collaborators and are out of scope for this package.
package crypto

import "fmt"

// Handle is a non-zero 32-bit opaque identifier for a participant, data
// writer, or data reader known to the key factory. Handle(0) is reserved
// as "unspecified/none" and is used as the sentinel receiver-specific
// key id.
type Handle uint32

// String renders the handle for logs and diagnostics.
func (h Handle) String() string {
	return fmt.Sprintf("%d", uint32(h))
}

// IsZero reports whether h is the reserved "unspecified" handle.
func (h Handle) IsZero() bool {
	return h == 0
}

// EndpointKind distinguishes a data writer from a data reader endpoint.
type EndpointKind int

const (
	// EndpointKindDataWriter marks an endpoint as a data writer.
	EndpointKindDataWriter EndpointKind = iota + 1
	// EndpointKindDataReader marks an endpoint as a data reader.
	EndpointKindDataReader
)

// String returns a human-readable name for the endpoint kind.
func (k EndpointKind) String() string {
	switch k {
	case EndpointKindDataWriter:
		return "DataWriter"
	case EndpointKindDataReader:
		return "DataReader"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Opposite returns the other endpoint kind, used when a local endpoint's
// registration implies the kind of its matched remote peer.
func (k EndpointKind) Opposite() EndpointKind {
	if k == EndpointKindDataWriter {
		return EndpointKindDataReader
	}
	return EndpointKindDataWriter
}

// EndpointInfo pairs a crypto handle with the endpoint kind it was
// allocated for. Two EndpointInfo values are equal iff both fields
// match.
type EndpointInfo struct {
	Handle Handle
	Kind   EndpointKind
}

// Property is a single (name, string value) entry from a DDS Security
// property list, e.g. "dds.sec.crypto.keysize" -> "128".
type Property struct {
	Name  string
	Value string
}

// Lookup returns the value of the named property and whether it was
// present. Matching is case-sensitive and exact, per the DDS Security
// property list semantics this plugin relies on.
func Lookup(properties []Property, name string) (string, bool) {
	for _, p := range properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Well-known property names recognized by this plugin.
const (
	// PropertyBuiltinEndpointName identifies volatile discovery
	// endpoints that must be rejected by the generic key factory.
	PropertyBuiltinEndpointName = "dds.sec.builtin_endpoint_name"

	// PropertyCryptoKeySize selects the key size; "128" forces 128-bit
	// keys, any other value (or absence) selects 256-bit.
	PropertyCryptoKeySize = "dds.sec.crypto.keysize"
)

// Reserved builtin_endpoint_name values identifying the participant
// volatile message secure writer/reader, which register_local_datawriter
// and register_local_datareader must reject.
const (
	VolatileMessageSecureWriterName = "BuiltinParticipantVolatileMessageSecureWriter"
	VolatileMessageSecureReaderName = "BuiltinParticipantVolatileMessageSecureReader"
)

// IsVolatileEndpointName reports whether name names one of the reserved
// participant-volatile-message-secure endpoints.
func IsVolatileEndpointName(name string) bool {
	return name == VolatileMessageSecureWriterName || name == VolatileMessageSecureReaderName
}

// UseBit256Key reports whether the given property list selects a
// 256-bit key. Absence of the property, or any value other than the
// literal string "128", selects 256-bit (the default).
func UseBit256Key(properties []Property) bool {
	v, ok := Lookup(properties, PropertyCryptoKeySize)
	if !ok {
		return true
	}
	return v != "128"
}
