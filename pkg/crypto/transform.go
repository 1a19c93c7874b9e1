package crypto

import (
	"fmt"

	"github.com/secdds/ddscrypto/internal/secerr"
)

// TransformationKind identifies one of the five symmetric transforms the
// AES-GCM-GMAC builtin profile supports. Its wire form is 4 big-endian
// octets, values 0..4 in the order declared below.
type TransformationKind uint32

const (
	TransformNone        TransformationKind = 0
	TransformAES128GMAC  TransformationKind = 1
	TransformAES128GCM   TransformationKind = 2
	TransformAES256GMAC  TransformationKind = 3
	TransformAES256GCM   TransformationKind = 4
)

// String returns the symbolic name of the transformation kind.
func (k TransformationKind) String() string {
	switch k {
	case TransformNone:
		return "NONE"
	case TransformAES128GMAC:
		return "AES128-GMAC"
	case TransformAES128GCM:
		return "AES128-GCM"
	case TransformAES256GMAC:
		return "AES256-GMAC"
	case TransformAES256GCM:
		return "AES256-GCM"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(k))
	}
}

// ParseTransformationKind validates a wire tag and returns the matching
// TransformationKind, or InvalidTransformationKind if the tag is not one
// of the five recognized values.
func ParseTransformationKind(wire uint32) (TransformationKind, error) {
	switch TransformationKind(wire) {
	case TransformNone, TransformAES128GMAC, TransformAES128GCM, TransformAES256GMAC, TransformAES256GCM:
		return TransformationKind(wire), nil
	default:
		return 0, secerr.NewInvalidTransformationKindError(wire)
	}
}

// KeyLength returns the expected master_sender_key / master_receiver_specific_key
// length in bytes for this transformation kind: 0 for NONE, 16 for the
// 128-bit kinds, 32 for the 256-bit kinds.
func (k TransformationKind) KeyLength() int {
	switch k {
	case TransformNone:
		return 0
	case TransformAES128GMAC, TransformAES128GCM:
		return 16
	case TransformAES256GMAC, TransformAES256GCM:
		return 32
	default:
		return 0
	}
}

// IsEncrypting reports whether the kind both authenticates and encrypts
// (the GCM kinds), as opposed to authenticating only (the GMAC kinds) or
// doing neither (NONE).
func (k TransformationKind) IsEncrypting() bool {
	return k == TransformAES128GCM || k == TransformAES256GCM
}

// ResolveTransformationKind implements the transformation-kind selection
// table: given whether the traffic is protected at all, whether it is
// additionally encrypted, and whether a 256-bit key was negotiated, it
// returns the one TransformationKind that matches.
//
//	protected | encrypted | 256-bit | kind
//	false     | —         | —       | NONE
//	true      | false     | false   | AES128-GMAC
//	true      | false     | true    | AES256-GMAC
//	true      | true      | false   | AES128-GCM
//	true      | true      | true    | AES256-GCM
func ResolveTransformationKind(isProtected, isEncrypted, use256BitKey bool) TransformationKind {
	if !isProtected {
		return TransformNone
	}
	switch {
	case isEncrypted && use256BitKey:
		return TransformAES256GCM
	case isEncrypted && !use256BitKey:
		return TransformAES128GCM
	case !isEncrypted && use256BitKey:
		return TransformAES256GMAC
	default:
		return TransformAES128GMAC
	}
}
