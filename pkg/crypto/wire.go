package crypto

import (
	"bytes"
	"fmt"

	"github.com/secdds/ddscrypto/internal/cdr"
	"github.com/secdds/ddscrypto/internal/secerr"
)

// pluginCryptoHeaderExtraLength is the fixed size, in octets, of the
// plugin-specific extra carried by every crypto header: a 4-octet
// session_id followed by an 8-octet initialization_vector_suffix.
const pluginCryptoHeaderExtraLength = 12

// CryptoTransformIdentifier names the transformation used to protect a
// submessage or payload and the key used to do it.
type CryptoTransformIdentifier struct {
	TransformationKind  TransformationKind
	TransformationKeyID Handle
}

// Encode serializes the identifier as [kind:u32][key_id:u32].
func (id CryptoTransformIdentifier) Encode(buf *bytes.Buffer) error {
	if err := cdr.WriteUint32(buf, uint32(id.TransformationKind)); err != nil {
		return err
	}
	return cdr.WriteUint32(buf, uint32(id.TransformationKeyID))
}

// DecodeCryptoTransformIdentifier deserializes a CryptoTransformIdentifier.
// An unrecognized transformation kind tag produces InvalidTransformationKind.
func DecodeCryptoTransformIdentifier(r *bytes.Reader) (CryptoTransformIdentifier, error) {
	wire, err := cdr.ReadUint32(r)
	if err != nil {
		return CryptoTransformIdentifier{}, secerr.NewSerializationFailureError("transformation_kind", err)
	}
	kind, err := ParseTransformationKind(wire)
	if err != nil {
		return CryptoTransformIdentifier{}, err
	}
	keyID, err := cdr.ReadUint32(r)
	if err != nil {
		return CryptoTransformIdentifier{}, secerr.NewSerializationFailureError("transformation_key_id", err)
	}
	return CryptoTransformIdentifier{TransformationKind: kind, TransformationKeyID: Handle(keyID)}, nil
}

// CryptoHeader prefixes every protected submessage and payload: the
// transform identifier plus 12 octets of plugin-specific extra, a
// 4-octet session id and an 8-octet initialization vector suffix.
//
// Wire layout (20 octets total): 4+4 (CryptoTransformIdentifier) + 4
// (SessionID) + 8 (InitializationVectorSuffix).
type CryptoHeader struct {
	TransformIdentifier        CryptoTransformIdentifier
	SessionID                  [4]byte
	InitializationVectorSuffix [8]byte
}

// Encode serializes h to its fixed 20-octet wire form.
func (h CryptoHeader) Encode(buf *bytes.Buffer) error {
	if err := h.TransformIdentifier.Encode(buf); err != nil {
		return err
	}
	if err := cdr.WriteFixedOctets(buf, h.SessionID[:]); err != nil {
		return err
	}
	return cdr.WriteFixedOctets(buf, h.InitializationVectorSuffix[:])
}

// DecodeCryptoHeader deserializes a CryptoHeader from its fixed-size
// plugin extra. The caller is responsible for presenting exactly the
// header's bytes; the plugin-specific extra region must be exactly
// pluginCryptoHeaderExtraLength octets, matching the builtin profile's
// BuiltinCryptoHeader validation.
func DecodeCryptoHeader(r *bytes.Reader) (CryptoHeader, error) {
	id, err := DecodeCryptoTransformIdentifier(r)
	if err != nil {
		return CryptoHeader{}, err
	}

	extra, err := cdr.ReadFixedOctets(r, pluginCryptoHeaderExtraLength)
	if err != nil {
		return CryptoHeader{}, secerr.NewSerializationFailureError("plugin_crypto_header_extra", err)
	}

	var h CryptoHeader
	h.TransformIdentifier = id
	copy(h.SessionID[:], extra[0:4])
	copy(h.InitializationVectorSuffix[:], extra[4:12])
	return h, nil
}

// DecodeCryptoHeaderExtra validates and splits a standalone
// plugin_crypto_header_extra buffer into its session id and
// initialization vector suffix, without a leading transform identifier.
// A buffer whose length is not exactly 12 reports the observed length,
// mirroring the builtin profile's "plugin_crypto_header_extra was of
// length {n}. Expected 12." diagnostic.
func DecodeCryptoHeaderExtra(extra []byte) (sessionID [4]byte, ivSuffix [8]byte, err error) {
	if len(extra) != pluginCryptoHeaderExtraLength {
		return sessionID, ivSuffix, secerr.NewSerializationFailureError(
			"plugin_crypto_header_extra",
			fmt.Errorf("plugin_crypto_header_extra was of length %d. Expected %d", len(extra), pluginCryptoHeaderExtraLength),
		)
	}
	copy(sessionID[:], extra[0:4])
	copy(ivSuffix[:], extra[4:12])
	return sessionID, ivSuffix, nil
}

// ReceiverSpecificMAC binds a MAC to the specific receiving endpoint or
// participant whose key id produced it, for origin-authenticated
// transformations.
type ReceiverSpecificMAC struct {
	ReceiverMACKeyID Handle
	ReceiverMAC      [16]byte
}

// Encode serializes the record as [key_id:u32][mac:16 octets].
func (m ReceiverSpecificMAC) Encode(buf *bytes.Buffer) error {
	if err := cdr.WriteUint32(buf, uint32(m.ReceiverMACKeyID)); err != nil {
		return err
	}
	return cdr.WriteFixedOctets(buf, m.ReceiverMAC[:])
}

// DecodeReceiverSpecificMAC deserializes a single ReceiverSpecificMAC.
func DecodeReceiverSpecificMAC(r *bytes.Reader) (ReceiverSpecificMAC, error) {
	keyID, err := cdr.ReadUint32(r)
	if err != nil {
		return ReceiverSpecificMAC{}, secerr.NewSerializationFailureError("receiver_mac_key_id", err)
	}
	mac, err := cdr.ReadFixedOctets(r, 16)
	if err != nil {
		return ReceiverSpecificMAC{}, secerr.NewSerializationFailureError("receiver_mac", err)
	}
	var rec ReceiverSpecificMAC
	rec.ReceiverMACKeyID = Handle(keyID)
	copy(rec.ReceiverMAC[:], mac)
	return rec, nil
}

// CryptoFooter trails every protected submessage and payload: a common
// MAC everyone can verify, followed by the sequence of receiver-specific
// MACs produced when origin authentication is enabled (empty otherwise).
type CryptoFooter struct {
	CommonMAC            [16]byte
	ReceiverSpecificMACs []ReceiverSpecificMAC
}

// Encode serializes f as [common_mac:16 octets][count:u32][record...].
func (f CryptoFooter) Encode(buf *bytes.Buffer) error {
	if err := cdr.WriteFixedOctets(buf, f.CommonMAC[:]); err != nil {
		return err
	}
	if err := cdr.WriteUint32(buf, uint32(len(f.ReceiverSpecificMACs))); err != nil {
		return err
	}
	for i, rec := range f.ReceiverSpecificMACs {
		if err := rec.Encode(buf); err != nil {
			return fmt.Errorf("encode receiver specific mac %d: %w", i, err)
		}
	}
	return nil
}

// DecodeCryptoFooter deserializes a CryptoFooter.
func DecodeCryptoFooter(r *bytes.Reader) (CryptoFooter, error) {
	mac, err := cdr.ReadFixedOctets(r, 16)
	if err != nil {
		return CryptoFooter{}, secerr.NewSerializationFailureError("common_mac", err)
	}

	count, err := cdr.ReadUint32(r)
	if err != nil {
		return CryptoFooter{}, secerr.NewSerializationFailureError("receiver_specific_macs_length", err)
	}

	var f CryptoFooter
	copy(f.CommonMAC[:], mac)
	f.ReceiverSpecificMACs = make([]ReceiverSpecificMAC, 0, count)
	for i := uint32(0); i < count; i++ {
		rec, err := DecodeReceiverSpecificMAC(r)
		if err != nil {
			return CryptoFooter{}, fmt.Errorf("decode receiver specific mac %d: %w", i, err)
		}
		f.ReceiverSpecificMACs = append(f.ReceiverSpecificMACs, rec)
	}
	return f, nil
}
