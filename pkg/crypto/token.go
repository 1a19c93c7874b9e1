package crypto

import (
	"fmt"
	"strings"

	"github.com/secdds/ddscrypto/internal/secerr"
)

// Well-known identifiers for the AES-GCM-GMAC builtin crypto token, per
// OMG DDS Security v1.1 §9.5.2.1.
const (
	// CryptoTokenClassID is the required class_id for a builtin
	// AES-GCM-GMAC crypto token.
	CryptoTokenClassID = "DDS:Crypto:AES_GCM_GMAC"

	// CryptoTokenKeyMatName is the required (and only permitted) name
	// of the binary property carrying the CDR-encoded key material.
	CryptoTokenKeyMatName = "dds.cryp.keymat"
)

// BinaryProperty is a (name, octets value, propagate) entry from a
// CryptoToken's binary property list.
type BinaryProperty struct {
	Name      string
	Value     []byte
	Propagate bool
}

// CryptoToken is the generic tagged container DDS Security carries key
// material in during key-exchange handshakes: a class id, a
// (name, string) property list, and a (name, octets, propagate) binary
// property list.
type CryptoToken struct {
	ClassID          string
	Properties       []Property
	BinaryProperties []BinaryProperty
}

// IntoToken wraps a CDR-encoded key material sequence into the generic
// CryptoToken form required by the builtin profile: class id
// "DDS:Crypto:AES_GCM_GMAC", no string properties, and exactly one
// binary property named "dds.cryp.keymat".
func IntoToken(encodedKeyMaterial []byte) CryptoToken {
	return CryptoToken{
		ClassID: CryptoTokenClassID,
		BinaryProperties: []BinaryProperty{
			{Name: CryptoTokenKeyMatName, Value: encodedKeyMaterial, Propagate: true},
		},
	}
}

// FromToken performs the closed-world validation the builtin profile
// demands of every inbound CryptoToken and returns the CDR-encoded key
// material it carries. Each possible mismatch — class id, non-empty
// property list, wrong binary property cardinality or name — is checked
// independently and reported with a specific BadToken diagnostic naming
// expected vs. observed values, per the adapter's contract.
func FromToken(t CryptoToken) ([]byte, error) {
	if t.ClassID != CryptoTokenClassID {
		return nil, secerr.NewBadTokenError("class_id", CryptoTokenClassID, t.ClassID)
	}
	if len(t.Properties) != 0 {
		return nil, secerr.NewBadTokenError("properties", "[]", propertyNames(t.Properties))
	}
	if len(t.BinaryProperties) != 1 {
		return nil, secerr.NewBadTokenError("binary_properties", "1 entry", fmt.Sprintf("%d entries", len(t.BinaryProperties)))
	}
	bp := t.BinaryProperties[0]
	if bp.Name != CryptoTokenKeyMatName {
		return nil, secerr.NewBadTokenError("binary_properties[0].name", CryptoTokenKeyMatName, bp.Name)
	}
	return bp.Value, nil
}

func propertyNames(props []Property) string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ",") + "]"
}
