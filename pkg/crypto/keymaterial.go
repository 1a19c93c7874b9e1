package crypto

import (
	"bytes"
	"fmt"

	"github.com/secdds/ddscrypto/internal/cdr"
	"github.com/secdds/ddscrypto/internal/secerr"
)

// KeyMaterialRecord is an exclusively owned symmetric key bundle: the
// salt and keys used by one end of a single transformation.
//
// master_sender_key's length matches TransformationKind.KeyLength():
// empty for NONE, 16 bytes for the 128-bit kinds, 32 bytes for the
// 256-bit kinds (invariant I4). master_receiver_specific_key is empty
// iff ReceiverSpecificKeyID is 0.
type KeyMaterialRecord struct {
	TransformationKind         TransformationKind
	MasterSalt                 []byte
	SenderKeyID                Handle
	MasterSenderKey            []byte
	ReceiverSpecificKeyID      Handle
	MasterReceiverSpecificKey  []byte
}

// Validate checks invariant I4 against the record's own transformation
// kind.
func (k KeyMaterialRecord) Validate() error {
	wantLen := k.TransformationKind.KeyLength()
	if len(k.MasterSenderKey) != wantLen {
		return secerr.NewSerializationFailureError(
			"master_sender_key",
			fmt.Errorf("length %d does not match %s (want %d)", len(k.MasterSenderKey), k.TransformationKind, wantLen),
		)
	}
	if k.ReceiverSpecificKeyID.IsZero() != (len(k.MasterReceiverSpecificKey) == 0) {
		return secerr.NewSerializationFailureError(
			"master_receiver_specific_key",
			fmt.Errorf("must be empty iff receiver_specific_key_id is 0 (id=%s, len=%d)", k.ReceiverSpecificKeyID, len(k.MasterReceiverSpecificKey)),
		)
	}
	return nil
}

// Encode serializes the record to big-endian CDR:
//
//	[transformation_kind:u32][master_salt:octets]
//	[sender_key_id:u32][master_sender_key:octets]
//	[receiver_specific_key_id:u32][master_receiver_specific_key:octets]
func (k KeyMaterialRecord) Encode(buf *bytes.Buffer) error {
	if err := cdr.WriteUint32(buf, uint32(k.TransformationKind)); err != nil {
		return err
	}
	if err := cdr.WriteOctets(buf, k.MasterSalt); err != nil {
		return err
	}
	if err := cdr.WriteUint32(buf, uint32(k.SenderKeyID)); err != nil {
		return err
	}
	if err := cdr.WriteOctets(buf, k.MasterSenderKey); err != nil {
		return err
	}
	if err := cdr.WriteUint32(buf, uint32(k.ReceiverSpecificKeyID)); err != nil {
		return err
	}
	return cdr.WriteOctets(buf, k.MasterReceiverSpecificKey)
}

// DecodeKeyMaterialRecord deserializes a single KeyMaterialRecord from
// big-endian CDR. An unrecognized transformation kind tag produces
// InvalidTransformationKind.
func DecodeKeyMaterialRecord(r *bytes.Reader) (KeyMaterialRecord, error) {
	wire, err := cdr.ReadUint32(r)
	if err != nil {
		return KeyMaterialRecord{}, secerr.NewSerializationFailureError("transformation_kind", err)
	}
	kind, err := ParseTransformationKind(wire)
	if err != nil {
		return KeyMaterialRecord{}, err
	}

	salt, err := cdr.ReadOctets(r)
	if err != nil {
		return KeyMaterialRecord{}, secerr.NewSerializationFailureError("master_salt", err)
	}

	senderID, err := cdr.ReadUint32(r)
	if err != nil {
		return KeyMaterialRecord{}, secerr.NewSerializationFailureError("sender_key_id", err)
	}

	senderKey, err := cdr.ReadOctets(r)
	if err != nil {
		return KeyMaterialRecord{}, secerr.NewSerializationFailureError("master_sender_key", err)
	}

	receiverID, err := cdr.ReadUint32(r)
	if err != nil {
		return KeyMaterialRecord{}, secerr.NewSerializationFailureError("receiver_specific_key_id", err)
	}

	receiverKey, err := cdr.ReadOctets(r)
	if err != nil {
		return KeyMaterialRecord{}, secerr.NewSerializationFailureError("master_receiver_specific_key", err)
	}

	return KeyMaterialRecord{
		TransformationKind:        kind,
		MasterSalt:                salt,
		SenderKeyID:               Handle(senderID),
		MasterSenderKey:           senderKey,
		ReceiverSpecificKeyID:     Handle(receiverID),
		MasterReceiverSpecificKey: receiverKey,
	}, nil
}

// KeyMaterialSequence is either a single record (the common case: one
// key serves both submessage and payload protection) or exactly two
// records (submessage record first, payload record second). The wire
// form is a CDR sequence of length 1 or 2.
type KeyMaterialSequence []KeyMaterialRecord

// EncodeKeyMaterialSequence serializes seq as [count:u32][record...].
func EncodeKeyMaterialSequence(seq KeyMaterialSequence) ([]byte, error) {
	var buf bytes.Buffer
	if err := cdr.WriteUint32(&buf, uint32(len(seq))); err != nil {
		return nil, err
	}
	for i, rec := range seq {
		if err := rec.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode key material record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeKeyMaterialSequence deserializes a CDR-encoded key material
// sequence.
func DecodeKeyMaterialSequence(data []byte) (KeyMaterialSequence, error) {
	r := bytes.NewReader(data)
	count, err := cdr.ReadUint32(r)
	if err != nil {
		return nil, secerr.NewSerializationFailureError("key_material_sequence_length", err)
	}
	seq := make(KeyMaterialSequence, 0, count)
	for i := uint32(0); i < count; i++ {
		rec, err := DecodeKeyMaterialRecord(r)
		if err != nil {
			return nil, fmt.Errorf("decode key material record %d: %w", i, err)
		}
		seq = append(seq, rec)
	}
	return seq, nil
}

// WithReceiverSpecificKey returns a copy of the sequence whose first
// record has a receiver-specific key attached (any second record is
// copied unchanged), for use when deriving the key
// material a matched remote participant or endpoint will use to
// authenticate this side.
//
// If originAuthenticated is true, a fresh key of the kind's length is
// bound to receiverHandle; otherwise the receiver-specific fields are
// cleared (id 0, empty key), matching register_matched_remote_participant
// step 4 and register_matched_remote_datareader/datawriter step 6.
func (seq KeyMaterialSequence) WithReceiverSpecificKey(receiverHandle Handle, originAuthenticated bool, keygen func(n int) []byte) KeyMaterialSequence {
	out := make(KeyMaterialSequence, len(seq))
	copy(out, seq)
	if len(out) == 0 {
		return out
	}
	first := out[0]
	if originAuthenticated {
		first.ReceiverSpecificKeyID = receiverHandle
		first.MasterReceiverSpecificKey = keygen(first.TransformationKind.KeyLength())
	} else {
		first.ReceiverSpecificKeyID = 0
		first.MasterReceiverSpecificKey = nil
	}
	out[0] = first
	return out
}
