package submessage

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/secdds/ddscrypto/internal/secerr"
)

// dataSubmessageFixedLength is the offset of the first byte after the
// four fixed fields (extraFlags, octetsToInlineQos, readerId, writerId,
// writerSequenceNumber): 4 + 4 + 4 + 8.
const dataSubmessageFixedLength = 20

// inlineQosSentinel is the octetsToInlineQos value this codec always
// writes: the inline QoS submessage element, when present, immediately
// follows the four fixed fields with no padding.
const inlineQosSentinel = 16

// DataSubmessage is the decoded body of an RTPS DATA submessage, the
// transport unit the crypto transform wraps and unwraps.
type DataSubmessage struct {
	ReaderId             EntityId
	WriterId             EntityId
	WriterSequenceNumber SequenceNumber

	// InlineQos holds the raw encoded parameter list, including its own
	// 4-octet length prefix, or nil if the InlineQos flag was clear.
	// Encode writes it only when it is non-empty.
	InlineQos []byte

	// SerializedPayload holds the encapsulated data or key value. Empty
	// when neither the Data nor Key flag is set.
	SerializedPayload []byte
}

// Decode parses an RTPS DATA submessage body out of buffer. flags carries
// the InlineQos/Data/Key bits read from the enclosing submessage header;
// the body itself carries no flags of its own.
//
// A Key-only body (KeyFlag set, DataFlag clear) is not yet supported and
// reports MalformedSubmessage, matching the reference decoder's
// unimplemented branch.
func Decode(buffer []byte, flags Flags) (DataSubmessage, error) {
	if len(buffer) < dataSubmessageFixedLength {
		return DataSubmessage{}, secerr.NewMalformedSubmessageError(
			"data_submessage_fixed_fields", 0, nil)
	}

	octetsToInlineQos := readUint16(buffer, 2)
	base := 4 + int(octetsToInlineQos)
	if base > len(buffer) {
		return DataSubmessage{}, secerr.NewMalformedSubmessageError(
			"octets_to_inline_qos", 2, nil)
	}

	var d DataSubmessage
	copy(d.ReaderId[:], buffer[4:8])
	copy(d.WriterId[:], buffer[8:12])
	d.WriterSequenceNumber = SequenceNumber{
		High: readInt32(buffer, 12),
		Low:  readInt32(buffer, 16),
	}

	payloadStart := base
	if flags.InlineQos {
		if base+4 > len(buffer) {
			return DataSubmessage{}, secerr.NewMalformedSubmessageError(
				"inline_qos_length", base, nil)
		}
		qosLength := int(readUint32(buffer, base))
		qosEnd := base + qosLength
		if qosLength < 4 || qosEnd > len(buffer) {
			return DataSubmessage{}, secerr.NewMalformedSubmessageError(
				"inline_qos", base, nil)
		}
		d.InlineQos = buffer[base:qosEnd]
		payloadStart = qosEnd
	}

	switch {
	case flags.Data:
		if payloadStart > len(buffer) {
			return DataSubmessage{}, secerr.NewMalformedSubmessageError(
				"serialized_payload", payloadStart, nil)
		}
		d.SerializedPayload = buffer[payloadStart:]
	case flags.Key:
		return DataSubmessage{}, secerr.NewMalformedSubmessageError(
			"serialized_key", payloadStart,
			errKeyOnlyUnsupported)
	}

	return d, nil
}

var errKeyOnlyUnsupported = errors.New("key-only DATA submessage body (DataFlag clear, KeyFlag set) is not supported")

// Encode serializes d to its wire form. The caller has already fixed the
// submessage header's InlineQos/Data/Key flags to match d's contents;
// Encode does not derive or return them.
//
// octetsToInlineQos is always written as the sentinel 16: this codec
// never inserts padding between the fixed fields and the inline QoS, so
// the offset is constant regardless of whether inline QoS is present.
func Encode(d DataSubmessage) ([]byte, error) {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.BigEndian, uint16(0)); err != nil {
		return nil, secerr.NewSerializationFailureError("extra_flags", err)
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(inlineQosSentinel)); err != nil {
		return nil, secerr.NewSerializationFailureError("octets_to_inline_qos", err)
	}
	if _, err := buf.Write(d.ReaderId[:]); err != nil {
		return nil, secerr.NewSerializationFailureError("reader_id", err)
	}
	if _, err := buf.Write(d.WriterId[:]); err != nil {
		return nil, secerr.NewSerializationFailureError("writer_id", err)
	}
	if err := binary.Write(&buf, binary.BigEndian, d.WriterSequenceNumber.High); err != nil {
		return nil, secerr.NewSerializationFailureError("writer_sequence_number.high", err)
	}
	if err := binary.Write(&buf, binary.BigEndian, d.WriterSequenceNumber.Low); err != nil {
		return nil, secerr.NewSerializationFailureError("writer_sequence_number.low", err)
	}

	if len(d.InlineQos) > 0 {
		if _, err := buf.Write(d.InlineQos); err != nil {
			return nil, secerr.NewSerializationFailureError("inline_qos", err)
		}
	}

	if len(d.SerializedPayload) > 0 {
		if _, err := buf.Write(d.SerializedPayload); err != nil {
			return nil, secerr.NewSerializationFailureError("serialized_payload", err)
		}
	}

	return buf.Bytes(), nil
}

// Flags derives the InlineQos/Data/Key flag bits the enclosing
// submessage header must carry for Decode to round-trip d correctly.
func (d DataSubmessage) Flags() Flags {
	return Flags{
		InlineQos: len(d.InlineQos) > 0,
		Data:      len(d.SerializedPayload) > 0,
	}
}
