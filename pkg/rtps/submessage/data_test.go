package submessage

import (
	"bytes"
	"testing"

	"github.com/secdds/ddscrypto/internal/secerr"
)

func TestDecodeNoInlineQosMatchesGivenScenario(t *testing.T) {
	buffer := []byte{
		0x00, 0x00, 0x00, 0x10, // extraFlags=0, octetsToInlineQos=16
		0x00, 0x00, 0x00, 0x04, // readerId
		0x00, 0x00, 0x00, 0x03, // writerId
		0x00, 0x00, 0x00, 0x00, // writerSequenceNumber.high
		0x00, 0x00, 0x00, 0x01, // writerSequenceNumber.low
		0xde, 0xad, 0xbe, 0xef, // payload
	}

	d, err := Decode(buffer, Flags{Data: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.ReaderId != (EntityId{0x00, 0x00, 0x00, 0x04}) {
		t.Errorf("reader id = %v, want 0x00000004", d.ReaderId)
	}
	if d.WriterId != (EntityId{0x00, 0x00, 0x00, 0x03}) {
		t.Errorf("writer id = %v, want 0x00000003", d.WriterId)
	}
	if d.WriterSequenceNumber.Value() != 1 {
		t.Errorf("writer sequence number = %d, want 1", d.WriterSequenceNumber.Value())
	}
	if d.InlineQos != nil {
		t.Errorf("expected no inline QoS, got %v", d.InlineQos)
	}
	if !bytes.Equal(d.SerializedPayload, buffer[20:]) {
		t.Errorf("payload = %x, want trailing bytes from offset 20 (%x)", d.SerializedPayload, buffer[20:])
	}
}

func TestEncodeDecodeRoundTripWithInlineQos(t *testing.T) {
	// A minimal "parameter list": its own 4-octet length prefix (8, the
	// whole list including the prefix) followed by a 4-octet sentinel
	// parameter.
	qos := []byte{0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00}

	original := DataSubmessage{
		ReaderId:             EntityId{0, 0, 0, 4},
		WriterId:             EntityId{0, 0, 0, 3},
		WriterSequenceNumber: SequenceNumberFromValue(42),
		InlineQos:            qos,
		SerializedPayload:    []byte{0x01, 0x02, 0x03},
	}

	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded, original.Flags())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.ReaderId != original.ReaderId || decoded.WriterId != original.WriterId {
		t.Errorf("entity ids did not round-trip: got %+v", decoded)
	}
	if decoded.WriterSequenceNumber.Value() != 42 {
		t.Errorf("sequence number = %d, want 42", decoded.WriterSequenceNumber.Value())
	}
	if !bytes.Equal(decoded.InlineQos, qos) {
		t.Errorf("inline qos = %x, want %x", decoded.InlineQos, qos)
	}
	if !bytes.Equal(decoded.SerializedPayload, original.SerializedPayload) {
		t.Errorf("payload = %x, want %x", decoded.SerializedPayload, original.SerializedPayload)
	}
}

func TestEncodeDecodeRoundTripNoInlineQosNoPayload(t *testing.T) {
	original := DataSubmessage{
		ReaderId:             EntityId{0, 0, 0, 1},
		WriterId:             EntityId{0, 0, 0, 2},
		WriterSequenceNumber: SequenceNumberFromValue(7),
	}

	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) != dataSubmessageFixedLength {
		t.Fatalf("encoded length = %d, want %d (no inline qos, no payload)", len(encoded), dataSubmessageFixedLength)
	}

	decoded, err := Decode(encoded, Flags{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.SerializedPayload != nil {
		t.Errorf("expected no payload, got %x", decoded.SerializedPayload)
	}
}

func TestDecodeRejectsBufferShorterThanFixedFields(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x00, 0x00, 0x10}, Flags{})
	if !secerr.IsCode(err, secerr.MalformedSubmessage) {
		t.Fatalf("expected MalformedSubmessage, got %v", err)
	}
}

func TestDecodeRejectsOctetsToInlineQosPastEndOfBuffer(t *testing.T) {
	buffer := make([]byte, dataSubmessageFixedLength)
	buffer[3] = 0xff // octetsToInlineQos = 255, far past the buffer

	_, err := Decode(buffer, Flags{})
	if !secerr.IsCode(err, secerr.MalformedSubmessage) {
		t.Fatalf("expected MalformedSubmessage, got %v", err)
	}
}

func TestDecodeRejectsTruncatedInlineQosLength(t *testing.T) {
	buffer := []byte{
		0x00, 0x00, 0x00, 0x10,
		0x00, 0x00, 0x00, 0x04,
		0x00, 0x00, 0x00, 0x03,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, // only 2 bytes available for a 4-byte length prefix
	}

	_, err := Decode(buffer, Flags{InlineQos: true})
	if !secerr.IsCode(err, secerr.MalformedSubmessage) {
		t.Fatalf("expected MalformedSubmessage, got %v", err)
	}
}

func TestDecodeRejectsInlineQosLengthPastEndOfBuffer(t *testing.T) {
	buffer := []byte{
		0x00, 0x00, 0x00, 0x10,
		0x00, 0x00, 0x00, 0x04,
		0x00, 0x00, 0x00, 0x03,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0xff, // claims a 255-byte list, buffer has none
	}

	_, err := Decode(buffer, Flags{InlineQos: true})
	if !secerr.IsCode(err, secerr.MalformedSubmessage) {
		t.Fatalf("expected MalformedSubmessage, got %v", err)
	}
}

func TestDecodeKeyOnlyIsUnsupported(t *testing.T) {
	buffer := make([]byte, dataSubmessageFixedLength)
	buffer[3] = 0x10

	_, err := Decode(buffer, Flags{Key: true})
	if !secerr.IsCode(err, secerr.MalformedSubmessage) {
		t.Fatalf("expected MalformedSubmessage, got %v", err)
	}
}

func TestDecodeNeitherDataNorKeyYieldsEmptyPayload(t *testing.T) {
	buffer := make([]byte, dataSubmessageFixedLength)
	buffer[3] = 0x10

	d, err := Decode(buffer, Flags{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.SerializedPayload != nil {
		t.Errorf("expected empty payload, got %x", d.SerializedPayload)
	}
}
