// Package submessage decodes and encodes the RTPS DATA submessage body
// that carries protected payloads and crypto headers/footers between the
// builtin crypto transform and the wire. It knows nothing about
// transformation kinds or key material; it only understands the
// length-driven layout fixed by the RTPS specification's octetsToInlineQos
// field.
package submessage

import (
	"encoding/binary"
	"fmt"
)

// EntityId identifies an RTPS entity (participant, writer, or reader)
// within a participant.
type EntityId [4]byte

// String renders the entity id as hex, matching the form used in RTPS
// trace logs.
func (id EntityId) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x", id[0], id[1], id[2], id[3])
}

// SequenceNumber is the signed 64-bit value split into high and low
// 32-bit halves on the wire, per the RTPS SequenceNumber submessage
// element.
type SequenceNumber struct {
	High int32
	Low  int32
}

// Value combines the high and low halves into a single 64-bit sequence
// number.
func (s SequenceNumber) Value() int64 {
	return int64(s.High)<<32 | int64(uint32(s.Low))
}

// SequenceNumberFromValue splits v into its wire representation.
func SequenceNumberFromValue(v int64) SequenceNumber {
	return SequenceNumber{High: int32(v >> 32), Low: int32(uint32(v))}
}

// Flags are the subset of the enclosing submessage header's flag bits
// that govern how a DATA submessage body is parsed. The caller (the RTPS
// message-receiver loop) is responsible for extracting these from the
// submessage header before calling Decode; this package never sees the
// header itself.
type Flags struct {
	InlineQos bool
	Data      bool
	Key       bool
}

func readUint16(buf []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(buf[offset : offset+2])
}

func readUint32(buf []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(buf[offset : offset+4])
}

func readInt32(buf []byte, offset int) int32 {
	return int32(binary.BigEndian.Uint32(buf[offset : offset+4]))
}
