// Package cdr provides big-endian Common Data Representation encoding
// helpers for the DDS Security builtin wire types: key material, crypto
// header, crypto footer, and their octet-sequence fields.
//
// Unlike RFC 4506 XDR, the CDR profile used by the DDS Security builtin
// types packs fields back to back: variable-length octet sequences are
// written as a 4-byte length followed by the raw bytes, with no padding
// to a 4-byte boundary anywhere in a structure, so this package
// intentionally omits the RFC-4506-style padding helpers.
package cdr

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// maxOpaqueLength bounds variable-length octet fields decoded from
// untrusted input.
const maxOpaqueLength = 1024 * 1024

// WriteUint32 encodes a big-endian 32-bit unsigned integer.
func WriteUint32(buf *bytes.Buffer, v uint32) error {
	if err := binary.Write(buf, binary.BigEndian, v); err != nil {
		return fmt.Errorf("write uint32: %w", err)
	}
	return nil
}

// WriteUint64 encodes a big-endian 64-bit unsigned integer.
func WriteUint64(buf *bytes.Buffer, v uint64) error {
	if err := binary.Write(buf, binary.BigEndian, v); err != nil {
		return fmt.Errorf("write uint64: %w", err)
	}
	return nil
}

// WriteInt32 encodes a big-endian two's-complement 32-bit signed integer.
func WriteInt32(buf *bytes.Buffer, v int32) error {
	if err := binary.Write(buf, binary.BigEndian, v); err != nil {
		return fmt.Errorf("write int32: %w", err)
	}
	return nil
}

// WriteBool encodes a boolean as a big-endian uint32 (0 = false, 1 = true).
func WriteBool(buf *bytes.Buffer, v bool) error {
	var val uint32
	if v {
		val = 1
	}
	return WriteUint32(buf, val)
}

// WriteOctets encodes a CDR variable-length octet sequence: a 4-byte
// big-endian length followed by the raw bytes, with no trailing padding.
//
// Example: []byte{0x01, 0x02, 0x03} -> [00 00 00 03][01 02 03] (7 bytes total)
func WriteOctets(buf *bytes.Buffer, data []byte) error {
	if err := WriteUint32(buf, uint32(len(data))); err != nil {
		return fmt.Errorf("write octets length: %w", err)
	}
	if _, err := buf.Write(data); err != nil {
		return fmt.Errorf("write octets data: %w", err)
	}
	return nil
}

// WriteFixedOctets writes exactly len(data) raw bytes with no length
// prefix, for fields whose size is fixed by the surrounding structure
// (e.g. a 16-octet MAC).
func WriteFixedOctets(buf *bytes.Buffer, data []byte) error {
	if _, err := buf.Write(data); err != nil {
		return fmt.Errorf("write fixed octets: %w", err)
	}
	return nil
}

// WriteString encodes a CDR string as a length-prefixed octet sequence.
func WriteString(buf *bytes.Buffer, s string) error {
	return WriteOctets(buf, []byte(s))
}

// ============================================================================
// Decoding
// ============================================================================

// ReadUint32 decodes a big-endian 32-bit unsigned integer.
func ReadUint32(r *bytes.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, fmt.Errorf("read uint32: %w", err)
	}
	return v, nil
}

// ReadUint64 decodes a big-endian 64-bit unsigned integer.
func ReadUint64(r *bytes.Reader) (uint64, error) {
	var v uint64
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, fmt.Errorf("read uint64: %w", err)
	}
	return v, nil
}

// ReadInt32 decodes a big-endian two's-complement 32-bit signed integer.
func ReadInt32(r *bytes.Reader) (int32, error) {
	var v int32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, fmt.Errorf("read int32: %w", err)
	}
	return v, nil
}

// ReadBool decodes a boolean encoded as a big-endian uint32.
func ReadBool(r *bytes.Reader) (bool, error) {
	v, err := ReadUint32(r)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ReadOctets decodes a CDR variable-length octet sequence: a 4-byte
// big-endian length followed by that many raw bytes.
func ReadOctets(r *bytes.Reader) ([]byte, error) {
	length, err := ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read octets length: %w", err)
	}
	if length > maxOpaqueLength {
		return nil, fmt.Errorf("octets length %d exceeds maximum %d", length, maxOpaqueLength)
	}
	data := make([]byte, length)
	if length > 0 {
		if _, err := readFull(r, data); err != nil {
			return nil, fmt.Errorf("read octets data: %w", err)
		}
	}
	return data, nil
}

// ReadFixedOctets reads exactly n raw bytes with no length prefix.
func ReadFixedOctets(r *bytes.Reader, n int) ([]byte, error) {
	data := make([]byte, n)
	if _, err := readFull(r, data); err != nil {
		return nil, fmt.Errorf("read fixed octets: %w", err)
	}
	return data, nil
}

// ReadString decodes a CDR string encoded as a length-prefixed octet
// sequence.
func ReadString(r *bytes.Reader) (string, error) {
	data, err := ReadOctets(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
