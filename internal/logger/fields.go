package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Key Factory Operation
	// ========================================================================
	KeyOperation  = "operation"   // Key Factory operation name: register_local_participant, etc.
	KeyEntityKind = "entity_kind" // participant, datawriter, datareader
	KeyHandle     = "handle"      // Crypto handle (uint32)
	KeyRemote     = "remote"      // true if the handle belongs to a remote entity
	KeyRelayOnly  = "relay_only"  // register_matched_remote_datareader's relay_only argument

	// ========================================================================
	// Crypto Material
	// ========================================================================
	KeyTransformKind = "transform_kind" // TransformationKind symbolic name
	KeyKeySizeBits   = "key_size_bits"  // 128 or 256
	KeyKeyCount      = "key_count"      // number of records in a key material sequence

	// ========================================================================
	// Wire Codec
	// ========================================================================
	KeyWireType   = "wire_type"   // keymaterial, header, footer, data_submessage
	KeyByteLength = "byte_length" // length of the encoded/decoded buffer
	KeyOffset     = "offset"      // byte offset at which a decode error occurred

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Symbolic CryptoError code
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Operation returns a slog.Attr for the Key Factory operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// EntityKind returns a slog.Attr for the entity kind (participant, datawriter, datareader)
func EntityKind(kind string) slog.Attr {
	return slog.String(KeyEntityKind, kind)
}

// Handle returns a slog.Attr for a crypto handle
func Handle(h uint32) slog.Attr {
	return slog.Uint64(KeyHandle, uint64(h))
}

// HandleName returns a slog.Attr for a crypto handle under a caller-chosen key
// (useful when logging more than one handle in a single call, e.g. local/remote).
func HandleName(key string, h uint32) slog.Attr {
	return slog.Uint64(key, uint64(h))
}

// Remote returns a slog.Attr marking an entity as remote
func Remote(remote bool) slog.Attr {
	return slog.Bool(KeyRemote, remote)
}

// RelayOnly returns a slog.Attr for register_matched_remote_datareader's
// relay_only argument.
func RelayOnly(relayOnly bool) slog.Attr {
	return slog.Bool(KeyRelayOnly, relayOnly)
}

// TransformKind returns a slog.Attr for a transformation kind's symbolic name
func TransformKind(name string) slog.Attr {
	return slog.String(KeyTransformKind, name)
}

// KeySizeBits returns a slog.Attr for the negotiated key size
func KeySizeBits(bits int) slog.Attr {
	return slog.Int(KeyKeySizeBits, bits)
}

// KeyCount returns a slog.Attr for the number of records in a key material sequence
func KeyCount(n int) slog.Attr {
	return slog.Int(KeyKeyCount, n)
}

// WireType returns a slog.Attr naming the wire structure being encoded/decoded
func WireType(t string) slog.Attr {
	return slog.String(KeyWireType, t)
}

// ByteLength returns a slog.Attr for an encoded/decoded buffer length
func ByteLength(n int) slog.Attr {
	return slog.Int(KeyByteLength, n)
}

// Offset returns a slog.Attr for the byte offset of a decode error
func Offset(n int) slog.Attr {
	return slog.Int(KeyOffset, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a symbolic error code
func ErrorCode(code string) slog.Attr {
	return slog.String(KeyErrorCode, code)
}

// HandleHex returns a slog.Attr for a byte blob formatted as hex (wire dumps).
func HandleHex(label string, b []byte) slog.Attr {
	return slog.String(label, fmt.Sprintf("%x", b))
}
