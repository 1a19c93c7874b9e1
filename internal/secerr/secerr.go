// Package secerr provides the error taxonomy shared by the crypto key
// factory, the builtin wire codecs, and the RTPS DATA submessage decoder.
// This is a leaf package with no internal dependencies, designed to be
// imported by every package under pkg/crypto and pkg/rtps without causing
// circular imports.
//
// Import graph: secerr <- pkg/crypto and secerr <- pkg/rtps/submessage;
// the two importers do not import each other. pkg/rtps/submessage's DATA
// decoder is the only user of MalformedSubmessage and its Offset field.
package secerr

import "fmt"

// Code represents the kind of error a crypto core operation failed with.
type Code int

const (
	// BadToken indicates a crypto token failed closed-world validation
	// (wrong class id, non-empty properties, wrong binary property count
	// or name).
	BadToken Code = iota + 1

	// InvalidTransformationKind indicates an unrecognized 4-octet
	// transformation kind tag was encountered on decode.
	InvalidTransformationKind

	// UnknownHandle indicates an operation referenced a handle the
	// registry has no record of.
	UnknownHandle

	// MissingAttributes indicates an operation required previously
	// recorded security attributes that were never registered.
	MissingAttributes

	// VolatileEndpointRejected indicates registration was attempted for
	// a reserved participant-volatile-message-secure endpoint.
	VolatileEndpointRejected

	// SerializationFailure indicates a CDR encode/decode operation
	// failed for a reason other than an invalid transformation kind.
	SerializationFailure

	// MalformedSubmessage indicates the RTPS DATA submessage decoder
	// encountered a structurally invalid buffer.
	MalformedSubmessage
)

// String returns a human-readable name for the error code.
func (c Code) String() string {
	switch c {
	case BadToken:
		return "BadToken"
	case InvalidTransformationKind:
		return "InvalidTransformationKind"
	case UnknownHandle:
		return "UnknownHandle"
	case MissingAttributes:
		return "MissingAttributes"
	case VolatileEndpointRejected:
		return "VolatileEndpointRejected"
	case SerializationFailure:
		return "SerializationFailure"
	case MalformedSubmessage:
		return "MalformedSubmessage"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// CryptoError is the error type returned by every exported crypto core
// operation. Field carries the name of the offending field or argument;
// Want/Got, when non-empty, name the expected and observed form.
type CryptoError struct {
	Code   Code
	Field  string
	Want   string
	Got    string
	Offset int // valid only when Code == MalformedSubmessage
	cause  error
}

// Error implements the error interface.
func (e *CryptoError) Error() string {
	msg := e.Code.String()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Want != "" || e.Got != "" {
		msg = fmt.Sprintf("%s (want %q, got %q)", msg, e.Want, e.Got)
	}
	if e.Code == MalformedSubmessage && e.Offset != 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *CryptoError) Unwrap() error {
	return e.cause
}

// ============================================================================
// Factory functions
// ============================================================================

// NewBadTokenError reports a crypto token that failed closed-world
// validation, naming the field that diverged and its expected/observed
// values.
func NewBadTokenError(field, want, got string) *CryptoError {
	return &CryptoError{Code: BadToken, Field: field, Want: want, Got: got}
}

// NewInvalidTransformationKindError reports an unrecognized wire tag.
func NewInvalidTransformationKindError(got uint32) *CryptoError {
	return &CryptoError{
		Code:  InvalidTransformationKind,
		Field: "transformation_kind",
		Want:  "0..4",
		Got:   fmt.Sprintf("%d", got),
	}
}

// NewUnknownHandleError reports an operation against an unregistered handle.
func NewUnknownHandleError(table string, handle uint32) *CryptoError {
	return &CryptoError{
		Code:  UnknownHandle,
		Field: table,
		Got:   fmt.Sprintf("%d", handle),
	}
}

// NewMissingAttributesError reports an operation that needed previously
// recorded security attributes that were never registered.
func NewMissingAttributesError(handleKind string, handle uint32) *CryptoError {
	return &CryptoError{
		Code:  MissingAttributes,
		Field: handleKind,
		Got:   fmt.Sprintf("%d", handle),
	}
}

// NewVolatileEndpointRejectedError reports a registration attempt for a
// reserved participant-volatile-message-secure endpoint.
func NewVolatileEndpointRejectedError(endpointName string) *CryptoError {
	return &CryptoError{
		Code:  VolatileEndpointRejected,
		Field: "dds.sec.builtin_endpoint_name",
		Got:   endpointName,
	}
}

// NewSerializationFailureError wraps an underlying codec failure.
func NewSerializationFailureError(field string, cause error) *CryptoError {
	return &CryptoError{Code: SerializationFailure, Field: field, cause: cause}
}

// NewMalformedSubmessageError reports a structurally invalid RTPS DATA
// submessage buffer at the given byte offset.
func NewMalformedSubmessageError(field string, offset int, cause error) *CryptoError {
	return &CryptoError{Code: MalformedSubmessage, Field: field, Offset: offset, cause: cause}
}

// ============================================================================
// Error type-checking helpers
// ============================================================================

// IsCode returns true if err is a *CryptoError with the given code.
func IsCode(err error, code Code) bool {
	ce, ok := err.(*CryptoError)
	return ok && ce.Code == code
}
