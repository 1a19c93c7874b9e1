package secerr

import (
	"errors"
	"strings"
	"testing"
)

func TestCodeString(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{BadToken, "BadToken"},
		{InvalidTransformationKind, "InvalidTransformationKind"},
		{UnknownHandle, "UnknownHandle"},
		{MissingAttributes, "MissingAttributes"},
		{VolatileEndpointRejected, "VolatileEndpointRejected"},
		{SerializationFailure, "SerializationFailure"},
		{MalformedSubmessage, "MalformedSubmessage"},
		{Code(99), "Unknown(99)"},
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Errorf("Code(%d).String() = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestNewBadTokenError(t *testing.T) {
	err := NewBadTokenError("class_id", "DDS:Crypto:AES_GCM_GMAC", "DDS:Crypto:OTHER")
	if err.Code != BadToken {
		t.Fatalf("Code = %v, want BadToken", err.Code)
	}
	msg := err.Error()
	if !strings.Contains(msg, "class_id") || !strings.Contains(msg, "DDS:Crypto:AES_GCM_GMAC") {
		t.Errorf("Error() = %q, missing expected fields", msg)
	}
}

func TestNewInvalidTransformationKindError(t *testing.T) {
	err := NewInvalidTransformationKindError(7)
	if err.Code != InvalidTransformationKind {
		t.Fatalf("Code = %v, want InvalidTransformationKind", err.Code)
	}
	if !strings.Contains(err.Error(), "7") {
		t.Errorf("Error() = %q, expected to contain observed value", err.Error())
	}
}

func TestNewMalformedSubmessageError_Offset(t *testing.T) {
	cause := errors.New("short buffer")
	err := NewMalformedSubmessageError("octetsToInlineQos", 2, cause)
	if err.Offset != 2 {
		t.Errorf("Offset = %d, want 2", err.Offset)
	}
	if !strings.Contains(err.Error(), "offset 2") {
		t.Errorf("Error() = %q, expected offset mention", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected Unwrap to expose cause via errors.Is")
	}
}

func TestIsCode(t *testing.T) {
	err := NewUnknownHandleError("encode_key_materials", 42)
	if !IsCode(err, UnknownHandle) {
		t.Errorf("IsCode(err, UnknownHandle) = false, want true")
	}
	if IsCode(err, BadToken) {
		t.Errorf("IsCode(err, BadToken) = true, want false")
	}
	if IsCode(errors.New("plain"), UnknownHandle) {
		t.Errorf("IsCode on non-CryptoError should be false")
	}
}

func TestCryptoErrorUnwrapNilCause(t *testing.T) {
	err := NewBadTokenError("field", "a", "b")
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
}
