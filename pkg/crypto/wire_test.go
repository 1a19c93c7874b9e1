package crypto

import (
	"bytes"
	"testing"
)

func TestCryptoHeaderRoundTrip(t *testing.T) {
	h := CryptoHeader{
		TransformIdentifier: CryptoTransformIdentifier{
			TransformationKind:  TransformAES256GCM,
			TransformationKeyID: 42,
		},
		SessionID:                  [4]byte{1, 2, 3, 4},
		InitializationVectorSuffix: [8]byte{5, 6, 7, 8, 9, 10, 11, 12},
	}

	var buf bytes.Buffer
	if err := h.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() != 20 {
		t.Fatalf("encoded length = %d, want 20", buf.Len())
	}

	got, err := DecodeCryptoHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeCryptoHeader: %v", err)
	}
	if got != h {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestDecodeCryptoHeaderExtraRejectsWrongLength(t *testing.T) {
	_, _, err := DecodeCryptoHeaderExtra(make([]byte, 11))
	if err == nil {
		t.Fatal("expected error for 11-byte extra")
	}
}

func TestDecodeCryptoHeaderExtraSplitsSessionAndIV(t *testing.T) {
	extra := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	sid, iv, err := DecodeCryptoHeaderExtra(extra)
	if err != nil {
		t.Fatalf("DecodeCryptoHeaderExtra: %v", err)
	}
	if sid != [4]byte{1, 2, 3, 4} {
		t.Errorf("session id = %v, want [1 2 3 4]", sid)
	}
	if iv != [8]byte{5, 6, 7, 8, 9, 10, 11, 12} {
		t.Errorf("iv suffix = %v, want [5 6 7 8 9 10 11 12]", iv)
	}
}

func TestCryptoFooterRoundTripEmptyMACs(t *testing.T) {
	f := CryptoFooter{CommonMAC: [16]byte{1, 2, 3}}

	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeCryptoFooter(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeCryptoFooter: %v", err)
	}
	if got.CommonMAC != f.CommonMAC || len(got.ReceiverSpecificMACs) != 0 {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
}

func TestCryptoFooterRoundTripWithReceiverSpecificMACs(t *testing.T) {
	f := CryptoFooter{
		CommonMAC: [16]byte{9, 9, 9},
		ReceiverSpecificMACs: []ReceiverSpecificMAC{
			{ReceiverMACKeyID: 1, ReceiverMAC: [16]byte{1}},
			{ReceiverMACKeyID: 2, ReceiverMAC: [16]byte{2}},
		},
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeCryptoFooter(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeCryptoFooter: %v", err)
	}
	if len(got.ReceiverSpecificMACs) != 2 {
		t.Fatalf("got %d receiver specific macs, want 2", len(got.ReceiverSpecificMACs))
	}
	if got.ReceiverSpecificMACs[0].ReceiverMACKeyID != 1 || got.ReceiverSpecificMACs[1].ReceiverMACKeyID != 2 {
		t.Errorf("receiver specific mac key ids mismatch: %+v", got.ReceiverSpecificMACs)
	}
}

func TestDecodeCryptoTransformIdentifierRejectsUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	_ = buf.WriteByte(0)
	_ = buf.WriteByte(0)
	_ = buf.WriteByte(0)
	_ = buf.WriteByte(99)
	_ = buf.WriteByte(0)
	_ = buf.WriteByte(0)
	_ = buf.WriteByte(0)
	_ = buf.WriteByte(0)

	_, err := DecodeCryptoTransformIdentifier(bytes.NewReader(buf.Bytes()))
	if err == nil {
		t.Fatal("expected error for unknown transformation kind")
	}
}
