package cdr

import (
	"bytes"
	"testing"
)

func TestWriteReadUint32RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUint32(&buf, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteUint32: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	got, err := ReadUint32(r)
	if err != nil {
		t.Fatalf("ReadUint32: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %#x, want %#x", got, uint32(0xDEADBEEF))
	}
}

func TestWriteOctets_NoPadding(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOctets(&buf, []byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("WriteOctets: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x03, 0x01, 0x02, 0x03}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestReadOctetsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	original := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}
	if err := WriteOctets(&buf, original); err != nil {
		t.Fatalf("WriteOctets: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	got, err := ReadOctets(r)
	if err != nil {
		t.Fatalf("ReadOctets: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("got % x, want % x", got, original)
	}
}

func TestReadOctetsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOctets(&buf, nil); err != nil {
		t.Fatalf("WriteOctets: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	got, err := ReadOctets(r)
	if err != nil {
		t.Fatalf("ReadOctets: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d bytes, want 0", len(got))
	}
}

func TestWriteReadBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		if err := WriteBool(&buf, v); err != nil {
			t.Fatalf("WriteBool: %v", err)
		}
		got, err := ReadBool(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadBool: %v", err)
		}
		if got != v {
			t.Errorf("got %v, want %v", got, v)
		}
	}
}

func TestReadFixedOctets(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r := bytes.NewReader(data)
	got, err := ReadFixedOctets(r, 8)
	if err != nil {
		t.Fatalf("ReadFixedOctets: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("got % x, want % x", got, data)
	}
}

func TestReadOctetsRejectsOversizeLength(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteUint32(&buf, maxOpaqueLength+1)
	r := bytes.NewReader(buf.Bytes())
	if _, err := ReadOctets(r); err == nil {
		t.Errorf("expected error for oversize length")
	}
}
