package crypto

import (
	"context"
	"testing"

	"github.com/secdds/ddscrypto/internal/secerr"
)

func TestRegisterLocalParticipantPlainRoundTrip(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	h, err := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{
		IsRTPSProtected:        false,
		PluginParticipantAttrs: PluginParticipantIsValid,
	})
	if err != nil {
		t.Fatalf("RegisterLocalParticipant: %v", err)
	}
	if h != 1 {
		t.Fatalf("handle = %d, want 1", h)
	}

	r.mu.RLock()
	seq := r.encodeKeyMaterials[h]
	r.mu.RUnlock()
	if len(seq) != 1 {
		t.Fatalf("got %d key material records, want 1", len(seq))
	}
	rec := seq[0]
	if rec.TransformationKind != TransformNone {
		t.Errorf("kind = %s, want NONE", rec.TransformationKind)
	}
	if rec.SenderKeyID != 1 {
		t.Errorf("sender_key_id = %d, want 1", rec.SenderKeyID)
	}
	if len(rec.MasterSenderKey) != 0 {
		t.Errorf("expected empty master_sender_key for NONE, got %d bytes", len(rec.MasterSenderKey))
	}
}

func TestRegisterLocalDataWriterSameKindReusesSingleRecord(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	p, err := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{})
	if err != nil {
		t.Fatalf("RegisterLocalParticipant: %v", err)
	}

	h, err := r.RegisterLocalDataWriter(ctx, p, []Property{{Name: PropertyCryptoKeySize, Value: "128"}}, EndpointSecurityAttributes{
		IsSubmessageProtected: true,
		IsPayloadProtected:    true,
	})
	if err != nil {
		t.Fatalf("RegisterLocalDataWriter: %v", err)
	}

	r.mu.RLock()
	seq := r.encodeKeyMaterials[h]
	r.mu.RUnlock()
	if len(seq) != 1 {
		t.Fatalf("got %d records, want 1 (submessage and payload kinds are both AES128-GMAC)", len(seq))
	}
	if seq[0].TransformationKind != TransformAES128GMAC {
		t.Errorf("kind = %s, want AES128-GMAC", seq[0].TransformationKind)
	}
}

func TestRegisterLocalDataWriter256Mixed(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	p, err := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{})
	if err != nil {
		t.Fatalf("RegisterLocalParticipant: %v", err)
	}

	h, err := r.RegisterLocalDataWriter(ctx, p, nil, EndpointSecurityAttributes{
		IsSubmessageProtected: true,
		IsPayloadProtected:    true,
		PluginEndpointAttrs:   PluginEndpointIsPayloadEncrypted,
	})
	if err != nil {
		t.Fatalf("RegisterLocalDataWriter: %v", err)
	}

	r.mu.RLock()
	seq := r.encodeKeyMaterials[h]
	r.mu.RUnlock()
	if len(seq) != 2 {
		t.Fatalf("got %d records, want 2", len(seq))
	}
	if seq[0].TransformationKind != TransformAES256GMAC {
		t.Errorf("submessage kind = %s, want AES256-GMAC", seq[0].TransformationKind)
	}
	if seq[1].TransformationKind != TransformAES256GCM {
		t.Errorf("payload kind = %s, want AES256-GCM", seq[1].TransformationKind)
	}
	if seq[0].SenderKeyID == seq[1].SenderKeyID {
		t.Errorf("expected distinct sender_key_id for submessage/payload records, both = %d", seq[0].SenderKeyID)
	}
}

func TestRegisterLocalDataWriterRejectsVolatileEndpoint(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	p, _ := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{})

	_, err := r.RegisterLocalDataWriter(ctx, p, []Property{
		{Name: PropertyBuiltinEndpointName, Value: VolatileMessageSecureWriterName},
	}, EndpointSecurityAttributes{})
	if !secerr.IsCode(err, secerr.VolatileEndpointRejected) {
		t.Fatalf("expected VolatileEndpointRejected, got %v", err)
	}
}

func TestMatchedRemoteDataReaderIdempotent(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	p1, _ := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{})
	w, err := r.RegisterLocalDataWriter(ctx, p1, nil, EndpointSecurityAttributes{})
	if err != nil {
		t.Fatalf("RegisterLocalDataWriter: %v", err)
	}
	r1, err := r.RegisterMatchedRemoteParticipant(ctx, p1, 2, 2, 0)
	if err != nil {
		t.Fatalf("RegisterMatchedRemoteParticipant: %v", err)
	}

	first, err := r.RegisterMatchedRemoteDataReader(ctx, w, r1, 0, false)
	if err != nil {
		t.Fatalf("RegisterMatchedRemoteDataReader (first): %v", err)
	}
	second, err := r.RegisterMatchedRemoteDataReader(ctx, w, r1, 0, false)
	if err != nil {
		t.Fatalf("RegisterMatchedRemoteDataReader (second): %v", err)
	}
	if first != second {
		t.Fatalf("idempotence violated: first=%d, second=%d", first, second)
	}

	r.mu.RLock()
	set := r.participantToEndpointInfo[r1]
	r.mu.RUnlock()
	count := 0
	for info := range set {
		if info.Handle == first && info.Kind == EndpointKindDataReader {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one matching EndpointInfo, got %d", count)
	}
}

func TestUnregisterDataWriterCascadesToMatchedRemote(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	p1, _ := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{})
	w, _ := r.RegisterLocalDataWriter(ctx, p1, nil, EndpointSecurityAttributes{})
	r1, _ := r.RegisterMatchedRemoteParticipant(ctx, p1, 2, 2, 0)
	remoteReader, err := r.RegisterMatchedRemoteDataReader(ctx, w, r1, 0, false)
	if err != nil {
		t.Fatalf("RegisterMatchedRemoteDataReader: %v", err)
	}

	r.UnregisterDataWriter(ctx, w)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.encodeKeyMaterials[w]; ok {
		t.Error("expected local writer's key materials to be removed")
	}
	if _, ok := r.encodeKeyMaterials[remoteReader]; ok {
		t.Error("expected cascaded remote reader's key materials to be removed")
	}
	if _, ok := r.matchedRemoteEndpoint[w]; ok {
		t.Error("expected matched_remote_endpoint[w] to be removed")
	}
	if _, ok := r.matchedLocalEndpoint[remoteReader]; ok {
		t.Error("expected matched_local_endpoint[remoteReader] to be removed")
	}
}

func TestUnregisterUnknownHandleIsIdempotent(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	r.UnregisterDataWriter(ctx, 999)
	r.UnregisterParticipant(ctx, 999)
}

func TestHandlesAreMonotonicAndNeverZero(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	p1, _ := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{})
	p2, _ := r.RegisterLocalParticipant(ctx, 1, 1, nil, ParticipantSecurityAttributes{})
	if p1 == 0 || p2 == 0 {
		t.Fatal("handle 0 is reserved and must never be issued")
	}
	if p2 <= p1 {
		t.Fatalf("handles must be strictly increasing: p1=%d, p2=%d", p1, p2)
	}
}
