package crypto

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/secdds/ddscrypto/internal/logger"
	"github.com/secdds/ddscrypto/internal/secerr"
)

// IdentityHandle, PermissionsHandle, and SharedSecretHandle are opaque
// 32-bit handles issued by the sibling authentication/access-control
// plugins. The Key Factory accepts them but does not interpret them;
// shared_secret in particular is a dormant seam for a future
// HKDF-derived key path (spec.md §9, "Key-derivation from shared secret").
type (
	IdentityHandle     uint32
	PermissionsHandle  uint32
	SharedSecretHandle uint32
)

// generateKey returns n cryptographically random bytes, or nil for n == 0.
// This is the mock-quality placeholder the specification permits: length
// correctness is required, KDF-grade derivation from a shared secret is
// the documented open extension point.
func generateKey(n int) []byte {
	if n == 0 {
		return nil
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return b
}

// generateKeyMaterial builds a fresh single key material record of kind,
// owned by senderKeyID, with an empty master_salt (spec.md §9's open
// extension point).
func generateKeyMaterial(senderKeyID Handle, kind TransformationKind) KeyMaterialRecord {
	return KeyMaterialRecord{
		TransformationKind: kind,
		SenderKeyID:        senderKeyID,
		MasterSenderKey:    generateKey(kind.KeyLength()),
	}
}

func isVolatile(properties []Property) bool {
	v, ok := Lookup(properties, PropertyBuiltinEndpointName)
	return ok && IsVolatileEndpointName(v)
}

// RegisterLocalParticipant implements register_local_participant:
// allocates a handle, derives its transformation kind from attrs and
// properties, and records a single-element encode key material
// sequence plus the participant's security attributes.
func (r *Registry) RegisterLocalParticipant(ctx context.Context, identity IdentityHandle, permissions PermissionsHandle, properties []Property, attrs ParticipantSecurityAttributes) (Handle, error) {
	const op = "register_local_participant"
	start := time.Now()
	logger.Debug(op, logger.Operation(op))

	r.mu.Lock()
	kind := ResolveTransformationKind(attrs.IsRTPSProtected, attrs.IsRTPSEncrypted(), UseBit256Key(properties))
	h := r.allocateHandle()
	r.encodeKeyMaterials[h] = KeyMaterialSequence{generateKeyMaterial(h, kind)}
	r.participantEncryptOptions[h] = attrs
	r.mu.Unlock()

	r.recordRegistration(ctx, op, "participant", kind, h, start, false)
	return h, nil
}

// RegisterMatchedRemoteParticipant implements register_matched_remote_participant:
// clones the local participant's encode key material, derives a
// receiver-specific key bound to a freshly allocated remote handle when
// origin authentication is enabled, and stores the result under the
// remote handle.
func (r *Registry) RegisterMatchedRemoteParticipant(ctx context.Context, local Handle, remoteIdentity IdentityHandle, remotePermissions PermissionsHandle, sharedSecret SharedSecretHandle) (Handle, error) {
	const op = "register_matched_remote_participant"
	start := time.Now()
	logger.Debug(op, logger.Operation(op), logger.HandleName("local_handle", uint32(local)))

	r.mu.Lock()
	localSeq, ok := r.encodeKeyMaterials[local]
	if !ok {
		r.mu.Unlock()
		err := secerr.NewUnknownHandleError("encode_key_materials", uint32(local))
		r.recordRejection(ctx, op, "participant", err, false)
		return 0, err
	}
	localAttrs, ok := r.participantEncryptOptions[local]
	if !ok {
		r.mu.Unlock()
		err := secerr.NewMissingAttributesError("participant_encrypt_options", uint32(local))
		r.recordRejection(ctx, op, "participant", err, false)
		return 0, err
	}

	hRemote := r.allocateHandle()
	seq := localSeq.WithReceiverSpecificKey(hRemote, localAttrs.IsRTPSOriginAuthenticated(), generateKey)
	r.encodeKeyMaterials[hRemote] = seq
	r.mu.Unlock()

	kind := TransformNone
	if len(seq) > 0 {
		kind = seq[0].TransformationKind
	}
	r.recordRegistration(ctx, op, "participant", kind, hRemote, start, false)
	return hRemote, nil
}

// RegisterLocalDataWriter implements register_local_datawriter.
func (r *Registry) RegisterLocalDataWriter(ctx context.Context, participant Handle, properties []Property, attrs EndpointSecurityAttributes) (Handle, error) {
	return r.registerLocalEndpoint(ctx, "register_local_datawriter", "datawriter", EndpointKindDataWriter, participant, properties, attrs)
}

// RegisterLocalDataReader implements register_local_datareader.
func (r *Registry) RegisterLocalDataReader(ctx context.Context, participant Handle, properties []Property, attrs EndpointSecurityAttributes) (Handle, error) {
	return r.registerLocalEndpoint(ctx, "register_local_datareader", "datareader", EndpointKindDataReader, participant, properties, attrs)
}

func (r *Registry) registerLocalEndpoint(ctx context.Context, op, entityKind string, kind EndpointKind, participant Handle, properties []Property, attrs EndpointSecurityAttributes) (Handle, error) {
	logger.Debug(op, logger.Operation(op), logger.HandleName("participant_handle", uint32(participant)))

	if isVolatile(properties) {
		endpointName, _ := Lookup(properties, PropertyBuiltinEndpointName)
		err := secerr.NewVolatileEndpointRejectedError(endpointName)
		r.recordRejection(ctx, op, entityKind, err, false)
		return 0, err
	}

	start := time.Now()
	use256 := UseBit256Key(properties)

	r.mu.Lock()
	h := r.allocateHandle()

	var seq KeyMaterialSequence
	var transformKind TransformationKind
	submessageKind := ResolveTransformationKind(attrs.IsSubmessageProtected, attrs.IsSubmessageEncrypted(), use256)
	transformKind = submessageKind
	if kind == EndpointKindDataWriter {
		payloadKind := ResolveTransformationKind(attrs.IsPayloadProtected, attrs.IsPayloadEncrypted(), use256)
		submessageRecord := generateKeyMaterial(h, submessageKind)
		if submessageKind == payloadKind {
			seq = KeyMaterialSequence{submessageRecord}
		} else {
			payloadKeyID := r.allocateHandle()
			seq = KeyMaterialSequence{submessageRecord, generateKeyMaterial(payloadKeyID, payloadKind)}
		}
	} else {
		seq = KeyMaterialSequence{generateKeyMaterial(h, submessageKind)}
	}

	r.encodeKeyMaterials[h] = seq
	r.endpointEncryptOptions[h] = attrs
	r.endpointToParticipant[h] = participant
	r.addEndpointInfoLocked(participant, EndpointInfo{Handle: h, Kind: kind})
	r.mu.Unlock()

	r.recordRegistration(ctx, op, entityKind, transformKind, h, start, false)
	return h, nil
}

// addEndpointInfoLocked adds info to participant's endpoint set. Callers
// must hold r.mu for writing.
func (r *Registry) addEndpointInfoLocked(participant Handle, info EndpointInfo) {
	set, ok := r.participantToEndpointInfo[participant]
	if !ok {
		set = make(map[EndpointInfo]struct{})
		r.participantToEndpointInfo[participant] = set
	}
	set[info] = struct{}{}
}

// getOrGenerateMatchedRemoteEndpoint returns the remote endpoint handle
// already associated with (local, remoteParticipant), or allocates and
// records a fresh one. Callers must hold r.mu for writing.
func (r *Registry) getOrGenerateMatchedRemoteEndpoint(local, remoteParticipant Handle) Handle {
	if byRemoteParticipant, ok := r.matchedRemoteEndpoint[local]; ok {
		if hRemote, ok := byRemoteParticipant[remoteParticipant]; ok {
			return hRemote
		}
	}

	hRemote := r.allocateHandle()
	r.endpointToParticipant[hRemote] = remoteParticipant
	r.matchedLocalEndpoint[hRemote] = local
	if r.matchedRemoteEndpoint[local] == nil {
		r.matchedRemoteEndpoint[local] = make(map[Handle]Handle)
	}
	r.matchedRemoteEndpoint[local][remoteParticipant] = hRemote
	return hRemote
}

// RegisterMatchedRemoteDataReader implements register_matched_remote_datareader.
// relay_only does not alter key factory state; it is recorded for audit
// only (spec.md §4.F), via the logger.Debug call and the RelayOnly field
// on the resulting audit.Event.
func (r *Registry) RegisterMatchedRemoteDataReader(ctx context.Context, localWriter, remoteParticipant Handle, sharedSecret SharedSecretHandle, relayOnly bool) (Handle, error) {
	return r.registerMatchedRemoteEndpoint(ctx, "register_matched_remote_datareader", "datareader", EndpointKindDataReader, localWriter, remoteParticipant, relayOnly)
}

// RegisterMatchedRemoteDataWriter implements register_matched_remote_datawriter.
func (r *Registry) RegisterMatchedRemoteDataWriter(ctx context.Context, localReader, remoteParticipant Handle, sharedSecret SharedSecretHandle) (Handle, error) {
	return r.registerMatchedRemoteEndpoint(ctx, "register_matched_remote_datawriter", "datawriter", EndpointKindDataWriter, localReader, remoteParticipant, false)
}

func (r *Registry) registerMatchedRemoteEndpoint(ctx context.Context, op, entityKind string, remoteKind EndpointKind, local, remoteParticipant Handle, relayOnly bool) (Handle, error) {
	start := time.Now()
	logger.Debug(op, logger.Operation(op), logger.HandleName("local_handle", uint32(local)), logger.HandleName("remote_participant_handle", uint32(remoteParticipant)), logger.RelayOnly(relayOnly))

	r.mu.Lock()
	localSeq, ok := r.encodeKeyMaterials[local]
	if !ok {
		r.mu.Unlock()
		err := secerr.NewUnknownHandleError("encode_key_materials", uint32(local))
		r.recordRejection(ctx, op, entityKind, err, relayOnly)
		return 0, err
	}
	localAttrs, ok := r.endpointEncryptOptions[local]
	if !ok {
		r.mu.Unlock()
		err := secerr.NewMissingAttributesError("endpoint_encrypt_options", uint32(local))
		r.recordRejection(ctx, op, entityKind, err, relayOnly)
		return 0, err
	}

	hRemote := r.getOrGenerateMatchedRemoteEndpoint(local, remoteParticipant)
	r.addEndpointInfoLocked(remoteParticipant, EndpointInfo{Handle: hRemote, Kind: remoteKind})
	r.endpointEncryptOptions[hRemote] = localAttrs

	seq := localSeq.WithReceiverSpecificKey(hRemote, localAttrs.IsSubmessageOriginAuthenticated(), generateKey)
	r.encodeKeyMaterials[hRemote] = seq
	r.mu.Unlock()

	kind := TransformNone
	if len(seq) > 0 {
		kind = seq[0].TransformationKind
	}
	r.recordRegistration(ctx, op, entityKind, kind, hRemote, start, relayOnly)
	return hRemote, nil
}

// UnregisterParticipant implements unregister_participant: best-effort
// and idempotent, cascading to every endpoint the participant owns or
// has matched.
func (r *Registry) UnregisterParticipant(ctx context.Context, h Handle) {
	const op = "unregister_participant"
	logger.Debug(op, logger.Operation(op), logger.Handle(uint32(h)))

	r.mu.Lock()
	delete(r.participantEncryptOptions, h)
	set, ok := r.participantToEndpointInfo[h]
	delete(r.participantToEndpointInfo, h)
	if ok {
		for info := range set {
			r.unregisterEndpointLocked(info)
		}
	}
	r.mu.Unlock()

	r.recordUnregistration(ctx, op, "participant", h)
}

// UnregisterDataWriter implements unregister_datawriter.
func (r *Registry) UnregisterDataWriter(ctx context.Context, h Handle) {
	r.unregisterEndpoint(ctx, "unregister_datawriter", "datawriter", EndpointInfo{Handle: h, Kind: EndpointKindDataWriter})
}

// UnregisterDataReader implements unregister_datareader.
func (r *Registry) UnregisterDataReader(ctx context.Context, h Handle) {
	r.unregisterEndpoint(ctx, "unregister_datareader", "datareader", EndpointInfo{Handle: h, Kind: EndpointKindDataReader})
}

func (r *Registry) unregisterEndpoint(ctx context.Context, op, entityKind string, info EndpointInfo) {
	logger.Debug(op, logger.Operation(op), logger.Handle(uint32(info.Handle)))

	r.mu.Lock()
	r.unregisterEndpointLocked(info)
	r.mu.Unlock()

	r.recordUnregistration(ctx, op, entityKind, info.Handle)
}

// unregisterEndpointLocked is the private endpoint unregistration
// routine shared by unregister_datawriter/datareader and the
// participant/local-endpoint cascade. Callers must hold r.mu.
func (r *Registry) unregisterEndpointLocked(info EndpointInfo) {
	h := info.Handle
	delete(r.encodeKeyMaterials, h)
	delete(r.decodeKeyMaterials, h)
	delete(r.endpointEncryptOptions, h)

	participant, hadParticipant := r.endpointToParticipant[h]
	if !hadParticipant {
		return
	}
	delete(r.endpointToParticipant, h)
	if set, ok := r.participantToEndpointInfo[participant]; ok {
		delete(set, info)
	}

	if local, ok := r.matchedLocalEndpoint[h]; ok {
		delete(r.matchedLocalEndpoint, h)
		if byRemoteParticipant, ok := r.matchedRemoteEndpoint[local]; ok {
			delete(byRemoteParticipant, participant)
		}
		return
	}

	if byRemoteParticipant, ok := r.matchedRemoteEndpoint[h]; ok {
		delete(r.matchedRemoteEndpoint, h)
		for _, remoteHandle := range byRemoteParticipant {
			r.unregisterEndpointLocked(EndpointInfo{Handle: remoteHandle, Kind: info.Kind.Opposite()})
		}
	}
}
