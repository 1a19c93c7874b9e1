package crypto

import (
	"context"
	"sync"
	"time"

	"github.com/secdds/ddscrypto/internal/logger"
	"github.com/secdds/ddscrypto/internal/secerr"
	"github.com/secdds/ddscrypto/pkg/audit"
	"github.com/secdds/ddscrypto/pkg/metrics"
)

// Registry holds all Key Factory state: the eight handle-keyed tables
// and the monotonic handle allocator, guarded by a single RWMutex.
//
// A single mutex protects every table to avoid deadlocks between the
// interdependent lookups a Key Factory operation performs (participant
// -> endpoint -> matched remote), mirroring the single-owner state
// manager this registry is descended from. Metrics and audit side
// effects are issued after the mutex is released (§5).
type Registry struct {
	mu sync.RWMutex

	// nextHandle is the monotonic allocator; incremented before return,
	// so the first issued handle is 1.
	nextHandle uint32

	encodeKeyMaterials        map[Handle]KeyMaterialSequence
	decodeKeyMaterials        map[Handle]KeyMaterialSequence
	participantEncryptOptions map[Handle]ParticipantSecurityAttributes
	endpointEncryptOptions    map[Handle]EndpointSecurityAttributes
	participantToEndpointInfo map[Handle]map[EndpointInfo]struct{}
	endpointToParticipant     map[Handle]Handle
	matchedRemoteEndpoint     map[Handle]map[Handle]Handle
	matchedLocalEndpoint      map[Handle]Handle

	metrics metrics.Collector
	audit   audit.Log
}

// RegistryOption configures optional collaborators on a new Registry.
type RegistryOption func(*Registry)

// WithMetrics attaches a metrics collector. A nil collector (or no
// option at all) disables metrics with zero overhead.
func WithMetrics(m metrics.Collector) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithAudit attaches an audit log. A nil log (or no option at all)
// disables the audit trail entirely; it is never load-bearing for
// registry correctness.
func WithAudit(a audit.Log) RegistryOption {
	return func(r *Registry) { r.audit = a }
}

// NewRegistry constructs an empty Registry with no allocated handles.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		encodeKeyMaterials:        make(map[Handle]KeyMaterialSequence),
		decodeKeyMaterials:        make(map[Handle]KeyMaterialSequence),
		participantEncryptOptions: make(map[Handle]ParticipantSecurityAttributes),
		endpointEncryptOptions:    make(map[Handle]EndpointSecurityAttributes),
		participantToEndpointInfo: make(map[Handle]map[EndpointInfo]struct{}),
		endpointToParticipant:     make(map[Handle]Handle),
		matchedRemoteEndpoint:     make(map[Handle]map[Handle]Handle),
		matchedLocalEndpoint:      make(map[Handle]Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// allocateHandle returns a fresh, never-zero handle. Callers must hold
// r.mu for writing.
func (r *Registry) allocateHandle() Handle {
	r.nextHandle++
	return Handle(r.nextHandle)
}

// recordRegistration emits the metrics/audit side channel for a
// successful registration. Must be called with r.mu released. relayOnly
// is the relay_only argument for register_matched_remote_datareader;
// every other caller passes false.
func (r *Registry) recordRegistration(ctx context.Context, operation, entityKind string, kind TransformationKind, handle Handle, start time.Time, relayOnly bool) {
	if r.metrics != nil {
		r.metrics.RecordRegistration(entityKind, kind.String())
		r.metrics.ObserveOperationDuration(operation, time.Since(start))
	}
	if r.audit != nil {
		if err := r.audit.Append(ctx, audit.Event{
			Operation:  operation,
			EntityKind: entityKind,
			Handle:     uint32(handle),
			Outcome:    "ok",
			RelayOnly:  relayOnly,
		}); err != nil {
			logger.Warn("audit append failed", logger.Operation(operation), logger.Err(err))
		}
	}
	logger.Info(operation+" succeeded", logger.Operation(operation), logger.Handle(uint32(handle)), logger.TransformKind(kind.String()))
}

// recordUnregistration emits the metrics/audit side channel for an
// unregistration. Must be called with r.mu released.
func (r *Registry) recordUnregistration(ctx context.Context, operation, entityKind string, handle Handle) {
	if r.metrics != nil {
		r.metrics.RecordUnregistration(entityKind)
	}
	if r.audit != nil {
		if err := r.audit.Append(ctx, audit.Event{
			Operation:  operation,
			EntityKind: entityKind,
			Handle:     uint32(handle),
			Outcome:    "ok",
		}); err != nil {
			logger.Warn("audit append failed", logger.Operation(operation), logger.Err(err))
		}
	}
	logger.Info(operation+" succeeded", logger.Operation(operation), logger.Handle(uint32(handle)))
}

// recordRejection emits the metrics/audit side channel for a rejected
// operation. Must be called with r.mu released. relayOnly is the
// relay_only argument for register_matched_remote_datareader; every
// other caller passes false.
func (r *Registry) recordRejection(ctx context.Context, operation, entityKind string, err error, relayOnly bool) {
	code := "unknown"
	if ce, ok := err.(*secerr.CryptoError); ok {
		code = ce.Code.String()
	}
	if r.metrics != nil {
		r.metrics.RecordRejection(entityKind, code)
	}
	if r.audit != nil {
		if appendErr := r.audit.Append(ctx, audit.Event{
			Operation:  operation,
			EntityKind: entityKind,
			Outcome:    code,
			RelayOnly:  relayOnly,
		}); appendErr != nil {
			logger.Warn("audit append failed", logger.Operation(operation), logger.Err(appendErr))
		}
	}
	logger.Warn(operation+" rejected", logger.Operation(operation), logger.ErrorCode(code), logger.Err(err))
}

// EncodeKeyMaterials returns the encode-side key material sequence
// registered for h, for callers (the CLI, diagnostics) that need to
// inspect what a registration produced.
func (r *Registry) EncodeKeyMaterials(h Handle) (KeyMaterialSequence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seq, ok := r.encodeKeyMaterials[h]
	return seq, ok
}

// tableSizesLocked reports the current size of each table, for
// RecordActiveHandles. Callers must hold r.mu.
func (r *Registry) tableSizesLocked() map[string]int {
	return map[string]int{
		"encode_key_materials":         len(r.encodeKeyMaterials),
		"decode_key_materials":         len(r.decodeKeyMaterials),
		"participant_encrypt_options":  len(r.participantEncryptOptions),
		"endpoint_encrypt_options":     len(r.endpointEncryptOptions),
		"participant_to_endpoint_info": len(r.participantToEndpointInfo),
		"endpoint_to_participant":      len(r.endpointToParticipant),
		"matched_remote_endpoint":      len(r.matchedRemoteEndpoint),
		"matched_local_endpoint":       len(r.matchedLocalEndpoint),
	}
}

func (r *Registry) reportActiveHandles() {
	if r.metrics == nil {
		return
	}
	r.mu.RLock()
	sizes := r.tableSizesLocked()
	r.mu.RUnlock()
	for table, n := range sizes {
		r.metrics.RecordActiveHandles(table, n)
	}
}
