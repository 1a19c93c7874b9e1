// Package metrics defines a nil-safe observability interface for the
// crypto key factory. Pass a nil Collector to disable metrics collection
// with zero overhead; every call site on the interface is written to
// tolerate a nil receiver.
package metrics

import "time"

// Collector observes Key Factory operations. Implementations must treat
// a nil receiver as a no-op (see pkg/metrics/prometheus for the
// concrete implementation used in production).
type Collector interface {
	// RecordRegistration records a successful registration for the
	// given entity kind ("participant", "datawriter", "datareader")
	// and the transformation kind its key material was issued with.
	RecordRegistration(entityKind, transformKind string)

	// RecordUnregistration records a successful unregistration for the
	// given entity kind.
	RecordUnregistration(entityKind string)

	// RecordRejection records an operation that returned an error,
	// labeled by entity kind and the symbolic error code.
	RecordRejection(entityKind, errorCode string)

	// ObserveOperationDuration records how long a Key Factory operation
	// took to execute.
	ObserveOperationDuration(operation string, d time.Duration)

	// RecordActiveHandles records the current size of a registry table,
	// identified by its name (e.g. "encode_key_materials").
	RecordActiveHandles(table string, n int)
}
