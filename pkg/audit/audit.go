// Package audit records a durable, queryable trail of Key Factory
// registration/unregistration events. It is observability only: the
// registry's own correctness never depends on a successful Append, and
// a nil Log disables the feature with zero overhead.
package audit

import (
	"context"
	"time"
)

// Event is one recorded Key Factory mutation.
type Event struct {
	Timestamp  time.Time `gorm:"index"`
	Operation  string    `gorm:"index"` // e.g. register_local_participant
	EntityKind string    // participant, datawriter, datareader
	Handle     uint32
	Outcome    string `gorm:"index"` // "ok" or a symbolic CryptoError code

	// RelayOnly records the caller-supplied relay_only argument for
	// register_matched_remote_datareader; zero value (false) for every
	// other operation, which never takes this argument.
	RelayOnly bool
}

// Log is the audit trail interface the registry accepts.
// Implementations must be safe for concurrent use.
type Log interface {
	// Append records a single event. A failure here is logged by the
	// caller but never surfaced as a Key Factory operation error.
	Append(ctx context.Context, event Event) error

	// Recent returns the most recent events, newest first, bounded by
	// limit.
	Recent(ctx context.Context, limit int) ([]Event, error)
}
