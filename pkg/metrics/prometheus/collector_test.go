package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCollectorNilRegistryReturnsNil(t *testing.T) {
	c := NewCollector(nil)
	if c != nil {
		t.Fatalf("NewCollector(nil) = %v, want nil", c)
	}
}

func TestNilCollectorMethodsDoNotPanic(t *testing.T) {
	var c *collector
	c.RecordRegistration("participant", "NONE")
	c.RecordUnregistration("participant")
	c.RecordRejection("datawriter", "VolatileEndpointRejected")
	c.ObserveOperationDuration("register_local_participant", time.Millisecond)
	c.RecordActiveHandles("encode_key_materials", 3)
}

func TestCollectorRecordsAgainstRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	if c == nil {
		t.Fatal("NewCollector(reg) returned nil for a non-nil registry")
	}

	c.RecordRegistration("participant", "NONE")
	c.RecordUnregistration("datawriter")
	c.RecordRejection("datawriter", "VolatileEndpointRejected")
	c.ObserveOperationDuration("register_local_participant", 2*time.Millisecond)
	c.RecordActiveHandles("encode_key_materials", 5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatalf("expected at least one metric family to be registered")
	}
}
