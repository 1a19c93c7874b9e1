package audit

import (
	"context"
	"testing"
)

func TestAppendAndRecent(t *testing.T) {
	log, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx := context.Background()
	events := []Event{
		{Operation: "register_local_participant", EntityKind: "participant", Handle: 1, Outcome: "ok"},
		{Operation: "register_local_datawriter", EntityKind: "datawriter", Handle: 2, Outcome: "ok"},
		{Operation: "register_local_datawriter", EntityKind: "datawriter", Handle: 0, Outcome: "VolatileEndpointRejected"},
	}
	for _, e := range events {
		if err := log.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	recent, err := log.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d events, want 2", len(recent))
	}
	if recent[0].Outcome != "VolatileEndpointRejected" {
		t.Errorf("newest event outcome = %q, want VolatileEndpointRejected", recent[0].Outcome)
	}
	if recent[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be stamped on append")
	}
}
