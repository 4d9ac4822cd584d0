package events

import (
	"context"
	"testing"
)

func TestRecordChangeJSON(t *testing.T) {
	msg := NewRecordChange(EntityTransaction, OpCreate, "abc-123")
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := RecordChangeFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Entity != EntityTransaction || back.Op != OpCreate || back.ID != "abc-123" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if back.Timestamp.IsZero() {
		t.Fatalf("timestamp not carried")
	}

	if _, err := RecordChangeFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestNilClientPublishIsNoop(t *testing.T) {
	var c *Client
	if err := c.PublishChange(context.Background(), NewRecordChange(EntityBudget, OpDelete, "x")); err != nil {
		t.Fatalf("nil client publish should be a no-op, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil client close should be a no-op, got %v", err)
	}
}
