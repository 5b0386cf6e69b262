package amqp

import "testing"

func TestRefreshMessageRoundTrip(t *testing.T) {
	msg := NewRefreshMessage("run-42", 17)
	if msg.Timestamp.IsZero() {
		t.Fatalf("no timestamp assigned")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := RefreshMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.RunID != "run-42" || got.Imported != 17 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}

func TestRefreshMessageFromJSONInvalid(t *testing.T) {
	if _, err := RefreshMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
