package domain

import (
	"encoding/json"
	"testing"
)

func TestChangePayloadCloning(t *testing.T) {
	raw := json.RawMessage(`{"id":"b1"}`)
	payload := NewChangePayload(raw)
	raw[2] = 'x'
	if string(payload.Raw()) != `{"id":"b1"}` {
		t.Fatalf("payload shared caller bytes: %s", payload.Raw())
	}
	out := payload.Raw()
	out[2] = 'x'
	if string(payload.Raw()) != `{"id":"b1"}` {
		t.Fatalf("payload exposed internal bytes: %s", payload.Raw())
	}
}

func TestChangePayloadDefinedStates(t *testing.T) {
	undefined := UndefinedChangePayload()
	if undefined.Defined() || !undefined.IsEmpty() || undefined.Raw() != nil {
		t.Fatalf("undefined payload: defined=%v empty=%v", undefined.Defined(), undefined.IsEmpty())
	}
	empty := NewChangePayload(nil)
	if !empty.Defined() || !empty.IsEmpty() {
		t.Fatalf("nil-raw payload should be defined and empty")
	}
	typed, err := NewChangePayloadFromValue(Booking{Base: Base{ID: "b1"}})
	if err != nil {
		t.Fatalf("from value: %v", err)
	}
	if typed.IsEmpty() {
		t.Fatalf("typed payload should carry bytes")
	}
}
