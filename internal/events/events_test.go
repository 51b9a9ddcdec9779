package events

import (
	"encoding/json"
	"testing"
)

func TestEventStringSurvivesRoundTrip(t *testing.T) {
	in := Event{Type: EventBeneficiaryCreated, Payload: map[string]any{
		"user_id":  "7f0c",
		"currency": "btc",
		"id":       12,
	}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Event
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.String("currency") != "btc" {
		t.Errorf("currency = %q", out.String("currency"))
	}
	if out.String("id") != "" {
		t.Error("non-string field must read as empty")
	}
	if out.String("missing") != "" {
		t.Error("missing field must read as empty")
	}
}
