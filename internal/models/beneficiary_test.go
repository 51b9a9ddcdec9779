package models

import (
	"encoding/json"
	"testing"
)

func TestParseBeneficiaryState(t *testing.T) {
	tests := []struct {
		input    string
		expected BeneficiaryState
	}{
		{"active", StateActive},
		{"Active", StateActive},
		{"ACTIVE", StateActive},
		{" active ", StateActive},
		{"pending", StatePending},
		{"Pending", StatePending},
		{"archived", StateOther},
		{"", StateOther},
		{"activ", StateOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseBeneficiaryState(tt.input)
			if result != tt.expected {
				t.Errorf("ParseBeneficiaryState(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDefaultBeneficiaryIsUnset(t *testing.T) {
	if !DefaultBeneficiary().IsUnset() {
		t.Fatal("default beneficiary must be unset")
	}

	withID := DefaultBeneficiary()
	withID.ID = 3
	if withID.IsUnset() {
		t.Error("beneficiary with id must not be unset")
	}

	withAddr := Beneficiary{Data: CoinAddress{Address: "bc1q"}}
	if withAddr.IsUnset() {
		t.Error("beneficiary with address must not be unset")
	}
}

func TestBeneficiaryJSONInfersDestination(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind BeneficiaryType
	}{
		{"coin", `{"id":1,"currency":"btc","name":"cold","state":"Active","data":{"address":"bc1qxyz"}}`, BeneficiaryTypeCoin},
		{"fiat", `{"id":2,"currency":"usd","name":"bank","state":"pending","data":{"account_number":"123","bank_name":"ACME","full_name":"J Doe"}}`, BeneficiaryTypeFiat},
		{"tagged", `{"id":3,"currency":"eur","name":"x","state":"pending","type":"fiat","data":{"bank_name":"ACME"}}`, BeneficiaryTypeFiat},
		{"no data", `{"id":4,"currency":"btc","name":"x","state":"active","data":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Beneficiary
			if err := json.Unmarshal([]byte(tt.body), &b); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if b.Type() != tt.kind {
				t.Errorf("Type() = %q, want %q", b.Type(), tt.kind)
			}
		})
	}
}

func TestBeneficiaryJSONNormalizesState(t *testing.T) {
	var b Beneficiary
	if err := json.Unmarshal([]byte(`{"id":1,"state":"PENDING","data":{"address":"a"}}`), &b); err != nil {
		t.Fatal(err)
	}
	if b.State != StatePending {
		t.Fatalf("state = %v, want pending", b.State)
	}

	out, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["state"] != "pending" {
		t.Errorf("state = %v, want pending", decoded["state"])
	}
	if decoded["type"] != "coin" {
		t.Errorf("type = %v, want coin", decoded["type"])
	}
}

func TestBeneficiaryListFilterKeepsOrder(t *testing.T) {
	list := BeneficiaryList{Items: []Beneficiary{
		{ID: 1, State: StatePending},
		{ID: 2, State: StateOther},
		{ID: 3, State: StateActive},
		{ID: 4, State: StatePending},
	}}

	got := list.Filter(StateActive, StatePending)
	want := []int64{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("item %d id = %d, want %d", i, got[i].ID, id)
		}
	}
}
