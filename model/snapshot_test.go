package model

import (
	"encoding/json"
	"testing"

	"wireskip.dev/core/envelope"
)

func TestSnapshot_Withdrawal_JSONShape(t *testing.T) {
	w := Withdrawal{
		ID:                  "w-1",
		WithdrawalStateData: WithdrawalStateData{State: WithdrawalComplete, StateChanged: 1700000000},
		WithdrawalRequest:   WithdrawalRequest{Amount: 42, WType: "lightning", Destination: "lnbc1"},
		Receipt:             "r-1",
	}

	b, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"id\": \"w-1\",\n" +
		"  \"state\": \"Complete\",\n" +
		"  \"state_changed\": 1700000000,\n" +
		"  \"withdrawal_request\": {\n" +
		"    \"amount\": 42,\n" +
		"    \"type\": \"lightning\",\n" +
		"    \"destination\": \"lnbc1\"\n" +
		"  },\n" +
		"  \"receipt\": \"r-1\"\n" +
		"}"
	if string(b) != want {
		t.Fatalf("unexpected JSON shape\n--- got ---\n%s\n--- want ---\n%s", b, want)
	}
}

func TestSnapshot_Accesskey_JSONShape(t *testing.T) {
	var pub envelope.VerifyingKey
	// Encoding of the edwards25519 identity point.
	pub[0] = 1
	v, err := ParseVersion("0.1.0")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	u, err := ParseURL("https://contract.example/api")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	ak := Accesskey{Version: v, Contract: Contract{Endpoint: u, PublicKey: pub}}

	b, err := json.Marshal(ak)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	const want = `{"version":"0.1.0","contract":{"endpoint":"https://contract.example/api",` +
		`"public_key":"AQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},"pofs":[]}`
	if string(b) != want {
		t.Fatalf("unexpected JSON shape\n got %s\nwant %s", b, want)
	}
}

func TestSnapshot_Status_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewStatus(404, "no such access key"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"code":404,"description":"no such access key"}` {
		t.Fatalf("unexpected JSON shape: %s", b)
	}
}
