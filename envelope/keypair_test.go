package envelope

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestKeyPairJSONRoundTrip(t *testing.T) {
	kp := mustKeyPair(t, 1)
	b, err := json.Marshal(kp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"secret":"` + kp.Secret().String() + `","public":"` + kp.Public().String() + `"}`
	if string(b) != want {
		t.Fatalf("unexpected JSON:\n got %s\nwant %s", b, want)
	}

	var got KeyPair
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != kp {
		t.Fatalf("key pair mismatch after round trip")
	}
}

func TestKeyPairSecretOnly(t *testing.T) {
	kp := mustKeyPair(t, 2)
	full, err := json.Marshal(kp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var a, b KeyPair
	if err := json.Unmarshal(full, &a); err != nil {
		t.Fatalf("Unmarshal full: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"secret":"`+kp.Secret().String()+`"}`), &b); err != nil {
		t.Fatalf("Unmarshal secret-only: %v", err)
	}
	if a != b {
		t.Fatalf("secret-only decode differs from full decode")
	}
	if b.Public() != kp.Secret().Public() {
		t.Fatalf("public half not derived from secret")
	}
}

func TestKeyPairIgnoresSuppliedPublic(t *testing.T) {
	kp := mustKeyPair(t, 3)
	other := mustKeyPair(t, 99)
	in := `{"public":"` + other.Public().String() + `","secret":"` + kp.Secret().String() + `"}`

	var got KeyPair
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Public() != kp.Public() {
		t.Fatalf("expected derived public key, got supplied one")
	}
	if got.Public() == other.Public() {
		t.Fatalf("tampered public key was accepted")
	}
}

func TestKeyPairStructuralErrors(t *testing.T) {
	kp := mustKeyPair(t, 4)
	sec := kp.Secret().String()
	pub := kp.Public().String()

	var got KeyPair
	err := json.Unmarshal([]byte(`{"public":"`+pub+`"}`), &got)
	requireKind(t, err, KindMissingField)

	err = json.Unmarshal([]byte(`{"secret":null}`), &got)
	requireKind(t, err, KindMissingField)

	err = json.Unmarshal([]byte(`{"secret":"`+sec+`","secret":"`+sec+`"}`), &got)
	requireKind(t, err, KindDuplicateField)

	err = json.Unmarshal([]byte(`{"secret":"`+sec+`","public":"`+pub+`","public":"`+pub+`"}`), &got)
	requireKind(t, err, KindDuplicateField)

	err = json.Unmarshal([]byte(`{"secret":"`+b64(31)+`"}`), &got)
	requireKind(t, err, KindLength)

	err = json.Unmarshal([]byte(`{"secret":"`+sec+`","public":"`+b64(33)+`"}`), &got)
	requireKind(t, err, KindLength)

	err = json.Unmarshal([]byte(`["`+sec+`"]`), &got)
	requireKind(t, err, KindFormat)

	if !got.IsZero() {
		t.Fatalf("failed decodes must not produce a partial key pair")
	}
}

func TestKeyPairErrorNamesField(t *testing.T) {
	var got KeyPair
	err := json.Unmarshal([]byte(`{"secret":"%%%"}`), &got)
	requireKind(t, err, KindDecode)
	if !strings.HasPrefix(err.Error(), "secret: ") {
		t.Fatalf("expected error to name the field, got %q", err.Error())
	}
}

func TestKeyPairIgnoresUnknownFields(t *testing.T) {
	kp := mustKeyPair(t, 5)
	in := `{"comment":{"nested":[1,2]},"secret":"` + kp.Secret().String() + `"}`
	var got KeyPair
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != kp {
		t.Fatalf("key pair mismatch")
	}
}

func TestKeyPairStringHidesSecret(t *testing.T) {
	kp := mustKeyPair(t, 6)
	if s := kp.String(); strings.Contains(s, kp.Secret().String()) || s != kp.Public().String() {
		t.Fatalf("String must render only the public half, got %q", s)
	}
}

func TestGenerateKeyPairFromCryptoRand(t *testing.T) {
	a, err := GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	b, err := GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct key pairs")
	}
	if a.Secret().Public() != a.Public() {
		t.Fatalf("generated pair is inconsistent")
	}
}

func TestKeyPairZeroValueIsConsistent(t *testing.T) {
	var kp KeyPair
	if !kp.IsZero() {
		t.Fatalf("zero value must report IsZero")
	}
	if kp.Public() != kp.Secret().Public() {
		t.Fatalf("zero value public half not derived from its secret")
	}
	msg := []byte("zero")
	if !kp.Sign(msg).Verify(kp.Public(), msg) {
		t.Fatalf("zero value signature does not verify against Public")
	}

	b, err := json.Marshal(kp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got KeyPair
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != kp {
		t.Fatalf("zero value did not round-trip")
	}
	again, err := json.Marshal(got)
	if err != nil || string(again) != string(b) {
		t.Fatalf("re-encoding changed the document: %s vs %s", again, b)
	}
}
