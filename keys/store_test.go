package keys

import (
	"encoding/json"
	"os"
	"testing"

	"wireskip.dev/core/envelope"
)

func TestStoreInitializeAndLoad(t *testing.T) {
	ks, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if ks.Exists() {
		t.Fatalf("empty store reports existing key")
	}
	kp := mustKeyPair(t)
	if err := ks.Initialize(kp, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !ks.Exists() {
		t.Fatalf("expected key file after Initialize")
	}

	got, err := ks.LoadKeyPair()
	if err != nil {
		t.Fatalf("LoadKeyPair: %v", err)
	}
	if got != kp {
		t.Fatalf("loaded key pair differs")
	}
	pub, err := ks.LoadPublicKey()
	if err != nil {
		t.Fatalf("LoadPublicKey: %v", err)
	}
	if pub != kp.Public() {
		t.Fatalf("loaded public key differs")
	}

	info, err := os.Stat(ks.LocalConfigPath())
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 key file, got %o", perm)
	}

	b, err := os.ReadFile(ks.PublicKeyPath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s != kp.Public().String() {
		t.Fatalf("key.pub must hold the encoded public key as a JSON string, got %s", b)
	}
}

func TestStoreInitializeRefusesOverwrite(t *testing.T) {
	ks, _ := NewStore(t.TempDir())
	kp := mustKeyPair(t)
	if err := ks.Initialize(kp, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	other, err := ks.Generate(false)
	if err == nil {
		t.Fatalf("expected error when key file exists")
	}
	if !other.IsZero() {
		t.Fatalf("expected zero key pair on error")
	}
	other, err = ks.Generate(true)
	if err != nil {
		t.Fatalf("Generate(overwrite): %v", err)
	}
	got, err := ks.LoadKeyPair()
	if err != nil || got != other {
		t.Fatalf("expected overwritten key pair, got err=%v", err)
	}
}

func TestStoreLoadMissingKeypair(t *testing.T) {
	ks, _ := NewStore(t.TempDir())
	if err := os.WriteFile(ks.LocalConfigPath(), []byte(`{"address":"x"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ks.LoadKeyPair(); err == nil {
		t.Fatalf("expected missing keypair error")
	}
}

func TestNewStoreRequiresDirectory(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStoreRefusesZeroKeyPair(t *testing.T) {
	ks, _ := NewStore(t.TempDir())
	var zero envelope.KeyPair
	if err := ks.Initialize(zero, true); err == nil {
		t.Fatalf("expected error for zero key pair")
	}
	if ks.Exists() {
		t.Fatalf("zero key pair must not be written")
	}
}
