package envelope

import (
	"crypto/ed25519"

	"filippo.io/edwards25519"
)

const (
	VerifyingKeySize = ed25519.PublicKeySize
	SecretKeySize    = ed25519.SeedSize
	SignatureSize    = ed25519.SignatureSize
)

// VerifyingKey is an ed25519 public key.
type VerifyingKey [VerifyingKeySize]byte

// SecretKey is an ed25519 private scalar seed. It carries no public half.
type SecretKey [SecretKeySize]byte

// Signature is a detached ed25519 signature.
type Signature [SignatureSize]byte

var (
	_ Material = VerifyingKey{}
	_ Material = SecretKey{}
	_ Material = Signature{}
)

func checkPoint(b []byte) error {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err
}

// NewVerifyingKey validates b as an ed25519 public key.
func NewVerifyingKey(b []byte) (VerifyingKey, error) {
	var k VerifyingKey
	if len(b) != VerifyingKeySize {
		return k, lengthError(k.Kind(), VerifyingKeySize, len(b))
	}
	if err := checkPoint(b); err != nil {
		return k, WrapError(KindFormat, "ENV-FMT-001", "invalid verifying key", err)
	}
	copy(k[:], b)
	return k, nil
}

// ParseVerifyingKey decodes the envelope text form of a verifying key.
func ParseVerifyingKey(s string) (VerifyingKey, error) {
	var k VerifyingKey
	err := k.UnmarshalText([]byte(s))
	return k, err
}

func (VerifyingKey) Kind() string { return "verifying key" }

func (k VerifyingKey) Bytes() []byte { return append([]byte(nil), k[:]...) }

// PublicKey returns k as a crypto/ed25519 public key.
func (k VerifyingKey) PublicKey() ed25519.PublicKey { return ed25519.PublicKey(k.Bytes()) }

func (k VerifyingKey) String() string { return Encode(k) }

func (k VerifyingKey) MarshalText() ([]byte, error) { return []byte(Encode(k)), nil }

func (k *VerifyingKey) UnmarshalText(text []byte) error {
	return decodeFixed(k.Kind(), text, k[:], checkPoint)
}

// ParseSecretKey decodes the envelope text form of a secret key.
func ParseSecretKey(s string) (SecretKey, error) {
	var k SecretKey
	err := k.UnmarshalText([]byte(s))
	return k, err
}

func (SecretKey) Kind() string { return "secret key" }

func (k SecretKey) Bytes() []byte { return append([]byte(nil), k[:]...) }

func (k SecretKey) String() string { return Encode(k) }

func (k SecretKey) MarshalText() ([]byte, error) { return []byte(Encode(k)), nil }

func (k *SecretKey) UnmarshalText(text []byte) error {
	return decodeFixed(k.Kind(), text, k[:], nil)
}

// Public derives the verifying key for k.
func (k SecretKey) Public() VerifyingKey {
	var pub VerifyingKey
	copy(pub[:], ed25519.NewKeyFromSeed(k[:]).Public().(ed25519.PublicKey))
	return pub
}

// ParseSignature decodes the envelope text form of a signature.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	err := sig.UnmarshalText([]byte(s))
	return sig, err
}

func (Signature) Kind() string { return "signature" }

func (s Signature) Bytes() []byte { return append([]byte(nil), s[:]...) }

func (s Signature) String() string { return Encode(s) }

func (s Signature) MarshalText() ([]byte, error) { return []byte(Encode(s)), nil }

func (s *Signature) UnmarshalText(text []byte) error {
	return decodeFixed(s.Kind(), text, s[:], nil)
}

// Verify reports whether s is a valid signature of msg by pub.
func (s Signature) Verify(pub VerifyingKey, msg []byte) bool {
	return ed25519.Verify(pub.PublicKey(), msg, s[:])
}
