package envelope

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
)

// KeyPair is an ed25519 secret key together with its verifying key.
//
// Only the secret is stored. The verifying key is derived from it on every
// use, so the zero value is the pair of the all-zero seed and there is no
// way to build a KeyPair whose public half was supplied from outside.
type KeyPair struct {
	secret SecretKey
}

// NewKeyPair returns the pair for a secret key.
func NewKeyPair(secret SecretKey) KeyPair {
	return KeyPair{secret: secret}
}

// GenerateKeyPair creates a new pair from rand, or crypto/rand when nil.
func GenerateKeyPair(r io.Reader) (KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}
	var secret SecretKey
	if _, err := io.ReadFull(r, secret[:]); err != nil {
		return KeyPair{}, err
	}
	return NewKeyPair(secret), nil
}

// Secret returns the secret half.
func (kp KeyPair) Secret() SecretKey { return kp.secret }

// Public returns the verifying key derived from the secret.
func (kp KeyPair) Public() VerifyingKey { return kp.secret.Public() }

// IsZero reports whether kp holds the all-zero seed, i.e. no key was loaded.
func (kp KeyPair) IsZero() bool { return kp.secret == SecretKey{} }

// PrivateKey returns kp in crypto/ed25519 form.
func (kp KeyPair) PrivateKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(kp.secret[:])
}

// Sign signs msg with the pair's secret key.
func (kp KeyPair) Sign(msg []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(kp.PrivateKey(), msg))
	return sig
}

// String renders the public half only.
func (kp KeyPair) String() string { return kp.Public().String() }

type keyPairJSON struct {
	Secret SecretKey    `json:"secret"`
	Public VerifyingKey `json:"public"`
}

func (kp KeyPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyPairJSON{Secret: kp.secret, Public: kp.Public()})
}

// UnmarshalJSON requires "secret". A "public" member is validated as a
// verifying key but never trusted: the public half is re-derived.
func (kp *KeyPair) UnmarshalJSON(data []byte) error {
	obj, err := DecodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.Require("secret"); err != nil {
		return err
	}
	var secret SecretKey
	if err := obj.Field("secret", &secret); err != nil {
		return err
	}
	var public VerifyingKey
	if err := obj.Field("public", &public); err != nil {
		return err
	}
	*kp = NewKeyPair(secret)
	return nil
}
