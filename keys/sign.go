package keys

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/sha3"

	"wireskip.dev/core/envelope"
	"wireskip.dev/core/model"
)

// Supported digests applied to a message before signing. HashNone signs the
// message itself.
const (
	HashNone    = ""
	HashSHA256  = "sha256"
	HashSHA512  = "sha512"
	HashSHA3256 = "sha3-256"
)

func digestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case HashNone:
		return message, nil
	case HashSHA256:
		s := sha256.Sum256(message)
		return s[:], nil
	case HashSHA512:
		s := sha512.Sum512(message)
		return s[:], nil
	case HashSHA3256:
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// Sign signs hash(message) with kp.
func Sign(kp envelope.KeyPair, hashAlg string, message []byte) (envelope.Signature, error) {
	digest, err := digestFor(hashAlg, message)
	if err != nil {
		return envelope.Signature{}, err
	}
	return kp.Sign(digest), nil
}

// Verify reports whether sig is pub's signature over hash(message).
func Verify(pub envelope.VerifyingKey, hashAlg string, message []byte, sig envelope.Signature) (bool, error) {
	digest, err := digestFor(hashAlg, message)
	if err != nil {
		return false, err
	}
	return sig.Verify(pub, digest), nil
}

// SignPof builds a proof of pofType with the given nonce and expiration and
// signs its claim bytes.
func SignPof(kp envelope.KeyPair, hashAlg, pofType, nonce string, expiration int64) (model.Pof, error) {
	p := model.Pof{PofType: pofType, Nonce: nonce, Expiration: expiration}
	sig, err := Sign(kp, hashAlg, p.SigningBytes())
	if err != nil {
		return model.Pof{}, err
	}
	p.Signature = sig
	return p, nil
}

// VerifyPof checks p's signature against the contract's public key.
// Expiration is not considered.
func VerifyPof(c model.Contract, hashAlg string, p model.Pof) (bool, error) {
	return Verify(c.PublicKey, hashAlg, p.SigningBytes(), p.Signature)
}
