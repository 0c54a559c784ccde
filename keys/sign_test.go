package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"testing"

	"wireskip.dev/core/envelope"
	"wireskip.dev/core/model"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func mustKeyPair(t *testing.T) envelope.KeyPair {
	t.Helper()
	kp, err := envelope.GenerateKeyPair(&deterministicReader{})
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	return kp
}

func TestSignSHA256_VerifiesWithCryptoEd25519(t *testing.T) {
	kp := mustKeyPair(t)
	msg := []byte("hello")

	sig, err := Sign(kp, HashSHA256, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	digest := sha256.Sum256(msg)
	if !ed25519.Verify(kp.Public().PublicKey(), digest[:], sig.Bytes()) {
		t.Fatalf("signature did not verify")
	}
}

func TestSignVerify_AllDigests(t *testing.T) {
	kp := mustKeyPair(t)
	msg := []byte("hello")
	for _, alg := range []string{HashNone, HashSHA256, HashSHA512, HashSHA3256} {
		sig, err := Sign(kp, alg, msg)
		if err != nil {
			t.Fatalf("Sign(%q): %v", alg, err)
		}
		ok, err := Verify(kp.Public(), alg, msg, sig)
		if err != nil || !ok {
			t.Fatalf("Verify(%q) = %v, %v", alg, ok, err)
		}
		ok, err = Verify(kp.Public(), alg, []byte("other"), sig)
		if err != nil || ok {
			t.Fatalf("Verify(%q) accepted a different message", alg)
		}
	}
}

func TestSignUnsupportedDigest(t *testing.T) {
	if _, err := Sign(mustKeyPair(t), "md5", []byte("x")); err == nil {
		t.Fatalf("expected error for unsupported hash")
	}
}

func TestSignPof(t *testing.T) {
	kp := mustKeyPair(t)
	p, err := SignPof(kp, HashSHA3256, "credit", "n0nce", 1700000000)
	if err != nil {
		t.Fatalf("SignPof: %v", err)
	}
	if p.PofType != "credit" || p.Nonce != "n0nce" || p.Expiration != 1700000000 {
		t.Fatalf("unexpected proof fields: %+v", p)
	}
	c := model.Contract{PublicKey: kp.Public()}
	ok, err := VerifyPof(c, HashSHA3256, p)
	if err != nil || !ok {
		t.Fatalf("VerifyPof = %v, %v", ok, err)
	}

	p.Expiration++
	ok, err = VerifyPof(c, HashSHA3256, p)
	if err != nil || ok {
		t.Fatalf("VerifyPof accepted a modified proof")
	}
}
