package model

import (
	"encoding/json"
	"time"

	"github.com/ipfs/go-cid"

	"wireskip.dev/core/cidutil"
	"wireskip.dev/core/envelope"
	"wireskip.dev/core/utime"
)

// Contract describes the authority that issues proofs for an access key.
type Contract struct {
	Endpoint  URL                   `json:"endpoint"`
	PublicKey envelope.VerifyingKey `json:"public_key"`
}

func (c *Contract) UnmarshalJSON(data []byte) error {
	obj, err := envelope.DecodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.Require("endpoint", "public_key"); err != nil {
		return err
	}
	var out Contract
	if err := obj.Field("endpoint", &out.Endpoint); err != nil {
		return err
	}
	if err := obj.Field("public_key", &out.PublicKey); err != nil {
		return err
	}
	*c = out
	return nil
}

// Pof is a single proof-of-funding: a typed, nonce-bearing claim signed by the
// contract and valid until Expiration (Unix seconds).
type Pof struct {
	// "type" is a Go keyword; the wire name is kept as is.
	PofType    string             `json:"type"`
	Nonce      string             `json:"nonce"`
	Expiration int64              `json:"expiration"`
	Signature  envelope.Signature `json:"signature"`
}

func (p *Pof) UnmarshalJSON(data []byte) error {
	obj, err := envelope.DecodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.Require("type", "nonce", "expiration", "signature"); err != nil {
		return err
	}
	var out Pof
	if err := obj.Field("type", &out.PofType); err != nil {
		return err
	}
	if err := obj.Field("nonce", &out.Nonce); err != nil {
		return err
	}
	if err := obj.Field("expiration", &out.Expiration); err != nil {
		return err
	}
	if err := obj.Field("signature", &out.Signature); err != nil {
		return err
	}
	*p = out
	return nil
}

// SigningBytes returns the claim an issuer signs: the JSON object of type,
// nonce and expiration, in that order.
func (p Pof) SigningBytes() []byte {
	b, _ := json.Marshal(struct {
		PofType    string `json:"type"`
		Nonce      string `json:"nonce"`
		Expiration int64  `json:"expiration"`
	}{p.PofType, p.Nonce, p.Expiration})
	return b
}

// ExpiresAt returns Expiration as a time.
func (p Pof) ExpiresAt() time.Time { return utime.Time(p.Expiration) }

// Expired reports whether now is past the proof's expiration.
func (p Pof) Expired(now time.Time) bool { return utime.Unix(now) > p.Expiration }

// Accesskey bundles a contract with the proofs issued under it. Pofs keep
// their issuing order.
type Accesskey struct {
	Version  Version  `json:"version"`
	Contract Contract `json:"contract"`
	Pofs     []Pof    `json:"pofs"`
}

// NewAccesskey returns an access key holding a copy of pofs.
func NewAccesskey(version Version, contract Contract, pofs ...Pof) Accesskey {
	return Accesskey{Version: version, Contract: contract, Pofs: append([]Pof{}, pofs...)}
}

type accesskeyJSON Accesskey

func (a Accesskey) MarshalJSON() ([]byte, error) {
	out := accesskeyJSON(a)
	if out.Pofs == nil {
		out.Pofs = []Pof{}
	}
	return json.Marshal(out)
}

func (a *Accesskey) UnmarshalJSON(data []byte) error {
	obj, err := envelope.DecodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.Require("version", "contract", "pofs"); err != nil {
		return err
	}
	var out Accesskey
	if err := obj.Field("version", &out.Version); err != nil {
		return err
	}
	if err := obj.Field("contract", &out.Contract); err != nil {
		return err
	}
	if err := envelope.FieldList(obj, "pofs", &out.Pofs); err != nil {
		return err
	}
	*a = out
	return nil
}

// Fingerprint returns the CIDv1 (raw, sha2-256) of the key's JSON encoding.
func (a Accesskey) Fingerprint() (cid.Cid, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return cid.Undef, err
	}
	return cidutil.CIDv1RawSHA256CID(b)
}

// HasFingerprint reports whether s is the fingerprint of a.
func (a Accesskey) HasFingerprint(s string) (bool, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	return cidutil.Matches(s, b)
}

// Expired returns the proofs that have expired at now, in order.
func (a Accesskey) Expired(now time.Time) []Pof {
	var out []Pof
	for _, p := range a.Pofs {
		if p.Expired(now) {
			out = append(out, p)
		}
	}
	return out
}

// AccesskeyRequest asks an issuer for Quantity proofs of a type, each valid
// for Duration seconds.
type AccesskeyRequest struct {
	// "type" is a Go keyword; the wire name is kept as is.
	PofType  string `json:"type"`
	Quantity uint64 `json:"quantity"`
	Duration int64  `json:"duration"`
}

func (r *AccesskeyRequest) UnmarshalJSON(data []byte) error {
	obj, err := envelope.DecodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.Require("type", "quantity", "duration"); err != nil {
		return err
	}
	var out AccesskeyRequest
	if err := obj.Field("type", &out.PofType); err != nil {
		return err
	}
	if err := obj.Field("quantity", &out.Quantity); err != nil {
		return err
	}
	if err := obj.Field("duration", &out.Duration); err != nil {
		return err
	}
	*r = out
	return nil
}
