package envelope

import (
	"encoding"
	"encoding/base64"
	"fmt"
)

// Encoding is the text encoding shared by every material kind.
var Encoding = base64.RawURLEncoding

// Material is implemented by every encodable key-material kind.
type Material interface {
	encoding.TextMarshaler
	fmt.Stringer

	// Kind names the material for error messages.
	Kind() string
	// Bytes returns a copy of the raw material.
	Bytes() []byte
}

// Encode returns the envelope text form of m. It never fails.
func Encode(m Material) string {
	return Encoding.EncodeToString(m.Bytes())
}

// decodeFixed decodes text into dst, which must have the kind's exact length.
// check, when non-nil, validates the decoded bytes for the kind.
func decodeFixed(kind string, text []byte, dst []byte, check func([]byte) error) error {
	raw := make([]byte, Encoding.DecodedLen(len(text)))
	n, err := Encoding.Decode(raw, text)
	if err != nil {
		return WrapError(KindDecode, "ENV-B64-001", fmt.Sprintf("invalid base64 for %s", kind), err)
	}
	raw = raw[:n]
	// The decoder skips CR/LF and tolerates non-zero trailing bits; neither
	// survives a round trip, so only the canonical spelling is accepted.
	if Encoding.EncodeToString(raw) != string(text) {
		return NewError(KindDecode, "ENV-B64-002", fmt.Sprintf("non-canonical base64 for %s", kind))
	}
	if len(raw) != len(dst) {
		return lengthError(kind, len(dst), len(raw))
	}
	if check != nil {
		if err := check(raw); err != nil {
			return WrapError(KindFormat, "ENV-FMT-001", fmt.Sprintf("invalid %s", kind), err)
		}
	}
	copy(dst, raw)
	return nil
}

func lengthError(kind string, want, got int) error {
	return NewError(KindLength, "ENV-LEN-001", fmt.Sprintf("%s must be %d bytes, got %d", kind, want, got))
}
