// Package cidutil derives content identifiers for serialized records.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Matches reports whether s is the CID of data under CIDv1RawSHA256CID.
func Matches(s string, data []byte) (bool, error) {
	want, err := cid.Decode(s)
	if err != nil {
		return false, fmt.Errorf("cidutil: %w", err)
	}
	got, err := CIDv1RawSHA256CID(data)
	if err != nil {
		return false, err
	}
	return want.Equals(got), nil
}
