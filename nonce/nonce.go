// Package nonce generates random alphanumeric nonces for proofs.
package nonce

import (
	"crypto/rand"
	"io"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// largest multiple of len(alphabet) that fits in a byte; bytes at or above it
// are rejected so every character is equally likely.
const limit = 256 - 256%len(alphabet)

// New returns a nonce of n characters from [A-Za-z0-9] drawn from crypto/rand.
func New(n int) (string, error) {
	return FromReader(rand.Reader, n)
}

// FromReader is New with an explicit randomness source.
func FromReader(r io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
