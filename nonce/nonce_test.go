package nonce

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	for _, n := range []int{0, 1, 16, 64, 300} {
		s, err := New(n)
		if err != nil {
			t.Fatalf("New(%d): %v", n, err)
		}
		if len(s) != n {
			t.Fatalf("New(%d) returned %d chars", n, len(s))
		}
		if strings.Trim(s, alphabet) != "" {
			t.Fatalf("nonce %q contains characters outside [A-Za-z0-9]", s)
		}
	}
}

func TestNewIsRandom(t *testing.T) {
	a, _ := New(32)
	b, _ := New(32)
	if a == b {
		t.Fatalf("expected different nonces, got %q twice", a)
	}
}

func TestFromReaderRejectsBiasedBytes(t *testing.T) {
	// 0xFF is above the rejection limit and must be skipped.
	src := bytes.NewReader([]byte{0xFF, 0xFF, 0, 1, 61, 62})
	s, err := FromReader(src, 3)
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if s != "AB9" {
		t.Fatalf("expected AB9, got %q", s)
	}
}

func TestFromReaderShortSource(t *testing.T) {
	if _, err := FromReader(bytes.NewReader([]byte{1}), 4); err == nil {
		t.Fatalf("expected error from exhausted reader")
	}
}
