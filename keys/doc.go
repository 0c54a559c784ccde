// Package keys signs proofs with the process key pair and manages the
// first-run key files.
//
// Signatures are ed25519 over either the raw message or a digest of it
// (sha256, sha512, sha3-256). Store writes config.local.json, which holds the
// key pair, and key.pub, which holds the bare verifying key for distribution.
package keys
