// Package envelope is the text codec for fixed-length ed25519 material.
//
// Every kind (VerifyingKey, SecretKey, Signature) encodes to URL-safe,
// unpadded base64 of its exact bytes and decodes back byte-for-byte. A KeyPair
// encodes as an object with "secret" and "public" members; only "secret" is
// trusted on input and the public half is always re-derived from it.
//
// Decoding failures are reported as *Error with a stable Kind:
// Decode (not canonical base64), Length (wrong byte count for the kind),
// Format (bytes rejected by the kind, e.g. not a curve point), and the
// structural kinds MissingField, DuplicateField and UnknownVariant used by
// record decoders.
package envelope
