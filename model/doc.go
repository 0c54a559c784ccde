// Package model defines the access-key and withdrawal records exchanged with
// wallets, issuers and contract endpoints.
//
// Decoding is structural only: every cryptographic field goes through the
// envelope codec, required members must be present, and enumerations must
// name a declared variant. No signature is verified and no expiration is
// enforced here; a successfully decoded record is well-formed, nothing more.
package model
