// Package gcmcrypto unwraps the Web Push encryption (RFC 8291) applied to
// FCM data messages: ECDH key agreement with the receiver's P-256 key pair,
// HKDF-SHA256 key derivation, and AES-128-GCM content decryption (RFC 8188).
//
// This is the inverse of a Web Push sender (see e.g. the RFC 8291 Send path
// in golang Web Push libraries): instead of encrypting a payload for a
// subscriber, Unwrap decrypts a payload addressed to this receiver's own
// key pair.
package gcmcrypto
