// Package crypto implements the per-message encryption envelope.
//
// Each note is sealed independently: a fresh 16-byte salt feeds PBKDF2-SHA256
// to derive a one-off AES-256 key from the shared code, and a fresh 12-byte
// nonce feeds AES-GCM. The high iteration count is a deliberate brute-force
// cost control, since the "password" is a short human-chosen code rather than
// a high-entropy secret.
//
// Opening with the wrong code is the expected, non-exceptional outcome of
// this design; it surfaces as ErrDecryptionFailed and callers treat it as a
// normal branch.
package crypto
