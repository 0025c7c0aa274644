// Package hash provides keyed digests for short-lived secrets.
//
// One-time codes are stored as an HMAC digest rather than in plaintext, and
// candidates are checked with a constant-time comparison.
package hash
