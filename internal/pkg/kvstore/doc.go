// Package kvstore provides a small key-value store with per-key expiry.
//
// Values are strings, keys expire independently and a group of keys can be
// written atomically behind a guard key. Redis backs production deployments;
// Memory serves tests and single-instance runs.
package kvstore
