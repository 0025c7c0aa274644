// Package clock provides a tiny time abstraction.
//
// Production code depends on the Clocker interface instead of calling
// time.Now() directly. Token expiry and key TTLs are computed from it, so
// tests drive them with Fake and never sleep.
package clock
