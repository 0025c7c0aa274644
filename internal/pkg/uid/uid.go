// Package uid generates identifiers for tokens, correlation ids and messages.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
