// Package messaging publishes and consumes broker messages behind a small
// interface so use cases never import a broker client directly.
//
// NATS is the supported broker. Consumers run a fixed pool of handler
// goroutines per subscription and ack or nak after the handler returns.
package messaging
