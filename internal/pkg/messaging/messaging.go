package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the broker.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// HeaderMessageID carries the publisher assigned message id. NATS JetStream
// uses the same header for de-duplication.
const HeaderMessageID = "Nats-Msg-Id"

// Messaging can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a subject.
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a subject until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	// ID is written to HeaderMessageID when not empty.
	ID string
	// Body is the message payload.
	Body []byte
	// Headers support duplicate keys.
	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult describes an accepted message.
type PublishResult struct {
	MessageID string
	Subject   string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Headers() []Header
	// Header returns the first value of key, or "".
	Header(key string) string
	// ID returns the publisher assigned message id, or "".
	ID() string
	Subject() string
	// Timestamp is the time the message was received.
	Timestamp() time.Time
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
