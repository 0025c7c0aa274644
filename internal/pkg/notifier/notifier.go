package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsupportedSubject is returned when a driver cannot reach the subject,
	// for example an email address handed to the SMS driver.
	ErrUnsupportedSubject = errors.New("notifier: unsupported subject")
	// ErrUnknownDriver is returned by the app wiring for an unrecognized driver name.
	ErrUnknownDriver = errors.New("notifier: unknown driver")
)

// Driver names accepted in configuration.
const (
	DriverLog  = "log"
	DriverSMTP = "smtp"
	DriverSNS  = "sns"
	DriverNATS = "nats"
)

// Notifier hands a code to a delivery channel.
type Notifier interface {
	// Send reports delivered=false when the code was only recorded locally.
	Send(ctx context.Context, subject, code string) (delivered bool, err error)
}

// Content is the human readable text shared by every channel.
type Content struct {
	// TTL is how long the code stays valid.
	TTL time.Duration
}

func (c Content) Subject() string {
	return "Your login code"
}

func (c Content) Text(code string) string {
	return fmt.Sprintf(
		"Your one-time login code: %s\nThe code is valid for %d minutes.\nIf you did not request a code, ignore this message.",
		code, int(c.TTL/time.Minute),
	)
}

// Short is used where length matters, like SMS.
func (c Content) Short(code string) string {
	return fmt.Sprintf("Your login code is %s. Valid for %d minutes.", code, int(c.TTL/time.Minute))
}
