package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID string = "cID"

	defaultPublishTimeout = 5 * time.Second
)

// Messaging hands codes to the notification worker over the broker. It
// satisfies notifier.Notifier. Delivered means queued: the server flushed the
// event within the publish timeout, not that a worker sent it. Core NATS
// drops events nobody subscribes to, so the worker must be running.
type Messaging struct {
	client  messaging.Publisher
	uuid    uid.StringID
	clock   clock.Clocker
	ttl     time.Duration
	timeout time.Duration
	ins     instrument.Instrumentation
}

func NewMessaging(
	client messaging.Publisher,
	uuid uid.StringID,
	clk clock.Clocker,
	ttl time.Duration,
	ins instrument.Instrumentation,
) *Messaging {
	return &Messaging{client: client, uuid: uuid, clock: clk, ttl: ttl, timeout: defaultPublishTimeout, ins: ins}
}

func (m *Messaging) Send(ctx context.Context, subject, code string) (bool, error) {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	body, err := json.Marshal(event.OTPIssuedMessage{
		Subject:   subject,
		Code:      code,
		ExpiresAt: m.clock.Now().Add(m.ttl).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	cID := instrument.GetCorrelationID(ctx)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if _, err := m.client.Publish(ctx, event.OTPIssuedDestination, messaging.OutgoingMessage{
		ID:      m.uuid.Generate(),
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	return true, nil
}
