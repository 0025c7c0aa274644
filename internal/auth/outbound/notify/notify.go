package notify

import (
	"context"

	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/notifier"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Notify traces calls to the configured notifier driver.
type Notify struct {
	client notifier.Notifier
	driver string
	ins    instrument.Instrumentation
}

func New(client notifier.Notifier, driver string, ins instrument.Instrumentation) *Notify {
	return &Notify{client: client, driver: driver, ins: ins}
}

func (n *Notify) Send(ctx context.Context, subject, code string) (bool, error) {
	ctx, span := n.ins.Tracer("auth.outbound.notify").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.String("notifier.driver", n.driver))

	delivered, err := n.client.Send(ctx, subject, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("notifier.delivered", delivered))

	return delivered, nil
}
