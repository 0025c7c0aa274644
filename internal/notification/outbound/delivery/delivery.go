package delivery

import (
	"context"

	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/notifier"
	"go.opentelemetry.io/otel/codes"
)

// Delivery sends codes through a direct channel such as SMTP or SNS.
type Delivery struct {
	client notifier.Notifier
	ins    instrument.Instrumentation
}

func New(client notifier.Notifier, ins instrument.Instrumentation) *Delivery {
	return &Delivery{client: client, ins: ins}
}

func (d *Delivery) Send(ctx context.Context, subject, code string) error {
	ctx, span := d.ins.Tracer("notification.outbound.delivery").Start(ctx, "Send")
	defer span.End()

	if _, err := d.client.Send(ctx, subject, code); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
