package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpauth/internal/notification/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OTPIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssuedNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: otp issued notification", "message_id", msg.ID())

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "message_id", msg.ID(), "error", err)
		return nil
	}

	in := usecase.ConsumeOTPIssuedInput{
		MessageID: msg.ID(),
		Subject:   payload.Subject,
		Code:      payload.Code,
	}
	if payload.ExpiresAt > 0 {
		in.ExpiresAt = time.Unix(payload.ExpiresAt, 0)
	}

	if err := h.uc.ConsumeOTPIssued(ctx, in); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "message_id", msg.ID(), "error", err)
		return err
	}

	return nil
}
