package notification

import (
	"context"

	"github.com/shandysiswandi/otpauth/internal/notification/inbound"
	"github.com/shandysiswandi/otpauth/internal/notification/outbound/delivery"
	"github.com/shandysiswandi/otpauth/internal/notification/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/pkg/notifier"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	Messaging   messaging.Consumer         `validate:"required"`
	Notifier    notifier.Notifier          `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDelivery := delivery.New(dep.Notifier, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDelivery: repoDelivery,
		Idempotency:  dep.Idempotency,
		Validator:    dep.Validator,
		Clock:        dep.Clock,
		Instrument:   dep.Instrument,
		MaxRetries:   uint64(max(dep.Config.GetInt("modules.notification.delivery_max_retries"), 0)),
	})

	return inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
}
