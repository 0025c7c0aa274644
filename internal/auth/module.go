package auth

import (
	"errors"

	"github.com/shandysiswandi/otpauth/internal/auth/inbound"
	"github.com/shandysiswandi/otpauth/internal/auth/outbound/cache"
	"github.com/shandysiswandi/otpauth/internal/auth/outbound/mq"
	"github.com/shandysiswandi/otpauth/internal/auth/outbound/notify"
	"github.com/shandysiswandi/otpauth/internal/auth/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/hash"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/pkg/notifier"
	"github.com/shandysiswandi/otpauth/internal/pkg/otp"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
)

var (
	errNotifierRequired  = errors.New("auth: notifier is required")
	errPublisherRequired = errors.New("auth: publisher is required for the nats notifier driver")
)

type Dependency struct {
	Store      kvstore.Store              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Code       otp.Generator              `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	UUID       uid.StringID               `validate:"required"`

	// NotifierDriver selects delivery. With notifier.DriverNATS the code is
	// published to Publisher for the notification worker, otherwise Notifier
	// delivers it inline.
	NotifierDriver string `validate:"required"`
	Notifier       notifier.Notifier
	Publisher      messaging.Publisher
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	sender := dep.Notifier
	if dep.NotifierDriver == notifier.DriverNATS {
		if dep.Publisher == nil {
			return errPublisherRequired
		}
		sender = mq.NewMessaging(dep.Publisher, dep.UUID, dep.Clock, usecase.OTPTTL(dep.Config), dep.Instrument)
	}
	if sender == nil {
		return errNotifierRequired
	}

	repoCache := cache.New(dep.Store, dep.Instrument)
	repoNotify := notify.New(sender, dep.NotifierDriver, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoCache:    repoCache,
		RepoNotifier: repoNotify,
		Validator:    dep.Validator,
		Config:       dep.Config,
		HMAC:         dep.HMAC,
		Code:         dep.Code,
		JWT:          dep.JWT,
		Clock:        dep.Clock,
		Instrument:   dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, dep.Config, uc)

	return nil
}
