package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpauth/internal/auth"
	"github.com/shandysiswandi/otpauth/internal/notification"
)

func (a *App) initModules() {
	if err := auth.New(auth.Dependency{
		Store:          a.store,
		Router:         a.router,
		Config:         a.config,
		Instrument:     a.ins,
		Validator:      a.validator,
		Notifier:       a.notifier,
		NotifierDriver: a.notifierDriver,
		Publisher:      a.messaging,
		UUID:           a.uuid,
		HMAC:           a.hmac,
		Code:           a.code,
		JWT:            a.jwt,
		Clock:          a.clock,
	}); err != nil {
		slog.Error("failed to init module auth", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Messaging:   a.messaging,
			Notifier:    a.delivery,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
