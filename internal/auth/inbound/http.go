package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpauth/internal/auth/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Confirm(ctx context.Context, in usecase.ConfirmInput) (*usecase.ConfirmOutput, error)
	Refresh(ctx context.Context, in usecase.RefreshInput) (*usecase.RefreshOutput, error)
	Session(ctx context.Context) (*usecase.SessionOutput, error)
}

const defaultRefreshCookieMaxAge = 7 * 24 * time.Hour

func RegisterHTTPEndpoint(r *router.Router, cfg config.Config, uc uc) {
	maxAge := cfg.GetSecond("jwt.refresh_token_ttl_seconds")
	if maxAge <= 0 {
		maxAge = defaultRefreshCookieMaxAge
	}

	end := &HTTPEndpoint{
		uc:     uc,
		cookie: refreshCookie{secure: cfg.GetBool("modules.auth.refresh_cookie_secure"), maxAge: maxAge},
	}

	r.POST("/api/v1/auth/login", end.Login)
	r.POST("/api/v1/auth/confirm", end.Confirm)
	r.POST("/api/v1/auth/refresh", end.Refresh)
	r.GET("/api/v1/auth/session", end.Session) // need authenticated
}
